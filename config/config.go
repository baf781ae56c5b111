package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment
// variables. Every field maps 1:1 to an env var.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// Storage
	DBPath     string `mapstructure:"DB_PATH"`
	ExportPath string `mapstructure:"EXPORT_PATH"`

	// Backup
	BackupIntervalMinutes int `mapstructure:"BACKUP_INTERVAL_MINUTES"` // 0 disables
}

// Load reads configuration from environment variables (and an
// optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for a local booth setup
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_PATH", "./data/booth.db")
	viper.SetDefault("EXPORT_PATH", "./data/sales.csv")
	viper.SetDefault("BACKUP_INTERVAL_MINUTES", 10)

	// Optional .env file for local development, ignored when missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
