/*
backup.go - Periodic backup of the persisted booth state

PURPOSE:
  Periodically copies the three persisted blobs (catalog, events,
  ledger) to backup keys in the same store. A corrupted or fat-fingered
  state can be recovered by copying a backup blob back by hand.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - Holds the API mutex while copying so all three blobs come from
    the same quiescent state
  - Skips keys that have never been written
  - Copy failures are logged and never interrupt request handling

CONFIGURATION:
  - Interval: How often to copy (zero disables the scheduler)

USAGE:
  scheduler := NewBackupScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - pos/store.go: Blob keys
  - cmd/server/main.go: Wiring and interval configuration
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/booth-ledger/pos"
)

// backupPrefix is prepended to each blob key for its backup copy.
const backupPrefix = "backup/"

// BackupScheduler copies the persisted blobs on a timer.
type BackupScheduler struct {
	Store    pos.BlobStore
	Handler  *Handler
	Interval time.Duration
	Log      zerolog.Logger

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewBackupScheduler creates a new scheduler.
func NewBackupScheduler(store pos.BlobStore, handler *Handler) *BackupScheduler {
	return &BackupScheduler{
		Store:    store,
		Handler:  handler,
		Interval: 10 * time.Minute,
		Log:      zerolog.Nop(),
		stop:     make(chan bool),
	}
}

// Start begins the scheduler.
func (bs *BackupScheduler) Start() {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if bs.Interval <= 0 {
		bs.Log.Info().Msg("backup scheduler disabled")
		return
	}

	bs.ticker = time.NewTicker(bs.Interval)
	bs.wg.Add(1)

	go bs.run()

	bs.Log.Info().Dur("interval", bs.Interval).Msg("backup scheduler started")
}

// Stop stops the scheduler.
func (bs *BackupScheduler) Stop() {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if bs.ticker != nil {
		bs.ticker.Stop()
		close(bs.stop)
		bs.wg.Wait()
		bs.Log.Info().Msg("backup scheduler stopped")
	}
}

func (bs *BackupScheduler) run() {
	defer bs.wg.Done()

	// Run immediately on start
	bs.backupOnce()

	for {
		select {
		case <-bs.ticker.C:
			bs.backupOnce()
		case <-bs.stop:
			return
		}
	}
}

func (bs *BackupScheduler) backupOnce() {
	ctx := context.Background()

	// Request handlers mutate state under the same mutex; holding it
	// here means the catalog, events, and ledger blobs are copied from
	// one consistent point in time.
	bs.Handler.mu.Lock()
	defer bs.Handler.mu.Unlock()

	copied := 0
	for _, key := range []string{pos.BlobCatalog, pos.BlobEvents, pos.BlobLedger} {
		data, err := bs.Store.Get(ctx, key)
		if err != nil {
			bs.Log.Warn().Err(err).Str("key", key).Msg("backup read failed")
			continue
		}
		if data == nil {
			// Never written, nothing to back up
			continue
		}
		if err := bs.Store.Put(ctx, backupPrefix+key, data); err != nil {
			bs.Log.Warn().Err(err).Str("key", key).Msg("backup write failed")
			continue
		}
		copied++
	}

	if copied > 0 {
		bs.Log.Debug().Int("copied", copied).Msg("backup completed")
	}
}

// RunNow triggers an immediate backup (for testing/admin).
func (bs *BackupScheduler) RunNow() {
	bs.backupOnce()
}
