/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry go-playground/validator tags and are checked by
  the bindAndValidate helper in handlers.go. The closed vocabularies
  (age group, gender, channel) are enforced with oneof tags so invalid
  tokens never reach the engine.

SEE ALSO:
  - handlers.go: Uses these types
  - pos/types.go: The domain model these map onto
*/
package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/booth-ledger/pos"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ProductDTO represents a catalog entry in API responses.
type ProductDTO struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	ImageRef         string          `json:"image_ref,omitempty"`
	InventoryManaged bool            `json:"inventory_managed"`
	Stock            int             `json:"stock"`
	IsBundle         bool            `json:"is_bundle"`
	ComponentIDs     []string        `json:"component_ids,omitempty"`

	// AvailableStock is the derived availability, absent for
	// unmanaged products.
	AvailableStock *int `json:"available_stock,omitempty"`
}

// ProductRequest is the body for creating or wholesale-editing a
// product. Bundle component checks beyond the tags live in the
// handler.
type ProductRequest struct {
	Name             string          `json:"name" validate:"required"`
	Price            decimal.Decimal `json:"price" validate:"gte=0"`
	ImageRef         string          `json:"image_ref"`
	InventoryManaged bool            `json:"inventory_managed"`
	Stock            int             `json:"stock" validate:"gte=0"`
	IsBundle         bool            `json:"is_bundle"`
	ComponentIDs     []string        `json:"component_ids" validate:"dive,required"`
}

// EventDTO represents an event in API responses.
type EventDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateEventRequest is the request to create an event.
type CreateEventRequest struct {
	Name string `json:"name" validate:"required"`
}

// EventListResponse carries the event list plus the selection.
type EventListResponse struct {
	Events     []EventDTO `json:"events"`
	SelectedID *string    `json:"selected_id"`
}

// BasketLineDTO is one line of the in-progress basket.
type BasketLineDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SetBasketLineRequest sets one basket quantity. Quantity 0 removes
// the line.
type SetBasketLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// ProfileDTO carries the customer survey fields. It doubles as the
// request body for PUT /api/session/profile, so the vocabulary tags
// live here.
type ProfileDTO struct {
	AgeGroup     string `json:"age_group" validate:"required,oneof=under18 twenties thirties forties fiftiesPlus"`
	Gender       string `json:"gender" validate:"required,oneof=male female other"`
	Channel      string `json:"channel" validate:"required,oneof=sns blog passerby sampleBook referral staff"`
	Exhibitor    bool   `json:"exhibitor"`
	Acquaintance bool   `json:"acquaintance"`
	Cashless     bool   `json:"cashless"`
	Reserved     bool   `json:"reserved"`
	Notes        string `json:"notes"`
}

// SessionDTO is the current basket and profile form.
type SessionDTO struct {
	Basket  []BasketLineDTO `json:"basket"`
	Profile ProfileDTO      `json:"profile"`
}

// SaleItemDTO is one line of a recorded transaction. ProductName is
// resolved against the live catalog and omitted when the product is
// gone.
type SaleItemDTO struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
}

// SaleItemRequest is one line of an edited transaction. A missing ID
// gets a fresh one.
type SaleItemRequest struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// TransactionDTO represents a ledger record.
type TransactionDTO struct {
	ID      string        `json:"id"`
	Time    string        `json:"time"`
	Items   []SaleItemDTO `json:"items"`
	Profile ProfileDTO    `json:"profile"`
	EventID string        `json:"event_id"`
}

// EditTransactionRequest replaces a transaction wholesale.
type EditTransactionRequest struct {
	Time    string            `json:"time" validate:"required"`
	Items   []SaleItemRequest `json:"items" validate:"dive"`
	Profile ProfileDTO        `json:"profile"`
	EventID string            `json:"event_id" validate:"required"`
}

// SummaryRowDTO is one row of a per-event summary.
type SummaryRowDTO struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Count          int             `json:"count"`
	Total          decimal.Decimal `json:"total"`
	RemainingStock *int            `json:"remaining_stock,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest picks a demo scenario to load.
type LoadScenarioRequest struct {
	ID string `json:"id" validate:"required"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toProductDTO(p pos.Product, catalog *pos.Catalog) ProductDTO {
	components := make([]string, len(p.ComponentIDs))
	for i, c := range p.ComponentIDs {
		components[i] = string(c)
	}
	dto := ProductDTO{
		ID:               string(p.ID),
		Name:             p.Name,
		Price:            p.Price,
		ImageRef:         p.ImageRef,
		InventoryManaged: p.InventoryManaged,
		Stock:            p.Stock,
		IsBundle:         p.IsBundle,
		ComponentIDs:     components,
	}
	if available, managed := catalog.AvailableStock(p); managed {
		a := available
		dto.AvailableStock = &a
	}
	return dto
}

func toProductDTOs(products []pos.Product, catalog *pos.Catalog) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p, catalog)
	}
	return dtos
}

// productFromRequest builds the domain product for a create (fresh id)
// or a wholesale edit (existing id).
func productFromRequest(id pos.ProductID, req ProductRequest) pos.Product {
	var components []pos.ProductID
	if req.IsBundle {
		components = make([]pos.ProductID, len(req.ComponentIDs))
		for i, c := range req.ComponentIDs {
			components[i] = pos.ProductID(c)
		}
	}
	return pos.Product{
		ID:               id,
		Name:             req.Name,
		Price:            req.Price,
		ImageRef:         req.ImageRef,
		InventoryManaged: req.InventoryManaged,
		Stock:            req.Stock,
		IsBundle:         req.IsBundle,
		ComponentIDs:     components,
	}
}

func toEventDTO(ev pos.Event) EventDTO {
	return EventDTO{ID: string(ev.ID), Name: ev.Name}
}

func toProfileDTO(p pos.Profile) ProfileDTO {
	return ProfileDTO{
		AgeGroup:     string(p.AgeGroup),
		Gender:       string(p.Gender),
		Channel:      string(p.Channel),
		Exhibitor:    p.Exhibitor,
		Acquaintance: p.Acquaintance,
		Cashless:     p.Cashless,
		Reserved:     p.Reserved,
		Notes:        p.Notes,
	}
}

func profileFromDTO(dto ProfileDTO) pos.Profile {
	return pos.Profile{
		AgeGroup:     pos.AgeGroup(dto.AgeGroup),
		Gender:       pos.Gender(dto.Gender),
		Channel:      pos.Channel(dto.Channel),
		Exhibitor:    dto.Exhibitor,
		Acquaintance: dto.Acquaintance,
		Cashless:     dto.Cashless,
		Reserved:     dto.Reserved,
		Notes:        dto.Notes,
	}
}

func toSessionDTO(s *pos.Session) SessionDTO {
	lines := s.Basket.Lines()
	basket := make([]BasketLineDTO, len(lines))
	for i, l := range lines {
		basket[i] = BasketLineDTO{ProductID: string(l.ProductID), Quantity: l.Quantity}
	}
	return SessionDTO{Basket: basket, Profile: toProfileDTO(s.Profile)}
}

func toTransactionDTO(tx pos.Transaction, catalog *pos.Catalog) TransactionDTO {
	items := make([]SaleItemDTO, len(tx.Items))
	for i, item := range tx.Items {
		dto := SaleItemDTO{
			ID:        string(item.ID),
			ProductID: string(item.ProductID),
			Quantity:  item.Quantity,
		}
		if p, ok := catalog.Get(item.ProductID); ok {
			dto.ProductName = p.Name
		}
		items[i] = dto
	}
	return TransactionDTO{
		ID:      string(tx.ID),
		Time:    tx.Time.Format(time.RFC3339),
		Items:   items,
		Profile: toProfileDTO(tx.Profile),
		EventID: string(tx.EventID),
	}
}

func toTransactionDTOs(txs []pos.Transaction, catalog *pos.Catalog) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx, catalog)
	}
	return dtos
}

// transactionFromRequest builds the replacement record for a wholesale
// edit. The ledger re-stamps the id; item ids are kept when provided.
func transactionFromRequest(req EditTransactionRequest) (pos.Transaction, error) {
	at, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		return pos.Transaction{}, fmt.Errorf("invalid time %q: %w", req.Time, err)
	}
	items := make([]pos.SaleItem, len(req.Items))
	for i, item := range req.Items {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		items[i] = pos.SaleItem{
			ID:        pos.SaleItemID(id),
			ProductID: pos.ProductID(item.ProductID),
			Quantity:  item.Quantity,
		}
	}
	return pos.Transaction{
		Time:    at,
		Items:   items,
		Profile: profileFromDTO(req.Profile),
		EventID: pos.EventID(req.EventID),
	}, nil
}

func toSummaryRowDTOs(rows []pos.ProductSummary) []SummaryRowDTO {
	dtos := make([]SummaryRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = SummaryRowDTO{
			ProductID:      string(row.ProductID),
			ProductName:    row.ProductName,
			Count:          row.Count,
			Total:          row.Total,
			RemainingStock: row.RemainingStock,
		}
	}
	return dtos
}
