/*
handlers.go - HTTP API handlers for the booth ledger engine

PURPOSE:
  Exposes the engine to the frontend. Handles HTTP request/response,
  JSON binding and validation, and delegates to the engine. This layer
  is also the serialization point: the engine assumes one caller at a
  time, so every handler runs under one mutex.

ENDPOINTS:
  Events:
    GET    /api/events                 List events plus selection
    POST   /api/events                 Create event
    POST   /api/events/{id}/select     Select the current event
    GET    /api/events/{id}/summary    Per-event sales summary

  Products:
    GET    /api/products               List the catalog
    POST   /api/products               Add product (simple or bundle)
    PUT    /api/products/{id}          Edit product wholesale
    DELETE /api/products/{id}          Remove product (hard delete)

  Session:
    GET    /api/session                Current basket and profile
    PUT    /api/session/basket         Set one basket quantity
    PUT    /api/session/profile        Set the survey fields

  Sales:
    POST   /api/sales                  Commit the current basket

  Transactions:
    GET    /api/transactions           Full ledger
    PUT    /api/transactions/{id}      Edit wholesale
    DELETE /api/transactions/{id}      Delete one
    DELETE /api/transactions           Delete all

  Export:
    GET    /api/export                 Download the CSV file

  Scenarios (see scenarios.go):
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Load a demo scenario

ERROR HANDLING:
  - 400: Malformed body or unparseable fields
  - 404: Addressed id does not exist
  - 409: Sale rejected (no event, empty basket, stock shortage)
  - 422: Validation tag failures
  - 500: Internal errors

  Blob persistence failures are advisory: the in-memory change has
  been applied, so the handler logs a warning and still reports
  success.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"reflect"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/booth-ledger/export"
	"github.com/warp/booth-ledger/pos"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. The mutex is the
// single-caller boundary the engine requires: every handler locks it
// for the duration of the operation.
type Handler struct {
	mu sync.Mutex

	Catalog *pos.Catalog
	Events  *pos.Events
	Ledger  *pos.Ledger
	Engine  *pos.Engine
	Session *pos.Session
	CSV     *export.CSV
	Log     zerolog.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler around a wired engine.
func NewHandler(engine *pos.Engine, session *pos.Session, csv *export.CSV, log zerolog.Logger) *Handler {
	return &Handler{
		Catalog: engine.Catalog,
		Events:  engine.Events,
		Ledger:  engine.Ledger,
		Engine:  engine,
		Session: session,
		CSV:     csv,
		Log:     log,
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so validator tags
	// like gte=0 work on price fields instead of panicking.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate decodes the JSON body and runs validator tags.
// Returns false after writing the error response, in which case the
// caller returns immediately.
func bindAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Validation failed",
			Code:    "validation",
			Details: fields,
		})
		return false
	}
	return true
}

// =============================================================================
// EVENT ENDPOINTS
// =============================================================================

// ListEvents returns all events plus the current selection.
// GET /api/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	events := h.Events.All()
	dtos := make([]EventDTO, len(events))
	for i, ev := range events {
		dtos[i] = toEventDTO(ev)
	}
	resp := EventListResponse{Events: dtos}
	if id := h.Events.SelectedID(); id != nil {
		s := string(*id)
		resp.SelectedID = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateEvent adds a new event.
// POST /api/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req CreateEventRequest
	if !bindAndValidate(w, r, &req) {
		return
	}
	ev := pos.NewEvent(req.Name)
	if err := h.Events.Add(r.Context(), ev); err != nil {
		h.logAdvisory(err, "events persist failed")
	}
	writeJSON(w, http.StatusCreated, toEventDTO(ev))
}

// SelectEvent makes an event the current one. Sales commit against it.
// POST /api/events/{id}/select
func (h *Handler) SelectEvent(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := pos.EventID(chi.URLParam(r, "id"))
	ev, ok := h.Events.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	if err := h.Events.Select(r.Context(), id); err != nil {
		h.logAdvisory(err, "events persist failed")
	}
	writeJSON(w, http.StatusOK, toEventDTO(ev))
}

// GetEventSummary returns per-product sold counts, revenue and
// remaining stock for one event, sorted by product name.
// GET /api/events/{id}/summary
func (h *Handler) GetEventSummary(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := pos.EventID(chi.URLParam(r, "id"))
	if _, ok := h.Events.Get(id); !ok {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	rows := h.Engine.Summary(id)
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ProductName < rows[j].ProductName
	})
	writeJSON(w, http.StatusOK, toSummaryRowDTOs(rows))
}

// =============================================================================
// PRODUCT ENDPOINTS
// =============================================================================

// ListProducts returns the whole catalog.
// GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, toProductDTOs(h.Catalog.Products(), h.Catalog))
}

// CreateProduct adds a simple product or a bundle.
// POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req ProductRequest
	if !bindAndValidate(w, r, &req) {
		return
	}
	if req.IsBundle && len(req.ComponentIDs) == 0 {
		writeError(w, http.StatusBadRequest, "A bundle needs at least one component", nil)
		return
	}
	p := productFromRequest(pos.ProductID(uuid.NewString()), req)
	if err := h.Catalog.Add(r.Context(), p); err != nil {
		h.logAdvisory(err, "catalog persist failed")
	}
	writeJSON(w, http.StatusCreated, toProductDTO(p, h.Catalog))
}

// UpdateProduct replaces a product wholesale.
// PUT /api/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := pos.ProductID(chi.URLParam(r, "id"))
	if _, ok := h.Catalog.Get(id); !ok {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	var req ProductRequest
	if !bindAndValidate(w, r, &req) {
		return
	}
	if req.IsBundle && len(req.ComponentIDs) == 0 {
		writeError(w, http.StatusBadRequest, "A bundle needs at least one component", nil)
		return
	}
	p := productFromRequest(id, req)
	if err := h.Catalog.Update(r.Context(), p); err != nil {
		h.logAdvisory(err, "catalog persist failed")
	}
	writeJSON(w, http.StatusOK, toProductDTO(p, h.Catalog))
}

// DeleteProduct hard-removes a product. References from bundles and
// past transactions are left dangling and skipped by readers.
// DELETE /api/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := pos.ProductID(chi.URLParam(r, "id"))
	if _, ok := h.Catalog.Get(id); !ok {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	if err := h.Catalog.Remove(r.Context(), id); err != nil {
		h.logAdvisory(err, "catalog persist failed")
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SESSION ENDPOINTS
// =============================================================================

// GetSession returns the in-progress basket and profile form.
// GET /api/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, toSessionDTO(h.Session))
}

// SetBasketLine sets the quantity for one product. Quantity 0 removes
// the line.
// PUT /api/session/basket
func (h *Handler) SetBasketLine(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req SetBasketLineRequest
	if !bindAndValidate(w, r, &req) {
		return
	}
	h.Session.Basket.Set(pos.ProductID(req.ProductID), req.Quantity)
	writeJSON(w, http.StatusOK, toSessionDTO(h.Session))
}

// SetProfile replaces the survey fields for the sale being rung up.
// PUT /api/session/profile
func (h *Handler) SetProfile(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req ProfileDTO
	if !bindAndValidate(w, r, &req) {
		return
	}
	h.Session.Profile = profileFromDTO(req)
	writeJSON(w, http.StatusOK, toSessionDTO(h.Session))
}

// =============================================================================
// SALE ENDPOINTS
// =============================================================================

// CommitSale records the current basket as one transaction. All-or-
// nothing: any failing line rejects the whole sale with 409 and
// nothing changes.
// POST /api/sales
func (h *Handler) CommitSale(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tx, err := h.Engine.CommitSale(r.Context(), h.Session)
	if err != nil {
		if pos.IsClientError(err) {
			writeError(w, http.StatusConflict, "Sale rejected", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to commit sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx, h.Catalog))
}

// =============================================================================
// TRANSACTION ENDPOINTS
// =============================================================================

// ListTransactions returns the full ledger in commit order.
// GET /api/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, toTransactionDTOs(h.Ledger.Transactions(), h.Catalog))
}

// EditTransaction replaces one record wholesale and rewrites the
// export file.
// PUT /api/transactions/{id}
func (h *Handler) EditTransaction(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := pos.TransactionID(chi.URLParam(r, "id"))
	if _, ok := h.Ledger.Get(id); !ok {
		writeError(w, http.StatusNotFound, "Transaction not found", nil)
		return
	}
	var req EditTransactionRequest
	if !bindAndValidate(w, r, &req) {
		return
	}
	tx, err := transactionFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction", err)
		return
	}
	if err := h.Engine.EditTransaction(r.Context(), id, tx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to edit transaction", err)
		return
	}
	stored, _ := h.Ledger.Get(id)
	writeJSON(w, http.StatusOK, toTransactionDTO(stored, h.Catalog))
}

// DeleteTransaction removes one record and rewrites the export file.
// DELETE /api/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := pos.TransactionID(chi.URLParam(r, "id"))
	if _, ok := h.Ledger.Get(id); !ok {
		writeError(w, http.StatusNotFound, "Transaction not found", nil)
		return
	}
	if err := h.Engine.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteAllTransactions clears the ledger and rewrites the export
// file down to the header.
// DELETE /api/transactions
func (h *Handler) DeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Engine.DeleteAllTransactions(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// EXPORT ENDPOINTS
// =============================================================================

// DownloadExport streams the current CSV file. A booth with no sales
// yet gets a header-only document.
// GET /api/export
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.CSV.Path())
	if os.IsNotExist(err) {
		data = []byte(export.Header + "\n")
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read export file", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// logAdvisory records a tolerated persistence failure. The operation
// has already been applied in memory and is reported as a success.
func (h *Handler) logAdvisory(err error, msg string) {
	h.Log.Warn().Err(err).Msg(msg)
}
