/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the catalog and ledger with
	realistic data for testing and demos. Each scenario creates an event,
	products, and a few committed sales that demonstrate specific features.

AVAILABLE SCENARIOS:

	doujin-booth: Art prints, badges, a bundle set, and a freebie
	bake-sale:    Simple priced goods, one unmanaged item
	empty:        Fresh event with no products, for manual testing

HOW SCENARIOS WORK:
 1. Reset state (clear transactions, remove products, reset session)
 2. Ensure and select the scenario's event
 3. Add products
 4. Commit sales through the engine (stock and export update for real)

USAGE VIA API:

	POST /api/scenarios/load
	{"id": "doujin-booth"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Loading a scenario clears all transactions and products. Events are
	kept (there is no event delete operation) and reused by name. Only
	use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler struct, writeJSON/writeError helpers
  - pos/sale.go: CommitSale used to generate the demo transactions
*/
package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/booth-ledger/pos"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "doujin-booth",
		Name:        "Doujin Booth",
		Description: "Art prints and badges with a bundle set and a free sticker",
	},
	{
		ID:          "bake-sale",
		Name:        "Bake Sale",
		Description: "Baked goods with one untracked item (lemonade)",
	},
	{
		ID:          "empty",
		Name:        "Empty Booth",
		Description: "A fresh event with no products, for manual testing",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	// Find the scenario details
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var req LoadScenarioRequest
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.resetState(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset state", err)
		return
	}

	var err error
	switch req.ID {
	case "doujin-booth":
		err = h.loadDoujinBoothScenario(ctx)
	case "bake-sale":
		err = h.loadBakeSaleScenario(ctx)
	case "empty":
		err = h.loadEmptyScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	// Track the loaded scenario
	h.currentScenario = req.ID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// resetState clears transactions and products and resets the sale-entry
// session. Events survive; loaders reuse them by name.
func (h *Handler) resetState(ctx context.Context) error {
	if err := h.Engine.DeleteAllTransactions(ctx); err != nil {
		return err
	}
	for _, p := range h.Catalog.Products() {
		if err := h.Catalog.Remove(ctx, p.ID); err != nil {
			return err
		}
	}
	h.Session.Reset()
	h.currentScenario = ""
	return nil
}

// ensureEvent returns the ID of the event with the given name, creating
// it when no event of that name exists yet.
func (h *Handler) ensureEvent(ctx context.Context, name string) (pos.EventID, error) {
	for _, ev := range h.Events.All() {
		if ev.Name == name {
			return ev.ID, nil
		}
	}
	ev := pos.NewEvent(name)
	if err := h.Events.Add(ctx, ev); err != nil {
		return "", err
	}
	return ev.ID, nil
}

func (h *Handler) loadDoujinBoothScenario(ctx context.Context) error {
	eventID, err := h.ensureEvent(ctx, "Comic Market Summer")
	if err != nil {
		return err
	}
	if err := h.Events.Select(ctx, eventID); err != nil {
		return err
	}

	// Catalog: three tracked items, a freebie, and a bundle of the three
	print := pos.NewSimpleProduct("Art Print A4", decimal.NewFromInt(1000), true, 30)
	badge := pos.NewSimpleProduct("Holo Badge", decimal.NewFromInt(500), true, 50)
	zine := pos.NewSimpleProduct("Mini Zine", decimal.NewFromInt(300), true, 20)
	sticker := pos.NewSimpleProduct("Freebie Sticker", decimal.Zero, false, 0)
	set := pos.NewBundleProduct("Starter Set", decimal.NewFromInt(1500), print.ID, badge.ID, zine.ID)

	for _, p := range []pos.Product{print, badge, zine, sticker, set} {
		if err := h.Catalog.Add(ctx, p); err != nil {
			return err
		}
	}

	// A few committed sales so the ledger, summary, and export have data.
	// Committing through the engine decrements stock and appends CSV rows
	// exactly as live sales would.
	h.Session.Basket.Set(print.ID, 2)
	h.Session.Basket.Set(badge.ID, 1)
	h.Session.Profile = pos.Profile{
		AgeGroup: pos.AgeTwenties,
		Gender:   pos.GenderFemale,
		Channel:  pos.ChannelSNS,
		Cashless: true,
	}
	if _, err := h.Engine.CommitSale(ctx, h.Session); err != nil {
		return err
	}

	h.Session.Basket.Set(set.ID, 1)
	h.Session.Basket.Set(sticker.ID, 1)
	h.Session.Profile = pos.Profile{
		AgeGroup: pos.AgeThirties,
		Gender:   pos.GenderMale,
		Channel:  pos.ChannelPasserby,
		Notes:    "asked about the winter set",
	}
	if _, err := h.Engine.CommitSale(ctx, h.Session); err != nil {
		return err
	}

	h.Session.Basket.Set(zine.ID, 3)
	h.Session.Profile = pos.Profile{
		AgeGroup:     pos.AgeTwenties,
		Gender:       pos.GenderOther,
		Channel:      pos.ChannelSampleBook,
		Acquaintance: true,
		Reserved:     true,
	}
	if _, err := h.Engine.CommitSale(ctx, h.Session); err != nil {
		return err
	}

	return nil
}

func (h *Handler) loadBakeSaleScenario(ctx context.Context) error {
	eventID, err := h.ensureEvent(ctx, "School Festival Bake Sale")
	if err != nil {
		return err
	}
	if err := h.Events.Select(ctx, eventID); err != nil {
		return err
	}

	cookie := pos.NewSimpleProduct("Chocolate Chip Cookie", decimal.NewFromInt(200), true, 40)
	bread := pos.NewSimpleProduct("Banana Bread Slice", decimal.NewFromInt(300), true, 25)
	lemonade := pos.NewSimpleProduct("Lemonade Cup", decimal.NewFromInt(150), false, 0)

	for _, p := range []pos.Product{cookie, bread, lemonade} {
		if err := h.Catalog.Add(ctx, p); err != nil {
			return err
		}
	}

	h.Session.Basket.Set(cookie.ID, 3)
	h.Session.Basket.Set(lemonade.ID, 1)
	h.Session.Profile = pos.Profile{
		AgeGroup: pos.AgeUnder18,
		Gender:   pos.GenderOther,
		Channel:  pos.ChannelStaff,
	}
	if _, err := h.Engine.CommitSale(ctx, h.Session); err != nil {
		return err
	}

	return nil
}

func (h *Handler) loadEmptyScenario(ctx context.Context) error {
	eventID, err := h.ensureEvent(ctx, "Test Event")
	if err != nil {
		return err
	}
	return h.Events.Select(ctx, eventID)
}
