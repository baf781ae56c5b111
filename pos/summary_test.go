package pos_test

import (
	"context"
	"testing"

	"github.com/warp/booth-ledger/pos"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Note: newEngineFixture comes from sale_test.go

func summaryRow(rows []pos.ProductSummary, id pos.ProductID) (pos.ProductSummary, bool) {
	for _, row := range rows {
		if row.ProductID == id {
			return row, true
		}
	}
	return pos.ProductSummary{}, false
}

// =============================================================================
// SUMMARY TESTS
// =============================================================================

func TestSummarize_AccumulatesAcrossSales(t *testing.T) {
	// GIVEN: Two sales of the same print across one event
	// WHEN: Summarizing the event
	// THEN: One row with the combined count, revenue at current price,
	//       and the remaining stock

	f := newEngineFixture(t)
	ctx := context.Background()
	print := addProduct(t, f.catalog, pos.NewSimpleProduct("Print", yen(1000), true, 10))

	f.session.Basket.Set(print.ID, 2)
	if _, err := f.engine.CommitSale(ctx, f.session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.session.Basket.Set(print.ID, 3)
	if _, err := f.engine.CommitSale(ctx, f.session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := f.engine.Summary(f.eventID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.ProductName != "Print" || row.Count != 5 {
		t.Errorf("unexpected row: %+v", row)
	}
	if !row.Total.Equal(yen(5000)) {
		t.Errorf("expected total 5000, got %s", row.Total)
	}
	if row.RemainingStock == nil || *row.RemainingStock != 5 {
		t.Errorf("expected remaining stock 5, got %v", row.RemainingStock)
	}
}

func TestSummarize_UsesCurrentPrice(t *testing.T) {
	// GIVEN: A sale recorded when the print cost 1000
	// WHEN: The price is raised to 1200 and the event summarized
	// THEN: Revenue is counted at the current price, not the price at
	//       the time of sale

	f := newEngineFixture(t)
	ctx := context.Background()
	print := addProduct(t, f.catalog, pos.NewSimpleProduct("Print", yen(1000), true, 10))

	f.session.Basket.Set(print.ID, 2)
	if _, err := f.engine.CommitSale(ctx, f.session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, _ := f.catalog.Get(print.ID)
	updated.Price = yen(1200)
	if err := f.catalog.Update(ctx, updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := f.engine.Summary(f.eventID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].Total.Equal(yen(2400)) {
		t.Errorf("expected total 2400 at the new price, got %s", rows[0].Total)
	}
}

func TestSummarize_DeletedProductVanishes(t *testing.T) {
	// GIVEN: Sales of a print and a badge, then the badge is deleted
	// WHEN: Summarizing
	// THEN: Only the print row remains, the badge's items are skipped

	f := newEngineFixture(t)
	ctx := context.Background()
	print := addProduct(t, f.catalog, pos.NewSimpleProduct("Print", yen(1000), true, 10))
	badge := addProduct(t, f.catalog, pos.NewSimpleProduct("Badge", yen(500), true, 50))

	f.session.Basket.Set(print.ID, 1)
	f.session.Basket.Set(badge.ID, 2)
	if _, err := f.engine.CommitSale(ctx, f.session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.catalog.Remove(ctx, badge.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := f.engine.Summary(f.eventID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after the delete, got %d", len(rows))
	}
	if rows[0].ProductID != print.ID {
		t.Errorf("expected only the print row, got %+v", rows[0])
	}
}

func TestSummarize_UnmanagedProduct_NoRemainingStock(t *testing.T) {
	// GIVEN: A sale of an untracked sticker
	// WHEN: Summarizing
	// THEN: The row carries no remaining-stock number

	f := newEngineFixture(t)
	ctx := context.Background()
	sticker := addProduct(t, f.catalog, pos.NewSimpleProduct("Sticker", yen(100), false, 0))

	f.session.Basket.Set(sticker.ID, 4)
	if _, err := f.engine.CommitSale(ctx, f.session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := f.engine.Summary(f.eventID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].RemainingStock != nil {
		t.Errorf("expected no remaining stock for untracked product, got %d", *rows[0].RemainingStock)
	}
	if !rows[0].Total.Equal(yen(400)) {
		t.Errorf("expected total 400, got %s", rows[0].Total)
	}
}

func TestSummarize_ScopedToOneEvent(t *testing.T) {
	// GIVEN: Sales under two different events
	// WHEN: Summarizing the first event
	// THEN: The other event's sales do not leak in

	f := newEngineFixture(t)
	ctx := context.Background()
	print := addProduct(t, f.catalog, pos.NewSimpleProduct("Print", yen(1000), true, 10))

	f.session.Basket.Set(print.ID, 2)
	if _, err := f.engine.CommitSale(ctx, f.session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	winter := pos.NewEvent("Winter Market")
	if err := f.engine.Events.Add(ctx, winter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.engine.Events.Select(ctx, winter.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.session.Basket.Set(print.ID, 5)
	if _, err := f.engine.CommitSale(ctx, f.session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := f.engine.Summary(f.eventID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row, ok := summaryRow(rows, print.ID)
	if !ok {
		t.Fatal("print row missing")
	}
	if row.Count != 2 {
		t.Errorf("expected count 2 for the summer event, got %d", row.Count)
	}

	winterRows := f.engine.Summary(winter.ID)
	if len(winterRows) != 1 || winterRows[0].Count != 5 {
		t.Errorf("expected count 5 for the winter event, got %+v", winterRows)
	}
}

func TestSummarize_DeletedTransactionExcluded(t *testing.T) {
	// GIVEN: Two sales, one of which is then deleted
	// WHEN: Summarizing
	// THEN: Only the surviving sale is counted

	f := newEngineFixture(t)
	ctx := context.Background()
	print := addProduct(t, f.catalog, pos.NewSimpleProduct("Print", yen(1000), true, 10))

	f.session.Basket.Set(print.ID, 2)
	tx1, err := f.engine.CommitSale(ctx, f.session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.session.Basket.Set(print.ID, 3)
	if _, err := f.engine.CommitSale(ctx, f.session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.engine.DeleteTransaction(ctx, tx1.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := f.engine.Summary(f.eventID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Count != 3 {
		t.Errorf("expected count 3 after the delete, got %d", rows[0].Count)
	}
}
