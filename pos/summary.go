/*
summary.go - Per-event sales aggregation

PURPOSE:
  Answers "how did this event go": per product, how many units sold,
  how much revenue, and how much stock is left right now. Derived on
  demand from the ledger and the live catalog; nothing is cached.

RESOLUTION:
  Names, prices and remaining stock come from the catalog at call
  time, so editing a product retroactively changes the report and a
  deleted product's items vanish from it. Sale items whose product id
  no longer resolves are skipped, never errored.

ORDERING:
  Accumulation is keyed by product id, so row order is unspecified.
  A caller wanting a stable order sorts the result itself; the api
  layer sorts by product name.
*/
package pos

import "github.com/shopspring/decimal"

// ProductSummary is one report row. RemainingStock is nil for
// products whose inventory is unmanaged.
type ProductSummary struct {
	ProductID      ProductID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Count          int             `json:"count"`
	Total          decimal.Decimal `json:"total"`
	RemainingStock *int            `json:"remaining_stock,omitempty"`
}

// Aggregator derives per-event summaries from the ledger and catalog.
type Aggregator struct {
	Catalog *Catalog
	Ledger  *Ledger
}

// Summarize accumulates sold quantity and quantity times current
// price for every sale item recorded against the event, keyed by
// product id, then emits one row per product that still resolves.
func (a *Aggregator) Summarize(eventID EventID) []ProductSummary {
	counts := make(map[ProductID]int)
	totals := make(map[ProductID]decimal.Decimal)

	for _, tx := range a.Ledger.ByEvent(eventID) {
		for _, item := range tx.Items {
			p, ok := a.Catalog.Get(item.ProductID)
			if !ok {
				continue
			}
			counts[item.ProductID] += item.Quantity
			line := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			totals[item.ProductID] = totals[item.ProductID].Add(line)
		}
	}

	out := make([]ProductSummary, 0, len(counts))
	for id, count := range counts {
		p, ok := a.Catalog.Get(id)
		if !ok {
			continue
		}
		row := ProductSummary{
			ProductID:   id,
			ProductName: p.Name,
			Count:       count,
			Total:       totals[id],
		}
		if remaining, managed := a.Catalog.AvailableStock(p); managed {
			r := remaining
			row.RemainingStock = &r
		}
		out = append(out, row)
	}
	return out
}
