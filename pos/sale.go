/*
sale.go - The sale commit protocol and ledger maintenance flows

PURPOSE:
  Engine ties the catalog, events, ledger, session and exporter
  together and runs the operations the frontend calls: commit the
  current basket as a sale, edit or delete past transactions, and
  derive per-event summaries.

COMMIT PROTOCOL (CommitSale):
  1. Preconditions: an event is selected and the basket is non-empty
  2. Validation: every basket line that resolves to a product must
     pass CanSell; the first failure rejects the whole sale with a
     StockShortageError and nothing is mutated. Lines whose product id
     does not resolve are skipped; a dangling reference never blocks
     a sale
  3. Build: one SaleItem per basket line (resolved or not), one
     Transaction stamped with the clock, the session profile and the
     selected event
  4. Apply: append to the ledger (persists), decrement stock for every
     line, persist the catalog, append the rows to the export surface
  5. Reset the session, only now

ADVISORY FAILURES:
  Once step 3 has run the sale has happened. Persistence and export
  failures after that point are logged at warn and the commit still
  reports success; in-memory state is never rolled back over a failed
  write.

EDIT / DELETE:
  Ledger edits and deletes change rows that may already sit on the
  export surface, so each one is followed by a full export rewrite.
  Stock is not restored on edit or delete; corrections go through the
  product form.

SEE ALSO:
  - catalog.go: CanSell and DecrementStock
  - export/: The CSV implementation behind the Exporter interface
*/
package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// EXPORTER - The export surface the engine writes through
// =============================================================================

// Exporter renders committed transactions onto the export surface. The
// CSV implementation lives in the export package. A nil Exporter
// disables exporting.
type Exporter interface {
	// AppendTransaction adds the rows for one new transaction, writing
	// the header first when the surface does not exist yet.
	AppendTransaction(tx Transaction) error

	// RewriteAll regenerates the whole surface from the given ledger.
	RewriteAll(txs []Transaction) error
}

// =============================================================================
// ENGINE - Orchestrates commits, edits and summaries
// =============================================================================

type Engine struct {
	Catalog  *Catalog
	Events   *Events
	Ledger   *Ledger
	Exporter Exporter

	// Log receives advisory persistence and export failures.
	Log zerolog.Logger

	// Now stamps committed transactions. Tests pin it.
	Now func() time.Time
}

func NewEngine(catalog *Catalog, events *Events, ledger *Ledger, exporter Exporter) *Engine {
	return &Engine{
		Catalog:  catalog,
		Events:   events,
		Ledger:   ledger,
		Exporter: exporter,
		Log:      zerolog.Nop(),
		Now:      time.Now,
	}
}

// CommitSale records the session's basket as one transaction against
// the selected event. On success the session is reset and the new
// transaction is returned. On rejection nothing changes anywhere.
func (e *Engine) CommitSale(ctx context.Context, session *Session) (Transaction, error) {
	event, ok := e.Events.Selected()
	if !ok {
		return Transaction{}, ErrNoEventSelected
	}
	if session.Basket.IsEmpty() {
		return Transaction{}, ErrEmptyBasket
	}

	lines := session.Basket.Lines()

	// All-or-nothing check before anything is touched.
	for _, line := range lines {
		p, exists := e.Catalog.Get(line.ProductID)
		if !exists {
			continue
		}
		if !e.Catalog.CanSell(p, line.Quantity) {
			available, _ := e.Catalog.AvailableStock(p)
			return Transaction{}, &StockShortageError{
				ProductID: p.ID,
				Name:      p.Name,
				Requested: line.Quantity,
				Available: available,
			}
		}
	}

	items := make([]SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, NewSaleItem(line.ProductID, line.Quantity))
	}
	tx := Transaction{
		ID:      TransactionID(uuid.NewString()),
		Time:    e.now(),
		Items:   items,
		Profile: session.Profile,
		EventID: event.ID,
	}

	if err := e.Ledger.Append(ctx, tx); err != nil {
		e.warn(err, "ledger persist failed")
	}
	for _, line := range lines {
		e.Catalog.DecrementStock(line.ProductID, line.Quantity)
	}
	if err := e.Catalog.Save(ctx); err != nil {
		e.warn(err, "catalog persist failed")
	}
	if e.Exporter != nil {
		if err := e.Exporter.AppendTransaction(tx); err != nil {
			e.warn(err, "export append failed")
		}
	}

	session.Reset()
	return tx, nil
}

// EditTransaction replaces a past transaction wholesale and rewrites
// the export surface. A missing id is a no-op.
func (e *Engine) EditTransaction(ctx context.Context, id TransactionID, tx Transaction) error {
	if _, ok := e.Ledger.Get(id); !ok {
		return nil
	}
	if err := e.Ledger.Replace(ctx, id, tx); err != nil {
		e.warn(err, "ledger persist failed")
	}
	e.rewriteExport()
	return nil
}

// DeleteTransaction removes one past transaction and rewrites the
// export surface. A missing id is a no-op.
func (e *Engine) DeleteTransaction(ctx context.Context, id TransactionID) error {
	if _, ok := e.Ledger.Get(id); !ok {
		return nil
	}
	if err := e.Ledger.DeleteOne(ctx, id); err != nil {
		e.warn(err, "ledger persist failed")
	}
	e.rewriteExport()
	return nil
}

// DeleteAllTransactions clears the ledger and rewrites the export
// surface down to its header line.
func (e *Engine) DeleteAllTransactions(ctx context.Context) error {
	if err := e.Ledger.DeleteAll(ctx); err != nil {
		e.warn(err, "ledger persist failed")
	}
	e.rewriteExport()
	return nil
}

// Summary aggregates one event's recorded sales. See summary.go.
func (e *Engine) Summary(eventID EventID) []ProductSummary {
	agg := &Aggregator{Catalog: e.Catalog, Ledger: e.Ledger}
	return agg.Summarize(eventID)
}

func (e *Engine) rewriteExport() {
	if e.Exporter == nil {
		return
	}
	if err := e.Exporter.RewriteAll(e.Ledger.Transactions()); err != nil {
		e.warn(err, "export rewrite failed")
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) warn(err error, msg string) {
	e.Log.Warn().Err(err).Msg(msg)
}
