/*
ledger.go - The ordered collection of committed sale transactions

PURPOSE:
  Holds every recorded sale in commit order. The ledger is the source
  of truth for aggregation and export. Each mutation persists a full
  snapshot before returning; the returned error is advisory and the
  in-memory change always stands.

SEMANTICS:
  Append:    add to the end
  Replace:   wholesale swap of one record by id, no-op when missing
  DeleteOne: remove by id, no-op when missing
  DeleteAll: clear everything

  Replace and the deletes change rows that may already sit on the
  export surface, so the engine follows them with a full re-export
  (see sale.go). Ids are assumed unique but never enforced; lookups
  take the first match.

SEE ALSO:
  - sale.go: The only writer
  - summary.go: Read-only consumer
*/
package pos

import "context"

type Ledger struct {
	store BlobStore
	txs   []Transaction
}

func NewLedger(store BlobStore) *Ledger {
	return &Ledger{store: store}
}

// LoadLedger restores the ledger from its blob. A missing blob yields
// an empty ledger.
func LoadLedger(ctx context.Context, store BlobStore) (*Ledger, error) {
	l := &Ledger{store: store}
	if store == nil {
		return l, nil
	}
	data, err := store.Get(ctx, BlobLedger)
	if err != nil {
		return l, err
	}
	txs, err := decodeLedger(data)
	if err != nil {
		return l, err
	}
	l.txs = txs
	return l, nil
}

// Append adds a transaction to the end and persists.
func (l *Ledger) Append(ctx context.Context, tx Transaction) error {
	l.txs = append(l.txs, tx)
	return l.Save(ctx)
}

// Replace swaps the record with the given id for tx wholesale, keeping
// its position in history. The stored record keeps the looked-up id.
// Missing id is a no-op.
func (l *Ledger) Replace(ctx context.Context, id TransactionID, tx Transaction) error {
	for i := range l.txs {
		if l.txs[i].ID == id {
			tx.ID = id
			l.txs[i] = tx
			return l.Save(ctx)
		}
	}
	return nil
}

// DeleteOne removes the record with the given id. Missing id is a
// no-op.
func (l *Ledger) DeleteOne(ctx context.Context, id TransactionID) error {
	for i := range l.txs {
		if l.txs[i].ID == id {
			l.txs = append(l.txs[:i], l.txs[i+1:]...)
			return l.Save(ctx)
		}
	}
	return nil
}

// DeleteAll clears the ledger and persists the empty snapshot.
func (l *Ledger) DeleteAll(ctx context.Context) error {
	l.txs = nil
	return l.Save(ctx)
}

// Transactions returns a copy of the ledger in commit order.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// Get returns the first transaction with the given id.
func (l *Ledger) Get(id TransactionID) (Transaction, bool) {
	for _, tx := range l.txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

// ByEvent returns the transactions recorded against one event, in
// commit order.
func (l *Ledger) ByEvent(eventID EventID) []Transaction {
	var out []Transaction
	for _, tx := range l.txs {
		if tx.EventID == eventID {
			out = append(out, tx)
		}
	}
	return out
}

func (l *Ledger) Len() int {
	return len(l.txs)
}

// Save persists the full ledger snapshot.
func (l *Ledger) Save(ctx context.Context) error {
	data, err := encodeLedger(l.txs)
	return putBlob(ctx, l.store, BlobLedger, data, err)
}
