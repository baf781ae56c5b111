/*
store.go - Blob persistence interface and snapshot codecs

PURPOSE:
  Defines the boundary between the engine and durable storage. The
  engine never touches the file system or a database directly; it hands
  opaque snapshots to a keyed blob store collaborator and reads them
  back at startup.

KEY CONCEPTS:
  BlobStore: Keyed get/put of opaque byte blobs
  Blob keys:  One stable key per persisted collection
  Codecs:     JSON snapshot envelopes for catalog, events and ledger

SNAPSHOT CONTRACT:
  Every mutation persists the FULL owning collection, not a delta. The
  blobs are one booth's worth of data, so a full snapshot keeps
  recovery trivial: load three keys and the engine is back.

MISSING KEYS:
  Get returns (nil, nil) for a key that was never written. Decoders
  treat empty input as the empty collection so first launch needs no
  seeding.

IMPLEMENTATIONS:
  - store/memory.go: In-memory map, used by tests and demo mode
  - store/sqlite/sqlite.go: Durable single-file store used by cmd/server

SEE ALSO:
  - catalog.go, events.go, ledger.go: The three persisted collections
*/
package pos

import (
	"context"
	"encoding/json"
)

// =============================================================================
// BLOB STORE - Keyed opaque persistence collaborator
// =============================================================================

// BlobStore is the only durability capability the engine requires.
// Implementations return (nil, nil) from Get for a key never written.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Blob keys for the three persisted collections.
const (
	BlobCatalog = "catalog"
	BlobEvents  = "events"
	BlobLedger  = "ledger"
)

// putBlob writes one snapshot and wraps any failure as an advisory
// PersistError. Callers apply their in-memory change before calling,
// so a returned error never implies a rollback. A nil store disables
// persistence entirely.
func putBlob(ctx context.Context, store BlobStore, key string, data []byte, encodeErr error) error {
	if encodeErr != nil {
		return &PersistError{Key: key, Err: encodeErr}
	}
	if store == nil {
		return nil
	}
	if err := store.Put(ctx, key, data); err != nil {
		return &PersistError{Key: key, Err: err}
	}
	return nil
}

// =============================================================================
// SNAPSHOT CODECS - JSON envelopes, one per blob
// =============================================================================

type catalogSnapshot struct {
	Products []Product `json:"products"`
}

func encodeCatalog(products []Product) ([]byte, error) {
	return json.Marshal(catalogSnapshot{Products: products})
}

func decodeCatalog(data []byte) ([]Product, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var snap catalogSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return snap.Products, nil
}

type eventsSnapshot struct {
	Events     []Event  `json:"events"`
	SelectedID *EventID `json:"selected_id"`
}

func encodeEvents(events []Event, selected *EventID) ([]byte, error) {
	return json.Marshal(eventsSnapshot{Events: events, SelectedID: selected})
}

func decodeEvents(data []byte) ([]Event, *EventID, error) {
	if len(data) == 0 {
		return nil, nil, nil
	}
	var snap eventsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, err
	}
	return snap.Events, snap.SelectedID, nil
}

type ledgerSnapshot struct {
	Transactions []Transaction `json:"transactions"`
}

func encodeLedger(txs []Transaction) ([]byte, error) {
	return json.Marshal(ledgerSnapshot{Transactions: txs})
}

func decodeLedger(data []byte) ([]Transaction, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var snap ledgerSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return snap.Transactions, nil
}
