/*
catalog.go - Product catalog with bundle availability semantics

PURPOSE:
  Holds the sellable products and answers the three stock questions:
  how many units are available, whether a requested quantity can be
  sold, and the decrement applied after a committed sale.

KEY INSIGHT:
  A bundle has no stock of its own. Its availability is the minimum
  stock over the components that are themselves inventory-managed, so
  selling a bundle draws down every tracked component in lockstep.

AVAILABILITY (AvailableStock):
  unmanaged product   -> absent (unlimited, distinct from zero)
  managed simple item -> its own stock
  managed bundle      -> min stock over managed components; 0 when no
                         component qualifies

SELLABILITY (CanSell):
  unmanaged product   -> always sellable
  managed simple item -> stock >= quantity
  managed bundle      -> every managed component has stock >= quantity
                         (unmanaged and dangling components impose no
                         constraint)

DECREMENT (DecrementStock):
  unmanaged product   -> no-op
  managed simple item -> stock -= quantity, floored at 0
  managed bundle      -> every managed component decremented, floored
                         at 0

  The floor means a quantity past validation clamps instead of driving
  stock negative. Validation happens before any decrement, so the
  clamp only fires for callers that skipped it.

DANGLING REFERENCES:
  Product removal is a hard delete. Component ids and old ledger rows
  may point at products that are gone; every reader here skips them.

SEE ALSO:
  - sale.go: Validates baskets against this catalog, then decrements
  - summary.go: Resolves names, prices and remaining stock for reports
*/
package pos

import "context"

// =============================================================================
// CATALOG - Owns the product list
// =============================================================================

// Catalog owns the ordered product list. Mutating operations persist
// the full catalog blob before returning; the returned error is
// advisory and the in-memory change always stands.
type Catalog struct {
	store    BlobStore
	products []Product
}

func NewCatalog(store BlobStore) *Catalog {
	return &Catalog{store: store}
}

// LoadCatalog restores the catalog from its blob. A missing blob
// yields an empty catalog. On a read or decode failure the catalog is
// returned empty along with the error.
func LoadCatalog(ctx context.Context, store BlobStore) (*Catalog, error) {
	c := &Catalog{store: store}
	if store == nil {
		return c, nil
	}
	data, err := store.Get(ctx, BlobCatalog)
	if err != nil {
		return c, err
	}
	products, err := decodeCatalog(data)
	if err != nil {
		return c, err
	}
	c.products = products
	return c, nil
}

// =============================================================================
// LOOKUPS - First match, permissive about duplicates
// =============================================================================

// Products returns a copy of the catalog in insertion order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the first product with the given id.
func (c *Catalog) Get(id ProductID) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// =============================================================================
// CATALOG MANAGEMENT - Add, edit, remove
// =============================================================================

// Add appends a product and persists. Nothing checks id uniqueness.
func (c *Catalog) Add(ctx context.Context, p Product) error {
	c.products = append(c.products, p)
	return c.Save(ctx)
}

// Update replaces the first product with a matching id wholesale.
// Missing id is a no-op.
func (c *Catalog) Update(ctx context.Context, p Product) error {
	for i := range c.products {
		if c.products[i].ID == p.ID {
			c.products[i] = p
			return c.Save(ctx)
		}
	}
	return nil
}

// Remove hard-deletes the first product with the given id. References
// from bundles or past transactions are left dangling on purpose.
func (c *Catalog) Remove(ctx context.Context, id ProductID) error {
	for i := range c.products {
		if c.products[i].ID == id {
			c.products = append(c.products[:i], c.products[i+1:]...)
			return c.Save(ctx)
		}
	}
	return nil
}

// Save persists the full catalog snapshot.
func (c *Catalog) Save(ctx context.Context) error {
	data, err := encodeCatalog(c.products)
	return putBlob(ctx, c.store, BlobCatalog, data, err)
}

// =============================================================================
// AVAILABILITY - How many units can be sold right now
// =============================================================================

// AvailableStock reports how many units of p can currently be sold.
// ok is false when the quantity is unmanaged (unlimited), which is a
// different answer than zero.
func (c *Catalog) AvailableStock(p Product) (stock int, ok bool) {
	if !p.InventoryManaged {
		return 0, false
	}
	if p.IsBundle {
		lowest, found := 0, false
		for _, id := range p.ComponentIDs {
			comp, exists := c.Get(id)
			if !exists || !comp.InventoryManaged {
				continue
			}
			if !found || comp.Stock < lowest {
				lowest = comp.Stock
				found = true
			}
		}
		if !found {
			return 0, true
		}
		return lowest, true
	}
	return p.Stock, true
}

// CanSell reports whether quantity units of p can be sold as a whole.
func (c *Catalog) CanSell(p Product, quantity int) bool {
	if !p.InventoryManaged {
		return true
	}
	if p.IsBundle {
		for _, id := range p.ComponentIDs {
			comp, exists := c.Get(id)
			if !exists || !comp.InventoryManaged {
				continue
			}
			if comp.Stock < quantity {
				return false
			}
		}
		return true
	}
	return p.Stock >= quantity
}

// =============================================================================
// STOCK MUTATION - Applied only after a sale has validated
// =============================================================================

// DecrementStock takes quantity units off the product with the given
// id: off every managed component for a bundle, off the item itself
// otherwise. Unknown ids, unmanaged products and dangling components
// are skipped. The caller persists via Save once the whole basket has
// been applied.
func (c *Catalog) DecrementStock(id ProductID, quantity int) {
	p, ok := c.Get(id)
	if !ok || !p.InventoryManaged {
		return
	}
	if p.IsBundle {
		for _, compID := range p.ComponentIDs {
			c.decrementOwn(compID, quantity)
		}
		return
	}
	c.decrementOwn(id, quantity)
}

// decrementOwn lowers one product's own stock field, floored at zero.
func (c *Catalog) decrementOwn(id ProductID, quantity int) {
	for i := range c.products {
		if c.products[i].ID == id {
			if !c.products[i].InventoryManaged {
				return
			}
			c.products[i].Stock -= quantity
			if c.products[i].Stock < 0 {
				c.products[i].Stock = 0
			}
			return
		}
	}
}
