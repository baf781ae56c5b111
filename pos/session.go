/*
session.go - Transient per-sale state: the basket and the profile form

The session is everything a committed sale snapshots and then throws
away: which products at which quantities, and the customer survey
fields. It is an explicit object passed to the commit protocol rather
than ambient state, so tests and multiple frontends can each run their
own. Nothing here is persisted; an abandoned basket does not survive a
restart.
*/
package pos

// BasketLine is one product at a requested quantity.
type BasketLine struct {
	ProductID ProductID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Basket maps product ids to requested quantities while preserving the
// order lines were first added in. Sale items and export rows follow
// that order.
type Basket struct {
	lines []BasketLine
}

// Set puts the quantity for a product, keeping the line's position if
// it already exists. Quantity 0 or less removes the line.
func (b *Basket) Set(id ProductID, quantity int) {
	for i := range b.lines {
		if b.lines[i].ProductID == id {
			if quantity <= 0 {
				b.lines = append(b.lines[:i], b.lines[i+1:]...)
				return
			}
			b.lines[i].Quantity = quantity
			return
		}
	}
	if quantity <= 0 {
		return
	}
	b.lines = append(b.lines, BasketLine{ProductID: id, Quantity: quantity})
}

// Quantity returns the requested quantity for a product, 0 when the
// product is not in the basket.
func (b *Basket) Quantity(id ProductID) int {
	for _, l := range b.lines {
		if l.ProductID == id {
			return l.Quantity
		}
	}
	return 0
}

// Lines returns a copy of the basket in first-added order.
func (b *Basket) Lines() []BasketLine {
	out := make([]BasketLine, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Basket) IsEmpty() bool {
	return len(b.lines) == 0
}

func (b *Basket) Clear() {
	b.lines = nil
}

// Session carries the in-progress basket and profile form. Reset is
// called by the commit protocol after a successful sale, and only then.
type Session struct {
	Basket  Basket
	Profile Profile
}

func NewSession() *Session {
	return &Session{Profile: DefaultProfile()}
}

// Reset empties the basket and returns the profile form to defaults.
// The event selection is not part of the session and survives.
func (s *Session) Reset() {
	s.Basket.Clear()
	s.Profile = DefaultProfile()
}
