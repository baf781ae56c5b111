/*
Package pos implements the inventory and sales ledger engine for an
offline booth point-of-sale tool.

PURPOSE:
  This package contains the domain types and algorithms for running a
  sales booth at a small retail or exhibition event: a product catalog
  with bundle availability semantics, a validate-then-commit protocol
  for recording multi-item sales, an ordered transaction ledger with
  edit and delete operations, and per-event aggregation. All state is
  held in memory; durability goes through a keyed blob store
  collaborator (see store.go).

KEY CONCEPTS IN THIS FILE (types.go):
  - Product: A sellable catalog entry, either a simple item or a bundle
  - Event: A sales occasion transactions are recorded against
  - SaleItem / Transaction: Immutable records of a committed sale
  - Profile: The customer survey fields captured with each sale
  - AgeGroup / Gender / Channel: Closed vocabularies, used both as input
    constraints and as export labels

DESIGN PRINCIPLES:
  1. Permissiveness: Dangling product references are skipped at the
     point of use, never raised as errors
  2. Silent no-ops: Operations addressing a missing id do nothing
     rather than fail
  3. Precision: decimal.Decimal for prices and revenue totals
  4. Advisory persistence: In-memory state is authoritative; a failed
     blob write never rolls back an already-applied change

USAGE:
  sticker := pos.NewSimpleProduct("Sticker Pack", decimal.NewFromInt(500), true, 10)
  set := pos.NewBundleProduct("Starter Set", decimal.NewFromInt(1200), sticker.ID)

SEE ALSO:
  - catalog.go: Availability, sellability, and stock mutation
  - sale.go: The sale commit protocol and ledger maintenance flows
  - summary.go: Per-event aggregation
*/
package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ProductID string
type EventID string
type SaleItemID string
type TransactionID string

// =============================================================================
// PRODUCT - Simple item or bundle, discriminated by IsBundle
// =============================================================================

// Product is a two-case variant. Shared fields are ID, Name, Price,
// ImageRef and InventoryManaged. Stock is meaningful only for simple
// managed items; ComponentIDs is non-empty only for bundles. A bundle's
// own Stock field is never authoritative (availability derives from the
// components), and nothing here enforces id uniqueness or forbids a
// bundle referencing another bundle. Lookups are first-match.
type Product struct {
	ID               ProductID       `json:"id"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	ImageRef         string          `json:"image_ref,omitempty"`
	InventoryManaged bool            `json:"inventory_managed"`
	Stock            int             `json:"stock"`
	IsBundle         bool            `json:"is_bundle"`
	ComponentIDs     []ProductID     `json:"component_ids,omitempty"`
}

func NewSimpleProduct(name string, price decimal.Decimal, managed bool, stock int) Product {
	return Product{
		ID:               ProductID(uuid.NewString()),
		Name:             name,
		Price:            price,
		InventoryManaged: managed,
		Stock:            stock,
	}
}

// NewBundleProduct builds a bundle over existing component ids. Bundles
// are created inventory-managed so availability tracks the components.
func NewBundleProduct(name string, price decimal.Decimal, components ...ProductID) Product {
	return Product{
		ID:               ProductID(uuid.NewString()),
		Name:             name,
		Price:            price,
		InventoryManaged: true,
		IsBundle:         true,
		ComponentIDs:     components,
	}
}

// =============================================================================
// EVENT - A sales occasion; created once, never edited or deleted
// =============================================================================

type Event struct {
	ID   EventID `json:"id"`
	Name string  `json:"name"`
}

func NewEvent(name string) Event {
	return Event{ID: EventID(uuid.NewString()), Name: name}
}

// =============================================================================
// CUSTOMER PROFILE VOCABULARIES - Closed, ordered
// =============================================================================

type AgeGroup string

const (
	AgeUnder18     AgeGroup = "under18"
	AgeTwenties    AgeGroup = "twenties"
	AgeThirties    AgeGroup = "thirties"
	AgeForties     AgeGroup = "forties"
	AgeFiftiesPlus AgeGroup = "fiftiesPlus"
)

// AgeGroups returns the vocabulary in display order.
func AgeGroups() []AgeGroup {
	return []AgeGroup{AgeUnder18, AgeTwenties, AgeThirties, AgeForties, AgeFiftiesPlus}
}

func (a AgeGroup) Valid() bool {
	switch a {
	case AgeUnder18, AgeTwenties, AgeThirties, AgeForties, AgeFiftiesPlus:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Channel records how the customer found the booth.
type Channel string

const (
	ChannelSNS        Channel = "sns"
	ChannelBlog       Channel = "blog"
	ChannelPasserby   Channel = "passerby"
	ChannelSampleBook Channel = "sampleBook"
	ChannelReferral   Channel = "referral"
	ChannelStaff      Channel = "staff"
)

func Channels() []Channel {
	return []Channel{ChannelSNS, ChannelBlog, ChannelPasserby, ChannelSampleBook, ChannelReferral, ChannelStaff}
}

func (c Channel) Valid() bool {
	switch c {
	case ChannelSNS, ChannelBlog, ChannelPasserby, ChannelSampleBook, ChannelReferral, ChannelStaff:
		return true
	}
	return false
}

// =============================================================================
// PROFILE - Survey fields captured alongside each sale
// =============================================================================

type Profile struct {
	AgeGroup     AgeGroup `json:"age_group"`
	Gender       Gender   `json:"gender"`
	Channel      Channel  `json:"channel"`
	Exhibitor    bool     `json:"exhibitor"`
	Acquaintance bool     `json:"acquaintance"`
	Cashless     bool     `json:"cashless"`
	Reserved     bool     `json:"reserved"`
	Notes        string   `json:"notes"`
}

// DefaultProfile is the state the entry form starts from: the first
// member of each vocabulary, no flags, no notes.
func DefaultProfile() Profile {
	return Profile{AgeGroup: AgeGroups()[0], Gender: Genders()[0], Channel: Channels()[0]}
}

// =============================================================================
// SALE ITEM / TRANSACTION - Ledger records
// =============================================================================

// SaleItem is one basket line frozen into a Transaction. It keeps only
// the product id; name and price are resolved against the live catalog
// wherever the item is displayed or exported.
type SaleItem struct {
	ID        SaleItemID `json:"id"`
	ProductID ProductID  `json:"product_id"`
	Quantity  int        `json:"quantity"`
}

func NewSaleItem(productID ProductID, quantity int) SaleItem {
	return SaleItem{ID: SaleItemID(uuid.NewString()), ProductID: productID, Quantity: quantity}
}

// Transaction is a committed sale. It is immutable except through the
// ledger's wholesale replace operation.
type Transaction struct {
	ID      TransactionID `json:"id"`
	Time    time.Time     `json:"time"`
	Items   []SaleItem    `json:"items"`
	Profile Profile       `json:"profile"`
	EventID EventID       `json:"event_id"`
}
