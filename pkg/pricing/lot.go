// Package pricing computes quotes for lots: tier prices, financing discounts,
// payment schedules and the appreciation and rental projection.
//
// Every function in this package is pure. The only shared structures, a
// DiscountTable and the Lots passed in, are never mutated, so quotes may be
// computed concurrently without locking.
package pricing

// Status is the availability of a lot for the duration of a quoting session.
type Status string

const (
	// StatusAvailable marks a lot that can be quoted.
	StatusAvailable Status = "Available"
	// StatusSold marks a lot that already has a buyer.
	StatusSold Status = "Sold"
)

// Lot is one unit of inventory.
type Lot struct {
	Number             int             `json:"lotNumber" yaml:"lotNumber"`
	LandAreaM2         float64         `json:"landAreaM2" yaml:"landAreaM2"`
	ConstructionAreaM2 float64         `json:"constructionAreaM2" yaml:"constructionAreaM2"`
	TierPrices         map[int]float64 `json:"tierPrices" yaml:"tierPrices"`
	Status             Status          `json:"status" yaml:"status"`
	Buyer              string          `json:"buyer,omitempty" yaml:"buyer,omitempty"`
}

// Available reports whether the lot can still be sold.
func (l Lot) Available() bool {
	return l.Status != StatusSold
}
