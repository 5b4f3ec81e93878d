// Package inventory loads the lots of the development from tabular sources
// and serves them as read-only reference data for quoting.
package inventory

import (
	"fmt"
	"sort"

	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// Options controls how lots are loaded.
type Options struct {
	Source  string
	Driver  string
	Presold []int
	Columns ColumnMapping
}

// LoadError reports a failure to load lots from a source. Callers decide
// whether to abort or continue with FallbackLots.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load inventory from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Inventory indexes lots by number. It is immutable once built.
type Inventory struct {
	lots   map[int]pricing.Lot
	sorted []pricing.Lot
}

// New indexes lots, rejecting duplicate or non-positive lot numbers and lots
// whose tier prices decrease.
func New(lots []pricing.Lot) (*Inventory, error) {
	inv := &Inventory{lots: make(map[int]pricing.Lot, len(lots))}
	for _, lot := range lots {
		if lot.Number <= 0 {
			return nil, fmt.Errorf("lot number %d must be positive", lot.Number)
		}
		if _, dup := inv.lots[lot.Number]; dup {
			return nil, fmt.Errorf("duplicate lot number %d", lot.Number)
		}
		if err := lot.CheckTierOrder(); err != nil {
			return nil, err
		}
		inv.lots[lot.Number] = lot
		inv.sorted = append(inv.sorted, lot)
	}
	sort.Slice(inv.sorted, func(i, j int) bool {
		return inv.sorted[i].Number < inv.sorted[j].Number
	})
	return inv, nil
}

// Lot returns the lot with the given number.
func (inv *Inventory) Lot(number int) (pricing.Lot, bool) {
	lot, ok := inv.lots[number]
	return lot, ok
}

// Lots returns every lot ordered by number.
func (inv *Inventory) Lots() []pricing.Lot {
	return append([]pricing.Lot(nil), inv.sorted...)
}

// Len returns the number of lots.
func (inv *Inventory) Len() int {
	return len(inv.sorted)
}

// AvailableCount returns the number of lots that can still be sold.
func (inv *Inventory) AvailableCount() int {
	n := 0
	for _, lot := range inv.sorted {
		if lot.Available() {
			n++
		}
	}
	return n
}

// ApplyPresold marks the listed lot numbers as sold.
func ApplyPresold(lots []pricing.Lot, presold []int) {
	if len(presold) == 0 {
		return
	}
	set := make(map[int]struct{}, len(presold))
	for _, n := range presold {
		set[n] = struct{}{}
	}
	for i := range lots {
		if _, ok := set[lots[i].Number]; ok {
			lots[i].Status = pricing.StatusSold
		}
	}
}
