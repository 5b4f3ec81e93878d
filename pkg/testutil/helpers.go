// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// ReferencePrice is the tier-1 price of ReferenceLot.
const ReferencePrice = 3300000.0

// ReferenceLot returns an available lot with only a tier-1 price defined.
func ReferenceLot() pricing.Lot {
	return pricing.Lot{
		Number:     7,
		LandAreaM2: 733.33,
		TierPrices: map[int]float64{1: ReferencePrice},
		Status:     pricing.StatusAvailable,
	}
}

// FindYear finds a projection year by offset.
// Returns a pointer to the year if found, nil otherwise.
func FindYear(projection []pricing.ProjectionYear, offset int) *pricing.ProjectionYear {
	for i := range projection {
		if projection[i].YearOffset == offset {
			return &projection[i]
		}
	}
	return nil
}
