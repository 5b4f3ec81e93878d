package inventory

import (
	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// FallbackLots builds the demonstration inventory used when no source can be
// loaded: every lot available, land between 200 and 349 m² and a tier-1
// price of land area times the fallback rate per m². Output is deterministic.
func FallbackLots() []pricing.Lot {
	lots := make([]pricing.Lot, 0, constants.InventorySize)
	for i := 1; i <= constants.InventorySize; i++ {
		land := float64(200 + (i*53)%150)
		lots = append(lots, pricing.Lot{
			Number:     i,
			LandAreaM2: land,
			TierPrices: map[int]float64{1: land * constants.FallbackPricePerM2},
			Status:     pricing.StatusAvailable,
		})
	}
	return lots
}
