package pricing

import (
	"fmt"
	"math"

	"github.com/iwvelando/ananda-quote/pkg/constants"
)

// ResolveTierPrice returns the list price of lot at the given tier. A price
// defined for the tier is returned verbatim; otherwise it is synthesized from
// the tier-1 price with a linear increment of step per tier above 1, bounded
// by the nearest defined tier prices on either side.
func ResolveTierPrice(lot Lot, tier int, step float64) (float64, error) {
	if tier < constants.MinTier {
		return 0, invalid("tier", float64(tier), "tiers start at 1")
	}

	if price, ok := lot.TierPrices[tier]; ok && price > 0 {
		return price, nil
	}

	base, ok := lot.TierPrices[constants.MinTier]
	if !ok || base <= 0 {
		return 0, &MissingReferencePriceError{LotNumber: lot.Number, Tier: tier}
	}

	price := base * (1 + step*float64(tier-constants.MinTier))
	return boundByDefinedTiers(lot, tier, price), nil
}

func boundByDefinedTiers(lot Lot, tier int, price float64) float64 {
	for t := tier - 1; t >= constants.MinTier; t-- {
		if below := lot.TierPrices[t]; below > 0 {
			price = math.Max(price, below)
			break
		}
	}
	for t := tier + 1; t <= constants.MaxTier; t++ {
		if above := lot.TierPrices[t]; above > 0 {
			price = math.Min(price, above)
			break
		}
	}
	return price
}

// CheckTierOrder reports an error when the defined tier prices of lot
// decrease as the tier rises.
func (l Lot) CheckTierOrder() error {
	previousTier, previous := 0, 0.0
	for tier := constants.MinTier; tier <= constants.MaxTier; tier++ {
		price := l.TierPrices[tier]
		if price <= 0 {
			continue
		}
		if price < previous {
			return fmt.Errorf("lot %d: tier %d price %.2f is below tier %d price %.2f",
				l.Number, tier, price, previousTier, previous)
		}
		previousTier, previous = tier, price
	}
	return nil
}
