// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"sort"

	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// ValidateDiscountTable checks a discount table for the sales incentive
// invariants and returns a warning for every violation: rates outside [0, 1),
// rates that fall as the down payment rises, and longer terms that discount
// more than a shorter term at the same threshold.
func ValidateDiscountTable(rows map[int][]pricing.DiscountBand) []string {
	var warnings []string

	table := pricing.NewDiscountTable(rows)
	terms := table.Terms()
	thresholds := make(map[int]struct{})

	for _, term := range terms {
		if term < 0 {
			warnings = append(warnings, fmt.Sprintf("Discount row for term %d is negative and can never apply", term))
		}

		bands := table.Bands(term)
		for i, band := range bands {
			thresholds[band.MinDownPaymentPct] = struct{}{}
			if band.Rate < 0 || band.Rate >= 1 {
				warnings = append(warnings, fmt.Sprintf("Term %d: rate %.4f at %d%% is outside [0, 1)",
					term, band.Rate, band.MinDownPaymentPct))
			}
			if band.MinDownPaymentPct < 0 || band.MinDownPaymentPct > 100 {
				warnings = append(warnings, fmt.Sprintf("Term %d: threshold %d%% is outside 0..100",
					term, band.MinDownPaymentPct))
			}
			if i > 0 && band.Rate < bands[i-1].Rate {
				warnings = append(warnings, fmt.Sprintf("Term %d: rate at %d%% (%.4f) is lower than at %d%% (%.4f)",
					term, band.MinDownPaymentPct, band.Rate, bands[i-1].MinDownPaymentPct, bands[i-1].Rate))
			}
		}
	}

	sorted := make([]int, 0, len(thresholds))
	for threshold := range thresholds {
		sorted = append(sorted, threshold)
	}
	sort.Ints(sorted)

	for i := 1; i < len(terms); i++ {
		shorter, longer := terms[i-1], terms[i]
		for _, threshold := range sorted {
			if table.Resolve(longer, threshold) > table.Resolve(shorter, threshold) {
				warnings = append(warnings, fmt.Sprintf("Term %d discounts more than term %d at %d%% (%.4f > %.4f)",
					longer, shorter, threshold, table.Resolve(longer, threshold), table.Resolve(shorter, threshold)))
			}
		}
	}

	return warnings
}
