package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

var soldStatuses = map[string]struct{}{
	"sold":          {},
	"vendido":       {},
	"apartado":      {},
	"reserved":      {},
	"no_disponible": {},
}

// toLot converts one source row into a Lot using a resolved column index.
func (idx columnIndex) toLot(row []string) (pricing.Lot, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	number, err := parseLotNumber(cell(idx.lotNumber))
	if err != nil {
		return pricing.Lot{}, err
	}

	lot := pricing.Lot{
		Number:     number,
		TierPrices: make(map[int]float64, len(idx.tiers)),
		Status:     pricing.StatusAvailable,
		Buyer:      cell(idx.buyer),
	}

	if lot.LandAreaM2, err = parseAmount(cell(idx.landArea)); err != nil {
		return pricing.Lot{}, fmt.Errorf("lot %d: land area: %w", number, err)
	}
	if raw := cell(idx.constructionArea); raw != "" {
		if lot.ConstructionAreaM2, err = parseAmount(raw); err != nil {
			return pricing.Lot{}, fmt.Errorf("lot %d: construction area: %w", number, err)
		}
	}

	for tier, i := range idx.tiers {
		raw := cell(i)
		if raw == "" {
			continue
		}
		price, err := parseAmount(raw)
		if err != nil {
			return pricing.Lot{}, fmt.Errorf("lot %d: tier %d price: %w", number, tier, err)
		}
		if price > 0 {
			lot.TierPrices[tier] = price
		}
	}
	if _, ok := lot.TierPrices[1]; !ok {
		return pricing.Lot{}, fmt.Errorf("lot %d: missing tier-1 price", number)
	}

	if _, sold := soldStatuses[NormalizeColumn(cell(idx.status))]; sold || lot.Buyer != "" {
		lot.Status = pricing.StatusSold
	}

	return lot, nil
}

// parseLotNumber accepts "12" as well as labels such as "Lote 12".
func parseLotNumber(raw string) (int, error) {
	start := strings.IndexFunc(raw, unicode.IsDigit)
	if start < 0 {
		return 0, fmt.Errorf("invalid lot number %q", raw)
	}
	end := start
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(raw[start:end])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid lot number %q", raw)
	}
	return n, nil
}

// parseAmount reads numbers written as "$3,300,000.00", "250 m2" or "1200".
func parseAmount(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return -1
	}, strings.TrimSuffix(strings.TrimSuffix(strings.ToLower(raw), "m2"), "m²"))
	if cleaned == "" {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative number %q", raw)
	}
	return value, nil
}
