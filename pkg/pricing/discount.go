package pricing

import "sort"

// DiscountBand grants Rate to down payments of at least MinDownPaymentPct.
type DiscountBand struct {
	MinDownPaymentPct int     `json:"minDownPayment" yaml:"minDownPayment" mapstructure:"minDownPayment"`
	Rate              float64 `json:"rate" yaml:"rate"`
}

// DiscountTable maps a financing term in months to its discount bands.
// The zero value grants no discounts.
type DiscountTable struct {
	rows map[int][]DiscountBand
}

var defaultThresholds = [...]int{30, 40, 50, 60, 70, 80, 90, 95}

// Rates per term band, aligned with defaultThresholds.
var defaultRows = [...]struct {
	fromTerm, toTerm int
	rates            [len(defaultThresholds)]float64
}{
	{0, 3, [...]float64{0.030, 0.040, 0.050, 0.060, 0.070, 0.080, 0.095, 0.105}},
	{4, 7, [...]float64{0.025, 0.035, 0.045, 0.055, 0.065, 0.075, 0.090, 0.100}},
	{8, 11, [...]float64{0.020, 0.030, 0.040, 0.050, 0.060, 0.070, 0.085, 0.095}},
	{12, 13, [...]float64{0.015, 0.025, 0.035, 0.045, 0.055, 0.065, 0.080, 0.090}},
}

// DefaultDiscountTable returns the standard sales incentive table for terms
// 0 through 13 months.
func DefaultDiscountTable() DiscountTable {
	rows := make(map[int][]DiscountBand)
	for _, row := range defaultRows {
		for term := row.fromTerm; term <= row.toTerm; term++ {
			bands := make([]DiscountBand, len(defaultThresholds))
			for i, threshold := range defaultThresholds {
				bands[i] = DiscountBand{MinDownPaymentPct: threshold, Rate: row.rates[i]}
			}
			rows[term] = bands
		}
	}
	return NewDiscountTable(rows)
}

// NewDiscountTable copies rows into a table with each row ordered by
// descending threshold.
func NewDiscountTable(rows map[int][]DiscountBand) DiscountTable {
	table := DiscountTable{rows: make(map[int][]DiscountBand, len(rows))}
	for term, bands := range rows {
		sorted := append([]DiscountBand(nil), bands...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].MinDownPaymentPct > sorted[j].MinDownPaymentPct
		})
		table.rows[term] = sorted
	}
	return table
}

// Resolve returns the discount rate for a term and down payment. Terms without
// a row and down payments below every threshold resolve to 0.
func (t DiscountTable) Resolve(termMonths, downPaymentPct int) float64 {
	for _, band := range t.rows[termMonths] {
		if band.MinDownPaymentPct <= downPaymentPct {
			return band.Rate
		}
	}
	return 0
}

// Terms lists the financing terms present in the table in ascending order.
func (t DiscountTable) Terms() []int {
	terms := make([]int, 0, len(t.rows))
	for term := range t.rows {
		terms = append(terms, term)
	}
	sort.Ints(terms)
	return terms
}

// Bands returns the bands of a term ordered by ascending threshold.
func (t DiscountTable) Bands(termMonths int) []DiscountBand {
	row := t.rows[termMonths]
	bands := make([]DiscountBand, len(row))
	for i, band := range row {
		bands[len(row)-1-i] = band
	}
	return bands
}

// Empty reports whether the table has no rows.
func (t DiscountTable) Empty() bool {
	return len(t.rows) == 0
}
