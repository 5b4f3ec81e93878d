// Package output provides utilities for formatting and displaying quotes.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/iwvelando/ananda-quote/pkg/format"
	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// Document is everything a buyer receives for one quote.
type Document struct {
	Lot         pricing.Lot           `json:"lot"`
	Quote       pricing.Quote         `json:"quote"`
	PaymentPlan []pricing.Installment `json:"paymentPlan,omitempty"`
}

// NewDocument assembles the quote document for a lot.
func NewDocument(lot pricing.Lot, q pricing.Quote) Document {
	return Document{Lot: lot, Quote: q, PaymentPlan: q.Financing.PaymentPlan()}
}

// PrettyFormat prints the human-readable quote summary to stdout.
func PrettyFormat(doc Document) {
	_ = WritePretty(os.Stdout, doc)
}

// PrettyString returns the human-readable quote summary.
func PrettyString(doc Document) string {
	var buf bytes.Buffer
	_ = WritePretty(&buf, doc)
	return buf.String()
}

// WritePretty writes the human-readable quote summary.
func WritePretty(w io.Writer, doc Document) error {
	q := doc.Quote
	ew := &errWriter{w: w}

	ew.printf("--- Quote for lot %d ---\n", q.LotNumber)
	ew.printf("Land area          | %s\n", format.Area(doc.Lot.LandAreaM2))
	if doc.Lot.ConstructionAreaM2 > 0 {
		ew.printf("Construction area  | %s\n", format.Area(doc.Lot.ConstructionAreaM2))
	}
	ew.printf("Tier               | %d\n", q.Tier)
	if q.PriceList != "" {
		ew.printf("Price list         | %s\n", q.PriceList)
	}
	ew.printf("\n")

	ew.printf("Tier price         | %s\n", format.Currency(q.TierPrice))
	if q.ListPrice != q.TierPrice {
		ew.printf("List price         | %s\n", format.Currency(q.ListPrice))
	}
	ew.printf("Discount           | %s\n", format.Rate(q.DiscountRate))
	if q.NegotiationRate > 0 {
		ew.printf("Negotiation        | %s\n", format.Rate(q.NegotiationRate))
	}
	ew.printf("Total savings      | %s\n", format.Currency(q.DiscountAmount))
	ew.printf("Final price        | %s\n", format.Currency(q.FinalPrice))
	ew.printf("\n")

	f := q.Financing
	ew.printf("Down payment       | %s (%d%%)\n", format.Currency(f.DownPayment), f.DownPaymentPct)
	if f.TermMonths > 0 {
		ew.printf("Monthly installment| %s x %d\n", format.Currency(f.MonthlyInstallment), f.TermMonths)
	} else {
		ew.printf("Monthly installment| paid at signing\n")
	}
	ew.printf("Balance at delivery| %s\n", format.Currency(f.RemainingBalance))
	ew.printf("\n")

	ew.printf("Future value       | %s\n", format.Currency(q.FutureMarketValue))
	ew.printf("Instant equity     | %s\n", format.Currency(q.InstantEquity))
	if q.ConstructionCost > 0 {
		ew.printf("Construction cost  | %s\n", format.Currency(q.ConstructionCost))
		ew.printf("Total investment   | %s\n", format.Currency(q.TotalInvestment))
	}
	if c := q.Comparison; c != nil {
		ew.printf("Versus %s | %s (%s)\n", c.Name, format.Currency(c.Equity), format.Currency(c.Price))
	}
	if q.RentalROI != 0 {
		ew.printf("Rental ROI         | %s\n", format.Rate(q.RentalROI))
	}

	if len(doc.PaymentPlan) > 0 {
		ew.printf("\n--- Payment plan ---\n")
		ew.printf("Month | Installment | Outstanding down payment\n")
		ew.printf("_____ | ___________ | ________________________\n")
		for _, inst := range doc.PaymentPlan {
			ew.printf("%5d | %s | %s\n", inst.Number, format.Currency(inst.Amount), format.Currency(inst.OutstandingDownPayment))
		}
	}

	ew.printf("\n--- Wealth projection ---\n")
	ew.printf("Year | Property value | Net rental | Cumulative rental | Total wealth\n")
	ew.printf("____ | ______________ | __________ | _________________ | ____________\n")
	for _, year := range q.Projection {
		ew.printf("%s | %s | %s | %s | %s\n",
			yearLabel(year),
			format.Currency(year.PropertyValue),
			format.Currency(year.NetRentalIncome),
			format.Currency(year.CumulativeRentalIncome),
			format.Currency(year.TotalWealth),
		)
	}

	return ew.err
}

func yearLabel(year pricing.ProjectionYear) string {
	if year.Year > 0 {
		return strconv.Itoa(year.Year)
	}
	return fmt.Sprintf("Y+%d", year.YearOffset)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// CsvFormat prints the quote in comma-separated value format to stdout.
func CsvFormat(doc Document) {
	_ = WriteCSV(os.Stdout, doc)
}

// CsvString returns the quote in comma-separated value format.
func CsvString(doc Document) string {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, doc)
	return buf.String()
}

// WriteCSV writes a field/value summary followed by the projection table,
// separated by an empty record.
func WriteCSV(w io.Writer, doc Document) error {
	q := doc.Quote
	cw := csv.NewWriter(w)

	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	rate := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

	records := [][]string{
		{"field", "value"},
		{"lot", strconv.Itoa(q.LotNumber)},
		{"land_area_m2", strconv.FormatFloat(doc.Lot.LandAreaM2, 'f', -1, 64)},
		{"tier", strconv.Itoa(q.Tier)},
		{"price_list", q.PriceList},
		{"tier_price", money(q.TierPrice)},
		{"list_price", money(q.ListPrice)},
		{"discount_rate", rate(q.DiscountRate)},
		{"negotiation_rate", rate(q.NegotiationRate)},
		{"discount_amount", money(q.DiscountAmount)},
		{"final_price", money(q.FinalPrice)},
		{"down_payment_pct", strconv.Itoa(q.Financing.DownPaymentPct)},
		{"term_months", strconv.Itoa(q.Financing.TermMonths)},
		{"down_payment", money(q.Financing.DownPayment)},
		{"monthly_installment", money(q.Financing.MonthlyInstallment)},
		{"remaining_balance", money(q.Financing.RemainingBalance)},
		{"future_market_value", money(q.FutureMarketValue)},
		{"instant_equity", money(q.InstantEquity)},
		{"construction_cost", money(q.ConstructionCost)},
		{"total_investment", money(q.TotalInvestment)},
		{"rental_roi", rate(q.RentalROI)},
	}
	if c := q.Comparison; c != nil {
		records = append(records,
			[]string{"competitor", c.Name},
			[]string{"competitor_price", money(c.Price)},
			[]string{"competitor_equity", money(c.Equity)},
		)
	}

	records = append(records,
		[]string{},
		[]string{"year_offset", "year", "property_value", "gross_rental_income", "admin_cost", "fixed_costs", "net_rental_income", "cumulative_rental_income", "total_wealth"},
	)
	for _, y := range q.Projection {
		year := ""
		if y.Year > 0 {
			year = strconv.Itoa(y.Year)
		}
		records = append(records, []string{
			strconv.Itoa(y.YearOffset), year,
			money(y.PropertyValue), money(y.GrossRentalIncome), money(y.AdminCost),
			money(y.FixedCosts), money(y.NetRentalIncome), money(y.CumulativeRentalIncome),
			money(y.TotalWealth),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// JSONFormat prints the quote document as indented JSON to stdout.
func JSONFormat(doc Document) {
	_ = WriteJSON(os.Stdout, doc)
}

// WriteJSON writes the quote document as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
