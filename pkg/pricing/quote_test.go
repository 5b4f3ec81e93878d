package pricing_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/mathutil"
	"github.com/iwvelando/ananda-quote/pkg/pricing"
	"github.com/iwvelando/ananda-quote/pkg/testutil"
	"go.uber.org/zap"
)

func newEngine() *pricing.Engine {
	return pricing.NewEngine(zap.NewNop(), pricing.DefaultDiscountTable(), pricing.DefaultAssumptions())
}

func assertAmount(t *testing.T, field string, got, expected float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, expected, constants.CurrencyTolerance) {
		t.Errorf("%s = %.4f, expected %.2f", field, got, expected)
	}
}

func TestQuoteTwelveMonthPlan(t *testing.T) {
	quote, err := newEngine().Quote(pricing.Configuration{
		Lot:            testutil.ReferenceLot(),
		Tier:           1,
		DownPaymentPct: 30,
		TermMonths:     12,
	})
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	if quote.DiscountRate != 0.015 {
		t.Errorf("DiscountRate = %v, expected 0.015", quote.DiscountRate)
	}
	assertAmount(t, "TierPrice", quote.TierPrice, 3300000)
	assertAmount(t, "ListPrice", quote.ListPrice, 3300000)
	assertAmount(t, "DiscountAmount", quote.DiscountAmount, 49500)
	assertAmount(t, "FinalPrice", quote.FinalPrice, 3250500)
	assertAmount(t, "DownPayment", quote.Financing.DownPayment, 975150)
	assertAmount(t, "MonthlyInstallment", quote.Financing.MonthlyInstallment, 81262.50)
	assertAmount(t, "RemainingBalance", quote.Financing.RemainingBalance, 2275350)
	assertAmount(t, "FutureMarketValue", quote.FutureMarketValue, 4191000)
	assertAmount(t, "InstantEquity", quote.InstantEquity, 4191000-3250500)
	assertAmount(t, "TotalInvestment", quote.TotalInvestment, 3250500)

	if len(quote.Projection) != constants.ProjectionYears {
		t.Fatalf("expected %d projection years, got %d", constants.ProjectionYears, len(quote.Projection))
	}
	assertAmount(t, "Projection[0]", quote.Projection[0].PropertyValue, 4191000)
	assertAmount(t, "Projection[4]", quote.Projection[4].PropertyValue, 4191000*math.Pow(1.08, 4))
	if quote.Comparison != nil {
		t.Errorf("expected no competitor comparison, got %+v", quote.Comparison)
	}
}

func TestQuoteSynthesizedTier(t *testing.T) {
	quote, err := newEngine().Quote(pricing.Configuration{
		Lot:            testutil.ReferenceLot(),
		Tier:           4,
		DownPaymentPct: 30,
		TermMonths:     12,
	})
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertAmount(t, "TierPrice", quote.TierPrice, 3597000)
}

func TestQuoteUnsupportedTerm(t *testing.T) {
	for _, pct := range []int{15, 30, 50, 95} {
		quote, err := newEngine().Quote(pricing.Configuration{
			Lot:            testutil.ReferenceLot(),
			Tier:           1,
			DownPaymentPct: pct,
			TermMonths:     14,
		})
		if err != nil {
			t.Fatalf("Quote() error = %v", err)
		}
		if quote.DiscountRate != 0 || quote.DiscountAmount != 0 {
			t.Errorf("down payment %d%%: discount %v / %.2f, expected none", pct, quote.DiscountRate, quote.DiscountAmount)
		}
	}
}

func TestQuoteImmediateDownPayment(t *testing.T) {
	quote, err := newEngine().Quote(pricing.Configuration{
		Lot:            testutil.ReferenceLot(),
		Tier:           1,
		DownPaymentPct: 95,
		TermMonths:     0,
	})
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if quote.Financing.MonthlyInstallment != 0 {
		t.Errorf("MonthlyInstallment = %.2f, expected 0", quote.Financing.MonthlyInstallment)
	}
	assertAmount(t, "DownPayment", quote.Financing.DownPayment, quote.FinalPrice*0.95)
	if quote.DiscountRate != 0.105 {
		t.Errorf("DiscountRate = %v, expected 0.105", quote.DiscountRate)
	}
}

func TestQuotePriceListNegotiationAndComparison(t *testing.T) {
	quote, err := newEngine().Quote(pricing.Configuration{
		Lot:              testutil.ReferenceLot(),
		Tier:             1,
		DownPaymentPct:   30,
		TermMonths:       12,
		PriceList:        pricing.PriceList{Name: "Presale", Factor: 0.95},
		NegotiationPct:   2,
		ConstructionCost: 2500000,
		Competitor:       &pricing.Competitor{Name: "Punta Peninsula", Price: 4550000},
		Rental: pricing.RentalScenario{
			NightlyRate:  4500,
			OccupancyPct: pricing.OccupancyFromNights(120),
			AdminFeePct:  0.20,
		},
	})
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	final := 3300000 * 0.95 * 0.985 * 0.98
	assertAmount(t, "ListPrice", quote.ListPrice, 3135000)
	assertAmount(t, "FinalPrice", quote.FinalPrice, final)
	assertAmount(t, "DiscountAmount", quote.DiscountAmount, 3300000-final)
	assertAmount(t, "TotalInvestment", quote.TotalInvestment, final+2500000)
	if quote.NegotiationRate != 0.02 {
		t.Errorf("NegotiationRate = %v, expected 0.02", quote.NegotiationRate)
	}
	if quote.Comparison == nil {
		t.Fatal("expected a competitor comparison")
	}
	assertAmount(t, "Comparison.Equity", quote.Comparison.Equity, 4550000-(final+2500000))
	assertAmount(t, "Projection[0]", quote.Projection[0].PropertyValue, 4191000+2500000)
	assertAmount(t, "RentalROI", quote.RentalROI, 432000/(final+2500000))
}

func TestQuoteIdempotent(t *testing.T) {
	engine := newEngine()
	cfg := pricing.Configuration{
		Lot:            testutil.ReferenceLot(),
		Tier:           6,
		DownPaymentPct: 50,
		TermMonths:     9,
		Rental:         pricing.RentalScenario{NightlyRate: 3800, OccupancyPct: 0.4, AdminFeePct: 0.25, FixedMonthlyCosts: 4000},
	}

	first, err := engine.Quote(cfg)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	second, err := engine.Quote(cfg)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical quotes for identical configurations")
	}
}

func TestQuoteValidation(t *testing.T) {
	base := pricing.Configuration{Lot: testutil.ReferenceLot(), Tier: 1, DownPaymentPct: 30, TermMonths: 12}

	tests := []struct {
		name   string
		mutate func(*pricing.Configuration)
		field  string
	}{
		{"Tier zero", func(c *pricing.Configuration) { c.Tier = 0 }, "tier"},
		{"Tier eleven", func(c *pricing.Configuration) { c.Tier = 11 }, "tier"},
		{"Down payment above 100", func(c *pricing.Configuration) { c.DownPaymentPct = 101 }, "downPaymentPct"},
		{"Negative down payment", func(c *pricing.Configuration) { c.DownPaymentPct = -5 }, "downPaymentPct"},
		{"Negative term", func(c *pricing.Configuration) { c.TermMonths = -1 }, "termMonths"},
		{"Occupancy above one", func(c *pricing.Configuration) { c.Rental.OccupancyPct = 1.2 }, "occupancyPct"},
		{"Admin fee as percent", func(c *pricing.Configuration) { c.Rental.AdminFeePct = 20 }, "adminFeePct"},
		{"Negative nightly rate", func(c *pricing.Configuration) { c.Rental.NightlyRate = -1 }, "nightlyRate"},
		{"Negative fixed costs", func(c *pricing.Configuration) { c.Rental.FixedMonthlyCosts = -100 }, "fixedMonthlyCosts"},
		{"Negotiation too high", func(c *pricing.Configuration) { c.NegotiationPct = 25 }, "negotiationPct"},
		{"Negative construction", func(c *pricing.Configuration) { c.ConstructionCost = -1 }, "constructionCost"},
		{"Price list without factor", func(c *pricing.Configuration) { c.PriceList = pricing.PriceList{Name: "Broken"} }, "priceList.factor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := newEngine().Quote(cfg)
			var invalid *pricing.InvalidConfigurationError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidConfigurationError, got %v", err)
			}
			if invalid.Field != tt.field {
				t.Errorf("error field = %s, expected %s", invalid.Field, tt.field)
			}
		})
	}
}

func TestQuoteMissingReferencePrice(t *testing.T) {
	lot := pricing.Lot{Number: 3, TierPrices: map[int]float64{2: 1800000}}
	_, err := newEngine().Quote(pricing.Configuration{Lot: lot, Tier: 2, DownPaymentPct: 30})

	var missing *pricing.MissingReferencePriceError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingReferencePriceError, got %v", err)
	}
	if missing.Tier != constants.MaxTier {
		t.Errorf("expected failure resolving the tier-%d reference, got tier %d", constants.MaxTier, missing.Tier)
	}
}

func TestNewEngineDefaults(t *testing.T) {
	engine := pricing.NewEngine(nil, pricing.DiscountTable{}, pricing.Assumptions{StartYear: 2027})

	if engine.DiscountTable().Empty() {
		t.Error("expected empty table to be replaced with the default table")
	}
	got := engine.Assumptions()
	if got.AppreciationRate != 0 || got.InflationRate != 0 {
		t.Errorf("expected zero rates to be kept, got %+v", got)
	}
	if got.TierStep != constants.TierStep || got.HorizonYears != constants.ProjectionYears || got.StartYear != 2027 {
		t.Errorf("unexpected defaults: %+v", got)
	}
}
