package pricing

import (
	"fmt"
	"math"

	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/mathutil"
	"go.uber.org/zap"
)

// Assumptions are the market assumptions behind every quote. Zero rates mean
// no appreciation or inflation; a zero tier step or horizon takes the default.
type Assumptions struct {
	AppreciationRate float64
	InflationRate    float64
	TierStep         float64
	HorizonYears     int
	StartYear        int
}

// DefaultAssumptions returns the standard market assumptions.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		AppreciationRate: constants.AnnualAppreciationRate,
		InflationRate:    constants.AnnualInflationRate,
		TierStep:         constants.TierStep,
		HorizonYears:     constants.ProjectionYears,
	}
}

func (a Assumptions) withDefaults() Assumptions {
	defaults := DefaultAssumptions()
	if a.TierStep == 0 {
		a.TierStep = defaults.TierStep
	}
	if a.HorizonYears <= 0 {
		a.HorizonYears = defaults.HorizonYears
	}
	return a
}

// PriceList is a named commercial list applied as a factor on the tier price.
type PriceList struct {
	Name   string  `json:"name"`
	Factor float64 `json:"factor"`
}

// Competitor is a comparable property on the market.
type Competitor struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Configuration is the buyer's configuration for a single quote.
type Configuration struct {
	Lot              Lot
	Tier             int
	DownPaymentPct   int
	TermMonths       int
	PriceList        PriceList
	NegotiationPct   float64
	ConstructionCost float64
	Competitor       *Competitor
	Rental           RentalScenario
}

// Validate checks every input against its valid range.
func (c Configuration) Validate() error {
	switch {
	case c.Tier < constants.MinTier || c.Tier > constants.MaxTier:
		return invalid("tier", float64(c.Tier), fmt.Sprintf("must be between %d and %d", constants.MinTier, constants.MaxTier))
	case c.DownPaymentPct < 0 || c.DownPaymentPct > 100:
		return invalid("downPaymentPct", float64(c.DownPaymentPct), "must be between 0 and 100")
	case c.TermMonths < 0:
		return invalid("termMonths", float64(c.TermMonths), "must not be negative")
	case !mathutil.InRange(c.NegotiationPct, 0, constants.MaxNegotiationPct):
		return invalid("negotiationPct", c.NegotiationPct, fmt.Sprintf("must be between 0 and %.0f", constants.MaxNegotiationPct))
	case c.ConstructionCost < 0 || math.IsNaN(c.ConstructionCost):
		return invalid("constructionCost", c.ConstructionCost, "must not be negative")
	case c.PriceList.Name != "" && !(c.PriceList.Factor > 0):
		return invalid("priceList.factor", c.PriceList.Factor, "must be positive")
	case c.Competitor != nil && c.Competitor.Price < 0:
		return invalid("competitor.price", c.Competitor.Price, "must not be negative")
	case c.Rental.NightlyRate < 0 || math.IsNaN(c.Rental.NightlyRate):
		return invalid("nightlyRate", c.Rental.NightlyRate, "must not be negative")
	case !mathutil.InRange(c.Rental.OccupancyPct, 0, 1):
		return invalid("occupancyPct", c.Rental.OccupancyPct, "must be a fraction between 0 and 1")
	case !mathutil.InRange(c.Rental.AdminFeePct, 0, 1):
		return invalid("adminFeePct", c.Rental.AdminFeePct, "must be a fraction between 0 and 1")
	case c.Rental.FixedMonthlyCosts < 0 || math.IsNaN(c.Rental.FixedMonthlyCosts):
		return invalid("fixedMonthlyCosts", c.Rental.FixedMonthlyCosts, "must not be negative")
	}
	return nil
}

// CompetitorComparison weighs the total investment against a comparable.
type CompetitorComparison struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Equity float64 `json:"equity"`
}

// Quote is the computed result for a Configuration.
type Quote struct {
	LotNumber         int                   `json:"lotNumber"`
	Tier              int                   `json:"tier"`
	PriceList         string                `json:"priceList,omitempty"`
	TierPrice         float64               `json:"tierPrice"`
	ListPrice         float64               `json:"listPrice"`
	DiscountRate      float64               `json:"discountRate"`
	NegotiationRate   float64               `json:"negotiationRate"`
	DiscountAmount    float64               `json:"discountAmount"`
	FinalPrice        float64               `json:"finalPrice"`
	Financing         Financing             `json:"financing"`
	FutureMarketValue float64               `json:"futureMarketValue"`
	InstantEquity     float64               `json:"instantEquity"`
	ConstructionCost  float64               `json:"constructionCost"`
	TotalInvestment   float64               `json:"totalInvestment"`
	Comparison        *CompetitorComparison `json:"comparison,omitempty"`
	RentalROI         float64               `json:"rentalRoi"`
	Rental            RentalScenario        `json:"rental"`
	Projection        []ProjectionYear      `json:"projection"`
}

// Engine composes tier pricing, discounts, financing and projection into quotes.
type Engine struct {
	logger      *zap.Logger
	table       DiscountTable
	assumptions Assumptions
}

// NewEngine creates an engine over a discount table. An empty table is
// replaced with DefaultDiscountTable.
func NewEngine(logger *zap.Logger, table DiscountTable, assumptions Assumptions) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table.Empty() {
		table = DefaultDiscountTable()
	}
	return &Engine{logger: logger, table: table, assumptions: assumptions.withDefaults()}
}

// DiscountTable returns the table the engine resolves discounts from.
func (e *Engine) DiscountTable() DiscountTable {
	return e.table
}

// Assumptions returns the effective market assumptions.
func (e *Engine) Assumptions() Assumptions {
	return e.assumptions
}

// Quote computes the quote for cfg. Identical configurations always produce
// identical quotes.
func (e *Engine) Quote(cfg Configuration) (Quote, error) {
	if err := cfg.Validate(); err != nil {
		return Quote{}, err
	}

	tierPrice, err := ResolveTierPrice(cfg.Lot, cfg.Tier, e.assumptions.TierStep)
	if err != nil {
		return Quote{}, err
	}
	futureValue, err := ResolveTierPrice(cfg.Lot, constants.MaxTier, e.assumptions.TierStep)
	if err != nil {
		return Quote{}, err
	}

	factor := 1.0
	if cfg.PriceList.Name != "" {
		factor = cfg.PriceList.Factor
	}
	listPrice := tierPrice * factor

	discountRate := e.table.Resolve(cfg.TermMonths, cfg.DownPaymentPct)
	negotiationRate := mathutil.PercentToDecimal(cfg.NegotiationPct)
	finalPrice := listPrice * (1 - discountRate) * (1 - negotiationRate)

	e.logger.Debug("resolved quote prices",
		zap.String("op", "pricing.Quote"),
		zap.Int("lot", cfg.Lot.Number),
		zap.Int("tier", cfg.Tier),
		zap.Float64("tierPrice", tierPrice),
		zap.Float64("discountRate", discountRate),
		zap.Float64("finalPrice", finalPrice),
	)

	totalInvestment := finalPrice + cfg.ConstructionCost
	quote := Quote{
		LotNumber:         cfg.Lot.Number,
		Tier:              cfg.Tier,
		PriceList:         cfg.PriceList.Name,
		TierPrice:         tierPrice,
		ListPrice:         listPrice,
		DiscountRate:      discountRate,
		NegotiationRate:   negotiationRate,
		DiscountAmount:    tierPrice - finalPrice,
		FinalPrice:        finalPrice,
		Financing:         CalculateFinancing(finalPrice, cfg.DownPaymentPct, cfg.TermMonths),
		FutureMarketValue: futureValue,
		InstantEquity:     futureValue - finalPrice,
		ConstructionCost:  cfg.ConstructionCost,
		TotalInvestment:   totalInvestment,
		Rental:            cfg.Rental,
	}

	if cfg.Competitor != nil {
		quote.Comparison = &CompetitorComparison{
			Name:   cfg.Competitor.Name,
			Price:  cfg.Competitor.Price,
			Equity: cfg.Competitor.Price - totalInvestment,
		}
	}

	quote.Projection = ProjectWealth(ProjectionParams{
		StartValue:       futureValue + cfg.ConstructionCost,
		AppreciationRate: e.assumptions.AppreciationRate,
		InflationRate:    e.assumptions.InflationRate,
		Years:            e.assumptions.HorizonYears,
		StartYear:        e.assumptions.StartYear,
		Rental:           cfg.Rental,
	})

	if totalInvestment > 0 && len(quote.Projection) > 0 {
		quote.RentalROI = quote.Projection[0].NetRentalIncome / totalInvestment
	}

	return quote, nil
}
