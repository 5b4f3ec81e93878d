package pricing

import (
	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/mathutil"
)

// RentalScenario describes short-term rental operation of the property.
// OccupancyPct and AdminFeePct are fractions in [0, 1].
type RentalScenario struct {
	NightlyRate       float64 `json:"nightlyRate"`
	OccupancyPct      float64 `json:"occupancyPct"`
	AdminFeePct       float64 `json:"adminFeePct"`
	FixedMonthlyCosts float64 `json:"fixedMonthlyCosts"`
}

// OccupancyFromNights converts rented nights per year into an occupancy fraction.
func OccupancyFromNights(nights int) float64 {
	return float64(nights) / constants.NightsPerYear
}

// ProjectionParams seeds a wealth projection.
type ProjectionParams struct {
	StartValue       float64
	AppreciationRate float64
	InflationRate    float64
	Years            int
	StartYear        int
	Rental           RentalScenario
}

// ProjectionYear is one year of the wealth projection.
type ProjectionYear struct {
	YearOffset             int     `json:"yearOffset"`
	Year                   int     `json:"year,omitempty"`
	PropertyValue          float64 `json:"propertyValue"`
	GrossRentalIncome      float64 `json:"grossRentalIncome"`
	AdminCost              float64 `json:"adminCost"`
	FixedCosts             float64 `json:"fixedCosts"`
	NetRentalIncome        float64 `json:"netRentalIncome"`
	CumulativeRentalIncome float64 `json:"cumulativeRentalIncome"`
	TotalWealth            float64 `json:"totalWealth"`
}

// ProjectWealth projects property value and rental cash flow year by year.
// Year i records the value StartValue*(1+AppreciationRate)^i, so year 0 is the
// start value itself; nightly rates and fixed costs inflate the same way.
func ProjectWealth(p ProjectionParams) []ProjectionYear {
	years := p.Years
	if years <= 0 {
		years = constants.ProjectionYears
	}

	projection := make([]ProjectionYear, years)
	cumulative := 0.0
	for i := range projection {
		propertyValue := mathutil.Compound(p.StartValue, p.AppreciationRate, i)
		inflation := mathutil.Compound(1, p.InflationRate, i)

		gross := p.Rental.NightlyRate * inflation * constants.NightsPerYear * p.Rental.OccupancyPct
		admin := gross * p.Rental.AdminFeePct
		fixed := p.Rental.FixedMonthlyCosts * constants.MonthsPerYear * inflation
		net := gross - admin - fixed
		cumulative += net

		year := 0
		if p.StartYear > 0 {
			year = p.StartYear + i
		}

		projection[i] = ProjectionYear{
			YearOffset:             i,
			Year:                   year,
			PropertyValue:          propertyValue,
			GrossRentalIncome:      gross,
			AdminCost:              admin,
			FixedCosts:             fixed,
			NetRentalIncome:        net,
			CumulativeRentalIncome: cumulative,
			TotalWealth:            propertyValue + cumulative,
		}
	}
	return projection
}
