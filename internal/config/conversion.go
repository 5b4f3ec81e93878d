package config

import (
	"github.com/iwvelando/ananda-quote/internal/inventory"
	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

var defaultPriceLists = []PriceList{
	{Name: "Public List", Factor: 1.00},
	{Name: "Presale", Factor: 0.95},
	{Name: "Friends & Family", Factor: 0.90},
	{Name: "Zero List", Factor: 0.85},
}

var defaultCompetitors = []Competitor{
	{Name: "Punta Peninsula (Condo)", Price: 4550000},
	{Name: "CAAY (Apartment)", Price: 3500000},
	{Name: "Marenza (Tower)", Price: 3200000},
	{Name: "Vistas (Lot Only)", Price: 1100000},
}

// EffectivePriceLists returns the configured price lists or the defaults.
func (c *Configuration) EffectivePriceLists() []PriceList {
	if len(c.PriceLists) == 0 {
		return defaultPriceLists
	}
	return c.PriceLists
}

// EffectiveCompetitors returns the configured competitors or the defaults.
func (c *Configuration) EffectiveCompetitors() []Competitor {
	if len(c.Competitors) == 0 {
		return defaultCompetitors
	}
	return c.Competitors
}

// LookupPriceList finds a price list by case-insensitive name.
func (c *Configuration) LookupPriceList(name string) (pricing.PriceList, bool) {
	for _, list := range c.EffectivePriceLists() {
		if normalizeName(list.Name) == normalizeName(name) {
			return pricing.PriceList{Name: list.Name, Factor: list.Factor}, true
		}
	}
	return pricing.PriceList{}, false
}

// LookupCompetitor finds a competitor by case-insensitive name.
func (c *Configuration) LookupCompetitor(name string) (pricing.Competitor, bool) {
	for _, competitor := range c.EffectiveCompetitors() {
		if normalizeName(competitor.Name) == normalizeName(name) {
			return pricing.Competitor{Name: competitor.Name, Price: competitor.Price}, true
		}
	}
	return pricing.Competitor{}, false
}

// ToDiscountTable converts the configured discount rows into a pricing table.
// With no rows configured the default table is returned.
func (c *Configuration) ToDiscountTable() pricing.DiscountTable {
	if len(c.DiscountTable) == 0 {
		return pricing.DefaultDiscountTable()
	}
	return pricing.NewDiscountTable(c.discountRows())
}

func (c *Configuration) discountRows() map[int][]pricing.DiscountBand {
	rows := make(map[int][]pricing.DiscountBand, len(c.DiscountTable))
	for _, row := range c.DiscountTable {
		rows[row.Term] = append(rows[row.Term], row.Bands...)
	}
	return rows
}

// ToAssumptions converts the assumptions section for the pricing engine.
func (c *Configuration) ToAssumptions() pricing.Assumptions {
	assumptions := pricing.DefaultAssumptions()
	if c.Assumptions.AppreciationRate != nil {
		assumptions.AppreciationRate = *c.Assumptions.AppreciationRate
	}
	if c.Assumptions.InflationRate != nil {
		assumptions.InflationRate = *c.Assumptions.InflationRate
	}
	if c.Assumptions.TierStep > 0 {
		assumptions.TierStep = c.Assumptions.TierStep
	}
	if c.Assumptions.HorizonYears > 0 {
		assumptions.HorizonYears = c.Assumptions.HorizonYears
	}
	assumptions.StartYear = c.Assumptions.StartYear
	return assumptions
}

// ToInventoryOptions converts the inventory section for the lot loaders.
func (c *Configuration) ToInventoryOptions() (inventory.Options, error) {
	presold, err := inventory.ParseLotRanges(c.Inventory.Presold)
	if err != nil {
		return inventory.Options{}, err
	}
	return inventory.Options{
		Source:  c.Inventory.Source,
		Driver:  c.Inventory.Driver,
		Presold: presold,
		Columns: inventory.NewColumnMapping(c.Inventory.Columns),
	}, nil
}
