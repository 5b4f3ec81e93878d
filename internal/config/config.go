// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/ananda-quote/internal/inventory"
	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/pricing"
	"github.com/iwvelando/ananda-quote/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for ananda-quote.
type Configuration struct {
	Logging       LoggingConfig     `yaml:"logging,omitempty"`
	Output        OutputConfig      `yaml:"output,omitempty"`
	Assumptions   AssumptionsConfig `yaml:"assumptions,omitempty"`
	DiscountTable []DiscountRow     `yaml:"discountTable,omitempty"`
	PriceLists    []PriceList       `yaml:"priceLists,omitempty"`
	Competitors   []Competitor      `yaml:"competitors,omitempty"`
	Inventory     InventoryConfig   `yaml:"inventory,omitempty"`
	Quote         QuoteRequest      `yaml:"quote,omitempty"`
	Cache         CacheConfig       `yaml:"cache,omitempty"`
	Events        EventsConfig      `yaml:"events,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// AssumptionsConfig overrides the market assumptions. Unset rates and zero
// values of the other fields keep the defaults; a rate set to 0 disables it.
type AssumptionsConfig struct {
	AppreciationRate *float64 `yaml:"appreciationRate,omitempty"`
	InflationRate    *float64 `yaml:"inflationRate,omitempty"`
	TierStep         float64 `yaml:"tierStep,omitempty"`
	HorizonYears     int     `yaml:"horizonYears,omitempty"`
	StartYear        int     `yaml:"startYear,omitempty"`
}

// DiscountRow holds the discount bands for one financing term.
type DiscountRow struct {
	Term  int                    `yaml:"term"`
	Bands []pricing.DiscountBand `yaml:"bands"`
}

// PriceList is a named commercial price list.
type PriceList struct {
	Name   string  `yaml:"name"`
	Factor float64 `yaml:"factor"`
}

// Competitor is a comparable property offered to buyers for comparison.
type Competitor struct {
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

// InventoryConfig describes where lots are loaded from.
type InventoryConfig struct {
	Source   string              `yaml:"source,omitempty"`   // file path or DSN
	Driver   string              `yaml:"driver,omitempty"`   // csv, json, sqlite3, mysql
	Presold  []string            `yaml:"presold,omitempty"`  // lot numbers or ranges such as "1-8"
	Columns  map[string][]string `yaml:"columns,omitempty"`  // canonical field -> source aliases
	Fallback bool                `yaml:"fallback,omitempty"` // use the built-in lots when loading fails
}

// QuoteRequest is a buyer configuration as entered by an agent. The quote
// section of the configuration file supplies its defaults.
type QuoteRequest struct {
	Lot               int     `json:"lot" yaml:"lot"`
	Tier              int     `json:"tier" yaml:"tier"`
	DownPaymentPct    int     `json:"downPaymentPct" yaml:"downPaymentPct"`
	TermMonths        int     `json:"termMonths" yaml:"termMonths"`
	PriceList         string  `json:"priceList,omitempty" yaml:"priceList,omitempty"`
	NegotiationPct    float64 `json:"negotiationPct,omitempty" yaml:"negotiationPct,omitempty"`
	ConstructionCost  float64 `json:"constructionCost,omitempty" yaml:"constructionCost,omitempty"`
	Competitor        string  `json:"competitor,omitempty" yaml:"competitor,omitempty"`
	NightlyRate       float64 `json:"nightlyRate,omitempty" yaml:"nightlyRate,omitempty"`
	OccupancyPct      float64 `json:"occupancyPct,omitempty" yaml:"occupancyPct,omitempty"`
	NightsPerYear     int     `json:"nightsPerYear,omitempty" yaml:"nightsPerYear,omitempty"`
	AdminFeePct       float64 `json:"adminFeePct,omitempty" yaml:"adminFeePct,omitempty"`
	FixedMonthlyCosts float64 `json:"fixedMonthlyCosts,omitempty" yaml:"fixedMonthlyCosts,omitempty"`
}

// CacheConfig enables quote memoization in Redis.
type CacheConfig struct {
	RedisAddr  string `yaml:"redisAddr,omitempty"`
	TTLSeconds int    `yaml:"ttlSeconds,omitempty"`
}

// EventsConfig enables publishing issued quotes to Kafka.
type EventsConfig struct {
	Brokers []string `yaml:"brokers,omitempty"`
	Topic   string   `yaml:"topic,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.DiscountTable) > 0 {
		warnings = append(warnings, validation.ValidateDiscountTable(c.discountRows())...)
	}

	if c.Quote.PriceList != "" {
		if _, ok := c.LookupPriceList(c.Quote.PriceList); !ok {
			warnings = append(warnings, fmt.Sprintf("Default price list '%s' is not defined", c.Quote.PriceList))
		}
	}
	for _, list := range c.PriceLists {
		if list.Factor <= 0 || list.Factor > 1 {
			warnings = append(warnings, fmt.Sprintf("Price list '%s' has factor %.2f outside (0, 1]", list.Name, list.Factor))
		}
	}

	if c.Quote.Competitor != "" {
		if _, ok := c.LookupCompetitor(c.Quote.Competitor); !ok {
			warnings = append(warnings, fmt.Sprintf("Default competitor '%s' is not defined", c.Quote.Competitor))
		}
	}

	presold, err := inventory.ParseLotRanges(c.Inventory.Presold)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("Presold lots ignored: %v", err))
	}
	for _, number := range presold {
		if number < 1 || number > constants.InventorySize {
			warnings = append(warnings, fmt.Sprintf("Presold lot %d is outside 1..%d", number, constants.InventorySize))
		}
	}

	if c.Quote.Tier != 0 && (c.Quote.Tier < constants.MinTier || c.Quote.Tier > constants.MaxTier) {
		warnings = append(warnings, fmt.Sprintf("Default tier %d is outside %d..%d", c.Quote.Tier, constants.MinTier, constants.MaxTier))
	}
	if c.Quote.TermMonths > constants.MaxFinancingTerm {
		warnings = append(warnings, fmt.Sprintf("Default term of %d months has no discount row", c.Quote.TermMonths))
	}

	return warnings
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
