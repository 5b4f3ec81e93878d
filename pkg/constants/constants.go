// Package constants provides shared constants for the ananda-quote application.
package constants

// Business assumptions applied when a configuration does not override them.
const (
	// AnnualAppreciationRate is the yearly property appreciation used by projections.
	AnnualAppreciationRate = 0.08

	// AnnualInflationRate grows nightly rates and fixed costs year over year.
	AnnualInflationRate = 0.05

	// TierStep is the price increment per tier above tier 1 when a tier price is synthesized.
	TierStep = 0.03

	// ProjectionYears is the length of the wealth projection horizon.
	ProjectionYears = 5
)

// Inventory and quote bounds
const (
	// MinTier is the first pricing tier.
	MinTier = 1

	// MaxTier is the top pricing tier, the price at full sell-out.
	MaxTier = 10

	// MaxFinancingTerm is the longest financing term with a discount row.
	MaxFinancingTerm = 13

	// InventorySize is the number of lots in the development.
	InventorySize = 44

	// MaxNegotiationPct caps the manual negotiation discount, in percent.
	MaxNegotiationPct = 20.0

	// FallbackPricePerM2 prices land in the fallback inventory.
	FallbackPricePerM2 = 4500.0
)

// Time constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// NightsPerYear is the number of rentable nights in a year
	NightsPerYear = 365
)

// Numeric constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable quote summary
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultRateLimit is the default sustained request rate per second
	DefaultRateLimit = 20.0

	// DefaultRateBurst is the default request burst size
	DefaultRateBurst = 40
)

// Integration defaults
const (
	// DefaultEventsTopic is the Kafka topic for issued quotes
	DefaultEventsTopic = "kino-quotes"

	// DefaultCacheTTLSeconds is how long a memoized quote stays in Redis
	DefaultCacheTTLSeconds = 900
)
