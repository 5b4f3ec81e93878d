package pricing

import "fmt"

// MissingReferencePriceError is returned when a lot has neither the requested
// tier price nor a tier-1 price to synthesize it from.
type MissingReferencePriceError struct {
	LotNumber int
	Tier      int
}

func (e *MissingReferencePriceError) Error() string {
	return fmt.Sprintf("lot %d has no price for tier %d and no tier-1 reference price", e.LotNumber, e.Tier)
}

// InvalidConfigurationError reports a quote input outside its valid range.
type InvalidConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func invalid(field string, value float64, reason string) error {
	return &InvalidConfigurationError{Field: field, Value: value, Reason: reason}
}
