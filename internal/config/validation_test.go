package config

import (
	"strings"
	"testing"

	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

func TestValidateConfigurationEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		config Configuration
		want   string
	}{
		{
			name:   "unknown default price list",
			config: Configuration{Quote: QuoteRequest{PriceList: "VIP"}},
			want:   "Default price list 'VIP' is not defined",
		},
		{
			name:   "price list factor above one",
			config: Configuration{PriceLists: []PriceList{{Name: "Markup", Factor: 1.2}}},
			want:   "outside (0, 1]",
		},
		{
			name:   "unknown default competitor",
			config: Configuration{Quote: QuoteRequest{Competitor: "Nobody"}},
			want:   "Default competitor 'Nobody' is not defined",
		},
		{
			name:   "presold outside inventory",
			config: Configuration{Inventory: InventoryConfig{Presold: []string{"40-45"}}},
			want:   "Presold lot 45 is outside 1..44",
		},
		{
			name:   "malformed presold",
			config: Configuration{Inventory: InventoryConfig{Presold: []string{"a-b"}}},
			want:   "Presold lots ignored",
		},
		{
			name:   "tier out of range",
			config: Configuration{Quote: QuoteRequest{Tier: 12}},
			want:   "Default tier 12",
		},
		{
			name:   "term without discount row",
			config: Configuration{Quote: QuoteRequest{TermMonths: 24}},
			want:   "Default term of 24 months",
		},
		{
			name: "non-monotonic discount row",
			config: Configuration{DiscountTable: []DiscountRow{
				{Term: 0, Bands: []pricing.DiscountBand{{MinDownPaymentPct: 30, Rate: 0.05}, {MinDownPaymentPct: 50, Rate: 0.03}}},
			}},
			want: "Term 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.config.ValidateConfiguration()
			for _, warning := range warnings {
				if strings.Contains(warning, tt.want) {
					return
				}
			}
			t.Errorf("expected a warning containing %q, got %v", tt.want, warnings)
		})
	}
}

func TestValidateConfigurationValid(t *testing.T) {
	config := Configuration{
		Quote: QuoteRequest{Lot: 1, Tier: 10, TermMonths: 13, PriceList: "Presale", Competitor: "CAAY (Apartment)"},
		Inventory: InventoryConfig{
			Presold: []string{"1-8", "44"},
		},
	}
	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}
