package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example configuration",
			configPath: filepath.Join("..", "..", "config.yaml.example"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join("..", "..", "config.yaml.example"))
	if err != nil {
		t.Fatalf("failed to load example configuration: %v", err)
	}

	if config.Logging.Level != "info" || config.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", config.Logging)
	}
	if config.Output.Format != "pretty" {
		t.Errorf("expected pretty output, got %q", config.Output.Format)
	}
	if len(config.PriceLists) != 4 || config.PriceLists[2].Name != "Friends & Family" {
		t.Errorf("unexpected price lists %+v", config.PriceLists)
	}
	if len(config.Competitors) != 4 {
		t.Errorf("expected 4 competitors, got %d", len(config.Competitors))
	}
	if !config.Inventory.Fallback || len(config.Inventory.Presold) != 1 {
		t.Errorf("unexpected inventory config %+v", config.Inventory)
	}

	q := config.Quote
	if q.Lot != 12 || q.Tier != 1 || q.DownPaymentPct != 30 || q.TermMonths != 12 {
		t.Errorf("unexpected default quote %+v", q)
	}
	if q.OccupancyPct != 60 || q.FixedMonthlyCosts != 8000 {
		t.Errorf("unexpected rental defaults %+v", q)
	}

	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected example configuration to be clean, got %v", warnings)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	data := `
logging:
  level: debug
  format: console
assumptions:
  appreciationRate: 0.1
  horizonYears: 7
discountTable:
  - term: 0
    bands:
      - minDownPayment: 50
        rate: 0.08
      - minDownPayment: 30
        rate: 0.05
cache:
  redisAddr: localhost:6379
  ttlSeconds: 60
events:
  brokers: ["k1:9092", "k2:9092"]
  topic: quotes
quote:
  lot: 3
  termMonths: 0
  priceList: presale
`
	config, err := LoadConfigurationFromReader(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", config.Logging)
	}
	if config.Assumptions.AppreciationRate == nil || *config.Assumptions.AppreciationRate != 0.1 || config.Assumptions.HorizonYears != 7 {
		t.Errorf("unexpected assumptions %+v", config.Assumptions)
	}
	if len(config.DiscountTable) != 1 || len(config.DiscountTable[0].Bands) != 2 {
		t.Fatalf("unexpected discount table %+v", config.DiscountTable)
	}
	if band := config.DiscountTable[0].Bands[0]; band.MinDownPaymentPct != 50 || band.Rate != 0.08 {
		t.Errorf("unexpected first band %+v", band)
	}
	if config.Cache.RedisAddr != "localhost:6379" || config.Cache.TTLSeconds != 60 {
		t.Errorf("unexpected cache config %+v", config.Cache)
	}
	if len(config.Events.Brokers) != 2 || config.Events.Topic != "quotes" {
		t.Errorf("unexpected events config %+v", config.Events)
	}
	if config.Quote.Lot != 3 || config.Quote.PriceList != "presale" {
		t.Errorf("unexpected quote defaults %+v", config.Quote)
	}
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("logging: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoggingConfiguration(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(`
logging:
  level: warn
  outputFile: /tmp/kino.log
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %q", config.Logging.Level)
	}
	if config.Logging.Format != "" {
		t.Errorf("expected empty format to defer to the logger default, got %q", config.Logging.Format)
	}
	if config.Logging.OutputFile != "/tmp/kino.log" {
		t.Errorf("unexpected output file %q", config.Logging.OutputFile)
	}
}
