package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iwvelando/ananda-quote/internal/config"
	"github.com/iwvelando/ananda-quote/internal/inventory"
	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/mathutil"
	"github.com/iwvelando/ananda-quote/pkg/pricing"
	"github.com/iwvelando/ananda-quote/pkg/testutil"
)

type memoryCache struct {
	entries map[string]pricing.Quote
	gets    int
	err     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]pricing.Quote)}
}

func (c *memoryCache) Get(_ context.Context, key string) (pricing.Quote, bool, error) {
	c.gets++
	if c.err != nil {
		return pricing.Quote{}, false, c.err
	}
	q, ok := c.entries[key]
	return q, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, q pricing.Quote) error {
	if c.err != nil {
		return c.err
	}
	c.entries[key] = q
	return nil
}

func (c *memoryCache) Close() error { return nil }

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestService(t *testing.T, cache Cache, publisher Publisher) *Service {
	t.Helper()
	sold := pricing.Lot{
		Number:     8,
		LandAreaM2: 300,
		TierPrices: map[int]float64{1: 1350000},
		Status:     pricing.StatusSold,
		Buyer:      "Ana",
	}
	inv, err := inventory.New([]pricing.Lot{testutil.ReferenceLot(), sold})
	if err != nil {
		t.Fatalf("inventory.New() error: %v", err)
	}
	conf := &config.Configuration{}
	engine := NewEngine(nil, conf, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewService(nil, engine, inv, conf, cache, publisher)
}

func TestServiceQuote(t *testing.T) {
	svc := newTestService(t, nil, nil)

	q, err := svc.Quote(context.Background(), config.QuoteRequest{
		Lot:            7,
		Tier:           1,
		DownPaymentPct: 30,
		TermMonths:     12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mathutil.WithinTolerance(q.FinalPrice, 3250500, constants.CurrencyTolerance) {
		t.Errorf("FinalPrice = %.2f, expected 3250500.00", q.FinalPrice)
	}
	if q.Projection[0].Year != 2025 {
		t.Errorf("expected projection to start in 2025, got %d", q.Projection[0].Year)
	}
}

func TestServiceLotErrors(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Quote(context.Background(), config.QuoteRequest{Lot: 99, Tier: 1, DownPaymentPct: 30, TermMonths: 12})
	if !errors.Is(err, ErrLotNotFound) {
		t.Errorf("expected ErrLotNotFound, got %v", err)
	}

	_, err = svc.Quote(context.Background(), config.QuoteRequest{Lot: 8, Tier: 1, DownPaymentPct: 30, TermMonths: 12})
	if !errors.Is(err, ErrLotUnavailable) {
		t.Errorf("expected ErrLotUnavailable, got %v", err)
	}
}

func TestConfigure(t *testing.T) {
	svc := newTestService(t, nil, nil)

	tests := []struct {
		name      string
		req       config.QuoteRequest
		wantField string
		check     func(t *testing.T, cfg pricing.Configuration)
	}{
		{
			name: "price list and competitor",
			req:  config.QuoteRequest{Lot: 7, Tier: 1, PriceList: "presale", Competitor: "caay (apartment)"},
			check: func(t *testing.T, cfg pricing.Configuration) {
				if cfg.PriceList.Factor != 0.95 {
					t.Errorf("expected presale factor 0.95, got %v", cfg.PriceList.Factor)
				}
				if cfg.Competitor == nil || cfg.Competitor.Price != 3500000 {
					t.Errorf("unexpected competitor %+v", cfg.Competitor)
				}
			},
		},
		{
			name: "percentages become fractions",
			req:  config.QuoteRequest{Lot: 7, Tier: 1, OccupancyPct: 60, AdminFeePct: 20},
			check: func(t *testing.T, cfg pricing.Configuration) {
				if cfg.Rental.OccupancyPct != 0.6 || cfg.Rental.AdminFeePct != 0.2 {
					t.Errorf("unexpected rental %+v", cfg.Rental)
				}
			},
		},
		{
			name: "nights per year",
			req:  config.QuoteRequest{Lot: 7, Tier: 1, NightsPerYear: 219},
			check: func(t *testing.T, cfg pricing.Configuration) {
				if !mathutil.WithinTolerance(cfg.Rental.OccupancyPct, 0.6, 1e-9) {
					t.Errorf("expected occupancy 0.6, got %v", cfg.Rental.OccupancyPct)
				}
			},
		},
		{name: "unknown price list", req: config.QuoteRequest{Lot: 7, Tier: 1, PriceList: "VIP"}, wantField: "priceList"},
		{name: "unknown competitor", req: config.QuoteRequest{Lot: 7, Tier: 1, Competitor: "Nobody"}, wantField: "competitor"},
		{name: "nights and occupancy", req: config.QuoteRequest{Lot: 7, Tier: 1, NightsPerYear: 100, OccupancyPct: 50}, wantField: "nightsPerYear"},
		{name: "too many nights", req: config.QuoteRequest{Lot: 7, Tier: 1, NightsPerYear: 400}, wantField: "nightsPerYear"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := svc.Configure(tt.req)
			if tt.wantField != "" {
				var invalid *pricing.InvalidConfigurationError
				if !errors.As(err, &invalid) {
					t.Fatalf("expected InvalidConfigurationError, got %v", err)
				}
				if invalid.Field != tt.wantField {
					t.Errorf("expected field %q, got %q", tt.wantField, invalid.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestServiceUsesCache(t *testing.T) {
	cache := newMemoryCache()
	publisher := &recordingPublisher{}
	svc := newTestService(t, cache, publisher)
	req := config.QuoteRequest{Lot: 7, Tier: 4, DownPaymentPct: 50, TermMonths: 6}

	first, err := svc.Quote(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("expected one cached quote, got %d", len(cache.entries))
	}

	// A poisoned entry proves the second call is served from the cache.
	for key, q := range cache.entries {
		q.FinalPrice = 1
		cache.entries[key] = q
	}
	second, err := svc.Quote(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.FinalPrice != 1 || first.FinalPrice == 1 {
		t.Errorf("expected second quote from cache, got %v", second.FinalPrice)
	}
	if len(publisher.events) != 2 {
		t.Errorf("expected an event per issued quote, got %d", len(publisher.events))
	}
}

func TestServiceToleratesIntegrationFailures(t *testing.T) {
	cache := newMemoryCache()
	cache.err = errors.New("redis down")
	publisher := &recordingPublisher{err: errors.New("kafka down")}
	svc := newTestService(t, cache, publisher)

	q, err := svc.Quote(context.Background(), config.QuoteRequest{Lot: 7, Tier: 1, DownPaymentPct: 30, TermMonths: 12})
	if err != nil {
		t.Fatalf("expected quote despite failing integrations, got %v", err)
	}
	if q.FinalPrice == 0 {
		t.Error("expected a computed quote")
	}
	if cache.gets != 1 {
		t.Errorf("expected one cache lookup, got %d", cache.gets)
	}
}

func TestCacheKeyDependsOnEngine(t *testing.T) {
	svc := newTestService(t, nil, nil)
	cfg, err := svc.Configure(config.QuoteRequest{Lot: 7, Tier: 1, DownPaymentPct: 30, TermMonths: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key1, _ := svc.cacheKey(cfg)
	key2, _ := svc.cacheKey(cfg)
	if key1 != key2 {
		t.Error("expected cache keys to be stable")
	}

	rate := 0.1
	conf := &config.Configuration{Assumptions: config.AssumptionsConfig{AppreciationRate: &rate}}
	other := NewService(nil, NewEngine(nil, conf, time.Now()), svc.Inventory(), conf, nil, nil)
	key3, _ := other.cacheKey(cfg)
	if key3 == key1 {
		t.Error("expected different assumptions to change the cache key")
	}
}
