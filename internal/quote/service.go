// Package quote issues quotes for lots in the inventory. It turns an agent's
// request into a pricing configuration, checks the lot can be sold, and
// optionally memoizes quotes in Redis and publishes them to Kafka.
package quote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/ananda-quote/internal/config"
	"github.com/iwvelando/ananda-quote/internal/inventory"
	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/mathutil"
	"github.com/iwvelando/ananda-quote/pkg/pricing"
	"go.uber.org/zap"
)

var (
	// ErrLotNotFound is returned when a request names a lot outside the inventory.
	ErrLotNotFound = errors.New("lot not found")
	// ErrLotUnavailable is returned when a request names a sold lot.
	ErrLotUnavailable = errors.New("lot is not available")
)

// Catalog resolves the named options of a request.
type Catalog interface {
	LookupPriceList(name string) (pricing.PriceList, bool)
	LookupCompetitor(name string) (pricing.Competitor, bool)
}

// Service issues quotes against a fixed inventory.
type Service struct {
	logger      *zap.Logger
	engine      *pricing.Engine
	lots        *inventory.Inventory
	catalog     Catalog
	cache       Cache
	publisher   Publisher
	fingerprint string
	now         func() time.Time
}

// NewService creates a quote service. A nil cache or publisher disables that
// integration.
func NewService(logger *zap.Logger, engine *pricing.Engine, lots *inventory.Inventory, catalog Catalog, cache Cache, publisher Publisher) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NopCache{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		logger:      logger,
		engine:      engine,
		lots:        lots,
		catalog:     catalog,
		cache:       cache,
		publisher:   publisher,
		fingerprint: engineFingerprint(engine),
		now:         time.Now,
	}
}

// NewEngine builds the pricing engine described by conf. Projections start at
// the configured year, or the year of now when none is configured.
func NewEngine(logger *zap.Logger, conf *config.Configuration, now time.Time) *pricing.Engine {
	assumptions := conf.ToAssumptions()
	if assumptions.StartYear == 0 {
		assumptions.StartYear = now.Year()
	}
	return pricing.NewEngine(logger, conf.ToDiscountTable(), assumptions)
}

// Inventory returns the lots the service quotes against.
func (s *Service) Inventory() *inventory.Inventory {
	return s.lots
}

// Engine returns the pricing engine.
func (s *Service) Engine() *pricing.Engine {
	return s.engine
}

// Close releases the cache and publisher connections.
func (s *Service) Close() error {
	return errors.Join(s.cache.Close(), s.publisher.Close())
}

// Configure converts a request into a pricing configuration for an available lot.
func (s *Service) Configure(req config.QuoteRequest) (pricing.Configuration, error) {
	lot, ok := s.lots.Lot(req.Lot)
	if !ok {
		return pricing.Configuration{}, fmt.Errorf("%w: %d", ErrLotNotFound, req.Lot)
	}
	if !lot.Available() {
		return pricing.Configuration{}, fmt.Errorf("%w: lot %d is %s", ErrLotUnavailable, lot.Number, lot.Status)
	}

	cfg := pricing.Configuration{
		Lot:              lot,
		Tier:             req.Tier,
		DownPaymentPct:   req.DownPaymentPct,
		TermMonths:       req.TermMonths,
		NegotiationPct:   req.NegotiationPct,
		ConstructionCost: req.ConstructionCost,
	}

	if req.PriceList != "" {
		list, ok := s.catalog.LookupPriceList(req.PriceList)
		if !ok {
			return pricing.Configuration{}, &pricing.InvalidConfigurationError{
				Field:  "priceList",
				Reason: fmt.Sprintf("unknown price list %q", req.PriceList),
			}
		}
		cfg.PriceList = list
	}

	if req.Competitor != "" {
		competitor, ok := s.catalog.LookupCompetitor(req.Competitor)
		if !ok {
			return pricing.Configuration{}, &pricing.InvalidConfigurationError{
				Field:  "competitor",
				Reason: fmt.Sprintf("unknown competitor %q", req.Competitor),
			}
		}
		cfg.Competitor = &competitor
	}

	rental, err := rentalScenario(req)
	if err != nil {
		return pricing.Configuration{}, err
	}
	cfg.Rental = rental

	return cfg, nil
}

// rentalScenario reads the rental inputs of a request. Percentages in a
// request are 0..100 and become fractions.
func rentalScenario(req config.QuoteRequest) (pricing.RentalScenario, error) {
	rental := pricing.RentalScenario{
		NightlyRate:       req.NightlyRate,
		OccupancyPct:      mathutil.PercentToDecimal(req.OccupancyPct),
		AdminFeePct:       mathutil.PercentToDecimal(req.AdminFeePct),
		FixedMonthlyCosts: req.FixedMonthlyCosts,
	}

	if req.NightsPerYear != 0 {
		if req.OccupancyPct != 0 {
			return pricing.RentalScenario{}, &pricing.InvalidConfigurationError{
				Field:  "nightsPerYear",
				Value:  float64(req.NightsPerYear),
				Reason: "cannot be combined with occupancyPct",
			}
		}
		if req.NightsPerYear < 0 || req.NightsPerYear > constants.NightsPerYear {
			return pricing.RentalScenario{}, &pricing.InvalidConfigurationError{
				Field:  "nightsPerYear",
				Value:  float64(req.NightsPerYear),
				Reason: fmt.Sprintf("must be between 0 and %d", constants.NightsPerYear),
			}
		}
		rental.OccupancyPct = pricing.OccupancyFromNights(req.NightsPerYear)
	}

	return rental, nil
}

// Quote computes the quote for req. A cached quote is returned when one
// exists; cache and publisher failures are logged and never fail the quote.
func (s *Service) Quote(ctx context.Context, req config.QuoteRequest) (pricing.Quote, error) {
	cfg, err := s.Configure(req)
	if err != nil {
		return pricing.Quote{}, err
	}

	key, err := s.cacheKey(cfg)
	if err != nil {
		s.logger.Warn("failed to derive quote cache key",
			zap.String("op", "quote.Quote"),
			zap.Error(err),
		)
	}

	if key != "" {
		cached, hit, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("quote cache lookup failed",
				zap.String("op", "quote.Quote"),
				zap.Error(err),
			)
		case hit:
			s.logger.Debug("quote served from cache",
				zap.String("op", "quote.Quote"),
				zap.Int("lot", cfg.Lot.Number),
			)
			s.publish(ctx, cached)
			return cached, nil
		}
	}

	q, err := s.engine.Quote(cfg)
	if err != nil {
		return pricing.Quote{}, err
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, q); err != nil {
			s.logger.Warn("failed to store quote in cache",
				zap.String("op", "quote.Quote"),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("quote issued",
		zap.String("op", "quote.Quote"),
		zap.Int("lot", q.LotNumber),
		zap.Int("tier", q.Tier),
		zap.Int("termMonths", q.Financing.TermMonths),
		zap.Int("downPaymentPct", q.Financing.DownPaymentPct),
		zap.Float64("finalPrice", q.FinalPrice),
	)

	s.publish(ctx, q)
	return q, nil
}

func (s *Service) publish(ctx context.Context, q pricing.Quote) {
	event := Event{IssuedAt: s.now().UTC(), Quote: q}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish quote event",
			zap.String("op", "quote.publish"),
			zap.Int("lot", q.LotNumber),
			zap.Error(err),
		)
	}
}

// cacheKey hashes the resolved configuration together with the engine
// settings, so a changed discount table never serves stale quotes.
func (s *Service) cacheKey(cfg pricing.Configuration) (string, error) {
	payload, err := json.Marshal(struct {
		Engine string                `json:"engine"`
		Config pricing.Configuration `json:"config"`
	}{s.fingerprint, cfg})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

const cacheKeyPrefix = "kino:quote:"

func engineFingerprint(engine *pricing.Engine) string {
	table := engine.DiscountTable()
	rows := make(map[int][]pricing.DiscountBand)
	for _, term := range table.Terms() {
		rows[term] = table.Bands(term)
	}
	payload, err := json.Marshal(struct {
		Assumptions pricing.Assumptions
		Rows        map[int][]pricing.DiscountBand
	}{engine.Assumptions(), rows})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}
