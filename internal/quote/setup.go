package quote

import (
	"context"
	"errors"
	"time"

	"github.com/iwvelando/ananda-quote/internal/config"
	"github.com/iwvelando/ananda-quote/internal/inventory"
	"github.com/iwvelando/ananda-quote/pkg/constants"
	"go.uber.org/zap"
)

// LoadInventory loads the configured lots. When loading fails and the
// configuration opts into the fallback dataset, the failure is logged and
// the fallback lots are used instead.
func LoadInventory(ctx context.Context, logger *zap.Logger, conf *config.Configuration) (*inventory.Inventory, error) {
	opts, err := conf.ToInventoryOptions()
	if err != nil {
		return nil, err
	}

	lots, err := inventory.Load(ctx, opts)
	if err != nil {
		var loadErr *inventory.LoadError
		if !conf.Inventory.Fallback || !errors.As(err, &loadErr) {
			return nil, err
		}
		logger.Warn("using fallback inventory",
			zap.String("op", "quote.LoadInventory"),
			zap.String("source", loadErr.Source),
			zap.Error(loadErr.Err),
		)
		lots = inventory.FallbackLots()
		inventory.ApplyPresold(lots, opts.Presold)
	}

	inv, err := inventory.New(lots)
	if err != nil {
		return nil, err
	}
	logger.Info("inventory loaded",
		zap.String("op", "quote.LoadInventory"),
		zap.Int("lots", inv.Len()),
		zap.Int("available", inv.AvailableCount()),
	)
	return inv, nil
}

// NewCache returns a Redis cache when one is configured.
func NewCache(conf config.CacheConfig) Cache {
	if conf.RedisAddr == "" {
		return NopCache{}
	}
	ttl := conf.TTLSeconds
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTLSeconds
	}
	return NewRedisCache(conf.RedisAddr, time.Duration(ttl)*time.Second)
}

// NewPublisher returns a Kafka publisher when brokers are configured.
func NewPublisher(conf config.EventsConfig) Publisher {
	if len(conf.Brokers) == 0 {
		return NopPublisher{}
	}
	topic := conf.Topic
	if topic == "" {
		topic = constants.DefaultEventsTopic
	}
	return NewKafkaPublisher(conf.Brokers, topic)
}

// Setup wires a Service from the configuration: engine, inventory, cache and
// event publisher.
func Setup(ctx context.Context, logger *zap.Logger, conf *config.Configuration) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	inv, err := LoadInventory(ctx, logger, conf)
	if err != nil {
		return nil, err
	}
	engine := NewEngine(logger, conf, time.Now())
	return NewService(logger, engine, inv, conf, NewCache(conf.Cache), NewPublisher(conf.Events)), nil
}
