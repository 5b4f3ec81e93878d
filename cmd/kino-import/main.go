package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/ananda-quote/internal/config"
	"github.com/iwvelando/ananda-quote/internal/inventory"
	"github.com/iwvelando/ananda-quote/internal/logging"
	"github.com/iwvelando/ananda-quote/pkg/constants"
	"go.uber.org/zap"
)

// kino-import copies the configured inventory source into a SQL database so
// the quote tools can read lots from it.
func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	driver := flag.String("driver", inventory.DriverSQLite, "target SQL driver: sqlite3 or mysql")
	dsn := flag.String("dsn", "", "target data source name, e.g. lots.db or user:pass@tcp(host:3306)/kino")
	showLot := flag.Int("lot", 0, "after importing, read this lot back from the store and log it")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *dsn == "" {
		logger.Fatal("a target -dsn is required", zap.String("op", "main"))
	}

	opts, err := conf.ToInventoryOptions()
	if err != nil {
		logger.Fatal("invalid inventory configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx := context.Background()
	lots, err := inventory.Load(ctx, opts)
	if err != nil {
		logger.Fatal("failed to load inventory",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	store, err := inventory.OpenStore(*driver, *dsn)
	if err != nil {
		logger.Fatal("failed to open store",
			zap.String("op", "main"),
			zap.String("driver", *driver),
			zap.Error(err),
		)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to create schema",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if err := store.UpsertLots(ctx, lots); err != nil {
		logger.Fatal("failed to write lots",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	count, err := store.Count(ctx)
	if err != nil {
		logger.Fatal("failed to count stored lots",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Info("inventory imported",
		zap.String("op", "main"),
		zap.String("source", opts.Source),
		zap.Int("imported", len(lots)),
		zap.Int("stored", count),
	)

	if *showLot > 0 {
		lot, ok, err := store.GetLot(ctx, *showLot)
		switch {
		case err != nil:
			logger.Fatal("failed to read stored lot",
				zap.String("op", "main"),
				zap.Int("lot", *showLot),
				zap.Error(err),
			)
		case !ok:
			logger.Warn("lot not found in store",
				zap.String("op", "main"),
				zap.Int("lot", *showLot),
			)
		default:
			logger.Info("stored lot",
				zap.String("op", "main"),
				zap.Int("lot", lot.Number),
				zap.Float64("landAreaM2", lot.LandAreaM2),
				zap.Any("tierPrices", lot.TierPrices),
				zap.String("status", string(lot.Status)),
			)
		}
	}
}
