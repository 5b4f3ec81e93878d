package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/iwvelando/ananda-quote/internal/config"
	"github.com/iwvelando/ananda-quote/internal/logging"
	"github.com/iwvelando/ananda-quote/internal/quote"
	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/output"
	"github.com/iwvelando/ananda-quote/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	lot := flag.Int("lot", 0, "lot number override")
	tier := flag.Int("tier", 0, "pricing tier override (1-10)")
	down := flag.Int("down", -1, "down payment percentage override")
	term := flag.Int("term", -1, "financing term override in months")
	priceList := flag.String("price-list", "", "price list override")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	req := conf.Quote
	if *lot != 0 {
		req.Lot = *lot
	}
	if *tier != 0 {
		req.Tier = *tier
	}
	if *down >= 0 {
		req.DownPaymentPct = *down
	}
	if *term >= 0 {
		req.TermMonths = *term
	}
	if *priceList != "" {
		req.PriceList = *priceList
	}

	ctx := context.Background()
	svc, err := quote.Setup(ctx, logger, conf)
	if err != nil {
		logger.Fatal("failed to set up quote service",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	defer func() {
		_ = svc.Close()
	}()

	q, err := svc.Quote(ctx, req)
	if err != nil {
		logger.Fatal("failed to compute quote",
			zap.String("op", "main"),
			zap.Int("lot", req.Lot),
			zap.Error(err),
		)
	}

	lotInfo, _ := svc.Inventory().Lot(q.LotNumber)
	doc := output.NewDocument(lotInfo, q)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(doc)
	case constants.OutputFormatCSV:
		output.CsvFormat(doc)
	case constants.OutputFormatJSON:
		output.JSONFormat(doc)
	}
}
