// Command spendash-export writes a one-off spending report for the
// configured customer into a Google Sheet.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"spendash/internal/backend"
	"spendash/internal/cli"
	"spendash/internal/client"
	"spendash/internal/core"
	"spendash/internal/dashboard"
	"spendash/internal/export"
)

func main() {
	periodFlag := flag.String("period", string(core.PeriodMonth), "report period (7d, 30d, 90d, 1y)")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if err := cfg.ValidateExport(); err != nil {
		logger.Error("Export configuration validation failed", "error", err)
		os.Exit(1)
	}

	period, err := core.ParsePeriod(*periodFlag)
	if err != nil {
		logger.Error("Invalid period flag", "error", err, "period", *periodFlag)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var facade *client.Client
	if cfg.APIBaseURL != "" {
		facade = client.NewRemote(logger, cfg.APIBaseURL, cfg.CustomerID)
	} else {
		backendCfg, err := backend.FromAppConfig(cfg)
		if err != nil {
			logger.Error("Invalid backend configuration", "error", err)
			os.Exit(1)
		}
		result, err := backend.NewFactory(logger).CreateStore(ctx, backendCfg)
		if err != nil {
			logger.Error("Failed to create data store", "error", err, "backend", cfg.DataBackend)
			os.Exit(1)
		}
		if result.Cleanup != nil {
			defer result.Cleanup()
		}
		facade = client.NewLocal(logger, result.Store, 0)
	}

	svc := dashboard.NewService(logger, facade, dashboard.Options{
		StaleAfter: cfg.CacheStaleAfter,
		TTL:        cfg.CacheTTL,
		MaxEntries: cfg.CacheMaxEntries,
	}, nil)

	exporter, err := export.NewExporter(ctx, logger, export.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", "error", err)
		os.Exit(1)
	}

	if err := exporter.Export(ctx, svc, period, time.Now()); err != nil {
		logger.Error("Export failed", "error", err, "period", period)
		os.Exit(1)
	}
	logger.Info("Export complete", "period", period, "spreadsheet_id", cfg.GoogleSpreadsheetID)
}
