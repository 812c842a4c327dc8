package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	orderdesk "github.com/goliatone/go-orderdesk"
	"github.com/goliatone/go-orderdesk/internal/config"
	"github.com/goliatone/go-orderdesk/internal/logging"
	"github.com/goliatone/go-orderdesk/pkg/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults to ./orderdesk.yaml when present)")
	envFile := flag.String("env", "", "env file to load (defaults to ./.env when present)")
	baseURL := flag.String("base-url", "", "orders service base URL")
	resultsFormat := flag.String("results-format", "", "search results format: text or html")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn or error")
	contractPath := flag.String("contract", "", "OpenAPI contract overriding the embedded one")
	themePath := flag.String("theme", "", "theme manifest for html results")
	themeVariant := flag.String("theme-variant", "", "theme manifest variant")
	templatesDir := flag.String("templates", "", "directory with template overrides")
	seedPath := flag.String("seed", "", "create the orders listed in this YAML/JSON file and exit")
	flag.Parse()

	cfg, err := config.Load(
		config.WithConfigFile(*configPath),
		config.WithEnvFile(*envFile),
		config.WithOverride(config.KeyBaseURL, *baseURL),
		config.WithOverride(config.KeyResultsFormat, *resultsFormat),
		config.WithOverride(config.KeyLogLevel, *logLevel),
		config.WithOverride(config.KeyContractPath, *contractPath),
		config.WithOverride(config.KeyThemePath, *themePath),
		config.WithOverride(config.KeyThemeVariant, *themeVariant),
		config.WithOverride(config.KeyTemplatesDir, *templatesDir),
	)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *seedPath); err != nil {
		logger.Error("orderdesk failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, seedPath string) error {
	rt, err := orderdesk.NewRuntime(ctx, orderdesk.Settings{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		ContractPath:  cfg.ContractPath,
		ThemePath:     cfg.ThemePath,
		ThemeVariant:  cfg.ThemeVariant,
		TemplatesDir:  cfg.TemplatesDir,
		ResultsFormat: cfg.ResultsFormat,
	}, logger)
	if err != nil {
		return err
	}
	logger.Info("orderdesk started",
		zap.String("base_url", cfg.BaseURL),
		zap.String("results_format", cfg.ResultsFormat),
	)

	if seedPath != "" {
		report, err := rt.Seed(ctx, seedPath)
		for _, created := range report.Created {
			fmt.Printf("created order %s for %s\n", created.ID, created.CustomerID)
		}
		return err
	}

	session, err := rt.NewSession(tui.WithTheme(tui.Theme{ErrorPrefix: "! "}))
	if err != nil {
		return err
	}
	return session.Run(ctx)
}
