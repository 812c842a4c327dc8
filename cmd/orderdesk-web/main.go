package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	orderdesk "github.com/goliatone/go-orderdesk"
	"github.com/goliatone/go-orderdesk/internal/config"
	"github.com/goliatone/go-orderdesk/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults to ./orderdesk.yaml when present)")
	envFile := flag.String("env", "", "env file to load (defaults to ./.env when present)")
	listen := flag.String("listen", "", "address to serve the page on")
	baseURL := flag.String("base-url", "", "orders service base URL")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn or error")
	contractPath := flag.String("contract", "", "OpenAPI contract overriding the embedded one")
	themePath := flag.String("theme", "", "theme manifest for the results table")
	themeVariant := flag.String("theme-variant", "", "theme manifest variant")
	templatesDir := flag.String("templates", "", "directory with template overrides")
	flag.Parse()

	cfg, err := config.Load(
		config.WithConfigFile(*configPath),
		config.WithEnvFile(*envFile),
		config.WithOverride(config.KeyListen, *listen),
		config.WithOverride(config.KeyBaseURL, *baseURL),
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

	rt, err := orderdesk.NewRuntime(ctx, orderdesk.Settings{
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout,
		ContractPath: cfg.ContractPath,
		ThemePath:    cfg.ThemePath,
		ThemeVariant: cfg.ThemeVariant,
		TemplatesDir: cfg.TemplatesDir,
	}, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}

	server, err := rt.NewWebServer()
	if err != nil {
		logger.Fatal("failed to build web server", zap.Error(err))
	}
	logger.Info("orderdesk-web started", zap.String("base_url", cfg.BaseURL))
	if err := server.ListenAndServe(ctx, cfg.Listen); err != nil {
		logger.Error("web server stopped", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
