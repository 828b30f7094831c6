package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"rateconverter/internal/cache"
	"rateconverter/internal/cli"
	"rateconverter/internal/config"
	"rateconverter/internal/converter"
	"rateconverter/internal/httpx"
	"rateconverter/internal/logging"
	"rateconverter/internal/provider/exchangerateapi"
	"rateconverter/internal/resolver"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if cfg.Exchange.APIKey == "" {
		logger.Warn("EXCHANGE_API_KEY not set; requests will be rejected and cached or default rates used")
	}

	httpClient := httpx.New(time.Duration(cfg.Exchange.TimeoutSec) * time.Second)
	client, err := exchangerateapi.NewClient(
		cfg.Exchange.APIKey,
		exchangerateapi.WithBaseURL(cfg.Exchange.BaseURL),
		exchangerateapi.WithHTTPClient(httpClient),
	)
	if err != nil {
		log.Fatalf("exchange client: %v", err)
	}

	res := resolver.New(
		exchangerateapi.NewProvider(client),
		cache.NewStore(cfg.Cache.Path),
		resolver.WithLogger(logger),
		resolver.WithTTL(time.Duration(cfg.Cache.TTLSec)*time.Second),
		resolver.WithBaseCurrency(cfg.Exchange.BaseCurrency),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := res.Start(ctx); err != nil {
		log.Fatalf("rates: %v", err)
	}

	session := cli.New(os.Stdin, os.Stdout, converter.New(res), res,
		cli.WithColor(term.IsTerminal(int(os.Stdout.Fd()))),
	)
	if err := session.Run(ctx); err != nil {
		log.Fatalf("session: %v", err)
	}
}
