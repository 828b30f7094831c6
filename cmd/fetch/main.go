package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rateconverter/internal/cache"
	"rateconverter/internal/config"
	"rateconverter/internal/httpx"
	"rateconverter/internal/logging"
	"rateconverter/internal/provider/exchangerateapi"
	"rateconverter/internal/rates"
	"rateconverter/internal/resolver"
)

type fetchOutput struct {
	Base       string      `json:"base"`
	Source     string      `json:"source"`
	LastUpdate string      `json:"last_update"`
	Rates      rates.Table `json:"rates"`
}

func main() {
	var configPath string
	var base string
	var timeout int

	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	flag.StringVar(&base, "base", "", "base currency (defaults to exchange.base_currency)")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (defaults to exchange.timeout_sec)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if base != "" {
		cfg.Exchange.BaseCurrency = base
	}
	if timeout > 0 {
		cfg.Exchange.TimeoutSec = timeout
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Exchange.APIKey == "" {
		log.Fatal("no API key configured; set exchange.api_key or EXCHANGE_API_KEY")
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
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
		resolver.WithBaseCurrency(cfg.Exchange.BaseCurrency),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	updated, err := res.Fetch(ctx, cfg.Exchange.BaseCurrency)
	if err != nil {
		log.Fatalf("rates: %v", err)
	}
	if !updated {
		log.Fatal("no rates fetched")
	}

	out := fetchOutput{Base: res.Base(), Source: string(res.Source()), Rates: res.Rates()}
	if ts, ok := res.LastUpdate(); ok {
		out.LastUpdate = ts.Format(cache.TimestampLayout)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	fmt.Println(string(b))
}
