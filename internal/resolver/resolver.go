package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"rateconverter/internal/cache"
	"rateconverter/internal/provider"
	"rateconverter/internal/rates"
)

// Store is the persistence the resolver needs for its cache file.
type Store interface {
	Load() (cache.Record, bool)
	Save(rec cache.Record) error
}

// Source names where the active table came from.
type Source string

const (
	SourceNone     Source = ""
	SourceCache    Source = "cache"
	SourceAPI      Source = "api"
	SourceDefaults Source = "defaults"
)

// Resolver owns the rate table for one run: it picks the best available
// source and keeps the cache file in step with the latest successful fetch.
// It is not safe for concurrent use.
type Resolver struct {
	provider provider.Provider
	store    Store
	logger   *slog.Logger
	now      func() time.Time
	ttl      time.Duration
	base     string

	table      rates.Table
	tableBase  string
	lastUpdate time.Time
	source     Source
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for fetch and cache reports.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTTL sets how long a cached table is trusted.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithBaseCurrency sets the base used by Start.
func WithBaseCurrency(base string) Option {
	return func(r *Resolver) {
		if code := rates.NormalizeCode(base); code != "" {
			r.base = code
		}
	}
}

func New(p provider.Provider, store Store, opts ...Option) *Resolver {
	r := &Resolver{
		provider: p,
		store:    store,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		ttl:      cache.DefaultTTL,
		base:     rates.DefaultBase,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the startup protocol: try the cache, then always try a fetch.
// Defaults are adopted if neither produced a table.
func (r *Resolver) Start(ctx context.Context) error {
	r.LoadCached()
	if _, err := r.Fetch(ctx, r.base); err != nil {
		return err
	}
	if len(r.table) == 0 {
		r.logger.Warn("using default exchange rates")
		r.useDefaults()
	}
	return nil
}

// LoadCached adopts the cached table if it exists, parses and is younger
// than the TTL. State is left untouched otherwise.
func (r *Resolver) LoadCached() bool {
	rec, ok := r.store.Load()
	if !ok {
		r.logger.Debug("no usable rate cache")
		return false
	}
	if !rec.Fresh(r.now(), r.ttl) {
		r.logger.Debug("rate cache is stale", "captured_at", rec.Timestamp, "ttl", r.ttl)
		return false
	}
	r.table = rec.Rates.Clone()
	r.tableBase = rec.Base
	r.lastUpdate = rec.Timestamp
	r.source = SourceCache
	r.logger.Info("using cached exchange rates", "captured_at", rec.Timestamp, "currencies", len(rec.Rates))
	return true
}

// Fetch asks the provider for the latest table quoted against base (the
// configured base when empty). It reports true only when a new table was
// adopted. The error is non-nil only when the new table could not be written
// to the cache.
func (r *Resolver) Fetch(ctx context.Context, base string) (bool, error) {
	if base = rates.NormalizeCode(base); base == "" {
		base = r.base
	}
	r.logger.Info("fetching latest exchange rates", "provider", r.provider.Name(), "base", base)

	snap, err := r.provider.Latest(ctx, base)
	if err != nil {
		if errors.Is(err, provider.ErrRejected) {
			r.logger.Error("exchange rate API error", "error", err)
			return false, nil
		}
		r.logger.Error("network error fetching exchange rates", "error", err)
		if len(r.table) == 0 {
			r.logger.Warn("no cached rates available, using default rates")
			r.useDefaults()
		}
		return false, nil
	}

	r.table = snap.Rates.Clone()
	r.tableBase = snap.Base
	r.lastUpdate = r.now()
	r.source = SourceAPI
	if err := r.SaveCached(); err != nil {
		return false, err
	}
	r.logger.Info("exchange rates updated", "base", snap.Base, "currencies", len(snap.Rates))
	return true, nil
}

// SaveCached writes the current table to the cache file stamped with now.
func (r *Resolver) SaveCached() error {
	rec := cache.Record{Timestamp: r.now(), Base: r.tableBase, Rates: r.table}
	if err := r.store.Save(rec); err != nil {
		return fmt.Errorf("save rate cache: %w", err)
	}
	return nil
}

// DefaultRates returns the static fallback table.
func (r *Resolver) DefaultRates() rates.Table {
	return rates.Defaults()
}

func (r *Resolver) useDefaults() {
	r.table = r.DefaultRates()
	r.tableBase = rates.DefaultBase
	r.lastUpdate = time.Time{}
	r.source = SourceDefaults
}

// Rates returns the active table. Callers must not modify it.
func (r *Resolver) Rates() rates.Table { return r.table }

// Base returns the currency the active table is quoted against, if known.
func (r *Resolver) Base() string { return r.tableBase }

// Source reports where the active table came from.
func (r *Resolver) Source() Source { return r.source }

// LastUpdate returns when the active table was captured. It is unset when
// the defaults are in use.
func (r *Resolver) LastUpdate() (time.Time, bool) {
	return r.lastUpdate, !r.lastUpdate.IsZero()
}
