package provider

import (
	"context"
	"errors"
	"time"

	"rateconverter/internal/rates"
)

// ErrRejected is matched by errors where the provider answered but refused
// the request (bad key, unsupported base, quota). Anything else returned from
// Latest is a transport failure.
var ErrRejected = errors.New("rejected by provider")

// Snapshot is the normalized shape returned by a rate provider.
type Snapshot struct {
	Base       string      `json:"base"`
	Rates      rates.Table `json:"rates"`
	Source     string      `json:"source"`
	ReceivedAt time.Time   `json:"received_at"`
}

// Provider fetches the latest full rate table quoted against base.
//
//go:generate mockgen -package=resolver_test -destination=../resolver/mock_provider_test.go -source=provider.go Provider
type Provider interface {
	Name() string
	Latest(ctx context.Context, base string) (Snapshot, error)
}
