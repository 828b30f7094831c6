package exchangerateapi

import (
	"context"
	"fmt"
	"time"

	"rateconverter/internal/provider"
	"rateconverter/internal/rates"
)

// Provider adapts Client to provider.Provider.
type Provider struct {
	name   string
	client *Client
	now    func() time.Time
}

func NewProvider(client *Client) *Provider {
	return &Provider{name: "exchangerate-api", client: client, now: time.Now}
}

func (p *Provider) Name() string { return p.name }

// Latest fetches and normalizes the full table for base.
func (p *Provider) Latest(ctx context.Context, base string) (provider.Snapshot, error) {
	base = rates.NormalizeCode(base)
	res, err := p.client.GetLatest(ctx, base)
	if err != nil {
		return provider.Snapshot{}, err
	}

	table := make(rates.Table, len(res.ConversionRates))
	for code, v := range res.ConversionRates {
		table[rates.NormalizeCode(code)] = v
	}
	if err := table.Validate(); err != nil {
		return provider.Snapshot{}, fmt.Errorf("invalid conversion rates: %w", err)
	}

	snapBase := rates.NormalizeCode(res.BaseCode)
	if snapBase == "" {
		snapBase = base
	}
	return provider.Snapshot{
		Base:       snapBase,
		Rates:      table,
		Source:     p.name,
		ReceivedAt: p.now(),
	}, nil
}
