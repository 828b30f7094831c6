package converter

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"rateconverter/internal/rates"
)

// ErrUnsupportedCurrency is matched by every *UnsupportedCurrencyError.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// UnsupportedCurrencyError names the code that is missing from the table.
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency: %s", e.Code)
}

func (e *UnsupportedCurrencyError) Is(target error) bool {
	return target == ErrUnsupportedCurrency
}

// RateSource exposes the table a Converter works against.
type RateSource interface {
	Rates() rates.Table
}

// Converter does arithmetic over whatever table its source currently holds.
// It never mutates the table.
type Converter struct {
	src RateSource
}

func New(src RateSource) *Converter {
	return &Converter{src: src}
}

// Convert moves amount from one currency to another through the table's base
// and rounds the result to two decimal places, half away from zero.
func (c *Converter) Convert(amount float64, from, to string) (float64, error) {
	table := c.src.Rates()
	from = rates.NormalizeCode(from)
	to = rates.NormalizeCode(to)

	fromRate, ok := table[from]
	if !ok {
		return 0, &UnsupportedCurrencyError{Code: from}
	}
	toRate, ok := table[to]
	if !ok {
		return 0, &UnsupportedCurrencyError{Code: to}
	}

	if from == to {
		return Round2(amount), nil
	}
	inBase := amount / fromRate
	return Round2(inBase * toRate), nil
}

// ExchangeRate returns the factor f such that 1 from = f to.
// The second result is false when either code is missing.
func (c *Converter) ExchangeRate(from, to string) (float64, bool) {
	table := c.src.Rates()
	fromRate, ok := table.Lookup(from)
	if !ok {
		return 0, false
	}
	toRate, ok := table.Lookup(to)
	if !ok {
		return 0, false
	}
	return toRate / fromRate, true
}

// SupportedCurrencies lists the codes in the table in no particular order.
func (c *Converter) SupportedCurrencies() []string {
	return slices.Collect(maps.Keys(c.src.Rates()))
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
