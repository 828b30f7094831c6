package rates

import (
	"fmt"
	"maps"
	"math"
	"strings"
)

// DefaultBase is the currency the default table and most fetches are quoted in.
const DefaultBase = "USD"

// Table maps a currency code to its price in units of the table's base currency.
type Table map[string]float64

// NormalizeCode upper-cases a currency code and trims surrounding space.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup returns the rate for code after normalizing it.
func (t Table) Lookup(code string) (float64, bool) {
	v, ok := t[NormalizeCode(code)]
	return v, ok
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	return maps.Clone(t)
}

// Validate reports the first entry that breaks the positive-rate invariant.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("empty rate table")
	}
	for code, v := range t {
		if code == "" {
			return fmt.Errorf("empty currency code")
		}
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid rate for %s: %v", code, v)
		}
	}
	return nil
}

// Defaults returns the static fallback table used when neither the cache nor
// the API produced rates. Values are quoted against USD.
func Defaults() Table {
	return Table{
		"USD": 1.0,
		"EUR": 0.85,
		"GBP": 0.75,
		"JPY": 110.0,
		"CAD": 1.25,
		"AUD": 1.35,
		"CHF": 0.92,
		"CNY": 6.45,
		"INR": 74.0,
		"BRL": 5.5,
		"RUB": 75.0,
		"MXN": 20.0,
	}
}
