package rates_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"rateconverter/internal/rates"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	// Act: build the fallback table.
	table := rates.Defaults()

	// Assert: all twelve currencies are present with their fixed values.
	require.Len(t, table, 12)
	require.Equal(t, 1.0, table["USD"])
	require.Equal(t, 0.85, table["EUR"])
	require.Equal(t, 0.75, table["GBP"])
	require.Equal(t, 110.0, table["JPY"])
	require.Equal(t, 1.25, table["CAD"])
	require.Equal(t, 1.35, table["AUD"])
	require.Equal(t, 0.92, table["CHF"])
	require.Equal(t, 6.45, table["CNY"])
	require.Equal(t, 74.0, table["INR"])
	require.Equal(t, 5.5, table["BRL"])
	require.Equal(t, 75.0, table["RUB"])
	require.Equal(t, 20.0, table["MXN"])
	require.NoError(t, table.Validate())
}

func TestDefaults_ReturnsFreshCopy(t *testing.T) {
	t.Parallel()

	// Arrange: mutate one copy of the defaults.
	first := rates.Defaults()
	first["USD"] = 42

	// Assert: later calls are unaffected.
	require.Equal(t, 1.0, rates.Defaults()["USD"])
}

func TestLookup_NormalizesCode(t *testing.T) {
	t.Parallel()

	table := rates.Table{"EUR": 0.85}

	v, ok := table.Lookup(" eur ")
	require.True(t, ok)
	require.Equal(t, 0.85, v)

	_, ok = table.Lookup("xyz")
	require.False(t, ok)
}

func TestClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, rates.Table(nil).Clone())

	orig := rates.Table{"USD": 1}
	cp := orig.Clone()
	cp["USD"] = 2
	require.Equal(t, 1.0, orig["USD"])
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		table   rates.Table
		wantErr bool
	}{
		{name: "valid", table: rates.Table{"USD": 1, "EUR": 0.85}},
		{name: "empty", table: rates.Table{}, wantErr: true},
		{name: "zero", table: rates.Table{"USD": 0}, wantErr: true},
		{name: "negative", table: rates.Table{"USD": -1}, wantErr: true},
		{name: "nan", table: rates.Table{"USD": math.NaN()}, wantErr: true},
		{name: "empty code", table: rates.Table{"": 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.table.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
