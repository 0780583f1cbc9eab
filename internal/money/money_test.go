package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"already two places", "974.51", "974.51"},
		{"truncates long fraction", "90.012345", "90.01"},
		{"half rounds up", "22.095", "22.1"},
		{"discounted price", "22.0915", "22.09"},
		{"integer stays integer", "1000", "1000"},
		{"zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.value)
			require.NoError(t, err)

			got := Round(d)

			require.True(t, got.Equal(decimal.RequireFromString(tt.want)), "Round(%s) = %s, want %s", tt.value, got, tt.want)
		})
	}
}

func TestRoundOnceOnFinalDifference(t *testing.T) {
	// 100.123456 - 10.111111 = 90.012345 -> 90.01 when rounded once.
	// Rounding operands first would give 100.12 - 10.11 = 90.01 here but
	// diverges in general, so the engine rounds the difference only.
	balance := decimal.RequireFromString("100.123456")
	price := decimal.RequireFromString("10.111111")

	got := Round(balance.Sub(price))

	require.True(t, got.Equal(decimal.RequireFromString("90.01")))
}
