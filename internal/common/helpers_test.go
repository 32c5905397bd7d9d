package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		raw      string
		decimals uint8
		want     string
	}{
		{"24981836", 6, "24.981836"},
		{"100000000000000000000", 18, "100"},
		{"1", 18, "0.000000000000000001"},
		{"0", 9, "0"},
	}

	for _, tt := range tests {
		raw, ok := new(big.Int).SetString(tt.raw, 10)
		require.True(t, ok)
		assert.Equal(t, tt.want, FormatUnits(raw, tt.decimals).String(), "raw=%s", tt.raw)
	}

	assert.True(t, FormatUnits(nil, 18).IsZero())
}

func TestParseUnits(t *testing.T) {
	got, err := ParseUnits("100", 18)
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000", got.String())

	got, err = ParseUnits(" 0.5 ", 6)
	require.NoError(t, err)
	assert.Equal(t, "500000", got.String())

	got, err = ParseUnits("1.23456789", 2)
	require.NoError(t, err)
	assert.Equal(t, "123", got.String())

	_, err = ParseUnits("", 18)
	assert.Error(t, err)

	_, err = ParseUnits("abc", 18)
	assert.Error(t, err)

	_, err = ParseUnits("-1", 18)
	assert.Error(t, err)
}

func TestCompareAmounts(t *testing.T) {
	cmp, err := CompareAmounts("99.999", "100")
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = CompareAmounts("100.0", "100")
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)

	cmp, err = CompareAmounts("2000", "100")
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)

	_, err = CompareAmounts("x", "1")
	assert.Error(t, err)
}
