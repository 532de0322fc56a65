package money_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound_HalfUp(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.01",
		"1.004":  "1",
		"-1.005": "-1.01",
		"2.345":  "2.35",
		"0":      "0",
	}
	for in, want := range cases {
		got := money.Round(decimal.RequireFromString(in))
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "Round(%s) = %s, want %s", in, got, want)
	}
}

func TestDiv_KeepsFullPrecision(t *testing.T) {
	q := money.Div(decimal.NewFromInt(10_000_000), decimal.RequireFromString("1.18"))

	assert.True(t, q.Exponent() <= -20, "quotient should keep at least 20 fractional digits, got exponent %d", q.Exponent())
	assert.Equal(t, "8474576.27", money.Round(q).StringFixed(2))
}

func TestConvert(t *testing.T) {
	got := money.Convert(decimal.NewFromInt(1000), decimal.NewFromInt(3700))
	assert.Equal(t, "3700000.00", got.StringFixed(2))

	got = money.Convert(decimal.RequireFromString("10.555"), decimal.NewFromInt(1))
	assert.Equal(t, "10.56", got.StringFixed(2))
}

func TestInvert(t *testing.T) {
	inv := money.Invert(decimal.NewFromInt(4))
	assert.True(t, inv.Equal(decimal.RequireFromString("0.25")))
}

func TestParseAmount(t *testing.T) {
	d, err := money.ParseAmount(" 500.00 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(500)))

	_, err = money.ParseAmount("")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = money.ParseAmount("abc")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNormalizeCurrency(t *testing.T) {
	code, err := money.NormalizeCurrency(" usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", code)

	for _, bad := range []string{"", "US", "USDT", "U$D"} {
		_, err := money.NormalizeCurrency(bad)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "input %q", bad)
	}
}
