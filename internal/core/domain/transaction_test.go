package domain_test

import (
	"testing"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// sampleRates are quoted per one USD.
var sampleRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"EUR": decimal.RequireFromString("0.93"),
	"GBP": decimal.RequireFromString("0.7912"),
	"JPY": decimal.RequireFromString("151.37"),
	"INR": decimal.RequireFromString("83.4412"),
	"CHF": decimal.RequireFromString("0.9037"),
}

func TestCrossConvert_USDToEUR(t *testing.T) {
	converted, rate := domain.CrossConvert(decimal.NewFromInt(100), sampleRates["USD"], sampleRates["EUR"])

	assert.True(t, converted.Equal(decimal.NewFromInt(93)), "got %s", converted)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.93")), "got %s", rate)
}

func TestCrossConvert_RoundTrip(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.RequireFromString("0.01"),
		decimal.NewFromInt(1),
		decimal.RequireFromString("123.45"),
		decimal.NewFromInt(1_000_000),
	}

	for fromCode, fromRate := range sampleRates {
		for toCode, toRate := range sampleRates {
			for _, amount := range amounts {
				there, _ := domain.CrossConvert(amount, fromRate, toRate)
				back, _ := domain.CrossConvert(there, toRate, fromRate)

				want, _ := amount.Float64()
				got, _ := back.Float64()
				assert.InDelta(t, want, got, want*1e-9, "%s -> %s -> %s for %s", fromCode, toCode, fromCode, amount)
			}
		}
	}
}

func TestCrossConvert_ZeroAmount(t *testing.T) {
	for _, fromRate := range sampleRates {
		for _, toRate := range sampleRates {
			converted, _ := domain.CrossConvert(decimal.Zero, fromRate, toRate)
			assert.True(t, converted.IsZero())
		}
	}
}

func TestCrossConvert_SameCurrency(t *testing.T) {
	amount := decimal.RequireFromString("42.5")
	for code, rate := range sampleRates {
		converted, effective := domain.CrossConvert(amount, rate, rate)

		got, _ := converted.Float64()
		assert.InDelta(t, 42.5, got, 1e-9, code)
		eff, _ := effective.Float64()
		assert.InDelta(t, 1.0, eff, 1e-12, code)
	}
}

func TestCrossConvert_NonBasePair(t *testing.T) {
	// EUR -> GBP goes through USD: 100 / 0.93 * 0.7912
	converted, rate := domain.CrossConvert(decimal.NewFromInt(100), sampleRates["EUR"], sampleRates["GBP"])

	got, _ := converted.Float64()
	assert.InDelta(t, 85.0752688, got, 1e-6)
	r, _ := rate.Float64()
	assert.InDelta(t, 0.850752688, r, 1e-8)
}
