package domain

import (
	"sort"
	"strings"
)

// minorUnits lists currencies whose display precision differs from two decimal places.
var minorUnits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"HUF": 0,
	"KWD": 3,
	"BHD": 3,
}

// CurrencyPrecision returns the number of decimal places used when displaying amounts in code.
func CurrencyPrecision(code string) int32 {
	if p, ok := minorUnits[NormalizeCurrencyCode(code)]; ok {
		return p
	}
	return 2
}

// NormalizeCurrencyCode trims and upper-cases a currency code.
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SupportedCurrencies is the fixed whitelist of currency codes the service quotes and converts.
type SupportedCurrencies map[string]struct{}

// NewSupportedCurrencies builds a whitelist from codes, normalizing and dropping blanks.
func NewSupportedCurrencies(codes ...string) SupportedCurrencies {
	set := make(SupportedCurrencies, len(codes))
	for _, code := range codes {
		code = NormalizeCurrencyCode(code)
		if code == "" {
			continue
		}
		set[code] = struct{}{}
	}
	return set
}

// Contains reports whether code is in the whitelist. The check is case-insensitive.
func (s SupportedCurrencies) Contains(code string) bool {
	_, ok := s[NormalizeCurrencyCode(code)]
	return ok
}

// Codes returns the whitelist sorted alphabetically.
func (s SupportedCurrencies) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
