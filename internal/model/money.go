package model

import (
	"fmt"
	"strings"
)

// Money is an exact amount in minor units of a single currency.
// Amounts never touch binary floating point.
type Money struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
}

// NormalizeCurrency upper-cases a currency code and checks its shape.
// Codes are structurally validated (3 letters), not checked against the
// ISO 4217 list.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("currency must be a 3-letter code, got %q", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("currency must be a 3-letter code, got %q", code)
		}
	}
	return code, nil
}

// NewMoney builds a Money value with a normalized currency code.
func NewMoney(cents int64, currency string) (Money, error) {
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents, Currency: code}, nil
}

func (m Money) IsZero() bool     { return m.Cents == 0 }
func (m Money) IsPositive() bool { return m.Cents > 0 }
func (m Money) IsNegative() bool { return m.Cents < 0 }

// Add sums two amounts of the same currency. Mixing currencies is an error.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.Currency, m.Currency)
	}
	return Money{Cents: m.Cents + other.Cents, Currency: m.Currency}, nil
}

// ParseAmount converts a decimal string like "1200.50" into minor units.
// This is the only place decimal strings enter the system; everything past
// this boundary carries integer cents.
func ParseAmount(s, currency string) (Money, error) {
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}

	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return Money{}, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > 2 {
		return Money{}, fmt.Errorf("amount %q has more than 2 decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	var cents int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return Money{}, fmt.Errorf("invalid amount %q", s)
		}
		cents = cents*10 + int64(r-'0')
	}
	if neg {
		cents = -cents
	}
	return Money{Cents: cents, Currency: code}, nil
}

// FormatAmount renders the amount as a decimal string, e.g. "1200.50 EUR".
func (m Money) FormatAmount() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, m.Currency)
}
