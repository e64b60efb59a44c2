package model

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in       string
		currency string
		cents    int64
	}{
		{"1200.50", "eur", 120050},
		{"1200", "EUR", 120000},
		{"0.05", "EUR", 5},
		{"0.5", "EUR", 50},
		{".99", "EUR", 99},
		{"-10.25", "EUR", -1025},
		{"0", "EUR", 0},
	}
	for _, c := range cases {
		m, err := ParseAmount(c.in, c.currency)
		if err != nil {
			t.Fatalf("ParseAmount(%q): unexpected error: %v", c.in, err)
		}
		if m.Cents != c.cents {
			t.Fatalf("ParseAmount(%q) = %d cents, want %d", c.in, m.Cents, c.cents)
		}
		if m.Currency != "EUR" {
			t.Fatalf("ParseAmount(%q) currency = %q, want EUR", c.in, m.Currency)
		}
	}
}

func TestParseAmountRejectsBadInput(t *testing.T) {
	bad := []string{"", ".", "12.345", "12a.00", "1,200.00", "12.0.0"}
	for _, in := range bad {
		if _, err := ParseAmount(in, "EUR"); err == nil {
			t.Fatalf("ParseAmount(%q): expected error, got none", in)
		}
	}
}

func TestNormalizeCurrency(t *testing.T) {
	code, err := NormalizeCurrency(" usd ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "USD" {
		t.Fatalf("got %q, want USD", code)
	}

	for _, bad := range []string{"", "EU", "EURO", "E1R"} {
		if _, err := NormalizeCurrency(bad); err == nil {
			t.Fatalf("NormalizeCurrency(%q): expected error, got none", bad)
		}
	}
}

func TestAddRejectsMixedCurrencies(t *testing.T) {
	eur := Money{Cents: 100, Currency: "EUR"}
	usd := Money{Cents: 100, Currency: "USD"}

	if _, err := eur.Add(usd); err == nil {
		t.Fatal("expected error adding USD to EUR")
	}

	sum, err := eur.Add(Money{Cents: 50, Currency: "EUR"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Cents != 150 {
		t.Fatalf("got %d cents, want 150", sum.Cents)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		m    Money
		want string
	}{
		{Money{Cents: 120050, Currency: "EUR"}, "1200.50 EUR"},
		{Money{Cents: 5, Currency: "EUR"}, "0.05 EUR"},
		{Money{Cents: -1025, Currency: "USD"}, "-10.25 USD"},
	}
	for _, c := range cases {
		if got := c.m.FormatAmount(); got != c.want {
			t.Fatalf("FormatAmount(%+v) = %q, want %q", c.m, got, c.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	m, err := ParseAmount("99.99", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.FormatAmount(); got != "99.99 EUR" {
		t.Fatalf("got %q, want %q", got, "99.99 EUR")
	}
}
