package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"$25.50", 2550, true},
		{"€9.99", 999, true},
		{"£3", 300, true},
		{"$2,500.00", 250000, true},
		{" 2.50 ", 250, true},
		{"1.005", 101, true}, // half-up rounding
		{"-1", 0, false},
		{"-0.01", 0, false},
		{"abc", 0, false},
		{"$", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"9999999999999", 0, false},           // above the 1B cap
		{"1000000000", 100_000_000_000, true}, // exactly the cap
		{"1000000000.01", 0, false},           // just past the cap
		{"92233720368547758.09", 0, false},    // overflows int64 cents
		{"184467440737095516.16", 0, false},   // wraps uint64 cents to zero
		{"99999999999999999999999", 0, false}, // far beyond any cap
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if got.Cents != 0 {
				t.Fatalf("%q rejected but returned %d cents", tc.in, got.Cents)
			}
		}
	}
}

func TestParseAmountReturnsValidationError(t *testing.T) {
	_, err := ParseAmount("-5")
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		cents    int64
		currency string
		out      string
	}{
		{250000, "USD", "$2,500.00"},
		{999, "EUR", "€9.99"},
		{300, "GBP", "£3.00"},
		{12000, "JPY", "JPY 120.00"},
		{123456789, "USD", "$1,234,567.89"},
		{-1550, "USD", "-$15.50"},
		{0, "USD", "$0.00"},
	}
	for _, tc := range cases {
		got := FormatCurrency(Money{Cents: tc.cents}, tc.currency)
		if got != tc.out {
			t.Fatalf("%d %s expected %q, got %q", tc.cents, tc.currency, tc.out, got)
		}
	}
}

// Formatting a parsed canonical amount must reproduce it unchanged.
func TestCurrencyRoundTrip(t *testing.T) {
	for _, s := range []string{"$2,500.00", "$0.01", "$1,234,567.89", "$150.00"} {
		m, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got := FormatCurrency(m, "USD"); got != s {
			t.Fatalf("round trip %q -> %q", s, got)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	if got := FormatPercentage(25.0); got != "25.0%" {
		t.Fatalf("expected 25.0%%, got %q", got)
	}
	if got := FormatPercentage(66.666); got != "66.7%" {
		t.Fatalf("expected 66.7%%, got %q", got)
	}
}

func TestFormatLargeNumber(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{2_500_000_000, "2.5B"},
		{1_200_000, "1.2M"},
		{15_000, "15.0K"},
		{42.5, "42.50"},
	}
	for _, tc := range cases {
		if got := FormatLargeNumber(tc.in); got != tc.out {
			t.Fatalf("%v expected %q, got %q", tc.in, tc.out, got)
		}
	}
}
