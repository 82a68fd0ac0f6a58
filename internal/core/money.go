// Package core provides the domain model, validation utilities and the
// report aggregation engine for the finance tracker.
//
// Monetary values are held as integer cents to keep arithmetic exact;
// floats appear only at the display boundary.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact monetary value in cents. Totals may be negative
// (e.g. a net balance); stored entity amounts never are.
type Money struct {
	Cents int64
}

// maxAmountUnits caps parsed input at one billion currency units.
const maxAmountUnits = 1_000_000_000

// ParseAmount converts a user-entered amount string to Money.
//
// Currency symbols ($, €, £), thousands separators and surrounding
// whitespace are stripped before parsing. Negative and non-numeric input is
// rejected with a ValidationError; cents are rounded half-up on the third
// decimal place.
//
// Examples:
//
//	ParseAmount("12.34")     -> 1234 cents
//	ParseAmount("$2,500.00") -> 250000 cents
//	ParseAmount("€0.005")    -> 1 cent (rounds up)
func ParseAmount(s string) (Money, error) {
	cleaned := strings.TrimSpace(s)
	for _, sym := range []string{"$", "€", "£", ","} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return Money{}, invalid("amount", "cannot be empty")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Money{}, invalid("amount", "please enter a valid number")
	}
	if d.IsNegative() {
		return Money{}, invalid("amount", "cannot be negative")
	}
	// Cap before shifting to cents: IntPart wraps past int64, so an
	// after-the-shift check would let huge input through.
	if d.GreaterThan(decimal.NewFromInt(maxAmountUnits)) {
		return Money{}, invalid("amount", "is too large")
	}

	return Money{Cents: d.Round(2).Shift(2).IntPart()}, nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Float64 returns the value in whole currency units for display purposes.
// Use cents for calculations.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// FormatCurrency renders an amount with two decimals, thousands separators
// and a currency prefix: "$1,234.50", "€9.99", "JPY 120.00".
func FormatCurrency(m Money, currency string) string {
	var prefix string
	switch currency {
	case "USD":
		prefix = "$"
	case "EUR":
		prefix = "€"
	case "GBP":
		prefix = "£"
	default:
		prefix = currency + " "
	}

	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, prefix, groupThousands(cents/100), cents%100)
}

// FormatPercentage renders a percentage with one decimal: "25.0%".
func FormatPercentage(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatLargeNumber compacts big values with K/M/B suffixes for summaries.
func FormatLargeNumber(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
