package core

import (
	"math"
	"testing"
)

func TestCompoundInterest(t *testing.T) {
	// 1000 at 12% annual, compounded monthly for one year.
	got := CompoundInterest(1000, 0.12, 1, 12)
	if math.Abs(got-1126.83) > 0.01 {
		t.Fatalf("expected ~1126.83, got %v", got)
	}
	if CompoundInterest(-1, 0.05, 1, 12) != 0 {
		t.Fatal("expected 0 for invalid principal")
	}
}

func TestMonthlyLoanPayment(t *testing.T) {
	// Zero-interest loans divide evenly.
	if got := MonthlyLoanPayment(12000, 0, 1); got != 1000 {
		t.Fatalf("expected 1000, got %v", got)
	}
	got := MonthlyLoanPayment(200000, 0.06, 30)
	if math.Abs(got-1199.10) > 0.01 {
		t.Fatalf("expected ~1199.10, got %v", got)
	}
	if MonthlyLoanPayment(0, 0.06, 30) != 0 {
		t.Fatal("expected 0 for zero principal")
	}
}

func TestEmergencyFundTarget(t *testing.T) {
	got := EmergencyFundTarget(Money{Cents: 200000}, 6)
	if got.Cents != 1200000 {
		t.Fatalf("expected 1200000, got %d", got.Cents)
	}
	if EmergencyFundTarget(Money{}, 6).Cents != 0 {
		t.Fatal("expected 0 for zero expenses")
	}
}

func TestHealthScore(t *testing.T) {
	cases := []struct {
		income, expenses, savings, debt int64
		min, max                        int
	}{
		{500000, 200000, 150000, 0, 80, 100}, // low spend, strong savings
		{500000, 450000, 0, 300000, 0, 50},   // high spend, heavy debt
		{0, 100, 0, 0, 0, 0},
	}
	for i, tc := range cases {
		score, label := HealthScore(
			Money{Cents: tc.income}, Money{Cents: tc.expenses},
			Money{Cents: tc.savings}, Money{Cents: tc.debt})
		if score < tc.min || score > tc.max {
			t.Fatalf("case %d: score %d outside [%d, %d] (%s)", i, score, tc.min, tc.max, label)
		}
	}
	if _, label := HealthScore(Money{}, Money{}, Money{}, Money{}); label != "No income data" {
		t.Fatalf("expected no-income label, got %q", label)
	}
}
