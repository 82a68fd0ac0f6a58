package core

import (
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		UserID:      1,
		Amount:      Money{Cents: 15000},
		Description: "Weekly shop",
		Category:    "Groceries",
		Type:        Expense,
		Date:        time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []func(*Transaction){
		func(tx *Transaction) { tx.Amount = Money{} },
		func(tx *Transaction) { tx.Amount = Money{Cents: -100} },
		func(tx *Transaction) { tx.Category = "" },
		func(tx *Transaction) { tx.Type = "transfer" },
		func(tx *Transaction) { tx.Date = time.Time{} },
	}
	for i, mutate := range bads {
		tx := validTransaction()
		mutate(&tx)
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestUserValidate(t *testing.T) {
	u := User{
		Name:            "John Doe",
		Email:           "john@example.com",
		DefaultCurrency: "USD",
		MonthlyIncome:   Money{Cents: 500000},
	}
	if err := u.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	u.MonthlyIncome = Money{Cents: -1}
	if err := u.Validate(); err == nil {
		t.Fatal("expected error for negative income")
	}
	u.MonthlyIncome = Money{}
	u.Email = "bad"
	if err := u.Validate(); err == nil {
		t.Fatal("expected error for malformed email")
	}
}

func TestTagValidate(t *testing.T) {
	if err := (Tag{Name: "food", Color: "#ff0000"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Tag{Name: ""}).Validate(); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := (Tag{Name: "has space"}).Validate(); err == nil {
		t.Fatal("expected error for invalid name")
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{
		Category: "Groceries",
		Limit:    Money{Cents: 50000},
		Month:    Month{2025, time.January},
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	b.Limit = Money{}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestSavingsGoalProgress(t *testing.T) {
	g := SavingsGoal{Name: "Vacation", Target: Money{Cents: 200000}, Current: Money{Cents: 50000}}
	if got := g.Progress(); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
	if got := g.Remaining(); got.Cents != 150000 {
		t.Fatalf("expected 150000 remaining, got %d", got.Cents)
	}

	// Over-funded goals clamp to 1 and owe nothing.
	g.Current = Money{Cents: 250000}
	if got := g.Progress(); got != 1 {
		t.Fatalf("expected clamped 1, got %v", got)
	}
	if got := g.Remaining(); got.Cents != 0 {
		t.Fatalf("expected 0 remaining, got %d", got.Cents)
	}
}

func TestErrorTaxonomyMessages(t *testing.T) {
	cases := []struct {
		err error
		out string
	}{
		{&ValidationError{Field: "amount", Reason: "cannot be negative"}, "invalid amount: cannot be negative"},
		{&NotFoundError{Entity: "user", Ref: "7"}, `user "7" not found`},
		{&DuplicateError{Entity: "tag", Ref: "food"}, `tag "food" already exists`},
		{&IntegrityError{Reason: "user has dependents"}, "integrity violation: user has dependents"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.out {
			t.Fatalf("expected %q, got %q", tc.out, got)
		}
	}
}
