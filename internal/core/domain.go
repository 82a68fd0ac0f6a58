package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	User struct {
		ID              int64
		Name            string
		Email           string // unique, lower-cased
		DefaultCurrency string
		MonthlyIncome   Money // non-negative
		CreatedAt       time.Time
		UpdatedAt       time.Time
	}

	UserProfile struct {
		ID            int64
		UserID        int64
		Phone         string
		Occupation    string
		AnnualIncome  Money
		RiskTolerance string
	}

	Transaction struct {
		ID          int64
		UserID      int64
		Amount      Money // positive
		Description string
		Category    string
		Type        TransactionType
		Date        time.Time
		Tags        []string // tag names, membership set
		CreatedAt   time.Time
	}

	Tag struct {
		ID          int64
		Name        string // unique, lower-cased
		Description string
		Color       string // hex, e.g. #007bff
	}

	Budget struct {
		ID          int64
		UserID      int64
		Category    string
		Limit       Money // positive
		Month       Month
		Description string
		CreatedAt   time.Time
	}

	SavingsGoal struct {
		ID          int64
		UserID      int64
		Name        string
		Target      Money // positive
		Current     Money // >= 0
		Achieved    bool  // derived: Current >= Target, recomputed on every mutation
		Description string
		CreatedAt   time.Time
	}
)

// ValidationError reports malformed or out-of-range user input. Always
// recoverable; carries the field and a human-readable reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an absent entity id or name.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Ref)
}

// DuplicateError reports a unique-constraint violation.
type DuplicateError struct {
	Entity string
	Ref    string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Ref)
}

// IntegrityError reports a referential-constraint violation.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "integrity violation: " + e.Reason
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return invalid("type", fmt.Sprintf("must be %q or %q", Income, Expense))
	}
}

// Sign is +1 for income, -1 for expense.
func (t TransactionType) Sign() int64 {
	if t == Expense {
		return -1
	}
	return 1
}

func (u User) Validate() error {
	if err := validateName(u.Name); err != nil {
		return err
	}
	if err := validateEmailString(u.Email); err != nil {
		return err
	}
	if u.MonthlyIncome.Cents < 0 {
		return invalid("monthly income", "cannot be negative")
	}
	if strings.TrimSpace(u.DefaultCurrency) == "" {
		return invalid("currency", "cannot be empty")
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Amount.Cents <= 0 {
		return invalid("amount", "must be positive")
	}
	if err := validateCategoryString(t.Category); err != nil {
		return err
	}
	if err := validateDescriptionString(t.Description); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return invalid("date", "cannot be empty")
	}
	return nil
}

func (g Tag) Validate() error {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return invalid("tag name", "cannot be empty")
	}
	if len(name) > 50 {
		return invalid("tag name", "too long (max 50 characters)")
	}
	if !tagNameRe.MatchString(strings.ToLower(name)) {
		return invalid("tag name", "only letters, digits, hyphens and underscores allowed")
	}
	if err := validateDescriptionString(g.Description); err != nil {
		return err
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Limit.Cents <= 0 {
		return invalid("limit", "must be positive")
	}
	if err := validateCategoryString(b.Category); err != nil {
		return err
	}
	if b.Month.IsZero() {
		return invalid("month", "cannot be empty")
	}
	if err := validateDescriptionString(b.Description); err != nil {
		return err
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if err := validateName(g.Name); err != nil {
		return err
	}
	if g.Target.Cents <= 0 {
		return invalid("target", "must be positive")
	}
	if g.Current.Cents < 0 {
		return invalid("current amount", "cannot be negative")
	}
	if err := validateDescriptionString(g.Description); err != nil {
		return err
	}
	return nil
}

// Progress is the funded ratio clamped to [0, 1] for display. Over-funded
// goals still report 1.
func (g SavingsGoal) Progress() float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	p := float64(g.Current.Cents) / float64(g.Target.Cents)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Remaining is the amount still to save, never negative.
func (g SavingsGoal) Remaining() Money {
	if g.Current.Cents >= g.Target.Cents {
		return Money{}
	}
	return Money{Cents: g.Target.Cents - g.Current.Cents}
}
