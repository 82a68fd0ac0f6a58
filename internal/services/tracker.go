// Package services is the session/command layer: it validates raw command
// input, delegates to storage and keeps derived state consistent. The CLI
// translates the returned error kinds into user-facing messages; nothing
// here formats for presentation.
package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
	"fintrack/internal/trace"
)

// Tracker orchestrates all command operations against the store.
type Tracker struct {
	store  *storage.Store
	logger *log.Logger
}

func NewTracker(store *storage.Store, logger *log.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger.WithComponent(log.ComponentTracker),
	}
}

// CreateUserParams carries raw command input for user creation.
type CreateUserParams struct {
	Name          string
	Email         string
	Currency      string
	MonthlyIncome string
}

func (t *Tracker) CreateUser(ctx context.Context, p CreateUserParams) (*core.User, error) {
	name, err := core.ValidateName(p.Name)
	if err != nil {
		return nil, err
	}
	email, err := core.ValidateEmail(p.Email)
	if err != nil {
		return nil, err
	}
	income := core.Money{}
	if p.MonthlyIncome != "" {
		if income, err = core.ParseAmount(p.MonthlyIncome); err != nil {
			return nil, err
		}
	}
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	u := core.User{
		Name:            name,
		Email:           email,
		DefaultCurrency: currency,
		MonthlyIncome:   income,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	created, err := t.store.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	t.logger.InfoContext(ctx, "User registered",
		log.FieldOpID, trace.OpID(ctx),
		log.FieldUserID, created.ID,
		log.FieldEmail, created.Email)
	return created, nil
}

func (t *Tracker) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	normalized, err := core.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	return t.store.GetUserByEmail(ctx, normalized)
}

// DeleteUser removes the user and everything they own.
func (t *Tracker) DeleteUser(ctx context.Context, userID int64) error {
	if err := t.store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "User removed",
		log.FieldOpID, trace.OpID(ctx),
		log.FieldUserID, userID)
	return nil
}

// ProfileParams carries raw command input for the profile upsert.
type ProfileParams struct {
	Phone         string
	Occupation    string
	AnnualIncome  string
	RiskTolerance string
}

// UpsertProfile creates the user's profile if absent and updates it if
// present.
func (t *Tracker) UpsertProfile(ctx context.Context, userID int64, p ProfileParams) (*core.UserProfile, error) {
	if _, err := t.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	phone, err := core.ValidatePhone(p.Phone)
	if err != nil {
		return nil, err
	}
	income := core.Money{}
	if p.AnnualIncome != "" {
		if income, err = core.ParseAmount(p.AnnualIncome); err != nil {
			return nil, err
		}
	}
	risk := p.RiskTolerance
	if risk == "" {
		risk = "medium"
	}

	return t.store.UpsertProfile(ctx, core.UserProfile{
		UserID:        userID,
		Phone:         phone,
		Occupation:    p.Occupation,
		AnnualIncome:  income,
		RiskTolerance: risk,
	})
}

// AddTransactionParams carries raw command input for a new transaction.
type AddTransactionParams struct {
	Amount      string
	Category    string
	Description string
	Type        string
	Date        string // defaults to today
	Tags        string // comma-separated
}

// AddTransaction validates the input and stores the transaction together
// with its tag links in one atomic operation.
func (t *Tracker) AddTransaction(ctx context.Context, userID int64, p AddTransactionParams) (*core.Transaction, error) {
	amount, err := core.ParseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	category, err := core.ValidateCategory(p.Category)
	if err != nil {
		return nil, err
	}
	description, err := core.ValidateDescription(p.Description)
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if p.Date != "" {
		if date, err = core.ParseDate(p.Date); err != nil {
			return nil, err
		}
	}

	tx := core.Transaction{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: description,
		Type:        core.TransactionType(p.Type),
		Date:        date,
		Tags:        core.ParseTags(p.Tags),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	created, err := t.store.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	t.logger.InfoContext(ctx, "Transaction recorded",
		log.FieldOpID, trace.OpID(ctx),
		log.FieldUserID, userID,
		log.FieldCategory, created.Category,
		log.FieldAmountCents, created.Amount.Cents)
	return created, nil
}

// ListFilter is the raw command-side transaction filter.
type ListFilter struct {
	Category string
	Tag      string
	From     string
	To       string
	Limit    int
}

// ListTransactions returns the user's transactions ordered by creation
// time, narrowed by the optional filter fields.
func (t *Tracker) ListTransactions(ctx context.Context, userID int64, f ListFilter) ([]core.Transaction, error) {
	filter := storage.TransactionFilter{Limit: f.Limit}
	var err error

	if f.Category != "" {
		if filter.Category, err = core.ValidateCategory(f.Category); err != nil {
			return nil, err
		}
	}
	if f.Tag != "" {
		tags := core.ParseTags(f.Tag)
		if len(tags) != 1 {
			return nil, &core.ValidationError{Field: "tag", Reason: "must be a single tag name"}
		}
		filter.Tag = tags[0]
	}
	if f.From != "" {
		if filter.From, err = core.ParseDate(f.From); err != nil {
			return nil, err
		}
	}
	if f.To != "" {
		if filter.To, err = core.ParseDate(f.To); err != nil {
			return nil, err
		}
	}

	return t.store.ListTransactions(ctx, userID, filter)
}

func (t *Tracker) DeleteTransaction(ctx context.Context, id int64) error {
	return t.store.DeleteTransaction(ctx, id)
}

// AddTag registers a tag; reusing a name is a DuplicateError.
func (t *Tracker) AddTag(ctx context.Context, name, description, color string) (*core.Tag, error) {
	names := core.ParseTags(name)
	if len(names) != 1 {
		return nil, &core.ValidationError{Field: "tag name", Reason: "must be a single tag name"}
	}
	normalizedColor, err := core.ValidateHexColor(color)
	if err != nil {
		return nil, err
	}
	desc, err := core.ValidateDescription(description)
	if err != nil {
		return nil, err
	}

	tag := core.Tag{Name: names[0], Description: desc, Color: normalizedColor}
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	created, err := t.store.CreateTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	t.logger.InfoContext(ctx, "Tag registered",
		log.FieldOpID, trace.OpID(ctx),
		log.FieldTag, created.Name)
	return created, nil
}

func (t *Tracker) ListTags(ctx context.Context) ([]core.Tag, error) {
	return t.store.ListTags(ctx)
}

func (t *Tracker) DeleteTag(ctx context.Context, name string) error {
	return t.store.DeleteTag(ctx, name)
}

// AddBudget sets a spending ceiling for a (category, month) pair.
func (t *Tracker) AddBudget(ctx context.Context, userID int64, category, limit, month, description string) (*core.Budget, error) {
	cat, err := core.ValidateCategory(category)
	if err != nil {
		return nil, err
	}
	limitAmount, err := core.ParseAmount(limit)
	if err != nil {
		return nil, err
	}
	period, err := core.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	desc, err := core.ValidateDescription(description)
	if err != nil {
		return nil, err
	}

	b := core.Budget{
		UserID:      userID,
		Category:    cat,
		Limit:       limitAmount,
		Month:       period,
		Description: desc,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	created, err := t.store.CreateBudget(ctx, b)
	if err != nil {
		return nil, err
	}
	t.logger.InfoContext(ctx, "Budget set",
		log.FieldOpID, trace.OpID(ctx),
		log.FieldUserID, userID,
		log.FieldCategory, created.Category,
		log.FieldMonth, created.Month.String())
	return created, nil
}

// AddSavingsGoal registers a goal starting at zero saved.
func (t *Tracker) AddSavingsGoal(ctx context.Context, userID int64, name, target, description string) (*core.SavingsGoal, error) {
	goalName, err := core.ValidateName(name)
	if err != nil {
		return nil, err
	}
	targetAmount, err := core.ParseAmount(target)
	if err != nil {
		return nil, err
	}
	desc, err := core.ValidateDescription(description)
	if err != nil {
		return nil, err
	}

	g := core.SavingsGoal{
		UserID:      userID,
		Name:        goalName,
		Target:      targetAmount,
		Description: desc,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return t.store.CreateSavingsGoal(ctx, g)
}

// Contribute adds an amount to a goal's current total and recomputes the
// achieved flag.
func (t *Tracker) Contribute(ctx context.Context, userID int64, goalName, amount string) (*core.SavingsGoal, error) {
	name, err := core.ValidateName(goalName)
	if err != nil {
		return nil, err
	}
	contribution, err := core.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	if contribution.Cents <= 0 {
		return nil, &core.ValidationError{Field: "amount", Reason: "contribution must be positive"}
	}

	g, err := t.store.GetSavingsGoalByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	updated, err := t.store.SetSavingsGoalCurrent(ctx, g.ID, g.Current.Add(contribution))
	if err != nil {
		return nil, err
	}
	t.logger.InfoContext(ctx, "Goal contribution applied",
		log.FieldOpID, trace.OpID(ctx),
		log.FieldUserID, userID,
		log.FieldGoal, updated.Name,
		log.FieldAmountCents, contribution.Cents,
		log.FieldAchieved, updated.Achieved)
	return updated, nil
}

func (t *Tracker) ListSavingsGoals(ctx context.Context, userID int64) ([]core.SavingsGoal, error) {
	return t.store.ListSavingsGoals(ctx, userID)
}

// Close releases the underlying store.
func (t *Tracker) Close() error {
	if t.store != nil {
		if err := t.store.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
