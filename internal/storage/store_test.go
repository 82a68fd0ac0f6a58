package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestUser(t *testing.T, s *Store, email string) *core.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), core.User{
		Name:            "John Doe",
		Email:           email,
		DefaultCurrency: "USD",
		MonthlyIncome:   core.Money{Cents: 500000},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "john@example.com")
	if u.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := s.GetUserByEmail(ctx, "john@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("get by email: %v (got %+v)", err, got)
	}

	got.Name = "John Q. Doe"
	if _, err := s.UpdateUser(ctx, *got); err != nil {
		t.Fatalf("update user: %v", err)
	}
	got, err = s.GetUser(ctx, u.ID)
	if err != nil || got.Name != "John Q. Doe" {
		t.Fatalf("expected updated name, got %+v (err=%v)", got, err)
	}

	if _, err := s.GetUser(ctx, 9999); err == nil {
		t.Fatal("expected not found")
	} else {
		var nf *core.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected *NotFoundError, got %T", err)
		}
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	s := newTestStore(t)
	newTestUser(t, s, "john@example.com")

	_, err := s.CreateUser(context.Background(), core.User{
		Name: "Imposter", Email: "john@example.com", DefaultCurrency: "USD",
	})
	var dup *core.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateError, got %v", err)
	}
}

func addTx(t *testing.T, s *Store, userID int64, amount int64, category string, typ core.TransactionType, day time.Time, tags ...string) *core.Transaction {
	t.Helper()
	tx, err := s.CreateTransaction(context.Background(), core.Transaction{
		UserID:   userID,
		Amount:   core.Money{Cents: amount},
		Category: category,
		Type:     typ,
		Date:     day,
		Tags:     tags,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

func TestTransactionWithTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "john@example.com")
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tx := addTx(t, s, u.ID, 15000, "Groceries", core.Expense, day, "food", "weekly")

	got, err := s.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if !got.Date.Equal(day) || got.Amount.Cents != 15000 {
		t.Fatalf("unexpected transaction %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "food" || got.Tags[1] != "weekly" {
		t.Fatalf("unexpected tags %v", got.Tags)
	}
}

func TestTagLinkIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "john@example.com")
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	// The same tag name twice must produce exactly one membership link.
	tx := addTx(t, s, u.ID, 5000, "Dining", core.Expense, day, "food", "food")

	got, err := s.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "food" {
		t.Fatalf("expected single food tag, got %v", got.Tags)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "john@example.com")
	jan := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	addTx(t, s, u.ID, 250000, "Salary", core.Income, jan(1))
	addTx(t, s, u.ID, 15000, "Groceries", core.Expense, jan(10), "food")
	addTx(t, s, u.ID, 4000, "Groceries", core.Expense, jan(20))
	addTx(t, s, u.ID, 9000, "Transport", core.Expense, time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC))

	all, err := s.ListTransactions(ctx, u.ID, TransactionFilter{})
	if err != nil || len(all) != 4 {
		t.Fatalf("expected 4 transactions, got %d (err=%v)", len(all), err)
	}
	// Ordered by creation time.
	if all[0].Category != "Salary" || all[3].Category != "Transport" {
		t.Fatalf("unexpected order: %v %v", all[0].Category, all[3].Category)
	}

	byCat, err := s.ListTransactions(ctx, u.ID, TransactionFilter{Category: "Groceries"})
	if err != nil || len(byCat) != 2 {
		t.Fatalf("category filter: expected 2, got %d (err=%v)", len(byCat), err)
	}

	byTag, err := s.ListTransactions(ctx, u.ID, TransactionFilter{Tag: "food"})
	if err != nil || len(byTag) != 1 || byTag[0].Amount.Cents != 15000 {
		t.Fatalf("tag filter: got %+v (err=%v)", byTag, err)
	}

	limited, err := s.ListTransactions(ctx, u.ID, TransactionFilter{Limit: 2})
	if err != nil || len(limited) != 2 {
		t.Fatalf("limit filter: expected 2, got %d (err=%v)", len(limited), err)
	}

	janOnly, err := s.ListTransactionsForMonth(ctx, u.ID, core.Month{Year: 2025, Mon: time.January})
	if err != nil || len(janOnly) != 3 {
		t.Fatalf("month filter: expected 3, got %d (err=%v)", len(janOnly), err)
	}
}

func TestDeleteUserCascadesOnlyOwnRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	month := core.Month{Year: 2025, Mon: time.January}

	victim := newTestUser(t, s, "victim@example.com")
	other := newTestUser(t, s, "other@example.com")

	for _, u := range []*core.User{victim, other} {
		addTx(t, s, u.ID, 1000, "Groceries", core.Expense, day, "food")
		if _, err := s.CreateBudget(ctx, core.Budget{
			UserID: u.ID, Category: "Groceries", Limit: core.Money{Cents: 50000}, Month: month,
		}); err != nil {
			t.Fatalf("create budget: %v", err)
		}
		if _, err := s.CreateSavingsGoal(ctx, core.SavingsGoal{
			UserID: u.ID, Name: "Emergency Fund", Target: core.Money{Cents: 1000000},
		}); err != nil {
			t.Fatalf("create goal: %v", err)
		}
		if _, err := s.UpsertProfile(ctx, core.UserProfile{UserID: u.ID, Occupation: "Engineer"}); err != nil {
			t.Fatalf("upsert profile: %v", err)
		}
	}

	if err := s.DeleteUser(ctx, victim.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if txs, _ := s.ListTransactions(ctx, victim.ID, TransactionFilter{}); len(txs) != 0 {
		t.Fatalf("expected victim transactions gone, got %d", len(txs))
	}
	if budgets, _ := s.ListBudgets(ctx, victim.ID); len(budgets) != 0 {
		t.Fatalf("expected victim budgets gone, got %d", len(budgets))
	}
	if goals, _ := s.ListSavingsGoals(ctx, victim.ID); len(goals) != 0 {
		t.Fatalf("expected victim goals gone, got %d", len(goals))
	}
	if _, err := s.GetProfile(ctx, victim.ID); err == nil {
		t.Fatal("expected victim profile gone")
	}

	// Zero rows belonging to the other user are affected.
	if txs, _ := s.ListTransactions(ctx, other.ID, TransactionFilter{}); len(txs) != 1 {
		t.Fatalf("expected other user's transaction intact, got %d", len(txs))
	}
	if budgets, _ := s.ListBudgets(ctx, other.ID); len(budgets) != 1 {
		t.Fatalf("expected other user's budget intact, got %d", len(budgets))
	}
	if goals, _ := s.ListSavingsGoals(ctx, other.ID); len(goals) != 1 {
		t.Fatalf("expected other user's goal intact, got %d", len(goals))
	}
	if _, err := s.GetProfile(ctx, other.ID); err != nil {
		t.Fatalf("expected other user's profile intact: %v", err)
	}

	// Tags survive user and transaction removal.
	if _, err := s.GetTagByName(ctx, "food"); err != nil {
		t.Fatalf("expected tag to survive cascade: %v", err)
	}
}

func TestDeleteTransactionKeepsTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "john@example.com")
	tx := addTx(t, s, u.ID, 2000, "Dining", core.Expense,
		time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), "food")

	if err := s.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if _, err := s.GetTagByName(ctx, "food"); err != nil {
		t.Fatalf("expected tag to remain: %v", err)
	}
}

func TestDeleteTagKeepsTransactions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "john@example.com")
	tx := addTx(t, s, u.ID, 2000, "Dining", core.Expense,
		time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), "food")

	if err := s.DeleteTag(ctx, "food"); err != nil {
		t.Fatalf("delete tag: %v", err)
	}
	got, err := s.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("expected transaction to remain: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Fatalf("expected membership link gone, got %v", got.Tags)
	}
}

func TestDuplicateTagNameRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateTag(ctx, core.Tag{Name: "food", Color: "#ff0000"}); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	_, err := s.CreateTag(ctx, core.Tag{Name: "food", Color: "#00ff00"})
	var dup *core.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateError, got %v", err)
	}
}

func TestDuplicateBudgetTripleRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "john@example.com")
	month := core.Month{Year: 2025, Mon: time.January}

	b := core.Budget{UserID: u.ID, Category: "Groceries", Limit: core.Money{Cents: 50000}, Month: month}
	if _, err := s.CreateBudget(ctx, b); err != nil {
		t.Fatalf("create budget: %v", err)
	}
	_, err := s.CreateBudget(ctx, b)
	var dup *core.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateError, got %v", err)
	}

	// A different month for the same category is fine.
	b.Month = core.Month{Year: 2025, Mon: time.February}
	if _, err := s.CreateBudget(ctx, b); err != nil {
		t.Fatalf("different month should be accepted: %v", err)
	}
}

func TestSavingsGoalAchievedDerived(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "john@example.com")

	g, err := s.CreateSavingsGoal(ctx, core.SavingsGoal{
		UserID: u.ID, Name: "House", Target: core.Money{Cents: 1000000},
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if g.Achieved {
		t.Fatal("new goal must not be achieved")
	}

	g, err = s.SetSavingsGoalCurrent(ctx, g.ID, core.Money{Cents: 1000000})
	if err != nil || !g.Achieved {
		t.Fatalf("expected achieved at target, got %+v (err=%v)", g, err)
	}

	// The flag is re-evaluated, not a one-way latch.
	g, err = s.SetSavingsGoalCurrent(ctx, g.ID, core.Money{Cents: 400000})
	if err != nil || g.Achieved {
		t.Fatalf("expected achieved to reset, got %+v (err=%v)", g, err)
	}
}

func TestProfileUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "john@example.com")

	first, err := s.UpsertProfile(ctx, core.UserProfile{UserID: u.ID, Occupation: "Engineer"})
	if err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	second, err := s.UpsertProfile(ctx, core.UserProfile{UserID: u.ID, Occupation: "Manager", Phone: "5551234"})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("upsert must reuse the row: %d vs %d", first.ID, second.ID)
	}

	got, err := s.GetProfile(ctx, u.ID)
	if err != nil || got.Occupation != "Manager" || got.Phone != "5551234" {
		t.Fatalf("unexpected profile %+v (err=%v)", got, err)
	}
}

func TestProfileNegativeIncomeRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "john@example.com")

	_, err := s.UpsertProfile(ctx, core.UserProfile{
		UserID:       u.ID,
		AnnualIncome: core.Money{Cents: -1},
	})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError from check constraint, got %v", err)
	}
}

func TestOrphanedTransactionRejected(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateTransaction(context.Background(), core.Transaction{
		UserID: 424242, Amount: core.Money{Cents: 100}, Category: "Misc",
		Type: core.Expense, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	var integrity *core.IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected *IntegrityError, got %v", err)
	}
}
