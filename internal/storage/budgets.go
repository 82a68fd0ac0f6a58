package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fintrack/internal/core"
)

// CreateBudget inserts a budget row. A second budget for the same
// (user, category, month) triple violates the schema's unique index and
// surfaces as a DuplicateError.
func (s *Store) CreateBudget(ctx context.Context, b core.Budget) (*core.Budget, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, limit_cents, month, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.UserID, b.Category, b.Limit.Cents, b.Month.String(), b.Description, formatTime(now))
	if err != nil {
		ref := b.Category + " " + b.Month.String()
		if mapped := mapConstraintErr(err, "budget", ref); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("create budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create budget id: %w", err)
	}
	b.ID = id
	b.CreatedAt = now

	slog.InfoContext(ctx, "Budget created",
		"id", b.ID, "user_id", b.UserID, "category", b.Category,
		"month", b.Month.String(), "limit_cents", b.Limit.Cents)
	return &b, nil
}

// UpdateBudget rewrites the limit and description of an existing row.
func (s *Store) UpdateBudget(ctx context.Context, b core.Budget) (*core.Budget, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET limit_cents = ?, description = ? WHERE id = ?`,
		b.Limit.Cents, b.Description, b.ID)
	if err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &core.NotFoundError{Entity: "budget", Ref: strconv.FormatInt(b.ID, 10)}
	}
	return &b, nil
}

// ListBudgetsForMonth returns the user's budget rows for one period,
// ordered by creation time.
func (s *Store) ListBudgetsForMonth(ctx context.Context, userID int64, month core.Month) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category, limit_cents, month, description, created_at
		 FROM budgets WHERE user_id = ? AND month = ? ORDER BY created_at, id`,
		userID, month.String())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	return scanBudgets(rows)
}

func (s *Store) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category, limit_cents, month, description, created_at
		 FROM budgets WHERE user_id = ? ORDER BY month, category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	return scanBudgets(rows)
}

func scanBudgets(rows *sql.Rows) ([]core.Budget, error) {
	var budgets []core.Budget
	for rows.Next() {
		var (
			b                core.Budget
			month, createdAt string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit.Cents, &month, &b.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		m, err := core.ParseMonth(month)
		if err != nil {
			return nil, fmt.Errorf("stored budget month %q: %w", month, err)
		}
		b.Month = m
		b.CreatedAt = parseTime(createdAt)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes a budget row; transactions are never touched.
func (s *Store) DeleteBudget(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Entity: "budget", Ref: strconv.FormatInt(id, 10)}
	}

	slog.InfoContext(ctx, "Budget deleted", "id", id)
	return nil
}
