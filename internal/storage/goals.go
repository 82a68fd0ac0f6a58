package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fintrack/internal/core"
)

// CreateSavingsGoal inserts a goal. The achieved flag is derived from the
// amounts, never taken from the caller.
func (s *Store) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (*core.SavingsGoal, error) {
	now := time.Now().UTC()
	g.Achieved = g.Current.Cents >= g.Target.Cents
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO savings_goals (user_id, name, target_cents, current_cents, achieved, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Name, g.Target.Cents, g.Current.Cents, g.Achieved, g.Description, formatTime(now))
	if err != nil {
		if mapped := mapConstraintErr(err, "savings goal", g.Name); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("create savings goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create savings goal id: %w", err)
	}
	g.ID = id
	g.CreatedAt = now

	slog.InfoContext(ctx, "Savings goal created",
		"id", g.ID, "user_id", g.UserID, "name", g.Name, "target_cents", g.Target.Cents)
	return &g, nil
}

func (s *Store) GetSavingsGoalByName(ctx context.Context, userID int64, name string) (*core.SavingsGoal, error) {
	var (
		g         core.SavingsGoal
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, achieved, description, created_at
		 FROM savings_goals WHERE user_id = ? AND name = ?`, userID, name).
		Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Current.Cents, &g.Achieved, &g.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Entity: "savings goal", Ref: name}
	}
	if err != nil {
		return nil, fmt.Errorf("get savings goal: %w", err)
	}
	g.CreatedAt = parseTime(createdAt)
	return &g, nil
}

func (s *Store) ListSavingsGoals(ctx context.Context, userID int64) ([]core.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, achieved, description, created_at
		 FROM savings_goals WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var goals []core.SavingsGoal
	for rows.Next() {
		var (
			g         core.SavingsGoal
			createdAt string
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Current.Cents,
			&g.Achieved, &g.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		g.CreatedAt = parseTime(createdAt)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	return goals, nil
}

// SetSavingsGoalCurrent stores a new current amount and re-derives the
// achieved flag in the same statement, so the flag can never drift from
// its source fields.
func (s *Store) SetSavingsGoalCurrent(ctx context.Context, id int64, current core.Money) (*core.SavingsGoal, error) {
	var (
		g         core.SavingsGoal
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`UPDATE savings_goals
		 SET current_cents = ?, achieved = (? >= target_cents)
		 WHERE id = ?
		 RETURNING id, user_id, name, target_cents, current_cents, achieved, description, created_at`,
		current.Cents, current.Cents, id).
		Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Current.Cents, &g.Achieved, &g.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Entity: "savings goal", Ref: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		if mapped := mapConstraintErr(err, "savings goal", strconv.FormatInt(id, 10)); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("update savings goal: %w", err)
	}
	g.CreatedAt = parseTime(createdAt)

	slog.InfoContext(ctx, "Savings goal updated",
		"id", g.ID, "current_cents", g.Current.Cents, "achieved", g.Achieved)
	return &g, nil
}

func (s *Store) DeleteSavingsGoal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Entity: "savings goal", Ref: strconv.FormatInt(id, 10)}
	}

	slog.InfoContext(ctx, "Savings goal deleted", "id", id)
	return nil
}
