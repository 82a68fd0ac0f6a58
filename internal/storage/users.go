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

// CreateUser inserts a new user row. Email uniqueness is enforced by the
// schema and surfaces as a DuplicateError.
func (s *Store) CreateUser(ctx context.Context, u core.User) (*core.User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, default_currency, monthly_income_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.DefaultCurrency, u.MonthlyIncome.Cents, formatTime(now), formatTime(now))
	if err != nil {
		if mapped := mapConstraintErr(err, "user", u.Email); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user id: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now

	slog.InfoContext(ctx, "User created", "id", u.ID, "email", u.Email)
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*core.User, error) {
	return s.getUserBy(ctx, "id = ?", strconv.FormatInt(id, 10), id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return s.getUserBy(ctx, "email = ?", email, email)
}

func (s *Store) getUserBy(ctx context.Context, where, ref string, arg any) (*core.User, error) {
	var (
		u                    core.User
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, default_currency, monthly_income_cents, created_at, updated_at
		 FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.DefaultCurrency, &u.MonthlyIncome.Cents, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Entity: "user", Ref: ref}
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}

// UpdateUser rewrites the mutable user fields.
func (s *Store) UpdateUser(ctx context.Context, u core.User) (*core.User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, default_currency = ?, monthly_income_cents = ?, updated_at = ?
		 WHERE id = ?`,
		u.Name, u.Email, u.DefaultCurrency, u.MonthlyIncome.Cents, formatTime(now), u.ID)
	if err != nil {
		if mapped := mapConstraintErr(err, "user", u.Email); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &core.NotFoundError{Entity: "user", Ref: strconv.FormatInt(u.ID, 10)}
	}
	u.UpdatedAt = now
	return &u, nil
}

// DeleteUser removes the user; the schema cascades to the profile,
// transactions (and their tag links), budgets and savings goals.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Entity: "user", Ref: strconv.FormatInt(id, 10)}
	}

	slog.InfoContext(ctx, "User deleted with owned rows", "id", id)
	return nil
}

// UpsertProfile creates the user's profile or updates it in place.
func (s *Store) UpsertProfile(ctx context.Context, p core.UserProfile) (*core.UserProfile, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO user_profiles (user_id, phone, occupation, annual_income_cents, risk_tolerance)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		     phone = excluded.phone,
		     occupation = excluded.occupation,
		     annual_income_cents = excluded.annual_income_cents,
		     risk_tolerance = excluded.risk_tolerance
		 RETURNING id`,
		p.UserID, p.Phone, p.Occupation, p.AnnualIncome.Cents, p.RiskTolerance).Scan(&p.ID)
	if err != nil {
		if mapped := mapConstraintErr(err, "profile", strconv.FormatInt(p.UserID, 10)); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	slog.InfoContext(ctx, "Profile upserted", "user_id", p.UserID)
	return &p, nil
}

func (s *Store) GetProfile(ctx context.Context, userID int64) (*core.UserProfile, error) {
	var p core.UserProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, phone, occupation, annual_income_cents, risk_tolerance
		 FROM user_profiles WHERE user_id = ?`, userID).
		Scan(&p.ID, &p.UserID, &p.Phone, &p.Occupation, &p.AnnualIncome.Cents, &p.RiskTolerance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Entity: "profile", Ref: strconv.FormatInt(userID, 10)}
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}
