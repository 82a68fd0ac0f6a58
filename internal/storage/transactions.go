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

// TransactionFilter narrows ListTransactions. Zero values mean "no
// constraint"; results are always scoped to one owner and ordered by
// creation time.
type TransactionFilter struct {
	Category string
	Tag      string
	From     time.Time
	To       time.Time // inclusive
	Limit    int
}

// CreateTransaction inserts the transaction, get-or-creates its tags and
// links them, all in one SQL transaction. Tag membership is idempotent:
// linking an already-linked tag is a no-op against the join-table primary
// key.
func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (*core.Transaction, error) {
	now := time.Now().UTC()
	err := s.withTx(func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (user_id, amount_cents, description, category, tx_type, tx_date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.UserID, t.Amount.Cents, t.Description, t.Category, string(t.Type),
			t.Date.Format(dateLayout), formatTime(now))
		if err != nil {
			if mapped := mapConstraintErr(err, "transaction", t.Category); mapped != err {
				return mapped
			}
			return fmt.Errorf("insert transaction: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("transaction id: %w", err)
		}
		t.ID = id

		for _, name := range t.Tags {
			tagID, err := getOrCreateTag(ctx, tx, name)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO transaction_tags (transaction_id, tag_id) VALUES (?, ?)`,
				t.ID, tagID); err != nil {
				return fmt.Errorf("link tag %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	t.CreatedAt = now

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"user_id", t.UserID,
		"type", string(t.Type),
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"tags", len(t.Tags))
	return &t, nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	var (
		t                 core.Transaction
		txDate, createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount_cents, description, category, tx_type, tx_date, created_at
		 FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &t.UserID, &t.Amount.Cents, &t.Description, &t.Category, &t.Type, &txDate, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Entity: "transaction", Ref: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	t.Date = parseDate(txDate)
	t.CreatedAt = parseTime(createdAt)

	tags, err := s.transactionTags(ctx, []int64{t.ID})
	if err != nil {
		return nil, err
	}
	t.Tags = tags[t.ID]
	return &t, nil
}

// ListTransactions returns the user's transactions matching the filter,
// ordered by creation time. The tag filter matches membership in the join
// table.
func (s *Store) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT t.id, t.user_id, t.amount_cents, t.description, t.category, t.tx_type, t.tx_date, t.created_at
	          FROM transactions t`
	args := []any{}

	if f.Tag != "" {
		query += ` JOIN transaction_tags tt ON tt.transaction_id = t.id
		           JOIN tags g ON g.id = tt.tag_id AND g.name = ?`
		args = append(args, f.Tag)
	}
	query += ` WHERE t.user_id = ?`
	args = append(args, userID)

	if f.Category != "" {
		query += ` AND t.category = ?`
		args = append(args, f.Category)
	}
	if !f.From.IsZero() {
		query += ` AND t.tx_date >= ?`
		args = append(args, f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		query += ` AND t.tx_date <= ?`
		args = append(args, f.To.Format(dateLayout))
	}
	query += ` ORDER BY t.created_at, t.id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var (
		txs []core.Transaction
		ids []int64
	)
	for rows.Next() {
		var (
			t                 core.Transaction
			txDate, createdAt string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &t.Description, &t.Category,
			&t.Type, &txDate, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date = parseDate(txDate)
		t.CreatedAt = parseTime(createdAt)
		txs = append(txs, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	tagsByTx, err := s.transactionTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range txs {
		txs[i].Tags = tagsByTx[txs[i].ID]
	}
	return txs, nil
}

// ListTransactionsForMonth is the report engine's input query.
func (s *Store) ListTransactionsForMonth(ctx context.Context, userID int64, month core.Month) ([]core.Transaction, error) {
	return s.ListTransactions(ctx, userID, TransactionFilter{
		From: month.Start(),
		To:   month.End().AddDate(0, 0, -1),
	})
}

// DeleteTransaction removes the row; the schema cascades to its tag links
// only, never to the tags themselves.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Entity: "transaction", Ref: strconv.FormatInt(id, 10)}
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// transactionTags loads tag names for a set of transactions in one query.
func (s *Store) transactionTags(ctx context.Context, ids []int64) (map[int64][]string, error) {
	out := make(map[int64][]string)
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT tt.transaction_id, g.name
	          FROM transaction_tags tt
	          JOIN tags g ON g.id = tt.tag_id
	          WHERE tt.transaction_id IN (?` // at least one id
	args := []any{ids[0]}
	for _, id := range ids[1:] {
		query += `, ?`
		args = append(args, id)
	}
	query += `) ORDER BY g.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load transaction tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			txID int64
			name string
		)
		if err := rows.Scan(&txID, &name); err != nil {
			return nil, fmt.Errorf("scan transaction tag: %w", err)
		}
		out[txID] = append(out[txID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load transaction tags: %w", err)
	}
	return out, nil
}
