package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// CreateTag inserts a tag; a reused name surfaces as a DuplicateError.
func (s *Store) CreateTag(ctx context.Context, t core.Tag) (*core.Tag, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, description, color) VALUES (?, ?, ?)`,
		t.Name, t.Description, t.Color)
	if err != nil {
		if mapped := mapConstraintErr(err, "tag", t.Name); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create tag id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Tag created", "id", t.ID, "name", t.Name, "color", t.Color)
	return &t, nil
}

func (s *Store) GetTagByName(ctx context.Context, name string) (*core.Tag, error) {
	var t core.Tag
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, color FROM tags WHERE name = ?`, name).
		Scan(&t.ID, &t.Name, &t.Description, &t.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.NotFoundError{Entity: "tag", Ref: name}
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

func (s *Store) ListTags(ctx context.Context) ([]core.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, color FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []core.Tag
	for rows.Next() {
		var t core.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Color); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// DeleteTag removes the tag; the schema cascades to its membership links,
// leaving the transactions untouched.
func (s *Store) DeleteTag(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Entity: "tag", Ref: name}
	}

	slog.InfoContext(ctx, "Tag deleted", "name", name)
	return nil
}

// getOrCreateTag resolves a tag name to its id inside a transaction,
// creating the tag with the default color when absent.
func getOrCreateTag(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO tags (name, color) VALUES (?, ?)`,
		name, core.DefaultTagColor); err != nil {
		return 0, fmt.Errorf("ensure tag %q: %w", name, err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve tag %q: %w", name, err)
	}
	return id, nil
}
