package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrBadFilter      = errors.New("unsupported filter")
	ErrStatusConflict = errors.New("status transition not allowed")
)

// Filter restricts a listing to rows whose columns equal the given values.
type Filter map[string]string

// Store is the table-scoped CRUD surface shared by every resource.
type Store[T any] interface {
	List(ctx context.Context, f Filter) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	// Create inserts rec and refreshes it with the stored row.
	Create(ctx context.Context, rec *T) error
	// Update overwrites the updatable columns of the row identified by rec's
	// id and refreshes rec with the stored row.
	Update(ctx context.Context, rec *T) error
	// Delete removes the row and returns it as it was.
	Delete(ctx context.Context, id int64) (*T, error)
}

type table[T any] struct {
	db        *sqlx.DB
	name      string
	columns   []string // inserted columns, excluding id and created_at
	updatable []string
	filters   []string
}

func (t *table[T]) returning() string {
	return "id, " + strings.Join(t.columns, ", ") + ", created_at"
}

func (t *table[T]) List(ctx context.Context, f Filter) ([]T, error) {
	keys := make([]string, 0, len(f))
	for k := range f {
		if !t.filterable(k) {
			return nil, fmt.Errorf("%w: %s", ErrBadFilter, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := "SELECT " + t.returning() + " FROM " + t.name
	args := make([]any, 0, len(keys))
	where := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, f[k])
		where = append(where, fmt.Sprintf("%s::text = $%d", k, len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	out := []T{}
	if err := t.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return out, nil
}

func (t *table[T]) filterable(column string) bool {
	for _, c := range t.filters {
		if c == column {
			return true
		}
	}
	return false
}

func (t *table[T]) Get(ctx context.Context, id int64) (*T, error) {
	var rec T
	query := "SELECT " + t.returning() + " FROM " + t.name + " WHERE id = $1"
	if err := t.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s %d: %w", t.name, id, err)
	}
	return &rec, nil
}

func (t *table[T]) Create(ctx context.Context, rec *T) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (:%s) RETURNING %s",
		t.name, strings.Join(t.columns, ", "), strings.Join(t.columns, ", :"), t.returning(),
	)
	if err := t.namedRow(ctx, query, rec); err != nil {
		return fmt.Errorf("create %s: %w", t.name, err)
	}
	return nil
}

func (t *table[T]) Update(ctx context.Context, rec *T) error {
	set := make([]string, len(t.updatable))
	for i, c := range t.updatable {
		set[i] = c + " = :" + c
	}
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = :id RETURNING %s",
		t.name, strings.Join(set, ", "), t.returning(),
	)
	if err := t.namedRow(ctx, query, rec); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	return nil
}

// namedRow runs a named statement returning a single row and scans it back
// into rec.
func (t *table[T]) namedRow(ctx context.Context, query string, rec *T) error {
	rows, err := t.db.NamedQueryContext(ctx, query, rec)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrNotFound
	}
	return rows.StructScan(rec)
}

func (t *table[T]) Delete(ctx context.Context, id int64) (*T, error) {
	var rec T
	query := "DELETE FROM " + t.name + " WHERE id = $1 RETURNING " + t.returning()
	if err := t.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete %s %d: %w", t.name, id, err)
	}
	return &rec, nil
}
