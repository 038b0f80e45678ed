package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/database"
)

// Repo provides the shared read and soft-delete paths over one table.
type Repo[T any] struct {
	db      *sqlx.DB
	table   Table
	timeout time.Duration
}

func NewRepo[T any](db *sqlx.DB, table Table, timeout time.Duration) *Repo[T] {
	return &Repo[T]{db: db, table: table, timeout: timeout}
}

// DB exposes the handle for entity-specific writes.
func (r *Repo[T]) DB() *sqlx.DB { return r.db }

// Table returns the table descriptor.
func (r *Repo[T]) Table() Table { return r.table }

// Bounded applies the per-statement timeout.
func (r *Repo[T]) Bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return database.Bounded(ctx, r.timeout)
}

// List runs the count and the page select. The two statements are not
// wrapped in a transaction; a row written between them only skews total.
func (r *Repo[T]) List(ctx context.Context, f query.Filter) (*query.Page[T], error) {
	if f.Limit <= 0 {
		f.Limit = r.table.DefaultLimit
	}
	if f.Page < 1 {
		f.Page = 1
	}
	b := r.table.Builder(f)
	countSQL, countArgs, err := b.Count()
	if err != nil {
		return nil, err
	}
	selectSQL, selectArgs, err := b.Build()
	if err != nil {
		return nil, err
	}

	var total int64
	cctx, cancel := r.Bounded(ctx)
	err = r.db.GetContext(cctx, &total, countSQL, countArgs...)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", r.table.Name, err)
	}

	items := make([]T, 0, f.Limit)
	sctx, cancel := r.Bounded(ctx)
	defer cancel()
	if err := r.db.SelectContext(sctx, &items, selectSQL, selectArgs...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.Name, err)
	}
	return &query.Page[T]{Items: items, Pagination: query.NewPagination(f.Page, f.Limit, total)}, nil
}

// Get fetches one row by id. Inactive rows are returned only when
// includeInactive is set (admin audit reads).
func (r *Repo[T]) Get(ctx context.Context, id string, includeInactive bool) (*T, error) {
	q := "SELECT " + strings.Join(r.table.Columns, ", ") + " FROM " + r.table.Name + " WHERE id = $1"
	if !includeInactive {
		q += " AND " + ActiveColumn + " = true"
	}
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var row T
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", r.table.Name, err)
	}
	return &row, nil
}

// SoftDelete flips is_active off. Deleting an already-inactive row succeeds
// and leaves updated_at alone; only an unknown id is ErrNotFound.
func (r *Repo[T]) SoftDelete(ctx context.Context, id string) error {
	q := "UPDATE " + r.table.Name + " SET " + ActiveColumn + " = false, " +
		"updated_at = CASE WHEN " + ActiveColumn + " THEN GREATEST(NOW(), updated_at + INTERVAL '1 microsecond') ELSE updated_at END " +
		"WHERE id = $1 RETURNING id"
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var got string
	if err := r.db.GetContext(ctx, &got, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("delete %s: %w", r.table.Name, err)
	}
	return nil
}

// Restore flips is_active back on.
func (r *Repo[T]) Restore(ctx context.Context, id string) error {
	q := "UPDATE " + r.table.Name + " SET " + ActiveColumn + " = true, " + TouchUpdatedAt + " WHERE id = $1 RETURNING id"
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var got string
	if err := r.db.GetContext(ctx, &got, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("restore %s: %w", r.table.Name, err)
	}
	return nil
}

// Increment bumps a counter column on an active row. column must be one of
// the table's own columns.
func (r *Repo[T]) Increment(ctx context.Context, id, column string) (int64, error) {
	known := false
	for _, c := range r.table.Columns {
		if c == column {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("%w: counter %q", query.ErrBadIdentifier, column)
	}
	q := "UPDATE " + r.table.Name + " SET " + column + " = " + column + " + 1 WHERE id = $1 AND " + ActiveColumn + " = true RETURNING " + column
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var n int64
	if err := r.db.GetContext(ctx, &n, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.ErrNotFound
		}
		return 0, fmt.Errorf("increment %s.%s: %w", r.table.Name, column, err)
	}
	return n, nil
}

// Value is one column of a write. For Update a nil Value (or nil pointer)
// keeps the stored value.
type Value struct {
	Column string
	Arg    any
}

// Set pairs a column with its argument.
func Set(column string, arg any) Value { return Value{Column: column, Arg: arg} }

func (r *Repo[T]) checkColumns(values []Value) error {
	if len(values) == 0 {
		return fmt.Errorf("write %s: no columns", r.table.Name)
	}
	for _, v := range values {
		known := false
		for _, c := range r.table.Columns {
			if c == v.Column {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: column %q", query.ErrBadIdentifier, v.Column)
		}
	}
	return nil
}

func (r *Repo[T]) writeErr(op string, err error) error {
	if database.IsUniqueViolation(err) {
		msg := r.table.Duplicate
		if msg == "" {
			msg = r.table.Name + " already exists"
		}
		return apperr.Conflict(msg)
	}
	return fmt.Errorf("%s %s: %w", op, r.table.Name, err)
}

// Insert writes one row in a single statement and returns it as stored, so
// defaults (timestamps, zeroed counters) come from the database.
func (r *Repo[T]) Insert(ctx context.Context, values ...Value) (*T, error) {
	if err := r.checkColumns(values); err != nil {
		return nil, err
	}
	cols := make([]string, len(values))
	marks := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		cols[i] = v.Column
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = v.Arg
	}
	q := "INSERT INTO " + r.table.Name + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.Join(marks, ", ") + ") RETURNING " + strings.Join(r.table.Columns, ", ")
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var row T
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		return nil, r.writeErr("insert", err)
	}
	return &row, nil
}

// Update applies a partial update to an active row. Each column is written
// as COALESCE($n, column), so absent fields keep their value, and
// updated_at always advances. An unknown or inactive id is ErrNotFound.
func (r *Repo[T]) Update(ctx context.Context, id string, values ...Value) (*T, error) {
	if err := r.checkColumns(values); err != nil {
		return nil, err
	}
	sets := make([]string, 0, len(values)+1)
	args := make([]any, 0, len(values)+1)
	args = append(args, id)
	for i, v := range values {
		sets = append(sets, fmt.Sprintf("%s = COALESCE($%d, %s)", v.Column, i+2, v.Column))
		args = append(args, v.Arg)
	}
	sets = append(sets, TouchUpdatedAt)
	q := "UPDATE " + r.table.Name + " SET " + strings.Join(sets, ", ") +
		" WHERE id = $1 AND " + ActiveColumn + " = true RETURNING " + strings.Join(r.table.Columns, ", ")
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var row T
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, r.writeErr("update", err)
	}
	return &row, nil
}
