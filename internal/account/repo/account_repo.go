package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/account/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/database"
)

// AccountRepo provides data access for the accounts table using sqlx.
type AccountRepo struct {
	*resource.Repo[entity.Account]
}

func NewAccountRepo(db *sqlx.DB, timeout time.Duration) *AccountRepo {
	return &AccountRepo{Repo: resource.NewRepo[entity.Account](db, entity.Table, timeout)}
}

// Create inserts a new account. A duplicate email is reported as a conflict.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	const q = `INSERT INTO accounts (id, email, password_hash, password_algo, password_updated_at, name, role, is_active)
		VALUES (:id, :email, :password_hash, :password_algo, NOW(), :name, :role, :is_active)
		RETURNING created_at, updated_at`
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	rows, err := r.DB().NamedQueryContext(ctx, q, a)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("email already in use")
		}
		return fmt.Errorf("insert account: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			if database.IsUniqueViolation(err) {
				return apperr.Conflict("email already in use")
			}
			return fmt.Errorf("insert account: %w", err)
		}
		return errors.New("insert account: no row returned")
	}
	return rows.Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByEmail returns the full row, credentials included, matched
// case-insensitively (citext). Inactive accounts are returned too; the
// caller decides.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	const q = `SELECT id, email, password_hash, password_algo, password_updated_at, name, role,
		is_active, last_login_at, created_at, updated_at
	  FROM accounts WHERE email = $1`
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var a entity.Account
	if err := r.DB().GetContext(ctx, &a, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return &a, nil
}

// RecordLogin stamps last_login_at.
func (r *AccountRepo) RecordLogin(ctx context.Context, id string) error {
	const q = `UPDATE accounts SET last_login_at = NOW() WHERE id = $1`
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	_, err := r.DB().ExecContext(ctx, q, id)
	return err
}

// UpdatePassword replaces the hash of an active account.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id, hash, algo string) error {
	const q = `UPDATE accounts SET password_hash = $2, password_algo = $3, password_updated_at = NOW(), ` +
		resource.TouchUpdatedAt + ` WHERE id = $1 AND is_active = true`
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	res, err := r.DB().ExecContext(ctx, q, id, hash, algo)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
