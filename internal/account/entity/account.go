package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// Account is a row of the `accounts` table. PasswordHash never leaves the
// authentication boundary: it is excluded from JSON and from list selects.
type Account struct {
	ID                string     `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	PasswordAlgo      string     `db:"password_algo" json:"-"`
	PasswordUpdatedAt *time.Time `db:"password_updated_at" json:"password_updated_at,omitempty"`
	Name              string     `db:"name" json:"name"`
	Role              string     `db:"role" json:"role"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	LastLoginAt       *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Table lists accounts without credential columns.
var Table = resource.Table{
	Name: "accounts",
	Columns: []string{
		"id", "email", "password_updated_at", "name", "role", "is_active",
		"last_login_at", "created_at", "updated_at",
	},
	Filters:      map[query.Field]string{query.FieldRole: "role"},
	Search:       []string{"email", "name"},
	Order:        []query.Order{query.Desc("created_at")},
	DefaultLimit: 20,
	Duplicate:    "email already in use",
}
