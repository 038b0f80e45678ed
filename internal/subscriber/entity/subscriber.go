package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// Subscriber is a newsletter recipient. Unsubscribing is a soft delete.
type Subscriber struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Source    string    `db:"source" json:"source"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Input struct {
	Email  *string `json:"email"`
	Name   *string `json:"name"`
	Source *string `json:"source"`
}

var Table = resource.Table{
	Name:         "subscribers",
	Columns:      []string{"id", "email", "name", "source", "is_active", "created_at", "updated_at"},
	Filters:      map[query.Field]string{query.FieldCategory: "source"},
	Search:       []string{"email", "name"},
	Order:        []query.Order{query.Desc("created_at")},
	DefaultLimit: 20,
	Duplicate:    "email already subscribed",
}
