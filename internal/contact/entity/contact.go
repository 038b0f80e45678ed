package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// Contact is an enquiry left through the public contact form.
type Contact struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Company   string    `db:"company" json:"company"`
	Service   string    `db:"service" json:"service"`
	Message   string    `db:"message" json:"message"`
	Status    string    `db:"status" json:"status"`
	Notes     string    `db:"notes" json:"notes"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusArchived   = "archived"
)

var Statuses = []string{StatusNew, StatusInProgress, StatusResolved, StatusArchived}

// Input carries create and partial-update fields; nil means "not given".
type Input struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Service *string `json:"service"`
	Message *string `json:"message"`
	Status  *string `json:"status"`
	Notes   *string `json:"notes"`
}

var Table = resource.Table{
	Name: "contacts",
	Columns: []string{
		"id", "name", "email", "phone", "company", "service", "message", "status", "notes",
		"is_active", "created_at", "updated_at",
	},
	Filters: map[query.Field]string{
		query.FieldStatus:   "status",
		query.FieldCategory: "service",
	},
	Search:       []string{"name", "email", "company", "message"},
	Order:        []query.Order{query.Desc("created_at")},
	DefaultLimit: 20,
}
