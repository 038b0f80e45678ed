package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// Tool is a calculator or utility listed in the public tool catalogue.
type Tool struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	URL         string    `db:"url" json:"url"`
	Icon        string    `db:"icon" json:"icon"`
	IsFeatured  bool      `db:"is_featured" json:"is_featured"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Input struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	URL         *string `json:"url"`
	Icon        *string `json:"icon"`
	IsFeatured  *bool   `json:"is_featured"`
}

var Table = resource.Table{
	Name: "tools",
	Columns: []string{
		"id", "name", "slug", "description", "category", "url", "icon", "is_featured",
		"is_active", "created_at", "updated_at",
	},
	Filters:        map[query.Field]string{query.FieldCategory: "category"},
	Search:         []string{"name", "description"},
	FeaturedColumn: "is_featured",
	Order:          []query.Order{query.Desc("is_featured"), query.Asc("name")},
	DefaultLimit:   20,
	Duplicate:      "slug already in use",
}
