package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

type FAQ struct {
	ID           string    `db:"id" json:"id"`
	Question     string    `db:"question" json:"question"`
	Answer       string    `db:"answer" json:"answer"`
	Category     string    `db:"category" json:"category"`
	SortOrder    int       `db:"sort_order" json:"sort_order"`
	ViewCount    int64     `db:"view_count" json:"view_count"`
	HelpfulCount int64     `db:"helpful_count" json:"helpful_count"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Input struct {
	Question  *string `json:"question"`
	Answer    *string `json:"answer"`
	Category  *string `json:"category"`
	SortOrder *int    `json:"sort_order"`
}

// ImportResult counts the outcome of a bulk import.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

var Table = resource.Table{
	Name: "faqs",
	Columns: []string{
		"id", "question", "answer", "category", "sort_order", "view_count", "helpful_count",
		"is_active", "created_at", "updated_at",
	},
	Filters:      map[query.Field]string{query.FieldCategory: "category"},
	Search:       []string{"question", "answer"},
	Order:        []query.Order{query.Asc("sort_order"), query.Desc("created_at")},
	DefaultLimit: 20,
	Duplicate:    "question already exists",
}
