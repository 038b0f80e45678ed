package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// Insight is a published article.
type Insight struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Excerpt     string     `db:"excerpt" json:"excerpt"`
	Content     string     `db:"content" json:"content"`
	Category    string     `db:"category" json:"category"`
	Author      string     `db:"author" json:"author"`
	CoverImage  string     `db:"cover_image" json:"cover_image"`
	Status      string     `db:"status" json:"status"`
	IsFeatured  bool       `db:"is_featured" json:"is_featured"`
	ViewCount   int64      `db:"view_count" json:"view_count"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

var Statuses = []string{StatusDraft, StatusPublished}

type Input struct {
	Title      *string `json:"title"`
	Slug       *string `json:"slug"`
	Excerpt    *string `json:"excerpt"`
	Content    *string `json:"content"`
	Category   *string `json:"category"`
	Author     *string `json:"author"`
	CoverImage *string `json:"cover_image"`
	Status     *string `json:"status"`
	IsFeatured *bool   `json:"is_featured"`
}

var Table = resource.Table{
	Name: "insights",
	Columns: []string{
		"id", "title", "slug", "excerpt", "content", "category", "author", "cover_image",
		"status", "is_featured", "view_count", "published_at", "is_active", "created_at", "updated_at",
	},
	Filters: map[query.Field]string{
		query.FieldStatus:   "status",
		query.FieldCategory: "category",
		query.FieldAuthor:   "author",
	},
	Search:         []string{"title", "excerpt", "content"},
	FeaturedColumn: "is_featured",
	Order:          []query.Order{query.Desc("is_featured"), query.Desc("created_at")},
	DefaultLimit:   10,
	Duplicate:      "slug already in use",
}
