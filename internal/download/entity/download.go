package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// Download is an entry of the public resource library.
type Download struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Category      string    `db:"category" json:"category"`
	FileURL       string    `db:"file_url" json:"file_url"`
	FileType      string    `db:"file_type" json:"file_type"`
	FileSize      int64     `db:"file_size" json:"file_size"`
	DownloadCount int64     `db:"download_count" json:"download_count"`
	IsFeatured    bool      `db:"is_featured" json:"is_featured"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Input struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	FileURL     *string `json:"file_url"`
	FileType    *string `json:"file_type"`
	FileSize    *int64  `json:"file_size"`
	IsFeatured  *bool   `json:"is_featured"`
}

// CountColumn is bumped by the public "download" action.
const CountColumn = "download_count"

var Table = resource.Table{
	Name: "downloads",
	Columns: []string{
		"id", "title", "description", "category", "file_url", "file_type", "file_size",
		"download_count", "is_featured", "is_active", "created_at", "updated_at",
	},
	Filters: map[query.Field]string{
		query.FieldCategory: "category",
		query.FieldType:     "file_type",
	},
	Search:         []string{"title", "description"},
	FeaturedColumn: "is_featured",
	Order:          []query.Order{query.Desc("is_featured"), query.Desc("created_at")},
	DefaultLimit:   10,
}
