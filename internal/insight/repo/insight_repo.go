package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/insight/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/database"
)

type InsightRepo struct {
	*resource.Repo[entity.Insight]
}

func NewInsightRepo(db *sqlx.DB, timeout time.Duration) *InsightRepo {
	return &InsightRepo{Repo: resource.NewRepo[entity.Insight](db, entity.Table, timeout)}
}

var columns = strings.Join(entity.Table.Columns, ", ")

func (r *InsightRepo) Create(ctx context.Context, id string, in entity.Input, publishedAt *time.Time) (*entity.Insight, error) {
	return r.Insert(ctx,
		resource.Set("id", id),
		resource.Set("title", resource.Str(in.Title)),
		resource.Set("slug", resource.Str(in.Slug)),
		resource.Set("excerpt", resource.Str(in.Excerpt)),
		resource.Set("content", resource.Str(in.Content)),
		resource.Set("category", resource.Str(in.Category)),
		resource.Set("author", resource.Str(in.Author)),
		resource.Set("cover_image", resource.Str(in.CoverImage)),
		resource.Set("status", resource.Str(in.Status)),
		resource.Set("is_featured", in.IsFeatured != nil && *in.IsFeatured),
		resource.Set("published_at", publishedAt),
	)
}

// published_at is stamped the first time the row becomes published and
// kept through later unpublish/republish cycles.
var patchSQL = `UPDATE insights SET
  title = COALESCE($2, title),
  slug = COALESCE($3, slug),
  excerpt = COALESCE($4, excerpt),
  content = COALESCE($5, content),
  category = COALESCE($6, category),
  author = COALESCE($7, author),
  cover_image = COALESCE($8, cover_image),
  status = COALESCE($9, status),
  is_featured = COALESCE($10, is_featured),
  published_at = CASE WHEN published_at IS NULL AND COALESCE($9, status) = 'published' THEN NOW() ELSE published_at END,
  ` + resource.TouchUpdatedAt + `
WHERE id = $1 AND is_active = true
RETURNING ` + columns

func (r *InsightRepo) Patch(ctx context.Context, id string, in entity.Input) (*entity.Insight, error) {
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var row entity.Insight
	err := r.DB().GetContext(ctx, &row, patchSQL, id,
		in.Title, in.Slug, in.Excerpt, in.Content, in.Category, in.Author, in.CoverImage, in.Status, in.IsFeatured)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, apperr.ErrNotFound
	case database.IsUniqueViolation(err):
		return nil, apperr.Conflict(entity.Table.Duplicate)
	case err != nil:
		return nil, fmt.Errorf("update insights: %w", err)
	}
	return &row, nil
}

// GetPublished finds a live article by slug.
func (r *InsightRepo) GetPublished(ctx context.Context, slug string) (*entity.Insight, error) {
	q := "SELECT " + columns + " FROM insights WHERE slug = $1 AND is_active = true AND status = 'published'"
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var row entity.Insight
	if err := r.DB().GetContext(ctx, &row, q, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get insight by slug: %w", err)
	}
	return &row, nil
}

// CountView bumps view_count on a published row.
func (r *InsightRepo) CountView(ctx context.Context, id string) (int64, error) {
	const q = `UPDATE insights SET view_count = view_count + 1
	  WHERE id = $1 AND is_active = true AND status = 'published' RETURNING view_count`
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var n int64
	if err := r.DB().GetContext(ctx, &n, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.ErrNotFound
		}
		return 0, fmt.Errorf("count insight view: %w", err)
	}
	return n, nil
}
