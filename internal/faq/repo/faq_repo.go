package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/faq/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

type FAQRepo struct {
	*resource.Repo[entity.FAQ]
}

func NewFAQRepo(db *sqlx.DB, timeout time.Duration) *FAQRepo {
	return &FAQRepo{Repo: resource.NewRepo[entity.FAQ](db, entity.Table, timeout)}
}

func (r *FAQRepo) Create(ctx context.Context, id string, in entity.Input) (*entity.FAQ, error) {
	order := 0
	if in.SortOrder != nil {
		order = *in.SortOrder
	}
	return r.Insert(ctx,
		resource.Set("id", id),
		resource.Set("question", resource.Str(in.Question)),
		resource.Set("answer", resource.Str(in.Answer)),
		resource.Set("category", resource.Str(in.Category)),
		resource.Set("sort_order", order),
	)
}

func (r *FAQRepo) Patch(ctx context.Context, id string, in entity.Input) (*entity.FAQ, error) {
	return r.Update(ctx, id,
		resource.Set("question", in.Question),
		resource.Set("answer", in.Answer),
		resource.Set("category", in.Category),
		resource.Set("sort_order", in.SortOrder),
	)
}

const upsertSQL = `INSERT INTO faqs (id, question, answer, category, sort_order)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (lower(question)) DO UPDATE SET
  answer = EXCLUDED.answer,
  category = EXCLUDED.category,
  sort_order = EXCLUDED.sort_order,
  is_active = true,
  updated_at = GREATEST(NOW(), faqs.updated_at + INTERVAL '1 microsecond')
RETURNING (xmax = 0) AS inserted`

// Upsert inserts or refreshes one FAQ keyed on the case-insensitive
// question, in a single statement. It reports whether a row was inserted.
func (r *FAQRepo) Upsert(ctx context.Context, id string, in entity.Input) (bool, error) {
	order := 0
	if in.SortOrder != nil {
		order = *in.SortOrder
	}
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var inserted bool
	err := r.DB().GetContext(ctx, &inserted, upsertSQL,
		id, resource.Str(in.Question), resource.Str(in.Answer), resource.Str(in.Category), order)
	if err != nil {
		return false, fmt.Errorf("upsert faq: %w", err)
	}
	return inserted, nil
}

func (r *FAQRepo) CountView(ctx context.Context, id string) (int64, error) {
	return r.Increment(ctx, id, "view_count")
}

func (r *FAQRepo) CountHelpful(ctx context.Context, id string) (int64, error) {
	return r.Increment(ctx, id, "helpful_count")
}
