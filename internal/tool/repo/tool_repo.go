package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/tool/entity"
)

type ToolRepo struct {
	*resource.Repo[entity.Tool]
}

func NewToolRepo(db *sqlx.DB, timeout time.Duration) *ToolRepo {
	return &ToolRepo{Repo: resource.NewRepo[entity.Tool](db, entity.Table, timeout)}
}

func (r *ToolRepo) Create(ctx context.Context, id string, in entity.Input) (*entity.Tool, error) {
	return r.Insert(ctx,
		resource.Set("id", id),
		resource.Set("name", resource.Str(in.Name)),
		resource.Set("slug", resource.Str(in.Slug)),
		resource.Set("description", resource.Str(in.Description)),
		resource.Set("category", resource.Str(in.Category)),
		resource.Set("url", resource.Str(in.URL)),
		resource.Set("icon", resource.Str(in.Icon)),
		resource.Set("is_featured", in.IsFeatured != nil && *in.IsFeatured),
	)
}

func (r *ToolRepo) Patch(ctx context.Context, id string, in entity.Input) (*entity.Tool, error) {
	return r.Update(ctx, id,
		resource.Set("name", in.Name),
		resource.Set("slug", in.Slug),
		resource.Set("description", in.Description),
		resource.Set("category", in.Category),
		resource.Set("url", in.URL),
		resource.Set("icon", in.Icon),
		resource.Set("is_featured", in.IsFeatured),
	)
}
