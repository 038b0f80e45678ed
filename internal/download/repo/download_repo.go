package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/download/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

type DownloadRepo struct {
	*resource.Repo[entity.Download]
}

func NewDownloadRepo(db *sqlx.DB, timeout time.Duration) *DownloadRepo {
	return &DownloadRepo{Repo: resource.NewRepo[entity.Download](db, entity.Table, timeout)}
}

func (r *DownloadRepo) Create(ctx context.Context, id string, in entity.Input) (*entity.Download, error) {
	var size int64
	if in.FileSize != nil {
		size = *in.FileSize
	}
	featured := in.IsFeatured != nil && *in.IsFeatured
	return r.Insert(ctx,
		resource.Set("id", id),
		resource.Set("title", resource.Str(in.Title)),
		resource.Set("description", resource.Str(in.Description)),
		resource.Set("category", resource.Str(in.Category)),
		resource.Set("file_url", resource.Str(in.FileURL)),
		resource.Set("file_type", resource.Str(in.FileType)),
		resource.Set("file_size", size),
		resource.Set("is_featured", featured),
	)
}

func (r *DownloadRepo) Patch(ctx context.Context, id string, in entity.Input) (*entity.Download, error) {
	return r.Update(ctx, id,
		resource.Set("title", in.Title),
		resource.Set("description", in.Description),
		resource.Set("category", in.Category),
		resource.Set("file_url", in.FileURL),
		resource.Set("file_type", in.FileType),
		resource.Set("file_size", in.FileSize),
		resource.Set("is_featured", in.IsFeatured),
	)
}

// CountDownload bumps download_count on an active row.
func (r *DownloadRepo) CountDownload(ctx context.Context, id string) (int64, error) {
	return r.Increment(ctx, id, entity.CountColumn)
}
