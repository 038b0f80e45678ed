package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/contact/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// ContactRepo provides data access for the contacts table.
type ContactRepo struct {
	*resource.Repo[entity.Contact]
}

func NewContactRepo(db *sqlx.DB, timeout time.Duration) *ContactRepo {
	return &ContactRepo{Repo: resource.NewRepo[entity.Contact](db, entity.Table, timeout)}
}

func (r *ContactRepo) Create(ctx context.Context, id string, in entity.Input) (*entity.Contact, error) {
	return r.Insert(ctx,
		resource.Set("id", id),
		resource.Set("name", resource.Str(in.Name)),
		resource.Set("email", resource.Str(in.Email)),
		resource.Set("phone", resource.Str(in.Phone)),
		resource.Set("company", resource.Str(in.Company)),
		resource.Set("service", resource.Str(in.Service)),
		resource.Set("message", resource.Str(in.Message)),
		resource.Set("status", resource.Str(in.Status)),
		resource.Set("notes", resource.Str(in.Notes)),
	)
}

func (r *ContactRepo) Patch(ctx context.Context, id string, in entity.Input) (*entity.Contact, error) {
	return r.Update(ctx, id,
		resource.Set("name", in.Name),
		resource.Set("email", in.Email),
		resource.Set("phone", in.Phone),
		resource.Set("company", in.Company),
		resource.Set("service", in.Service),
		resource.Set("message", in.Message),
		resource.Set("status", in.Status),
		resource.Set("notes", in.Notes),
	)
}
