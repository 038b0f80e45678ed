package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/booking/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

type BookingRepo struct {
	*resource.Repo[entity.Booking]
}

func NewBookingRepo(db *sqlx.DB, timeout time.Duration) *BookingRepo {
	return &BookingRepo{Repo: resource.NewRepo[entity.Booking](db, entity.Table, timeout)}
}

func (r *BookingRepo) Create(ctx context.Context, id string, in entity.Input) (*entity.Booking, error) {
	return r.Insert(ctx,
		resource.Set("id", id),
		resource.Set("name", resource.Str(in.Name)),
		resource.Set("email", resource.Str(in.Email)),
		resource.Set("phone", resource.Str(in.Phone)),
		resource.Set("service_type", resource.Str(in.ServiceType)),
		resource.Set("preferred_date", resource.Str(in.PreferredDate)),
		resource.Set("preferred_time", resource.Str(in.PreferredTime)),
		resource.Set("message", resource.Str(in.Message)),
		resource.Set("status", resource.Str(in.Status)),
	)
}

func (r *BookingRepo) Patch(ctx context.Context, id string, in entity.Input) (*entity.Booking, error) {
	return r.Update(ctx, id,
		resource.Set("name", in.Name),
		resource.Set("email", in.Email),
		resource.Set("phone", in.Phone),
		resource.Set("service_type", in.ServiceType),
		resource.Set("preferred_date", in.PreferredDate),
		resource.Set("preferred_time", in.PreferredTime),
		resource.Set("message", in.Message),
		resource.Set("status", in.Status),
	)
}
