package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/subscriber/entity"
)

type SubscriberRepo struct {
	*resource.Repo[entity.Subscriber]
}

func NewSubscriberRepo(db *sqlx.DB, timeout time.Duration) *SubscriberRepo {
	return &SubscriberRepo{Repo: resource.NewRepo[entity.Subscriber](db, entity.Table, timeout)}
}

func (r *SubscriberRepo) Create(ctx context.Context, id string, in entity.Input) (*entity.Subscriber, error) {
	return r.Insert(ctx,
		resource.Set("id", id),
		resource.Set("email", resource.Str(in.Email)),
		resource.Set("name", resource.Str(in.Name)),
		resource.Set("source", resource.Str(in.Source)),
	)
}

func (r *SubscriberRepo) Patch(ctx context.Context, id string, in entity.Input) (*entity.Subscriber, error) {
	return r.Update(ctx, id,
		resource.Set("email", in.Email),
		resource.Set("name", in.Name),
		resource.Set("source", in.Source),
	)
}

const upsertSQL = `INSERT INTO subscribers (id, email, name, source)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET
  name = COALESCE(NULLIF(EXCLUDED.name, ''), subscribers.name),
  is_active = true,
  updated_at = CASE WHEN subscribers.is_active THEN subscribers.updated_at
    ELSE GREATEST(NOW(), subscribers.updated_at + INTERVAL '1 microsecond') END
RETURNING id, email, name, source, is_active, created_at, updated_at, (xmax = 0) AS inserted`

type upserted struct {
	entity.Subscriber
	Inserted bool `db:"inserted"`
}

// Subscribe inserts the address or reactivates the existing row, in one
// statement. It reports whether the row is new.
func (r *SubscriberRepo) Subscribe(ctx context.Context, id string, in entity.Input) (*entity.Subscriber, bool, error) {
	ctx, cancel := r.Bounded(ctx)
	defer cancel()
	var row upserted
	err := r.DB().GetContext(ctx, &row, upsertSQL,
		id, resource.Str(in.Email), resource.Str(in.Name), resource.Str(in.Source))
	if err != nil {
		return nil, false, fmt.Errorf("subscribe: %w", err)
	}
	return &row.Subscriber, row.Inserted, nil
}
