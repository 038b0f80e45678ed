// Package subscriber manages the newsletter list.
package subscriber

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/subscriber/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

type Repository interface {
	resource.Store[entity.Subscriber]
	Create(ctx context.Context, id string, in entity.Input) (*entity.Subscriber, error)
	Patch(ctx context.Context, id string, in entity.Input) (*entity.Subscriber, error)
	Subscribe(ctx context.Context, id string, in entity.Input) (*entity.Subscriber, bool, error)
}

type Service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: utilities.NewSnowflakeID}
}

func (s *Service) Store() resource.Store[entity.Subscriber] { return s.repo }

// Subscribe adds or reactivates an address.
func (s *Service) Subscribe(ctx context.Context, in entity.Input) (*entity.Subscriber, bool, error) {
	normalize(&in)
	if err := resource.FirstError(resource.NeedText("email", in.Email), validate(in)); err != nil {
		return nil, false, err
	}
	return s.repo.Subscribe(ctx, s.newID(), in)
}

func (s *Service) Create(ctx context.Context, in entity.Input) (*entity.Subscriber, error) {
	normalize(&in)
	if err := resource.FirstError(resource.NeedText("email", in.Email), validate(in)); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, s.newID(), in)
}

func (s *Service) Update(ctx context.Context, id string, in entity.Input) (*entity.Subscriber, error) {
	normalize(&in)
	if err := resource.FirstError(resource.NotBlank("email", in.Email), validate(in)); err != nil {
		return nil, err
	}
	return s.repo.Patch(ctx, id, in)
}

func normalize(in *entity.Input) {
	resource.Lower(in.Email)
	resource.Trim(in.Name)
	resource.Lower(in.Source)
}

func validate(in entity.Input) error {
	return resource.FirstError(
		resource.Email("email", in.Email),
		resource.MaxLen("name", in.Name, 200),
		resource.MaxLen("source", in.Source, 64),
	)
}
