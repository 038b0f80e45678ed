// Package contact manages enquiries submitted through the public contact form.
package contact

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/contact/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/notify"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

type Repository interface {
	resource.Store[entity.Contact]
	Create(ctx context.Context, id string, in entity.Input) (*entity.Contact, error)
	Patch(ctx context.Context, id string, in entity.Input) (*entity.Contact, error)
}

type Service struct {
	repo   Repository
	notify *notify.Dispatcher
	newID  func() string
}

func NewService(repo Repository, n *notify.Dispatcher) *Service {
	return &Service{repo: repo, notify: n, newID: utilities.NewSnowflakeID}
}

func (s *Service) Store() resource.Store[entity.Contact] { return s.repo }

// Submit records a public enquiry. Status and notes are staff-only and
// ignored here.
func (s *Service) Submit(ctx context.Context, in entity.Input) (*entity.Contact, error) {
	status := entity.StatusNew
	in.Status = &status
	in.Notes = nil
	c, err := s.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.notify.Send(notify.Message{
		Subject:  "New enquiry from " + c.Name,
		Template: "contact_received",
		Data: map[string]any{
			"id": c.ID, "name": c.Name, "email": c.Email, "company": c.Company,
			"service": c.Service, "message": c.Message,
		},
	})
	return c, nil
}

func (s *Service) Create(ctx context.Context, in entity.Input) (*entity.Contact, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NeedText("name", in.Name),
		resource.NeedText("email", in.Email),
		resource.NeedText("message", in.Message),
		validate(in),
	); err != nil {
		return nil, err
	}
	if in.Status == nil {
		status := entity.StatusNew
		in.Status = &status
	}
	return s.repo.Create(ctx, s.newID(), in)
}

func (s *Service) Update(ctx context.Context, id string, in entity.Input) (*entity.Contact, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NotBlank("name", in.Name),
		resource.NotBlank("email", in.Email),
		resource.NotBlank("message", in.Message),
		validate(in),
	); err != nil {
		return nil, err
	}
	return s.repo.Patch(ctx, id, in)
}

func normalize(in *entity.Input) {
	resource.Trim(in.Name)
	resource.Lower(in.Email)
	resource.Trim(in.Phone)
	resource.Trim(in.Company)
	resource.Trim(in.Service)
	resource.Trim(in.Message)
	resource.Lower(in.Status)
	resource.Trim(in.Notes)
}

func validate(in entity.Input) error {
	return resource.FirstError(
		resource.Email("email", in.Email),
		resource.MaxLen("name", in.Name, 200),
		resource.MaxLen("message", in.Message, 5000),
		resource.OneOf("status", in.Status, entity.Statuses...),
	)
}
