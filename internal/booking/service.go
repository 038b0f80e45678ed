// Package booking manages consultation requests.
package booking

import (
	"context"
	"time"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/booking/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/notify"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

type Repository interface {
	resource.Store[entity.Booking]
	Create(ctx context.Context, id string, in entity.Input) (*entity.Booking, error)
	Patch(ctx context.Context, id string, in entity.Input) (*entity.Booking, error)
}

type Service struct {
	repo   Repository
	notify *notify.Dispatcher
	newID  func() string
	now    func() time.Time
}

func NewService(repo Repository, n *notify.Dispatcher) *Service {
	return &Service{repo: repo, notify: n, newID: utilities.NewSnowflakeID, now: time.Now}
}

func (s *Service) Store() resource.Store[entity.Booking] { return s.repo }

// Request records a public booking as pending. The preferred date may not
// lie in the past.
func (s *Service) Request(ctx context.Context, in entity.Input) (*entity.Booking, error) {
	status := entity.StatusPending
	in.Status = &status
	if err := resource.NeedText("preferred_date", in.PreferredDate); err != nil {
		return nil, err
	}
	day, err := parseDate(*resource.Trim(in.PreferredDate))
	if err != nil {
		return nil, err
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		return nil, apperr.Invalid("preferred_date", "must not be in the past")
	}
	b, err := s.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.notify.Send(notify.Message{
		Subject:  "New booking request from " + b.Name,
		Template: "booking_requested",
		Data: map[string]any{
			"id": b.ID, "name": b.Name, "email": b.Email, "service_type": b.ServiceType,
			"preferred_date": resource.Str(in.PreferredDate), "preferred_time": b.PreferredTime,
		},
	})
	return b, nil
}

func (s *Service) Create(ctx context.Context, in entity.Input) (*entity.Booking, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NeedText("name", in.Name),
		resource.NeedText("email", in.Email),
		resource.NeedText("service_type", in.ServiceType),
		resource.NeedText("preferred_date", in.PreferredDate),
		validate(in),
	); err != nil {
		return nil, err
	}
	if in.Status == nil {
		status := entity.StatusPending
		in.Status = &status
	}
	return s.repo.Create(ctx, s.newID(), in)
}

func (s *Service) Update(ctx context.Context, id string, in entity.Input) (*entity.Booking, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NotBlank("name", in.Name),
		resource.NotBlank("email", in.Email),
		resource.NotBlank("service_type", in.ServiceType),
		resource.NotBlank("preferred_date", in.PreferredDate),
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
	resource.Trim(in.ServiceType)
	resource.Trim(in.PreferredDate)
	resource.Trim(in.PreferredTime)
	resource.Trim(in.Message)
	resource.Lower(in.Status)
}

func validate(in entity.Input) error {
	if in.PreferredDate != nil && *in.PreferredDate != "" {
		if _, err := parseDate(*in.PreferredDate); err != nil {
			return err
		}
	}
	return resource.FirstError(
		resource.Email("email", in.Email),
		resource.MaxLen("message", in.Message, 5000),
		resource.OneOf("status", in.Status, entity.Statuses...),
	)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Invalid("preferred_date", "must be YYYY-MM-DD")
	}
	return t, nil
}
