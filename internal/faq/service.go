// Package faq manages frequently asked questions and their public counters.
package faq

import (
	"context"
	"fmt"
	"strings"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/faq/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

// MaxImport caps the items of one import request.
const MaxImport = 500

type Repository interface {
	resource.Store[entity.FAQ]
	Create(ctx context.Context, id string, in entity.Input) (*entity.FAQ, error)
	Patch(ctx context.Context, id string, in entity.Input) (*entity.FAQ, error)
	Upsert(ctx context.Context, id string, in entity.Input) (bool, error)
	CountView(ctx context.Context, id string) (int64, error)
	CountHelpful(ctx context.Context, id string) (int64, error)
}

type Service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: utilities.NewSnowflakeID}
}

func (s *Service) Store() resource.Store[entity.FAQ] { return s.repo }

func (s *Service) Create(ctx context.Context, in entity.Input) (*entity.FAQ, error) {
	normalize(&in)
	if err := required(in, ""); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, s.newID(), in)
}

func (s *Service) Update(ctx context.Context, id string, in entity.Input) (*entity.FAQ, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NotBlank("question", in.Question),
		resource.NotBlank("answer", in.Answer),
		resource.NotBlank("category", in.Category),
		resource.MaxLen("question", in.Question, 500),
	); err != nil {
		return nil, err
	}
	return s.repo.Patch(ctx, id, in)
}

// Import upserts every item keyed on its case-insensitive question. All
// items are validated before the first write.
func (s *Service) Import(ctx context.Context, items []entity.Input) (entity.ImportResult, error) {
	var res entity.ImportResult
	if len(items) == 0 {
		return res, apperr.Required("items")
	}
	if len(items) > MaxImport {
		return res, apperr.Invalid("items", fmt.Sprintf("at most %d items per import", MaxImport))
	}
	for i := range items {
		normalize(&items[i])
		if err := required(items[i], fmt.Sprintf("items[%d].", i)); err != nil {
			return res, err
		}
	}
	for _, in := range items {
		inserted, err := s.repo.Upsert(ctx, s.newID(), in)
		if err != nil {
			return res, err
		}
		if inserted {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

// Apply resolves a public counter action.
func (s *Service) Apply(ctx context.Context, id string, a resource.Action) (int64, error) {
	switch a {
	case resource.ActionView:
		return s.repo.CountView(ctx, id)
	case resource.ActionHelpful:
		return s.repo.CountHelpful(ctx, id)
	default:
		return 0, apperr.Invalid("action", "unsupported action "+string(a))
	}
}

func normalize(in *entity.Input) {
	resource.Trim(in.Question)
	resource.HTML(in.Answer)
	resource.Lower(in.Category)
}

func required(in entity.Input, prefix string) error {
	for _, f := range []struct {
		name string
		v    *string
	}{{"question", in.Question}, {"answer", in.Answer}, {"category", in.Category}} {
		if err := resource.NeedText(prefix+f.name, f.v); err != nil {
			return err
		}
	}
	if in.Question != nil && len([]rune(*in.Question)) > 500 {
		return apperr.Invalid(prefix+"question", "is too long")
	}
	if in.Question != nil && strings.ContainsAny(*in.Question, "\r\n") {
		return apperr.Invalid(prefix+"question", "must be a single line")
	}
	return nil
}
