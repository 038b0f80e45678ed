// Package tool manages the public catalogue of calculators and tools.
package tool

import (
	"context"
	"net/url"
	"strings"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/tool/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

type Repository interface {
	resource.Store[entity.Tool]
	Create(ctx context.Context, id string, in entity.Input) (*entity.Tool, error)
	Patch(ctx context.Context, id string, in entity.Input) (*entity.Tool, error)
}

type Service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: utilities.NewSnowflakeID}
}

func (s *Service) Store() resource.Store[entity.Tool] { return s.repo }

func (s *Service) Create(ctx context.Context, in entity.Input) (*entity.Tool, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NeedText("name", in.Name),
		resource.NeedText("category", in.Category),
	); err != nil {
		return nil, err
	}
	if err := resource.Slug(&in.Slug, in.Name); err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, s.newID(), in)
}

// Update keeps the stored slug unless one is given explicitly.
func (s *Service) Update(ctx context.Context, id string, in entity.Input) (*entity.Tool, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NotBlank("name", in.Name),
		resource.NotBlank("category", in.Category),
		resource.NotBlank("slug", in.Slug),
	); err != nil {
		return nil, err
	}
	if err := resource.Slug(&in.Slug, nil); err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	return s.repo.Patch(ctx, id, in)
}

func normalize(in *entity.Input) {
	resource.Trim(in.Name)
	resource.Trim(in.Description)
	resource.Lower(in.Category)
	resource.Trim(in.URL)
	resource.Trim(in.Icon)
}

func validate(in entity.Input) error {
	if in.URL != nil && *in.URL != "" {
		u, err := url.Parse(*in.URL)
		if err != nil || !(isLocalPath(*in.URL) || u.Scheme == "https" || u.Scheme == "http") {
			return apperr.Invalid("url", "must be a relative path or an http(s) URL")
		}
	}
	return resource.MaxLen("name", in.Name, 200)
}

func isLocalPath(s string) bool {
	return strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//")
}
