// Package download manages the downloadable resource library.
package download

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/download/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/storage"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

type Repository interface {
	resource.Store[entity.Download]
	Create(ctx context.Context, id string, in entity.Input) (*entity.Download, error)
	Patch(ctx context.Context, id string, in entity.Input) (*entity.Download, error)
	CountDownload(ctx context.Context, id string) (int64, error)
}

type Service struct {
	repo  Repository
	files storage.Storage
	newID func() string
}

func NewService(repo Repository, files storage.Storage) *Service {
	return &Service{repo: repo, files: files, newID: utilities.NewSnowflakeID}
}

func (s *Service) Store() resource.Store[entity.Download] { return s.repo }

func (s *Service) Create(ctx context.Context, in entity.Input) (*entity.Download, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NeedText("title", in.Title),
		resource.NeedText("category", in.Category),
		resource.NeedText("file_url", in.FileURL),
		validate(in),
	); err != nil {
		return nil, err
	}
	if in.FileType == nil || *in.FileType == "" {
		ft := typeFromURL(*in.FileURL)
		in.FileType = &ft
	}
	return s.repo.Create(ctx, s.newID(), in)
}

// Upload stores the file first, then creates the row pointing at it.
func (s *Service) Upload(ctx context.Context, in entity.Input, filename, mime string, r io.Reader) (*entity.Download, error) {
	if s.files == nil {
		return nil, errors.New("upload storage is not configured")
	}
	normalize(&in)
	if err := resource.FirstError(
		resource.NeedText("title", in.Title),
		resource.NeedText("category", in.Category),
		validate(in),
	); err != nil {
		return nil, err
	}
	obj, err := s.files.Save(ctx, filename, mime, r)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTypeForbidden):
			return nil, apperr.Invalid("file", "file type is not allowed")
		case errors.Is(err, storage.ErrTooLarge):
			return nil, apperr.Invalid("file", "file is too large")
		}
		return nil, err
	}
	ft := typeFromURL(obj.Path)
	in.FileURL = &obj.Path
	in.FileType = &ft
	in.FileSize = &obj.Size
	return s.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in entity.Input) (*entity.Download, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NotBlank("title", in.Title),
		resource.NotBlank("category", in.Category),
		resource.NotBlank("file_url", in.FileURL),
		validate(in),
	); err != nil {
		return nil, err
	}
	return s.repo.Patch(ctx, id, in)
}

// Apply resolves a public action.
func (s *Service) Apply(ctx context.Context, id string, a resource.Action) (int64, error) {
	switch a {
	case resource.ActionDownload:
		return s.repo.CountDownload(ctx, id)
	default:
		return 0, apperr.Invalid("action", "unsupported action "+string(a))
	}
}

func normalize(in *entity.Input) {
	resource.Trim(in.Title)
	resource.Trim(in.Description)
	resource.Lower(in.Category)
	resource.Trim(in.FileURL)
	resource.Lower(in.FileType)
}

func validate(in entity.Input) error {
	if in.FileSize != nil && *in.FileSize < 0 {
		return apperr.Invalid("file_size", "must not be negative")
	}
	return resource.MaxLen("title", in.Title, 300)
}

func typeFromURL(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimPrefix(strings.ToLower(path.Ext(u)), ".")
}
