// Package insight manages articles: drafting, publishing and public reads.
package insight

import (
	"context"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/insight/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

// ExcerptLength bounds a derived excerpt, in runes.
const ExcerptLength = 200

var plainText = bluemonday.StrictPolicy()

type Repository interface {
	resource.Store[entity.Insight]
	Create(ctx context.Context, id string, in entity.Input, publishedAt *time.Time) (*entity.Insight, error)
	Patch(ctx context.Context, id string, in entity.Input) (*entity.Insight, error)
	GetPublished(ctx context.Context, slug string) (*entity.Insight, error)
	CountView(ctx context.Context, id string) (int64, error)
}

type Service struct {
	repo  Repository
	newID func() string
	now   func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: utilities.NewSnowflakeID, now: time.Now}
}

func (s *Service) Store() resource.Store[entity.Insight] { return s.repo }

// PublicScope restricts public listings to published articles.
func PublicScope(f *query.Filter) {
	f.Set(query.FieldStatus, entity.StatusPublished)
}

func (s *Service) Create(ctx context.Context, in entity.Input) (*entity.Insight, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NeedText("title", in.Title),
		resource.NeedText("category", in.Category),
	); err != nil {
		return nil, err
	}
	if err := resource.Slug(&in.Slug, in.Title); err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.Status == nil {
		st := entity.StatusDraft
		in.Status = &st
	}
	if in.Excerpt == nil || *in.Excerpt == "" {
		ex := excerpt(resource.Str(in.Content))
		in.Excerpt = &ex
	}
	var publishedAt *time.Time
	if *in.Status == entity.StatusPublished {
		t := s.now().UTC()
		publishedAt = &t
	}
	return s.repo.Create(ctx, s.newID(), in, publishedAt)
}

func (s *Service) Update(ctx context.Context, id string, in entity.Input) (*entity.Insight, error) {
	normalize(&in)
	if err := resource.FirstError(
		resource.NotBlank("title", in.Title),
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

// BySlug returns a published article.
func (s *Service) BySlug(ctx context.Context, slug string) (*entity.Insight, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, apperr.Required("slug")
	}
	return s.repo.GetPublished(ctx, slug)
}

// Apply resolves a public counter action.
func (s *Service) Apply(ctx context.Context, id string, a resource.Action) (int64, error) {
	switch a {
	case resource.ActionView:
		return s.repo.CountView(ctx, id)
	default:
		return 0, apperr.Invalid("action", "unsupported action "+string(a))
	}
}

func normalize(in *entity.Input) {
	resource.Trim(in.Title)
	resource.Trim(in.Excerpt)
	resource.HTML(in.Content)
	resource.Lower(in.Category)
	resource.Trim(in.Author)
	resource.Trim(in.CoverImage)
	resource.Lower(in.Status)
	if in.Excerpt != nil {
		*in.Excerpt = html.UnescapeString(plainText.Sanitize(*in.Excerpt))
	}
}

func validate(in entity.Input) error {
	return resource.FirstError(
		resource.MaxLen("title", in.Title, 300),
		resource.MaxLen("excerpt", in.Excerpt, 1000),
		resource.OneOf("status", in.Status, entity.Statuses...),
	)
}

// excerpt strips markup from content and cuts it at a word boundary.
func excerpt(content string) string {
	text := strings.Join(strings.Fields(html.UnescapeString(plainText.Sanitize(content))), " ")
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}
	r := []rune(text)[:ExcerptLength]
	cut := string(r)
	if i := strings.LastIndexByte(cut, ' '); i > ExcerptLength/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
