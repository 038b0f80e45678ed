package resource

import (
	"net/mail"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
)

// htmlSanitizer keeps the tags of user-generated rich text and drops
// scripts, event handlers and unsafe URLs.
var htmlSanitizer = bluemonday.UGCPolicy()

// Trim trims *p in place and returns p.
func Trim(p *string) *string {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
	return p
}

// Lower trims and lower-cases *p in place.
func Lower(p *string) *string {
	if p != nil {
		*p = strings.ToLower(strings.TrimSpace(*p))
	}
	return p
}

// HTML sanitizes and trims *p in place.
func HTML(p *string) *string {
	if p != nil {
		*p = strings.TrimSpace(htmlSanitizer.Sanitize(*p))
	}
	return p
}

// Str returns *p, or "" for nil.
func Str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// NeedText fails when a create is missing field or it is blank.
func NeedText(field string, p *string) error {
	if p == nil || strings.TrimSpace(*p) == "" {
		return apperr.Required(field)
	}
	return nil
}

// NotBlank fails when an update explicitly blanks a required field.
func NotBlank(field string, p *string) error {
	if p != nil && strings.TrimSpace(*p) == "" {
		return apperr.Required(field)
	}
	return nil
}

// OneOf validates an optional enumerated field.
func OneOf(field string, p *string, allowed ...string) error {
	if p == nil {
		return nil
	}
	for _, a := range allowed {
		if *p == a {
			return nil
		}
	}
	return apperr.Invalid(field, "must be one of "+strings.Join(allowed, ", "))
}

// Email validates an optional address.
func Email(field string, p *string) error {
	if p == nil {
		return nil
	}
	a, err := mail.ParseAddress(*p)
	if err != nil || a.Address != *p {
		return apperr.Invalid(field, "invalid email address")
	}
	return nil
}

// MaxLen bounds an optional text field in runes.
func MaxLen(field string, p *string, n int) error {
	if p != nil && len([]rune(*p)) > n {
		return apperr.Invalid(field, "is too long")
	}
	return nil
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Slugify lower-cases s and joins its ASCII letters and digits with single
// hyphens.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	out := b.String()
	if len(out) > 120 {
		out = strings.TrimRight(out[:120], "-")
	}
	return out
}

// Slug fills *slug from source when it is missing or blank, and normalizes
// it otherwise. A slug that normalizes to nothing is invalid.
func Slug(slug **string, source *string) error {
	switch {
	case *slug != nil && strings.TrimSpace(**slug) != "":
		v := Slugify(**slug)
		*slug = &v
	case source != nil:
		v := Slugify(*source)
		*slug = &v
	default:
		return nil
	}
	if **slug == "" {
		return apperr.Invalid("slug", "must contain letters or digits")
	}
	return nil
}
