package resource

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
)

// Store is what the shared handlers need from an entity service.
type Store[T any] interface {
	List(ctx context.Context, f query.Filter) (*query.Page[T], error)
	Get(ctx context.Context, id string, includeInactive bool) (*T, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

// Handlers serves list / get / delete for one entity. Key is the JSON field
// holding the items ("downloads", "faqs", ...).
type Handlers[T any] struct {
	Store        Store[T]
	Logger       *zap.SugaredLogger
	Key          string
	DefaultLimit int
	// PublicScope narrows public listings (e.g. published insights only).
	PublicScope func(*query.Filter)
}

// List is the admin listing; include_inactive=true is honoured.
func (h Handlers[T]) List(w http.ResponseWriter, r *http.Request) {
	f := query.ParseFilter(r.URL.Query(), h.DefaultLimit)
	h.list(w, r, f)
}

// PublicList never includes inactive rows.
func (h Handlers[T]) PublicList(w http.ResponseWriter, r *http.Request) {
	f := query.ParseFilter(r.URL.Query(), h.DefaultLimit)
	f.IncludeInactive = false
	if h.PublicScope != nil {
		h.PublicScope(&f)
	}
	h.list(w, r, f)
}

func (h Handlers[T]) list(w http.ResponseWriter, r *http.Request, f query.Filter) {
	page, err := h.Store.List(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, ListBody(h.Key, page))
}

// Get returns one row by path id, inactive rows included.
func (h Handlers[T]) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		httpx.WriteError(w, h.Logger, r, apperr.Required("id"))
		return
	}
	item, err := h.Store.Get(r.Context(), id, true)
	if err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, item)
}

// Delete soft-deletes the row named by ?id=.
func (h Handlers[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := QueryID(r)
	if err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	if err := h.Store.SoftDelete(r.Context(), id); err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "deleted")
}

// Restore reactivates the row named by ?id=.
func (h Handlers[T]) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := QueryID(r)
	if err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	if err := h.Store.Restore(r.Context(), id); err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "restored")
}

// ListBody shapes {<key>: items, pagination: {...}}.
func ListBody[T any](key string, page *query.Page[T]) map[string]any {
	return map[string]any{key: page.Items, "pagination": page.Pagination}
}

// QueryID reads the mandatory ?id= parameter.
func QueryID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		return "", apperr.Required("id")
	}
	return id, nil
}

// BodyOrQueryID prefers the id in the body, then ?id=.
func BodyOrQueryID(r *http.Request, bodyID string) (string, error) {
	if id := strings.TrimSpace(bodyID); id != "" {
		return id, nil
	}
	return QueryID(r)
}
