package resource

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
)

// Writer creates and partially updates one entity from input I.
type Writer[I, T any] interface {
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id string, in I) (*T, error)
}

// WriteHandlers serves POST and PUT for one entity. Key names the single
// item in the response ("download", "faq", ...).
type WriteHandlers[I, T any] struct {
	Writer Writer[I, T]
	Logger *zap.SugaredLogger
	Key    string
}

func (h WriteHandlers[I, T]) Create(w http.ResponseWriter, r *http.Request) {
	var in I
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	item, err := h.Writer.Create(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	httpx.OK(w, http.StatusCreated, map[string]any{h.Key: item})
}

// Update reads the target id from the body's "id" or from ?id=.
func (h WriteHandlers[I, T]) Update(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := httpx.DecodeJSON(w, r, &raw); err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	var target struct {
		ID string `json:"id"`
	}
	var in I
	if json.Unmarshal(raw, &target) != nil || json.Unmarshal(raw, &in) != nil {
		httpx.WriteError(w, h.Logger, r, apperr.Invalid("body", "invalid payload"))
		return
	}
	id, err := BodyOrQueryID(r, target.ID)
	if err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	item, err := h.Writer.Update(r.Context(), id, in)
	if err != nil {
		httpx.WriteError(w, h.Logger, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{h.Key: item})
}

// ActionRequest is the body of a public PATCH.
type ActionRequest struct {
	Action string `json:"action"`
}

// Counter applies one parsed action to a row and returns the new count.
type Counter func(ctx context.Context, id string, a Action) (int64, error)

// ActionHandler serves PATCH /{id} with {"action": ...}; allowed closes the
// set of accepted actions.
func ActionHandler(logger *zap.SugaredLogger, apply Counter, allowed ...Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			httpx.WriteError(w, logger, r, apperr.Required("id"))
			return
		}
		var req ActionRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, logger, r, err)
			return
		}
		a, err := ParseAction(req.Action, allowed...)
		if err != nil {
			httpx.WriteError(w, logger, r, err)
			return
		}
		n, err := apply(r.Context(), id, a)
		if err != nil {
			httpx.WriteError(w, logger, r, err)
			return
		}
		httpx.OK(w, http.StatusOK, map[string]any{"id": id, "action": a, "count": n})
	}
}
