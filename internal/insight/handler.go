package insight

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/insight/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

type Handler struct {
	resource.Handlers[entity.Insight]
	Write  resource.WriteHandlers[entity.Input, entity.Insight]
	Action http.HandlerFunc
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Handlers: resource.Handlers[entity.Insight]{
			Store:        svc.Store(),
			Logger:       logger,
			Key:          "insights",
			DefaultLimit: entity.Table.DefaultLimit,
			PublicScope:  PublicScope,
		},
		Write:  resource.WriteHandlers[entity.Input, entity.Insight]{Writer: svc, Logger: logger, Key: "insight"},
		Action: resource.ActionHandler(logger, svc.Apply, resource.ActionView),
		svc:    svc,
		logger: logger,
	}
}

// BySlug handles GET /api/insights/{slug}.
func (h *Handler) BySlug(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.BySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"insight": item})
}
