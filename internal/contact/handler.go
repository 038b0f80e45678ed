package contact

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/contact/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// Handler exposes the public form endpoint and the admin CRUD.
type Handler struct {
	resource.Handlers[entity.Contact]
	Write  resource.WriteHandlers[entity.Input, entity.Contact]
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Handlers: resource.Handlers[entity.Contact]{
			Store:        svc.Store(),
			Logger:       logger,
			Key:          "contacts",
			DefaultLimit: entity.Table.DefaultLimit,
		},
		Write:  resource.WriteHandlers[entity.Input, entity.Contact]{Writer: svc, Logger: logger, Key: "contact"},
		svc:    svc,
		logger: logger,
	}
}

// Submit handles POST /api/contacts.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in entity.Input
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	c, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	h.logger.Infow("contact submitted", "contact", c.ID)
	httpx.OK(w, http.StatusCreated, map[string]any{"id": c.ID})
}
