package faq

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/faq/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

type Handler struct {
	resource.Handlers[entity.FAQ]
	Write  resource.WriteHandlers[entity.Input, entity.FAQ]
	Action http.HandlerFunc
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Handlers: resource.Handlers[entity.FAQ]{
			Store:        svc.Store(),
			Logger:       logger,
			Key:          "faqs",
			DefaultLimit: entity.Table.DefaultLimit,
		},
		Write:  resource.WriteHandlers[entity.Input, entity.FAQ]{Writer: svc, Logger: logger, Key: "faq"},
		Action: resource.ActionHandler(logger, svc.Apply, resource.ActionView, resource.ActionHelpful),
		svc:    svc,
		logger: logger,
	}
}

// ImportRequest is the body of POST /admin/api/faqs/import.
type ImportRequest struct {
	Items []entity.Input `json:"items"`
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	res, err := h.svc.Import(r.Context(), req.Items)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	h.logger.Infow("faqs imported", "created", res.Created, "updated", res.Updated)
	httpx.OK(w, http.StatusOK, res)
}
