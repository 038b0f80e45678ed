package subscriber

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/subscriber/entity"
)

type Handler struct {
	resource.Handlers[entity.Subscriber]
	Write  resource.WriteHandlers[entity.Input, entity.Subscriber]
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Handlers: resource.Handlers[entity.Subscriber]{
			Store:        svc.Store(),
			Logger:       logger,
			Key:          "subscribers",
			DefaultLimit: entity.Table.DefaultLimit,
		},
		Write:  resource.WriteHandlers[entity.Input, entity.Subscriber]{Writer: svc, Logger: logger, Key: "subscriber"},
		svc:    svc,
		logger: logger,
	}
}

// Subscribe handles POST /api/newsletter. New and existing addresses get
// the same answer.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in entity.Input
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	sub, created, err := h.svc.Subscribe(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	h.logger.Infow("newsletter subscribe", "subscriber", sub.ID, "new", created)
	httpx.Message(w, http.StatusOK, "subscribed")
}
