package booking

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/booking/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

type Handler struct {
	resource.Handlers[entity.Booking]
	Write  resource.WriteHandlers[entity.Input, entity.Booking]
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Handlers: resource.Handlers[entity.Booking]{
			Store:        svc.Store(),
			Logger:       logger,
			Key:          "bookings",
			DefaultLimit: entity.Table.DefaultLimit,
		},
		Write:  resource.WriteHandlers[entity.Input, entity.Booking]{Writer: svc, Logger: logger, Key: "booking"},
		svc:    svc,
		logger: logger,
	}
}

// Request handles POST /api/bookings.
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	var in entity.Input
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	b, err := h.svc.Request(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	h.logger.Infow("booking requested", "booking", b.ID)
	httpx.OK(w, http.StatusCreated, map[string]any{"id": b.ID, "status": b.Status})
}
