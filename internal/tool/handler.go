package tool

import (
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/tool/entity"
)

type Handler struct {
	resource.Handlers[entity.Tool]
	Write resource.WriteHandlers[entity.Input, entity.Tool]
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Handlers: resource.Handlers[entity.Tool]{
			Store:        svc.Store(),
			Logger:       logger,
			Key:          "tools",
			DefaultLimit: entity.Table.DefaultLimit,
		},
		Write: resource.WriteHandlers[entity.Input, entity.Tool]{Writer: svc, Logger: logger, Key: "tool"},
	}
}
