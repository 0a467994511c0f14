package registry

import (
	apphttp "detailing_portal_backend/internal/http"
	"detailing_portal_backend/internal/registry/handler"
	"detailing_portal_backend/internal/registry/repository"
	"detailing_portal_backend/internal/registry/service"
	"detailing_portal_backend/platform/validator"
)

// Module wires the registry bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule builds the registry module on top of the given store.
func NewModule(store repository.Store, phoneRegion string, val *validator.Validator) *Module {
	svc := service.New(store, phoneRegion)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Service exposes the registry service for cross-module wiring (intake).
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "registry"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/registry")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
