// Package intake wires the search dispatcher, the resolution flows and
// the session store into one HTTP module.
package intake

import (
	"context"
	"time"

	apphttp "detailing_portal_backend/internal/http"
	"detailing_portal_backend/internal/intake/handler"
	"detailing_portal_backend/internal/intake/ports"
	"detailing_portal_backend/internal/intake/search"
	"detailing_portal_backend/internal/intake/session"
	"detailing_portal_backend/platform/events"
	"detailing_portal_backend/platform/logger"
	"detailing_portal_backend/platform/validator"
)

// Module is the intake bounded context.
type Module struct {
	handler  *handler.Handler
	sessions *session.Store
}

// NewModule builds the intake module on top of the registry's entity
// store.
func NewModule(store ports.EntityStore, sessionTTL time.Duration, phoneRegion string, log *logger.Logger, bus events.Bus, val *validator.Validator) *Module {
	searcher := search.NewService(store, log, phoneRegion)
	sessions := session.NewStore(searcher, sessionTTL, log, bus)
	h := handler.New(sessions, val, bus)

	return &Module{handler: h, sessions: sessions}
}

// StartJanitor launches the session sweeper; it stops when ctx does.
func (m *Module) StartJanitor(ctx context.Context) {
	go m.sessions.Run(ctx)
}

// Sessions exposes the session store for tests and cross-module wiring.
func (m *Module) Sessions() *session.Store {
	return m.sessions
}

func (m *Module) Name() string {
	return "intake"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/intake")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
