// Package audit ships every intake domain event to the background queue
// so the worker can persist a per-session trail.
package audit

import (
	"context"
	"encoding/json"

	domevents "detailing_portal_backend/internal/events"
	"detailing_portal_backend/internal/scheduler"
	"detailing_portal_backend/platform/events"
	"detailing_portal_backend/platform/logger"
)

// Module is a bus subscriber, not an HTTP module: it exposes no routes.
type Module struct {
	enqueuer scheduler.IntakeEventEnqueuer
	log      *logger.Logger
}

func NewModule(enqueuer scheduler.IntakeEventEnqueuer, log *logger.Logger) *Module {
	return &Module{enqueuer: enqueuer, log: log}
}

// Subscribe attaches the recorder to every intake event.
func (m *Module) Subscribe(bus events.Bus) {
	names := []string{
		domevents.SessionStartedName,
		domevents.SessionExpiredName,
		domevents.SearchCompletedName,
		domevents.ClientResolvedName,
		domevents.VehicleResolvedName,
	}
	for _, name := range names {
		bus.Subscribe(name, events.HandlerFunc(m.record))
	}
}

func (m *Module) record(ctx context.Context, event events.Event) error {
	scoped, ok := event.(domevents.SessionEvent)
	if !ok {
		m.log.Debug("skipping event without session scope", "event", event.EventName())
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := m.enqueuer.EnqueueRecordIntakeEvent(ctx, scheduler.RecordIntakeEventPayload{
		SessionID:  scoped.Session().String(),
		Name:       event.EventName(),
		OccurredAt: event.OccurredAt(),
		Body:       body,
	}); err != nil {
		m.log.Error("failed to enqueue intake event", "event", event.EventName(), "error", err)
		return err
	}
	return nil
}
