// Package events defines the domain events the intake engine publishes
// on the in-process bus. The audit module subscribes to all of them.
package events

import (
	"github.com/google/uuid"

	"detailing_portal_backend/platform/events"
)

// SessionEvent is implemented by every intake event; the audit trail
// groups records by session.
type SessionEvent interface {
	events.Event
	Session() uuid.UUID
}

const (
	SessionStartedName  = "intake.session.started"
	SessionExpiredName  = "intake.session.expired"
	SearchCompletedName = "intake.search.completed"
	ClientResolvedName  = "intake.client.resolved"
	VehicleResolvedName = "intake.vehicle.resolved"
)

// SessionStarted fires when an intake session is opened.
type SessionStarted struct {
	events.BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
}

func NewSessionStarted(sessionID uuid.UUID) *SessionStarted {
	return &SessionStarted{BaseEvent: events.NewBaseEvent(), SessionID: sessionID}
}

func (e *SessionStarted) Session() uuid.UUID { return e.SessionID }

func (e *SessionStarted) EventName() string { return SessionStartedName }

// SessionExpired fires when the janitor drops an idle session.
type SessionExpired struct {
	events.BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
}

func NewSessionExpired(sessionID uuid.UUID) *SessionExpired {
	return &SessionExpired{BaseEvent: events.NewBaseEvent(), SessionID: sessionID}
}

func (e *SessionExpired) Session() uuid.UUID { return e.SessionID }

func (e *SessionExpired) EventName() string { return SessionExpiredName }

// SearchCompleted fires after every dispatched search, whatever the
// outcome. Only cardinalities are recorded, never the query value.
type SearchCompleted struct {
	events.BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Flow      string    `json:"flow"`
	Field     string    `json:"field"`
	Outcome   string    `json:"outcome"`
	Vehicles  int       `json:"vehicles"`
	Clients   int       `json:"clients"`
}

func NewSearchCompleted(sessionID uuid.UUID, flowName, field, outcome string, vehicles, clients int) *SearchCompleted {
	return &SearchCompleted{
		BaseEvent: events.NewBaseEvent(),
		SessionID: sessionID,
		Flow:      flowName,
		Field:     field,
		Outcome:   outcome,
		Vehicles:  vehicles,
		Clients:   clients,
	}
}

func (e *SearchCompleted) Session() uuid.UUID { return e.SessionID }

func (e *SearchCompleted) EventName() string { return SearchCompletedName }

// ClientResolved fires when a client's data lands on the form, whether
// automatically or through the picker.
type ClientResolved struct {
	events.BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Flow      string    `json:"flow"`
	ClientID  uuid.UUID `json:"clientId"`
}

func NewClientResolved(sessionID uuid.UUID, flowName string, clientID uuid.UUID) *ClientResolved {
	return &ClientResolved{BaseEvent: events.NewBaseEvent(), SessionID: sessionID, Flow: flowName, ClientID: clientID}
}

func (e *ClientResolved) Session() uuid.UUID { return e.SessionID }

func (e *ClientResolved) EventName() string { return ClientResolvedName }

// VehicleResolved fires when a vehicle's data lands on the form.
type VehicleResolved struct {
	events.BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Flow      string    `json:"flow"`
	VehicleID uuid.UUID `json:"vehicleId"`
}

func NewVehicleResolved(sessionID uuid.UUID, flowName string, vehicleID uuid.UUID) *VehicleResolved {
	return &VehicleResolved{BaseEvent: events.NewBaseEvent(), SessionID: sessionID, Flow: flowName, VehicleID: vehicleID}
}

func (e *VehicleResolved) Session() uuid.UUID { return e.SessionID }

func (e *VehicleResolved) EventName() string { return VehicleResolvedName }
