// Package transport holds the wire shapes of the intake API.
package transport

import (
	"time"

	"detailing_portal_backend/internal/intake/flow"
	"detailing_portal_backend/internal/intake/session"
)

// OwnerSearchRequest drives the owner flow. Value is validated by the
// flow itself so blank input surfaces as the dedicated empty-query
// error rather than a generic binding failure.
type OwnerSearchRequest struct {
	Field string `json:"field" validate:"required,oneof=ownerName companyName taxId email phone"`
	Value string `json:"value"`
}

// VehicleSearchRequest drives the vehicle flow; the field is always the
// license plate.
type VehicleSearchRequest struct {
	Value string `json:"value"`
}

type SelectClientRequest struct {
	ClientID string `json:"clientId" validate:"required,uuid"`
}

type SelectVehicleRequest struct {
	VehicleID string `json:"vehicleId" validate:"required,uuid"`
}

// SessionResponse is the full picture of one intake session: both flow
// snapshots plus metadata.
type SessionResponse struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Owner     flow.Snapshot `json:"owner"`
	Vehicle   flow.Snapshot `json:"vehicle"`
}

// FlowResponse carries the snapshot of the one flow an operation acted on.
type FlowResponse struct {
	SessionID string        `json:"sessionId"`
	Flow      flow.Snapshot `json:"flow"`
}

func FromSession(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID.String(),
		CreatedAt: s.CreatedAt,
		Owner:     s.Owner.Snapshot(),
		Vehicle:   s.Vehicle.Snapshot(),
	}
}

func FlowSnapshot(s *session.Session, snap flow.Snapshot) FlowResponse {
	return FlowResponse{SessionID: s.ID.String(), Flow: snap}
}
