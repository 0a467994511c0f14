// Package ports defines the interfaces the intake engine consumes from
// other bounded contexts.
package ports

import (
	"context"

	"github.com/google/uuid"

	registryrepo "detailing_portal_backend/internal/registry/repository"
)

// Client and Vehicle are the registry's entity shapes. Aliased so that the
// intake packages never import the registry repository directly.
type (
	Client  = registryrepo.Client
	Vehicle = registryrepo.Vehicle
)

// EntityStore is the read-only slice of the registry the intake engine needs.
// Every call is synchronous; a failed call means the store was unreachable.
// The registry repository satisfies this interface as-is.
type EntityStore interface {
	ListClients(ctx context.Context) ([]Client, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	GetClientByID(ctx context.Context, id uuid.UUID) (Client, error)
	GetVehiclesByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error)
}
