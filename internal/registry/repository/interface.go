package repository

import (
	"context"

	"github.com/google/uuid"
)

// Client is a customer of the detailing studio. Optional attributes are
// pointers at the store boundary; absent values map to empty strings only
// once projected into form data.
type Client struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    *string
	Company    *string
	TaxID      *string
	Notes      *string
	VehicleIDs []uuid.UUID
	CreatedAt  string
	UpdatedAt  string
}

// Vehicle is a car serviced by the studio. Ownership is many-to-many:
// OwnerIDs lists owning clients, and the matching client carries this
// vehicle's id in VehicleIDs. The engine tolerates dangling ids on either
// side.
type Vehicle struct {
	ID           uuid.UUID
	Make         string
	Model        string
	Year         int
	LicensePlate string
	VIN          *string
	Color        *string
	OwnerIDs     []uuid.UUID
	CreatedAt    string
	UpdatedAt    string
}

// CreateClientParams contains data for creating a client.
type CreateClientParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   *string
	Company   *string
	TaxID     *string
	Notes     *string
}

// CreateVehicleParams contains data for creating a vehicle.
type CreateVehicleParams struct {
	Make         string
	Model        string
	Year         int
	LicensePlate string
	VIN          *string
	Color        *string
	OwnerIDs     []uuid.UUID
}

// Store is the registry read/write surface. The intake engine only uses the
// four read operations; the CRUD handlers use the rest.
type Store interface {
	ListClients(ctx context.Context) ([]Client, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	GetClientByID(ctx context.Context, id uuid.UUID) (Client, error)
	GetVehicleByID(ctx context.Context, id uuid.UUID) (Vehicle, error)
	GetVehiclesByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error)

	CreateClient(ctx context.Context, params CreateClientParams) (Client, error)
	CreateVehicle(ctx context.Context, params CreateVehicleParams) (Vehicle, error)
	AssignOwner(ctx context.Context, vehicleID, clientID uuid.UUID) error
	RemoveOwner(ctx context.Context, vehicleID, clientID uuid.UUID) error
}
