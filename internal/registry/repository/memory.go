package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"detailing_portal_backend/platform/apperr"
)

// InMemory implements Store with process-local state. Used by tests and by
// the memory registry backend in development. Listing order is insertion
// order, matching the Postgres store's created_at ordering.
type InMemory struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]Client
	vehicles   map[uuid.UUID]Vehicle
	clientIDs  []uuid.UUID
	vehicleIDs []uuid.UUID
}

// NewInMemory creates an empty in-memory registry store.
func NewInMemory() *InMemory {
	return &InMemory{
		clients:  make(map[uuid.UUID]Client),
		vehicles: make(map[uuid.UUID]Vehicle),
	}
}

var _ Store = (*InMemory)(nil)

// ListClients returns all clients in insertion order.
func (s *InMemory) ListClients(ctx context.Context) ([]Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]Client, 0, len(s.clientIDs))
	for _, id := range s.clientIDs {
		clients = append(clients, copyClient(s.clients[id]))
	}
	return clients, nil
}

// ListVehicles returns all vehicles in insertion order.
func (s *InMemory) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicles := make([]Vehicle, 0, len(s.vehicleIDs))
	for _, id := range s.vehicleIDs {
		vehicles = append(vehicles, copyVehicle(s.vehicles[id]))
	}
	return vehicles, nil
}

// GetClientByID retrieves a single client.
func (s *InMemory) GetClientByID(ctx context.Context, id uuid.UUID) (Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return Client{}, apperr.NotFound(clientNotFoundMessage)
	}
	return copyClient(client), nil
}

// GetVehicleByID retrieves a single vehicle.
func (s *InMemory) GetVehicleByID(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicle, ok := s.vehicles[id]
	if !ok {
		return Vehicle{}, apperr.NotFound(vehicleNotFoundMessage)
	}
	return copyVehicle(vehicle), nil
}

// GetVehiclesByOwnerID returns the vehicles owned by the given client in
// insertion order. Unknown owners yield an empty list.
func (s *InMemory) GetVehiclesByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicles := make([]Vehicle, 0)
	for _, id := range s.vehicleIDs {
		vehicle := s.vehicles[id]
		for _, owner := range vehicle.OwnerIDs {
			if owner == ownerID {
				vehicles = append(vehicles, copyVehicle(vehicle))
				break
			}
		}
	}
	return vehicles, nil
}

// CreateClient inserts a client.
func (s *InMemory) CreateClient(ctx context.Context, params CreateClientParams) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	client := Client{
		ID:         uuid.New(),
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		Email:      params.Email,
		Phone:      params.Phone,
		Address:    params.Address,
		Company:    params.Company,
		TaxID:      params.TaxID,
		Notes:      params.Notes,
		VehicleIDs: []uuid.UUID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.clients[client.ID] = client
	s.clientIDs = append(s.clientIDs, client.ID)
	return copyClient(client), nil
}

// CreateVehicle inserts a vehicle and links its owners. Owner ids are not
// verified against existing clients; the engine tolerates dangling ids.
func (s *InMemory) CreateVehicle(ctx context.Context, params CreateVehicleParams) (Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	vehicle := Vehicle{
		ID:           uuid.New(),
		Make:         params.Make,
		Model:        params.Model,
		Year:         params.Year,
		LicensePlate: params.LicensePlate,
		VIN:          params.VIN,
		Color:        params.Color,
		OwnerIDs:     append([]uuid.UUID{}, params.OwnerIDs...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.vehicles[vehicle.ID] = vehicle
	s.vehicleIDs = append(s.vehicleIDs, vehicle.ID)

	for _, ownerID := range params.OwnerIDs {
		if client, ok := s.clients[ownerID]; ok {
			client.VehicleIDs = append(client.VehicleIDs, vehicle.ID)
			s.clients[ownerID] = client
		}
	}

	return copyVehicle(vehicle), nil
}

// AssignOwner links a client to a vehicle. Idempotent.
func (s *InMemory) AssignOwner(ctx context.Context, vehicleID, clientID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle, ok := s.vehicles[vehicleID]
	if !ok {
		return apperr.NotFound(vehicleNotFoundMessage)
	}

	for _, owner := range vehicle.OwnerIDs {
		if owner == clientID {
			return nil
		}
	}

	vehicle.OwnerIDs = append(vehicle.OwnerIDs, clientID)
	s.vehicles[vehicleID] = vehicle

	if client, ok := s.clients[clientID]; ok {
		client.VehicleIDs = append(client.VehicleIDs, vehicleID)
		s.clients[clientID] = client
	}
	return nil
}

// RemoveOwner unlinks a client from a vehicle.
func (s *InMemory) RemoveOwner(ctx context.Context, vehicleID, clientID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle, ok := s.vehicles[vehicleID]
	if !ok {
		return apperr.NotFound(vehicleNotFoundMessage)
	}

	found := false
	owners := vehicle.OwnerIDs[:0]
	for _, owner := range vehicle.OwnerIDs {
		if owner == clientID {
			found = true
			continue
		}
		owners = append(owners, owner)
	}
	if !found {
		return apperr.NotFound("ownership link not found")
	}
	vehicle.OwnerIDs = owners
	s.vehicles[vehicleID] = vehicle

	if client, ok := s.clients[clientID]; ok {
		vehicleIDs := client.VehicleIDs[:0]
		for _, id := range client.VehicleIDs {
			if id != vehicleID {
				vehicleIDs = append(vehicleIDs, id)
			}
		}
		client.VehicleIDs = vehicleIDs
		s.clients[clientID] = client
	}
	return nil
}

func copyClient(c Client) Client {
	c.VehicleIDs = append([]uuid.UUID{}, c.VehicleIDs...)
	return c
}

func copyVehicle(v Vehicle) Vehicle {
	v.OwnerIDs = append([]uuid.UUID{}, v.OwnerIDs...)
	return v
}
