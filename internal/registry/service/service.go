package service

import (
	"context"

	"github.com/google/uuid"

	"detailing_portal_backend/internal/registry/repository"
	"detailing_portal_backend/internal/registry/transport"
	"detailing_portal_backend/platform/apperr"
	"detailing_portal_backend/platform/phone"
)

// Service exposes the registry's read and write operations over the store.
type Service struct {
	store       repository.Store
	phoneRegion string
}

// New creates a new registry service.
func New(store repository.Store, phoneRegion string) *Service {
	return &Service{store: store, phoneRegion: phoneRegion}
}

// Store returns the underlying store for use by other modules (intake).
func (s *Service) Store() repository.Store {
	return s.store
}

// ListClients returns all registered clients.
func (s *Service) ListClients(ctx context.Context) (*transport.ClientListResponse, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "client registry unreachable", err).WithOp("registry.ListClients")
	}

	items := make([]transport.ClientResponse, 0, len(clients))
	for _, c := range clients {
		items = append(items, transport.FromClient(c))
	}
	return &transport.ClientListResponse{Items: items, Total: len(items)}, nil
}

// ListVehicles returns all registered vehicles.
func (s *Service) ListVehicles(ctx context.Context) (*transport.VehicleListResponse, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "vehicle registry unreachable", err).WithOp("registry.ListVehicles")
	}

	items := make([]transport.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, transport.FromVehicle(v))
	}
	return &transport.VehicleListResponse{Items: items, Total: len(items)}, nil
}

// GetClient returns a single client by id.
func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*transport.ClientResponse, error) {
	client, err := s.store.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.FromClient(client)
	return &resp, nil
}

// GetVehicle returns a single vehicle by id.
func (s *Service) GetVehicle(ctx context.Context, id uuid.UUID) (*transport.VehicleResponse, error) {
	vehicle, err := s.store.GetVehicleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.FromVehicle(vehicle)
	return &resp, nil
}

// CreateClient registers a new client. Phone numbers are normalized to E.164
// when they parse for the configured region.
func (s *Service) CreateClient(ctx context.Context, req transport.CreateClientRequest) (*transport.ClientResponse, error) {
	client, err := s.store.CreateClient(ctx, repository.CreateClientParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     phone.NormalizeE164(req.Phone, s.phoneRegion),
		Address:   req.Address,
		Company:   req.Company,
		TaxID:     req.TaxID,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "could not create client", err).WithOp("registry.CreateClient")
	}
	resp := transport.FromClient(client)
	return &resp, nil
}

// CreateVehicle registers a new vehicle with optional owner links.
func (s *Service) CreateVehicle(ctx context.Context, req transport.CreateVehicleRequest) (*transport.VehicleResponse, error) {
	ownerIDs := make([]uuid.UUID, 0, len(req.OwnerIDs))
	for _, raw := range req.OwnerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.Validation("invalid owner id").WithDetails(raw)
		}
		ownerIDs = append(ownerIDs, id)
	}

	vehicle, err := s.store.CreateVehicle(ctx, repository.CreateVehicleParams{
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		VIN:          req.VIN,
		Color:        req.Color,
		OwnerIDs:     ownerIDs,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "could not create vehicle", err).WithOp("registry.CreateVehicle")
	}
	resp := transport.FromVehicle(vehicle)
	return &resp, nil
}

// AssignOwner links a client to a vehicle.
func (s *Service) AssignOwner(ctx context.Context, vehicleID, clientID uuid.UUID) error {
	return s.store.AssignOwner(ctx, vehicleID, clientID)
}

// RemoveOwner unlinks a client from a vehicle.
func (s *Service) RemoveOwner(ctx context.Context, vehicleID, clientID uuid.UUID) error {
	return s.store.RemoveOwner(ctx, vehicleID, clientID)
}
