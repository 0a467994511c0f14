// Package search dispatches a single form-field query against the client
// and vehicle registry and assembles the combined result set the intake
// flows resolve against.
package search

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"detailing_portal_backend/internal/intake/domain"
	"detailing_portal_backend/internal/intake/ports"
	"detailing_portal_backend/platform/apperr"
	"detailing_portal_backend/platform/logger"
)

const ownerFetchConcurrency = 4

type Service struct {
	store       ports.EntityStore
	log         *logger.Logger
	phoneRegion string
}

func NewService(store ports.EntityStore, log *logger.Logger, phoneRegion string) *Service {
	return &Service{store: store, log: log, phoneRegion: phoneRegion}
}

// SearchByField runs one query against the registry. The field decides
// which entity kind is matched first; the other kind is then pulled in
// through ownership links so the caller always receives both halves.
//
// A blank value is rejected before any store call is made.
func (s *Service) SearchByField(ctx context.Context, field domain.SearchField, value string) (domain.SearchResults, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.SearchResults{}, apperr.Validation("search value must not be empty").
			WithOp("search.SearchByField").
			WithDetails(map[string]string{"field": string(field)})
	}
	if !field.Valid() {
		return domain.SearchResults{}, apperr.Validation("unknown search field").
			WithOp("search.SearchByField").
			WithDetails(map[string]string{"field": string(field)})
	}

	var (
		results domain.SearchResults
		err     error
	)
	switch field.Kind() {
	case domain.KindVehicle:
		results, err = s.searchVehicleFirst(ctx, field, value)
	default:
		results, err = s.searchClientFirst(ctx, field, value)
	}
	if err != nil {
		return domain.SearchResults{}, err
	}

	s.log.SearchEvent("search", string(field), len(results.Vehicles), len(results.Clients))
	return results, nil
}

// searchVehicleFirst matches vehicles by the field, then resolves the
// owners of every matched vehicle. Owner ids are deduplicated in
// first-seen order so the result order is stable across calls. An owner
// id that no longer resolves to a client is skipped; the registry
// tolerates such references and so does the search.
func (s *Service) searchVehicleFirst(ctx context.Context, field domain.SearchField, value string) (domain.SearchResults, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		s.log.StoreError("ListVehicles", err)
		return domain.SearchResults{}, apperr.Wrap(apperr.KindUnavailable, "vehicle search failed", err).
			WithOp("search.searchVehicleFirst").
			WithDetails(map[string]string{"field": string(field)})
	}

	matched := domain.MatchVehicles(field, value, vehicles)

	seen := make(map[uuid.UUID]struct{})
	var ownerIDs []uuid.UUID
	for _, v := range matched {
		for _, id := range v.OwnerIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ownerIDs = append(ownerIDs, id)
		}
	}

	owners, err := s.fetchClients(ctx, ownerIDs)
	if err != nil {
		return domain.SearchResults{}, err
	}
	return domain.SearchResults{Vehicles: matched, Clients: owners}, nil
}

// fetchClients resolves owner ids concurrently while preserving the
// input order in the returned slice. Missing clients leave a gap that
// is compacted afterwards.
func (s *Service) fetchClients(ctx context.Context, ids []uuid.UUID) ([]ports.Client, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	found := make([]*ports.Client, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ownerFetchConcurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			client, err := s.store.GetClientByID(gctx, id)
			if err != nil {
				if apperr.Is(err, apperr.KindNotFound) {
					s.log.DanglingReference("client", id.String())
					return nil
				}
				s.log.StoreError("GetClientByID", err)
				return apperr.Wrap(apperr.KindUnavailable, "owner lookup failed", err).
					WithOp("search.fetchClients")
			}
			found[i] = &client
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	clients := make([]ports.Client, 0, len(ids))
	for _, c := range found {
		if c != nil {
			clients = append(clients, *c)
		}
	}
	return clients, nil
}

// searchClientFirst matches clients by the field, then pulls every
// vehicle owned by a matched client. Co-owned vehicles appear once,
// keyed by vehicle id in first-seen order.
func (s *Service) searchClientFirst(ctx context.Context, field domain.SearchField, value string) (domain.SearchResults, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		s.log.StoreError("ListClients", err)
		return domain.SearchResults{}, apperr.Wrap(apperr.KindUnavailable, "client search failed", err).
			WithOp("search.searchClientFirst").
			WithDetails(map[string]string{"field": string(field)})
	}

	matched := domain.MatchClients(field, value, s.phoneRegion, clients)

	seen := make(map[uuid.UUID]struct{})
	var vehicles []ports.Vehicle
	for _, c := range matched {
		owned, err := s.store.GetVehiclesByOwnerID(ctx, c.ID)
		if err != nil {
			s.log.StoreError("GetVehiclesByOwnerID", err)
			return domain.SearchResults{}, apperr.Wrap(apperr.KindUnavailable, "vehicle lookup failed", err).
				WithOp("search.searchClientFirst").
				WithDetails(map[string]string{"field": string(field)})
		}
		for _, v := range owned {
			if _, ok := seen[v.ID]; ok {
				continue
			}
			seen[v.ID] = struct{}{}
			vehicles = append(vehicles, v)
		}
	}

	return domain.SearchResults{Vehicles: vehicles, Clients: matched}, nil
}

// VehiclesForClient returns the vehicles owned by a single client, in
// registry order. Used by the owner flow when a client has been picked
// and their garage has to be listed.
func (s *Service) VehiclesForClient(ctx context.Context, clientID uuid.UUID) ([]ports.Vehicle, error) {
	vehicles, err := s.store.GetVehiclesByOwnerID(ctx, clientID)
	if err != nil {
		s.log.StoreError("GetVehiclesByOwnerID", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "vehicle lookup failed", err).
			WithOp("search.VehiclesForClient")
	}
	return vehicles, nil
}
