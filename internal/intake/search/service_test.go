package search

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"detailing_portal_backend/internal/intake/domain"
	"detailing_portal_backend/internal/intake/ports"
	"detailing_portal_backend/internal/registry/repository"
	"detailing_portal_backend/platform/apperr"
	"detailing_portal_backend/platform/logger"
)

type fakeStore struct {
	clients  []ports.Client
	vehicles []ports.Vehicle

	listClientErr  error
	listVehicleErr error
	getClientErr   error

	listClientCalls  int
	listVehicleCalls int
}

func (f *fakeStore) ListClients(ctx context.Context) ([]ports.Client, error) {
	f.listClientCalls++
	if f.listClientErr != nil {
		return nil, f.listClientErr
	}
	return f.clients, nil
}

func (f *fakeStore) ListVehicles(ctx context.Context) ([]ports.Vehicle, error) {
	f.listVehicleCalls++
	if f.listVehicleErr != nil {
		return nil, f.listVehicleErr
	}
	return f.vehicles, nil
}

func (f *fakeStore) GetClientByID(ctx context.Context, id uuid.UUID) (ports.Client, error) {
	if f.getClientErr != nil {
		return ports.Client{}, f.getClientErr
	}
	for _, c := range f.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return ports.Client{}, apperr.NotFound("client not found")
}

func (f *fakeStore) GetVehiclesByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]ports.Vehicle, error) {
	var out []ports.Vehicle
	for _, v := range f.vehicles {
		for _, id := range v.OwnerIDs {
			if id == ownerID {
				out = append(out, v)
				break
			}
		}
	}
	return out, nil
}

func newService(store ports.EntityStore) *Service {
	return NewService(store, logger.New("test"), "PL")
}

func seededService(t *testing.T) (*Service, *repository.SeedFleet) {
	t.Helper()
	store := repository.NewInMemory()
	fleet, err := repository.SeedSampleFleet(context.Background(), store)
	if err != nil {
		t.Fatalf("seeding fleet: %v", err)
	}
	return newService(store), fleet
}

func TestSearchByFieldEmptyValue(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	for _, value := range []string{"", "   ", "\t"} {
		_, err := svc.SearchByField(context.Background(), domain.FieldLicensePlate, value)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("blank value %q: expected validation error, got %v", value, err)
		}
	}
	if store.listClientCalls != 0 || store.listVehicleCalls != 0 {
		t.Fatal("blank query must be rejected before any store call")
	}
}

func TestSearchByFieldUnknownField(t *testing.T) {
	svc := newService(&fakeStore{})
	_, err := svc.SearchByField(context.Background(), domain.SearchField("favoriteColor"), "x")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSearchByPlateResolvesOwners(t *testing.T) {
	svc, fleet := seededService(t)

	results, err := svc.SearchByField(context.Background(), domain.FieldLicensePlate, "WA12345")
	if err != nil {
		t.Fatalf("SearchByField: %v", err)
	}
	if len(results.Vehicles) != 1 || results.Vehicles[0].LicensePlate != "WA12345" {
		t.Fatalf("expected the A6, got %+v", results.Vehicles)
	}
	if len(results.Clients) != 1 || results.Clients[0].ID != fleet.Kowalski.ID {
		t.Fatalf("expected Kowalski as owner, got %+v", results.Clients)
	}
}

func TestSearchByPlateCoOwnedVehicle(t *testing.T) {
	svc, fleet := seededService(t)

	results, err := svc.SearchByField(context.Background(), domain.FieldLicensePlate, fleet.Octavia.LicensePlate)
	if err != nil {
		t.Fatalf("SearchByField: %v", err)
	}
	if len(results.Clients) != 2 {
		t.Fatalf("co-owned vehicle must surface both owners, got %d", len(results.Clients))
	}
	// First-seen order follows the vehicle's owner list.
	if results.Clients[0].ID != fleet.Kowalski.ID || results.Clients[1].ID != fleet.Nowak.ID {
		t.Fatalf("owner order not preserved: %+v", results.Clients)
	}
}

func TestSearchByOwnerNameResolvesVehicles(t *testing.T) {
	svc, fleet := seededService(t)

	results, err := svc.SearchByField(context.Background(), domain.FieldOwnerName, "Wiśniewski")
	if err != nil {
		t.Fatalf("SearchByField: %v", err)
	}
	if len(results.Clients) != 1 || results.Clients[0].ID != fleet.Wisniewski.ID {
		t.Fatalf("expected Wiśniewski, got %+v", results.Clients)
	}
	if len(results.Vehicles) != 3 {
		t.Fatalf("expected 3 vehicles, got %d", len(results.Vehicles))
	}
}

func TestSearchClientFirstDeduplicatesVehicles(t *testing.T) {
	svc, _ := seededService(t)

	// "a" matches multiple clients; the co-owned Octavia must appear once.
	results, err := svc.SearchByField(context.Background(), domain.FieldOwnerName, "a")
	if err != nil {
		t.Fatalf("SearchByField: %v", err)
	}
	counts := make(map[uuid.UUID]int)
	for _, v := range results.Vehicles {
		counts[v.ID]++
	}
	for id, n := range counts {
		if n > 1 {
			t.Fatalf("vehicle %s appears %d times", id, n)
		}
	}
}

func TestSearchNoMatchIsEmptyNotError(t *testing.T) {
	svc, _ := seededService(t)

	results, err := svc.SearchByField(context.Background(), domain.FieldLicensePlate, "XX99999")
	if err != nil {
		t.Fatalf("a miss is not an error: %v", err)
	}
	if len(results.Vehicles) != 0 || len(results.Clients) != 0 {
		t.Fatalf("expected empty results, got %+v", results)
	}
}

func TestSearchStoreFailure(t *testing.T) {
	boom := errors.New("connection refused")

	svc := newService(&fakeStore{listVehicleErr: boom})
	_, err := svc.SearchByField(context.Background(), domain.FieldLicensePlate, "WA")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}

	svc = newService(&fakeStore{listClientErr: boom})
	_, err = svc.SearchByField(context.Background(), domain.FieldEmail, "jan")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestSearchSkipsDanglingOwner(t *testing.T) {
	// The Transit references an owner id that resolves to nothing.
	ghost := uuid.New()
	store := &fakeStore{
		vehicles: []ports.Vehicle{
			{ID: uuid.New(), Make: "Ford", Model: "Transit", LicensePlate: "WB20021", OwnerIDs: []uuid.UUID{ghost}},
		},
	}
	svc := newService(store)

	results, err := svc.SearchByField(context.Background(), domain.FieldLicensePlate, "WB20021")
	if err != nil {
		t.Fatalf("dangling owner must not fail the search: %v", err)
	}
	if len(results.Vehicles) != 1 {
		t.Fatalf("the vehicle itself must still match, got %d", len(results.Vehicles))
	}
	if len(results.Clients) != 0 {
		t.Fatalf("ghost owner must be skipped, got %+v", results.Clients)
	}
}

func TestSearchOwnerLookupFailureAborts(t *testing.T) {
	owner := uuid.New()
	store := &fakeStore{
		vehicles: []ports.Vehicle{
			{ID: uuid.New(), Make: "Audi", Model: "A6", LicensePlate: "WA12345", OwnerIDs: []uuid.UUID{owner}},
		},
		getClientErr: errors.New("connection reset"),
	}
	svc := newService(store)

	_, err := svc.SearchByField(context.Background(), domain.FieldLicensePlate, "WA12345")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("a failing owner lookup must abort the search, got %v", err)
	}
}

func TestVehiclesForClient(t *testing.T) {
	svc, fleet := seededService(t)

	vehicles, err := svc.VehiclesForClient(context.Background(), fleet.Kowalski.ID)
	if err != nil {
		t.Fatalf("VehiclesForClient: %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("Kowalski owns the A6 and co-owns the Octavia, got %d vehicles", len(vehicles))
	}
}
