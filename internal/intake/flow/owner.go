package flow

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"detailing_portal_backend/internal/intake/domain"
	"detailing_portal_backend/internal/intake/ports"
	"detailing_portal_backend/platform/apperr"
	"detailing_portal_backend/platform/logger"
)

// OwnerFlow resolves an intake form starting from a client-side field
// (owner name, company, tax id, email or phone). A matched client is
// applied to the form and marked as a returning customer; the client's
// garage is then offered for confirmation.
type OwnerFlow struct {
	core
	search Searcher
	log    *logger.Logger
}

func NewOwnerFlow(search Searcher, log *logger.Logger) *OwnerFlow {
	return &OwnerFlow{core: newCore(), search: search, log: log}
}

// Search runs one client-field query and advances the machine on its
// outcome. A completion that was superseded by a newer search or by
// Clear is discarded without touching state.
func (f *OwnerFlow) Search(ctx context.Context, field domain.SearchField, value string) (Snapshot, error) {
	if field.Kind() != domain.KindClient {
		return f.Snapshot(), apperr.Validation("owner search requires a client field").
			WithOp("flow.OwnerFlow.Search").
			WithDetails(map[string]string{"field": string(field)})
	}
	if strings.TrimSpace(value) == "" {
		return f.Snapshot(), apperr.Validation("search value must not be empty").
			WithOp("flow.OwnerFlow.Search")
	}

	f.mu.Lock()
	gen := f.beginSearchLocked()
	f.mu.Unlock()

	results, err := f.search.SearchByField(ctx, field, value)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return f.snapshotLocked(), nil
	}
	if err != nil {
		f.to(StateFailed)
		f.errMsg = "search failed, please try again"
		return f.snapshotLocked(), err
	}

	switch len(results.Clients) {
	case 0:
		f.to(StateNoMatch)
		f.errMsg = "no clients found"
	case 1:
		// A lone match applies without interaction. The dispatcher
		// already fetched this client's vehicles alongside. The match
		// stays in the candidate list so snapshots and the audit trail
		// carry the true result cardinality.
		f.clients = results.Clients
		f.applyClientLocked(results.Clients[0], true)
		f.to(StateSingleMatch)
		f.offerVehiclesLocked(results.Vehicles)
	default:
		f.clients = results.Clients
		f.pending = pendingClient
		f.to(StateMultiMatch)
	}
	return f.snapshotLocked(), nil
}

// offerVehiclesLocked runs the secondary fan-out after a client has been
// applied. Even a single vehicle goes through the picker so the operator
// confirms which car is actually being dropped off; an empty garage
// resolves immediately.
func (f *OwnerFlow) offerVehiclesLocked(vehicles []ports.Vehicle) {
	if len(vehicles) == 0 {
		f.to(StateResolved)
		return
	}
	f.vehicles = vehicles
	f.pending = pendingVehicle
}

// SelectClient confirms one of the disambiguation candidates, applies
// its patch and fans out to the client's vehicles. Selecting a client
// that is not among the candidates is rejected; re-selecting the same
// candidate re-applies an identical patch.
func (f *OwnerFlow) SelectClient(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	f.mu.Lock()
	client, ok := findClient(f.clients, id)
	if !ok {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, apperr.NotFound("client is not among the candidates").
			WithOp("flow.OwnerFlow.SelectClient")
	}
	f.applyClientLocked(client, true)
	f.pending = pendingNone
	f.to(StateSingleMatch)
	gen := f.gen
	f.mu.Unlock()

	vehicles, err := f.search.VehiclesForClient(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return f.snapshotLocked(), nil
	}
	if err != nil {
		// The client patch stays; only the garage lookup failed.
		f.to(StateFailed)
		f.errMsg = "could not load the client's vehicles, please try again"
		return f.snapshotLocked(), err
	}
	f.offerVehiclesLocked(vehicles)
	return f.snapshotLocked(), nil
}

// SelectVehicle confirms a vehicle from the secondary fan-out and
// resolves the flow.
func (f *OwnerFlow) SelectVehicle(id uuid.UUID) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	vehicle, ok := findVehicle(f.vehicles, id)
	if !ok {
		return f.snapshotLocked(), apperr.NotFound("vehicle is not among the candidates").
			WithOp("flow.OwnerFlow.SelectVehicle")
	}
	f.applyVehicleLocked(vehicle)
	f.pending = pendingNone
	f.to(StateResolved)
	return f.snapshotLocked(), nil
}

// Clear abandons the flow: candidates, error and modals reset, applied
// form data stays.
func (f *OwnerFlow) Clear() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearLocked()
	return f.snapshotLocked()
}

func (f *OwnerFlow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}
