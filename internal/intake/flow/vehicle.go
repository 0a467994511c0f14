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

// VehicleFlow resolves an intake form starting from a license plate. A
// matched vehicle is applied first; its owners are then derived from
// the candidate-client pool the same search already returned, without a
// second store round trip.
//
// Unlike the owner flow, a single derived owner is applied
// automatically with no confirmation step.
type VehicleFlow struct {
	core
	search Searcher
	log    *logger.Logger

	// ownerPool is the client half of the last search result, kept for
	// cross-referencing owners after a vehicle is picked.
	ownerPool []ports.Client
}

func NewVehicleFlow(search Searcher, log *logger.Logger) *VehicleFlow {
	return &VehicleFlow{core: newCore(), search: search, log: log}
}

// Search runs one license-plate query and advances the machine on its
// outcome. Superseded completions are discarded.
func (f *VehicleFlow) Search(ctx context.Context, value string) (Snapshot, error) {
	if strings.TrimSpace(value) == "" {
		return f.Snapshot(), apperr.Validation("search value must not be empty").
			WithOp("flow.VehicleFlow.Search")
	}

	f.mu.Lock()
	gen := f.beginSearchLocked()
	f.ownerPool = nil
	f.mu.Unlock()

	results, err := f.search.SearchByField(ctx, domain.FieldLicensePlate, value)

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

	switch len(results.Vehicles) {
	case 0:
		f.to(StateNoMatch)
		f.errMsg = "no vehicle with that plate"
	case 1:
		// The lone match stays in the candidate list so snapshots and
		// the audit trail carry the true result cardinality.
		f.ownerPool = results.Clients
		f.vehicles = results.Vehicles
		f.applyVehicleLocked(results.Vehicles[0])
		f.to(StateSingleMatch)
		f.resolveOwnersLocked(results.Vehicles[0], true)
	default:
		f.ownerPool = results.Clients
		f.vehicles = results.Vehicles
		f.pending = pendingVehicle
		f.to(StateMultiMatch)
	}
	return f.snapshotLocked(), nil
}

// resolveOwnersLocked branches on how many of the vehicle's owners are
// present in the candidate pool. When the pool is authoritative (a
// lone-match search, where it holds exactly this vehicle's live owners)
// zero owners means the vehicle genuinely has none on file and the
// operator is told so. After a multi-match pick the pool is only a
// cross-reference cache, so a miss there is a soft failure: logged, the
// flow still resolves with the vehicle patch alone.
func (f *VehicleFlow) resolveOwnersLocked(vehicle ports.Vehicle, authoritative bool) {
	var owners []ports.Client
	for _, id := range vehicle.OwnerIDs {
		if owner, ok := findClient(f.ownerPool, id); ok {
			owners = append(owners, owner)
		}
	}
	if len(vehicle.OwnerIDs) > 0 && len(owners) == 0 {
		f.log.Warn("vehicle owners missing from candidate pool",
			"vehicle_id", vehicle.ID.String(),
			"owner_ids", len(vehicle.OwnerIDs),
		)
	}

	switch len(owners) {
	case 0:
		f.to(StateResolved)
		if authoritative || len(vehicle.OwnerIDs) == 0 {
			f.errMsg = "vehicle has no owner on file"
		}
	case 1:
		f.clients = owners
		f.applyClientLocked(owners[0], false)
		f.to(StateResolved)
	default:
		f.clients = owners
		f.pending = pendingClient
	}
}

// SelectVehicle confirms one of the plate candidates, applies its patch
// and derives its owners from the cached pool.
func (f *VehicleFlow) SelectVehicle(id uuid.UUID) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	vehicle, ok := findVehicle(f.vehicles, id)
	if !ok {
		return f.snapshotLocked(), apperr.NotFound("vehicle is not among the candidates").
			WithOp("flow.VehicleFlow.SelectVehicle")
	}
	f.applyVehicleLocked(vehicle)
	f.pending = pendingNone
	f.to(StateSingleMatch)
	f.resolveOwnersLocked(vehicle, false)
	return f.snapshotLocked(), nil
}

// SelectClient confirms one of the derived owners and resolves the flow.
func (f *VehicleFlow) SelectClient(id uuid.UUID) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	client, ok := findClient(f.clients, id)
	if !ok {
		return f.snapshotLocked(), apperr.NotFound("client is not among the candidates").
			WithOp("flow.VehicleFlow.SelectClient")
	}
	f.applyClientLocked(client, false)
	f.pending = pendingNone
	f.to(StateResolved)
	return f.snapshotLocked(), nil
}

// Clear abandons the flow: candidates, error and modals reset, applied
// form data stays.
func (f *VehicleFlow) Clear() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownerPool = nil
	f.clearLocked()
	return f.snapshotLocked()
}

func (f *VehicleFlow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}
