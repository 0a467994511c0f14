// Package flow holds the two resolution state machines that turn search
// results into form patches: the owner flow (client-field driven) and
// the vehicle flow (license-plate driven).
package flow

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"detailing_portal_backend/internal/intake/domain"
	"detailing_portal_backend/internal/intake/ports"
)

// Searcher is what a flow needs from the search dispatcher.
type Searcher interface {
	SearchByField(ctx context.Context, field domain.SearchField, value string) (domain.SearchResults, error)
	VehiclesForClient(ctx context.Context, clientID uuid.UUID) ([]ports.Vehicle, error)
}

// pendingChoice says which disambiguation modal, if any, is open. A
// single value instead of two booleans: the machine cannot offer both
// choices at once.
type pendingChoice uint8

const (
	pendingNone pendingChoice = iota
	pendingClient
	pendingVehicle
)

// Snapshot is the externally visible state of one flow. All slices and
// maps are copies; callers may hold a snapshot across further mutations.
type Snapshot struct {
	State            State            `json:"state"`
	Loading          bool             `json:"loading"`
	ShowClientModal  bool             `json:"showClientModal"`
	ShowVehicleModal bool             `json:"showVehicleModal"`
	FoundClients     []ports.Client   `json:"foundClients"`
	FoundVehicles    []ports.Vehicle  `json:"foundVehicles"`
	FormData         domain.FormPatch `json:"formData"`
	Error            string           `json:"error,omitempty"`
}

// core carries the state shared by both machines. The generation
// counter is bumped by every new search and by Clear; a search
// completion whose captured generation no longer matches is discarded,
// so a superseded search can never clobber newer state.
type core struct {
	mu       sync.Mutex
	gen      uint64
	state    State
	pending  pendingChoice
	form     domain.FormPatch
	clients  []ports.Client
	vehicles []ports.Vehicle
	errMsg   string
}

func newCore() core {
	return core{state: StateIdle}
}

// to moves the machine to next if the step is legal. The flow methods
// only ever request moves present in the table; the guard exists so a
// broken refactor fails loudly instead of corrupting the flow.
func (c *core) to(next State) {
	if !CanTransition(c.state, next) {
		c.state = StateFailed
		c.errMsg = "internal flow error"
		return
	}
	c.state = next
}

// beginSearchLocked resets per-search state, bumps the generation and
// returns it. The previous error is always cleared; an applied form
// patch survives a new search.
func (c *core) beginSearchLocked() uint64 {
	c.gen++
	c.errMsg = ""
	c.pending = pendingNone
	c.clients = nil
	c.vehicles = nil
	c.to(StateSearching)
	return c.gen
}

// clearLocked is the universal reset: candidates, error and modal flags
// go away unconditionally and in-flight searches are invalidated.
// Already-applied form data is kept.
func (c *core) clearLocked() {
	c.gen++
	c.state = StateIdle
	c.pending = pendingNone
	c.clients = nil
	c.vehicles = nil
	c.errMsg = ""
}

func (c *core) applyClientLocked(client ports.Client, stampReferral bool) {
	c.form = domain.Merge(c.form, domain.MapClientToFormData(client))
	if stampReferral {
		c.form[domain.FormReferralSource] = domain.ReferralRegularCustomer
	}
}

func (c *core) applyVehicleLocked(vehicle ports.Vehicle) {
	c.form = domain.Merge(c.form, domain.MapVehicleToFormData(vehicle))
}

func (c *core) snapshotLocked() Snapshot {
	return Snapshot{
		State:            c.state,
		Loading:          c.state == StateSearching,
		ShowClientModal:  c.pending == pendingClient,
		ShowVehicleModal: c.pending == pendingVehicle,
		FoundClients:     append([]ports.Client(nil), c.clients...),
		FoundVehicles:    append([]ports.Vehicle(nil), c.vehicles...),
		FormData:         domain.Merge(nil, c.form),
		Error:            c.errMsg,
	}
}

func findClient(clients []ports.Client, id uuid.UUID) (ports.Client, bool) {
	for _, c := range clients {
		if c.ID == id {
			return c, true
		}
	}
	return ports.Client{}, false
}

func findVehicle(vehicles []ports.Vehicle, id uuid.UUID) (ports.Vehicle, bool) {
	for _, v := range vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return ports.Vehicle{}, false
}
