package flow

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"detailing_portal_backend/internal/intake/domain"
	"detailing_portal_backend/internal/intake/ports"
	"detailing_portal_backend/internal/intake/search"
	"detailing_portal_backend/internal/registry/repository"
	"detailing_portal_backend/platform/apperr"
	"detailing_portal_backend/platform/logger"
)

// funcSearcher scripts the dispatcher per test.
type funcSearcher struct {
	searchFn   func(field domain.SearchField, value string) (domain.SearchResults, error)
	vehiclesFn func(clientID uuid.UUID) ([]ports.Vehicle, error)

	searchCalls   int
	vehiclesCalls int
}

func (f *funcSearcher) SearchByField(ctx context.Context, field domain.SearchField, value string) (domain.SearchResults, error) {
	f.searchCalls++
	if f.searchFn == nil {
		return domain.SearchResults{}, nil
	}
	return f.searchFn(field, value)
}

func (f *funcSearcher) VehiclesForClient(ctx context.Context, clientID uuid.UUID) ([]ports.Vehicle, error) {
	f.vehiclesCalls++
	if f.vehiclesFn == nil {
		return nil, nil
	}
	return f.vehiclesFn(clientID)
}

func testLogger() *logger.Logger { return logger.New("test") }

// seededSearcher wires the real dispatcher over the sample fleet.
func seededSearcher(t *testing.T) (*search.Service, *repository.SeedFleet) {
	t.Helper()
	store := repository.NewInMemory()
	fleet, err := repository.SeedSampleFleet(context.Background(), store)
	if err != nil {
		t.Fatalf("seeding fleet: %v", err)
	}
	return search.NewService(store, testLogger(), "PL"), fleet
}

func assertModalExclusive(t *testing.T, snap Snapshot) {
	t.Helper()
	if snap.ShowClientModal && snap.ShowVehicleModal {
		t.Fatal("both disambiguation modals open at once")
	}
}

func TestOwnerFlowEmptyValueNeverHitsStore(t *testing.T) {
	searcher := &funcSearcher{}
	f := NewOwnerFlow(searcher, testLogger())

	for _, value := range []string{"", "  ", "\t\n"} {
		snap, err := f.Search(context.Background(), domain.FieldEmail, value)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("blank value %q: expected validation error, got %v", value, err)
		}
		if snap.State != StateIdle {
			t.Fatalf("blank value must not move the machine, state=%s", snap.State)
		}
	}
	if searcher.searchCalls != 0 {
		t.Fatal("dispatcher must not be called for a blank value")
	}
}

func TestOwnerFlowRejectsVehicleField(t *testing.T) {
	f := NewOwnerFlow(&funcSearcher{}, testLogger())
	_, err := f.Search(context.Background(), domain.FieldLicensePlate, "WA12345")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOwnerFlowNoMatch(t *testing.T) {
	svc, _ := seededSearcher(t)
	f := NewOwnerFlow(svc, testLogger())

	snap, err := f.Search(context.Background(), domain.FieldOwnerName, "Zieliński")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if snap.State != StateNoMatch {
		t.Fatalf("expected noMatch, got %s", snap.State)
	}
	if snap.Error != "no clients found" {
		t.Fatalf("unexpected message %q", snap.Error)
	}
	if len(snap.FormData) != 0 {
		t.Fatal("a miss must not patch the form")
	}
	assertModalExclusive(t, snap)
}

// Single client match: the patch applies without interaction, the
// referral source marks a returning customer, and the full garage is
// offered for confirmation.
func TestOwnerFlowSingleClientFansOutToVehicles(t *testing.T) {
	svc, fleet := seededSearcher(t)
	f := NewOwnerFlow(svc, testLogger())

	snap, err := f.Search(context.Background(), domain.FieldOwnerName, "Wiśniewski")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if snap.State != StateSingleMatch {
		t.Fatalf("expected singleMatch, got %s", snap.State)
	}
	if snap.FormData[domain.FormOwnerName] != "Piotr Wiśniewski" {
		t.Fatalf("client patch not applied: %v", snap.FormData)
	}
	if snap.FormData[domain.FormReferralSource] != domain.ReferralRegularCustomer {
		t.Fatal("known client must be stamped as a regular customer")
	}
	if !snap.ShowVehicleModal || len(snap.FoundVehicles) != 3 {
		t.Fatalf("expected vehicle picker with 3 candidates, got modal=%v n=%d",
			snap.ShowVehicleModal, len(snap.FoundVehicles))
	}
	// The lone match stays visible as a candidate so downstream
	// consumers see the true result cardinality.
	if len(snap.FoundClients) != 1 || snap.FoundClients[0].ID != fleet.Wisniewski.ID {
		t.Fatalf("expected the matched client as the sole candidate, got %d", len(snap.FoundClients))
	}
	assertModalExclusive(t, snap)

	snap, err = f.SelectVehicle(fleet.Golf.ID)
	if err != nil {
		t.Fatalf("SelectVehicle: %v", err)
	}
	if snap.State != StateResolved {
		t.Fatalf("expected resolved, got %s", snap.State)
	}
	if snap.FormData[domain.FormLicensePlate] != fleet.Golf.LicensePlate {
		t.Fatalf("vehicle patch not applied: %v", snap.FormData)
	}
	if snap.ShowVehicleModal {
		t.Fatal("picker must close after selection")
	}
}

// Even a one-car garage goes through the picker.
func TestOwnerFlowSingleVehicleStillOpensPicker(t *testing.T) {
	client := ports.Client{ID: uuid.New(), FirstName: "Jan", LastName: "Kowalski", Email: "jan@example.com", Phone: "+48601100100"}
	vehicle := ports.Vehicle{ID: uuid.New(), Make: "Audi", Model: "A6", Year: 2019, LicensePlate: "WA12345", OwnerIDs: []uuid.UUID{client.ID}}
	searcher := &funcSearcher{
		searchFn: func(domain.SearchField, string) (domain.SearchResults, error) {
			return domain.SearchResults{Clients: []ports.Client{client}, Vehicles: []ports.Vehicle{vehicle}}, nil
		},
	}
	f := NewOwnerFlow(searcher, testLogger())

	snap, err := f.Search(context.Background(), domain.FieldEmail, "jan")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if snap.State != StateSingleMatch || !snap.ShowVehicleModal || len(snap.FoundVehicles) != 1 {
		t.Fatalf("single vehicle must still be confirmed: state=%s modal=%v n=%d",
			snap.State, snap.ShowVehicleModal, len(snap.FoundVehicles))
	}
}

func TestOwnerFlowClientWithoutVehiclesResolves(t *testing.T) {
	client := ports.Client{ID: uuid.New(), FirstName: "Anna", LastName: "Nowak", Email: "anna@example.com", Phone: "+48602200200"}
	searcher := &funcSearcher{
		searchFn: func(domain.SearchField, string) (domain.SearchResults, error) {
			return domain.SearchResults{Clients: []ports.Client{client}}, nil
		},
	}
	f := NewOwnerFlow(searcher, testLogger())

	snap, err := f.Search(context.Background(), domain.FieldEmail, "anna")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if snap.State != StateResolved {
		t.Fatalf("empty garage must resolve immediately, got %s", snap.State)
	}
	if snap.ShowVehicleModal || snap.ShowClientModal {
		t.Fatal("no modal for an empty garage")
	}
}

func TestOwnerFlowMultiMatchSelection(t *testing.T) {
	svc, fleet := seededSearcher(t)
	f := NewOwnerFlow(svc, testLogger())

	// "a" matches Jan Kowalski and Anna Nowak.
	snap, err := f.Search(context.Background(), domain.FieldOwnerName, "a")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if snap.State != StateMultiMatch || !snap.ShowClientModal {
		t.Fatalf("expected client picker, state=%s modal=%v", snap.State, snap.ShowClientModal)
	}
	if len(snap.FoundClients) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(snap.FoundClients))
	}
	if len(snap.FormData) != 0 {
		t.Fatal("no patch before a candidate is chosen")
	}
	assertModalExclusive(t, snap)

	snap, err = f.SelectClient(context.Background(), fleet.Kowalski.ID)
	if err != nil {
		t.Fatalf("SelectClient: %v", err)
	}
	if snap.FormData[domain.FormOwnerName] != "Jan Kowalski" {
		t.Fatalf("client patch not applied: %v", snap.FormData)
	}
	if snap.ShowClientModal {
		t.Fatal("client picker must close on selection")
	}
	if !snap.ShowVehicleModal || len(snap.FoundVehicles) != 2 {
		t.Fatalf("Kowalski's garage must be offered, modal=%v n=%d", snap.ShowVehicleModal, len(snap.FoundVehicles))
	}

	snap, err = f.SelectVehicle(fleet.AudiA6.ID)
	if err != nil {
		t.Fatalf("SelectVehicle: %v", err)
	}
	if snap.State != StateResolved {
		t.Fatalf("expected resolved, got %s", snap.State)
	}
	if snap.FormData[domain.FormLicensePlate] != "WA12345" {
		t.Fatalf("vehicle patch missing: %v", snap.FormData)
	}
	if snap.FormData[domain.FormReferralSource] != domain.ReferralRegularCustomer {
		t.Fatal("referral stamp lost along the way")
	}
}

func TestOwnerFlowSelectOutsideCandidatesRejected(t *testing.T) {
	svc, _ := seededSearcher(t)
	f := NewOwnerFlow(svc, testLogger())

	if _, err := f.Search(context.Background(), domain.FieldOwnerName, "a"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	before := f.Snapshot()

	_, err := f.SelectClient(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	after := f.Snapshot()
	if after.State != before.State || len(after.FormData) != len(before.FormData) {
		t.Fatal("a rejected selection must not move the machine")
	}
}

func TestOwnerFlowIdempotentReselection(t *testing.T) {
	svc, fleet := seededSearcher(t)
	f := NewOwnerFlow(svc, testLogger())

	if _, err := f.Search(context.Background(), domain.FieldOwnerName, "Wiśniewski"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	first, err := f.SelectVehicle(fleet.Panda.ID)
	if err != nil {
		t.Fatalf("first SelectVehicle: %v", err)
	}
	second, err := f.SelectVehicle(fleet.Panda.ID)
	if err != nil {
		t.Fatalf("second SelectVehicle: %v", err)
	}
	if !reflect.DeepEqual(first.FormData, second.FormData) {
		t.Fatalf("re-confirming the same candidate changed the patch:\n%v\n%v", first.FormData, second.FormData)
	}
	if second.State != StateResolved {
		t.Fatalf("expected resolved, got %s", second.State)
	}
}

func TestOwnerFlowSearchFailurePreservesAppliedPatch(t *testing.T) {
	calls := 0
	client := ports.Client{ID: uuid.New(), FirstName: "Jan", LastName: "Kowalski", Email: "jan@example.com", Phone: "+48601100100"}
	searcher := &funcSearcher{
		searchFn: func(domain.SearchField, string) (domain.SearchResults, error) {
			calls++
			if calls == 1 {
				return domain.SearchResults{Clients: []ports.Client{client}}, nil
			}
			return domain.SearchResults{}, apperr.Unavailable("store down")
		},
	}
	f := NewOwnerFlow(searcher, testLogger())

	if _, err := f.Search(context.Background(), domain.FieldEmail, "jan"); err != nil {
		t.Fatalf("first search: %v", err)
	}

	snap, err := f.Search(context.Background(), domain.FieldEmail, "jan")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if snap.State != StateFailed {
		t.Fatalf("expected failed, got %s", snap.State)
	}
	if snap.Error == "" {
		t.Fatal("failure must carry a user-facing message")
	}
	if snap.FormData[domain.FormOwnerName] != "Jan Kowalski" {
		t.Fatal("a failed search must not corrupt previously applied patches")
	}
}

func TestOwnerFlowNewSearchClearsPreviousError(t *testing.T) {
	boom := errors.New("timeout")
	calls := 0
	searcher := &funcSearcher{
		searchFn: func(domain.SearchField, string) (domain.SearchResults, error) {
			calls++
			if calls == 1 {
				return domain.SearchResults{}, boom
			}
			return domain.SearchResults{}, nil
		},
	}
	f := NewOwnerFlow(searcher, testLogger())

	if _, err := f.Search(context.Background(), domain.FieldEmail, "jan"); err == nil {
		t.Fatal("expected first search to fail")
	}
	snap, err := f.Search(context.Background(), domain.FieldEmail, "jan")
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if snap.Error != "no clients found" {
		t.Fatalf("stale failure message leaked through: %q", snap.Error)
	}
}

func TestOwnerFlowClearKeepsFormData(t *testing.T) {
	svc, fleet := seededSearcher(t)
	f := NewOwnerFlow(svc, testLogger())

	if _, err := f.Search(context.Background(), domain.FieldOwnerName, "Wiśniewski"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := f.SelectVehicle(fleet.Corolla.ID); err != nil {
		t.Fatalf("SelectVehicle: %v", err)
	}

	snap := f.Clear()
	if snap.State != StateIdle {
		t.Fatalf("expected idle after clear, got %s", snap.State)
	}
	if len(snap.FoundClients) != 0 || len(snap.FoundVehicles) != 0 || snap.Error != "" {
		t.Fatal("clear must drop candidates and errors")
	}
	if snap.ShowClientModal || snap.ShowVehicleModal {
		t.Fatal("clear must close both modals")
	}
	if snap.FormData[domain.FormOwnerName] != "Piotr Wiśniewski" {
		t.Fatal("clear must keep already applied form data")
	}
}

// A search superseded by Clear must not resurrect its results.
func TestOwnerFlowStaleCompletionAfterClearDiscarded(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	client := ports.Client{ID: uuid.New(), FirstName: "Jan", LastName: "Kowalski", Email: "jan@example.com", Phone: "+48601100100"}
	searcher := &funcSearcher{
		searchFn: func(domain.SearchField, string) (domain.SearchResults, error) {
			close(started)
			<-unblock
			return domain.SearchResults{Clients: []ports.Client{client}}, nil
		},
	}
	f := NewOwnerFlow(searcher, testLogger())

	done := make(chan Snapshot)
	go func() {
		snap, _ := f.Search(context.Background(), domain.FieldEmail, "jan")
		done <- snap
	}()
	<-started
	f.Clear()
	close(unblock)
	snap := <-done

	if snap.State != StateIdle {
		t.Fatalf("stale completion mutated state: %s", snap.State)
	}
	if len(snap.FormData) != 0 {
		t.Fatal("stale completion applied a patch")
	}
}

// A slow search must not clobber the outcome of a newer one.
func TestOwnerFlowSlowSearchDoesNotClobberNewer(t *testing.T) {
	started := make(chan struct{})
	unblock := make(chan struct{})
	client := ports.Client{ID: uuid.New(), FirstName: "Jan", LastName: "Kowalski", Email: "jan@example.com", Phone: "+48601100100"}
	searcher := &funcSearcher{
		searchFn: func(_ domain.SearchField, value string) (domain.SearchResults, error) {
			if value == "slow" {
				close(started)
				<-unblock
				return domain.SearchResults{Clients: []ports.Client{client}}, nil
			}
			return domain.SearchResults{}, nil
		},
	}
	f := NewOwnerFlow(searcher, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.Search(context.Background(), domain.FieldEmail, "slow")
	}()
	<-started

	snap, err := f.Search(context.Background(), domain.FieldEmail, "fast")
	if err != nil {
		t.Fatalf("newer search: %v", err)
	}
	if snap.State != StateNoMatch {
		t.Fatalf("expected noMatch from the newer search, got %s", snap.State)
	}

	close(unblock)
	<-done

	final := f.Snapshot()
	if final.State != StateNoMatch {
		t.Fatalf("stale search clobbered newer state: %+v", final)
	}
	if len(final.FormData) != 0 {
		t.Fatal("stale search applied a patch over the newer outcome")
	}
}

func TestCanTransitionTable(t *testing.T) {
	legal := [][2]State{
		{StateIdle, StateSearching},
		{StateSearching, StateFailed},
		{StateSearching, StateNoMatch},
		{StateSearching, StateSingleMatch},
		{StateSearching, StateMultiMatch},
		{StateMultiMatch, StateSingleMatch},
		{StateSingleMatch, StateResolved},
		{StateResolved, StateSearching},
		{StateResolved, StateIdle},
		{StateFailed, StateSearching},
	}
	for _, step := range legal {
		if !CanTransition(step[0], step[1]) {
			t.Errorf("%s -> %s must be legal", step[0], step[1])
		}
	}

	illegal := [][2]State{
		{StateIdle, StateResolved},
		{StateIdle, StateMultiMatch},
		{StateNoMatch, StateResolved},
		{StateFailed, StateSingleMatch},
		{StateResolved, StateMultiMatch},
	}
	for _, step := range illegal {
		if CanTransition(step[0], step[1]) {
			t.Errorf("%s -> %s must be illegal", step[0], step[1])
		}
	}
}
