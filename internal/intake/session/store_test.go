package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	domevents "detailing_portal_backend/internal/events"
	"detailing_portal_backend/internal/intake/domain"
	"detailing_portal_backend/internal/intake/ports"
	"detailing_portal_backend/platform/apperr"
	"detailing_portal_backend/platform/events"
	"detailing_portal_backend/platform/logger"
)

type nopSearcher struct{}

func (nopSearcher) SearchByField(ctx context.Context, field domain.SearchField, value string) (domain.SearchResults, error) {
	return domain.SearchResults{}, nil
}

func (nopSearcher) VehiclesForClient(ctx context.Context, clientID uuid.UUID) ([]ports.Vehicle, error) {
	return nil, nil
}

// recordingBus captures published event names synchronously.
type recordingBus struct {
	mu    sync.Mutex
	names []string
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	b.names = append(b.names, event.EventName())
	b.mu.Unlock()
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recordingBus) count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, got := range b.names {
		if got == name {
			n++
		}
	}
	return n
}

func newStore(ttl time.Duration) (*Store, *recordingBus) {
	bus := &recordingBus{}
	return NewStore(nopSearcher{}, ttl, logger.New("test"), bus), bus
}

func TestCreateAndGet(t *testing.T) {
	store, bus := newStore(time.Minute)

	sess := store.Create(context.Background())
	if sess.Owner == nil || sess.Vehicle == nil {
		t.Fatal("a session must carry both flows")
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != sess.ID {
		t.Fatalf("expected session %s, got %s", sess.ID, got.ID)
	}
	if bus.count(domevents.SessionStartedName) != 1 {
		t.Fatal("session start must be published")
	}
}

func TestGetUnknownSession(t *testing.T) {
	store, _ := newStore(time.Minute)

	_, err := store.Get(uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestGetExpiredSession(t *testing.T) {
	store, _ := newStore(time.Minute)
	sess := store.Create(context.Background())

	// Move the clock past the TTL.
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := store.Get(sess.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expired session must read as gone, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("expired session must be dropped on access")
	}
}

func TestGetRefreshesIdleTimer(t *testing.T) {
	store, _ := newStore(time.Minute)
	sess := store.Create(context.Background())

	base := time.Now()
	// Touch at 45s, then read again at 80s: still within TTL of the touch.
	store.now = func() time.Time { return base.Add(45 * time.Second) }
	if _, err := store.Get(sess.ID); err != nil {
		t.Fatalf("Get at 45s: %v", err)
	}
	store.now = func() time.Time { return base.Add(80 * time.Second) }
	if _, err := store.Get(sess.ID); err != nil {
		t.Fatalf("an active session must not expire: %v", err)
	}
}

func TestPrunePublishesExpiry(t *testing.T) {
	store, bus := newStore(time.Minute)
	store.Create(context.Background())
	store.Create(context.Background())
	kept := store.Create(context.Background())

	base := time.Now()
	store.now = func() time.Time { return base.Add(30 * time.Second) }
	if _, err := store.Get(kept.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}

	store.now = func() time.Time { return base.Add(75 * time.Second) }
	if n := store.Prune(context.Background()); n != 2 {
		t.Fatalf("expected 2 pruned, got %d", n)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 survivor, got %d", store.Len())
	}
	if bus.count(domevents.SessionExpiredName) != 2 {
		t.Fatal("each pruned session must publish an expiry event")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, _ := newStore(time.Minute)
	sess := store.Create(context.Background())

	store.Delete(sess.ID)
	store.Delete(sess.ID)
	if store.Len() != 0 {
		t.Fatal("session must be gone")
	}
}

func TestConcurrentAccess(t *testing.T) {
	store, _ := newStore(time.Minute)
	sess := store.Create(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Get(sess.ID)
			store.Create(context.Background())
			store.Prune(context.Background())
		}()
	}
	wg.Wait()
}
