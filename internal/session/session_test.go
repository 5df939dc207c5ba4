package session

import (
	"sync"
	"testing"
	"time"

	"github.com/Atig-Hamza/RecoleCheck/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRegistry_OpenLookupClose(t *testing.T) {
	r := NewRegistry(nil)

	s := r.Open("u1", "amina@example.com", time.Hour)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, StatusActive, s.Status)

	got, ok := r.Lookup(s.ID)
	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, 1, r.Active())

	closed, ok := r.Close(s.ID)
	require.True(t, ok)
	assert.Equal(t, StatusSignedOut, closed.Status)

	_, ok = r.Lookup(s.ID)
	assert.False(t, ok)

	_, ok = r.Close(s.ID)
	assert.False(t, ok, "second close reports nothing to close")
}

func TestRegistry_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	r := NewRegistry(clock.Now)

	var events []Status
	unsubscribe := r.Subscribe(func(s Session) { events = append(events, s.Status) })
	defer unsubscribe()

	s := r.Open("u1", "a@b.c", time.Minute)
	clock.Advance(59 * time.Second)
	_, ok := r.Lookup(s.ID)
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = r.Lookup(s.ID)
	assert.False(t, ok)
	assert.Zero(t, r.Active())

	assert.Equal(t, []Status{StatusActive, StatusExpired}, events)
}

func TestRegistry_ReapsAbandonedSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	r := NewRegistry(clock.Now)

	var expired int
	unsubscribe := r.Subscribe(func(s Session) {
		if s.Status == StatusExpired {
			expired++
		}
	})
	defer unsubscribe()

	for i := 0; i < 1000; i++ {
		r.Open("u1", "a@b.c", time.Minute)
	}
	require.Equal(t, 1000, r.Active())

	clock.Advance(24 * time.Hour)
	for i := 0; i < 10; i++ {
		r.Open("u2", "c@d.e", time.Hour)
	}

	assert.Equal(t, 10, r.Active())
	assert.Equal(t, 1000, expired)
}

func TestRegistry_ActiveDropsExpired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	r := NewRegistry(clock.Now)

	r.Open("u1", "a@b.c", time.Minute)
	r.Open("u2", "c@d.e", time.Hour)
	assert.Equal(t, 2, r.Active())

	// No Open runs in between, so only Active can notice the expiry.
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, r.Active())
}

func TestRegistry_SubscribeOrderAndUnsubscribe(t *testing.T) {
	r := NewRegistry(nil)

	var calls []string
	first := r.Subscribe(func(s Session) { calls = append(calls, "first:"+s.Status.String()) })
	second := r.Subscribe(func(s Session) { calls = append(calls, "second:"+s.Status.String()) })

	s := r.Open("u1", "a@b.c", time.Hour)
	first()
	first()
	r.Close(s.ID)
	second()
	r.Open("u2", "c@d.e", time.Hour)

	assert.Equal(t, []string{"first:active", "second:active", "second:signed_out"}, calls)
}

func TestRegistry_ListenerMayCallRegistry(t *testing.T) {
	r := NewRegistry(nil)

	var seen int
	r.Subscribe(func(s Session) {
		seen = r.Active()
	})

	r.Open("u1", "a@b.c", time.Hour)
	assert.Equal(t, 1, seen)
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	r := NewRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := r.Open("u", "a@b.c", time.Hour)
			_, _ = r.Lookup(s.ID)
			_, _ = r.Close(s.ID)
		}()
	}
	wg.Wait()

	assert.Zero(t, r.Active())
}

func TestLogTransitions(t *testing.T) {
	r := NewRegistry(nil)
	unsubscribe := r.Subscribe(LogTransitions(logger.New("test")))
	defer unsubscribe()

	s := r.Open("u1", "a@b.c", time.Hour)
	_, ok := r.Close(s.ID)
	assert.True(t, ok)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "active", StatusActive.String())
	assert.Equal(t, "signed_out", StatusSignedOut.String())
	assert.Equal(t, "expired", StatusExpired.String())
	assert.Equal(t, "unknown", Status(42).String())
}
