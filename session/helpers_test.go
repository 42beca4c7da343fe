package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/miosa/coursebuddy/client"
	"github.com/miosa/coursebuddy/logx"
)

func init() {
	logx.Discard()
}

// fakeClock is the subset of clockwork's fake clock these tests drive.
type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntil(n int)
}

// stubBackend answers from funcs and counts calls.
type stubBackend struct {
	mu           sync.Mutex
	search       func(ctx context.Context, query string) (*client.SearchResponse, error)
	suggest      func(ctx context.Context) ([]string, error)
	queries      []string
	suggestCalls int
}

func (b *stubBackend) Search(ctx context.Context, query string) (*client.SearchResponse, error) {
	b.mu.Lock()
	b.queries = append(b.queries, query)
	fn := b.search
	b.mu.Unlock()
	if fn == nil {
		return &client.SearchResponse{Status: StatusChat, Message: "ok"}, nil
	}
	return fn(ctx, query)
}

func (b *stubBackend) Suggestions(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	b.suggestCalls++
	fn := b.suggest
	b.mu.Unlock()
	if fn == nil {
		return []string{"Beginner courses", "Communication"}, nil
	}
	return fn(ctx)
}

func (b *stubBackend) searchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queries)
}

func (b *stubBackend) suggestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suggestCalls
}

// recorder collects listener events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func newController(t *testing.T, b *stubBackend) (*Controller, fakeClock, *recorder) {
	t.Helper()
	fc := clockwork.NewFakeClock()
	rec := &recorder{}
	c := New(b, WithClock(fc), WithListener(rec.listen))
	t.Cleanup(c.Close)
	return c, fc, rec
}

// waitFor polls the controller until cond holds.
func waitFor(t *testing.T, c *Controller, what string, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		s := c.Snapshot()
		if cond(s) {
			return s
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; last snapshot: %+v", what, s)
		}
		time.Sleep(time.Millisecond)
	}
}

// completeWelcome drives the welcome sequence of a fresh login to the end
// and waits for the suggestion fetch to finish.
func completeWelcome(t *testing.T, c *Controller, fc fakeClock) Snapshot {
	t.Helper()
	fc.BlockUntil(1)
	fc.Advance(welcomeFirstTyping)
	fc.BlockUntil(1)
	fc.Advance(welcomePause)
	fc.BlockUntil(1)
	fc.Advance(welcomeSecondTyping)
	waitFor(t, c, "welcome to finish", func(s Snapshot) bool { return !s.Welcoming })
	c.wg.Wait()
	return c.Snapshot()
}

// driveUntil advances the clock in small steps until cond holds. It suits
// tests that care about ordering rather than exact timings.
func driveUntil(t *testing.T, c *Controller, fc fakeClock, what string, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		s := c.Snapshot()
		if cond(s) {
			return s
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out driving clock to %s; last snapshot: %+v", what, s)
		}
		fc.Advance(100 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}
}

// loggedIn returns a controller past the welcome sequence.
func loggedIn(t *testing.T, b *stubBackend) (*Controller, fakeClock, *recorder) {
	t.Helper()
	c, fc, rec := newController(t, b)
	if err := c.Login("ana"); err != nil {
		t.Fatalf("login: %v", err)
	}
	completeWelcome(t, c, fc)
	return c, fc, rec
}

// dispatchAsync runs Dispatch in a goroutine and returns its result channel.
func dispatchAsync(c *Controller, raw string) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- c.Dispatch(context.Background(), raw) }()
	return errc
}

func receive(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not return")
		return nil
	}
}

func assertPending(t *testing.T, errc <-chan error) {
	t.Helper()
	select {
	case err := <-errc:
		t.Fatalf("dispatch returned early: %v", err)
	default:
	}
}

func botMessages(s Snapshot) int {
	n := 0
	for _, m := range s.Transcript {
		if m.Role == RoleBot {
			n++
		}
	}
	return n
}
