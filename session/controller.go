// Package session implements the conversational controller behind the chat
// screen: the scripted welcome, query dispatch with simulated typing time,
// response classification, the suggestion panel and retry assist.
//
// All state changes go through Controller.mutate, which holds the lock for
// the duration of one change and drops changes that belong to a session
// that has since been logged out. Timed waits and the one network call per
// dispatch happen outside the lock.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/miosa/coursebuddy/client"
	"github.com/miosa/coursebuddy/logx"
)

var (
	ErrEmptyName    = errors.New("display name is required")
	ErrNoSession    = errors.New("no active session")
	ErrBusy         = errors.New("an exchange is already in flight")
	ErrSessionEnded = errors.New("session ended before the exchange completed")

	errStale = errors.New("stale session")
	errSkip  = errors.New("skip")
)

// Backend is the part of the course backend the controller talks to.
// *client.Client implements it.
type Backend interface {
	Search(ctx context.Context, query string) (*client.SearchResponse, error)
	Suggestions(ctx context.Context) ([]string, error)
}

// EventKind tells a Listener what happened.
type EventKind int

const (
	// EventChanged follows every state change.
	EventChanged EventKind = iota
	// EventFocusInput asks the presentation layer to focus the composer.
	EventFocusInput
	// EventClearComposer asks the presentation layer to empty the composer
	// after a query was accepted.
	EventClearComposer
)

// Event is delivered to the Listener outside the controller lock.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
}

// Listener receives controller events. It may be called from any goroutine.
type Listener func(Event)

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock, e.g. with clockwork.NewFakeClock().
func WithClock(clk clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// WithListener sets the initial listener.
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

// Controller owns the current session and drives the welcome sequence,
// dispatches and the suggestion fetch.
type Controller struct {
	backend Backend
	clock   clockwork.Clock

	mu       sync.Mutex
	cur      *session
	version  uint64
	listener Listener

	// wg tracks background goroutines (welcome and suggestion fetch).
	wg sync.WaitGroup
}

// New returns a Controller with no active session.
func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetListener replaces the listener.
func (c *Controller) SetListener(l Listener) {
	c.mu.Lock()
	c.listener = l
	c.mu.Unlock()
}

// Login starts a fresh session for name, tearing down any current one, and
// starts the welcome sequence in the background.
func (c *Controller) Login(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:       uuid.NewString(),
		username: name,
		ctx:      ctx,
		cancel:   cancel,
	}

	c.mu.Lock()
	prev := c.cur
	if prev != nil {
		prev.cancel()
	}
	c.cur = sess
	c.version++
	c.mu.Unlock()

	if prev != nil {
		logx.Info().Str("session", prev.id).Msg("session replaced")
	}
	logx.Info().Str("session", sess.id).Str("user", name).Msg("session started")
	c.emit(EventChanged)
	c.startWelcome(sess)
	return nil
}

// Logout destroys the current session. Background work belonging to it
// stops at its next resume point without touching any state.
func (c *Controller) Logout() {
	c.mu.Lock()
	sess := c.cur
	c.cur = nil
	if sess != nil {
		sess.cancel()
		c.version++
	}
	c.mu.Unlock()

	if sess == nil {
		return
	}
	logx.Info().Str("session", sess.id).Msg("session ended")
	c.emit(EventChanged)
}

// Close logs out and waits for background goroutines to return.
func (c *Controller) Close() {
	c.Logout()
	c.wg.Wait()
}

// Welcome re-arms the welcome sequence on the current session. It is a
// no-op once the sequence has started or the transcript is non-empty.
func (c *Controller) Welcome() {
	if sess := c.current(); sess != nil {
		c.startWelcome(sess)
	}
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return Snapshot{Version: c.version}
	}
	return c.cur.snapshot(c.version)
}

func (c *Controller) current() *session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// mutate is the single mutation entry point. fn runs under the lock against
// sess's state, but only while sess is the live session. A non-nil error
// from fn leaves the version untouched and is returned as is.
func (c *Controller) mutate(sess *session, fn func(st *state) error) error {
	c.mu.Lock()
	if c.cur != sess || sess.ctx.Err() != nil {
		c.mu.Unlock()
		return errStale
	}
	if err := fn(&sess.st); err != nil {
		c.mu.Unlock()
		return err
	}
	c.version++
	c.mu.Unlock()

	c.emit(EventChanged)
	return nil
}

func (c *Controller) emit(kind EventKind) {
	c.mu.Lock()
	l := c.listener
	c.mu.Unlock()
	if l == nil {
		return
	}
	l(Event{Kind: kind, Snapshot: c.Snapshot()})
}
