package session

import (
	"context"

	"github.com/miosa/coursebuddy/client"
)

// Role identifies who sent a message.
type Role int

const (
	RoleUser Role = iota
	RoleBot
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Message is one transcript entry. It is never modified after it has been
// appended; its position in the transcript identifies it.
type Message struct {
	Role      Role
	Text      string
	Courses   []client.Course
	MatchType string
	IsError   bool
}

// state is the mutable part of a session. Only Controller.mutate touches it.
type state struct {
	transcript     []Message
	loading        bool
	welcoming      bool
	welcomeStarted bool
	revealed       bool // welcome finished and asked for the suggestion panel
	userSent       bool
	hasError       bool
	suggestions    []string
}

func (s *state) append(m Message) {
	s.transcript = append(s.transcript, m)
	if m.Role == RoleUser {
		s.userSent = true
		s.suggestions = nil
	}
	if m.IsError {
		s.hasError = true
	}
}

// busy reports whether an exchange is in flight or the welcome sequence has
// not finished yet.
func (s *state) busy() bool {
	return s.loading || s.welcoming
}

func (s *state) suggestionsVisible() bool {
	return s.revealed && !s.userSent && len(s.transcript) <= 2
}

// lastUserInput returns the newest user message, provided some message in
// the transcript is an error.
func (s *state) lastUserInput() (string, bool) {
	if !s.hasError {
		return "", false
	}
	for i := len(s.transcript) - 1; i >= 0; i-- {
		if s.transcript[i].Role == RoleUser {
			return s.transcript[i].Text, true
		}
	}
	return "", false
}

// session is one login's worth of state. It is discarded on logout.
type session struct {
	id       string
	username string
	ctx      context.Context
	cancel   context.CancelFunc
	st       state
}

// Snapshot is a read-only copy of the session handed to presentation code.
type Snapshot struct {
	// Version increases with every mutation; older snapshots can be dropped.
	Version            uint64
	Active             bool
	SessionID          string
	Username           string
	Transcript         []Message
	Loading            bool
	Welcoming          bool
	SuggestionsVisible bool
	Suggestions        []string
	CanRetry           bool
}

// ShowSuggestionPanel reports whether there is anything to render in the
// suggestion panel.
func (s Snapshot) ShowSuggestionPanel() bool {
	return s.SuggestionsVisible && len(s.Suggestions) > 0
}

// HasError reports whether any transcript entry is flagged as an error.
func (s Snapshot) HasError() bool {
	for _, m := range s.Transcript {
		if m.IsError {
			return true
		}
	}
	return false
}

func (sess *session) snapshot(version uint64) Snapshot {
	st := &sess.st
	snap := Snapshot{
		Version:            version,
		Active:             true,
		SessionID:          sess.id,
		Username:           sess.username,
		Transcript:         append([]Message(nil), st.transcript...),
		Loading:            st.loading,
		Welcoming:          st.welcoming,
		SuggestionsVisible: st.suggestionsVisible(),
	}
	if snap.SuggestionsVisible {
		snap.Suggestions = append([]string(nil), st.suggestions...)
	}
	_, snap.CanRetry = st.lastUserInput()
	return snap
}
