// Package msg defines the tea.Msg types dispatched within the Course Buddy
// client.
package msg

import "github.com/miosa/coursebuddy/session"

// -- Lifecycle --

// HealthResult from the backend health probe.
type HealthResult struct {
	Status  string
	Message string
	Err     error
}

// Online reports whether the probe succeeded.
func (h HealthResult) Online() bool { return h.Err == nil }

// RetryHealth schedules the next health probe.
type RetryHealth struct{}

// -- Session --

// SessionEvent carries a controller event into the program loop.
type SessionEvent struct {
	Event session.Event
}

// DispatchDone is returned when a dispatched query has completed or was
// refused.
type DispatchDone struct {
	Query string
	Err   error
}

// -- Auth --

// AuthSubmit is emitted by the login and signup forms with a non-empty
// display name.
type AuthSubmit struct {
	Name   string
	Signup bool
}

// AuthSwitch toggles between the login and signup forms.
type AuthSwitch struct{}

// -- Timer --

// TickMsg drives the toast expiry and typing indicator timer.
type TickMsg struct{}
