package app

// State represents the current application screen.
type State int

const (
	StateLogin  State = iota // Sign-in form
	StateSignup              // Create-account form
	StateChat                // Conversation with an active session
)

func (s State) String() string {
	switch s {
	case StateLogin:
		return "login"
	case StateSignup:
		return "signup"
	case StateChat:
		return "chat"
	default:
		return "unknown"
	}
}
