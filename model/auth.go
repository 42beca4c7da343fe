package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/coursebuddy/msg"
	"github.com/miosa/coursebuddy/style"
)

// ErrUsernameRequired is shown under the field when the name is blank.
const ErrUsernameRequired = "Please enter a username"

// AuthModel is the login or signup form. Any non-empty display name is
// accepted; there is no server round-trip and no password.
type AuthModel struct {
	ti     textinput.Model
	signup bool
	err    string
	submit key.Binding
	swap   key.Binding
}

// NewAuth returns the login form, or the signup form when signup is set.
func NewAuth(signup bool) AuthModel {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 32
	m := AuthModel{
		ti:     ti,
		submit: key.NewBinding(key.WithKeys("enter")),
		swap:   key.NewBinding(key.WithKeys("ctrl+n", "tab")),
	}
	m.SetSignup(signup)
	return m
}

// SetSignup switches between the two forms, clearing any error.
func (m *AuthModel) SetSignup(signup bool) {
	m.signup = signup
	m.err = ""
	if signup {
		m.ti.Placeholder = "Choose a username"
	} else {
		m.ti.Placeholder = "Enter your username"
	}
}

// Signup reports which form is shown.
func (m AuthModel) Signup() bool { return m.signup }

// Err returns the validation message, if any.
func (m AuthModel) Err() string { return m.err }

// Reset clears the field and error.
func (m *AuthModel) Reset() {
	m.ti.SetValue("")
	m.err = ""
}

// Focus gives keyboard focus to the name field.
func (m *AuthModel) Focus() tea.Cmd {
	return m.ti.Focus()
}

// Init satisfies tea.Model.
func (m AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update validates on enter and emits msg.AuthSubmit, or msg.AuthSwitch on
// ctrl+n or tab.
func (m AuthModel) Update(teaMsg tea.Msg) (AuthModel, tea.Cmd) {
	if k, ok := teaMsg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.submit):
			name := strings.TrimSpace(m.ti.Value())
			if name == "" {
				m.err = ErrUsernameRequired
				return m, nil
			}
			signup := m.signup
			return m, func() tea.Msg { return msg.AuthSubmit{Name: name, Signup: signup} }
		case key.Matches(k, m.swap):
			return m, func() tea.Msg { return msg.AuthSwitch{} }
		}
		if m.signup {
			m.err = ""
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(teaMsg)
	return m, cmd
}

// View renders the form centred in width x height.
func (m AuthModel) View(width, height int) string {
	heading, button, footer := "Sign In", "Continue without Password", "New here? ctrl+n to create an account"
	if m.signup {
		heading, button, footer = "Create Account", "Get Started", "Already have an account? ctrl+n to log in"
	}

	lines := []string{
		style.AuthLogo.Render("CB"),
		"",
		style.HeaderTitle.Render("Course Buddy"),
		style.HeaderDetail.Render("Your AI Course Recommendation Assistant"),
		"",
		style.AuthTitle.Render(heading),
		"",
		"Username",
		m.ti.View(),
	}
	if m.err != "" {
		lines = append(lines, style.ErrorText.Render(m.err))
	}
	lines = append(lines,
		"",
		style.PromptChar.Render("⏎ "+button),
		"",
		style.Hint.Render(footer),
	)
	card := style.AuthCard.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
