package model

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/coursebuddy/msg"
	"github.com/miosa/coursebuddy/style"
)

// HeaderModel renders the one-line chat header:
//
//	◈ Course Buddy · ● Online                       ana · ctrl+l logout
//
// The status comes from the health probe; until the first result it reads
// "Connecting".
type HeaderModel struct {
	checked  bool
	online   bool
	username string
	width    int
}

// NewHeader returns a header in the connecting state.
func NewHeader() HeaderModel {
	return HeaderModel{width: 80}
}

// SetHealth records the latest probe result.
func (m *HeaderModel) SetHealth(h msg.HealthResult) {
	m.checked = true
	m.online = h.Online()
}

// Online reports the last known backend status.
func (m HeaderModel) Online() bool { return m.online }

// SetUsername sets the display name shown on the right.
func (m *HeaderModel) SetUsername(name string) {
	m.username = name
}

// SetWidth sets the terminal width used for right alignment.
func (m *HeaderModel) SetWidth(w int) {
	m.width = w
}

// View renders the header line.
func (m HeaderModel) View() string {
	sep := style.HeaderDetail.Render(" · ")

	var status string
	switch {
	case !m.checked:
		status = style.HeaderDetail.Render("○ Connecting")
	case m.online:
		status = style.StatusOnline.Render("● Online")
	default:
		status = style.StatusOffline.Render("● Offline")
	}
	left := style.HeaderTitle.Render("◈ Course Buddy") + sep + status

	right := style.Hint.Render("ctrl+l logout")
	if m.username != "" {
		right = style.Bold.Render(m.username) + sep + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}
