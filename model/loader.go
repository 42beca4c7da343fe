package model

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/coursebuddy/style"
)

// slowAfter is when the indicator starts showing how long the reply takes.
const slowAfter = 3 * time.Second

// LoaderModel renders the typing indicator shown while the session is
// loading.
type LoaderModel struct {
	sp        spinner.Model
	active    bool
	startTime time.Time
	now       func() time.Time
}

// NewLoader constructs a LoaderModel with a Points spinner.
func NewLoader() LoaderModel {
	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = style.SpinnerStyle
	return LoaderModel{sp: sp, now: time.Now}
}

// SetActive starts or stops the indicator. Starting an already active
// indicator keeps its timer.
func (m *LoaderModel) SetActive(active bool) {
	if active && !m.active {
		m.startTime = m.now()
	}
	m.active = active
}

// Active reports whether the indicator is shown.
func (m LoaderModel) Active() bool { return m.active }

// Init satisfies tea.Model.
func (m LoaderModel) Init() tea.Cmd {
	return m.sp.Tick
}

// Update handles spinner ticks.
func (m LoaderModel) Update(teaMsg tea.Msg) (LoaderModel, tea.Cmd) {
	if v, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(v)
		return m, cmd
	}
	return m, nil
}

// View renders the indicator. Returns "" when inactive.
func (m LoaderModel) View() string {
	if !m.active {
		return ""
	}
	line := style.BotLabel.Render("◈ Course Buddy") + " " + m.sp.View()
	if elapsed := m.now().Sub(m.startTime); elapsed >= slowAfter {
		line += style.Hint.Render(fmt.Sprintf(" (%s)", formatElapsed(elapsed)))
	}
	return line
}

// formatElapsed renders a duration as a concise string.
// Examples: 3s, 1m 23s
func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}
