package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/coursebuddy/client"
	"github.com/miosa/coursebuddy/logx"
	"github.com/miosa/coursebuddy/model"
	"github.com/miosa/coursebuddy/msg"
	"github.com/miosa/coursebuddy/session"
	"github.com/miosa/coursebuddy/style"
)

const (
	healthRetry    = 5 * time.Second
	healthInterval = 30 * time.Second
	healthTimeout  = 3 * time.Second
)

// Toast texts.
const (
	busyText        = "Still waiting for the last reply"
	nothingToRetry  = "Nothing to retry"
	retryFilledText = "Last query restored, press enter to resend"
	offlineText     = "Backend offline, replies may fail"
)

var slashCommands = []string{"/help", "/retry", "/logout", "/exit"}

// Controller is the session controller the program drives.
// *session.Controller implements it.
type Controller interface {
	Login(name string) error
	Logout()
	Snapshot() session.Snapshot
	Dispatch(ctx context.Context, raw string) error
	Retry() (string, bool)
	SetListener(l session.Listener)
}

// HealthChecker probes the backend. *client.Client implements it.
type HealthChecker interface {
	Health(ctx context.Context) (*client.HealthResponse, error)
}

// ProgramReady is sent once the program runs, so controller events can be
// forwarded into it.
type ProgramReady struct{ Program *tea.Program }

type Model struct {
	header  model.HeaderModel
	auth    model.AuthModel
	chat    model.ChatModel
	input   model.InputModel
	loader  model.LoaderModel
	chips   model.ChipsModel
	status  model.StatusModel
	toasts  model.ToastsModel
	state   State
	ctrl    Controller
	health  HealthChecker
	snap    session.Snapshot
	pending string // query whose ClearComposer event has not arrived yet
	keys    KeyMap
	width   int
	height  int

	showHelp    bool
	confirmQuit bool

	// loggedOut is closed once the last logout command has run. Login
	// waits on it so a quick logout and login cannot run out of order.
	loggedOut <-chan struct{}
}

func New(ctrl Controller, health HealthChecker) Model {
	input := model.NewInput()
	input.SetCommands(slashCommands)
	return Model{
		header: model.NewHeader(), auth: model.NewAuth(false), chat: model.NewChat(80, 20),
		input: input, loader: model.NewLoader(), chips: model.NewChips(), status: model.NewStatus(),
		toasts: model.NewToasts(), state: StateLogin, ctrl: ctrl, health: health,
		keys: DefaultKeyMap(), width: 80, height: 24,
	}
}

// Bind forwards controller events to send. main binds it to Program.Send.
func (m Model) Bind(send func(tea.Msg)) {
	m.ctrl.SetListener(func(e session.Event) {
		send(msg.SessionEvent{Event: e})
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkHealth(), m.auth.Focus(), m.loader.Init(), m.tickCmd(), tea.WindowSize())
}

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.header.SetWidth(v.Width)
		m.input.SetWidth(v.Width)
		m.chat.SetSize(v.Width, m.chatHeight())
		m.refreshFooter()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(v)
	case tea.MouseMsg:
		updated, cmd := m.chat.Update(v)
		if c, ok := updated.(model.ChatModel); ok {
			m.chat = c
		}
		return m, cmd
	case ProgramReady:
		m.Bind(v.Program.Send)
		return m, nil
	case msg.HealthResult:
		return m.handleHealth(v)
	case msg.RetryHealth:
		return m, m.checkHealth()
	case msg.AuthSwitch:
		return m.switchAuth()
	case msg.AuthSubmit:
		return m.login(v)
	case msg.SessionEvent:
		return m.handleSessionEvent(v.Event)
	case msg.DispatchDone:
		return m.handleDispatchDone(v)
	case msg.TickMsg:
		m.toasts.Tick()
		m.refreshFooter()
		return m, m.tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(v)
		if m.loader.Active() {
			m.refreshFooter()
		}
		return m, cmd
	}

	if m.state != StateChat {
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(rawMsg)
		return m, cmd
	}
	updated, cmd := m.input.Update(rawMsg)
	if inp, ok := updated.(model.InputModel); ok {
		m.input = inp
	}
	return m, cmd
}

func (m Model) View() string {
	var sections []string
	switch m.state {
	case StateLogin, StateSignup:
		sections = append(sections, m.auth.View(m.width, m.height-m.toastLines()))
	case StateChat:
		sections = append(sections, m.header.View())
		sections = append(sections, style.Hint.Render(strings.Repeat("─", max(m.width, 1))))
		sections = append(sections, m.chat.View())
		if m.showHelp {
			sections = append(sections, helpText())
		}
		sections = append(sections, m.input.View())
		sections = append(sections, m.status.View())
	}
	if m.toasts.HasToasts() {
		sections = append(sections, m.toasts.View(m.width))
	}
	if m.confirmQuit {
		sections = append(sections, "  Press Ctrl+C again to quit, or any key to cancel.")
	}
	return strings.Join(sections, "\n")
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmQuit {
		if key.Matches(k, m.keys.Cancel) {
			return m, tea.Quit
		}
		m.confirmQuit = false
		return m, nil
	}
	if m.state != StateChat {
		if key.Matches(k, m.keys.Cancel) || key.Matches(k, m.keys.QuitEOF) {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(k)
		return m, cmd
	}
	m.showHelp = false

	switch {
	case key.Matches(k, m.keys.Escape):
		m.input.Reset()
		return m, nil
	case key.Matches(k, m.keys.Cancel):
		if m.input.Value() == "" {
			m.confirmQuit = true
			return m, nil
		}
		m.input.Reset()
		return m, nil
	case key.Matches(k, m.keys.QuitEOF):
		if m.input.Value() == "" {
			return m, tea.Quit
		}
	case key.Matches(k, m.keys.Retry):
		return m.retry()
	case key.Matches(k, m.keys.Logout):
		return m.logout()
	case key.Matches(k, m.keys.PageUp), key.Matches(k, m.keys.PageDown):
		updated, cmd := m.chat.Update(k)
		if c, ok := updated.(model.ChatModel); ok {
			m.chat = c
		}
		return m, cmd
	case key.Matches(k, m.keys.Submit):
		return m.submitInput(m.input.Value())
	}

	if m.snap.Loading {
		return m, nil
	}
	updated, cmd := m.input.Update(k)
	if inp, ok := updated.(model.InputModel); ok {
		m.input = inp
	}
	m.chips.Select(m.input.ChipIndex())
	m.refreshFooter()
	return m, cmd
}

// submitInput handles slash commands locally and sends everything else,
// including blank input, to the controller.
func (m Model) submitInput(raw string) (Model, tea.Cmd) {
	text := strings.TrimSpace(raw)
	switch text {
	case "/exit", "/quit":
		return m, tea.Quit
	case "/help":
		m.input.Submit(text)
		m.showHelp = true
		return m, nil
	case "/retry":
		m.input.Reset()
		return m.retry()
	case "/logout":
		m.input.Reset()
		return m.logout()
	}

	if m.snap.Loading || m.snap.Welcoming {
		m.toasts.Add(busyText, model.ToastWarning)
		return m, nil
	}
	m.pending = text
	return m, m.dispatch(raw)
}

func (m Model) retry() (Model, tea.Cmd) {
	text, ok := m.ctrl.Retry()
	if !ok {
		m.toasts.Add(nothingToRetry, model.ToastInfo)
		return m, nil
	}
	m.input.SetValue(text)
	m.toasts.Add(retryFilledText, model.ToastInfo)
	return m, m.input.Focus()
}

func (m Model) switchAuth() (Model, tea.Cmd) {
	if m.state == StateLogin {
		m.state = StateSignup
	} else if m.state == StateSignup {
		m.state = StateLogin
	}
	m.auth.SetSignup(m.state == StateSignup)
	return m, nil
}

func (m Model) login(a msg.AuthSubmit) (Model, tea.Cmd) {
	m.state = StateChat
	m.header.SetUsername(a.Name)
	m.auth.Reset()
	m.input.Reset()
	m.input.Blur()
	m.showHelp = false
	m.pending = ""
	m.chat.SetTranscript(nil)
	m.chat.SetSize(m.width, m.chatHeight())

	ctrl := m.ctrl
	name := a.Name
	wait := m.loggedOut
	return m, func() tea.Msg {
		if wait != nil {
			<-wait
		}
		if err := ctrl.Login(name); err != nil {
			logx.Warn().Err(err).Msg("login rejected")
		}
		return nil
	}
}

func (m Model) logout() (Model, tea.Cmd) {
	m.state = StateLogin
	m.header.SetUsername("")
	m.auth.SetSignup(false)
	m.auth.Reset()
	m.input.Reset()
	m.toasts.Clear()
	m.pending = ""

	ctrl := m.ctrl
	done := make(chan struct{})
	m.loggedOut = done
	return m, tea.Batch(m.auth.Focus(), func() tea.Msg {
		defer close(done)
		ctrl.Logout()
		return nil
	})
}

func (m Model) dispatch(raw string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return msg.DispatchDone{Query: raw, Err: ctrl.Dispatch(context.Background(), raw)}
	}
}

func (m Model) handleDispatchDone(d msg.DispatchDone) (Model, tea.Cmd) {
	switch {
	case errors.Is(d.Err, session.ErrBusy):
		m.toasts.Add(busyText, model.ToastWarning)
		return m, nil
	case d.Err != nil:
		logx.Debug().Err(d.Err).Msg("dispatch ended without reply")
		return m, nil
	}
	if m.state != StateChat {
		return m, nil
	}
	return m, m.input.Focus()
}

func (m Model) handleSessionEvent(e session.Event) (Model, tea.Cmd) {
	if e.Snapshot.Version < m.snap.Version {
		return m, nil
	}
	m.applySnapshot(e.Snapshot)

	switch e.Kind {
	case session.EventFocusInput:
		if m.state == StateChat {
			return m, m.input.Focus()
		}
	case session.EventClearComposer:
		m.input.Submit(m.pending)
		m.pending = ""
	}
	return m, nil
}

func (m *Model) applySnapshot(s session.Snapshot) {
	m.snap = s
	if !s.Active {
		m.chat.SetTranscript(nil)
		m.loader.SetActive(false)
		m.chips.SetItems(nil)
		m.input.SetSuggestions(nil)
		return
	}
	m.chat.SetTranscript(s.Transcript)
	m.loader.SetActive(s.Loading)
	if s.ShowSuggestionPanel() {
		m.chips.SetItems(s.Suggestions)
		m.input.SetSuggestions(s.Suggestions)
	} else {
		m.chips.SetItems(nil)
		m.input.SetSuggestions(nil)
	}
	m.status.Set(s.CanRetry, s.Loading, s.ShowSuggestionPanel())
	if s.Loading {
		m.input.Blur()
	}
	m.refreshFooter()
}

// refreshFooter puts the typing indicator or the suggestion panel under
// the last message.
func (m *Model) refreshFooter() {
	switch {
	case m.loader.Active():
		m.chat.SetFooter(m.loader.View())
	default:
		m.chat.SetFooter(m.chips.View(m.width))
	}
}

func (m Model) handleHealth(h msg.HealthResult) (Model, tea.Cmd) {
	wasOnline := m.header.Online()
	m.header.SetHealth(h)
	if h.Err != nil {
		logx.Debug().Err(h.Err).Msg("health check failed")
		if wasOnline && m.state == StateChat {
			m.toasts.Add(offlineText, model.ToastError)
		}
		return m, tea.Tick(healthRetry, func(time.Time) tea.Msg { return msg.RetryHealth{} })
	}
	return m, tea.Tick(healthInterval, func(time.Time) tea.Msg { return msg.RetryHealth{} })
}

func (m Model) checkHealth() tea.Cmd {
	h := m.health
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		resp, err := h.Health(ctx)
		if err != nil {
			return msg.HealthResult{Err: err}
		}
		return msg.HealthResult{Status: resp.Status, Message: resp.Message}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return msg.TickMsg{} })
}

func (m Model) toastLines() int {
	if !m.toasts.HasToasts() {
		return 0
	}
	return lipgloss.Height(m.toasts.View(m.width))
}

// chatHeight calculates available lines for the chat viewport.
func (m Model) chatHeight() int {
	reserved := 2 // header + separator
	reserved += 2 // input + hints
	return max(m.height-reserved, 3)
}

func helpText() string {
	return style.Faint.Render(`Commands:
  /help     Show this help
  /retry    Put the last query back into the input
  /logout   End the session
  /exit     Quit

Keybindings:
  enter     Send            tab       Pick a suggestion / complete a command
  ctrl+r    Retry           ctrl+l    Logout
  pgup/pgdn Scroll          esc       Clear input
  ctrl+c    Clear / quit    ctrl+d    Quit`)
}
