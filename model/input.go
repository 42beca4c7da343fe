package model

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/coursebuddy/style"
)

// cycle walks a candidate list one Tab press at a time. pos is -1 until
// the first press.
type cycle struct {
	items []string
	pos   int
}

func (c *cycle) reset(items []string) {
	c.items = items
	c.pos = -1
}

func (c *cycle) next() (string, bool) {
	if len(c.items) == 0 {
		return "", false
	}
	c.pos = (c.pos + 1) % len(c.items)
	return c.items[c.pos], true
}

// InputModel is the composer. Up and Down walk the submit history. Tab
// completes a slash command when the buffer starts with "/" and otherwise
// places the next suggestion chip in the buffer. Nothing here sends.
type InputModel struct {
	field textinput.Model

	past   []string
	cursor int // len(past) while not browsing

	commands   []string
	completion cycle // live only between consecutive Tab presses
	chips      cycle
}

// NewInput returns an empty, unfocused composer.
func NewInput() InputModel {
	field := textinput.New()
	field.Placeholder = "Ask about courses, skills, or career paths..."
	field.CharLimit = 1000

	m := InputModel{field: field}
	m.completion.reset(nil)
	m.chips.reset(nil)
	return m
}

// SetCommands sets the slash commands offered by Tab.
func (m *InputModel) SetCommands(cmds []string) { m.commands = cmds }

// SetSuggestions replaces the chips Tab cycles through. A different list
// restarts the cycle.
func (m *InputModel) SetSuggestions(s []string) {
	if !slices.Equal(m.chips.items, s) {
		m.chips.reset(s)
	}
}

// ChipIndex is the chip currently placed in the buffer, or -1.
func (m InputModel) ChipIndex() int { return m.chips.pos }

func (m *InputModel) SetWidth(width int) { m.field.Width = max(width-4, 10) }

func (m *InputModel) Focus() tea.Cmd { return m.field.Focus() }

func (m *InputModel) Blur() { m.field.Blur() }

func (m InputModel) Focused() bool { return m.field.Focused() }

func (m InputModel) Value() string { return m.field.Value() }

// SetValue replaces the buffer, e.g. with a retried query.
func (m *InputModel) SetValue(s string) {
	m.put(s)
	m.completion.reset(nil)
	m.chips.pos = -1
}

// Reset empties the buffer and stops browsing history.
func (m *InputModel) Reset() {
	m.cursor = len(m.past)
	m.SetValue("")
}

// Submit records text in the history and empties the buffer.
func (m *InputModel) Submit(text string) {
	if text != "" {
		m.past = append(m.past, text)
	}
	m.Reset()
}

func (m *InputModel) put(s string) {
	m.field.SetValue(s)
	m.field.CursorEnd()
}

func (m InputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.field, cmd = m.field.Update(msg)
		return m, cmd
	}

	switch k.Type {
	case tea.KeyUp:
		m.browse(-1)
		return m, nil
	case tea.KeyDown:
		m.browse(1)
		return m, nil
	case tea.KeyTab:
		m.tab()
		return m, nil
	}

	m.completion.reset(nil)
	m.chips.pos = -1
	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	return m, cmd
}

func (m InputModel) View() string {
	return style.PromptChar.Render("❯ ") + m.field.View()
}

func (m *InputModel) browse(step int) {
	if len(m.past) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+step, 0), len(m.past))
	if m.cursor == len(m.past) {
		m.field.SetValue("")
		return
	}
	m.put(m.past[m.cursor])
}

func (m *InputModel) tab() {
	buf := m.field.Value()
	if !strings.HasPrefix(buf, "/") {
		if s, ok := m.chips.next(); ok {
			m.put(s)
		}
		return
	}
	if m.completion.pos == -1 {
		m.completion.reset(commandsWithPrefix(m.commands, buf))
	}
	if s, ok := m.completion.next(); ok {
		m.put(s)
	}
}

func commandsWithPrefix(commands []string, prefix string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
