package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/coursebuddy/markdown"
	"github.com/miosa/coursebuddy/session"
	"github.com/miosa/coursebuddy/style"
)

// ChatModel is a scrollable viewport that displays the transcript, the
// typing indicator and the suggestion panel.
type ChatModel struct {
	vp         viewport.Model
	transcript []session.Message
	rendered   []string // per-message cache; messages never change once appended
	footer     string
	width      int
	height     int
}

// NewChat constructs a ChatModel sized to width x height.
func NewChat(width, height int) ChatModel {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return ChatModel{
		vp:     vp,
		width:  width,
		height: height,
	}
}

// SetTranscript replaces the displayed transcript. Only messages appended
// since the last call are rendered.
func (m *ChatModel) SetTranscript(msgs []session.Message) {
	if len(msgs) < len(m.rendered) {
		m.rendered = nil
	}
	for i := len(m.rendered); i < len(msgs); i++ {
		m.rendered = append(m.rendered, renderMessage(msgs[i], m.width))
	}
	m.transcript = msgs
	m.refresh()
}

// SetFooter sets what is shown below the last message: the typing
// indicator or the suggestion panel.
func (m *ChatModel) SetFooter(s string) {
	if s == m.footer {
		return
	}
	m.footer = s
	m.refresh()
}

// SetSize resizes the underlying viewport and re-renders for the new width.
func (m *ChatModel) SetSize(width, height int) {
	if width != m.width {
		m.rendered = nil
	}
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.SetTranscript(m.transcript)
}

// Init satisfies tea.Model.
func (m ChatModel) Init() tea.Cmd {
	return nil
}

// Update forwards keyboard and mouse events to the viewport.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View returns the rendered viewport content.
func (m ChatModel) View() string {
	return m.vp.View()
}

// refresh re-renders all messages into the viewport and scrolls to the bottom.
func (m *ChatModel) refresh() {
	m.vp.SetContent(m.renderAll())
	m.vp.GotoBottom()
}

func (m *ChatModel) renderAll() string {
	parts := append([]string(nil), m.rendered...)
	if m.footer != "" {
		parts = append(parts, m.footer)
	}
	return strings.Join(parts, "\n\n")
}

// renderMessage converts a single transcript entry to a display string.
func renderMessage(msg session.Message, width int) string {
	bubbleWidth := width * 3 / 4
	if bubbleWidth < 30 {
		bubbleWidth = width
	}

	switch {
	case msg.Role == session.RoleUser:
		body := style.UserBubble.Width(bubbleWidth).Align(lipgloss.Right).Render(msg.Text)
		label := style.UserLabel.Render("You ❮")
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, label+"\n"+body)

	case msg.IsError:
		return style.BotLabel.Render("◈ Course Buddy") + "\n" +
			style.ErrBubble.Width(bubbleWidth).Render("⚠ "+msg.Text)

	default:
		var sb strings.Builder
		sb.WriteString(style.BotLabel.Render("◈ Course Buddy"))
		sb.WriteString("\n")
		body := markdown.RenderWidth(msg.Text, bubbleWidth-2)
		if len(msg.Courses) > 0 {
			cards := make([]string, len(msg.Courses))
			for i, c := range msg.Courses {
				cards[i] = NewCourseCard(c).View(bubbleWidth - 2)
			}
			body += "\n" + strings.Join(cards, "\n")
		}
		sb.WriteString(style.BotBubble.Render(body))
		return sb.String()
	}
}
