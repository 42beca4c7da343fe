package model

import (
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/coursebuddy/style"
)

// ChipsModel renders the suggestion panel. Selection is driven by the
// composer's Tab cycling; chips never send anything themselves.
type ChipsModel struct {
	items    []string
	selected int // -1 = none
}

// NewChips returns an empty panel.
func NewChips() ChipsModel {
	return ChipsModel{selected: -1}
}

// SetItems replaces the chips. The selection is kept only if the list is
// unchanged.
func (m *ChipsModel) SetItems(items []string) {
	if !slices.Equal(items, m.items) {
		m.selected = -1
	}
	m.items = items
}

// Items returns the current chips.
func (m ChipsModel) Items() []string { return m.items }

// Select highlights the chip at i; out of range clears the highlight.
func (m *ChipsModel) Select(i int) {
	if i < 0 || i >= len(m.items) {
		i = -1
	}
	m.selected = i
}

// View renders the panel, or "" when there is nothing to show.
func (m ChipsModel) View(width int) string {
	if len(m.items) == 0 {
		return ""
	}
	var rows []string
	var row []string
	rowWidth := 0
	for i, it := range m.items {
		s := style.Chip
		if i == m.selected {
			s = style.ChipSelected
		}
		chip := s.Render(it)
		w := lipgloss.Width(chip)
		if rowWidth > 0 && rowWidth+w+1 > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		if rowWidth > 0 {
			row = append(row, " ")
			rowWidth++
		}
		row = append(row, chip)
		rowWidth += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))

	label := style.ChipsLabel.Render("Try searching for:") + style.Hint.Render("  (tab to pick)")
	return label + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}
