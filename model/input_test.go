package model

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m InputModel, k tea.KeyType) InputModel {
	updated, _ := m.Update(tea.KeyMsg{Type: k})
	return updated.(InputModel)
}

func TestInput_TabCyclesSuggestionsWithoutSending(t *testing.T) {
	m := NewInput()
	m.SetSuggestions([]string{"Python", "Cloud"})

	m = press(m, tea.KeyTab)
	if m.Value() != "Python" || m.ChipIndex() != 0 {
		t.Fatalf("want first chip, got %q (%d)", m.Value(), m.ChipIndex())
	}
	m = press(m, tea.KeyTab)
	if m.Value() != "Cloud" || m.ChipIndex() != 1 {
		t.Fatalf("want second chip, got %q (%d)", m.Value(), m.ChipIndex())
	}
	m = press(m, tea.KeyTab)
	if m.Value() != "Python" {
		t.Errorf("want wrap-around, got %q", m.Value())
	}
}

func TestInput_TabCompletesCommands(t *testing.T) {
	m := NewInput()
	m.SetCommands([]string{"/help", "/retry", "/logout"})
	m.SetSuggestions([]string{"Python"})
	m.SetValue("/re")

	m = press(m, tea.KeyTab)
	if m.Value() != "/retry" {
		t.Errorf("want /retry, got %q", m.Value())
	}
}

func TestInput_History(t *testing.T) {
	m := NewInput()
	m.Submit("first")
	m.Submit("second")

	m = press(m, tea.KeyUp)
	if m.Value() != "second" {
		t.Fatalf("want second, got %q", m.Value())
	}
	m = press(m, tea.KeyUp)
	if m.Value() != "first" {
		t.Fatalf("want first, got %q", m.Value())
	}
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)
	if m.Value() != "" {
		t.Errorf("want empty buffer past newest entry, got %q", m.Value())
	}
}

func TestInput_TypingDropsChipSelection(t *testing.T) {
	m := NewInput()
	m.Focus()
	m.SetSuggestions([]string{"Python"})
	m = press(m, tea.KeyTab)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	m = updated.(InputModel)
	if m.ChipIndex() != -1 {
		t.Errorf("want no chip selected after typing, got %d", m.ChipIndex())
	}
	if m.Value() != "Python!" {
		t.Errorf("want edited chip text kept, got %q", m.Value())
	}
}
