package model

import (
	"strings"

	"github.com/miosa/coursebuddy/style"
)

// StatusModel renders the hint line under the composer. The retry hint is
// only shown while the transcript holds an error message.
type StatusModel struct {
	canRetry bool
	loading  bool
	hasChips bool
}

// NewStatus returns a zero-value StatusModel.
func NewStatus() StatusModel {
	return StatusModel{}
}

// Set updates the flags the hints depend on.
func (m *StatusModel) Set(canRetry, loading, hasChips bool) {
	m.canRetry = canRetry
	m.loading = loading
	m.hasChips = hasChips
}

// View renders the hint line.
func (m StatusModel) View() string {
	var hints []string
	if m.canRetry {
		hints = append(hints, style.RetryHint.Render("🔄 ctrl+r retry"))
	}
	if m.hasChips {
		hints = append(hints, style.Hint.Render("tab suggestions"))
	}
	if m.loading {
		hints = append(hints, style.Hint.Render("waiting for reply…"))
	} else {
		hints = append(hints, style.Hint.Render("enter send"))
	}
	hints = append(hints, style.Hint.Render("/help"))
	return " " + strings.Join(hints, style.Hint.Render(" · "))
}
