package session

import (
	"time"

	"github.com/miosa/coursebuddy/logx"
)

const (
	WelcomeGreeting = "Hello! I'm Course Buddy. I can help you find certification courses and learning paths tailored to your career goals."
	WelcomePrompt   = "Search for courses by skill, department, or job role."
)

const (
	welcomeFirstTyping  = 1000 * time.Millisecond
	welcomePause        = 600 * time.Millisecond
	welcomeSecondTyping = 1200 * time.Millisecond
)

// startWelcome launches the sequence for sess unless it already ran or the
// transcript is not empty. The first typing phase begins immediately.
func (c *Controller) startWelcome(sess *session) {
	err := c.mutate(sess, func(st *state) error {
		if st.welcomeStarted || len(st.transcript) > 0 {
			return errSkip
		}
		st.welcomeStarted = true
		st.welcoming = true
		st.loading = true
		return nil
	})
	if err != nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runWelcome(sess)
	}()
}

// runWelcome walks Typing1 → Posted1 → Pause → Typing2 → Posted2 →
// SuggestionsVisible. Each wait returns early on logout, and any change
// from a dead session is dropped by mutate.
func (c *Controller) runWelcome(sess *session) {
	ctx := sess.ctx

	if Sleep(ctx, c.clock, welcomeFirstTyping) != nil {
		return
	}
	if c.mutate(sess, func(st *state) error {
		st.append(Message{Role: RoleBot, Text: WelcomeGreeting})
		st.loading = false
		return nil
	}) != nil {
		return
	}

	if Sleep(ctx, c.clock, welcomePause) != nil {
		return
	}
	if c.mutate(sess, func(st *state) error {
		st.loading = true
		return nil
	}) != nil {
		return
	}

	if Sleep(ctx, c.clock, welcomeSecondTyping) != nil {
		return
	}
	if c.mutate(sess, func(st *state) error {
		st.append(Message{Role: RoleBot, Text: WelcomePrompt})
		st.loading = false
		st.welcoming = false
		return nil
	}) != nil {
		return
	}

	logx.Debug().Str("session", sess.id).Msg("welcome sequence complete")
	c.emit(EventFocusInput)
	c.revealSuggestions(sess)
}
