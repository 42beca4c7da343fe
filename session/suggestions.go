package session

import (
	"errors"

	"github.com/miosa/coursebuddy/logx"
)

// revealSuggestions turns the panel on and fetches its chips. The fetch
// happens only on an actual hidden→visible transition. Failures and empty
// lists are logged and otherwise ignored; a result that arrives after the
// panel went away is dropped.
func (c *Controller) revealSuggestions(sess *session) {
	err := c.mutate(sess, func(st *state) error {
		if st.revealed || st.userSent || len(st.transcript) > 2 {
			return errSkip
		}
		st.revealed = true
		return nil
	})
	if err != nil {
		return
	}

	list, err := c.backend.Suggestions(sess.ctx)
	if err != nil {
		logx.Warn().Err(err).Str("session", sess.id).Msg("suggestions fetch failed")
		return
	}
	if len(list) == 0 {
		logx.Debug().Str("session", sess.id).Msg("no suggestions returned")
		return
	}

	err = c.mutate(sess, func(st *state) error {
		if !st.suggestionsVisible() {
			return errSkip
		}
		st.suggestions = append([]string(nil), list...)
		return nil
	})
	if errors.Is(err, errSkip) {
		logx.Debug().Str("session", sess.id).Msg("suggestions arrived after panel closed")
	}
}
