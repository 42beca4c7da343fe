package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/miosa/coursebuddy/client"
	"github.com/miosa/coursebuddy/logx"
)

// failurePause keeps transport errors paced like normal replies.
const failurePause = 1000 * time.Millisecond

// Dispatch sends one user query and appends exactly one bot reply.
//
// Blank input appends an inline error without touching the network. While
// an exchange or the welcome sequence is in flight the call is rejected
// with ErrBusy and nothing is appended. Transport failures (network, non-2xx
// status, malformed body, timeout) become a retryable error message after a
// fixed pause. Structured replies are held back until the simulated typing
// delay has passed, counting the time the request already took.
//
// Dispatch blocks until the reply is appended. It returns ErrSessionEnded
// if the session was logged out meanwhile.
func (c *Controller) Dispatch(ctx context.Context, raw string) error {
	sess := c.current()
	if sess == nil {
		return ErrNoSession
	}
	query := strings.TrimSpace(raw)

	var start time.Time
	err := c.mutate(sess, func(st *state) error {
		if st.busy() {
			return ErrBusy
		}
		if query == "" {
			st.append(Message{Role: RoleBot, Text: EmptyQueryText, IsError: true})
			return nil
		}
		st.append(Message{Role: RoleUser, Text: query})
		st.loading = true
		start = c.clock.Now()
		return nil
	})
	switch {
	case errors.Is(err, errStale):
		return ErrNoSession
	case err != nil:
		return err
	case query == "":
		return nil
	}
	c.emit(EventClearComposer)

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sess.ctx, cancel)
	defer stop()

	resp, err := c.backend.Search(reqCtx, query)
	if err != nil {
		ev := logx.Warn().Err(err).Str("session", sess.id)
		if apiErr, ok := client.IsAPIError(err); ok {
			ev = ev.Int("status", apiErr.Status)
		}
		ev.Msg("search failed")
		if Sleep(sess.ctx, c.clock, failurePause) != nil {
			return ErrSessionEnded
		}
		return c.finish(sess, Message{Role: RoleBot, Text: BusyRetryText, IsError: true})
	}

	delay := TypingDelay(ResponseText(resp))
	elapsed := c.clock.Since(start)
	if Sleep(sess.ctx, c.clock, delay-elapsed) != nil {
		return ErrSessionEnded
	}

	out := Classify(resp)
	logx.Debug().Str("session", sess.id).Str("status", resp.Status).Dur("elapsed", elapsed).Dur("typing", delay).Msg("search answered")
	return c.finish(sess, out.Message())
}

// finish appends the reply and ends the exchange.
func (c *Controller) finish(sess *session, m Message) error {
	err := c.mutate(sess, func(st *state) error {
		st.append(m)
		st.loading = false
		return nil
	})
	if err != nil {
		return ErrSessionEnded
	}
	return nil
}
