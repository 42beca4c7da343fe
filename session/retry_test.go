package session

import (
	"context"
	"errors"
	"testing"

	"github.com/miosa/coursebuddy/client"
)

func TestRetry_NoErrorNoText(t *testing.T) {
	c, fc, _ := loggedIn(t, &stubBackend{})
	errc := dispatchAsync(c, "python")
	fc.BlockUntil(1)
	fc.Advance(TypingDelay("ok"))
	if err := receive(t, errc); err != nil {
		t.Fatal(err)
	}
	if text, ok := c.Retry(); ok {
		t.Errorf("want no retry without errors, got %q", text)
	}
	if c.Snapshot().CanRetry {
		t.Error("want CanRetry=false")
	}
}

func TestRetry_ReturnsNewestUserInputAndChangesNothing(t *testing.T) {
	fail := true
	b := &stubBackend{}
	b.search = func(context.Context, string) (*client.SearchResponse, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return &client.SearchResponse{Status: StatusChat, Message: "ok"}, nil
	}
	c, fc, _ := loggedIn(t, b)

	errc := dispatchAsync(c, "python")
	fc.BlockUntil(1)
	fc.Advance(failurePause)
	if err := receive(t, errc); err != nil {
		t.Fatal(err)
	}

	fail = false
	errc = dispatchAsync(c, "golang")
	fc.BlockUntil(1)
	fc.Advance(TypingDelay("ok"))
	if err := receive(t, errc); err != nil {
		t.Fatal(err)
	}

	before := c.Snapshot()
	text, ok := c.Retry()
	if !ok || text != "golang" {
		t.Errorf("want %q, got %q (%v)", "golang", text, ok)
	}
	after := c.Snapshot()
	if after.Version != before.Version || len(after.Transcript) != len(before.Transcript) {
		t.Error("retry must not change the session")
	}
	if b.searchCount() != 2 {
		t.Errorf("retry must not resubmit, got %d searches", b.searchCount())
	}
}

func TestRetry_LoggedOut(t *testing.T) {
	c, _, _ := newController(t, &stubBackend{})
	if _, ok := c.Retry(); ok {
		t.Error("want false without a session")
	}
}
