package session

import (
	"context"
	"errors"
	"testing"
)

func TestSuggestions_FailureIsSilent(t *testing.T) {
	b := &stubBackend{suggest: func(context.Context) ([]string, error) {
		return nil, errors.New("down")
	}}
	c, _, _ := loggedIn(t, b)

	s := c.Snapshot()
	if s.ShowSuggestionPanel() {
		t.Error("want no panel after failed fetch")
	}
	if s.HasError() || len(s.Transcript) != 2 {
		t.Errorf("failure must not reach the transcript, got %+v", s.Transcript)
	}
}

func TestSuggestions_EmptyListHidesPanel(t *testing.T) {
	b := &stubBackend{suggest: func(context.Context) ([]string, error) { return []string{}, nil }}
	c, _, _ := loggedIn(t, b)
	if c.Snapshot().ShowSuggestionPanel() {
		t.Error("want no panel for empty suggestions")
	}
}

func TestSuggestions_HiddenAfterFirstMessage(t *testing.T) {
	b := &stubBackend{}
	c, fc, _ := loggedIn(t, b)
	if !c.Snapshot().ShowSuggestionPanel() {
		t.Fatal("want panel after welcome")
	}

	errc := dispatchAsync(c, "python")
	fc.BlockUntil(1)
	if s := c.Snapshot(); s.SuggestionsVisible || len(s.Suggestions) != 0 {
		t.Errorf("want panel hidden once the user sent a message, got %+v", s)
	}
	fc.Advance(TypingDelay("ok"))
	if err := receive(t, errc); err != nil {
		t.Fatal(err)
	}
	if c.Snapshot().ShowSuggestionPanel() {
		t.Error("panel must stay hidden")
	}
	if b.suggestCount() != 1 {
		t.Errorf("want 1 fetch, got %d", b.suggestCount())
	}
}

func TestSuggestions_LateResultNeverReshowsPanel(t *testing.T) {
	fetched := make(chan struct{})
	release := make(chan struct{})
	b := &stubBackend{suggest: func(context.Context) ([]string, error) {
		close(fetched)
		<-release
		return []string{"Beginner courses"}, nil
	}}
	c, fc, _ := newController(t, b)
	if err := c.Login("ana"); err != nil {
		t.Fatal(err)
	}
	fc.BlockUntil(1)
	fc.Advance(welcomeFirstTyping)
	fc.BlockUntil(1)
	fc.Advance(welcomePause)
	fc.BlockUntil(1)
	fc.Advance(welcomeSecondTyping)
	<-fetched

	errc := dispatchAsync(c, "python")
	waitFor(t, c, "user message", func(s Snapshot) bool { return len(s.Transcript) == 3 })
	close(release)
	c.wg.Wait()

	if s := c.Snapshot(); s.SuggestionsVisible || len(s.Suggestions) != 0 {
		t.Errorf("late suggestions must be dropped, got %+v", s)
	}
	fc.BlockUntil(1)
	fc.Advance(TypingDelay("ok"))
	if err := receive(t, errc); err != nil {
		t.Fatal(err)
	}
}
