package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miosa/coursebuddy/client"
)

func TestDispatch_NoSession(t *testing.T) {
	c, _, _ := newController(t, &stubBackend{})
	if err := c.Dispatch(context.Background(), "python"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("want ErrNoSession, got %v", err)
	}
}

func TestDispatch_EmptyQueryStaysLocal(t *testing.T) {
	b := &stubBackend{}
	c, _, rec := loggedIn(t, b)
	before := len(c.Snapshot().Transcript)

	if err := c.Dispatch(context.Background(), "   \t "); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	s := c.Snapshot()
	if len(s.Transcript) != before+1 {
		t.Fatalf("want 1 appended message, got %d", len(s.Transcript)-before)
	}
	last := s.Transcript[len(s.Transcript)-1]
	if last.Role != RoleBot || !last.IsError || last.Text != EmptyQueryText {
		t.Errorf("want inline validation error, got %+v", last)
	}
	if s.Loading {
		t.Error("want loading=false")
	}
	if b.searchCount() != 0 {
		t.Errorf("want no search, got %d", b.searchCount())
	}
	if rec.count(EventClearComposer) != 0 {
		t.Error("composer must not be cleared for empty input")
	}
	if _, ok := c.Retry(); ok {
		t.Error("want no retry without a user message")
	}
}

func TestDispatch_BusyDuringWelcome(t *testing.T) {
	b := &stubBackend{}
	c, fc, _ := newController(t, b)
	if err := c.Login("ana"); err != nil {
		t.Fatal(err)
	}
	fc.BlockUntil(1)
	if err := c.Dispatch(context.Background(), "python"); !errors.Is(err, ErrBusy) {
		t.Fatalf("want ErrBusy, got %v", err)
	}
	if n := len(c.Snapshot().Transcript); n != 0 {
		t.Errorf("want nothing appended, got %d messages", n)
	}
	// Still busy in the pause between the two welcome messages.
	fc.Advance(welcomeFirstTyping)
	fc.BlockUntil(1)
	if err := c.Dispatch(context.Background(), "python"); !errors.Is(err, ErrBusy) {
		t.Fatalf("pause: want ErrBusy, got %v", err)
	}
	if b.searchCount() != 0 {
		t.Errorf("want no search, got %d", b.searchCount())
	}
}

func TestDispatch_BusyWhileLoading(t *testing.T) {
	release := make(chan struct{})
	b := &stubBackend{search: func(ctx context.Context, _ string) (*client.SearchResponse, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return &client.SearchResponse{Status: StatusChat, Message: "hello"}, nil
	}}
	c, fc, _ := loggedIn(t, b)

	errc := dispatchAsync(c, "first")
	waitFor(t, c, "loading", func(s Snapshot) bool { return s.Loading })

	if err := c.Dispatch(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("want ErrBusy, got %v", err)
	}
	if err := c.Dispatch(context.Background(), ""); !errors.Is(err, ErrBusy) {
		t.Fatalf("empty while loading: want ErrBusy, got %v", err)
	}

	close(release)
	fc.BlockUntil(1)
	fc.Advance(TypingDelay("hello"))
	if err := receive(t, errc); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	s := c.Snapshot()
	if len(s.Transcript) != 4 {
		t.Fatalf("want welcome + one exchange, got %d messages", len(s.Transcript))
	}
	if s.Transcript[2].Text != "first" || s.Transcript[3].Text != "hello" {
		t.Errorf("unexpected exchange: %+v", s.Transcript[2:])
	}
	if b.searchCount() != 1 {
		t.Errorf("want 1 search, got %d", b.searchCount())
	}
}

func TestDispatch_MatchedDefaultsAndTiming(t *testing.T) {
	courses := []client.Course{
		{client.FieldCourseName: "Python Basics"},
		{client.FieldCourseName: "Python Data"},
		{client.FieldCourseName: "Python Web"},
	}
	b := &stubBackend{search: func(context.Context, string) (*client.SearchResponse, error) {
		return &client.SearchResponse{
			Status:       StatusSuccess,
			Courses:      courses,
			MatchedType:  "skill",
			TotalResults: 3,
		}, nil
	}}
	c, fc, rec := loggedIn(t, b)

	errc := dispatchAsync(c, "  python  ")
	fc.BlockUntil(1)

	s := c.Snapshot()
	if !s.Loading || s.SuggestionsVisible || len(s.Suggestions) != 0 {
		t.Fatalf("want loading with suggestions hidden, got %+v", s)
	}
	if got := s.Transcript[len(s.Transcript)-1]; got.Role != RoleUser || got.Text != "python" {
		t.Errorf("want trimmed user message, got %+v", got)
	}
	if rec.count(EventClearComposer) != 1 {
		t.Errorf("want composer cleared once, got %d", rec.count(EventClearComposer))
	}

	delay := TypingDelay("Found courses")
	fc.Advance(delay - time.Millisecond)
	assertPending(t, errc)
	if !c.Snapshot().Loading {
		t.Fatal("want loading until typing delay elapses")
	}
	fc.Advance(time.Millisecond)
	if err := receive(t, errc); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	s = c.Snapshot()
	last := s.Transcript[len(s.Transcript)-1]
	if want := "🎯 Here are the best matches for you (3 results):"; last.Text != want {
		t.Errorf("want %q, got %q", want, last.Text)
	}
	if len(last.Courses) != 3 || last.MatchType != "skill" || last.IsError {
		t.Errorf("unexpected matched message: %+v", last)
	}
	if s.Loading {
		t.Error("want loading=false")
	}
}

func TestDispatch_OutcomeTexts(t *testing.T) {
	cases := []struct {
		name string
		resp client.SearchResponse
		want string
	}{
		{"chat", client.SearchResponse{Status: StatusChat, Message: "Hi there"}, "Hi there"},
		{"rejected default", client.SearchResponse{Status: StatusRejected}, RejectedText},
		{"rejected message", client.SearchResponse{Status: StatusRejected, Message: "No."}, "No."},
		{"not found default", client.SearchResponse{Status: StatusNotFound}, NotFoundText},
		{"unknown status", client.SearchResponse{Status: "weird"}, NotFoundText},
		{"success ai message", client.SearchResponse{Status: StatusSuccess, AIMessage: "Try these", Courses: []client.Course{}}, "Try these"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := tc.resp
			b := &stubBackend{search: func(context.Context, string) (*client.SearchResponse, error) {
				return &resp, nil
			}}
			c, fc, _ := loggedIn(t, b)

			errc := dispatchAsync(c, "query")
			fc.BlockUntil(1)
			fc.Advance(TypingDelay(ResponseText(&resp)))
			if err := receive(t, errc); err != nil {
				t.Fatalf("dispatch: %v", err)
			}
			s := c.Snapshot()
			last := s.Transcript[len(s.Transcript)-1]
			if last.Text != tc.want {
				t.Errorf("want %q, got %q", tc.want, last.Text)
			}
			if last.IsError || s.CanRetry {
				t.Error("structured replies are not errors")
			}
		})
	}
}

func TestDispatch_ServerErrorBecomesRetryableMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	b := &stubBackend{search: client.New(srv.URL).Search}
	c, fc, _ := loggedIn(t, b)

	errc := dispatchAsync(c, "python")
	fc.BlockUntil(1)
	fc.Advance(failurePause - time.Millisecond)
	assertPending(t, errc)
	if s := c.Snapshot(); !s.Loading || s.HasError() {
		t.Fatalf("want still loading without error, got %+v", s)
	}

	fc.Advance(time.Millisecond)
	if err := receive(t, errc); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	s := c.Snapshot()
	last := s.Transcript[len(s.Transcript)-1]
	if last.Text != BusyRetryText || !last.IsError || last.Role != RoleBot {
		t.Errorf("want retryable error message, got %+v", last)
	}
	if s.Loading {
		t.Error("want loading=false")
	}
	if !s.CanRetry {
		t.Error("want CanRetry after failure")
	}
	if text, ok := c.Retry(); !ok || text != "python" {
		t.Errorf("want retry text %q, got %q (%v)", "python", text, ok)
	}
}

func TestDispatch_NullBodyBecomesRetryableMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`null`))
	}))
	t.Cleanup(srv.Close)

	b := &stubBackend{search: client.New(srv.URL).Search}
	c, fc, _ := loggedIn(t, b)

	errc := dispatchAsync(c, "python")
	fc.BlockUntil(1)
	fc.Advance(failurePause)
	if err := receive(t, errc); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	s := c.Snapshot()
	last := s.Transcript[len(s.Transcript)-1]
	if last.Text != BusyRetryText || !last.IsError {
		t.Errorf("want retryable error message, got %+v", last)
	}
	if !s.CanRetry {
		t.Error("want CanRetry after a null reply")
	}
}

func TestDispatch_SlowBackendAddsNoDelay(t *testing.T) {
	var fc fakeClock
	b := &stubBackend{}
	b.search = func(context.Context, string) (*client.SearchResponse, error) {
		fc.Advance(5 * time.Second)
		return &client.SearchResponse{Status: StatusChat, Message: "late"}, nil
	}
	c, clk, _ := loggedIn(t, b)
	fc = clk

	if err := c.Dispatch(context.Background(), "python"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	s := c.Snapshot()
	if s.Loading || s.Transcript[len(s.Transcript)-1].Text != "late" {
		t.Errorf("want reply appended immediately, got %+v", s)
	}
}

func TestDispatch_SubtractsElapsedTime(t *testing.T) {
	var fc fakeClock
	b := &stubBackend{}
	b.search = func(context.Context, string) (*client.SearchResponse, error) {
		fc.Advance(400 * time.Millisecond)
		return &client.SearchResponse{Status: StatusChat, Message: "hi"}, nil
	}
	c, clk, _ := loggedIn(t, b)
	fc = clk

	errc := dispatchAsync(c, "python")
	fc.BlockUntil(1)
	// 1000ms + 2*20ms typing, 400ms of which the request already took.
	fc.Advance(639 * time.Millisecond)
	assertPending(t, errc)
	fc.Advance(time.Millisecond)
	if err := receive(t, errc); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
}

func TestDispatch_LogoutMidRequest(t *testing.T) {
	b := &stubBackend{search: func(ctx context.Context, _ string) (*client.SearchResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c, _, _ := loggedIn(t, b)

	errc := dispatchAsync(c, "python")
	waitFor(t, c, "loading", func(s Snapshot) bool { return s.Loading })
	c.Logout()

	if err := receive(t, errc); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("want ErrSessionEnded, got %v", err)
	}
	if s := c.Snapshot(); s.Active || len(s.Transcript) != 0 {
		t.Errorf("want inactive empty snapshot, got %+v", s)
	}
}

func TestDispatch_LogoutDuringTypingDelay(t *testing.T) {
	b := &stubBackend{}
	c, fc, _ := loggedIn(t, b)

	errc := dispatchAsync(c, "python")
	fc.BlockUntil(1)
	c.Logout()
	if err := receive(t, errc); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("want ErrSessionEnded, got %v", err)
	}

	if err := c.Login("ana"); err != nil {
		t.Fatal(err)
	}
	s := completeWelcome(t, c, fc)
	if len(s.Transcript) != 2 {
		t.Fatalf("want fresh transcript, got %+v", s.Transcript)
	}
}

func TestDispatch_CallerCancelIsTransportFailure(t *testing.T) {
	b := &stubBackend{search: func(ctx context.Context, _ string) (*client.SearchResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c, fc, _ := loggedIn(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Dispatch(ctx, "python") }()
	waitFor(t, c, "loading", func(s Snapshot) bool { return s.Loading })
	cancel()

	fc.BlockUntil(1)
	fc.Advance(failurePause)
	if err := receive(t, errc); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	s := c.Snapshot()
	if last := s.Transcript[len(s.Transcript)-1]; last.Text != BusyRetryText || s.Loading {
		t.Errorf("want retryable error and loading=false, got %+v", s)
	}
}
