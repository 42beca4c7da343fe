// Package stub is a fixture-replay stand-in for the course backend. It
// answers /api/search from a static table keyed by normalized query and
// does no matching or ranking of its own.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"

	"github.com/miosa/coursebuddy/client"
	"github.com/miosa/coursebuddy/logx"
)

// Options tune the stub's failure behaviour.
type Options struct {
	// Latency delays every search reply.
	Latency time.Duration
	// FailEvery makes every Nth search answer 500. Zero never fails.
	FailEvery int
	// AllowedOrigins for CORS; empty allows any.
	AllowedOrigins []string
	// Clock times the latency; nil uses the wall clock.
	Clock clockwork.Clock
}

// Server serves the fixture table.
type Server struct {
	fx       *Fixtures
	opts     Options
	searches atomic.Int64
}

// New returns a Server for fx.
func New(fx *Fixtures, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Server{fx: fx, opts: opts}
}

// Router wires the backend routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.opts.AllowedOrigins))

	r.Get("/", s.health)
	r.Route("/api", func(api chi.Router) {
		api.Post("/search", s.search)
		api.Get("/suggestions", s.suggestions)
		api.Get("/filters", s.filters)
		api.Get("/courses/all", s.allCourses)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, client.HealthResponse{
		Status:  "ok",
		Message: "Course Recommendation API is running",
	})
}

// searchReply mirrors client.SearchResponse with raw course records.
type searchReply struct {
	Status       string           `json:"status"`
	Message      string           `json:"message,omitempty"`
	AIMessage    string           `json:"ai_message,omitempty"`
	Courses      []map[string]any `json:"courses,omitempty"`
	MatchedType  string           `json:"matched_type,omitempty"`
	TotalResults int              `json:"total_results,omitempty"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req client.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	n := s.searches.Add(1)
	if err := sleep(r.Context(), s.opts.Clock, s.opts.Latency); err != nil {
		return
	}
	if s.opts.FailEvery > 0 && n%int64(s.opts.FailEvery) == 0 {
		logx.Warn().Int64("search", n).Msg("simulated failure")
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("simulated failure on search %d", n))
		return
	}

	if Normalize(req.Query) == "" {
		respondJSON(w, http.StatusOK, searchReply{Status: "chat", Message: "Please type a message to get started!"})
		return
	}

	reply, ok := s.fx.Lookup(req.Query)
	if !ok {
		logx.Debug().Str("query", req.Query).Msg("no fixture")
		respondJSON(w, http.StatusOK, searchReply{Status: "not_found"})
		return
	}
	out := searchReply{
		Status:      reply.Status,
		Message:     reply.Message,
		AIMessage:   reply.AIMessage,
		MatchedType: reply.MatchedType,
	}
	if len(reply.Courses) > 0 {
		out.Courses = s.fx.Resolve(reply)
		out.TotalResults = len(out.Courses)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, client.SuggestionsResponse{Suggestions: s.fx.SuggestionList()})
}

func (s *Server) filters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"departments":      s.fx.Unique("Department"),
		"course_levels":    s.fx.Unique("Course Level"),
		"industry_domains": s.fx.Unique("Industry Domain"),
		"course_types":     s.fx.Unique("Course type"),
	})
}

func (s *Server) allCourses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"total_courses": len(s.fx.Courses),
		"courses":       s.fx.Courses,
	})
}

func sleep(ctx context.Context, clk clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := clk.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.Chan():
		return nil
	}
}
