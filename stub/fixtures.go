package stub

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
)

//go:embed fixtures.json
var defaultFixtures []byte

// Reply is one canned /api/search answer. Courses name catalogue entries
// by their "Course Name".
type Reply struct {
	Status      string   `json:"status"`
	Message     string   `json:"message,omitempty"`
	AIMessage   string   `json:"ai_message,omitempty"`
	MatchedType string   `json:"matched_type,omitempty"`
	Courses     []string `json:"courses,omitempty"`
}

// Fixtures is the catalogue and reply table the stub answers from.
type Fixtures struct {
	// Courses are kept as raw records so numbers and nulls reach the
	// client exactly as the real backend sends them.
	Courses     []map[string]any `json:"courses"`
	Replies     map[string]Reply `json:"replies"`
	Suggestions []string         `json:"suggestions,omitempty"`

	byName map[string]map[string]any
}

// LoadFixtures reads fixtures from path, or the embedded set when path is
// empty.
func LoadFixtures(path string) (*Fixtures, error) {
	data := defaultFixtures
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
		data = b
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes and indexes a fixture document. Reply keys are
// normalized, and every course a reply names must exist in the catalogue.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	fx.byName = make(map[string]map[string]any, len(fx.Courses))
	for _, c := range fx.Courses {
		fx.byName[field(c, "Course Name")] = c
	}
	replies := make(map[string]Reply, len(fx.Replies))
	for k, r := range fx.Replies {
		for _, name := range r.Courses {
			if _, ok := fx.byName[name]; !ok {
				return nil, fmt.Errorf("reply %q: unknown course %q", k, name)
			}
		}
		replies[Normalize(k)] = r
	}
	fx.Replies = replies
	return &fx, nil
}

// searchPrefixes are stripped from queries, as chips are sometimes sent
// with their panel label.
var searchPrefixes = []string{"try searching for:", "try searching for"}

// Normalize is the reply lookup key: prefix stripped, lower case, inner
// whitespace collapsed.
func Normalize(q string) string {
	q = strings.TrimSpace(q)
	lower := strings.ToLower(q)
	for _, p := range searchPrefixes {
		if strings.HasPrefix(lower, p) {
			lower = strings.TrimSpace(lower[len(p):])
			break
		}
	}
	return strings.Join(strings.Fields(lower), " ")
}

// Lookup returns the canned reply for query.
func (fx *Fixtures) Lookup(query string) (Reply, bool) {
	r, ok := fx.Replies[Normalize(query)]
	return r, ok
}

// Resolve returns the catalogue records a reply names, in order.
func (fx *Fixtures) Resolve(r Reply) []map[string]any {
	out := make([]map[string]any, 0, len(r.Courses))
	for _, name := range r.Courses {
		out = append(out, fx.byName[name])
	}
	return out
}

const maxSuggestions = 4

var priorityTopics = []string{"Communication", "Rural & culture", "Education"}

// SuggestionList returns the configured suggestions, or derives them from
// the catalogue: a level entry, the priority topics, then short department
// names. At most four are returned.
func (fx *Fixtures) SuggestionList() []string {
	if len(fx.Suggestions) > 0 {
		return capList(fx.Suggestions, maxSuggestions)
	}

	var out []string
	levels := fx.Unique("Course Level")
	switch {
	case slices.Contains(levels, "Beginner"):
		out = append(out, "Beginner courses")
	case len(levels) > 0:
		out = append(out, levels[0]+" courses")
	}
	for _, t := range priorityTopics {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	for _, d := range fx.departmentsByFrequency() {
		if len(out) >= maxSuggestions {
			break
		}
		d = strings.TrimSpace(strings.SplitN(d, "(", 2)[0])
		if len(d) < 20 && !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return capList(out, maxSuggestions)
}

// Unique lists the distinct non-empty values of a course field, sorted.
func (fx *Fixtures) Unique(name string) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range fx.Courses {
		v := field(c, name)
		if v == "" || strings.EqualFold(v, "nan") || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (fx *Fixtures) departmentsByFrequency() []string {
	counts := map[string]int{}
	for _, c := range fx.Courses {
		if d := field(c, "Department"); d != "" {
			counts[d]++
		}
	}
	out := make([]string, 0, len(counts))
	for d := range counts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func field(c map[string]any, name string) string {
	switch v := c[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
