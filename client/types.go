package client

import (
	"encoding/json"
	"strconv"
)

// HealthResponse from GET /.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SearchRequest for POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse from POST /api/search.
type SearchResponse struct {
	Status       string   `json:"status"`
	Message      string   `json:"message,omitempty"`
	AIMessage    string   `json:"ai_message,omitempty"`
	Courses      []Course `json:"courses,omitempty"`
	MatchedType  string   `json:"matched_type,omitempty"`
	TotalResults int      `json:"total_results,omitempty"`
}

// HasCourses reports whether the response carried a courses field.
func (r *SearchResponse) HasCourses() bool {
	return r.Courses != nil
}

// SuggestionsResponse from GET /api/suggestions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// ErrorResponse for API errors. The backend reports either "error" or
// FastAPI's "detail".
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Course is a backend course record passed through verbatim. Keys are the
// backend's column names ("Course Name", "Skills", ...).
type Course map[string]string

// Well-known course fields.
const (
	FieldCourseName     = "Course Name"
	FieldDepartment     = "Department"
	FieldSkills         = "Skills"
	FieldIndustryDomain = "Industry Domain"
	FieldCourseType     = "Course type"
	FieldCoursePathway  = "Course Pathway"
	FieldCourseLevel    = "Course Level"
	FieldJobRole        = "Job role to skill"
	FieldJobRoleLegacy  = "job role to skill"
)

// UnmarshalJSON accepts any scalar value per field: numbers and booleans
// are kept in their JSON text form, null becomes "". Nested values are
// kept as raw JSON.
func (c *Course) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Course, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			out[k] = strconv.FormatFloat(f, 'f', -1, 64)
			continue
		}
		if string(v) == "null" {
			out[k] = ""
			continue
		}
		out[k] = string(v)
	}
	*c = out
	return nil
}
