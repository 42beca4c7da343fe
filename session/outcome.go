package session

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/miosa/coursebuddy/client"
)

// Fixed bot texts.
const (
	MatchedTemplate = "🎯 Here are the best matches for you (%d results):"
	RejectedText    = "I focus on course recommendations. Ask me about Python, AI, or Web Dev! 🎓"
	NotFoundText    = "Sorry, I couldn't find any courses matching that. Try checking your spelling or ask for a broader topic."
	EmptyQueryText  = "Please enter a query to search courses."
	BusyRetryText   = "Formatting response... (Server busy, please retry) 🔄"
	foundCourses    = "Found courses"
)

// Backend status values.
const (
	StatusSuccess  = "success"
	StatusChat     = "chat"
	StatusRejected = "rejected"
	StatusNotFound = "not_found"
)

const (
	minTyping     = 1000 * time.Millisecond
	maxTyping     = 4000 * time.Millisecond
	typingPerChar = 20 * time.Millisecond
)

// Outcome is a classified search response. The set of variants is closed:
// only types in this package can implement it, and each must say how it
// becomes a transcript message.
type Outcome interface {
	Message() Message
	outcome()
}

// Matched carries course results.
type Matched struct {
	Text      string
	Courses   []client.Course
	MatchType string
}

// Chatted is a conversational reply without courses.
type Chatted struct{ Text string }

// Rejected means the backend refused an off-topic query.
type Rejected struct{ Text string }

// NotFound covers "not_found" and any status this client does not know.
type NotFound struct{ Text string }

func (Matched) outcome()  {}
func (Chatted) outcome()  {}
func (Rejected) outcome() {}
func (NotFound) outcome() {}

func (o Matched) Message() Message {
	return Message{Role: RoleBot, Text: o.Text, Courses: o.Courses, MatchType: o.MatchType}
}

func (o Chatted) Message() Message  { return Message{Role: RoleBot, Text: o.Text} }
func (o Rejected) Message() Message { return Message{Role: RoleBot, Text: o.Text} }
func (o NotFound) Message() Message { return Message{Role: RoleBot, Text: o.Text} }

// Classify maps a structured backend response to an Outcome, filling the
// default texts where the backend sent none.
func Classify(resp *client.SearchResponse) Outcome {
	switch resp.Status {
	case StatusSuccess:
		text := resp.AIMessage
		if text == "" {
			text = fmt.Sprintf(MatchedTemplate, resp.TotalResults)
		}
		return Matched{Text: text, Courses: resp.Courses, MatchType: resp.MatchedType}
	case StatusChat:
		return Chatted{Text: resp.Message}
	case StatusRejected:
		return Rejected{Text: orDefault(resp.Message, RejectedText)}
	default:
		return NotFound{Text: orDefault(resp.Message, NotFoundText)}
	}
}

// ResponseText is the text the typing delay is computed from.
func ResponseText(resp *client.SearchResponse) string {
	switch {
	case resp.Message != "":
		return resp.Message
	case resp.AIMessage != "":
		return resp.AIMessage
	case resp.HasCourses():
		return foundCourses
	default:
		return ""
	}
}

// TypingDelay is 1s plus 20ms per character, clamped to [1s, 4s].
func TypingDelay(text string) time.Duration {
	d := minTyping + time.Duration(utf8.RuneCountInString(text))*typingPerChar
	return min(max(d, minTyping), maxTyping)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
