package model

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/coursebuddy/client"
	"github.com/miosa/coursebuddy/style"
)

const (
	unknownCourse = "Unknown Course"
	maxDomains    = 3
	maxSkills     = 4
)

// CourseCard is the display form of a course record.
type CourseCard struct {
	Name       string
	Level      string
	Department string
	Type       string
	Pathway    string
	Domains    []string
	Skills     []string
	JobRole    string
}

// NewCourseCard extracts the displayed fields from a backend record.
func NewCourseCard(c client.Course) CourseCard {
	card := CourseCard{
		Name:       c[client.FieldCourseName],
		Level:      c[client.FieldCourseLevel],
		Department: c[client.FieldDepartment],
		Type:       c[client.FieldCourseType],
		Pathway:    c[client.FieldCoursePathway],
		Domains:    splitList(c[client.FieldIndustryDomain], maxDomains),
		Skills:     splitList(c[client.FieldSkills], maxSkills),
		JobRole:    c[client.FieldJobRole],
	}
	if card.Name == "" {
		card.Name = unknownCourse
	}
	if card.JobRole == "" {
		card.JobRole = c[client.FieldJobRoleLegacy]
	}
	if isNaN(card.JobRole) {
		card.JobRole = ""
	}
	return card
}

// splitList splits a comma separated field, dropping blanks and "nan"
// placeholders, and keeps at most limit entries.
func splitList(s string, limit int) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || isNaN(part) {
			continue
		}
		out = append(out, part)
		if len(out) == limit {
			break
		}
	}
	return out
}

func isNaN(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "nan")
}

// Level buckets used for the badge colour.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelOther        = "default"
)

// LevelClass buckets a free-form level string.
func LevelClass(level string) string {
	l := strings.ToLower(level)
	switch {
	case strings.Contains(l, "beginner"), strings.Contains(l, "basic"):
		return LevelBeginner
	case strings.Contains(l, "advanced"):
		return LevelAdvanced
	case strings.Contains(l, "intermediate"):
		return LevelIntermediate
	default:
		return LevelOther
	}
}

func levelColor(level string) lipgloss.TerminalColor {
	switch LevelClass(level) {
	case LevelBeginner:
		return style.LevelBeginner
	case LevelIntermediate:
		return style.LevelIntermediate
	case LevelAdvanced:
		return style.LevelAdvanced
	default:
		return style.LevelDefault
	}
}

// View renders the card within width columns.
func (c CourseCard) View(width int) string {
	var lines []string

	title := style.CardTitle.Render(c.Name)
	if c.Level != "" {
		title += " " + style.LevelBadge(c.Level, levelColor(c.Level))
	}
	lines = append(lines, title)

	var info []string
	if c.Department != "" {
		info = append(info, "🏛  "+c.Department)
	}
	if c.Type != "" {
		info = append(info, "📋 "+c.Type)
	}
	if len(info) > 0 {
		lines = append(lines, style.CardInfo.Render(strings.Join(info, "   ")))
	}
	if c.Pathway != "" {
		lines = append(lines, style.CardPathway.Render(c.Pathway))
	}
	if len(c.Domains) > 0 {
		lines = append(lines, style.SectionLabel.Render("DOMAINS ")+tags(c.Domains, style.DomainTag))
	}
	if len(c.Skills) > 0 {
		lines = append(lines, style.SectionLabel.Render("SKILLS  ")+tags(c.Skills, style.SkillTag))
	}
	if c.JobRole != "" {
		lines = append(lines, style.SectionLabel.Render("JOB ROLES"), c.JobRole)
	}

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	return style.CardBorder.Width(inner).Render(strings.Join(lines, "\n"))
}

func tags(items []string, s lipgloss.Style) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = s.Render("#" + it)
	}
	return strings.Join(out, " ")
}
