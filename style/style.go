package style

import "github.com/charmbracelet/lipgloss"

// Colors of the active theme. SetTheme rewrites them.
var (
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor
	Dim       lipgloss.TerminalColor
	Border    lipgloss.TerminalColor

	LevelBeginner     lipgloss.TerminalColor
	LevelIntermediate lipgloss.TerminalColor
	LevelAdvanced     lipgloss.TerminalColor
	LevelDefault      lipgloss.TerminalColor
)

// Derived styles.
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style

	// Header
	HeaderTitle   lipgloss.Style
	HeaderDetail  lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style

	// Composer
	PromptChar lipgloss.Style

	// Bubbles
	UserLabel  lipgloss.Style
	BotLabel   lipgloss.Style
	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	ErrBubble  lipgloss.Style

	// Typing indicator
	SpinnerStyle lipgloss.Style

	// Course cards
	CardBorder   lipgloss.Style
	CardTitle    lipgloss.Style
	CardInfo     lipgloss.Style
	CardPathway  lipgloss.Style
	SectionLabel lipgloss.Style
	DomainTag    lipgloss.Style
	SkillTag     lipgloss.Style

	// Suggestion chips
	ChipsLabel   lipgloss.Style
	Chip         lipgloss.Style
	ChipSelected lipgloss.Style

	// Auth screens
	AuthCard  lipgloss.Style
	AuthLogo  lipgloss.Style
	AuthTitle lipgloss.Style

	// Hint text (ctrl+r, ctrl+l)
	Hint      lipgloss.Style
	RetryHint lipgloss.Style
)

func apply(t Theme) {
	Primary, Secondary, Success, Warning, Error = t.Primary, t.Secondary, t.Success, t.Warning, t.Error
	Muted, Dim, Border = t.Muted, t.Dim, t.Border
	LevelBeginner, LevelIntermediate = t.LevelBeginner, t.LevelIntermediate
	LevelAdvanced, LevelDefault = t.LevelAdvanced, t.LevelDefault

	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	HeaderTitle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	HeaderDetail = lipgloss.NewStyle().
		Foreground(Muted)
	StatusOnline = lipgloss.NewStyle().Foreground(Success)
	StatusOffline = lipgloss.NewStyle().Foreground(Error)

	PromptChar = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	UserLabel = lipgloss.NewStyle().
		Foreground(t.BubbleUser).
		Bold(true)
	BotLabel = lipgloss.NewStyle().
		Foreground(t.BubbleBot).
		Bold(true)
	UserBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(t.BubbleUser).
		PaddingRight(1)
	BotBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(t.BubbleBot).
		PaddingLeft(1)
	ErrBubble = BotBubble.
		BorderForeground(t.BubbleError).
		Foreground(Error)

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(Primary)

	CardBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	CardTitle = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
	CardInfo = lipgloss.NewStyle().
		Foreground(Muted)
	CardPathway = lipgloss.NewStyle().
		Italic(true)
	SectionLabel = lipgloss.NewStyle().
		Foreground(Dim).
		Bold(true)
	DomainTag = lipgloss.NewStyle().
		Foreground(Secondary)
	SkillTag = lipgloss.NewStyle().
		Foreground(Primary)

	ChipsLabel = lipgloss.NewStyle().
		Foreground(Muted)
	Chip = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	ChipSelected = Chip.
		BorderForeground(Primary).
		Foreground(Primary).
		Bold(true)

	AuthCard = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 3)
	AuthLogo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(0, 1)
	AuthTitle = lipgloss.NewStyle().
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(Dim)
	RetryHint = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)
}

// LevelBadge renders a course level coloured by difficulty.
func LevelBadge(level string, c lipgloss.TerminalColor) string {
	return lipgloss.NewStyle().
		Foreground(c).
		Bold(true).
		Render("[" + level + "]")
}
