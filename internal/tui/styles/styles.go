package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PitchGreen = lipgloss.Color("#22C55E")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Gold       = lipgloss.Color("#E5A00D")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Borders
var (
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
)

// Text styles
var (
	TitleStyle     lipgloss.Style
	SubtitleStyle  lipgloss.Style
	DimStyle       lipgloss.Style
	AccentStyle    lipgloss.Style
	ErrorStyle     lipgloss.Style
	WarningStyle   lipgloss.Style
	SuccessStyle   lipgloss.Style
	HighlightStyle lipgloss.Style
)

// Tab bar styles
var (
	TabStyle       lipgloss.Style
	ActiveTabStyle lipgloss.Style
)

// Modal styles
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
)

// Help styles
var (
	HelpKeyStyle  lipgloss.Style
	HelpDescStyle lipgloss.Style
)

// Rating bar styles
var (
	ProgressFullStyle  lipgloss.Style
	ProgressEmptyStyle lipgloss.Style
)

// Badge styles
var (
	BadgeStyle    lipgloss.Style
	DimBadgeStyle lipgloss.Style
)

// Spinner and filter styles
var (
	SpinnerStyle      lipgloss.Style
	FilterStyle       lipgloss.Style
	FilterPromptStyle lipgloss.Style
)

// Match highlight styles for filter results
var (
	MatchHighlightStyle         lipgloss.Style
	MatchHighlightSelectedStyle lipgloss.Style
)

// Status glyphs
const (
	PendingChar  = "●"
	AcceptedChar = "✓"
	DeclinedChar = "✗"
	LikedChar    = "♥"
	UnlikedChar  = "♡"
	BrokenChar   = "⚠"
)

func init() {
	build()
}

// Apply switches the palette. Unknown names keep the default theme.
func Apply(theme string) {
	switch strings.ToLower(theme) {
	case "light":
		PitchGreen = lipgloss.Color("#15803D")
		SlateDark = lipgloss.Color("#F3F4F6")
		SlateLight = lipgloss.Color("#E5E7EB")
		DimGray = lipgloss.Color("#6B7280")
		LightGray = lipgloss.Color("#374151")
		White = lipgloss.Color("#111827")
	default:
		PitchGreen = lipgloss.Color("#22C55E")
		SlateDark = lipgloss.Color("#1F2937")
		SlateLight = lipgloss.Color("#374151")
		DimGray = lipgloss.Color("#6B7280")
		LightGray = lipgloss.Color("#9CA3AF")
		White = lipgloss.Color("#F9FAFB")
	}
	build()
}

func build() {
	ActiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PitchGreen)
	InactiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DimGray)

	TitleStyle = lipgloss.NewStyle().Foreground(White).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(LightGray)
	DimStyle = lipgloss.NewStyle().Foreground(DimGray)
	AccentStyle = lipgloss.NewStyle().Foreground(PitchGreen)
	ErrorStyle = lipgloss.NewStyle().Foreground(Red)
	WarningStyle = lipgloss.NewStyle().Foreground(Gold)
	SuccessStyle = lipgloss.NewStyle().Foreground(PitchGreen)
	HighlightStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(PitchGreen).
		Padding(0, 1)

	TabStyle = lipgloss.NewStyle().Foreground(LightGray).Padding(0, 1)
	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(SlateLight).
		Bold(true).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PitchGreen).
		Padding(1, 2).
		Background(SlateDark)
	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(White).
		Bold(true).
		MarginBottom(1)

	HelpKeyStyle = lipgloss.NewStyle().Foreground(PitchGreen)
	HelpDescStyle = lipgloss.NewStyle().Foreground(DimGray)

	ProgressFullStyle = lipgloss.NewStyle().Foreground(PitchGreen)
	ProgressEmptyStyle = lipgloss.NewStyle().Foreground(DimGray)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(Red).
		Padding(0, 1)
	DimBadgeStyle = lipgloss.NewStyle().
		Foreground(LightGray).
		Background(SlateLight).
		Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().Foreground(PitchGreen)
	FilterStyle = lipgloss.NewStyle().Foreground(PitchGreen)
	FilterPromptStyle = lipgloss.NewStyle().Foreground(PitchGreen).Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().Foreground(PitchGreen).Bold(true)
	MatchHighlightSelectedStyle = lipgloss.NewStyle().
		Foreground(PitchGreen).
		Background(SlateLight).
		Bold(true)
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// RenderProgressBar renders a bar filled to percent of width
func RenderProgressBar(percent float64, width int) string {
	if width < 3 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	filled = min(max(filled, 0), width)

	var b strings.Builder
	b.WriteString(ProgressFullStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(ProgressEmptyStyle.Render(strings.Repeat("░", width-filled)))
	return b.String()
}

// RenderListRow renders a complete list row with uniform background when selected.
// Each part is styled on its own to avoid ANSI reset bleed.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight
	defaultFg := LightGray
	selectedFg := White

	var result strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(selectedFg)
		default:
			style = style.Foreground(defaultFg)
		}
		if part.Bold {
			style = style.Bold(true)
		}
		if selected {
			style = style.Background(bg)
		}
		result.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// subtract 2 for left/right margin
	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	if pad := width - visibleLen - 2; pad > 0 {
		result.WriteString(marginStyle.Render(strings.Repeat(" ", pad)))
	}

	margin := marginStyle.Render(" ")
	return margin + result.String() + margin
}

// RowPart is a run of row text with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
	Bold       bool
}
