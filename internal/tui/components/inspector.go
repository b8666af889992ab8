package components

import (
	"strings"

	"github.com/pharaohs/pitchside/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// InspectorContent is the three-zone layout of the detail pane
type InspectorContent struct {
	Header string // fixed top
	Body   string // scrollable middle
	Footer string // fixed bottom
}

// Inspector displays details for the selected row
type Inspector struct {
	title      string
	content    InspectorContent
	width      int
	height     int
	offset     int // body scroll offset
	maxVisible int
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{title: "Details"}
}

// SetContent replaces what the inspector shows. The scroll position is
// kept when the title is unchanged.
func (i *Inspector) SetContent(title string, content InspectorContent) {
	if title != i.title {
		i.offset = 0
	}
	i.title = title
	i.content = content
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// title + blank line
	i.maxVisible = max(height-InspectorBorderHeight-InspectorScrollIndicators-2, 1)
}

// ScrollDown moves the body down one line
func (i *Inspector) ScrollDown() {
	i.offset = min(i.offset+1, i.maxOffset())
}

// ScrollUp moves the body up one line
func (i *Inspector) ScrollUp() {
	i.offset = max(i.offset-1, 0)
}

// Offset returns the body scroll offset
func (i Inspector) Offset() int { return i.offset }

func (i Inspector) bodyRoom() int {
	fixed := 0
	if i.content.Header != "" {
		fixed += len(splitLines(i.content.Header))
	}
	if i.content.Footer != "" {
		fixed += len(splitLines(i.content.Footer))
	}
	return max(i.maxVisible-fixed, 1)
}

func (i Inspector) maxOffset() int {
	if i.content.Body == "" {
		return 0
	}
	return max(len(splitLines(i.content.Body))-i.bodyRoom(), 0)
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder
	contentWidth := max(i.width-3, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate(i.title, contentWidth))

	var bodyLines []string
	if i.content.Body != "" {
		bodyLines = splitLines(i.content.Body)
	}
	room := i.bodyRoom()
	offset := min(i.offset, i.maxOffset())
	end := min(offset+room, len(bodyLines))
	visible := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if i.content.Header != "" {
		parts = append(parts, i.content.Header)
	}
	parts = append(parts, up)
	parts = append(parts, visible...)
	for j := len(visible); j < room; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if i.content.Footer != "" {
		parts = append(parts, i.content.Footer)
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// WordWrap breaks text into lines no wider than width
func WordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
