package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/search"
	"github.com/pharaohs/pitchside/internal/tui/styles"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// ListColumn is a scrollable, filterable list of rows
type ListColumn struct {
	rows  []Row
	kind  search.Kind
	index *search.Index

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title   string
	loading bool
	empty   string // message when there are no rows

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filtered     []search.Result // nil when no query is applied
}

// NewListColumn creates a list column with a title
func NewListColumn(kind search.Kind, title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		kind:        kind,
		title:       title,
		empty:       "No items",
		filterInput: ti,
		index:       search.NewIndex(nil),
	}
}

// Update handles navigation and filter typing
func (c *ListColumn) Update(msg tea.Msg) (*ListColumn, tea.Cmd) {
	if !c.focused {
		return c, nil
	}
	keyMsg, isKey := msg.(tea.KeyMsg)

	// Filter typing mode
	if c.filterActive && c.filterInput.Focused() {
		if isKey {
			switch {
			case key.Matches(keyMsg, ListColumnKeys.Escape):
				c.clearFilter()
				return c, nil
			case key.Matches(keyMsg, ListColumnKeys.Enter):
				c.filterInput.Blur()
				return c, nil
			case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
				c.clearFilter()
				return c, nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	if !isKey {
		return c, nil
	}

	// Filter applied but blurred
	if c.filterActive {
		switch {
		case key.Matches(keyMsg, ListColumnKeys.Escape):
			c.clearFilter()
			return c, nil
		case key.Matches(keyMsg, ListColumnKeys.Filter):
			c.filterInput.Focus()
			return c, nil
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, ListColumnKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, ListColumnKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, ListColumnKeys.Home):
		c.cursor = 0
		c.offset = 0
	case key.Matches(keyMsg, ListColumnKeys.End):
		c.cursor = count - 1
	case key.Matches(keyMsg, ListColumnKeys.HalfDown):
		c.cursor = min(c.cursor+max(c.maxVisible/2, 1), count-1)
	case key.Matches(keyMsg, ListColumnKeys.HalfUp):
		c.cursor = max(c.cursor-max(c.maxVisible/2, 1), 0)
	case key.Matches(keyMsg, ListColumnKeys.PageDown):
		c.cursor = min(c.cursor+max(c.maxVisible, 1), count-1)
	case key.Matches(keyMsg, ListColumnKeys.PageUp):
		c.cursor = max(c.cursor-max(c.maxVisible, 1), 0)
	}
	c.ensureVisible()
	return c, nil
}

// View renders the column inside its border
func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(c.width-frameW, 0)).
		Height(max(c.height-frameH, 0)).
		Render(c.renderContent())
}

// SetSize updates the column dimensions
func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) SetFocused(focused bool) { c.focused = focused }

func (c *ListColumn) Title() string { return c.title }

func (c *ListColumn) SetTitle(title string) { c.title = title }

// SetEmptyMessage sets the text shown when there are no rows
func (c *ListColumn) SetEmptyMessage(msg string) { c.empty = msg }

func (c *ListColumn) SetLoading(loading bool) { c.loading = loading }

func (c *ListColumn) IsLoading() bool { return c.loading }

// SetRows replaces the rows. The selection stays on the same id when it is
// still present and an active filter is re-applied.
func (c *ListColumn) SetRows(rows []Row) {
	selected := c.SelectedID()

	c.loading = false
	c.rows = rows
	c.index = search.NewIndex(entries(c.kind, rows))
	if c.filterActive && c.filterQuery != "" {
		c.filtered = c.index.Filter(c.filterQuery)
	}

	c.cursor = 0
	if selected != "" {
		for i := 0; i < c.ItemCount(); i++ {
			if c.rows[c.mapIndex(i)].ID == selected {
				c.cursor = i
				break
			}
		}
	}
	c.ensureVisible()
}

// Rows returns all rows, ignoring the filter
func (c *ListColumn) Rows() []Row { return c.rows }

// ItemCount returns the number of visible rows
func (c *ListColumn) ItemCount() int {
	if c.filtered != nil {
		return len(c.filtered)
	}
	return len(c.rows)
}

// SelectedRow returns the row under the cursor
func (c *ListColumn) SelectedRow() (Row, bool) {
	if c.cursor >= c.ItemCount() {
		return Row{}, false
	}
	return c.rows[c.mapIndex(c.cursor)], true
}

// SelectedID returns the id of the row under the cursor, or ""
func (c *ListColumn) SelectedID() domain.ID {
	row, ok := c.SelectedRow()
	if !ok {
		return ""
	}
	return row.ID
}

func (c *ListColumn) SelectedIndex() int { return c.cursor }

// SetSelectedIndex moves the cursor, clamped to the visible rows
func (c *ListColumn) SetSelectedIndex(idx int) {
	c.cursor = min(max(idx, 0), max(c.ItemCount()-1, 0))
	c.ensureVisible()
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool { return c.filterActive }

// IsFilterTyping returns true if the filter input has focus
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all rows
func (c *ListColumn) ClearFilter() { c.clearFilter() }

func (c *ListColumn) recalcMaxVisible() {
	// title + scroll indicators
	c.maxVisible = c.height - BorderHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filtered = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) applyFilter() {
	c.filterQuery = c.filterInput.Value()
	if strings.TrimSpace(c.filterQuery) == "" {
		c.filtered = nil
	} else {
		c.filtered = c.index.Filter(c.filterQuery)
	}
	c.cursor = 0
	c.offset = 0
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filtered == nil {
		return i
	}
	return c.filtered[i].Index
}

func (c *ListColumn) matchedIndexes(i int) []int {
	if c.filtered == nil {
		return nil
	}
	return c.filtered[i].MatchedIndexes
}

// Rendering

func (c *ListColumn) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 10)
	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	if c.loading {
		return titleLine + "\n \n" + styles.DimStyle.Render("Loading...") + "\n "
	}

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := c.empty
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(emptyMsg) + "\n "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderRow(c.rows[c.mapIndex(i)], c.matchedIndexes(i), i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

func (c *ListColumn) renderRow(row Row, matched []int, selected bool, width int) string {
	var parts []styles.RowPart

	used := 2 // margins
	if row.Badge != "" {
		fg := styles.PitchGreen
		if row.BadgeColor != nil {
			fg = *row.BadgeColor
		}
		if row.Busy {
			fg = styles.DimGray
		}
		parts = append(parts, styles.RowPart{Text: row.Badge + " ", Foreground: &fg})
		used += lipgloss.Width(row.Badge) + 1
	}

	title := styles.Truncate(row.Title, max(width-used, 5))
	parts = append(parts, titleParts(title, matched, row.Muted)...)
	used += lipgloss.Width(title)

	if row.Detail != "" && width-used > 6 {
		dim := styles.DimGray
		parts = append(parts, styles.RowPart{Text: "  " + styles.Truncate(row.Detail, width-used-2), Foreground: &dim})
	}

	return styles.RenderListRow(parts, selected, width)
}

// titleParts splits title so matched runes render highlighted
func titleParts(title string, matched []int, muted bool) []styles.RowPart {
	var plainFg *lipgloss.Color
	if muted {
		dim := styles.DimGray
		plainFg = &dim
	}
	if len(matched) == 0 {
		return []styles.RowPart{{Text: title, Foreground: plainFg}}
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	accent := styles.PitchGreen
	var parts []styles.RowPart
	var run []rune
	runHit := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runHit {
			parts = append(parts, styles.RowPart{Text: string(run), Foreground: &accent, Bold: true})
		} else {
			parts = append(parts, styles.RowPart{Text: string(run), Foreground: plainFg})
		}
		run = run[:0]
	}
	for i, r := range []rune(title) {
		if hit[i] != runHit {
			flush()
			runHit = hit[i]
		}
		run = append(run, r)
	}
	flush()
	return parts
}

func (c *ListColumn) renderFilterBar() string {
	input := c.filterInput.View()
	if c.filterQuery == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.rows)))
}
