package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pharaohs/pitchside/internal/search"
	"github.com/pharaohs/pitchside/internal/tui/styles"
)

const maxSuggestions = 4

// InputModal is a single-line text prompt with optional suggestions
type InputModal struct {
	visible bool
	title   string
	input   textinput.Model
	options []string // values to suggest from
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{input: ti}
}

// Show displays the modal with a title and placeholder
func (m *InputModal) Show(title, placeholder string) {
	m.visible = true
	m.title = title
	m.options = nil
	m.input.EchoMode = textinput.EchoNormal
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
}

// ShowSecret displays the modal with the input masked
func (m *InputModal) ShowSecret(title string) {
	m.Show(title, "")
	m.input.EchoMode = textinput.EchoPassword
	m.input.EchoCharacter = '•'
}

// SetSuggestions sets the values offered while typing. Tab accepts the
// best match.
func (m *InputModal) SetSuggestions(options []string) {
	m.options = options
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// Suggestions returns the options matching the current input, best first
func (m InputModal) Suggestions() []string {
	if len(m.options) == 0 {
		return nil
	}
	return search.Suggest(m.input.Value(), m.options, maxSuggestions)
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, InputModalKeys.Submit):
			return m, nil, true
		case key.Matches(keyMsg, InputModalKeys.Cancel):
			m.Hide()
			return m, nil, false
		case key.Matches(keyMsg, InputModalKeys.Complete):
			if s := m.Suggestions(); len(s) > 0 {
				m.input.SetValue(s[0])
				m.input.CursorEnd()
			}
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 44

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	lines := []string{
		titleStyle.Render(m.title),
		lineStyle.Render(""),
		lineStyle.Render(m.input.View()),
	}
	if s := m.Suggestions(); len(s) > 0 {
		lines = append(lines, lineStyle.Render(""))
		for i, opt := range s {
			text := "  " + opt
			if i == 0 {
				text = styles.AccentStyle.Render("› "+opt) + styles.DimStyle.Render("  tab")
			}
			lines = append(lines, lineStyle.Render(text))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.PitchGreen).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}
