package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/search"
)

// Row is one line of a ListColumn
type Row struct {
	ID     domain.ID
	Title  string // filtered and highlighted
	Detail string // filtered, shown dimmed after the title
	Badge  string // short status text on the left, e.g. "♥ 3"

	// BadgeColor overrides the badge foreground when set
	BadgeColor *lipgloss.Color
	// Muted dims the whole row, e.g. a read notification
	Muted bool
	// Busy marks a row with a mutation in flight
	Busy bool
}

// entries converts rows to filter entries
func entries(kind search.Kind, rows []Row) []search.Entry {
	out := make([]search.Entry, len(rows))
	for i, r := range rows {
		out[i] = search.Entry{Kind: kind, ID: r.ID, Title: r.Title, Detail: r.Detail}
	}
	return out
}
