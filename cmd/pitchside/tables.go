package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/rating"
	"github.com/pharaohs/pitchside/internal/tui/styles"
)

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.DimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TitleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
}

func playerTable(w io.Writer, players []domain.PlayerProfile) {
	rows := make([][]string, len(players))
	for i, p := range players {
		age := ""
		if p.Age > 0 {
			age = fmt.Sprint(p.Age)
		}
		rows[i] = []string{p.Name, p.Position, p.Club, age, rating.Format(rating.ForProfile(p))}
	}
	renderTable(w, []string{"Name", "Position", "Club", "Age", "Rating"}, rows)
}

func tryoutTable(w io.Writer, tryouts []domain.Tryout) {
	rows := make([][]string, len(tryouts))
	for i, t := range tryouts {
		rows[i] = []string{string(t.ID), t.Name, t.Location, t.Date + " " + t.Time, fmt.Sprint(len(t.PlayersInvited))}
	}
	renderTable(w, []string{"ID", "Name", "Location", "When", "Invited"}, rows)
}

func notificationTable(w io.Writer, notifications []domain.Notification) {
	rows := make([][]string, len(notifications))
	for i, n := range notifications {
		mark := ""
		if !n.IsRead {
			mark = styles.PendingChar
		}
		rows[i] = []string{mark, shortDate(n.CreatedAt), n.Message}
	}
	renderTable(w, []string{"", "Date", "Message"}, rows)
}

func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
