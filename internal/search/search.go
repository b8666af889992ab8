// Package search filters loaded lists locally: players, invitations, and
// notifications for the TUI filter, plus club and position suggestions.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pharaohs/pitchside/internal/domain"
	sfuzzy "github.com/sahilm/fuzzy"
)

// Kind says what an Entry points at
type Kind int

const (
	KindPlayer Kind = iota
	KindInvitation
	KindNotification
)

// Entry is one filterable row
type Entry struct {
	Kind   Kind
	ID     domain.ID
	Title  string // text matched and highlighted
	Detail string // secondary text, matched but not highlighted
}

// Result is an Entry with match metadata
type Result struct {
	Entry
	Index          int   // position in the index
	MatchedIndexes []int // rune positions in Title
	Score          int
}

// Index is a filterable list. It implements sahilm/fuzzy.Source.
type Index struct {
	entries []Entry
	lower   []string
}

// NewIndex builds an index over entries
func NewIndex(entries []Entry) *Index {
	idx := &Index{entries: entries, lower: make([]string, len(entries))}
	for i, e := range entries {
		idx.lower[i] = strings.ToLower(e.Title)
	}
	return idx
}

func (idx *Index) String(i int) string { return idx.lower[i] }

func (idx *Index) Len() int { return len(idx.entries) }

// Entries returns the indexed rows in order
func (idx *Index) Entries() []Entry { return idx.entries }

// Filter narrows the index as the user types. Characters must appear in
// order but need not be adjacent. When nothing matches that way it falls
// back to Rank, so typos still find a row. An empty query keeps every row.
func (idx *Index) Filter(query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Result, len(idx.entries))
		for i, e := range idx.entries {
			out[i] = Result{Entry: e, Index: i}
		}
		return out
	}

	matches := sfuzzy.FindFrom(strings.ToLower(query), idx)
	out := make([]Result, 0, len(matches))
	seen := make(map[int]bool, len(matches))
	for _, m := range matches {
		seen[m.Index] = true
		out = append(out, Result{
			Entry:          idx.entries[m.Index],
			Index:          m.Index,
			MatchedIndexes: m.MatchedIndexes,
			Score:          -m.Score,
		})
	}

	// rows whose title missed may still match on detail
	for i, e := range idx.entries {
		if seen[i] || e.Detail == "" {
			continue
		}
		if fuzzy.MatchFold(query, e.Detail) {
			out = append(out, Result{Entry: e, Index: i, Score: 1 << 20})
		}
	}
	if len(out) == 0 {
		return idx.Rank(query)
	}
	return out
}

// Rank runs the word-based matcher, which tolerates typos and word order
func (idx *Index) Rank(query string) []Result {
	matches := Rank(query, idx.lower)
	out := make([]Result, len(matches))
	for i, m := range matches {
		out[i] = Result{Entry: idx.entries[m.Index], Index: m.Index, MatchedIndexes: m.MatchedIndexes, Score: m.Score}
	}
	return out
}

// Suggest returns the options closest to query, best first. It backs
// the club and position prompts.
func Suggest(query string, options []string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	ranks := fuzzy.RankFindNormalizedFold(query, options)
	sort.Sort(ranks)

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

// === Builders ===

// Players indexes players by name, with club and position as detail
func Players(players []domain.PlayerProfile) *Index {
	entries := make([]Entry, len(players))
	for i, p := range players {
		entries[i] = Entry{
			Kind:   KindPlayer,
			ID:     p.ID,
			Title:  p.Name,
			Detail: joinNonEmpty(p.Club, p.Position),
		}
	}
	return NewIndex(entries)
}

// Invitations indexes invitations by tryout name
func Invitations(invitations []domain.Invitation) *Index {
	entries := make([]Entry, len(invitations))
	for i, inv := range invitations {
		title := inv.TryoutName
		if title == "" {
			title = "Tryout " + string(inv.TryoutID)
		}
		who := inv.ScoutName
		if who == "" {
			who = inv.PlayerName
		}
		entries[i] = Entry{
			Kind:   KindInvitation,
			ID:     inv.ID,
			Title:  title,
			Detail: joinNonEmpty(who, inv.Location, string(inv.Status)),
		}
	}
	return NewIndex(entries)
}

// Notifications indexes notifications by message
func Notifications(notifications []domain.Notification) *Index {
	entries := make([]Entry, len(notifications))
	for i, n := range notifications {
		entries[i] = Entry{Kind: KindNotification, ID: n.ID, Title: n.Message}
	}
	return NewIndex(entries)
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
