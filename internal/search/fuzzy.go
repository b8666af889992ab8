package search

import (
	"sort"
	"strings"
	"unicode"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
)

// Match is one ranked hit from Rank
type Match struct {
	Index          int   // position in the ranked slice
	Score          int   // lower is better
	MatchedIndexes []int // rune positions to highlight
}

// Rank matches query against names word by word. Every query word must
// match some word of the name, in any order ("salah mo" finds "Mo Salah").
// Short words must match exactly or by prefix; longer words tolerate typos.
// Results are sorted best first, shorter names winning ties.
func Rank(query string, names []string) []Match {
	words := tokenize(query)
	if len(words) == 0 {
		return nil
	}

	var matches []Match
	for i, name := range names {
		if m, ok := rankName(name, words); ok {
			m.Index = i
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score < matches[b].Score
		}
		return len(names[matches[a].Index]) < len(names[matches[b].Index])
	})
	return matches
}

type token struct {
	text       string
	start, end int // rune offsets in the source
}

func tokenize(s string) []token {
	var (
		out   []token
		start = -1
	)
	runes := []rune(strings.ToLower(s))
	for i, r := range runes {
		word := unicode.IsLetter(r) || unicode.IsDigit(r)
		switch {
		case word && start < 0:
			start = i
		case !word && start >= 0:
			out = append(out, token{text: string(runes[start:i]), start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, token{text: string(runes[start:]), start: start, end: len(runes)})
	}
	return out
}

func rankName(name string, words []token) (Match, bool) {
	parts := tokenize(name)
	used := make([]bool, len(parts))

	var (
		score   int
		indexes []int
	)
	for _, w := range words {
		best, bestScore := -1, -1
		var bestIdx []int
		for i, p := range parts {
			if used[i] {
				continue
			}
			if sc, idx, ok := matchWord(w.text, p); ok && (bestScore < 0 || sc < bestScore) {
				best, bestScore, bestIdx = i, sc, idx
			}
		}
		if best < 0 {
			return Match{}, false
		}
		used[best] = true
		score += bestScore
		indexes = append(indexes, bestIdx...)
	}

	// names with extra words rank below tighter matches
	if extra := len(parts) - len(words); extra > 0 {
		score += extra * 5
	}

	sort.Ints(indexes)
	return Match{Score: score, MatchedIndexes: indexes}, true
}

func matchWord(q string, p token) (score int, indexes []int, ok bool) {
	qlen := len([]rune(q))
	switch {
	case q == p.text:
		return 0, span(p.start, p.end), true
	case strings.HasPrefix(p.text, q):
		return 10, span(p.start, p.start+qlen), true
	case strings.HasPrefix(q, p.text):
		return 20, span(p.start, p.end), true
	}
	if i := strings.Index(p.text, q); i >= 0 {
		off := len([]rune(p.text[:i]))
		return 50 + off, span(p.start+off, p.start+off+qlen), true
	}
	if typos := allowedTypos(qlen); typos > 0 {
		if d := lfuzzy.LevenshteinDistance(q, p.text); d <= typos {
			return 100 + d*20, span(p.start, p.end), true
		}
	}
	return 0, nil, false
}

// allowedTypos: up to 3 runes none, up to 6 one, otherwise two
func allowedTypos(n int) int {
	switch {
	case n <= 3:
		return 0
	case n <= 6:
		return 1
	default:
		return 2
	}
}

func span(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}
