// Package rating derives a player's 1-5 efficiency rating from match stats.
package rating

import (
	"math"
	"strconv"

	"github.com/pharaohs/pitchside/internal/domain"
)

const (
	Min = 1.0
	Max = 5.0
)

// Tier buckets a rating for display
type Tier int

const (
	TierPoor Tier = iota
	TierMedium
	TierGood
)

func (t Tier) String() string {
	switch t {
	case TierPoor:
		return "poor"
	case TierMedium:
		return "medium"
	default:
		return "good"
	}
}

// Calculate returns the rating for stats. Missing stats or zero matches rate Min.
//
//	raw    = (2*goals + assists - yellow - 3*red) / matches
//	scaled = (raw + 3) / 6 * 4 + 1, clamped to [Min, Max]
func Calculate(stats *domain.PerformanceStats) float64 {
	if stats == nil || stats.MatchesPlayed <= 0 {
		return Min
	}

	numerator := float64(2*stats.Goals + stats.Assists - stats.YellowCards - 3*stats.RedCards)
	raw := numerator / float64(stats.MatchesPlayed)
	scaled := (raw+3)/6*4 + 1

	return math.Max(Min, math.Min(Max, scaled))
}

// Format renders a rating with one decimal place
func Format(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// String is Format(Calculate(stats))
func String(stats *domain.PerformanceStats) string {
	return Format(Calculate(stats))
}

// Percentage maps a rating onto 0-100 for gauges
func Percentage(r float64) float64 {
	return (r - Min) / (Max - Min) * 100
}

// Classify returns the display tier of a rating
func Classify(r float64) Tier {
	switch {
	case r < 2.5:
		return TierPoor
	case r < 4:
		return TierMedium
	default:
		return TierGood
	}
}

// ForProfile prefers a rating derived from the profile's stats over the
// stored one
func ForProfile(p domain.PlayerProfile) float64 {
	if stats := p.PerformanceStats(); stats != nil && stats.MatchesPlayed > 0 {
		return Calculate(stats)
	}
	if p.Rating > 0 {
		return math.Max(Min, math.Min(Max, p.Rating))
	}
	return Min
}
