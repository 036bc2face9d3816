package curation

import (
	"math/rand"

	"github.com/mmcdole/airwave/internal/domain"
)

// Dedupe returns the stations with only the first occurrence of each
// StationUUID retained, preserving first-seen order.
func Dedupe(stations []domain.Station) []domain.Station {
	seen := make(map[string]struct{}, len(stations))
	out := make([]domain.Station, 0, len(stations))
	for _, s := range stations {
		if _, ok := seen[s.StationUUID]; ok {
			continue
		}
		seen[s.StationUUID] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Shuffle permutes the slice in place (Fisher-Yates).
func Shuffle(stations []domain.Station) {
	for i := len(stations) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		stations[i], stations[j] = stations[j], stations[i]
	}
}

// dedupeShuffle dedupes, shuffles, and caps a raw result set. Used for the
// "variety" sections; rank-ordered sections must not go through here.
func dedupeShuffle(stations []domain.Station, limit int) []domain.Station {
	unique := Dedupe(stations)
	Shuffle(unique)
	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}
