package curation

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/airwave/internal/domain"
)

func station(uuid string) domain.Station {
	return domain.Station{StationUUID: uuid, Name: "station " + uuid}
}

func uuids(stations []domain.Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.StationUUID
	}
	return out
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	in := []domain.Station{
		station("a"), station("b"), station("a"), station("c"), station("b"), station("a"),
	}
	got := Dedupe(in)
	require.Equal(t, []string{"a", "b", "c"}, uuids(got))
}

func TestDedupeEmpty(t *testing.T) {
	require.Empty(t, Dedupe(nil))
	require.Empty(t, Dedupe([]domain.Station{}))
}

func TestDedupeNoDuplicatesInOutput(t *testing.T) {
	in := []domain.Station{
		station("x"), station("x"), station("x"),
	}
	got := Dedupe(in)
	require.Len(t, got, 1)
}

func TestShufflePreservesMultiset(t *testing.T) {
	in := []domain.Station{
		station("a"), station("b"), station("c"), station("d"), station("e"),
	}
	want := append([]string(nil), uuids(in)...)

	Shuffle(in)

	got := uuids(in)
	require.Len(t, got, len(want))
	sort.Strings(got)
	sort.Strings(want)
	require.Equal(t, want, got)
}

func TestShuffleHandlesSmallSlices(t *testing.T) {
	Shuffle(nil)
	one := []domain.Station{station("a")}
	Shuffle(one)
	require.Equal(t, "a", one[0].StationUUID)
}

func TestDedupeShuffleCaps(t *testing.T) {
	in := make([]domain.Station, 0, 40)
	for i := 0; i < 20; i++ {
		s := station(string(rune('a' + i)))
		in = append(in, s, s) // Every station twice
	}
	got := dedupeShuffle(in, 16)
	require.Len(t, got, 16)

	seen := map[string]bool{}
	for _, s := range got {
		require.False(t, seen[s.StationUUID], "duplicate %s survived", s.StationUUID)
		seen[s.StationUUID] = true
	}
}
