package userdata

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/airwave/internal/domain"
	"github.com/mmcdole/airwave/internal/log"
	"github.com/mmcdole/airwave/internal/storage"
)

// fakeVoter counts upstream vote calls and returns a fixed result.
type fakeVoter struct {
	ok    bool
	calls int
}

func (v *fakeVoter) Vote(context.Context, string) bool {
	v.calls++
	return v.ok
}

func newTestStore(t *testing.T) (*Store, *storage.Store, *fakeVoter) {
	t.Helper()
	kv, err := storage.Open("")
	require.NoError(t, err)
	voter := &fakeVoter{ok: true}
	s := NewStore(kv, voter, log.NullLogger())
	s.Load()
	return s, kv, voter
}

func station(uuid string) domain.Station {
	return domain.Station{StationUUID: uuid, Name: "station " + uuid}
}

func TestToggleFavoriteIsItsOwnInverse(t *testing.T) {
	s, _, _ := newTestStore(t)
	st := station("a")

	s.ToggleFavorite(st)
	require.True(t, s.IsFavorite("a"))
	require.Len(t, s.Favorites(), 1)

	s.ToggleFavorite(st)
	require.False(t, s.IsFavorite("a"))
	require.Empty(t, s.Favorites())
}

func TestFavoritesPersistAcrossLoad(t *testing.T) {
	s, kv, voter := newTestStore(t)
	s.ToggleFavorite(station("a"))

	reloaded := NewStore(kv, voter, log.NullLogger())
	reloaded.Load()
	require.True(t, reloaded.IsFavorite("a"))
}

func TestCreateCategoryRejectsBlankNames(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.CreateCategory("")
	s.CreateCategory("   ")
	require.Empty(t, s.Categories())

	s.CreateCategory("  Jazz  ")
	cats := s.Categories()
	require.Len(t, cats, 1)
	require.Equal(t, "Jazz", cats[0].Name)
	require.NotEmpty(t, cats[0].ID)
	require.Empty(t, cats[0].Stations)
}

func TestCategoryIDsAreUnique(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.CreateCategory("One")
	s.CreateCategory("Two")

	cats := s.Categories()
	require.Len(t, cats, 2)
	require.NotEqual(t, cats[0].ID, cats[1].ID)
}

func TestAddToCategoryIsIdempotent(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.CreateCategory("Jazz")
	id := s.Categories()[0].ID

	s.AddToCategory(id, station("a"))
	s.AddToCategory(id, station("a"))

	cats := s.Categories()
	require.Len(t, cats[0].Stations, 1)
}

func TestRemoveFromCategory(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.CreateCategory("Jazz")
	id := s.Categories()[0].ID

	s.AddToCategory(id, station("a"))
	s.AddToCategory(id, station("b"))
	s.RemoveFromCategory(id, "a")

	cats := s.Categories()
	require.Len(t, cats[0].Stations, 1)
	require.Equal(t, "b", cats[0].Stations[0].StationUUID)

	// Removing an absent station is a no-op.
	s.RemoveFromCategory(id, "missing")
	require.Len(t, s.Categories()[0].Stations, 1)
}

func TestRenameAndDeleteCategory(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.CreateCategory("Jazz")
	id := s.Categories()[0].ID

	s.RenameCategory(id, "  Blues ")
	require.Equal(t, "Blues", s.Categories()[0].Name)

	s.RenameCategory(id, "  ")
	require.Equal(t, "Blues", s.Categories()[0].Name, "blank rename must be ignored")

	s.DeleteCategory(id)
	require.Empty(t, s.Categories())
}

func TestHistoryMoveToFront(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.AddToHistory(station("a"))
	s.AddToHistory(station("b"))
	require.Equal(t, "b", s.History()[0].StationUUID)

	s.AddToHistory(station("a"))
	hist := s.History()
	require.Len(t, hist, 2, "replay must move, not duplicate")
	require.Equal(t, "a", hist[0].StationUUID)
	require.Equal(t, "b", hist[1].StationUUID)
}

func TestHistoryIsCapped(t *testing.T) {
	s, _, _ := newTestStore(t)

	for i := 0; i < 30; i++ {
		s.AddToHistory(station(fmt.Sprintf("s%d", i)))
	}

	hist := s.History()
	require.Len(t, hist, historyLimit)
	require.Equal(t, "s29", hist[0].StationUUID)
}

func TestVoteAddAndRemove(t *testing.T) {
	s, _, voter := newTestStore(t)
	st := station("a")
	ctx := context.Background()

	require.Equal(t, VoteAdded, s.Vote(ctx, st))
	require.True(t, s.HasVoted("a"))
	require.Equal(t, 1, voter.calls)

	// Un-voting is local-only: no upstream call.
	require.Equal(t, VoteRemoved, s.Vote(ctx, st))
	require.False(t, s.HasVoted("a"))
	require.Equal(t, 1, voter.calls)
}

func TestVoteFailureLeavesStateUnchanged(t *testing.T) {
	s, _, voter := newTestStore(t)
	voter.ok = false

	require.Equal(t, VoteFailed, s.Vote(context.Background(), station("a")))
	require.False(t, s.HasVoted("a"))
}

func TestLoadToleratesMalformedSlices(t *testing.T) {
	kv, err := storage.Open("")
	require.NoError(t, err)
	require.NoError(t, kv.Put(keyFavorites, []byte("{not json")))
	require.NoError(t, kv.Put(keyHistory, []byte("42")))

	s := NewStore(kv, &fakeVoter{}, log.NullLogger())
	s.Load()

	require.Empty(t, s.Favorites())
	require.Empty(t, s.History())
}

func TestLoadRepairsLegacyCategories(t *testing.T) {
	kv, err := storage.Open("")
	require.NoError(t, err)

	legacy := []map[string]any{
		{"name": "Old"},
		{"id": "kept", "name": "New", "stations": []any{}},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, kv.Put(keyCategories, data))

	s := NewStore(kv, &fakeVoter{}, log.NullLogger())
	s.Load()

	cats := s.Categories()
	require.Len(t, cats, 2)
	require.NotEmpty(t, cats[0].ID, "missing id must be generated")
	require.NotNil(t, cats[0].Stations)
	require.Equal(t, "kept", cats[1].ID)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s, _, _ := newTestStore(t)

	var got []EventKind
	s.Subscribe(func(e Event) { got = append(got, e.Kind) })

	s.ToggleFavorite(station("a"))
	s.CreateCategory("Jazz")
	s.AddToHistory(station("a"))

	require.Equal(t, []EventKind{EventFavorites, EventCategories, EventHistory}, got)
}
