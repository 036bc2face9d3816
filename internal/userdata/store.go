package userdata

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mmcdole/airwave/internal/domain"
)

// Durable storage keys. Each holds a JSON snapshot of one state slice.
const (
	keyFavorites  = "radio_favorites"
	keyCategories = "radio_categories"
	keyHistory    = "radio_history"
	keyVotes      = "radio_votes"
)

// historyLimit caps the play history length.
const historyLimit = 20

// VoteResult reports the outcome of a vote toggle.
type VoteResult string

const (
	VoteAdded   VoteResult = "added"
	VoteRemoved VoteResult = "removed"
	VoteFailed  VoteResult = "failed"
)

// EventKind identifies which state slice changed.
type EventKind int

const (
	EventFavorites EventKind = iota
	EventCategories
	EventHistory
	EventVotes
)

// Event is emitted synchronously after each mutation.
type Event struct {
	Kind EventKind
}

// Store is the single source of truth for user-owned data. Every mutation is
// mirrored to durable storage before it returns; failed writes are logged and
// the in-memory state is kept, so durability is best-effort.
type Store struct {
	kv     domain.KV
	voter  domain.Voter
	logger *slog.Logger

	mu         sync.RWMutex
	favorites  []domain.Station
	categories []domain.Category
	history    []domain.Station
	votes      map[string]bool

	subMu sync.Mutex
	subs  []func(Event)
}

// NewStore creates a user-data store over the given KV and voter.
func NewStore(kv domain.KV, voter domain.Voter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:     kv,
		voter:  voter,
		logger: logger,
		votes:  make(map[string]bool),
	}
}

// Subscribe registers a callback invoked synchronously after each mutation.
func (s *Store) Subscribe(fn func(Event)) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *Store) notify(kind EventKind) {
	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(Event{Kind: kind})
	}
}

// Load rehydrates all state slices from durable storage. A malformed or
// absent slice falls back to its empty default with a logged error; Load
// never fails.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.kv.Get(keyFavorites); ok {
		if err := json.Unmarshal(data, &s.favorites); err != nil {
			s.logger.Error("malformed favorites, resetting", "error", err)
			s.favorites = nil
		}
	}

	if data, ok := s.kv.Get(keyCategories); ok {
		var cats []domain.Category
		if err := json.Unmarshal(data, &cats); err != nil {
			s.logger.Error("malformed categories, resetting", "error", err)
		} else {
			// Repair legacy records lacking an id or a stations list.
			for i := range cats {
				if cats[i].ID == "" {
					cats[i].ID = uuid.NewString()
				}
				if cats[i].Stations == nil {
					cats[i].Stations = []domain.Station{}
				}
			}
			s.categories = cats
		}
	}

	if data, ok := s.kv.Get(keyHistory); ok {
		if err := json.Unmarshal(data, &s.history); err != nil {
			s.logger.Error("malformed history, resetting", "error", err)
			s.history = nil
		}
	}

	if data, ok := s.kv.Get(keyVotes); ok {
		if err := json.Unmarshal(data, &s.votes); err != nil {
			s.logger.Error("malformed votes, resetting", "error", err)
			s.votes = make(map[string]bool)
		}
	}
	if s.votes == nil {
		s.votes = make(map[string]bool)
	}

	s.logger.Debug("user data loaded",
		"favorites", len(s.favorites), "categories", len(s.categories), "history", len(s.history))
}

// persist writes one state slice, logging (not returning) failures.
func (s *Store) persist(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to marshal user data", "key", key, "error", err)
		return
	}
	if err := s.kv.Put(key, data); err != nil {
		s.logger.Error("failed to persist user data", "key", key, "error", err)
	}
}

// === Favorites ===

// ToggleFavorite adds the station to favorites, or removes it when present.
func (s *Store) ToggleFavorite(station domain.Station) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.favorites, func(f domain.Station) bool {
		return f.StationUUID == station.StationUUID
	})
	if idx == -1 {
		s.favorites = append(s.favorites, station)
	} else {
		s.favorites = slices.Delete(s.favorites, idx, idx+1)
	}
	s.persist(keyFavorites, s.favorites)
	s.mu.Unlock()

	s.notify(EventFavorites)
}

// IsFavorite reports whether a station is favorited.
func (s *Store) IsFavorite(stationUUID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.favorites, func(f domain.Station) bool {
		return f.StationUUID == stationUUID
	})
}

// Favorites returns a copy of the favorites list.
func (s *Store) Favorites() []domain.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

// === Categories ===

// CreateCategory creates a named category with a fresh id. A name that is
// empty after trimming is a silent no-op.
func (s *Store) CreateCategory(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	s.mu.Lock()
	s.categories = append(s.categories, domain.Category{
		ID:       uuid.NewString(),
		Name:     name,
		Stations: []domain.Station{},
	})
	s.persist(keyCategories, s.categories)
	s.mu.Unlock()

	s.notify(EventCategories)
}

// RenameCategory updates a category's name; empty names are ignored.
func (s *Store) RenameCategory(id, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	s.mu.Lock()
	changed := false
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = name
			changed = true
			break
		}
	}
	if changed {
		s.persist(keyCategories, s.categories)
	}
	s.mu.Unlock()

	if changed {
		s.notify(EventCategories)
	}
}

// DeleteCategory removes a category by id.
func (s *Store) DeleteCategory(id string) {
	s.mu.Lock()
	s.categories = slices.DeleteFunc(s.categories, func(c domain.Category) bool {
		return c.ID == id
	})
	s.persist(keyCategories, s.categories)
	s.mu.Unlock()

	s.notify(EventCategories)
}

// AddToCategory adds a station to a category. Adding an already-present
// station (by identity) is a no-op and does not persist.
func (s *Store) AddToCategory(categoryID string, station domain.Station) {
	s.mu.Lock()
	changed := false
	for i := range s.categories {
		if s.categories[i].ID != categoryID {
			continue
		}
		if !s.categories[i].Contains(station.StationUUID) {
			s.categories[i].Stations = append(s.categories[i].Stations, station)
			changed = true
		}
		break
	}
	if changed {
		s.persist(keyCategories, s.categories)
	}
	s.mu.Unlock()

	if changed {
		s.notify(EventCategories)
	}
}

// RemoveFromCategory removes a station from a category. Removing an absent
// station is a no-op for the list, but the snapshot is persisted regardless.
func (s *Store) RemoveFromCategory(categoryID, stationUUID string) {
	s.mu.Lock()
	found := false
	for i := range s.categories {
		if s.categories[i].ID != categoryID {
			continue
		}
		s.categories[i].Stations = slices.DeleteFunc(s.categories[i].Stations, func(st domain.Station) bool {
			return st.StationUUID == stationUUID
		})
		found = true
		break
	}
	if found {
		s.persist(keyCategories, s.categories)
	}
	s.mu.Unlock()

	if found {
		s.notify(EventCategories)
	}
}

// Categories returns a copy of the category list.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// === History ===

// AddToHistory records a play with move-to-front semantics: a station already
// present moves to the front instead of duplicating, and the list is capped.
// Implements domain.HistoryRecorder.
func (s *Store) AddToHistory(station domain.Station) {
	s.mu.Lock()
	s.history = slices.DeleteFunc(s.history, func(h domain.Station) bool {
		return h.StationUUID == station.StationUUID
	})
	s.history = append([]domain.Station{station}, s.history...)
	if len(s.history) > historyLimit {
		s.history = s.history[:historyLimit]
	}
	s.persist(keyHistory, s.history)
	s.mu.Unlock()

	s.notify(EventHistory)
}

// History returns a copy of the play history, most recent first.
func (s *Store) History() []domain.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}

// === Votes ===

// Vote toggles the local vote flag for a station. Removing a vote is purely
// local; adding one requires the upstream vote call to succeed first. On
// upstream failure nothing changes.
func (s *Store) Vote(ctx context.Context, station domain.Station) VoteResult {
	s.mu.Lock()
	if s.votes[station.StationUUID] {
		delete(s.votes, station.StationUUID)
		s.persist(keyVotes, s.votes)
		s.mu.Unlock()

		s.notify(EventVotes)
		return VoteRemoved
	}
	s.mu.Unlock()

	if !s.voter.Vote(ctx, station.StationUUID) {
		return VoteFailed
	}

	s.mu.Lock()
	s.votes[station.StationUUID] = true
	s.persist(keyVotes, s.votes)
	s.mu.Unlock()

	s.notify(EventVotes)
	return VoteAdded
}

// HasVoted reports whether the local vote flag is set for a station.
func (s *Store) HasVoted(stationUUID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.votes[stationUUID]
}
