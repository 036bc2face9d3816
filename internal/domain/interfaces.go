package domain

import "context"

// HistoryRecorder records a station play event. The playback controller
// depends on this capability rather than on the user-data store directly.
type HistoryRecorder interface {
	AddToHistory(station Station)
}

// Voter submits a best-effort vote for a station. Implemented by the
// directory gateway; the returned bool is the only failure signal.
type Voter interface {
	Vote(ctx context.Context, stationUUID string) bool
}

// KV is the durable string-keyed store backing user state. Writes are
// best-effort; a failed write loses the update but never the in-memory state.
type KV interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string)
}
