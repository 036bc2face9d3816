package player

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/mmcdole/airwave/internal/domain"
)

// keyVolume persists the volume as a plain integer string.
const keyVolume = "radio_volume"

// State is the playback state machine.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateError
)

// String returns a human-readable representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// EventKind identifies an audio lifecycle signal from the output binding.
type EventKind int

const (
	EventPlaying EventKind = iota
	EventPaused
	EventBuffering
	EventError
)

// Event is a lifecycle signal delivered by the audio output binding via
// HandleOutputEvent.
type Event struct {
	Kind EventKind
	Err  error
}

// AudioOutput is the single audio-output handle the controller owns. The
// binding behind it (mpv, a decoder pipeline, ...) forwards its lifecycle
// signals to Controller.HandleOutputEvent.
type AudioOutput interface {
	Play(url string) error
	Pause()
	Resume()
	SetVolume(percent int)
}

// Controller drives the audio output and reflects its lifecycle into
// observable status fields. Stream failures are terminal for the attempt;
// there is no automatic retry.
type Controller struct {
	output  AudioOutput
	history domain.HistoryRecorder
	kv      domain.KV
	logger  *slog.Logger

	mu      sync.RWMutex
	state   State
	current *domain.Station
	volume  int
	errMsg  string

	subMu sync.Mutex
	subs  []func()
}

// NewController creates a playback controller. History recording goes through
// the injected HistoryRecorder rather than a store reference.
func NewController(output AudioOutput, history domain.HistoryRecorder, kv domain.KV, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		output:  output,
		history: history,
		kv:      kv,
		logger:  logger,
		state:   StateIdle,
		volume:  100,
	}
}

// Subscribe registers a callback invoked after every status change.
func (c *Controller) Subscribe(fn func()) {
	c.subMu.Lock()
	c.subs = append(c.subs, fn)
	c.subMu.Unlock()
}

func (c *Controller) notify() {
	c.subMu.Lock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// RestoreVolume applies the persisted volume, falling back to def when none
// is stored.
func (c *Controller) RestoreVolume(def int) {
	vol := clampVolume(def)
	if data, ok := c.kv.Get(keyVolume); ok {
		if v, err := strconv.Atoi(string(data)); err == nil {
			vol = clampVolume(v)
		} else {
			c.logger.Error("malformed persisted volume", "value", string(data), "error", err)
		}
	}

	c.mu.Lock()
	c.volume = vol
	c.mu.Unlock()
	c.output.SetVolume(vol)
}

// PlayStation starts streaming a station. Playing the current station again
// toggles play/pause instead of restarting the stream.
func (c *Controller) PlayStation(station domain.Station) {
	c.mu.Lock()
	if c.current != nil && c.current.StationUUID == station.StationUUID {
		c.mu.Unlock()
		c.TogglePlay()
		return
	}
	c.current = &station
	c.state = StateLoading
	c.errMsg = ""
	c.mu.Unlock()

	c.history.AddToHistory(station)
	c.logger.Info("playing station", "name", station.Name, "stationUUID", station.StationUUID)
	c.startStream(station)
}

func (c *Controller) startStream(station domain.Station) {
	if err := c.output.Play(station.StreamURL()); err != nil {
		c.logger.Error("failed to start stream", "error", err, "url", station.StreamURL())
		c.mu.Lock()
		c.state = StateError
		c.errMsg = "could not play this stream"
		c.mu.Unlock()
	}
	c.notify()
}

// TogglePlay pauses an active stream or resumes/restarts a paused one.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	state, current := c.state, c.current
	c.mu.Unlock()

	switch {
	case state == StatePlaying || state == StateLoading:
		c.output.Pause()
	case state == StatePaused:
		c.output.Resume()
	case current != nil:
		c.mu.Lock()
		c.state = StateLoading
		c.errMsg = ""
		c.mu.Unlock()
		c.startStream(*current)
	}
}

// Stop disconnects the stream and returns to idle, clearing the current
// station.
func (c *Controller) Stop() {
	c.output.Pause()

	c.mu.Lock()
	c.current = nil
	c.state = StateIdle
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()
}

// SetVolume clamps to 0-100, applies immediately, and persists.
func (c *Controller) SetVolume(v int) {
	v = clampVolume(v)

	c.mu.Lock()
	c.volume = v
	c.mu.Unlock()

	c.output.SetVolume(v)
	if err := c.kv.Put(keyVolume, []byte(strconv.Itoa(v))); err != nil {
		c.logger.Error("failed to persist volume", "error", err)
	}
	c.notify()
}

// HandleOutputEvent reflects an audio lifecycle signal into the status
// fields. The output binding calls this from its own event source.
func (c *Controller) HandleOutputEvent(ev Event) {
	c.mu.Lock()
	switch ev.Kind {
	case EventPlaying:
		c.state = StatePlaying
		c.errMsg = ""
	case EventPaused:
		c.state = StatePaused
	case EventBuffering:
		c.state = StateLoading
	case EventError:
		c.state = StateError
		c.errMsg = "stream playback failed"
		c.logger.Error("stream error", "error", ev.Err)
	}
	c.mu.Unlock()
	c.notify()
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsPlaying reports whether audio is currently playing.
func (c *Controller) IsPlaying() bool {
	return c.State() == StatePlaying
}

// Current returns the current station, nil when idle.
func (c *Controller) Current() *domain.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil
	}
	st := *c.current
	return &st
}

// Volume returns the current volume (0-100).
func (c *Controller) Volume() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.volume
}

// Err returns the user-facing playback error message, empty when none.
func (c *Controller) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
