package player

import (
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
)

// MPVOutput drives a background mpv process as the audio output handle. Live
// streams are (re)connected by spawning a fresh process; pausing kills it.
// Without an IPC socket the process lifecycle is the only playback signal, so
// a successful start is reported as playing and an unexpected exit as an
// error.
type MPVOutput struct {
	logger *slog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	url     string
	volume  int
	gen     int // Invalidates the waiter of a replaced process
	handler func(Event)
}

// NewMPVOutput creates an mpv-backed audio output.
func NewMPVOutput(logger *slog.Logger) *MPVOutput {
	if logger == nil {
		logger = slog.Default()
	}
	return &MPVOutput{logger: logger, volume: 100}
}

// OnEvent registers the lifecycle handler (the playback controller).
func (o *MPVOutput) OnEvent(fn func(Event)) {
	o.mu.Lock()
	o.handler = fn
	o.mu.Unlock()
}

func (o *MPVOutput) emit(ev Event) {
	o.mu.Lock()
	handler := o.handler
	o.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

// Play connects to a stream URL, replacing any active process.
func (o *MPVOutput) Play(url string) error {
	o.mu.Lock()
	o.stopLocked()
	o.gen++
	gen := o.gen

	cmd := exec.Command("mpv",
		"--no-video",
		"--really-quiet",
		fmt.Sprintf("--volume=%d", o.volume),
		url,
	)
	if err := cmd.Start(); err != nil {
		o.mu.Unlock()
		o.logger.Error("failed to start mpv", "error", err)
		return fmt.Errorf("failed to start mpv: %w", err)
	}
	o.cmd = cmd
	o.url = url
	o.mu.Unlock()

	o.logger.Debug("mpv started", "url", url, "pid", cmd.Process.Pid)
	o.emit(Event{Kind: EventPlaying})

	go func() {
		err := cmd.Wait()

		o.mu.Lock()
		stale := gen != o.gen
		o.mu.Unlock()
		if stale {
			return // Replaced or deliberately stopped
		}

		o.logger.Warn("mpv exited unexpectedly", "error", err)
		o.emit(Event{Kind: EventError, Err: err})
	}()

	return nil
}

// Pause kills the stream process; a live stream cannot be meaningfully
// buffered, so pause is a disconnect.
func (o *MPVOutput) Pause() {
	o.mu.Lock()
	o.gen++
	o.stopLocked()
	o.mu.Unlock()
	o.emit(Event{Kind: EventPaused})
}

// Resume reconnects to the last stream URL.
func (o *MPVOutput) Resume() {
	o.mu.Lock()
	url := o.url
	o.mu.Unlock()
	if url == "" {
		return
	}
	if err := o.Play(url); err != nil {
		o.emit(Event{Kind: EventError, Err: err})
	}
}

// SetVolume stores the volume for the next process start; without IPC a
// running process cannot be adjusted in place.
func (o *MPVOutput) SetVolume(percent int) {
	o.mu.Lock()
	o.volume = percent
	o.mu.Unlock()
}

// Close tears down any active process.
func (o *MPVOutput) Close() {
	o.mu.Lock()
	o.gen++
	o.stopLocked()
	o.mu.Unlock()
}

func (o *MPVOutput) stopLocked() {
	if o.cmd != nil && o.cmd.Process != nil {
		o.cmd.Process.Kill()
	}
	o.cmd = nil
}
