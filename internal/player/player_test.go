package player

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/airwave/internal/domain"
	"github.com/mmcdole/airwave/internal/log"
	"github.com/mmcdole/airwave/internal/storage"
)

// fakeOutput records calls to the audio handle.
type fakeOutput struct {
	played  []string
	pauses  int
	resumes int
	volume  int
	playErr error
}

func (f *fakeOutput) Play(url string) error {
	f.played = append(f.played, url)
	return f.playErr
}

func (f *fakeOutput) Pause()          { f.pauses++ }
func (f *fakeOutput) Resume()         { f.resumes++ }
func (f *fakeOutput) SetVolume(v int) { f.volume = v }

// fakeRecorder records history calls.
type fakeRecorder struct {
	recorded []domain.Station
}

func (f *fakeRecorder) AddToHistory(st domain.Station) {
	f.recorded = append(f.recorded, st)
}

func newTestController(t *testing.T) (*Controller, *fakeOutput, *fakeRecorder, *storage.Store) {
	t.Helper()
	kv, err := storage.Open("")
	require.NoError(t, err)
	out := &fakeOutput{}
	rec := &fakeRecorder{}
	c := NewController(out, rec, kv, log.NullLogger())
	return c, out, rec, kv
}

func station(uuid, url string) domain.Station {
	return domain.Station{StationUUID: uuid, Name: "station " + uuid, URL: url}
}

func TestPlayStationStartsStreamAndRecordsHistory(t *testing.T) {
	c, out, rec, _ := newTestController(t)
	st := station("a", "http://stream/a")

	c.PlayStation(st)

	require.Equal(t, StateLoading, c.State())
	require.Equal(t, []string{"http://stream/a"}, out.played)
	require.Len(t, rec.recorded, 1)
	require.Equal(t, "a", rec.recorded[0].StationUUID)
	require.Equal(t, "a", c.Current().StationUUID)
}

func TestPlayStationPrefersResolvedURL(t *testing.T) {
	c, out, _, _ := newTestController(t)
	st := station("a", "http://stream/a")
	st.URLResolved = "http://resolved/a"

	c.PlayStation(st)
	require.Equal(t, []string{"http://resolved/a"}, out.played)
}

func TestPlayCurrentStationToggles(t *testing.T) {
	c, out, rec, _ := newTestController(t)
	st := station("a", "http://stream/a")

	c.PlayStation(st)
	c.HandleOutputEvent(Event{Kind: EventPlaying})
	require.Equal(t, StatePlaying, c.State())

	// Same station again pauses instead of restarting.
	c.PlayStation(st)
	require.Equal(t, 1, out.pauses)
	require.Len(t, out.played, 1)
	require.Len(t, rec.recorded, 1, "toggle must not re-record history")
}

func TestTogglePlayResumesFromPause(t *testing.T) {
	c, out, _, _ := newTestController(t)

	c.PlayStation(station("a", "http://stream/a"))
	c.HandleOutputEvent(Event{Kind: EventPlaying})
	c.HandleOutputEvent(Event{Kind: EventPaused})
	require.Equal(t, StatePaused, c.State())

	c.TogglePlay()
	require.Equal(t, 1, out.resumes)
}

func TestLifecycleEvents(t *testing.T) {
	c, _, _, _ := newTestController(t)
	c.PlayStation(station("a", "http://stream/a"))

	c.HandleOutputEvent(Event{Kind: EventBuffering})
	require.Equal(t, StateLoading, c.State())

	c.HandleOutputEvent(Event{Kind: EventPlaying})
	require.Equal(t, StatePlaying, c.State())
	require.True(t, c.IsPlaying())
	require.Empty(t, c.Err())

	c.HandleOutputEvent(Event{Kind: EventError, Err: errors.New("stream gone")})
	require.Equal(t, StateError, c.State())
	require.False(t, c.IsPlaying())
	require.NotEmpty(t, c.Err())
}

func TestPlayingClearsPreviousError(t *testing.T) {
	c, _, _, _ := newTestController(t)
	c.PlayStation(station("a", "http://stream/a"))
	c.HandleOutputEvent(Event{Kind: EventError, Err: errors.New("boom")})
	require.NotEmpty(t, c.Err())

	c.PlayStation(station("b", "http://stream/b"))
	require.Empty(t, c.Err())
	c.HandleOutputEvent(Event{Kind: EventPlaying})
	require.Empty(t, c.Err())
}

func TestStartStreamFailure(t *testing.T) {
	c, out, _, _ := newTestController(t)
	out.playErr = errors.New("no handler")

	c.PlayStation(station("a", "http://stream/a"))
	require.Equal(t, StateError, c.State())
	require.NotEmpty(t, c.Err())
}

func TestStopClearsCurrentStation(t *testing.T) {
	c, out, _, _ := newTestController(t)
	c.PlayStation(station("a", "http://stream/a"))
	c.HandleOutputEvent(Event{Kind: EventPlaying})

	c.Stop()
	require.Equal(t, StateIdle, c.State())
	require.Nil(t, c.Current())
	require.Equal(t, 1, out.pauses)
}

func TestSetVolumeClampsAndPersists(t *testing.T) {
	c, out, _, kv := newTestController(t)

	c.SetVolume(150)
	require.Equal(t, 100, c.Volume())
	require.Equal(t, 100, out.volume)

	c.SetVolume(-5)
	require.Equal(t, 0, c.Volume())

	c.SetVolume(42)
	data, ok := kv.Get("radio_volume")
	require.True(t, ok)
	require.Equal(t, "42", string(data))
}

func TestRestoreVolume(t *testing.T) {
	c, out, _, kv := newTestController(t)
	require.NoError(t, kv.Put("radio_volume", []byte("63")))

	c.RestoreVolume(100)
	require.Equal(t, 63, c.Volume())
	require.Equal(t, 63, out.volume)
}

func TestRestoreVolumeFallsBackOnGarbage(t *testing.T) {
	c, _, _, kv := newTestController(t)
	require.NoError(t, kv.Put("radio_volume", []byte("loud")))

	c.RestoreVolume(80)
	require.Equal(t, 80, c.Volume())
}
