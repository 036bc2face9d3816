package radiobrowser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/airwave/internal/config"
	"github.com/mmcdole/airwave/internal/domain"
	"github.com/mmcdole/airwave/internal/log"
)

func newTestClient(t *testing.T, srv *httptest.Server, ttl time.Duration) *Client {
	t.Helper()
	return NewClient(config.APIConfig{
		Mirrors:      []string{srv.URL},
		CacheTTL:     ttl,
		ProbeTimeout: 2 * time.Second,
	}, log.NullLogger())
}

func stationsJSON(uuids ...string) []byte {
	stations := make([]domain.Station, len(uuids))
	for i, u := range uuids {
		stations[i] = domain.Station{StationUUID: u, Name: "station " + u}
	}
	data, _ := json.Marshal(stations)
	return data
}

func TestQueryCachesWithinTTL(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write(stationsJSON("a", "b"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 100*time.Millisecond)
	ctx := context.Background()

	_, err := c.TopStations(ctx, 10)
	require.NoError(t, err)
	_, err = c.TopStations(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load(), "second call within TTL must be served from cache")

	time.Sleep(150 * time.Millisecond)

	_, err = c.TopStations(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load(), "call after TTL must hit the network")
}

func TestCacheKeyIncludesParams(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write(stationsJSON("a"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Minute)
	ctx := context.Background()

	_, err := c.TopStations(ctx, 10)
	require.NoError(t, err)
	_, err = c.TopStations(ctx, 20)
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load(), "different params must not share a cache entry")
}

func TestProbeMirrorsSelectsFirstReachable(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer up.Close()

	c := NewClient(config.APIConfig{
		Mirrors:      []string{down.URL, up.URL},
		CacheTTL:     time.Minute,
		ProbeTimeout: time.Second,
	}, log.NullLogger())

	require.Equal(t, down.URL, c.BaseURL(), "first mirror is the default before probing")
	require.NoError(t, c.ProbeMirrors(context.Background()))
	require.Equal(t, up.URL, c.BaseURL())
}

func TestProbeMirrorsKeepsDefaultWhenAllFail(t *testing.T) {
	c := NewClient(config.APIConfig{
		Mirrors:      []string{"http://127.0.0.1:1", "http://127.0.0.1:2"},
		CacheTTL:     time.Minute,
		ProbeTimeout: 100 * time.Millisecond,
	}, log.NullLogger())

	err := c.ProbeMirrors(context.Background())
	require.ErrorIs(t, err, domain.ErrMirrorsUnreachable)
	require.Equal(t, "http://127.0.0.1:1", c.BaseURL())
}

func TestStationByUUID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stations/byuuid/known" {
			w.Write(stationsJSON("known"))
			return
		}
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Minute)
	ctx := context.Background()

	st, err := c.StationByUUID(ctx, "known")
	require.NoError(t, err)
	require.Equal(t, "known", st.StationUUID)

	_, err = c.StationByUUID(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrStationNotFound)
}

func TestVoteNeverReturnsError(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Minute)
	ctx := context.Background()

	require.True(t, c.Vote(ctx, "uuid-1"))

	status.Store(http.StatusInternalServerError)
	require.False(t, c.Vote(ctx, "uuid-1"))
}

func TestVoteBypassesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Minute)
	ctx := context.Background()

	c.Vote(ctx, "uuid-1")
	c.Vote(ctx, "uuid-1")
	require.Equal(t, int32(2), calls.Load())
}

func TestRelatedStationsStrategy(t *testing.T) {
	tests := []struct {
		name     string
		station  domain.Station
		wantPath string
	}{
		{
			name:     "first long tag wins",
			station:  domain.Station{StationUUID: "s", Tags: "ny,rock,pop"},
			wantPath: "/stations/search",
		},
		{
			name:     "country fallback",
			station:  domain.Station{StationUUID: "s", Tags: "ny", Country: "France"},
			wantPath: "/stations/bycountry/France",
		},
		{
			name:     "global top fallback",
			station:  domain.Station{StationUUID: "s"},
			wantPath: "/stations/topclick",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var gotTag string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotTag = r.URL.Query().Get("tag")
				w.Write([]byte("[]"))
			}))
			defer srv.Close()

			c := newTestClient(t, srv, time.Minute)
			_, err := c.RelatedStations(context.Background(), tt.station, 30)
			require.NoError(t, err)
			require.Equal(t, tt.wantPath, gotPath)
			if tt.wantPath == "/stations/search" {
				require.Equal(t, "rock", gotTag, "short tags must be skipped")
			}
		})
	}
}

func TestSearchParamsDefaults(t *testing.T) {
	v := SearchParams{}.values()
	require.Equal(t, "20", v.Get("limit"))
	require.Equal(t, "0", v.Get("offset"))
	require.Equal(t, "true", v.Get("hidebroken"))
	require.Equal(t, "clickcount", v.Get("order"))
	require.Equal(t, "true", v.Get("reverse"))
	require.Empty(t, v.Get("name"))
	require.Empty(t, v.Get("tag"))
}

func TestSearchParamsFilters(t *testing.T) {
	v := SearchParams{
		Name:       "jazz fm",
		Country:    "Germany",
		BitrateMin: 128,
		Limit:      5,
		Order:      "votes",
	}.values()
	require.Equal(t, "jazz fm", v.Get("name"))
	require.Equal(t, "Germany", v.Get("country"))
	require.Equal(t, "128", v.Get("bitrateMin"))
	require.Equal(t, "5", v.Get("limit"))
	require.Equal(t, "votes", v.Get("order"))
	require.Equal(t, "false", v.Get("reverse"))
}

func TestUpstreamErrorsAreWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Minute)
	_, err := c.TopStations(context.Background(), 10)
	require.ErrorIs(t, err, domain.ErrUpstream)
}
