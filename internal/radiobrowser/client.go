package radiobrowser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/airwave/internal/config"
	"github.com/mmcdole/airwave/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Airwave/1.0"
)

// Client talks to a Radio Browser API mirror. The mirror is selected once by
// ProbeMirrors at startup; a mid-session mirror outage degrades all later
// calls rather than triggering failover.
type Client struct {
	mirrors      []string
	baseURL      string
	probeTimeout time.Duration
	httpClient   *http.Client
	cache        *responseCache
	logger       *slog.Logger
}

// NewClient creates a new directory API client. The first configured mirror is
// the default until ProbeMirrors selects a reachable one.
func NewClient(cfg config.APIConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		mirrors:      cfg.Mirrors,
		baseURL:      cfg.Mirrors[0],
		probeTimeout: cfg.ProbeTimeout,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		cache:  newResponseCache(cfg.CacheTTL),
		logger: logger,
	}
}

// BaseURL returns the currently selected mirror base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProbeMirrors probes the configured mirrors in order with a short per-mirror
// timeout and adopts the first that answers the /servers health endpoint. When
// none answers, the default mirror is retained and ErrMirrorsUnreachable is
// returned; individual queries will then fail on their own.
func (c *Client) ProbeMirrors(ctx context.Context) error {
	probe := &http.Client{Timeout: c.probeTimeout}

	for _, mirror := range c.mirrors {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, mirror+"/servers", nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := probe.Do(req)
		if err != nil {
			c.logger.Debug("mirror probe failed", "mirror", mirror, "error", err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			c.baseURL = mirror
			c.logger.Info("selected mirror", "mirror", mirror)
			return nil
		}
		c.logger.Debug("mirror probe rejected", "mirror", mirror, "status", resp.StatusCode)
	}

	c.logger.Warn("all mirror probes failed, keeping default", "mirror", c.baseURL)
	return domain.ErrMirrorsUnreachable
}

// get performs a cached GET against the selected mirror. The cache key is the
// endpoint path plus the encoded parameter set; hits within the TTL never
// touch the network.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	key := endpoint
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if data, ok := c.cache.get(key); ok {
		c.logger.Debug("cache hit", "endpoint", endpoint)
		return data, nil
	}

	data, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	c.cache.put(key, data)
	return data, nil
}

// fetch performs an uncached GET against the selected mirror.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("directory request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("directory request failed", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("directory request error", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrUpstream, resp.StatusCode)
	}

	return body, nil
}

func decodeStations(body []byte) ([]domain.Station, error) {
	var stations []domain.Station
	if err := json.Unmarshal(body, &stations); err != nil {
		return nil, fmt.Errorf("failed to parse station list: %w", err)
	}
	return stations, nil
}

// SearchParams are the /stations/search filters. Zero-valued filters are
// omitted from the query.
type SearchParams struct {
	Name       string
	Country    string
	Language   string
	Tag        string
	BitrateMin int
	Limit      int
	Offset     int
	Order      string // "clickcount", "votes", "random", ...
	Reverse    bool
}

// values encodes the search parameters, applying the directory defaults
// (limit 20, order by clickcount descending, broken stations hidden).
func (p SearchParams) values() url.Values {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Order == "" {
		p.Order = "clickcount"
		p.Reverse = true
	}

	v := url.Values{}
	v.Set("limit", strconv.Itoa(p.Limit))
	v.Set("offset", strconv.Itoa(p.Offset))
	v.Set("hidebroken", "true")
	v.Set("order", p.Order)
	v.Set("reverse", strconv.FormatBool(p.Reverse))
	if p.Name != "" {
		v.Set("name", p.Name)
	}
	if p.Country != "" {
		v.Set("country", p.Country)
	}
	if p.Language != "" {
		v.Set("language", p.Language)
	}
	if p.Tag != "" {
		v.Set("tag", p.Tag)
	}
	if p.BitrateMin > 0 {
		v.Set("bitrateMin", strconv.Itoa(p.BitrateMin))
	}
	return v
}

// TopStations returns the most-clicked stations.
func (c *Client) TopStations(ctx context.Context, limit int) ([]domain.Station, error) {
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/stations/topclick", params)
	if err != nil {
		return nil, err
	}
	return decodeStations(body)
}

// Search performs a parameterized station search.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]domain.Station, error) {
	body, err := c.get(ctx, "/stations/search", p.values())
	if err != nil {
		return nil, err
	}
	return decodeStations(body)
}

// StationsByCountry returns stations for an exact country name.
func (c *Client) StationsByCountry(ctx context.Context, country string, limit int) ([]domain.Station, error) {
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("hidebroken", "true")

	body, err := c.get(ctx, "/stations/bycountry/"+url.PathEscape(country), params)
	if err != nil {
		return nil, err
	}
	return decodeStations(body)
}

// StationsByTag returns stations carrying a tag, ordered as requested.
func (c *Client) StationsByTag(ctx context.Context, tag string, limit int, order string) ([]domain.Station, error) {
	if limit <= 0 {
		limit = 20
	}
	if order == "" {
		order = "clickcount"
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("hidebroken", "true")
	params.Set("order", order)
	params.Set("reverse", "true")

	body, err := c.get(ctx, "/stations/bytag/"+url.PathEscape(tag), params)
	if err != nil {
		return nil, err
	}
	return decodeStations(body)
}

// StationByUUID looks up a single station, returning ErrStationNotFound when
// the directory has no match.
func (c *Client) StationByUUID(ctx context.Context, uuid string) (*domain.Station, error) {
	body, err := c.get(ctx, "/stations/byuuid/"+url.PathEscape(uuid), nil)
	if err != nil {
		return nil, err
	}
	stations, err := decodeStations(body)
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		return nil, domain.ErrStationNotFound
	}
	return &stations[0], nil
}

// RelatedStations finds stations similar to the given one: first by its first
// tag longer than two characters, then by country, then the global top list.
func (c *Client) RelatedStations(ctx context.Context, station domain.Station, limit int) ([]domain.Station, error) {
	for _, tag := range station.TagList() {
		if len(tag) > 2 {
			return c.Search(ctx, SearchParams{Tag: tag, Limit: limit})
		}
	}
	if station.Country != "" {
		return c.StationsByCountry(ctx, station.Country, limit)
	}
	return c.TopStations(ctx, limit)
}

// Vote submits a best-effort vote. The result bool is the only failure
// signal; votes bypass the response cache.
func (c *Client) Vote(ctx context.Context, stationUUID string) bool {
	_, err := c.fetch(ctx, "/vote/"+url.PathEscape(stationUUID), nil)
	if err != nil {
		c.logger.Warn("vote failed", "stationUUID", stationUUID, "error", err)
		return false
	}
	return true
}

// Countries returns the directory's country aggregates.
func (c *Client) Countries(ctx context.Context) ([]domain.Country, error) {
	body, err := c.get(ctx, "/countries", nil)
	if err != nil {
		return nil, err
	}
	var countries []domain.Country
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, fmt.Errorf("failed to parse country list: %w", err)
	}
	return countries, nil
}

// Languages returns the directory's language aggregates.
func (c *Client) Languages(ctx context.Context) ([]domain.Language, error) {
	body, err := c.get(ctx, "/languages", nil)
	if err != nil {
		return nil, err
	}
	var languages []domain.Language
	if err := json.Unmarshal(body, &languages); err != nil {
		return nil, fmt.Errorf("failed to parse language list: %w", err)
	}
	return languages, nil
}

// TagsList returns the directory's tag aggregates.
func (c *Client) TagsList(ctx context.Context) ([]domain.Tag, error) {
	body, err := c.get(ctx, "/tags", nil)
	if err != nil {
		return nil, err
	}
	var tags []domain.Tag
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("failed to parse tag list: %w", err)
	}
	return tags, nil
}

// Stats returns directory-wide statistics.
func (c *Client) Stats(ctx context.Context) (*domain.Stats, error) {
	body, err := c.get(ctx, "/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats domain.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats: %w", err)
	}
	return &stats, nil
}
