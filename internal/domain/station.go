package domain

import (
	"strconv"
	"strings"
)

// Station represents a single entry in the Radio Browser directory.
// StationUUID is the sole identity for equality and deduplication; names and
// stream URLs are not unique across the directory.
type Station struct {
	StationUUID string `json:"stationuuid"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	URLResolved string `json:"url_resolved"`
	Homepage    string `json:"homepage"`
	Favicon     string `json:"favicon"`
	Tags        string `json:"tags"` // Comma-separated tag string as served upstream
	Country     string `json:"country"`
	CountryCode string `json:"countrycode"`
	Language    string `json:"language"`
	Codec       string `json:"codec"`
	Bitrate     int    `json:"bitrate"`
	Votes       int    `json:"votes"`
	ClickCount  int    `json:"clickcount"`
}

// StreamURL returns the playable URL, preferring the server-resolved variant.
func (s Station) StreamURL() string {
	if s.URLResolved != "" {
		return s.URLResolved
	}
	return s.URL
}

// TagList splits the comma-separated tag string into trimmed, non-empty tokens.
func (s Station) TagList() []string {
	if s.Tags == "" {
		return nil
	}
	parts := strings.Split(s.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SameStation reports whether both stations share an identity.
func (s Station) SameStation(other Station) bool {
	return s.StationUUID == other.StationUUID
}

// DisplayBitrate returns a short bitrate label, empty when unknown.
func (s Station) DisplayBitrate() string {
	if s.Bitrate <= 0 {
		return ""
	}
	return strconv.Itoa(s.Bitrate) + " kbps"
}
