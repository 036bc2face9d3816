package tui

import (
	"github.com/mmcdole/airwave/internal/curation"
	"github.com/mmcdole/airwave/internal/domain"
	"github.com/mmcdole/airwave/internal/userdata"
)

// Message types for the TUI

// ErrMsg carries an error together with the operation group it belongs to, so
// a failed search does not clobber an unrelated screen.
type ErrMsg struct {
	Err   error
	Group string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Group != "" {
		return e.Group + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Operation groups for ErrMsg
const (
	GroupHome     = "home"
	GroupDiscover = "discover"
	GroupSearch   = "search"
	GroupBrowse   = "browse"
	GroupStation  = "station"
	GroupVote     = "vote"
)

// HomeLoadedMsg signals that the homepage sections are ready
type HomeLoadedMsg struct {
	Page *curation.HomePage
}

// DiscoveryLoadedMsg signals that the random discovery grid is ready
type DiscoveryLoadedMsg struct {
	Stations []domain.Station
}

// SearchResultsMsg signals that search results are ready
type SearchResultsMsg struct {
	Query    string
	Stations []domain.Station
}

// RelatedLoadedMsg signals that related stations for a detail screen are ready
type RelatedLoadedMsg struct {
	StationUUID string
	Stations    []domain.Station
}

// FiltersLoadedMsg signals that the browse filters are ready
type FiltersLoadedMsg struct {
	Filters *curation.Filters
}

// FilteredStationsMsg signals that stations for a country, language or tag
// selection are ready
type FilteredStationsMsg struct {
	Title    string
	Stations []domain.Station
}

// VoteResultMsg reports the outcome of a vote toggle
type VoteResultMsg struct {
	StationUUID string
	Result      userdata.VoteResult
}

// PlayerUpdatedMsg signals that playback state changed
type PlayerUpdatedMsg struct{}

// UserDataChangedMsg signals that favorites, categories, history or votes
// changed
type UserDataChangedMsg struct {
	Kind userdata.EventKind
}

// StatusMsg sets a temporary status line message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}
