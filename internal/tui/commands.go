package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/airwave/internal/domain"
	"github.com/mmcdole/airwave/internal/radiobrowser"
)

const requestTimeout = 15 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (m *Model) loadHomeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		page, err := m.curator.FetchHome(ctx)
		if err != nil {
			return ErrMsg{Err: err, Group: GroupHome}
		}
		return HomeLoadedMsg{Page: page}
	}
}

func (m *Model) loadDiscoveryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		stations, err := m.curator.FetchDiscovery(ctx)
		if err != nil {
			return ErrMsg{Err: err, Group: GroupDiscover}
		}
		return DiscoveryLoadedMsg{Stations: stations}
	}
}

func (m *Model) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		stations, err := m.gateway.Search(ctx, radiobrowser.SearchParams{
			Name:  query,
			Limit: 100,
		})
		if err != nil {
			return ErrMsg{Err: err, Group: GroupSearch}
		}
		return SearchResultsMsg{Query: query, Stations: stations}
	}
}

func (m *Model) loadRelatedCmd(seed domain.Station) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		stations, err := m.curator.FetchRelated(ctx, seed)
		if err != nil {
			return ErrMsg{Err: err, Group: GroupStation}
		}
		return RelatedLoadedMsg{StationUUID: seed.StationUUID, Stations: stations}
	}
}

func (m *Model) loadFiltersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		filters, err := m.curator.FetchFilters(ctx)
		if err != nil {
			return ErrMsg{Err: err, Group: GroupBrowse}
		}
		return FiltersLoadedMsg{Filters: filters}
	}
}

func (m *Model) loadCountryStationsCmd(country string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		stations, err := m.gateway.StationsByCountry(ctx, country, 100)
		if err != nil {
			return ErrMsg{Err: err, Group: GroupBrowse}
		}
		return FilteredStationsMsg{Title: country, Stations: stations}
	}
}

func (m *Model) loadLanguageStationsCmd(language string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		stations, err := m.gateway.Search(ctx, radiobrowser.SearchParams{
			Language: language,
			Limit:    100,
		})
		if err != nil {
			return ErrMsg{Err: err, Group: GroupBrowse}
		}
		return FilteredStationsMsg{Title: language, Stations: stations}
	}
}

func (m *Model) loadTagStationsCmd(tag string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		stations, err := m.gateway.StationsByTag(ctx, tag, 100, "")
		if err != nil {
			return ErrMsg{Err: err, Group: GroupBrowse}
		}
		return FilteredStationsMsg{Title: tag, Stations: stations}
	}
}

func (m *Model) voteCmd(station domain.Station) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		result := m.user.Vote(ctx, station)
		return VoteResultMsg{StationUUID: station.StationUUID, Result: result}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
