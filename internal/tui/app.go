package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/airwave/internal/curation"
	"github.com/mmcdole/airwave/internal/domain"
	"github.com/mmcdole/airwave/internal/player"
	"github.com/mmcdole/airwave/internal/radiobrowser"
	"github.com/mmcdole/airwave/internal/tui/styles"
	"github.com/mmcdole/airwave/internal/userdata"
)

// Screen identifies the active screen
type Screen int

const (
	ScreenHome Screen = iota
	ScreenDiscover
	ScreenSearch
	ScreenFavorites
	ScreenCategories
	ScreenCategory
	ScreenBrowse
	ScreenBrowseStations
	ScreenHistory
	ScreenStation
	ScreenPickCategory
	ScreenHelp
)

// BrowseKind selects which filter list the browse screen shows
type BrowseKind int

const (
	BrowseCountries BrowseKind = iota
	BrowseLanguages
	BrowseTags
)

// inputMode says what an active text input is for
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputFilter
	inputNewCategory
	inputRenameCategory
)

const volumeStep = 5

// listRow is one renderable line of a list screen. Exactly one of header,
// station or label is set; header rows are not selectable.
type listRow struct {
	header  string
	station *domain.Station
	label   string
	id      string // Category ID for label rows that need one
	detail  string // Right-hand annotation for label rows
}

func (r listRow) selectable() bool { return r.header == "" }

// Model is the main Bubble Tea model for the application
type Model struct {
	curator *curation.Service
	gateway gateway
	user    *userdata.Store
	player  *player.Controller
	logger  *slog.Logger

	screen     Screen
	prevScreen Screen
	width      int
	height     int

	spinner   spinner.Model
	input     textinput.Model
	inputMode inputMode

	cursor int

	loading map[string]bool
	errs    map[string]string

	home           *curation.HomePage
	discovery      []domain.Station
	searchQuery    string
	searchResults  []domain.Station
	filters        *curation.Filters
	browseKind     BrowseKind
	browseTitle    string
	browseStations []domain.Station
	categoryID     string
	filterQuery    string
	detail         *domain.Station
	related        []domain.Station
	pending        *domain.Station
	renameID       string

	status    string
	statusErr bool
}

// gateway is the subset of the directory client the TUI calls directly.
type gateway interface {
	Search(ctx context.Context, p radiobrowser.SearchParams) ([]domain.Station, error)
	StationsByCountry(ctx context.Context, country string, limit int) ([]domain.Station, error)
	StationsByTag(ctx context.Context, tag string, limit int, order string) ([]domain.Station, error)
}

// NewModel creates the application model.
func NewModel(
	curator *curation.Service,
	gw gateway,
	user *userdata.Store,
	playerCtrl *player.Controller,
	logger *slog.Logger,
) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	in := textinput.New()
	in.CharLimit = 120
	in.Prompt = "› "
	in.PromptStyle = styles.AccentStyle
	in.Cursor.Style = styles.AccentStyle

	return &Model{
		curator: curator,
		gateway: gw,
		user:    user,
		player:  playerCtrl,
		logger:  logger,
		spinner: sp,
		input:   in,
		loading: map[string]bool{},
		errs:    map[string]string{},
	}
}

// Init kicks off the homepage load.
func (m *Model) Init() tea.Cmd {
	m.loading[GroupHome] = true
	return tea.Batch(m.spinner.Tick, m.loadHomeCmd())
}

// Update handles all messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case HomeLoadedMsg:
		m.home = msg.Page
		m.finishLoad(GroupHome)
		return m, nil

	case DiscoveryLoadedMsg:
		m.discovery = msg.Stations
		m.finishLoad(GroupDiscover)
		return m, nil

	case SearchResultsMsg:
		m.searchQuery = msg.Query
		m.searchResults = msg.Stations
		m.finishLoad(GroupSearch)
		return m, nil

	case RelatedLoadedMsg:
		if m.detail != nil && m.detail.StationUUID == msg.StationUUID {
			m.related = msg.Stations
		}
		m.finishLoad(GroupStation)
		return m, nil

	case FiltersLoadedMsg:
		m.filters = msg.Filters
		m.finishLoad(GroupBrowse)
		return m, nil

	case FilteredStationsMsg:
		m.browseTitle = msg.Title
		m.browseStations = msg.Stations
		m.finishLoad(GroupBrowse)
		if m.screen == ScreenBrowse {
			m.switchScreen(ScreenBrowseStations)
		}
		return m, nil

	case VoteResultMsg:
		m.loading[GroupVote] = false
		switch msg.Result {
		case userdata.VoteAdded:
			return m, m.setStatus("Vote counted", false)
		case userdata.VoteRemoved:
			return m, m.setStatus("Vote removed", false)
		default:
			return m, m.setStatus("Vote failed, try again later", true)
		}

	case PlayerUpdatedMsg, UserDataChangedMsg:
		// State is read live from the services at render time.
		return m, nil

	case StatusMsg:
		m.status = msg.Message
		m.statusErr = msg.IsError
		return m, clearStatusAfter(3 * time.Second)

	case ClearStatusMsg:
		m.status = ""
		m.statusErr = false
		return m, nil

	case ErrMsg:
		m.loading[msg.Group] = false
		m.errs[msg.Group] = msg.Err.Error()
		m.logger.Error("request failed", "group", msg.Group, "error", msg.Err)
		return m, nil

	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKey(msg)
	}

	return m, nil
}

func (m *Model) finishLoad(group string) {
	m.loading[group] = false
	delete(m.errs, group)
	m.clampCursor()
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	return clearStatusAfter(3 * time.Second)
}

// updateInput routes keystrokes to the active text input.
func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		m.closeInput()
		if m.inputMode == inputFilter {
			m.filterQuery = ""
		}
		m.inputMode = inputNone
		return m, nil

	case key.Matches(msg, Keys.Enter):
		value := m.input.Value()
		mode := m.inputMode
		m.closeInput()
		m.inputMode = inputNone
		return m.submitInput(mode, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inputMode == inputFilter {
		m.filterQuery = m.input.Value()
		m.cursor = 0
	}
	return m, cmd
}

func (m *Model) submitInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	switch mode {
	case inputSearch:
		if value == "" {
			return m, nil
		}
		m.loading[GroupSearch] = true
		m.cursor = 0
		return m, m.searchCmd(value)

	case inputFilter:
		m.filterQuery = value
		m.cursor = 0
		return m, nil

	case inputNewCategory:
		m.user.CreateCategory(value)
		return m, nil

	case inputRenameCategory:
		m.user.RenameCategory(m.renameID, value)
		m.renameID = ""
		return m, nil
	}
	return m, nil
}

func (m *Model) openInput(mode inputMode, placeholder, initial string) {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.input.SetValue("")
}

// updateKey handles normal-mode keystrokes.
func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		if m.screen == ScreenHelp {
			m.switchScreen(m.prevScreen)
		} else {
			m.switchScreen(ScreenHelp)
		}
		return m, nil

	case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Back):
		return m.goBack()

	case key.Matches(msg, Keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, Keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, Keys.Top):
		m.cursor = 0
		m.clampCursor()
		return m, nil

	case key.Matches(msg, Keys.Bottom):
		m.cursor = len(m.rows()) - 1
		m.clampCursorUp()
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.switchScreen(ScreenHome)
		if m.home == nil && !m.loading[GroupHome] {
			m.loading[GroupHome] = true
			return m, m.loadHomeCmd()
		}
		return m, nil

	case key.Matches(msg, Keys.Discover):
		m.switchScreen(ScreenDiscover)
		if !m.loading[GroupDiscover] {
			m.loading[GroupDiscover] = true
			return m, m.loadDiscoveryCmd()
		}
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.switchScreen(ScreenSearch)
		m.openInput(inputSearch, "Search stations...", "")
		return m, nil

	case key.Matches(msg, Keys.Favorites):
		m.filterQuery = ""
		m.switchScreen(ScreenFavorites)
		return m, nil

	case key.Matches(msg, Keys.Categories):
		m.switchScreen(ScreenCategories)
		return m, nil

	case key.Matches(msg, Keys.Browse):
		m.switchScreen(ScreenBrowse)
		if m.filters == nil && !m.loading[GroupBrowse] {
			m.loading[GroupBrowse] = true
			return m, m.loadFiltersCmd()
		}
		return m, nil

	case key.Matches(msg, Keys.History):
		m.switchScreen(ScreenHistory)
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		return m.refresh()

	case key.Matches(msg, Keys.CycleBrowse):
		if m.screen == ScreenBrowse {
			m.browseKind = (m.browseKind + 1) % 3
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		return m.selectCurrent()

	case key.Matches(msg, Keys.Detail):
		if st := m.selectedStation(); st != nil {
			m.detail = st
			m.related = nil
			m.switchScreen(ScreenStation)
			m.loading[GroupStation] = true
			return m, m.loadRelatedCmd(*st)
		}
		return m, nil

	case key.Matches(msg, Keys.Favorite):
		if st := m.selectedStation(); st != nil {
			m.user.ToggleFavorite(*st)
			if m.user.IsFavorite(st.StationUUID) {
				return m, m.setStatus("Added to favorites", false)
			}
			m.clampCursor()
			return m, m.setStatus("Removed from favorites", false)
		}
		return m, nil

	case key.Matches(msg, Keys.Vote):
		if st := m.selectedStation(); st != nil && !m.loading[GroupVote] {
			m.loading[GroupVote] = true
			return m, m.voteCmd(*st)
		}
		return m, nil

	case key.Matches(msg, Keys.Categorize):
		if st := m.selectedStation(); st != nil {
			if len(m.user.Categories()) == 0 {
				return m, m.setStatus("No categories yet, press 5 then n to create one", true)
			}
			m.pending = st
			m.switchScreen(ScreenPickCategory)
		}
		return m, nil

	case key.Matches(msg, Keys.New):
		if m.screen == ScreenCategories {
			m.openInput(inputNewCategory, "Category name...", "")
		}
		return m, nil

	case key.Matches(msg, Keys.Rename):
		if m.screen == ScreenCategories {
			if row := m.selectedRow(); row != nil && row.id != "" {
				m.renameID = row.id
				m.openInput(inputRenameCategory, "New name...", row.label)
			}
		}
		return m, nil

	case key.Matches(msg, Keys.Delete):
		return m.deleteCurrent()

	case key.Matches(msg, Keys.Filter):
		if m.screen == ScreenFavorites {
			m.openInput(inputFilter, "Filter favorites...", m.filterQuery)
		}
		return m, nil

	case key.Matches(msg, Keys.TogglePlay):
		m.player.TogglePlay()
		return m, nil

	case key.Matches(msg, Keys.Stop):
		m.player.Stop()
		return m, nil

	case key.Matches(msg, Keys.VolumeUp):
		m.player.SetVolume(m.player.Volume() + volumeStep)
		return m, nil

	case key.Matches(msg, Keys.VolumeDown):
		m.player.SetVolume(m.player.Volume() - volumeStep)
		return m, nil
	}

	return m, nil
}

func (m *Model) switchScreen(s Screen) {
	if m.screen != s {
		m.prevScreen = m.screen
		m.screen = s
		m.cursor = 0
		m.clampCursor()
	}
}

func (m *Model) goBack() (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenCategory:
		m.switchScreen(ScreenCategories)
	case ScreenBrowseStations:
		m.switchScreen(ScreenBrowse)
	case ScreenStation, ScreenPickCategory, ScreenHelp:
		target := m.prevScreen
		m.screen = target
		m.cursor = 0
		m.clampCursor()
	case ScreenFavorites:
		if m.filterQuery != "" {
			m.filterQuery = ""
			m.cursor = 0
		}
	}
	return m, nil
}

func (m *Model) refresh() (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenHome:
		m.loading[GroupHome] = true
		return m, m.loadHomeCmd()
	case ScreenDiscover:
		m.loading[GroupDiscover] = true
		return m, m.loadDiscoveryCmd()
	case ScreenSearch:
		if m.searchQuery != "" {
			m.loading[GroupSearch] = true
			return m, m.searchCmd(m.searchQuery)
		}
	case ScreenBrowse:
		m.loading[GroupBrowse] = true
		return m, m.loadFiltersCmd()
	case ScreenStation:
		if m.detail != nil {
			m.loading[GroupStation] = true
			return m, m.loadRelatedCmd(*m.detail)
		}
	}
	return m, nil
}

// selectCurrent acts on the row under the cursor.
func (m *Model) selectCurrent() (tea.Model, tea.Cmd) {
	row := m.selectedRow()
	if row == nil {
		return m, nil
	}

	if row.station != nil {
		m.player.PlayStation(*row.station)
		return m, nil
	}

	switch m.screen {
	case ScreenCategories:
		m.categoryID = row.id
		m.switchScreen(ScreenCategory)

	case ScreenBrowse:
		m.loading[GroupBrowse] = true
		switch m.browseKind {
		case BrowseCountries:
			return m, m.loadCountryStationsCmd(row.label)
		case BrowseLanguages:
			return m, m.loadLanguageStationsCmd(row.label)
		case BrowseTags:
			return m, m.loadTagStationsCmd(row.label)
		}

	case ScreenPickCategory:
		if m.pending != nil {
			m.user.AddToCategory(row.id, *m.pending)
			name := row.label
			m.pending = nil
			m.screen = m.prevScreen
			m.clampCursor()
			return m, m.setStatus(fmt.Sprintf("Added to %s", name), false)
		}
	}
	return m, nil
}

func (m *Model) deleteCurrent() (tea.Model, tea.Cmd) {
	row := m.selectedRow()
	if row == nil {
		return m, nil
	}

	switch m.screen {
	case ScreenCategories:
		if row.id != "" {
			m.user.DeleteCategory(row.id)
			m.clampCursor()
			return m, m.setStatus("Category deleted", false)
		}
	case ScreenCategory:
		if row.station != nil {
			m.user.RemoveFromCategory(m.categoryID, row.station.StationUUID)
			m.clampCursor()
		}
	}
	return m, nil
}

// Cursor handling

func (m *Model) moveCursor(delta int) {
	rows := m.rows()
	i := m.cursor + delta
	for i >= 0 && i < len(rows) {
		if rows[i].selectable() {
			m.cursor = i
			return
		}
		i += delta
	}
}

func (m *Model) clampCursor() {
	rows := m.rows()
	if len(rows) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if !rows[m.cursor].selectable() {
		m.moveCursor(1)
		if !m.rows()[m.cursor].selectable() {
			m.moveCursor(-1)
		}
	}
}

func (m *Model) clampCursorUp() {
	rows := m.rows()
	if len(rows) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if !rows[m.cursor].selectable() {
		m.moveCursor(-1)
	}
}

func (m *Model) selectedRow() *listRow {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) || !rows[m.cursor].selectable() {
		return nil
	}
	return &rows[m.cursor]
}

func (m *Model) selectedStation() *domain.Station {
	if row := m.selectedRow(); row != nil {
		return row.station
	}
	return nil
}

// rows builds the renderable list for the active screen.
func (m *Model) rows() []listRow {
	switch m.screen {
	case ScreenHome:
		return m.homeRows()
	case ScreenDiscover:
		return stationRows(m.discovery)
	case ScreenSearch:
		return stationRows(m.searchResults)
	case ScreenFavorites:
		return stationRows(m.filteredFavorites())
	case ScreenCategories, ScreenPickCategory:
		return m.categoryRows()
	case ScreenCategory:
		if cat := m.currentCategory(); cat != nil {
			return stationRows(cat.Stations)
		}
		return nil
	case ScreenBrowse:
		return m.browseRows()
	case ScreenBrowseStations:
		return stationRows(m.browseStations)
	case ScreenHistory:
		return stationRows(m.user.History())
	case ScreenStation:
		return m.stationRows()
	}
	return nil
}

func stationRows(stations []domain.Station) []listRow {
	rows := make([]listRow, 0, len(stations))
	for i := range stations {
		rows = append(rows, listRow{station: &stations[i]})
	}
	return rows
}

func (m *Model) homeRows() []listRow {
	if m.home == nil {
		return nil
	}
	var rows []listRow
	appendSection := func(title string, stations []domain.Station) {
		if len(stations) == 0 {
			return
		}
		rows = append(rows, listRow{header: title})
		for i := range stations {
			rows = append(rows, listRow{station: &stations[i]})
		}
	}
	appendSection("Featured", m.home.Featured)
	appendSection("Top Stations", m.home.Top)
	appendSection("Trending", m.home.Trending)
	for _, g := range m.home.Genres {
		appendSection(g.Name, g.Stations)
	}
	return rows
}

func (m *Model) filteredFavorites() []domain.Station {
	favorites := m.user.Favorites()
	if m.filterQuery == "" {
		return favorites
	}
	var out []domain.Station
	for _, st := range favorites {
		if fuzzy.MatchFold(m.filterQuery, st.Name) || fuzzy.MatchFold(m.filterQuery, st.Tags) {
			out = append(out, st)
		}
	}
	return out
}

func (m *Model) categoryRows() []listRow {
	cats := m.user.Categories()
	rows := make([]listRow, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, listRow{
			label:  c.Name,
			id:     c.ID,
			detail: fmt.Sprintf("%d stations", len(c.Stations)),
		})
	}
	return rows
}

func (m *Model) currentCategory() *domain.Category {
	for _, c := range m.user.Categories() {
		if c.ID == m.categoryID {
			return &c
		}
	}
	return nil
}

func (m *Model) browseRows() []listRow {
	if m.filters == nil {
		return nil
	}
	var rows []listRow
	switch m.browseKind {
	case BrowseCountries:
		for _, c := range m.filters.Countries {
			rows = append(rows, listRow{
				label:  c.Name,
				detail: fmt.Sprintf("%d stations", c.StationCount),
			})
		}
	case BrowseLanguages:
		for _, l := range m.filters.Languages {
			rows = append(rows, listRow{
				label:  l.Name,
				detail: fmt.Sprintf("%d stations", l.StationCount),
			})
		}
	case BrowseTags:
		for _, t := range m.filters.Tags {
			rows = append(rows, listRow{
				label:  t.Name,
				detail: fmt.Sprintf("%d stations", t.StationCount),
			})
		}
	}
	return rows
}

func (m *Model) stationRows() []listRow {
	if m.detail == nil {
		return nil
	}
	rows := []listRow{{station: m.detail}}
	if len(m.related) > 0 {
		rows = append(rows, listRow{header: "Similar Stations"})
		for i := range m.related {
			rows = append(rows, listRow{station: &m.related[i]})
		}
	}
	return rows
}
