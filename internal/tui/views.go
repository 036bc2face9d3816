package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/airwave/internal/domain"
	"github.com/mmcdole/airwave/internal/player"
	"github.com/mmcdole/airwave/internal/tui/styles"
)

// Vertical chrome: tab bar, title, status line, player bar, help hint.
const chromeHeight = 6

// View renders the whole screen.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteByte('\n')
	b.WriteString(m.renderTitle())
	b.WriteByte('\n')

	if m.inputMode != inputNone {
		b.WriteString(m.input.View())
		b.WriteByte('\n')
	}

	if m.screen == ScreenHelp {
		b.WriteString(m.renderHelp())
	} else {
		b.WriteString(m.renderList())
	}

	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	b.WriteByte('\n')
	b.WriteString(m.renderPlayerBar())
	b.WriteByte('\n')
	b.WriteString(styles.DimStyle.Render("?: help  q: quit"))
	return b.String()
}

var tabs = []struct {
	screen Screen
	label  string
}{
	{ScreenHome, "1 Home"},
	{ScreenDiscover, "2 Discover"},
	{ScreenSearch, "3 Search"},
	{ScreenFavorites, "4 Favorites"},
	{ScreenCategories, "5 Categories"},
	{ScreenBrowse, "6 Browse"},
	{ScreenHistory, "7 History"},
}

func (m *Model) renderTabs() string {
	active := m.screen
	switch active {
	case ScreenCategory, ScreenPickCategory:
		active = ScreenCategories
	case ScreenBrowseStations:
		active = ScreenBrowse
	case ScreenStation, ScreenHelp:
		active = m.prevScreen
	}

	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.screen == active {
			parts = append(parts, styles.ActiveTabStyle.Render(t.label))
		} else {
			parts = append(parts, styles.InactiveTabStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderTitle() string {
	title := ""
	subtitle := ""

	switch m.screen {
	case ScreenHome:
		title = "Radio"
		if m.home != nil && m.home.Stats != nil {
			subtitle = fmt.Sprintf("%d stations worldwide", m.home.Stats.Stations)
		}
	case ScreenDiscover:
		title = "Discover"
		subtitle = "a random spin through the dial"
	case ScreenSearch:
		title = "Search"
		if m.searchQuery != "" {
			subtitle = fmt.Sprintf("%d results for %q", len(m.searchResults), m.searchQuery)
		}
	case ScreenFavorites:
		title = "Favorites"
		if m.filterQuery != "" {
			subtitle = fmt.Sprintf("filtered by %q", m.filterQuery)
		}
	case ScreenCategories:
		title = "Categories"
		subtitle = "n: new  r: rename  x: delete"
	case ScreenCategory:
		if cat := m.currentCategory(); cat != nil {
			title = cat.Name
			subtitle = "x: remove station"
		}
	case ScreenBrowse:
		switch m.browseKind {
		case BrowseCountries:
			title = "Browse · Countries"
		case BrowseLanguages:
			title = "Browse · Languages"
		case BrowseTags:
			title = "Browse · Tags"
		}
		subtitle = "tab: switch list"
	case ScreenBrowseStations:
		title = m.browseTitle
	case ScreenHistory:
		title = "Recently Played"
	case ScreenStation:
		if m.detail != nil {
			title = m.detail.Name
			subtitle = stationMeta(*m.detail)
		}
	case ScreenPickCategory:
		title = "Add to category"
	case ScreenHelp:
		title = "Help"
	}

	out := styles.TitleStyle.Render(title)
	if subtitle != "" {
		out += "  " + styles.SubtitleStyle.Render(subtitle)
	}
	if m.screen == ScreenStation && m.detail != nil && m.detail.Votes > 0 {
		out += "  " + styles.BadgeStyle.Render(fmt.Sprintf("%d votes", m.detail.Votes))
	}
	return out
}

func (m *Model) renderList() string {
	group := m.groupForScreen()
	if m.loading[group] {
		return m.spinner.View() + styles.DimStyle.Render(" loading...")
	}
	if errText, ok := m.errs[group]; ok {
		return styles.ErrorStyle.Render("✗ "+errText) + "\n" +
			styles.DimStyle.Render("R: retry")
	}

	rows := m.rows()
	if len(rows) == 0 {
		return styles.DimStyle.Render(m.emptyText())
	}

	visible := m.height - chromeHeight
	if m.inputMode != inputNone {
		visible--
	}
	if visible < 1 {
		visible = 1
	}

	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderRow(rows[i], i == m.cursor))
	}
	return b.String()
}

func (m *Model) renderRow(row listRow, selected bool) string {
	if row.header != "" {
		return styles.SectionStyle.Render(row.header)
	}

	width := m.width - 4
	if row.label != "" {
		line := styles.Pad(row.label, max(width-len(row.detail)-2, 10)) + styles.DimStyle.Render(row.detail)
		if selected {
			return styles.SelectedItemStyle.Render("▸ " + line)
		}
		return styles.NormalItemStyle.Render("  " + line)
	}

	st := row.station
	marks := ""
	if cur := m.player.Current(); cur != nil && cur.StationUUID == st.StationUUID {
		if m.player.IsPlaying() {
			marks += styles.AccentStyle.Render("▶ ")
		} else {
			marks += styles.DimStyle.Render("⏸ ")
		}
	}
	if m.user.IsFavorite(st.StationUUID) {
		marks += styles.AccentStyle.Render("★ ")
	}
	if m.user.HasVoted(st.StationUUID) {
		marks += styles.SuccessStyle.Render("▲ ")
	}

	name := styles.Truncate(st.Name, width/2)
	meta := styles.DimStyle.Render(stationMeta(*st))

	line := marks + name + "  " + meta
	if selected {
		return styles.SelectedItemStyle.Render("▸ ") + line
	}
	return "  " + line
}

func stationMeta(st domain.Station) string {
	parts := []string{}
	if st.Country != "" {
		parts = append(parts, st.Country)
	}
	if st.Codec != "" {
		parts = append(parts, st.Codec+" "+st.DisplayBitrate())
	}
	if tags := st.TagList(); len(tags) > 0 {
		if len(tags) > 3 {
			tags = tags[:3]
		}
		parts = append(parts, strings.Join(tags, ", "))
	}
	return strings.Join(parts, " · ")
}

func (m *Model) groupForScreen() string {
	switch m.screen {
	case ScreenHome:
		return GroupHome
	case ScreenDiscover:
		return GroupDiscover
	case ScreenSearch:
		return GroupSearch
	case ScreenBrowse, ScreenBrowseStations:
		return GroupBrowse
	case ScreenStation:
		return GroupStation
	}
	return ""
}

func (m *Model) emptyText() string {
	switch m.screen {
	case ScreenSearch:
		if m.searchQuery == "" {
			return "Type a station name and press enter."
		}
		return "No stations matched."
	case ScreenFavorites:
		if m.filterQuery != "" {
			return "No favorites matched the filter."
		}
		return "No favorites yet. Press b on any station."
	case ScreenCategories:
		return "No categories yet. Press n to create one."
	case ScreenCategory:
		return "This category is empty. Press a on any station."
	case ScreenHistory:
		return "Nothing played yet."
	}
	return "Nothing here."
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.ErrorStyle.Render(m.status)
	}
	return styles.SuccessStyle.Render(m.status)
}

func (m *Model) renderPlayerBar() string {
	current := m.player.Current()
	if current == nil {
		return styles.PlayerBarStyle.Render("Nothing playing · enter: play selected station")
	}

	var state string
	switch m.player.State() {
	case player.StateLoading:
		state = m.spinner.View()
	case player.StatePlaying:
		state = "▶"
	case player.StatePaused:
		state = "⏸"
	case player.StateError:
		state = styles.ErrorStyle.Render("✗")
	default:
		state = "·"
	}

	name := styles.NowPlayingStyle.Render(styles.Truncate(current.Name, m.width/2))
	detail := stationMeta(*current)
	volume := fmt.Sprintf("vol %d%%", m.player.Volume())

	line := fmt.Sprintf("%s %s  %s  %s", state, name, styles.DimStyle.Render(detail), styles.DimStyle.Render(volume))
	if m.player.State() == player.StateError && m.player.Err() != "" {
		line += "  " + styles.ErrorStyle.Render(m.player.Err())
	}
	return styles.PlayerBarStyle.Render(line)
}

func (m *Model) renderHelp() string {
	bindings := []struct {
		keys, desc string
	}{
		{"j/k, ↑/↓", "move"},
		{"g / G", "top / bottom"},
		{"enter", "play station / open item"},
		{"space", "pause / resume"},
		{"s", "stop and disconnect"},
		{"+ / -", "volume"},
		{"d", "station detail with similar stations"},
		{"b", "toggle favorite"},
		{"v", "vote for station"},
		{"a", "add station to a category"},
		{"f", "filter favorites"},
		{"n / r / x", "new / rename / delete category"},
		{"1-7", "switch screens"},
		{"tab", "cycle countries, languages, tags"},
		{"R", "reload current screen"},
		{"esc / h", "back"},
		{"q", "quit"},
	}

	var b strings.Builder
	for i, bind := range bindings {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  ")
		b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(bind.keys, 14)))
		b.WriteString(styles.HelpDescStyle.Render(bind.desc))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render("  Station data comes from the community-run Radio Browser directory."))
	b.WriteByte('\n')
	b.WriteString(styles.DimStyle.Render("  Playback uses mpv; favorites, categories and history stay on this machine."))
	return b.String()
}
