package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tapelist/tlx/internal/api"
	"github.com/tapelist/tlx/internal/models"
	"github.com/tapelist/tlx/internal/pager"
	"github.com/tapelist/tlx/internal/reconcile"
	"github.com/tapelist/tlx/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ExploreView ViewState = iota
	SearchView
	DetailView
	ConfirmView
)

// nearEndThreshold is how close to the bottom the cursor must be before
// the next page is requested.
const nearEndThreshold = 3

// SearchHistory provides autocomplete suggestions for the search view.
// Satisfied by repositories.HistoryRepository.
type SearchHistory interface {
	Record(query string) error
	Filter(prefix string) ([]string, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	client  *api.Client
	store   *session.Store
	history SearchHistory
	pager   *pager.Pager[models.Playlist]

	view   ViewState
	width  int
	height int

	exploreList list.Model
	playlists   []models.Playlist
	likes       map[int]*reconcile.LikeState

	detailList list.Model
	selected   *models.Playlist

	searchInput textinput.Model
	suggestions []string

	pendingVideo *models.Video

	loading     bool
	loadingMore bool
	status      string
	err         error

	help help.Model
	keys keyMap
}

type pageLoadedMsg struct {
	initial bool
	err     error
}

type detailLoadedMsg struct {
	playlist *models.Playlist
	err      error
}

type likeSettledMsg struct {
	playlistID int
	status     string
	err        error
}

type videoRemovedMsg struct {
	videoID int
	err     error
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The pager serves both the explore feed and search results: a "q"
// parameter on LoadInitial switches the fetch to the search endpoint.
func NewModel(ctx context.Context, client *api.Client, store *session.Store, history SearchHistory) *Model {
	fetch := func(ctx context.Context, page, limit int, params url.Values) ([]models.Playlist, error) {
		if q := params.Get("q"); q != "" {
			return client.SearchPlaylists(ctx, q, page, limit)
		}
		return client.Explore(ctx, page, limit)
	}

	input := textinput.New()
	input.Placeholder = "search playlists"
	input.CharLimit = 100

	exploreList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	exploreList.Title = "Explore"
	exploreList.SetShowStatusBar(false)
	exploreList.SetFilteringEnabled(false)

	return &Model{
		ctx:         ctx,
		client:      client,
		store:       store,
		history:     history,
		pager:       pager.New(fetch, func(p models.Playlist) int { return p.ID }, pager.DefaultPageSize),
		view:        ExploreView,
		exploreList: exploreList,
		likes:       map[int]*reconcile.LikeState{},
		searchInput: input,
		loading:     true,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init starts the initial explore fetch.
func (m *Model) Init() tea.Cmd {
	return m.loadInitial(nil)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.exploreList.SetSize(msg.Width-4, msg.Height-8)
		m.detailList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ExploreView:
			return m.handleExploreKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case pageLoadedMsg:
		m.loading = false
		m.loadingMore = false
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		m.syncPlaylists()
		return m, nil

	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		m.selected = msg.playlist
		m.rebuildDetailList()
		m.view = DetailView
		return m, nil

	case likeSettledMsg:
		state := m.likes[msg.playlistID]
		delete(m.likes, msg.playlistID)
		if pl := m.findPlaylist(msg.playlistID); pl != nil && state != nil {
			if msg.err != nil {
				state.Revert(pl)
			} else {
				state.Confirm(pl, msg.status)
			}
			m.rebuildExploreItems()
		}
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		return m, nil

	case videoRemovedMsg:
		m.view = DetailView
		m.pendingVideo = nil
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		if m.selected != nil {
			videos := m.selected.Videos[:0]
			for _, v := range m.selected.Videos {
				if v.ID != msg.videoID {
					videos = append(videos, v)
				}
			}
			m.selected.Videos = videos
			m.selected.VideoCount = len(videos)
			m.rebuildDetailList()
		}
		m.status = "video removed"
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ExploreView:
		return m.renderExplore()
	case SearchView:
		return m.renderSearch()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleExploreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.view = SearchView
		m.searchInput.Focus()
		m.refreshSuggestions()
		return m, textinput.Blink
	case "l":
		return m.toggleLikeSelected()
	case "enter":
		if item, ok := m.exploreList.SelectedItem().(playlistItem); ok {
			m.loading = true
			return m, m.loadDetail(item.playlist.ID)
		}
	}

	var cmd tea.Cmd
	m.exploreList, cmd = m.exploreList.Update(msg)

	// Scrolling near the bottom requests the next page. The pager's
	// own guard makes repeat triggers harmless.
	if m.nearEnd() && !m.pager.Exhausted() && !m.loadingMore {
		m.loadingMore = true
		return m, tea.Batch(cmd, m.loadNext())
	}
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ExploreView
		m.searchInput.Blur()
		return m, nil
	case "enter":
		query := m.searchInput.Value()
		if query == "" {
			return m, nil
		}
		if m.history != nil {
			if err := m.history.Record(query); err == nil {
				m.refreshSuggestions()
			}
		}
		m.view = ExploreView
		m.exploreList.Title = fmt.Sprintf("Search: %s", query)
		m.searchInput.Blur()
		m.loading = true
		params := url.Values{}
		params.Set("q", query)
		return m, m.loadInitial(params)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ExploreView
		m.selected = nil
		m.status = ""
		return m, nil
	case "d":
		if !m.ownsSelected() {
			m.status = "only your own videos can be removed"
			return m, nil
		}
		if item, ok := m.detailList.SelectedItem().(videoItem); ok {
			video := item.video
			m.pendingVideo = &video
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailList, cmd = m.detailList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = DetailView
		m.pendingVideo = nil
		return m, nil
	case "y":
		if m.pendingVideo == nil {
			m.view = DetailView
			return m, nil
		}
		videoID := m.pendingVideo.ID
		return m, func() tea.Msg {
			err := m.client.DeleteVideo(m.ctx, videoID)
			return videoRemovedMsg{videoID: videoID, err: err}
		}
	}
	return m, nil
}

func (m *Model) toggleLikeSelected() (tea.Model, tea.Cmd) {
	item, ok := m.exploreList.SelectedItem().(playlistItem)
	if !ok {
		return m, nil
	}

	pl := m.findPlaylist(item.playlist.ID)
	if pl == nil {
		return m, nil
	}
	if _, inFlight := m.likes[pl.ID]; inFlight {
		return m, nil
	}

	// Optimistic: the guess lands before the request is sent.
	state := &reconcile.LikeState{}
	state.Pending(pl)
	m.likes[pl.ID] = state
	m.rebuildExploreItems()

	id := pl.ID
	return m, func() tea.Msg {
		result, err := m.client.LikePlaylist(m.ctx, id)
		if err != nil {
			return likeSettledMsg{playlistID: id, err: err}
		}
		return likeSettledMsg{playlistID: id, status: result.Status}
	}
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ExploreView:
		m.exploreList, cmd = m.exploreList.Update(msg)
	case DetailView:
		m.detailList, cmd = m.detailList.Update(msg)
	case SearchView:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadInitial(params url.Values) tea.Cmd {
	return func() tea.Msg {
		err := m.pager.LoadInitial(m.ctx, params)
		return pageLoadedMsg{initial: true, err: err}
	}
}

func (m *Model) loadNext() tea.Cmd {
	return func() tea.Msg {
		err := m.pager.LoadNext(m.ctx)
		return pageLoadedMsg{err: err}
	}
}

func (m *Model) loadDetail(id int) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.client.Playlist(m.ctx, id)
		return detailLoadedMsg{playlist: playlist, err: err}
	}
}

// handleAPIError routes 401s to session teardown and surfaces anything
// else as a fatal error banner.
func (m *Model) handleAPIError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, api.ErrUnauthorized) {
		m.store.HandleUnauthorized()
		m.err = errors.New("session expired, run 'tlx auth login'")
		return m, tea.Quit
	}
	m.err = err
	return m, nil
}

func (m *Model) syncPlaylists() {
	m.playlists = m.pager.Items()
	m.rebuildExploreItems()
}

func (m *Model) rebuildExploreItems() {
	items := make([]list.Item, len(m.playlists))
	for i, pl := range m.playlists {
		items[i] = playlistItem{playlist: pl}
	}
	m.exploreList.SetItems(items)
	if m.exploreList.Width() == 0 {
		m.exploreList.SetSize(m.width-4, m.height-8)
	}
}

func (m *Model) rebuildDetailList() {
	items := make([]list.Item, len(m.selected.Videos))
	for i, video := range m.selected.Videos {
		items[i] = videoItem{video: video}
	}
	m.detailList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
	m.detailList.Title = m.selected.Title
	m.detailList.SetShowStatusBar(false)
	m.detailList.SetFilteringEnabled(false)
}

func (m *Model) findPlaylist(id int) *models.Playlist {
	for i := range m.playlists {
		if m.playlists[i].ID == id {
			return &m.playlists[i]
		}
	}
	return nil
}

func (m *Model) nearEnd() bool {
	count := len(m.exploreList.Items())
	return count > 0 && m.exploreList.Index() >= count-nearEndThreshold
}

func (m *Model) ownsSelected() bool {
	if m.selected == nil {
		return false
	}
	profile := m.store.Profile()
	return profile != nil && profile.ID == m.selected.User.ID
}

func (m *Model) refreshSuggestions() {
	if m.history == nil {
		return
	}
	if suggestions, err := m.history.Filter(m.searchInput.Value()); err == nil {
		m.suggestions = suggestions
	}
}

func (m *Model) renderExplore() string {
	if m.loading {
		return styles.title.Render("Explore") + "\n\nLoading playlists..."
	}

	body := m.exploreList.View()
	if m.loadingMore {
		body += "\n" + styles.help.Render("loading more…")
	} else if m.pager.Exhausted() {
		body += "\n" + styles.help.Render("end of feed")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.like, m.keys.search, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search Playlists")
	body := m.searchInput.View()

	if len(m.suggestions) > 0 {
		body += "\n\n" + styles.help.Render("recent:")
		for _, s := range m.suggestions {
			body += fmt.Sprintf("\n  %s", s)
		}
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	if m.loading {
		return styles.title.Render("Playlist") + "\n\nLoading..."
	}

	body := m.detailList.View()
	if m.status != "" {
		body += "\n" + styles.warn.Render(m.status)
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	if m.ownsSelected() {
		helpKeys = append([]key.Binding{m.keys.remove}, helpKeys...)
	}
	return fmt.Sprintf("%s\n\n%s", body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Remove video?")

	name := ""
	if m.pendingVideo != nil {
		name = m.pendingVideo.Title
		if name == "" {
			name = m.pendingVideo.TikTokURL
		}
	}
	info := fmt.Sprintf("\n%s\n\nThis cannot be undone.\n", name)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	return fmt.Sprintf("%s%s\n%s", title, info, m.help.ShortHelpView(helpKeys))
}
