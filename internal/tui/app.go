package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/y3rawat/mindstore/internal/api"
	"github.com/y3rawat/mindstore/internal/config"
	"github.com/y3rawat/mindstore/internal/content"
	"github.com/y3rawat/mindstore/internal/db"
	"github.com/y3rawat/mindstore/internal/library"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeAdd
	modeConfirmDelete
	modeDetail
)

type model struct {
	cfg      *config.Config
	store    *db.Store
	client   *api.Client
	loop     *library.Loop
	bus      *library.Bus
	sel      *library.Selection
	resolver content.Resolver

	list        list.Model
	searchInput textinput.Model
	addInput    textinput.Model

	snapshot  library.Snapshot
	platforms map[content.Platform]bool
	query     string
	updates   chan library.Snapshot

	mode    mode
	gallery *content.Gallery
	detail  *content.Item
	status  string
	width   int
	height  int
	err     error
}

type contentEntry struct {
	item     content.Item
	selected bool
}

func (e contentEntry) Title() string {
	marker := "[ ]"
	if e.selected {
		marker = "[x]"
	}
	return fmt.Sprintf("%s %s %s", marker, content.PlatformTag(e.item.Media.Platform), content.DisplayTitle(e.item.Media))
}

func (e contentEntry) Description() string {
	parts := []string{statusBadge(content.Classify(e.item.Media)), e.item.SavedAt.DisplayDate()}
	if e.item.Media.Author != "" {
		parts = append(parts, "@"+e.item.Media.Author)
	}
	return strings.Join(parts, "  ")
}

func (e contentEntry) FilterValue() string {
	return content.DisplayTitle(e.item.Media) + " " + e.item.Media.Author + " " + e.item.Media.Caption
}

func statusBadge(s content.Status) string {
	switch s {
	case content.StatusPending:
		return "~ processing"
	case content.StatusFailed:
		return "! failed"
	default:
		return "+ ready"
	}
}

func initialModel(cfg *config.Config, store *db.Store) model {
	search := textinput.New()
	search.Placeholder = "Search library..."
	search.CharLimit = 256
	search.Width = 50

	add := textinput.New()
	add.Placeholder = "Paste a URL to save..."
	add.CharLimit = 2048
	add.Width = 60

	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Mindstore"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	client := api.NewClient(cfg.API.BaseURL)
	loop := library.NewLoop(client, cfg.UserID, cfg.Library.PageSize, cfg.PollInterval())
	bus := library.NewBus()
	loop.Bind(bus)

	m := model{
		cfg:         cfg,
		store:       store,
		client:      client,
		loop:        loop,
		bus:         bus,
		sel:         library.NewSelection(),
		resolver:    content.NewResolver(cfg.API.BaseURL),
		list:        l,
		searchInput: search,
		addInput:    add,
		platforms: map[content.Platform]bool{
			content.PlatformInstagram: true,
			content.PlatformYouTube:   true,
			content.PlatformTwitter:   true,
			content.PlatformLinkedIn:  true,
			content.PlatformTikTok:    true,
			content.PlatformOther:     true,
		},
		updates: make(chan library.Snapshot, 16),
	}

	loop.OnUpdate(func(s library.Snapshot) {
		// Drop the oldest update when the UI lags; only the latest
		// snapshot matters.
		for {
			select {
			case m.updates <- s:
				return
			default:
				select {
				case <-m.updates:
				default:
				}
			}
		}
	})

	return m
}

type snapshotMsg library.Snapshot

type cacheMsg struct {
	items []content.Item
}

type saveResultMsg struct {
	url    string
	result api.SaveResult
	err    error
}

type deleteDoneMsg struct {
	count int
	err   error
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadCache, m.initialLoad, m.waitForUpdate)
}

// loadCache paints the last snapshot from the local store so the list
// is not empty while the first fetch is in flight.
func (m model) loadCache() tea.Msg {
	if m.store == nil || m.cfg.UserID == "" {
		return nil
	}
	items, err := m.store.LoadSnapshot(m.cfg.UserID)
	if err != nil || len(items) == 0 {
		return nil
	}
	return cacheMsg{items: items}
}

func (m model) initialLoad() tea.Msg {
	go m.loop.Load(context.Background(), true)
	return nil
}

func (m model) waitForUpdate() tea.Msg {
	return snapshotMsg(<-m.updates)
}

func (m model) saveURL(rawURL string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.SaveURL(context.Background(), rawURL, m.cfg.UserID)
		return saveResultMsg{url: rawURL, result: result, err: err}
	}
}

func (m model) deleteSelected() tea.Cmd {
	count := m.sel.Count()
	return func() tea.Msg {
		err := m.loop.DeleteSelected(context.Background(), m.sel, m.bus)
		return deleteDoneMsg{count: count, err: err}
	}
}

func (m model) loadMore() tea.Cmd {
	return func() tea.Msg {
		m.loop.LoadMore(context.Background())
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdd:
			return m.updateAdd(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateBrowse(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-6)
		m.searchInput.Width = msg.Width - 20

	case cacheMsg:
		// Only seed from cache before the first server snapshot.
		if len(m.snapshot.Items) == 0 {
			m.snapshot.Items = msg.items
			m.refreshList()
		}

	case snapshotMsg:
		m.snapshot = library.Snapshot(msg)
		if m.snapshot.Err != nil {
			m.status = "Sync failed: " + m.snapshot.Err.Error()
		}
		m.refreshList()
		if m.store != nil && m.cfg.UserID != "" && !m.snapshot.Loading && m.snapshot.Err == nil {
			go m.store.SaveSnapshot(m.cfg.UserID, m.snapshot.Items)
		}
		return m, m.waitForUpdate

	case saveResultMsg:
		if msg.err != nil {
			m.status = "Save failed: " + msg.err.Error()
			return m, nil
		}
		if msg.result.AlreadySaved {
			m.status = "Already in your library"
		} else {
			m.status = "Saved " + msg.url
		}
		m.bus.Publish(library.Event{Source: "add", URL: msg.url})
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.status = "Delete failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Deleted %d item(s)", msg.count)
		}
		m.refreshList()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "ctrl+c", "q":
		m.loop.Close()
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	case "a":
		m.mode = modeAdd
		m.addInput.SetValue("")
		m.addInput.Focus()
		return m, textinput.Blink
	case " ":
		if entry, ok := m.list.SelectedItem().(contentEntry); ok {
			m.sel.Toggle(entry.item.Key())
			m.refreshList()
		}
		return m, nil
	case "d":
		if m.sel.Count() > 0 {
			m.mode = modeConfirmDelete
		}
		return m, nil
	case "enter":
		if entry, ok := m.list.SelectedItem().(contentEntry); ok {
			item := entry.item
			m.detail = &item
			m.gallery = content.NewGallery(content.ResolveGallery(item))
			m.mode = modeDetail
		}
		return m, nil
	case "j", "down":
		m.list.CursorDown()
		return m, nil
	case "k", "up":
		m.list.CursorUp()
		return m, nil
	case "g":
		m.list.Select(0)
		return m, nil
	case "G":
		if n := len(m.list.Items()); n > 0 {
			m.list.Select(n - 1)
		}
		return m, nil
	case "m":
		if m.snapshot.HasMore {
			return m, m.loadMore()
		}
		return m, nil
	case "r":
		return m, func() tea.Msg {
			go m.loop.Load(context.Background(), true)
			return nil
		}
	case "o":
		if entry, ok := m.list.SelectedItem().(contentEntry); ok {
			openBrowser(entry.item.URL)
		}
		return m, nil
	case "1", "2", "3", "4", "5", "6":
		if p, ok := platformForKey(msg.String()); ok {
			m.platforms[p] = !m.platforms[p]
			m.refreshList()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func platformForKey(key string) (content.Platform, bool) {
	switch key {
	case "1":
		return content.PlatformInstagram, true
	case "2":
		return content.PlatformYouTube, true
	case "3":
		return content.PlatformTwitter, true
	case "4":
		return content.PlatformLinkedIn, true
	case "5":
		return content.PlatformTikTok, true
	case "6":
		return content.PlatformOther, true
	}
	return "", false
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.query = ""
		m.refreshList()
		return m, nil
	case "enter":
		m.mode = modeBrowse
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.query = m.searchInput.Value()
	m.refreshList()
	return m, cmd
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.addInput.Blur()
		return m, nil
	case "enter":
		rawURL := strings.TrimSpace(m.addInput.Value())
		m.mode = modeBrowse
		m.addInput.Blur()
		if rawURL == "" {
			return m, nil
		}
		m.status = "Saving..."
		return m, m.saveURL(rawURL)
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		m.status = "Deleting..."
		return m, m.deleteSelected()
	case "n", "N", "esc":
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
		m.detail = nil
		m.gallery = nil
		return m, nil
	case "right", "l":
		m.gallery.Next()
		return m, nil
	case "left", "h":
		m.gallery.Prev()
		return m, nil
	case "o":
		if entry := m.gallery.Current(); entry != nil && entry.URL != "" {
			openBrowser(entry.URL)
		} else if m.detail != nil {
			openBrowser(m.detail.URL)
		}
		return m, nil
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil {
			m.gallery.Jump(n - 1)
		}
		return m, nil
	}
}

// refreshList rebuilds the visible list from the snapshot, the
// platform toggles and the search query.
func (m *model) refreshList() {
	items := make([]list.Item, 0, len(m.snapshot.Items))
	for _, item := range m.filteredItems() {
		items = append(items, contentEntry{
			item:     item,
			selected: m.sel.Has(item.Key()),
		})
	}
	m.list.SetItems(items)
}

func (m model) filteredItems() []content.Item {
	query := strings.ToLower(strings.TrimSpace(m.query))
	var out []content.Item
	for _, item := range m.snapshot.Items {
		platform := item.Media.Platform
		if _, known := m.platforms[platform]; !known {
			platform = content.PlatformOther
		}
		if !m.platforms[platform] {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(content.DisplayTitle(item.Media) + " " + item.Media.Author + " " + item.Media.Caption)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	if m.mode == modeDetail && m.detail != nil {
		return m.detailView()
	}

	var b strings.Builder

	filters := make([]string, 0, 6)
	for _, f := range []struct {
		platform content.Platform
		label    string
	}{
		{content.PlatformInstagram, "[1]INSTA"},
		{content.PlatformYouTube, "[2]YT"},
		{content.PlatformTwitter, "[3]TW"},
		{content.PlatformLinkedIn, "[4]LI"},
		{content.PlatformTikTok, "[5]TT"},
		{content.PlatformOther, "[6]OTHER"},
	} {
		if m.platforms[f.platform] {
			filters = append(filters, activeStyle.Render(f.label))
		} else {
			filters = append(filters, dimStyle.Render(f.label))
		}
	}
	b.WriteString(dimStyle.Render(strings.Join(filters, " ")))
	b.WriteString("\n")

	switch m.mode {
	case modeSearch:
		b.WriteString(overlayStyle.Render(m.searchInput.View()))
		b.WriteString("\n")
	case modeAdd:
		b.WriteString(overlayStyle.Render(m.addInput.View()))
		b.WriteString("\n")
	case modeConfirmDelete:
		prompt := fmt.Sprintf("Delete %d selected item(s)? [y/n]", m.sel.Count())
		b.WriteString(overlayStyle.Render(errorStyle.Render(prompt)))
		b.WriteString("\n")
	}

	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[a]dd [space]select [d]elete [enter]view [/]search [m]ore [r]eload [1-6]filters [q]uit"))

	return b.String()
}

func (m model) statusBar() string {
	parts := []string{fmt.Sprintf("%d/%d items", len(m.list.Items()), m.snapshot.Total)}
	if pending := content.CountPending(m.snapshot.Items); pending > 0 {
		parts = append(parts, fmt.Sprintf("%d processing", pending))
	}
	if m.loop.Polling() {
		parts = append(parts, "syncing")
	}
	if m.snapshot.Loading {
		parts = append(parts, "loading")
	}
	if n := m.sel.Count(); n > 0 {
		parts = append(parts, activeStyle.Render(fmt.Sprintf("%d selected", n)))
	}
	bar := dimStyle.Render(strings.Join(parts, " | "))
	if m.status != "" {
		bar += "  " + m.status
	}
	return bar
}

func (m model) detailView() string {
	item := *m.detail
	var b strings.Builder

	b.WriteString(activeStyle.Render(content.DisplayTitle(item.Media)))
	b.WriteString("\n")
	meta := []string{content.PlatformTag(item.Media.Platform), item.SavedAt.DisplayDate()}
	if item.Media.Author != "" {
		meta = append(meta, "@"+item.Media.Author)
	}
	meta = append(meta, statusBadge(content.Classify(item.Media)))
	b.WriteString(dimStyle.Render(strings.Join(meta, "  ")))
	b.WriteString("\n")
	if thumb := m.resolver.ItemThumbnail(item.Media); thumb != "" {
		b.WriteString(dimStyle.Render("Thumbnail: " + thumb))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if entry := m.gallery.Current(); entry != nil {
		kind := "image"
		if entry.IsVideo {
			kind = "video"
		}
		if !entry.IsSynced {
			kind += " (not yet synced)"
		}
		b.WriteString(fmt.Sprintf("Asset %d of %d (%s)\n", m.gallery.Index()+1, m.gallery.Len(), kind))
		b.WriteString(overlayStyle.Render(entry.URL))
		b.WriteString("\n")
		b.WriteString(galleryDots(m.gallery.Index(), m.gallery.Len()))
		b.WriteString("\n")
	} else {
		b.WriteString(dimStyle.Render("No media available yet."))
		b.WriteString("\n")
	}

	if item.Media.Caption != "" {
		b.WriteString("\n")
		caption := item.Media.Caption
		if len(caption) > 500 {
			caption = caption[:500] + "..."
		}
		b.WriteString(caption)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[h/l]prev/next [1-9]jump [o]pen [esc]back"))
	return b.String()
}

// galleryDots renders the position indicator under the asset viewer.
func galleryDots(index, total int) string {
	if total <= 1 {
		return ""
	}
	dots := make([]string, total)
	for i := range dots {
		if i == index {
			dots[i] = activeStyle.Render("●")
		} else {
			dots[i] = dimStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd != nil {
		cmd.Start()
	}
}

// Run starts the TUI application.
func Run(cfg *config.Config) error {
	store, err := db.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open local cache: %w", err)
	}
	defer store.Close()

	m := initialModel(cfg, store)
	defer m.loop.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
