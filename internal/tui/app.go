// ABOUTME: Root bubbletea model for the console
// ABOUTME: Owns the session, routes keys to the active screen and runs backend calls as commands

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/chat"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/config"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/notify"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/session"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/store"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/audioedit"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/budget"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/chatview"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/discovery"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/filepicker"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/home"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/icons"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/listview"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/login"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/menu"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenHome
	ScreenList
	ScreenChat
	ScreenBudget
	ScreenDiscovery
	ScreenAudioEdit
	ScreenFilePicker
)

// Layout constants
const (
	minTerminalWidth = 80
	panelPadding     = 4
	// header, footer and the loading line
	chromeHeight = 3
)

const (
	noticeExpired = "Your session has expired. Please log in again."
	noticeEnded   = "You were logged out."
)

type tickMsg time.Time

type sessionChangedMsg struct{}

type badgeMsg struct{}

type restoredMsg struct {
	err error
}

type loginDoneMsg struct {
	err error
}

type homeLoadedMsg struct {
	data *home.Overview
	err  error
}

type listLoadedMsg struct {
	dest menu.Destination
	rows []listview.Row
	err  error
}

type actionDoneMsg struct {
	dest   menu.Destination
	status string
	err    error
}

type budgetLoadedMsg struct {
	summary *client.Summary
	err     error
}

type statesLoadedMsg struct {
	states []client.State
	err    error
}

type searchDoneMsg struct {
	search *client.Search
	err    error
}

type importDoneMsg struct {
	result *client.ImportResult
	err    error
}

type audioLoadedMsg struct {
	file *client.AudioFile
	err  error
}

type editAppliedMsg struct {
	edit *client.AudioEdit
	err  error
}

type uploadDoneMsg struct {
	path string
	file *client.AudioFile
	err  error
}

// Deps are the long-lived collaborators the console needs
type Deps struct {
	Client  *client.Client
	Session *session.Session
	Config  *config.Config
	Recent  *store.RecentFiles
}

// App is the root model for the TUI
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	client *client.Client
	sess   *session.Session
	cfg    *config.Config
	recent *store.RecentFiles
	refs   *refs
	badge  *notify.Badge

	screen     Screen
	width      int
	height     int
	lastUpdate time.Time
	loading    string
	spinner    spinner.Model
	unread     int
	lastUser   string
	lastDest   menu.Destination

	// listDest is the resource shown on ScreenList
	listDest menu.Destination
	// confirmKey and confirmID arm a destructive action until the next key
	confirmKey string
	confirmID  int

	// Child models
	login     *login.Login
	menu      *menu.Menu
	home      *home.Home
	list      *listview.List
	chat      *chatview.Chat
	budget    *budget.Budget
	discovery *discovery.Discovery
	editor    *audioedit.Wizard
	picker    *filepicker.FilePicker
}

// New creates the console. ctx bounds every backend call it makes.
func New(ctx context.Context, deps Deps) *App {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &App{
		ctx:      ctx,
		cancel:   cancel,
		client:   deps.Client,
		sess:     deps.Session,
		cfg:      cfg,
		recent:   deps.Recent,
		refs:     newRefs(refsTTL),
		badge:    notify.NewBadge(deps.Client.Notifications, cfg.NotifyInterval),
		screen:   ScreenLogin,
		spinner:  sp,
		lastUser: deps.Session.Username(),
		login:    login.New(deps.Session.Username(), ""),
		menu:     menu.New(menu.DestHome),
		loading:  "Checking saved session...",
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.restore(),
		a.spinner.Tick,
		tick(),
		a.waitForSession(),
		a.waitForBadge(),
	)
}

// Close stops background polling. Safe to call more than once.
func (a *App) Close() {
	if a.chat != nil {
		a.chat.Close()
	}
	a.badge.Stop()
	a.refs.close()
	a.cancel()
}

// Screen returns the active screen
func (a *App) Screen() Screen { return a.screen }

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.Close()
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case tickMsg:
		return a, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionChangedMsg:
		cmds := []tea.Cmd{a.waitForSession()}
		if a.sess.State() == session.Unauthenticated && a.screen != ScreenLogin {
			cmds = append(cmds, a.toLogin(noticeEnded))
		}
		return a, tea.Batch(cmds...)

	case badgeMsg:
		a.unread, _ = a.badge.Count()
		return a, a.waitForBadge()

	case restoredMsg:
		a.loading = ""
		switch {
		case msg.err == nil && a.sess.State() == session.Authenticated:
			return a, a.onAuthenticated()
		case errors.Is(msg.err, session.ErrExpired):
			return a, a.toLogin(noticeExpired)
		case msg.err != nil:
			return a, a.toLogin("Could not verify your saved session: " + msg.err.Error())
		}
		return a, a.toLogin("")

	case login.SubmitMsg:
		a.lastUser = msg.Username
		return a, a.doLogin(msg)

	case loginDoneMsg:
		if a.login == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.login.Failed(msg.err)
		}
		return a, a.onAuthenticated()

	case menu.SelectedMsg:
		return a.navigate(msg.Dest)

	case menu.CancelledMsg:
		a.Close()
		return a, tea.Quit

	case homeLoadedMsg:
		a.loading = ""
		if a.screen != ScreenHome {
			return a, nil
		}
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if msg.err != nil {
			a.home.SetError(msg.err)
			return a, nil
		}
		a.home.SetData(msg.data)
		a.lastUpdate = time.Now()
		return a, nil

	case listLoadedMsg:
		a.loading = ""
		if a.screen != ScreenList || msg.dest != a.listDest {
			return a, nil
		}
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if msg.err != nil {
			a.list.SetError(msg.err)
			return a, nil
		}
		a.list.SetRows(msg.rows)
		a.lastUpdate = time.Now()
		return a, nil

	case listview.ActionMsg:
		return a.handleAction(msg)

	case listview.BackMsg:
		return a, a.toMenu()

	case actionDoneMsg:
		a.loading = ""
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if a.screen != ScreenList || msg.dest != a.listDest {
			return a, nil
		}
		if msg.err != nil {
			a.list.SetError(msg.err)
			return a, nil
		}
		a.list.SetStatus(msg.status)
		if msg.dest == menu.DestNotifications {
			a.badge.Refresh()
		}
		return a, a.loadList(msg.dest)

	case budgetLoadedMsg:
		a.loading = ""
		if a.screen != ScreenBudget {
			return a, nil
		}
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if msg.err != nil {
			a.budget.SetError(msg.err)
			return a, nil
		}
		a.budget.SetSummary(msg.summary)
		a.lastUpdate = time.Now()
		return a, nil

	case statesLoadedMsg:
		a.loading = ""
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if msg.err != nil {
			// Discovery still works with a typed-in state code.
			slog.Debug("Loading states for discovery failed", "error", msg.err)
		}
		a.discovery = discovery.New(msg.states, a.contentWidth())
		a.screen = ScreenDiscovery
		return a, a.discovery.Init()

	case discovery.SearchMsg:
		a.loading = fmt.Sprintf("Searching for venues near %s, %s...", msg.City, msg.State)
		return a, a.search(msg)

	case searchDoneMsg:
		a.loading = ""
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if a.discovery == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.discovery.SetError(msg.err)
		}
		return a, a.discovery.SetResults(msg.search)

	case discovery.ImportMsg:
		a.loading = "Importing venues..."
		return a, a.importVenues(msg)

	case importDoneMsg:
		a.loading = ""
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if a.discovery == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.discovery.SetError(msg.err)
		}
		a.discovery.SetImported(msg.result)
		return a, nil

	case discovery.DoneMsg:
		a.discovery = nil
		return a, a.toMenu()

	case audioLoadedMsg:
		a.loading = ""
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if msg.err != nil {
			if a.list != nil {
				a.list.SetError(msg.err)
			}
			return a, nil
		}
		a.editor = audioedit.New(msg.file, a.contentWidth())
		a.screen = ScreenAudioEdit
		return a, a.editor.Init()

	case audioedit.ApplyMsg:
		a.loading = "Applying edit..."
		return a, a.applyEdit(msg)

	case editAppliedMsg:
		a.loading = ""
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if a.editor == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.editor.SetError(msg.err)
		}
		a.editor.SetApplied(msg.edit)
		return a, nil

	case audioedit.DoneMsg:
		a.editor = nil
		return a, a.showList(menu.DestAudio)

	case filepicker.FileSelectedMsg:
		a.loading = "Uploading " + filepath.Base(msg.Path) + "..."
		return a, a.upload(msg)

	case uploadDoneMsg:
		a.loading = ""
		if cmd, ok := a.expired(msg.err); ok {
			return a, cmd
		}
		if msg.err != nil {
			if a.picker != nil {
				a.picker.SetError(msg.err.Error())
			}
			return a, nil
		}
		if err := a.recent.Add(msg.path); err != nil {
			slog.Warn("Failed to remember uploaded file", "path", msg.path, "error", err)
		}
		a.picker = nil
		cmd := a.showList(menu.DestAudio)
		a.list.SetStatus(fmt.Sprintf("Uploaded %q", msg.file.Title))
		return a, cmd

	case filepicker.CancelledMsg:
		a.picker = nil
		return a, a.showList(menu.DestAudio)

	case chatview.BackMsg:
		a.chat = nil
		return a, a.showList(menu.DestChat)
	}

	return a.updateChild(msg)
}

// updateKey routes a key press to the active screen
func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenHome:
		switch msg.String() {
		case "r":
			return a, a.loadHome()
		case "b", "esc":
			return a, a.toMenu()
		case "q":
			a.Close()
			return a, tea.Quit
		}
		return a, nil

	case ScreenBudget:
		switch msg.String() {
		case "r":
			return a, a.loadBudget()
		case "b", "esc":
			return a, a.toMenu()
		case "q":
			a.Close()
			return a, tea.Quit
		}
		return a, nil

	case ScreenList:
		if msg.String() == "q" {
			a.Close()
			return a, tea.Quit
		}
		if msg.String() != a.confirmKey {
			a.confirmKey, a.confirmID = "", 0
		}
	}
	return a.updateChild(msg)
}

// updateChild forwards msg to the active child model
func (a *App) updateChild(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		if a.login != nil && !a.login.Busy() {
			_, cmd = a.login.Update(msg)
		}
	case ScreenMenu:
		_, cmd = a.menu.Update(msg)
	case ScreenList:
		if a.list != nil {
			_, cmd = a.list.Update(msg)
		}
	case ScreenChat:
		if a.chat != nil {
			_, cmd = a.chat.Update(msg)
		}
	case ScreenDiscovery:
		if a.discovery != nil {
			_, cmd = a.discovery.Update(msg)
		}
	case ScreenAudioEdit:
		if a.editor != nil {
			_, cmd = a.editor.Update(msg)
		}
	case ScreenFilePicker:
		if a.picker != nil {
			_, cmd = a.picker.Update(msg)
		}
	}
	return a, cmd
}

// navigate opens the screen for a menu destination
func (a *App) navigate(dest menu.Destination) (tea.Model, tea.Cmd) {
	a.lastDest = dest
	slog.Debug("Navigating", "to", dest.String())

	switch dest {
	case menu.DestHome:
		a.home = home.New(nil, a.contentWidth(), a.contentHeight())
		a.screen = ScreenHome
		return a, a.loadHome()

	case menu.DestBudget:
		a.budget = budget.New(nil, budgetPeriod(time.Now()), a.contentWidth())
		a.screen = ScreenBudget
		return a, a.loadBudget()

	case menu.DestDiscover:
		a.loading = "Loading states..."
		return a, a.loadStates()

	case menu.DestLogout:
		if err := a.sess.Logout(); err != nil {
			slog.Warn("Failed to remove stored credentials", "error", err)
		}
		return a, a.toLogin(noticeEnded)
	}

	if _, ok := resources[dest]; ok {
		return a, a.showList(dest)
	}
	return a, nil
}

// showList switches to the list screen for dest and starts loading it
func (a *App) showList(dest menu.Destination) tea.Cmd {
	res := resources[dest]
	a.listDest = dest
	a.list = listview.New(res.title, res.columns, res.actions, a.contentWidth(), a.contentHeight())
	a.confirmKey, a.confirmID = "", 0
	a.screen = ScreenList
	return a.loadList(dest)
}

func (a *App) handleAction(msg listview.ActionMsg) (tea.Model, tea.Cmd) {
	dest := a.listDest
	res := resources[dest]

	switch msg.Key {
	case keyRefresh:
		return a, a.loadList(dest)
	case keyUpload:
		a.picker = filepicker.New(a.recent.List(), workingDir())
		a.screen = ScreenFilePicker
		return a, a.picker.Init()
	case keyEdit:
		a.loading = "Loading audio file..."
		return a, a.loadAudioFile(msg.ID)
	case keyOpen:
		if dest == menu.DestChat {
			return a, a.openRoom(msg.ID)
		}
		return a, nil
	}

	if destructive(msg.Key) && (a.confirmKey != msg.Key || a.confirmID != msg.ID) {
		a.confirmKey, a.confirmID = msg.Key, msg.ID
		a.list.SetStatus(fmt.Sprintf("Press %s again to delete item %d", msg.Key, msg.ID))
		return a, nil
	}
	a.confirmKey, a.confirmID = "", 0

	if res.act == nil {
		return a, nil
	}
	a.loading = "Working..."
	ctx, c, key, id := a.ctx, a.client, msg.Key, msg.ID
	return a, func() tea.Msg {
		status, err := res.act(ctx, c, key, id)
		return actionDoneMsg{dest: dest, status: status, err: err}
	}
}

func (a *App) openRoom(id int) tea.Cmd {
	room := chat.NewRoom(a.client.Chat, id, a.sess.Username(), chat.WithInterval(a.cfg.PollInterval))
	a.chat = chatview.New(room, a.sess.Username(), a.contentWidth(), a.contentHeight())
	a.screen = ScreenChat
	return a.chat.Start(a.ctx)
}

// onAuthenticated enters the console after a login or restored session
func (a *App) onAuthenticated() tea.Cmd {
	a.lastUser = a.sess.Username()
	a.login = nil
	a.badge.Start(a.ctx)
	_, cmd := a.navigate(menu.DestHome)
	return tea.Batch(cmd, a.menu.Init())
}

// toLogin tears down per-user state and shows the login form
func (a *App) toLogin(notice string) tea.Cmd {
	if a.chat != nil {
		a.chat.Close()
		a.chat = nil
	}
	a.badge.Stop()
	a.refs.purge()
	a.unread = 0
	a.home, a.list, a.budget, a.discovery, a.editor, a.picker = nil, nil, nil, nil, nil, nil
	a.loading = ""
	a.lastUpdate = time.Time{}

	a.login = login.New(a.lastUser, notice)
	a.screen = ScreenLogin
	return a.login.Init()
}

func (a *App) toMenu() tea.Cmd {
	if a.chat != nil {
		a.chat.Close()
		a.chat = nil
	}
	a.loading = ""
	a.menu = menu.New(a.lastDest)
	a.screen = ScreenMenu
	return a.menu.Init()
}

// expired handles a rejected credential by ending the session. It reports
// whether err was such a rejection.
func (a *App) expired(err error) (tea.Cmd, bool) {
	if !errors.Is(err, client.ErrUnauthorized) {
		return nil, false
	}
	a.sess.Invalidate()
	return a.toLogin(noticeExpired), true
}

func (a *App) resize() {
	w, h := a.contentWidth(), a.contentHeight()
	if a.home != nil {
		a.home.SetSize(w, h)
	}
	if a.list != nil {
		a.list.SetSize(w, h)
	}
	if a.chat != nil {
		a.chat.SetSize(w, h)
	}
	if a.budget != nil {
		a.budget.SetWidth(w)
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenLogin:
		// hidden while the saved session is being checked
		if a.login != nil && a.loading == "" {
			content = a.login.View()
		}
	case ScreenMenu:
		content = a.menu.View()
	case ScreenHome:
		content = a.home.View()
	case ScreenList:
		content = a.list.View()
	case ScreenChat:
		content = a.chat.View()
	case ScreenBudget:
		content = a.budget.View()
	case ScreenDiscovery:
		content = a.discovery.View()
	case ScreenAudioEdit:
		content = a.editor.View()
	case ScreenFilePicker:
		content = a.picker.View()
	}

	if a.loading != "" {
		content = a.spinner.View() + " " + styles.Subtitle.Render(a.loading) + "\n" + content
	}

	padded := lipgloss.NewStyle().Padding(0, panelPadding/2).Render(content)
	return a.wrapWithFrame(padded)
}

// frameWidth leaves the last column free so terminals do not wrap
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

func (a *App) contentWidth() int {
	return a.frameWidth() - panelPadding
}

func (a *App) contentHeight() int {
	if a.height == 0 {
		return 20
	}
	return max(a.height-chromeHeight, 5)
}

func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	userStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	left := fmt.Sprintf(" %s %s ", icons.App, titleStyle.Render("Venue Tracker"))

	right := ""
	if a.screen != ScreenLogin {
		if user := a.sess.Username(); user != "" {
			right = " " + userStyle.Render(icons.User.String()+" "+user) + " "
		}
		if badge := widgets.CountBadge(a.unread); badge != "" {
			right += badge + " "
		}
	}

	fill := max(width-4-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return borderStyle.Render("╭─") + left + borderStyle.Render(strings.Repeat("─", fill)) + right + borderStyle.Render("─╮")
}

func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Next", "Enter Submit", "ctrl+c Quit"}
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenHome, ScreenBudget:
		return []string{"r Refresh", "b Back", "q Quit"}
	case ScreenList:
		var out []string
		if a.list != nil {
			for _, act := range a.list.Actions() {
				out = append(out, act.Key+" "+act.Label)
			}
		}
		return append(out, "b Back")
	case ScreenChat:
		return []string{"Enter Send", "PgUp/PgDn Scroll", "Esc Back"}
	case ScreenDiscovery, ScreenAudioEdit:
		return []string{"Enter Confirm", "Esc Cancel"}
	case ScreenFilePicker:
		return []string{"↑↓ Navigate", "Enter Select", "Esc Back"}
	}
	return nil
}

func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	styled := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		key, label, ok := strings.Cut(s, " ")
		if !ok {
			styled = append(styled, s)
			continue
		}
		styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
	}
	leftText := " " + strings.Join(styled, "  ") + " "
	leftPlain := " " + strings.Join(shortcuts, "  ") + " "

	updated := a.lastUpdate
	if a.screen == ScreenChat && a.chat != nil {
		updated = a.chat.LastFetch()
	}
	rightText, rightPlain := "", ""
	if !updated.IsZero() && (a.screen == ScreenHome || a.screen == ScreenList || a.screen == ScreenBudget || a.screen == ScreenChat) {
		elapsed := formatTimeSince(updated)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlain = "Updated " + elapsed + " "
	}

	// Shortcuts give way to the status on narrow frames.
	if 4+lipgloss.Width(leftPlain)+lipgloss.Width(rightPlain) > width {
		leftText, leftPlain = " ", " "
	}
	fill := max(width-4-lipgloss.Width(leftPlain)-lipgloss.Width(rightPlain), 0)
	return borderStyle.Render("╰─") + leftText + borderStyle.Render(strings.Repeat("─", fill)) + rightText + borderStyle.Render("─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) waitForSession() tea.Cmd {
	ctx, ch := a.ctx, a.sess.Changes()
	return func() tea.Msg {
		select {
		case <-ch:
			return sessionChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) waitForBadge() tea.Cmd {
	ctx, ch := a.ctx, a.badge.Updates()
	return func() tea.Msg {
		select {
		case <-ch:
			return badgeMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) restore() tea.Cmd {
	ctx, sess := a.ctx, a.sess
	return func() tea.Msg {
		return restoredMsg{err: sess.Restore(ctx)}
	}
}

func (a *App) doLogin(msg login.SubmitMsg) tea.Cmd {
	ctx, sess := a.ctx, a.sess
	return func() tea.Msg {
		return loginDoneMsg{err: sess.Login(ctx, msg.Username, msg.Password)}
	}
}

func (a *App) loadHome() tea.Cmd {
	a.loading = "Loading overview..."
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		data, err := home.Load(ctx, c)
		return homeLoadedMsg{data: data, err: err}
	}
}

func (a *App) loadList(dest menu.Destination) tea.Cmd {
	res, ok := resources[dest]
	if !ok {
		return nil
	}
	a.loading = "Loading " + strings.ToLower(res.title) + "..."
	ctx, c, r := a.ctx, a.client, a.refs
	return func() tea.Msg {
		rows, err := res.load(ctx, c, r)
		return listLoadedMsg{dest: dest, rows: rows, err: err}
	}
}

// budgetPeriod is the year-to-date window shown on the budget screen
func budgetPeriod(now time.Time) string {
	return fmt.Sprintf("%d year to date", now.Year())
}

func (a *App) loadBudget() tea.Cmd {
	a.loading = "Loading budget..."
	ctx, c, r := a.ctx, a.client, a.refs
	start := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.Local).Format(time.DateOnly)
	return func() tea.Msg {
		summary, err := c.Budget.Summary(ctx, client.ExpenseFilter{StartDate: start})
		if err != nil {
			return budgetLoadedMsg{err: err}
		}
		cats, err := r.ExpenseCategories(ctx, c)
		if err != nil {
			slog.Debug("Loading expense categories failed", "error", err)
		}
		return budgetLoadedMsg{summary: withUnusedCategories(summary, cats)}
	}
}

// withUnusedCategories lists categories with no spend in the period so the
// breakdown shows every category the user has defined.
func withUnusedCategories(s *client.Summary, cats []client.ExpenseCategory) *client.Summary {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool, len(s.ByCategory))
	for _, ct := range s.ByCategory {
		seen[ct.Name] = true
	}
	out := *s
	out.ByCategory = append([]client.CategoryTotal(nil), s.ByCategory...)
	for _, cat := range cats {
		if seen[cat.Name] {
			continue
		}
		id := cat.ID
		out.ByCategory = append(out.ByCategory, client.CategoryTotal{ID: &id, Name: cat.Name, Color: cat.Color, Total: "0.00"})
	}
	return &out
}

func (a *App) loadStates() tea.Cmd {
	ctx, c, r := a.ctx, a.client, a.refs
	return func() tea.Msg {
		states, err := r.States(ctx, c)
		return statesLoadedMsg{states: states, err: err}
	}
}

func (a *App) search(msg discovery.SearchMsg) tea.Cmd {
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		s, err := c.Discovery.DiscoverVenues(ctx, msg.State, msg.City, msg.Radius)
		return searchDoneMsg{search: s, err: err}
	}
}

func (a *App) importVenues(msg discovery.ImportMsg) tea.Cmd {
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		res, err := c.Discovery.ImportVenues(ctx, msg.SearchID, msg.Indices)
		return importDoneMsg{result: res, err: err}
	}
}

func (a *App) loadAudioFile(id int) tea.Cmd {
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		f, err := c.Audio.Get(ctx, id)
		return audioLoadedMsg{file: f, err: err}
	}
}

func (a *App) applyEdit(msg audioedit.ApplyMsg) tea.Cmd {
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		edit, err := c.Audio.ApplyEdit(ctx, msg.FileID, msg.EditType, msg.Params)
		return editAppliedMsg{edit: edit, err: err}
	}
}

func (a *App) upload(msg filepicker.FileSelectedMsg) tea.Cmd {
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		f, err := os.Open(msg.Path)
		if err != nil {
			return uploadDoneMsg{path: msg.Path, err: err}
		}
		defer f.Close()
		file, err := c.Audio.Upload(ctx, msg.Title, filepath.Base(msg.Path), f)
		return uploadDoneMsg{path: msg.Path, file: file, err: err}
	}
}

func workingDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Run starts the console and blocks until the user quits
func Run(ctx context.Context, deps Deps) error {
	app := New(ctx, deps)
	defer app.Close()

	if err := deps.Session.Watch(app.ctx); err != nil {
		slog.Warn("Not watching credentials for changes", "error", err)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
