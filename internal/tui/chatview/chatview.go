// ABOUTME: Chat room screen driven by the polling synchronizer
// ABOUTME: Message viewport above a single-line composer

package chatview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/chat"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/icons"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
)

// BackMsg is sent after the room has been stopped and the user left
type BackMsg struct{}

type changedMsg struct{}

type sentMsg struct{ err error }

// Chat is the chat room model. It owns the room's polling lifetime:
// Start begins polling and Close stops it.
type Chat struct {
	room   *chat.Room
	self   string
	ctx    context.Context
	cancel context.CancelFunc

	viewport viewport.Model
	input    textinput.Model
	snap     chat.View
	sendErr  error
	width    int
	height   int
	closed   bool
}

// New creates the screen for room. self is the current username.
func New(room *chat.Room, self string, width, height int) *Chat {
	ti := textinput.New()
	ti.Placeholder = "Type a message"
	ti.CharLimit = 2000
	ti.Prompt = "› "
	ti.Focus()

	c := &Chat{
		room:     room,
		self:     self,
		viewport: viewport.New(width, 1),
		input:    ti,
		snap:     room.Snapshot(),
	}
	c.SetSize(width, height)
	return c
}

// Start begins polling under ctx and returns the command that waits for
// the first change.
func (c *Chat) Start(ctx context.Context) tea.Cmd {
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.room.Start(c.ctx)
	return tea.Batch(textinput.Blink, c.waitForChange())
}

// Close stops polling. No fetch is issued after Close returns.
func (c *Chat) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.room.Stop()
	if c.cancel != nil {
		c.cancel()
	}
}

// Closed reports whether Close has run
func (c *Chat) Closed() bool { return c.closed }

func (c *Chat) waitForChange() tea.Cmd {
	updates := c.room.Updates()
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return func() tea.Msg {
		select {
		case <-updates:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// SetSize lays out the viewport above the composer
func (c *Chat) SetSize(width, height int) {
	c.width, c.height = width, height
	// title, status line, blank, input
	c.viewport.Width = width
	c.viewport.Height = max(3, height-4)
	c.input.Width = max(10, width-4)
	c.render()
}

// Init implements tea.Model
func (c *Chat) Init() tea.Cmd { return nil }

// Update implements tea.Model
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		if c.closed {
			return c, nil
		}
		c.refresh()
		return c, c.waitForChange()

	case sentMsg:
		c.sendErr = msg.err
		c.refresh()
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			c.Close()
			return c, func() tea.Msg { return BackMsg{} }
		case "enter":
			return c, c.send()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *Chat) send() tea.Cmd {
	text := c.input.Value()
	if strings.TrimSpace(text) == "" || c.closed {
		return nil
	}
	c.input.Reset()
	c.sendErr = nil
	c.room.DismissSendError()
	room, ctx := c.room, c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return func() tea.Msg {
		return sentMsg{err: room.Send(ctx, text)}
	}
}

// refresh takes a new snapshot and re-renders, following the tail when
// the viewport was already at the bottom.
func (c *Chat) refresh() {
	c.snap = c.room.Snapshot()
	c.render()
}

func (c *Chat) render() {
	follow := c.viewport.AtBottom() || c.viewport.TotalLineCount() == 0
	c.viewport.SetContent(c.renderMessages())
	if follow {
		c.viewport.GotoBottom()
	}
}

func (c *Chat) renderMessages() string {
	if len(c.snap.Messages) == 0 {
		if c.snap.State == chat.StateLoading {
			return styles.Subtitle.Render("Loading messages...")
		}
		return styles.Subtitle.Render("No messages yet. Say hello!")
	}

	var sb strings.Builder
	for i, m := range c.snap.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(c.renderEntry(m))
	}
	return sb.String()
}

func (c *Chat) renderEntry(m chat.Entry) string {
	author := styles.Author
	if m.Author == c.self {
		author = styles.OwnAuthor
	}
	stamp := styles.Timestamp.Render(m.Timestamp.Local().Format("15:04"))
	content := m.Content
	if m.Pending {
		content = styles.PendingText.Render(content + " " + icons.Pending.String())
	}
	line := fmt.Sprintf("%s %s %s", stamp, author.Render(m.Author+":"), content)
	return lipgloss.NewStyle().Width(c.width).Render(line)
}

// LastFetch is the time of the last successful poll
func (c *Chat) LastFetch() time.Time { return c.snap.LastFetch }

// View implements tea.Model
func (c *Chat) View() string {
	title := "Chat"
	if c.snap.Room != nil {
		title = fmt.Sprintf("%s %s", icons.Chat, c.snap.Room.Name)
	}

	var status string
	switch c.snap.State {
	case chat.StateError:
		msg := "error"
		if c.snap.Err != nil {
			msg = c.snap.Err.Error()
		}
		status = styles.InlineError.Render(msg)
	case chat.StateLoading:
		status = styles.Timestamp.Render("connecting...")
	default:
		status = styles.Timestamp.Render(fmt.Sprintf("%d messages", len(c.snap.Messages)))
	}
	if c.sendErr != nil {
		status += "  " + styles.InlineError.Render("Failed to send message: "+c.sendErr.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.UnsetMarginBottom().Render(title),
		c.viewport.View(),
		status,
		c.input.View(),
	)
}
