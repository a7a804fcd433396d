// ABOUTME: Home dashboard summarizing venues, reminders, events and spend
// ABOUTME: Data is fetched concurrently and rendered as metric blocks

package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/icons"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/widgets"
)

// Overview is everything the home screen shows
type Overview struct {
	Venues        int
	Followups     []client.ContactHistory
	Overdue       []client.Reminder
	Today         []client.Reminder
	Events        []client.Event
	Opportunities []client.Opportunity
	Budget        *client.Summary
}

// Load fetches the overview. Requests run in parallel; the first failure
// cancels the rest and is returned.
func Load(ctx context.Context, c *client.Client) (*Overview, error) {
	var o Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		venues, err := c.Venues.List(ctx, 0)
		o.Venues = len(venues)
		return err
	})
	g.Go(func() (err error) {
		o.Followups, err = c.Contacts.PendingFollowups(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Overdue, err = c.Reminders.Overdue(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Today, err = c.Reminders.Today(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Events, err = c.Events.Upcoming(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Opportunities, err = c.Opportunities.Active(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Budget, err = c.Budget.Summary(ctx, client.ExpenseFilter{})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Home renders an Overview
type Home struct {
	data   *Overview
	width  int
	height int
	err    error
}

// New creates the home view
func New(data *Overview, width, height int) *Home {
	return &Home{data: data, width: width, height: height}
}

// SetData replaces the overview after a refresh
func (h *Home) SetData(data *Overview) {
	h.data = data
	h.err = nil
}

// SetError records a failed refresh. Stale data stays on screen.
func (h *Home) SetError(err error) { h.err = err }

// SetSize updates the view dimensions
func (h *Home) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the dashboard
func (h *Home) View() string {
	if h.data == nil {
		if h.err != nil {
			return styles.InlineError.Render("Error: " + h.err.Error())
		}
		return styles.Subtitle.Render("Loading overview...")
	}

	cfg := widgets.DefaultBlockConfig()
	blocks := []string{
		widgets.CountBlock(icons.Venue, "Venues", h.data.Venues, "tracked", cfg),
		widgets.AlertBlock(icons.Reminder, "Overdue", len(h.data.Overdue), "reminders", widgets.LevelCritical, cfg),
		widgets.AlertBlock(icons.Contact, "Follow-ups", len(h.data.Followups), "pending contacts", widgets.LevelWarning, cfg),
		widgets.CountBlock(icons.Opportunity, "Opportunities", len(h.data.Opportunities), "active", cfg),
	}
	if h.data.Budget != nil {
		history := make([]float64, 0, len(h.data.Budget.ByMonth))
		for _, m := range h.data.Budget.ByMonth {
			history = append(history, m.Total.Float())
		}
		blocks = append(blocks, widgets.TrendBlock(icons.Budget, "Spend", "$"+h.data.Budget.Total.String(),
			history, fmt.Sprintf("%d months", len(history)), cfg))
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Overview"))
	sb.WriteString("\n")
	sb.WriteString(h.layoutBlocks(blocks, cfg.Width))
	sb.WriteString("\n\n")
	sb.WriteString(h.section("Due today", h.todayLines()))
	sb.WriteString("\n")
	sb.WriteString(h.section("Upcoming events", h.eventLines()))
	if h.err != nil {
		sb.WriteString("\n")
		sb.WriteString(styles.InlineError.Render("Refresh failed: " + h.err.Error()))
	}

	return lipgloss.NewStyle().MaxWidth(max(h.width, 40)).Render(sb.String())
}

// layoutBlocks places as many blocks per row as the width allows
func (h *Home) layoutBlocks(blocks []string, blockWidth int) string {
	perRow := max(1, h.width/(blockWidth+1))
	var rows []string
	for i := 0; i < len(blocks); i += perRow {
		end := min(i+perRow, len(blocks))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (h *Home) section(title string, lines []string) string {
	var sb strings.Builder
	sb.WriteString(styles.KeyStyle.Render(title))
	sb.WriteString("\n")
	if len(lines) == 0 {
		sb.WriteString(styles.Subtitle.Render("  nothing scheduled"))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, l := range lines {
		sb.WriteString("  " + l + "\n")
	}
	return sb.String()
}

const maxSectionLines = 5

func (h *Home) todayLines() []string {
	var lines []string
	for _, r := range h.data.Today {
		if len(lines) == maxSectionLines {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			widgets.PriorityBadge(r.Priority),
			r.DueDate.Local().Format(time.Kitchen),
			r.Title))
	}
	return lines
}

func (h *Home) eventLines() []string {
	var lines []string
	for _, e := range h.data.Events {
		if len(lines) == maxSectionLines {
			break
		}
		line := fmt.Sprintf("%s  %s", e.Date, e.Name)
		if e.Location != "" {
			line += styles.Subtitle.UnsetMarginBottom().Render("  @ " + e.Location)
		}
		lines = append(lines, line)
	}
	return lines
}
