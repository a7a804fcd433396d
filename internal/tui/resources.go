// ABOUTME: Table definitions for the list screens reachable from the menu
// ABOUTME: Each resource names its columns, how rows load and what its action keys do

package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/listview"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/menu"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/widgets"
)

// Action keys shared across resources
const (
	keyRefresh  = "r"
	keyDelete   = "d"
	keyComplete = "c"
	keyStatus   = "s"
	keyRead     = "m"
	keyReadAll  = "M"
	keyUpload   = "u"
	keyEdit     = "e"
	keyOpen     = "enter"
)

var refreshAction = listview.Action{Key: keyRefresh, Label: "refresh", Global: true}

type loader func(ctx context.Context, c *client.Client, r *refs) ([]listview.Row, error)

// actor runs a non-navigating action and returns a status line
type actor func(ctx context.Context, c *client.Client, key string, id int) (string, error)

type resource struct {
	title   string
	columns []listview.Column
	actions []listview.Action
	load    loader
	act     actor
}

var resources = map[menu.Destination]resource{
	menu.DestVenues: {
		title: "Venues",
		columns: []listview.Column{
			{Title: "ID", Width: 5}, {Title: "Name"}, {Title: "City", Width: 16},
			{Title: "State", Width: 6}, {Title: "Capacity", Width: 9}, {Title: "Phone", Width: 14},
		},
		actions: []listview.Action{{Key: keyDelete, Label: "delete"}, refreshAction},
		load:    loadVenues,
		act: func(ctx context.Context, c *client.Client, key string, id int) (string, error) {
			if err := c.Venues.Delete(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Venue %d deleted", id), nil
		},
	},
	menu.DestFollowups: {
		title: "Pending follow-ups",
		columns: []listview.Column{
			{Title: "Follow up", Width: 11}, {Title: "Venue"}, {Title: "Person", Width: 18},
			{Title: "Type", Width: 10}, {Title: "Contacted", Width: 11},
		},
		actions: []listview.Action{refreshAction},
		load:    loadFollowups,
	},
	menu.DestConnections: {
		title: "Connections",
		columns: []listview.Column{
			{Title: "Name"}, {Title: "Email"}, {Title: "Status", Width: 12}, {Title: "Last contact", Width: 12},
		},
		actions: []listview.Action{{Key: keyDelete, Label: "delete"}, refreshAction},
		load:    loadConnections,
		act: func(ctx context.Context, c *client.Client, key string, id int) (string, error) {
			if err := c.Connections.Delete(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Connection %d deleted", id), nil
		},
	},
	menu.DestEvents: {
		title: "Upcoming events",
		columns: []listview.Column{
			{Title: "Date", Width: 11}, {Title: "Name"}, {Title: "Type", Width: 14},
			{Title: "Location", Width: 18}, {Title: "Cost", Width: 9},
		},
		actions: []listview.Action{refreshAction},
		load:    loadEvents,
	},
	menu.DestOpportunities: {
		title: "Active opportunities",
		columns: []listview.Column{
			{Title: "Title"}, {Title: "Organization", Width: 18}, {Title: "Type", Width: 13},
			{Title: "Status", Width: 16}, {Title: "Deadline", Width: 11},
		},
		actions: []listview.Action{{Key: keyStatus, Label: "next status"}, refreshAction},
		load:    loadOpportunities,
		act:     advanceOpportunity,
	},
	menu.DestReminders: {
		title: "Reminders",
		columns: []listview.Column{
			{Title: "Due", Width: 16}, {Title: "Priority", Width: 10}, {Title: "Title"},
			{Title: "Category", Width: 14}, {Title: "Done", Width: 5},
		},
		actions: []listview.Action{{Key: keyComplete, Label: "complete"}, {Key: keyDelete, Label: "delete"}, refreshAction},
		load:    loadReminders,
		act: func(ctx context.Context, c *client.Client, key string, id int) (string, error) {
			if key == keyDelete {
				if err := c.Reminders.Delete(ctx, id); err != nil {
					return "", err
				}
				return fmt.Sprintf("Reminder %d deleted", id), nil
			}
			r, err := c.Reminders.Complete(ctx, id)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Completed %q", r.Title), nil
		},
	},
	menu.DestNotifications: {
		title: "Notifications",
		columns: []listview.Column{
			{Title: "Sent", Width: 16}, {Title: "Reminder"}, {Title: "Read", Width: 5},
		},
		actions: []listview.Action{{Key: keyRead, Label: "mark read"}, {Key: keyReadAll, Label: "mark all read", Global: true}, refreshAction},
		load:    loadNotifications,
		act: func(ctx context.Context, c *client.Client, key string, id int) (string, error) {
			if key == keyReadAll {
				if err := c.Notifications.MarkAllRead(ctx); err != nil {
					return "", err
				}
				return "All notifications marked read", nil
			}
			if err := c.Notifications.MarkRead(ctx, id); err != nil {
				return "", err
			}
			return "Marked read", nil
		},
	},
	menu.DestExpenses: {
		title: "Expenses",
		columns: []listview.Column{
			{Title: "Date", Width: 11}, {Title: "Amount", Width: 10}, {Title: "Category", Width: 14},
			{Title: "Description"}, {Title: "Location", Width: 16},
		},
		actions: []listview.Action{{Key: keyDelete, Label: "delete"}, refreshAction},
		load:    loadExpenses,
		act: func(ctx context.Context, c *client.Client, key string, id int) (string, error) {
			if err := c.Budget.DeleteExpense(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Expense %d deleted", id), nil
		},
	},
	menu.DestAudio: {
		title: "Audio files",
		columns: []listview.Column{
			{Title: "ID", Width: 5}, {Title: "Title"}, {Title: "Type", Width: 6},
			{Title: "Length", Width: 8}, {Title: "Edits", Width: 6}, {Title: "Uploaded", Width: 11},
		},
		actions: []listview.Action{
			{Key: keyEdit, Label: "edit"},
			{Key: keyUpload, Label: "upload", Global: true},
			{Key: keyDelete, Label: "delete"},
			refreshAction,
		},
		load: loadAudio,
		act: func(ctx context.Context, c *client.Client, key string, id int) (string, error) {
			if err := c.Audio.Delete(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Audio file %d deleted", id), nil
		},
	},
	menu.DestChat: {
		title: "Chat rooms",
		columns: []listview.Column{
			{Title: "Room"}, {Title: "Members", Width: 8}, {Title: "Active", Width: 16},
		},
		actions: []listview.Action{{Key: keyOpen, Label: "open"}, refreshAction},
		load:    loadRooms,
	},
}

// destructive actions ask for a second key press
func destructive(key string) bool { return key == keyDelete }

func loadVenues(ctx context.Context, c *client.Client, _ *refs) ([]listview.Row, error) {
	venues, err := c.Venues.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	rows := make([]listview.Row, 0, len(venues))
	for _, v := range venues {
		capacity := "-"
		if v.Capacity != nil {
			capacity = strconv.Itoa(*v.Capacity)
		}
		rows = append(rows, listview.Row{ID: v.ID, Cells: []string{
			strconv.Itoa(v.ID), v.Name, v.City, v.StateAbbreviation, capacity, v.Phone,
		}})
	}
	return rows, nil
}

func loadFollowups(ctx context.Context, c *client.Client, _ *refs) ([]listview.Row, error) {
	contacts, err := c.Contacts.PendingFollowups(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]listview.Row, 0, len(contacts))
	for _, h := range contacts {
		rows = append(rows, listview.Row{ID: h.ID, Cells: []string{
			orDash(h.FollowUpDate), h.VenueName, h.ContactPerson, h.ContactType, h.ContactDate.Format(time.DateOnly),
		}})
	}
	return rows, nil
}

func loadConnections(ctx context.Context, c *client.Client, _ *refs) ([]listview.Row, error) {
	conns, err := c.Connections.List(ctx, client.ConnectionFilter{})
	if err != nil {
		return nil, err
	}
	rows := make([]listview.Row, 0, len(conns))
	for _, p := range conns {
		rows = append(rows, listview.Row{ID: p.ID, Cells: []string{
			p.Name, p.Email, p.RelationshipStatus, orDash(p.LastContactDate),
		}})
	}
	return rows, nil
}

func loadEvents(ctx context.Context, c *client.Client, r *refs) ([]listview.Row, error) {
	events, err := c.Events.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	var types []client.EventType
	if slices.ContainsFunc(events, func(e client.Event) bool { return e.EventTypeName == "" && e.EventType != nil }) {
		// Type names are optional in list responses; fall back to the cached table.
		types, _ = r.EventTypes(ctx, c)
	}
	rows := make([]listview.Row, 0, len(events))
	for _, e := range events {
		typeName := e.EventTypeName
		if typeName == "" && e.EventType != nil {
			if i := slices.IndexFunc(types, func(t client.EventType) bool { return t.ID == *e.EventType }); i >= 0 {
				typeName = types[i].Name
			}
		}
		rows = append(rows, listview.Row{ID: e.ID, Cells: []string{
			e.Date, e.Name, typeName, e.Location, "$" + e.Cost.String(),
		}})
	}
	return rows, nil
}

func loadOpportunities(ctx context.Context, c *client.Client, _ *refs) ([]listview.Row, error) {
	opps, err := c.Opportunities.Active(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]listview.Row, 0, len(opps))
	for _, o := range opps {
		rows = append(rows, listview.Row{ID: o.ID, Cells: []string{
			o.Title, o.Organization, o.OpportunityType, widgets.StatusLabel(o.Status), orDash(o.Deadline),
		}})
	}
	return rows, nil
}

// nextStatus moves an opportunity one step along the workflow. Accepted,
// declined and closed are final.
func nextStatus(status string) (string, bool) {
	switch status {
	case client.StatusAccepted, client.StatusDeclined, client.StatusClosed:
		return "", false
	}
	i := slices.Index(client.OpportunityStatuses, status)
	if i < 0 {
		return client.StatusActive, true
	}
	return client.OpportunityStatuses[i+1], true
}

func advanceOpportunity(ctx context.Context, c *client.Client, _ string, id int) (string, error) {
	o, err := c.Opportunities.Get(ctx, id)
	if err != nil {
		return "", err
	}
	next, ok := nextStatus(o.Status)
	if !ok {
		return fmt.Sprintf("%q is already %s", o.Title, widgets.StatusLabel(o.Status)), nil
	}
	updated, err := c.Opportunities.UpdateStatus(ctx, id, next)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%q is now %s", updated.Title, widgets.StatusLabel(updated.Status)), nil
}

func loadReminders(ctx context.Context, c *client.Client, r *refs) ([]listview.Row, error) {
	pending := false
	reminders, err := c.Reminders.List(ctx, client.ReminderFilter{Completed: &pending, Ordering: "due_date"})
	if err != nil {
		return nil, err
	}
	var cats []client.ReminderCategory
	if slices.ContainsFunc(reminders, func(rm client.Reminder) bool { return rm.CategoryName == "" && rm.Category != nil }) {
		cats, _ = r.ReminderCategories(ctx, c)
	}
	now := time.Now()
	rows := make([]listview.Row, 0, len(reminders))
	for _, rm := range reminders {
		cat := rm.CategoryName
		if cat == "" && rm.Category != nil {
			if i := slices.IndexFunc(cats, func(rc client.ReminderCategory) bool { return rc.ID == *rm.Category }); i >= 0 {
				cat = cats[i].Name
			}
		}
		due := rm.DueDate.Local().Format("2006-01-02 15:04")
		if rm.Overdue(now) {
			due += " !"
		}
		rows = append(rows, listview.Row{ID: rm.ID, Cells: []string{
			due, rm.Priority, rm.Title, cat, yesNo(rm.Completed),
		}})
	}
	return rows, nil
}

func loadNotifications(ctx context.Context, c *client.Client, _ *refs) ([]listview.Row, error) {
	notes, err := c.Notifications.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	rows := make([]listview.Row, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, listview.Row{ID: n.ID, Cells: []string{
			n.SentAt.Local().Format("2006-01-02 15:04"), n.ReminderTitle, yesNo(n.Read),
		}})
	}
	return rows, nil
}

func loadExpenses(ctx context.Context, c *client.Client, r *refs) ([]listview.Row, error) {
	expenses, err := c.Budget.Expenses(ctx, client.ExpenseFilter{})
	if err != nil {
		return nil, err
	}
	var cats []client.ExpenseCategory
	if slices.ContainsFunc(expenses, func(e client.Expense) bool { return e.CategoryName == "" && e.Category != nil }) {
		cats, _ = r.ExpenseCategories(ctx, c)
	}
	rows := make([]listview.Row, 0, len(expenses))
	for _, e := range expenses {
		cat := e.CategoryName
		if cat == "" && e.Category != nil {
			if i := slices.IndexFunc(cats, func(ec client.ExpenseCategory) bool { return ec.ID == *e.Category }); i >= 0 {
				cat = cats[i].Name
			}
		}
		rows = append(rows, listview.Row{ID: e.ID, Cells: []string{
			e.Date, "$" + e.Amount.String(), cat, e.Description, e.Location,
		}})
	}
	return rows, nil
}

func loadAudio(ctx context.Context, c *client.Client, _ *refs) ([]listview.Row, error) {
	files, err := c.Audio.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]listview.Row, 0, len(files))
	for _, f := range files {
		rows = append(rows, listview.Row{ID: f.ID, Cells: []string{
			strconv.Itoa(f.ID), f.Title, f.FileType, formatDuration(f.Duration),
			strconv.Itoa(len(f.Edits)), f.CreatedAt.Local().Format(time.DateOnly),
		}})
	}
	return rows, nil
}

func loadRooms(ctx context.Context, c *client.Client, _ *refs) ([]listview.Row, error) {
	rooms, err := c.Chat.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]listview.Row, 0, len(rooms))
	for _, rm := range rooms {
		rows = append(rows, listview.Row{ID: rm.ID, Cells: []string{
			rm.Name, strconv.Itoa(len(rm.Members)), rm.UpdatedAt.Local().Format("2006-01-02 15:04"),
		}})
	}
	return rows, nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatDuration(seconds *float64) string {
	if seconds == nil {
		return "-"
	}
	d := time.Duration(*seconds * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
