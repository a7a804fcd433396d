// ABOUTME: Generic resource table used by every list screen
// ABOUTME: Wraps bubbles/table and turns action keys into messages

package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
)

// Column is a table column. Width 0 shares the remaining space.
type Column struct {
	Title string
	Width int
}

// Row is one record. ID is passed back with actions.
type Row struct {
	ID    int
	Cells []string
}

// Action binds a key to a named operation on the selected row
type Action struct {
	Key   string
	Label string
	// Global actions do not need a selected row (e.g. "mark all read").
	Global bool
}

// ActionMsg is sent when an action key is pressed
type ActionMsg struct {
	Key string
	ID  int
}

// BackMsg is sent when the user leaves the list
type BackMsg struct{}

// List is a titled table of rows
type List struct {
	title   string
	columns []Column
	rows    []Row
	actions []Action
	table   table.Model
	status  string
	err     string
	width   int
	height  int
}

// New creates a list sized to width x height
func New(title string, columns []Column, actions []Action, width, height int) *List {
	t := table.New(table.WithFocused(true))
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Foreground(styles.Accent).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(false)
	t.SetStyles(st)

	l := &List{title: title, columns: columns, actions: actions, table: t}
	l.SetSize(width, height)
	return l
}

// SetSize lays out columns for the new width
func (l *List) SetSize(width, height int) {
	l.width, l.height = width, height

	fixed, flex := 0, 0
	for _, c := range l.columns {
		if c.Width > 0 {
			fixed += c.Width
		} else {
			flex++
		}
	}
	// two cells of padding per column
	remaining := width - fixed - 2*len(l.columns)
	share := 12
	if flex > 0 {
		share = max(12, remaining/flex)
	}

	cols := make([]table.Column, len(l.columns))
	for i, c := range l.columns {
		w := c.Width
		if w == 0 {
			w = share
		}
		cols[i] = table.Column{Title: c.Title, Width: w}
	}
	l.table.SetColumns(cols)
	l.table.SetWidth(width)
	// title, blank, status line, help line
	l.table.SetHeight(max(3, height-4))
}

// SetRows replaces the table contents, keeping the cursor in range
func (l *List) SetRows(rows []Row) {
	l.rows = rows
	tr := make([]table.Row, len(rows))
	for i, r := range rows {
		tr[i] = table.Row(r.Cells)
	}
	l.table.SetRows(tr)
	if c := l.table.Cursor(); c >= len(rows) {
		l.table.SetCursor(max(0, len(rows)-1))
	}
	l.err = ""
}

// Rows returns the current rows
func (l *List) Rows() []Row { return l.rows }

// Selected returns the highlighted row
func (l *List) Selected() (Row, bool) {
	c := l.table.Cursor()
	if c < 0 || c >= len(l.rows) {
		return Row{}, false
	}
	return l.rows[c], true
}

// SetStatus shows a one-line confirmation under the table
func (l *List) SetStatus(s string) {
	l.status = s
	l.err = ""
}

// SetError shows an inline error under the table
func (l *List) SetError(err error) {
	if err == nil {
		l.err = ""
		return
	}
	l.err = err.Error()
	l.status = ""
}

// Actions returns the configured actions, for the footer
func (l *List) Actions() []Action { return l.actions }

// Init implements tea.Model
func (l *List) Init() tea.Cmd { return nil }

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "b":
			return l, func() tea.Msg { return BackMsg{} }
		}
		for _, a := range l.actions {
			if key.String() != a.Key {
				continue
			}
			if a.Global {
				return l, func() tea.Msg { return ActionMsg{Key: a.Key} }
			}
			row, ok := l.Selected()
			if !ok {
				return l, nil
			}
			return l, func() tea.Msg { return ActionMsg{Key: a.Key, ID: row.ID} }
		}
	}

	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

// View implements tea.Model
func (l *List) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(l.title))
	sb.WriteString("\n")
	if len(l.rows) == 0 {
		sb.WriteString(styles.Subtitle.Render("Nothing here yet."))
	} else {
		sb.WriteString(l.table.View())
	}
	sb.WriteString("\n")
	switch {
	case l.err != "":
		sb.WriteString(styles.InlineError.Render("Error: " + l.err))
	case l.status != "":
		sb.WriteString(styles.InlineSuccess.Render(l.status))
	}
	return sb.String()
}
