// ABOUTME: Venue discovery wizard: query, review suggestions, import
// ABOUTME: The app performs the backend calls and feeds results back in

package discovery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/widgets"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/validate"
)

// SearchMsg asks the app to run a discovery search
type SearchMsg struct {
	State  string
	City   string
	Radius int
}

// ImportMsg asks the app to import the chosen suggestions
type ImportMsg struct {
	SearchID int
	Indices  []int
}

// DoneMsg is sent when the user leaves the wizard
type DoneMsg struct{}

type step int

const (
	stepQuery step = iota + 1
	stepResults
	stepImported
)

var stepNames = []string{"Search", "Choose venues", "Import"}

// Discovery is the wizard model
type Discovery struct {
	states []client.State
	form   *huh.Form
	step   step
	busy   string
	err    string
	width  int

	state  string
	city   string
	radius string

	search   *client.Search
	results  []client.VenueResult
	selected []int
	imported *client.ImportResult
}

// New creates the wizard. states fills the state picker.
func New(states []client.State, width int) *Discovery {
	d := &Discovery{states: states, width: width, step: stepQuery, radius: "10"}
	if len(states) > 0 {
		d.state = states[0].Abbreviation
	}
	d.form = d.queryForm()
	return d
}

func (d *Discovery) queryForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(d.states))
	for _, s := range d.states {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", s.Name, s.Abbreviation), s.Abbreviation))
	}

	var stateField huh.Field
	if len(opts) > 0 {
		stateField = huh.NewSelect[string]().
			Title("State").
			Options(opts...).
			Height(8).
			Value(&d.state)
	} else {
		stateField = huh.NewInput().
			Title("State").
			Description("Two-letter abbreviation").
			CharLimit(2).
			Value(&d.state).
			Validate(func(s string) error { return validate.Name("state", s) })
	}

	return huh.NewForm(
		huh.NewGroup(
			stateField,
			huh.NewInput().
				Title("City").
				Placeholder("e.g., Oakland").
				Value(&d.city).
				Validate(func(s string) error { return validate.Name("city", s) }),
			huh.NewInput().
				Title("Radius (miles)").
				Description(fmt.Sprintf("%d to %d", validate.MinRadius, validate.MaxRadius)).
				CharLimit(3).
				Value(&d.radius).
				Validate(validateRadius),
		).Title("Step 1: Search").
			Description("Find venues near a city"),
	).WithTheme(styles.FormTheme())
}

func validateRadius(s string) error {
	r, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("please enter a whole number")
	}
	return validate.Radius(r)
}

func (d *Discovery) resultsForm() *huh.Form {
	opts := make([]huh.Option[int], len(d.results))
	for i, v := range d.results {
		label := v.Name
		if v.City != "" {
			label += " · " + v.City
		}
		if v.Capacity != nil {
			label += fmt.Sprintf(" · cap %d", *v.Capacity)
		}
		opts[i] = huh.NewOption(label, i)
	}
	d.selected = nil
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Venues to import").
				Description("Space to toggle, Enter to import").
				Options(opts...).
				Height(12).
				Value(&d.selected).
				Validate(func(v []int) error {
					if len(v) == 0 {
						return errors.New("select at least one venue")
					}
					return nil
				}),
		).Title("Step 2: Choose venues").
			Description(fmt.Sprintf("%d suggestions near %s, %s", len(d.results), d.search.City, d.search.State)),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (d *Discovery) Init() tea.Cmd {
	return d.form.Init()
}

// Update implements tea.Model
func (d *Discovery) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "esc" {
			return d, func() tea.Msg { return DoneMsg{} }
		}
		if d.busy != "" {
			return d, nil
		}
		if d.step == stepImported {
			if key.String() == "enter" {
				return d, func() tea.Msg { return DoneMsg{} }
			}
			if key.String() == "n" {
				return d.restart()
			}
			return d, nil
		}
		d.err = ""
	}
	if d.busy != "" || d.form == nil {
		return d, nil
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}
	if d.form.State == huh.StateCompleted {
		return d.advance()
	}
	return d, cmd
}

func (d *Discovery) advance() (tea.Model, tea.Cmd) {
	switch d.step {
	case stepQuery:
		radius, _ := strconv.Atoi(strings.TrimSpace(d.radius))
		search := SearchMsg{State: strings.ToUpper(strings.TrimSpace(d.state)), City: strings.TrimSpace(d.city), Radius: radius}
		d.busy = fmt.Sprintf("Searching for venues near %s, %s...", search.City, search.State)
		return d, func() tea.Msg { return search }
	case stepResults:
		imp := ImportMsg{SearchID: d.search.ID, Indices: append([]int(nil), d.selected...)}
		d.busy = fmt.Sprintf("Importing %d venues...", len(imp.Indices))
		return d, func() tea.Msg { return imp }
	}
	return d, nil
}

func (d *Discovery) restart() (tea.Model, tea.Cmd) {
	d.step = stepQuery
	d.search, d.results, d.imported = nil, nil, nil
	d.form = d.queryForm()
	return d, d.form.Init()
}

// SetResults moves to the review step. A search with no suggestions
// returns to the query form with a message.
func (d *Discovery) SetResults(search *client.Search) tea.Cmd {
	d.busy = ""
	d.search = search
	d.results = search.Venues()
	if len(d.results) == 0 {
		d.err = "No venues found, try a larger radius or another city."
		d.form = d.queryForm()
		return d.form.Init()
	}
	d.step = stepResults
	d.form = d.resultsForm()
	return d.form.Init()
}

// SetImported shows the import outcome
func (d *Discovery) SetImported(res *client.ImportResult) {
	d.busy = ""
	d.imported = res
	d.step = stepImported
	d.form = nil
}

// SetError reports a failed backend call and lets the user retry the
// current step.
func (d *Discovery) SetError(err error) tea.Cmd {
	d.busy = ""
	d.err = err.Error()
	if d.step == stepResults {
		d.form = d.resultsForm()
	} else {
		d.form = d.queryForm()
	}
	return d.form.Init()
}

// View implements tea.Model
func (d *Discovery) View() string {
	var sb strings.Builder
	sb.WriteString(widgets.Steps(stepNames, int(d.step), d.width-2))
	sb.WriteString("\n\n")

	switch {
	case d.busy != "":
		sb.WriteString(styles.Subtitle.Render(d.busy))
	case d.step == stepImported:
		n := 0
		if d.imported != nil {
			n = d.imported.Imported
		}
		sb.WriteString(styles.StatusOK.Render(fmt.Sprintf("Imported %d venues.", n)))
		sb.WriteString("\n\n")
		sb.WriteString(styles.Help.Render("Enter to finish, n for a new search"))
	default:
		sb.WriteString(d.form.View())
	}

	if d.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.InlineError.Render(d.err))
	}
	return sb.String()
}
