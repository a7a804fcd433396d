// ABOUTME: Audio edit wizard: pick an edit, set its parameters, apply
// ABOUTME: Shows the file's waveform and validates ranges before submitting

package audioedit

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/icons"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/widgets"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/validate"
)

// ApplyMsg asks the app to apply an edit
type ApplyMsg struct {
	FileID   int
	EditType string
	Params   map[string]any
}

// DoneMsg is sent when the wizard is left
type DoneMsg struct{}

var stepNames = []string{"Edit type", "Parameters", "Confirm"}

var editLabels = map[string]string{
	client.EditTrim:   "Trim: cut to a start and end point",
	client.EditVolume: "Volume: raise or lower in dB",
	client.EditReverb: "Reverb: add room ambience",
	client.EditSpeed:  "Speed: change playback rate",
}

var paramHints = map[string]string{
	"start_ms":         "Start of the kept region, in milliseconds",
	"end_ms":           "End of the kept region, in milliseconds",
	"volume_change_db": "-12 to 12",
	"room_scale":       "0 to 1",
	"damping":          "0 to 1",
	"speed_factor":     "0.5 to 2.0",
}

// Wizard is the edit model
type Wizard struct {
	file   *client.AudioFile
	form   *huh.Form
	step   int
	width  int
	busy   bool
	err    string
	result *client.AudioEdit

	editType string
	values   map[string]*string
	params   map[string]any
	confirm  bool
}

// New creates a wizard for file
func New(file *client.AudioFile, width int) *Wizard {
	w := &Wizard{file: file, width: width, step: 1, editType: client.EditTrim}
	w.form = w.typeForm()
	return w
}

func (w *Wizard) typeForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(validate.EditTypes))
	for _, t := range validate.EditTypes {
		opts = append(opts, huh.NewOption(editLabels[t], t))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Edit").
				Options(opts...).
				Value(&w.editType),
		).Title("Step 1: Edit type").
			Description("Choose what to do with " + w.file.Title),
	).WithTheme(styles.FormTheme())
}

// defaults returns starting values, using the file length for the trim end.
func (w *Wizard) defaults() map[string]any {
	d := validate.DefaultEditParams(w.editType)
	if w.editType == client.EditTrim && w.file.Duration != nil && *w.file.Duration > 0 {
		d["end_ms"] = float64(int(*w.file.Duration * 1000))
	}
	return d
}

func (w *Wizard) paramsForm() *huh.Form {
	defaults := w.defaults()
	w.values = map[string]*string{}

	var fields []huh.Field
	for _, name := range validate.EditParamNames(w.editType) {
		v := strconv.FormatFloat(defaults[name].(float64), 'f', -1, 64)
		w.values[name] = &v
		fields = append(fields, huh.NewInput().
			Title(name).
			Description(paramHints[name]).
			Value(w.values[name]).
			Validate(isNumber))
	}
	return huh.NewForm(
		huh.NewGroup(fields...).
			Title("Step 2: Parameters").
			Description(editLabels[w.editType]),
	).WithTheme(styles.FormTheme())
}

func isNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("please enter a number")
	}
	return nil
}

func (w *Wizard) confirmForm() *huh.Form {
	w.confirm = true
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Apply " + w.editType + " to " + w.file.Title + "?").
				Description(describe(w.params)).
				Affirmative("Apply").
				Negative("Back").
				Value(&w.confirm),
		).Title("Step 3: Confirm"),
	).WithTheme(styles.FormTheme())
}

func describe(params map[string]any) string {
	parts := make([]string, 0, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, "  ")
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "esc" {
			return w, func() tea.Msg { return DoneMsg{} }
		}
		if w.busy {
			return w, nil
		}
		if w.result != nil {
			if key.String() == "enter" {
				return w, func() tea.Msg { return DoneMsg{} }
			}
			return w, nil
		}
		w.err = ""
	}
	if w.busy || w.result != nil {
		return w, nil
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}
	if w.form.State == huh.StateCompleted {
		return w.advance()
	}
	return w, cmd
}

func (w *Wizard) advance() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.step = 2
		w.form = w.paramsForm()
		return w, w.form.Init()

	case 2:
		params := make(map[string]any, len(w.values))
		for name, v := range w.values {
			f, _ := strconv.ParseFloat(strings.TrimSpace(*v), 64)
			params[name] = f
		}
		if err := validate.EditParams(w.editType, params); err != nil {
			w.err = err.Error()
			w.form = w.paramsForm()
			for name, v := range params {
				if p, ok := w.values[name]; ok {
					*p = strconv.FormatFloat(v.(float64), 'f', -1, 64)
				}
			}
			return w, w.form.Init()
		}
		w.params = params
		w.step = 3
		w.form = w.confirmForm()
		return w, w.form.Init()

	case 3:
		if !w.confirm {
			w.step = 2
			w.form = w.paramsForm()
			return w, w.form.Init()
		}
		w.busy = true
		apply := ApplyMsg{FileID: w.file.ID, EditType: w.editType, Params: maps.Clone(w.params)}
		return w, func() tea.Msg { return apply }
	}
	return w, nil
}

// SetApplied shows the backend's record of the applied edit
func (w *Wizard) SetApplied(edit *client.AudioEdit) {
	w.busy = false
	w.result = edit
	w.step = len(stepNames) + 1
}

// SetError reports a failed apply and returns to the parameters step
func (w *Wizard) SetError(err error) tea.Cmd {
	w.busy = false
	w.err = err.Error()
	w.step = 2
	w.form = w.paramsForm()
	return w.form.Init()
}

// Waveform decodes the file's waveform samples. Unknown shapes yield nil.
func Waveform(file *client.AudioFile) []float64 {
	if file == nil || len(file.WaveformData) == 0 {
		return nil
	}
	var samples []float64
	if err := json.Unmarshal(file.WaveformData, &samples); err != nil {
		return nil
	}
	return samples
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder
	sb.WriteString(widgets.Steps(stepNames, w.step, w.width-2))
	sb.WriteString("\n\n")

	header := fmt.Sprintf("%s %s", icons.Audio, w.file.Title)
	if w.file.Duration != nil {
		header += fmt.Sprintf("  (%.1fs)", *w.file.Duration)
	}
	sb.WriteString(styles.ValueStyle.Render(header))
	sb.WriteString("\n")
	if wave := Waveform(w.file); len(wave) > 0 {
		sb.WriteString(widgets.Sparkline(wave, min(len(wave), max(20, w.width-4)), styles.Accent))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	switch {
	case w.busy:
		sb.WriteString(styles.Subtitle.Render("Applying " + w.editType + "..."))
	case w.result != nil:
		sb.WriteString(styles.StatusOK.Render(fmt.Sprintf("%s applied (edit #%d).", w.result.EditType, w.result.ID)))
		sb.WriteString("\n\n")
		sb.WriteString(styles.Help.Render("Enter to return to your files"))
	default:
		sb.WriteString(w.form.View())
	}

	if w.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.InlineError.Render(w.err))
	}
	return sb.String()
}
