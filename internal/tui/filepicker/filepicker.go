// ABOUTME: File picker for choosing an audio file to upload
// ABOUTME: Offers recent uploads, a typed path, and files from the working directory

package filepicker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateList state = iota
	stateInput
	stateBrowse
)

// FileSelectedMsg is sent when a readable audio file is chosen
type FileSelectedMsg struct {
	Path  string
	Title string
}

// CancelledMsg is sent when the user backs out
type CancelledMsg struct{}

// FilePicker is the upload source chooser
type FilePicker struct {
	recent    []string
	browse    []AudioFile
	browseDir string
	cursor    int
	state     state
	textInput textinput.Model
	err       string
	width     int
}

var (
	selectedStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	normalStyle   = lipgloss.NewStyle().Foreground(styles.Text)
	dividerStyle  = lipgloss.NewStyle().Foreground(styles.Surface)
)

// New creates a picker. browseDir is scanned for audio files; recent comes
// from the recent-uploads store.
func New(recent []string, browseDir string) *FilePicker {
	ti := textinput.New()
	ti.Placeholder = "~/Music/demo.mp3"
	ti.CharLimit = 512
	ti.Width = 60

	files, _ := Scan(browseDir)
	return &FilePicker{
		recent:    recent,
		browse:    files,
		browseDir: browseDir,
		textInput: ti,
	}
}

// Init implements tea.Model
func (fp *FilePicker) Init() tea.Cmd { return nil }

// Update implements tea.Model
func (fp *FilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fp.width = msg.Width
		return fp, nil

	case tea.KeyMsg:
		fp.err = ""
		switch fp.state {
		case stateList:
			return fp.updateList(msg)
		case stateInput:
			return fp.updateInput(msg)
		case stateBrowse:
			return fp.updateBrowse(msg)
		}
	}
	return fp, nil
}

func (fp *FilePicker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		fp.cursor = max(0, fp.cursor-1)
	case "down", "j":
		fp.cursor = min(fp.listItemCount()-1, fp.cursor+1)
	case "enter":
		return fp.selectListItem()
	case "esc", "b":
		return fp, func() tea.Msg { return CancelledMsg{} }
	}
	return fp, nil
}

func (fp *FilePicker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.state = stateList
		fp.textInput.SetValue("")
		fp.textInput.Blur()
		return fp, nil
	case "enter":
		path := strings.TrimSpace(fp.textInput.Value())
		if path == "" {
			fp.err = "Please enter a file path"
			return fp, nil
		}
		return fp.choose(path)
	}

	var cmd tea.Cmd
	fp.textInput, cmd = fp.textInput.Update(msg)
	return fp, cmd
}

func (fp *FilePicker) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	back := len(fp.browse)
	switch msg.String() {
	case "up", "k":
		fp.cursor = max(0, fp.cursor-1)
	case "down", "j":
		fp.cursor = min(back, fp.cursor+1)
	case "enter":
		if fp.cursor == back {
			fp.state, fp.cursor = stateList, 0
			return fp, nil
		}
		return fp.choose(fp.browse[fp.cursor].Path)
	case "esc", "b":
		fp.state, fp.cursor = stateList, 0
	}
	return fp, nil
}

func (fp *FilePicker) listItemCount() int {
	n := len(fp.recent) + 1
	if len(fp.browse) > 0 {
		n++
	}
	return n
}

func (fp *FilePicker) selectListItem() (tea.Model, tea.Cmd) {
	n := len(fp.recent)
	switch {
	case fp.cursor < n:
		return fp.choose(fp.recent[fp.cursor])
	case fp.cursor == n:
		fp.state = stateInput
		fp.textInput.Focus()
		return fp, textinput.Blink
	case len(fp.browse) > 0 && fp.cursor == n+1:
		fp.state, fp.cursor = stateBrowse, 0
	}
	return fp, nil
}

// choose checks that path is a readable audio file before emitting it.
func (fp *FilePicker) choose(path string) (tea.Model, tea.Cmd) {
	path = expandPath(path)

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		fp.err = "File not found: " + path
		return fp, nil
	case os.IsPermission(err):
		fp.err = "Cannot read file: permission denied"
		return fp, nil
	case err != nil:
		fp.err = "Error reading file: " + err.Error()
		return fp, nil
	case info.IsDir():
		fp.err = path + " is a directory"
		return fp, nil
	case !IsAudio(path):
		fp.err = "Unsupported file type, use " + strings.Join(AudioExtensions, " ")
		return fp, nil
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fp, func() tea.Msg {
		return FileSelectedMsg{Path: path, Title: title}
	}
}

// expandPath expands a leading ~ to the home directory
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}

// SetError shows msg under the current list
func (fp *FilePicker) SetError(msg string) {
	fp.err = msg
}

// View implements tea.Model
func (fp *FilePicker) View() string {
	var b strings.Builder
	switch fp.state {
	case stateInput:
		b.WriteString(styles.Title.Render("Enter audio file path"))
		b.WriteString("\n")
		b.WriteString(fp.textInput.View())
		b.WriteString("\n")
	case stateBrowse:
		b.WriteString(styles.Title.Render("Audio files in " + fp.browseDir))
		b.WriteString("\n")
		for i, f := range fp.browse {
			b.WriteString(fp.item(i, f.Name))
		}
		b.WriteString(fp.item(len(fp.browse), "[back]"))
	default:
		fp.viewList(&b)
	}

	if fp.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.InlineError.Render("Error: " + fp.err))
	}
	return b.String()
}

func (fp *FilePicker) viewList(b *strings.Builder) {
	b.WriteString(styles.Title.Render("Upload audio"))
	b.WriteString("\n")

	if len(fp.recent) > 0 {
		b.WriteString(styles.Subtitle.Render("Recent uploads:"))
		b.WriteString("\n")
		for i, path := range fp.recent {
			b.WriteString(fp.item(i, fp.shorten(path)))
		}
		width := 40
		if fp.width > 4 {
			width = min(40, fp.width-4)
		}
		b.WriteString(dividerStyle.Render(strings.Repeat("─", width)))
		b.WriteString("\n")
	}

	idx := len(fp.recent)
	b.WriteString(fp.item(idx, "Enter path..."))
	if len(fp.browse) > 0 {
		b.WriteString(fp.item(idx+1, "Browse current directory..."))
	}
}

func (fp *FilePicker) item(i int, label string) string {
	if i == fp.cursor {
		return "> " + selectedStyle.Render(label) + "\n"
	}
	return "  " + normalStyle.Render(label) + "\n"
}

func (fp *FilePicker) shorten(path string) string {
	limit := fp.width - 10
	if fp.width <= 20 || len(path) <= limit {
		return path
	}
	return "..." + path[len(path)-(limit-3):]
}
