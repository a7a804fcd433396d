// ABOUTME: Icon set with Nerd Font detection and Unicode fallback
// ABOUTME: One icon per console section plus status and action glyphs

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

func detectNerdFonts() bool {
	if env := os.Getenv("VENUE_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, t := range []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"} {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}
	return os.Getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon has a Nerd Font glyph and a plain Unicode fallback
type Icon struct {
	NerdFont string
	Fallback string
}

func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Sections
	Home        = Icon{"󰋜", "⌂"}
	Venue       = Icon{"󰠿", "♫"}
	Contact     = Icon{"󰏲", "☎"}
	Connection  = Icon{"󰀎", "☺"}
	Event       = Icon{"󰃭", "◷"}
	Opportunity = Icon{"󰃖", "◆"}
	Reminder    = Icon{"󰀠", "⏰"}
	Budget      = Icon{"󰄔", "$"}
	Audio       = Icon{"󰎆", "♪"}
	Discover    = Icon{"󰍉", "⌕"}
	Chat        = Icon{"󰍡", "✉"}
	Bell        = Icon{"󰂚", "!"}
	User        = Icon{"󰀄", "@"}

	// Status
	CheckOK  = Icon{"", "✓"}
	Warning  = Icon{"", "⚠"}
	Critical = Icon{"", "✗"}
	Info     = Icon{"", "ℹ"}
	Pending  = Icon{"󰔟", "…"}

	TrendUp   = Icon{"󰄬", "↗"}
	TrendDown = Icon{"󰄰", "↘"}

	// Actions
	Refresh = Icon{"󰑓", "↻"}
	Back    = Icon{"󰁍", "←"}
	Quit    = Icon{"󰗼", "×"}
	Upload  = Icon{"󰕒", "↑"}

	App = Icon{"󰝚", "♬"}
)
