// ABOUTME: Budget summary view with per-category share bars
// ABOUTME: and a sparkline of monthly spend

package budget

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/styles"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/widgets"
)

const (
	labelWidth = 16
	minBar     = 10
)

// Budget renders a client.Summary
type Budget struct {
	summary *client.Summary
	period  string
	width   int
	err     error
}

// New creates the budget view. period describes the filter, e.g. "2026".
func New(summary *client.Summary, period string, width int) *Budget {
	return &Budget{summary: summary, period: period, width: width}
}

// SetWidth updates the render width
func (b *Budget) SetWidth(width int) { b.width = width }

// SetSummary replaces the data after a refresh
func (b *Budget) SetSummary(summary *client.Summary) {
	b.summary = summary
	b.err = nil
}

// SetError shows a failed refresh. The last summary stays visible.
func (b *Budget) SetError(err error) { b.err = err }

// View renders the summary
func (b *Budget) View() string {
	if b.summary == nil {
		if b.err != nil {
			return styles.InlineError.Render("Error: " + b.err.Error())
		}
		return styles.Subtitle.Render("No budget data")
	}

	var sb strings.Builder
	title := "Budget"
	if b.period != "" {
		title += " · " + b.period
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")
	sb.WriteString("Total spend ")
	sb.WriteString(styles.ValueStyle.Render("$" + b.summary.Total.String()))
	sb.WriteString("\n\n")

	sb.WriteString(styles.KeyStyle.Render("By category"))
	sb.WriteString("\n")
	sb.WriteString(b.categories())
	sb.WriteString("\n")

	sb.WriteString(styles.KeyStyle.Render("By month"))
	sb.WriteString("\n")
	sb.WriteString(b.months())

	if b.err != nil {
		sb.WriteString("\n")
		sb.WriteString(styles.InlineError.Render("Error: " + b.err.Error()))
	}
	return sb.String()
}

func (b *Budget) barWidth() int {
	// label, space, brackets, space, percent, space, amount
	return max(minBar, b.width-labelWidth-1-2-1-4-1-12)
}

func (b *Budget) categories() string {
	if len(b.summary.ByCategory) == 0 {
		return styles.Subtitle.Render("  no expenses recorded") + "\n"
	}

	cats := slices.Clone(b.summary.ByCategory)
	slices.SortStableFunc(cats, func(x, y client.CategoryTotal) int {
		return cmp.Compare(y.Total.Float(), x.Total.Float())
	})

	total := b.summary.Total.Float()
	var sb strings.Builder
	for _, c := range cats {
		name := c.Name
		if name == "" {
			name = "Uncategorized"
		}
		color := widgets.CategoryColor(c.Color)
		share := widgets.Share(c.Total.Float(), total)
		sb.WriteString(fmt.Sprintf("  %-*s %s %s\n",
			labelWidth, truncate(name, labelWidth),
			widgets.ShareBarWithLabel(share, b.barWidth(), color),
			lipgloss.NewStyle().Foreground(styles.Muted).Render("$"+c.Total.String())))
	}
	return sb.String()
}

func (b *Budget) months() string {
	if len(b.summary.ByMonth) == 0 {
		return styles.Subtitle.Render("  no monthly data") + "\n"
	}

	values := make([]float64, len(b.summary.ByMonth))
	peak := 0
	for i, m := range b.summary.ByMonth {
		values[i] = m.Total.Float()
		if values[i] > values[peak] {
			peak = i
		}
	}

	width := min(len(values)*2, max(minBar, b.width-4))
	first := b.summary.ByMonth[0]
	last := b.summary.ByMonth[len(b.summary.ByMonth)-1]

	var sb strings.Builder
	sb.WriteString("  " + widgets.Sparkline(values, width, styles.Primary) + "\n")
	sb.WriteString(styles.Subtitle.UnsetMarginBottom().Render(fmt.Sprintf("  %s → %s", first.Month, last.Month)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Peak: %s ($%s)   Latest: $%s\n",
		b.summary.ByMonth[peak].Month, b.summary.ByMonth[peak].Total, last.Total))
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
