// ABOUTME: Tests for the budget summary view
// ABOUTME: Checks ordering, uncategorized spend and empty summaries

package budget

import (
	"strings"
	"testing"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
)

func sampleSummary() *client.Summary {
	return &client.Summary{
		Total: "1000",
		ByCategory: []client.CategoryTotal{
			{Name: "Gas", Color: "#F59E0B", Total: "150"},
			{Name: "Gear", Color: "#3B82F6", Total: "600"},
			{Name: "", Total: "250"},
		},
		ByMonth: []client.MonthTotal{
			{Month: "July 2026", Total: "300"},
			{Month: "August 2026", Total: "500"},
			{Month: "September 2026", Total: "200"},
		},
	}
}

func TestCategoriesSortedByTotal(t *testing.T) {
	view := New(sampleSummary(), "2026", 100).View()

	gear := strings.Index(view, "Gear")
	uncategorized := strings.Index(view, "Uncategorized")
	gas := strings.Index(view, "Gas")
	if gear < 0 || uncategorized < 0 || gas < 0 {
		t.Fatalf("expected all categories in view:\n%s", view)
	}
	if !(gear < uncategorized && uncategorized < gas) {
		t.Errorf("expected categories ordered by spend, got positions %d %d %d", gear, uncategorized, gas)
	}
}

func TestShowsTotalsAndPeak(t *testing.T) {
	view := New(sampleSummary(), "", 100).View()
	for _, want := range []string{"$1000.00", "60%", "Peak: August 2026 ($500.00)", "July 2026 → September 2026"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestEmptySummary(t *testing.T) {
	view := New(&client.Summary{Total: "0"}, "", 80).View()
	if !strings.Contains(view, "no expenses recorded") || !strings.Contains(view, "no monthly data") {
		t.Errorf("expected empty markers, got:\n%s", view)
	}
	if !strings.Contains(New(nil, "", 80).View(), "No budget data") {
		t.Error("expected placeholder for nil summary")
	}
}

func TestBarWidthHasFloor(t *testing.T) {
	if w := New(sampleSummary(), "", 20).barWidth(); w != minBar {
		t.Errorf("expected minimum bar width %d, got %d", minBar, w)
	}
}
