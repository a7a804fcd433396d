// ABOUTME: Reminder and notification commands, including the check command
// ABOUTME: check exits 1 when overdue reminders or unread notifications pass a threshold

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/validate"
)

var (
	reminderOverdue  bool
	reminderUpcoming bool
	reminderToday    bool
	reminderAll      bool
	reminderSearch   string

	reminderTitle       string
	reminderDescription string
	reminderDue         string
	reminderPriority    string
	reminderCategory    int

	maxOverdue int
	maxUnread  int

	notificationsUnread bool
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Manage reminders",
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open reminders",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runRemindersList)
	},
}

var remindersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reminder",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runReminderAdd)
	},
}

var remindersCompleteCmd = &cobra.Command{
	Use:   "complete ID",
	Short: "Mark a reminder complete",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runReminderComplete(ctx, e, args[0], w)
		})
	},
}

var remindersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runReminderDelete(ctx, e, args[0], w)
		})
	},
}

var remindersCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check for overdue reminders and unread notifications",
	Long: `Check overdue reminders and unread notifications and exit non-zero if either
is above its threshold. Useful from cron or a shell prompt.

Exit codes:
  0 - All checks passed
  1 - One or more thresholds exceeded
  2 - Error (connectivity, not logged in, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		execute(runReminderCheck)
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Reminder notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runNotificationsList)
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read ID",
	Short: "Mark a notification read",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runNotificationRead(ctx, e, args[0], w)
		})
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification read",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runNotificationsReadAll)
	},
}

func init() {
	rootCmd.AddCommand(remindersCmd, notificationsCmd)
	remindersCmd.AddCommand(remindersListCmd, remindersAddCmd, remindersCompleteCmd, remindersDeleteCmd, remindersCheckCmd)
	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd, notificationsReadAllCmd)

	lf := remindersListCmd.Flags()
	lf.BoolVar(&reminderOverdue, "overdue", false, "Only overdue reminders")
	lf.BoolVar(&reminderUpcoming, "upcoming", false, "Only reminders due in the next week")
	lf.BoolVar(&reminderToday, "today", false, "Only reminders due today")
	lf.BoolVar(&reminderAll, "all", false, "Include completed reminders")
	lf.StringVar(&reminderSearch, "search", "", "Search title and description")
	remindersListCmd.MarkFlagsMutuallyExclusive("overdue", "upcoming", "today")

	af := remindersAddCmd.Flags()
	af.StringVar(&reminderTitle, "title", "", "Reminder title")
	af.StringVar(&reminderDescription, "description", "", "Details")
	af.StringVar(&reminderDue, "due", "", "Due date, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	af.StringVar(&reminderPriority, "priority", "", "low, medium, high or urgent")
	af.IntVar(&reminderCategory, "category", 0, "Category ID")
	remindersAddCmd.MarkFlagRequired("title")
	remindersAddCmd.MarkFlagRequired("due")

	remindersCheckCmd.Flags().IntVar(&maxOverdue, "max-overdue", 0, "Overdue reminders allowed")
	remindersCheckCmd.Flags().IntVar(&maxUnread, "max-unread", -1, "Unread notifications allowed (-1 disables)")

	notificationsListCmd.Flags().BoolVar(&notificationsUnread, "unread", false, "Only unread notifications")
}

func runRemindersList(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	var (
		reminders []client.Reminder
		err       error
	)
	switch {
	case reminderOverdue:
		reminders, err = e.client.Reminders.Overdue(ctx)
	case reminderUpcoming:
		reminders, err = e.client.Reminders.Upcoming(ctx)
	case reminderToday:
		reminders, err = e.client.Reminders.Today(ctx)
	default:
		f := client.ReminderFilter{Search: reminderSearch, Ordering: "due_date"}
		if !reminderAll {
			open := false
			f.Completed = &open
		}
		reminders, err = e.client.Reminders.List(ctx, f)
	}
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, reminders, func() { printReminders(w, reminders, time.Now()) })
	return exitOK
}

func printReminders(w io.Writer, reminders []client.Reminder, now time.Time) {
	rows := make([][]string, 0, len(reminders))
	for _, r := range reminders {
		due := r.DueDate.Local().Format("2006-01-02 15:04")
		if r.Overdue(now) {
			due += " (overdue)"
		}
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			r.Title,
			due,
			r.Priority,
			r.CategoryName,
			yesNo(r.Completed),
		})
	}
	printTable(w, []string{"ID", "Title", "Due", "Priority", "Category", "Done"}, rows)
}

// parseDue accepts a date or a local date and time
func parseDue(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &validate.FieldError{Field: "due", Message: "must look like 2024-05-31 or 2024-05-31T09:00"}
}

func runReminderAdd(ctx context.Context, e *env, w io.Writer) int {
	if err := validate.Name("title", reminderTitle); err != nil {
		return e.fail(w, err)
	}
	if err := validate.Priority(reminderPriority); err != nil {
		return e.fail(w, err)
	}
	due, err := parseDue(reminderDue)
	if err != nil {
		return e.fail(w, err)
	}
	in := client.ReminderInput{
		Title:       reminderTitle,
		Description: reminderDescription,
		DueDate:     due,
		Priority:    reminderPriority,
	}
	if reminderCategory != 0 {
		c := reminderCategory
		in.Category = &c
	}

	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	r, err := e.client.Reminders.Create(ctx, &in)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, r, func() {
		fmt.Fprintf(w, "Created reminder %q (#%d) due %s\n", r.Title, r.ID, r.DueDate.Local().Format("2006-01-02 15:04"))
	})
	return exitOK
}

func runReminderComplete(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	r, err := e.client.Reminders.Complete(ctx, id)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, r, func() {
		fmt.Fprintf(w, "Completed %q\n", r.Title)
	})
	return exitOK
}

func runReminderDelete(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	if err := e.client.Reminders.Delete(ctx, id); err != nil {
		return e.fail(w, err)
	}
	fmt.Fprintf(w, "Deleted reminder #%d\n", id)
	return exitOK
}

// checkResult is the outcome of one threshold check
type checkResult struct {
	name      string
	value     int
	threshold int
	passed    bool
}

func runReminderCheck(ctx context.Context, e *env, w io.Writer) int {
	if maxOverdue < 0 {
		return e.fail(w, errors.New("--max-overdue must not be negative"))
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}

	overdue, err := e.client.Reminders.Overdue(ctx)
	if err != nil {
		return e.fail(w, err)
	}
	results := []checkResult{{
		name:      "Overdue reminders",
		value:     len(overdue),
		threshold: maxOverdue,
		passed:    len(overdue) <= maxOverdue,
	}}

	if maxUnread >= 0 {
		unread, err := e.client.Notifications.Unread(ctx)
		if err != nil {
			return e.fail(w, err)
		}
		results = append(results, checkResult{
			name:      "Unread notifications",
			value:     len(unread),
			threshold: maxUnread,
			passed:    len(unread) <= maxUnread,
		})
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	if _, failed := countResults(results); failed > 0 {
		return exitFailed
	}
	return exitOK
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

func formatCheckHuman(results []checkResult) string {
	var b strings.Builder
	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %d (threshold: %d)\n", symbol, r.name, r.value, r.threshold)
	}
	passed, failed := countResults(results)
	if failed > 0 {
		fmt.Fprintf(&b, "\nFAILED: %d check(s) exceeded threshold", failed)
	} else {
		fmt.Fprintf(&b, "\nPASSED: All %d check(s) within thresholds", passed)
	}
	return b.String()
}

func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]any, len(results))
	for i, r := range results {
		checks[i] = map[string]any{
			"name":      r.name,
			"value":     r.value,
			"threshold": r.threshold,
			"passed":    r.passed,
		}
	}
	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	data, _ := json.MarshalIndent(map[string]any{"status": status, "checks": checks}, "", "  ")
	return string(data)
}

func runNotificationsList(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	var read *bool
	if notificationsUnread {
		f := false
		read = &f
	}
	notes, err := e.client.Notifications.List(ctx, read)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, notes, func() {
		rows := make([][]string, 0, len(notes))
		for _, n := range notes {
			rows = append(rows, []string{
				strconv.Itoa(n.ID),
				n.ReminderTitle,
				n.SentAt.Local().Format("2006-01-02 15:04"),
				yesNo(n.Read),
			})
		}
		printTable(w, []string{"ID", "Reminder", "Sent", "Read"}, rows)
	})
	return exitOK
}

func runNotificationRead(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	if err := e.client.Notifications.MarkRead(ctx, id); err != nil {
		return e.fail(w, err)
	}
	fmt.Fprintf(w, "Marked notification #%d read\n", id)
	return exitOK
}

func runNotificationsReadAll(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	if err := e.client.Notifications.MarkAllRead(ctx); err != nil {
		return e.fail(w, err)
	}
	fmt.Fprintln(w, "Marked all notifications read")
	return exitOK
}
