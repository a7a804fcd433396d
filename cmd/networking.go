// ABOUTME: Networking commands: industry events and opportunities
// ABOUTME: opportunities status moves an opportunity through its workflow

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/validate"
)

var (
	eventsUpcoming bool
	eventsPast     bool
	eventsType     int
	eventsSearch   string

	oppActive bool
	oppClosed bool
	oppType   string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Industry events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List industry events",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runEvents)
	},
}

var opportunitiesCmd = &cobra.Command{
	Use:     "opportunities",
	Aliases: []string{"opps"},
	Short:   "Track opportunities",
}

var opportunitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List opportunities",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runOpportunitiesList)
	},
}

var opportunitiesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show an opportunity and its milestones",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runOpportunityShow(ctx, e, args[0], w)
		})
	},
}

var opportunitiesStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Set an opportunity's status",
	Long: `Set an opportunity's status. Statuses in workflow order:
  active, interviewing, offer_received, accepted, declined, closed`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runOpportunityStatus(ctx, e, args[0], args[1], w)
		})
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd, opportunitiesCmd)
	eventsCmd.AddCommand(eventsListCmd)
	opportunitiesCmd.AddCommand(opportunitiesListCmd, opportunitiesShowCmd, opportunitiesStatusCmd)

	eventsListCmd.Flags().BoolVar(&eventsUpcoming, "upcoming", false, "Only future events")
	eventsListCmd.Flags().BoolVar(&eventsPast, "past", false, "Only past events")
	eventsListCmd.Flags().IntVar(&eventsType, "type", 0, "Only events of this type ID")
	eventsListCmd.Flags().StringVar(&eventsSearch, "search", "", "Search name, location and description")
	eventsListCmd.MarkFlagsMutuallyExclusive("upcoming", "past")

	opportunitiesListCmd.Flags().BoolVar(&oppActive, "active", false, "Only open opportunities")
	opportunitiesListCmd.Flags().BoolVar(&oppClosed, "closed", false, "Only finished opportunities")
	opportunitiesListCmd.Flags().StringVar(&oppType, "type", "", "Only this opportunity type")
	opportunitiesListCmd.MarkFlagsMutuallyExclusive("active", "closed")
}

func runEvents(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	var (
		events []client.Event
		err    error
	)
	switch {
	case eventsUpcoming:
		events, err = e.client.Events.Upcoming(ctx)
	case eventsPast:
		events, err = e.client.Events.Past(ctx)
	default:
		events, err = e.client.Events.List(ctx, client.EventFilter{EventType: eventsType, Search: eventsSearch})
	}
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, events, func() {
		rows := make([][]string, 0, len(events))
		for _, ev := range events {
			rows = append(rows, []string{
				strconv.Itoa(ev.ID),
				ev.Name,
				ev.Date + " " + orDash(ev.Time),
				ev.Location,
				ev.EventTypeName,
				ev.Cost.String(),
			})
		}
		printTable(w, []string{"ID", "Name", "When", "Location", "Type", "Cost"}, rows)
	})
	return exitOK
}

func runOpportunitiesList(ctx context.Context, e *env, w io.Writer) int {
	if oppType != "" {
		if err := validate.OpportunityType(oppType); err != nil {
			return e.fail(w, err)
		}
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	var (
		opps []client.Opportunity
		err  error
	)
	switch {
	case oppActive:
		opps, err = e.client.Opportunities.Active(ctx)
	case oppClosed:
		opps, err = e.client.Opportunities.Closed(ctx)
	default:
		opps, err = e.client.Opportunities.List(ctx, client.OpportunityFilter{Type: oppType})
	}
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, opps, func() {
		rows := make([][]string, 0, len(opps))
		for _, o := range opps {
			rows = append(rows, []string{
				strconv.Itoa(o.ID),
				o.Title,
				o.Organization,
				o.OpportunityType,
				o.Status,
				orDash(o.Deadline),
			})
		}
		printTable(w, []string{"ID", "Title", "Organization", "Type", "Status", "Deadline"}, rows)
	})
	return exitOK
}

func runOpportunityShow(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	o, err := e.client.Opportunities.Get(ctx, id)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, o, func() {
		fmt.Fprintf(w, "%s at %s (#%d)\n", o.Title, o.Organization, o.ID)
		fmt.Fprintf(w, "  Status:   %s\n", o.Status)
		fmt.Fprintf(w, "  Type:     %s\n", o.OpportunityType)
		loc := o.Location
		if o.Remote {
			loc += " (remote)"
		}
		fmt.Fprintf(w, "  Location: %s\n", loc)
		fmt.Fprintf(w, "  Deadline: %s\n", orDash(o.Deadline))
		if o.ApplicationURL != "" {
			fmt.Fprintf(w, "  Apply:    %s\n", o.ApplicationURL)
		}
		for _, m := range o.Milestones {
			mark := "[ ]"
			if m.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(w, "  %s %s %s\n", mark, m.Title, orDash(m.Date))
		}
	})
	return exitOK
}

func runOpportunityStatus(ctx context.Context, e *env, arg, status string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := validate.OpportunityStatus(status); err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	o, err := e.client.Opportunities.UpdateStatus(ctx, id, status)
	if err != nil {
		return e.fail(w, err)
	}
	if o.Status != status {
		return e.fail(w, errors.New("backend kept status "+o.Status))
	}
	emit(w, o, func() {
		fmt.Fprintf(w, "%s is now %s\n", o.Title, o.Status)
	})
	return exitOK
}
