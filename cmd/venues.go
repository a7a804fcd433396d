// ABOUTME: Venue commands: states, venues, contact history and connections
// ABOUTME: Each subcommand prints a table, or JSON with --json

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/validate"
)

var (
	venueStateFilter int
	venueAdd         client.VenueInput
	venueCapacity    int
	contactVenue     int
	connSearch       string
	connStatus       string
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "States venues are grouped by",
}

var statesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List states",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runStates)
	},
}

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "Manage venues",
}

var venuesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List venues, optionally for one state",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runVenuesList)
	},
}

var venuesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one venue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runVenueShow(ctx, e, args[0], w)
		})
	},
}

var venuesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a venue",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runVenueAdd(ctx, e, cmd.Flags().Changed("capacity"), w)
		})
	},
}

var venuesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a venue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runVenueDelete(ctx, e, args[0], w)
		})
	},
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Venue contact history",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contact history, optionally for one venue",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runContactsList)
	},
}

var contactsFollowupsCmd = &cobra.Command{
	Use:   "followups",
	Short: "List follow-ups that are still open",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runFollowups)
	},
}

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Professional connections",
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List professional connections",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runConnections)
	},
}

func init() {
	rootCmd.AddCommand(statesCmd, venuesCmd, contactsCmd, connectionsCmd)
	venuesCmd.AddCommand(venuesListCmd, venuesShowCmd, venuesAddCmd, venuesDeleteCmd)
	contactsCmd.AddCommand(contactsListCmd, contactsFollowupsCmd)
	statesCmd.AddCommand(statesListCmd)
	connectionsCmd.AddCommand(connectionsListCmd)

	venuesListCmd.Flags().IntVar(&venueStateFilter, "state", 0, "Only venues in this state ID")

	f := venuesAddCmd.Flags()
	f.StringVar(&venueAdd.Name, "name", "", "Venue name")
	f.IntVar(&venueAdd.State, "state", 0, "State ID")
	f.StringVar(&venueAdd.City, "city", "", "City")
	f.StringVar(&venueAdd.Address, "address", "", "Street address")
	f.StringVar(&venueAdd.Zipcode, "zipcode", "", "ZIP code")
	f.StringVar(&venueAdd.Phone, "phone", "", "Phone number")
	f.StringVar(&venueAdd.Email, "email", "", "Email address")
	f.StringVar(&venueAdd.Website, "website", "", "Website")
	f.StringVar(&venueAdd.Notes, "notes", "", "Notes")
	f.IntVar(&venueCapacity, "capacity", 0, "Capacity")
	venuesAddCmd.MarkFlagRequired("name")
	venuesAddCmd.MarkFlagRequired("state")

	contactsListCmd.Flags().IntVar(&contactVenue, "venue", 0, "Only contacts for this venue ID")

	connectionsListCmd.Flags().StringVar(&connSearch, "search", "", "Search name, email or skills")
	connectionsListCmd.Flags().StringVar(&connStatus, "status", "", "Relationship status")
}

func runStates(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	states, err := e.client.States.List(ctx)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, states, func() {
		rows := make([][]string, 0, len(states))
		for _, s := range states {
			rows = append(rows, []string{strconv.Itoa(s.ID), s.Name, s.Abbreviation})
		}
		printTable(w, []string{"ID", "Name", "Abbr"}, rows)
	})
	return exitOK
}

func runVenuesList(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	venues, err := e.client.Venues.List(ctx, venueStateFilter)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, venues, func() {
		rows := make([][]string, 0, len(venues))
		for _, v := range venues {
			rows = append(rows, []string{strconv.Itoa(v.ID), v.Name, v.City, v.StateAbbreviation, capacity(v.Capacity)})
		}
		printTable(w, []string{"ID", "Name", "City", "State", "Capacity"}, rows)
	})
	return exitOK
}

func runVenueShow(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	v, err := e.client.Venues.Get(ctx, id)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, v, func() {
		fmt.Fprintf(w, "%s (#%d)\n", v.Name, v.ID)
		fmt.Fprintf(w, "  Address:  %s, %s %s %s\n", v.Address, v.City, v.StateAbbreviation, v.Zipcode)
		fmt.Fprintf(w, "  Phone:    %s\n", v.Phone)
		fmt.Fprintf(w, "  Email:    %s\n", v.Email)
		fmt.Fprintf(w, "  Website:  %s\n", v.Website)
		fmt.Fprintf(w, "  Capacity: %s\n", capacity(v.Capacity))
		fmt.Fprintf(w, "  Hours:    %s - %s\n", orDash(v.OpenTime), orDash(v.CloseTime))
		if v.Notes != "" {
			fmt.Fprintf(w, "  Notes:    %s\n", v.Notes)
		}
	})
	return exitOK
}

func runVenueAdd(ctx context.Context, e *env, hasCapacity bool, w io.Writer) int {
	if err := validate.Name("name", venueAdd.Name); err != nil {
		return e.fail(w, err)
	}
	in := venueAdd
	if hasCapacity {
		c := venueCapacity
		in.Capacity = &c
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	v, err := e.client.Venues.Create(ctx, &in)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, v, func() {
		fmt.Fprintf(w, "Created venue %s (#%d)\n", v.Name, v.ID)
	})
	return exitOK
}

func runVenueDelete(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	if err := e.client.Venues.Delete(ctx, id); err != nil {
		return e.fail(w, err)
	}
	fmt.Fprintf(w, "Deleted venue #%d\n", id)
	return exitOK
}

func runContactsList(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	contacts, err := e.client.Contacts.List(ctx, contactVenue)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, contacts, func() { printContacts(w, contacts) })
	return exitOK
}

func runFollowups(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	contacts, err := e.client.Contacts.PendingFollowups(ctx)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, contacts, func() { printContacts(w, contacts) })
	return exitOK
}

func printContacts(w io.Writer, contacts []client.ContactHistory) {
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, []string{
			strconv.Itoa(c.ID),
			c.VenueName,
			c.ContactDate.Format("2006-01-02"),
			c.ContactType,
			c.ContactPerson,
			orDash(c.FollowUpDate),
			yesNo(c.FollowUpCompleted),
		})
	}
	printTable(w, []string{"ID", "Venue", "Date", "Type", "Person", "Follow-up", "Done"}, rows)
}

func runConnections(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	conns, err := e.client.Connections.List(ctx, client.ConnectionFilter{Search: connSearch, RelationshipStatus: connStatus})
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, conns, func() {
		rows := make([][]string, 0, len(conns))
		for _, c := range conns {
			rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, c.Email, c.RelationshipStatus, orDash(c.LastContactDate)})
		}
		printTable(w, []string{"ID", "Name", "Email", "Status", "Last contact"}, rows)
	})
	return exitOK
}

func capacity(c *int) string {
	if c == nil {
		return "-"
	}
	return strconv.Itoa(*c)
}
