// ABOUTME: Artist profile and email outreach commands
// ABOUTME: outreach generate drafts a venue email from the profile on the backend

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/validate"
)

var (
	outreachVenue     string
	outreachEventDate string
	outreachNotes     string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the artist profile",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runProfile)
	},
}

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Venue outreach emails",
}

var outreachGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft an email to a venue",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runOutreachGenerate)
	},
}

var outreachHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List drafted emails",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runOutreachHistory)
	},
}

var outreachShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a drafted email",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runOutreachShow(ctx, e, args[0], w)
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd, outreachCmd)
	outreachCmd.AddCommand(outreachGenerateCmd, outreachHistoryCmd, outreachShowCmd)

	outreachGenerateCmd.Flags().StringVar(&outreachVenue, "venue", "", "Venue name")
	outreachGenerateCmd.Flags().StringVar(&outreachEventDate, "event-date", "", "Proposed date (YYYY-MM-DD)")
	outreachGenerateCmd.Flags().StringVar(&outreachNotes, "notes", "", "Anything the email should mention")
	outreachGenerateCmd.MarkFlagRequired("venue")
}

func runProfile(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	p, err := e.client.Profile.Get(ctx)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, p, func() {
		fmt.Fprintln(w, p.ArtistName)
		if len(p.Genres) > 0 {
			fmt.Fprintf(w, "  Genres: %s\n", strings.Join(p.Genres, ", "))
		}
		fmt.Fprintf(w, "  Phone:  %s\n", orDash(p.PhoneNumber))
		for _, l := range p.SocialLinks {
			fmt.Fprintf(w, "  %s: %s\n", l.Label, l.URL)
		}
		if p.Bio != "" {
			fmt.Fprintf(w, "\n%s\n", p.Bio)
		}
	})
	return exitOK
}

func runOutreachGenerate(ctx context.Context, e *env, w io.Writer) int {
	if err := validate.Name("venue", outreachVenue); err != nil {
		return e.fail(w, err)
	}
	if err := validate.Date("event-date", outreachEventDate); err != nil {
		return e.fail(w, err)
	}
	in := client.GenerateInput{VenueName: strings.TrimSpace(outreachVenue), Notes: outreachNotes}
	if outreachEventDate != "" {
		d := outreachEventDate
		in.EventDate = &d
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	g, err := e.client.Outreach.Generate(ctx, &in)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, g, func() {
		fmt.Fprintln(w, g.Email)
		fmt.Fprintf(w, "\nSaved as outreach #%d\n", g.OutreachID)
	})
	return exitOK
}

func runOutreachHistory(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	history, err := e.client.Outreach.History(ctx)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, history, func() {
		rows := make([][]string, 0, len(history))
		for _, o := range history {
			rows = append(rows, []string{
				strconv.Itoa(o.ID),
				o.VenueName,
				o.SentDate.Local().Format("2006-01-02"),
				orDash(o.EventDate),
			})
		}
		printTable(w, []string{"ID", "Venue", "Drafted", "Event date"}, rows)
	})
	return exitOK
}

func runOutreachShow(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	o, err := e.client.Outreach.Get(ctx, id)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, o, func() {
		fmt.Fprintf(w, "To: %s\n\n%s\n", o.VenueName, o.EmailContent)
	})
	return exitOK
}
