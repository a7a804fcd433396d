// ABOUTME: AI discovery commands: search for venues, browse past searches, import results
// ABOUTME: Result numbers printed by search and show are the indices import expects

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
	discoverState  string
	discoverCity   string
	discoverRadius int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find new venues with AI discovery",
}

var discoverVenuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "Search for venues near a city",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runDiscoverVenues)
	},
}

var discoverHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past searches",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runDiscoverHistory)
	},
}

var discoverShowCmd = &cobra.Command{
	Use:   "show SEARCH_ID",
	Short: "Show the results of a past search",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runDiscoverShow(ctx, e, args[0], w)
		})
	},
}

var discoverImportCmd = &cobra.Command{
	Use:   "import SEARCH_ID INDEX...",
	Short: "Import chosen results as venues",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runDiscoverImport(ctx, e, args, w)
		})
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.AddCommand(discoverVenuesCmd, discoverHistoryCmd, discoverShowCmd, discoverImportCmd)

	discoverVenuesCmd.Flags().StringVar(&discoverState, "state", "", "State name")
	discoverVenuesCmd.Flags().StringVar(&discoverCity, "city", "", "City")
	discoverVenuesCmd.Flags().IntVar(&discoverRadius, "radius", 25, "Search radius in miles")
	discoverVenuesCmd.MarkFlagRequired("state")
	discoverVenuesCmd.MarkFlagRequired("city")
}

func runDiscoverVenues(ctx context.Context, e *env, w io.Writer) int {
	if err := validate.Name("state", discoverState); err != nil {
		return e.fail(w, err)
	}
	if err := validate.Name("city", discoverCity); err != nil {
		return e.fail(w, err)
	}
	if err := validate.Radius(discoverRadius); err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	if !IsJSONOutput() {
		fmt.Fprintf(w, "Searching for venues near %s, %s...\n", discoverCity, discoverState)
	}
	search, err := e.client.Discovery.DiscoverVenues(ctx, discoverState, discoverCity, discoverRadius)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, search, func() { printSearch(w, search) })
	return exitOK
}

func printSearch(w io.Writer, s *client.Search) {
	fmt.Fprintf(w, "Search #%d: %s, %s within %d miles\n", s.ID, s.City, s.State, s.Radius)
	venues := s.Venues()
	rows := make([][]string, 0, len(venues))
	for i, v := range venues {
		rows = append(rows, []string{strconv.Itoa(i), v.Name, v.City, capacity(v.Capacity), v.Genres})
	}
	printTable(w, []string{"#", "Name", "City", "Capacity", "Genres"}, rows)
	if len(rows) > 0 {
		fmt.Fprintf(w, "Import with: venue discover import %d INDEX...\n", s.ID)
	}
}

func runDiscoverHistory(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	searches, err := e.client.Discovery.Searches(ctx)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, searches, func() {
		rows := make([][]string, 0, len(searches))
		for _, s := range searches {
			rows = append(rows, []string{
				strconv.Itoa(s.ID),
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				s.City + ", " + s.State,
				strconv.Itoa(s.Radius),
				strconv.Itoa(len(s.Venues())),
			})
		}
		printTable(w, []string{"ID", "When", "Where", "Radius", "Results"}, rows)
	})
	return exitOK
}

func runDiscoverShow(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	search, err := e.client.Discovery.Search(ctx, id)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, search, func() { printSearch(w, search) })
	return exitOK
}

func runDiscoverImport(ctx context.Context, e *env, args []string, w io.Writer) int {
	id, err := parseID(args[0])
	if err != nil {
		return e.fail(w, err)
	}
	indices := make([]int, 0, len(args)-1)
	for _, a := range args[1:] {
		i, err := strconv.Atoi(a)
		if err != nil || i < 0 {
			return e.fail(w, fmt.Errorf("invalid index %q", a))
		}
		indices = append(indices, i)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	res, err := e.client.Discovery.ImportVenues(ctx, id, indices)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, res, func() {
		if res.Message != "" {
			fmt.Fprintln(w, res.Message)
			return
		}
		fmt.Fprintf(w, "Imported %d venue(s)\n", res.Imported)
	})
	return exitOK
}
