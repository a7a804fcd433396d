// ABOUTME: Root command for the venue console CLI
// ABOUTME: Handles global flags, configuration, and the shared command plumbing

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/config"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/logger"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/session"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/store"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1 // a check did not pass
	exitError  = 2 // connectivity, auth or invalid input
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command. Without a subcommand it opens the console.
var rootCmd = &cobra.Command{
	Use:   "venue",
	Short: "Terminal console for the venue tracker",
	Long: `venue manages venues, contacts, reminders, networking, budget, audio and chat
against a venue tracker backend. Run without a subcommand for the full-screen console.

Environment Variables:
  VENUE_API_URL          Backend API URL (default: http://localhost:8000/api)
  VENUE_CONFIG_DIR       Where credentials and config.yaml live
  VENUE_POLL_INTERVAL    Chat refresh period (default: 1500ms)
  VENUE_NOTIFY_INTERVAL  Notification badge refresh period (default: 60s)
  VENUE_HTTP_TIMEOUT     Per-request timeout (default: none)
  VENUE_ALL_PROXY        ssh+socks5:// tunnel for backend traffic
  LOG_LEVEL, LOG_FORMAT  Logging (debug|info|warn|error, text|json)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		runTUICommand()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides VENUE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// env is what every command works with
type env struct {
	cfg    *config.Config
	store  *store.Store
	client *client.Client
	sess   *session.Session
}

// loadConfig reads the configuration and applies the --api-url flag
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	return cfg, nil
}

// newEnv wires the store, client and session for cfg
func newEnv(cfg *config.Config) *env {
	st := store.New(cfg.ConfigDir)
	opts := []client.Option{client.WithTimeout(cfg.HTTPTimeout)}
	if cfg.AllProxy != "" {
		opts = append(opts, client.WithProxy(cfg.AllProxy))
	}
	c := client.New(cfg.APIURL, opts...)
	sess := session.New(st, c.Auth)
	c.SetCredentials(sess)
	return &env{cfg: cfg, store: st, client: c, sess: sess}
}

// authed restores the saved session and fails when nobody is logged in
func (e *env) authed(ctx context.Context) error {
	if err := e.sess.Restore(ctx); err != nil {
		return err
	}
	return e.sess.Require()
}

// fail reports err and returns the error exit code. A rejected credential
// ends the stored session.
func (e *env) fail(w io.Writer, err error) int {
	if errors.Is(err, client.ErrUnauthorized) {
		e.sess.Invalidate()
		err = session.ErrExpired
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitError
}

// execute runs body with a signal-aware context and exits with its code
func execute(body func(ctx context.Context, e *env, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	exitCode := body(ctx, newEnv(cfg), os.Stdout)
	cancel()
	logger.Close()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// printTable writes a bordered table, or a note when there are no rows
func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "Nothing found.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

// emit prints v as JSON with --json, otherwise runs human
func emit(w io.Writer, v any, human func()) {
	if IsJSONOutput() {
		printJSON(w, v)
		return
	}
	human()
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
