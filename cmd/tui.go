// ABOUTME: tui command: the full-screen console
// ABOUTME: Logs go to debug.log in the config dir while the console owns the terminal

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/logger"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/store"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the full-screen console",
	Run: func(cmd *cobra.Command, args []string) {
		runTUICommand()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUICommand() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Dir: cfg.ConfigDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
	defer logger.Close()

	e := newEnv(cfg)
	err = tui.Run(ctx, tui.Deps{
		Client:  e.client,
		Session: e.sess,
		Config:  cfg,
		Recent:  store.NewRecentFiles(cfg.ConfigDir),
	})
	if err != nil {
		logger.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}
