// ABOUTME: Entry point for the venue console
// ABOUTME: Terminal client for the venue tracker backend

package main

import (
	"fmt"
	"os"

	"github.com/TennysonKnoxLove/Venue-Tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
