// Package cli implements the buddy command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/app"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/config"
)

// buddy is opened before every command and closed after it.
var buddy *app.App

var rootCmd = &cobra.Command{
	Use:           "buddy",
	Short:         "Track spending and keep your pet happy",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		app.SetupLogger(cfg, os.Stderr)

		buddy, err = app.New(cmd.Context(), cfg, nil)

		return err
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if buddy == nil {
			return nil
		}

		err := buddy.Close()
		buddy = nil

		return err
	},
}

// Run executes the command line in args, writing output to out.
func Run(ctx context.Context, args []string, out io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)

		// PersistentPostRunE does not run when the command fails.
		if buddy != nil {
			_ = buddy.Close()
			buddy = nil
		}
	}

	return err
}

// parseTime reads a date or date-time in the profile's time zone.
func parseTime(s string) (time.Time, error) {
	loc := buddy.Tracker.Profile().Location()

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q, use YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}
