package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/export"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/importer"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/profile"
)

func init() {
	rootCmd.AddCommand(importCmd, exportCmd, restoreCmd, seedCmd, resetCmd, profileCmd)

	importCmd.Flags().StringP("format", "f", string(importer.FormatLedgerCSV), "File format")

	exportCmd.Flags().StringP("format", "f", string(export.FormatCSV), "csv or json")
	exportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	exportCmd.Flags().Bool("summary", false, "Print a plain text summary instead")

	seedCmd.Flags().Uint64("seed", 0, "Random seed; 0 picks one from the clock")

	resetCmd.Flags().Bool("yes", false, "Confirm deleting every transaction")

	profileCmd.Flags().String("name", "", "Display name")
	profileCmd.Flags().String("pet-name", "", "Pet name")
	profileCmd.Flags().String("currency", "", "ISO 4217 currency code")
	profileCmd.Flags().String("budget", "", "Monthly budget in major units")
	profileCmd.Flags().String("tz", "", "IANA time zone")
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import transactions from a CSV file",
	Long: `Import transactions from a CSV file with the columns
occurred_at,kind,category,amount,note. Either every row is imported or none.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		p := buddy.Tracker.Profile()

		params, err := buddy.Importer.Import(importer.Format(format), p.Currency, p.Location(), f)
		if err != nil {
			return err
		}

		txs, snap, err := buddy.Tracker.ImportTransactions(cmd.Context(), params)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d transaction(s)\n", len(txs))
		printUnlocks(out, snap)

		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export transactions as CSV or the whole state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("out")
		summary, _ := cmd.Flags().GetBool("summary")

		format, err := export.ParseFormat(name)
		if err != nil {
			return err
		}

		st := buddy.Tracker.State()

		var w io.Writer = cmd.OutOrStdout()

		if path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()

			w = f
		}

		switch {
		case summary:
			_, err = io.WriteString(w, export.Summary(st.Transactions, st.Profile.Currency))
		case format == export.FormatJSON:
			err = export.WriteJSON(w, st)
		default:
			err = export.WriteCSV(w, st.Transactions, st.Profile.Currency)
		}

		return err
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Replace everything with a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		st, err := export.ReadJSON(f)
		if err != nil {
			return err
		}

		snap, err := buddy.Tracker.Restore(cmd.Context(), st)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d transaction(s)\n", snap.TransactionCount)

		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add a month of sample transactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		seed, _ := cmd.Flags().GetUint64("seed")
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}

		before := buddy.Tracker.Snapshot().TransactionCount

		if err := buddy.Seed(cmd.Context(), seed); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added %d sample transaction(s)\n", buddy.Tracker.Snapshot().TransactionCount-before)

		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and start over",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("reset deletes every transaction and badge; pass --yes to confirm")
		}

		if _, err := buddy.Tracker.Reset(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")

		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, changed, err := profileFromFlags(cmd, buddy.Tracker.Profile())
		if err != nil {
			return err
		}

		if changed {
			if _, err := buddy.Tracker.UpdateProfile(cmd.Context(), p); err != nil {
				return err
			}

			p = buddy.Tracker.Profile()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name      %s\n", p.DisplayName)
		fmt.Fprintf(out, "Pet       %s\n", p.PetName)
		fmt.Fprintf(out, "Currency  %s\n", p.Currency)
		fmt.Fprintf(out, "Budget    %s\n", currency.Format(p.MonthlyBudget, p.Currency))
		fmt.Fprintf(out, "Time zone %s\n", p.Location())

		return nil
	},
}

func profileFromFlags(cmd *cobra.Command, p profile.Profile) (profile.Profile, bool, error) {
	flags := cmd.Flags()
	changed := false

	for flag, field := range map[string]*string{
		"name":     &p.DisplayName,
		"pet-name": &p.PetName,
		"currency": &p.Currency,
		"tz":       &p.TimeZone,
	} {
		if flags.Changed(flag) {
			*field, _ = flags.GetString(flag)
			changed = true
		}
	}

	if flags.Changed("currency") && !currency.Valid(p.Currency) {
		return p, false, fmt.Errorf("unknown currency %q", p.Currency)
	}

	if flags.Changed("budget") {
		s, _ := flags.GetString("budget")

		budget, err := currency.ParseMajor(s, p.Currency)
		if err != nil {
			return p, false, err
		}

		p.MonthlyBudget = budget
		changed = true
	}

	return p, changed, nil
}
