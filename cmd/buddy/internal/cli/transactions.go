package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

func init() {
	rootCmd.AddCommand(addCmd, rmCmd, lsCmd)

	addCmd.Flags().StringP("category", "c", "", "Category; suggested from the note when empty")
	addCmd.Flags().StringP("note", "n", "", "What it was for")
	addCmd.Flags().String("at", "", "When it happened (YYYY-MM-DD [HH:MM]); defaults to now")

	lsCmd.Flags().StringP("period", "p", string(tracker.PeriodAll), "all, today, 7days or 30days")
	lsCmd.Flags().StringP("category", "c", "", "Only this category")
}

var addCmd = &cobra.Command{
	Use:   "add income|expense AMOUNT",
	Short: "Record a transaction",
	Long:  `Record a transaction. AMOUNT is in major units of the profile currency, e.g. 12.50.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	note, _ := cmd.Flags().GetString("note")
	at, _ := cmd.Flags().GetString("at")

	code := buddy.Tracker.Profile().Currency

	amount, err := currency.ParseMajor(args[1], code)
	if err != nil {
		return err
	}

	params := transaction.CreateParams{
		Kind:     transaction.Kind(args[0]),
		Amount:   amount,
		Category: transaction.Category(category),
		Note:     note,
	}

	if at != "" {
		if params.OccurredAt, err = parseTime(at); err != nil {
			return err
		}
	}

	if params.Category == "" {
		params.Category = suggestCategory(cmd.Context(), buddy.Categorize, note)
	}

	tx, snap, err := buddy.Tracker.AddTransaction(cmd.Context(), params)
	if err != nil {
		return err
	}

	if category != "" {
		if err := buddy.Categorize.Learn(cmd.Context(), tx.Note, tx.Category); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added %s %s (%s) %s\n", tx.Kind, currency.Format(tx.Amount, code), tx.Category, tx.ID)
	printUnlocks(out, snap)

	return nil
}

type suggester interface {
	Suggest(ctx context.Context, note string) (categorize.Suggestion, bool, error)
}

// suggestCategory returns the suggested category for note, or "" so the
// ledger falls back to other. A failed lookup does not block the add.
func suggestCategory(ctx context.Context, s suggester, note string) transaction.Category {
	suggestion, ok, err := s.Suggest(ctx, note)
	if err != nil {
		slog.Error("failed to suggest category", "error", err)
		return ""
	}

	if !ok {
		return ""
	}

	return suggestion.Category
}

var rmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := buddy.Tracker.RemoveTransaction(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s, balance is now %s\n",
			args[0], currency.Format(snap.Balance, buddy.Tracker.Profile().Currency))

		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List transactions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runLs,
}

func runLs(cmd *cobra.Command, _ []string) error {
	period, _ := cmd.Flags().GetString("period")
	category, _ := cmd.Flags().GetString("category")

	history, err := buddy.Tracker.Transactions(tracker.Filter{
		Period:   tracker.Period(period),
		Category: transaction.Category(category),
	})
	if err != nil {
		return err
	}

	code := buddy.Tracker.Profile().Currency
	out := cmd.OutOrStdout()

	if len(history.Transactions) == 0 {
		fmt.Fprintln(out, "No transactions.")
		return nil
	}

	rows := make([][]string, 0, len(history.Transactions))
	for _, tx := range history.Transactions {
		rows = append(rows, []string{
			tx.OccurredAt.Format("2006-01-02 15:04"),
			string(tx.Category),
			tx.Note,
			currency.Signed(tx.Signed(), code),
			tx.ID,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("DATE", "CATEGORY", "NOTE", "AMOUNT", "ID").
		Rows(rows...)

	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "Income %s  Expense %s  Balance %s\n",
		currency.Format(history.Totals.Income, code),
		currency.Format(history.Totals.Expense, code),
		currency.Signed(history.Balance, code))

	return nil
}
