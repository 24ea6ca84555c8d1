package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/achievement"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/snapshot"
)

func init() {
	rootCmd.AddCommand(statusCmd, statsCmd, achievementsCmd)

	statsCmd.Flags().IntP("range", "r", 30, "Days to cover: 7, 30 or 90")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the pet and the balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		snap, err := buddy.Tracker.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		p := buddy.Tracker.Profile()
		out := cmd.OutOrStdout()
		prog := snap.Progression

		fmt.Fprintf(out, "%s the %s (level %d) feels %s\n", p.PetName, prog.Stage, prog.Level, snap.Mood)
		fmt.Fprintf(out, "Health   %d/100\n", prog.Health)
		fmt.Fprintf(out, "Streak   %d day(s)\n", prog.StreakDays)
		fmt.Fprintf(out, "Balance  %s\n", currency.Signed(snap.Balance, p.Currency))
		fmt.Fprintf(out, "Month    %s saved of %s budget\n",
			currency.Signed(snap.MonthSavings, p.Currency), currency.Format(p.MonthlyBudget, p.Currency))

		unlocked := 0
		for _, a := range snap.Achievements {
			if a.Unlocked {
				unlocked++
			}
		}

		fmt.Fprintf(out, "Badges   %d/%d\n", unlocked, len(snap.Achievements))
		printUnlocks(out, snap)

		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Spending breakdown for the last days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		days, _ := cmd.Flags().GetInt("range")

		st, err := buddy.Tracker.Stats(days)
		if err != nil {
			return err
		}

		code := buddy.Tracker.Profile().Currency
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Last %d days: income %s, expense %s\n",
			st.Days, currency.Format(st.Totals.Income, code), currency.Format(st.Totals.Expense, code))

		for _, c := range st.ExpenseByCategory {
			fmt.Fprintf(out, "  %-15s %s\n", c.Category, currency.Format(c.Amount, code))
		}

		fmt.Fprintf(out, "Saved this month  %s\n", currency.Signed(st.MonthSaved, code))
		fmt.Fprintf(out, "Biggest expense   %s\n", currency.Format(st.BiggestExpense, code))
		fmt.Fprintf(out, "Saving rate       %.1f%%\n", st.SavingRate)

		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List badges and progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		for _, a := range buddy.Tracker.Snapshot().Achievements {
			fmt.Fprintln(out, achievementLine(a))
		}

		return nil
	},
}

func achievementLine(a achievement.Status) string {
	if a.Unlocked && a.UnlockedAt != nil {
		return fmt.Sprintf("%s %-16s unlocked %s", a.Icon, a.Title, a.UnlockedAt.Format("2006-01-02"))
	}

	if a.Unlocked {
		return fmt.Sprintf("%s %-16s unlocked", a.Icon, a.Title)
	}

	filled := int(a.Progress / 10)

	return fmt.Sprintf("%s %-16s [%s%s] %3.0f%%", a.Icon, a.Title,
		strings.Repeat("#", filled), strings.Repeat(".", 10-filled), a.Progress)
}

func printUnlocks(out io.Writer, snap snapshot.Snapshot) {
	for _, id := range snap.UnlockedThisUpdate {
		if def, ok := achievement.Lookup(id); ok {
			fmt.Fprintf(out, "Achievement unlocked: %s %s\n", def.Icon, def.Title)
		}
	}
}
