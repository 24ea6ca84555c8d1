package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
)

const barWidth = 24

type StatsModel struct {
	CommonModel
	svc *tracker.Service

	rangeIdx int
	stats    tracker.Stats
	err      error
}

func NewStatsModel(svc *tracker.Service) StatsModel {
	m := StatsModel{svc: svc, rangeIdx: 1}
	m.load()

	return m
}

func (m StatsModel) Title() string     { return "Statistics" }
func (m StatsModel) ShortHelp() string { return "Esc: back | r: change range" }

func (m StatsModel) Init() tea.Cmd {
	return nil
}

func (m *StatsModel) load() {
	m.stats, m.err = m.svc.Stats(tracker.StatsRanges[m.rangeIdx])
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.rangeIdx = (m.rangeIdx + 1) % len(tracker.StatsRanges)
			m.load()
		}
	}

	return m, nil
}

func (m StatsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · last %d days", m.Title(), tracker.StatsRanges[m.rangeIdx])))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		return b.String()
	}

	code := m.svc.Profile().Currency
	st := m.stats

	b.WriteString(fmt.Sprintf("Income   %s\n", FormatAmount(st.Totals.Income, code)))
	b.WriteString(fmt.Sprintf("Expense  %s\n\n", FormatAmount(st.Totals.Expense, code)))

	for _, c := range st.ExpenseByCategory {
		filled := 0
		if st.Totals.Expense > 0 {
			filled = int(c.Amount * barWidth / st.Totals.Expense)
		}

		b.WriteString(fmt.Sprintf("%-15s %s%s %s\n", c.Category,
			badStyle.Render(strings.Repeat("█", filled)), strings.Repeat(" ", barWidth-filled),
			FormatAmount(c.Amount, code)))
	}

	if len(st.Daily) > 0 {
		last := st.Daily[len(st.Daily)-1]
		b.WriteString(fmt.Sprintf("\nRunning balance on %s  %s\n", FormatDate(last.Day), FormatSigned(last.Balance, code)))
	}

	b.WriteString(fmt.Sprintf("\nSaved this month  %s\n", FormatSigned(st.MonthSaved, code)))
	b.WriteString(fmt.Sprintf("Biggest expense   %s\n", FormatAmount(st.BiggestExpense, code)))
	b.WriteString(fmt.Sprintf("Saving rate       %.1f%%\n", st.SavingRate))

	return b.String()
}
