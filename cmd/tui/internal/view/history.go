package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

var periods = []tracker.Period{tracker.PeriodAll, tracker.PeriodToday, tracker.PeriodWeek, tracker.PeriodMonth}

type historyMsg struct {
	history tracker.History
	err     error
}

type removedMsg struct {
	id  string
	err error
}

type HistoryModel struct {
	CommonModel
	svc *tracker.Service

	table   table.Model
	history tracker.History

	// Filter cycling; categoryIdx 0 means every category.
	periodIdx   int
	categoryIdx int

	// pendingDelete holds the id awaiting a second "x".
	pendingDelete string
	status        string
	err           error
}

func NewHistoryModel(svc *tracker.Service) HistoryModel {
	columns := []table.Column{
		{Title: "Date", Width: 17},
		{Title: "Category", Width: 15},
		{Title: "Note", Width: 30},
		{Title: "Amount", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return HistoryModel{svc: svc, table: t}
}

func (m HistoryModel) Title() string { return "History" }
func (m HistoryModel) ShortHelp() string {
	return "Esc: back | p: period | c: category | x: delete"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) filter() tracker.Filter {
	f := tracker.Filter{Period: periods[m.periodIdx]}

	if m.categoryIdx > 0 {
		f.Category = transaction.Categories()[m.categoryIdx-1]
	}

	return f
}

func (m HistoryModel) loadCmd() tea.Cmd {
	f := m.filter()

	return func() tea.Msg {
		h, err := m.svc.Transactions(f)
		return historyMsg{history: h, err: err}
	}
}

func (m HistoryModel) removeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.svc.RemoveTransaction(ctx, id)

		return removedMsg{id: id, err: err}
	}
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		m.err = msg.err
		if msg.err == nil {
			m.history = msg.history
			m.refreshTable()
		}

		return m, nil

	case removedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error deleting: %v", msg.err))
		} else {
			m.status = "Deleted."
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if key != "x" {
			m.pendingDelete = ""
		}

		switch key {
		case "esc":
			return m, Back
		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(periods)
			return m, m.loadCmd()
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(transaction.Categories()) + 1)
			return m, m.loadCmd()
		case "x":
			return m.handleDelete()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HistoryModel) handleDelete() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.history.Transactions) {
		return m, nil
	}

	tx := m.history.Transactions[idx]

	if m.pendingDelete != tx.ID {
		m.pendingDelete = tx.ID
		m.status = fmt.Sprintf("Press x again to delete %q", tx.Note)

		return m, nil
	}

	m.pendingDelete = ""

	return m, m.removeCmd(tx.ID)
}

func (m *HistoryModel) refreshTable() {
	code := m.svc.Profile().Currency

	rows := make([]table.Row, len(m.history.Transactions))
	for i, tx := range m.history.Transactions {
		rows[i] = table.Row{
			tx.OccurredAt.Format("2006-01-02 15:04"),
			string(tx.Category),
			tx.Note,
			FormatAmount(tx.Signed(), code),
		}
	}

	m.table.SetRows(rows)
}

func (m HistoryModel) View() string {
	var b strings.Builder

	f := m.filter()

	category := "all categories"
	if f.Category != "" {
		category = string(f.Category)
	}

	b.WriteString(titleStyle.Render(m.Title()))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  %s · %s", f.Period, category)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		return b.String()
	}

	if len(m.history.Transactions) == 0 {
		b.WriteString("No transactions.\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	code := m.svc.Profile().Currency
	b.WriteString(fmt.Sprintf("\nIncome %s  Expense %s  Balance %s\n",
		FormatAmount(m.history.Totals.Income, code),
		FormatAmount(m.history.Totals.Expense, code),
		FormatSigned(m.history.Balance, code)))

	if m.status != "" {
		b.WriteString("\n" + m.status)
	}

	return b.String()
}
