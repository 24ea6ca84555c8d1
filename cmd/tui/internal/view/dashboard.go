package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/achievement"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/progression"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/snapshot"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
)

var petArt = map[progression.Stage]string{
	progression.StageEgg: `
   .--.
  /    \
 |  %s  |
  \    /
   '--'`,
	progression.StageBaby: `
  /\_/\
 ( %s )
  > ^ <`,
	progression.StageAdult: `
  /\_____/\
 (   %s    )
 (  > ^ <  )
  \_______/`,
}

var moodFace = map[progression.Mood]string{
	progression.MoodHappy:   "^.^",
	progression.MoodNeutral: "o.o",
	progression.MoodSad:     "T.T",
}

type snapshotMsg struct {
	snap snapshot.Snapshot
	err  error
}

type DashboardModel struct {
	CommonModel
	svc *tracker.Service

	snap   snapshot.Snapshot
	health progress.Model
	err    error
}

func NewDashboardModel(svc *tracker.Service) DashboardModel {
	return DashboardModel{
		svc:    svc,
		snap:   svc.Snapshot(),
		health: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

// Init recomputes the snapshot so day-based values such as the streak are
// current when the screen opens.
func (m DashboardModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m DashboardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snap, err := m.svc.Refresh(ctx)

		return snapshotMsg{snap: snap, err: err}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.refreshCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	p := m.svc.Profile()
	prog := m.snap.Progression

	var b strings.Builder

	art := fmt.Sprintf(petArt[prog.Stage], moodFace[m.snap.Mood])
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Render(art))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  ·  %s  ·  level %d", p.PetName, prog.Stage, prog.Level)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Health %s %d%%\n", m.health.ViewAs(float64(prog.Health)/100), prog.Health))

	if left, next := progression.ToNextStage(prog.TotalSavings); next != "" {
		b.WriteString(faintStyle.Render(fmt.Sprintf("%s more savings until %s", FormatAmount(left, p.Currency), next)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Balance     %s\n", FormatSigned(m.snap.Balance, p.Currency)))
	b.WriteString(fmt.Sprintf("Income      %s\n", FormatAmount(m.snap.Totals.Income, p.Currency)))
	b.WriteString(fmt.Sprintf("Expense     %s\n", FormatAmount(m.snap.Totals.Expense, p.Currency)))
	b.WriteString(fmt.Sprintf("This month  %s\n", FormatSigned(m.snap.MonthSavings, p.Currency)))
	b.WriteString(fmt.Sprintf("Streak      %d day(s)\n", prog.StreakDays))

	for _, id := range m.snap.UnlockedThisUpdate {
		if def, ok := achievement.Lookup(id); ok {
			b.WriteString(goodStyle.Render(fmt.Sprintf("\nAchievement unlocked: %s %s", def.Icon, def.Title)))
		}
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return boxStyle.Render(b.String())
}
