package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
)

type AchievementsModel struct {
	CommonModel
	svc *tracker.Service
	bar progress.Model
}

func NewAchievementsModel(svc *tracker.Service) AchievementsModel {
	return AchievementsModel{
		svc: svc,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage()),
	}
}

func (m AchievementsModel) Title() string     { return "Achievements" }
func (m AchievementsModel) ShortHelp() string { return "Esc: back" }

func (m AchievementsModel) Init() tea.Cmd {
	return nil
}

func (m AchievementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, Back
	}

	return m, nil
}

func (m AchievementsModel) View() string {
	statuses := m.svc.Snapshot().Achievements

	unlocked := 0
	for _, a := range statuses {
		if a.Unlocked {
			unlocked++
		}
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %d/%d", m.Title(), unlocked, len(statuses))))
	b.WriteString("\n\n")

	for _, a := range statuses {
		if a.Unlocked {
			line := fmt.Sprintf("%s %-16s", a.Icon, a.Title)
			if a.UnlockedAt != nil {
				line += faintStyle.Render(" unlocked " + FormatDate(*a.UnlockedAt))
			}

			b.WriteString(goodStyle.Render(line) + "\n")

			continue
		}

		b.WriteString(fmt.Sprintf("%s %-16s %s %3.0f%%\n", a.Icon, a.Title, m.bar.ViewAs(a.Progress/100), a.Progress))
		b.WriteString(faintStyle.Render("   "+a.Description) + "\n")
	}

	return b.String()
}
