package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/budgetbuddy/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/app"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/config"
)

const logFile = "budgetbuddy.log"

type View int

const (
	ViewMenu View = iota
	ViewDashboard
	ViewAdd
	ViewHistory
	ViewAchievements
	ViewStats
	ViewData
	ViewSettings
)

var menu = []struct {
	key   string
	view  View
	label string
}{
	{"1", ViewDashboard, "Dashboard"},
	{"2", ViewAdd, "Add Transaction"},
	{"3", ViewHistory, "History"},
	{"4", ViewAchievements, "Achievements"},
	{"5", ViewStats, "Statistics"},
	{"6", ViewData, "Import / Export"},
	{"7", ViewSettings, "Settings"},
}

type model struct {
	buddy *app.App

	currentView View
	screen      view.View
}

func (m model) open(v View) view.View {
	switch v {
	case ViewDashboard:
		return view.NewDashboardModel(m.buddy.Tracker)
	case ViewAdd:
		return view.NewAddModel(m.buddy.Tracker, m.buddy.Categorize)
	case ViewHistory:
		return view.NewHistoryModel(m.buddy.Tracker)
	case ViewAchievements:
		return view.NewAchievementsModel(m.buddy.Tracker)
	case ViewStats:
		return view.NewStatsModel(m.buddy.Tracker)
	case ViewData:
		return view.NewDataModel(m.buddy.Tracker, m.buddy.Importer)
	case ViewSettings:
		return view.NewSettingsModel(m.buddy.Tracker)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			for _, item := range menu {
				if msg.String() == item.key {
					m.currentView = item.view
					m.screen = m.open(item.view)

					return m, m.screen.Init()
				}
			}

			return m, nil
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.screen = nil

		return m, nil
	}

	if m.screen == nil {
		return m, nil
	}

	newModel, cmd := m.screen.Update(msg)
	m.screen = newModel.(view.View)

	return m, cmd
}

func (m model) View() string {
	if m.screen != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			m.screen.View() + "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.screen.ShortHelp()),
		)
	}

	p := m.buddy.Tracker.Profile()
	snap := m.buddy.Tracker.Snapshot()

	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s · %s the %s is %s\n\n", m.buddy.Config.App.Name, p.PetName, snap.Progression.Stage, snap.Mood))

	for _, item := range menu {
		b.WriteString(fmt.Sprintf("%s. %s\n", item.key, item.label))
	}

	b.WriteString("\nq. Quit")

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	app.Must(err, "failed to load config")

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	app.Must(err, "failed to open log file")
	defer f.Close()

	app.SetupLogger(cfg, f)

	buddy, err := app.New(context.Background(), cfg, nil)
	app.Must(err, "failed to start")
	defer buddy.Close()

	p := tea.NewProgram(model{buddy: buddy}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
