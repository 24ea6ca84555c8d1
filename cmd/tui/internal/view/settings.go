package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/profile"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
)

type settingsSavedMsg struct {
	reset bool
	err   error
}

type SettingsModel struct {
	CommonModel
	svc *tracker.Service

	form   *huh.Form
	status string
}

func NewSettingsModel(svc *tracker.Service) SettingsModel {
	m := SettingsModel{svc: svc}
	m.form = m.buildForm()

	return m
}

func (m SettingsModel) buildForm() *huh.Form {
	p := m.svc.Profile()

	budget, _ := currency.FormatMajor(p.MonthlyBudget, p.Currency)

	var reset bool

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("name").Title("Your name").Value(new(p.DisplayName)),
			huh.NewInput().Key("pet").Title("Pet name").Value(new(p.PetName)).
				Validate(nonEmpty("pet name")),
			huh.NewInput().Key("currency").Title("Currency").Value(new(p.Currency)).
				Validate(func(s string) error {
					if !currency.Valid(s) {
						return fmt.Errorf("unknown currency %q", s)
					}

					return nil
				}),
			huh.NewInput().Key("budget").Title("Monthly budget").Value(&budget).
				Validate(nonEmpty("budget")),
			huh.NewInput().Key("tz").Title("Time zone").Placeholder("Local").Value(new(p.TimeZone)).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}

					_, err := time.LoadLocation(s)

					return err
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().Key("reset").
				Title("Clear all data?").
				Description("Deletes every transaction and badge. This cannot be undone.").
				Affirmative("Clear").
				Negative("Keep").
				Value(&reset),
		),
	).WithWidth(50).WithShowHelp(false)
}

func nonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}

		return nil
	}
}

func (m SettingsModel) Title() string     { return "Settings" }
func (m SettingsModel) ShortHelp() string { return "Esc: back | Enter/Tab: navigate form" }

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case settingsSavedMsg:
		switch {
		case msg.err != nil:
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
		case msg.reset:
			m.status = goodStyle.Render("All data cleared.")
		default:
			m.status = goodStyle.Render("Saved.")
		}

		m.form = m.buildForm()

		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.saveCmd()
	}

	return m, cmd
}

func (m SettingsModel) saveCmd() tea.Cmd {
	reset := m.form.GetBool("reset")
	code := strings.ToUpper(strings.TrimSpace(m.form.GetString("currency")))

	p := profile.Profile{
		DisplayName: strings.TrimSpace(m.form.GetString("name")),
		PetName:     strings.TrimSpace(m.form.GetString("pet")),
		Currency:    code,
		TimeZone:    strings.TrimSpace(m.form.GetString("tz")),
	}

	budgetText := m.form.GetString("budget")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if reset {
			_, err := m.svc.Reset(ctx)
			return settingsSavedMsg{reset: true, err: err}
		}

		budget, err := currency.ParseMajor(budgetText, code)
		if err != nil {
			return settingsSavedMsg{err: err}
		}

		p.MonthlyBudget = budget

		_, err = m.svc.UpdateProfile(ctx, p)

		return settingsSavedMsg{err: err}
	}
}

func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.Title()))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())

	if m.status != "" {
		b.WriteString("\n\n" + m.status)
	}

	return b.String()
}
