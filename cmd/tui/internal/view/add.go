package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/achievement"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/snapshot"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// categoryAuto asks for a suggestion from the note.
const categoryAuto = "auto"

type addResultMsg struct {
	tx   transaction.Transaction
	snap snapshot.Snapshot
	err  error
}

type AddModel struct {
	CommonModel
	svc        *tracker.Service
	categories *categorize.Service

	form   *huh.Form
	status string

	// Form bindings
	kind     string
	amount   string
	category string
	note     string
}

func NewAddModel(svc *tracker.Service, categories *categorize.Service) AddModel {
	m := AddModel{svc: svc, categories: categories}
	m.form = m.buildForm()

	return m
}

func (m *AddModel) buildForm() *huh.Form {
	m.kind = string(transaction.KindExpense)
	m.amount = ""
	m.category = categoryAuto
	m.note = ""

	code := m.svc.Profile().Currency

	categoryOptions := []huh.Option[string]{huh.NewOption("Suggest from note", categoryAuto)}
	for _, c := range transaction.Categories() {
		categoryOptions = append(categoryOptions, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.KindExpense)),
					huh.NewOption("Income", string(transaction.KindIncome)),
				).
				Value(&m.kind),

			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Amount (%s)", code)).
				Placeholder("0.00").
				Value(&m.amount).
				Validate(func(s string) error {
					v, err := currency.ParseMajor(s, code)
					if err != nil {
						return err
					}

					if v <= 0 {
						return fmt.Errorf("amount must be greater than zero")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOptions...).
				Value(&m.category),

			huh.NewInput().
				Key("note").
				Title("Note").
				Placeholder(transaction.DefaultNote).
				Value(&m.note),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AddModel) Title() string     { return "Add Transaction" }
func (m AddModel) ShortHelp() string { return "Esc: back | Enter/Tab: navigate form" }

func (m AddModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case addResultMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
		} else {
			m.status = goodStyle.Render(fmt.Sprintf("Added %s %s (%s)", msg.tx.Kind,
				FormatAmount(msg.tx.Amount, m.svc.Profile().Currency), msg.tx.Category))

			for _, id := range msg.snap.UnlockedThisUpdate {
				if def, ok := achievement.Lookup(id); ok {
					m.status += "\n" + goodStyle.Render(fmt.Sprintf("Achievement unlocked: %s %s", def.Icon, def.Title))
				}
			}
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

func (m AddModel) saveCmd() tea.Cmd {
	kind := transaction.Kind(m.form.GetString("kind"))
	category := m.form.GetString("category")
	note := strings.TrimSpace(m.form.GetString("note"))
	amountText := m.form.GetString("amount")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		amount, err := currency.ParseMajor(amountText, m.svc.Profile().Currency)
		if err != nil {
			return addResultMsg{err: err}
		}

		params := transaction.CreateParams{Kind: kind, Amount: amount, Note: note}

		if category == categoryAuto {
			if s, ok, err := m.categories.Suggest(ctx, note); err == nil && ok {
				params.Category = s.Category
			}
		} else {
			params.Category = transaction.Category(category)
		}

		tx, snap, err := m.svc.AddTransaction(ctx, params)
		if err != nil {
			return addResultMsg{err: err}
		}

		if category != categoryAuto {
			_ = m.categories.Learn(ctx, tx.Note, tx.Category)
		}

		return addResultMsg{tx: tx, snap: snap}
	}
}

func (m AddModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.Title()))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())

	if m.status != "" {
		b.WriteString("\n\n" + m.status)
	}

	return b.String()
}
