package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/export"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/importer"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
)

const importTimeout = 2 * time.Minute

type dataState int

const (
	dataStateMenu dataState = iota
	dataStateImportPick
	dataStateExportForm
	dataStateWorking
	dataStateResult
)

type dataResultMsg struct {
	status string
	err    error
}

// DataModel imports a CSV file and exports the ledger or a JSON backup.
type DataModel struct {
	CommonModel
	svc       *tracker.Service
	importSvc *importer.Service

	state      dataState
	filePicker filepicker.Model
	form       *huh.Form
	spinner    spinner.Model
	status     string
	err        error
}

func NewDataModel(svc *tracker.Service, importSvc *importer.Service) DataModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DataModel{
		svc:        svc,
		importSvc:  importSvc,
		filePicker: fp,
		spinner:    s,
	}
}

func (m DataModel) Title() string { return "Import / Export" }

func (m DataModel) ShortHelp() string {
	switch m.state {
	case dataStateMenu:
		return "i: import csv | e: export | Esc: back"
	case dataStateWorking:
		return "Working..."
	}

	return "Esc: back"
}

func (m DataModel) Init() tea.Cmd {
	return nil
}

func (m DataModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == dataStateMenu {
				return m, Back
			}

			m.state = dataStateMenu

			return m, nil
		}

		if m.state == dataStateMenu || m.state == dataStateResult {
			switch msg.String() {
			case "i":
				m.state = dataStateImportPick
				return m, m.filePicker.Init()
			case "e":
				m.state = dataStateExportForm
				m.form = buildExportForm()

				return m, m.form.Init()
			}
		}

	case dataResultMsg:
		m.state = dataStateResult
		m.status = msg.status
		m.err = msg.err

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case dataStateImportPick:
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.state = dataStateWorking
			return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
		}

		return m, cmd

	case dataStateExportForm:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State == huh.StateCompleted {
			m.state = dataStateWorking

			return m, tea.Batch(m.spinner.Tick, m.exportCmd(
				export.Format(m.form.GetString("format")),
				m.form.GetString("dir"),
			))
		}

		return m, cmd
	}

	return m, nil
}

func buildExportForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("Transactions (CSV)", string(export.FormatCSV)),
					huh.NewOption("Full backup (JSON)", string(export.FormatJSON)),
				),
			huh.NewInput().
				Key("dir").
				Title("Directory").
				Value(new("./exports")).
				Validate(nonEmpty("directory")),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m DataModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		f, err := os.Open(path)
		if err != nil {
			return dataResultMsg{err: err}
		}
		defer f.Close()

		p := m.svc.Profile()

		params, err := m.importSvc.Import(importer.FormatLedgerCSV, p.Currency, p.Location(), f)
		if err != nil {
			return dataResultMsg{err: err}
		}

		txs, _, err := m.svc.ImportTransactions(ctx, params)
		if err != nil {
			return dataResultMsg{err: err}
		}

		return dataResultMsg{status: fmt.Sprintf("Imported %d transactions from %s.", len(txs), filepath.Base(path))}
	}
}

func (m DataModel) exportCmd(format export.Format, dir string) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dataResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		path := filepath.Join(dir, format.Filename(time.Now()))

		f, err := os.Create(path)
		if err != nil {
			return dataResultMsg{err: fmt.Errorf("creating file: %w", err)}
		}
		defer f.Close()

		st := m.svc.State()

		if format == export.FormatJSON {
			err = export.WriteJSON(f, st)
		} else {
			err = export.WriteCSV(f, st.Transactions, st.Profile.Currency)
		}

		if err != nil {
			return dataResultMsg{err: err}
		}

		return dataResultMsg{status: fmt.Sprintf("Exported %d transactions to %s.", len(st.Transactions), path)}
	}
}

func (m DataModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.Title()))
	b.WriteString("\n\n")

	switch m.state {
	case dataStateMenu:
		b.WriteString("i. Import transactions from CSV\n")
		b.WriteString("e. Export transactions or a backup\n")
	case dataStateImportPick:
		b.WriteString("Select a CSV file (occurred_at,kind,category,amount,note):\n\n")
		b.WriteString(m.filePicker.View())
	case dataStateExportForm:
		b.WriteString(m.form.View())
	case dataStateWorking:
		b.WriteString(m.spinner.View() + " Working...")
	case dataStateResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(goodStyle.Render(m.status))
		}

		b.WriteString("\n\n" + faintStyle.Render("i: import again | e: export again | Esc: back"))
	}

	return b.String()
}
