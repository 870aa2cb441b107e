package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/centsperpoint/internal/export"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStatePath exportState = iota
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	svc *export.Service

	state    exportState
	template *bool
	dir      *string
	form     *huh.Form
	spinner  spinner.Model

	summary string
	err     error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		svc:      svc,
		template: new(false),
		dir:      new("./exports"),
		spinner:  s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export CSV" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("What should be written?").
				Affirmative("Empty template").
				Negative("All redemptions").
				Value(m.template),
			huh.NewInput().
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(m.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.state != exportStateExporting {
		return m, Back
	}

	switch m.state {
	case exportStatePath:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = exportStateExporting

		return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.dir, *m.template))

	case exportStateExporting:
		if result, ok := msg.(exportResultMsg); ok {
			m.state = exportStateResult
			m.err = result.err
			m.summary = result.summary

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Writing CSV...")
	case exportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
			)
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export Complete!"),
				"",
				m.summary,
			),
		)
	}

	return ""
}

type exportResultMsg struct {
	summary string
	err     error
}

func (m ExportModel) runExportCmd(dir string, template bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		path, n, err := writeExport(ctx, m.svc, dir, template)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if template {
			return exportResultMsg{summary: "Template written to " + path}
		}

		return exportResultMsg{summary: fmt.Sprintf("%d redemptions written to %s", n, path)}
	}
}

// writeExport writes either the template or the full export into dir and returns
// the file path and the number of redemptions written.
func writeExport(ctx context.Context, svc *export.Service, dir string, template bool) (string, int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating %s: %w", dir, err)
	}

	name := export.ExportFilename
	if template {
		name = export.TemplateFilename
	}

	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("creating %s: %w", path, err)
	}

	var n int
	if template {
		err = svc.WriteTemplate(f)
	} else {
		n, err = svc.Export(ctx, f)
	}

	if err != nil {
		f.Close()
		return "", 0, err
	}

	return path, n, f.Close()
}
