package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/centsperpoint/internal/importer"
)

const importTimeout = 2 * time.Minute

// maximum number of validation errors listed on screen
const maxShownErrors = 10

type importState int

const (
	importStateFilePick importState = iota
	importStateAnalyzing
	importStateMapping
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	svc *importer.Service

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	form       *huh.Form
	confirm    *bool

	path     string
	analysis *importer.Analysis

	result *importer.Result
	status string
	lines  []string
	err    error
}

func NewImportModel(svc *importer.Service) ImportModel {
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

	return ImportModel{
		svc:        svc,
		filePicker: fp,
		spinner:    s,
	}
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateMapping {
		return "Confirm mapping | Esc: pick another file"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case analyzeResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.analysis = msg.analysis
		m.confirm = new(true)
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Import %d rows with the suggested mapping?", msg.analysis.TotalRows)).
					Affirmative("Import").
					Negative("Cancel").
					Value(m.confirm),
			),
		).WithWidth(60).WithShowHelp(false)
		m.state = importStateMapping

		return m, m.form.Init()

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err
		m.result = msg.result
		m.status, m.lines = describeImport(msg.result, msg.err)

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case importStateFilePick:
		return m.updateFilePick(msg)
	case importStateMapping:
		return m.updateMapping(msg)
	}

	return m, nil
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStateAnalyzing

		return m, tea.Batch(m.spinner.Tick, m.analyzeCmd(path))
	}

	return m, cmd
}

func (m ImportModel) updateMapping(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	m.state = importStateImporting

	return m, tea.Batch(m.spinner.Tick, m.importCmd(m.path, m.analysis.SuggestedMappings))
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateMapping, importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.status = ""
		m.lines = nil

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a CSV file to import:\n\n" + m.filePicker.View(),
		)
	case importStateAnalyzing:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " Analyzing " + m.path)
	case importStateMapping:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, m.viewMapping(), "", m.form.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " Importing " + m.path)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewMapping() string {
	if m.analysis == nil {
		return ""
	}

	fields := make([]string, 0, len(m.analysis.SuggestedMappings))
	for f := range m.analysis.SuggestedMappings {
		fields = append(fields, string(f))
	}

	sort.Strings(fields)

	var b strings.Builder

	fmt.Fprintf(&b, "%s (%d rows)\n\n", m.path, m.analysis.TotalRows)

	for _, f := range fields {
		idx := m.analysis.SuggestedMappings[importer.Field(f)]
		fmt.Fprintf(&b, "  %-18s <- %s\n", f, activeStyle(m.analysis.Headers[idx]))
	}

	if missing := m.analysis.SuggestedMappings.Missing(); len(missing) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).
			Render(fmt.Sprintf("No column found for required field(s): %v", missing)))
	}

	return b.String()
}

func (m ImportModel) viewResult() string {
	color := lipgloss.Color("46")
	if m.err != nil {
		color = lipgloss.Color("196")
	}

	parts := []string{lipgloss.NewStyle().Foreground(color).Render(m.status)}
	if len(m.lines) > 0 {
		parts = append(parts, "", strings.Join(m.lines, "\n"))
	}

	parts = append(parts, "", "(Esc to go back)")

	return lipgloss.NewStyle().Padding(2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// describeImport renders the outcome of an import as a headline and detail lines.
func describeImport(res *importer.Result, err error) (string, []string) {
	var (
		missing *importer.MissingMappingsError
		invalid *importer.ValidationError
	)

	switch {
	case err == nil:
		status := fmt.Sprintf("Imported %d of %d redemptions.", res.Imported, res.Total)
		if res.Skipped > 0 {
			status += fmt.Sprintf(" Skipped %d due to errors.", res.Skipped)
		}

		return status, res.Warnings
	case errors.As(err, &missing):
		return "Error: " + missing.Error(), nil
	case errors.As(err, &invalid):
		lines := invalid.Errors
		if len(lines) > maxShownErrors {
			lines = append(lines[:maxShownErrors:maxShownErrors],
				fmt.Sprintf("... and %d more", len(invalid.Errors)-maxShownErrors))
		}

		return fmt.Sprintf("Found %d validation error(s). Nothing was imported.", len(invalid.Errors)), lines
	}

	return fmt.Sprintf("Error: %v", err), nil
}

// Messages

type analyzeResultMsg struct {
	analysis *importer.Analysis
	err      error
}

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) analyzeCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return analyzeResultMsg{err: err}
		}
		defer f.Close()

		analysis, err := m.svc.Analyze(f)

		return analyzeResultMsg{analysis: analysis, err: err}
	}
}

func (m ImportModel) importCmd(path string, mappings importer.Mappings) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := m.svc.Import(ctx, f, mappings)

		return importResultMsg{result: res, err: err}
	}
}
