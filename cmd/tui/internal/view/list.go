package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
	listStateDelete
)

type ListModel struct {
	CommonModel
	svc *redemption.Service

	state listState
	table table.Model
	items []*redemption.Redemption
	form  *huh.Form

	timeframe Timeframe
	filter    redemption.ListFilter
	loading   bool
	err       error
	status    string

	// heap-allocated so huh keeps writing to it after the model is copied
	bind *listForm
}

type listForm struct {
	source  string
	points  string
	value   string
	taxes   string
	notes   string
	confirm bool
}

func NewListModel(svc *redemption.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Source", Width: 24},
		{Title: "Points", Width: 10},
		{Title: "Value", Width: 11},
		{Title: "Taxes", Width: 9},
		{Title: "CPP", Width: 8},
		{Title: "Notes", Width: 30},
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

	return ListModel{
		svc:     svc,
		table:   t,
		loading: true,
	}
}

func (m ListModel) Title() string { return "Redemptions" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateEdit:
		return "Navigate form | Esc: cancel"
	case listStateDelete:
		return "Confirm deletion | Esc: cancel"
	}

	return "Esc: back | e: edit | x: delete | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.items = msg.items
		m.refreshTable()

		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit, listStateDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEdit()
		case "x":
			return m.enterDelete()
		case "d":
			m.timeframe = m.timeframe.Next()
			m.applyFilter(time.Now())

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selected() *redemption.Redemption {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func decimalField(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Value(value).
		Validate(func(s string) error {
			d, err := decimal.NewFromString(strings.TrimSpace(s))
			if err != nil || d.IsNegative() {
				return fmt.Errorf("enter an amount >= 0")
			}

			return nil
		})
}

func (m ListModel) enterEdit() (tea.Model, tea.Cmd) {
	r := m.selected()
	if r == nil {
		return m, nil
	}

	m.bind = &listForm{
		source: r.Source,
		points: strconv.FormatInt(r.Points, 10),
		value:  r.Value.StringFixed(2),
		taxes:  r.Taxes.StringFixed(2),
		notes:  r.Notes,
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Source").
				Value(&m.bind.source).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("source cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Title("Points").
				Value(&m.bind.points).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("enter a whole number >= 0")
					}

					return nil
				}),
			decimalField("Value ($)", &m.bind.value),
			decimalField("Taxes & Fees ($)", &m.bind.taxes),
			huh.NewText().
				Title("Notes").
				Value(&m.bind.notes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) enterDelete() (tea.Model, tea.Cmd) {
	r := m.selected()
	if r == nil {
		return m, nil
	}

	m.bind = &listForm{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s redemption from %s?", r.Source, FormatDate(r.Date))).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.bind.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == listStateDelete {
		return m, m.deleteCmd()
	}

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading redemptions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	sum := redemption.Summarize(m.items)

	avg := "-"
	if sum.AverageCPP != nil {
		avg = FormatCPP(*sum.AverageCPP, true)
	}

	header := fmt.Sprintf(
		"Filter: [d] Date: %s | %d redemptions | %d points | %s | avg %s",
		activeStyle(m.timeframe.String()),
		sum.Count, sum.TotalPoints, FormatMoney(sum.TotalValue), activeStyle(avg),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != listStateBrowse && m.form != nil {
		title := "Edit Redemption"
		if m.state == listStateDelete {
			title = "Delete Redemption"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) applyFilter(now time.Time) {
	start, end, ok := m.timeframe.Range(now)
	if !ok {
		m.filter.StartDate, m.filter.EndDate = nil, nil
		return
	}

	m.filter.StartDate, m.filter.EndDate = &start, &end
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))

	for _, r := range m.items {
		cpp, ok := r.CPP()
		points := strconv.FormatInt(r.Points, 10)

		if r.IsTravelCredit {
			points = "credit"
		}

		rows = append(rows, table.Row{
			FormatDate(r.Date),
			r.Source,
			points,
			FormatMoney(r.Value),
			FormatMoney(r.Taxes),
			FormatCPP(cpp, ok),
			r.Notes,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	items []*redemption.Redemption
	err   error
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.svc.List(ctx, filter)

		return loadListMsg{items: items, err: err}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) saveCmd() tea.Cmd {
	r := m.selected()
	if r == nil {
		return nil
	}

	points, _ := strconv.ParseInt(strings.TrimSpace(m.bind.points), 10, 64)
	value, _ := decimal.NewFromString(strings.TrimSpace(m.bind.value))
	taxes, _ := decimal.NewFromString(strings.TrimSpace(m.bind.taxes))

	params := redemption.CreateParams{
		Date:           r.Date,
		Source:         m.bind.source,
		Points:         points,
		Value:          value,
		Taxes:          taxes,
		Notes:          m.bind.notes,
		IsTravelCredit: r.IsTravelCredit,
		TripID:         r.TripID,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.Update(ctx, r.ID, params); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Saved."}
	}
}

func (m ListModel) deleteCmd() tea.Cmd {
	r := m.selected()
	if r == nil || !m.bind.confirm {
		return func() tea.Msg { return listSaveMsg{} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Delete(ctx, r.ID); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Deleted."}
	}
}
