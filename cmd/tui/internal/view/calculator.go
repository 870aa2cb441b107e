package view

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/centsperpoint/internal/calculator"
)

type calculatorForm struct {
	program string
	points  string
	cash    string
	taxes   string
}

// CalculatorModel asks for a booking's cash and points price and rates the
// redemption against the program's usual value.
type CalculatorModel struct {
	CommonModel

	form   *huh.Form
	bind   *calculatorForm
	result string
	err    error
}

func NewCalculatorModel() CalculatorModel {
	m := CalculatorModel{bind: &calculatorForm{program: calculator.Programs[0].Key, taxes: "0"}}
	m.form = m.buildForm()

	return m
}

func (m CalculatorModel) Title() string { return "Should I Book It?" }

func (m CalculatorModel) ShortHelp() string {
	if m.form.State == huh.StateCompleted {
		return "Enter: new calculation | Esc: back"
	}

	return "Navigate form | Esc: back"
}

func (m CalculatorModel) buildForm() *huh.Form {
	options := make([]huh.Option[string], len(calculator.Programs))
	for i, p := range calculator.Programs {
		options[i] = huh.NewOption(p.Label, p.Key)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Program").
				Options(options...).
				Value(&m.bind.program),
			huh.NewInput().
				Title("Points required").
				Value(&m.bind.points).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || n <= 0 {
						return calculator.ErrPointsRequired
					}

					return nil
				}),
			huh.NewInput().
				Title("Cash price ($)").
				Value(&m.bind.cash).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !d.IsPositive() {
						return calculator.ErrCashRequired
					}

					return nil
				}),
			decimalField("Taxes & fees on the award ($)", &m.bind.taxes),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m CalculatorModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.Type == tea.KeyEsc:
			return m, Back
		case keyMsg.Type == tea.KeyEnter && m.form.State == huh.StateCompleted:
			m.result, m.err = "", nil
			m.form = m.buildForm()

			return m, m.form.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && m.result == "" && m.err == nil {
		m.result, m.err = calculate(m.bind)
	}

	return m, cmd
}

func calculate(in *calculatorForm) (string, error) {
	points, err := strconv.ParseInt(strings.TrimSpace(in.points), 10, 64)
	if err != nil {
		return "", calculator.ErrPointsRequired
	}

	cash, err := decimal.NewFromString(strings.TrimSpace(in.cash))
	if err != nil {
		return "", calculator.ErrCashRequired
	}

	taxes, err := decimal.NewFromString(strings.TrimSpace(in.taxes))
	if err != nil {
		taxes = decimal.Zero
	}

	res, err := calculator.Calculate(calculator.Input{
		Program:   in.program,
		Points:    points,
		CashValue: cash,
		Taxes:     taxes,
	})
	if err != nil {
		return "", err
	}

	return res.Describe(), nil
}

func (m CalculatorModel) View() string {
	if m.form.State != huh.StateCompleted {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(lipgloss.NewStyle().Bold(true).Render(m.result) + "\n\n(Enter for another, Esc to go back)")
}
