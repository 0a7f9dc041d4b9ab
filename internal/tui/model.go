// Package tui provides an interactive terminal browser for a computed
// tax report, built on Bubble Tea.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/podonoghue/ietaxcalc/internal/calculation"
	"github.com/podonoghue/ietaxcalc/internal/config"
	"github.com/podonoghue/ietaxcalc/internal/domain"
	"github.com/podonoghue/ietaxcalc/internal/output"
)

// KeyMap defines the keyboard bindings for the report browser.
type KeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next pane"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab", "previous pane"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model represents the report browser state
type Model struct {
	currentTab Tab
	keys       KeyMap

	width  int
	height int

	inputPath            string
	taxYear              int
	lossesBroughtForward decimal.Decimal

	report *domain.TaxReport

	deadlineTable table.Model

	err     error
	loading bool
}

// NewModel creates a browser that will load and compute the given
// input file for the given tax year.
func NewModel(inputPath string, taxYear int, lossesBroughtForward decimal.Decimal) Model {
	return Model{
		currentTab:           TabSummary,
		keys:                 DefaultKeyMap(),
		inputPath:            inputPath,
		taxYear:              taxYear,
		lossesBroughtForward: lossesBroughtForward,
		width:                80,
		height:               24,
		loading:              true,
	}
}

// Init kicks off loading the input file (required by tea.Model).
func (m Model) Init() tea.Cmd {
	return loadReportCmd(m.inputPath, m.taxYear, m.lossesBroughtForward)
}

// loadReportCmd parses the input file and runs the tax year
// computation off the update loop.
func loadReportCmd(path string, taxYear int, lossesBF decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}

		engine := calculation.NewCalculationEngine(cfg.Rules)
		report := engine.RunTaxYear(cfg, taxYear, lossesBF)
		return ReportLoadedMsg{Report: report}
	}
}

// newDeadlineTable builds the bubbles table backing the deadlines
// pane.
func newDeadlineTable(deadlines []domain.PaymentDeadline, width int) table.Model {
	columns := []table.Column{
		{Title: "Due Date", Width: 12},
		{Title: "Tax", Width: 10},
		{Title: "Description", Width: max(20, width-50)},
		{Title: "Amount", Width: 14},
	}

	rows := make([]table.Row, 0, len(deadlines))
	for _, d := range deadlines {
		rows = append(rows, table.Row{
			d.DueDate.Format("2006-01-02"),
			d.TaxType,
			d.Description,
			output.FormatCurrency(d.Amount),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+2, 10)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ColorPrimary)
	styles.Selected = styles.Selected.Foreground(ColorSecondary).Bold(true)
	t.SetStyles(styles)
	return t
}
