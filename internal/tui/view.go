package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/podonoghue/ietaxcalc/internal/domain"
	"github.com/podonoghue/ietaxcalc/internal/output"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.loading || m.report == nil {
		return SubtitleStyle.Render("Computing tax report...")
	}

	var content string
	switch m.currentTab {
	case TabSummary:
		content = m.renderSummary()
	case TabCGT:
		content = m.renderCGT()
	case TabExitTax:
		content = m.renderExitTax()
	case TabDIRT:
		content = m.renderDIRT()
	case TabDeadlines:
		content = m.renderDeadlines()
	default:
		content = "Unknown pane"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		m.renderTabBar(),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render(fmt.Sprintf("Irish Tax Computation - %d", m.report.TaxYear))
	persons := SubtitleStyle.Render(strings.Join(m.report.Persons, ", "))
	return lipgloss.JoinVertical(lipgloss.Left, title, persons)
}

func (m Model) renderTabBar() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.currentTab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, TabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderStatusBar() string {
	return StatusBarStyle.Render("tab: switch pane • q: quit")
}

func metricLine(label string, value decimal.Decimal) string {
	style := ValueStyle
	if value.IsNegative() {
		style = NegativeStyle
	}
	return LabelStyle.Render(label) + style.Render(output.FormatCurrency(value))
}

func (m Model) renderSummary() string {
	var b strings.Builder

	if cgt := m.report.CGT; cgt != nil {
		b.WriteString(metricLine("CGT due", cgt.TaxDue) + "\n")
	}
	if et := m.report.ExitTax; et != nil {
		b.WriteString(metricLine("Exit Tax due", et.TaxDue) + "\n")
	}
	if dirt := m.report.DIRT; dirt != nil {
		b.WriteString(metricLine("DIRT to pay", dirt.DIRTToPay) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(metricLine("Total tax due", m.report.TotalTaxDue) + "\n")

	if m.report.TotalDividends.IsPositive() {
		b.WriteString("\n")
		b.WriteString(metricLine("Dividends (marginal)", m.report.TotalDividends) + "\n")
	}

	if len(m.report.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(NegativeStyle.Render(fmt.Sprintf("%d matching warning(s), see console report", len(m.report.Warnings))))
		b.WriteString("\n")
	}

	return SectionStyle.Render(b.String())
}

func (m Model) renderCGT() string {
	cgt := m.report.CGT
	if cgt == nil {
		return SectionStyle.Render("No CGT activity.")
	}

	var b strings.Builder
	b.WriteString(metricLine("Total gains", cgt.TotalGains) + "\n")
	b.WriteString(metricLine("Total losses", cgt.TotalLosses) + "\n")
	b.WriteString(metricLine("Net gain/(loss)", cgt.NetGainLoss) + "\n")
	b.WriteString(metricLine("Exemption used", cgt.ExemptionUsed) + "\n")
	b.WriteString(metricLine("Taxable gain", cgt.TaxableGain) + "\n")
	b.WriteString(metricLine("CGT due", cgt.TaxDue) + "\n")
	if cgt.LossesToCarryForward.IsPositive() {
		b.WriteString(metricLine("Losses carried forward", cgt.LossesToCarryForward) + "\n")
	}

	if len(m.report.CGTByPerson) > 1 {
		names := make([]string, 0, len(m.report.CGTByPerson))
		for name := range m.report.CGTByPerson {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\n")
		b.WriteString(ValueStyle.Render("Per person") + "\n")
		for _, name := range names {
			p := m.report.CGTByPerson[name]
			b.WriteString(fmt.Sprintf("  %-12s net %s, tax %s\n",
				name, output.FormatCurrency(p.NetGainLoss), output.FormatCurrency(p.TaxDue)))
		}
	}

	return SectionStyle.Render(b.String())
}

func (m Model) renderExitTax() string {
	et := m.report.ExitTax
	if et == nil {
		return SectionStyle.Render("No fund activity.")
	}

	var b strings.Builder
	b.WriteString(metricLine("Disposal gains", et.DisposalGains) + "\n")
	b.WriteString(metricLine("Disposal losses", et.DisposalLosses) + "\n")
	b.WriteString(metricLine("Deemed disposal gains", et.DeemedDisposalGains) + "\n")
	b.WriteString(metricLine("Taxable", et.TotalGainsTaxable) + "\n")
	b.WriteString(metricLine("Exit Tax due", et.TaxDue) + "\n")

	if len(et.UpcomingDeemedDisposals) > 0 {
		b.WriteString("\n")
		b.WriteString(ValueStyle.Render("Upcoming deemed disposals") + "\n")
		for _, e := range et.UpcomingDeemedDisposals {
			b.WriteString(renderDeemedEvent(e))
		}
	}

	return SectionStyle.Render(b.String())
}

func renderDeemedEvent(e domain.DeemedDisposalEvent) string {
	line := fmt.Sprintf("  %s  %s qty %s",
		e.DeemedDisposalDate.Format("2006-01-02"), e.ISIN, e.Quantity)
	if e.EstimatedTax != nil {
		line += "  est. tax " + output.FormatCurrency(*e.EstimatedTax)
	}
	return line + "\n"
}

func (m Model) renderDIRT() string {
	dirt := m.report.DIRT
	if dirt == nil {
		return SectionStyle.Render("No interest income.")
	}

	var b strings.Builder
	b.WriteString(metricLine("Gross interest", dirt.TotalInterest) + "\n")
	b.WriteString(metricLine("Withheld at source", dirt.TaxWithheld) + "\n")
	b.WriteString(metricLine("DIRT due", dirt.DIRTDue) + "\n")
	b.WriteString(metricLine("DIRT to pay", dirt.DIRTToPay) + "\n")

	months := make([]int, 0, len(dirt.MonthlyInterest))
	for month := range dirt.MonthlyInterest {
		months = append(months, month)
	}
	sort.Ints(months)

	var active []string
	for _, month := range months {
		amount := dirt.MonthlyInterest[month]
		if amount.IsPositive() {
			active = append(active, fmt.Sprintf("%02d: %s", month, amount.StringFixed(2)))
		}
	}
	if len(active) > 0 {
		b.WriteString("\n")
		b.WriteString(ValueStyle.Render("By month") + "\n")
		b.WriteString("  " + strings.Join(active, "  ") + "\n")
	}

	return SectionStyle.Render(b.String())
}

func (m Model) renderDeadlines() string {
	if len(m.report.PaymentDeadlines) == 0 {
		return SectionStyle.Render("Nothing due.")
	}
	return SectionStyle.Render(m.deadlineTable.View())
}
