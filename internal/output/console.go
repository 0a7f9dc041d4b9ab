package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/podonoghue/ietaxcalc/internal/domain"
)

// ConsoleVerboseFormatter renders the full console report: per-regime
// breakdowns, per-person CGT, deadlines, form guidance and warnings.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "IRISH TAX COMPUTATION - TAX YEAR %d\n", report.TaxYear)
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "Generated: %s\n", report.GeneratedDate.Format("2 January 2006"))
	if len(report.Persons) > 0 {
		fmt.Fprintf(&buf, "Persons: %s\n", strings.Join(report.Persons, ", "))
	}
	fmt.Fprintln(&buf)

	writeCGTSection(&buf, report)
	writeExitTaxSection(&buf, report)
	writeDIRTSection(&buf, report)
	writeDividendSection(&buf, report)

	fmt.Fprintln(&buf, "TOTAL TAX DUE")
	fmt.Fprintln(&buf, "=============")
	fmt.Fprintf(&buf, "Combined liability:     %s\n", FormatCurrency(report.TotalTaxDue))
	fmt.Fprintln(&buf)

	if len(report.PaymentDeadlines) > 0 {
		fmt.Fprintln(&buf, "PAYMENT DEADLINES")
		fmt.Fprintln(&buf, "=================")
		for _, d := range report.PaymentDeadlines {
			fmt.Fprintf(&buf, "  %s  %-12s %-35s %s\n",
				d.DueDate.Format("2006-01-02"), d.TaxType, d.Description, FormatCurrency(d.Amount))
		}
		fmt.Fprintln(&buf)
	}

	if len(report.FormFields) > 0 {
		fmt.Fprintln(&buf, "FORM FILING GUIDANCE")
		fmt.Fprintln(&buf, "====================")
		currentSection := ""
		for _, f := range report.FormFields {
			section := f.Form + " / " + f.Section
			if section != currentSection {
				fmt.Fprintf(&buf, "%s:\n", section)
				currentSection = section
			}
			fmt.Fprintf(&buf, "  %-38s %s", f.FieldName, FormatCurrency(f.Value))
			if f.Notes != "" {
				fmt.Fprintf(&buf, "  (%s)", f.Notes)
			}
			fmt.Fprintln(&buf)
		}
		fmt.Fprintln(&buf)
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintln(&buf, "WARNINGS")
		fmt.Fprintln(&buf, "========")
		for _, w := range report.Warnings {
			fmt.Fprintf(&buf, "  %s: sold %s of %s on %s but only %s matched against held lots\n",
				w.Person, w.RequestedQuantity, w.ISIN,
				w.DisposalDate.Format("2006-01-02"),
				w.RequestedQuantity.Sub(w.UnmatchedQuantity))
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "This report is informational and is not tax advice.")
	return buf.Bytes(), nil
}

func writeCGTSection(buf *bytes.Buffer, report *domain.TaxReport) {
	cgt := report.CGT
	if cgt == nil {
		return
	}

	fmt.Fprintln(buf, "CAPITAL GAINS TAX (CGT)")
	fmt.Fprintln(buf, "=======================")
	fmt.Fprintf(buf, "Total gains:            %s\n", FormatCurrency(cgt.TotalGains))
	fmt.Fprintf(buf, "Total losses:           %s\n", FormatCurrency(cgt.TotalLosses))
	fmt.Fprintf(buf, "Net gain/(loss):        %s\n", FormatCurrency(cgt.NetGainLoss))
	fmt.Fprintf(buf, "Annual exemption:       %s (used %s)\n",
		FormatCurrency(cgt.AnnualExemption), FormatCurrency(cgt.ExemptionUsed))
	fmt.Fprintf(buf, "Taxable gain:           %s\n", FormatCurrency(cgt.TaxableGain))
	fmt.Fprintf(buf, "CGT @ %s:           %s\n", FormatPercentage(cgt.TaxRate), FormatCurrency(cgt.TaxDue))
	if cgt.LossesToCarryForward.IsPositive() {
		fmt.Fprintf(buf, "Losses to carry forward: %s\n", FormatCurrency(cgt.LossesToCarryForward))
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "  Payment periods:")
	fmt.Fprintf(buf, "    Jan-Nov gains: %s  (tax %s, due 15 Dec %d)\n",
		FormatCurrency(cgt.JanNovGains), FormatCurrency(cgt.JanNovTax), report.TaxYear)
	fmt.Fprintf(buf, "    Dec gains:     %s  (tax %s, due 31 Jan %d)\n",
		FormatCurrency(cgt.DecGains), FormatCurrency(cgt.DecTax), report.TaxYear+1)
	fmt.Fprintln(buf)

	if len(report.CGTByPerson) > 1 {
		names := make([]string, 0, len(report.CGTByPerson))
		for name := range report.CGTByPerson {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(buf, "  Per person:")
		for _, name := range names {
			p := report.CGTByPerson[name]
			fmt.Fprintf(buf, "    %-12s net %s, taxable %s, tax %s\n",
				name, FormatCurrency(p.NetGainLoss), FormatCurrency(p.TaxableGain), FormatCurrency(p.TaxDue))
		}
		fmt.Fprintln(buf)
	}

	if len(cgt.DisposalMatches) > 0 {
		fmt.Fprintln(buf, "  Disposal matches:")
		for _, m := range cgt.DisposalMatches {
			fmt.Fprintf(buf, "    %s  qty %-10s acquired %s  %-13s gain/(loss) %s\n",
				m.DisposalDate.Format("2006-01-02"), m.QuantityMatched,
				m.AcquisitionDate.Format("2006-01-02"), m.Rule, FormatCurrency(m.GainLoss))
		}
		fmt.Fprintln(buf)
	}
}

func writeExitTaxSection(buf *bytes.Buffer, report *domain.TaxReport) {
	et := report.ExitTax
	if et == nil {
		return
	}

	fmt.Fprintln(buf, "EXIT TAX (EU-DOMICILED FUNDS)")
	fmt.Fprintln(buf, "=============================")
	fmt.Fprintf(buf, "Disposal gains:         %s\n", FormatCurrency(et.DisposalGains))
	fmt.Fprintf(buf, "Disposal losses:        %s\n", FormatCurrency(et.DisposalLosses))
	fmt.Fprintf(buf, "Deemed disposal gains:  %s\n", FormatCurrency(et.DeemedDisposalGains))
	fmt.Fprintf(buf, "Taxable (no exemption): %s\n", FormatCurrency(et.TotalGainsTaxable))
	fmt.Fprintf(buf, "Exit Tax @ %s:      %s\n", FormatPercentage(et.TaxRate), FormatCurrency(et.TaxDue))
	fmt.Fprintln(buf)

	if len(et.UpcomingDeemedDisposals) > 0 {
		fmt.Fprintln(buf, "  Upcoming deemed disposals (8-year rule):")
		for _, e := range et.UpcomingDeemedDisposals {
			fmt.Fprintf(buf, "    %s  %s (%s) qty %s",
				e.DeemedDisposalDate.Format("2006-01-02"), e.Name, e.ISIN, e.Quantity)
			if e.EstimatedTax != nil {
				fmt.Fprintf(buf, "  est. tax %s", FormatCurrency(*e.EstimatedTax))
			}
			fmt.Fprintln(buf)
		}
		fmt.Fprintln(buf)
	}
}

func writeDIRTSection(buf *bytes.Buffer, report *domain.TaxReport) {
	dirt := report.DIRT
	if dirt == nil {
		return
	}

	fmt.Fprintln(buf, "DEPOSIT INTEREST RETENTION TAX (DIRT)")
	fmt.Fprintln(buf, "=====================================")
	fmt.Fprintf(buf, "Gross interest:         %s\n", FormatCurrency(dirt.TotalInterest))
	fmt.Fprintf(buf, "Tax withheld at source: %s\n", FormatCurrency(dirt.TaxWithheld))
	fmt.Fprintf(buf, "DIRT @ %s:          %s\n", FormatPercentage(dirt.TaxRate), FormatCurrency(dirt.DIRTDue))
	fmt.Fprintf(buf, "DIRT to pay:            %s\n", FormatCurrency(dirt.DIRTToPay))
	fmt.Fprintln(buf)
}

func writeDividendSection(buf *bytes.Buffer, report *domain.TaxReport) {
	if !report.TotalDividends.IsPositive() {
		return
	}

	fmt.Fprintln(buf, "DIVIDEND INCOME (marginal rate, not computed here)")
	fmt.Fprintln(buf, "==================================================")
	fmt.Fprintf(buf, "Gross dividends:        %s\n", FormatCurrency(report.TotalDividends))
	fmt.Fprintf(buf, "Withholding tax:        %s\n", FormatCurrency(report.DividendWithholdingTax))
	fmt.Fprintln(buf)
}

// ConsoleSummaryFormatter renders a condensed one-screen summary.
type ConsoleSummaryFormatter struct{}

func (c ConsoleSummaryFormatter) Name() string { return "console-lite" }

func (c ConsoleSummaryFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "TAX YEAR %d SUMMARY\n", report.TaxYear)
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	if report.CGT != nil {
		fmt.Fprintf(&buf, "CGT due:      %s\n", FormatCurrency(report.CGT.TaxDue))
	}
	if report.ExitTax != nil {
		fmt.Fprintf(&buf, "Exit Tax due: %s\n", FormatCurrency(report.ExitTax.TaxDue))
	}
	if report.DIRT != nil {
		fmt.Fprintf(&buf, "DIRT to pay:  %s\n", FormatCurrency(report.DIRT.DIRTToPay))
	}
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "Total:        %s\n", FormatCurrency(report.TotalTaxDue))

	for _, d := range report.PaymentDeadlines {
		fmt.Fprintf(&buf, "Due %s: %s (%s)\n",
			d.DueDate.Format("2006-01-02"), FormatCurrency(d.Amount), d.TaxType)
	}

	return buf.Bytes(), nil
}
