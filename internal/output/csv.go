package output

import (
	"bytes"
	"encoding/csv"

	"github.com/podonoghue/ietaxcalc/internal/domain"
)

// CSVFormatter writes one row per disposal match plus a trailing
// summary block, for spreadsheet cross-checking.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Regime", "DisposalDate", "AcquisitionDate", "Quantity", "Rule", "Proceeds", "CostBasis", "GainLoss"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	if report.CGT != nil {
		for _, m := range report.CGT.DisposalMatches {
			row := []string{
				"CGT",
				m.DisposalDate.Format("2006-01-02"),
				m.AcquisitionDate.Format("2006-01-02"),
				m.QuantityMatched.String(),
				string(m.Rule),
				m.Proceeds.StringFixed(2),
				m.CostBasis.StringFixed(2),
				m.GainLoss.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	if report.ExitTax != nil {
		for _, d := range report.ExitTax.Disposals {
			rule := "fifo"
			if d.IsDeemedDisposal {
				rule = "deemed"
			}
			row := []string{
				"ExitTax",
				d.DisposalDate.Format("2006-01-02"),
				"",
				d.Quantity.String(),
				rule,
				d.Proceeds.StringFixed(2),
				d.CostBasis.StringFixed(2),
				d.GainLoss.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	summary := [][]string{
		{},
		{"Summary", "", "", "", "", "", "", ""},
	}
	if report.CGT != nil {
		summary = append(summary, []string{"CGT due", "", "", "", "", "", "", report.CGT.TaxDue.StringFixed(2)})
	}
	if report.ExitTax != nil {
		summary = append(summary, []string{"Exit Tax due", "", "", "", "", "", "", report.ExitTax.TaxDue.StringFixed(2)})
	}
	if report.DIRT != nil {
		summary = append(summary, []string{"DIRT to pay", "", "", "", "", "", "", report.DIRT.DIRTToPay.StringFixed(2)})
	}
	summary = append(summary, []string{"Total tax due", "", "", "", "", "", "", report.TotalTaxDue.StringFixed(2)})

	for _, row := range summary {
		if len(row) == 0 {
			continue
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
