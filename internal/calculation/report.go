package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/podonoghue/ietaxcalc/internal/domain"
)

// ReportGenerator builds the payment-deadline schedule and the
// informational Form 11/Form 12 field mapping for a combined report.
type ReportGenerator struct {
	Rules domain.TaxRules
}

// NewReportGenerator creates a generator with the given rules.
func NewReportGenerator(rules domain.TaxRules) *ReportGenerator {
	return &ReportGenerator{Rules: rules.Merged()}
}

// PaymentDeadlines derives the payment schedule, sorted by due date:
// CGT on Jan-Nov gains is due December 15 of the same year, CGT on
// December gains January 31 of the following year, Exit Tax December
// 15 of the same year, and DIRT October 31 of the following year with
// the self-assessment return. Entries with no amount due are omitted.
func (rg *ReportGenerator) PaymentDeadlines(report *domain.TaxReport) []domain.PaymentDeadline {
	var deadlines []domain.PaymentDeadline
	year := report.TaxYear

	if report.CGT != nil && report.CGT.TaxDue.IsPositive() {
		if report.CGT.JanNovTax.IsPositive() {
			deadlines = append(deadlines, domain.PaymentDeadline{
				Description: fmt.Sprintf("CGT on Jan-Nov %d gains", year),
				DueDate:     time.Date(year, time.December, 15, 0, 0, 0, 0, time.UTC),
				Amount:      report.CGT.JanNovTax,
				TaxType:     "CGT",
			})
		}
		if report.CGT.DecTax.IsPositive() {
			deadlines = append(deadlines, domain.PaymentDeadline{
				Description: fmt.Sprintf("CGT on Dec %d gains", year),
				DueDate:     time.Date(year+1, time.January, 31, 0, 0, 0, 0, time.UTC),
				Amount:      report.CGT.DecTax,
				TaxType:     "CGT",
			})
		}
	}

	if report.ExitTax != nil && report.ExitTax.TaxDue.IsPositive() {
		deadlines = append(deadlines, domain.PaymentDeadline{
			Description: fmt.Sprintf("Exit Tax on %d fund disposals", year),
			DueDate:     time.Date(year, time.December, 15, 0, 0, 0, 0, time.UTC),
			Amount:      report.ExitTax.TaxDue,
			TaxType:     "Exit Tax",
		})
	}

	if report.DIRT != nil && report.DIRT.DIRTToPay.IsPositive() {
		deadlines = append(deadlines, domain.PaymentDeadline{
			Description: fmt.Sprintf("DIRT on %d interest income", year),
			DueDate:     time.Date(year+1, time.October, 31, 0, 0, 0, 0, time.UTC),
			Amount:      report.DIRT.DIRTToPay,
			TaxType:     "DIRT",
		})
	}

	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].DueDate.Before(deadlines[j].DueDate)
	})
	return deadlines
}

// FormFields derives the informational Form 11/Form 12 mapping. Not
// authoritative filing output; it cross-references the computed
// figures against the panels they belong on.
func (rg *ReportGenerator) FormFields(report *domain.TaxReport) []domain.FormField {
	var fields []domain.FormField

	if cgt := report.CGT; cgt != nil {
		totalProceeds := decimal.Zero
		totalCosts := decimal.Zero
		for _, m := range cgt.DisposalMatches {
			totalProceeds = totalProceeds.Add(m.Proceeds)
			totalCosts = totalCosts.Add(m.CostBasis)
		}

		fields = append(fields,
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel E - Capital Gains",
				FieldName: "Total consideration received",
				Value:     totalProceeds,
				Notes:     "Total proceeds from share sales",
			},
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel E - Capital Gains",
				FieldName: "Total allowable costs",
				Value:     totalCosts,
				Notes:     "Cost basis of shares sold",
			},
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel E - Capital Gains",
				FieldName: "Net gain/(loss)",
				Value:     cgt.NetGainLoss,
				Notes:     "Gains minus losses",
			},
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel E - Capital Gains",
				FieldName: "Annual exemption claimed",
				Value:     cgt.ExemptionUsed,
				Notes:     fmt.Sprintf("Max EUR %s per person per year", rg.Rules.AnnualExemption),
			},
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel E - Capital Gains",
				FieldName: "Taxable gain",
				Value:     cgt.TaxableGain,
				Notes:     "After exemption",
			},
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel E - Capital Gains",
				FieldName: "CGT @ 33%",
				Value:     cgt.TaxDue,
			},
		)
	}

	if et := report.ExitTax; et != nil && et.TaxDue.IsPositive() {
		fields = append(fields,
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel E - Capital Gains",
				FieldName: "Exit Tax - Investment undertakings",
				Value:     et.TotalGainsTaxable,
				Notes:     "Gains from EU-domiciled funds",
			},
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel E - Capital Gains",
				FieldName: "Exit Tax @ 41%",
				Value:     et.TaxDue,
				Notes:     "No annual exemption for Exit Tax",
			},
		)
	}

	if dirt := report.DIRT; dirt != nil {
		fields = append(fields,
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel D - Irish Rental & Investment Income",
				FieldName: "Deposit Interest - Gross",
				Value:     dirt.TotalInterest,
				Notes:     "Broker interest, no DIRT withheld at source",
			},
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel D - Irish Rental & Investment Income",
				FieldName: "DIRT deducted",
				Value:     dirt.TaxWithheld,
			},
			domain.FormField{
				Form:      "Form 12",
				Section:   "Other Irish Income",
				FieldName: "Deposit Interest (Gross)",
				Value:     dirt.TotalInterest,
			},
		)
	}

	if report.TotalDividends.IsPositive() {
		fields = append(fields,
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel F - Foreign Income",
				FieldName: "Foreign dividends - Gross",
				Value:     report.TotalDividends,
				Notes:     "Fund distributions and dividends, taxed at marginal rate",
			},
			domain.FormField{
				Form:      "Form 11",
				Section:   "Panel F - Foreign Income",
				FieldName: "Foreign tax credit",
				Value:     report.DividendWithholdingTax,
				Notes:     "Withholding tax deducted at source",
			},
		)
	}

	return fields
}
