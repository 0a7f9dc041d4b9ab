package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/podonoghue/ietaxcalc/internal/domain"
)

// DIRTCalculator accumulates interest payments and computes Deposit
// Interest Retention Tax for a year: a flat rate on gross interest,
// net of any withholding already deducted at source. Neobank brokers
// typically withhold nothing, so the full amount is self-declared.
type DIRTCalculator struct {
	Rules domain.TaxRules

	payments []domain.IncomeEvent
}

// NewDIRTCalculator creates a calculator with the given statutory
// rules.
func NewDIRTCalculator(rules domain.TaxRules) *DIRTCalculator {
	return &DIRTCalculator{Rules: rules.Merged()}
}

// AddInterestPayment records an interest payment.
func (c *DIRTCalculator) AddInterestPayment(date time.Time, grossAmount, withholdingTax decimal.Decimal, source string) {
	c.payments = append(c.payments, domain.IncomeEvent{
		Type:           domain.IncomeInterest,
		Date:           date,
		GrossAmount:    grossAmount,
		WithholdingTax: withholdingTax,
		Source:         source,
	})
}

// CalculateTax sums the year's interest, applies the flat DIRT rate
// and nets off withholding. The monthly breakdown feeds form-filing
// guidance.
func (c *DIRTCalculator) CalculateTax(taxYear int) *domain.DIRTResult {
	result := &domain.DIRTResult{
		TaxYear:         taxYear,
		TaxRate:         c.Rules.DIRTRate,
		MonthlyInterest: make(map[int]decimal.Decimal, 12),
	}
	for month := 1; month <= 12; month++ {
		result.MonthlyInterest[month] = decimal.Zero
	}

	for _, payment := range c.payments {
		if payment.Date.Year() != taxYear {
			continue
		}

		result.InterestPayments = append(result.InterestPayments, payment)
		result.TotalInterest = result.TotalInterest.Add(payment.GrossAmount)
		result.TaxWithheld = result.TaxWithheld.Add(payment.WithholdingTax)
		result.NetInterest = result.NetInterest.Add(payment.GrossAmount.Sub(payment.WithholdingTax))

		month := int(payment.Date.Month())
		result.MonthlyInterest[month] = result.MonthlyInterest[month].Add(payment.GrossAmount)
	}

	result.DIRTDue = domain.RoundTax(result.TotalInterest.Mul(c.Rules.DIRTRate))
	result.DIRTAlreadyPaid = result.TaxWithheld
	result.DIRTToPay = result.DIRTDue.Sub(result.DIRTAlreadyPaid)

	result.Form12Field = "Deposit Interest - Gross amount in 'Other Irish Income'"
	result.Form11Field = "Panel D - Irish Rental & Investment Income - Deposit Interest"

	return result
}
