package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CGTResult is the derived, read-only CGT view for one tax year.
// It is recomputed on demand from the full match history and is never
// mutated after construction.
type CGTResult struct {
	TaxYear int `json:"tax_year"`

	TotalGains  decimal.Decimal `json:"total_gains"`
	TotalLosses decimal.Decimal `json:"total_losses"`
	NetGainLoss decimal.Decimal `json:"net_gain_loss"`

	AnnualExemption decimal.Decimal `json:"annual_exemption"`
	ExemptionUsed   decimal.Decimal `json:"exemption_used"`
	TaxableGain     decimal.Decimal `json:"taxable_gain"`

	TaxRate decimal.Decimal `json:"tax_rate"`
	TaxDue  decimal.Decimal `json:"tax_due"`

	// Payment periods: Jan-Nov gains are due Dec 15 of the same year,
	// December gains Jan 31 of the following year.
	JanNovGains decimal.Decimal `json:"jan_nov_gains"`
	JanNovTax   decimal.Decimal `json:"jan_nov_tax"`
	DecGains    decimal.Decimal `json:"dec_gains"`
	DecTax      decimal.Decimal `json:"dec_tax"`

	DisposalMatches []DisposalMatch `json:"disposal_matches"`

	LossesToCarryForward decimal.Decimal `json:"losses_to_carry_forward"`
}

// ExitTaxResult is the derived Exit Tax view for one tax year.
type ExitTaxResult struct {
	TaxYear int `json:"tax_year"`

	DisposalGains      decimal.Decimal `json:"disposal_gains"`
	DisposalLosses     decimal.Decimal `json:"disposal_losses"`
	NetDisposalGainLoss decimal.Decimal `json:"net_disposal_gain_loss"`

	// Deemed disposal gains are never reduced by ordinary losses.
	DeemedDisposalGains decimal.Decimal `json:"deemed_disposal_gains"`

	TotalGainsTaxable decimal.Decimal `json:"total_gains_taxable"`

	TaxRate decimal.Decimal `json:"tax_rate"`
	TaxDue  decimal.Decimal `json:"tax_due"`

	Disposals []ExitTaxDisposal `json:"disposals"`

	UpcomingDeemedDisposals []DeemedDisposalEvent `json:"upcoming_deemed_disposals"`
}

// DIRTResult is the derived deposit-interest view for one tax year.
type DIRTResult struct {
	TaxYear int `json:"tax_year"`

	TotalInterest decimal.Decimal `json:"total_interest"`
	TaxWithheld   decimal.Decimal `json:"tax_withheld"`
	NetInterest   decimal.Decimal `json:"net_interest"`

	TaxRate         decimal.Decimal `json:"tax_rate"`
	DIRTDue         decimal.Decimal `json:"dirt_due"`
	DIRTAlreadyPaid decimal.Decimal `json:"dirt_already_paid"`
	DIRTToPay       decimal.Decimal `json:"dirt_to_pay"`

	// MonthlyInterest buckets gross interest by calendar month (1-12)
	// for form-filing guidance.
	MonthlyInterest map[int]decimal.Decimal `json:"monthly_interest"`

	InterestPayments []IncomeEvent `json:"interest_payments"`

	Form11Field string `json:"form_11_field"`
	Form12Field string `json:"form_12_field"`
}

// PaymentDeadline is one entry in the payment schedule.
type PaymentDeadline struct {
	Description string          `json:"description"`
	DueDate     time.Time       `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
	TaxType     string          `json:"tax_type"`
}

// FormField maps a computed figure onto a Form 11/Form 12 field for
// informational cross-referencing. Not authoritative filing output.
type FormField struct {
	Form      string          `json:"form"`
	Section   string          `json:"section"`
	FieldName string          `json:"field_name"`
	Value     decimal.Decimal `json:"value"`
	Notes     string          `json:"notes"`
}

// TaxReport is the combined per-year report across all regimes and
// persons.
type TaxReport struct {
	TaxYear       int       `json:"tax_year"`
	GeneratedDate time.Time `json:"generated_date"`
	Persons       []string  `json:"persons"`

	CGT     *CGTResult     `json:"cgt"`
	ExitTax *ExitTaxResult `json:"exit_tax"`
	DIRT    *DIRTResult    `json:"dirt"`

	// Per-person CGT breakdown backing the combined view; each entry
	// carries its own exemption.
	CGTByPerson map[string]*CGTResult `json:"cgt_by_person,omitempty"`

	TotalDividends         decimal.Decimal `json:"total_dividends"`
	DividendWithholdingTax decimal.Decimal `json:"dividend_withholding_tax"`

	TotalTaxDue decimal.Decimal `json:"total_tax_due"`

	PaymentDeadlines []PaymentDeadline `json:"payment_deadlines"`
	FormFields       []FormField       `json:"form_fields"`

	Warnings []MatchWarning `json:"warnings,omitempty"`
}
