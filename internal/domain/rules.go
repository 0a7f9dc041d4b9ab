package domain

import (
	"github.com/shopspring/decimal"
)

// TaxRules contains the statutory rates and thresholds the calculators
// apply. Loaded from the optional rules section of the input file and
// merged over the defaults, so a future Finance Act change is a config
// edit rather than a code change.
type TaxRules struct {
	CGTRate             decimal.Decimal `yaml:"cgt_rate" json:"cgt_rate"`
	AnnualExemption     decimal.Decimal `yaml:"annual_exemption" json:"annual_exemption"`
	ExitTaxRate         decimal.Decimal `yaml:"exit_tax_rate" json:"exit_tax_rate"`
	DIRTRate            decimal.Decimal `yaml:"dirt_rate" json:"dirt_rate"`
	BedBreakfastDays    int             `yaml:"bed_breakfast_days" json:"bed_breakfast_days"`
	DeemedDisposalYears int             `yaml:"deemed_disposal_years" json:"deemed_disposal_years"`
}

// DefaultTaxRules returns the rules as they stand for recent tax
// years: CGT 33% with the EUR 1,270 personal exemption, Exit Tax 41%,
// DIRT 33%, the 4-week bed & breakfast window and the 8-year deemed
// disposal cycle.
func DefaultTaxRules() TaxRules {
	return TaxRules{
		CGTRate:             decimal.NewFromFloat(0.33),
		AnnualExemption:     decimal.NewFromInt(1270),
		ExitTaxRate:         decimal.NewFromFloat(0.41),
		DIRTRate:            decimal.NewFromFloat(0.33),
		BedBreakfastDays:    28,
		DeemedDisposalYears: 8,
	}
}

// Merged returns the receiver with any zero-valued field replaced by
// its default. Lets an input file override a single rate without
// restating the rest.
func (r TaxRules) Merged() TaxRules {
	def := DefaultTaxRules()
	if r.CGTRate.IsZero() {
		r.CGTRate = def.CGTRate
	}
	if r.AnnualExemption.IsZero() {
		r.AnnualExemption = def.AnnualExemption
	}
	if r.ExitTaxRate.IsZero() {
		r.ExitTaxRate = def.ExitTaxRate
	}
	if r.DIRTRate.IsZero() {
		r.DIRTRate = def.DIRTRate
	}
	if r.BedBreakfastDays == 0 {
		r.BedBreakfastDays = def.BedBreakfastDays
	}
	if r.DeemedDisposalYears == 0 {
		r.DeemedDisposalYears = def.DeemedDisposalYears
	}
	return r
}

// RoundTax applies the statutory final rounding: half-up to 2 decimal
// places. Only applied when a tax-due figure is finalized, never to
// intermediate amounts.
func RoundTax(d decimal.Decimal) decimal.Decimal {
	// decimal.Round rounds half away from zero, which is half-up for
	// the non-negative amounts taxed here.
	return d.Round(2)
}
