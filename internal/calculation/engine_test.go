package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podonoghue/ietaxcalc/internal/domain"
)

func singlePersonConfig(transactions []domain.Transaction, income []domain.IncomeEvent) *domain.Configuration {
	return &domain.Configuration{
		Persons:      []domain.Person{{Name: "Alice"}},
		Transactions: transactions,
		Income:       income,
		Rules:        domain.DefaultTaxRules(),
	}
}

func buy(person, isin, name string, date time.Time, qty, amount string) domain.Transaction {
	return domain.Transaction{
		Person: person, ISIN: isin, Name: name,
		Type: domain.TransactionBuy, Date: date,
		Quantity: d(qty), Amount: d(amount),
	}
}

func sell(person, isin, name string, date time.Time, qty, amount string) domain.Transaction {
	return domain.Transaction{
		Person: person, ISIN: isin, Name: name,
		Type: domain.TransactionSell, Date: date,
		Quantity: d(qty), Amount: d(amount),
	}
}

func TestEngine_RunTaxYear_AllRegimes(t *testing.T) {
	cfg := singlePersonConfig(
		[]domain.Transaction{
			// CGT: US stock, gain 2000.
			buy("Alice", "US0378331005", "Apple Inc", day(2024, time.January, 10), "100", "1000"),
			sell("Alice", "US0378331005", "Apple Inc", day(2024, time.June, 1), "100", "3000"),
			// Exit Tax: Irish UCITS fund, gain 500.
			buy("Alice", "IE00B4L5Y983", "iShares Core MSCI World UCITS ETF", day(2023, time.March, 1), "50", "2500"),
			sell("Alice", "IE00B4L5Y983", "iShares Core MSCI World UCITS ETF", day(2024, time.July, 1), "50", "3000"),
		},
		[]domain.IncomeEvent{
			{Person: "Alice", Type: domain.IncomeInterest, Date: day(2024, time.March, 31), GrossAmount: d("100"), Source: "TR"},
			{Person: "Alice", Type: domain.IncomeDividend, Date: day(2024, time.April, 15), GrossAmount: d("200"), WithholdingTax: d("30"), Source: "Apple"},
		},
	)

	engine := NewCalculationEngine(cfg.Rules)
	report := engine.RunTaxYear(cfg, 2024, decimal.Zero)

	require.NotNil(t, report.CGT)
	require.NotNil(t, report.ExitTax)
	require.NotNil(t, report.DIRT)

	// CGT: 2000 gain, 1270 exemption, 730 taxable.
	assert.True(t, report.CGT.TaxDue.Equal(d("240.90")))

	// Exit Tax: 500 x 0.41, no exemption.
	assert.True(t, report.ExitTax.TaxDue.Equal(d("205.00")))

	// DIRT: 100 x 0.33.
	assert.True(t, report.DIRT.DIRTToPay.Equal(d("33.00")))

	assert.True(t, report.TotalDividends.Equal(d("200")))
	assert.True(t, report.DividendWithholdingTax.Equal(d("30")))

	assert.True(t, report.TotalTaxDue.Equal(d("478.90")))
	assert.Empty(t, report.Warnings)
	assert.Equal(t, []string{"Alice"}, report.Persons)
}

func TestEngine_BedBreakfastAcrossReplay(t *testing.T) {
	// The repurchase postdates the sale; the matcher must still see it.
	cfg := singlePersonConfig(
		[]domain.Transaction{
			buy("Alice", "US0378331005", "Apple Inc", day(2024, time.January, 5), "100", "1000"),
			sell("Alice", "US0378331005", "Apple Inc", day(2024, time.June, 15), "100", "800"),
			buy("Alice", "US0378331005", "Apple Inc", day(2024, time.June, 20), "100", "850"),
		},
		nil,
	)

	engine := NewCalculationEngine(cfg.Rules)
	report := engine.RunTaxYear(cfg, 2024, decimal.Zero)

	require.Len(t, report.CGT.DisposalMatches, 1)
	assert.Equal(t, domain.MatchBedBreakfast, report.CGT.DisposalMatches[0].Rule)
	assert.True(t, report.CGT.DisposalMatches[0].GainLoss.Equal(d("-50")))
	assert.True(t, report.CGT.LossesToCarryForward.Equal(d("50")))
}

func TestEngine_PerPersonExemptions(t *testing.T) {
	cfg := &domain.Configuration{
		Persons: []domain.Person{{Name: "Alice"}, {Name: "Bob"}},
		Transactions: []domain.Transaction{
			buy("Alice", "US0378331005", "Apple Inc", day(2024, time.January, 10), "100", "1000"),
			sell("Alice", "US0378331005", "Apple Inc", day(2024, time.June, 1), "100", "3000"),
			buy("Bob", "US0378331005", "Apple Inc", day(2024, time.January, 10), "100", "1000"),
			sell("Bob", "US0378331005", "Apple Inc", day(2024, time.June, 1), "100", "3000"),
		},
		Rules: domain.DefaultTaxRules(),
	}

	engine := NewCalculationEngine(cfg.Rules)
	report := engine.RunTaxYear(cfg, 2024, decimal.Zero)

	require.Len(t, report.CGTByPerson, 2)
	assert.True(t, report.CGTByPerson["Alice"].TaxDue.Equal(d("240.90")))
	assert.True(t, report.CGTByPerson["Bob"].TaxDue.Equal(d("240.90")))

	// Combined view carries both exemptions.
	assert.True(t, report.CGT.AnnualExemption.Equal(d("2540")))
	assert.True(t, report.CGT.ExemptionUsed.Equal(d("2540")))
	assert.True(t, report.CGT.TaxDue.Equal(d("481.80")))
}

func TestEngine_ExitTaxLossesStayPerPerson(t *testing.T) {
	cfg := &domain.Configuration{
		Persons: []domain.Person{{Name: "Alice"}, {Name: "Bob"}},
		Transactions: []domain.Transaction{
			// Alice: fund gain 1000.
			buy("Alice", "IE00B4L5Y983", "World UCITS ETF", day(2023, time.January, 1), "100", "1000"),
			sell("Alice", "IE00B4L5Y983", "World UCITS ETF", day(2024, time.May, 1), "100", "2000"),
			// Bob: fund loss 600 must not offset Alice's gain.
			buy("Bob", "IE00B4L5Y984", "Europe UCITS ETF", day(2023, time.January, 1), "100", "1000"),
			sell("Bob", "IE00B4L5Y984", "Europe UCITS ETF", day(2024, time.May, 1), "100", "400"),
		},
		Rules: domain.DefaultTaxRules(),
	}

	engine := NewCalculationEngine(cfg.Rules)
	report := engine.RunTaxYear(cfg, 2024, decimal.Zero)

	assert.True(t, report.ExitTax.TaxDue.Equal(d("410.00")), "Alice's 1000 gain taxed in full")
}

func TestEngine_OversellProducesWarning(t *testing.T) {
	cfg := singlePersonConfig(
		[]domain.Transaction{
			buy("Alice", "US0378331005", "Apple Inc", day(2024, time.January, 10), "50", "500"),
			sell("Alice", "US0378331005", "Apple Inc", day(2024, time.June, 1), "80", "2400"),
		},
		nil,
	)

	engine := NewCalculationEngine(cfg.Rules)
	report := engine.RunTaxYear(cfg, 2024, decimal.Zero)

	require.Len(t, report.Warnings, 1)
	w := report.Warnings[0]
	assert.Equal(t, "Alice", w.Person)
	assert.True(t, w.RequestedQuantity.Equal(d("80")))
	assert.True(t, w.UnmatchedQuantity.Equal(d("30")))
}

func TestEngine_LossesBroughtForwardSplitEvenly(t *testing.T) {
	cfg := &domain.Configuration{
		Persons: []domain.Person{{Name: "Alice"}, {Name: "Bob"}},
		Transactions: []domain.Transaction{
			buy("Alice", "US0378331005", "Apple Inc", day(2024, time.January, 10), "100", "1000"),
			sell("Alice", "US0378331005", "Apple Inc", day(2024, time.June, 1), "100", "4000"),
			buy("Bob", "US0378331005", "Apple Inc", day(2024, time.January, 10), "100", "1000"),
			sell("Bob", "US0378331005", "Apple Inc", day(2024, time.June, 1), "100", "4000"),
		},
		Rules: domain.DefaultTaxRules(),
	}

	engine := NewCalculationEngine(cfg.Rules)
	report := engine.RunTaxYear(cfg, 2024, d("1000"))

	// Each person: gain 3000, minus 500 losses, minus 1270 exemption.
	expected := d("1230").Mul(d("0.33")).Round(2)
	assert.True(t, report.CGTByPerson["Alice"].TaxDue.Equal(expected))
	assert.True(t, report.CGTByPerson["Bob"].TaxDue.Equal(expected))
}

func TestEngine_DeemedDisposalSchedule(t *testing.T) {
	cfg := singlePersonConfig(
		[]domain.Transaction{
			buy("Alice", "IE00B4L5Y983", "World UCITS ETF", day(2018, time.May, 1), "100", "5000"),
		},
		nil,
	)
	cfg.Prices = map[string]decimal.Decimal{"IE00B4L5Y983": d("80")}

	engine := NewCalculationEngine(cfg.Rules)
	events := engine.DeemedDisposalSchedule(cfg, day(2025, time.January, 1), 3)

	require.Len(t, events, 1)
	assert.Equal(t, day(2026, time.May, 1), events[0].DeemedDisposalDate)
	assert.True(t, events[0].CostBasis.Equal(d("5000")))
	require.NotNil(t, events[0].EstimatedGain)
	assert.True(t, events[0].EstimatedGain.Equal(d("3000")))
	assert.True(t, events[0].EstimatedTax.Equal(d("1230.00")))
}

func TestReportGenerator_PaymentDeadlines(t *testing.T) {
	gen := NewReportGenerator(domain.DefaultTaxRules())

	report := &domain.TaxReport{
		TaxYear: 2024,
		CGT: &domain.CGTResult{
			TaxDue:    d("300"),
			JanNovTax: d("200"),
			DecTax:    d("100"),
		},
		ExitTax: &domain.ExitTaxResult{TaxDue: d("164")},
		DIRT:    &domain.DIRTResult{DIRTToPay: d("33")},
	}

	deadlines := gen.PaymentDeadlines(report)
	require.Len(t, deadlines, 4)

	assert.Equal(t, day(2024, time.December, 15), deadlines[0].DueDate)
	assert.Equal(t, day(2024, time.December, 15), deadlines[1].DueDate)
	assert.Equal(t, day(2025, time.January, 31), deadlines[2].DueDate)
	assert.Equal(t, "CGT", deadlines[2].TaxType)
	assert.Equal(t, day(2025, time.October, 31), deadlines[3].DueDate)
	assert.Equal(t, "DIRT", deadlines[3].TaxType)
}

func TestReportGenerator_PaymentDeadlines_OmitsZeroAmounts(t *testing.T) {
	gen := NewReportGenerator(domain.DefaultTaxRules())

	report := &domain.TaxReport{
		TaxYear: 2024,
		CGT:     &domain.CGTResult{},
		ExitTax: &domain.ExitTaxResult{},
		DIRT:    &domain.DIRTResult{},
	}

	assert.Empty(t, gen.PaymentDeadlines(report))
}

func TestReportGenerator_FormFields(t *testing.T) {
	gen := NewReportGenerator(domain.DefaultTaxRules())

	report := &domain.TaxReport{
		TaxYear: 2024,
		CGT: &domain.CGTResult{
			NetGainLoss:   d("2000"),
			ExemptionUsed: d("1270"),
			TaxableGain:   d("730"),
			TaxDue:        d("240.90"),
			DisposalMatches: []domain.DisposalMatch{
				{Proceeds: d("3000"), CostBasis: d("1000")},
			},
		},
		DIRT:           &domain.DIRTResult{TotalInterest: d("100")},
		TotalDividends: d("200"),
	}

	fields := gen.FormFields(report)
	require.NotEmpty(t, fields)

	byName := make(map[string]domain.FormField)
	for _, f := range fields {
		byName[f.FieldName] = f
	}

	assert.True(t, byName["Total consideration received"].Value.Equal(d("3000")))
	assert.True(t, byName["Total allowable costs"].Value.Equal(d("1000")))
	assert.True(t, byName["CGT @ 33%"].Value.Equal(d("240.90")))
	assert.True(t, byName["Deposit Interest - Gross"].Value.Equal(d("100")))
	assert.True(t, byName["Foreign dividends - Gross"].Value.Equal(d("200")))

	_, hasExit := byName["Exit Tax @ 41%"]
	assert.False(t, hasExit, "no exit tax fields when nothing is due")
}
