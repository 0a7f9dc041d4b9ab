package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/podonoghue/ietaxcalc/internal/domain"
)

func TestExitTaxEngine_FIFOOnly(t *testing.T) {
	e := NewExitTaxEngine(domain.DefaultTaxRules())
	e.AddAcquisition("IE00B4L5Y983", "World ETF", day(2022, time.January, 10), d("100"), d("50"))
	e.AddAcquisition("IE00B4L5Y983", "World ETF", day(2023, time.January, 10), d("100"), d("60"))

	disposals, unmatched := e.ProcessDisposal("IE00B4L5Y983", day(2024, time.June, 1), d("150"), d("70"), false)

	assert.True(t, unmatched.IsZero())
	assert.Len(t, disposals, 2)
	assert.True(t, disposals[0].GainLoss.Equal(d("2000")), "oldest lot first: 100 x (70-50)")
	assert.True(t, disposals[1].GainLoss.Equal(d("500")), "then 50 x (70-60)")
	assert.False(t, disposals[0].IsDeemedDisposal)
}

func TestExitTaxEngine_CalculateTax(t *testing.T) {
	t.Run("losses offset gains within the regime", func(t *testing.T) {
		e := NewExitTaxEngine(domain.DefaultTaxRules())
		e.AddAcquisition("A", "Fund A", day(2022, time.January, 1), d("100"), d("10"))
		e.AddAcquisition("B", "Fund B", day(2022, time.January, 1), d("100"), d("10"))

		e.ProcessDisposal("A", day(2024, time.March, 1), d("100"), d("20"), false) // gain 1000
		e.ProcessDisposal("B", day(2024, time.April, 1), d("100"), d("4"), false)  // loss 600

		result := e.CalculateTax(2024, e.Disposals())

		assert.True(t, result.DisposalGains.Equal(d("1000")))
		assert.True(t, result.DisposalLosses.Equal(d("600")))
		assert.True(t, result.TotalGainsTaxable.Equal(d("400")))
		assert.True(t, result.TaxDue.Equal(d("164.00")), "400 x 0.41")
	})

	t.Run("no exemption on small gains", func(t *testing.T) {
		e := NewExitTaxEngine(domain.DefaultTaxRules())
		e.AddAcquisition("A", "Fund A", day(2022, time.January, 1), d("1"), d("10"))
		e.ProcessDisposal("A", day(2024, time.March, 1), d("1"), d("20"), false)

		result := e.CalculateTax(2024, e.Disposals())

		assert.True(t, result.TotalGainsTaxable.Equal(d("10")))
		assert.True(t, result.TaxDue.Equal(d("4.10")), "every euro of gain is taxed")
	})

	t.Run("net loss yields zero tax, never negative", func(t *testing.T) {
		e := NewExitTaxEngine(domain.DefaultTaxRules())
		e.AddAcquisition("A", "Fund A", day(2022, time.January, 1), d("100"), d("10"))
		e.ProcessDisposal("A", day(2024, time.March, 1), d("100"), d("5"), false)

		result := e.CalculateTax(2024, e.Disposals())

		assert.True(t, result.NetDisposalGainLoss.Equal(d("-500")))
		assert.True(t, result.TotalGainsTaxable.IsZero())
		assert.True(t, result.TaxDue.IsZero())
	})

	t.Run("deemed gains are not reduced by ordinary losses", func(t *testing.T) {
		e := NewExitTaxEngine(domain.DefaultTaxRules())
		e.AddAcquisition("A", "Fund A", day(2016, time.March, 1), d("100"), d("10"))
		e.AddAcquisition("B", "Fund B", day(2022, time.January, 1), d("100"), d("10"))

		e.ProcessDisposal("A", day(2024, time.March, 1), d("100"), d("15"), true) // deemed gain 500
		e.ProcessDisposal("B", day(2024, time.April, 1), d("100"), d("2"), false) // loss 800

		result := e.CalculateTax(2024, e.Disposals())

		assert.True(t, result.DeemedDisposalGains.Equal(d("500")))
		assert.True(t, result.NetDisposalGainLoss.Equal(d("-800")))
		assert.True(t, result.TotalGainsTaxable.Equal(d("500")))
		assert.True(t, result.TaxDue.Equal(d("205.00")))
	})
}

func TestExitTaxEngine_DeemedDisposalClock(t *testing.T) {
	e := NewExitTaxEngine(domain.DefaultTaxRules())
	e.AddAcquisition("A", "Fund A", day(2016, time.March, 10), d("100"), d("10"))

	events := e.DeemedDisposalsInYear(2024, nil)
	assert.Len(t, events, 1)
	assert.Equal(t, day(2024, time.March, 10), events[0].DeemedDisposalDate)
	assert.True(t, events[0].CostBasis.Equal(d("1000")))
	assert.Nil(t, events[0].CurrentValue, "no price supplied, no estimate")
}

func TestExitTaxEngine_DeemedDisposalUplift(t *testing.T) {
	e := NewExitTaxEngine(domain.DefaultTaxRules())
	e.AddAcquisition("A", "Fund A", day(2016, time.March, 10), d("100"), d("10"))

	// Deemed disposal at the 8-year mark, fair value 18.
	disposals, unmatched := e.ProcessDisposal("A", day(2024, time.March, 10), d("100"), d("18"), true)
	assert.True(t, unmatched.IsZero())
	assert.Len(t, disposals, 1)
	assert.True(t, disposals[0].IsDeemedDisposal)
	assert.True(t, disposals[0].GainLoss.Equal(d("800")))

	// Clock reset: next deemed disposal is 2032, not 2024.
	events := e.DeemedDisposalsInYear(2032, nil)
	assert.Empty(t, events, "lot was fully consumed by the deemed disposal record")

	// The deemed disposal consumes the lot's remaining quantity; the
	// continued holding re-enters as a lot at the uplifted cost, and a
	// later sale measures gain from the deemed value.
	e.AddAcquisition("A", "Fund A", day(2024, time.March, 10), d("100"), d("18"))
	sale, _ := e.ProcessDisposal("A", day(2025, time.June, 1), d("100"), d("20"), false)
	assert.Len(t, sale, 1)
	assert.True(t, sale[0].GainLoss.Equal(d("200")), "20-18 per unit, not 20-10")
}

func TestExitTaxEngine_LeapDayClockClamps(t *testing.T) {
	e := NewExitTaxEngine(domain.DefaultTaxRules())
	e.AddAcquisition("A", "Fund A", day(2020, time.February, 29), d("10"), d("100"))

	events := e.DeemedDisposalsInYear(2028, nil)
	assert.Len(t, events, 1)
	assert.Equal(t, day(2028, time.February, 29), events[0].DeemedDisposalDate, "2028 is a leap year")
}

func TestExitTaxEngine_UpcomingDeemedDisposals(t *testing.T) {
	e := NewExitTaxEngine(domain.DefaultTaxRules())
	e.AddAcquisition("A", "Fund A", day(2017, time.June, 1), d("100"), d("10"))
	e.AddAcquisition("B", "Fund B", day(2018, time.February, 1), d("50"), d("20"))
	e.AddAcquisition("C", "Fund C", day(2023, time.January, 1), d("10"), d("30"))

	prices := map[string]decimal.Decimal{
		"A": d("25"),
	}

	asOf := day(2024, time.December, 31)
	events := e.UpcomingDeemedDisposals(asOf, 3, prices)

	// A due 2025-06-01 and B due 2026-02-01; C's 2031 date is outside.
	assert.Len(t, events, 2)
	assert.Equal(t, "A", events[0].ISIN, "sorted by due date")
	assert.Equal(t, "B", events[1].ISIN)

	assert.NotNil(t, events[0].CurrentValue)
	assert.True(t, events[0].CurrentValue.Equal(d("2500")))
	assert.True(t, events[0].EstimatedGain.Equal(d("1500")))
	assert.True(t, events[0].EstimatedTax.Equal(d("615.00")), "1500 x 0.41")

	assert.Nil(t, events[1].CurrentValue, "no price for B")
}
