package calculation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/podonoghue/ietaxcalc/internal/domain"
	"github.com/podonoghue/ietaxcalc/pkg/dateutil"
)

// CGTMatcher maintains per-asset acquisition lots and matches
// disposals against them under the Irish Revenue ordering:
//
//  1. same-day acquisitions
//  2. acquisitions within the next 4 weeks (bed & breakfast rule)
//  3. FIFO over older lots
//
// The sequencing is anti-avoidance law, not an optimization choice:
// same-day trades are netted first, then a repurchase within 4 weeks
// of a sale is force-matched against the repurchase's cost to deny
// loss harvesting, and only then does ordinary FIFO apply.
//
// A matcher owns its lots for the lifetime of one computation run and
// must not be shared across concurrent computations: lot consumption
// is destructive.
type CGTMatcher struct {
	Rules domain.TaxRules

	// holdings keeps each asset's lots ordered oldest first. Fully
	// consumed lots remain as history with remaining quantity zero.
	holdings map[string][]*domain.AcquisitionLot
	matches  []domain.DisposalMatch
}

// NewCGTMatcher creates a matcher with the given statutory rules.
func NewCGTMatcher(rules domain.TaxRules) *CGTMatcher {
	return &CGTMatcher{
		Rules:    rules.Merged(),
		holdings: make(map[string][]*domain.AcquisitionLot),
	}
}

// AddAcquisition appends a new lot for the asset and keeps the lot
// list ordered by acquisition date (stable, so same-date lots keep
// insertion order).
func (m *CGTMatcher) AddAcquisition(isin string, date time.Time, quantity, unitCost decimal.Decimal) {
	lot := &domain.AcquisitionLot{
		AcquisitionDate:   date,
		Quantity:          quantity,
		UnitCost:          unitCost,
		TotalCost:         quantity.Mul(unitCost),
		RemainingQuantity: quantity,
	}
	m.holdings[isin] = append(m.holdings[isin], lot)
	sort.SliceStable(m.holdings[isin], func(i, j int) bool {
		return m.holdings[isin][i].AcquisitionDate.Before(m.holdings[isin][j].AcquisitionDate)
	})
}

// ProcessDisposal matches a disposal against the asset's lots and
// returns the matches made plus any quantity that could not be
// matched. An unknown asset or an empty lot list yields no matches
// and the full quantity unmatched; selling more than held matches the
// available quantity and reports the shortfall.
func (m *CGTMatcher) ProcessDisposal(isin string, date time.Time, quantity, unitPrice decimal.Decimal) ([]domain.DisposalMatch, decimal.Decimal) {
	lots := m.holdings[isin]
	if len(lots) == 0 {
		return nil, quantity
	}

	remaining := quantity
	var matches []domain.DisposalMatch

	remaining, matches = m.matchSameDay(lots, date, unitPrice, remaining, matches)
	if remaining.IsPositive() {
		remaining, matches = m.matchBedBreakfast(lots, date, unitPrice, remaining, matches)
	}
	if remaining.IsPositive() {
		remaining, matches = m.matchFIFO(lots, date, unitPrice, remaining, matches)
	}

	m.matches = append(m.matches, matches...)
	return matches, remaining
}

// matchSameDay consumes lots acquired on the disposal date itself.
func (m *CGTMatcher) matchSameDay(lots []*domain.AcquisitionLot, date time.Time, unitPrice, remaining decimal.Decimal, matches []domain.DisposalMatch) (decimal.Decimal, []domain.DisposalMatch) {
	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		if dateutil.SameDay(lot.AcquisitionDate, date) && lot.RemainingQuantity.IsPositive() {
			remaining, matches = consumeLot(lot, date, unitPrice, remaining, domain.MatchSameDay, matches)
		}
	}
	return remaining, matches
}

// matchBedBreakfast consumes lots acquired strictly after the
// disposal date and within the 4-week window, earliest first.
func (m *CGTMatcher) matchBedBreakfast(lots []*domain.AcquisitionLot, date time.Time, unitPrice, remaining decimal.Decimal, matches []domain.DisposalMatch) (decimal.Decimal, []domain.DisposalMatch) {
	cutoff := date.AddDate(0, 0, m.Rules.BedBreakfastDays)

	var window []*domain.AcquisitionLot
	for _, lot := range lots {
		if lot.AcquisitionDate.After(date) && !lot.AcquisitionDate.After(cutoff) && lot.RemainingQuantity.IsPositive() {
			window = append(window, lot)
		}
	}
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].AcquisitionDate.Before(window[j].AcquisitionDate)
	})

	for _, lot := range window {
		if !remaining.IsPositive() {
			break
		}
		remaining, matches = consumeLot(lot, date, unitPrice, remaining, domain.MatchBedBreakfast, matches)
	}
	return remaining, matches
}

// matchFIFO consumes lots acquired strictly before the disposal date,
// oldest first. Lots used by the earlier passes fall outside this
// window, and their remaining quantity has already been decremented.
func (m *CGTMatcher) matchFIFO(lots []*domain.AcquisitionLot, date time.Time, unitPrice, remaining decimal.Decimal, matches []domain.DisposalMatch) (decimal.Decimal, []domain.DisposalMatch) {
	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		if lot.AcquisitionDate.Before(date) && !dateutil.SameDay(lot.AcquisitionDate, date) && lot.RemainingQuantity.IsPositive() {
			remaining, matches = consumeLot(lot, date, unitPrice, remaining, domain.MatchFIFO, matches)
		}
	}
	return remaining, matches
}

// consumeLot takes min(remaining, lot.remaining) from the lot and
// records the match. Cost basis and proceeds are exact decimals; no
// rounding happens here.
func consumeLot(lot *domain.AcquisitionLot, date time.Time, unitPrice, remaining decimal.Decimal, rule domain.MatchRule, matches []domain.DisposalMatch) (decimal.Decimal, []domain.DisposalMatch) {
	matchQty := decimal.Min(remaining, lot.RemainingQuantity)
	costBasis := matchQty.Mul(lot.UnitCost)
	proceeds := matchQty.Mul(unitPrice)

	matches = append(matches, domain.DisposalMatch{
		DisposalDate:    date,
		AcquisitionDate: lot.AcquisitionDate,
		QuantityMatched: matchQty,
		CostBasis:       costBasis,
		Proceeds:        proceeds,
		GainLoss:        proceeds.Sub(costBasis),
		Rule:            rule,
	})

	lot.RemainingQuantity = lot.RemainingQuantity.Sub(matchQty)
	return remaining.Sub(matchQty), matches
}

// Matches returns all disposal matches recorded so far.
func (m *CGTMatcher) Matches() []domain.DisposalMatch {
	return m.matches
}

// RemainingHoldings returns the asset's lots that still have unsold
// quantity.
func (m *CGTMatcher) RemainingHoldings(isin string) []*domain.AcquisitionLot {
	var open []*domain.AcquisitionLot
	for _, lot := range m.holdings[isin] {
		if lot.RemainingQuantity.IsPositive() {
			open = append(open, lot)
		}
	}
	return open
}

// TotalCostBasis returns the cost basis of the asset's unsold
// quantity.
func (m *CGTMatcher) TotalCostBasis(isin string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range m.RemainingHoldings(isin) {
		total = total.Add(lot.RemainingQuantity.Mul(lot.UnitCost))
	}
	return total
}

// CalculateTax aggregates the recorded matches for a tax year into a
// CGTResult. Pure over the accumulated match history: calling it
// twice with the same inputs yields identical results.
func (m *CGTMatcher) CalculateTax(taxYear int, lossesBroughtForward decimal.Decimal) *domain.CGTResult {
	result := &domain.CGTResult{
		TaxYear:         taxYear,
		AnnualExemption: m.Rules.AnnualExemption,
		TaxRate:         m.Rules.CGTRate,
	}

	for _, match := range m.matches {
		if match.DisposalDate.Year() != taxYear {
			continue
		}

		if match.GainLoss.IsPositive() {
			result.TotalGains = result.TotalGains.Add(match.GainLoss)
			if match.DisposalDate.Month() < time.December {
				result.JanNovGains = result.JanNovGains.Add(match.GainLoss)
			} else {
				result.DecGains = result.DecGains.Add(match.GainLoss)
			}
		} else {
			result.TotalLosses = result.TotalLosses.Add(match.GainLoss.Abs())
		}
		result.DisposalMatches = append(result.DisposalMatches, match)
	}

	result.NetGainLoss = result.TotalGains.Sub(result.TotalLosses).Sub(lossesBroughtForward)

	if result.NetGainLoss.IsPositive() {
		result.ExemptionUsed = decimal.Min(result.NetGainLoss, m.Rules.AnnualExemption)
		result.TaxableGain = result.NetGainLoss.Sub(result.ExemptionUsed)
		result.TaxDue = domain.RoundTax(result.TaxableGain.Mul(m.Rules.CGTRate))

		// Per-period tax determines which payment deadline carries the
		// liability. The exemption is applied against the Jan-Nov net
		// first; December only gets whatever exemption is left.
		if result.JanNovGains.GreaterThan(result.TotalLosses) {
			janNovNet := result.JanNovGains.Sub(result.TotalLosses).Sub(lossesBroughtForward)
			janNovTaxable := decimal.Max(decimal.Zero, janNovNet.Sub(m.Rules.AnnualExemption))
			result.JanNovTax = domain.RoundTax(janNovTaxable.Mul(m.Rules.CGTRate))
		}

		if result.DecGains.IsPositive() {
			janNovConsumed := decimal.Max(decimal.Zero, result.JanNovGains.Sub(result.TotalLosses))
			remainingExemption := decimal.Max(decimal.Zero, m.Rules.AnnualExemption.Sub(janNovConsumed))
			decTaxable := decimal.Max(decimal.Zero, result.DecGains.Sub(remainingExemption))
			result.DecTax = domain.RoundTax(decTaxable.Mul(m.Rules.CGTRate))
		}
	} else {
		result.LossesToCarryForward = result.NetGainLoss.Abs()
	}

	return result
}
