package calculation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/podonoghue/ietaxcalc/internal/domain"
	"github.com/podonoghue/ietaxcalc/pkg/dateutil"
)

// ExitTaxEngine maintains fund lots for EU-domiciled fund holdings
// and computes Exit Tax on disposals. The statute differs from CGT in
// every way that matters:
//
//   - matching is FIFO only (no same-day or bed & breakfast passes)
//   - 41% rate, no annual exemption
//   - losses offset gains within the regime but never cross into CGT
//   - every lot carries an 8-year deemed disposal clock
//
// Like the CGT matcher, an engine instance is scoped to a single
// computation run.
type ExitTaxEngine struct {
	Rules domain.TaxRules

	holdings  map[string][]*domain.FundLot
	disposals []domain.ExitTaxDisposal
}

// NewExitTaxEngine creates an engine with the given statutory rules.
func NewExitTaxEngine(rules domain.TaxRules) *ExitTaxEngine {
	return &ExitTaxEngine{
		Rules:    rules.Merged(),
		holdings: make(map[string][]*domain.FundLot),
	}
}

// AddAcquisition appends a fund lot with its deemed disposal date set
// a full cycle out (Feb 29 acquisitions clamp to Feb 28 in non-leap
// years), keeping the asset's lots ordered by acquisition date.
func (e *ExitTaxEngine) AddAcquisition(isin, name string, date time.Time, quantity, unitCost decimal.Decimal) {
	lot := &domain.FundLot{
		ISIN:               isin,
		Name:               name,
		AcquisitionDate:    date,
		Quantity:           quantity,
		UnitCost:           unitCost,
		TotalCost:          quantity.Mul(unitCost),
		RemainingQuantity:  quantity,
		DeemedDisposalDate: dateutil.AddYears(date, e.Rules.DeemedDisposalYears),
	}
	e.holdings[isin] = append(e.holdings[isin], lot)
	sort.SliceStable(e.holdings[isin], func(i, j int) bool {
		return e.holdings[isin][i].AcquisitionDate.Before(e.holdings[isin][j].AcquisitionDate)
	})
}

// ProcessDisposal matches a fund disposal FIFO against the asset's
// lots. For a deemed disposal the consumed lot's cost basis is
// uplifted to the disposal price and its deemed disposal clock is
// advanced another cycle, so future gains are measured from the
// deemed value forward. Returns the disposal records made plus any
// unmatched quantity.
func (e *ExitTaxEngine) ProcessDisposal(isin string, date time.Time, quantity, unitPrice decimal.Decimal, isDeemed bool) ([]domain.ExitTaxDisposal, decimal.Decimal) {
	lots := e.holdings[isin]
	if len(lots) == 0 {
		return nil, quantity
	}

	remaining := quantity
	var disposals []domain.ExitTaxDisposal

	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		if !lot.RemainingQuantity.IsPositive() {
			continue
		}

		matchQty := decimal.Min(remaining, lot.RemainingQuantity)
		costBasis := matchQty.Mul(lot.UnitCost)
		proceeds := matchQty.Mul(unitPrice)

		disposals = append(disposals, domain.ExitTaxDisposal{
			DisposalDate:     date,
			ISIN:             isin,
			Quantity:         matchQty,
			UnitPrice:        unitPrice,
			Proceeds:         proceeds,
			CostBasis:        costBasis,
			GainLoss:         proceeds.Sub(costBasis),
			IsDeemedDisposal: isDeemed,
		})

		lot.RemainingQuantity = lot.RemainingQuantity.Sub(matchQty)
		remaining = remaining.Sub(matchQty)

		if isDeemed {
			lot.DeemedDisposalProcessed = true
			lot.UnitCost = unitPrice
			lot.DeemedDisposalDate = dateutil.AddYears(date, e.Rules.DeemedDisposalYears)
		}
	}

	e.disposals = append(e.disposals, disposals...)
	return disposals, remaining
}

// Disposals returns all disposal records made so far, actual and
// deemed.
func (e *ExitTaxEngine) Disposals() []domain.ExitTaxDisposal {
	return e.disposals
}

// DeemedDisposalsInYear projects the deemed disposal events falling in
// the given tax year across all open lots. Prices, keyed by ISIN, are
// optional; when present the event carries an estimated gain and tax.
func (e *ExitTaxEngine) DeemedDisposalsInYear(taxYear int, prices map[string]decimal.Decimal) []domain.DeemedDisposalEvent {
	start := dateutil.YearStart(taxYear)
	end := dateutil.YearEnd(taxYear)
	return e.collectDeemedEvents(func(d time.Time) bool {
		return !d.Before(start) && !d.After(end)
	}, prices)
}

// UpcomingDeemedDisposals projects deemed disposals due after asOf and
// within yearsAhead years, sorted by date, for planning views.
func (e *ExitTaxEngine) UpcomingDeemedDisposals(asOf time.Time, yearsAhead int, prices map[string]decimal.Decimal) []domain.DeemedDisposalEvent {
	cutoff := dateutil.AddYears(asOf, yearsAhead)
	events := e.collectDeemedEvents(func(d time.Time) bool {
		return d.After(asOf) && !d.After(cutoff)
	}, prices)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DeemedDisposalDate.Before(events[j].DeemedDisposalDate)
	})
	return events
}

func (e *ExitTaxEngine) collectDeemedEvents(inWindow func(time.Time) bool, prices map[string]decimal.Decimal) []domain.DeemedDisposalEvent {
	var events []domain.DeemedDisposalEvent
	for isin, lots := range e.holdings {
		for _, lot := range lots {
			if !lot.RemainingQuantity.IsPositive() || !inWindow(lot.DeemedDisposalDate) {
				continue
			}

			event := domain.DeemedDisposalEvent{
				ISIN:                    isin,
				Name:                    lot.Name,
				OriginalAcquisitionDate: lot.AcquisitionDate,
				DeemedDisposalDate:      lot.DeemedDisposalDate,
				Quantity:                lot.RemainingQuantity,
				CostBasis:               lot.RemainingQuantity.Mul(lot.UnitCost),
			}

			if price, ok := prices[isin]; ok && price.IsPositive() {
				currentValue := lot.RemainingQuantity.Mul(price)
				estimatedGain := currentValue.Sub(event.CostBasis)
				event.CurrentValue = &currentValue
				event.EstimatedGain = &estimatedGain
				if estimatedGain.IsPositive() {
					estimatedTax := domain.RoundTax(estimatedGain.Mul(e.Rules.ExitTaxRate))
					event.EstimatedTax = &estimatedTax
				}
			}

			events = append(events, event)
		}
	}
	return events
}

// CalculateTax aggregates the given disposals for a tax year. Ordinary
// losses offset ordinary gains within the regime; deemed disposal
// gains are added on top untouched, and no exemption is ever applied.
func (e *ExitTaxEngine) CalculateTax(taxYear int, disposals []domain.ExitTaxDisposal) *domain.ExitTaxResult {
	result := &domain.ExitTaxResult{
		TaxYear: taxYear,
		TaxRate: e.Rules.ExitTaxRate,
	}

	for _, disposal := range disposals {
		if disposal.DisposalDate.Year() != taxYear {
			continue
		}

		result.Disposals = append(result.Disposals, disposal)

		if disposal.IsDeemedDisposal {
			if disposal.GainLoss.IsPositive() {
				result.DeemedDisposalGains = result.DeemedDisposalGains.Add(disposal.GainLoss)
			}
		} else if disposal.GainLoss.IsPositive() {
			result.DisposalGains = result.DisposalGains.Add(disposal.GainLoss)
		} else {
			result.DisposalLosses = result.DisposalLosses.Add(disposal.GainLoss.Abs())
		}
	}

	result.NetDisposalGainLoss = result.DisposalGains.Sub(result.DisposalLosses)
	result.TotalGainsTaxable = decimal.Max(decimal.Zero, result.NetDisposalGainLoss).Add(result.DeemedDisposalGains)
	result.TaxDue = domain.RoundTax(result.TotalGainsTaxable.Mul(e.Rules.ExitTaxRate))

	return result
}
