package calculation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/podonoghue/ietaxcalc/internal/classify"
	"github.com/podonoghue/ietaxcalc/internal/domain"
	"github.com/podonoghue/ietaxcalc/pkg/dateutil"
)

// Logger is a minimal leveled logging interface so the engine can
// emit diagnostics without depending on a concrete logging setup.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// CalculationEngine replays a transaction history through per-person
// CGT, Exit Tax and DIRT calculators and assembles the combined tax
// report for a year. An engine instance performs one computation pass
// and is not safe for concurrent use: lot consumption is destructive,
// and replaying history into fresh calculators is the only supported
// way to get a consistent view.
type CalculationEngine struct {
	Rules  domain.TaxRules
	Debug  bool
	logger Logger

	cgt     map[string]*CGTMatcher
	exitTax map[string]*ExitTaxEngine
	dirt    *DIRTCalculator

	dividends []domain.IncomeEvent
	warnings  []domain.MatchWarning
}

// NewCalculationEngine creates an engine with the given statutory
// rules.
func NewCalculationEngine(rules domain.TaxRules) *CalculationEngine {
	rules = rules.Merged()
	return &CalculationEngine{
		Rules:   rules,
		logger:  nopLogger{},
		cgt:     make(map[string]*CGTMatcher),
		exitTax: make(map[string]*ExitTaxEngine),
		dirt:    NewDIRTCalculator(rules),
	}
}

// SetLogger installs a logger for diagnostic output.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l != nil {
		ce.logger = l
	}
}

func (ce *CalculationEngine) cgtFor(person string) *CGTMatcher {
	m, ok := ce.cgt[person]
	if !ok {
		m = NewCGTMatcher(ce.Rules)
		ce.cgt[person] = m
	}
	return m
}

func (ce *CalculationEngine) exitTaxFor(person string) *ExitTaxEngine {
	e, ok := ce.exitTax[person]
	if !ok {
		e = NewExitTaxEngine(ce.Rules)
		ce.exitTax[person] = e
	}
	return e
}

// ProcessTransaction classifies the transaction's asset and routes it
// to the owning person's CGT matcher or Exit Tax engine. Cash-class
// records carry no asset lots and are skipped.
func (ce *CalculationEngine) ProcessTransaction(tx domain.Transaction) {
	class := classify.Classify(tx.ISIN, tx.Name)
	if class == classify.ClassCash || tx.Quantity.IsZero() {
		return
	}

	unitPrice := tx.UnitPrice()

	switch tx.Type {
	case domain.TransactionBuy:
		if class == classify.ClassExitTax {
			ce.exitTaxFor(tx.Person).AddAcquisition(tx.ISIN, tx.Name, tx.Date, tx.Quantity, unitPrice)
		} else {
			ce.cgtFor(tx.Person).AddAcquisition(tx.ISIN, tx.Date, tx.Quantity, unitPrice)
		}
	case domain.TransactionSell:
		var unmatched decimal.Decimal
		if class == classify.ClassExitTax {
			_, unmatched = ce.exitTaxFor(tx.Person).ProcessDisposal(tx.ISIN, tx.Date, tx.Quantity, unitPrice, false)
		} else {
			_, unmatched = ce.cgtFor(tx.Person).ProcessDisposal(tx.ISIN, tx.Date, tx.Quantity, unitPrice)
		}
		if unmatched.IsPositive() {
			ce.logger.Warnf("disposal of %s %s on %s: %s units unmatched",
				tx.Quantity, tx.ISIN, tx.Date.Format("2006-01-02"), unmatched)
			ce.warnings = append(ce.warnings, domain.MatchWarning{
				Person:            tx.Person,
				ISIN:              tx.ISIN,
				DisposalDate:      tx.Date,
				RequestedQuantity: tx.Quantity,
				UnmatchedQuantity: unmatched,
			})
		}
	}
}

// ProcessIncome routes interest to the DIRT calculator and keeps
// dividends and distributions for the report's income summary.
func (ce *CalculationEngine) ProcessIncome(ev domain.IncomeEvent) {
	switch ev.Type {
	case domain.IncomeInterest:
		ce.dirt.AddInterestPayment(ev.Date, ev.GrossAmount, ev.WithholdingTax, ev.Source)
	case domain.IncomeDividend, domain.IncomeDistribution:
		ce.dividends = append(ce.dividends, ev)
	}
}

// RunTaxYear replays the configuration's history up to and including
// the target year and produces the combined tax report. Brought
// forward CGT losses are split evenly across the persons with
// disposal matches in the year; that allocation is a policy choice of
// this tool, not tax law.
func (ce *CalculationEngine) RunTaxYear(cfg *domain.Configuration, taxYear int, lossesBroughtForward decimal.Decimal) *domain.TaxReport {
	yearEnd := dateutil.YearEnd(taxYear)

	transactions := make([]domain.Transaction, len(cfg.Transactions))
	copy(transactions, cfg.Transactions)
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})

	// CGT acquisitions are loaded ahead of the disposal replay: the
	// bed & breakfast pass must see repurchases dated after a sale,
	// which a strictly chronological replay would never present. The
	// matcher's own date windows keep later lots out of the same-day
	// and FIFO passes. Exit Tax lots stay in the chronological replay;
	// its FIFO matching has no lookahead window.
	for _, tx := range transactions {
		if tx.Date.After(yearEnd) {
			continue
		}
		if tx.Type == domain.TransactionBuy && !tx.Quantity.IsZero() &&
			classify.Classify(tx.ISIN, tx.Name) == classify.ClassCGT {
			ce.ProcessTransaction(tx)
		}
	}
	for _, tx := range transactions {
		if tx.Date.After(yearEnd) {
			continue
		}
		if tx.Type == domain.TransactionBuy &&
			classify.Classify(tx.ISIN, tx.Name) == classify.ClassCGT {
			continue
		}
		ce.ProcessTransaction(tx)
	}
	for _, ev := range cfg.Income {
		if ev.Date.After(yearEnd) {
			continue
		}
		ce.ProcessIncome(ev)
	}

	report := &domain.TaxReport{
		TaxYear:       taxYear,
		GeneratedDate: time.Now(),
		Persons:       cfg.PersonNames(),
		CGTByPerson:   make(map[string]*domain.CGTResult),
		Warnings:      ce.warnings,
	}

	// CGT: compute per person with an even loss split, then combine.
	lossShares := ce.splitLossesBroughtForward(taxYear, lossesBroughtForward)
	var cgtResults []*domain.CGTResult
	for _, person := range cfg.PersonNames() {
		matcher, ok := ce.cgt[person]
		if !ok {
			continue
		}
		result := matcher.CalculateTax(taxYear, lossShares[person])
		report.CGTByPerson[person] = result
		cgtResults = append(cgtResults, result)
	}
	report.CGT = combineCGTResults(taxYear, ce.Rules, cgtResults)

	// Exit Tax: per-person results summed so one person's losses never
	// offset another's gains.
	report.ExitTax = ce.combinedExitTaxResult(taxYear, cfg.Prices)

	report.DIRT = ce.dirt.CalculateTax(taxYear)

	for _, div := range ce.dividends {
		if div.Date.Year() != taxYear {
			continue
		}
		report.TotalDividends = report.TotalDividends.Add(div.GrossAmount)
		report.DividendWithholdingTax = report.DividendWithholdingTax.Add(div.WithholdingTax)
	}

	report.TotalTaxDue = report.CGT.TaxDue.Add(report.ExitTax.TaxDue).Add(report.DIRT.DIRTToPay)

	gen := NewReportGenerator(ce.Rules)
	report.PaymentDeadlines = gen.PaymentDeadlines(report)
	report.FormFields = gen.FormFields(report)

	ce.logger.Infof("tax year %d: CGT %s, Exit Tax %s, DIRT %s, total %s",
		taxYear, report.CGT.TaxDue, report.ExitTax.TaxDue, report.DIRT.DIRTToPay, report.TotalTaxDue)

	return report
}

// splitLossesBroughtForward allocates carried losses evenly across the
// persons that have CGT matches in the year.
func (ce *CalculationEngine) splitLossesBroughtForward(taxYear int, losses decimal.Decimal) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal)
	if !losses.IsPositive() {
		return shares
	}

	var withMatches []string
	for person, matcher := range ce.cgt {
		for _, match := range matcher.Matches() {
			if match.DisposalDate.Year() == taxYear {
				withMatches = append(withMatches, person)
				break
			}
		}
	}
	if len(withMatches) == 0 {
		return shares
	}

	share := losses.Div(decimal.NewFromInt(int64(len(withMatches))))
	for _, person := range withMatches {
		shares[person] = share
	}
	return shares
}

// combineCGTResults sums per-person results into the household view.
// Each person keeps an independent exemption, so the combined
// exemption scales with the number of persons that had disposals.
func combineCGTResults(taxYear int, rules domain.TaxRules, results []*domain.CGTResult) *domain.CGTResult {
	combined := &domain.CGTResult{
		TaxYear:         taxYear,
		AnnualExemption: rules.AnnualExemption,
		TaxRate:         rules.CGTRate,
	}
	if len(results) > 0 {
		combined.AnnualExemption = rules.AnnualExemption.Mul(decimal.NewFromInt(int64(len(results))))
	}

	for _, r := range results {
		combined.TotalGains = combined.TotalGains.Add(r.TotalGains)
		combined.TotalLosses = combined.TotalLosses.Add(r.TotalLosses)
		combined.NetGainLoss = combined.NetGainLoss.Add(r.NetGainLoss)
		combined.ExemptionUsed = combined.ExemptionUsed.Add(r.ExemptionUsed)
		combined.TaxableGain = combined.TaxableGain.Add(r.TaxableGain)
		combined.TaxDue = combined.TaxDue.Add(r.TaxDue)
		combined.JanNovGains = combined.JanNovGains.Add(r.JanNovGains)
		combined.JanNovTax = combined.JanNovTax.Add(r.JanNovTax)
		combined.DecGains = combined.DecGains.Add(r.DecGains)
		combined.DecTax = combined.DecTax.Add(r.DecTax)
		combined.LossesToCarryForward = combined.LossesToCarryForward.Add(r.LossesToCarryForward)
		combined.DisposalMatches = append(combined.DisposalMatches, r.DisposalMatches...)
	}
	return combined
}

func (ce *CalculationEngine) combinedExitTaxResult(taxYear int, prices map[string]decimal.Decimal) *domain.ExitTaxResult {
	combined := &domain.ExitTaxResult{
		TaxYear: taxYear,
		TaxRate: ce.Rules.ExitTaxRate,
	}

	asOf := dateutil.YearEnd(taxYear)
	for _, engine := range ce.exitTax {
		r := engine.CalculateTax(taxYear, engine.Disposals())
		combined.DisposalGains = combined.DisposalGains.Add(r.DisposalGains)
		combined.DisposalLosses = combined.DisposalLosses.Add(r.DisposalLosses)
		combined.NetDisposalGainLoss = combined.NetDisposalGainLoss.Add(r.NetDisposalGainLoss)
		combined.DeemedDisposalGains = combined.DeemedDisposalGains.Add(r.DeemedDisposalGains)
		combined.TotalGainsTaxable = combined.TotalGainsTaxable.Add(r.TotalGainsTaxable)
		combined.TaxDue = combined.TaxDue.Add(r.TaxDue)
		combined.Disposals = append(combined.Disposals, r.Disposals...)
		combined.UpcomingDeemedDisposals = append(combined.UpcomingDeemedDisposals,
			engine.UpcomingDeemedDisposals(asOf, 3, prices)...)
	}

	sort.SliceStable(combined.UpcomingDeemedDisposals, func(i, j int) bool {
		return combined.UpcomingDeemedDisposals[i].DeemedDisposalDate.Before(combined.UpcomingDeemedDisposals[j].DeemedDisposalDate)
	})
	return combined
}

// DeemedDisposalSchedule replays the full history and returns the
// deemed disposal events due within yearsAhead of asOf, across all
// persons, for the planning command.
func (ce *CalculationEngine) DeemedDisposalSchedule(cfg *domain.Configuration, asOf time.Time, yearsAhead int) []domain.DeemedDisposalEvent {
	transactions := make([]domain.Transaction, len(cfg.Transactions))
	copy(transactions, cfg.Transactions)
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})
	for _, tx := range transactions {
		ce.ProcessTransaction(tx)
	}

	var events []domain.DeemedDisposalEvent
	for _, engine := range ce.exitTax {
		events = append(events, engine.UpcomingDeemedDisposals(asOf, yearsAhead, cfg.Prices)...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DeemedDisposalDate.Before(events[j].DeemedDisposalDate)
	})
	return events
}
