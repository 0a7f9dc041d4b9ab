package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchRule names the Revenue matching rule that paired a disposal
// with an acquisition lot.
type MatchRule string

const (
	MatchSameDay      MatchRule = "same_day"
	MatchBedBreakfast MatchRule = "bed_breakfast"
	MatchFIFO         MatchRule = "fifo"
)

// AcquisitionLot is one batch of shares bought on a single date.
// RemainingQuantity is consumed in place as disposals are matched;
// fully consumed lots stay in the holding history with remaining zero.
type AcquisitionLot struct {
	AcquisitionDate   time.Time       `json:"acquisition_date"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
}

// FundLot is the Exit Tax analogue of an AcquisitionLot. It carries
// the rolling 8-year deemed disposal clock: processing a deemed
// disposal uplifts UnitCost to the fair value used and advances
// DeemedDisposalDate by another 8 years.
type FundLot struct {
	ISIN                    string          `json:"isin"`
	Name                    string          `json:"name"`
	AcquisitionDate         time.Time       `json:"acquisition_date"`
	Quantity                decimal.Decimal `json:"quantity"`
	UnitCost                decimal.Decimal `json:"unit_cost"`
	TotalCost               decimal.Decimal `json:"total_cost"`
	RemainingQuantity       decimal.Decimal `json:"remaining_quantity"`
	DeemedDisposalDate      time.Time       `json:"deemed_disposal_date"`
	DeemedDisposalProcessed bool            `json:"deemed_disposal_processed"`
}

// DisposalMatch records one disposal portion matched against one lot.
// A disposal spanning several lots produces several matches.
type DisposalMatch struct {
	DisposalDate    time.Time       `json:"disposal_date"`
	AcquisitionDate time.Time       `json:"acquisition_date"`
	QuantityMatched decimal.Decimal `json:"quantity_matched"`
	CostBasis       decimal.Decimal `json:"cost_basis"`
	Proceeds        decimal.Decimal `json:"proceeds"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	Rule            MatchRule       `json:"matching_rule"`
}

// ExitTaxDisposal records one fund disposal portion matched FIFO
// against one fund lot. IsDeemedDisposal marks the statutory 8-year
// deemed sale rather than an actual trade.
type ExitTaxDisposal struct {
	DisposalDate     time.Time       `json:"disposal_date"`
	ISIN             string          `json:"isin"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Proceeds         decimal.Decimal `json:"proceeds"`
	CostBasis        decimal.Decimal `json:"cost_basis"`
	GainLoss         decimal.Decimal `json:"gain_loss"`
	IsDeemedDisposal bool            `json:"is_deemed_disposal"`
}

// DeemedDisposalEvent is a forward-looking projection of a fund lot's
// deemed disposal, used for planning. The estimate fields are only
// populated when a current market price was supplied.
type DeemedDisposalEvent struct {
	ISIN                    string           `json:"isin"`
	Name                    string           `json:"name"`
	OriginalAcquisitionDate time.Time        `json:"acquisition_date"`
	DeemedDisposalDate      time.Time        `json:"deemed_disposal_date"`
	Quantity                decimal.Decimal  `json:"quantity"`
	CostBasis               decimal.Decimal  `json:"cost_basis"`
	CurrentValue            *decimal.Decimal `json:"current_value,omitempty"`
	EstimatedGain           *decimal.Decimal `json:"estimated_gain,omitempty"`
	EstimatedTax            *decimal.Decimal `json:"estimated_tax,omitempty"`
}

// MatchWarning flags a disposal that could not be fully matched
// against held lots. The matched portion is still computed; the
// shortfall is surfaced here instead of being silently truncated.
type MatchWarning struct {
	Person            string          `json:"person"`
	ISIN              string          `json:"isin"`
	DisposalDate      time.Time       `json:"disposal_date"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	UnmatchedQuantity decimal.Decimal `json:"unmatched_quantity"`
}
