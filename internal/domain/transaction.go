package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the direction of a brokerage transaction.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// IncomeType identifies the kind of income event received.
type IncomeType string

const (
	IncomeInterest     IncomeType = "interest"
	IncomeDividend     IncomeType = "dividend"
	IncomeDistribution IncomeType = "distribution"
)

// Person is a tax-resident individual whose transactions are computed
// independently. Each person receives their own annual CGT exemption.
type Person struct {
	Name string `yaml:"name" json:"name"`
}

// Transaction is a single buy or sell of an asset, as handed to the
// engine by the ingestion layer. Quantity and Amount are always
// non-negative; the config boundary rejects anything else.
type Transaction struct {
	Person   string          `yaml:"person" json:"person"`
	ISIN     string          `yaml:"isin" json:"isin"`
	Name     string          `yaml:"name" json:"name"`
	Type     TransactionType `yaml:"type" json:"type"`
	Date     time.Time       `yaml:"date" json:"date"`
	Quantity decimal.Decimal `yaml:"quantity" json:"quantity"`
	Amount   decimal.Decimal `yaml:"amount" json:"amount"`
	Fees     decimal.Decimal `yaml:"fees" json:"fees"`
}

// UnitPrice returns the per-unit price implied by the gross amount.
// Returns zero for a zero quantity rather than dividing by it.
func (t Transaction) UnitPrice() decimal.Decimal {
	if t.Quantity.IsZero() {
		return decimal.Zero
	}
	return t.Amount.Div(t.Quantity)
}

// IncomeEvent is an interest, dividend or distribution payment.
type IncomeEvent struct {
	Person         string          `yaml:"person" json:"person"`
	Type           IncomeType      `yaml:"type" json:"type"`
	Date           time.Time       `yaml:"date" json:"date"`
	GrossAmount    decimal.Decimal `yaml:"gross_amount" json:"gross_amount"`
	WithholdingTax decimal.Decimal `yaml:"withholding_tax" json:"withholding_tax"`
	Source         string          `yaml:"source" json:"source"`
}
