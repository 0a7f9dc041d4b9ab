package integration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podonoghue/ietaxcalc/internal/calculation"
	"github.com/podonoghue/ietaxcalc/internal/config"
	"github.com/podonoghue/ietaxcalc/internal/domain"
	"github.com/podonoghue/ietaxcalc/internal/output"
)

func loadExample(t *testing.T) *domain.Configuration {
	t.Helper()
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile("../testdata/example_input.yaml")
	require.NoError(t, err, "should load example input")
	return cfg
}

// TestBasicIntegration exercises the full pipeline: parse, compute,
// format.
func TestBasicIntegration(t *testing.T) {
	t.Run("configuration_loading", func(t *testing.T) {
		cfg := loadExample(t)

		assert.Len(t, cfg.Persons, 2)
		assert.Len(t, cfg.Transactions, 6)
		assert.Len(t, cfg.Income, 2)
		assert.True(t, cfg.Rules.CGTRate.Equal(decimal.NewFromFloat(0.33)), "defaults merged in")
	})

	t.Run("full_tax_year", func(t *testing.T) {
		cfg := loadExample(t)

		engine := calculation.NewCalculationEngine(cfg.Rules)
		report := engine.RunTaxYear(cfg, 2024, decimal.Zero)
		require.NotNil(t, report)

		// Alice: stock gain 2000, exemption 1270, tax 240.90.
		// Bob: December gain 2000, exemption 1270, tax 240.90.
		require.NotNil(t, report.CGT)
		assert.True(t, report.CGT.TaxDue.Equal(decimal.RequireFromString("481.80")))
		assert.True(t, report.CGT.JanNovTax.Equal(decimal.RequireFromString("240.90")))
		assert.True(t, report.CGT.DecTax.Equal(decimal.RequireFromString("240.90")))

		// Fund gain 500 at 41%.
		require.NotNil(t, report.ExitTax)
		assert.True(t, report.ExitTax.TaxDue.Equal(decimal.RequireFromString("205.00")))

		// Interest 100 at 33%.
		require.NotNil(t, report.DIRT)
		assert.True(t, report.DIRT.DIRTToPay.Equal(decimal.RequireFromString("33.00")))

		assert.True(t, report.TotalDividends.Equal(decimal.NewFromInt(200)))
		assert.True(t, report.TotalTaxDue.Equal(decimal.RequireFromString("719.80")))
		assert.Empty(t, report.Warnings)
	})

	t.Run("payment_deadlines", func(t *testing.T) {
		cfg := loadExample(t)
		engine := calculation.NewCalculationEngine(cfg.Rules)
		report := engine.RunTaxYear(cfg, 2024, decimal.Zero)

		require.Len(t, report.PaymentDeadlines, 4)

		byType := make(map[string][]domain.PaymentDeadline)
		for _, dl := range report.PaymentDeadlines {
			byType[dl.TaxType] = append(byType[dl.TaxType], dl)
		}

		require.Len(t, byType["CGT"], 2)
		assert.Equal(t, time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC), byType["CGT"][0].DueDate)
		assert.Equal(t, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), byType["CGT"][1].DueDate)

		require.Len(t, byType["Exit Tax"], 1)
		assert.Equal(t, time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC), byType["Exit Tax"][0].DueDate)

		require.Len(t, byType["DIRT"], 1)
		assert.Equal(t, time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC), byType["DIRT"][0].DueDate)
	})

	t.Run("formatters", func(t *testing.T) {
		cfg := loadExample(t)
		engine := calculation.NewCalculationEngine(cfg.Rules)
		report := engine.RunTaxYear(cfg, 2024, decimal.Zero)

		for _, name := range output.FormatterNames() {
			f := output.GetFormatterByName(name)
			require.NotNil(t, f, "formatter %s", name)

			data, err := f.Format(report)
			require.NoError(t, err, "formatter %s", name)
			assert.NotEmpty(t, data, "formatter %s", name)
		}

		jsonOut, err := output.JSONFormatter{}.Format(report)
		require.NoError(t, err)
		var decoded domain.TaxReport
		require.NoError(t, json.Unmarshal(jsonOut, &decoded))
		assert.Equal(t, 2024, decoded.TaxYear)
	})

	t.Run("deemed_disposal_schedule", func(t *testing.T) {
		cfg := loadExample(t)
		engine := calculation.NewCalculationEngine(cfg.Rules)

		// The 2023 fund buy was fully sold in 2024; nothing left to
		// trigger the 8-year clock.
		events := engine.DeemedDisposalSchedule(cfg, time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), 3)
		assert.Empty(t, events)
	})
}

// TestPriorYearHistoryFeedsCostBasis replays transactions from before
// the tax year to establish cost basis.
func TestPriorYearHistoryFeedsCostBasis(t *testing.T) {
	cfg := &domain.Configuration{
		Persons: []domain.Person{{Name: "Alice"}},
		Transactions: []domain.Transaction{
			{
				Person: "Alice", ISIN: "US0378331005", Name: "Apple Inc",
				Type: domain.TransactionBuy,
				Date: time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC),
				Quantity: decimal.NewFromInt(100), Amount: decimal.NewFromInt(500),
			},
			{
				Person: "Alice", ISIN: "US0378331005", Name: "Apple Inc",
				Type: domain.TransactionSell,
				Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
				Quantity: decimal.NewFromInt(100), Amount: decimal.NewFromInt(2000),
			},
		},
		Rules: domain.DefaultTaxRules(),
	}

	engine := calculation.NewCalculationEngine(cfg.Rules)
	report := engine.RunTaxYear(cfg, 2024, decimal.Zero)

	require.NotNil(t, report.CGT)
	assert.True(t, report.CGT.TotalGains.Equal(decimal.NewFromInt(1500)), "cost basis from 2020 buy")
	assert.Len(t, report.CGT.DisposalMatches, 1)
	assert.Equal(t, domain.MatchFIFO, report.CGT.DisposalMatches[0].Rule)
}
