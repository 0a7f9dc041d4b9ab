// Package config loads and validates the transaction-history input
// file. Validation here is the engine's contract boundary: anything
// that gets past it is safe for the calculators to consume, so the
// engine itself never has to raise errors mid-computation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/podonoghue/ietaxcalc/internal/domain"
)

// InputParser handles parsing of input configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a configuration from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse parses and validates a configuration from raw YAML.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var cfg domain.Configuration
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cfg.Rules = cfg.Rules.Merged()
	return &cfg, nil
}

// ValidateConfiguration validates the loaded configuration.
func (ip *InputParser) ValidateConfiguration(cfg *domain.Configuration) error {
	if len(cfg.Persons) == 0 {
		return fmt.Errorf("at least one person is required")
	}

	known := make(map[string]bool, len(cfg.Persons))
	for i, p := range cfg.Persons {
		if p.Name == "" {
			return fmt.Errorf("person %d: name is required", i)
		}
		if known[p.Name] {
			return fmt.Errorf("person %d: duplicate name %q", i, p.Name)
		}
		known[p.Name] = true
	}

	for i, tx := range cfg.Transactions {
		if err := ip.validateTransaction(&tx, known); err != nil {
			return fmt.Errorf("transaction %d validation failed: %w", i, err)
		}
	}
	for i, ev := range cfg.Income {
		if err := ip.validateIncome(&ev, known); err != nil {
			return fmt.Errorf("income %d validation failed: %w", i, err)
		}
	}

	for isin, price := range cfg.Prices {
		if price.IsNegative() {
			return fmt.Errorf("price for %s must not be negative", isin)
		}
	}

	return ip.validateRules(cfg.Rules)
}

func (ip *InputParser) validateTransaction(tx *domain.Transaction, known map[string]bool) error {
	if tx.Person == "" {
		return fmt.Errorf("person is required")
	}
	if !known[tx.Person] {
		return fmt.Errorf("unknown person %q", tx.Person)
	}
	if tx.Type != domain.TransactionBuy && tx.Type != domain.TransactionSell {
		return fmt.Errorf("type must be buy or sell, got %q", tx.Type)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if !tx.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive")
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	if tx.Fees.IsNegative() {
		return fmt.Errorf("fees must not be negative")
	}
	return nil
}

func (ip *InputParser) validateIncome(ev *domain.IncomeEvent, known map[string]bool) error {
	if ev.Person != "" && !known[ev.Person] {
		return fmt.Errorf("unknown person %q", ev.Person)
	}
	switch ev.Type {
	case domain.IncomeInterest, domain.IncomeDividend, domain.IncomeDistribution:
	default:
		return fmt.Errorf("type must be interest, dividend or distribution, got %q", ev.Type)
	}
	if ev.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if ev.GrossAmount.IsNegative() {
		return fmt.Errorf("gross amount must not be negative")
	}
	if ev.WithholdingTax.IsNegative() {
		return fmt.Errorf("withholding tax must not be negative")
	}
	return nil
}

func (ip *InputParser) validateRules(rules domain.TaxRules) error {
	if rules.CGTRate.IsNegative() || rules.ExitTaxRate.IsNegative() || rules.DIRTRate.IsNegative() {
		return fmt.Errorf("tax rates must not be negative")
	}
	if rules.AnnualExemption.IsNegative() {
		return fmt.Errorf("annual exemption must not be negative")
	}
	if rules.BedBreakfastDays < 0 {
		return fmt.Errorf("bed and breakfast window must not be negative")
	}
	if rules.DeemedDisposalYears < 0 {
		return fmt.Errorf("deemed disposal cycle must not be negative")
	}
	return nil
}
