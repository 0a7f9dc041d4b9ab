// Package output renders a computed tax report in the supported
// formats via a pluggable formatter registry.
package output

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/podonoghue/ietaxcalc/internal/domain"
)

// Formatter renders a tax report to bytes.
type Formatter interface {
	Name() string
	Format(report *domain.TaxReport) ([]byte, error)
}

// FormatterFunc adapts a function into a Formatter.
type FormatterFunc struct {
	ID string
	F  func(report *domain.TaxReport) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *domain.TaxReport) ([]byte, error) {
	return f.F(report)
}

var registry = []Formatter{
	ConsoleVerboseFormatter{},
	ConsoleSummaryFormatter{},
	JSONFormatter{},
	CSVFormatter{},
}

var aliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"summary":         "console-lite",
	"text":            "console",
}

// GetFormatterByName resolves a formatter by name or alias. Returns
// nil when no formatter matches.
func GetFormatterByName(name string) Formatter {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	for _, f := range registry {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// FormatterNames lists the canonical formatter names.
func FormatterNames() []string {
	names := make([]string, 0, len(registry))
	for _, f := range registry {
		names = append(names, f.Name())
	}
	return names
}

// WriteFormatted runs the formatter and writes its output to a
// timestamped file, returning the filename.
func WriteFormatted(formatter Formatter, report *domain.TaxReport, extension string) (string, error) {
	data, err := formatter.Format(report)
	if err != nil {
		return "", fmt.Errorf("formatting report: %w", err)
	}

	filename := fmt.Sprintf("tax_report_%d_%s.%s", report.TaxYear, time.Now().Format("20060102_150405"), extension)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("writing report file: %w", err)
	}
	return filename, nil
}

// FormatCurrency formats a decimal as euro currency
func FormatCurrency(amount decimal.Decimal) string {
	return "EUR " + amount.StringFixed(2)
}

// FormatPercentage formats a decimal rate (0.33) as a percentage (33.00%)
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
