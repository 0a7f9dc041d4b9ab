package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		isin     string
		asset    string
		expected Class
	}{
		{
			name:     "Irish UCITS ETF is exit tax",
			isin:     "IE00B4L5Y983",
			asset:    "iShares Core MSCI World UCITS ETF",
			expected: ClassExitTax,
		},
		{
			name:     "Luxembourg fund is exit tax",
			isin:     "LU0908500753",
			asset:    "Amundi Stoxx Europe 600 UCITS ETF Acc",
			expected: ClassExitTax,
		},
		{
			name:     "leveraged fund marker is exit tax",
			isin:     "IE00BLRPRL42",
			asset:    "WisdomTree NASDAQ 100 3x Daily Leveraged",
			expected: ClassExitTax,
		},
		{
			name:     "US stock is CGT",
			isin:     "US0378331005",
			asset:    "Apple Inc",
			expected: ClassCGT,
		},
		{
			name:     "US-domiciled ETF is CGT not exit tax",
			isin:     "US78462F1030",
			asset:    "SPDR S&P 500 ETF Trust",
			expected: ClassCGT,
		},
		{
			name:     "Irish plc is CGT despite IE prefix",
			isin:     "IE00BYTBXV33",
			asset:    "Ryanair Holdings plc",
			expected: ClassCGT,
		},
		{
			name:     "Bank of Ireland overrides bond keyword",
			isin:     "IE00BD1RP616",
			asset:    "Bank of Ireland Group plc",
			expected: ClassCGT,
		},
		{
			name:     "EU equity without fund markers is CGT",
			isin:     "DE0007164600",
			asset:    "SAP SE",
			expected: ClassCGT,
		},
		{
			name:     "empty ISIN is cash",
			isin:     "",
			asset:    "EUR balance",
			expected: ClassCash,
		},
		{
			name:     "single-char ISIN is cash",
			isin:     "X",
			asset:    "",
			expected: ClassCash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.isin, tt.asset))
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, ClassExitTax, Classify("ie00b4l5y983", "ISHARES CORE MSCI WORLD UCITS ETF"))
	assert.Equal(t, ClassCGT, Classify("IE00BYTBXV33", "RYANAIR HOLDINGS PLC"))
}

func TestIsExitTaxAsset(t *testing.T) {
	assert.True(t, IsExitTaxAsset("IE00B4L5Y983", "Vanguard FTSE All-World UCITS ETF"))
	assert.False(t, IsExitTaxAsset("US0378331005", "Apple Inc"))
}
