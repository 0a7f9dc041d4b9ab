// Package classify maps an asset's ISIN and display name onto the tax
// regime that applies to it. Every engine component routes through
// this one ruleset; keeping a single copy is what prevents the
// CGT and Exit Tax paths from drifting apart.
package classify

import "strings"

// Class is the tax regime an asset falls under.
type Class string

const (
	ClassCGT     Class = "cgt"
	ClassExitTax Class = "exit_tax"
	ClassCash    Class = "cash"
)

// euFundCountries are the ISIN country prefixes whose domiciled funds
// fall under the Exit Tax regime.
var euFundCountries = map[string]bool{
	"IE": true, "LU": true, "DE": true, "FR": true, "NL": true,
	"AT": true, "BE": true, "IT": true, "ES": true, "PT": true,
}

// fundKeywords are lexical markers of a fund/ETF: structure words,
// fund-house brands, leverage markers, major indices and asset-class
// markers.
var fundKeywords = []string{
	"etf", "fund", "ucits", "acc", "dist", "index", "tracker",
	"ishares", "vanguard", "amundi", "xtrackers", "lyxor",
	"spdr", "invesco", "wisdomtree", "3x", "2x", "leveraged",
	"short", "nasdaq", "s&p", "msci", "ftse", "bond", "equity",
	"money market", "floating rate",
}

// companyOverrides force CGT classification for ordinary companies
// incorporated in EU fund domiciles whose names overlap the fund
// keyword set (e.g. a pharma name containing "short" or "bond").
var companyOverrides = []string{
	"jazz pharmaceuticals",
	"ryanair",
	"crh",
	"kerry group",
	"smurfit",
	"kingspan",
	"glanbia",
	"bank of ireland",
	"flutter entertainment",
	"medtronic",
	"accenture",
}

// Classify determines the tax regime for an asset. It is a pure
// function: no state, deterministic for a given (isin, name) pair.
func Classify(isin, name string) Class {
	if len(isin) < 2 {
		return ClassCash
	}

	prefix := strings.ToUpper(isin[:2])
	nameLower := strings.ToLower(name)

	for _, company := range companyOverrides {
		if strings.Contains(nameLower, company) {
			return ClassCGT
		}
	}

	if euFundCountries[prefix] && matchesFundKeyword(nameLower) {
		return ClassExitTax
	}

	// EU-domiciled without fund markers is an ordinary equity, and
	// anything else (US and other non-EU jurisdictions) defaults to
	// CGT rather than blocking on ambiguity.
	return ClassCGT
}

// IsExitTaxAsset reports whether the asset falls under the Exit Tax
// regime.
func IsExitTaxAsset(isin, name string) bool {
	return Classify(isin, name) == ClassExitTax
}

func matchesFundKeyword(nameLower string) bool {
	for _, kw := range fundKeywords {
		if strings.Contains(nameLower, kw) {
			return true
		}
	}
	return false
}
