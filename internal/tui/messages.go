package tui

import "github.com/podonoghue/ietaxcalc/internal/domain"

// Tab represents the report panes the browser cycles through.
type Tab int

const (
	TabSummary Tab = iota
	TabCGT
	TabExitTax
	TabDIRT
	TabDeadlines
)

var tabNames = []string{"Summary", "CGT", "Exit Tax", "DIRT", "Deadlines"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "Unknown"
}

// Message types for the Bubble Tea update cycle

// ReportLoadedMsg signals the input file has been parsed and the tax
// year computed.
type ReportLoadedMsg struct {
	Report *domain.TaxReport
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
