package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/podonoghue/ietaxcalc/internal/tui"
)

func main() {
	year := flag.Int("year", time.Now().Year()-1, "tax year to compute")
	lossesFlag := flag.String("losses-forward", "", "CGT losses brought forward")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: ietaxcalc-tui [flags] <input-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		fmt.Printf("Error: input file not found: %s\n", inputPath)
		os.Exit(1)
	}

	lossesBF := decimal.Zero
	if *lossesFlag != "" {
		var err error
		lossesBF, err = decimal.NewFromString(*lossesFlag)
		if err != nil {
			fmt.Printf("Error: invalid losses-forward value %q\n", *lossesFlag)
			os.Exit(1)
		}
	}

	model := tui.NewModel(inputPath, *year, lossesBF)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
