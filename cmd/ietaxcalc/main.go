package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/podonoghue/ietaxcalc/internal/calculation"
	"github.com/podonoghue/ietaxcalc/internal/config"
	"github.com/podonoghue/ietaxcalc/internal/output"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "ietaxcalc %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

var rootCmd = &cobra.Command{
	Use:   "ietaxcalc",
	Short: "Irish personal tax calculator CLI",
	Long:  "Computes CGT, Exit Tax and DIRT liabilities from a brokerage transaction history",
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Compute the tax report for a year",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		taxYear, _ := cmd.Flags().GetInt("year")
		if taxYear == 0 {
			taxYear = time.Now().Year() - 1
		}

		lossesFlag, _ := cmd.Flags().GetString("losses-forward")
		lossesBF := decimal.Zero
		if lossesFlag != "" {
			lossesBF, err = decimal.NewFromString(lossesFlag)
			if err != nil {
				log.Fatalf("invalid --losses-forward value %q: %v", lossesFlag, err)
			}
			if lossesBF.IsNegative() {
				log.Fatalf("--losses-forward must not be negative")
			}
		}

		engine := calculation.NewCalculationEngine(cfg.Rules)
		debugMode, _ := cmd.Flags().GetBool("debug")
		if debugMode {
			engine.SetLogger(simpleCLILogger{})
		}
		engine.Debug = debugMode

		report := engine.RunTaxYear(cfg, taxYear, lossesBF)

		outputFormat, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			log.Fatalf("unsupported format %q (available: %s)",
				outputFormat, strings.Join(output.FormatterNames(), ", "))
		}

		data, err := f.Format(report)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(data))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate an input file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Input file %s is valid: %d person(s), %d transaction(s), %d income event(s)\n",
			inputFile, len(cfg.Persons), len(cfg.Transactions), len(cfg.Income))
	},
}

var deemedDisposalsCmd = &cobra.Command{
	Use:   "deemed-disposals [input-file]",
	Short: "List upcoming 8-year deemed disposals for fund holdings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		yearsAhead, _ := cmd.Flags().GetInt("years-ahead")

		engine := calculation.NewCalculationEngine(cfg.Rules)
		events := engine.DeemedDisposalSchedule(cfg, time.Now(), yearsAhead)
		if len(events) == 0 {
			fmt.Printf("No deemed disposals due within %d year(s)\n", yearsAhead)
			return
		}

		fmt.Printf("Deemed disposals due within %d year(s):\n\n", yearsAhead)
		for _, e := range events {
			fmt.Printf("  %s  %s (%s)\n", e.DeemedDisposalDate.Format("2006-01-02"), e.Name, e.ISIN)
			fmt.Printf("    acquired %s, qty %s, cost basis %s\n",
				e.OriginalAcquisitionDate.Format("2006-01-02"), e.Quantity, output.FormatCurrency(e.CostBasis))
			if e.CurrentValue != nil {
				fmt.Printf("    current value %s", output.FormatCurrency(*e.CurrentValue))
				if e.EstimatedTax != nil {
					fmt.Printf(", estimated tax %s", output.FormatCurrency(*e.EstimatedTax))
				}
				fmt.Println()
			}
		}
	},
}

func init() {
	calculateCmd.Flags().Int("year", 0, "Tax year to compute (default: previous calendar year)")
	calculateCmd.Flags().String("losses-forward", "", "CGT losses brought forward from prior years")
	calculateCmd.Flags().String("format", "console", "Output format (console, console-lite, json, csv)")
	calculateCmd.Flags().Bool("debug", false, "Enable debug logging")

	deemedDisposalsCmd.Flags().Int("years-ahead", 3, "How many years ahead to project")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(deemedDisposalsCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
