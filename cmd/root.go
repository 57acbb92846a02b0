/*
Copyright (c) 2026 moyaru <rbffo@icloud.com>
*/

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MOYARU/quantops/internal/app/audit"
	"github.com/MOYARU/quantops/internal/app/interactive"
	"github.com/MOYARU/quantops/internal/app/ui"
	"github.com/MOYARU/quantops/internal/app/watch"
	"github.com/MOYARU/quantops/internal/logging"
	appver "github.com/MOYARU/quantops/internal/version"
)

var (
	version = appver.Value

	configPath string
	baseURL    string
	mode       string
	logLevel   string
	jsonOutput bool
	htmlOutput bool
	pdfOutput  bool
	outputDir  string
	schedule   string

	logCloser    io.Closer
	setupLogging = logging.Setup
)

var rootCmd = &cobra.Command{
	Use:   "quantops [ticker]",
	Short: "QuantOps is a terminal audit panel that shows price, valuation, pivot trade zones and a verdict for a stock ticker.",
	Args:  cobra.MaximumNArgs(1),
	// Errors are printed once by run.
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := audit.ResolveSettings(configPath, baseURL, mode)
		if err != nil {
			return err
		}
		level := s.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logCloser, err = setupLogging(level, s.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%slogging disabled: %v%s\n", ui.ColorYellow, err, ui.ColorReset)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			s, err := audit.ResolveSettings(configPath, baseURL, mode)
			if err != nil {
				return err
			}
			interactive.RunInteractiveMode(cmd, s)
			return nil
		}

		ticker := args[0]
		err := audit.RunAudit(ticker, audit.Options{
			ConfigPath:   configPath,
			BaseURL:      baseURL,
			Mode:         mode,
			JSON:         jsonOutput,
			HTML:         htmlOutput,
			PDF:          pdfOutput,
			OutputDir:    outputDir,
			AllowPrompts: ui.IsInteractive(),
		})
		if err != nil {
			return fmt.Errorf("audit failed: %w", err)
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <ticker>...",
	Short: "Re-audit one or more tickers on a cron schedule",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return watch.Run(args, watch.Options{
			ConfigPath: configPath,
			BaseURL:    baseURL,
			Mode:       mode,
			Schedule:   schedule,
		})
	},
}

func Execute() {
	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree and closes the log file afterwards. Cobra
// skips post-run hooks when RunE fails, so the close lives here.
func run(args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%v%s\n", ui.ColorRed, err, ui.ColorReset)
	}
	return err
}

func init() {
	rootCmd.Version = version

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (.yaml or .toml); defaults to .quantops.yaml in the working directory")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Audit API base URL (default http://127.0.0.1:8000)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "Trade zone horizon: short (daily) or long (monthly)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Save the panel as JSON")
	rootCmd.Flags().BoolVar(&htmlOutput, "html", false, "Save the panel as HTML")
	rootCmd.Flags().BoolVar(&pdfOutput, "pdf", false, "Save the panel as PDF")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory for saved reports")

	watchCmd.Flags().StringVar(&schedule, "schedule", "", `Cron schedule, e.g. "@every 30s" or "*/5 9-15 * * 1-5"`)
	rootCmd.AddCommand(watchCmd)

	rootCmd.Long = ui.AsciiArt + `
QuantOps renders the audit of a stock ticker served by the local audit API.

Usage:
   quantops [ticker] [flags]
   quantops watch <ticker>... [--schedule CRON]

Example:
  quantops INFY
  quantops TCS --mode long --pdf
  quantops RELIANCE --base-url http://10.0.0.5:8000 --json
  quantops watch INFY TCS --schedule "@every 1m"

Flags:
  --mode               short (DAILY) or long (MONTHLY) trade zones
  --json               Save the panel as JSON
  --html               Save the panel as HTML
  --pdf                Save the panel as PDF
  --base-url           Audit API base URL
  --config             Settings file path

Run without arguments for interactive mode: type a ticker and press Enter,
Tab toggles the trade zone horizon.
`
}
