package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/pipeline"
)

var (
	outJSON     string
	outFormat   string
	exportAfter bool
	timeout     time.Duration
	noCache     bool
	llmProvider string
	llmModel    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [source]",
	Short: "Scan a device or snapshot and report its privacy exposure",
	Long: `Scan collects device facts, scores them and prints the privacy report.

Sources:
  adb              the only connected device (or adb.serial from config)
  adb:<serial>     a specific device
  <path>           a YAML/JSON snapshot exported by the companion app

Example:
  privdiag scan
  privdiag scan adb:R58N123ABC --json report.json
  privdiag scan pixel.yaml --format summary --export
  privdiag scan pixel.yaml --llm ollama --llm-model llama3.1:8b`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&outJSON, "json", "", "also write the JSON report to this path")
	scanCmd.Flags().StringVar(&outFormat, "format", "", "stdout format: text, json, summary (default from config)")
	scanCmd.Flags().BoolVar(&exportAfter, "export", false, "write a PrivacyScan_<timestamp>.txt export to output.dir")
	scanCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "do not store the report as the last report")
	scanCmd.Flags().StringVar(&llmProvider, "llm", "", "enable LLM advice with this provider (openai, ollama)")
	scanCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// applyScanFlags layers command flags over the loaded config
func applyScanFlags(cfg *model.Config) error {
	if noCache {
		cfg.Cache.Enabled = false
	}
	if outFormat != "" {
		cfg.Output.Format = outFormat
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	source := "adb"
	if len(args) == 1 {
		source = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyScanFlags(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", source)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, pipeline.Options{})

	dr, err := p.ScanSource(ctx, source)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Collected %d facts\n", dr.Facts.Len())
		fmt.Fprintf(os.Stderr, "✓ Privacy score: %d/100\n", dr.Score.Score)
		if dr.Advice != nil && dr.Advice.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated advice using %s/%s\n", dr.Advice.Provider, dr.Advice.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(os.Stdout, dr, cfg.Output.Format, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if exportAfter {
		r := p.Renderer()
		result, err := r.Export(r.RenderText(dr), cfg.Output.Dir, dr.Facts)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Exported %s (%d bytes)\n", result.Path, result.Size)
	}

	return nil
}
