package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/nfc"
	"github.com/ppiankov/privdiag/internal/pipeline"
	"github.com/ppiankov/privdiag/internal/validate"
)

var (
	tagJSON   string
	tagExport bool
)

var nfcCmd = &cobra.Command{
	Use:   "nfc <tag-file>",
	Short: "Explain what an NFC tag dump reveals",
	Long: `Reads a tag descriptor (YAML or JSON) and prints one section per
reported technology, with the risk notes for payment and writable tags.

Example:
  privdiag nfc tag.yaml
  privdiag nfc tag.json --json tag-report.json --export`,
	Args: cobra.ExactArgs(1),
	RunE: runNFC,
}

func init() {
	rootCmd.AddCommand(nfcCmd)

	nfcCmd.Flags().StringVar(&tagJSON, "json", "", "also write the JSON tag report to this path")
	nfcCmd.Flags().BoolVar(&tagExport, "export", false, "write a PrivacyScan_<timestamp>.txt export to output.dir")
}

func runNFC(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tag, err := nfc.LoadTag(args[0])
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, pipeline.Options{})

	tr, err := p.ScanTag(tag)
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			printIssues(verr.Issues)
		}
		return err
	}

	r := p.Renderer()
	if err := r.RenderTag(os.Stdout, tr); err != nil {
		return err
	}

	if tagJSON != "" {
		if err := r.RenderJSON(tr, tagJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}

	if tagExport {
		result, err := r.Export(tr.Text(), cfg.Output.Dir, model.FactSet{})
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Exported %s (%d bytes)\n", result.Path, result.Size)
	}

	return nil
}

func printIssues(issues []validate.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "✗ %s: %s\n", issue.Field, issue.Message)
	}
}
