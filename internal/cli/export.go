package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/privdiag/internal/cache"
	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/pipeline"
)

var (
	exportTag bool
	exportDir string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the last report to a text file",
	Long: `Writes the most recent device report (or tag report with --tag) to
PrivacyScan_<timestamp>.txt in the output directory.

Example:
  privdiag scan pixel.yaml && privdiag export
  privdiag export --tag --dir ~/Documents`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportTag, "tag", false, "export the last NFC tag report instead")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "export directory (default: output.dir)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if exportDir != "" {
		cfg.Output.Dir = exportDir
	}
	if !cfg.Cache.Enabled {
		return fmt.Errorf("nothing to export: caching is disabled")
	}

	p := pipeline.NewPipeline(cfg, pipeline.Options{})
	r := p.Renderer()
	store := p.Store()

	if exportTag {
		stored, err := store.LastTag()
		if err != nil {
			return lastError(err, "nfc")
		}
		res, err := r.Export(stored.Text, cfg.Output.Dir, model.FactSet{})
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("✓ Exported %s (%d bytes)\n", res.Path, res.Size)
		return nil
	}

	dr, err := store.LastDevice()
	if err != nil {
		return lastError(err, "scan")
	}
	res, err := r.Export(r.RenderText(dr), cfg.Output.Dir, dr.Facts)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Printf("✓ Exported %s (%d bytes)\n", res.Path, res.Size)
	return nil
}

// lastError turns a missing report into a hint about which command to run
func lastError(err error, command string) error {
	if errors.Is(err, cache.ErrNoReport) {
		return fmt.Errorf("no report found, run 'privdiag %s' first", command)
	}
	fmt.Fprintf(os.Stderr, "✗ failed to load last report\n")
	return err
}
