package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/privdiag/internal/pipeline"
)

var (
	lastTag  bool
	lastJSON bool
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the most recent report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Cache.Enabled {
			return fmt.Errorf("no stored reports: caching is disabled")
		}

		p := pipeline.NewPipeline(cfg, pipeline.Options{})
		r := p.Renderer()

		if lastTag {
			stored, err := p.Store().LastTag()
			if err != nil {
				return lastError(err, "nfc")
			}
			if lastJSON {
				return r.WriteJSON(os.Stdout, stored.Report)
			}
			fmt.Print(stored.Text)
			return nil
		}

		dr, err := p.Store().LastDevice()
		if err != nil {
			return lastError(err, "scan")
		}
		format := "text"
		if lastJSON {
			format = "json"
		}
		return p.RenderReport(os.Stdout, dr, format, "")
	},
}

func init() {
	rootCmd.AddCommand(lastCmd)

	lastCmd.Flags().BoolVar(&lastTag, "tag", false, "show the last NFC tag report")
	lastCmd.Flags().BoolVar(&lastJSON, "json", false, "print JSON instead of text")
}
