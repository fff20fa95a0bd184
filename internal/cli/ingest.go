package cli

import (
	"context"
	"fmt"

	"github.com/netpulse-io/netpulse/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	ingestLimit int
	ingestFrom  string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Process pending raw events into signals",
	Long: `Ingest runs one batch: pending raw events are extracted into text
items, each item is sentiment-scored and classified into a product area,
and near-duplicate signals inside the dedup window are folded together.

With --from, a JSON array of producer records is loaded as pending
events first, then the batch runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		if ingestFrom != "" {
			n, err := pipeline.IntakeFile(st, ingestFrom)
			if err != nil {
				return fmt.Errorf("intake %s: %w", ingestFrom, err)
			}
			fmt.Printf("Loaded %d raw events from %s\n", n, ingestFrom)
		}

		p, err := pipeline.New(st, nil, cfg)
		if err != nil {
			return err
		}

		report, err := p.RunIngestion(context.Background(), ingestLimit)
		if err != nil {
			return err
		}
		if err := st.Save(); err != nil {
			return fmt.Errorf("persist store: %w", err)
		}

		fmt.Printf("Ingestion complete in %s\n", report.FinishedAt.Sub(report.StartedAt).Round(1e6))
		fmt.Printf("  Events:  %d fetched, %d processed, %d unknown source\n",
			report.EventsFetched, report.EventsProcessed, report.UnknownSources)
		fmt.Printf("  Items:   %d attempted, %d succeeded, %d failed\n",
			report.ItemsAttempted, report.ItemsSucceeded, report.ItemsFailed)
		fmt.Printf("  Signals: %d created, %d merged into duplicates\n",
			report.SignalsCreated, report.SignalsMerged)
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestLimit, "limit", 0, "max events per batch (default: configured batch limit)")
	ingestCmd.Flags().StringVar(&ingestFrom, "from", "", "JSON file of producer records to load before the batch")
	rootCmd.AddCommand(ingestCmd)
}
