package cli

import (
	"context"
	"fmt"

	"github.com/netpulse-io/netpulse/internal/velocity"
	"github.com/spf13/cobra"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture per-issue intensity snapshots",
	Long: `Snapshot records one intensity row per (topic, product area) group
from the recent signal window and prunes rows past the retention
window. Velocity measurement quality depends on running this on a
schedule; gaps degrade confidence, not correctness.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		engine := velocity.NewEngine(st, st, nil, cfg.Velocity)
		written, pruned, err := engine.CaptureSnapshot(context.Background())
		if err != nil {
			return err
		}
		if err := st.Save(); err != nil {
			return fmt.Errorf("persist store: %w", err)
		}

		fmt.Printf("Captured %d snapshot rows, pruned %d expired\n", written, pruned)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
