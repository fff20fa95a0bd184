package cli

import (
	"context"
	"fmt"

	"github.com/netpulse-io/netpulse/internal/aggregate"
	"github.com/netpulse-io/netpulse/internal/logger"
	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/netpulse-io/netpulse/internal/narrative"
	"github.com/netpulse-io/netpulse/internal/notify"
	"github.com/netpulse-io/netpulse/internal/store"
	"github.com/netpulse-io/netpulse/internal/velocity"
	"github.com/spf13/cobra"
)

var (
	risingLookback  int
	risingTop       int
	risingNotify    bool
	risingNarrative bool
)

// risingCmd represents the rising command
var risingCmd = &cobra.Command{
	Use:   "rising",
	Short: "Rank rapidly worsening issues",
	Long: `Rising ranks (topic, product area) groups whose intensity is growing
faster than the configured threshold, ordered by velocity. Each entry
carries a projection, an estimated time until the critical threshold,
and a confidence grade reflecting how much snapshot history backed the
measurement.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		vcfg := cfg.Velocity
		if risingTop > 0 {
			vcfg.TopN = risingTop
		}

		engine := velocity.NewEngine(st, st, nil, vcfg)
		issues, err := engine.RisingIssues(context.Background(), risingLookback)
		if err != nil {
			return err
		}

		if len(issues) == 0 {
			fmt.Println("No rising issues detected")
			return nil
		}

		fmt.Printf("Rising issues (top %d by velocity):\n\n", len(issues))
		for i, issue := range issues {
			fmt.Printf("%d. %q (%s)\n", i+1, issue.Topic, issue.ProductArea)
			fmt.Printf("   Velocity:   %.1f intensity/hour (confidence %.2f, %d signals)\n",
				issue.Velocity, issue.Confidence, issue.SignalCount)
			fmt.Printf("   Intensity:  %d now, %.0f projected\n",
				issue.CurrentIntensity, issue.ProjectedIntensity)
			if issue.TimeToCritical > 0 {
				fmt.Printf("   Critical:   in %.1f hours at current rate\n", issue.TimeToCritical)
			}
			fmt.Printf("   Users:      ~%d estimated affected\n\n", issue.EstimatedUsers)
		}

		if risingNotify && cfg.Telegram.Enabled {
			notifier, err := notify.NewTelegramNotifier(cfg.Telegram)
			if err != nil {
				return fmt.Errorf("telegram: %w", err)
			}
			if err := notifier.SendRisingIssues(context.Background(), issues); err != nil {
				return fmt.Errorf("telegram: %w", err)
			}
			fmt.Println("Alert sent to Telegram")
		} else if risingNotify {
			logger.Warn("rising: --notify requested but telegram is disabled in config")
		}

		if risingNarrative {
			if err := printBrief(cfg, st, issues); err != nil {
				return err
			}
		}
		return nil
	},
}

// printBrief generates and prints the optional operations brief
func printBrief(cfg *model.Config, st *store.MemoryStore, issues []model.RisingIssue) error {
	provider, err := narrative.NewProvider(cfg.Narrative)
	if err != nil {
		return fmt.Errorf("narrative: %w", err)
	}
	if provider == nil {
		logger.Warn("rising: --narrative requested but no provider is configured")
		return nil
	}

	chiEngine := aggregate.NewEngine(st, newCHICache(cfg), nil, cfg.Aggregate.CacheTTL())
	chi, err := chiEngine.CalculateCHI(cfg.Aggregate.DefaultWindowMinutes, "")
	if err != nil {
		return fmt.Errorf("chi for brief: %w", err)
	}

	brief, err := provider.Brief(context.Background(), narrative.BriefRequest{
		Issues: issues,
		CHI:    chi,
	})
	if err != nil {
		return fmt.Errorf("narrative: %w", err)
	}

	fmt.Printf("Operations brief (%s, %d tokens):\n\n%s\n", brief.Model, brief.TokensUsed, brief.Text)
	return nil
}

func init() {
	risingCmd.Flags().IntVar(&risingLookback, "lookback", 0, "signal lookback in minutes (default: configured lookback)")
	risingCmd.Flags().IntVar(&risingTop, "top", 0, "max issues to report (default: configured top N)")
	risingCmd.Flags().BoolVar(&risingNotify, "notify", false, "send the ranking as a Telegram alert")
	risingCmd.Flags().BoolVar(&risingNarrative, "narrative", false, "generate an operations brief via the configured provider")
	rootCmd.AddCommand(risingCmd)
}
