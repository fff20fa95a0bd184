package cli

import (
	"fmt"

	"github.com/netpulse-io/netpulse/internal/aggregate"
	"github.com/netpulse-io/netpulse/internal/cache"
	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/spf13/cobra"
)

var (
	chiWindow int
	chiArea   string
	chiTrend  bool
)

// chiCmd represents the chi command
var chiCmd = &cobra.Command{
	Use:   "chi",
	Short: "Compute the Customer Happiness Index",
	Long: `CHI is the intensity-weighted average sentiment of signals in the
trailing window, rescaled to 0-100. Higher is happier. A window with
no signals reports "no data" rather than a score; zero is a real score
meaning uniformly negative sentiment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}

		window := chiWindow
		if window <= 0 {
			window = cfg.Aggregate.DefaultWindowMinutes
		}

		engine := aggregate.NewEngine(st, newCHICache(cfg), nil, cfg.Aggregate.CacheTTL())
		result, err := engine.CalculateCHI(window, chiArea)
		if err != nil {
			return err
		}

		scope := "all areas"
		if chiArea != "" {
			scope = chiArea
		}
		if result == nil {
			fmt.Printf("CHI (%s, last %dm): no data\n", scope, window)
			return nil
		}

		fmt.Printf("CHI (%s, last %dm): %d/100\n", scope, window, result.Score)
		fmt.Printf("  Signals: %d (total weight %d)\n", result.SignalCount, result.TotalWeight)

		if chiTrend {
			trend, err := engine.Trend(window, chiArea)
			if err != nil {
				return err
			}
			switch {
			case trend > 0:
				fmt.Printf("  Trend:   +%d vs previous window (improving)\n", trend)
			case trend < 0:
				fmt.Printf("  Trend:   %d vs previous window (worsening)\n", trend)
			default:
				fmt.Printf("  Trend:   flat vs previous window\n")
			}
		}
		return nil
	},
}

// newCHICache builds the per-process CHI result cache
func newCHICache(cfg *model.Config) cache.Cache {
	ttl := cfg.Aggregate.CacheTTL()
	return cache.NewMemoryCache(ttl, 2*ttl)
}

func init() {
	chiCmd.Flags().IntVar(&chiWindow, "window", 0, "window in minutes (default: configured window)")
	chiCmd.Flags().StringVar(&chiArea, "area", "", "restrict to one product area")
	chiCmd.Flags().BoolVar(&chiTrend, "trend", false, "compare against the previous window of equal length")
	rootCmd.AddCommand(chiCmd)
}
