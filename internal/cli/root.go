package cli

import (
	"fmt"
	"os"

	"github.com/netpulse-io/netpulse/internal/logger"
	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/netpulse-io/netpulse/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "netpulse",
	Short: "netpulse - customer sentiment pipeline with early-warning ranking",
	Long: `netpulse turns raw customer feedback events (social posts, outage
reports, forum threads, support comments) into deduplicated, scored
signals, aggregates them into a 0-100 happiness index (CHI), and ranks
rapidly worsening issues for early warning.

Batches are discrete invocations: run "ingest" to process pending raw
events, "snapshot" to capture per-issue intensity, "rising" to rank
emerging problems, and "chi" to read the current index.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("netpulse v0.3.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.netpulse/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.netpulse")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("NETPULSE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if cfg.Narrative.APIKey == "" {
		cfg.Narrative.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

// openStore loads the persisted store with the built-in reference areas
func openStore(cfg *model.Config) (*store.MemoryStore, error) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), cfg.Storage.FilePath)
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	return st, nil
}
