package model

import "time"

// Config holds the complete netpulse configuration.
// The heuristic constants of the pipeline (dedup window, similarity
// threshold, rising threshold, critical threshold, user multiplier) are
// configuration with stated defaults, not hard-coded law.
type Config struct {
	Dedup     DedupConfig     `yaml:"dedup" mapstructure:"dedup"`
	Aggregate AggregateConfig `yaml:"aggregate" mapstructure:"aggregate"`
	Velocity  VelocityConfig  `yaml:"velocity" mapstructure:"velocity"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Telegram  TelegramConfig  `yaml:"telegram" mapstructure:"telegram"`
	Narrative NarrativeConfig `yaml:"narrative" mapstructure:"narrative"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// DedupConfig controls duplicate folding during ingestion
type DedupConfig struct {
	WindowMinutes       int     `yaml:"window_minutes" mapstructure:"window_minutes"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// Window returns the dedup window as a duration
func (c DedupConfig) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

// AggregateConfig controls CHI computation and caching
type AggregateConfig struct {
	DefaultWindowMinutes int `yaml:"default_window_minutes" mapstructure:"default_window_minutes"`
	CacheTTLMinutes      int `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"`
}

// CacheTTL returns the CHI cache TTL as a duration
func (c AggregateConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// VelocityConfig controls early-warning ranking and snapshot retention
type VelocityConfig struct {
	LookbackMinutes        int     `yaml:"lookback_minutes" mapstructure:"lookback_minutes"`
	RisingThresholdPerHour float64 `yaml:"rising_threshold_per_hour" mapstructure:"rising_threshold_per_hour"`
	CriticalThreshold      float64 `yaml:"critical_threshold" mapstructure:"critical_threshold"`
	ProjectionHours        float64 `yaml:"projection_hours" mapstructure:"projection_hours"`
	UsersPerIntensity      int     `yaml:"users_per_intensity" mapstructure:"users_per_intensity"`
	TopN                   int     `yaml:"top_n" mapstructure:"top_n"`
	SnapshotHistoryHours   int     `yaml:"snapshot_history_hours" mapstructure:"snapshot_history_hours"`
	SnapshotRetentionDays  int     `yaml:"snapshot_retention_days" mapstructure:"snapshot_retention_days"`
	Workers                int     `yaml:"workers" mapstructure:"workers"`
}

// IngestConfig controls the ingestion batch
type IngestConfig struct {
	BatchLimit int `yaml:"batch_limit" mapstructure:"batch_limit"`
	// EventsPerSecond throttles event processing; 0 disables throttling.
	EventsPerSecond float64 `yaml:"events_per_second" mapstructure:"events_per_second"`
	Burst           int     `yaml:"burst" mapstructure:"burst"`
}

// StorageConfig controls the JSON-persisted in-memory store
type StorageConfig struct {
	FilePath string `yaml:"file_path" mapstructure:"file_path"`
}

// TelegramConfig controls rising-issue notifications
type TelegramConfig struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	BotToken       string  `yaml:"bot_token" mapstructure:"bot_token"`
	ChatID         string  `yaml:"chat_id" mapstructure:"chat_id"`
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	SendsPerMinute float64 `yaml:"sends_per_minute" mapstructure:"sends_per_minute"`
}

// NarrativeConfig controls the optional external text-generation brief.
// Narrative output never feeds back into scoring.
type NarrativeConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutS  int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// LoggingConfig controls leveled logging
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults; "config init" writes them
// out as a starter file.
func DefaultConfig() *Config {
	return &Config{
		Dedup: DedupConfig{
			WindowMinutes:       30,
			SimilarityThreshold: 0.5,
		},
		Aggregate: AggregateConfig{
			DefaultWindowMinutes: 60,
			CacheTTLMinutes:      5,
		},
		Velocity: VelocityConfig{
			LookbackMinutes:        60,
			RisingThresholdPerHour: 5,
			CriticalThreshold:      100,
			ProjectionHours:        2,
			UsersPerIntensity:      100,
			TopN:                   5,
			SnapshotHistoryHours:   24,
			SnapshotRetentionDays:  7,
			Workers:                4,
		},
		Ingest: IngestConfig{
			BatchLimit:      100,
			EventsPerSecond: 0,
			Burst:           5,
		},
		Storage: StorageConfig{
			FilePath: "./data/netpulse.json",
		},
		Telegram: TelegramConfig{
			Enabled:        false,
			MaxRetries:     3,
			SendsPerMinute: 20,
		},
		Narrative: NarrativeConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			MaxTokens: 600,
			TimeoutS:  30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
