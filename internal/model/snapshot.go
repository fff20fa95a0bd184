package model

import "time"

// IntensitySnapshot is a periodic, append-only summary of one topic/area
// group's aggregate intensity, used by the velocity engine to measure
// growth over time. Rows are pruned after the retention window.
type IntensitySnapshot struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	ProductArea string    `json:"product_area"`
	Intensity   int       `json:"intensity"`    // sum of group intensities at capture time
	SignalCount int       `json:"signal_count"` // distinct signals in the group
	SnapshotAt  time.Time `json:"snapshot_at"`
}

// RisingIssue is one ranked entry of the early-warning output.
type RisingIssue struct {
	Topic              string    `json:"topic"`
	ProductArea        string    `json:"product_area"`
	CurrentIntensity   int       `json:"current_intensity"`
	ProjectedIntensity float64   `json:"projected_intensity"` // estimate 2h ahead
	Velocity           float64   `json:"velocity"`            // intensity growth per hour
	TimeToCritical     float64   `json:"time_to_critical"`    // hours until critical threshold, 0 if n/a
	Confidence         float64   `json:"confidence"`
	EstimatedUsers     int       `json:"estimated_users"` // fixed-multiplier approximation, not a measurement
	SignalCount        int       `json:"signal_count"`
	ComputedAt         time.Time `json:"computed_at"`
}
