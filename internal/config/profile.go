package config

import "fmt"

const (
	MinZoomLevel = 1.1
	MaxZoomLevel = 4.0
)

// Sensitivity selects how eagerly interactions turn into zoom regions
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Profile holds the clustering and easing parameters of a sensitivity level.
// All durations are in seconds.
type Profile struct {
	Name               Sensitivity `yaml:"-"`
	ClusterWindow      float64     `yaml:"cluster_window"`
	MinimumClusterSize int         `yaml:"minimum_cluster_size"`
	HoldDuration       float64     `yaml:"hold_duration"`
	ZoomInDuration     float64     `yaml:"zoom_in_duration"`
	ZoomOutDuration    float64     `yaml:"zoom_out_duration"`
}

var profiles = map[Sensitivity]Profile{
	SensitivityLow: {
		Name:               SensitivityLow,
		ClusterWindow:      1.5,
		MinimumClusterSize: 3,
		HoldDuration:       1.0,
		ZoomInDuration:     0.8,
		ZoomOutDuration:    0.8,
	},
	SensitivityMedium: {
		Name:               SensitivityMedium,
		ClusterWindow:      2.0,
		MinimumClusterSize: 2,
		HoldDuration:       1.2,
		ZoomInDuration:     0.6,
		ZoomOutDuration:    0.6,
	},
	SensitivityHigh: {
		Name:               SensitivityHigh,
		ClusterWindow:      3.0,
		MinimumClusterSize: 1,
		HoldDuration:       1.5,
		ZoomInDuration:     0.45,
		ZoomOutDuration:    0.45,
	},
}

// ProfileFor returns the built-in profile of a sensitivity level
func ProfileFor(s Sensitivity) (Profile, error) {
	p, ok := profiles[s]
	if !ok {
		return Profile{}, fmt.Errorf("unknown sensitivity %q (expected low, medium or high)", s)
	}
	return p, nil
}

// Validate checks a profile for usable values
func (p Profile) Validate() error {
	if p.ClusterWindow < 0 || p.HoldDuration < 0 || p.ZoomInDuration < 0 || p.ZoomOutDuration < 0 {
		return fmt.Errorf("profile %q: durations must not be negative", p.Name)
	}
	if p.MinimumClusterSize < 1 {
		return fmt.Errorf("profile %q: minimum_cluster_size must be at least 1", p.Name)
	}
	return nil
}
