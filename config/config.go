package config

import (
	"github.com/LdDl/coin-counter/coins"
	"github.com/LdDl/coin-counter/mot"
)

// Config is configuration of the coin counter
type Config struct {
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Exclusion ExclusionConfig `mapstructure:"exclusion"`
	Detection DetectionConfig `mapstructure:"detection"`
	Log       LogConfig       `mapstructure:"log"`
}

// TrackerConfig configures deduplication of coins across frames
type TrackerConfig struct {
	Capacity     int `mapstructure:"capacity"`
	ClockCeiling int `mapstructure:"clock_ceiling"`
	// Cents are matched within NearDistance pixels during NearMemory frames
	NearDistance int `mapstructure:"near_distance"`
	NearMemory   int `mapstructure:"near_memory"`
	// Types from FarTypes (1€ and 2€ by default) are matched within FarDistance pixels during FarMemory frames
	FarDistance      int   `mapstructure:"far_distance"`
	FarMemory        int   `mapstructure:"far_memory"`
	FarTypes         []int `mapstructure:"far_types"`
	SupersedingTypes []int `mapstructure:"superseding_types"`
	InferiorTypes    []int `mapstructure:"inferior_types"`
	EvictionRadius   int   `mapstructure:"eviction_radius"`
	CorrectionRadius int   `mapstructure:"correction_radius"`
	LookupRadius     int   `mapstructure:"lookup_radius"`
	MaxTrackLen      int   `mapstructure:"max_track_len"`
}

// ExclusionConfig configures positions of counted coins skipped by detection
type ExclusionConfig struct {
	Capacity int `mapstructure:"capacity"`
	Radius   int `mapstructure:"radius"`
}

// DetectionConfig configures segmentation and classification
type DetectionConfig struct {
	Threshold       int               `mapstructure:"threshold"`
	OpenKernel      int               `mapstructure:"open_kernel"`
	CloseKernel     int               `mapstructure:"close_kernel"`
	MinArea         int               `mapstructure:"min_area"`
	MaxArea         int               `mapstructure:"max_area"`
	MaxWidth        int               `mapstructure:"max_width"`
	MatchRadius     int               `mapstructure:"match_radius"`
	Tolerance       float64           `mapstructure:"tolerance"`
	ToleranceMargin int               `mapstructure:"tolerance_margin"`
	SummaryEvery    int               `mapstructure:"summary_every"`
	Copper          FamilyConfig      `mapstructure:"copper"`
	Gold            FamilyConfig      `mapstructure:"gold"`
	Bimetal         BimetalConfig     `mapstructure:"bimetal"`
	ReleaseBand     ReleaseBandConfig `mapstructure:"release_band"`
}

// FamilyConfig configures copper or gold coins
type FamilyConfig struct {
	OpenKernel     int     `mapstructure:"open_kernel"`
	MinArea        int     `mapstructure:"min_area"`
	MinCircularity float64 `mapstructure:"min_circularity"`
	EdgeMargin     int     `mapstructure:"edge_margin"`
	ExclusionShift float64 `mapstructure:"exclusion_shift"`
}

// BimetalConfig configures 1€ and 2€ coins
type BimetalConfig struct {
	OpenKernel         int     `mapstructure:"open_kernel"`
	MinArea            int     `mapstructure:"min_area"`
	MaxArea            int     `mapstructure:"max_area"`
	MinDiameter        float64 `mapstructure:"min_diameter"`
	MaxDiameter        float64 `mapstructure:"max_diameter"`
	MinCircularity     float64 `mapstructure:"min_circularity"`
	TwoEuroDiameter    float64 `mapstructure:"two_euro_diameter"`
	PartialCircularity float64 `mapstructure:"partial_circularity"`
	PartialMinSide     int     `mapstructure:"partial_min_side"`
	PartialMinArea     int     `mapstructure:"partial_min_area"`
}

// ReleaseBandConfig configures release of exclusion zones near rejected candidates
type ReleaseBandConfig struct {
	Enabled bool `mapstructure:"enabled"`
	MinY    int  `mapstructure:"min_y"`
	MaxY    int  `mapstructure:"max_y"`
}

// LogConfig configures logger
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// TrackerConfig builds slot tracker parameters
func (c *Config) TrackerConfig() mot.TrackerConfig {
	t := c.Tracker
	return mot.TrackerConfig{
		Capacity:         t.Capacity,
		ClockCeiling:     t.ClockCeiling,
		Near:             mot.ClassParams{DistThreshold: t.NearDistance, MemoryFrames: t.NearMemory},
		Far:              mot.ClassParams{DistThreshold: t.FarDistance, MemoryFrames: t.FarMemory},
		FarTypes:         append([]int(nil), t.FarTypes...),
		SupersedingTypes: append([]int(nil), t.SupersedingTypes...),
		InferiorTypes:    append([]int(nil), t.InferiorTypes...),
		EvictionRadius:   t.EvictionRadius,
		CorrectionRadius: t.CorrectionRadius,
		LookupRadius:     t.LookupRadius,
		MaxTrackLen:      t.MaxTrackLen,
	}
}

// CoinsConfig builds detection parameters. Color gates are not configurable and come from coins.DefaultConfig
func (c *Config) CoinsConfig() coins.Config {
	d := c.Detection
	cfg := coins.DefaultConfig()

	cfg.General = coins.GeneralConfig{
		Threshold:   uint8(d.Threshold),
		OpenKernel:  d.OpenKernel,
		CloseKernel: d.CloseKernel,
		MinArea:     d.MinArea,
		MaxArea:     d.MaxArea,
		MaxWidth:    d.MaxWidth,
		MatchRadius: d.MatchRadius,
	}
	cfg.Copper = familyConfig(cfg.Copper, d.Copper)
	cfg.Gold = familyConfig(cfg.Gold, d.Gold)

	cfg.Bimetal.OpenKernel = d.Bimetal.OpenKernel
	cfg.Bimetal.MinArea = d.Bimetal.MinArea
	cfg.Bimetal.MaxArea = d.Bimetal.MaxArea
	cfg.Bimetal.MinDiameter = float32(d.Bimetal.MinDiameter)
	cfg.Bimetal.MaxDiameter = float32(d.Bimetal.MaxDiameter)
	cfg.Bimetal.MinCircularity = float32(d.Bimetal.MinCircularity)
	cfg.Bimetal.TwoEuroDiameter = float32(d.Bimetal.TwoEuroDiameter)
	cfg.Bimetal.PartialCircularity = float32(d.Bimetal.PartialCircularity)
	cfg.Bimetal.PartialMinSide = d.Bimetal.PartialMinSide
	cfg.Bimetal.PartialMinArea = d.Bimetal.PartialMinArea

	cfg.Tolerance = coins.ToleranceConfig{
		Base:       float32(d.Tolerance),
		EdgeMargin: d.ToleranceMargin,
	}
	cfg.Release = coins.ReleaseBand{
		Enabled: d.ReleaseBand.Enabled,
		MinY:    d.ReleaseBand.MinY,
		MaxY:    d.ReleaseBand.MaxY,
	}
	cfg.ExclusionCapacity = c.Exclusion.Capacity
	cfg.ExclusionRadius = c.Exclusion.Radius
	cfg.SummaryEvery = d.SummaryEvery
	cfg.Tracker = c.TrackerConfig()
	return cfg
}

func familyConfig(base coins.FamilyConfig, fc FamilyConfig) coins.FamilyConfig {
	base.OpenKernel = fc.OpenKernel
	base.MinArea = fc.MinArea
	base.MinCircularity = float32(fc.MinCircularity)
	base.EdgeMargin = fc.EdgeMargin
	base.ExclusionShift = float32(fc.ExclusionShift)
	return base
}
