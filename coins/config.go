package coins

import (
	"github.com/LdDl/coin-counter/mot"
	"github.com/LdDl/coin-counter/raster"
	"github.com/pkg/errors"
)

// GeneralConfig describes candidate extraction from the luminance mask
type GeneralConfig struct {
	// Luminance threshold of the mask
	Threshold   uint8
	OpenKernel  int
	CloseKernel int
	// Candidate area must be in [MinArea, MaxArea)
	MinArea  int
	MaxArea  int
	MaxWidth int
	// Max distance between candidate centroid and family component centroid
	MatchRadius int
}

// FamilyConfig describes detection of copper or gold coins
type FamilyConfig struct {
	Gate           raster.HSVGate
	OpenKernel     int
	MinArea        int
	MinCircularity float32
	// Components closer than EdgeMargin to the frame border are classified by nearest reference diameter
	EdgeMargin int
	// Centroid shift down, as a share of diameter, applied to exclusion zones
	ExclusionShift float32
}

// BimetalConfig describes detection of 1€ and 2€ coins
type BimetalConfig struct {
	Gate       raster.HSVGate
	OpenKernel int
	MinArea    int
	MaxArea    int
	// Complete coin: diameter in [MinDiameter, MaxDiameter] and circularity above MinCircularity
	MinDiameter    float32
	MaxDiameter    float32
	MinCircularity float32
	// Complete coins with diameter >= TwoEuroDiameter are 2€
	TwoEuroDiameter float32
	// Partial coin: circularity above PartialCircularity, both sides >= PartialMinSide, area >= PartialMinArea
	PartialCircularity float32
	PartialMinSide     int
	PartialMinArea     int
}

// ToleranceConfig describes diameter tolerance growth near frame borders
type ToleranceConfig struct {
	Base       float32
	EdgeMargin int
}

// ReleaseBand frees exclusion zones near rejected candidates whose centroid row is in [MinY, MaxY]
type ReleaseBand struct {
	Enabled bool
	MinY    int
	MaxY    int
}

// Config holds all detection parameters
type Config struct {
	General   GeneralConfig
	Copper    FamilyConfig
	Gold      FamilyConfig
	Bimetal   BimetalConfig
	Tolerance ToleranceConfig
	Release   ReleaseBand
	// Exclusion zones
	ExclusionCapacity int
	ExclusionRadius   int
	// Log tally every SummaryEvery frames, 0 disables
	SummaryEvery int
	Tracker      mot.TrackerConfig
}

// DefaultConfig returns parameters calibrated for 640x480 frames of coins on dark background
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Threshold:   150,
			OpenKernel:  3,
			CloseKernel: 5,
			MinArea:     9000,
			MaxArea:     30000,
			MaxWidth:    220,
			MatchRadius: 30,
		},
		Copper: FamilyConfig{
			Gate: raster.HSVGate{
				{Hue: &raster.HueRange{Min: 10, Max: 45}, MinSaturation: 70},
			},
			OpenKernel:     3,
			MinArea:        6000,
			MinCircularity: 0.70,
			EdgeMargin:     80,
			ExclusionShift: 0.05,
		},
		Gold: FamilyConfig{
			Gate: raster.HSVGate{
				{Hue: &raster.HueRange{Min: 35, Max: 95}, MinSaturation: 40, MinValue: 40},
			},
			OpenKernel:     7,
			MinArea:        6000,
			MinCircularity: 0.75,
			EdgeMargin:     90,
		},
		Bimetal: BimetalConfig{
			Gate: raster.HSVGate{
				// silver core
				{MaxSaturation: 60, MinValue: 81, MaxValue: 240},
				// golden ring
				{Hue: &raster.HueRange{Min: 20, Max: 95}, MinSaturation: 35, MinValue: 35},
			},
			OpenKernel:         3,
			MinArea:            6000,
			MaxArea:            100000,
			MinDiameter:        175,
			MaxDiameter:        210,
			MinCircularity:     0.75,
			TwoEuroDiameter:    185,
			PartialCircularity: 0.65,
			PartialMinSide:     130,
			PartialMinArea:     14000,
		},
		Tolerance: ToleranceConfig{
			Base:       0.08,
			EdgeMargin: 50,
		},
		Release: ReleaseBand{
			Enabled: true,
			MinY:    400,
			MaxY:    550,
		},
		ExclusionCapacity: mot.DefaultExclusionCapacity,
		ExclusionRadius:   mot.DefaultExclusionRadius,
		SummaryEvery:      30,
		Tracker:           mot.DefaultTrackerConfig(),
	}
}

// Validate checks detection parameters
func (cfg Config) Validate() error {
	if cfg.General.MinArea < 0 || cfg.General.MaxArea <= cfg.General.MinArea {
		return errors.Errorf("general area range [%d, %d) is empty", cfg.General.MinArea, cfg.General.MaxArea)
	}
	if cfg.General.MatchRadius <= 0 {
		return errors.Errorf("match radius must be positive, got %d", cfg.General.MatchRadius)
	}
	if len(cfg.Copper.Gate) == 0 || len(cfg.Gold.Gate) == 0 || len(cfg.Bimetal.Gate) == 0 {
		return errors.New("every family needs a color gate")
	}
	if cfg.Bimetal.MaxDiameter < cfg.Bimetal.MinDiameter {
		return errors.Errorf("bimetal diameter range [%v, %v] is empty", cfg.Bimetal.MinDiameter, cfg.Bimetal.MaxDiameter)
	}
	if cfg.Tolerance.Base < 0 {
		return errors.Errorf("tolerance must not be negative, got %v", cfg.Tolerance.Base)
	}
	if cfg.ExclusionCapacity < 0 || cfg.ExclusionRadius < 0 {
		return errors.New("exclusion capacity and radius must not be negative")
	}
	if err := cfg.Tracker.Validate(); err != nil {
		return errors.Wrap(err, "Can't validate tracker config")
	}
	return nil
}

// kernelRadius converts square kernel size to radius of the disk used by morphology
func kernelRadius(kernel int) float64 {
	return float64(kernel) / 2.0
}
