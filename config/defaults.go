package config

import (
	"github.com/LdDl/coin-counter/coins"
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	d := coins.DefaultConfig()

	// Tracker defaults
	t := d.Tracker
	v.SetDefault("tracker.capacity", t.Capacity)
	v.SetDefault("tracker.clock_ceiling", t.ClockCeiling)
	v.SetDefault("tracker.near_distance", t.Near.DistThreshold)
	v.SetDefault("tracker.near_memory", t.Near.MemoryFrames)
	v.SetDefault("tracker.far_distance", t.Far.DistThreshold)
	v.SetDefault("tracker.far_memory", t.Far.MemoryFrames)
	v.SetDefault("tracker.far_types", t.FarTypes)
	v.SetDefault("tracker.superseding_types", t.SupersedingTypes)
	v.SetDefault("tracker.inferior_types", t.InferiorTypes)
	v.SetDefault("tracker.eviction_radius", t.EvictionRadius)
	v.SetDefault("tracker.correction_radius", t.CorrectionRadius)
	v.SetDefault("tracker.lookup_radius", t.LookupRadius)
	v.SetDefault("tracker.max_track_len", t.MaxTrackLen)

	// Exclusion zones defaults
	v.SetDefault("exclusion.capacity", d.ExclusionCapacity)
	v.SetDefault("exclusion.radius", d.ExclusionRadius)

	// General candidates defaults
	v.SetDefault("detection.threshold", int(d.General.Threshold))
	v.SetDefault("detection.open_kernel", d.General.OpenKernel)
	v.SetDefault("detection.close_kernel", d.General.CloseKernel)
	v.SetDefault("detection.min_area", d.General.MinArea)
	v.SetDefault("detection.max_area", d.General.MaxArea)
	v.SetDefault("detection.max_width", d.General.MaxWidth)
	v.SetDefault("detection.match_radius", d.General.MatchRadius)
	v.SetDefault("detection.tolerance", float64(d.Tolerance.Base))
	v.SetDefault("detection.tolerance_margin", d.Tolerance.EdgeMargin)
	v.SetDefault("detection.summary_every", d.SummaryEvery)

	// Families defaults
	setFamilyDefaults(v, "detection.copper", d.Copper)
	setFamilyDefaults(v, "detection.gold", d.Gold)

	b := d.Bimetal
	v.SetDefault("detection.bimetal.open_kernel", b.OpenKernel)
	v.SetDefault("detection.bimetal.min_area", b.MinArea)
	v.SetDefault("detection.bimetal.max_area", b.MaxArea)
	v.SetDefault("detection.bimetal.min_diameter", float64(b.MinDiameter))
	v.SetDefault("detection.bimetal.max_diameter", float64(b.MaxDiameter))
	v.SetDefault("detection.bimetal.min_circularity", float64(b.MinCircularity))
	v.SetDefault("detection.bimetal.two_euro_diameter", float64(b.TwoEuroDiameter))
	v.SetDefault("detection.bimetal.partial_circularity", float64(b.PartialCircularity))
	v.SetDefault("detection.bimetal.partial_min_side", b.PartialMinSide)
	v.SetDefault("detection.bimetal.partial_min_area", b.PartialMinArea)

	v.SetDefault("detection.release_band.enabled", d.Release.Enabled)
	v.SetDefault("detection.release_band.min_y", d.Release.MinY)
	v.SetDefault("detection.release_band.max_y", d.Release.MaxY)

	// Logging defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

func setFamilyDefaults(v *viper.Viper, prefix string, f coins.FamilyConfig) {
	v.SetDefault(prefix+".open_kernel", f.OpenKernel)
	v.SetDefault(prefix+".min_area", f.MinArea)
	v.SetDefault(prefix+".min_circularity", float64(f.MinCircularity))
	v.SetDefault(prefix+".edge_margin", f.EdgeMargin)
	v.SetDefault(prefix+".exclusion_shift", float64(f.ExclusionShift))
}
