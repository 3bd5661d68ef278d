package compensation

// Preset model names.
const (
	PresetDefault        = "default"
	PresetPerformance    = "performance"
	PresetCPM            = "cpm"
	PresetLowerThreshold = "lower_threshold"
	PresetBase2K         = "base_2k"
	PresetMinimum3K      = "minimum_3k"
	PresetHybrid         = "hybrid"
	PresetSummed         = "summed"
)

func defaultTiers() Tiers {
	return Tiers{
		{MinViews: 5_000_000, Bonus: 3000, Name: "5M+ views"},
		{MinViews: 3_000_000, Bonus: 2000, Name: "3M+ views"},
		{MinViews: 1_000_000, Bonus: 1200, Name: "1M+ views"},
		{MinViews: 500_000, Bonus: 500, Name: "500K+ views"},
		{MinViews: 250_000, Bonus: 200, Name: "250K+ views"},
		{MinViews: 50_000, Bonus: 150, Name: "50K+ views"},
		{MinViews: 20_000, Bonus: 35, Name: "20K+ views"},
	}
}

// performanceTiers is the shared upper part of every performance table.
func performanceTiers() Tiers {
	return Tiers{
		{MinViews: 10_000_000, Bonus: 3000, Name: "10M+ views"},
		{MinViews: 5_000_000, Bonus: 2000, Name: "5M+ views"},
		{MinViews: 3_000_000, Bonus: 1500, Name: "3M+ views"},
		{MinViews: 1_000_000, Bonus: 1000, Name: "1M+ views"},
		{MinViews: 500_000, Bonus: 700, Name: "500K+ views"},
		{MinViews: 250_000, Bonus: 350, Name: "250K+ views"},
		{MinViews: 100_000, Bonus: 225, Name: "100K+ views"},
		{MinViews: 50_000, Bonus: 150, Name: "50K+ views"},
	}
}

func hybridTiers() Tiers {
	return Tiers{
		{MinViews: 5_000_000, Bonus: 2970, Name: "5M+ views"},
		{MinViews: 2_000_000, Bonus: 2270, Name: "2M+ views"},
		{MinViews: 500_000, Bonus: 1270, Name: "500K+ views"},
		{MinViews: 100_000, Bonus: 470, Name: "100K+ views"},
		{MinViews: 50_000, Bonus: 170, Name: "50K+ views"},
		{MinViews: 10_000, Bonus: 45, Name: "10K+ views"},
	}
}

func namedRates() map[string]float64 {
	return map[string]float64{"John Sellers": 40, "Yunski": 40}
}

// Presets returns the built-in models. Each call returns fresh values.
func Presets() []Model {
	lowerThreshold := append(performanceTiers(), Tier{MinViews: 5_000, Bonus: 50, Name: "5K+ views"})
	base2K := append(performanceTiers(),
		Tier{MinViews: 5_000, Bonus: 50, Name: "5K+ views"},
		Tier{MinViews: 2_000, Bonus: 20, Name: "2K+ views"},
	)
	return []Model{
		BaseRateModel{
			ModelName: PresetDefault,
			Label:     "Base rate + bonuses",
			Rate:      30,
			Overrides: namedRates(),
			Tiers:     defaultTiers(),
			Source:    SourceInstagram,
		},
		PerformanceModel{
			ModelName: PresetPerformance,
			Label:     "Performance per video",
			Floor:     10_000,
			Tiers:     append(performanceTiers(), Tier{MinViews: 10_000, Bonus: 100, Name: "10K+ views"}),
			Source:    SourceTopPlatform,
		},
		CPMModel{
			ModelName: PresetCPM,
			Label:     "Optimized CPM",
			Rate:      20,
			RatePer1K: 1,
			Cap:       1200,
			Source:    SourceInstagram,
		},
		PerformanceModel{
			ModelName: PresetLowerThreshold,
			Label:     "Lower threshold performance",
			Floor:     5_000,
			Tiers:     lowerThreshold,
			Source:    SourceTopPlatform,
		},
		PerformanceModel{
			ModelName: PresetBase2K,
			Label:     "$20 base with 2K minimum",
			Floor:     2_000,
			Tiers:     base2K,
			Source:    SourceTopPlatform,
		},
		BaseRateModel{
			ModelName: PresetMinimum3K,
			Label:     "Base rate with 3K minimum",
			Rate:      30,
			Overrides: namedRates(),
			Tiers:     defaultTiers(),
			Source:    SourceTopPlatform,
			Floor:     3_000,
		},
		HybridModel{
			ModelName: PresetHybrid,
			Label:     "$30 base + individual video bonus",
			Rate:      30,
			Floor:     3_000,
			Tiers:     hybridTiers(),
			Scope:     ScopeVideo,
			Source:    SourceSummed,
		},
		HybridModel{
			ModelName: PresetSummed,
			Label:     "$30 base + summed video bonus",
			Rate:      30,
			Floor:     3_000,
			Tiers:     hybridTiers(),
			Scope:     ScopeCreator,
			Source:    SourceSummed,
		},
	}
}
