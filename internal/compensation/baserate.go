package compensation

import "maps"

// BaseRateModel pays a flat rate per qualifying video plus one bonus chosen
// from Tiers by the creator's total views.
type BaseRateModel struct {
	ModelName string
	Label     string
	Rate      float64
	// Overrides replaces Rate for the named creators.
	Overrides map[string]float64
	Tiers     Tiers
	Source    Source
	// Floor is the minimum views for a video to qualify for the base rate.
	Floor int64
}

func (m BaseRateModel) Name() string { return m.ModelName }
func (m BaseRateModel) Kind() Kind   { return KindBaseRate }

// RateFor returns the per-video rate for creator.
func (m BaseRateModel) RateFor(creator string) float64 {
	if rate, ok := m.Overrides[creator]; ok {
		return rate
	}
	return m.Rate
}

func (m BaseRateModel) Definition() Definition {
	return Definition{
		Name:          m.ModelName,
		Kind:          string(KindBaseRate),
		Label:         m.Label,
		BaseRate:      m.Rate,
		RateOverrides: maps.Clone(m.Overrides),
		Floor:         m.Floor,
		Source:        string(m.Source),
		Tiers:         m.Tiers.Sorted(),
	}
}

// Evaluate prices agg. With the Instagram source the bonus is keyed on views
// from every platform and the display count is the fuzzy unique count;
// otherwise both come from the selected list.
func (m BaseRateModel) Evaluate(agg Aggregate) Line {
	videos, qualifying, views := baseInputs(agg, m.Source, m.Floor)
	rate := m.RateFor(agg.Creator)
	base := float64(qualifying) * rate
	return newCreatorFinancials(agg.Creator, videos, qualifying, views, rate, base, m.Tiers.Bonus(views)).Line()
}

// CPMModel pays a flat rate per qualifying video plus RatePer1K for every
// thousand views, capped at Cap when Cap is positive. The per-view bonus is
// rounded to cents. No creator overrides.
type CPMModel struct {
	ModelName string
	Label     string
	Rate      float64
	RatePer1K float64
	Cap       float64
	Source    Source
	Floor     int64
}

func (m CPMModel) Name() string { return m.ModelName }
func (m CPMModel) Kind() Kind   { return KindCPM }

func (m CPMModel) Definition() Definition {
	return Definition{
		Name:      m.ModelName,
		Kind:      string(KindCPM),
		Label:     m.Label,
		BaseRate:  m.Rate,
		RatePer1K: m.RatePer1K,
		Cap:       m.Cap,
		Floor:     m.Floor,
		Source:    string(m.Source),
	}
}

func (m CPMModel) Evaluate(agg Aggregate) Line {
	videos, qualifying, views := baseInputs(agg, m.Source, m.Floor)
	base := float64(qualifying) * m.Rate
	return newCreatorFinancials(agg.Creator, videos, qualifying, views, m.Rate, base, cpmBonus(views, m.RatePer1K, m.Cap)).Line()
}

func cpmBonus(views int64, ratePer1K, limit float64) float64 {
	bonus := float64(views) / 1000 * ratePer1K
	if limit > 0 {
		bonus = min(bonus, limit)
	}
	return RoundCurrency(bonus, 2)
}

func baseInputs(agg Aggregate, src Source, floor int64) (videos, qualifying int, views int64) {
	list := agg.Videos(src)
	qualifying = countAtLeast(list, floor)
	if src == SourceInstagram {
		return agg.UniqueVideos, qualifying, agg.TotalViews
	}
	return len(list), qualifying, sumViews(list)
}
