package compensation

// PerformanceModel pays each video the highest tier its own views reach.
// Videos under Floor earn nothing and do not count as qualified.
type PerformanceModel struct {
	ModelName string
	Label     string
	Floor     int64
	Tiers     Tiers
	Source    Source
}

func (m PerformanceModel) Name() string { return m.ModelName }
func (m PerformanceModel) Kind() Kind   { return KindPerformance }

func (m PerformanceModel) Definition() Definition {
	return Definition{
		Name:   m.ModelName,
		Kind:   string(KindPerformance),
		Label:  m.Label,
		Floor:  m.Floor,
		Source: string(m.Source),
		Tiers:  m.Tiers.Sorted(),
	}
}

// VideoCompensation prices a single video.
func (m PerformanceModel) VideoCompensation(views int64) float64 {
	if views < m.Floor {
		return 0
	}
	return m.Tiers.Bonus(views)
}

// Financials evaluates agg into the performance record.
func (m PerformanceModel) Financials(agg Aggregate) PerformanceFinancials {
	videos := agg.Videos(m.Source)
	out := PerformanceFinancials{Creator: agg.Creator, TotalVideos: len(videos)}
	for _, v := range videos {
		out.TotalViews += v.Views
		if pay := m.VideoCompensation(v.Views); pay > 0 {
			out.QualifiedVideos++
			out.TotalCompensation += pay
		}
	}
	out.CostPerView = ratio(out.TotalCompensation, float64(out.TotalViews))
	out.CostPerVideo = ratio(out.TotalCompensation, float64(out.QualifiedVideos))
	return out
}

func (m PerformanceModel) Evaluate(agg Aggregate) Line {
	return m.Financials(agg).Line()
}

// HybridModel pays Rate for every video reaching Floor plus a bonus. The
// bonus comes from Tiers, or from RatePer1K when no tiers are set, and is
// computed per video or once on the creator's summed views depending on
// Scope. Cap limits each bonus computation when positive.
type HybridModel struct {
	ModelName string
	Label     string
	Rate      float64
	Floor     int64
	Tiers     Tiers
	RatePer1K float64
	Cap       float64
	Scope     BonusScope
	Source    Source
}

func (m HybridModel) Name() string { return m.ModelName }
func (m HybridModel) Kind() Kind   { return KindHybrid }

func (m HybridModel) Definition() Definition {
	return Definition{
		Name:       m.ModelName,
		Kind:       string(KindHybrid),
		Label:      m.Label,
		BaseRate:   m.Rate,
		Floor:      m.Floor,
		RatePer1K:  m.RatePer1K,
		Cap:        m.Cap,
		Source:     string(m.Source),
		BonusScope: string(m.Scope),
		Tiers:      m.Tiers.Sorted(),
	}
}

func (m HybridModel) bonus(views int64) float64 {
	if len(m.Tiers) == 0 {
		return cpmBonus(views, m.RatePer1K, m.Cap)
	}
	bonus := m.Tiers.Bonus(views)
	if m.Cap > 0 {
		bonus = min(bonus, m.Cap)
	}
	return bonus
}

func (m HybridModel) Evaluate(agg Aggregate) Line {
	videos := agg.Videos(m.Source)
	var (
		views      int64
		qualifying int
		bonus      float64
	)
	for _, v := range videos {
		views += v.Views
		if v.Views >= m.Floor {
			qualifying++
		}
		if m.Scope != ScopeCreator {
			bonus += m.bonus(v.Views)
		}
	}
	if m.Scope == ScopeCreator {
		bonus = m.bonus(views)
	}
	base := float64(qualifying) * m.Rate
	return newCreatorFinancials(agg.Creator, len(videos), qualifying, views, m.Rate, base, bonus).Line()
}
