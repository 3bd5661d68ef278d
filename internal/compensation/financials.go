package compensation

import "math"

// CreatorFinancials is the result of a base-rate style model.
type CreatorFinancials struct {
	Creator            string  `json:"creator"`
	TotalVideos        int     `json:"total_videos"`
	QualifyingVideos   int     `json:"qualifying_videos"`
	TotalViews         int64   `json:"total_views"`
	AverageViews       float64 `json:"average_views"`
	EstimatedFollowers int     `json:"estimated_followers"`
	BaseRate           float64 `json:"base_rate"`
	BaseCost           float64 `json:"base_cost"`
	Bonus              float64 `json:"bonus"`
	TotalCost          float64 `json:"total_cost"`
	CostPerView        float64 `json:"cost_per_view"`
	CostPerVideo       float64 `json:"cost_per_video"`
}

func newCreatorFinancials(creator string, videos, qualifying int, views int64, rate, base, bonus float64) CreatorFinancials {
	total := base + bonus
	avg := ratio(float64(views), float64(videos))
	return CreatorFinancials{
		Creator:            creator,
		TotalVideos:        videos,
		QualifyingVideos:   qualifying,
		TotalViews:         views,
		AverageViews:       avg,
		EstimatedFollowers: EstimateFollowers(videos, avg),
		BaseRate:           rate,
		BaseCost:           base,
		Bonus:              bonus,
		TotalCost:          total,
		CostPerView:        ratio(total, float64(views)),
		CostPerVideo:       ratio(total, float64(qualifying)),
	}
}

// Line converts the financials to a report line.
func (f CreatorFinancials) Line() Line {
	return Line{
		Creator:            f.Creator,
		Videos:             f.TotalVideos,
		QualifyingVideos:   f.QualifyingVideos,
		TotalViews:         f.TotalViews,
		AverageViews:       f.AverageViews,
		EstimatedFollowers: f.EstimatedFollowers,
		BaseRate:           f.BaseRate,
		BaseCost:           f.BaseCost,
		Bonus:              f.Bonus,
		TotalCost:          f.TotalCost,
		CostPerView:        f.CostPerView,
		CostPerVideo:       f.CostPerVideo,
	}
}

// PerformanceFinancials is the result of a per-video performance model.
type PerformanceFinancials struct {
	Creator           string  `json:"creator"`
	TotalVideos       int     `json:"total_videos"`
	QualifiedVideos   int     `json:"qualified_videos"`
	TotalViews        int64   `json:"total_views"`
	TotalCompensation float64 `json:"total_compensation"`
	CostPerView       float64 `json:"cost_per_view"`
	CostPerVideo      float64 `json:"cost_per_video"`
}

// Line converts the financials to a report line. Per-video compensation is
// reported as bonus with no base cost.
func (f PerformanceFinancials) Line() Line {
	avg := ratio(float64(f.TotalViews), float64(f.TotalVideos))
	return Line{
		Creator:            f.Creator,
		Videos:             f.TotalVideos,
		QualifyingVideos:   f.QualifiedVideos,
		TotalViews:         f.TotalViews,
		AverageViews:       avg,
		EstimatedFollowers: EstimateFollowers(f.TotalVideos, avg),
		Bonus:              f.TotalCompensation,
		TotalCost:          f.TotalCompensation,
		CostPerView:        f.CostPerView,
		CostPerVideo:       f.CostPerVideo,
	}
}

// Line is one creator row of a report, shared by every model kind.
type Line struct {
	Creator            string  `json:"creator"`
	Videos             int     `json:"videos"`
	QualifyingVideos   int     `json:"qualifying_videos"`
	TotalViews         int64   `json:"total_views"`
	AverageViews       float64 `json:"average_views"`
	EstimatedFollowers int     `json:"estimated_followers"`
	BaseRate           float64 `json:"base_rate,omitempty"`
	BaseCost           float64 `json:"base_cost"`
	Bonus              float64 `json:"bonus"`
	TotalCost          float64 `json:"total_cost"`
	CostPerView        float64 `json:"cost_per_view"`
	CostPerVideo       float64 `json:"cost_per_video"`
}

// EstimateFollowers guesses an audience size from average views. It returns
// 0 for a creator without videos and never less than 100 otherwise.
func EstimateFollowers(videos int, averageViews float64) int {
	if videos == 0 {
		return 0
	}
	var multiplier float64
	switch {
	case averageViews > 10000:
		multiplier = 2
	case averageViews > 5000:
		multiplier = 3
	case averageViews > 1000:
		multiplier = 5
	default:
		multiplier = 10
	}
	return max(int(averageViews*multiplier), 100)
}

// RoundCurrency rounds value to the given number of decimal places.
func RoundCurrency(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
