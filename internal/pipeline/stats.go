package pipeline

import (
	"sort"

	"creatorpay/internal/compensation"
	"creatorpay/internal/platform"
	"creatorpay/internal/video"
)

// Stats describes a creator's raw output independent of any pricing model.
type Stats struct {
	Creator            string              `json:"creator"`
	RawVideos          int                 `json:"raw_videos"`
	UniqueVideos       int                 `json:"unique_videos"`
	QualifyingVideos   int                 `json:"qualifying_videos"`
	Platforms          []platform.Platform `json:"platforms"`
	Views              int64               `json:"views"`
	Likes              int64               `json:"likes"`
	Comments           int64               `json:"comments"`
	Shares             int64               `json:"shares"`
	AverageViews       float64             `json:"average_views"`
	MaxViews           int64               `json:"max_views"`
	EngagementRate     float64             `json:"engagement_rate"`
	EstimatedFollowers int                 `json:"estimated_followers"`
}

// NewStats summarises videos. Averages divide by the unique video count.
func NewStats(agg compensation.Aggregate, videos []video.Attributed) Stats {
	s := Stats{
		Creator:          agg.Creator,
		RawVideos:        len(videos),
		UniqueVideos:     agg.UniqueVideos,
		QualifyingVideos: len(agg.Instagram),
	}
	seen := make(map[platform.Platform]struct{})
	for _, v := range videos {
		s.Views += v.Views
		s.Likes += v.Likes
		s.Comments += v.Comments
		s.Shares += v.Shares
		s.MaxViews = max(s.MaxViews, v.Views)
		if _, ok := seen[v.Platform]; !ok {
			seen[v.Platform] = struct{}{}
			s.Platforms = append(s.Platforms, v.Platform)
		}
	}
	sort.Slice(s.Platforms, func(i, j int) bool { return s.Platforms[i] < s.Platforms[j] })
	if s.UniqueVideos > 0 {
		s.AverageViews = float64(s.Views) / float64(s.UniqueVideos)
	}
	if s.Views > 0 {
		s.EngagementRate = float64(s.Likes+s.Comments+s.Shares) / float64(s.Views)
	}
	s.EstimatedFollowers = compensation.EstimateFollowers(s.UniqueVideos, s.AverageViews)
	return s
}
