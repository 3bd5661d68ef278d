package compensation

import (
	"creatorpay/internal/dedupe"
)

// Kind tags a model family.
type Kind string

const (
	KindBaseRate    Kind = "base_rate"
	KindCPM         Kind = "cpm"
	KindPerformance Kind = "performance"
	KindHybrid      Kind = "hybrid"
)

// Source selects which deduplicated video list a model prices.
type Source string

const (
	// SourceInstagram prices the first-seen strict groups of the qualifying
	// platform. Bonus views still come from every platform.
	SourceInstagram Source = "instagram"
	// SourceTopPlatform prices strict groups represented by their most viewed
	// upload.
	SourceTopPlatform Source = "top_platform"
	// SourceSummed prices groups whose views are summed across platforms.
	SourceSummed Source = "summed"
)

// BonusScope says whether a hybrid bonus is paid per video or once per
// creator on the summed views.
type BonusScope string

const (
	ScopeVideo   BonusScope = "video"
	ScopeCreator BonusScope = "creator"
)

// Aggregate is everything the engine knows about one creator. It is built by
// the pipeline and never mutated by a model.
type Aggregate struct {
	Creator string
	// RawVideos counts attributed rows before deduplication.
	RawVideos int
	// TotalViews sums views over every attributed row on every platform.
	TotalViews int64
	// UniqueVideos is the fuzzy-deduplicated video count used for display.
	UniqueVideos int
	Instagram    []dedupe.UniqueVideo
	TopPlatform  []dedupe.UniqueVideo
	Summed       []dedupe.UniqueVideo
}

// Videos returns the list backing src. Unknown sources fall back to the
// top-platform list.
func (a Aggregate) Videos(src Source) []dedupe.UniqueVideo {
	switch src {
	case SourceInstagram:
		return a.Instagram
	case SourceSummed:
		return a.Summed
	default:
		return a.TopPlatform
	}
}

// Model prices one creator at a time.
type Model interface {
	Name() string
	Kind() Kind
	// Definition returns the configuration the model was built from.
	Definition() Definition
	Evaluate(agg Aggregate) Line
}

func sumViews(videos []dedupe.UniqueVideo) int64 {
	var total int64
	for _, v := range videos {
		total += v.Views
	}
	return total
}

func countAtLeast(videos []dedupe.UniqueVideo, floor int64) int {
	n := 0
	for _, v := range videos {
		if v.Views >= floor {
			n++
		}
	}
	return n
}
