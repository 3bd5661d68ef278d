package simulate

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"creatorpay/internal/compensation"
	"creatorpay/internal/dedupe"
	"creatorpay/internal/platform"
	"creatorpay/internal/video"
)

// DefaultSeed keeps runs reproducible when no seed is given.
const DefaultSeed int64 = 42

const (
	viralThreshold  = 100_000
	boostCandidate  = 20_000
	minCreatorViews = 20_000
	maxCreatorViews = 5_000_000
)

// Options control generation.
type Options struct {
	Seed     int64
	Creators int
	// Videos is the mean number of videos per creator.
	Videos int
	// Profiles, when set, replaces random creator totals.
	Profiles []Profile
}

// Profile fixes one creator's view total and video count.
type Profile struct {
	Name       string `json:"name"`
	TotalViews int64  `json:"total_views"`
	Videos     int    `json:"videos"`
}

// Creator is a generated creator with one Instagram post per video.
type Creator struct {
	Name   string             `json:"name"`
	Videos []video.Attributed `json:"videos"`
}

// TotalViews sums the creator's videos.
func (c Creator) TotalViews() int64 {
	var total int64
	for _, v := range c.Videos {
		total += v.Views
	}
	return total
}

// Generator produces synthetic creators from a seeded source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)))}
}

// Generate builds creators according to opts.
func Generate(opts Options) []Creator {
	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	g := NewGenerator(seed)
	profiles := opts.Profiles
	if len(profiles) == 0 {
		profiles = g.Profiles(opts.Creators, opts.Videos)
	}
	creators := make([]Creator, 0, len(profiles))
	for _, p := range profiles {
		if p.Videos <= 0 {
			continue
		}
		creators = append(creators, g.Creator(p))
	}
	return creators
}

// Profiles draws n creator profiles. View totals are log-uniform between
// 20K and 5M; video counts vary by half the mean either way.
func (g *Generator) Profiles(n, meanVideos int) []Profile {
	if n <= 0 {
		n = 10
	}
	if meanVideos <= 0 {
		meanVideos = 12
	}
	lo, hi := math.Log(minCreatorViews), math.Log(maxCreatorViews)
	out := make([]Profile, 0, n)
	for i := range n {
		total := int64(math.Exp(lo + g.rng.Float64()*(hi-lo)))
		spread := meanVideos / 2
		count := meanVideos
		if spread > 0 {
			count = meanVideos - spread + g.rng.IntN(2*spread+1)
		}
		out = append(out, Profile{
			Name:       fmt.Sprintf("Creator %02d", i+1),
			TotalViews: total,
			Videos:     max(1, count),
		})
	}
	return out
}

// Creator splits a profile's views across its videos.
func (g *Generator) Creator(p Profile) Creator {
	views := g.Split(p.TotalViews, p.Videos)
	c := Creator{Name: p.Name, Videos: make([]video.Attributed, 0, len(views))}
	for i, v := range views {
		c.Videos = append(c.Videos, video.Attributed{
			Record: video.Record{
				Line:          i + 1,
				VideoURL:      fmt.Sprintf("https://www.instagram.com/reel/sim-%d", i+1),
				Username:      p.Name,
				Platform:      platform.Instagram,
				Views:         v,
				Caption:       fmt.Sprintf("%s clip %03d", p.Name, i+1),
				PublishedDate: fmt.Sprintf("2025-12-%02d", (i%28)+1),
			},
			Creator: p.Name,
		})
	}
	return c
}

// Split divides total across count videos. The first fifth of videos (at
// least one) draw 5-15% of what remains, with the very first drawing 15-35%
// when there are more than five videos. Later videos draw 50-150% of the
// remaining average. Whatever is left lands on the first video, so the
// result always sums to total.
func (g *Generator) Split(total int64, count int) []int64 {
	if count <= 0 {
		return nil
	}
	total = max(total, 0)
	views := make([]int64, count)
	remaining := total
	head := max(1, count/5)
	for i := range count {
		var v int64
		switch {
		case i < head && i == 0 && count > 5:
			v = int64(float64(remaining) * g.uniform(0.15, 0.35))
		case i < head:
			v = int64(float64(remaining) * g.uniform(0.05, 0.15))
		default:
			avg := float64(remaining) / float64(count-i)
			v = int64(avg * g.uniform(0.5, 1.5))
		}
		v = min(max(v, 0), remaining)
		remaining -= v
		views[i] = v
	}
	views[0] += remaining
	return views
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// Projection reports what Project changed.
type Projection struct {
	Creators    []Creator `json:"-"`
	Videos      int       `json:"videos"`
	ViralBefore int       `json:"viral_before"`
	Target      int       `json:"viral_target"`
	Boosted     int       `json:"boosted"`
	ViralAfter  int       `json:"viral_after"`
}

type videoRef struct {
	creator, index int
	views          int64
}

// Project simulates a month in which share of all videos pass 100K views.
// Videos already past 100K grow 3-10x. The highest candidates at or above
// 20K are pushed past 100K until the target is met. Every other video moves
// by up to 20% either way. The input is not modified.
func (g *Generator) Project(creators []Creator, share float64) Projection {
	var (
		total      int
		viral      []videoRef
		candidates []videoRef
	)
	for ci, c := range creators {
		for vi, v := range c.Videos {
			total++
			ref := videoRef{creator: ci, index: vi, views: v.Views}
			switch {
			case v.Views >= viralThreshold:
				viral = append(viral, ref)
			case v.Views >= boostCandidate:
				candidates = append(candidates, ref)
			}
		}
	}
	target := max(1, int(float64(total)*share))
	boost := make(map[[2]int]bool, target)
	for _, ref := range viral {
		boost[[2]int{ref.creator, ref.index}] = true
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].views > candidates[j].views })
	needed := max(0, target-len(viral))
	for _, ref := range candidates[:min(needed, len(candidates))] {
		boost[[2]int{ref.creator, ref.index}] = true
	}

	proj := Projection{Videos: total, ViralBefore: len(viral), Target: target, Boosted: len(boost)}
	proj.Creators = make([]Creator, 0, len(creators))
	for ci, c := range creators {
		next := Creator{Name: c.Name, Videos: make([]video.Attributed, len(c.Videos))}
		for vi, v := range c.Videos {
			if boost[[2]int{ci, vi}] {
				v.Views = g.viral(v.Views)
			} else {
				v.Views = int64(float64(v.Views) * g.uniform(0.8, 1.2))
			}
			if v.Views >= viralThreshold {
				proj.ViralAfter++
			}
			next.Videos[vi] = v
		}
		proj.Creators = append(proj.Creators, next)
	}
	return proj
}

func (g *Generator) viral(views int64) int64 {
	if views >= viralThreshold {
		return int64(float64(views) * g.uniform(3.0, 10.0))
	}
	var m float64
	switch {
	case views >= 50_000:
		m = g.uniform(2.0, 5.0)
	case views >= 30_000:
		m = g.uniform(3.5, 6.0)
	default:
		m = g.uniform(5.0, 8.0)
	}
	return max(viralThreshold+1, int64(float64(views)*m))
}

// Aggregates turns generated creators into compensation inputs. Every video
// is treated as distinct content on Instagram, so all sources agree.
func Aggregates(creators []Creator) []compensation.Aggregate {
	aggs := make([]compensation.Aggregate, 0, len(creators))
	for _, c := range creators {
		agg := compensation.Aggregate{
			Creator:     c.Name,
			RawVideos:   len(c.Videos),
			TotalViews:  c.TotalViews(),
			Instagram:   dedupe.StrictFirst(c.Videos),
			TopPlatform: dedupe.StrictMax(c.Videos),
			Summed:      dedupe.SumAcrossPlatforms(c.Videos),
		}
		agg.UniqueVideos = len(dedupe.Fuzzy(c.Videos))
		aggs = append(aggs, agg)
	}
	return aggs
}

// Compare prices the same creators under every model, in model order.
func Compare(creators []Creator, models []compensation.Model) []compensation.Report {
	aggs := Aggregates(creators)
	reports := make([]compensation.Report, 0, len(models))
	for _, m := range models {
		reports = append(reports, compensation.Evaluate(m, aggs))
	}
	return reports
}
