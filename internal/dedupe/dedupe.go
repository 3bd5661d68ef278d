package dedupe

import (
	"creatorpay/internal/platform"
	"creatorpay/internal/video"
)

// UniqueVideo is one piece of content after duplicates have been collapsed.
// The embedded Attributed record is the representative member; Views is
// either that member's views or the group sum depending on the policy.
type UniqueVideo struct {
	video.Attributed
	Views     int64               `json:"views"`
	Platforms []platform.Platform `json:"platforms"`
	// Members holds the input indexes folded into this video, first-seen first.
	Members []int `json:"-"`
}

// MemberCount is the number of input records represented by the video.
func (u UniqueVideo) MemberCount() int { return len(u.Members) }

// Policy names a deduplication function so callers can select one by value.
type Policy string

const (
	PolicyStrictFirst Policy = "strict-first"
	PolicyStrictMax   Policy = "strict-max"
	PolicyFuzzy       Policy = "fuzzy"
	PolicyFuzzyGroups Policy = "fuzzy-groups"
	PolicySum         Policy = "sum"
)

// Policies lists every policy in a stable order.
func Policies() []Policy {
	return []Policy{PolicyStrictFirst, PolicyStrictMax, PolicyFuzzy, PolicyFuzzyGroups, PolicySum}
}

// Apply runs the named policy. It reports false for an unknown policy.
func Apply(p Policy, videos []video.Attributed) ([]UniqueVideo, bool) {
	switch p {
	case PolicyStrictFirst:
		return StrictFirst(videos), true
	case PolicyStrictMax:
		return StrictMax(videos), true
	case PolicyFuzzy:
		return Fuzzy(videos), true
	case PolicyFuzzyGroups:
		return FuzzyGroups(videos), true
	case PolicySum:
		return SumAcrossPlatforms(videos), true
	default:
		return nil, false
	}
}

// TotalViews sums Views over unique videos.
func TotalViews(videos []UniqueVideo) int64 {
	var total int64
	for _, v := range videos {
		total += v.Views
	}
	return total
}

type strictKey struct {
	caption  string
	day      string
	duration int
}

type representative int

const (
	keepFirst representative = iota
	keepMax
	keepMaxSum
)

// StrictFirst groups by (alphanumeric caption, day, duration) and keeps the
// first video seen for each key.
func StrictFirst(videos []video.Attributed) []UniqueVideo {
	return groupExact(videos, alnumKey, keepFirst)
}

// StrictMax groups like StrictFirst but keeps the most viewed video of each
// key. Ties go to the earliest video in input order.
func StrictMax(videos []video.Attributed) []UniqueVideo {
	return groupExact(videos, alnumKey, keepMax)
}

// SumAcrossPlatforms groups by (whitespace-collapsed caption, day, duration)
// and reports the summed views of each group. Caption, platform and URL come
// from the most viewed member.
func SumAcrossPlatforms(videos []video.Attributed) []UniqueVideo {
	return groupExact(videos, whitespaceKey, keepMaxSum)
}

func alnumKey(v video.Attributed) strictKey {
	return strictKey{caption: CaptionAlnum(v.Caption), day: DayKey(v.PublishedDate), duration: v.Duration}
}

func whitespaceKey(v video.Attributed) strictKey {
	return strictKey{caption: CaptionWhitespace(v.Caption), day: DayKey(v.PublishedDate), duration: v.Duration}
}

func groupExact(videos []video.Attributed, keyFn func(video.Attributed) strictKey, keep representative) []UniqueVideo {
	if len(videos) == 0 {
		return nil
	}
	positions := make(map[strictKey]int, len(videos))
	var out []UniqueVideo
	for i, v := range videos {
		key := keyFn(v)
		pos, ok := positions[key]
		if !ok {
			positions[key] = len(out)
			out = append(out, newUnique(i, v))
			continue
		}
		out[pos].fold(i, v, keep)
	}
	return out
}

func newUnique(index int, v video.Attributed) UniqueVideo {
	return UniqueVideo{
		Attributed: v,
		Views:      v.Views,
		Platforms:  []platform.Platform{v.Platform},
		Members:    []int{index},
	}
}

func (u *UniqueVideo) fold(index int, v video.Attributed, keep representative) {
	u.Members = append(u.Members, index)
	u.addPlatform(v.Platform)
	switch keep {
	case keepMax:
		if v.Views > u.Attributed.Views {
			u.Attributed = v
			u.Views = v.Views
		}
	case keepMaxSum:
		if v.Views > u.Attributed.Views {
			u.Attributed = v
		}
		u.Views += v.Views
	}
}

func (u *UniqueVideo) addPlatform(p platform.Platform) {
	for _, existing := range u.Platforms {
		if existing == p {
			return
		}
	}
	u.Platforms = append(u.Platforms, p)
}
