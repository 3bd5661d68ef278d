package dedupe

import (
	"strings"

	"creatorpay/internal/video"
)

const (
	// minContainedCaption is the length both captions must exceed before a
	// substring match counts as the same caption.
	minContainedCaption = 10
	// durationTolerance is the largest duration difference, in seconds, for
	// two uploads to be the same content.
	durationTolerance = 5
)

type signature struct {
	creator  string
	caption  string
	date     string
	duration int
}

func signatureOf(v video.Attributed) signature {
	return signature{
		creator:  v.Creator,
		caption:  CaptionWhitespace(v.Caption),
		date:     DateKey(v.PublishedDate),
		duration: v.Duration,
	}
}

// matches applies the tolerant comparison: same creator, equal or
// mutually-containing captions, dates within a day and durations within five
// seconds. emptyMatches decides whether two empty captions are the same.
func (s signature) matches(o signature, emptyMatches bool) bool {
	if s.creator != o.creator {
		return false
	}
	if s.caption == "" || o.caption == "" {
		if !emptyMatches || s.caption != o.caption {
			return false
		}
	} else if !captionsMatch(s.caption, o.caption) {
		return false
	}
	if s.date != o.date && !withinOneDay(s.date, o.date) {
		return false
	}
	diff := s.duration - o.duration
	if diff < 0 {
		diff = -diff
	}
	return diff <= durationTolerance
}

func captionsMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) <= minContainedCaption || len(b) <= minContainedCaption {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Fuzzy walks videos in order and keeps each one that does not match an
// earlier kept video's signature. Matching videos are discarded, so Views is
// always the kept video's own count. Videos with empty captions never match.
func Fuzzy(videos []video.Attributed) []UniqueVideo {
	return groupFuzzy(videos, false, keepFirst)
}

// FuzzyGroups uses the same tolerant matching as Fuzzy but sums views across
// each group and takes metadata from its most viewed member. Two empty
// captions are treated as the same caption here.
func FuzzyGroups(videos []video.Attributed) []UniqueVideo {
	return groupFuzzy(videos, true, keepMaxSum)
}

func groupFuzzy(videos []video.Attributed, emptyMatches bool, keep representative) []UniqueVideo {
	if len(videos) == 0 {
		return nil
	}
	var (
		seen []signature
		out  []UniqueVideo
	)
	for i, v := range videos {
		sig := signatureOf(v)
		matched := -1
		for j, s := range seen {
			if sig.matches(s, emptyMatches) {
				matched = j
				break
			}
		}
		if matched < 0 {
			seen = append(seen, sig)
			out = append(out, newUnique(i, v))
			continue
		}
		out[matched].fold(i, v, keep)
	}
	return out
}
