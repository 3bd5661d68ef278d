package dedupe

import (
	"strings"
	"time"
)

// CaptionAlnum lower-cases a caption and keeps only ASCII letters and digits.
// It is the signature form used by the strict policy.
func CaptionAlnum(caption string) string {
	lower := strings.ToLower(caption)
	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// CaptionWhitespace lower-cases a caption and collapses runs of whitespace to
// a single space. It is the signature form used by the fuzzy and summing
// policies.
func CaptionWhitespace(caption string) string {
	return strings.Join(strings.Fields(strings.ToLower(caption)), " ")
}

// DayKey truncates a published date to its first ten characters, which is
// YYYY-MM-DD for every export format seen so far.
func DayKey(published string) string {
	s := strings.TrimSpace(published)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

const dayLayout = "2006-01-02"

var dateLayouts = []string{dayLayout, "2006-01-02 15:04:05"}

// ParseDate parses the date formats found in exports. Offsets written as
// "+hh:mm" after a space-separated timestamp are ignored.
func ParseDate(published string) (time.Time, bool) {
	s := strings.TrimSpace(published)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	trimmed := strings.TrimSpace(strings.SplitN(s, "+", 2)[0])
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateKey returns YYYY-MM-DD for a parseable date and falls back to DayKey.
func DateKey(published string) string {
	if t, ok := ParseDate(published); ok {
		return t.Format(dayLayout)
	}
	return DayKey(published)
}

// withinOneDay reports whether two date keys are parseable days at most one
// calendar day apart.
func withinOneDay(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	da, err := time.Parse(dayLayout, a)
	if err != nil {
		return false
	}
	db, err := time.Parse(dayLayout, b)
	if err != nil {
		return false
	}
	diff := da.Sub(db)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 24*time.Hour
}
