package dedupe_test

import (
	"sort"
	"testing"

	"creatorpay/internal/dedupe"
	"creatorpay/internal/platform"
	"creatorpay/internal/video"
)

func clip(creator string, p platform.Platform, views int64, caption, date string, duration int) video.Attributed {
	return video.Attributed{
		Record: video.Record{
			VideoURL:      "https://example.com/" + string(p) + "/" + caption,
			Platform:      p,
			Views:         views,
			Caption:       caption,
			PublishedDate: date,
			Duration:      duration,
		},
		Creator: creator,
	}
}

func crossPosted() []video.Attributed {
	return []video.Attributed{
		clip("A", platform.Instagram, 1000, "Math trick!", "2025-10-01", 30),
		clip("A", platform.TikTok, 2000, "math trick", "2025-10-01", 30),
		clip("A", platform.YouTube, 500, "Math trick!", "2025-10-01", 30),
	}
}

func TestCaptionForms(t *testing.T) {
	if got := dedupe.CaptionAlnum("Math trick! #1"); got != "mathtrick1" {
		t.Fatalf("CaptionAlnum = %q", got)
	}
	if got := dedupe.CaptionWhitespace("  Math   trick!\n#1 "); got != "math trick! #1" {
		t.Fatalf("CaptionWhitespace = %q", got)
	}
	if got := dedupe.DayKey("2025-10-01 13:45:00"); got != "2025-10-01" {
		t.Fatalf("DayKey = %q", got)
	}
	if got := dedupe.DayKey("oct 1"); got != "oct 1" {
		t.Fatalf("DayKey short = %q", got)
	}
}

func TestDateKey(t *testing.T) {
	tests := map[string]string{
		"2025-10-01":                "2025-10-01",
		"2025-10-01 23:59:59":       "2025-10-01",
		"2025-10-01 10:00:00+02:00": "2025-10-01",
		"2025-10-01T10:00:00Z":      "2025-10-01",
		"garbage-value-here":        "garbage-va",
		"":                          "",
	}
	for input, want := range tests {
		if got := dedupe.DateKey(input); got != want {
			t.Errorf("DateKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestStrictFirstKeepsFirstSeen(t *testing.T) {
	got := dedupe.StrictFirst(crossPosted())
	if len(got) != 1 {
		t.Fatalf("expected 1 unique video, got %d", len(got))
	}
	if got[0].Platform != platform.Instagram || got[0].Views != 1000 {
		t.Fatalf("unexpected representative: %+v", got[0])
	}
	if got[0].MemberCount() != 3 {
		t.Fatalf("expected 3 members, got %d", got[0].MemberCount())
	}
}

func TestStrictMaxKeepsMostViewed(t *testing.T) {
	got := dedupe.StrictMax(crossPosted())
	if len(got) != 1 {
		t.Fatalf("expected 1 unique video, got %d", len(got))
	}
	if got[0].Platform != platform.TikTok || got[0].Views != 2000 {
		t.Fatalf("unexpected representative: %+v", got[0])
	}
}

func TestStrictMaxTieKeepsEarliest(t *testing.T) {
	videos := []video.Attributed{
		clip("A", platform.Instagram, 700, "same", "2025-10-01", 10),
		clip("A", platform.TikTok, 700, "same", "2025-10-01", 10),
	}
	got := dedupe.StrictMax(videos)
	if len(got) != 1 || got[0].Platform != platform.Instagram {
		t.Fatalf("tie should keep earliest, got %+v", got)
	}
}

func TestSumAcrossPlatforms(t *testing.T) {
	// Whitespace captions keep punctuation, so "math trick" stays apart.
	got := dedupe.SumAcrossPlatforms(crossPosted())
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].Views != 1500 || got[0].Platform != platform.Instagram {
		t.Fatalf("first group = %+v", got[0])
	}
	if got[1].Views != 2000 {
		t.Fatalf("second group = %+v", got[1])
	}
}

func TestFuzzyGroupsSumsViews(t *testing.T) {
	videos := []video.Attributed{
		clip("A", platform.Instagram, 1000, "Math trick!", "2025-10-01", 30),
		clip("A", platform.TikTok, 2000, "Math trick!", "2025-10-01", 30),
		clip("A", platform.YouTube, 500, "Math trick!", "2025-10-01", 30),
	}
	got := dedupe.FuzzyGroups(videos)
	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	if got[0].Views != 3500 {
		t.Fatalf("views = %d, want 3500", got[0].Views)
	}
	if got[0].Platform != platform.TikTok {
		t.Fatalf("representative platform = %s, want tiktok", got[0].Platform)
	}
	if len(got[0].Platforms) != 3 {
		t.Fatalf("platforms = %v", got[0].Platforms)
	}
}

func TestFuzzyTolerances(t *testing.T) {
	videos := []video.Attributed{
		clip("A", platform.Instagram, 100, "solving a hard integral fast", "2025-10-01", 40),
		clip("A", platform.TikTok, 300, "solving a hard integral fast #math", "2025-10-02", 44),
		clip("A", platform.YouTube, 50, "solving a hard integral fast", "2025-10-04", 40),
		clip("A", platform.TikTok, 60, "solving a hard integral fast", "2025-10-01", 50),
		clip("B", platform.TikTok, 70, "solving a hard integral fast", "2025-10-01", 40),
		clip("A", platform.TikTok, 80, "short", "2025-10-01", 40),
		clip("A", platform.TikTok, 90, "short!", "2025-10-01", 40),
	}
	got := dedupe.Fuzzy(videos)
	// 0+1 match; 2 is three days off; 3 drifts ten seconds; 4 is another
	// creator; 5 and 6 are too short for containment.
	if len(got) != 6 {
		t.Fatalf("expected 6 unique videos, got %d", len(got))
	}
	if got[0].Views != 100 || got[0].MemberCount() != 2 {
		t.Fatalf("first group = %+v", got[0])
	}
}

func TestEmptyCaptions(t *testing.T) {
	videos := []video.Attributed{
		clip("A", platform.Instagram, 100, "", "2025-10-01", 20),
		clip("A", platform.TikTok, 200, "  ", "2025-10-01", 20),
	}
	if got := dedupe.Fuzzy(videos); len(got) != 2 {
		t.Fatalf("Fuzzy should keep empty captions apart, got %d", len(got))
	}
	got := dedupe.FuzzyGroups(videos)
	if len(got) != 1 || got[0].Views != 300 {
		t.Fatalf("FuzzyGroups should merge empty captions, got %+v", got)
	}
}

func TestPoliciesCoverInputOnce(t *testing.T) {
	videos := append(crossPosted(),
		clip("A", platform.TikTok, 40, "another one", "2025-10-03", 12),
		clip("A", platform.Instagram, 41, "another one", "2025-10-03", 12),
		clip("A", platform.YouTube, 0, "", "", 0),
	)
	var total int64
	for _, v := range videos {
		total += v.Views
	}
	for _, p := range dedupe.Policies() {
		got, ok := dedupe.Apply(p, videos)
		if !ok {
			t.Fatalf("policy %s not applied", p)
		}
		var members []int
		for _, u := range got {
			members = append(members, u.Members...)
		}
		sort.Ints(members)
		if len(members) != len(videos) {
			t.Fatalf("%s: %d members for %d videos", p, len(members), len(videos))
		}
		for i, m := range members {
			if m != i {
				t.Fatalf("%s: member list %v does not cover input once", p, members)
			}
		}
		if len(got) > len(videos) {
			t.Fatalf("%s: more unique videos than input", p)
		}
		if p == dedupe.PolicySum || p == dedupe.PolicyFuzzyGroups {
			if sum := dedupe.TotalViews(got); sum != total {
				t.Fatalf("%s: total views %d, want %d", p, sum, total)
			}
		}
	}
}

func TestApplyUnknownPolicy(t *testing.T) {
	if _, ok := dedupe.Apply("nope", nil); ok {
		t.Fatal("expected unknown policy to be rejected")
	}
	if got := dedupe.StrictFirst(nil); got != nil {
		t.Fatalf("empty input should yield nil, got %v", got)
	}
}
