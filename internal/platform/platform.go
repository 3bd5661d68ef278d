package platform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Platform identifies the social network a video or account lives on.
type Platform string

const (
	Instagram Platform = "instagram"
	TikTok    Platform = "tiktok"
	YouTube   Platform = "youtube"
	Unknown   Platform = ""
)

var titleCaser = cases.Title(language.Und)

// Normalize maps loosely written platform names ("Instagram", "ins",
// "TikTok Video") to a Platform. Unrecognised values are lower-cased and
// returned as-is so they still group consistently.
func Normalize(value string) Platform {
	lower := strings.ToLower(strings.TrimSpace(value))
	switch {
	case lower == "":
		return Unknown
	case strings.Contains(lower, "instagram"), strings.Contains(lower, "ins"):
		return Instagram
	case strings.Contains(lower, "tiktok"):
		return TikTok
	case strings.Contains(lower, "youtube"):
		return YouTube
	default:
		return Platform(lower)
	}
}

// FromURL guesses the platform a URL belongs to from its host.
func FromURL(rawURL string) Platform {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "instagram.com"):
		return Instagram
	case strings.Contains(lower, "tiktok.com"):
		return TikTok
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return YouTube
	default:
		return Unknown
	}
}

// IsKnown reports whether p is one of the supported networks.
func (p Platform) IsKnown() bool {
	switch p {
	case Instagram, TikTok, YouTube:
		return true
	default:
		return false
	}
}

// Label returns a display name such as "Instagram" or "TikTok".
func (p Platform) Label() string {
	switch p {
	case TikTok:
		return "TikTok"
	case YouTube:
		return "YouTube"
	case Unknown:
		return "unknown"
	default:
		return titleCaser.String(string(p))
	}
}

func (p Platform) String() string { return string(p) }
