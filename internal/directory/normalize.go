package directory

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"creatorpay/internal/platform"
)

// trackingParams matches query parameters that never affect which account a
// URL points at.
var trackingParams = regexp.MustCompile(`[?&](igsh|utm_source|_r|_t|is_from_webapp|sender_device)=[^&]*`)

var (
	tiktokHandle    = regexp.MustCompile(`(?i)tiktok\.com/@([^/?]+)`)
	instagramHandle = regexp.MustCompile(`(?i)instagram\.com/(?:reel/|)([^/?]+)`)
	youtubeHandle   = regexp.MustCompile(`(?i)youtube\.com/@([^/?]+)`)
)

// minInstagramHandle is the shortest Instagram path segment treated as a
// handle. This length check is what rejects post links: for
// instagram.com/p/ID the captured segment is just "p". The "p/" prefix test
// in ExtractHandles never fires since the capture stops at '/'.
const minInstagramHandle = 6

var nameFolder = cases.Fold()

// NormalizeURL lower-cases a URL, strips tracking parameters and drops
// trailing slashes and dangling separators. It is idempotent.
func NormalizeURL(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	u = trackingParams.ReplaceAllString(u, "")
	return strings.TrimRightFunc(u, func(r rune) bool {
		return r == '/' || r == '?' || r == '&' || unicode.IsSpace(r)
	})
}

// NormalizeHandle lower-cases a handle and removes surrounding whitespace and
// leading @ signs.
func NormalizeHandle(raw string) string {
	return strings.TrimLeft(strings.ToLower(strings.TrimSpace(raw)), "@")
}

// NormalizeName folds case for display-name comparison.
func NormalizeName(raw string) string {
	return nameFolder.String(strings.TrimSpace(raw))
}

// ExtractedHandle is a handle found inside a profile or video URL.
type ExtractedHandle struct {
	Platform platform.Platform
	Handle   string
}

// ExtractHandles pulls platform handles out of a URL in TikTok, Instagram,
// YouTube order. Handles are returned normalized.
func ExtractHandles(rawURL string) []ExtractedHandle {
	if strings.TrimSpace(rawURL) == "" {
		return nil
	}
	var out []ExtractedHandle
	if m := tiktokHandle.FindStringSubmatch(rawURL); m != nil {
		if h := NormalizeHandle(m[1]); h != "" {
			out = append(out, ExtractedHandle{Platform: platform.TikTok, Handle: h})
		}
	}
	if m := instagramHandle.FindStringSubmatch(rawURL); m != nil {
		candidate := m[1]
		if len(candidate) >= minInstagramHandle && !strings.HasPrefix(candidate, "p/") {
			if h := NormalizeHandle(candidate); h != "" {
				out = append(out, ExtractedHandle{Platform: platform.Instagram, Handle: h})
			}
		}
	}
	if m := youtubeHandle.FindStringSubmatch(rawURL); m != nil {
		if h := NormalizeHandle(m[1]); h != "" {
			out = append(out, ExtractedHandle{Platform: platform.YouTube, Handle: h})
		}
	}
	return out
}
