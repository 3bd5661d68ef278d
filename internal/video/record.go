package video

import (
	"math"
	"strconv"
	"strings"

	"creatorpay/internal/platform"
)

// Row is one analytics export row with every field still in string form.
type Row struct {
	VideoURL           string `json:"videoUrl"`
	AccountUsername    string `json:"accountUsername"`
	AccountDisplayName string `json:"accountDisplayName"`
	Platform           string `json:"platform"`
	ViewCount          string `json:"viewCount"`
	LikeCount          string `json:"likeCount"`
	CommentCount       string `json:"commentCount"`
	ShareCount         string `json:"shareCount"`
	Caption            string `json:"caption"`
	PublishedDate      string `json:"publishedDate"`
	DurationSeconds    string `json:"durationSeconds"`
}

// Record is a parsed Row. Numeric fields that could not be parsed are zero.
type Record struct {
	// Line is the 1-based data row number in the source file, 0 when unknown.
	Line          int               `json:"line,omitempty"`
	VideoURL      string            `json:"video_url"`
	Username      string            `json:"username"`
	DisplayName   string            `json:"display_name"`
	Platform      platform.Platform `json:"platform"`
	Views         int64             `json:"views"`
	Likes         int64             `json:"likes"`
	Comments      int64             `json:"comments"`
	Shares        int64             `json:"shares"`
	Caption       string            `json:"caption"`
	PublishedDate string            `json:"published_date"`
	Duration      int               `json:"duration_seconds"`
}

// Attributed is a Record that has been matched to a creator.
type Attributed struct {
	Record
	Creator string `json:"creator"`
}

// Parse converts a Row into a Record, defaulting malformed numbers to zero.
func Parse(row Row) Record {
	return Record{
		VideoURL:      strings.TrimSpace(row.VideoURL),
		Username:      strings.TrimSpace(row.AccountUsername),
		DisplayName:   strings.TrimSpace(row.AccountDisplayName),
		Platform:      platform.Normalize(row.Platform),
		Views:         ParseCount(row.ViewCount),
		Likes:         ParseCount(row.LikeCount),
		Comments:      ParseCount(row.CommentCount),
		Shares:        ParseCount(row.ShareCount),
		Caption:       row.Caption,
		PublishedDate: strings.TrimSpace(row.PublishedDate),
		Duration:      int(ParseCount(row.DurationSeconds)),
	}
}

// MaxCount is the largest count ParseCount accepts. Larger values are treated
// as malformed so that summing many rows cannot overflow int64.
const MaxCount int64 = 1_000_000_000_000_000

// ParseCount reads a non-negative count leniently. Thousands separators and
// surrounding whitespace are accepted and fractional values are truncated.
// Anything else, including negative numbers and values above MaxCount,
// yields 0.
func ParseCount(value string) int64 {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 || n > MaxCount {
			return 0
		}
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > float64(MaxCount) {
		return 0
	}
	return int64(f)
}

// Engagement is likes plus comments plus shares.
func (r Record) Engagement() int64 {
	return r.Likes + r.Comments + r.Shares
}
