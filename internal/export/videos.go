package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"creatorpay/internal/dedupe"
	"creatorpay/internal/pipeline"
	"creatorpay/internal/platform"
)

const (
	identifierCaptionLimit = 50
	noCaption              = "(no caption)"
)

// VideoRow is one unique piece of content with its views summed across
// every platform it was posted to.
type VideoRow struct {
	Creator       string `json:"creator"`
	Identifier    string `json:"identifier"`
	Caption       string `json:"caption"`
	PublishedDate string `json:"published_date"`
	Platform      string `json:"platform"`
	VideoURL      string `json:"video_url"`
	TotalViews    int64  `json:"total_views"`
	Platforms     string `json:"platforms"`
}

var videoHeader = []string{
	"creator_name",
	"video_identifier",
	"caption",
	"published_date",
	"platform",
	"video_url",
	"total_views",
	"platforms",
}

// VideoRows groups each creator's videos with dedupe.FuzzyGroups and returns
// one row per group, highest total views first.
func VideoRows(res *pipeline.Result) []VideoRow {
	if res.Empty() {
		return nil
	}
	var rows []VideoRow
	for _, name := range res.Creators {
		for _, group := range dedupe.FuzzyGroups(res.Videos[name]) {
			rows = append(rows, newVideoRow(name, group))
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalViews > rows[j].TotalViews
	})
	return rows
}

func newVideoRow(creator string, group dedupe.UniqueVideo) VideoRow {
	caption := group.Caption
	if strings.TrimSpace(caption) == "" {
		caption = noCaption
	}
	date := dedupe.DayKey(group.PublishedDate)
	return VideoRow{
		Creator:       creator,
		Identifier:    Identifier(creator, caption, date),
		Caption:       caption,
		PublishedDate: date,
		Platform:      string(group.Platform),
		VideoURL:      group.VideoURL,
		TotalViews:    group.Views,
		Platforms:     joinPlatforms(group.Platforms),
	}
}

// Identifier builds the readable "creator - caption (date)" label. The
// caption is cut to 50 characters and the date suffix is omitted when empty.
func Identifier(creator, caption, date string) string {
	runes := []rune(caption)
	if len(runes) > identifierCaptionLimit {
		runes = runes[:identifierCaptionLimit]
	}
	id := creator + " - " + string(runes)
	if date != "" {
		id += " (" + date + ")"
	}
	return id
}

func joinPlatforms(platforms []platform.Platform) string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// WriteVideosCSV writes rows with a header line.
func WriteVideosCSV(w io.Writer, rows []VideoRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(videoHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Creator,
			row.Identifier,
			row.Caption,
			row.PublishedDate,
			row.Platform,
			row.VideoURL,
			strconv.FormatInt(row.TotalViews, 10),
			row.Platforms,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
