package video

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingColumns is returned when a CSV header lacks the columns needed to
// attribute and count videos.
var ErrMissingColumns = errors.New("csv is missing required columns")

// Column names used by the analytics export.
const (
	ColumnVideoURL           = "videoUrl"
	ColumnAccountUsername    = "accountUsername"
	ColumnAccountDisplayName = "accountDisplayName"
	ColumnPlatform           = "platform"
	ColumnViewCount          = "viewCount"
	ColumnLikeCount          = "likeCount"
	ColumnCommentCount       = "commentCount"
	ColumnShareCount         = "shareCount"
	ColumnCaption            = "caption"
	ColumnPublishedDate      = "publishedDate"
	ColumnDurationSeconds    = "durationSeconds"
)

// ReadCSV decodes an export with a header row. Columns are matched by name,
// case-insensitively, and unknown columns are ignored. Short rows are padded
// with empty values.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := headerIndex(header)
	if _, ok := index[strings.ToLower(ColumnViewCount)]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, ColumnViewCount)
	}
	if !hasAny(index, ColumnVideoURL, ColumnAccountUsername, ColumnAccountDisplayName) {
		return nil, fmt.Errorf("%w: one of %s, %s, %s", ErrMissingColumns, ColumnVideoURL, ColumnAccountUsername, ColumnAccountDisplayName)
	}

	get := func(record []string, column string) string {
		i, ok := index[strings.ToLower(column)]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, Row{
			VideoURL:           get(record, ColumnVideoURL),
			AccountUsername:    get(record, ColumnAccountUsername),
			AccountDisplayName: get(record, ColumnAccountDisplayName),
			Platform:           get(record, ColumnPlatform),
			ViewCount:          get(record, ColumnViewCount),
			LikeCount:          get(record, ColumnLikeCount),
			CommentCount:       get(record, ColumnCommentCount),
			ShareCount:         get(record, ColumnShareCount),
			Caption:            get(record, ColumnCaption),
			PublishedDate:      get(record, ColumnPublishedDate),
			DurationSeconds:    get(record, ColumnDurationSeconds),
		})
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

func hasAny(index map[string]int, columns ...string) bool {
	for _, c := range columns {
		if _, ok := index[strings.ToLower(c)]; ok {
			return true
		}
	}
	return false
}
