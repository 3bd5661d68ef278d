package video_test

import (
	"errors"
	"strings"
	"testing"

	"creatorpay/internal/platform"
	"creatorpay/internal/video"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1234", 1234},
		{" 1,234,567 ", 1234567},
		{"12.9", 12},
		{"", 0},
		{"n/a", 0},
		{"-5", 0},
		{"NaN", 0},
		{"1000000000000000", video.MaxCount},
		{"1000000000000001", 0},
		{"9223372036854775807", 0},
		{"9223372036854775808", 0},
		{"9.3e18", 0},
		{"1e30", 0},
		{"1.5e3", 1500},
	}
	for _, tt := range tests {
		if got := video.ParseCount(tt.input); got != tt.want {
			t.Fatalf("ParseCount(%q): got %d want %d", tt.input, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	rec := video.Parse(video.Row{
		VideoURL:        " https://www.tiktok.com/@x/video/1 ",
		Platform:        "TikTok",
		ViewCount:       "2,000",
		LikeCount:       "10",
		CommentCount:    "bad",
		ShareCount:      "5",
		Caption:         "Hello World",
		PublishedDate:   "2026-01-10",
		DurationSeconds: "30",
	})
	if rec.VideoURL != "https://www.tiktok.com/@x/video/1" {
		t.Fatalf("unexpected url: %q", rec.VideoURL)
	}
	if rec.Platform != platform.TikTok || rec.Views != 2000 || rec.Comments != 0 || rec.Duration != 30 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Engagement() != 15 {
		t.Fatalf("unexpected engagement: %d", rec.Engagement())
	}
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffvideoUrl,AccountUsername,platform,viewCount,caption,extra\n" +
		"https://a,alice,Instagram,100,\"hi, there\",x\n" +
		"https://b,bob,TikTok\n"
	rows, err := video.ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].VideoURL != "https://a" || rows[0].AccountUsername != "alice" || rows[0].Caption != "hi, there" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].ViewCount != "" || rows[1].Platform != "TikTok" {
		t.Fatalf("unexpected padded row: %+v", rows[1])
	}
}

func TestReadCSVMissingColumns(t *testing.T) {
	_, err := video.ReadCSV(strings.NewReader("caption,platform\nx,y\n"))
	if !errors.Is(err, video.ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	_, err = video.ReadCSV(strings.NewReader("viewCount,caption\n1,y\n"))
	if !errors.Is(err, video.ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns without identity columns, got %v", err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := video.ReadCSV(strings.NewReader(""))
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected no rows and no error, got %d rows, err %v", len(rows), err)
	}
}
