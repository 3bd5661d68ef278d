package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"creatorpay/internal/directory"
	"creatorpay/internal/pipeline"
	"creatorpay/internal/resolver"
)

// Roster is a two-creator YAML roster. X posts on Instagram and TikTok;
// Riley only on Instagram.
const Roster = `creators:
  - name: X
    accounts:
      - {type: Mathos Ins, handle: xmaths}
      - {type: Mathos TT, url: "https://www.tiktok.com/@xmathstok"}
  - name: Riley
    accounts:
      - {type: Mathos Ins, handle: rileyhatesmaths}
`

// Export is an analytics export against Roster. X posted one video to two
// platforms (25K + 60K views), Riley one video (70K), and one row belongs to
// an unknown account.
const Export = `videoUrl,accountUsername,accountDisplayName,platform,viewCount,likeCount,commentCount,shareCount,caption,publishedDate,durationSeconds
https://www.instagram.com/reel/abc,xmaths,,Instagram,25000,10,2,1,Hello World,2026-01-10,30
https://www.tiktok.com/@xmathstok/video/1,,,TikTok,"60,000",10,2,1,Hello World,2026-01-10,30
https://www.instagram.com/reel/def,rileyhatesmaths,,instagram,70000,5,1,0,limits,2026-01-11,12
https://www.instagram.com/reel/zzz,stranger,,Instagram,400,0,0,0,nope,2026-01-10,30
`

// UnmatchedExport has rows but none that resolve against Roster.
const UnmatchedExport = `videoUrl,accountUsername,platform,viewCount
https://www.instagram.com/reel/zzz,stranger,Instagram,400
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteRoster writes Roster to dir/roster.yaml.
func WriteRoster(t testing.TB, dir string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, "roster.yaml"), Roster)
}

// WriteExport writes Export to dir/export.csv.
func WriteExport(t testing.TB, dir string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, "export.csv"), Export)
}

// NewDirectory parses Roster.
func NewDirectory(t testing.TB) *directory.Directory {
	t.Helper()
	roster, err := directory.ParseYAML([]byte(Roster))
	if err != nil {
		t.Fatalf("parse roster: %v", err)
	}
	dir, err := directory.FromRoster(roster, nil)
	if err != nil {
		t.Fatalf("build directory: %v", err)
	}
	return dir
}

// NewPipeline returns a pipeline over NewDirectory with default options.
func NewPipeline(t testing.TB) *pipeline.Pipeline {
	t.Helper()
	return pipeline.New(resolver.New(NewDirectory(t), nil), pipeline.Options{}, nil)
}
