package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"creatorpay/internal/compensation"
	"creatorpay/internal/fileutil"
	"creatorpay/internal/logging"
	"creatorpay/internal/pipeline"
)

const (
	lockFileName    = ".creatorpay.lock"
	summaryFileName = "summary.json"
	videosFileName  = "unique-videos.csv"
)

// ErrLocked is returned when another process holds the output directory.
var ErrLocked = errors.New("export directory is locked by another process")

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// Run is everything one invocation produced.
type Run struct {
	ID          string
	GeneratedAt time.Time
	// Source names the input, usually the CSV path.
	Source  string
	Result  *pipeline.Result
	Reports []compensation.Report
}

// Summary is the run-level JSON document written next to the reports.
type Summary struct {
	RunID         string                         `json:"run_id"`
	GeneratedAt   time.Time                      `json:"generated_at"`
	Source        string                         `json:"source,omitempty"`
	Rows          int                            `json:"rows"`
	Matched       int                            `json:"matched"`
	UnmatchedRows int                            `json:"unmatched_rows"`
	Creators      []pipeline.Stats               `json:"creators"`
	Unmatched     []pipeline.Unmatched           `json:"unmatched"`
	Models        map[string]compensation.Totals `json:"models"`
}

// Paths lists the files a Write produced.
type Paths struct {
	Dir     string   `json:"dir"`
	Summary string   `json:"summary"`
	Reports []string `json:"reports"`
	Videos  string   `json:"videos,omitempty"`
}

// Writer exports runs beneath a base directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logging.NewComponentLogger(logger, "export")}
}

// Dir is the base output directory.
func (w *Writer) Dir() string { return w.dir }

// Write stores run under <dir>/<run id>/. A run without an ID takes the run
// ID carried by ctx, or a fresh one. It fails with ErrLocked if another
// process is exporting into the same directory.
func (w *Writer) Write(ctx context.Context, run Run) (Paths, error) {
	if strings.TrimSpace(w.dir) == "" {
		return Paths{}, errors.New("export directory is not configured")
	}
	if run.ID == "" {
		if id, ok := logging.RunIDFromContext(ctx); ok {
			run.ID = id
		} else {
			run.ID = NewRunID()
		}
	}
	if run.GeneratedAt.IsZero() {
		run.GeneratedAt = time.Now().UTC()
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create export directory: %w", err)
	}

	lock := flock.New(filepath.Join(w.dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return Paths{}, fmt.Errorf("acquire export lock: %w", err)
	}
	if !ok {
		return Paths{}, ErrLocked
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return Paths{}, err
	}

	ctx = logging.WithRunID(ctx, run.ID)
	logger := logging.WithContext(ctx, w.logger)
	runDir := filepath.Join(w.dir, run.ID)
	paths := Paths{Dir: runDir, Summary: filepath.Join(runDir, summaryFileName)}

	for _, report := range run.Reports {
		report.RunID = run.ID
		report.GeneratedAt = run.GeneratedAt
		path := filepath.Join(runDir, ReportFileName(report.Model))
		if err := fileutil.WriteJSON(path, report); err != nil {
			return paths, fmt.Errorf("write report %s: %w", report.Model, err)
		}
		paths.Reports = append(paths.Reports, path)
		logging.WithContext(logging.WithModel(ctx, report.Model), w.logger).Debug("report written",
			logging.String("path", path),
		)
	}

	if !run.Result.Empty() {
		rows := VideoRows(run.Result)
		paths.Videos = filepath.Join(runDir, videosFileName)
		err := fileutil.WriteAtomicFunc(paths.Videos, 0o644, func(out io.Writer) error {
			return WriteVideosCSV(out, rows)
		})
		if err != nil {
			return paths, fmt.Errorf("write unique videos: %w", err)
		}
	}

	if err := fileutil.WriteJSON(paths.Summary, newSummary(run)); err != nil {
		return paths, fmt.Errorf("write summary: %w", err)
	}

	logger.Info("run exported",
		logging.String("dir", runDir),
		logging.Int("reports", len(paths.Reports)),
	)
	return paths, nil
}

func newSummary(run Run) Summary {
	s := Summary{
		RunID:       run.ID,
		GeneratedAt: run.GeneratedAt,
		Source:      run.Source,
		Models:      make(map[string]compensation.Totals, len(run.Reports)),
		Creators:    []pipeline.Stats{},
		Unmatched:   []pipeline.Unmatched{},
	}
	if res := run.Result; res != nil {
		s.Rows = res.Rows
		s.Matched = res.Matched
		s.UnmatchedRows = res.UnmatchedRows()
		if res.Stats != nil {
			s.Creators = res.Stats
		}
		if res.Unmatched != nil {
			s.Unmatched = res.Unmatched
		}
	}
	for _, report := range run.Reports {
		s.Models[report.Model] = report.Totals
	}
	return s
}

// ReportFileName is the file a model's report is stored under.
func ReportFileName(model string) string {
	return "report-" + fileToken(model) + ".json"
}

func fileToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
