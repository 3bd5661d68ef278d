package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"creatorpay/internal/compensation"
	"creatorpay/internal/dedupe"
	"creatorpay/internal/logging"
	"creatorpay/internal/platform"
	"creatorpay/internal/resolver"
	"creatorpay/internal/video"
)

// ErrNoCreators signals that no row could be attributed to a known creator.
var ErrNoCreators = errors.New("no creators found in CSV")

// Options tune a pipeline.
type Options struct {
	// QualifyingPlatform is the platform whose videos earn the base rate.
	// Empty means Instagram.
	QualifyingPlatform platform.Platform
}

// Pipeline attributes rows and builds aggregates. It is safe for concurrent
// use once constructed.
type Pipeline struct {
	resolver   *resolver.Resolver
	qualifying platform.Platform
	logger     *slog.Logger
}

// New returns a Pipeline reading from r.
func New(r *resolver.Resolver, opts Options, logger *slog.Logger) *Pipeline {
	qualifying := opts.QualifyingPlatform
	if qualifying == platform.Unknown {
		qualifying = platform.Instagram
	}
	return &Pipeline{
		resolver:   r,
		qualifying: qualifying,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Unmatched counts rows from one account that matched no creator.
type Unmatched struct {
	Key      string            `json:"key"`
	Platform platform.Platform `json:"platform"`
	Rows     int               `json:"rows"`
	Views    int64             `json:"views"`
	Example  string            `json:"example_url,omitempty"`
}

// Result is the outcome of one run.
type Result struct {
	Rows    int `json:"rows"`
	Matched int `json:"matched"`
	// Steps counts matches per resolver rule.
	Steps map[resolver.Step]int `json:"steps"`
	// Creators lists creator names in first-seen order.
	Creators   []string                      `json:"creators"`
	Videos     map[string][]video.Attributed `json:"-"`
	Aggregates []compensation.Aggregate      `json:"-"`
	Stats      []Stats                       `json:"stats"`
	Unmatched  []Unmatched                   `json:"unmatched"`
}

// Empty reports whether no row was attributed.
func (r *Result) Empty() bool { return r == nil || len(r.Creators) == 0 }

// Err returns ErrNoCreators for an empty result.
func (r *Result) Err() error {
	if r.Empty() {
		return ErrNoCreators
	}
	return nil
}

// UnmatchedRows is the number of rows that matched no creator.
func (r *Result) UnmatchedRows() int { return r.Rows - r.Matched }

// Run attributes rows, groups them per creator and deduplicates each group.
// It never fails; callers check Result.Err for the empty case.
func (p *Pipeline) Run(ctx context.Context, rows []video.Row) *Result {
	logger := logging.WithContext(ctx, p.logger)
	records := make([]video.Record, 0, len(rows))
	for i, row := range rows {
		rec := video.Parse(row)
		rec.Line = i + 1
		records = append(records, rec)
	}
	res := p.attribute(records)
	for _, name := range res.Creators {
		videos := res.Videos[name]
		agg := p.aggregate(name, videos)
		res.Aggregates = append(res.Aggregates, agg)
		res.Stats = append(res.Stats, NewStats(agg, videos))
		if logger.Enabled(ctx, slog.LevelDebug) {
			logging.WithContext(logging.WithCreator(ctx, name), p.logger).Debug("creator aggregated",
				logging.Int("raw_videos", agg.RawVideos),
				logging.Int("unique_videos", agg.UniqueVideos),
				logging.Int("qualifying_groups", len(agg.Instagram)),
				logging.Int("top_platform_groups", len(agg.TopPlatform)),
				logging.Int("summed_groups", len(agg.Summed)),
				logging.Int64("views", agg.TotalViews),
			)
		}
	}
	logger.Info("rows attributed",
		logging.Int("rows", res.Rows),
		logging.Int("matched", res.Matched),
		logging.Int("unmatched", res.UnmatchedRows()),
		logging.Int("creators", len(res.Creators)),
	)
	if res.Empty() && res.Rows > 0 {
		logging.WarnWithContext(logger, "no rows matched a known creator", "no_creators",
			logging.String(logging.FieldErrorHint, "check the roster covers the accounts in this export"),
			logging.String(logging.FieldImpact, "no report can be produced"),
		)
	}
	return res
}

func (p *Pipeline) attribute(records []video.Record) *Result {
	res := &Result{
		Rows:   len(records),
		Steps:  make(map[resolver.Step]int),
		Videos: make(map[string][]video.Attributed),
	}
	unmatched := make(map[string]*Unmatched)
	var unmatchedOrder []string

	for _, rec := range records {
		match, ok := p.resolver.Resolve(resolver.Query{URL: rec.VideoURL, Handle: rec.Username, DisplayName: rec.DisplayName})
		if !ok {
			key := unmatchedKey(rec)
			entry, seen := unmatched[key]
			if !seen {
				entry = &Unmatched{Key: key, Platform: rec.Platform, Example: rec.VideoURL}
				unmatched[key] = entry
				unmatchedOrder = append(unmatchedOrder, key)
			}
			entry.Rows++
			entry.Views += rec.Views
			continue
		}
		res.Matched++
		res.Steps[match.Step]++
		name := match.Creator.Name
		if _, seen := res.Videos[name]; !seen {
			res.Creators = append(res.Creators, name)
		}
		res.Videos[name] = append(res.Videos[name], video.Attributed{Record: rec, Creator: name})
	}

	for _, key := range unmatchedOrder {
		res.Unmatched = append(res.Unmatched, *unmatched[key])
	}
	sort.SliceStable(res.Unmatched, func(i, j int) bool {
		return res.Unmatched[i].Rows > res.Unmatched[j].Rows
	})
	return res
}

func unmatchedKey(rec video.Record) string {
	for _, candidate := range []string{rec.Username, rec.DisplayName, rec.VideoURL} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return strings.ToLower(trimmed)
		}
	}
	return "(blank)"
}

func (p *Pipeline) aggregate(name string, videos []video.Attributed) compensation.Aggregate {
	agg := compensation.Aggregate{Creator: name, RawVideos: len(videos)}
	var qualifying []video.Attributed
	for _, v := range videos {
		agg.TotalViews += v.Views
		if v.Platform == p.qualifying {
			qualifying = append(qualifying, v)
		}
	}
	agg.UniqueVideos = len(dedupe.Fuzzy(videos))
	agg.Instagram = dedupe.StrictFirst(qualifying)
	agg.TopPlatform = dedupe.StrictMax(videos)
	agg.Summed = dedupe.SumAcrossPlatforms(videos)
	return agg
}

// Report prices every aggregate with m.
func (r *Result) Report(m compensation.Model) compensation.Report {
	if r == nil {
		return compensation.Evaluate(m, nil)
	}
	return compensation.Evaluate(m, r.Aggregates)
}
