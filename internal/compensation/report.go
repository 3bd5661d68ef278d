package compensation

import (
	"sort"
	"time"
)

// Totals sums a report's lines.
type Totals struct {
	Creators         int     `json:"creators"`
	Videos           int     `json:"videos"`
	QualifyingVideos int     `json:"qualifying_videos"`
	Views            int64   `json:"views"`
	BaseCost         float64 `json:"base_cost"`
	Bonus            float64 `json:"bonus"`
	TotalCost        float64 `json:"total_cost"`
	CostPerView      float64 `json:"cost_per_view"`
}

// Report is one model applied to every creator.
type Report struct {
	RunID       string    `json:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitzero"`
	Model       string    `json:"model"`
	Label       string    `json:"label,omitempty"`
	Kind        Kind      `json:"kind"`
	Lines       []Line    `json:"creators"`
	Totals      Totals    `json:"totals"`
}

// Evaluate applies m to every aggregate. Lines are ordered by total cost
// descending, then by creator name.
func Evaluate(m Model, aggs []Aggregate) Report {
	lines := make([]Line, 0, len(aggs))
	for _, agg := range aggs {
		lines = append(lines, m.Evaluate(agg))
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].TotalCost != lines[j].TotalCost {
			return lines[i].TotalCost > lines[j].TotalCost
		}
		return lines[i].Creator < lines[j].Creator
	})
	return Report{
		Model:  m.Name(),
		Label:  m.Definition().Label,
		Kind:   m.Kind(),
		Lines:  lines,
		Totals: Sum(lines),
	}
}

// Sum totals lines. Overall cost per view is 0 when there are no views.
func Sum(lines []Line) Totals {
	t := Totals{Creators: len(lines)}
	for _, l := range lines {
		t.Videos += l.Videos
		t.QualifyingVideos += l.QualifyingVideos
		t.Views += l.TotalViews
		t.BaseCost += l.BaseCost
		t.Bonus += l.Bonus
		t.TotalCost += l.TotalCost
	}
	t.CostPerView = ratio(t.TotalCost, float64(t.Views))
	return t
}

// Empty reports whether no creator was priced.
func (r Report) Empty() bool { return len(r.Lines) == 0 }
