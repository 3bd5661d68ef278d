package simulate_test

import (
	"slices"
	"testing"

	"creatorpay/internal/compensation"
	"creatorpay/internal/simulate"
)

func TestSplitPreservesTotal(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		count int
	}{
		{name: "single video", total: 5000, count: 1},
		{name: "few videos", total: 123456, count: 4},
		{name: "many videos", total: 2_500_000, count: 30},
		{name: "zero views", total: 0, count: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views := simulate.NewGenerator(7).Split(tt.total, tt.count)
			if len(views) != tt.count {
				t.Fatalf("unexpected length: got %d want %d", len(views), tt.count)
			}
			var sum int64
			for _, v := range views {
				if v < 0 {
					t.Fatalf("negative views in %v", views)
				}
				sum += v
			}
			if sum != tt.total {
				t.Fatalf("split does not sum: got %d want %d", sum, tt.total)
			}
		})
	}
}

func TestSplitIsHeavyTailed(t *testing.T) {
	views := simulate.NewGenerator(simulate.DefaultSeed).Split(1_000_000, 20)
	if views[0] < 150_000 {
		t.Fatalf("top video should take a large share, got %d", views[0])
	}
	if simulate.NewGenerator(1).Split(10, 0) != nil {
		t.Fatalf("expected nil for zero videos")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := simulate.Options{Creators: 5, Videos: 8}
	a := simulate.Generate(opts)
	b := simulate.Generate(opts)
	if len(a) != 5 || len(b) != 5 {
		t.Fatalf("unexpected creator counts %d %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].TotalViews() != b[i].TotalViews() || len(a[i].Videos) != len(b[i].Videos) {
			t.Fatalf("runs differ at %d: %+v vs %+v", i, a[i].Name, b[i].Name)
		}
	}
	other := simulate.Generate(simulate.Options{Seed: 99, Creators: 5, Videos: 8})
	same := true
	for i := range a {
		if a[i].TotalViews() != other[i].TotalViews() {
			same = false
		}
	}
	if same {
		t.Fatalf("different seeds produced identical totals")
	}
}

func TestGenerateFromProfiles(t *testing.T) {
	creators := simulate.Generate(simulate.Options{Profiles: []simulate.Profile{
		{Name: "A", TotalViews: 90_000, Videos: 6},
		{Name: "skipped", TotalViews: 10, Videos: 0},
	}})
	if len(creators) != 1 || creators[0].Name != "A" {
		t.Fatalf("unexpected creators %+v", creators)
	}
	if got := creators[0].TotalViews(); got != 90_000 {
		t.Fatalf("unexpected total: got %d want 90000", got)
	}
}

func TestAggregatesKeepEveryVideo(t *testing.T) {
	creators := simulate.Generate(simulate.Options{Creators: 3, Videos: 40})
	for _, agg := range simulate.Aggregates(creators) {
		if agg.UniqueVideos != agg.RawVideos {
			t.Fatalf("%s: synthetic videos collapsed: %d unique of %d", agg.Creator, agg.UniqueVideos, agg.RawVideos)
		}
		if len(agg.Instagram) != agg.RawVideos || len(agg.Summed) != agg.RawVideos {
			t.Fatalf("%s: sources disagree", agg.Creator)
		}
	}
}

func TestProjectReachesTarget(t *testing.T) {
	g := simulate.NewGenerator(simulate.DefaultSeed)
	profiles := g.Profiles(20, 20)
	base := simulate.Generate(simulate.Options{Profiles: profiles})
	var before []int64
	for _, c := range base {
		before = append(before, c.TotalViews())
	}

	proj := simulate.NewGenerator(simulate.DefaultSeed).Project(base, 0.05)
	if proj.Target < 1 || proj.Videos == 0 {
		t.Fatalf("unexpected projection %+v", proj)
	}
	if proj.Boosted < proj.ViralBefore {
		t.Fatalf("boosted fewer videos than targeted: %+v", proj)
	}
	if proj.ViralAfter < proj.ViralBefore {
		t.Fatalf("viral count dropped: %+v", proj)
	}
	var after []int64
	for _, c := range base {
		after = append(after, c.TotalViews())
	}
	if !slices.Equal(before, after) {
		t.Fatalf("Project modified its input")
	}
}

func TestCompareHybridAndSummed(t *testing.T) {
	catalog, err := compensation.NewCatalog(nil)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	var models []compensation.Model
	for _, name := range []string{"hybrid", "summed"} {
		m, err := catalog.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		models = append(models, m)
	}
	creators := simulate.Generate(simulate.Options{Profiles: []simulate.Profile{
		{Name: "A", TotalViews: 600_000, Videos: 10},
	}})
	reports := simulate.Compare(creators, models)
	if len(reports) != 2 || reports[0].Model != "hybrid" || reports[1].Model != "summed" {
		t.Fatalf("unexpected reports %+v", reports)
	}
	hybrid, summed := reports[0].Totals, reports[1].Totals
	if hybrid.BaseCost != summed.BaseCost {
		t.Fatalf("base cost should match: %v vs %v", hybrid.BaseCost, summed.BaseCost)
	}
	// 600K summed lands in the 500K tier once.
	if summed.Bonus != 1270 {
		t.Fatalf("unexpected summed bonus: got %v want 1270", summed.Bonus)
	}
	if hybrid.Views != 600_000 || summed.Views != 600_000 {
		t.Fatalf("unexpected views %d %d", hybrid.Views, summed.Views)
	}
}
