package compensation

import (
	"fmt"
	"sort"
)

// Tier pays Bonus once the candidate view count reaches MinViews.
type Tier struct {
	MinViews int64   `toml:"min_views" json:"min_views"`
	Bonus    float64 `toml:"bonus" json:"bonus"`
	Name     string  `toml:"name,omitempty" json:"name,omitempty"`
}

// Tiers is an unordered tier table.
type Tiers []Tier

// Select returns the tier with the greatest MinViews not exceeding views.
// Order of the table does not matter. ok is false when no tier applies.
func (t Tiers) Select(views int64) (tier Tier, ok bool) {
	for _, candidate := range t {
		if views < candidate.MinViews {
			continue
		}
		if !ok || candidate.MinViews > tier.MinViews {
			tier = candidate
			ok = true
		}
	}
	return tier, ok
}

// Bonus is the reward of the selected tier, or 0.
func (t Tiers) Bonus(views int64) float64 {
	tier, ok := t.Select(views)
	if !ok {
		return 0
	}
	return tier.Bonus
}

// Sorted returns a copy ordered by descending threshold, the order tables are
// displayed in.
func (t Tiers) Sorted() Tiers {
	out := append(Tiers(nil), t...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinViews > out[j].MinViews })
	return out
}

// Validate rejects negative values, duplicate thresholds and rewards that
// drop as the threshold rises.
func (t Tiers) Validate() error {
	asc := t.Sorted()
	for i := len(asc) - 1; i >= 0; i-- {
		tier := asc[i]
		if tier.MinViews < 0 {
			return fmt.Errorf("tier min_views must be >= 0 (got %d)", tier.MinViews)
		}
		if tier.Bonus < 0 {
			return fmt.Errorf("tier bonus must be >= 0 (got %.2f)", tier.Bonus)
		}
		if i == len(asc)-1 {
			continue
		}
		lower := asc[i+1]
		if tier.MinViews == lower.MinViews {
			return fmt.Errorf("duplicate tier min_views %d", tier.MinViews)
		}
		if tier.Bonus < lower.Bonus {
			return fmt.Errorf("tier %d pays %.2f, less than lower tier %d (%.2f)", tier.MinViews, tier.Bonus, lower.MinViews, lower.Bonus)
		}
	}
	return nil
}
