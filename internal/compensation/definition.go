package compensation

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
)

var (
	// ErrUnknownModel is returned when a model name is not in the catalog.
	ErrUnknownModel = errors.New("unknown model")
	// ErrInvalidModel is returned when a definition cannot be built.
	ErrInvalidModel = errors.New("invalid model definition")
)

// Definition is the serialisable form of a model, as written in the
// [[models]] section of the configuration file.
type Definition struct {
	Name          string             `toml:"name" json:"name"`
	Kind          string             `toml:"kind" json:"kind"`
	Label         string             `toml:"label,omitempty" json:"label,omitempty"`
	BaseRate      float64            `toml:"base_rate,omitempty" json:"base_rate,omitempty"`
	RateOverrides map[string]float64 `toml:"rate_overrides,omitempty" json:"rate_overrides,omitempty"`
	Floor         int64              `toml:"floor,omitempty" json:"floor,omitempty"`
	RatePer1K     float64            `toml:"rate_per_1k,omitempty" json:"rate_per_1k,omitempty"`
	Cap           float64            `toml:"cap,omitempty" json:"cap,omitempty"`
	Source        string             `toml:"source,omitempty" json:"source,omitempty"`
	BonusScope    string             `toml:"bonus_scope,omitempty" json:"bonus_scope,omitempty"`
	Tiers         Tiers              `toml:"tiers,omitempty" json:"tiers,omitempty"`
}

// Build validates d and returns the model it describes. Errors wrap
// ErrInvalidModel.
func (d Definition) Build() (Model, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidModel)
	}
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w %q: %s", ErrInvalidModel, name, fmt.Sprintf(format, args...))
	}
	if d.BaseRate < 0 || d.RatePer1K < 0 || d.Cap < 0 {
		return nil, invalid("rates and cap must be >= 0")
	}
	if d.Floor < 0 {
		return nil, invalid("floor must be >= 0")
	}
	for creator, rate := range d.RateOverrides {
		if rate < 0 {
			return nil, invalid("rate override for %s must be >= 0", creator)
		}
	}
	if err := d.Tiers.Validate(); err != nil {
		return nil, invalid("%v", err)
	}
	kind := Kind(strings.ToLower(strings.TrimSpace(d.Kind)))
	source, err := parseSource(d.Source, kind)
	if err != nil {
		return nil, invalid("%v", err)
	}
	tiers := append(Tiers(nil), d.Tiers...)

	switch kind {
	case KindBaseRate:
		if len(tiers) == 0 {
			return nil, invalid("base_rate models need at least one tier")
		}
		return BaseRateModel{ModelName: name, Label: d.Label, Rate: d.BaseRate, Overrides: maps.Clone(d.RateOverrides), Tiers: tiers, Source: source, Floor: d.Floor}, nil
	case KindCPM:
		if d.RatePer1K == 0 {
			return nil, invalid("cpm models need rate_per_1k")
		}
		return CPMModel{ModelName: name, Label: d.Label, Rate: d.BaseRate, RatePer1K: d.RatePer1K, Cap: d.Cap, Source: source, Floor: d.Floor}, nil
	case KindPerformance:
		if len(tiers) == 0 {
			return nil, invalid("performance models need at least one tier")
		}
		return PerformanceModel{ModelName: name, Label: d.Label, Floor: d.Floor, Tiers: tiers, Source: source}, nil
	case KindHybrid:
		if len(tiers) == 0 && d.RatePer1K == 0 {
			return nil, invalid("hybrid models need tiers or rate_per_1k")
		}
		scope := BonusScope(strings.ToLower(strings.TrimSpace(d.BonusScope)))
		switch scope {
		case "":
			scope = ScopeVideo
		case ScopeVideo, ScopeCreator:
		default:
			return nil, invalid("bonus_scope must be video or creator (got %q)", d.BonusScope)
		}
		return HybridModel{ModelName: name, Label: d.Label, Rate: d.BaseRate, Floor: d.Floor, Tiers: tiers, RatePer1K: d.RatePer1K, Cap: d.Cap, Scope: scope, Source: source}, nil
	default:
		return nil, invalid("kind must be one of base_rate, cpm, performance, hybrid (got %q)", d.Kind)
	}
}

func parseSource(value string, kind Kind) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(value)))
	switch src {
	case "":
		switch kind {
		case KindBaseRate, KindCPM:
			return SourceInstagram, nil
		case KindHybrid:
			return SourceSummed, nil
		default:
			return SourceTopPlatform, nil
		}
	case SourceInstagram, SourceTopPlatform, SourceSummed:
		return src, nil
	default:
		return "", fmt.Errorf("source must be instagram, top_platform or summed (got %q)", value)
	}
}

// Catalog is the set of models available by name.
type Catalog struct {
	models map[string]Model
	order  []string
}

// NewCatalog starts from the presets and adds custom definitions. A custom
// definition with a preset's name replaces the preset.
func NewCatalog(custom []Definition) (*Catalog, error) {
	c := &Catalog{models: make(map[string]Model)}
	for _, m := range Presets() {
		c.add(m)
	}
	for _, def := range custom {
		m, err := def.Build()
		if err != nil {
			return nil, err
		}
		c.add(m)
	}
	return c, nil
}

func (c *Catalog) add(m Model) {
	key := strings.ToLower(m.Name())
	if _, exists := c.models[key]; !exists {
		c.order = append(c.order, key)
	}
	c.models[key] = m
}

// Lookup finds a model by case-insensitive name.
func (c *Catalog) Lookup(name string) (Model, error) {
	m, ok := c.models[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownModel, name, strings.Join(c.Names(), ", "))
	}
	return m, nil
}

// Models returns every model, presets first, in registration order.
func (c *Catalog) Models() []Model {
	out := make([]Model, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.models[key])
	}
	return out
}

// Names returns the model names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.order))
	for _, key := range c.order {
		names = append(names, c.models[key].Name())
	}
	sort.Strings(names)
	return names
}
