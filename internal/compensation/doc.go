// Package compensation prices creator output.
//
// A Model is one of four tagged kinds (base_rate, cpm, performance, hybrid)
// carrying its own typed configuration. Models are pure: Evaluate maps one
// creator Aggregate to one report Line and never fails. Report applies a
// model to every creator and carries the sorted lines with their totals.
//
// Presets reproduces the built-in pricing schemes. Custom schemes are read
// from TOML as Definition values and turned into models with Build.
package compensation
