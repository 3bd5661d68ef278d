// Package pipeline turns parsed export rows into per-creator aggregates.
//
// Rows are attributed to creators through the resolver, grouped by creator in
// first-seen order, and deduplicated with the policy each pricing path needs.
// Rows that match no creator are counted by account so operators can extend
// the roster. A run that attributes nothing reports ErrNoCreators.
package pipeline
