// Package directory holds the fixed roster of creators and the lookup indices
// used to attribute videos to them.
//
// A Directory is built once from a roster (the embedded TSV roster, a TSV file
// or a YAML file) and is read-only afterwards. Three indices are derived from
// the creators: normalized URL, normalized handle and case-folded display
// name. Handles are also extracted from every account URL so a creator whose
// roster entry only lists a profile link is still reachable by handle.
//
// Roster parsing is best effort. Lines with an unknown account type or an
// account line before any creator are returned as SkippedEntry values and
// logged; they never abort the load.
//
// When two creators claim the same index key the later one in roster order
// wins. Such collisions are kept on the Directory for operators to review.
package directory
