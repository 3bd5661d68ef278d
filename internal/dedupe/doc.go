// Package dedupe collapses cross-posted uploads of the same content into
// unique videos.
//
// Three families of policy exist. The strict policies group on an exact key
// of alphanumeric caption, publish day and duration. SumAcrossPlatforms keeps
// caption punctuation but sums the views of every member. The fuzzy policies
// tolerate captions that contain one another, a one day date drift and a five
// second duration drift. Every policy preserves first-seen order and every
// input index appears in exactly one output group.
package dedupe
