// Package export writes run artifacts to disk: one JSON file per priced
// model, a run summary, and a CSV of unique videos with views summed across
// platforms.
//
// Every file is written through fileutil.WriteAtomic. A run directory is
// created per run ID under the configured output directory, and writers
// hold an advisory flock on the output directory so two concurrent
// invocations cannot interleave their files.
package export
