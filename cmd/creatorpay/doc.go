// Package main hosts the creatorpay CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the creator
// directory and pipeline on demand, and renders results as tables on a
// terminal or JSON when piped. Subcommands stay thin: attribution,
// deduplication and pricing live in the internal packages, and this package
// only parses flags and formats output.
package main
