// Package fileutil holds small filesystem helpers shared by the export and
// config layers. Writes go through a temp file and a rename so a crash never
// leaves a truncated report behind.
package fileutil
