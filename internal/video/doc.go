// Package video defines the row and record types that flow through the
// attribution pipeline and decodes analytics CSV exports into them.
//
// Numeric columns are parsed leniently: empty or malformed values become zero
// instead of failing the row.
package video
