// Package testsupport holds fixtures shared by package tests: a small
// roster, an analytics export that exercises every resolver path worth
// checking end to end, and a config builder rooted in t.TempDir.
package testsupport
