// Package testutil provides deterministic helpers shared by package tests:
// a stepping wall clock, a predictable random source for token secrets, and
// a temp-dir SQLite store with the fixture schema applied.
package testutil
