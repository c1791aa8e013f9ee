// Package shared holds helpers used across the cadestats packages.
//
// testutil carries the test fixtures (sample decision exports) and a slog
// handler that records log output for assertions. It must only be imported
// from _test.go files.
package shared
