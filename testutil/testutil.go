package testutil

import (
	"os"
	"strings"
	"testing"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// It fails the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t testing.TB) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in suite setup functions.
func MustSetTestEnvironment(t testing.TB) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// MaskDatabaseURL hides everything but the scheme and a test marker
func MaskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	scheme := url
	if i := strings.Index(url, ":"); i >= 0 {
		scheme = url[:i]
	}
	if strings.Contains(strings.ToLower(url), "test") || strings.Contains(url, ":memory:") {
		return scheme + ":... [test database]"
	}
	return scheme + ":... [WARNING: may not be test DB]"
}
