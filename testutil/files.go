package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ContactsFile writes content to a contacts file inside a per-test temp dir
// and returns its path. Pass an empty content to get a path that does not
// exist yet.
func ContactsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.txt")
	if content == "" {
		return path
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("testutil.ContactsFile: %v", err)
	}
	return path
}

// ReadFile returns the contents of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("testutil.ReadFile: %v", err)
	}
	return string(b)
}
