package repo_test

import (
	"os"
	"testing"

	"github.com/pkordes/contactbook/testutil"
)

// TestMain applies all pending migrations to the test database once, before
// any test in the package runs, so Postgres tests never think about schema
// state. Without TEST_DATABASE_URL only the file-backed tests run.
func TestMain(m *testing.M) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		testutil.MustMigrate(dsn)
	}
	os.Exit(m.Run())
}
