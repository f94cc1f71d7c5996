package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/contactbook/internal/domain"
	"github.com/pkordes/contactbook/internal/repo"
	"github.com/pkordes/contactbook/testutil"
)

// newTestPGStore opens a transaction against the test database and returns a
// Store backed by that transaction. The transaction is rolled back when the
// test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL; TestMain applies the migrations.
func newTestPGStore(t *testing.T) repo.Store {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test, no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewPGStore(tx)
}

func TestPGStore_Load_Empty(t *testing.T) {
	store := newTestPGStore(t)

	dir, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Zero(t, dir.Len())
}

func TestPGStore_SaveLoad_RoundTrip(t *testing.T) {
	store := newTestPGStore(t)
	ctx := context.Background()
	want := sampleDirectory(t)

	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)

	require.NoError(t, err)
	assertSameDirectory(t, want, got)
}

func TestPGStore_Save_Rewrites(t *testing.T) {
	store := newTestPGStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleDirectory(t)))

	dir := domain.NewDirectory()
	rec, _ := domain.NewRecord("Zed")
	require.NoError(t, rec.AddPhone("1231231234"))
	require.NoError(t, dir.Add(rec))
	require.NoError(t, store.Save(ctx, dir))

	got, err := store.Load(ctx)

	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, []string{"1231231234"}, got.Find("Zed").Phones())
}

func TestPGStore_Save_DuplicatePhonesKeepOrder(t *testing.T) {
	store := newTestPGStore(t)
	ctx := context.Background()

	dir := domain.NewDirectory()
	rec, _ := domain.NewRecord("Ann")
	for _, p := range []string{"2222222222", "1111111111", "2222222222"} {
		require.NoError(t, rec.AddPhone(p))
	}
	require.NoError(t, dir.Add(rec))
	require.NoError(t, store.Save(ctx, dir))

	got, err := store.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"2222222222", "1111111111", "2222222222"}, got.Find("Ann").Phones())
}
