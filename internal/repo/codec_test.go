package repo_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/contactbook/internal/domain"
	"github.com/pkordes/contactbook/internal/repo"
)

// ---- helpers ---------------------------------------------------------------

func decode(t *testing.T, content string) (*domain.Directory, []error) {
	t.Helper()
	dir, warnings, err := repo.Decode(strings.NewReader(content))
	require.NoError(t, err)
	return dir, warnings
}

func encode(t *testing.T, dir *domain.Directory) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, repo.Encode(&buf, dir))
	return buf.String()
}

// sampleDirectory covers every field combination the format has to carry.
func sampleDirectory(t *testing.T) *domain.Directory {
	t.Helper()
	dir := domain.NewDirectory()

	ann, _ := domain.NewRecord("Ann")
	require.NoError(t, ann.AddPhone("1112223333"))
	require.NoError(t, ann.AddPhone("4445556666"))
	require.NoError(t, ann.AddBirthday("03.01.1990"))

	bob, _ := domain.NewRecord("Bob")
	require.NoError(t, bob.AddPhone("7778889999"))

	cat, _ := domain.NewRecord("Cat")
	require.NoError(t, cat.AddBirthday("31.02.2024"))

	dan, _ := domain.NewRecord("Dan")

	for _, r := range []*domain.Record{ann, bob, cat, dan} {
		require.NoError(t, dir.Add(r))
	}
	return dir
}

// ---- Encode ----------------------------------------------------------------

func TestEncode(t *testing.T) {
	got := encode(t, sampleDirectory(t))

	want := "Ann, 1112223333-4445556666, 03.01.1990\n" +
		"Bob, 7778889999,\n" +
		"Cat, , 31.02.2024\n" +
		"Dan, ,\n"
	assert.Equal(t, want, got)
}

func TestEncode_RefusesSeparatorInName(t *testing.T) {
	for _, name := range []string{"Smith,John", "Ann\nBob", "Ann\r"} {
		t.Run(name, func(t *testing.T) {
			dir := domain.NewDirectory()
			rec, err := domain.NewRecord(name)
			require.NoError(t, err, "any non-blank name is a valid Name")
			require.NoError(t, rec.AddPhone("1112223333"))
			require.NoError(t, rec.AddBirthday("03.01.1990"))
			require.NoError(t, dir.Add(rec))
			var buf bytes.Buffer

			err = repo.Encode(&buf, dir)

			require.ErrorIs(t, err, domain.ErrStorage)
			assert.ErrorIs(t, err, domain.ErrNameSeparator)
			assert.Empty(t, buf.String(), "nothing is written")
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	assert.Empty(t, encode(t, domain.NewDirectory()))
}

// ---- Decode ----------------------------------------------------------------

func TestDecode(t *testing.T) {
	dir, warnings := decode(t, "Ann, 1112223333-4445556666, 03.01.1990\nBob, 7778889999,\n")

	assert.Empty(t, warnings)
	require.Equal(t, 2, dir.Len())

	ann := dir.Find("Ann")
	require.NotNil(t, ann)
	assert.Equal(t, []string{"1112223333", "4445556666"}, ann.Phones())
	assert.Equal(t, "03.01.1990", ann.ShowBirthday())

	bob := dir.Find("Bob")
	require.NotNil(t, bob)
	assert.Equal(t, []string{"7778889999"}, bob.Phones())
	_, ok := bob.Birthday()
	assert.False(t, ok)
}

func TestDecode_TolerantWhitespaceAndSeparators(t *testing.T) {
	dir, warnings := decode(t, "  Ann ,1112223333--4445556666- ,03.01.1990  \n\n   \nBob\n")

	assert.Empty(t, warnings)
	assert.Equal(t, []string{"1112223333", "4445556666"}, dir.Find("Ann").Phones())
	assert.Equal(t, "03.01.1990", dir.Find("Ann").ShowBirthday())
	// A bare name is a contact with nothing else.
	require.NotNil(t, dir.Find("Bob"))
	assert.Empty(t, dir.Find("Bob").Phones())
}

func TestDecode_SkipsBadTokensKeepsRestOfLine(t *testing.T) {
	dir, warnings := decode(t, "Ann, 123-1112223333, 1990-01-03\n")

	require.Len(t, warnings, 2)
	assert.ErrorIs(t, warnings[0], domain.ErrInvalidPhone)
	assert.ErrorIs(t, warnings[1], domain.ErrInvalidDate)

	var lineErr *repo.LineError
	require.True(t, errors.As(warnings[0], &lineErr))
	assert.Equal(t, 1, lineErr.Line)

	ann := dir.Find("Ann")
	require.NotNil(t, ann)
	assert.Equal(t, []string{"1112223333"}, ann.Phones())
	_, ok := ann.Birthday()
	assert.False(t, ok)
}

func TestDecode_SkipsLineWithInvalidName(t *testing.T) {
	dir, warnings := decode(t, "Ann, 1112223333,\n , 4445556666, 03.01.1990\n")

	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], domain.ErrInvalidName)

	var lineErr *repo.LineError
	require.True(t, errors.As(warnings[0], &lineErr))
	assert.Equal(t, 2, lineErr.Line)
	assert.Equal(t, 1, dir.Len())
}

func TestDecode_RepeatedNameMerges(t *testing.T) {
	dir, warnings := decode(t, "Ann, 1112223333, 03.01.1990\nAnn, 4445556666, 04.04.1984\n")

	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], domain.ErrDuplicateBirthday)
	assert.Equal(t, 1, dir.Len())
	assert.Equal(t, []string{"1112223333", "4445556666"}, dir.Find("Ann").Phones())
	assert.Equal(t, "03.01.1990", dir.Find("Ann").ShowBirthday(), "first birthday wins")
}

func TestDecode_Empty(t *testing.T) {
	dir, warnings := decode(t, "")

	assert.Empty(t, warnings)
	assert.Zero(t, dir.Len())
}

// ---- round trip ------------------------------------------------------------

func TestEncodeDecode_RoundTrip(t *testing.T) {
	want := sampleDirectory(t)

	got, warnings := decode(t, encode(t, want))

	assert.Empty(t, warnings)
	assertSameDirectory(t, want, got)
}

// assertSameDirectory compares names, phone lists and birthdays in order.
func assertSameDirectory(t *testing.T, want, got *domain.Directory) {
	t.Helper()
	wantRecs, gotRecs := want.Records(), got.Records()
	require.Len(t, gotRecs, len(wantRecs))
	for i := range wantRecs {
		assert.Equal(t, wantRecs[i].Name(), gotRecs[i].Name())
		assert.Equal(t, wantRecs[i].Phones(), gotRecs[i].Phones(), "phones of %s", wantRecs[i].Name())
		assert.Equal(t, wantRecs[i].ShowBirthday(), gotRecs[i].ShowBirthday(), "birthday of %s", wantRecs[i].Name())
	}
}
