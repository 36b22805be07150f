package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartDir(t *testing.T) {
	dirs, err := PartDir("ABC-12345")
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC", "12", "345"}, dirs)

	for _, bad := range []string{"ABC12345", "-12345", "ABC-1", "A-12-3"} {
		_, err := PartDir(bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPartNumber, bad)
	}
}

func TestPaths(t *testing.T) {
	a := New("/img", "/docs")

	p, err := a.ImagePath("100-001", "abc.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/img", "100", "00", "1", "abc.png"), p)

	level3 := "Pumps"
	path, err := a.DocumentPath("/tmp/in/a.pdf", "Codes", "Mech", &level3)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/docs", "Codes", "Mech", "Pumps", "a.pdf"), path)

	path, err = a.DocumentPath("a.pdf", "Codes", "Mech", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/docs", "Codes", "Mech", "a.pdf"), path)

	assert.Equal(t, `"/docs/a b.pdf"`, Quote("/docs/a b.pdf"))
}

func TestDocumentPathRejectsUnsafeSegments(t *testing.T) {
	a := New("/images", "/docs")

	for _, bad := range []string{"../../x", "..", ".", "a/b", `a\b`, " ", "a\x00b"} {
		t.Run(bad, func(t *testing.T) {
			_, err := a.DocumentPath("a.pdf", "Codes", "Mech", &bad)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTaxonomy)
			_, err = a.DocumentPath("a.pdf", bad, "Mech", nil)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTaxonomy)
		})
	}

	assert.NoError(t, CheckSegment("Codes and Standards"))
	assert.NoError(t, CheckSegment("..x"))
}

func TestStagePublishAndDiscard(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.pdf")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o640))
	past := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(src, past, past))

	dest := filepath.Join(dir, "out", "nested", "in.pdf")
	staged, err := Stage(src, dest)
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", staged.Hash)
	assert.EqualValues(t, 5, staged.Size)

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "destination must not exist before publish")

	require.NoError(t, staged.Publish())
	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past))

	other, err := Stage(src, filepath.Join(dir, "out", "other.pdf"))
	require.NoError(t, err)
	require.NoError(t, other.Discard())
	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".staging-")
	}
}

func TestHashFileKeepsExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.JPG")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	hash, err := HashFile(src)
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592.JPG", hash)
}
