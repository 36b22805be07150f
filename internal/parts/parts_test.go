package parts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwantia/palanaeum/internal/archive"
	"github.com/mwantia/palanaeum/internal/testutil"
	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var widget = Ref{Num: "ABC-12345", Rev: "A"}

func setupParts(t *testing.T) (*Parts, store.CatalogStore, string) {
	t.Helper()
	db := testutil.SetupStore(t)
	imageRoot := filepath.Join(t.TempDir(), "images")
	p := New(db, archive.New(imageRoot, filepath.Join(t.TempDir(), "documents")), testutil.Logger(t))

	_, err := p.Create(context.Background(), NewPart{Ref: widget, Name: "Widget"})
	require.NoError(t, err)
	return p, db, imageRoot
}

func TestCreateValidatesPartNumber(t *testing.T) {
	p, _, _ := setupParts(t)
	ctx := context.Background()

	_, err := p.Create(ctx, NewPart{Ref: Ref{Num: "12345", Rev: "A"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPartNumber)

	_, err = p.Create(ctx, NewPart{Ref: Ref{Num: "ABC-12345"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPartNumber)

	exists, err := p.Exists(ctx, widget)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = p.Exists(ctx, Ref{Num: "ABC-12345", Rev: "B"})
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = p.Get(ctx, Ref{Num: "ABC-12345", Rev: "B"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetFieldBlankClears(t *testing.T) {
	p, _, _ := setupParts(t)
	ctx := context.Background()

	require.NoError(t, p.SetField(ctx, widget, Description, "  Steel bracket "))
	part, err := p.Get(ctx, widget)
	require.NoError(t, err)
	require.NotNil(t, part.Description)
	assert.Equal(t, "Steel bracket", *part.Description)

	require.NoError(t, p.SetField(ctx, widget, Description, "   "))
	part, err = p.Get(ctx, widget)
	require.NoError(t, err)
	assert.Nil(t, part.Description)
	require.NotNil(t, part.Name)
	assert.Equal(t, "Widget", *part.Name)

	err = p.SetField(ctx, Ref{Num: "ABC-99999", Rev: "A"}, Name, "x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetType(t *testing.T) {
	p, _, _ := setupParts(t)
	ctx := context.Background()

	require.NoError(t, p.SetType(ctx, widget, Purchased))
	require.NoError(t, p.SetType(ctx, widget, Purchased))
	part, err := p.Get(ctx, widget)
	require.NoError(t, err)
	require.NotNil(t, part.PartType)
	assert.Equal(t, "Purchased", *part.PartType)

	assert.ErrorIs(t, p.SetType(ctx, widget, PartType("Borrowed")), apperrors.ErrInvalidPartType)

	parsed, err := ParsePartType("assembly")
	require.NoError(t, err)
	assert.Equal(t, Assembly, parsed)
}

func TestSetSuccessor(t *testing.T) {
	p, _, _ := setupParts(t)
	ctx := context.Background()

	next := Ref{Num: "ABC-12345", Rev: "B"}
	require.NoError(t, p.SetSuccessor(ctx, widget, &next))
	part, err := p.Get(ctx, widget)
	require.NoError(t, err)
	require.NotNil(t, part.SuccessorNum)
	assert.Equal(t, "ABC-12345", *part.SuccessorNum)
	assert.Equal(t, "B", *part.SuccessorRev)

	require.NoError(t, p.SetSuccessor(ctx, widget, nil))
	part, err = p.Get(ctx, widget)
	require.NoError(t, err)
	assert.Nil(t, part.SuccessorNum)
	assert.Nil(t, part.SuccessorRev)
}

func TestNotes(t *testing.T) {
	p, _, _ := setupParts(t)
	ctx := context.Background()
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	added, err := p.AddNote(ctx, widget, "demo", "  ")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = p.AddNote(ctx, widget, "demo", "Check tolerances")
	require.NoError(t, err)
	assert.True(t, added)

	notes, err := p.ListNotes(ctx, widget)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "demo", notes[0].Author)
	assert.Equal(t, "Check tolerances", notes[0].Note)
	assert.Equal(t, 2024, notes[0].Date.Year())
}

func TestEditableField(t *testing.T) {
	display := NoEntry
	label := LabelField(func() string { return display }, func(s string) { display = s })
	assert.Equal(t, LabelKind, label.Kind())
	assert.Equal(t, "", label.Current())

	stored := label.Commit("  Bracket ")
	require.NotNil(t, stored)
	assert.Equal(t, "Bracket", *stored)
	assert.Equal(t, "Bracket", display)

	assert.Nil(t, label.Commit(" "))
	assert.Equal(t, NoEntry, display)

	text := TextField(func() string { return "x" }, func(string) {})
	assert.Equal(t, TextKind, text.Kind())
	assert.Equal(t, "x", text.Current())

	assert.Equal(t, NoEntry, Display(nil))
	assert.Equal(t, "a", Display(testutil.Ptr("a")))
}

func TestCommitField(t *testing.T) {
	p, _, _ := setupParts(t)
	ctx := context.Background()

	display := "Widget"
	field := TextField(func() string { return display }, func(s string) { display = s })

	require.NoError(t, p.CommitField(ctx, widget, Name, field, ""))
	assert.Equal(t, NoEntry, display)

	part, err := p.Get(ctx, widget)
	require.NoError(t, err)
	assert.Nil(t, part.Name)
}

func TestImageLifecycle(t *testing.T) {
	p, _, imageRoot := setupParts(t)
	ctx := context.Background()
	src := testutil.WriteFile(t, t.TempDir(), "photo.jpg", []byte("jpeg bytes"))

	name, err := p.AddImage(ctx, widget, src, "front")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(name))

	path := filepath.Join(imageRoot, "ABC", "12", "345", name)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = p.AddImage(ctx, widget, src, "again")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateImage)

	images, err := p.ListImages(ctx, widget)
	require.NoError(t, err)
	require.Len(t, images, 1)
	require.NotNil(t, images[0].Description)
	assert.Equal(t, "front", *images[0].Description)

	require.NoError(t, p.SetImageDescription(ctx, widget, name, ""))
	images, err = p.ListImages(ctx, widget)
	require.NoError(t, err)
	assert.Nil(t, images[0].Description)

	require.NoError(t, p.SetMugshot(ctx, widget, name))
	assert.ErrorIs(t, p.SetMugshot(ctx, widget, "missing.jpg"), apperrors.ErrNotFound)

	require.NoError(t, p.RemoveImage(ctx, widget, name))
	part, err := p.Get(ctx, widget)
	require.NoError(t, err)
	assert.Nil(t, part.Mugshot)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, p.RemoveImage(ctx, widget, name), apperrors.ErrNotFound)
}

func TestImageSharedAcrossRevisions(t *testing.T) {
	p, _, imageRoot := setupParts(t)
	ctx := context.Background()
	revB := Ref{Num: widget.Num, Rev: "B"}
	_, err := p.Create(ctx, NewPart{Ref: revB})
	require.NoError(t, err)

	src := testutil.WriteFile(t, t.TempDir(), "photo.png", []byte("png bytes"))
	name, err := p.AddImage(ctx, widget, src, "")
	require.NoError(t, err)
	_, err = p.AddImage(ctx, revB, src, "")
	require.NoError(t, err)

	require.NoError(t, p.RemoveImage(ctx, widget, name))
	_, err = os.Stat(filepath.Join(imageRoot, "ABC", "12", "345", name))
	assert.NoError(t, err)
}

func TestAddImageRequiresPart(t *testing.T) {
	p, _, _ := setupParts(t)
	src := testutil.WriteFile(t, t.TempDir(), "photo.jpg", []byte("x"))

	_, err := p.AddImage(context.Background(), Ref{Num: "ABC-00000", Rev: "A"}, src, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddImageFailedPublishKeepsNoRow(t *testing.T) {
	p, _, imageRoot := setupParts(t)
	ctx := context.Background()
	src := testutil.WriteFile(t, t.TempDir(), "photo.png", []byte("png bytes"))

	name, err := archive.HashFile(src)
	require.NoError(t, err)

	// a non-empty directory at the destination makes the rename fail
	blocked := filepath.Join(imageRoot, "ABC", "12", "345", name)
	testutil.WriteFile(t, blocked, "occupied", []byte("x"))

	_, err = p.AddImage(ctx, widget, src, "")
	require.Error(t, err)

	images, err := p.ListImages(ctx, widget)
	require.NoError(t, err)
	assert.Empty(t, images)

	entries, err := os.ReadDir(filepath.Dir(blocked))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged copy must be removed")

	require.NoError(t, os.RemoveAll(blocked))
	added, err := p.AddImage(ctx, widget, src, "")
	require.NoError(t, err)
	assert.Equal(t, name, added)
}
