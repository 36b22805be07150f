package taxonomy

import (
	"context"
	"testing"

	"github.com/mwantia/palanaeum/internal/testutil"
	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTaxonomy(t *testing.T) (*Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	db := testutil.SetupStore(t)

	testutil.SeedCategory(t, db, "Codes")
	testutil.SeedCategory(t, db, "Catalogues")
	testutil.SeedDiscipline(t, db, "Mech")
	testutil.SeedDiscipline(t, db, "Structural")

	s, err := New(ctx, db, testutil.Logger(t))
	require.NoError(t, err)
	return s, ctx
}

func TestVocabularyIsBidirectional(t *testing.T) {
	s, _ := setupTaxonomy(t)

	categories := s.Categories()
	require.Equal(t, 2, categories.Len())
	for name, id := range categories.NameToID {
		assert.Equal(t, name, categories.IDToName[id])
	}
	assert.Equal(t, []string{"Codes", "Catalogues"}, categories.Names)

	_, err := s.CategoryID("Nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddTagsDeduplicatesWithinCall(t *testing.T) {
	s, ctx := setupTaxonomy(t)

	require.NoError(t, s.AddTags(ctx, []string{"foo", "foo", "bar"}))
	require.NoError(t, s.Reload(ctx))

	tags := s.Tags()
	assert.Equal(t, 2, tags.Len())
	assert.ElementsMatch(t, []string{"foo", "bar"}, tags.Names)

	loaded, err := s.Load(ctx, KindTag)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
}

func TestAddTagsIsCaseSensitive(t *testing.T) {
	s, ctx := setupTaxonomy(t)

	require.NoError(t, s.AddTags(ctx, []string{"foo"}))
	assert.Equal(t, []string{"Foo"}, s.UnseenTags([]string{"foo", "Foo", ""}))

	require.NoError(t, s.AddTags(ctx, []string{"Foo"}))
	assert.Equal(t, 2, s.Tags().Len())
}

func TestAddTagsSeesInsertsFromElsewhere(t *testing.T) {
	s, ctx := setupTaxonomy(t)

	// another writer adds "foo" behind the cache's back
	require.NoError(t, s.db.CreateTags(ctx, []string{"foo"}))
	assert.False(t, s.Tags().Has("foo"))

	require.NoError(t, s.AddTags(ctx, []string{"foo", "bar"}))
	tags := s.Tags()
	assert.Equal(t, 2, tags.Len())
	assert.True(t, tags.Has("foo"))
}

func TestResolveRequiresCategoryAndDiscipline(t *testing.T) {
	s, _ := setupTaxonomy(t)

	c, d, err := s.Resolve("Codes", "Mech")
	require.NoError(t, err)
	assert.NotZero(t, c)
	assert.NotZero(t, d)

	for _, pair := range [][2]string{{"", "Mech"}, {"Codes", ""}, {"Codes", "Unknown"}, {"Unknown", "Mech"}} {
		_, _, err := s.Resolve(pair[0], pair[1])
		assert.ErrorIs(t, err, apperrors.ErrInvalidTaxonomy, "%v", pair)
	}
}

func TestLevel3IsScopedAndAllowsDuplicates(t *testing.T) {
	s, ctx := setupTaxonomy(t)

	first, err := s.InsertLevel3(ctx, "Codes", "Mech", "Pumps")
	require.NoError(t, err)
	second, err := s.InsertLevel3(ctx, "Codes", "Mech", "Pumps")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	codes, _ := s.CategoryID("Codes")
	catalogues, _ := s.CategoryID("Catalogues")
	mech, _ := s.DisciplineID("Mech")

	v, err := s.Level3(ctx, codes, mech)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []string{"Pumps"}, v.Names)

	id, err := s.Level3ID(ctx, codes, mech, "Pumps")
	require.NoError(t, err)
	assert.Equal(t, first, id)

	_, err = s.Level3ID(ctx, catalogues, mech, "Pumps")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.InsertLevel3(ctx, "", "Mech", "Valves")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTaxonomy)
}

func TestSeedIsIdempotent(t *testing.T) {
	s, ctx := setupTaxonomy(t)

	require.NoError(t, s.Seed(ctx, []string{"Codes", "Calculations"}, []string{"Geotech"}))
	require.NoError(t, s.Seed(ctx, []string{"Codes", "Calculations"}, []string{"Geotech"}))

	assert.Equal(t, 3, s.Categories().Len())
	assert.Equal(t, 3, s.Disciplines().Len())
}

func TestNamesMustBeSinglePathSegments(t *testing.T) {
	s, ctx := setupTaxonomy(t)

	_, err := s.InsertLevel3(ctx, "Codes", "Mech", "../../x")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTaxonomy)

	assert.ErrorIs(t, s.AddCategory(ctx, "a/b"), apperrors.ErrInvalidTaxonomy)
	assert.ErrorIs(t, s.AddDiscipline(ctx, ".."), apperrors.ErrInvalidTaxonomy)
	assert.ErrorIs(t, s.Seed(ctx, []string{"Fine"}, []string{`bad\name`}), apperrors.ErrInvalidTaxonomy)
	assert.False(t, s.Categories().Has("Fine"))

	_, _, err = s.Resolve("../Codes", "Mech")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTaxonomy)

	codes, _ := s.CategoryID("Codes")
	mech, _ := s.DisciplineID("Mech")
	v, err := s.Level3(ctx, codes, mech)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())
}
