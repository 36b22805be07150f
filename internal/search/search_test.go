package search

import (
	"context"
	"testing"

	"github.com/mwantia/palanaeum/internal/testutil"
	"github.com/mwantia/palanaeum/pkg/db/models"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	searcher   *Searcher
	db         store.CatalogStore
	codes      uint
	catalogues uint
	mech       uint
	structural uint
}

func setupSearch(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupStore(t)

	f := &fixture{
		searcher:   NewSearcher(db, testutil.Logger(t)),
		db:         db,
		codes:      testutil.SeedCategory(t, db, "Codes"),
		catalogues: testutil.SeedCategory(t, db, "Catalogues"),
		mech:       testutil.SeedDiscipline(t, db, "Mech"),
		structural: testutil.SeedDiscipline(t, db, "Structural"),
	}
	testutil.SeedDocument(t, db, "a.pdf", "Widget Spec", f.codes, f.mech)
	testutil.SeedDocument(t, db, "b.pdf", "Other", f.catalogues, f.structural)
	return f
}

func TestSearchScenario(t *testing.T) {
	f := setupSearch(t)

	result, err := f.searcher.Search(context.Background(), Query{
		Text:       "Spec",
		Categories: []uint{f.codes},
		SearchIn:   []Field{Title},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, "a.pdf", row.FileName)
	assert.Equal(t, "Widget Spec", row.Title)
	assert.Equal(t, f.codes, row.CategoryID)
	assert.Equal(t, f.mech, row.DisciplineID)
	assert.Nil(t, row.Level3ID)
	assert.Equal(t, "Spec", result.Text)
}

func TestSearchBlankTextIsNoop(t *testing.T) {
	f := setupSearch(t)

	restrictions := []struct {
		categories  []uint
		disciplines []uint
	}{
		{nil, nil},
		{[]uint{f.codes}, nil},
		{nil, []uint{f.structural}},
		{[]uint{f.codes, f.catalogues}, []uint{f.mech}},
	}
	for _, r := range restrictions {
		for _, text := range []string{"", "   ", "\t\n"} {
			result, err := f.searcher.Search(context.Background(), Query{
				Text:        text,
				Categories:  r.categories,
				Disciplines: r.disciplines,
				SearchIn:    AllFields,
			})
			require.NoError(t, err)
			assert.Nil(t, result)
		}
	}
}

func TestSearchEmptySearchInReturnsNothing(t *testing.T) {
	f := setupSearch(t)

	for _, text := range []string{"a", "pdf", "Spec", "Other"} {
		result, err := f.searcher.Search(context.Background(), Query{Text: text})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Empty(t, result.Rows, text)
	}
}

func TestSearchDisciplineAndCategoryAreConjoined(t *testing.T) {
	f := setupSearch(t)

	result, err := f.searcher.Search(context.Background(), Query{
		Text:        "pdf",
		Categories:  []uint{f.codes},
		Disciplines: []uint{f.structural},
		SearchIn:    AllFields,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Rows)

	result, err = f.searcher.Search(context.Background(), Query{
		Text:        "pdf",
		Disciplines: []uint{f.structural},
		SearchIn:    []Field{FileName},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "b.pdf", result.Rows[0].FileName)
}

func TestSearchPreservesStoreOrder(t *testing.T) {
	f := setupSearch(t)
	testutil.SeedDocument(t, f.db, "c.pdf", "Third", f.codes, f.mech)

	result, err := f.searcher.Search(context.Background(), Query{Text: ".pdf", SearchIn: []Field{FileName}})
	require.NoError(t, err)

	var names []string
	for _, r := range result.Rows {
		names = append(names, r.FileName)
	}
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, names)
}

func TestMatchesIsCaseSensitive(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		text     string
		searchIn []Field
		want     bool
	}{
		{"substring", "xABy", "AB", []Field{Title}, true},
		{"different case", "Ab", "AB", []Field{Title}, false},
		{"lowercase only", "xaby", "AB", []Field{Title}, false},
		{"field not selected", "xABy", "AB", []Field{FileName}, false},
		{"no fields", "AB", "AB", nil, false},
		{"file name", "", "dwg", []Field{FileName, Title}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := models.Document{FileName: "frame.dwg", Title: tt.title}
			assert.Equal(t, tt.want, Matches(doc, tt.text, tt.searchIn))
		})
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("Title")
	require.NoError(t, err)
	assert.Equal(t, Title, f)

	f, err = ParseField("file_name")
	require.NoError(t, err)
	assert.Equal(t, FileName, f)

	_, err = ParseField("author")
	assert.Error(t, err)
}
