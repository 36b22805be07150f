package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mwantia/palanaeum/internal/testutil"
	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/mwantia/palanaeum/pkg/db/models"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDocumentsComposesRestrictions(t *testing.T) {
	s := testutil.SetupStore(t)
	ctx := context.Background()

	codes := testutil.SeedCategory(t, s, "Codes")
	catalogues := testutil.SeedCategory(t, s, "Catalogues")
	mech := testutil.SeedDiscipline(t, s, "Mech")
	structural := testutil.SeedDiscipline(t, s, "Structural")

	testutil.SeedDocument(t, s, "a.pdf", "Widget Spec", codes, mech)
	testutil.SeedDocument(t, s, "b.pdf", "Other", catalogues, structural)
	testutil.SeedDocument(t, s, "c.pdf", "Mixed", codes, structural)

	tests := []struct {
		name        string
		categories  []uint
		disciplines []uint
		want        []string
	}{
		{"unrestricted", nil, nil, []string{"a.pdf", "b.pdf", "c.pdf"}},
		{"category only", []uint{codes}, nil, []string{"a.pdf", "c.pdf"}},
		{"discipline only", nil, []uint{structural}, []string{"b.pdf", "c.pdf"}},
		{"both", []uint{codes}, []uint{structural}, []string{"c.pdf"}},
		{"several categories", []uint{codes, catalogues}, []uint{mech}, []string{"a.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := s.FindDocuments(ctx, tt.categories, tt.disciplines)
			require.NoError(t, err)

			var names []string
			for _, d := range docs {
				names = append(names, d.FileName)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestTransactionRollsBack(t *testing.T) {
	s := testutil.SetupStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx store.CatalogStore) error {
		if err := tx.CreateTags(ctx, []string{"kept-out"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestCreateTagsSkipsExisting(t *testing.T) {
	s := testutil.SetupStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTags(ctx, []string{"foo"}))
	require.NoError(t, s.CreateTags(ctx, []string{"foo", "bar"}))

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
}

func TestGetPartNotFound(t *testing.T) {
	s := testutil.SetupStore(t)

	_, err := s.GetPart(context.Background(), "100-001", "0")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdatePartColumnWritesNull(t *testing.T) {
	s := testutil.SetupStore(t)
	ctx := context.Background()
	testutil.SeedPart(t, s, "100-001", "0", testutil.Ptr("Frame"))

	require.NoError(t, s.UpdatePartColumn(ctx, "100-001", "0", "description", testutil.Ptr("welded")))
	part, err := s.GetPart(ctx, "100-001", "0")
	require.NoError(t, err)
	require.NotNil(t, part.Description)
	assert.Equal(t, "welded", *part.Description)

	require.NoError(t, s.UpdatePartColumn(ctx, "100-001", "0", "description", nil))
	part, err = s.GetPart(ctx, "100-001", "0")
	require.NoError(t, err)
	assert.Nil(t, part.Description)

	err = s.UpdatePartColumn(ctx, "999-999", "0", "description", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListRelatedLeftJoinsNames(t *testing.T) {
	s := testutil.SetupStore(t)
	ctx := context.Background()
	testutil.SeedPart(t, s, "100-001", "0", testutil.Ptr("Frame"))

	require.NoError(t, s.CreateEdge(ctx, &models.Child{PartNum: "100-001", PartRev: "0", ChildNum: "200-002", ChildRev: "1"}))

	children, err := s.ListChildren(ctx, "100-001", "0")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "200-002", children[0].PartNum)
	assert.Equal(t, "1", children[0].PartRev)
	assert.Nil(t, children[0].Name)

	parents, err := s.ListParents(ctx, "200-002", "1")
	require.NoError(t, err)
	require.Len(t, parents, 1)
	require.NotNil(t, parents[0].Name)
	assert.Equal(t, "Frame", *parents[0].Name)
}

func TestDuplicateEdgeRejectedByIndex(t *testing.T) {
	s := testutil.SetupStore(t)
	ctx := context.Background()
	edge := models.Child{PartNum: "100-001", PartRev: "0", ChildNum: "200-002", ChildRev: "1"}

	first := edge
	require.NoError(t, s.CreateEdge(ctx, &first))
	second := edge
	assert.Error(t, s.CreateEdge(ctx, &second))
}
