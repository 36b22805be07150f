package assembly

import (
	"context"
	"testing"

	"github.com/mwantia/palanaeum/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelatedSetKeepsIndexInStep(t *testing.T) {
	s := NewRelatedSet([]Related{
		{Ref: frame, Name: testutil.Ptr("Frame")},
		{Ref: motor},
		{Ref: bolt},
	})

	assert.True(t, s.Remove(motor))
	assert.False(t, s.Remove(motor))
	assert.Equal(t, 2, s.Len())

	item, ok := s.Get(bolt)
	require.True(t, ok)
	assert.Equal(t, bolt, item.Ref)

	s.Put(Related{Ref: motor, Name: testutil.Ptr("Motor")})
	s.Put(Related{Ref: frame, Name: testutil.Ptr("Main Frame")})

	assert.Equal(t, []string{"Main Frame (100-001 r0)", "300-003 r0", "Motor (200-002 r1)"}, s.Labels())
	for i, item := range s.Items() {
		got, ok := s.Get(item.Ref)
		require.True(t, ok)
		assert.Equal(t, s.Items()[i], got)
	}
}

func labels(related []Related) []string {
	out := make([]string, 0, len(related))
	for _, r := range related {
		out = append(out, r.Label())
	}
	return out
}

func TestViewTracksGraph(t *testing.T) {
	g, ctx := setupGraph(t)

	view, err := g.Open(ctx, motor)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Parents.Len())
	assert.Equal(t, 0, view.Children.Len())

	result, err := view.AddParent(ctx, frame)
	require.NoError(t, err)
	assert.Equal(t, Inserted, result)

	result, err = view.AddChild(ctx, bolt)
	require.NoError(t, err)
	assert.Equal(t, Inserted, result)

	result, err = view.AddParent(ctx, frame)
	require.NoError(t, err)
	assert.Equal(t, AlreadyExists, result)

	parents, err := g.ListParents(ctx, motor)
	require.NoError(t, err)
	children, err := g.ListChildren(ctx, motor)
	require.NoError(t, err)
	assert.Equal(t, labels(parents), view.Parents.Labels())
	assert.Equal(t, labels(children), view.Children.Labels())
	assert.Equal(t, []string{"Frame (100-001 r0)"}, view.Parents.Labels())
	assert.Equal(t, []string{"300-003 r0"}, view.Children.Labels())

	require.NoError(t, view.RemoveParent(ctx, frame))
	assert.Equal(t, 0, view.Parents.Len())

	reopened, err := g.Open(context.Background(), motor)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Parents.Len())
	assert.Equal(t, view.Children.Labels(), reopened.Children.Labels())

	require.NoError(t, view.RemoveChild(ctx, bolt))
	assert.False(t, view.Children.Contains(bolt))
}

func TestViewSelfEdgeAppearsInBothSets(t *testing.T) {
	g, ctx := setupGraph(t)

	view, err := g.Open(ctx, frame)
	require.NoError(t, err)

	_, err = view.AddChild(ctx, frame)
	require.NoError(t, err)
	assert.True(t, view.Children.Contains(frame))
	assert.True(t, view.Parents.Contains(frame))

	reopened, err := g.Open(ctx, frame)
	require.NoError(t, err)
	assert.Equal(t, reopened.Parents.Labels(), view.Parents.Labels())
	assert.Equal(t, reopened.Children.Labels(), view.Children.Labels())

	require.NoError(t, view.RemoveParent(ctx, frame))
	assert.Equal(t, 0, view.Children.Len())
	assert.Equal(t, 0, view.Parents.Len())
}
