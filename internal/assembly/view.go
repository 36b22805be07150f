package assembly

import (
	"context"
)

// RelatedSet is an ordered collection of related parts with a lookup index derived from
// the order. The slice is authoritative; the index is rebuilt by every mutation.
type RelatedSet struct {
	items []Related
	index map[Ref]int
}

func NewRelatedSet(items []Related) *RelatedSet {
	s := &RelatedSet{}
	for _, item := range items {
		s.Put(item)
	}
	return s
}

func (s *RelatedSet) reindex() {
	s.index = make(map[Ref]int, len(s.items))
	for i, item := range s.items {
		s.index[item.Ref] = i
	}
}

// Put appends item, or replaces the name of an entry with the same reference in place
func (s *RelatedSet) Put(item Related) {
	if i, ok := s.index[item.Ref]; ok {
		s.items[i] = item
		return
	}
	s.items = append(s.items, item)
	s.reindex()
}

func (s *RelatedSet) Remove(ref Ref) bool {
	i, ok := s.index[ref]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	return true
}

func (s *RelatedSet) Get(ref Ref) (Related, bool) {
	i, ok := s.index[ref]
	if !ok {
		return Related{}, false
	}
	return s.items[i], true
}

func (s *RelatedSet) Contains(ref Ref) bool {
	_, ok := s.index[ref]
	return ok
}

func (s *RelatedSet) Len() int {
	return len(s.items)
}

// Items returns a copy in display order
func (s *RelatedSet) Items() []Related {
	return append([]Related(nil), s.items...)
}

func (s *RelatedSet) Labels() []string {
	labels := make([]string, 0, len(s.items))
	for _, item := range s.items {
		labels = append(labels, item.Label())
	}
	return labels
}

// View holds the parents and children of one open part and keeps them in step with the
// graph as edges are added or removed through it.
type View struct {
	Part     Ref
	Parents  *RelatedSet
	Children *RelatedSet

	graph *Graph
}

func (g *Graph) Open(ctx context.Context, part Ref) (*View, error) {
	parents, err := g.ListParents(ctx, part)
	if err != nil {
		return nil, err
	}
	children, err := g.ListChildren(ctx, part)
	if err != nil {
		return nil, err
	}

	return &View{
		Part:     part,
		Parents:  NewRelatedSet(parents),
		Children: NewRelatedSet(children),
		graph:    g,
	}, nil
}

// track records an edge between parent and child in whichever of the view's sets it
// touches. A self-edge on the viewed part appears in both.
func (v *View) track(ctx context.Context, parent, child Ref) error {
	if parent == v.Part && !v.Children.Contains(child) {
		name, err := v.graph.PartName(ctx, child)
		if err != nil {
			return err
		}
		v.Children.Put(Related{Ref: child, Name: name})
	}
	if child == v.Part && !v.Parents.Contains(parent) {
		name, err := v.graph.PartName(ctx, parent)
		if err != nil {
			return err
		}
		v.Parents.Put(Related{Ref: parent, Name: name})
	}
	return nil
}

func (v *View) untrack(parent, child Ref) {
	if parent == v.Part {
		v.Children.Remove(child)
	}
	if child == v.Part {
		v.Parents.Remove(parent)
	}
}

// AddChild adds an edge from the viewed part to child
func (v *View) AddChild(ctx context.Context, child Ref) (AddResult, error) {
	result, err := v.graph.AddChild(ctx, v.Part, child)
	if err != nil {
		return result, err
	}
	return result, v.track(ctx, v.Part, child)
}

// AddParent adds an edge from parent to the viewed part
func (v *View) AddParent(ctx context.Context, parent Ref) (AddResult, error) {
	result, err := v.graph.AddChild(ctx, parent, v.Part)
	if err != nil {
		return result, err
	}
	return result, v.track(ctx, parent, v.Part)
}

func (v *View) RemoveChild(ctx context.Context, child Ref) error {
	if err := v.graph.RemoveChild(ctx, v.Part, child); err != nil {
		return err
	}
	v.untrack(v.Part, child)
	return nil
}

func (v *View) RemoveParent(ctx context.Context, parent Ref) error {
	if err := v.graph.RemoveChild(ctx, parent, v.Part); err != nil {
		return err
	}
	v.untrack(parent, v.Part)
	return nil
}
