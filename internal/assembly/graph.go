package assembly

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/mwantia/palanaeum/pkg/db/models"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/mwantia/palanaeum/pkg/log"
)

// Ref identifies one part revision
type Ref struct {
	Num string
	Rev string
}

func (r Ref) String() string {
	return fmt.Sprintf("%s r%s", r.Num, r.Rev)
}

// Related is a part listed as parent or child, with its name when one is recorded
type Related struct {
	Ref
	Name *string
}

// Label renders "name (num rrev)" or just the reference when the name is unknown
func (r Related) Label() string {
	if r.Name == nil || *r.Name == "" {
		return r.Ref.String()
	}
	return fmt.Sprintf("%s (%s)", *r.Name, r.Ref)
}

type AddResult int

const (
	Inserted AddResult = iota
	AlreadyExists
)

func (r AddResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already exists"
	}
	return fmt.Sprintf("AddResult(%d)", int(r))
}

type Option func(*Graph)

// WithCycleCheck makes AddChild refuse edges that would close a loop
func WithCycleCheck() Option {
	return func(g *Graph) {
		g.cycleCheck = true
	}
}

// Graph is the directed parent to child containment relation between part revisions
type Graph struct {
	db         store.CatalogStore
	log        log.LoggerService
	cycleCheck bool
}

func NewGraph(db store.CatalogStore, logger log.LoggerService, opts ...Option) *Graph {
	g := &Graph{
		db:  db,
		log: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func edge(parent, child Ref) models.Child {
	return models.Child{
		PartNum:  parent.Num,
		PartRev:  parent.Rev,
		ChildNum: child.Num,
		ChildRev: child.Rev,
	}
}

// AddChild records that parent contains child. The exact directed edge is stored at most
// once; the reverse edge is not considered.
func (g *Graph) AddChild(ctx context.Context, parent, child Ref) (AddResult, error) {
	result := Inserted
	err := g.db.Transaction(ctx, func(tx store.CatalogStore) error {
		e := edge(parent, child)
		exists, err := tx.EdgeExists(ctx, e)
		if err != nil {
			return fmt.Errorf("failed to check edge: %w", err)
		}
		if exists {
			result = AlreadyExists
			return nil
		}

		if g.cycleCheck {
			cycle, err := wouldCycle(ctx, tx, parent, child)
			if err != nil {
				return err
			}
			if cycle {
				return fmt.Errorf("%s -> %s: %w", parent, child, apperrors.ErrCycleDetected)
			}
		}

		return tx.CreateEdge(ctx, &e)
	})
	if err != nil {
		return result, err
	}

	if result == Inserted {
		g.log.Debug("Added %s as child of %s", child, parent)
	}
	return result, nil
}

// RemoveChild deletes the edge if present. Removing a missing edge is not an error.
func (g *Graph) RemoveChild(ctx context.Context, parent, child Ref) error {
	deleted, err := g.db.DeleteEdge(ctx, edge(parent, child))
	if err != nil {
		return fmt.Errorf("failed to remove %s from %s: %w", child, parent, err)
	}
	if deleted > 0 {
		g.log.Debug("Removed %s from %s", child, parent)
	}
	return nil
}

func (g *Graph) ListChildren(ctx context.Context, ref Ref) ([]Related, error) {
	rows, err := g.db.ListChildren(ctx, ref.Num, ref.Rev)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", ref, err)
	}
	return related(rows), nil
}

func (g *Graph) ListParents(ctx context.Context, ref Ref) ([]Related, error) {
	rows, err := g.db.ListParents(ctx, ref.Num, ref.Rev)
	if err != nil {
		return nil, fmt.Errorf("failed to list parents of %s: %w", ref, err)
	}
	return related(rows), nil
}

// PartName returns the recorded name of a part, or nil when the part has no row or no
// name.
func (g *Graph) PartName(ctx context.Context, ref Ref) (*string, error) {
	part, err := g.db.GetPart(ctx, ref.Num, ref.Rev)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", ref, err)
	}
	return part.Name, nil
}

// WouldCycle reports whether adding parent -> child would make parent reachable from
// itself.
func (g *Graph) WouldCycle(ctx context.Context, parent, child Ref) (bool, error) {
	return wouldCycle(ctx, g.db, parent, child)
}

// wouldCycle walks child edges breadth-first starting at child, looking for parent
func wouldCycle(ctx context.Context, db store.CatalogStore, parent, child Ref) (bool, error) {
	if parent == child {
		return true, nil
	}

	visited := map[Ref]struct{}{child: {}}
	queue := []Ref{child}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		current := queue[0]
		queue = queue[1:]

		rows, err := db.ListChildren(ctx, current.Num, current.Rev)
		if err != nil {
			return false, fmt.Errorf("failed to walk children of %s: %w", current, err)
		}
		for _, row := range rows {
			next := Ref{Num: row.PartNum, Rev: row.PartRev}
			if next == parent {
				return true, nil
			}
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return false, nil
}

func related(rows []models.RelatedPart) []Related {
	result := make([]Related, 0, len(rows))
	for _, row := range rows {
		result = append(result, Related{
			Ref:  Ref{Num: row.PartNum, Rev: row.PartRev},
			Name: row.Name,
		})
	}
	return result
}
