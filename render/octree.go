package render

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/soypat/implicit/expr"
	"github.com/soypat/implicit/interval"
)

// Octree walks the adaptive subdivision of a domain in depth first order.
// Boxes whose interval-set enclosure of the expression excludes zero are
// pruned. Boxes are bisected along the axes still wider than the resolution
// until every axis is at or below it, at which point the box is a leaf cell.
type Octree struct {
	e          expr.Expr
	resolution float64
	// todo is a stack of boxes pending a visit. The last box is visited first.
	todo  []interval.Box
	stats SearchStats
}

// SearchStats counts the work done by an [Octree].
type SearchStats struct {
	// Visited is the amount of boxes whose enclosure was evaluated.
	Visited int
	// Pruned is the amount of visited boxes proven not to contain the surface.
	Pruned int
	// Leaves is the amount of leaf cells yielded.
	Leaves int
}

// NewOctree returns an Octree over domain that yields cells no larger than
// resolution on every axis.
func NewOctree(e expr.Expr, domain interval.Box, resolution float64) (*Octree, error) {
	if e == nil {
		panic("nil expression")
	}
	if err := validate(domain, resolution); err != nil {
		return nil, err
	}
	depth := domain.Depth(resolution)
	// Depth first descent keeps at most 7 pending siblings per level.
	todo := make([]interval.Box, 1, 7*depth+8)
	todo[0] = domain
	return &Octree{e: e, resolution: resolution, todo: todo}, nil
}

func validate(domain interval.Box, resolution float64) error {
	if !(resolution > 0) || math.IsInf(resolution, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidResolution, resolution)
	}
	for _, iv := range [3]interval.Interval{domain.X, domain.Y, domain.Z} {
		if !iv.IsBounded() || !(iv.Lo < iv.Hi) {
			return fmt.Errorf("%w: axis %v", ErrInvalidDomain, iv)
		}
		// Cells can not be narrower than the float64 spacing of the axis.
		m := math.Max(math.Abs(iv.Lo), math.Abs(iv.Hi))
		if spacing := math.Nextafter(m, math.Inf(1)) - m; resolution < spacing {
			return fmt.Errorf("%w: %v below float64 spacing %v of axis %v", ErrInvalidResolution, resolution, spacing, iv)
		}
	}
	return nil
}

// Next returns the next leaf cell. ok is false once the search is exhausted.
// The context is checked before every box visited.
func (oc *Octree) Next(ctx context.Context) (cell interval.Box, ok bool, err error) {
	for len(oc.todo) > 0 {
		if err := ctx.Err(); err != nil {
			return interval.Box{}, false, err
		}
		last := len(oc.todo) - 1
		box := oc.todo[last]
		oc.todo = oc.todo[:last]
		oc.stats.Visited++
		if !expr.BoundSet(oc.e, box).ContainsZero() {
			oc.stats.Pruned++
			continue
		}
		if box.Below(oc.resolution) {
			oc.stats.Leaves++
			return box, true, nil
		}
		n := len(oc.todo)
		oc.todo = box.AppendSplit(oc.todo, oc.resolution)
		// Reverse so the first sub-box is visited first.
		slices.Reverse(oc.todo[n:])
	}
	return interval.Box{}, false, nil
}

// Done reports whether the search is exhausted.
func (oc *Octree) Done() bool { return len(oc.todo) == 0 }

// Stats returns the work done so far.
func (oc *Octree) Stats() SearchStats { return oc.stats }

// Search calls fn for every leaf cell of the adaptive subdivision of domain
// that may contain the surface e=0. Cells are visited in a deterministic depth
// first order. Search stops at the first error returned by fn or on context
// cancellation.
func Search(ctx context.Context, e expr.Expr, domain interval.Box, resolution float64, fn func(cell interval.Box) error) (SearchStats, error) {
	oc, err := NewOctree(e, domain, resolution)
	if err != nil {
		return SearchStats{}, err
	}
	for {
		cell, ok, err := oc.Next(ctx)
		if err != nil {
			return oc.Stats(), err
		} else if !ok {
			return oc.Stats(), nil
		}
		if err = fn(cell); err != nil {
			return oc.Stats(), err
		}
	}
}

// CountCells returns the amount of leaf cells Search would visit.
func CountCells(ctx context.Context, e expr.Expr, domain interval.Box, resolution float64) (int, error) {
	stats, err := Search(ctx, e, domain, resolution, func(interval.Box) error { return nil })
	return stats.Leaves, err
}
