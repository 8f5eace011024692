package render

import (
	"context"
	"errors"
	"io"

	"github.com/soypat/implicit/expr"
	"github.com/soypat/implicit/interval"
)

// OctreeRenderer renders an expression's zero set using marching cubes over
// the leaf cells of an adaptive [Octree] search.
type OctreeRenderer struct {
	ctx       context.Context
	oc        *Octree
	e         expr.Expr
	unwritten triangleBuffer
	// Cells with non-finite corner samples are skipped and counted.
	skipped   int
	triangles int
}

var _ Renderer = (*OctreeRenderer)(nil)

// NewOctreeRenderer returns a Renderer of the surface e=0 over domain using
// cells of at most resolution side length.
func NewOctreeRenderer(e expr.Expr, domain interval.Box, resolution float64) (*OctreeRenderer, error) {
	oc, err := NewOctree(e, domain, resolution)
	if err != nil {
		return nil, err
	}
	return &OctreeRenderer{
		ctx:       context.Background(),
		oc:        oc,
		e:         e,
		unwritten: triangleBuffer{buf: make([]Triangle, 0, marchingCubesMaxTriangles)},
	}, nil
}

// ReadTriangles writes triangles rendered from the expression into dst.
// It returns the number of triangles written and io.EOF once the surface has
// been fully rendered.
func (r *OctreeRenderer) ReadTriangles(dst []Triangle) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if r.unwritten.Len() > 0 {
		n += r.unwritten.Read(dst)
		if n == len(dst) {
			return n, nil
		}
	}
	var buf [marchingCubesMaxTriangles]Triangle
	for n < len(dst) {
		cell, ok, err := r.oc.Next(r.ctx)
		if err != nil {
			return n, err
		} else if !ok {
			return n, io.EOF
		}
		tris, err := MarchCell(buf[:0], r.e, cell)
		if errors.Is(err, ErrNonFinite) {
			r.skipped++
			continue
		}
		r.triangles += len(tris)
		nw := copy(dst[n:], tris)
		n += nw
		if nw < len(tris) {
			// Not enough room in dst, keep the rest for the next call.
			r.unwritten.Write(tris[nw:])
		}
	}
	return n, nil
}

// SetContext sets the context checked while searching for cells. Once it is
// done ReadTriangles returns its error.
func (r *OctreeRenderer) SetContext(ctx context.Context) { r.ctx = ctx }

// Triangles returns the amount of triangles rendered so far.
func (r *OctreeRenderer) Triangles() int { return r.triangles }

// Skipped returns the amount of cells skipped due to non-finite samples.
func (r *OctreeRenderer) Skipped() int { return r.skipped }

// Stats returns the search statistics so far.
func (r *OctreeRenderer) Stats() SearchStats { return r.oc.Stats() }
