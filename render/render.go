// Package render polygonizes implicit surfaces f(x,y,z)=0 by adaptive octree
// search and per-cell marching cubes.
//
// Resolution is a sampling knob: cells finer than the smallest feature of the
// surface are needed to resolve it and features thinner than the resolution
// may be missed silently.
package render

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidDomain is returned for search domains that are empty,
	// degenerate or not finite.
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrInvalidResolution is returned for resolutions that are not positive
	// and finite.
	ErrInvalidResolution = errors.New("invalid resolution")
	// ErrNonFinite is returned by MarchCell when a corner sample is NaN or
	// infinite.
	ErrNonFinite = errors.New("non-finite corner sample")
)

// Renderer streams triangles of a polygonized surface.
type Renderer interface {
	// ReadTriangles writes triangles into dst and returns the number written.
	// io.EOF is returned once all triangles have been read.
	ReadTriangles(dst []Triangle) (int, error)
}

// fallbackNormal is the normal given to triangles with no area.
var fallbackNormal = r3.Vec{Z: 1}

// Triangle is a mesh triangle with a flat unit normal. The normal points
// towards increasing values of the polygonized function.
type Triangle struct {
	V [3]r3.Vec
	N r3.Vec
}

// NewTriangle returns the triangle a, b, c with its counter clockwise unit
// normal. Degenerate triangles receive the +Z normal.
func NewTriangle(a, b, c r3.Vec) Triangle {
	return Triangle{V: [3]r3.Vec{a, b, c}, N: faceNormal(a, b, c)}
}

func faceNormal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	l := r3.Norm(n)
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallbackNormal
	}
	return r3.Scale(1/l, n)
}

// Degenerate returns true if two of the triangle's vertices are within tol
// of each other on every axis.
func (t Triangle) Degenerate(tol float64) bool {
	return equalWithin(t.V[0], t.V[1], tol) ||
		equalWithin(t.V[1], t.V[2], tol) ||
		equalWithin(t.V[2], t.V[0], tol)
}

func equalWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
