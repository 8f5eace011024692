package render

import (
	"math"

	"github.com/soypat/implicit/expr"
	"github.com/soypat/implicit/interval"
	"gonum.org/v1/gonum/spatial/r3"
)

// marchingCubesMaxTriangles is the largest amount of triangles a single cell
// can produce.
const marchingCubesMaxTriangles = 5

// mcEdges lists the corner pair joined by each cube edge. Corners follow
// the order of [interval.Box.Corners].
var mcEdges = [12][2]uint8{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// MarchCell samples e at the corners of cell and appends the marching cubes
// triangles of the surface e=0 to dst. If a sample is not finite nothing is
// appended and ErrNonFinite is returned.
func MarchCell(dst []Triangle, e expr.Expr, cell interval.Box) ([]Triangle, error) {
	p := cell.Corners()
	var v [8]float64
	for i := range p {
		v[i] = e.Eval(p[i].X, p[i].Y, p[i].Z)
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return dst, ErrNonFinite
		}
	}
	var buf [marchingCubesMaxTriangles]Triangle
	n := mcToTriangles(buf[:], p, v, 0)
	return append(dst, buf[:n]...), nil
}

// mcConfig returns the configuration code of the corner values: bit i is set
// when v[i] is below the isovalue x.
func mcConfig(v [8]float64, x float64) uint8 {
	var index uint8
	for i := 0; i < 8; i++ {
		if v[i] < x {
			index |= 1 << i
		}
	}
	return index
}

// mcToTriangles writes the triangles of the isosurface v=x through the cube
// with corners p into dst and returns the amount written. dst must have room
// for marchingCubesMaxTriangles triangles.
func mcToTriangles(dst []Triangle, p [8]r3.Vec, v [8]float64, x float64) int {
	index := mcConfig(v, x)
	if mcEdgeTable[index] == 0 {
		// No surface crossing.
		return 0
	}
	var points [12]r3.Vec
	edges := mcEdgeTable[index]
	for i, e := range mcEdges {
		if edges&(1<<i) != 0 {
			a, b := e[0], e[1]
			points[i] = mcInterpolate(p[a], p[b], v[a], v[b], x)
		}
	}
	table := mcTriangleTable[index]
	n := 0
	for i := 0; i < len(table); i += 3 {
		// Winding is reversed from table order so normals point outside.
		dst[n] = NewTriangle(points[table[i]], points[table[i+2]], points[table[i+1]])
		n++
	}
	return n
}

// mcInterpolate returns the point between p1 and p2 where the linear
// interpolation of values v1 and v2 equals x.
func mcInterpolate(p1, p2 r3.Vec, v1, v2, x float64) r3.Vec {
	const epsilon = 1e-12
	closeToV1 := math.Abs(x-v1) < epsilon
	closeToV2 := math.Abs(x-v2) < epsilon
	switch {
	case closeToV1 && !closeToV2:
		return p1
	case closeToV2 && !closeToV1:
		return p2
	}
	var t float64
	if !closeToV1 {
		// lo + (hi-lo) * v_lo / (v_lo - v_hi) for x=0.
		t = (v1 - x) / (v1 - v2)
	}
	return r3.Add(p1, r3.Scale(t, r3.Sub(p2, p1)))
}
