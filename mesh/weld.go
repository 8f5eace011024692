package mesh

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = kdVertices{}
	_ kdtree.Comparable = kdVertex{}
	_ kdtree.SortSlicer = kdPlane{}
)

// Weld merges vertices of m that lie within tol of each other and returns
// the resulting indexed geometry. Welded vertices take the position of the
// first vertex of their cluster and the normalized sum of the cluster's
// normals. Triangles that collapse into a line or point are dropped.
func Weld(m Mesh, tol float64) (Geometry, error) {
	if !(tol >= 0) {
		return Geometry{}, fmt.Errorf("invalid weld tolerance %v", tol)
	}
	if len(m.Positions) != len(m.Normals) || len(m.Positions)%9 != 0 {
		return Geometry{}, fmt.Errorf("%w: %d positions and %d normals", ErrAttributeMismatch, len(m.Positions), len(m.Normals))
	}
	n := m.VertexCount()
	if n == 0 {
		return Geometry{Attributes: m.Geometry().Attributes, Index: []uint32{}}, nil
	}
	verts := make(kdVertices, n)
	for i := range verts {
		p := m.Position(i)
		verts[i] = kdVertex{p: r3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}, id: i}
	}
	query := make(kdVertices, n)
	copy(query, verts)
	tree := kdtree.New(verts, false)

	// remap[i] is the welded index of vertex i plus one. Zero means unvisited.
	remap := make([]uint32, n)
	var positions, normals []float32
	// Nudged up so vertices exactly at tol do not tie with the keeper sentinel.
	tol2 := math.Nextafter(tol*tol, math.Inf(1))
	for _, q := range query {
		if remap[q.id] != 0 {
			continue
		}
		k := uint32(len(positions) / 3)
		positions = append(positions, m.Positions[3*q.id:3*q.id+3]...)
		var nsum [3]float32
		keep := kdtree.NewDistKeeper(tol2)
		tree.NearestSet(keep, q)
		found := false
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			v := c.Comparable.(kdVertex)
			if remap[v.id] != 0 {
				continue
			}
			found = found || v.id == q.id
			remap[v.id] = k + 1
			nsum[0] += m.Normals[3*v.id]
			nsum[1] += m.Normals[3*v.id+1]
			nsum[2] += m.Normals[3*v.id+2]
		}
		if !found {
			// Query vertex lost to a tie with the keeper sentinel.
			remap[q.id] = k + 1
			nsum[0] += m.Normals[3*q.id]
			nsum[1] += m.Normals[3*q.id+1]
			nsum[2] += m.Normals[3*q.id+2]
		}
		normals = append(normals, unit32(nsum)...)
	}

	index := make([]uint32, 0, n)
	for t := 0; t < n; t += 3 {
		a, b, c := remap[t]-1, remap[t+1]-1, remap[t+2]-1
		if a == b || b == c || a == c {
			continue
		}
		index = append(index, a, b, c)
	}
	return Geometry{
		Attributes: map[string]Attribute{
			AttrPosition: Float32Attribute(3, positions),
			AttrNormal:   Float32Attribute(3, normals),
		},
		Index: index,
	}, nil
}

func unit32(v [3]float32) []float32 {
	norm := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if norm == 0 || math32.IsNaN(norm) || math32.IsInf(norm, 0) {
		return []float32{0, 0, 1}
	}
	return []float32{v[0] / norm, v[1] / norm, v[2] / norm}
}

type kdVertices []kdVertex

type kdVertex struct {
	p  r3.Vec
	id int
}

func (k kdVertices) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdVertices) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdVertices) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), vertices: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdVertices) Slice(start, end int) kdtree.Interface { return k[start:end] }

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdVertex) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdVertex), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdVertex) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdVertex) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.p, b.(kdVertex).p))
}

// c = a.dim - b.dim
func kdComp(a, b kdVertex, dim int) (c float64) {
	switch dim {
	case 0:
		c = a.p.X - b.p.X
	case 1:
		c = a.p.Y - b.p.Y
	case 2:
		c = a.p.Z - b.p.Z
	}
	return c
}

type kdPlane struct {
	dim      int
	vertices kdVertices
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.vertices[i], p.vertices[j], p.dim) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
}
func (p kdPlane) Len() int {
	return len(p.vertices)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.vertices = p.vertices[start:end]
	return p
}
