package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/implicit/render"
)

// Mesh is a non-indexed triangle mesh suitable for rendering. Positions and
// Normals are flat with 3 floats per vertex and every 3 consecutive vertices
// form a triangle.
type Mesh struct {
	Positions []float32 `json:"positions"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32 `json:"normals"`   // [nx0,ny0,nz0, ...]
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Positions) / 9 }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Positions) == 0 }

// FromTriangles flattens triangles into a Mesh. Each vertex carries the
// face normal of its triangle.
func FromTriangles(triangles []render.Triangle) Mesh {
	m := Mesh{
		Positions: make([]float32, 0, 9*len(triangles)),
		Normals:   make([]float32, 0, 9*len(triangles)),
	}
	for _, tri := range triangles {
		nx, ny, nz := float32(tri.N.X), float32(tri.N.Y), float32(tri.N.Z)
		for _, v := range tri.V {
			m.Positions = append(m.Positions, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, nx, ny, nz)
		}
	}
	return m
}

// Geometry returns the non-indexed geometry of m. The returned geometry
// shares memory with m.
func (m Mesh) Geometry() Geometry {
	return Geometry{Attributes: map[string]Attribute{
		AttrPosition: Float32Attribute(3, m.Positions),
		AttrNormal:   Float32Attribute(3, m.Normals),
	}}
}

// FromGeometry returns the Mesh of a geometry with float32 position and
// normal attributes of item size 3. Indexed geometries are expanded.
func FromGeometry(g Geometry) (Mesh, error) {
	n, err := g.VertexCount()
	if err != nil {
		return Mesh{}, err
	}
	pos, err := vec3Attribute(g, AttrPosition)
	if err != nil {
		return Mesh{}, err
	}
	norm, err := vec3Attribute(g, AttrNormal)
	if err != nil {
		return Mesh{}, err
	}
	if !g.Indexed() {
		if n%3 != 0 {
			return Mesh{}, fmt.Errorf("%w: %d vertices do not form whole triangles", ErrAttributeMismatch, n)
		}
		return Mesh{Positions: pos.F32, Normals: norm.F32}, nil
	}
	if len(g.Index)%3 != 0 {
		return Mesh{}, fmt.Errorf("%w: %d indices do not form whole triangles", ErrIndexMismatch, len(g.Index))
	}
	m := Mesh{
		Positions: make([]float32, 0, 3*len(g.Index)),
		Normals:   make([]float32, 0, 3*len(g.Index)),
	}
	for _, idx := range g.Index {
		i := int(idx)
		if i >= n {
			return Mesh{}, fmt.Errorf("%w: index %d out of range for %d vertices", ErrIndexMismatch, idx, n)
		}
		m.Positions = append(m.Positions, pos.F32[3*i:3*i+3]...)
		m.Normals = append(m.Normals, norm.F32[3*i:3*i+3]...)
	}
	return m, nil
}

func vec3Attribute(g Geometry, name string) (Attribute, error) {
	a, ok := g.Attributes[name]
	if !ok {
		return Attribute{}, fmt.Errorf("%w: missing attribute %q", ErrAttributeMismatch, name)
	}
	if a.Type != Float32 || a.ItemSize != 3 {
		return Attribute{}, fmt.Errorf("%w: attribute %q is %dx%v, want 3xfloat32", ErrAttributeMismatch, name, a.ItemSize, a.Type)
	}
	return a, nil
}

// Triangles returns the triangles of m.
func (m Mesh) Triangles() []ms3.Triangle {
	out := make([]ms3.Triangle, m.TriangleCount())
	for i := range out {
		p := m.Positions[9*i:]
		out[i] = ms3.Triangle{
			{X: p[0], Y: p[1], Z: p[2]},
			{X: p[3], Y: p[4], Z: p[5]},
			{X: p[6], Y: p[7], Z: p[8]},
		}
	}
	return out
}

// Normal returns the normal of the ith vertex.
func (m Mesh) Normal(i int) ms3.Vec {
	n := m.Normals[3*i:]
	return ms3.Vec{X: n[0], Y: n[1], Z: n[2]}
}

// Position returns the position of the ith vertex.
func (m Mesh) Position(i int) ms3.Vec {
	p := m.Positions[3*i:]
	return ms3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// Bounds returns the axis aligned bounding box of m.
func (m Mesh) Bounds() ms3.Box {
	if m.IsEmpty() {
		return ms3.Box{}
	}
	lo := ms3.Vec{X: math32.MaxFloat32, Y: math32.MaxFloat32, Z: math32.MaxFloat32}
	hi := ms3.Scale(-1, lo)
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		lo = ms3.MinElem(lo, p)
		hi = ms3.MaxElem(hi, p)
	}
	return ms3.Box{Min: lo, Max: hi}
}
