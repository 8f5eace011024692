package mesh

import (
	"encoding/json"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/implicit/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func triangleGeometry(indexed bool, offset float32) Geometry {
	g := Geometry{Attributes: map[string]Attribute{
		AttrPosition: Float32Attribute(3, []float32{offset, 0, 0, offset + 1, 0, 0, offset, 1, 0}),
		AttrNormal:   Float32Attribute(3, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}),
	}}
	if indexed {
		g.Index = []uint32{0, 1, 2}
	}
	return g
}

func TestMergeIndexed(t *testing.T) {
	a := triangleGeometry(true, 0)
	b := triangleGeometry(true, 5)
	got, err := Merge(a, b)
	require.NoError(t, err)
	n, err := got.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, got.Index)
	pos := got.Attributes[AttrPosition]
	assert.Equal(t, Float32, pos.Type)
	assert.Equal(t, float32(5), pos.F32[9], "second geometry positions follow the first")
}

func TestMergeOffsets(t *testing.T) {
	a := Geometry{Attributes: map[string]Attribute{
		AttrPosition: Float64Attribute(3, make([]float64, 3*4)),
	}, Index: []uint32{0, 1, 2, 2, 3, 0}}
	b := Geometry{Attributes: map[string]Attribute{
		AttrPosition: Float64Attribute(3, make([]float64, 3*3)),
	}, Index: []uint32{2, 1, 0}}
	got, err := Merge(a, b, a)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0, 6, 5, 4, 7, 8, 9, 9, 10, 7}, got.Index)
	assert.Len(t, got.Attributes[AttrPosition].F64, 3*11)
}

func TestMergeNonIndexed(t *testing.T) {
	got, err := Merge(triangleGeometry(false, 0), triangleGeometry(false, 1))
	require.NoError(t, err)
	assert.False(t, got.Indexed())
	n, err := got.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	empty, err := Merge()
	require.NoError(t, err)
	n, err = empty.VertexCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMergeErrors(t *testing.T) {
	base := triangleGeometry(true, 0)
	tests := []struct {
		name  string
		other Geometry
		want  error
	}{
		{
			name:  "index presence",
			other: triangleGeometry(false, 0),
			want:  ErrIndexMismatch,
		},
		{
			name: "element type",
			other: Geometry{Attributes: map[string]Attribute{
				AttrPosition: Float64Attribute(3, make([]float64, 9)),
				AttrNormal:   Float32Attribute(3, make([]float32, 9)),
			}, Index: []uint32{0, 1, 2}},
			want: ErrAttributeMismatch,
		},
		{
			name: "item size",
			other: Geometry{Attributes: map[string]Attribute{
				AttrPosition: Float32Attribute(3, make([]float32, 9)),
				AttrNormal:   Float32Attribute(1, make([]float32, 3)),
			}, Index: []uint32{0, 1, 2}},
			want: ErrAttributeMismatch,
		},
		{
			name: "missing attribute",
			other: Geometry{Attributes: map[string]Attribute{
				AttrPosition: Float32Attribute(3, make([]float32, 9)),
			}, Index: []uint32{0, 1, 2}},
			want: ErrAttributeMismatch,
		},
		{
			name: "renamed attribute",
			other: Geometry{Attributes: map[string]Attribute{
				AttrPosition: Float32Attribute(3, make([]float32, 9)),
				"color":      Float32Attribute(3, make([]float32, 9)),
			}, Index: []uint32{0, 1, 2}},
			want: ErrAttributeMismatch,
		},
		{
			name: "vertex count disagreement",
			other: Geometry{Attributes: map[string]Attribute{
				AttrPosition: Float32Attribute(3, make([]float32, 9)),
				AttrNormal:   Float32Attribute(3, make([]float32, 6)),
			}, Index: []uint32{0, 1, 2}},
			want: ErrAttributeMismatch,
		},
		{
			name: "index out of range",
			other: Geometry{Attributes: map[string]Attribute{
				AttrPosition: Float32Attribute(3, make([]float32, 9)),
				AttrNormal:   Float32Attribute(3, make([]float32, 9)),
			}, Index: []uint32{0, 1, 3}},
			want: ErrIndexMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Merge(base, tt.other)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, got.Attributes, "no partial merge on error")
		})
	}
}

func sampleTriangles() []render.Triangle {
	// Two triangles of a unit square sharing the diagonal.
	a, b, c, d := r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{Y: 1}
	return []render.Triangle{
		render.NewTriangle(a, b, c),
		render.NewTriangle(a, c, d),
	}
}

func TestFromTriangles(t *testing.T) {
	m := FromTriangles(sampleTriangles())
	assert.Equal(t, 6, m.VertexCount())
	assert.Equal(t, 2, m.TriangleCount())
	for i := 0; i < m.VertexCount(); i++ {
		assert.Equal(t, ms3.Vec{Z: 1}, m.Normal(i))
	}
	tris := m.Triangles()
	require.Len(t, tris, 2)
	assert.Equal(t, ms3.Vec{X: 1, Y: 1}, tris[0][2])
	assert.Equal(t, ms3.Box{Max: ms3.Vec{X: 1, Y: 1}}, m.Bounds())

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"positions":[0,0,0,1,0,0,1,1,0`)
}

func TestGeometryRoundTrip(t *testing.T) {
	m := FromTriangles(sampleTriangles())
	got, err := FromGeometry(m.Geometry())
	require.NoError(t, err)
	assert.Equal(t, m, got)

	merged, err := Merge(m.Geometry(), m.Geometry())
	require.NoError(t, err)
	got, err = FromGeometry(merged)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TriangleCount())

	_, err = FromGeometry(Geometry{Attributes: map[string]Attribute{
		AttrPosition: Float64Attribute(3, make([]float64, 9)),
		AttrNormal:   Float32Attribute(3, make([]float32, 9)),
	}})
	assert.ErrorIs(t, err, ErrAttributeMismatch)
}

func TestWeld(t *testing.T) {
	m := FromTriangles(sampleTriangles())
	g, err := Weld(m, 1e-6)
	require.NoError(t, err)
	n, err := g.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 4, n, "shared diagonal vertices are welded")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, g.Index)

	// Expanding the welded geometry restores the original triangles.
	expanded, err := FromGeometry(g)
	require.NoError(t, err)
	assert.Equal(t, m.Positions, expanded.Positions)
	assert.Equal(t, m.Normals, expanded.Normals)

	// Zero tolerance still welds exact duplicates.
	g, err = Weld(m, 0)
	require.NoError(t, err)
	n, _ = g.VertexCount()
	assert.Equal(t, 4, n)

	// Large tolerance collapses every triangle.
	g, err = Weld(m, 10)
	require.NoError(t, err)
	n, _ = g.VertexCount()
	assert.Equal(t, 1, n)
	assert.Empty(t, g.Index)

	_, err = Weld(m, -1)
	assert.Error(t, err)
	_, err = Weld(Mesh{Positions: m.Positions}, 0)
	assert.ErrorIs(t, err, ErrAttributeMismatch)
}

func TestWeldNormals(t *testing.T) {
	// Two triangles folded along the shared edge from origin to (1,0,0).
	o, x := r3.Vec{}, r3.Vec{X: 1}
	m := FromTriangles([]render.Triangle{
		render.NewTriangle(o, x, r3.Vec{Y: 1}),
		render.NewTriangle(o, x, r3.Vec{Z: -1}),
	})
	g, err := Weld(m, 1e-6)
	require.NoError(t, err)
	n, _ := g.VertexCount()
	require.Equal(t, 4, n)
	normals := g.Attributes[AttrNormal].F32
	// Shared vertices average the +Z and +Y face normals.
	assert.InDelta(t, 0, normals[0], 1e-6)
	assert.InDelta(t, 0.70710678, normals[1], 1e-6)
	assert.InDelta(t, 0.70710678, normals[2], 1e-6)
}
