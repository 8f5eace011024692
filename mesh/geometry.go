// Package mesh assembles triangle soups produced by the polygonizer into
// renderer-ready geometry.
package mesh

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrAttributeMismatch is returned when geometries with differing
	// attribute layouts or element types are merged.
	ErrAttributeMismatch = errors.New("mesh: attribute mismatch")
	// ErrIndexMismatch is returned when only some of the merged geometries
	// carry an index buffer.
	ErrIndexMismatch = errors.New("mesh: index mismatch")
)

// Standard attribute names.
const (
	AttrPosition = "position"
	AttrNormal   = "normal"
)

// ElementType is the numeric type of an attribute's elements.
type ElementType uint8

const (
	Float32 ElementType = iota + 1
	Float64
)

func (t ElementType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return fmt.Sprintf("ElementType(%d)", t)
}

// Attribute is a flat per-vertex data buffer. ItemSize consecutive elements
// belong to one vertex. Only the slice matching Type is used.
type Attribute struct {
	ItemSize int
	Type     ElementType
	F32      []float32
	F64      []float64
}

// Float32Attribute returns an attribute backed by data.
func Float32Attribute(itemSize int, data []float32) Attribute {
	return Attribute{ItemSize: itemSize, Type: Float32, F32: data}
}

// Float64Attribute returns an attribute backed by data.
func Float64Attribute(itemSize int, data []float64) Attribute {
	return Attribute{ItemSize: itemSize, Type: Float64, F64: data}
}

// Len returns the amount of elements in the attribute.
func (a Attribute) Len() int {
	switch a.Type {
	case Float32:
		return len(a.F32)
	case Float64:
		return len(a.F64)
	}
	return 0
}

// Count returns the amount of vertices described by the attribute.
func (a Attribute) Count() int {
	if a.ItemSize <= 0 {
		return 0
	}
	return a.Len() / a.ItemSize
}

func (a Attribute) sameLayout(b Attribute) bool {
	return a.ItemSize == b.ItemSize && a.Type == b.Type
}

// Geometry is a set of named vertex attributes with an optional triangle
// index buffer. A nil Index means every three consecutive vertices form a
// triangle.
type Geometry struct {
	Attributes map[string]Attribute
	Index      []uint32
}

// Indexed reports whether g carries an index buffer.
func (g Geometry) Indexed() bool { return g.Index != nil }

// VertexCount returns the amount of vertices in g. It returns an error if
// the attributes disagree on the vertex count.
func (g Geometry) VertexCount() (int, error) {
	count := -1
	for _, name := range g.names() {
		a := g.Attributes[name]
		if a.ItemSize <= 0 || a.Len()%a.ItemSize != 0 {
			return 0, fmt.Errorf("%w: attribute %q length %d not a multiple of item size %d", ErrAttributeMismatch, name, a.Len(), a.ItemSize)
		}
		if count >= 0 && a.Count() != count {
			return 0, fmt.Errorf("%w: attribute %q has %d vertices, want %d", ErrAttributeMismatch, name, a.Count(), count)
		}
		count = a.Count()
	}
	return max(count, 0), nil
}

// names returns the attribute names of g in sorted order.
func (g Geometry) names() []string {
	names := make([]string, 0, len(g.Attributes))
	for name := range g.Attributes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Merge concatenates geometries into a single geometry. All geometries must
// share the same attribute names, item sizes and element types, and either
// all or none must be indexed. Indices of each geometry are offset by the
// amount of vertices preceding it. Mismatches are reported as errors
// wrapping ErrAttributeMismatch or ErrIndexMismatch and no partial result is
// returned.
func Merge(geoms ...Geometry) (Geometry, error) {
	if len(geoms) == 0 {
		return Geometry{Attributes: map[string]Attribute{}}, nil
	}
	first := geoms[0]
	names := first.names()
	indexed := first.Indexed()
	counts := make([]int, len(geoms))
	var totalIndices int
	for i, g := range geoms {
		if g.Indexed() != indexed {
			return Geometry{}, fmt.Errorf("%w: geometry %d indexed=%v, geometry 0 indexed=%v", ErrIndexMismatch, i, g.Indexed(), indexed)
		}
		if len(g.Attributes) != len(names) {
			return Geometry{}, fmt.Errorf("%w: geometry %d has %d attributes, want %d", ErrAttributeMismatch, i, len(g.Attributes), len(names))
		}
		for _, name := range names {
			a, ok := g.Attributes[name]
			if !ok {
				return Geometry{}, fmt.Errorf("%w: geometry %d missing attribute %q", ErrAttributeMismatch, i, name)
			}
			if want := first.Attributes[name]; !a.sameLayout(want) {
				return Geometry{}, fmt.Errorf("%w: geometry %d attribute %q is %dx%v, want %dx%v", ErrAttributeMismatch, i, name, a.ItemSize, a.Type, want.ItemSize, want.Type)
			}
		}
		n, err := g.VertexCount()
		if err != nil {
			return Geometry{}, fmt.Errorf("geometry %d: %w", i, err)
		}
		counts[i] = n
		totalIndices += len(g.Index)
	}

	merged := Geometry{Attributes: make(map[string]Attribute, len(names))}
	for _, name := range names {
		a := Attribute{ItemSize: first.Attributes[name].ItemSize, Type: first.Attributes[name].Type}
		for _, g := range geoms {
			src := g.Attributes[name]
			a.F32 = append(a.F32, src.F32...)
			a.F64 = append(a.F64, src.F64...)
		}
		merged.Attributes[name] = a
	}
	if indexed {
		merged.Index = make([]uint32, 0, totalIndices)
		offset := 0
		for i, g := range geoms {
			for _, idx := range g.Index {
				if int(idx) >= counts[i] {
					return Geometry{}, fmt.Errorf("%w: geometry %d index %d out of range for %d vertices", ErrIndexMismatch, i, idx, counts[i])
				}
				merged.Index = append(merged.Index, uint32(offset)+idx)
			}
			offset += counts[i]
		}
	}
	return merged, nil
}
