package interval

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an axis aligned region of space given by one interval per axis.
type Box struct {
	X, Y, Z Interval
}

// NewBox returns the box spanning min to max.
func NewBox(min, max r3.Vec) Box {
	return Box{X: New(min.X, max.X), Y: New(min.Y, max.Y), Z: New(min.Z, max.Z)}
}

// Cube returns the box [lo,hi]^3.
func Cube(lo, hi float64) Box {
	iv := New(lo, hi)
	return Box{X: iv, Y: iv, Z: iv}
}

func (b Box) String() string {
	return b.X.String() + "x" + b.Y.String() + "x" + b.Z.String()
}

// Min returns the minimum corner of the box.
func (b Box) Min() r3.Vec { return r3.Vec{X: b.X.Lo, Y: b.Y.Lo, Z: b.Z.Lo} }

// Max returns the maximum corner of the box.
func (b Box) Max() r3.Vec { return r3.Vec{X: b.X.Hi, Y: b.Y.Hi, Z: b.Z.Hi} }

// Size returns the per axis widths.
func (b Box) Size() r3.Vec { return r3.Vec{X: b.X.Width(), Y: b.Y.Width(), Z: b.Z.Width()} }

// Center returns the midpoint of the box.
func (b Box) Center() r3.Vec { return r3.Vec{X: b.X.Mid(), Y: b.Y.Mid(), Z: b.Z.Mid()} }

// IsEmpty reports whether any axis is empty.
func (b Box) IsEmpty() bool { return b.X.IsEmpty() || b.Y.IsEmpty() || b.Z.IsEmpty() }

// IsFinite reports whether every bound of the box is a finite number.
func (b Box) IsFinite() bool {
	return b.X.IsBounded() && b.Y.IsBounded() && b.Z.IsBounded()
}

// Contains reports whether p lies inside the box, boundary included.
func (b Box) Contains(p r3.Vec) bool {
	return b.X.Contains(p.X) && b.Y.Contains(p.Y) && b.Z.Contains(p.Z)
}

// Below reports whether every axis of the box is at or below resolution.
// Axes too narrow to bisect in float64 count as below any resolution.
func (b Box) Below(resolution float64) bool {
	return axisBelow(b.X, resolution) && axisBelow(b.Y, resolution) && axisBelow(b.Z, resolution)
}

func axisBelow(iv Interval, resolution float64) bool {
	if iv.Width() <= resolution {
		return true
	}
	mid := iv.Mid()
	return !(iv.Lo < mid && mid < iv.Hi)
}

// Corners returns the eight box vertices in marching cubes order: the
// bottom face (z=lo) counter clockwise from the minimum corner followed
// by the top face (z=hi) in the same order.
func (b Box) Corners() [8]r3.Vec {
	x0, y0, z0 := b.X.Lo, b.Y.Lo, b.Z.Lo
	x1, y1, z1 := b.X.Hi, b.Y.Hi, b.Z.Hi
	return [8]r3.Vec{
		{X: x0, Y: y0, Z: z0},
		{X: x1, Y: y0, Z: z0},
		{X: x1, Y: y1, Z: z0},
		{X: x0, Y: y1, Z: z0},
		{X: x0, Y: y0, Z: z1},
		{X: x1, Y: y0, Z: z1},
		{X: x1, Y: y1, Z: z1},
		{X: x0, Y: y1, Z: z1},
	}
}

// AppendSplit bisects the axes of b wider than resolution and appends the
// resulting boxes to dst. Axes at or below resolution are left whole, so
// between 1 and 8 boxes are appended. Sub boxes are ordered with x varying
// fastest, then y, then z.
func (b Box) AppendSplit(dst []Box, resolution float64) []Box {
	xs, nx := splitAxis(b.X, resolution)
	ys, ny := splitAxis(b.Y, resolution)
	zs, nz := splitAxis(b.Z, resolution)
	for _, z := range zs[:nz] {
		for _, y := range ys[:ny] {
			for _, x := range xs[:nx] {
				dst = append(dst, Box{X: x, Y: y, Z: z})
			}
		}
	}
	return dst
}

func splitAxis(iv Interval, resolution float64) (halves [2]Interval, n int) {
	if axisBelow(iv, resolution) {
		halves[0] = iv
		return halves, 1
	}
	halves[0], halves[1] = iv.Bisect()
	return halves, 2
}

// Depth returns how many bisections of the widest axis are needed to bring
// the box to or below resolution.
func (b Box) Depth(resolution float64) int {
	w := math.Max(b.X.Width(), math.Max(b.Y.Width(), b.Z.Width()))
	if w <= resolution {
		return 0
	}
	return int(math.Ceil(math.Log2(w / resolution)))
}
