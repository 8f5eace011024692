package render

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

var unitCorners = [8]r3.Vec{
	{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
}

func TestMarchingCubes(t *testing.T) {
	max := 0
	for _, tri := range mcTriangleTable {
		if len(tri) > max {
			max = len(tri)
		}
	}
	got := max / 3
	if got != marchingCubesMaxTriangles {
		t.Errorf("mismatch marching cubes max triangles. got %d. want %d", got, marchingCubesMaxTriangles)
	}
}

func TestMarchingCubesTables(t *testing.T) {
	for index := 0; index < 256; index++ {
		var crossed uint16
		for i, e := range mcEdges {
			inA := index&(1<<e[0]) != 0
			inB := index&(1<<e[1]) != 0
			if inA != inB {
				crossed |= 1 << i
			}
		}
		if crossed != mcEdgeTable[index] {
			t.Errorf("edge table entry %d: got %#03x, want %#03x", index, mcEdgeTable[index], crossed)
		}
		tri := mcTriangleTable[index]
		if len(tri)%3 != 0 {
			t.Errorf("triangle table entry %d not a multiple of 3: %v", index, tri)
		}
		var used uint16
		for _, e := range tri {
			used |= 1 << e
		}
		if used != crossed {
			t.Errorf("triangle table entry %d uses edges %#03x, crossed edges are %#03x", index, used, crossed)
		}
	}
}

func TestConfigurationOne(t *testing.T) {
	v := [8]float64{-1, 1, 1, 1, 1, 1, 1, 1}
	if code := mcConfig(v, 0); code != 1 {
		t.Fatalf("got configuration code %d, want 1", code)
	}
	var dst [marchingCubesMaxTriangles]Triangle
	n := mcToTriangles(dst[:], unitCorners, v, 0)
	if n != 1 {
		t.Fatalf("got %d triangles, want 1", n)
	}
	// One vertex on each of the edges leaving corner 0: along x, y and z.
	want := map[r3.Vec]bool{
		{X: 0.5}: true,
		{Y: 0.5}: true,
		{Z: 0.5}: true,
	}
	for _, p := range dst[0].V {
		if !want[p] {
			t.Errorf("unexpected triangle vertex %v", p)
		}
		delete(want, p)
	}
	if len(want) != 0 {
		t.Errorf("missing triangle vertices %v", want)
	}
	// Normal points away from the inside corner.
	if r3.Dot(dst[0].N, r3.Vec{X: 1, Y: 1, Z: 1}) <= 0 {
		t.Errorf("normal %v points towards inside corner", dst[0].N)
	}
	if math.Abs(r3.Norm(dst[0].N)-1) > 1e-12 {
		t.Errorf("normal %v not unit length", dst[0].N)
	}
}

func TestConfigurationComplement(t *testing.T) {
	// Flipping every sign gives the same surface with opposite orientation.
	v := [8]float64{-1, -2, 3, 1, 0.5, -1, 2, 1}
	var neg [8]float64
	for i := range v {
		neg[i] = -v[i]
	}
	var a, b [marchingCubesMaxTriangles]Triangle
	na := mcToTriangles(a[:], unitCorners, v, 0)
	nb := mcToTriangles(b[:], unitCorners, neg, 0)
	if na != nb || na == 0 {
		t.Fatalf("complement triangle count mismatch %d != %d", na, nb)
	}
	var sumA, sumB r3.Vec
	for i := 0; i < na; i++ {
		sumA = r3.Add(sumA, a[i].N)
		sumB = r3.Add(sumB, b[i].N)
	}
	if r3.Dot(sumA, sumB) >= 0 {
		t.Errorf("complement configurations should have opposite orientation: %v, %v", sumA, sumB)
	}
}

func TestEmptyConfigurations(t *testing.T) {
	var dst [marchingCubesMaxTriangles]Triangle
	inside := [8]float64{-1, -1, -1, -1, -1, -1, -1, -1}
	outside := [8]float64{1, 1, 1, 1, 1, 1, 1, 1}
	if n := mcToTriangles(dst[:], unitCorners, inside, 0); n != 0 {
		t.Errorf("all inside: got %d triangles", n)
	}
	if n := mcToTriangles(dst[:], unitCorners, outside, 0); n != 0 {
		t.Errorf("all outside: got %d triangles", n)
	}
}

func TestInterpolate(t *testing.T) {
	p1, p2 := r3.Vec{}, r3.Vec{X: 1}
	for _, test := range []struct {
		v1, v2 float64
		want   float64
	}{
		{-1, 3, 0.25},
		{3, -1, 0.75},
		{-1, 1, 0.5},
		{0, 1, 0},
		{-1, 0, 1},
	} {
		got := mcInterpolate(p1, p2, test.v1, test.v2, 0)
		if math.Abs(got.X-test.want) > 1e-15 {
			t.Errorf("interpolate(%v, %v): got %v, want %v", test.v1, test.v2, got.X, test.want)
		}
	}
}

func TestDegenerateNormal(t *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	tri := NewTriangle(p, p, r3.Vec{X: 2})
	if tri.N != fallbackNormal {
		t.Errorf("degenerate triangle normal: got %v, want %v", tri.N, fallbackNormal)
	}
	if !tri.Degenerate(0) {
		t.Error("triangle with repeated vertex should be degenerate")
	}
	nan := r3.Vec{X: math.NaN()}
	if tri := NewTriangle(nan, r3.Vec{}, r3.Vec{Y: 1}); tri.N != fallbackNormal {
		t.Errorf("NaN triangle normal: got %v", tri.N)
	}
}
