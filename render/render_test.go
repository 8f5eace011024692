package render_test

import (
	"testing"

	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/implicit/expr"
	"github.com/soypat/implicit/interval"
	"github.com/soypat/implicit/render"
)

func BenchmarkOctreeSphere(b *testing.B) {
	e := expr.MustParse("x*x + y*y + z*z - 1")
	domain := interval.Cube(-1.2, 1.2)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r, err := render.NewOctreeRenderer(e, domain, 2.4/64)
		if err != nil {
			b.Fatal(err)
		}
		model, err := render.RenderAll(r)
		if err != nil {
			b.Fatal(err)
		}
		b.ReportMetric(float64(len(model)), "triangles")
	}
}

// BenchmarkSDFXSphere renders a comparable sphere with sdfx's uniform
// marching cubes, which samples every cell of the grid.
func BenchmarkSDFXSphere(b *testing.B) {
	s, err := sdf.Sphere3D(1)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		model := sdfxrender.ToTriangles(s, sdfxrender.NewMarchingCubesUniform(64))
		b.ReportMetric(float64(len(model)), "triangles")
	}
}

func BenchmarkCountCells(b *testing.B) {
	for _, surf := range expr.Catalog() {
		e := surf.Expr()
		b.Run(surf.Name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, err := render.CountCells(b.Context(), e, surf.Domain, surf.Resolution)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
