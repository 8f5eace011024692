package expr

import (
	"math"
	"strings"

	"github.com/soypat/implicit/interval"
	"gonum.org/v1/gonum/spatial/r3"
)

// Surface is a named implicit surface f(x,y,z)=0 with a domain over which
// point evaluation of f stays finite.
type Surface struct {
	Name   string
	Source string
	Domain interval.Box
	// Resolution is the suggested minimum cell edge length.
	Resolution float64
}

// Expr parses the surface's source. Catalog sources always parse.
func (s Surface) Expr() Expr { return MustParse(s.Source) }

var catalog = []Surface{
	{
		Name:       "sphere",
		Source:     "x*x + y*y + z*z - 1",
		Domain:     interval.Cube(-2, 2),
		Resolution: 0.1,
	},
	{
		Name:       "torus",
		Source:     "square(sqrt(x*x + y*y) - 1) + z*z - 0.16",
		Domain:     interval.NewBox(r3.Vec{X: -2, Y: -2, Z: -1}, r3.Vec{X: 2, Y: 2, Z: 1}),
		Resolution: 0.05,
	},
	{
		Name:       "gyroid",
		Source:     "sin(x)*cos(y) + sin(y)*cos(z) + sin(z)*cos(x)",
		Domain:     interval.Cube(-math.Pi, math.Pi),
		Resolution: 0.1,
	},
	{
		Name:       "genus two",
		Source:     "2*y*(y*y - 3*x*x)*(1 - z*z) + square(x*x + y*y) - (9*z*z - 1)*(1 - z*z)",
		Domain:     interval.Cube(-2, 2),
		Resolution: 0.05,
	},
	{
		Name:       "hyperboloid",
		Source:     "x*x + y*y - z*z - 0.25",
		Domain:     interval.Cube(-1.5, 1.5),
		Resolution: 0.1,
	},
	{
		Name:       "heart",
		Source:     "cube(x*x + 2.25*y*y + z*z - 1) - x*x*cube(z) - 0.1125*y*y*cube(z)",
		Domain:     interval.Cube(-1.5, 1.5),
		Resolution: 0.05,
	},
	{
		Name:       "wavy",
		Source:     "z - 0.4*sin(3*x)*cos(3*y)",
		Domain:     interval.NewBox(r3.Vec{X: -2, Y: -2, Z: -1}, r3.Vec{X: 2, Y: 2, Z: 1}),
		Resolution: 0.05,
	},
	{
		Name:       "rational",
		Source:     "(x*x - y*y) / (1 + x*x + y*y) - z",
		Domain:     interval.Cube(-2, 2),
		Resolution: 0.1,
	},
}

// Catalog returns the built-in example surfaces.
func Catalog() []Surface {
	return append([]Surface(nil), catalog...)
}

// Lookup returns the catalog surface with the given name, ignoring case.
func Lookup(name string) (Surface, bool) {
	for _, s := range catalog {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Surface{}, false
}
