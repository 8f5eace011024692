package interval

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomInterval(rng *rand.Rand, scale float64) Interval {
	a := (rng.Float64()*2 - 1) * scale
	b := (rng.Float64()*2 - 1) * scale
	return New(a, b)
}

func sample(rng *rand.Rand, iv Interval) float64 {
	switch rng.Intn(8) {
	case 0:
		return iv.Lo
	case 1:
		return iv.Hi
	}
	return iv.Lo + rng.Float64()*(iv.Hi-iv.Lo)
}

func TestMulExact(t *testing.T) {
	values := []float64{-3, -1.5, -0.25, 0, 0.5, 2, 7}
	for _, alo := range values {
		for _, ahi := range values {
			if ahi < alo {
				continue
			}
			for _, blo := range values {
				for _, bhi := range values {
					if bhi < blo {
						continue
					}
					a, b := New(alo, ahi), New(blo, bhi)
					corners := []float64{alo * blo, alo * bhi, ahi * blo, ahi * bhi}
					want := New(corners[0], corners[0])
					for _, c := range corners[1:] {
						want = want.Hull(Point(c))
					}
					got := a.Mul(b)
					assert.Equal(t, want.Lo, got.Lo, "%v*%v", a, b)
					assert.Equal(t, want.Hi, got.Hi, "%v*%v", a, b)
				}
			}
		}
	}
}

func TestArithmeticSoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ops := []struct {
		name  string
		point func(x, y float64) float64
		iv    func(a, b Interval) Interval
	}{
		{"add", func(x, y float64) float64 { return x + y }, Interval.Add},
		{"sub", func(x, y float64) float64 { return x - y }, Interval.Sub},
		{"mul", func(x, y float64) float64 { return x * y }, Interval.Mul},
		{"div", func(x, y float64) float64 { return x / y }, Interval.Div},
	}
	for _, op := range ops {
		for i := 0; i < 500; i++ {
			a, b := randomInterval(rng, 10), randomInterval(rng, 10)
			got := op.iv(a, b)
			for j := 0; j < 50; j++ {
				x, y := sample(rng, a), sample(rng, b)
				v := op.point(x, y)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				require.True(t, got.Contains(v), "%s: %v op %v = %v does not contain %v (x=%v y=%v)", op.name, a, b, got, v, x, y)
			}
		}
	}
}

func TestUnarySoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	ops := []struct {
		name  string
		point func(float64) float64
		iv    func(Interval) Interval
		scale float64
	}{
		{"neg", func(x float64) float64 { return -x }, Interval.Neg, 10},
		{"square", func(x float64) float64 { return x * x }, Interval.Square, 10},
		{"cube", func(x float64) float64 { return x * x * x }, Interval.Cube, 10},
		{"quad", func(x float64) float64 { return x * x * x * x }, Interval.Quad, 10},
		{"sqrt", math.Sqrt, Interval.Sqrt, 10},
		{"log", math.Log, Interval.Log, 10},
		{"asin", math.Asin, Interval.Asin, 1.5},
		{"acos", math.Acos, Interval.Acos, 1.5},
		{"atan", math.Atan, Interval.Atan, 100},
		{"sin", math.Sin, Interval.Sin, 20},
		{"cos", math.Cos, Interval.Cos, 20},
	}
	for _, op := range ops {
		for i := 0; i < 500; i++ {
			a := randomInterval(rng, op.scale)
			got := op.iv(a)
			for j := 0; j < 50; j++ {
				x := sample(rng, a)
				v := op.point(x)
				if math.IsNaN(v) {
					continue // Outside of the function's domain.
				}
				require.True(t, got.Contains(v), "%s(%v) = %v does not contain %v at %v", op.name, a, got, v, x)
			}
		}
	}
}

func TestTrigRangeContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	intervals := []Interval{
		New(0, 0.1),
		New(-math.Pi, 0),
		New(3, 3.3),                   // straddles pi
		New(6.2, 6.4),                 // straddles 2pi
		New(9.3, 9.6),                 // straddles 3pi
		New(-100.5, -99.7),            // far from the origin
		New(1e3, 1e3+1),               //
		New(1e6, 1e6+2),               // large arguments
		New(-1e9-0.5, -1e9+1),         //
		New(1e12, 1e12+3),             //
		New(0, 2*math.Pi-1e-9),        // almost a full period
		New(math.Pi/2, 3*math.Pi/2+1), // straddles pi after the sin shift
	}
	for i := 0; i < 20; i++ {
		intervals = append(intervals, randomInterval(rng, 50))
	}
	for _, iv := range intervals {
		c, s := iv.Cos(), iv.Sin()
		for j := 0; j < 1000; j++ {
			x := iv.Lo + rng.Float64()*(iv.Hi-iv.Lo)
			require.True(t, c.Contains(math.Cos(x)), "cos(%v)=%v not in %v", x, math.Cos(x), c)
			require.True(t, s.Contains(math.Sin(x)), "sin(%v)=%v not in %v", x, math.Sin(x), s)
		}
	}
}

func TestTrigLargeArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, mag := range []float64{1e3, 1e6, 1e9, 1e12, 1e15} {
		for i := 0; i < 300; i++ {
			lo := (rng.Float64()*2 - 1) * mag
			iv := New(lo, lo+rng.Float64()*3)
			c, s := iv.Cos(), iv.Sin()
			for j := 0; j <= 200; j++ {
				x := iv.Lo + float64(j)/200*(iv.Hi-iv.Lo)
				require.True(t, c.Contains(math.Cos(x)), "cos(%v)=%v not in %v", x, math.Cos(x), c)
				require.True(t, s.Contains(math.Sin(x)), "sin(%v)=%v not in %v", x, math.Sin(x), s)
			}
		}
	}
	// Sin endpoints are evaluated directly, not through a shifted cos.
	x := 1.4048832428701385e+06
	s := New(x, x+1e-3).Sin()
	assert.True(t, s.Contains(math.Sin(x)))
	assert.InDelta(t, math.Sin(x), s.Lo, 1e-11)
}

func TestCosTightness(t *testing.T) {
	got := New(0.1, 0.2).Cos()
	assert.InDelta(t, math.Cos(0.2), got.Lo, 1e-9)
	assert.InDelta(t, math.Cos(0.1), got.Hi, 1e-9)

	got = New(3, 3.3).Cos()
	assert.Equal(t, -1.0, got.Lo)

	got = New(-1, 7).Cos()
	assert.Equal(t, New(-1, 1).Lo, got.Lo)
	assert.Equal(t, New(-1, 1).Hi, got.Hi)

	got = New(0, math.Inf(1)).Cos()
	assert.Equal(t, -1.0, got.Lo)
	assert.Equal(t, 1.0, got.Hi)
}

func TestRecip(t *testing.T) {
	tests := []struct {
		name string
		in   Interval
		want Interval
	}{
		{"positive", New(2, 4), New(0.25, 0.5)},
		{"negative", New(-4, -2), New(-0.5, -0.25)},
		{"zero at lo", New(0, 2), Interval{Lo: 0.5, Hi: math.Inf(1)}},
		{"zero at hi", New(-2, 0), Interval{Lo: math.Inf(-1), Hi: -0.5}},
		{"straddle", New(-1, 1), Whole()},
		{"zero", Point(0), Empty()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Recip()
			if tt.want.IsEmpty() {
				assert.True(t, got.IsEmpty())
				return
			}
			assert.Equal(t, tt.want.Lo, got.Lo)
			assert.Equal(t, tt.want.Hi, got.Hi)
		})
	}
}

func TestDomainRestrictedFunctions(t *testing.T) {
	assert.True(t, New(-2, -1).Sqrt().IsEmpty())
	assert.True(t, New(-2, 0).Log().IsEmpty())
	assert.True(t, New(2, 3).Asin().IsEmpty())
	assert.True(t, New(-3, -2).Acos().IsEmpty())

	partial := New(-1, 4).Sqrt()
	assert.Equal(t, 0.0, partial.Lo)
	assert.Equal(t, 2.0, partial.Hi)
	assert.False(t, partial.Definite)

	partial = New(-1, math.E).Log()
	assert.True(t, math.IsInf(partial.Lo, -1))
	assert.InDelta(t, 1, partial.Hi, 1e-15)
	assert.False(t, partial.Definite)

	clamped := New(-2, 0.5).Asin()
	assert.Equal(t, -math.Pi/2, clamped.Lo)
	assert.False(t, clamped.Definite)

	exact := New(-0.5, 0.5).Acos()
	assert.True(t, exact.Definite)
	assert.Equal(t, math.Acos(0.5), exact.Lo)
}

func TestEmptyPropagation(t *testing.T) {
	e := Empty()
	a := New(1, 2)
	for name, got := range map[string]Interval{
		"add":  a.Add(e),
		"sub":  e.Sub(a),
		"mul":  a.Mul(e),
		"div":  e.Div(a),
		"cos":  e.Cos(),
		"sin":  e.Sin(),
		"sqrt": e.Sqrt(),
		"atan": e.Atan(),
	} {
		assert.True(t, got.IsEmpty(), name)
	}
	assert.Equal(t, "∅", e.String())
}

func TestComparisons(t *testing.T) {
	a, b := New(0, 1), New(2, 3)
	overlap := New(0.5, 2.5)
	assert.Equal(t, Yes, LessThan(a, b))
	assert.Equal(t, No, LessThan(b, a))
	assert.Equal(t, Indeterminate, LessThan(a, overlap))
	assert.Equal(t, Yes, GreaterThan(b, a))
	assert.Equal(t, Yes, LessEqualThan(New(0, 2), b))
	assert.Equal(t, No, LessThan(New(0, 2), New(-1, 0)))
	assert.Equal(t, Yes, GreaterEqualThan(b, New(1, 2)))
	assert.Equal(t, Yes, Equal(Point(2), Point(2)))
	assert.Equal(t, No, Equal(a, b))
	assert.Equal(t, Indeterminate, Equal(a, overlap))
	for _, cmp := range []func(a, b Interval) Truth{Equal, LessThan, LessEqualThan, GreaterThan, GreaterEqualThan} {
		assert.Equal(t, No, cmp(Empty(), a))
		assert.Equal(t, No, cmp(a, Empty()))
	}
}
