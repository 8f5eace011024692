// Package interval implements conservative interval arithmetic over float64.
//
// An [Interval] encloses every value a function may take over a range of
// inputs. Enclosures are allowed to be wider than the true range but never
// narrower, which lets callers prove that a region cannot contain a root
// without sampling it.
package interval

import (
	"math"
	"strconv"
)

const (
	pi  = math.Pi
	tau = 2 * math.Pi
	// trigPad widens trigonometric enclosures to absorb rounding of the
	// endpoint evaluations.
	trigPad = 1e-12
)

// Interval is the closed real range [Lo, Hi]. Lo <= Hi for every
// interval except the Empty sentinel, for which Lo=+Inf and Hi=-Inf.
//
// Definite is advisory: it is false when the enclosure was widened beyond
// the exact range, for example when part of the argument lay outside of
// a function's domain and was discarded.
type Interval struct {
	Lo, Hi   float64
	Definite bool
}

// New returns the definite interval [lo, hi]. Arguments are swapped if lo > hi.
func New(lo, hi float64) Interval {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{Lo: lo, Hi: hi, Definite: true}
}

// Point returns the degenerate interval [v, v].
func Point(v float64) Interval { return Interval{Lo: v, Hi: v, Definite: true} }

// Empty returns the interval with no real values.
func Empty() Interval { return Interval{Lo: math.Inf(1), Hi: math.Inf(-1), Definite: true} }

// Whole returns (-Inf, +Inf). It carries no pruning information.
func Whole() Interval { return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)} }

// IsEmpty reports whether the interval contains no values.
func (a Interval) IsEmpty() bool { return !(a.Lo <= a.Hi) }

// IsWhole reports whether a is unbounded in both directions.
func (a Interval) IsWhole() bool { return math.IsInf(a.Lo, -1) && math.IsInf(a.Hi, 1) }

// IsBounded reports whether both ends of a non-empty interval are finite.
func (a Interval) IsBounded() bool {
	return !a.IsEmpty() && !math.IsInf(a.Lo, 0) && !math.IsInf(a.Hi, 0)
}

// Width returns Hi-Lo. Empty intervals have zero width.
func (a Interval) Width() float64 {
	if a.IsEmpty() {
		return 0
	}
	return a.Hi - a.Lo
}

// Mid returns the midpoint of a bounded interval.
func (a Interval) Mid() float64 { return a.Lo + 0.5*(a.Hi-a.Lo) }

// Contains reports whether v lies in a.
func (a Interval) Contains(v float64) bool { return a.Lo <= v && v <= a.Hi }

// ContainsZero reports whether 0 lies in a.
func (a Interval) ContainsZero() bool { return a.Lo <= 0 && 0 <= a.Hi }

// Encloses reports whether b is a subset of a. The empty interval is
// enclosed by every interval.
func (a Interval) Encloses(b Interval) bool {
	if b.IsEmpty() {
		return true
	}
	return a.Lo <= b.Lo && b.Hi <= a.Hi
}

// Bisect splits a at its midpoint.
func (a Interval) Bisect() (lo, hi Interval) {
	m := a.Mid()
	return Interval{Lo: a.Lo, Hi: m, Definite: a.Definite}, Interval{Lo: m, Hi: a.Hi, Definite: a.Definite}
}

func (a Interval) String() string {
	if a.IsEmpty() {
		return "∅"
	}
	s := "[" + strconv.FormatFloat(a.Lo, 'g', -1, 64) + ", " + strconv.FormatFloat(a.Hi, 'g', -1, 64) + "]"
	if !a.Definite {
		s += "~"
	}
	return s
}

// bounds builds an interval from possibly NaN bounds. NaN bounds arise from
// inf-inf and are widened to infinity.
func bounds(lo, hi float64, definite bool) Interval {
	if math.IsNaN(lo) {
		lo, definite = math.Inf(-1), false
	}
	if math.IsNaN(hi) {
		hi, definite = math.Inf(1), false
	}
	return Interval{Lo: lo, Hi: hi, Definite: definite}
}

// Add returns a+b.
func (a Interval) Add(b Interval) Interval {
	if a.IsEmpty() || b.IsEmpty() {
		return Empty()
	}
	return bounds(a.Lo+b.Lo, a.Hi+b.Hi, a.Definite && b.Definite)
}

// Sub returns a-b.
func (a Interval) Sub(b Interval) Interval {
	if a.IsEmpty() || b.IsEmpty() {
		return Empty()
	}
	return bounds(a.Lo-b.Hi, a.Hi-b.Lo, a.Definite && b.Definite)
}

// Neg returns -a.
func (a Interval) Neg() Interval {
	if a.IsEmpty() {
		return a
	}
	return Interval{Lo: -a.Hi, Hi: -a.Lo, Definite: a.Definite}
}

// Mul returns the product enclosure of a and b: the minimum and maximum
// of the four corner products, which is exact.
func (a Interval) Mul(b Interval) Interval {
	if a.IsEmpty() || b.IsEmpty() {
		return Empty()
	}
	c0 := mulBound(a.Lo, b.Lo)
	c1 := mulBound(a.Lo, b.Hi)
	c2 := mulBound(a.Hi, b.Lo)
	c3 := mulBound(a.Hi, b.Hi)
	return bounds(
		math.Min(math.Min(c0, c1), math.Min(c2, c3)),
		math.Max(math.Max(c0, c1), math.Max(c2, c3)),
		a.Definite && b.Definite,
	)
}

// mulBound multiplies two interval endpoints with 0*Inf = 0.
func mulBound(x, y float64) float64 {
	if x == 0 || y == 0 {
		return 0
	}
	return x * y
}

// Recip returns 1/a. If 0 lies strictly inside a no single interval can
// bound the result and Whole is returned. If a touches 0 at one endpoint
// the result is unbounded on that side. The degenerate [0,0] has no real
// reciprocal and yields Empty.
func (a Interval) Recip() Interval {
	switch {
	case a.IsEmpty():
		return a
	case a.Lo == 0 && a.Hi == 0:
		return Empty()
	case a.Lo < 0 && a.Hi > 0:
		return Whole()
	case a.Lo == 0:
		return Interval{Lo: 1 / a.Hi, Hi: math.Inf(1), Definite: a.Definite}
	case a.Hi == 0:
		return Interval{Lo: math.Inf(-1), Hi: 1 / a.Lo, Definite: a.Definite}
	}
	return bounds(1/a.Hi, 1/a.Lo, a.Definite)
}

// Div returns a/b. When b straddles zero the result is Whole; see
// [Set.Div] for a sharper enclosure.
func (a Interval) Div(b Interval) Interval {
	inf := math.Inf(1)
	definite := a.Definite && b.Definite
	switch {
	case a.IsEmpty() || b.IsEmpty() || b.Lo == 0 && b.Hi == 0:
		return Empty()
	case b.Lo < 0 && b.Hi > 0:
		return Whole()
	case b.Lo == 0:
		lo, hi := a.Lo/b.Hi, a.Hi/b.Hi
		if a.Lo < 0 {
			lo = -inf
		}
		if a.Hi > 0 {
			hi = inf
		}
		return Interval{Lo: lo, Hi: hi, Definite: definite}
	case b.Hi == 0:
		lo, hi := a.Hi/b.Lo, a.Lo/b.Lo
		if a.Hi > 0 {
			lo = -inf
		}
		if a.Lo < 0 {
			hi = inf
		}
		return Interval{Lo: lo, Hi: hi, Definite: definite}
	}
	// Quotients of corners are exact bounds when b excludes zero.
	c0 := a.Lo / b.Lo
	c1 := a.Lo / b.Hi
	c2 := a.Hi / b.Lo
	c3 := a.Hi / b.Hi
	return bounds(
		math.Min(math.Min(c0, c1), math.Min(c2, c3)),
		math.Max(math.Max(c0, c1), math.Max(c2, c3)),
		definite,
	)
}

// Square returns a*a by self multiplication.
func (a Interval) Square() Interval { return a.Mul(a) }

// Cube returns a*a*a by self multiplication.
func (a Interval) Cube() Interval { return a.Mul(a).Mul(a) }

// Quad returns a*a*a*a by self multiplication.
func (a Interval) Quad() Interval { return a.Mul(a).Mul(a).Mul(a) }

// Cos returns an enclosure of cos over a.
func (a Interval) Cos() Interval {
	return a.trig(math.Cos, 0, pi)
}

// Sin returns an enclosure of sin over a.
func (a Interval) Sin() Interval {
	return a.trig(math.Sin, pi/2, -pi/2)
}

// trig encloses a 2pi periodic function f over a. f reaches its maximum 1
// at maxAt+2k*pi and its minimum -1 at minAt+2k*pi and is monotonic in
// between, so the range is bounded by the endpoint values unless an
// extremum lies inside a.
func (a Interval) trig(f func(float64) float64, maxAt, minAt float64) Interval {
	if a.IsEmpty() {
		return a
	}
	if !a.IsBounded() || a.Hi-a.Lo >= tau {
		return Interval{Lo: -1, Hi: 1, Definite: a.Definite}
	}
	flo, fhi := f(a.Lo), f(a.Hi)
	rlo, rhi := math.Min(flo, fhi), math.Max(flo, fhi)
	// Extremum locations are computed in floating point with an error that
	// grows with the argument, so the search window is padded to match.
	pad := math.Max(trigPad, 8*ulp(math.Max(math.Abs(a.Lo), math.Abs(a.Hi))))
	lo, hi := a.Lo-pad, a.Hi+pad
	if hitsPeriodic(lo, hi, maxAt) {
		rhi = 1
	}
	if hitsPeriodic(lo, hi, minAt) {
		rlo = -1
	}
	return Interval{
		Lo:       math.Max(-1, rlo-trigPad),
		Hi:       math.Min(1, rhi+trigPad),
		Definite: a.Definite,
	}
}

// hitsPeriodic reports whether phase+2k*pi lies in [lo, hi] for some integer
// k. The neighbors of the rounded k are checked too.
func hitsPeriodic(lo, hi, phase float64) bool {
	k := math.Ceil((lo - phase) / tau)
	for _, kk := range [3]float64{k - 1, k, k + 1} {
		if c := phase + kk*tau; c >= lo && c <= hi {
			return true
		}
	}
	return false
}

// ulp returns the spacing of float64 values at the non-negative x.
func ulp(x float64) float64 {
	return math.Nextafter(x, math.Inf(1)) - x
}

// Sqrt returns the enclosure of sqrt over the non-negative part of a.
// It is Empty if a lies entirely below zero.
func (a Interval) Sqrt() Interval {
	switch {
	case a.IsEmpty() || a.Hi < 0:
		return Empty()
	case a.Lo < 0:
		return Interval{Lo: 0, Hi: math.Sqrt(a.Hi), Definite: false}
	}
	return Interval{Lo: math.Sqrt(a.Lo), Hi: math.Sqrt(a.Hi), Definite: a.Definite}
}

// Log returns the enclosure of the natural logarithm over the positive
// part of a. It is Empty if a has no positive values.
func (a Interval) Log() Interval {
	switch {
	case a.IsEmpty() || a.Hi <= 0:
		return Empty()
	case a.Lo <= 0:
		return Interval{Lo: math.Inf(-1), Hi: math.Log(a.Hi), Definite: false}
	}
	return Interval{Lo: math.Log(a.Lo), Hi: math.Log(a.Hi), Definite: a.Definite}
}

// clampUnit clamps a to [-1, 1]. ok is false when a does not intersect [-1, 1].
func (a Interval) clampUnit() (c Interval, ok bool) {
	if a.IsEmpty() || a.Hi < -1 || a.Lo > 1 {
		return Empty(), false
	}
	c = a
	if c.Lo < -1 {
		c.Lo, c.Definite = -1, false
	}
	if c.Hi > 1 {
		c.Hi, c.Definite = 1, false
	}
	return c, true
}

// Asin returns the enclosure of arcsin over a clamped to [-1, 1].
func (a Interval) Asin() Interval {
	c, ok := a.clampUnit()
	if !ok {
		return c
	}
	return Interval{Lo: math.Asin(c.Lo), Hi: math.Asin(c.Hi), Definite: c.Definite}
}

// Acos returns the enclosure of arccos over a clamped to [-1, 1].
func (a Interval) Acos() Interval {
	c, ok := a.clampUnit()
	if !ok {
		return c
	}
	return Interval{Lo: math.Acos(c.Hi), Hi: math.Acos(c.Lo), Definite: c.Definite}
}

// Atan returns the enclosure of arctan over a.
func (a Interval) Atan() Interval {
	if a.IsEmpty() {
		return a
	}
	return Interval{Lo: math.Atan(a.Lo), Hi: math.Atan(a.Hi), Definite: a.Definite}
}

// Hull returns the smallest interval enclosing both a and b.
func (a Interval) Hull(b Interval) Interval {
	if a.IsEmpty() {
		return b
	} else if b.IsEmpty() {
		return a
	}
	return Interval{Lo: math.Min(a.Lo, b.Lo), Hi: math.Max(a.Hi, b.Hi), Definite: a.Definite && b.Definite}
}
