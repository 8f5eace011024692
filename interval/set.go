package interval

import (
	"math"
	"sort"
	"strings"
)

// Set is a union of intervals. Binary operations combine every interval
// of one operand with every interval of the other and drop empty results.
// A nil or zero length Set is empty.
//
// Sets are not canonicalized by the arithmetic: members may overlap.
// Call [Set.Canon] to merge them.
type Set []Interval

// SetOf returns the set containing the non-empty arguments.
func SetOf(ivs ...Interval) Set {
	s := make(Set, 0, len(ivs))
	for _, iv := range ivs {
		if !iv.IsEmpty() {
			s = append(s, iv)
		}
	}
	return s
}

// IsEmpty reports whether the set contains no values.
func (s Set) IsEmpty() bool {
	for _, iv := range s {
		if !iv.IsEmpty() {
			return false
		}
	}
	return true
}

// ContainsZero reports whether any member interval contains zero.
func (s Set) ContainsZero() bool {
	for _, iv := range s {
		if iv.ContainsZero() {
			return true
		}
	}
	return false
}

// Contains reports whether v lies in any member interval.
func (s Set) Contains(v float64) bool {
	for _, iv := range s {
		if iv.Contains(v) {
			return true
		}
	}
	return false
}

// Hull returns the single interval enclosing every member.
func (s Set) Hull() Interval {
	h := Empty()
	for _, iv := range s {
		h = h.Hull(iv)
	}
	return h
}

func (s Set) String() string {
	if s.IsEmpty() {
		return "∅"
	}
	var sb strings.Builder
	for i, iv := range s {
		if i > 0 {
			sb.WriteString(" ∪ ")
		}
		sb.WriteString(iv.String())
	}
	return sb.String()
}

// Add returns the pairwise sums of s and t.
func (s Set) Add(t Set) Set { return s.product(t, Interval.Add) }

// Sub returns the pairwise differences of s and t.
func (s Set) Sub(t Set) Set { return s.product(t, Interval.Sub) }

// Mul returns the pairwise products of s and t.
func (s Set) Mul(t Set) Set { return s.product(t, Interval.Mul) }

// Div returns the pairwise quotients of s and t. A denominator that
// straddles zero is split at zero so that the quotient becomes up to two
// half-unbounded intervals instead of the whole real line. Only pairs
// where numerator and denominator can both be zero yield Whole.
func (s Set) Div(t Set) Set {
	dst := make(Set, 0, len(s)*len(t))
	for _, a := range s {
		for _, b := range t {
			dst = appendDiv(dst, a, b)
		}
	}
	return dst
}

func appendDiv(dst Set, a, b Interval) Set {
	if a.IsEmpty() || b.IsEmpty() {
		return dst
	}
	if !(b.Lo < 0 && b.Hi > 0) {
		if q := a.Div(b); !q.IsEmpty() {
			dst = append(dst, q)
		}
		return dst
	}
	if a.ContainsZero() {
		return append(dst, Whole())
	}
	neg := Interval{Lo: b.Lo, Hi: 0, Definite: b.Definite}
	pos := Interval{Lo: 0, Hi: b.Hi, Definite: b.Definite}
	return append(dst, a.Div(neg), a.Div(pos))
}

func (s Set) product(t Set, op func(a, b Interval) Interval) Set {
	dst := make(Set, 0, len(s)*len(t))
	for _, a := range s {
		for _, b := range t {
			if r := op(a, b); !r.IsEmpty() {
				dst = append(dst, r)
			}
		}
	}
	return dst
}

// lift applies op to every member of s and drops empty results.
func (s Set) lift(op func(Interval) Interval) Set {
	dst := make(Set, 0, len(s))
	for _, a := range s {
		if r := op(a); !r.IsEmpty() {
			dst = append(dst, r)
		}
	}
	return dst
}

// Neg returns -s.
func (s Set) Neg() Set { return s.lift(Interval.Neg) }

// Square returns s*s by self multiplication.
func (s Set) Square() Set { return s.Mul(s) }

// Cube returns s*s*s by self multiplication.
func (s Set) Cube() Set { return s.Mul(s).Mul(s) }

// Quad returns s*s*s*s by self multiplication.
func (s Set) Quad() Set { return s.Mul(s).Mul(s).Mul(s) }

// Sin returns an enclosure of sin over every member of s.
func (s Set) Sin() Set { return s.lift(Interval.Sin) }

// Cos returns an enclosure of cos over every member of s.
func (s Set) Cos() Set { return s.lift(Interval.Cos) }

// Sqrt returns the enclosure of sqrt over the non-negative part of s.
func (s Set) Sqrt() Set { return s.lift(Interval.Sqrt) }

// Log returns the enclosure of the natural logarithm over the positive
// part of s.
func (s Set) Log() Set { return s.lift(Interval.Log) }

// Asin returns the enclosure of arcsin over s clamped to [-1, 1].
func (s Set) Asin() Set { return s.lift(Interval.Asin) }

// Acos returns the enclosure of arccos over s clamped to [-1, 1].
func (s Set) Acos() Set { return s.lift(Interval.Acos) }

// Atan returns the enclosure of arctan over s.
func (s Set) Atan() Set { return s.lift(Interval.Atan) }

// Canon returns an equivalent set sorted by lower bound with overlapping
// members merged. The receiver is not modified.
func (s Set) Canon() Set {
	dst := SetOf(s...)
	if len(dst) < 2 {
		return dst
	}
	sort.Slice(dst, func(i, j int) bool { return dst[i].Lo < dst[j].Lo })
	n := 0
	for _, iv := range dst[1:] {
		cur := &dst[n]
		if iv.Lo <= cur.Hi {
			cur.Hi = math.Max(cur.Hi, iv.Hi)
			cur.Definite = cur.Definite && iv.Definite
			continue
		}
		n++
		dst[n] = iv
	}
	return dst[:n+1]
}

// compare reduces a pairwise comparison over every pair of members. The
// result is Yes only if every pair says Yes and No only if every pair
// says No. An empty operand compares as No.
func compare(s, t Set, cmp func(a, b Interval) Truth) Truth {
	var yes, no bool
	for _, a := range s {
		for _, b := range t {
			switch cmp(a, b) {
			case Yes:
				yes = true
			case No:
				no = true
			default:
				return Indeterminate
			}
			if yes && no {
				return Indeterminate
			}
		}
	}
	if yes {
		return Yes
	}
	return No
}

// Equal compares s == t over all member pairs.
func (s Set) Equal(t Set) Truth { return compare(s, t, Equal) }

// LessThan compares s < t over all member pairs.
func (s Set) LessThan(t Set) Truth { return compare(s, t, LessThan) }

// LessEqualThan compares s <= t over all member pairs.
func (s Set) LessEqualThan(t Set) Truth { return compare(s, t, LessEqualThan) }

// GreaterThan compares s > t over all member pairs.
func (s Set) GreaterThan(t Set) Truth { return compare(s, t, GreaterThan) }

// GreaterEqualThan compares s >= t over all member pairs.
func (s Set) GreaterEqualThan(t Set) Truth { return compare(s, t, GreaterEqualThan) }
