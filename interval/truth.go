package interval

// Truth is the three-valued result of comparing enclosures.
type Truth uint8

const (
	// No means the comparison is false for every pair of values.
	No Truth = iota
	// Yes means the comparison holds for every pair of values.
	Yes
	// Indeterminate means the comparison holds for some values and not others.
	Indeterminate
)

func (t Truth) String() string {
	switch t {
	case No:
		return "no"
	case Yes:
		return "yes"
	case Indeterminate:
		return "indeterminate"
	}
	return "Truth(invalid)"
}

// Equal reports whether every value of a equals every value of b.
func Equal(a, b Interval) Truth {
	switch {
	case a.IsEmpty() || b.IsEmpty():
		return No
	case a.Lo == a.Hi && b.Lo == b.Hi && a.Lo == b.Lo:
		return Yes
	case a.Hi < b.Lo || b.Hi < a.Lo:
		return No
	}
	return Indeterminate
}

// LessThan compares a < b.
func LessThan(a, b Interval) Truth {
	switch {
	case a.IsEmpty() || b.IsEmpty():
		return No
	case a.Hi < b.Lo:
		return Yes
	case a.Lo >= b.Hi:
		return No
	}
	return Indeterminate
}

// LessEqualThan compares a <= b.
func LessEqualThan(a, b Interval) Truth {
	switch {
	case a.IsEmpty() || b.IsEmpty():
		return No
	case a.Hi <= b.Lo:
		return Yes
	case a.Lo > b.Hi:
		return No
	}
	return Indeterminate
}

// GreaterThan compares a > b.
func GreaterThan(a, b Interval) Truth { return LessThan(b, a) }

// GreaterEqualThan compares a >= b.
func GreaterEqualThan(a, b Interval) Truth { return LessEqualThan(b, a) }
