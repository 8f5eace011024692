package interval

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDivStraddlingDenominator(t *testing.T) {
	num := SetOf(New(1, 2))
	den := SetOf(New(-1, 1))
	got := num.Div(den)
	require.Len(t, got, 2)
	for _, iv := range got {
		assert.False(t, iv.IsBounded(), "straddling quotient must be unbounded: %v", iv)
	}
	// The value 0 can never be a quotient of [1,2] / [-1,1].
	assert.False(t, got.ContainsZero())

	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 10000; i++ {
		x := 1 + rng.Float64()
		y := rng.Float64()*2 - 1
		if y == 0 {
			continue
		}
		require.True(t, got.Contains(x/y), "%v/%v=%v not in %v", x, y, x/y, got)
	}
}

func TestSetDivBothZero(t *testing.T) {
	got := SetOf(New(-1, 1)).Div(SetOf(New(-2, 3)))
	require.Len(t, got, 1)
	assert.True(t, got[0].IsWhole())
}

func TestSetDivExactZeroDropped(t *testing.T) {
	got := SetOf(New(1, 2)).Div(SetOf(Point(0), New(2, 4)))
	require.Len(t, got, 1)
	assert.Equal(t, 0.25, got[0].Lo)
	assert.Equal(t, 1.0, got[0].Hi)
}

func TestSetProductSoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	randomSet := func() Set {
		n := 1 + rng.Intn(3)
		s := make(Set, n)
		for i := range s {
			s[i] = randomInterval(rng, 5)
		}
		return s
	}
	pick := func(s Set) float64 {
		return sample(rng, s[rng.Intn(len(s))])
	}
	for i := 0; i < 300; i++ {
		a, b := randomSet(), randomSet()
		sum, diff, prod, quo := a.Add(b), a.Sub(b), a.Mul(b), a.Div(b)
		assert.LessOrEqual(t, len(sum), len(a)*len(b))
		for j := 0; j < 30; j++ {
			x, y := pick(a), pick(b)
			require.True(t, sum.Contains(x+y))
			require.True(t, diff.Contains(x-y))
			require.True(t, prod.Contains(x*y))
			if q := x / y; !math.IsInf(q, 0) && !math.IsNaN(q) {
				require.True(t, quo.Contains(q), "%v/%v=%v not in %v (a=%v b=%v)", x, y, q, quo, a, b)
			}
		}
	}
}

func TestSetLiftDropsEmpty(t *testing.T) {
	s := SetOf(New(-4, -1), New(1, 4))
	got := s.Sqrt()
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Lo)
	assert.Equal(t, 2.0, got[0].Hi)
	assert.True(t, SetOf(New(-4, -1)).Log().IsEmpty())
}

func TestSetCompare(t *testing.T) {
	split := SetOf(New(0, 1), New(5, 6))
	mid := SetOf(New(2, 3))
	tests := []struct {
		name string
		got  Truth
		want Truth
	}{
		{"all pairs yes", SetOf(New(0, 1), New(1.5, 1.9)).LessThan(mid), Yes},
		{"all pairs no", SetOf(New(4, 5), New(7, 8)).LessThan(mid), No},
		{"mixed yes and no", split.LessThan(mid), Indeterminate},
		{"mixed yes and no reversed", split.GreaterThan(mid), Indeterminate},
		{"one indeterminate pair", SetOf(New(0, 1), New(2.5, 2.6)).LessThan(mid), Indeterminate},
		{"empty operand", Set{}.LessThan(mid), No},
		{"empty members dropped", SetOf(Empty()).Equal(mid), No},
		{"equal points", SetOf(Point(2)).Equal(SetOf(Point(2))), Yes},
		{"less equal", SetOf(New(0, 2)).LessEqualThan(mid), Yes},
		{"greater equal", mid.GreaterEqualThan(SetOf(New(0, 2))), Yes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestCanon(t *testing.T) {
	s := Set{New(3, 4), New(0, 1), Empty(), New(0.5, 2), New(4, 5)}
	got := s.Canon()
	require.Len(t, got, 2)
	assert.Equal(t, New(0, 2), got[0])
	assert.Equal(t, New(3, 5), got[1])
	// Receiver untouched.
	assert.Equal(t, New(3, 4), s[0])
	assert.Len(t, s, 5)

	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 200; i++ {
		s := Set{randomInterval(rng, 3), randomInterval(rng, 3), randomInterval(rng, 3)}
		c := s.Canon()
		for j := 0; j < 20; j++ {
			v := (rng.Float64()*2 - 1) * 4
			require.Equal(t, s.Contains(v), c.Contains(v))
		}
	}
}

func TestSetString(t *testing.T) {
	assert.Equal(t, "∅", Set{}.String())
	assert.Equal(t, "[0, 1] ∪ [2, 3]", SetOf(New(0, 1), New(2, 3)).String())
	assert.Equal(t, New(0, 3), SetOf(New(0, 1), New(2, 3)).Hull())
}
