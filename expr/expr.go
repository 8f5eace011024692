// Package expr builds scalar functions of (x,y,z) that can be evaluated at a
// point, over an interval box and over an interval-set box.
//
// Expressions are immutable trees and are safe for concurrent use. For any
// concrete point drawn from the input intervals, EvalInterval and EvalSet
// enclose the value returned by Eval.
package expr

import (
	"math"
	"strconv"

	"github.com/soypat/implicit/interval"
)

// Expr is a scalar function of three variables.
type Expr interface {
	// Eval evaluates the expression at a point.
	Eval(x, y, z float64) float64
	// EvalInterval returns an enclosure of the expression's values over the
	// interval box (x,y,z).
	EvalInterval(x, y, z interval.Interval) interval.Interval
	// EvalSet returns an enclosure of the expression's values as a union of
	// intervals. It is usually sharper than EvalInterval around poles and
	// periodic sub-expressions.
	EvalSet(x, y, z interval.Set) interval.Set
	// String returns source text that [Parse] accepts.
	String() string
}

// Bound returns the interval enclosure of e over box b.
func Bound(e Expr, b interval.Box) interval.Interval {
	return e.EvalInterval(b.X, b.Y, b.Z)
}

// BoundSet returns the interval-set enclosure of e over box b.
func BoundSet(e Expr, b interval.Box) interval.Set {
	return e.EvalSet(interval.SetOf(b.X), interval.SetOf(b.Y), interval.SetOf(b.Z))
}

type axis uint8

const (
	axisX axis = iota
	axisY
	axisZ
)

type coord struct{ axis axis }

var (
	xExpr = coord{axisX}
	yExpr = coord{axisY}
	zExpr = coord{axisZ}
)

// X returns the projection onto the first coordinate.
func X() Expr { return xExpr }

// Y returns the projection onto the second coordinate.
func Y() Expr { return yExpr }

// Z returns the projection onto the third coordinate.
func Z() Expr { return zExpr }

func (c coord) Eval(x, y, z float64) float64 {
	switch c.axis {
	case axisX:
		return x
	case axisY:
		return y
	}
	return z
}

func (c coord) EvalInterval(x, y, z interval.Interval) interval.Interval {
	switch c.axis {
	case axisX:
		return x
	case axisY:
		return y
	}
	return z
}

func (c coord) EvalSet(x, y, z interval.Set) interval.Set {
	switch c.axis {
	case axisX:
		return x
	case axisY:
		return y
	}
	return z
}

func (c coord) String() string { return string("xyz"[c.axis]) }

type constant struct {
	v    float64
	name string
}

// Const returns the constant expression v.
func Const(v float64) Expr { return constant{v: v} }

// Pi is the constant pi.
func Pi() Expr { return constant{v: math.Pi, name: "pi"} }

// E is Euler's number.
func E() Expr { return constant{v: math.E, name: "e"} }

func (c constant) Eval(x, y, z float64) float64 { return c.v }

func (c constant) EvalInterval(x, y, z interval.Interval) interval.Interval {
	return interval.Point(c.v)
}

func (c constant) EvalSet(x, y, z interval.Set) interval.Set {
	return interval.Set{interval.Point(c.v)}
}

func (c constant) String() string {
	if c.name != "" {
		return c.name
	}
	s := strconv.FormatFloat(c.v, 'g', -1, 64)
	if c.v < 0 {
		return "(" + s + ")"
	}
	return s
}
