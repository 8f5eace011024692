package expr

import (
	"math"

	"github.com/soypat/implicit/interval"
)

type binaryOp uint8

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
)

type binary struct {
	op   binaryOp
	a, b Expr
}

func newBinary(op binaryOp, a, b Expr) Expr {
	if a == nil || b == nil {
		panic("nil argument to binary expression")
	}
	return binary{op: op, a: a, b: b}
}

// Add returns a+b.
func Add(a, b Expr) Expr { return newBinary(opAdd, a, b) }

// Sub returns a-b.
func Sub(a, b Expr) Expr { return newBinary(opSub, a, b) }

// Mul returns a*b.
func Mul(a, b Expr) Expr { return newBinary(opMul, a, b) }

// Div returns a/b.
func Div(a, b Expr) Expr { return newBinary(opDiv, a, b) }

// Sum returns the left to right sum of terms. It panics if terms is empty.
func Sum(terms ...Expr) Expr {
	if len(terms) == 0 {
		panic("need at least 1 argument to Sum")
	}
	s := terms[0]
	for _, t := range terms[1:] {
		s = Add(s, t)
	}
	return s
}

func (e binary) Eval(x, y, z float64) float64 {
	a, b := e.a.Eval(x, y, z), e.b.Eval(x, y, z)
	switch e.op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	}
	return a / b
}

func (e binary) EvalInterval(x, y, z interval.Interval) interval.Interval {
	a, b := e.a.EvalInterval(x, y, z), e.b.EvalInterval(x, y, z)
	switch e.op {
	case opAdd:
		return a.Add(b)
	case opSub:
		return a.Sub(b)
	case opMul:
		return a.Mul(b)
	}
	return a.Div(b)
}

func (e binary) EvalSet(x, y, z interval.Set) interval.Set {
	a, b := e.a.EvalSet(x, y, z), e.b.EvalSet(x, y, z)
	switch e.op {
	case opAdd:
		return a.Add(b)
	case opSub:
		return a.Sub(b)
	case opMul:
		return a.Mul(b)
	}
	return a.Div(b)
}

func (e binary) String() string {
	return "(" + e.a.String() + " " + string("+-*/"[e.op]) + " " + e.b.String() + ")"
}

type unaryOp uint8

const (
	opNeg unaryOp = iota
	opSquare
	opCube
	opQuad
	opSin
	opCos
	opSqrt
	opLog
	opAsin
	opAcos
	opAtan
)

var unaryNames = [...]string{
	opNeg:    "-",
	opSquare: "square",
	opCube:   "cube",
	opQuad:   "quad",
	opSin:    "sin",
	opCos:    "cos",
	opSqrt:   "sqrt",
	opLog:    "log",
	opAsin:   "asin",
	opAcos:   "acos",
	opAtan:   "atan",
}

type unary struct {
	op unaryOp
	a  Expr
}

func newUnary(op unaryOp, a Expr) Expr {
	if a == nil {
		panic("nil argument to " + unaryNames[op])
	}
	return unary{op: op, a: a}
}

// Neg returns -a.
func Neg(a Expr) Expr { return newUnary(opNeg, a) }

// Square returns a*a. Bounds are those of repeated multiplication.
func Square(a Expr) Expr { return newUnary(opSquare, a) }

// Cube returns a*a*a. Bounds are those of repeated multiplication.
func Cube(a Expr) Expr { return newUnary(opCube, a) }

// Quad returns a*a*a*a. Bounds are those of repeated multiplication.
func Quad(a Expr) Expr { return newUnary(opQuad, a) }

// Sin returns sin(a).
func Sin(a Expr) Expr { return newUnary(opSin, a) }

// Cos returns cos(a).
func Cos(a Expr) Expr { return newUnary(opCos, a) }

// Sqrt returns sqrt(a). Point evaluation of negative arguments yields NaN.
func Sqrt(a Expr) Expr { return newUnary(opSqrt, a) }

// Log returns the natural logarithm of a.
func Log(a Expr) Expr { return newUnary(opLog, a) }

// Asin returns arcsin(a).
func Asin(a Expr) Expr { return newUnary(opAsin, a) }

// Acos returns arccos(a).
func Acos(a Expr) Expr { return newUnary(opAcos, a) }

// Atan returns arctan(a).
func Atan(a Expr) Expr { return newUnary(opAtan, a) }

func (e unary) Eval(x, y, z float64) float64 {
	a := e.a.Eval(x, y, z)
	switch e.op {
	case opNeg:
		return -a
	case opSquare:
		return a * a
	case opCube:
		return a * a * a
	case opQuad:
		return a * a * a * a
	case opSin:
		return math.Sin(a)
	case opCos:
		return math.Cos(a)
	case opSqrt:
		return math.Sqrt(a)
	case opLog:
		return math.Log(a)
	case opAsin:
		return math.Asin(a)
	case opAcos:
		return math.Acos(a)
	}
	return math.Atan(a)
}

func (e unary) EvalInterval(x, y, z interval.Interval) interval.Interval {
	a := e.a.EvalInterval(x, y, z)
	switch e.op {
	case opNeg:
		return a.Neg()
	case opSquare:
		return a.Square()
	case opCube:
		return a.Cube()
	case opQuad:
		return a.Quad()
	case opSin:
		return a.Sin()
	case opCos:
		return a.Cos()
	case opSqrt:
		return a.Sqrt()
	case opLog:
		return a.Log()
	case opAsin:
		return a.Asin()
	case opAcos:
		return a.Acos()
	}
	return a.Atan()
}

func (e unary) EvalSet(x, y, z interval.Set) interval.Set {
	a := e.a.EvalSet(x, y, z)
	switch e.op {
	case opNeg:
		return a.Neg()
	case opSquare:
		return a.Square()
	case opCube:
		return a.Cube()
	case opQuad:
		return a.Quad()
	case opSin:
		return a.Sin()
	case opCos:
		return a.Cos()
	case opSqrt:
		return a.Sqrt()
	case opLog:
		return a.Log()
	case opAsin:
		return a.Asin()
	case opAcos:
		return a.Acos()
	}
	return a.Atan()
}

func (e unary) String() string {
	if e.op == opNeg {
		return "(-" + e.a.String() + ")"
	}
	return unaryNames[e.op] + "(" + e.a.String() + ")"
}

// Canonical returns an expression equivalent to e whose interval set
// evaluation merges overlapping members after every operation. This bounds
// the growth of sets through deep trees at the cost of a sort per node.
func Canonical(e Expr) Expr {
	switch n := e.(type) {
	case canonical:
		return n
	case binary:
		return canonical{binary{op: n.op, a: Canonical(n.a), b: Canonical(n.b)}}
	case unary:
		return canonical{unary{op: n.op, a: Canonical(n.a)}}
	}
	return e
}

type canonical struct{ Expr }

func (c canonical) EvalSet(x, y, z interval.Set) interval.Set {
	return c.Expr.EvalSet(x, y, z).Canon()
}
