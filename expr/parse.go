package expr

import (
	"errors"
	"fmt"
	"math/big"

	"go.starlark.net/syntax"
)

// ErrSyntax is returned by [Parse] for source that is not a valid expression.
var ErrSyntax = errors.New("invalid expression")

// maxPow is the largest exponent accepted by pow(expr, n).
const maxPow = 16

var unaryFuncs = map[string]func(Expr) Expr{
	"square": Square,
	"cube":   Cube,
	"quad":   Quad,
	"sin":    Sin,
	"cos":    Cos,
	"sqrt":   Sqrt,
	"log":    Log,
	"asin":   Asin,
	"acos":   Acos,
	"atan":   Atan,
}

// Parse parses an arithmetic expression over x, y and z such as
//
//	x*x + y*y + z*z - 1
//
// Supported are the identifiers x, y, z, pi and e, numeric literals, the binary
// operators + - * /, unary + and -, parentheses, the single argument functions
// square, cube, quad, sin, cos, sqrt, log, asin, acos, atan and pow(expr, n) for
// an integer literal n in [0, 16].
func Parse(src string) (Expr, error) {
	node, err := syntax.ParseExpr("expr", src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return convert(node)
}

// MustParse is like [Parse] but panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func convert(node syntax.Expr) (Expr, error) {
	switch n := node.(type) {
	case *syntax.ParenExpr:
		return convert(n.X)

	case *syntax.Ident:
		switch n.Name {
		case "x":
			return X(), nil
		case "y":
			return Y(), nil
		case "z":
			return Z(), nil
		case "pi":
			return Pi(), nil
		case "e":
			return E(), nil
		}
		return nil, posErr(n, "unknown identifier %q", n.Name)

	case *syntax.Literal:
		v, ok := literalValue(n)
		if !ok {
			return nil, posErr(n, "unsupported literal %s", n.Raw)
		}
		return Const(v), nil

	case *syntax.UnaryExpr:
		if n.X == nil {
			return nil, posErr(n, "missing operand")
		}
		a, err := convert(n.X)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case syntax.PLUS:
			return a, nil
		case syntax.MINUS:
			return Neg(a), nil
		}
		return nil, posErr(n, "unsupported unary operator %s", n.Op)

	case *syntax.BinaryExpr:
		var op func(a, b Expr) Expr
		switch n.Op {
		case syntax.PLUS:
			op = Add
		case syntax.MINUS:
			op = Sub
		case syntax.STAR:
			op = Mul
		case syntax.SLASH:
			op = Div
		case syntax.CIRCUMFLEX:
			return nil, posErr(n, "unsupported operator ^, use pow(expr, n)")
		default:
			return nil, posErr(n, "unsupported operator %s", n.Op)
		}
		a, err := convert(n.X)
		if err != nil {
			return nil, err
		}
		b, err := convert(n.Y)
		if err != nil {
			return nil, err
		}
		return op(a, b), nil

	case *syntax.CallExpr:
		return convertCall(n)
	}
	return nil, posErr(node, "unsupported syntax %T", node)
}

func convertCall(call *syntax.CallExpr) (Expr, error) {
	fn, ok := call.Fn.(*syntax.Ident)
	if !ok {
		return nil, posErr(call, "call of non-function")
	}
	for _, arg := range call.Args {
		switch a := arg.(type) {
		case *syntax.BinaryExpr:
			if a.Op == syntax.EQ {
				return nil, posErr(a, "keyword arguments not supported")
			}
		case *syntax.UnaryExpr:
			if a.Op == syntax.STAR || a.Op == syntax.STARSTAR {
				return nil, posErr(a, "variadic arguments not supported")
			}
		}
	}
	if fn.Name == "pow" {
		if len(call.Args) != 2 {
			return nil, posErr(call, "pow takes 2 arguments, got %d", len(call.Args))
		}
		base, err := convert(call.Args[0])
		if err != nil {
			return nil, err
		}
		lit, ok := call.Args[1].(*syntax.Literal)
		if !ok || lit.Token != syntax.INT {
			return nil, posErr(call.Args[1], "pow exponent must be an integer literal")
		}
		n, _ := literalValue(lit)
		if n < 0 || n > maxPow {
			return nil, posErr(lit, "pow exponent %s out of range [0, %d]", lit.Raw, maxPow)
		}
		return pow(base, int(n)), nil
	}
	f, ok := unaryFuncs[fn.Name]
	if !ok {
		return nil, posErr(fn, "unknown function %q", fn.Name)
	}
	if len(call.Args) != 1 {
		return nil, posErr(call, "%s takes 1 argument, got %d", fn.Name, len(call.Args))
	}
	a, err := convert(call.Args[0])
	if err != nil {
		return nil, err
	}
	return f(a), nil
}

func literalValue(lit *syntax.Literal) (float64, bool) {
	switch v := lit.Value.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, true
	}
	return 0, false
}

// pow expands a**n into repeated multiplication.
func pow(a Expr, n int) Expr {
	switch n {
	case 0:
		return Const(1)
	case 1:
		return a
	case 2:
		return Square(a)
	case 3:
		return Cube(a)
	case 4:
		return Quad(a)
	}
	p := Quad(a)
	for n -= 4; n >= 4; n -= 4 {
		p = Mul(p, Quad(a))
	}
	if n > 0 {
		p = Mul(p, pow(a, n))
	}
	return p
}

func posErr(node syntax.Node, format string, args ...any) error {
	start, _ := node.Span()
	return fmt.Errorf("%s: %w: %s", start, ErrSyntax, fmt.Sprintf(format, args...))
}
