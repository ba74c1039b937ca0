package expr

import (
	"fmt"
	"slices"
)

// node is an evaluable expression tree node. x is the value bound to the
// transform's parameter.
type node interface {
	eval(x int) (int, error)
}

type literal struct {
	value int
}

func (n literal) eval(int) (int, error) { return n.value, nil }

type variable struct{}

func (variable) eval(x int) (int, error) { return x, nil }

type unary struct {
	op      tokenKind
	operand node
}

func (n unary) eval(x int) (int, error) {
	v, err := n.operand.eval(x)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case tokMinus:
		return neg(v)
	case tokPlus:
		return v, nil
	case tokNot:
		return truth(v == 0), nil
	}
	return 0, fmt.Errorf("unknown unary operator %s", n.op)
}

type binary struct {
	op          tokenKind
	left, right node
}

func (n binary) eval(x int) (int, error) {
	l, err := n.left.eval(x)
	if err != nil {
		return 0, err
	}

	// && and || short-circuit
	switch n.op {
	case tokAnd:
		if l == 0 {
			return 0, nil
		}
	case tokOr:
		if l != 0 {
			return 1, nil
		}
	}

	r, err := n.right.eval(x)
	if err != nil {
		return 0, err
	}

	switch n.op {
	case tokPlus:
		return add(l, r)
	case tokMinus:
		return sub(l, r)
	case tokStar:
		return mul(l, r)
	case tokSlash:
		return floorDiv(l, r)
	case tokPercent:
		return floorMod(l, r)
	case tokPow:
		return pow(l, r)
	case tokEq:
		return truth(l == r), nil
	case tokNe:
		return truth(l != r), nil
	case tokLt:
		return truth(l < r), nil
	case tokLe:
		return truth(l <= r), nil
	case tokGt:
		return truth(l > r), nil
	case tokGe:
		return truth(l >= r), nil
	case tokAnd, tokOr:
		return truth(r != 0), nil
	}
	return 0, fmt.Errorf("unknown binary operator %s", n.op)
}

type conditional struct {
	cond, then, otherwise node
}

func (n conditional) eval(x int) (int, error) {
	c, err := n.cond.eval(x)
	if err != nil {
		return 0, err
	}
	if c != 0 {
		return n.then.eval(x)
	}
	return n.otherwise.eval(x)
}

type call struct {
	fn   builtin
	args []node
}

func (n call) eval(x int) (int, error) {
	args := make([]int, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval(x)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return n.fn.apply(args)
}

// named applies a registered transform to its argument.
type named struct {
	prog *Program
	arg  node
}

func (n named) eval(x int) (int, error) {
	v, err := n.arg.eval(x)
	if err != nil {
		return 0, err
	}
	return n.prog.Eval(v)
}

type builtin struct {
	name    string
	minArgs int
	maxArgs int // -1 means variadic
	apply   func(args []int) (int, error)
}

var builtins = map[string]builtin{
	"abs": {name: "abs", minArgs: 1, maxArgs: 1, apply: func(a []int) (int, error) {
		return abs(a[0])
	}},
	"sign": {name: "sign", minArgs: 1, maxArgs: 1, apply: func(a []int) (int, error) {
		return sign(a[0]), nil
	}},
	"pow": {name: "pow", minArgs: 2, maxArgs: 2, apply: func(a []int) (int, error) {
		return pow(a[0], a[1])
	}},
	"min": {name: "min", minArgs: 1, maxArgs: -1, apply: func(a []int) (int, error) {
		return slices.Min(a), nil
	}},
	"max": {name: "max", minArgs: 1, maxArgs: -1, apply: func(a []int) (int, error) {
		return slices.Max(a), nil
	}},
}
