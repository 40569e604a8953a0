package expr

import (
	"fmt"
	"strconv"
)

type node interface {
	eval(x float64) (float64, error)
	String() string
}

type numberNode struct{ v float64 }

func (n *numberNode) eval(float64) (float64, error) { return n.v, nil }
func (n *numberNode) String() string                { return strconv.FormatFloat(n.v, 'g', -1, 64) }

type constNode struct {
	name string
	v    float64
}

func (n *constNode) eval(float64) (float64, error) { return n.v, nil }
func (n *constNode) String() string                { return Namespace + "." + n.name }

type varNode struct{}

func (varNode) eval(x float64) (float64, error) { return x, nil }
func (varNode) String() string                  { return "x" }

type negNode struct{ operand node }

func (n *negNode) eval(x float64) (float64, error) {
	v, err := n.operand.eval(x)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (n *negNode) String() string { return "(-" + n.operand.String() + ")" }

type binaryNode struct {
	op          tokenKind
	left, right node
}

func (n *binaryNode) eval(x float64) (float64, error) {
	l, err := n.left.eval(x)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(x)
	if err != nil {
		return 0, err
	}

	switch n.op {
	case tokPlus:
		return l + r, nil
	case tokMinus:
		return l - r, nil
	case tokStar:
		return l * r, nil
	case tokSlash:
		if r == 0 {
			return 0, &DomainError{Op: "/", Arg: l, X: x, Reason: "division by zero"}
		}
		return l / r, nil
	case tokPow:
		v, reason := pow(l, r)
		if reason != "" {
			return 0, &DomainError{Op: "**", Arg: l, X: x, Reason: reason}
		}
		return v, nil
	}
	return 0, fmt.Errorf("expr: unknown operator %s", n.op)
}

func (n *binaryNode) String() string {
	op := n.op.String()
	return "(" + n.left.String() + " " + op[1:len(op)-1] + " " + n.right.String() + ")"
}

type callNode struct {
	fn  *builtin
	arg node
}

func (n *callNode) eval(x float64) (float64, error) {
	v, err := n.arg.eval(x)
	if err != nil {
		return 0, err
	}
	r, reason := n.fn.apply(v)
	if reason != "" {
		return 0, &DomainError{Op: n.fn.name, Arg: v, X: x, Reason: reason}
	}
	return r, nil
}

func (n *callNode) String() string {
	return Namespace + "." + n.fn.name + "(" + n.arg.String() + ")"
}
