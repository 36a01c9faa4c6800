package tir

import "strconv"

// Expr is one expression of the tile IR. The surrounding compiler owns the full
// node structures; this package defines only the minimal forms that appear as
// intrinsic call arguments.
type Expr interface {
	// String renders the expression in source form.
	String() string

	exprNode()
}

// IntImm is an integer immediate, e.g. a core id or a transfer size.
type IntImm int64

// StringImm is a string immediate, e.g. a reduce-operator tag like "sum".
type StringImm string

// Handle is an opaque named reference to a host-owned value, typically a buffer
// region. Its layout is owned by the host IR; here it is only carried through
// call expressions and rendered by name.
type Handle string

func (i IntImm) String() string    { return strconv.FormatInt(int64(i), 10) }
func (s StringImm) String() string { return strconv.Quote(string(s)) }
func (h Handle) String() string    { return string(h) }

func (IntImm) exprNode()    {}
func (StringImm) exprNode() {}
func (Handle) exprNode()    {}
