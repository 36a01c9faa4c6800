package tir

import (
	"strings"

	"github.com/pkg/errors"
)

// Call is a call expression referencing a registered operator.
//
// A Call is symbolic: nothing is executed at this layer. Consumers read the
// operator's attributes (effect kind, printer name) to decide what they may do
// with the call.
type Call struct {
	op   *Op
	args []Expr
}

// NewCall builds a call expression to op with the given arguments.
//
// The argument count is validated against the operator's AttrNumInputs attribute
// when it carries a fixed arity; variable-arity operators (and operators without
// the attribute) accept any count. Argument types are not validated: the
// documented call signatures are a contract between the emitting front end and
// the lowering pass.
func NewCall(op *Op, args ...Expr) (*Call, error) {
	if op == nil {
		return nil, errors.Errorf("tir.NewCall: nil operator")
	}
	if n, ok := AttrAs[int](op, AttrNumInputs); ok && n != VarArgs && n != len(args) {
		return nil, errors.Errorf("call to %s takes exactly %d argument(s), got %d", op.Name(), n, len(args))
	}
	return &Call{op: op, args: args}, nil
}

// Op returns the identity of the called operator.
func (c *Call) Op() *Op { return c.op }

// Args returns the call arguments. The returned slice is owned by the Call and
// must not be modified.
func (c *Call) Args() []Expr { return c.args }

// String renders the call in source form, using the operator's printer name
// when one is bound, and the fully-qualified name otherwise.
func (c *Call) String() string {
	name, found := AttrAs[string](c.op, AttrPrinterName)
	if !found {
		name = c.op.Name()
	}
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, arg := range c.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (*Call) exprNode() {}
