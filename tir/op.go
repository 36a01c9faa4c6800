// Package tir holds the compile-time pieces of the tile intermediate representation
// shared by the rest of the compiler: operator identities, their registered
// attributes, and the call expressions that reference them.
//
// Operators are interned process-wide by name: the first Register call for a name
// creates its identity, and every later call returns the same *Op, so identities
// compare by pointer. Attributes attached during registration are frozen: re-binding
// the same value is a no-op, but binding a different value for an already bound
// (operator, key) pair means two inconsistent definitions of the same operator were
// compiled into the process, and panics with a stack trace.
// See package github.com/gomlx/exceptions.
package tir

import (
	"sync"

	"github.com/gomlx/exceptions"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"k8s.io/klog/v2"
)

// AttrKey identifies one kind of operator attribute.
type AttrKey string

// Attribute kinds bound by this module. Other compiler components may define
// their own kinds; the registry stores any comparable value.
const (
	// AttrPrinterName is the bare operator name used when rendering the IR back
	// to readable source form.
	AttrPrinterName AttrKey = "TScriptPrinterName"

	// AttrCallEffectKind is the CallEffectKind classifying how the optimizer may
	// treat calls to the operator.
	AttrCallEffectKind AttrKey = "TCallEffectKind"

	// AttrNumInputs is the number of arguments a call to the operator must carry,
	// or VarArgs when any count is accepted.
	AttrNumInputs AttrKey = "TNumInputs"
)

// VarArgs is the AttrNumInputs value for operators that accept any number of
// arguments.
const VarArgs = -1

// Op is the unique identity of one named operator.
//
// Never construct an Op directly: use Register (or an intrinsic catalog accessor,
// see package tir/comm) to obtain one, and Lookup for pure reads.
type Op struct {
	name string

	muAttrs sync.Mutex
	attrs   map[AttrKey]any
}

var (
	muRegistry sync.RWMutex
	registry   = make(map[string]*Op)
)

// Register returns the unique identity for name, creating it on first call.
// It is idempotent and safe to call from multiple goroutines.
func Register(name string) *Op {
	muRegistry.RLock()
	op, found := registry[name]
	muRegistry.RUnlock()
	if found {
		return op
	}

	muRegistry.Lock()
	defer muRegistry.Unlock()
	if op, found = registry[name]; found {
		return op
	}
	op = &Op{name: name, attrs: make(map[AttrKey]any)}
	registry[name] = op
	klog.V(2).Infof("tir: interned operator %q", name)
	return op
}

// RegisterOp interns name and binds its printer name, arity and effect kind in one
// step. It is the data-driven registration path used by intrinsic catalogs, and is
// as idempotent as the individual SetAttr calls: repeating it with the same
// metadata is a no-op, repeating it with different metadata panics.
func RegisterOp(name, printerName string, numInputs int, effect CallEffectKind) *Op {
	return Register(name).
		SetAttr(AttrPrinterName, printerName).
		SetAttr(AttrNumInputs, numInputs).
		SetAttr(AttrCallEffectKind, effect)
}

// Lookup returns the identity registered for name, if any. It never creates.
func Lookup(name string) (*Op, bool) {
	muRegistry.RLock()
	defer muRegistry.RUnlock()
	op, found := registry[name]
	return op, found
}

// Registered returns the sorted names of all registered operators.
// It is a snapshot for diagnostics; registration may continue concurrently.
func Registered() []string {
	muRegistry.RLock()
	names := maps.Keys(registry)
	muRegistry.RUnlock()
	slices.Sort(names)
	return names
}

// Name returns the fully-qualified operator name, e.g. "tl.comm_put".
func (op *Op) Name() string { return op.name }

// String implements fmt.Stringer.
func (op *Op) String() string { return op.name }

// SetAttr binds value to key on the operator and returns the operator, so
// registration sites can chain bindings. Values must be comparable.
//
// Re-binding a value equal to the current one is a no-op, which lets independent
// registration call sites contribute attributes to the same identity. Binding a
// different value for an already bound key is a fatal configuration error: it
// panics with a stack trace rather than silently picking one definition.
func (op *Op) SetAttr(key AttrKey, value any) *Op {
	op.muAttrs.Lock()
	defer op.muAttrs.Unlock()
	if prev, found := op.attrs[key]; found {
		if prev != value {
			exceptions.Panicf("tir: conflicting registration of operator %q: attribute %s already bound to %v, refusing to re-bind to %v",
				op.name, key, prev, value)
		}
		return op
	}
	op.attrs[key] = value
	return op
}

// Attr returns the value bound to key and whether it is bound at all, so callers
// can tell "not annotated" apart from "annotated with a zero value".
func (op *Op) Attr(key AttrKey) (value any, found bool) {
	op.muAttrs.Lock()
	defer op.muAttrs.Unlock()
	value, found = op.attrs[key]
	return
}

// AttrAs returns the value bound to key on op as type T.
// Found is false when the key is absent or bound to a different type.
func AttrAs[T any](op *Op, key AttrKey) (value T, found bool) {
	v, ok := op.Attr(key)
	if !ok {
		return value, false
	}
	value, found = v.(T)
	return
}
