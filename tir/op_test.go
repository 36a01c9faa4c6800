package tir_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"github.com/SUNMMIO/Tilelang-Mesh/tir"
)

func TestRegisterIdempotent(t *testing.T) {
	a := tir.Register("tl.test_idempotent")
	b := tir.Register("tl.test_idempotent")
	assert.Same(t, a, b, "repeated registration of the same name must return the same identity")
}

func TestRegisterDistinctNames(t *testing.T) {
	a := tir.Register("tl.test_distinct_a")
	b := tir.Register("tl.test_distinct_b")
	assert.NotSame(t, a, b)
	assert.Equal(t, "tl.test_distinct_a", a.Name())
	assert.Equal(t, "tl.test_distinct_b", b.Name())
}

func TestLookupDoesNotCreate(t *testing.T) {
	_, found := tir.Lookup("tl.test_never_registered")
	assert.False(t, found)
	assert.NotContains(t, tir.Registered(), "tl.test_never_registered")

	op := tir.Register("tl.test_lookup")
	got, found := tir.Lookup("tl.test_lookup")
	require.True(t, found)
	assert.Same(t, op, got)
}

func TestRegisteredSorted(t *testing.T) {
	tir.Register("tl.test_sorted_b")
	tir.Register("tl.test_sorted_a")
	names := tir.Registered()
	assert.True(t, slices.IsSorted(names))
	assert.Contains(t, names, "tl.test_sorted_a")
	assert.Contains(t, names, "tl.test_sorted_b")
}

func TestSetAttr(t *testing.T) {
	op := tir.Register("tl.test_attrs")
	op.SetAttr(tir.AttrPrinterName, "test_attrs")

	// Re-binding the identical value is a no-op.
	assert.NotPanics(t, func() { op.SetAttr(tir.AttrPrinterName, "test_attrs") })

	// Binding a different value for a bound key is a fatal configuration error.
	assert.Panics(t, func() { op.SetAttr(tir.AttrPrinterName, "other_name") })

	// Independent call sites may contribute different attribute kinds.
	assert.NotPanics(t, func() { op.SetAttr(tir.AttrNumInputs, 2) })

	name, found := tir.AttrAs[string](op, tir.AttrPrinterName)
	require.True(t, found)
	assert.Equal(t, "test_attrs", name)
}

func TestAttrAbsent(t *testing.T) {
	op := tir.Register("tl.test_absent")
	_, found := op.Attr(tir.AttrCallEffectKind)
	assert.False(t, found, "an attribute kind never bound must report absent, not a zero value")

	_, found = tir.AttrAs[int](op, tir.AttrCallEffectKind)
	assert.False(t, found)
}

func TestAttrAsWrongType(t *testing.T) {
	op := tir.Register("tl.test_wrong_type")
	op.SetAttr(tir.AttrNumInputs, 3)
	_, found := tir.AttrAs[string](op, tir.AttrNumInputs)
	assert.False(t, found)
	n, found := tir.AttrAs[int](op, tir.AttrNumInputs)
	require.True(t, found)
	assert.Equal(t, 3, n)
}

func TestRegisterOp(t *testing.T) {
	op := tir.RegisterOp("tl.test_register_op", "test_register_op", tir.VarArgs, tir.EffectOpaque)

	// Repeating the full registration with identical metadata is a no-op.
	again := tir.RegisterOp("tl.test_register_op", "test_register_op", tir.VarArgs, tir.EffectOpaque)
	assert.Same(t, op, again)

	// Repeating it with a different effect kind is a conflicting registration.
	assert.Panics(t, func() {
		tir.RegisterOp("tl.test_register_op", "test_register_op", tir.VarArgs, tir.EffectPure)
	})

	effect, found := tir.AttrAs[tir.CallEffectKind](op, tir.AttrCallEffectKind)
	require.True(t, found)
	assert.Equal(t, tir.EffectOpaque, effect)
}

func TestConcurrentRegister(t *testing.T) {
	const numGoroutines = 64
	results := make([]*tir.Op, numGoroutines)
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = tir.Register("tl.test_concurrent")
		}()
	}
	wg.Wait()
	for i := 1; i < numGoroutines; i++ {
		assert.Same(t, results[0], results[i],
			"concurrent first-time registration must yield exactly one identity")
	}
}

func TestCallEffectKindString(t *testing.T) {
	assert.Equal(t, "Pure", tir.EffectPure.String())
	assert.Equal(t, "ReadState", tir.EffectReadState.String())
	assert.Equal(t, "UpdateState", tir.EffectUpdateState.String())
	assert.Equal(t, "Opaque", tir.EffectOpaque.String())

	assert.True(t, tir.EffectPure.Pure())
	assert.False(t, tir.EffectOpaque.Pure())
	assert.True(t, tir.EffectOpaque.Opaque())
	assert.False(t, tir.EffectReadState.Opaque())
}
