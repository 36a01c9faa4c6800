// Package comm declares the inter-core communication intrinsics of the tile IR.
//
// The intrinsics are symbolic placeholders: a call to one of them stands for
// communication code that the mesh lowering pass generates later, it is never
// executed at this layer. Every intrinsic is registered with the effect kind
// tir.EffectOpaque, so the optimizer never reorders a call across other opaque
// calls, eliminates it as dead code, or duplicates it.
//
// Accessors are cheap and idempotent: the whole catalog is registered exactly
// once, on the first call to any accessor, from whichever goroutine gets there
// first. Callers compare the returned identities by pointer and never construct
// identities themselves.
package comm

import (
	"sync"

	"github.com/SUNMMIO/Tilelang-Mesh/tir"
)

// Prefix qualifies every tile intrinsic name in the operator registry.
// The printer name stays the bare name, without the prefix.
const Prefix = "tl."

type intrinsicDef struct {
	name      string // bare name, also used as the printer name
	numInputs int
}

// The catalog. Arity is the exact argument count, or tir.VarArgs.
var intrinsics = []intrinsicDef{
	{"comm_put", tir.VarArgs},
	{"comm_broadcast", tir.VarArgs},
	{"comm_allgather", tir.VarArgs},
	{"comm_reduce", tir.VarArgs},
	{"comm_barrier", tir.VarArgs},
	{"comm_fence", 0},
	{"CoreId", 1},
	{"comm_current_core", 0},
}

var (
	registerOnce sync.Once
	ops          map[string]*tir.Op
)

func opFor(bare string) *tir.Op {
	registerOnce.Do(func() {
		ops = make(map[string]*tir.Op, len(intrinsics))
		for _, def := range intrinsics {
			ops[def.name] = tir.RegisterOp(Prefix+def.name, def.name, def.numInputs, tir.EffectOpaque)
		}
	})
	return ops[bare]
}

// Put returns the identity of the intrinsic for putting data from the current
// core's memory into another core's memory.
//
//	comm_put(src_buffer, dst_buffer, dst_core, size)
func Put() *tir.Op { return opFor("comm_put") }

// Broadcast returns the identity of the intrinsic for replicating a buffer from
// one core to every core in a group.
//
//	comm_broadcast(buffer, src_core, group...)
func Broadcast() *tir.Op { return opFor("comm_broadcast") }

// AllGather returns the identity of the intrinsic for gathering data from all
// cores in a group: each core contributes its send buffer and every core
// receives the concatenation.
//
//	comm_allgather(send_buffer, recv_buffer, group...)
func AllGather() *tir.Op { return opFor("comm_allgather") }

// Reduce returns the identity of the intrinsic for combining per-core values in
// a group with an associative reduce operator.
//
//	comm_reduce(reduce_type, send_buffer, recv_buffer, group...)
func Reduce() *tir.Op { return opFor("comm_reduce") }

// Barrier returns the identity of the intrinsic that blocks the calling cores
// until every member of the group has reached the barrier.
//
//	comm_barrier(group...)
func Barrier() *tir.Op { return opFor("comm_barrier") }

// Fence returns the identity of the intrinsic that enforces a memory-ordering
// boundary for pending communication, without synchronizing cores.
//
//	comm_fence()
func Fence() *tir.Op { return opFor("comm_fence") }

// CoreId returns the identity of the intrinsic mapping a logical index to a
// core identity value.
//
//	CoreId(core_index)
func CoreId() *tir.Op { return opFor("CoreId") }

// CurrentCore returns the identity of the intrinsic yielding the identity of
// the core executing the instruction.
//
//	comm_current_core()
func CurrentCore() *tir.Op { return opFor("comm_current_core") }
