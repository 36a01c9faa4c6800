// Package lang is the call-site builder layer for the communication intrinsics:
// the surface the tile language front end uses to emit well-formed intrinsic
// calls for a target mesh.
//
// Builders validate core coordinates against the mesh and argument counts
// against the operators' arity attributes, then hand back symbolic tir.Call
// nodes for the host compiler to embed. Argument types are a documentation
// contract with the lowering pass, not something enforced here.
package lang

import (
	"github.com/SUNMMIO/Tilelang-Mesh/mesh"
	"github.com/SUNMMIO/Tilelang-Mesh/tir"
	"github.com/SUNMMIO/Tilelang-Mesh/tir/comm"
)

// Builder emits communication intrinsic calls for one target mesh.
type Builder struct {
	mesh mesh.Shape

	meshTensors map[tir.Handle]MeshTensorInfo
}

// New returns a Builder targeting the given mesh shape.
func New(m mesh.Shape) *Builder {
	return &Builder{mesh: m}
}

// NewDefault returns a Builder targeting mesh.Default().
func NewDefault() *Builder {
	return New(mesh.Default())
}

// Mesh returns the target mesh shape the builder validates coordinates against.
func (b *Builder) Mesh() mesh.Shape { return b.mesh }

// CoreId builds a CoreId call from a linear core id.
func (b *Builder) CoreId(id int) (*tir.Call, error) {
	if err := b.mesh.CheckLinear(id); err != nil {
		return nil, err
	}
	return tir.NewCall(comm.CoreId(), tir.IntImm(id))
}

// CoreIdAt builds a CoreId call from 2D mesh coordinates.
func (b *Builder) CoreIdAt(c mesh.Coord) (*tir.Call, error) {
	id, err := b.mesh.LinearID(c)
	if err != nil {
		return nil, err
	}
	return tir.NewCall(comm.CoreId(), tir.IntImm(int64(id)))
}

// group converts coordinates to CoreId call arguments.
func (b *Builder) group(coords []mesh.Coord) ([]tir.Expr, error) {
	exprs := make([]tir.Expr, 0, len(coords))
	for _, c := range coords {
		id, err := b.CoreIdAt(c)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, id)
	}
	return exprs, nil
}

// FullRegion is the size value that makes Put copy the source buffer region in
// full, omitting the size argument from the emitted call.
const FullRegion = -1

// Put emits comm_put, transferring src from the current core's memory into dst
// on the core at dstCore. Size limits the copy to that many elements; pass
// FullRegion to copy the whole region.
func (b *Builder) Put(src, dst tir.Expr, dstCore mesh.Coord, size int) (*tir.Call, error) {
	coreId, err := b.CoreIdAt(dstCore)
	if err != nil {
		return nil, err
	}
	args := []tir.Expr{src, dst, coreId}
	if size != FullRegion {
		args = append(args, tir.IntImm(int64(size)))
	}
	return tir.NewCall(comm.Put(), args...)
}

// Broadcast emits comm_broadcast, replicating buffer from the core at srcCore
// to every core in group. With an empty group the runtime's default participant
// set is used.
func (b *Builder) Broadcast(buffer tir.Expr, srcCore mesh.Coord, group ...mesh.Coord) (*tir.Call, error) {
	coreId, err := b.CoreIdAt(srcCore)
	if err != nil {
		return nil, err
	}
	members, err := b.group(group)
	if err != nil {
		return nil, err
	}
	args := append([]tir.Expr{buffer, coreId}, members...)
	return tir.NewCall(comm.Broadcast(), args...)
}

// AllGather emits comm_allgather: every core in group contributes send and all
// of them receive the concatenation in recv. With an empty group the runtime's
// default participant set is used.
func (b *Builder) AllGather(send, recv tir.Expr, group ...mesh.Coord) (*tir.Call, error) {
	members, err := b.group(group)
	if err != nil {
		return nil, err
	}
	args := append([]tir.Expr{send, recv}, members...)
	return tir.NewCall(comm.AllGather(), args...)
}

// AllReduce emits comm_reduce, combining each group member's send buffer with
// the associative operator named by reduceOp (e.g. "sum", "max") and delivering
// the result to every participant's recv buffer.
func (b *Builder) AllReduce(reduceOp string, send, recv tir.Expr, group ...mesh.Coord) (*tir.Call, error) {
	members, err := b.group(group)
	if err != nil {
		return nil, err
	}
	args := append([]tir.Expr{tir.StringImm(reduceOp), send, recv}, members...)
	return tir.NewCall(comm.Reduce(), args...)
}

// AllReduceAxis is AllReduce with an explicit reduction axis, appended after
// the buffers and before the group.
func (b *Builder) AllReduceAxis(reduceOp string, send, recv tir.Expr, axis int, group ...mesh.Coord) (*tir.Call, error) {
	members, err := b.group(group)
	if err != nil {
		return nil, err
	}
	args := append([]tir.Expr{tir.StringImm(reduceOp), send, recv, tir.IntImm(int64(axis))}, members...)
	return tir.NewCall(comm.Reduce(), args...)
}

// Barrier emits comm_barrier, blocking the calling cores until every member of
// group has reached it. With an empty group the runtime's default participant
// set is used.
func (b *Builder) Barrier(group ...mesh.Coord) (*tir.Call, error) {
	members, err := b.group(group)
	if err != nil {
		return nil, err
	}
	return tir.NewCall(comm.Barrier(), members...)
}

// Fence emits comm_fence, a memory-ordering boundary for pending communication.
func (b *Builder) Fence() (*tir.Call, error) {
	return tir.NewCall(comm.Fence())
}

// CurrentCore emits comm_current_core, yielding the identity of the executing
// core at lowering/runtime.
func (b *Builder) CurrentCore() (*tir.Call, error) {
	return tir.NewCall(comm.CurrentCore())
}
