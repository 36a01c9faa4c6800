package lang

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/SUNMMIO/Tilelang-Mesh/tir"
)

// MeshTensorInfo describes how a buffer is blocked and distributed across the
// mesh: the per-core block shape, the program-id axes addressing the blocks,
// and the sharding of each tensor axis.
type MeshTensorInfo struct {
	BlockShape []int
	ProgramId  []int
	Sharding   []int
}

func (info MeshTensorInfo) validate() error {
	if len(info.BlockShape) == 0 || len(info.ProgramId) == 0 || len(info.Sharding) == 0 {
		return errors.Errorf("invalid mesh tensor info: %+v", info)
	}
	for _, dim := range info.BlockShape {
		if dim <= 0 {
			return errors.Errorf("invalid mesh tensor block shape: %v", info.BlockShape)
		}
	}
	return nil
}

// The block-addressed copy is an intrinsic of its own, registered lazily from
// this separate call site. It merges with any catalog contributions for the
// same name through the registry.
var (
	copyOpOnce sync.Once
	copyOp     *tir.Op
)

func meshTensorCopyOp() *tir.Op {
	copyOpOnce.Do(func() {
		copyOp = tir.RegisterOp("tl.mesh_tensor_copy", "mesh_tensor_copy", tir.VarArgs, tir.EffectOpaque)
	})
	return copyOp
}

// AnnotateMeshTensor records the mesh-tensor layout for buffer, so later
// MeshTensorCopy calls can address it by block coordinates. Re-annotating a
// buffer replaces its previous layout.
func (b *Builder) AnnotateMeshTensor(buffer tir.Handle, info MeshTensorInfo) error {
	if err := info.validate(); err != nil {
		return err
	}
	if b.meshTensors == nil {
		b.meshTensors = make(map[tir.Handle]MeshTensorInfo)
	}
	b.meshTensors[buffer] = info
	return nil
}

// MeshTensorInfoFor returns the layout annotated for buffer, if any.
func (b *Builder) MeshTensorInfoFor(buffer tir.Handle) (MeshTensorInfo, bool) {
	info, found := b.meshTensors[buffer]
	return info, found
}

// blockOffsets scales block coordinates by the buffer's annotated block shape,
// yielding element offsets into the tensor.
func (b *Builder) blockOffsets(buffer tir.Handle, coord []int) ([]tir.Expr, error) {
	info, found := b.meshTensors[buffer]
	if !found {
		return nil, errors.Errorf("mesh tensor information for buffer %q not found", buffer)
	}
	if len(coord) != len(info.BlockShape) {
		return nil, errors.Errorf("block coordinate %v does not match block shape %v of buffer %q",
			coord, info.BlockShape, buffer)
	}
	offsets := make([]tir.Expr, 0, len(coord))
	for axis, c := range coord {
		offsets = append(offsets, tir.IntImm(int64(c*info.BlockShape[axis])))
	}
	return offsets, nil
}

// MeshTensorCopy emits a copy between annotated buffers, addressed by block
// coordinates. A nil coordinate means the buffer is used unoffset. The emitted
// call carries src, dst, then the source element offsets followed by the
// destination element offsets.
func (b *Builder) MeshTensorCopy(src, dst tir.Handle, srcCoord, dstCoord []int) (*tir.Call, error) {
	args := []tir.Expr{src, dst}
	if srcCoord != nil {
		offsets, err := b.blockOffsets(src, srcCoord)
		if err != nil {
			return nil, err
		}
		args = append(args, offsets...)
	}
	if dstCoord != nil {
		offsets, err := b.blockOffsets(dst, dstCoord)
		if err != nil {
			return nil, err
		}
		args = append(args, offsets...)
	}
	return tir.NewCall(meshTensorCopyOp(), args...)
}
