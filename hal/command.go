package hal

import "github.com/gogpu/graphcore/types"

// CommandEncoder records commands into a CommandBuffer. An encoder is
// obtained from a CommandPool and is not safe for concurrent use.
type CommandEncoder interface {
	BeginEncoding() error
	EndEncoding() (CommandBuffer, error)
	DiscardEncoding()

	// PipelineBarrier emits one vkCmdPipelineBarrier2-style call covering
	// every barrier the caller batched (4.H: one barrier call per pass
	// boundary, coalescing all resource transitions declared for it).
	PipelineBarrier(image []ImageBarrier, buffer []BufferBarrier)

	ClearBuffer(buf Buffer, offset, size uint64)
	CopyBufferToBuffer(src Buffer, srcOffset uint64, dst Buffer, dstOffset uint64, size uint64)
	CopyBufferToTexture(src Buffer, layout ImageDataLayout, dst Texture, dstOrigin types.Origin3D, copySize types.Extent3D)
	CopyTextureToBuffer(src Texture, srcOrigin types.Origin3D, dst Buffer, layout ImageDataLayout, copySize types.Extent3D)
	CopyTextureToTexture(src Texture, srcOrigin types.Origin3D, dst Texture, dstOrigin types.Origin3D, copySize types.Extent3D)

	// WriteTimestamp records a GPU timestamp into set at index, at stage
	// (4.G/4.H profiling scopes: push on pass entry, pop on pass exit).
	WriteTimestamp(set QuerySet, index uint32, stage PipelineStage)

	BeginRenderPass(desc *RenderPassDescriptor) RenderPassEncoder
	BeginComputePass() ComputePassEncoder
}

// RenderPassEncoder records draw commands within a dynamic-rendering scope.
type RenderPassEncoder interface {
	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	SetScissor(x, y, width, height uint32)
	SetPushConstants(stages ShaderStage, offset uint32, data []byte)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End()
}

// ComputePassEncoder records dispatch commands.
type ComputePassEncoder interface {
	SetPushConstants(stages ShaderStage, offset uint32, data []byte)
	Dispatch(x, y, z uint32)
	End()
}

// ShaderStage is a bitmask of shader stages push constants are visible to.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
)

// ImageDataLayout describes the memory layout of buffer data involved in a
// buffer-texture copy.
type ImageDataLayout struct {
	Offset       uint64
	BytesPerRow  uint32
	RowsPerImage uint32
}

// RenderPassDescriptor describes a dynamic-rendering scope (4.H): one or
// more color attachments plus an optional depth/stencil attachment, each
// already transitioned by the barrier engine before the pass begins.
type RenderPassDescriptor struct {
	Label              string
	ColorAttachments   []RenderPassColorAttachment
	DepthStencilAttach *RenderPassDepthStencilAttachment
}

// RenderPassColorAttachment describes one color attachment.
type RenderPassColorAttachment struct {
	View        TextureView
	ResolveView TextureView
	LoadOp      types.LoadOp
	StoreOp     types.StoreOp
	ClearColor  types.Color
}

// RenderPassDepthStencilAttachment describes the depth/stencil attachment.
type RenderPassDepthStencilAttachment struct {
	View           TextureView
	DepthLoadOp    types.LoadOp
	DepthStoreOp   types.StoreOp
	DepthClear     float32
	StencilLoadOp  types.LoadOp
	StencilStoreOp types.StoreOp
	StencilClear   uint32
}
