package hal

import "github.com/gogpu/graphcore/types"

// PipelineStage is a Vulkan-style pipeline stage mask (VkPipelineStageFlags2
// in the source API). The barrier engine (4.H) computes one of these for
// each side of a resource state transition.
type PipelineStage uint64

const (
	PipelineStageTopOfPipe PipelineStage = 1 << iota
	PipelineStageTransfer
	PipelineStageComputeShader
	PipelineStageVertexShader
	PipelineStageFragmentShader
	PipelineStageEarlyFragmentTests
	PipelineStageLateFragmentTests
	PipelineStageColorAttachmentOutput
	PipelineStageHost
	PipelineStageAllCommands
	PipelineStageBottomOfPipe
)

// AccessMask is a Vulkan-style memory access mask (VkAccessFlags2).
type AccessMask uint32

const (
	AccessTransferRead AccessMask = 1 << iota
	AccessTransferWrite
	AccessShaderRead
	AccessShaderWrite
	AccessColorAttachmentRead
	AccessColorAttachmentWrite
	AccessDepthStencilAttachmentRead
	AccessDepthStencilAttachmentWrite
	AccessHostRead
	AccessHostWrite
	AccessMemoryRead
	AccessMemoryWrite
)

// ImageLayout is a Vulkan-style image layout.
type ImageLayout uint8

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutShaderReadOnlyOptimal
	ImageLayoutTransferSrcOptimal
	ImageLayoutTransferDstOptimal
	ImageLayoutPresentSrc
)

// QueueFamily identifies one of the core's four logical queues, or
// QueueFamilyIgnored when a barrier does not transfer ownership.
type QueueFamily uint32

const (
	QueueFamilyIgnored QueueFamily = iota
	QueueFamilyGraphics
	QueueFamilyCompute
	QueueFamilyTransfer
	QueueFamilyPresent
)

// ImageBarrierDesc is the parameter record for BuildImageBarrier (4.E): a
// pure builder that turns a transition description into a canonical
// image-memory-barrier value. Queue-family fields translate to an explicit
// ownership transfer only when SrcQueue != DstQueue; otherwise the built
// barrier reports QueueFamilyIgnored on both sides.
type ImageBarrierDesc struct {
	Texture    Texture
	SrcStage   PipelineStage
	DstStage   PipelineStage
	SrcAccess  AccessMask
	DstAccess  AccessMask
	OldLayout  ImageLayout
	NewLayout  ImageLayout
	SrcQueue   QueueFamily
	DstQueue   QueueFamily
	Range      TextureRange
}

// ImageBarrier is the canonical barrier value produced by BuildImageBarrier,
// ready to be passed to CommandEncoder.PipelineBarrier.
type ImageBarrier struct {
	Texture   Texture
	SrcStage  PipelineStage
	DstStage  PipelineStage
	SrcAccess AccessMask
	DstAccess AccessMask
	OldLayout ImageLayout
	NewLayout ImageLayout
	SrcQueue  QueueFamily
	DstQueue  QueueFamily
	Range     TextureRange
}

// BuildImageBarrier translates a parameter record into a canonical image
// barrier, applying the Ignored-unless-differing queue-family rule.
func BuildImageBarrier(desc ImageBarrierDesc) ImageBarrier {
	b := ImageBarrier{
		Texture:   desc.Texture,
		SrcStage:  desc.SrcStage,
		DstStage:  desc.DstStage,
		SrcAccess: desc.SrcAccess,
		DstAccess: desc.DstAccess,
		OldLayout: desc.OldLayout,
		NewLayout: desc.NewLayout,
		Range:     desc.Range,
	}
	if desc.SrcQueue != desc.DstQueue {
		b.SrcQueue = desc.SrcQueue
		b.DstQueue = desc.DstQueue
	} else {
		b.SrcQueue = QueueFamilyIgnored
		b.DstQueue = QueueFamilyIgnored
	}
	return b
}

// BufferBarrierDesc is the buffer counterpart of ImageBarrierDesc.
type BufferBarrierDesc struct {
	Buffer    Buffer
	SrcStage  PipelineStage
	DstStage  PipelineStage
	SrcAccess AccessMask
	DstAccess AccessMask
	SrcQueue  QueueFamily
	DstQueue  QueueFamily
	Offset    uint64
	Size      uint64
}

// BufferBarrier is the canonical barrier value for a buffer transition.
type BufferBarrier struct {
	Buffer    Buffer
	SrcStage  PipelineStage
	DstStage  PipelineStage
	SrcAccess AccessMask
	DstAccess AccessMask
	SrcQueue  QueueFamily
	DstQueue  QueueFamily
	Offset    uint64
	Size      uint64
}

// BuildBufferBarrier translates a parameter record into a canonical buffer
// barrier, applying the Ignored-unless-differing queue-family rule.
func BuildBufferBarrier(desc BufferBarrierDesc) BufferBarrier {
	b := BufferBarrier{
		Buffer:    desc.Buffer,
		SrcStage:  desc.SrcStage,
		DstStage:  desc.DstStage,
		SrcAccess: desc.SrcAccess,
		DstAccess: desc.DstAccess,
		Offset:    desc.Offset,
		Size:      desc.Size,
	}
	if desc.SrcQueue != desc.DstQueue {
		b.SrcQueue = desc.SrcQueue
		b.DstQueue = desc.DstQueue
	} else {
		b.SrcQueue = QueueFamilyIgnored
		b.DstQueue = QueueFamilyIgnored
	}
	return b
}

// TextureRange specifies a range of texture subresources a barrier applies to.
type TextureRange struct {
	Aspect          types.TextureAspect
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}
