// Package resource implements the resource and barrier builder of
// spec.md 4.E: texture and buffer allocation that selects the view type
// from extent and layer count, picks a sharing mode from the
// queue-family union a request declares, requests device-local memory
// for buffers, and sequences any initial upload through the staging
// engine with an Undefined -> TransferDst -> ShaderReadOnlyOptimal
// transition. A texture descriptor carries neither a memory request nor
// an image type: memory placement is left to device.CreateTexture, and
// the image type textureViewDimension computes is not passed on.
//
// Grounded on original_source/Iceberg/Include/iceberg/ib_core.h's
// texture/buffer creation helpers and hal.BuildImageBarrier /
// hal.BuildBufferBarrier, which this package calls directly rather than
// duplicating their Ignored-unless-differing queue-family rule.
package resource

import (
	"errors"

	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/staging"
	"github.com/gogpu/graphcore/types"
)

// ErrBothStageForms is a programming error: a resource-state declaration
// supplied both the convenience combined acquire_and_release_stage form
// and the split acquire_stage/release_stage form for the same transition
// (4.H "Resource state (pass-local)": "a convenience mode accepts a single
// acquire_and_release_stage that must be XOR-valid against providing both
// sides separately").
var ErrBothStageForms = errors.New("resource: barrier declares both the combined and the split acquire/release stage form")

// TextureRequest describes a texture allocation (4.E).
type TextureRequest struct {
	Label         string
	Size          types.Extent3D
	MipLevelCount uint32
	LayerCount    uint32
	Format        types.TextureFormat
	Usage         types.TextureUsage

	// QueueFamilies lists every queue family that will access this
	// texture; more than one distinct family selects SharingConcurrent.
	QueueFamilies []hal.QueueFamily

	// InitialData, when non-nil, is staged into mip 0, layer 0 and the
	// texture is left in ShaderReadOnlyOptimal afterward.
	InitialData          []byte
	InitialDataAlignment uint64
}

// Texture is the result of AllocateTexture.
type Texture struct {
	Texture hal.Texture
	View    hal.TextureView
	Layout  hal.ImageLayout
}

// BufferRequest describes a buffer allocation (4.E).
type BufferRequest struct {
	Label    string
	Size     uint64
	Usage    types.BufferUsage
	HostVisible bool

	QueueFamilies []hal.QueueFamily

	InitialData          []byte
	InitialWriteOffset   uint64
	InitialDataAlignment uint64
}

// Buffer is the result of AllocateBuffer.
type Buffer struct {
	Buffer hal.Buffer
}

func queueFamilySharing(families []hal.QueueFamily) (types.SharingMode, uint32) {
	mask := uint32(0)
	distinct := map[hal.QueueFamily]bool{}
	for _, f := range families {
		if f == hal.QueueFamilyIgnored {
			continue
		}
		mask |= 1 << uint32(f)
		distinct[f] = true
	}
	if len(distinct) > 1 {
		return types.SharingConcurrent, mask
	}
	return types.SharingExclusive, mask
}

// textureViewDimension selects a view type from extent and layer count
// (4.E: "selects image/view type from extent/layer count").
func textureViewDimension(size types.Extent3D, layerCount uint32) (types.TextureDimension, types.TextureViewDimension) {
	switch {
	case layerCount > 1:
		return types.TextureDimension2D, types.TextureViewDimension2DArray
	case size.DepthOrArrayLayers > 1:
		return types.TextureDimension3D, types.TextureViewDimension3D
	default:
		return types.TextureDimension2D, types.TextureViewDimension2D
	}
}

// AllocateTexture creates a texture and a full-range view (no memory is
// bound here; placement is left to device.CreateTexture), and, when req
// carries InitialData,
// sequences the upload through stg and transferQueue: a transfer
// command buffer copying the staged bytes in, bracketed by
// Undefined -> TransferDst and TransferDst -> ShaderReadOnlyOptimal
// image barriers (4.E).
func AllocateTexture(device hal.Device, stg *staging.Engine, transferQueue hal.Queue, req TextureRequest) (Texture, error) {
	sharing, mask := queueFamilySharing(req.QueueFamilies)
	_, viewDim := textureViewDimension(req.Size, req.LayerCount)

	usage := req.Usage | types.TextureUsageTextureBinding
	if req.InitialData != nil {
		usage |= types.TextureUsageCopyDst
	}

	layerCount := req.LayerCount
	if layerCount == 0 {
		layerCount = 1
	}
	mipCount := req.MipLevelCount
	if mipCount == 0 {
		mipCount = 1
	}

	tex, err := device.CreateTexture(&types.TextureDescriptor{
		Label:           req.Label,
		Size:            req.Size,
		MipLevelCount:   mipCount,
		LayerCount:      layerCount,
		Format:          req.Format,
		Usage:           usage,
		Aspect:          types.TextureAspectColor,
		SharingMode:     sharing,
		QueueFamilyMask: mask,
	})
	if err != nil {
		return Texture{}, err
	}

	view, err := device.CreateTextureView(tex, &types.TextureViewDescriptor{
		Label:           req.Label,
		Format:          req.Format,
		Dimension:       viewDim,
		Aspect:          types.TextureAspectColor,
		MipLevelCount:   mipCount,
		ArrayLayerCount: layerCount,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return Texture{}, err
	}

	result := Texture{Texture: tex, View: view, Layout: hal.ImageLayoutUndefined}
	if req.InitialData != nil {
		layout, err := uploadTexture(stg, transferQueue, tex, req)
		if err != nil {
			device.DestroyTextureView(view)
			device.DestroyTexture(tex)
			return Texture{}, err
		}
		result.Layout = layout
	}
	return result, nil
}

func uploadTexture(stg *staging.Engine, transferQueue hal.Queue, tex hal.Texture, req TextureRequest) (hal.ImageLayout, error) {
	alloc, err := stg.Request(uint64(len(req.InitialData)), req.InitialDataAlignment)
	if err != nil {
		return hal.ImageLayoutUndefined, err
	}
	copy(alloc.HostPtr, req.InitialData)

	enc, err := stg.AllocateTransferCommandBuffer()
	if err != nil {
		return hal.ImageLayoutUndefined, err
	}
	if err := enc.BeginEncoding(); err != nil {
		return hal.ImageLayoutUndefined, err
	}

	fullRange := hal.TextureRange{Aspect: types.TextureAspectColor, MipLevelCount: 1, ArrayLayerCount: 1}

	enc.PipelineBarrier([]hal.ImageBarrier{hal.BuildImageBarrier(hal.ImageBarrierDesc{
		Texture:   tex,
		SrcStage:  hal.PipelineStageTopOfPipe,
		DstStage:  hal.PipelineStageTransfer,
		SrcAccess: 0,
		DstAccess: hal.AccessTransferWrite,
		OldLayout: hal.ImageLayoutUndefined,
		NewLayout: hal.ImageLayoutTransferDstOptimal,
		Range:     fullRange,
	})}, nil)

	enc.CopyBufferToTexture(alloc.Buffer, hal.ImageDataLayout{Offset: alloc.Offset}, tex, types.Origin3D{}, req.Size)

	enc.PipelineBarrier([]hal.ImageBarrier{hal.BuildImageBarrier(hal.ImageBarrierDesc{
		Texture:   tex,
		SrcStage:  hal.PipelineStageTransfer,
		DstStage:  hal.PipelineStageFragmentShader,
		SrcAccess: hal.AccessTransferWrite,
		DstAccess: hal.AccessShaderRead,
		OldLayout: hal.ImageLayoutTransferDstOptimal,
		NewLayout: hal.ImageLayoutShaderReadOnlyOptimal,
		Range:     fullRange,
	})}, nil)

	cb, err := enc.EndEncoding()
	if err != nil {
		return hal.ImageLayoutUndefined, err
	}
	if err := transferQueue.Submit([]hal.CommandBuffer{cb}, nil, []hal.Semaphore{stg.Semaphore()}, nil, alloc.CompletionValue); err != nil {
		return hal.ImageLayoutUndefined, err
	}
	stg.TrackSubmitted(cb)
	return hal.ImageLayoutShaderReadOnlyOptimal, nil
}

// AllocateBuffer creates a buffer, always requesting a device address
// (4.E: "buffer alloc always adds device-address usage bit"), and, when
// req carries InitialData, stages and copies it in via stg and
// transferQueue, followed by a TransferWrite -> access-for-usage
// buffer barrier.
func AllocateBuffer(device hal.Device, stg *staging.Engine, transferQueue hal.Queue, req BufferRequest) (Buffer, error) {
	sharing, mask := queueFamilySharing(req.QueueFamilies)

	usage := req.Usage | types.BufferUsageDeviceAddress
	if req.InitialData != nil {
		usage |= types.BufferUsageCopyDst
	}

	required := types.MemoryFlagDeviceLocal
	if req.HostVisible {
		required |= types.MemoryFlagHostVisible
	}

	buf, err := device.CreateBuffer(&types.BufferDescriptor{
		Label:               req.Label,
		Size:                req.Size,
		Usage:               usage,
		RequiredMemoryFlags: required,
		SharingMode:         sharing,
		QueueFamilyMask:     mask,
	})
	if err != nil {
		return Buffer{}, err
	}

	if req.InitialData != nil {
		if err := uploadBuffer(stg, transferQueue, buf, req); err != nil {
			device.DestroyBuffer(buf)
			return Buffer{}, err
		}
	}
	return Buffer{Buffer: buf}, nil
}

func uploadBuffer(stg *staging.Engine, transferQueue hal.Queue, buf hal.Buffer, req BufferRequest) error {
	alloc, err := stg.Request(uint64(len(req.InitialData)), req.InitialDataAlignment)
	if err != nil {
		return err
	}
	copy(alloc.HostPtr, req.InitialData)

	enc, err := stg.AllocateTransferCommandBuffer()
	if err != nil {
		return err
	}
	if err := enc.BeginEncoding(); err != nil {
		return err
	}
	enc.CopyBufferToBuffer(alloc.Buffer, alloc.Offset, buf, req.InitialWriteOffset, uint64(len(req.InitialData)))

	dstAccess := accessMaskForUsage(req.Usage)
	enc.PipelineBarrier(nil, []hal.BufferBarrier{hal.BuildBufferBarrier(hal.BufferBarrierDesc{
		Buffer:    buf,
		SrcStage:  hal.PipelineStageTransfer,
		DstStage:  hal.PipelineStageAllCommands,
		SrcAccess: hal.AccessTransferWrite,
		DstAccess: dstAccess,
		Offset:    req.InitialWriteOffset,
		Size:      uint64(len(req.InitialData)),
	})})

	cb, err := enc.EndEncoding()
	if err != nil {
		return err
	}
	if err := transferQueue.Submit([]hal.CommandBuffer{cb}, nil, []hal.Semaphore{stg.Semaphore()}, nil, alloc.CompletionValue); err != nil {
		return err
	}
	stg.TrackSubmitted(cb)
	return nil
}

func accessMaskForUsage(usage types.BufferUsage) hal.AccessMask {
	var access hal.AccessMask
	if usage&types.BufferUsageStorage != 0 {
		access |= hal.AccessShaderRead | hal.AccessShaderWrite
	}
	if usage&types.BufferUsageUniform != 0 {
		access |= hal.AccessShaderRead
	}
	if usage&types.BufferUsageIndex != 0 || usage&types.BufferUsageVertex != 0 {
		access |= hal.AccessMemoryRead
	}
	if access == 0 {
		access = hal.AccessMemoryRead
	}
	return access
}

// CheckStageForm is the XOR-validity guard for a resource-state
// declaration (4.H): hasCombinedForm and hasSplitForm may not both be
// true. Called by rendergraph.ResourceStateDesc before every barrier the
// barrier engine emits (4.H/8).
func CheckStageForm(hasCombinedForm, hasSplitForm bool) error {
	if hasCombinedForm && hasSplitForm {
		return ErrBothStageForms
	}
	return nil
}
