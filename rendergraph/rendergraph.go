// Package rendergraph implements the frame-slot pool and Vulkan-style
// barrier/state-transition engine of spec.md 4.G and 4.H: a fixed-size
// array of per-frame slots, each owning a CPU arena, a transient
// descriptor pool, one transient command pool per queue, a binary frame
// semaphore, a fence created signalled, and lists of transient textures
// and buffers; begin_frame/end_frame; pass-resource and
// transient-command-buffer allocation; a state-transition policy emitting
// exactly one barrier per transition; and named profiling scopes whose
// timings surface on the following frame.
//
// Grounded on original_source/Iceberg/Include/iceberg/ib_rendergraph.h
// for the frame-slot/pass/barrier shape, and on internal/thread's
// render-thread separation (the teacher's own pattern for keeping
// vkDeviceWaitIdle off the caller's thread) for Rebuild.
package rendergraph

import (
	"errors"
	"fmt"

	math "github.com/chewxy/math32"

	"github.com/gogpu/graphcore/alloc/stack"
	"github.com/gogpu/graphcore/config"
	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/internal/debug"
	"github.com/gogpu/graphcore/internal/pagesrc"
	"github.com/gogpu/graphcore/internal/thread"
	"github.com/gogpu/graphcore/resource"
	"github.com/gogpu/graphcore/staging"
	"github.com/gogpu/graphcore/surface"
	"github.com/gogpu/graphcore/types"
)

// ErrNoFrame is returned by allocation calls made outside an acquired
// frame (4.H: begin_frame must precede alloc_pass_resource and
// alloc_transient_command_buffer).
var ErrNoFrame = errors.New("rendergraph: no frame acquired for this slot")

// ErrProfilingScopeStillActive is a programming error: end_frame was
// called with a profiling scope still open (4.H, 8).
var ErrProfilingScopeStillActive = errors.New("rendergraph: profiling scope still active at end_frame")

// ErrEmptyPassResourceDesc is a programming error: AllocPassResource was
// called with neither a transient-allocation request nor an adopted
// caller-owned resource set.
var ErrEmptyPassResourceDesc = errors.New("rendergraph: PassResourceDesc has neither a transient request nor an adopted resource")

// maxProfilingQueries bounds the timestamp queries one frame slot can
// record in a single frame (two per profiling scope: begin and end).
const maxProfilingQueries = 128

// AcquireResult re-exports surface.AcquireResult so callers need not
// import both packages for the tri-state every suspension point in this
// package returns (5, 7).
type AcquireResult = surface.AcquireResult

const (
	Ok            = surface.Ok
	ShouldRebuild = surface.ShouldRebuild
	Error         = surface.Error
)

// ProfilingScope names one GPU timing region, pushed by a BeginXPass
// call and popped by its matching EndXPass (4.G/4.H; S6: named scopes
// surface as FrameTiming the frame after they complete).
type ProfilingScope struct {
	Name       string
	beginQuery uint32
	endQuery   uint32
}

// FrameTiming is one profiling scope's resolved duration, available
// starting the frame after it was recorded.
type FrameTiming struct {
	Name                string
	DurationNanoseconds float64
}

// resourceState is the barrier engine's last-recorded release point for
// one resource (9: "last_release_stage/access := release_stage/access",
// the documented single simplification -- multi-queue ownership tracking
// is not revisited here).
type resourceState struct {
	stage  hal.PipelineStage
	access hal.AccessMask
	layout hal.ImageLayout
}

// ResourceStateDesc is a pass-local resource-state declaration (4.H
// "Resource state (pass-local)"): the stage/access a pass's work acquires
// the resource with, the stage/access it releases the resource at
// afterward, and -- for textures -- the layout it must be in. Callers may
// either set AcquireStage/ReleaseStage independently, or set the
// convenience AcquireAndReleaseStage for passes that acquire and release
// at the same pipeline stage; supplying both forms is a programming error
// (resource.ErrBothStageForms).
type ResourceStateDesc struct {
	AcquireStage           hal.PipelineStage
	ReleaseStage           hal.PipelineStage
	AcquireAndReleaseStage hal.PipelineStage

	AcquireAccess hal.AccessMask
	ReleaseAccess hal.AccessMask

	// Layout is the layout the resource must be transitioned into.
	// Ignored for buffers.
	Layout ImageLayout

	QueueFamily hal.QueueFamily
}

// ImageLayout is an alias of hal.ImageLayout so callers building a
// ResourceStateDesc need not import hal for this one field.
type ImageLayout = hal.ImageLayout

func (d ResourceStateDesc) isZero() bool {
	return d.AcquireStage == 0 && d.ReleaseStage == 0 && d.AcquireAndReleaseStage == 0 &&
		d.AcquireAccess == 0 && d.ReleaseAccess == 0 && d.Layout == 0
}

// resolveStages computes the acquire/release stage pair, rejecting the
// case where both the combined and the split forms were supplied (4.H
// step 2, 8: "Specifying both the combined and the split acquire/release
// stage forms ... is detected and reported").
func (d ResourceStateDesc) resolveStages() (acquire, release hal.PipelineStage, err error) {
	hasCombined := d.AcquireAndReleaseStage != 0
	hasSplit := d.AcquireStage != 0 || d.ReleaseStage != 0
	if err := resource.CheckStageForm(hasCombined, hasSplit); err != nil {
		return 0, 0, err
	}
	if hasCombined {
		return d.AcquireAndReleaseStage, d.AcquireAndReleaseStage, nil
	}
	return d.AcquireStage, d.ReleaseStage, nil
}

// defaultColorTargetState is the default resource state begin_graphics_pass
// applies to a color render target that did not override State (4.H:
// "default access/stage for colour attachments is
// ColorAttachment{Read,Write} / ColorAttachmentOutput").
func defaultColorTargetState() ResourceStateDesc {
	return ResourceStateDesc{
		AcquireAndReleaseStage: hal.PipelineStageColorAttachmentOutput,
		AcquireAccess:          hal.AccessColorAttachmentRead | hal.AccessColorAttachmentWrite,
		ReleaseAccess:          hal.AccessColorAttachmentRead | hal.AccessColorAttachmentWrite,
		Layout:                 hal.ImageLayoutColorAttachmentOptimal,
	}
}

// defaultDepthTargetState is the default resource state for a depth
// target (4.H: "for depth, DepthStencilAttachment{Read,Write} /
// {Early,Late}FragmentTests").
func defaultDepthTargetState() ResourceStateDesc {
	return ResourceStateDesc{
		AcquireStage:  hal.PipelineStageEarlyFragmentTests,
		ReleaseStage:  hal.PipelineStageLateFragmentTests,
		AcquireAccess: hal.AccessDepthStencilAttachmentRead | hal.AccessDepthStencilAttachmentWrite,
		ReleaseAccess: hal.AccessDepthStencilAttachmentRead | hal.AccessDepthStencilAttachmentWrite,
		Layout:        hal.ImageLayoutDepthStencilAttachmentOptimal,
	}
}

func fullRange(size types.Extent3D, layerCount uint32) hal.TextureRange {
	if layerCount == 0 {
		layerCount = 1
	}
	return hal.TextureRange{Aspect: types.TextureAspectColor, MipLevelCount: 1, ArrayLayerCount: layerCount}
}

// FrameSlot is one of the render graph's N frame slots (4.G).
type FrameSlot struct {
	arena          *stack.Allocator
	descriptorPool hal.DescriptorPool
	commandPools   [hal.QueueCount]hal.CommandPool
	frameSemaphore hal.Semaphore
	fence          hal.Fence
	querySet       hal.QuerySet

	// transientTextures/transientBuffers are this slot's transient
	// object lists (4.G "linked lists of transient objects"):
	// everything AllocPassResource allocates (as opposed to adopts) is
	// remembered here and released the next time this slot is reused,
	// once its fence is observed signalled (Lifecycles).
	transientTextures []resource.Texture
	transientBuffers  []resource.Buffer

	activeScopes    []*ProfilingScope
	completedScopes []*ProfilingScope
	nextQueryIndex  uint32
	previousTimings []FrameTiming

	surfaceTexture hal.SurfaceTexture
	haveFrame      bool
}

func newFrameSlot(device hal.Device) (*FrameSlot, error) {
	source := pagesrc.NewHeapSource()
	arena := stack.New(source, config.CPUArenaPageSize)

	descPool, err := device.CreateDescriptorPool(config.MaxShaderWrites)
	if err != nil {
		return nil, err
	}

	var cmdPools [hal.QueueCount]hal.CommandPool
	for kind := hal.QueueKind(0); kind < hal.QueueCount; kind++ {
		pool, err := device.CreateCommandPool(kind, true)
		if err != nil {
			return nil, err
		}
		cmdPools[kind] = pool
	}

	frameSem, err := device.CreateBinarySemaphore()
	if err != nil {
		return nil, err
	}

	// Created signalled so the first begin_frame's fence wait does not
	// block (4.G).
	fence, err := device.CreateFence(true)
	if err != nil {
		return nil, err
	}

	querySet, err := device.CreateQuerySet(hal.QueryKindTimestamp, maxProfilingQueries)
	if err != nil {
		return nil, err
	}

	return &FrameSlot{
		arena:          arena,
		descriptorPool: descPool,
		commandPools:   cmdPools,
		frameSemaphore: frameSem,
		fence:          fence,
		querySet:       querySet,
	}, nil
}

// releaseTransients destroys every transient texture and buffer this slot
// still owns and drops their tracked barrier-engine state, per 4.H
// begin_frame's "frees every transient object recorded in that slot's
// lists."
func (slot *FrameSlot) releaseTransients(device hal.Device, texStates map[hal.Texture]*resourceState, bufStates map[hal.Buffer]*resourceState) {
	for _, tex := range slot.transientTextures {
		device.DestroyTextureView(tex.View)
		device.DestroyTexture(tex.Texture)
		delete(texStates, tex.Texture)
	}
	slot.transientTextures = slot.transientTextures[:0]

	for _, buf := range slot.transientBuffers {
		device.DestroyBuffer(buf.Buffer)
		delete(bufStates, buf.Buffer)
	}
	slot.transientBuffers = slot.transientBuffers[:0]
}

func (slot *FrameSlot) close(device hal.Device, texStates map[hal.Texture]*resourceState, bufStates map[hal.Buffer]*resourceState) {
	slot.releaseTransients(device, texStates, bufStates)
	slot.arena.Close()
	device.DestroyDescriptorPool(slot.descriptorPool)
	for _, pool := range slot.commandPools {
		if pool != nil {
			device.DestroyCommandPool(pool)
		}
	}
	device.DestroySemaphore(slot.frameSemaphore)
	device.DestroyFence(slot.fence)
	device.DestroyQuerySet(slot.querySet)
}

// collectCompletedTimings resolves every scope this slot completed last
// frame into previousTimings, dropping any whose queries are not yet
// ready (4.H begin_frame: "converts completed profiling scopes into
// previous-frame timings").
func (slot *FrameSlot) collectCompletedTimings(device hal.Device) {
	if len(slot.completedScopes) == 0 {
		slot.previousTimings = slot.previousTimings[:0]
		slot.nextQueryIndex = 0
		return
	}
	values, ready, err := slot.querySet.Resolve(0, slot.nextQueryIndex)
	timings := slot.previousTimings[:0]
	if err == nil {
		period := device.TimestampPeriodNanoseconds()
		for _, scope := range slot.completedScopes {
			if int(scope.endQuery) >= len(ready) || !ready[scope.beginQuery] || !ready[scope.endQuery] {
				continue
			}
			duration := float64(values[scope.endQuery]-values[scope.beginQuery]) * period
			timings = append(timings, FrameTiming{Name: scope.Name, DurationNanoseconds: duration})
		}
	}
	slot.previousTimings = timings
	slot.completedScopes = slot.completedScopes[:0]
	slot.nextQueryIndex = 0
}

func (slot *FrameSlot) popScope(scope *ProfilingScope) {
	n := len(slot.activeScopes)
	debug.Assert(n > 0 && slot.activeScopes[n-1] == scope, "rendergraph: pass scopes must end in LIFO order")
	if n == 0 {
		return
	}
	slot.activeScopes = slot.activeScopes[:n-1]
	slot.completedScopes = append(slot.completedScopes, scope)
}

// Pool is the render graph's frame-slot pool together with the barrier
// engine's per-resource last-release tracking (4.G, 4.H).
type Pool struct {
	device        hal.Device
	stagingEngine *staging.Engine
	transferQueue hal.Queue
	slots         []*FrameSlot
	renderLoop    *thread.RenderLoop

	textureStates map[hal.Texture]*resourceState
	bufferStates  map[hal.Buffer]*resourceState
}

// New constructs a pool of framebufferCount frame slots (config.DefaultFramebufferCount
// if zero). stg and transferQueue back every transient texture/buffer
// AllocPassResource allocates (4.E AllocateTexture/AllocateBuffer).
func New(device hal.Device, framebufferCount int, stg *staging.Engine, transferQueue hal.Queue) (*Pool, error) {
	if framebufferCount <= 0 {
		framebufferCount = config.DefaultFramebufferCount
	}
	p := &Pool{
		device:        device,
		stagingEngine: stg,
		transferQueue: transferQueue,
		renderLoop:    thread.NewRenderLoop(),
		textureStates: make(map[hal.Texture]*resourceState),
		bufferStates:  make(map[hal.Buffer]*resourceState),
	}
	for i := 0; i < framebufferCount; i++ {
		slot, err := newFrameSlot(device)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.slots = append(p.slots, slot)
	}
	return p, nil
}

// Close tears down every frame slot's transient objects and stops the
// pool's render thread.
func (p *Pool) Close() {
	for _, slot := range p.slots {
		slot.close(p.device, p.textureStates, p.bufferStates)
	}
	p.renderLoop.Stop()
}

// SlotCount returns the number of frame slots in the pool.
func (p *Pool) SlotCount() int { return len(p.slots) }

// BeginFrame waits on slotIndex's fence, frees its transient lists,
// resets its descriptor/command pools and arena, converts last frame's
// completed profiling scopes into timings, and optionally acquires the
// next surface image (4.H). A non-Ok result (ShouldRebuild or Error)
// means no frame was acquired; the caller must not call
// AllocPassResource/AllocTransientCommandBuffer until BeginFrame
// succeeds.
func (p *Pool) BeginFrame(slotIndex int, surf *surface.Driver) (AcquireResult, error) {
	slot := p.slots[slotIndex]

	if _, err := p.device.WaitFence(slot.fence, ^uint64(0)); err != nil {
		return Error, err
	}
	p.device.ResetFence(slot.fence)

	slot.releaseTransients(p.device, p.textureStates, p.bufferStates)
	for _, pool := range slot.commandPools {
		if pool != nil {
			pool.Reset()
		}
	}
	slot.descriptorPool.Reset()
	slot.arena.Reset()
	slot.collectCompletedTimings(p.device)

	slot.surfaceTexture = nil
	slot.haveFrame = true

	if surf == nil {
		return Ok, nil
	}
	tex, result := surf.Acquire(slot.frameSemaphore)
	if result != Ok {
		slot.haveFrame = false
		return result, nil
	}
	slot.surfaceTexture = tex
	return Ok, nil
}

// EndFrame asserts no profiling scope is still open and closes out the
// slot's frame (4.H).
func (p *Pool) EndFrame(slotIndex int) error {
	slot := p.slots[slotIndex]
	if len(slot.activeScopes) != 0 {
		return ErrProfilingScopeStillActive
	}
	slot.haveFrame = false
	return nil
}

// SurfaceTexture returns the texture acquired by the most recent
// BeginFrame call, or nil if none was acquired.
func (p *Pool) SurfaceTexture(slotIndex int) hal.SurfaceTexture {
	return p.slots[slotIndex].surfaceTexture
}

// FrameSemaphore returns the slot's binary frame semaphore.
func (p *Pool) FrameSemaphore(slotIndex int) hal.Semaphore {
	return p.slots[slotIndex].frameSemaphore
}

// PreviousTimings returns the profiling timings resolved at this slot's
// latest BeginFrame, from the scopes the slot recorded on its previous
// use (4.H, S6).
func (p *Pool) PreviousTimings(slotIndex int) []FrameTiming {
	return p.slots[slotIndex].previousTimings
}

// AllocScratch bump-allocates size bytes aligned to align from the slot's
// CPU arena, for pass-local host-side scratch (e.g. building a descriptor
// write list or a submit payload) that must not heap-allocate per frame
// (4.G arena, 4.H submit_command_buffers). It does not participate in
// transient-resource or barrier-engine tracking; see AllocPassResource
// for that.
func (p *Pool) AllocScratch(slotIndex int, size, align uint64) ([]byte, error) {
	slot := p.slots[slotIndex]
	if !slot.haveFrame {
		return nil, ErrNoFrame
	}
	a, err := slot.arena.Alloc(size, align)
	if err != nil {
		return nil, err
	}
	return a.Data, nil
}

// PassResource is the render graph's handle to a pass resource returned
// by AllocPassResource: either a texture (Texture/View set) or a buffer
// (Buffer set) -- 4.H's graph-level "Resource."
type PassResource struct {
	Texture hal.Texture
	View    hal.TextureView
	Buffer  hal.Buffer
}

// IsTexture reports whether this resource is a texture.
func (r PassResource) IsTexture() bool { return r.Texture != nil }

// PassResourceDesc is one alloc_pass_resource call (4.H). Set exactly one
// of TextureRequest/BufferRequest to allocate a new transient resource,
// remembered in the slot's transient list and released the next time the
// slot is reused; set AdoptTexture(+AdoptTextureView) or AdoptBuffer to
// adopt a caller-owned resource for this frame only.
type PassResourceDesc struct {
	TextureRequest *resource.TextureRequest
	BufferRequest  *resource.BufferRequest

	AdoptTexture     hal.Texture
	AdoptTextureView hal.TextureView
	AdoptBuffer      hal.Buffer
}

// AllocPassResource allocates a new transient texture or buffer through
// the resource package (device-local memory requested for buffers,
// sequencing any initial upload through staging) or adopts a caller-owned one, per 4.H
// alloc_pass_resource. A transient texture allocated with initial data
// starts tracked in ShaderReadOnlyOptimal; every other resource starts
// tracked in its zero state (layout Undefined, last_release_stage
// TopOfPipe), matching the spec's default.
func (p *Pool) AllocPassResource(slotIndex int, desc PassResourceDesc) (PassResource, error) {
	slot := p.slots[slotIndex]
	if !slot.haveFrame {
		return PassResource{}, ErrNoFrame
	}

	switch {
	case desc.TextureRequest != nil:
		tex, err := resource.AllocateTexture(p.device, p.stagingEngine, p.transferQueue, *desc.TextureRequest)
		if err != nil {
			return PassResource{}, err
		}
		slot.transientTextures = append(slot.transientTextures, tex)
		p.textureStates[tex.Texture] = &resourceState{stage: hal.PipelineStageTopOfPipe, layout: tex.Layout}
		return PassResource{Texture: tex.Texture, View: tex.View}, nil

	case desc.BufferRequest != nil:
		buf, err := resource.AllocateBuffer(p.device, p.stagingEngine, p.transferQueue, *desc.BufferRequest)
		if err != nil {
			return PassResource{}, err
		}
		slot.transientBuffers = append(slot.transientBuffers, buf)
		p.bufferStates[buf.Buffer] = &resourceState{stage: hal.PipelineStageTopOfPipe}
		return PassResource{Buffer: buf.Buffer}, nil

	case desc.AdoptTexture != nil:
		return PassResource{Texture: desc.AdoptTexture, View: desc.AdoptTextureView}, nil

	case desc.AdoptBuffer != nil:
		return PassResource{Buffer: desc.AdoptBuffer}, nil

	default:
		return PassResource{}, ErrEmptyPassResourceDesc
	}
}

// AllocTransientCommandBuffer allocates a command encoder from the
// slot's transient pool for queue (4.G).
func (p *Pool) AllocTransientCommandBuffer(slotIndex int, queue hal.QueueKind) (hal.CommandEncoder, error) {
	slot := p.slots[slotIndex]
	if !slot.haveFrame {
		return nil, ErrNoFrame
	}
	pool := slot.commandPools[queue]
	if pool == nil {
		return nil, fmt.Errorf("rendergraph: no transient command pool for queue %d", queue)
	}
	return pool.Allocate()
}

// TransitionTexture resolves state's acquire/release stages, and, if the
// resulting acquire point differs from tex's last recorded state, emits
// exactly one image barrier moving it there; it then records the
// release point as the new last-release state (4.H steps 1-4, 9).
func (p *Pool) TransitionTexture(enc hal.CommandEncoder, tex hal.Texture, state ResourceStateDesc, rng hal.TextureRange) error {
	acquireStage, releaseStage, err := state.resolveStages()
	if err != nil {
		return err
	}

	prev, ok := p.textureStates[tex]
	if !ok {
		prev = &resourceState{stage: hal.PipelineStageTopOfPipe, layout: hal.ImageLayoutUndefined}
		p.textureStates[tex] = prev
	}
	if prev.stage == acquireStage && prev.access == state.AcquireAccess && prev.layout == state.Layout {
		return nil
	}

	enc.PipelineBarrier([]hal.ImageBarrier{hal.BuildImageBarrier(hal.ImageBarrierDesc{
		Texture:   tex,
		SrcStage:  prev.stage,
		DstStage:  acquireStage,
		SrcAccess: prev.access,
		DstAccess: state.AcquireAccess,
		OldLayout: prev.layout,
		NewLayout: state.Layout,
		SrcQueue:  state.QueueFamily,
		DstQueue:  state.QueueFamily,
		Range:     rng,
	})}, nil)

	prev.stage, prev.access, prev.layout = releaseStage, state.ReleaseAccess, state.Layout
	return nil
}

// TransitionBuffer is TransitionTexture's buffer counterpart; buffers
// carry no layout (4.H).
func (p *Pool) TransitionBuffer(enc hal.CommandEncoder, buf hal.Buffer, state ResourceStateDesc, offset, size uint64) error {
	acquireStage, releaseStage, err := state.resolveStages()
	if err != nil {
		return err
	}

	prev, ok := p.bufferStates[buf]
	if !ok {
		prev = &resourceState{stage: hal.PipelineStageTopOfPipe}
		p.bufferStates[buf] = prev
	}
	if prev.stage == acquireStage && prev.access == state.AcquireAccess {
		return nil
	}

	enc.PipelineBarrier(nil, []hal.BufferBarrier{hal.BuildBufferBarrier(hal.BufferBarrierDesc{
		Buffer:    buf,
		SrcStage:  prev.stage,
		DstStage:  acquireStage,
		SrcAccess: prev.access,
		DstAccess: state.AcquireAccess,
		SrcQueue:  state.QueueFamily,
		DstQueue:  state.QueueFamily,
		Offset:    offset,
		Size:      size,
	})})

	prev.stage, prev.access = releaseStage, state.ReleaseAccess
	return nil
}

func (p *Pool) pushScope(slotIndex int, enc hal.CommandEncoder, name string) *ProfilingScope {
	slot := p.slots[slotIndex]
	scope := &ProfilingScope{Name: name, beginQuery: slot.nextQueryIndex}
	slot.nextQueryIndex++
	enc.WriteTimestamp(slot.querySet, scope.beginQuery, hal.PipelineStageTopOfPipe)
	slot.activeScopes = append(slot.activeScopes, scope)
	return scope
}

func (p *Pool) popScope(slotIndex int, enc hal.CommandEncoder, scope *ProfilingScope) {
	slot := p.slots[slotIndex]
	scope.endQuery = slot.nextQueryIndex
	slot.nextQueryIndex++
	enc.WriteTimestamp(slot.querySet, scope.endQuery, hal.PipelineStageBottomOfPipe)
	slot.popScope(scope)
}

// RenderTarget describes one color render target passed to
// BeginGraphicsPass: the texture/view backing it, its extent (used for
// the pass's default viewport/scissor), its load/store ops and clear
// value, and optionally an override resource state. A zero State uses
// the pass's default color-attachment access/stage (4.H).
type RenderTarget struct {
	Texture hal.Texture
	View    hal.TextureView
	Extent  types.Extent3D

	LoadOp  types.LoadOp
	StoreOp types.StoreOp
	Clear   types.Color

	State ResourceStateDesc
}

// DepthTarget is RenderTarget's depth/stencil counterpart.
type DepthTarget struct {
	Texture hal.Texture
	View    hal.TextureView
	Extent  types.Extent3D

	DepthLoadOp    types.LoadOp
	DepthStoreOp   types.StoreOp
	DepthClear     float32
	StencilLoadOp  types.LoadOp
	StencilStoreOp types.StoreOp
	StencilClear   uint32

	State ResourceStateDesc
}

// OtherResourceState is one of the "other_resource_states" a graphics,
// compute, or transfer pass declares alongside its render targets (4.H):
// any texture or buffer the pass reads or writes that isn't itself a
// render target. Set exactly one of Texture or Buffer.
type OtherResourceState struct {
	Texture hal.Texture
	Range   hal.TextureRange

	Buffer       hal.Buffer
	Offset, Size uint64

	State ResourceStateDesc
}

// GraphicsPassDesc is one begin_graphics_pass call (4.H): the union of
// render targets, an optional depth target, and any other resource
// states the pass declares. MinDepth/MaxDepth default to [0, 1] when both
// are left zero.
type GraphicsPassDesc struct {
	RenderTargets []RenderTarget
	DepthTarget   *DepthTarget
	Other         []OtherResourceState

	MinDepth, MaxDepth float32
}

// BeginGraphicsPass pushes a named profiling scope, emits barriers for
// the union of render_targets + depth_target + other_resource_states
// (applying the default color/depth access and stage where a target did
// not override State), opens a dynamic-rendering scope with one color
// attachment per render target and an optional depth attachment, and
// sets the viewport/scissor from the first render target's (or depth
// target's) extent (4.H).
func (p *Pool) BeginGraphicsPass(slotIndex int, enc hal.CommandEncoder, desc GraphicsPassDesc, name string) (hal.RenderPassEncoder, *ProfilingScope, error) {
	scope := p.pushScope(slotIndex, enc, name)

	var extent types.Extent3D
	colorAttachments := make([]hal.RenderPassColorAttachment, len(desc.RenderTargets))
	for i, rt := range desc.RenderTargets {
		state := rt.State
		if state.isZero() {
			state = defaultColorTargetState()
		}
		if err := p.TransitionTexture(enc, rt.Texture, state, fullRange(rt.Extent, 1)); err != nil {
			p.popScope(slotIndex, enc, scope)
			return nil, nil, err
		}
		colorAttachments[i] = hal.RenderPassColorAttachment{
			View:       rt.View,
			LoadOp:     rt.LoadOp,
			StoreOp:    rt.StoreOp,
			ClearColor: rt.Clear,
		}
		if i == 0 {
			extent = rt.Extent
		}
	}

	var depthAttach *hal.RenderPassDepthStencilAttachment
	if dt := desc.DepthTarget; dt != nil {
		state := dt.State
		if state.isZero() {
			state = defaultDepthTargetState()
		}
		if err := p.TransitionTexture(enc, dt.Texture, state, fullRange(dt.Extent, 1)); err != nil {
			p.popScope(slotIndex, enc, scope)
			return nil, nil, err
		}
		depthAttach = &hal.RenderPassDepthStencilAttachment{
			View:           dt.View,
			DepthLoadOp:    dt.DepthLoadOp,
			DepthStoreOp:   dt.DepthStoreOp,
			DepthClear:     dt.DepthClear,
			StencilLoadOp:  dt.StencilLoadOp,
			StencilStoreOp: dt.StencilStoreOp,
			StencilClear:   dt.StencilClear,
		}
		if len(desc.RenderTargets) == 0 {
			extent = dt.Extent
		}
	}

	for _, other := range desc.Other {
		var err error
		if other.Texture != nil {
			err = p.TransitionTexture(enc, other.Texture, other.State, other.Range)
		} else {
			err = p.TransitionBuffer(enc, other.Buffer, other.State, other.Offset, other.Size)
		}
		if err != nil {
			p.popScope(slotIndex, enc, scope)
			return nil, nil, err
		}
	}

	passEnc := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		ColorAttachments:   colorAttachments,
		DepthStencilAttach: depthAttach,
	})

	minDepth, maxDepth := desc.MinDepth, desc.MaxDepth
	if minDepth == 0 && maxDepth == 0 {
		maxDepth = 1
	}
	x, y, w, h, _, _ := FullViewport(extent.Width, extent.Height)
	passEnc.SetViewport(x, y, w, h, minDepth, maxDepth)
	passEnc.SetScissor(uint32(x), uint32(y), extent.Width, extent.Height)

	return passEnc, scope, nil
}

// EndGraphicsPass ends passEncoder and pops scope.
func (p *Pool) EndGraphicsPass(slotIndex int, enc hal.CommandEncoder, passEncoder hal.RenderPassEncoder, scope *ProfilingScope) {
	passEncoder.End()
	p.popScope(slotIndex, enc, scope)
}

// BeginComputePass pushes a named profiling scope, emits barriers for
// other, and opens a compute pass (4.H: "Same structure without
// render-target bookkeeping").
func (p *Pool) BeginComputePass(slotIndex int, enc hal.CommandEncoder, other []OtherResourceState, name string) (hal.ComputePassEncoder, *ProfilingScope, error) {
	scope := p.pushScope(slotIndex, enc, name)
	for _, o := range other {
		var err error
		if o.Texture != nil {
			err = p.TransitionTexture(enc, o.Texture, o.State, o.Range)
		} else {
			err = p.TransitionBuffer(enc, o.Buffer, o.State, o.Offset, o.Size)
		}
		if err != nil {
			p.popScope(slotIndex, enc, scope)
			return nil, nil, err
		}
	}
	return enc.BeginComputePass(), scope, nil
}

// EndComputePass ends passEncoder and pops scope.
func (p *Pool) EndComputePass(slotIndex int, enc hal.CommandEncoder, passEncoder hal.ComputePassEncoder, scope *ProfilingScope) {
	passEncoder.End()
	p.popScope(slotIndex, enc, scope)
}

// BeginTransferPass pushes a named profiling scope and emits barriers for
// other around plain copy commands recorded directly on enc (9: transfer
// work is recorded as a sequence of copies on a transfer-capable encoder,
// with no pass-encoder form of its own -- "transfer-as-compute" in
// spec.md's phrasing).
func (p *Pool) BeginTransferPass(slotIndex int, enc hal.CommandEncoder, other []OtherResourceState, name string) (*ProfilingScope, error) {
	scope := p.pushScope(slotIndex, enc, name)
	for _, o := range other {
		var err error
		if o.Texture != nil {
			err = p.TransitionTexture(enc, o.Texture, o.State, o.Range)
		} else {
			err = p.TransitionBuffer(enc, o.Buffer, o.State, o.Offset, o.Size)
		}
		if err != nil {
			p.popScope(slotIndex, enc, scope)
			return nil, err
		}
	}
	return scope, nil
}

// EndTransferPass pops scope.
func (p *Pool) EndTransferPass(slotIndex int, enc hal.CommandEncoder, scope *ProfilingScope) {
	p.popScope(slotIndex, enc, scope)
}

// SubmitCommandBuffers submits cmds on queue, waiting on the slot's
// frame semaphore when a surface image was acquired this frame and
// signalling the slot's fence (4.H submit_command_buffers).
func (p *Pool) SubmitCommandBuffers(slotIndex int, queue hal.Queue, cmds []hal.CommandBuffer) error {
	slot := p.slots[slotIndex]
	var waits []hal.SemaphoreWait
	if slot.surfaceTexture != nil {
		waits = []hal.SemaphoreWait{{Semaphore: slot.frameSemaphore, Stage: hal.PipelineStageColorAttachmentOutput}}
	}
	return queue.Submit(cmds, waits, nil, slot.fence, 1)
}

// Present presents the slot's acquired surface texture, if any (4.H).
// A ShouldRebuild result means the caller must call Rebuild before the
// next BeginFrame.
func (p *Pool) Present(slotIndex int, queue hal.Queue, surf *surface.Driver) AcquireResult {
	slot := p.slots[slotIndex]
	if slot.surfaceTexture == nil {
		return Ok
	}
	return surf.Present(queue, slot.surfaceTexture, slot.frameSemaphore)
}

// FullViewport returns a viewport spanning the full width x height with
// a [0,1] depth range, float32 math the way soypat-glgl's ms3 package
// does its own vector/matrix arithmetic (SPEC_FULL.md section 3).
func FullViewport(width, height uint32) (x, y, w, h, minDepth, maxDepth float32) {
	return 0, 0, math.Max(float32(width), 0), math.Max(float32(height), 0), 0, 1
}

// Rebuild runs surf.Rebuild on the pool's dedicated render thread,
// keeping the device-wide idle wait off the caller's thread (grounded
// on internal/thread's UI/render-thread separation).
func (p *Pool) Rebuild(surf *surface.Driver, width, height uint32) error {
	var rebuildErr error
	p.renderLoop.RunOnRenderThreadVoid(func() {
		rebuildErr = surf.Rebuild(width, height)
	})
	return rebuildErr
}
