// Package hal declares the explicit-graphics-API surface the rest of this
// module is parameterized over (6. EXTERNAL INTERFACES): queues split into
// graphics/compute/transfer/present, images/buffers/raw device memory with
// type-based suitability masks, timeline and binary semaphores, fences,
// command pools with a transient hint, split-stage/access pipeline
// barriers, dynamic rendering scopes, swapchains, buffer-device-address
// queries, and GPU timestamp queries.
//
// Backend packages (only the noop mock ships in this module) implement
// these interfaces; everything above this package -- the allocators, the
// resource and barrier builders, the surface driver, and the render graph
// -- talks only to hal.
package hal

import "github.com/gogpu/graphcore/types"

// Backend identifies a graphics backend implementation, registered
// globally via RegisterBackend so callers can look one up by its
// types.Backend variant.
type Backend interface {
	Variant() types.Backend
	CreateInstance(desc *InstanceDescriptor) (Instance, error)
}

// InstanceDescriptor configures instance creation.
type InstanceDescriptor = types.InstanceDescriptor

// Instance is the entry point for GPU operations: adapter enumeration and
// surface creation from platform window handles (6. Window system).
type Instance interface {
	// CreateSurface creates a rendering surface from platform handles.
	// displayHandle and windowHandle are opaque and platform-specific;
	// the core never interprets them itself.
	CreateSurface(displayHandle, windowHandle uintptr) (Surface, error)

	// EnumerateAdapters enumerates available physical GPUs.
	EnumerateAdapters() []ExposedAdapter

	Destroy()
}

// ExposedAdapter bundles a physical GPU with the metadata needed to select it.
type ExposedAdapter struct {
	Adapter Adapter
	Info    types.AdapterInfo
}

// Adapter represents a physical GPU.
type Adapter interface {
	// Open opens a logical device with the requested features.
	Open(features types.Features) (OpenDevice, error)

	// MemoryProperties returns the physical device's memory-type and
	// memory-heap tables, consumed by the GPU allocator's memory-type
	// selection (4.C).
	MemoryProperties() types.MemoryProperties

	// SurfaceCapabilities returns capabilities for a specific surface,
	// or nil if the adapter is not compatible with it.
	SurfaceCapabilities(surface Surface) *SurfaceCapabilities

	Destroy()
}

// OpenDevice bundles the device and its four queues, created atomically.
type OpenDevice struct {
	Device Device
	Queues [QueueCount]Queue
}

// QueueKind enumerates the core's four logical queues (3. Data model,
// 6. External interfaces).
type QueueKind uint32

const (
	QueuePresent QueueKind = iota
	QueueGraphics
	QueueCompute
	QueueTransfer
	QueueCount
)

// Device creates and destroys GPU resources and command pools.
type Device interface {
	CreateBuffer(desc *types.BufferDescriptor) (Buffer, error)
	DestroyBuffer(buffer Buffer)

	CreateTexture(desc *types.TextureDescriptor) (Texture, error)
	DestroyTexture(texture Texture)

	CreateTextureView(texture Texture, desc *types.TextureViewDescriptor) (TextureView, error)
	DestroyTextureView(view TextureView)

	// AllocateMemory and MapMemory back the GPU memory allocator's roots
	// (4.C): one call per root, sized maxAllocationSize, selected by
	// memory-type index.
	AllocateMemory(memoryTypeIndex uint32, size uint64) (DeviceMemory, error)
	FreeMemory(memory DeviceMemory)
	MapMemory(memory DeviceMemory) (ptr []byte, err error)

	CreateCommandPool(queue QueueKind, transient bool) (CommandPool, error)
	DestroyCommandPool(pool CommandPool)

	CreateDescriptorPool(maxSets uint32) (DescriptorPool, error)
	DestroyDescriptorPool(pool DescriptorPool)

	CreateFence(signaled bool) (Fence, error)
	DestroyFence(fence Fence)
	WaitFence(fence Fence, timeoutNs uint64) (signaled bool, err error)
	ResetFence(fence Fence)

	CreateBinarySemaphore() (Semaphore, error)
	CreateTimelineSemaphore(initialValue uint64) (Semaphore, error)
	DestroySemaphore(sem Semaphore)
	WaitTimelineSemaphore(sem Semaphore, value uint64) error

	CreateQuerySet(kind QueryKind, count uint32) (QuerySet, error)
	DestroyQuerySet(set QuerySet)
	TimestampPeriodNanoseconds() float64

	WaitIdle()
	Destroy()
}

// QueryKind enumerates the query types the timer manager needs.
type QueryKind uint32

const (
	QueryKindTimestamp QueryKind = iota
)

// DeviceMemory is a single large driver allocation (a GPU memory root, 4.C).
type DeviceMemory interface {
	Resource
}

// Queue submits recorded commands and presents surface textures.
type Queue interface {
	// Submit issues one queue submission waiting on waits, recording
	// cmds, and signaling signals plus, if fence is non-nil, fence at
	// fenceValue (4.H submit_command_buffers).
	Submit(cmds []CommandBuffer, waits []SemaphoreWait, signals []Semaphore, fence Fence, fenceValue uint64) error

	// Present issues a present waiting on waitSemaphore.
	Present(surface Surface, texture SurfaceTexture, waitSemaphore Semaphore) (suboptimal bool, err error)
}

// SemaphoreWait pairs a semaphore with the pipeline stage that must wait on it.
type SemaphoreWait struct {
	Semaphore Semaphore
	Stage     PipelineStage
	// Value is the value to wait for when Semaphore is a timeline
	// semaphore; ignored for binary semaphores.
	Value uint64
}

// CommandPool allocates and resets command encoders for one queue.
type CommandPool interface {
	Allocate() (CommandEncoder, error)
	Reset()
}

// DescriptorPool allocates descriptor sets and can be reset wholesale,
// exactly as the render graph resets a frame slot's transient pool (4.G).
type DescriptorPool interface {
	Reset()
}

// SurfaceCapabilities describes what a surface supports.
type SurfaceCapabilities struct {
	Formats          []SurfaceFormat
	PresentModes     []PresentMode
	MinImageCount    uint32
	MaxImageCount    uint32
	CurrentExtent    types.Extent3D
	GraphicsFamily   uint32
	PresentFamily    uint32
}

// SurfaceFormat pairs a texture format with its color space flag.
type SurfaceFormat struct {
	Format types.TextureFormat
	SRGB   bool
}

// PresentMode mirrors VkPresentModeKHR's subset this spec cares about (4.F).
type PresentMode uint8

const (
	PresentModeFIFO PresentMode = iota
	PresentModeMailbox
)

// SurfaceConfiguration configures a surface for presentation (4.F Build).
type SurfaceConfiguration struct {
	Width, Height uint32
	Format        types.TextureFormat
	PresentMode   PresentMode
	FramebufferCount uint32
}
