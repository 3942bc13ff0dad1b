// Package config holds the compile-time defaults named throughout the
// spec (6. Configuration): framebuffer count, TLSF second-level bit
// count, fixed-array bounds, and the staging/root allocation sizes.
package config

const (
	// DefaultFramebufferCount is the number of frame slots a render graph
	// pool constructs by default (4.G).
	DefaultFramebufferCount = 2

	// TLSFSecondLevelBits is the number of second-level bits per
	// first-level size class (4.A).
	TLSFSecondLevelBits = 5

	// MaxShaderInputLayouts bounds the number of shader-input layouts a
	// pipeline may reference. Carried from the source engine even though
	// this module has no pipeline type of its own to attach it to.
	MaxShaderInputLayouts = 4

	// MaxTransientCommandBuffers bounds the number of transient command
	// buffers the staging engine may have outstanding at once (4.D).
	MaxTransientCommandBuffers = 256

	// StagingPageSize is the size of one staging-engine page (4.D).
	StagingPageSize = 1 << 20 // 1 MiB

	// RootAllocationSize is the size of one GPU memory allocator root
	// (4.C).
	RootAllocationSize = 1 << 30 // 1 GiB

	// MaxRenderTargets bounds the number of color render targets a
	// single graphics pass may declare (4.H).
	MaxRenderTargets = 32

	// MaxShaderWrites bounds the number of descriptor writes a single
	// pre-sized write buffer may hold.
	MaxShaderWrites = 32

	// CPUArenaPageSize is the page size of each frame slot's CPU arena
	// (4.G).
	CPUArenaPageSize = 1 << 20 // 1 MiB

	// SurfaceAcquireTimeoutNanoseconds bounds how long a swapchain
	// acquire may block before yielding a timeout (4.F, 5).
	SurfaceAcquireTimeoutNanoseconds = 100_000_000 // 100ms

	// DefaultMaxRoots bounds the number of root allocations a single GPU
	// allocator pool may hold before it refuses new roots (4.C).
	DefaultMaxRoots = 32
)
