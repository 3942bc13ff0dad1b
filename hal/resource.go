package hal

// Resource is the base interface for all GPU resources. Resources must be
// explicitly destroyed to free GPU memory; calling Destroy twice is
// undefined behavior.
type Resource interface {
	Destroy()
}

// Buffer is a GPU buffer allocation (4.E).
type Buffer interface {
	Resource

	// DeviceAddress returns the GPU-visible address of the buffer.
	// Component E always requests this when allocating a buffer.
	DeviceAddress() uint64

	// Size returns the logical size requested at allocation time.
	Size() uint64

	// MappedBytes returns the buffer's host-visible mapped range, or
	// nil if the buffer's backing memory is not host-visible. Staging
	// pages (4.D) are always created host-visible and rely on this.
	MappedBytes() []byte
}

// Texture is a GPU image allocation (4.E).
type Texture interface {
	Resource
}

// TextureView is a view into a texture.
type TextureView interface {
	Resource
}

// CommandBuffer holds recorded GPU commands, immutable after encoding.
type CommandBuffer interface {
	Resource
}

// Fence is a GPU-to-CPU synchronization primitive signaled by monotonically
// increasing values.
type Fence interface {
	Resource
}

// QuerySet is a pool of GPU queries (timestamps, in this spec's scope).
type QuerySet interface {
	Resource

	// Resolve reads back the raw query values written by index range
	// [first, first+count). A false-valued entry in ready means the
	// corresponding query has not completed yet.
	Resolve(first, count uint32) (values []uint64, ready []bool, err error)
}

// Surface is a platform presentation target (4.F).
type Surface interface {
	Resource

	// Configure (re)configures the surface for presentation.
	Configure(device Device, config *SurfaceConfiguration) error

	// Unconfigure removes the surface configuration.
	Unconfigure(device Device)

	// AcquireTexture acquires the next image, waiting up to timeoutNs.
	// Returns ErrSurfaceOutdated when the caller must rebuild the
	// swapchain, ErrTimeout on expiry, or a non-nil err for any other
	// failure -- all three collapse to the tri-state described in 4.F
	// at the surface package boundary.
	AcquireTexture(acquireSemaphore Semaphore, timeoutNs uint64) (tex SurfaceTexture, suboptimal bool, err error)

	// DiscardTexture discards an acquired texture without presenting it.
	DiscardTexture(texture SurfaceTexture)
}

// SurfaceTexture is a texture acquired from a surface.
type SurfaceTexture interface {
	Texture
}

// Semaphore is a GPU-side synchronization primitive (binary or timeline).
type Semaphore interface {
	Resource
}
