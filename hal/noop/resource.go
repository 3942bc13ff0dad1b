package noop

import (
	"sync/atomic"

	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/types"
)

// Resource is a placeholder implementation for HAL resource types that
// carry no mock state of their own.
type Resource struct{}

// Destroy is a no-op.
func (r *Resource) Destroy() {}

// Buffer implements hal.Buffer, backed by a plain Go slice.
type Buffer struct {
	Resource
	data    []byte
	size    uint64
	address uint64
}

// DeviceAddress returns the buffer's fake device address.
func (b *Buffer) DeviceAddress() uint64 { return b.address }

// Size returns the buffer's logical size.
func (b *Buffer) Size() uint64 { return b.size }

// MappedBytes returns the buffer's backing slice directly; the mock
// backend creates every buffer host-visible.
func (b *Buffer) MappedBytes() []byte { return b.data }

// Texture implements hal.Texture.
type Texture struct {
	Resource
	desc types.TextureDescriptor
}

// DeviceMemory implements hal.DeviceMemory, backed by a plain Go slice.
type DeviceMemory struct {
	Resource
	bytes []byte
}

// CommandBuffer implements hal.CommandBuffer, retaining its source encoder
// so tests can inspect what was recorded.
type CommandBuffer struct {
	Resource
	encoder *CommandEncoder
}

// Encoder returns the CommandEncoder that recorded this command buffer.
func (c *CommandBuffer) Encoder() *CommandEncoder { return c.encoder }

// Fence implements hal.Fence with an atomic counter.
type Fence struct {
	Resource
	value atomic.Uint64
}

// Semaphore implements hal.Semaphore. Binary semaphores never advance past
// 1; timeline semaphores are driven directly by value.Store.
type Semaphore struct {
	Resource
	value atomic.Uint64
}

// QuerySet implements hal.QuerySet with a fake monotonic clock standing in
// for GPU timestamps.
type QuerySet struct {
	Resource
	kind   hal.QueryKind
	values []uint64
	ready  []bool
	clock  atomic.Uint64
}

// Resolve returns the raw values and readiness recorded by WriteTimestamp.
func (q *QuerySet) Resolve(first, count uint32) ([]uint64, []bool, error) {
	values := make([]uint64, count)
	ready := make([]bool, count)
	for i := uint32(0); i < count; i++ {
		idx := first + i
		if int(idx) < len(q.values) {
			values[i] = q.values[idx]
			ready[i] = q.ready[idx]
		}
	}
	return values, ready, nil
}

// Surface implements hal.Surface for the mock backend.
type Surface struct {
	Resource
	configured bool
	width      uint32
	height     uint32
}

// Configure validates dimensions and marks the surface configured, matching
// the ErrZeroArea contract real drivers enforce (4.F).
func (s *Surface) Configure(_ hal.Device, config *hal.SurfaceConfiguration) error {
	if config.Width == 0 || config.Height == 0 {
		return hal.ErrZeroArea
	}
	s.configured = true
	s.width, s.height = config.Width, config.Height
	return nil
}

// Unconfigure marks the surface as unconfigured.
func (s *Surface) Unconfigure(_ hal.Device) { s.configured = false }

// AcquireTexture returns a placeholder surface texture. The mock backend
// never goes out of date, so it always reports suboptimal=false.
func (s *Surface) AcquireTexture(_ hal.Semaphore, _ uint64) (hal.SurfaceTexture, bool, error) {
	return &SurfaceTexture{}, false, nil
}

// DiscardTexture is a no-op.
func (s *Surface) DiscardTexture(_ hal.SurfaceTexture) {}

// SurfaceTexture implements hal.SurfaceTexture.
type SurfaceTexture struct {
	Texture
}
