package noop

import (
	"sync/atomic"

	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/types"
)

// Device implements hal.Device for the mock backend.
type Device struct {
	nextAddress atomic.Uint64
}

// CreateBuffer allocates a backing Go slice and a monotonically increasing
// fake device address (4.E: callers always request DeviceAddress()).
func (d *Device) CreateBuffer(desc *types.BufferDescriptor) (hal.Buffer, error) {
	b := &Buffer{
		data:    make([]byte, desc.Size),
		size:    desc.Size,
		address: d.nextAddress.Add(256),
	}
	if len(desc.InitialData) > 0 {
		copy(b.data[desc.InitialWriteOffset:], desc.InitialData)
	}
	return b, nil
}

// DestroyBuffer is a no-op.
func (d *Device) DestroyBuffer(_ hal.Buffer) {}

// CreateTexture creates a mock texture.
func (d *Device) CreateTexture(desc *types.TextureDescriptor) (hal.Texture, error) {
	return &Texture{desc: *desc}, nil
}

// DestroyTexture is a no-op.
func (d *Device) DestroyTexture(_ hal.Texture) {}

// CreateTextureView creates a mock texture view.
func (d *Device) CreateTextureView(tex hal.Texture, desc *types.TextureViewDescriptor) (hal.TextureView, error) {
	return &Resource{}, nil
}

// DestroyTextureView is a no-op.
func (d *Device) DestroyTextureView(_ hal.TextureView) {}

// AllocateMemory returns a mock device memory root backed by a Go slice.
func (d *Device) AllocateMemory(_ uint32, size uint64) (hal.DeviceMemory, error) {
	return &DeviceMemory{bytes: make([]byte, size)}, nil
}

// FreeMemory is a no-op.
func (d *Device) FreeMemory(_ hal.DeviceMemory) {}

// MapMemory returns the root's backing slice directly, since the mock
// backend is always "host visible".
func (d *Device) MapMemory(memory hal.DeviceMemory) ([]byte, error) {
	return memory.(*DeviceMemory).bytes, nil
}

// CreateCommandPool creates a mock command pool for the given queue.
func (d *Device) CreateCommandPool(_ hal.QueueKind, _ bool) (hal.CommandPool, error) {
	return &CommandPool{}, nil
}

// DestroyCommandPool is a no-op.
func (d *Device) DestroyCommandPool(_ hal.CommandPool) {}

// CreateDescriptorPool creates a mock descriptor pool.
func (d *Device) CreateDescriptorPool(_ uint32) (hal.DescriptorPool, error) {
	return &DescriptorPool{}, nil
}

// DestroyDescriptorPool is a no-op.
func (d *Device) DestroyDescriptorPool(_ hal.DescriptorPool) {}

// CreateFence creates a mock fence with an atomic counter.
func (d *Device) CreateFence(signaled bool) (hal.Fence, error) {
	f := &Fence{}
	if signaled {
		f.value.Store(1)
	}
	return f, nil
}

// DestroyFence is a no-op.
func (d *Device) DestroyFence(_ hal.Fence) {}

// WaitFence reports whether the fence's counter is non-zero; the mock
// backend never actually blocks since nothing signals asynchronously.
func (d *Device) WaitFence(fence hal.Fence, _ uint64) (bool, error) {
	f, ok := fence.(*Fence)
	if !ok {
		return true, nil
	}
	return f.value.Load() > 0, nil
}

// ResetFence resets a fence to the unsignaled state.
func (d *Device) ResetFence(fence hal.Fence) {
	if f, ok := fence.(*Fence); ok {
		f.value.Store(0)
	}
}

// CreateBinarySemaphore creates a mock binary semaphore.
func (d *Device) CreateBinarySemaphore() (hal.Semaphore, error) {
	return &Semaphore{}, nil
}

// CreateTimelineSemaphore creates a mock timeline semaphore seeded at
// initialValue, exactly matching the staging engine's signal counter (4.D).
func (d *Device) CreateTimelineSemaphore(initialValue uint64) (hal.Semaphore, error) {
	s := &Semaphore{}
	s.value.Store(initialValue)
	return s, nil
}

// DestroySemaphore is a no-op.
func (d *Device) DestroySemaphore(_ hal.Semaphore) {}

// WaitTimelineSemaphore always succeeds immediately for the mock backend.
func (d *Device) WaitTimelineSemaphore(_ hal.Semaphore, _ uint64) error {
	return nil
}

// CreateQuerySet creates a mock query set with count slots, all initially
// unready, matching ib_TimerQueryNotReady semantics from the source engine.
func (d *Device) CreateQuerySet(kind hal.QueryKind, count uint32) (hal.QuerySet, error) {
	return &QuerySet{
		kind:   kind,
		values: make([]uint64, count),
		ready:  make([]bool, count),
	}, nil
}

// DestroyQuerySet is a no-op.
func (d *Device) DestroyQuerySet(_ hal.QuerySet) {}

// TimestampPeriodNanoseconds returns 1.0, i.e. raw query values are already
// in nanoseconds for the mock backend.
func (d *Device) TimestampPeriodNanoseconds() float64 { return 1.0 }

// WaitIdle is a no-op for the mock device.
func (d *Device) WaitIdle() {}

// Destroy is a no-op for the mock device.
func (d *Device) Destroy() {}
