package noop

import (
	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/types"
)

// Backend implements hal.Backend for the in-memory mock backend.
type Backend struct{}

// Variant returns the backend type identifier.
func (Backend) Variant() types.Backend {
	return types.BackendMock
}

// CreateInstance creates a new mock instance. Always succeeds.
func (Backend) CreateInstance(_ *hal.InstanceDescriptor) (hal.Instance, error) {
	return &Instance{}, nil
}

// Instance implements hal.Instance for the mock backend.
type Instance struct{}

// CreateSurface creates a mock surface. Always succeeds regardless of the
// display/window handles, which the mock backend never interprets.
func (i *Instance) CreateSurface(_, _ uintptr) (hal.Surface, error) {
	return &Surface{}, nil
}

// EnumerateAdapters returns a single default mock adapter.
func (i *Instance) EnumerateAdapters() []hal.ExposedAdapter {
	return []hal.ExposedAdapter{
		{
			Adapter: &Adapter{},
			Info: types.AdapterInfo{
				Name:       "Mock Adapter",
				Vendor:     "GoGPU",
				DeviceType: types.DeviceTypeOther,
				Driver:     "noop-1.0",
				DriverInfo: "in-memory mock backend for testing",
				Backend:    types.BackendMock,
			},
		},
	}
}

// Destroy is a no-op for the mock instance.
func (i *Instance) Destroy() {}

// Adapter implements hal.Adapter for the mock backend.
type Adapter struct{}

// Open opens a mock device with four queues backed by the same instance.
func (a *Adapter) Open(_ types.Features) (hal.OpenDevice, error) {
	d := &Device{}
	q := &Queue{device: d}
	return hal.OpenDevice{
		Device: d,
		Queues: [hal.QueueCount]hal.Queue{q, q, q, q},
	}, nil
}

// MemoryProperties returns a single host-visible, device-local memory type
// mirroring a UMA (integrated GPU / Apple-Silicon-style) memory layout, the
// simplest case the allocator's memory-type selection (4.C) must handle.
func (a *Adapter) MemoryProperties() types.MemoryProperties {
	return types.MemoryProperties{
		Types: []types.MemoryType{
			{
				Flags: types.MemoryFlagDeviceLocal | types.MemoryFlagHostVisible | types.MemoryFlagHostCoherent,
				HeapIndex: 0,
			},
		},
		Heaps: []types.MemoryHeap{
			{Size: 4 << 30},
		},
	}
}

// SurfaceCapabilities reports capabilities for any mock surface.
func (a *Adapter) SurfaceCapabilities(_ hal.Surface) *hal.SurfaceCapabilities {
	return &hal.SurfaceCapabilities{
		Formats:       []hal.SurfaceFormat{{Format: types.TextureFormatBGRA8Unorm}},
		PresentModes:  []hal.PresentMode{hal.PresentModeFIFO, hal.PresentModeMailbox},
		MinImageCount: 2,
		MaxImageCount: 3,
	}
}

// Destroy is a no-op for the mock adapter.
func (a *Adapter) Destroy() {}
