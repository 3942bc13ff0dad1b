package noop_test

import (
	"testing"

	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/hal/noop"
	"github.com/gogpu/graphcore/types"
)

func openMockDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()

	backend := noop.Backend{}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}

	adapters := instance.EnumerateAdapters()
	if len(adapters) != 1 {
		t.Fatalf("expected one adapter, got %d", len(adapters))
	}

	open, err := adapters[0].Adapter.Open(types.Features(0))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	return open.Device, open.Queues[hal.QueueGraphics], func() {
		open.Device.Destroy()
		instance.Destroy()
	}
}

func TestBackendVariant(t *testing.T) {
	if (noop.Backend{}).Variant() != types.BackendMock {
		t.Fatal("expected BackendMock variant")
	}
}

func TestCreateBufferWithInitialData(t *testing.T) {
	device, _, cleanup := openMockDevice(t)
	defer cleanup()

	initial := []byte{1, 2, 3, 4}
	buf, err := device.CreateBuffer(&types.BufferDescriptor{
		Size:        8,
		Usage:       types.BufferUsageStorage | types.BufferUsageDeviceAddress,
		InitialData: initial,
	})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if buf.Size() != 8 {
		t.Errorf("Size() = %d, want 8", buf.Size())
	}
	if buf.DeviceAddress() == 0 {
		t.Error("expected a non-zero device address")
	}
}

func TestMemoryPropertiesReportsHostVisibleDeviceLocal(t *testing.T) {
	backend := noop.Backend{}
	instance, _ := backend.CreateInstance(&hal.InstanceDescriptor{})
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters()
	props := adapters[0].Adapter.MemoryProperties()
	if len(props.Types) == 0 {
		t.Fatal("expected at least one memory type")
	}
	want := types.MemoryFlagDeviceLocal | types.MemoryFlagHostVisible
	if !props.Types[0].Flags.Contains(want) {
		t.Errorf("memory type 0 flags = %v, want to contain %v", props.Types[0].Flags, want)
	}
}

func TestFenceWaitAndReset(t *testing.T) {
	device, _, cleanup := openMockDevice(t)
	defer cleanup()

	fence, err := device.CreateFence(false)
	if err != nil {
		t.Fatalf("CreateFence: %v", err)
	}

	if signaled, _ := device.WaitFence(fence, 0); signaled {
		t.Error("freshly created unsignaled fence should not be signaled")
	}

	device.ResetFence(fence)
	if signaled, _ := device.WaitFence(fence, 0); signaled {
		t.Error("reset fence should not be signaled")
	}
}

func TestCommandEncoderRecordsPipelineBarriers(t *testing.T) {
	device, _, cleanup := openMockDevice(t)
	defer cleanup()

	buf, _ := device.CreateBuffer(&types.BufferDescriptor{Size: 64})

	pool, err := device.CreateCommandPool(hal.QueueGraphics, true)
	if err != nil {
		t.Fatalf("CreateCommandPool: %v", err)
	}
	encoder, err := pool.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := encoder.BeginEncoding(); err != nil {
		t.Fatalf("BeginEncoding: %v", err)
	}

	barrier := hal.BuildBufferBarrier(hal.BufferBarrierDesc{
		Buffer:    buf,
		SrcStage:  hal.PipelineStageTransfer,
		DstStage:  hal.PipelineStageComputeShader,
		SrcAccess: hal.AccessTransferWrite,
		DstAccess: hal.AccessShaderRead,
		Size:      64,
	})
	encoder.PipelineBarrier(nil, []hal.BufferBarrier{barrier})

	cb, err := encoder.EndEncoding()
	if err != nil {
		t.Fatalf("EndEncoding: %v", err)
	}

	mockCB, ok := cb.(*noop.CommandBuffer)
	if !ok {
		t.Fatal("expected *noop.CommandBuffer")
	}
	if len(mockCB.Encoder().BufferBarriers()) != 1 {
		t.Errorf("expected one recorded buffer barrier, got %d", len(mockCB.Encoder().BufferBarriers()))
	}
}

func TestQuerySetResolve(t *testing.T) {
	device, _, cleanup := openMockDevice(t)
	defer cleanup()

	set, err := device.CreateQuerySet(hal.QueryKindTimestamp, 2)
	if err != nil {
		t.Fatalf("CreateQuerySet: %v", err)
	}

	values, ready, err := set.Resolve(0, 2)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ready[0] || ready[1] {
		t.Error("queries should not be ready before any WriteTimestamp")
	}
	_ = values
}

func TestSurfaceAcquireAndPresent(t *testing.T) {
	backend := noop.Backend{}
	instance, _ := backend.CreateInstance(&hal.InstanceDescriptor{})
	defer instance.Destroy()

	surface, err := instance.CreateSurface(0, 0)
	if err != nil {
		t.Fatalf("CreateSurface: %v", err)
	}
	defer surface.Destroy()

	adapters := instance.EnumerateAdapters()
	open, err := adapters[0].Adapter.Open(types.Features(0))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer open.Device.Destroy()

	if err := surface.Configure(open.Device, &hal.SurfaceConfiguration{Width: 800, Height: 600}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	tex, suboptimal, err := surface.AcquireTexture(nil, 100_000_000)
	if err != nil {
		t.Fatalf("AcquireTexture: %v", err)
	}
	if suboptimal {
		t.Error("mock surface should never report suboptimal")
	}

	queue := open.Queues[hal.QueuePresent]
	if _, err := queue.Present(surface, tex, nil); err != nil {
		t.Fatalf("Present: %v", err)
	}
}
