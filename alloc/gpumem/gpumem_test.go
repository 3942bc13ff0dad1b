package gpumem_test

import (
	"testing"

	"github.com/gogpu/graphcore/alloc/gpumem"
	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/hal/noop"
	"github.com/gogpu/graphcore/types"
)

func openDevice(t *testing.T) (hal.Device, types.MemoryProperties, func()) {
	t.Helper()
	backend := noop.Backend{}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	adapters := instance.EnumerateAdapters()
	open, err := adapters[0].Adapter.Open(types.Features(0))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	props := adapters[0].Adapter.MemoryProperties()
	return open.Device, props, func() {
		open.Device.Destroy()
		instance.Destroy()
	}
}

func deviceLocalRequest(size uint64) gpumem.Request {
	return gpumem.Request{
		Size:                size,
		Align:               1,
		TypeBits:            ^uint32(0),
		RequiredMemoryFlags: types.MemoryFlagDeviceLocal,
	}
}

// TestAllocatorRefillsAcrossRoots is S3 (spec.md 8): with a 64 MiB root
// and a 2-root cap, 130 allocations of 1 MiB fill root 0, then root 1,
// then fail; freeing root 0's allocations lets the retry succeed there.
func TestAllocatorRefillsAcrossRoots(t *testing.T) {
	device, props, cleanup := openDevice(t)
	defer cleanup()

	const rootSize = 64 << 20
	const allocSize = 1 << 20
	a := gpumem.New(device, props, gpumem.WithRootSize(rootSize), gpumem.WithMaxRoots(2))

	var allocs []gpumem.Allocation
	for i := 0; i < 128; i++ {
		alloc, err := a.Allocate(deviceLocalRequest(allocSize))
		if err != nil {
			t.Fatalf("Allocate #%d: %v", i, err)
		}
		allocs = append(allocs, alloc)
	}

	if _, err := a.Allocate(deviceLocalRequest(allocSize)); err == nil {
		t.Fatal("expected the 129th allocation to fail once both roots are full")
	}

	for i := 0; i < 64; i++ {
		a.Free(allocs[i])
	}

	if _, err := a.Allocate(deviceLocalRequest(allocSize)); err != nil {
		t.Fatalf("Allocate after freeing root 0: %v", err)
	}
}

func TestHostVisibleAllocationExposesMappedPointer(t *testing.T) {
	device, props, cleanup := openDevice(t)
	defer cleanup()

	a := gpumem.New(device, props, gpumem.WithRootSize(1<<20))
	req := gpumem.Request{
		Size:                256,
		Align:               16,
		TypeBits:            ^uint32(0),
		RequiredMemoryFlags: types.MemoryFlagDeviceLocal | types.MemoryFlagHostVisible,
	}
	alloc, err := a.Allocate(req)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if alloc.Mapped == nil {
		t.Fatal("expected a non-nil mapped pointer for a host-visible allocation")
	}
	if len(alloc.Mapped) != 256 {
		t.Errorf("mapped length = %d, want 256", len(alloc.Mapped))
	}
}

// TestCloseFreesEveryRoot checks Close tears down every root the
// allocator drew from device and leaves it ready for reuse (4.C teardown).
type countingDevice struct {
	hal.Device
	freed int
}

func (d *countingDevice) FreeMemory(m hal.DeviceMemory) {
	d.freed++
	d.Device.FreeMemory(m)
}

func TestCloseFreesEveryRoot(t *testing.T) {
	device, props, cleanup := openDevice(t)
	defer cleanup()

	counter := &countingDevice{Device: device}
	a := gpumem.New(counter, props, gpumem.WithRootSize(1<<20))
	if _, err := a.Allocate(deviceLocalRequest(256)); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	a.Close()

	if counter.freed != 1 {
		t.Errorf("FreeMemory calls after Close = %d, want 1", counter.freed)
	}

	if _, err := a.Allocate(deviceLocalRequest(256)); err != nil {
		t.Fatalf("Allocate after Close: %v", err)
	}
}

func TestNoSuitableMemoryTypeReportsError(t *testing.T) {
	device, props, cleanup := openDevice(t)
	defer cleanup()

	a := gpumem.New(device, props)
	req := gpumem.Request{Size: 64, Align: 1, TypeBits: 0}
	if _, err := a.Allocate(req); err != gpumem.ErrNoSuitableMemoryType {
		t.Fatalf("err = %v, want ErrNoSuitableMemoryType", err)
	}
}
