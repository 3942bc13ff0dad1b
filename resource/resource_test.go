package resource_test

import (
	"testing"

	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/hal/noop"
	"github.com/gogpu/graphcore/resource"
	"github.com/gogpu/graphcore/staging"
	"github.com/gogpu/graphcore/types"
)

func openDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
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
	return open.Device, open.Queues[hal.QueueTransfer], func() {
		open.Device.Destroy()
		instance.Destroy()
	}
}

func TestAllocateTextureWithInitialDataEndsShaderReadOnly(t *testing.T) {
	device, queue, cleanup := openDevice(t)
	defer cleanup()

	stg, err := staging.New(device, queue)
	if err != nil {
		t.Fatalf("staging.New: %v", err)
	}
	defer stg.Close()

	data := make([]byte, 64*64*4)
	tex, err := resource.AllocateTexture(device, stg, queue, resource.TextureRequest{
		Label:                "test",
		Size:                 types.Extent3D{Width: 64, Height: 64, DepthOrArrayLayers: 1},
		Format:               types.TextureFormatRGBA8Unorm,
		Usage:                types.TextureUsageTextureBinding,
		QueueFamilies:        []hal.QueueFamily{hal.QueueFamilyTransfer, hal.QueueFamilyGraphics},
		InitialData:          data,
		InitialDataAlignment: 4,
	})
	if err != nil {
		t.Fatalf("AllocateTexture: %v", err)
	}
	if tex.Layout != hal.ImageLayoutShaderReadOnlyOptimal {
		t.Fatalf("layout = %v, want ShaderReadOnlyOptimal", tex.Layout)
	}
	if tex.Texture == nil || tex.View == nil {
		t.Fatal("expected both a texture and a view")
	}
}

func TestAllocateTextureWithoutInitialDataStaysUndefined(t *testing.T) {
	device, queue, cleanup := openDevice(t)
	defer cleanup()

	stg, err := staging.New(device, queue)
	if err != nil {
		t.Fatalf("staging.New: %v", err)
	}
	defer stg.Close()

	tex, err := resource.AllocateTexture(device, stg, queue, resource.TextureRequest{
		Size:   types.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 1},
		Format: types.TextureFormatRGBA8Unorm,
		Usage:  types.TextureUsageColorAttachment,
	})
	if err != nil {
		t.Fatalf("AllocateTexture: %v", err)
	}
	if tex.Layout != hal.ImageLayoutUndefined {
		t.Fatalf("layout = %v, want Undefined", tex.Layout)
	}
}

func TestAllocateBufferAlwaysRequestsDeviceAddress(t *testing.T) {
	device, queue, cleanup := openDevice(t)
	defer cleanup()

	stg, err := staging.New(device, queue)
	if err != nil {
		t.Fatalf("staging.New: %v", err)
	}
	defer stg.Close()

	buf, err := resource.AllocateBuffer(device, stg, queue, resource.BufferRequest{
		Size:  256,
		Usage: types.BufferUsageStorage,
	})
	if err != nil {
		t.Fatalf("AllocateBuffer: %v", err)
	}
	if buf.Buffer.DeviceAddress() == 0 {
		t.Error("expected a non-zero device address")
	}
}

func TestAllocateBufferWithInitialDataCopiesBytes(t *testing.T) {
	device, queue, cleanup := openDevice(t)
	defer cleanup()

	stg, err := staging.New(device, queue)
	if err != nil {
		t.Fatalf("staging.New: %v", err)
	}
	defer stg.Close()

	data := []byte{1, 2, 3, 4}
	buf, err := resource.AllocateBuffer(device, stg, queue, resource.BufferRequest{
		Size:                 4,
		Usage:                types.BufferUsageStorage,
		InitialData:          data,
		InitialDataAlignment: 4,
	})
	if err != nil {
		t.Fatalf("AllocateBuffer: %v", err)
	}
	got := buf.Buffer.MappedBytes()
	for i, b := range data {
		if got[i] != b {
			t.Fatalf("byte %d = %d, want %d", i, got[i], b)
		}
	}
}

func TestCheckStageFormRejectsBothForms(t *testing.T) {
	if err := resource.CheckStageForm(true, true); err != resource.ErrBothStageForms {
		t.Fatalf("err = %v, want ErrBothStageForms", err)
	}
	if err := resource.CheckStageForm(true, false); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
}
