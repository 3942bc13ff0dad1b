// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hal_test

import (
	"testing"

	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/hal/noop"
	"github.com/gogpu/graphcore/types"
)

// benchHALSink prevents the compiler from optimizing away benchmark results.
var benchHALSink any

// setupHALDevice creates a noop device+queue through the HAL interface.
// Used to measure interface dispatch overhead.
func setupHALDevice(b *testing.B) (hal.Device, hal.Queue, func()) {
	b.Helper()

	api := noop.Backend{}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		b.Fatalf("CreateInstance failed: %v", err)
	}

	adapters := instance.EnumerateAdapters()
	openDevice, err := adapters[0].Adapter.Open(types.Features(0))
	if err != nil {
		instance.Destroy()
		b.Fatalf("Open failed: %v", err)
	}

	cleanup := func() {
		openDevice.Device.Destroy()
		instance.Destroy()
	}

	return openDevice.Device, openDevice.Queues[hal.QueueGraphics], cleanup
}

func encodeOne(b *testing.B, device hal.Device) hal.CommandBuffer {
	b.Helper()
	pool, err := device.CreateCommandPool(hal.QueueGraphics, true)
	if err != nil {
		b.Fatalf("CreateCommandPool failed: %v", err)
	}
	encoder, err := pool.Allocate()
	if err != nil {
		b.Fatalf("Allocate failed: %v", err)
	}
	if err := encoder.BeginEncoding(); err != nil {
		b.Fatalf("BeginEncoding failed: %v", err)
	}
	cb, err := encoder.EndEncoding()
	if err != nil {
		b.Fatalf("EndEncoding failed: %v", err)
	}
	return cb
}

// BenchmarkHALSubmitOverhead measures the overhead of calling Submit through
// the hal.Queue interface. The noop backend does minimal work, so this
// primarily measures interface dispatch overhead.
func BenchmarkHALSubmitOverhead(b *testing.B) {
	b.ReportAllocs()
	device, queue, cleanup := setupHALDevice(b)
	defer cleanup()

	cb := encodeOne(b, device)
	cmdBuffers := []hal.CommandBuffer{cb}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := queue.Submit(cmdBuffers, nil, nil, nil, 0); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkHALCommandEncoding measures the cost of allocating an encoder and
// recording an empty command buffer through the HAL interface.
func BenchmarkHALCommandEncoding(b *testing.B) {
	b.ReportAllocs()
	device, _, cleanup := setupHALDevice(b)
	defer cleanup()

	pool, err := device.CreateCommandPool(hal.QueueGraphics, true)
	if err != nil {
		b.Fatalf("CreateCommandPool failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		encoder, _ := pool.Allocate()
		_ = encoder.BeginEncoding()
		cb, _ := encoder.EndEncoding()
		benchHALSink = cb
	}
}

// BenchmarkHALBufferCreation measures buffer creation through the HAL interface.
func BenchmarkHALBufferCreation(b *testing.B) {
	sizes := []struct {
		name string
		size uint64
	}{
		{"256B", 256},
		{"4KB", 4096},
		{"1MB", 1 << 20},
	}

	for _, s := range sizes {
		b.Run(s.name, func(b *testing.B) {
			b.ReportAllocs()
			device, _, cleanup := setupHALDevice(b)
			defer cleanup()

			desc := &types.BufferDescriptor{
				Label: "bench-buffer",
				Size:  s.size,
				Usage: types.BufferUsageVertex | types.BufferUsageCopyDst,
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf, _ := device.CreateBuffer(desc)
				device.DestroyBuffer(buf)
			}
		})
	}
}

// BenchmarkHALTextureCreation measures texture creation through the HAL interface.
func BenchmarkHALTextureCreation(b *testing.B) {
	b.ReportAllocs()
	device, _, cleanup := setupHALDevice(b)
	defer cleanup()

	desc := &types.TextureDescriptor{
		Label:         "bench-tex",
		Size:          types.Extent3D{Width: 512, Height: 512, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		LayerCount:    1,
		Format:        types.TextureFormatRGBA8Unorm,
		Usage:         types.TextureUsageTextureBinding,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tex, _ := device.CreateTexture(desc)
		device.DestroyTexture(tex)
	}
}

// BenchmarkHALRenderPassEncoding measures the full render pass recording path
// through the HAL interface: allocate -> begin -> render pass -> draw -> end -> finish.
func BenchmarkHALRenderPassEncoding(b *testing.B) {
	b.ReportAllocs()
	device, _, cleanup := setupHALDevice(b)
	defer cleanup()

	texture, _ := device.CreateTexture(&types.TextureDescriptor{
		Size:          types.Extent3D{Width: 800, Height: 600, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		LayerCount:    1,
		Format:        types.TextureFormatRGBA8Unorm,
		Usage:         types.TextureUsageColorAttachment,
	})
	defer device.DestroyTexture(texture)

	view, _ := device.CreateTextureView(texture, &types.TextureViewDescriptor{})
	defer device.DestroyTextureView(view)

	rpDesc := &hal.RenderPassDescriptor{
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     types.LoadOpClear,
				StoreOp:    types.StoreOpStore,
				ClearColor: types.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	}

	pool, _ := device.CreateCommandPool(hal.QueueGraphics, true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		encoder, _ := pool.Allocate()
		_ = encoder.BeginEncoding()
		rp := encoder.BeginRenderPass(rpDesc)
		rp.Draw(3, 1, 0, 0)
		rp.End()
		cb, _ := encoder.EndEncoding()
		benchHALSink = cb
	}
}

// BenchmarkHALComputePassEncoding measures compute pass recording through
// the HAL interface.
func BenchmarkHALComputePassEncoding(b *testing.B) {
	b.ReportAllocs()
	device, _, cleanup := setupHALDevice(b)
	defer cleanup()

	pool, _ := device.CreateCommandPool(hal.QueueCompute, true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		encoder, _ := pool.Allocate()
		_ = encoder.BeginEncoding()
		cp := encoder.BeginComputePass()
		cp.Dispatch(1, 1, 1)
		cp.End()
		cb, _ := encoder.EndEncoding()
		benchHALSink = cb
	}
}

// BenchmarkHALFullFrameSimulation simulates a typical frame through the HAL
// interface: allocate encoder -> begin -> render pass with draws -> end ->
// submit with fence.
func BenchmarkHALFullFrameSimulation(b *testing.B) {
	b.ReportAllocs()
	device, queue, cleanup := setupHALDevice(b)
	defer cleanup()

	texture, _ := device.CreateTexture(&types.TextureDescriptor{
		Size:          types.Extent3D{Width: 1920, Height: 1080, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		LayerCount:    1,
		Format:        types.TextureFormatBGRA8Unorm,
		Usage:         types.TextureUsageColorAttachment,
	})
	defer device.DestroyTexture(texture)

	view, _ := device.CreateTextureView(texture, &types.TextureViewDescriptor{})
	defer device.DestroyTextureView(view)

	fence, _ := device.CreateFence(false)
	defer device.DestroyFence(fence)

	rpDesc := &hal.RenderPassDescriptor{
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     types.LoadOpClear,
				StoreOp:    types.StoreOpStore,
				ClearColor: types.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0},
			},
		},
	}

	pool, _ := device.CreateCommandPool(hal.QueueGraphics, true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		encoder, _ := pool.Allocate()
		_ = encoder.BeginEncoding()

		rp := encoder.BeginRenderPass(rpDesc)
		rp.Draw(3, 1, 0, 0)
		rp.Draw(6, 1, 0, 0)
		rp.Draw(36, 1, 0, 0)
		rp.End()

		cb, _ := encoder.EndEncoding()
		_ = queue.Submit([]hal.CommandBuffer{cb}, nil, nil, fence, uint64(i+1))
	}
}
