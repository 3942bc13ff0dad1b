package noop

import (
	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/types"
)

// CommandPool implements hal.CommandPool for the mock backend.
type CommandPool struct{}

// Allocate returns a fresh mock command encoder.
func (p *CommandPool) Allocate() (hal.CommandEncoder, error) {
	return &CommandEncoder{}, nil
}

// Reset is a no-op.
func (p *CommandPool) Reset() {}

// DescriptorPool implements hal.DescriptorPool for the mock backend.
type DescriptorPool struct{}

// Reset is a no-op.
func (p *DescriptorPool) Reset() {}

// CommandEncoder implements hal.CommandEncoder for the mock backend. It
// records enough bookkeeping (barrier and copy counts) for tests to assert
// on, without touching any real GPU state.
type CommandEncoder struct {
	began          bool
	imageBarriers  []hal.ImageBarrier
	bufferBarriers []hal.BufferBarrier
	copies         int
}

// BeginEncoding marks the encoder as open.
func (c *CommandEncoder) BeginEncoding() error {
	c.began = true
	return nil
}

// EndEncoding returns a placeholder command buffer carrying this encoder's
// recorded state, for tests that want to inspect it.
func (c *CommandEncoder) EndEncoding() (hal.CommandBuffer, error) {
	return &CommandBuffer{encoder: c}, nil
}

// DiscardEncoding resets the encoder.
func (c *CommandEncoder) DiscardEncoding() { *c = CommandEncoder{} }

// PipelineBarrier records the barriers it was asked to emit.
func (c *CommandEncoder) PipelineBarrier(image []hal.ImageBarrier, buffer []hal.BufferBarrier) {
	c.imageBarriers = append(c.imageBarriers, image...)
	c.bufferBarriers = append(c.bufferBarriers, buffer...)
}

// ImageBarriers returns every image barrier recorded via PipelineBarrier.
func (c *CommandEncoder) ImageBarriers() []hal.ImageBarrier { return c.imageBarriers }

// BufferBarriers returns every buffer barrier recorded via PipelineBarrier.
func (c *CommandEncoder) BufferBarriers() []hal.BufferBarrier { return c.bufferBarriers }

// Copies returns the number of copy commands recorded.
func (c *CommandEncoder) Copies() int { return c.copies }

// ClearBuffer zero-fills the mock buffer's backing slice.
func (c *CommandEncoder) ClearBuffer(buf hal.Buffer, offset, size uint64) {
	if b, ok := buf.(*Buffer); ok {
		for i := offset; i < offset+size && i < uint64(len(b.data)); i++ {
			b.data[i] = 0
		}
	}
}

// CopyBufferToBuffer copies bytes between the two mock buffers' slices.
func (c *CommandEncoder) CopyBufferToBuffer(src hal.Buffer, srcOffset uint64, dst hal.Buffer, dstOffset, size uint64) {
	c.copies++
	s, ok1 := src.(*Buffer)
	d, ok2 := dst.(*Buffer)
	if ok1 && ok2 {
		copy(d.data[dstOffset:dstOffset+size], s.data[srcOffset:srcOffset+size])
	}
}

// CopyBufferToTexture is recorded but does not move any bytes; the mock
// texture has no backing store to copy into.
func (c *CommandEncoder) CopyBufferToTexture(_ hal.Buffer, _ hal.ImageDataLayout, _ hal.Texture, _ types.Origin3D, _ types.Extent3D) {
	c.copies++
}

// CopyTextureToBuffer is recorded but does not move any bytes.
func (c *CommandEncoder) CopyTextureToBuffer(_ hal.Texture, _ types.Origin3D, _ hal.Buffer, _ hal.ImageDataLayout, _ types.Extent3D) {
	c.copies++
}

// CopyTextureToTexture is recorded but does not move any bytes.
func (c *CommandEncoder) CopyTextureToTexture(_ hal.Texture, _ types.Origin3D, _ hal.Texture, _ types.Origin3D, _ types.Extent3D) {
	c.copies++
}

// WriteTimestamp marks the query as ready with a fake monotonic value.
func (c *CommandEncoder) WriteTimestamp(set hal.QuerySet, index uint32, _ hal.PipelineStage) {
	if qs, ok := set.(*QuerySet); ok && int(index) < len(qs.values) {
		qs.values[index] = qs.clock.Add(1)
		qs.ready[index] = true
	}
}

// BeginRenderPass returns a mock render pass encoder.
func (c *CommandEncoder) BeginRenderPass(_ *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	return &RenderPassEncoder{}
}

// BeginComputePass returns a mock compute pass encoder.
func (c *CommandEncoder) BeginComputePass() hal.ComputePassEncoder {
	return &ComputePassEncoder{}
}

// RenderPassEncoder implements hal.RenderPassEncoder for the mock backend.
type RenderPassEncoder struct {
	draws int
}

func (r *RenderPassEncoder) SetViewport(_, _, _, _, _, _ float32)           {}
func (r *RenderPassEncoder) SetScissor(_, _, _, _ uint32)                   {}
func (r *RenderPassEncoder) SetPushConstants(_ hal.ShaderStage, _ uint32, _ []byte) {}
func (r *RenderPassEncoder) Draw(_, _, _, _ uint32)                         { r.draws++ }
func (r *RenderPassEncoder) DrawIndexed(_, _, _ uint32, _ int32, _ uint32)  { r.draws++ }
func (r *RenderPassEncoder) End()                                           {}

// ComputePassEncoder implements hal.ComputePassEncoder for the mock backend.
type ComputePassEncoder struct {
	dispatches int
}

func (c *ComputePassEncoder) SetPushConstants(_ hal.ShaderStage, _ uint32, _ []byte) {}
func (c *ComputePassEncoder) Dispatch(_, _, _ uint32)                               { c.dispatches++ }
func (c *ComputePassEncoder) End()                                                  {}
