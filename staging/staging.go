// Package staging implements the staging engine of spec.md 4.D: a
// host-visible ring of transfer scratch backed by a dedicated GPU page
// source feeding a stack.Allocator, a monotonically increasing
// completion-value counter signalled per request, and a flush that waits
// on the latest counter value and resets both the stack and the transfer
// command pool.
//
// Grounded on original_source/Iceberg/Include/iceberg/ib_core.h's
// ib_Staging (MaxTransientStagingCommandBuffers, the transfer command
// pool, and the timeline-semaphore-driven completion counter).
package staging

import (
	"errors"
	"fmt"

	"github.com/gogpu/graphcore/alloc/stack"
	"github.com/gogpu/graphcore/config"
	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/internal/pagesrc"
	"github.com/gogpu/graphcore/types"
)

// ErrOverflow is returned when a request would exceed the fixed
// transient-staging-command-buffer cap (spec.md 7: a programming error
// in the source engine, surfaced here as an ordinary error since the cap
// is a run-time property of caller behavior, not a static invariant).
var ErrOverflow = errors.New("staging: exceeded max transient command buffers")

// Allocation is the result of Request: a slice of the current staging
// page, the transfer-source buffer backing it, and the completion value
// the caller's submit must signal once its copy commands are visible.
type Allocation struct {
	Buffer          hal.Buffer
	HostPtr         []byte
	Offset          uint64
	CompletionValue uint64
}

// gpuPageSource allocates a host-visible, CopySrc-usage buffer per page,
// giving the stack allocator's pages real transfer-source buffers (6.
// External Interfaces: "the staging engine plugs in a GPU-backed page
// source that allocates a transfer-source buffer alongside each page").
type gpuPageSource struct {
	device hal.Device
}

func (s *gpuPageSource) AllocPage(size uint64) (pagesrc.Page, error) {
	buf, err := s.device.CreateBuffer(&types.BufferDescriptor{
		Label:                "staging page",
		Size:                 size,
		Usage:                types.BufferUsageCopySrc | types.BufferUsageMapWrite,
		RequiredMemoryFlags:  types.MemoryFlagHostVisible | types.MemoryFlagHostCoherent,
		PreferredMemoryFlags: types.MemoryFlagHostCoherent,
	})
	if err != nil {
		return pagesrc.Page{}, err
	}
	mapped := buf.MappedBytes()
	if mapped == nil {
		return pagesrc.Page{}, fmt.Errorf("staging: backend returned a non-host-visible staging buffer")
	}
	return pagesrc.Page{Data: mapped[:size], Buffer: buf}, nil
}

func (s *gpuPageSource) FreePage(p pagesrc.Page) {
	s.device.DestroyBuffer(p.Buffer)
}

// Engine is one staging engine instance.
type Engine struct {
	device hal.Device
	queue  hal.Queue
	pool   hal.CommandPool
	source *gpuPageSource
	stack  *stack.Allocator

	semaphore hal.Semaphore
	counter   uint64

	activeCommandBuffers []hal.CommandBuffer
}

// New constructs a staging engine driving transfer work on queue, using
// device for buffer/command-pool/semaphore creation.
func New(device hal.Device, queue hal.Queue) (*Engine, error) {
	pool, err := device.CreateCommandPool(hal.QueueTransfer, true)
	if err != nil {
		return nil, err
	}
	sem, err := device.CreateTimelineSemaphore(0)
	if err != nil {
		return nil, err
	}
	source := &gpuPageSource{device: device}
	return &Engine{
		device:    device,
		queue:     queue,
		pool:      pool,
		source:    source,
		stack:     stack.New(source, config.StagingPageSize),
		semaphore: sem,
	}, nil
}

// Semaphore returns the shared timeline semaphore callers must signal,
// at the completion value returned by Request, when they submit their
// own transfer commands.
func (e *Engine) Semaphore() hal.Semaphore { return e.semaphore }

// Request carves size bytes aligned to align out of the current staging
// page, assigning it the next completion-value counter slot.
func (e *Engine) Request(size, align uint64) (Allocation, error) {
	a, err := e.stack.Alloc(size, align)
	if err != nil {
		return Allocation{}, err
	}
	e.counter++
	return Allocation{
		Buffer:          a.Page.Buffer,
		HostPtr:         a.Data,
		Offset:          a.Offset,
		CompletionValue: e.counter,
	}, nil
}

// AllocateTransferCommandBuffer allocates one transient command encoder
// from the transfer pool, failing once config.MaxTransientCommandBuffers
// buffers recorded with TrackSubmitted have accumulated since the last
// Flush. It does not track the encoder itself.
func (e *Engine) AllocateTransferCommandBuffer() (hal.CommandEncoder, error) {
	if len(e.activeCommandBuffers) >= config.MaxTransientCommandBuffers {
		return nil, ErrOverflow
	}
	return e.pool.Allocate()
}

// TrackSubmitted records a command buffer as outstanding until the next
// Flush resets the pool. Callers call this after Queue.Submit.
func (e *Engine) TrackSubmitted(cb hal.CommandBuffer) {
	e.activeCommandBuffers = append(e.activeCommandBuffers, cb)
}

// ActiveCommandBuffers reports how many transient command buffers are
// outstanding since the last Flush (spec.md 8: "post-flush
// active_command_buffers == 0").
func (e *Engine) ActiveCommandBuffers() int { return len(e.activeCommandBuffers) }

// Flush waits on the latest completion value and resets the stack
// allocator and the transfer command pool. Idempotent given no
// intervening requests (spec.md 8).
func (e *Engine) Flush() error {
	if e.counter > 0 {
		if err := e.device.WaitTimelineSemaphore(e.semaphore, e.counter); err != nil {
			return err
		}
	}
	e.stack.Reset()
	e.pool.Reset()
	e.activeCommandBuffers = e.activeCommandBuffers[:0]
	return nil
}

// Close releases every staging page back to the GPU page source.
func (e *Engine) Close() {
	e.stack.Close()
	e.device.DestroyCommandPool(e.pool)
	e.device.DestroySemaphore(e.semaphore)
}
