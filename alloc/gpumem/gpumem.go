// Package gpumem implements the GPU memory allocator of spec.md 4.C: a
// two-pass memory-type selection (strict required+preferred, then
// relaxed required-only, both gated on heap capacity), pools of large
// root driver allocations keyed by memory-type index, persistent mapping
// for host-visible roots, and a tlsf.Allocator layered per pool.
//
// Grounded on original_source/Iceberg/Include/iceberg/ib_allocator.h and
// ib_allocator.c's iba_GpuAllocator/iba_findMemoryType for the
// memory-type-selection and root/pool structure.
package gpumem

import (
	"errors"
	"fmt"

	"github.com/gogpu/graphcore/alloc/tlsf"
	"github.com/gogpu/graphcore/config"
	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/types"
)

var (
	// ErrNoSuitableMemoryType is returned when no memory type satisfies
	// a request even under the relaxed (required-only) pass.
	ErrNoSuitableMemoryType = errors.New("gpumem: no suitable memory type")
	// ErrMaxRootsExceeded is returned when a pool cannot add another
	// root allocation to satisfy a request.
	ErrMaxRootsExceeded = errors.New("gpumem: max roots exceeded for pool")
)

// RootTag packs a pool index and root index into the opaque tag the
// TLSF allocator (4.A) threads through every block, per original_source's
// root user-tag encoding (see DESIGN.md).
type RootTag struct {
	PoolIndex uint32
	RootIndex uint32
}

// Pack encodes the tag into the uint64 tlsf.RootTag carries.
func (t RootTag) Pack() tlsf.RootTag {
	return tlsf.RootTag(uint64(t.PoolIndex)<<32 | uint64(t.RootIndex))
}

// UnpackRootTag decodes a tlsf.RootTag produced by Pack.
func UnpackRootTag(tag tlsf.RootTag) RootTag {
	return RootTag{PoolIndex: uint32(uint64(tag) >> 32), RootIndex: uint32(uint64(tag))}
}

// Request describes a GPU allocation request (4.C).
type Request struct {
	Size  uint64
	Align uint64

	// TypeBits restricts the candidate memory types to this bitmask
	// (bit i set means memory type i is usable), mirroring the
	// graphics API's per-resource memory-type-bits report.
	TypeBits uint32

	RequiredMemoryFlags  types.MemoryTypeFlags
	PreferredMemoryFlags types.MemoryTypeFlags
}

// Allocation is a live GPU memory allocation.
type Allocation struct {
	Memory hal.DeviceMemory
	Offset uint64
	Size   uint64

	// Mapped is the host-visible mapping of this allocation
	// (root.map + offset), or nil when the backing memory type is not
	// host-visible (spec.md 8: "host-visible allocations expose a
	// mapped pointer equal to root.map + offset").
	Mapped []byte

	tag   RootTag
	block tlsf.Allocation
}

type root struct {
	memory hal.DeviceMemory
	mapped []byte
}

type pool struct {
	memoryTypeIndex uint32
	tlsf            *tlsf.Allocator
	roots           []root
	maxRoots        int
	rootSize        uint64
}

// Allocator is the GPU memory allocator: one pool per memory-type index,
// each pool backed by a tlsf.Allocator layered over fixed-size root
// allocations drawn from device.
type Allocator struct {
	device   hal.Device
	memProps types.MemoryProperties
	rootSize uint64
	maxRoots int
	pools    map[uint32]*pool
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithRootSize overrides the default root allocation size (4.C).
func WithRootSize(size uint64) Option { return func(a *Allocator) { a.rootSize = size } }

// WithMaxRoots overrides the default max-roots-per-pool bound.
func WithMaxRoots(n int) Option { return func(a *Allocator) { a.maxRoots = n } }

// New returns an allocator driving device, using memProps for memory-type
// selection.
func New(device hal.Device, memProps types.MemoryProperties, opts ...Option) *Allocator {
	a := &Allocator{
		device:   device,
		memProps: memProps,
		rootSize: config.RootAllocationSize,
		maxRoots: config.DefaultMaxRoots,
		pools:    make(map[uint32]*pool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// selectMemoryType runs the two-pass selection of spec.md 4.C: first a
// strict pass requiring both RequiredMemoryFlags and PreferredMemoryFlags,
// then a relaxed pass requiring only RequiredMemoryFlags. Both passes
// additionally require the owning heap be large enough for maxAllocSize
// (a pool's root size, since no single allocation may exceed it).
func (a *Allocator) selectMemoryType(req Request, maxAllocSize uint64) (uint32, error) {
	combined := req.RequiredMemoryFlags | req.PreferredMemoryFlags
	if idx, ok := a.findMemoryType(req.TypeBits, combined, maxAllocSize); ok {
		return idx, nil
	}
	if idx, ok := a.findMemoryType(req.TypeBits, req.RequiredMemoryFlags, maxAllocSize); ok {
		return idx, nil
	}
	return 0, ErrNoSuitableMemoryType
}

func (a *Allocator) findMemoryType(typeBits uint32, want types.MemoryTypeFlags, maxAllocSize uint64) (uint32, bool) {
	for i, t := range a.memProps.Types {
		if typeBits&(1<<uint32(i)) == 0 {
			continue
		}
		if !t.Flags.Contains(want) {
			continue
		}
		if int(t.HeapIndex) >= len(a.memProps.Heaps) {
			continue
		}
		if a.memProps.Heaps[t.HeapIndex].Size < maxAllocSize {
			continue
		}
		return uint32(i), true
	}
	return 0, false
}

// Allocate finds or creates a pool for req's best-matching memory type
// and carves out size bytes aligned to align from that pool's roots,
// refilling with a new root when every existing root is exhausted.
func (a *Allocator) Allocate(req Request) (Allocation, error) {
	if req.Align == 0 {
		req.Align = 1
	}
	typeIndex, err := a.selectMemoryType(req, a.rootSize)
	if err != nil {
		return Allocation{}, err
	}

	p, ok := a.pools[typeIndex]
	if !ok {
		p = &pool{memoryTypeIndex: typeIndex, tlsf: tlsf.New(), maxRoots: a.maxRoots, rootSize: a.rootSize}
		a.pools[typeIndex] = p
	}

	block, tag, err := p.alloc(a.device, req.Size, req.Align)
	if err != nil {
		return Allocation{}, err
	}

	r := p.roots[tag.RootIndex]
	alloc := Allocation{
		Memory: r.memory,
		Offset: uint64(block.Offset),
		Size:   req.Size,
		tag:    tag,
		block:  block,
	}
	if r.mapped != nil {
		alloc.Mapped = r.mapped[block.Offset : uint64(block.Offset)+req.Size]
	}
	return alloc, nil
}

// Free returns an allocation's block to its pool's free lists.
func (a *Allocator) Free(alloc Allocation) {
	p, ok := a.pools[alloc.tag.PoolIndex]
	if !ok {
		return
	}
	p.tlsf.Free(alloc.block)
}

// Close frees every root allocation the allocator has drawn from device,
// across every pool (4.C teardown).
func (a *Allocator) Close() {
	for _, p := range a.pools {
		for _, r := range p.roots {
			a.device.FreeMemory(r.memory)
		}
	}
	a.pools = make(map[uint32]*pool)
}

func (p *pool) alloc(device hal.Device, size, align uint64) (tlsf.Allocation, RootTag, error) {
	if size > 1<<32-1 {
		return tlsf.Allocation{}, RootTag{}, fmt.Errorf("gpumem: request size %d exceeds 4GiB TLSF limit", size)
	}
	block, err := p.tlsf.Alloc(uint32(size), uint32(align))
	if err == nil {
		return block, UnpackRootTag(block.RootTag), nil
	}

	if len(p.roots) >= p.maxRoots {
		return tlsf.Allocation{}, RootTag{}, ErrMaxRootsExceeded
	}

	memory, err := device.AllocateMemory(p.memoryTypeIndex, p.rootSize)
	if err != nil {
		return tlsf.Allocation{}, RootTag{}, err
	}
	mapped, _ := device.MapMemory(memory) // nil/err for non-host-visible types

	rootIndex := uint32(len(p.roots))
	p.roots = append(p.roots, root{memory: memory, mapped: mapped})

	tag := RootTag{PoolIndex: p.memoryTypeIndex, RootIndex: rootIndex}
	p.tlsf.AddRoot(tag.Pack(), uint32(p.rootSize))

	block, err = p.tlsf.Alloc(uint32(size), uint32(align))
	if err != nil {
		return tlsf.Allocation{}, RootTag{}, err
	}
	return block, UnpackRootTag(block.RootTag), nil
}
