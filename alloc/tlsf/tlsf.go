// Package tlsf implements the two-level segregated-fit O(1) byte allocator
// of spec.md 4.A: a first-level bitmap over power-of-two size classes, a
// second-level bitmap subdividing each class linearly, a "denormal" class
// for sizes below the minimum normal size, and address-ordered neighbour
// links for O(1) coalescing on free.
//
// Grounded on original_source/Iceberg/Include/iceberg/ib_allocator.h and
// ib_allocator.c (iba_TlsfAllocator) for the exact size-class-mapping,
// split, and coalesce semantics.
package tlsf

import (
	"errors"
	"math/bits"

	"github.com/gogpu/graphcore/config"
	"github.com/gogpu/graphcore/internal/debug"
)

// ErrOutOfSpace is returned when no free block can satisfy a request.
var ErrOutOfSpace = errors.New("tlsf: out of space")

const (
	slBits  = config.TLSFSecondLevelBits
	slCount = 1 << slBits
	minSize = 1 << slBits // smallest size handled by the normal (non-denormal) classes

	// flBits is the number of first-level classes above the denormal row;
	// sizes are tracked as uint32, so the highest possible set bit is 31.
	flBits  = 32 - slBits
	flCount = flBits + 1 // +1 for the denormal row at index 0
)

// RootTag identifies which root (large underlying allocation, see
// spec.md's Glossary) a block belongs to. The GPU memory allocator (4.C)
// packs a pool index and root index into this value; the TLSF allocator
// itself never interprets it.
type RootTag uint64

// Block is one free or allocated region of a root. Blocks form two
// independent doubly-linked structures: an address-ordered neighbour
// chain (Left/Right) used for coalescing, and a free-list chain
// (NextFree/PrevFree) used for O(1) search.
type Block struct {
	RootTag   RootTag
	Offset    uint32
	Size      uint32
	Allocated bool

	Left, Right        *Block
	NextFree, PrevFree *Block
}

// Allocation is the result of a successful Alloc call.
type Allocation struct {
	RootTag RootTag
	Offset  uint32
	block   *Block
}

// Block returns the underlying block, needed to Free the allocation.
func (a Allocation) Block() *Block { return a.block }

// Allocator is one TLSF instance. The zero value is ready to use.
type Allocator struct {
	firstLevelBitMask   uint32
	secondLevelBitMasks [flCount]uint32
	freeLists           [flCount][slCount]*Block
}

// New returns an empty allocator with no roots.
func New() *Allocator { return &Allocator{} }

// classify maps size to (firstLevelIndex, secondLevelIndex) using the
// size class the block is stored under (the "lower bound" mapping: the
// class a block of exactly this size belongs to).
func classify(size uint32) (fl, sl uint32) {
	if size >= minSize {
		highBit := uint32(bits.Len32(size)) - 1
		fl = highBit - slBits + 1
		sl = (size >> (highBit - slBits)) - slCount
		return fl, sl
	}
	if size == 0 {
		return 0, 0
	}
	return 0, size - 1
}

// classifyRoundUp maps size to the smallest class guaranteed to satisfy a
// request of exactly size bytes (the "upper bound" mapping used by
// Alloc's search): sizes that aren't already an exact class boundary are
// rounded up into the next size class.
func classifyRoundUp(size uint32) (fl, sl uint32) {
	if size >= minSize {
		highBit := uint32(bits.Len32(size)) - 1
		bump := uint32(1)<<(highBit-slBits) - 1
		size += bump
		highBit = uint32(bits.Len32(size)) - 1
		fl = highBit - slBits + 1
		sl = (size >> (highBit - slBits)) - slCount
		return fl, sl
	}
	if size == 0 {
		return 0, 0
	}
	return 0, size - 1
}

func (a *Allocator) freeListPush(fl, sl uint32, block *Block) {
	head := a.freeLists[fl][sl]
	if head != nil {
		block.NextFree = head
		head.PrevFree = block
	}
	debug.Assert(block.PrevFree == nil, "tlsf: pushed block already has a PrevFree link")
	a.freeLists[fl][sl] = block

	a.firstLevelBitMask |= 1 << fl
	a.secondLevelBitMasks[fl] |= 1 << sl
}

func (a *Allocator) freeListPop(fl, sl uint32) *Block {
	head := a.freeLists[fl][sl]
	debug.Assert(head != nil, "tlsf: pop from empty free list")
	next := head.NextFree
	if next != nil {
		next.PrevFree = nil
	}
	a.freeLists[fl][sl] = next

	if a.freeLists[fl][sl] == nil {
		a.firstLevelBitMask &^= 1 << fl
		a.secondLevelBitMasks[fl] &^= 1 << sl
	}

	head.NextFree = nil
	head.PrevFree = nil
	return head
}

func (a *Allocator) removeFromFreeList(block *Block) {
	fl, sl := classify(block.Size)
	if a.freeLists[fl][sl] == block {
		a.freeListPop(fl, sl)
		return
	}
	prev := block.PrevFree
	debug.Assert(prev != nil, "tlsf: non-head free block has no PrevFree")
	prev.NextFree = block.NextFree
	if block.NextFree != nil {
		block.NextFree.PrevFree = prev
	}
	block.NextFree = nil
	block.PrevFree = nil
}

func (a *Allocator) insert(block *Block) {
	debug.Assert(block.NextFree == nil && block.PrevFree == nil, "tlsf: inserting a block still linked into a free list")
	fl, sl := classify(block.Size)
	a.freeListPush(fl, sl, block)
}

func insertNeighbourRight(left, right *Block) {
	debug.Assert(right.Left == nil && right.Right == nil, "tlsf: new neighbour already linked")
	right.Right = left.Right
	if right.Right != nil {
		right.Right.Left = right
	}
	right.Left = left
	left.Right = right
}

func removeNeighbour(block *Block) {
	left, right := block.Left, block.Right
	if left != nil {
		left.Right = right
	}
	if right != nil {
		right.Left = left
	}
}

func (a *Allocator) mergeWithNeighbours(block *Block) *Block {
	if block.Left != nil && !block.Left.Allocated {
		left := block.Left
		a.removeFromFreeList(left)
		left.Size += block.Size
		removeNeighbour(block)
		block = left
	}
	if block.Right != nil && !block.Right.Allocated {
		right := block.Right
		a.removeFromFreeList(right)
		block.Size += right.Size
		removeNeighbour(right)
	}
	return block
}

// AddRoot registers a new root of size bytes, tagged with tag, as one
// large free block.
func (a *Allocator) AddRoot(tag RootTag, size uint32) {
	root := &Block{RootTag: tag, Size: size}
	a.insert(root)
}

// Alloc finds a free block able to satisfy size bytes aligned to align
// (which must be a power of two, or zero meaning unaligned), splits off
// any remainder back into the free lists, and returns the allocation.
func (a *Allocator) Alloc(size, align uint32) (Allocation, error) {
	debug.Assert(size != 0, "tlsf: zero-size allocation request")
	if align == 0 {
		align = 1
	}
	debug.Assert(bits.OnesCount32(align) == 1, "tlsf: alignment must be a power of two")

	alignedSize := size + align - 1

	fl, sl := classifyRoundUp(alignedSize)

	found := false
	secondLevelMask := ^uint32(0) << sl
	if slBitsSet := a.secondLevelBitMasks[fl] & secondLevelMask; slBitsSet != 0 {
		sl = uint32(bits.TrailingZeros32(slBitsSet))
		found = true
	} else {
		firstLevelMask := ^uint32(0) << (fl + 1)
		if flBitsSet := a.firstLevelBitMask & firstLevelMask; flBitsSet != 0 {
			fl = uint32(bits.TrailingZeros32(flBitsSet))
			sl = uint32(bits.TrailingZeros32(a.secondLevelBitMasks[fl]))
			found = true
		}
	}
	if !found {
		return Allocation{}, ErrOutOfSpace
	}

	popped := a.freeListPop(fl, sl)
	popped.Allocated = true

	if popped.Size > alignedSize {
		splitSize := popped.Size - alignedSize
		newBlock := &Block{
			RootTag: popped.RootTag,
			Offset:  popped.Offset + alignedSize,
			Size:    splitSize,
		}
		popped.Size = alignedSize
		insertNeighbourRight(popped, newBlock)
		a.insert(newBlock)
	}

	offset := (popped.Offset + align - 1) &^ (align - 1)
	debug.Assert(offset-popped.Offset <= align-1, "tlsf: alignment bump overflowed reserved slack")
	debug.Assert(uint64(offset)+uint64(size) <= uint64(popped.Offset)+uint64(popped.Size), "tlsf: allocation does not fit its block")

	return Allocation{RootTag: popped.RootTag, Offset: offset, block: popped}, nil
}

// Free releases an allocation, coalescing it with any free neighbours and
// reinserting the result into the free lists. Freeing the zero
// Allocation (no block) is a no-op. Freeing an allocation twice is a
// programming error (spec.md 7) and is only caught in debug builds.
func (a *Allocator) Free(alloc Allocation) {
	block := alloc.block
	if block == nil {
		return
	}
	debug.Assert(block.Allocated, "tlsf: double free")
	debug.Assert(block.NextFree == nil && block.PrevFree == nil, "tlsf: freeing a block still on a free list")
	block.Allocated = false
	block = a.mergeWithNeighbours(block)
	a.insert(block)
}
