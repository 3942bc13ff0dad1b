// Package stack implements the page-chained bump/stack allocator of
// spec.md 4.B: a singly-linked list of fixed-size pages drawn from a
// caller-supplied page source, bump-allocated within the current page,
// and rewound without freeing pages on Reset.
//
// Grounded on original_source/Iceberg/Include/iceberg/ib_allocator.h's
// iba_StackAllocator (page chaining via an intrusive PageHeader, a
// current-page bump offset, and a pure rewind-on-reset policy).
package stack

import (
	"errors"

	"github.com/gogpu/graphcore/internal/pagesrc"
)

// ErrRequestTooLarge is returned when a single allocation cannot fit in
// one page even with alignment slack (spec.md 4.B/8).
var ErrRequestTooLarge = errors.New("stack: request exceeds page size")

type page struct {
	raw  pagesrc.Page
	next *page
}

// Allocation is the result of a successful Alloc call: an offset into
// the page that served it. Page is the full page this allocation was
// carved from -- for a GPU-backed source (staging, 4.D) this carries the
// transfer-source buffer alongside the CPU-visible bytes.
type Allocation struct {
	Data   []byte
	Offset uint64
	Page   pagesrc.Page
}

// Allocator is a page-chained bump allocator. The zero value is not
// usable; construct with New.
type Allocator struct {
	source   pagesrc.Source
	pageSize uint64

	head    *page
	tail    *page
	current *page
	offset  uint64
}

// New returns an allocator drawing pages of pageSize bytes from source.
func New(source pagesrc.Source, pageSize uint64) *Allocator {
	return &Allocator{source: source, pageSize: pageSize}
}

// Reset rewinds the allocator to the start of its first page without
// freeing any pages (spec.md 8: "no page is freed between reset and the
// next alloc").
func (a *Allocator) Reset() {
	a.current = a.head
	a.offset = 0
}

// Close releases every page back to the page source.
func (a *Allocator) Close() {
	for p := a.head; p != nil; {
		next := p.next
		a.source.FreePage(p.raw)
		p = next
	}
	a.head = nil
	a.current = nil
	a.offset = 0
}

// Alloc bump-allocates size bytes aligned to align from the current
// page, pulling a new page from the source when the current one cannot
// satisfy the request.
func (a *Allocator) Alloc(size, align uint64) (Allocation, error) {
	if align == 0 {
		align = 1
	}
	if size+align-1 > a.pageSize {
		return Allocation{}, ErrRequestTooLarge
	}

	if a.current == nil {
		if err := a.growPage(); err != nil {
			return Allocation{}, err
		}
	}

	aligned := (a.offset + align - 1) &^ (align - 1)
	if aligned+size > uint64(len(a.current.raw.Data)) {
		if err := a.advancePage(); err != nil {
			return Allocation{}, err
		}
		aligned = 0
	}

	a.offset = aligned + size
	return Allocation{Data: a.current.raw.Data[aligned : aligned+size], Offset: aligned, Page: a.current.raw}, nil
}

// advancePage moves to the next already-chained page if Reset rewound
// past one, otherwise draws a fresh page from the source.
func (a *Allocator) advancePage() error {
	if a.current.next != nil {
		a.current = a.current.next
		a.offset = 0
		return nil
	}
	return a.growPage()
}

func (a *Allocator) growPage() error {
	raw, err := a.source.AllocPage(a.pageSize)
	if err != nil {
		return err
	}
	p := &page{raw: raw}
	if a.head == nil {
		a.head = p
	} else {
		a.tail.next = p
	}
	a.tail = p
	a.current = p
	a.offset = 0
	return nil
}
