// Package pagesrc implements the {alloc_page, free_page} page-allocator
// interface the stack allocator (4.B) consumes (6. External Interfaces).
// HeapSource, provided here, backs the render graph's per-slot CPU arena.
// The staging engine's GPU-backed source -- which allocates a
// transfer-source buffer alongside each page -- is implemented in the
// staging package instead, since it is layered on the GPU memory
// allocator (4.C) and would otherwise pull that dependency in here.
package pagesrc

import "github.com/gogpu/graphcore/hal"

// Page is one page handed out by a Source. Data is always the CPU-visible
// bytes of the page; Buffer is non-nil only for GPU-backed pages, where it
// is the transfer-source buffer backing Data.
type Page struct {
	Data   []byte
	Buffer hal.Buffer
}

// Source is the page-allocator interface the stack allocator is
// parameterized over.
type Source interface {
	AllocPage(size uint64) (Page, error)
	FreePage(p Page)
}
