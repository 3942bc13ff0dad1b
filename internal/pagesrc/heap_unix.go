//go:build linux || darwin

package pagesrc

import (
	"golang.org/x/sys/unix"
)

// HeapSource backs pages with anonymous private mmap regions rather than
// plain Go heap slices, giving the render graph's CPU arena (4.G) real OS
// page semantics -- and an unmap-on-free path the stack allocator's reset
// never needs to drive itself.
type HeapSource struct{}

// NewHeapSource returns a page source backed by anonymous mmap regions.
func NewHeapSource() *HeapSource { return &HeapSource{} }

// AllocPage maps a fresh anonymous, private region of size bytes.
func (*HeapSource) AllocPage(size uint64) (Page, error) {
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return Page{}, err
	}
	return Page{Data: data}, nil
}

// FreePage unmaps the page's backing region.
func (*HeapSource) FreePage(p Page) {
	if p.Data != nil {
		_ = unix.Munmap(p.Data)
	}
}
