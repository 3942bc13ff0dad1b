package noop

import "github.com/gogpu/graphcore/hal"

// Queue implements hal.Queue for the mock backend. A single Queue instance
// is shared across all four QueueKind slots in the Device's OpenDevice,
// same as the mock backend never distinguishes work by engine.
type Queue struct {
	device *Device
}

// Submit signals fence at fenceValue, if a fence was provided, and sets
// every semaphore passed in signals, binary or timeline, to 1.
func (q *Queue) Submit(_ []hal.CommandBuffer, _ []hal.SemaphoreWait, signals []hal.Semaphore, fence hal.Fence, fenceValue uint64) error {
	if fence != nil {
		if f, ok := fence.(*Fence); ok {
			f.value.Store(fenceValue)
		}
	}
	for _, sig := range signals {
		if s, ok := sig.(*Semaphore); ok {
			s.value.Store(1)
		}
	}
	return nil
}

// Present always succeeds and reports suboptimal=false for the mock backend.
func (q *Queue) Present(_ hal.Surface, _ hal.SurfaceTexture, _ hal.Semaphore) (bool, error) {
	return false, nil
}
