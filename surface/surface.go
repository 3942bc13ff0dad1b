// Package surface implements the surface/swapchain driver of spec.md
// 4.F: format selection preferring sRGB or UNORM per a caller flag,
// present-mode selection (FIFO unless vsync is disabled, which prefers
// Mailbox when offered), a 100ms-timeout acquire collapsed to the
// tri-state {Ok, ShouldRebuild, Error}, present, and rebuild (device-wide
// idle wait, re-read capabilities, reconfigure the surface). hal.Surface
// has no separate swapchain or image-view handles, so rebuild hands over
// no old swapchain and recreates no views itself.
//
// Grounded on gogpu-wgpu's surface/swapchain handling (the teacher's own
// driver for this exact Vulkan-surface-lifecycle shape) and
// original_source/Iceberg/Include/iceberg/ib_core.h's ib_Surface.
package surface

import (
	"errors"

	"github.com/gogpu/graphcore/config"
	"github.com/gogpu/graphcore/hal"
	"github.com/gogpu/graphcore/types"
)

// AcquireResult is the tri-state an acquire or present collapses to
// (spec.md 7): Ok to proceed, ShouldRebuild to rebuild the swapchain
// before the next frame, or Error for anything else.
type AcquireResult uint8

const (
	Ok AcquireResult = iota
	ShouldRebuild
	Error
)

// ErrNoCompatibleFormat is returned when a surface exposes no format at
// all (every driver is expected to report at least one).
var ErrNoCompatibleFormat = errors.New("surface: adapter reports no compatible surface format")

// Driver owns one platform surface and its current swapchain
// configuration.
type Driver struct {
	device  hal.Device
	adapter hal.Adapter
	surface hal.Surface

	preferSRGB bool
	vsync      bool

	config types.Extent3D
	format types.TextureFormat
	mode   hal.PresentMode
}

// New configures surface for presentation on device/adapter, selecting a
// format and present mode per preferSRGB/vsync.
func New(device hal.Device, adapter hal.Adapter, surf hal.Surface, width, height uint32, preferSRGB, vsync bool) (*Driver, error) {
	d := &Driver{device: device, adapter: adapter, surface: surf, preferSRGB: preferSRGB, vsync: vsync}
	if err := d.configure(width, height); err != nil {
		return nil, err
	}
	return d, nil
}

func selectFormat(caps *hal.SurfaceCapabilities, preferSRGB bool) (types.TextureFormat, error) {
	if len(caps.Formats) == 0 {
		return 0, ErrNoCompatibleFormat
	}
	for _, f := range caps.Formats {
		if f.SRGB == preferSRGB {
			return f.Format, nil
		}
	}
	return caps.Formats[0].Format, nil
}

func selectPresentMode(caps *hal.SurfaceCapabilities, vsync bool) hal.PresentMode {
	if !vsync {
		for _, m := range caps.PresentModes {
			if m == hal.PresentModeMailbox {
				return hal.PresentModeMailbox
			}
		}
	}
	return hal.PresentModeFIFO
}

func (d *Driver) configure(width, height uint32) error {
	caps := d.adapter.SurfaceCapabilities(d.surface)
	if caps == nil {
		return hal.ErrSurfaceLost
	}
	format, err := selectFormat(caps, d.preferSRGB)
	if err != nil {
		return err
	}
	mode := selectPresentMode(caps, d.vsync)

	if err := d.surface.Configure(d.device, &hal.SurfaceConfiguration{
		Width:            width,
		Height:           height,
		Format:           format,
		PresentMode:      mode,
		FramebufferCount: config.DefaultFramebufferCount,
	}); err != nil {
		return err
	}

	d.config = types.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}
	d.format = format
	d.mode = mode
	return nil
}

// Format returns the currently configured surface format.
func (d *Driver) Format() types.TextureFormat { return d.format }

// Acquire waits up to config.SurfaceAcquireTimeoutNanoseconds for the
// next swapchain image, collapsing every failure mode to the tri-state
// contract (5, 7).
func (d *Driver) Acquire(acquireSemaphore hal.Semaphore) (hal.SurfaceTexture, AcquireResult) {
	tex, suboptimal, err := d.surface.AcquireTexture(acquireSemaphore, config.SurfaceAcquireTimeoutNanoseconds)
	switch {
	case errors.Is(err, hal.ErrSurfaceOutdated):
		return nil, ShouldRebuild
	case errors.Is(err, hal.ErrTimeout):
		return nil, Error
	case err != nil:
		return nil, Error
	case suboptimal:
		return tex, Ok
	default:
		return tex, Ok
	}
}

// Present issues a present of texture, returning ShouldRebuild when the
// swapchain has gone out of date or suboptimal, matching Acquire's
// tri-state (4.F).
func (d *Driver) Present(queue hal.Queue, texture hal.SurfaceTexture, waitSemaphore hal.Semaphore) AcquireResult {
	suboptimal, err := queue.Present(d.surface, texture, waitSemaphore)
	switch {
	case errors.Is(err, hal.ErrSurfaceOutdated), errors.Is(err, hal.ErrSurfaceLost):
		return ShouldRebuild
	case err != nil:
		return Error
	case suboptimal:
		return ShouldRebuild
	default:
		return Ok
	}
}

// Rebuild drains the device, re-reads surface capabilities, and
// reconfigures the surface at the given dimensions through
// hal.Surface.Configure. No old swapchain is handed over and no views
// are recreated here: hal.Surface exposes no swapchain or view handles.
func (d *Driver) Rebuild(width, height uint32) error {
	d.device.WaitIdle()
	return d.configure(width, height)
}

// Close unconfigures the surface.
func (d *Driver) Close() {
	d.surface.Unconfigure(d.device)
}
