// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hal

import "github.com/gogpu/graphcore/types"

// Backend Implementation Guide
//
// This file documents the backend implementations this module ships or
// expects callers to register, and provides lazy-factory utilities for
// backend selection.
//
// # Backends
//
//   - hal/noop/   - in-memory mock backend used to drive the render
//     graph's test scenarios (done)
//   - vulkan      - the production backend this spec targets; registered
//     by the caller's own Vulkan binding package, not shipped here
//
// # Backend Compliance
//
// Each backend must:
//  1. Implement every hal.Backend/Instance/Adapter/Device/Queue method
//  2. Pass the hal/noop conformance tests as a baseline
//  3. Report its memory-type table accurately -- the allocator in 4.C
//     trusts MemoryProperties() completely

// BackendInfo provides metadata about a backend implementation.
type BackendInfo struct {
	// Variant identifies the backend type.
	Variant types.Backend

	// Name is a human-readable backend name.
	Name string

	// Features supported by this backend.
	Features BackendFeatures
}

// BackendFeatures describes capabilities of a backend relevant to the
// render graph's scheduling decisions.
type BackendFeatures struct {
	// SupportsTimestampQueries indicates GPU timestamp query support,
	// required for the timer manager (4.G) to produce non-blocking
	// profiling reads.
	SupportsTimestampQueries bool

	// SupportsBufferDeviceAddress indicates the device-address bit the
	// GPU allocator always requests for buffers (4.E).
	SupportsBufferDeviceAddress bool

	// MaxGPUAllocations bounds the number of roots the allocator may
	// open concurrently (4.C).
	MaxGPUAllocations uint32
}

// BackendFactory creates backend instances.
// This allows lazy initialization of backends.
type BackendFactory func() (Backend, error)

// registeredFactories holds lazy backend factories.
var registeredFactories = make(map[types.Backend]BackendFactory)

// RegisterBackendFactory registers a factory for lazy backend creation.
// This is preferred over RegisterBackend for backends that may fail
// initialization (e.g., missing GPU drivers).
func RegisterBackendFactory(variant types.Backend, factory BackendFactory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	registeredFactories[variant] = factory
}

// CreateBackend creates a backend instance using a registered factory.
// Returns error if no factory is registered for the variant.
func CreateBackend(variant types.Backend) (Backend, error) {
	backendsMu.RLock()
	factory, ok := registeredFactories[variant]
	backendsMu.RUnlock()

	if !ok {
		return nil, ErrBackendNotFound
	}
	return factory()
}

// ProbeBackend tests if a backend is available without fully initializing it.
// Returns BackendInfo if available, error otherwise.
func ProbeBackend(variant types.Backend) (*BackendInfo, error) {
	if b, ok := GetBackend(variant); ok {
		return &BackendInfo{Variant: variant, Name: b.Variant().String()}, nil
	}

	backendsMu.RLock()
	factory, hasFactory := registeredFactories[variant]
	backendsMu.RUnlock()

	if !hasFactory {
		return nil, ErrBackendNotFound
	}

	b, err := factory()
	if err != nil {
		return nil, err
	}
	RegisterBackend(b)

	return &BackendInfo{Variant: b.Variant(), Name: b.Variant().String()}, nil
}

// SelectBestBackend chooses the most capable available backend.
// Priority: Vulkan > Mock.
func SelectBestBackend() (Backend, error) {
	priority := []types.Backend{
		types.BackendVulkan,
		types.BackendMock,
	}

	for _, variant := range priority {
		if backend, ok := GetBackend(variant); ok {
			return backend, nil
		}

		backendsMu.RLock()
		factory, hasFactory := registeredFactories[variant]
		backendsMu.RUnlock()

		if hasFactory {
			if b, err := factory(); err == nil {
				RegisterBackend(b)
				return b, nil
			}
		}
	}

	return nil, ErrBackendNotFound
}
