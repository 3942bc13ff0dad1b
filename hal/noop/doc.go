// Package noop provides an in-memory mock GPU backend.
//
// The mock backend implements every hal interface but performs no real GPU
// work: buffers are backed by Go slices, fences and semaphores are atomic
// counters, and command encoding only records enough bookkeeping to make
// pipeline-barrier and render/compute-pass tests meaningful. It exists to
// drive the allocator, staging, and render-graph test suites without a GPU,
// and is identified as types.BackendMock.
package noop
