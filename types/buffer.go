package types

// BufferUsage describes how a buffer can be used.
type BufferUsage uint32

const (
	// BufferUsageMapRead allows mapping the buffer for reading.
	BufferUsageMapRead BufferUsage = 1 << iota
	// BufferUsageMapWrite allows mapping the buffer for writing.
	BufferUsageMapWrite
	// BufferUsageCopySrc allows the buffer to be a copy source.
	BufferUsageCopySrc
	// BufferUsageCopyDst allows the buffer to be a copy destination.
	BufferUsageCopyDst
	// BufferUsageIndex allows use as an index buffer.
	BufferUsageIndex
	// BufferUsageVertex allows use as a vertex buffer.
	BufferUsageVertex
	// BufferUsageUniform allows use as a uniform buffer.
	BufferUsageUniform
	// BufferUsageStorage allows use as a storage buffer.
	BufferUsageStorage
	// BufferUsageIndirect allows use for indirect draw/dispatch.
	BufferUsageIndirect
	// BufferUsageQueryResolve allows use for query result resolution.
	BufferUsageQueryResolve
	// BufferUsageDeviceAddress allows querying a device address for the
	// buffer. Component E always requests this bit: the spec requires
	// every allocated buffer to expose a device address.
	BufferUsageDeviceAddress
)

// SharingMode describes whether a resource may be accessed concurrently
// by more than one queue family without an explicit ownership-transfer
// barrier (4.E: selected from the queue-family union a resource request
// declares).
type SharingMode uint8

const (
	// SharingExclusive is owned by a single queue family at a time;
	// moving it to another requires an ownership-transfer barrier.
	SharingExclusive SharingMode = iota
	// SharingConcurrent may be read or written by any of QueueFamilyMask's
	// queue families without a transfer.
	SharingConcurrent
)

// BufferDescriptor describes a buffer to allocate.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage

	// RequiredMemoryFlags and PreferredMemoryFlags drive memory-type
	// selection (4.C). Leaving both zero selects device-local memory.
	RequiredMemoryFlags  MemoryTypeFlags
	PreferredMemoryFlags MemoryTypeFlags

	// SharingMode and QueueFamilyMask (a bitmask of hal.QueueFamily
	// values) record which queues this buffer must be usable from
	// without an ownership transfer (4.E).
	SharingMode     SharingMode
	QueueFamilyMask uint32

	// InitialData, when non-nil, is staged and copied into the buffer
	// at InitialWriteOffset before the allocation is returned to the
	// caller (4.E).
	InitialData          []byte
	InitialWriteOffset    uint64
	InitialDataAlignment uint64
}

// IndexFormat describes the format of index buffer data.
type IndexFormat uint8

const (
	// IndexFormatUint16 uses 16-bit unsigned integers.
	IndexFormatUint16 IndexFormat = iota
	// IndexFormatUint32 uses 32-bit unsigned integers.
	IndexFormatUint32
)
