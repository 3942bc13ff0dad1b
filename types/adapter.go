package types

// DeviceType identifies the type of GPU device.
type DeviceType uint8

const (
	// DeviceTypeOther is an unknown or other device type.
	DeviceTypeOther DeviceType = iota
	// DeviceTypeIntegratedGPU is integrated into the CPU (shared memory).
	DeviceTypeIntegratedGPU
	// DeviceTypeDiscreteGPU is a separate GPU with dedicated memory.
	DeviceTypeDiscreteGPU
	// DeviceTypeVirtualGPU is a virtual GPU (e.g., in a VM).
	DeviceTypeVirtualGPU
	// DeviceTypeCPU is software rendering on the CPU.
	DeviceTypeCPU
)

// String returns the device type name.
func (d DeviceType) String() string {
	switch d {
	case DeviceTypeOther:
		return "Other"
	case DeviceTypeIntegratedGPU:
		return "IntegratedGpu"
	case DeviceTypeDiscreteGPU:
		return "DiscreteGpu"
	case DeviceTypeVirtualGPU:
		return "VirtualGpu"
	case DeviceTypeCPU:
		return "Cpu"
	default:
		return "Unknown"
	}
}

// AdapterInfo contains information about a GPU adapter.
type AdapterInfo struct {
	Name       string
	Vendor     string
	VendorID   uint32
	DeviceID   uint32
	DeviceType DeviceType
	Driver     string
	DriverInfo string
	Backend    Backend
}

// MemoryTypeFlags describes the properties of a single device memory type,
// as reported by the graphics API for memory-type selection (4.C).
type MemoryTypeFlags uint32

const (
	// MemoryFlagDeviceLocal marks memory resident on the GPU.
	MemoryFlagDeviceLocal MemoryTypeFlags = 1 << iota
	// MemoryFlagHostVisible marks memory the CPU can map.
	MemoryFlagHostVisible
	// MemoryFlagHostCoherent marks mapped memory that needs no explicit flush.
	MemoryFlagHostCoherent
	// MemoryFlagHostCached marks mapped memory that is cached on the CPU side.
	MemoryFlagHostCached
)

// Contains reports whether all bits in want are set.
func (f MemoryTypeFlags) Contains(want MemoryTypeFlags) bool {
	return f&want == want
}

// MemoryType is one entry of a physical device's memory-type table.
type MemoryType struct {
	Flags  MemoryTypeFlags
	HeapIndex uint32
}

// MemoryHeap is one entry of a physical device's memory-heap table.
type MemoryHeap struct {
	Size uint64
}

// MemoryProperties is the subset of physical-device memory information the
// GPU allocator needs to select a memory type for a request.
type MemoryProperties struct {
	Types []MemoryType
	Heaps []MemoryHeap
}
