package types

// TextureFormat describes the format of a texture.
type TextureFormat uint32

const (
	TextureFormatUndefined TextureFormat = iota

	TextureFormatR8Unorm
	TextureFormatR8Uint

	TextureFormatR16Float
	TextureFormatRG8Unorm

	TextureFormatR32Uint
	TextureFormatR32Float
	TextureFormatRG16Float
	TextureFormatRGBA8Unorm
	TextureFormatRGBA8UnormSrgb
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSrgb

	TextureFormatRG32Float
	TextureFormatRGBA16Float

	TextureFormatRGBA32Float

	TextureFormatStencil8
	TextureFormatDepth16Unorm
	TextureFormatDepth24PlusStencil8
	TextureFormatDepth32Float
	TextureFormatDepth32FloatStencil8
)

// IsDepthOrStencil reports whether the format carries a depth or stencil
// aspect.
func (f TextureFormat) IsDepthOrStencil() bool {
	switch f {
	case TextureFormatStencil8, TextureFormatDepth16Unorm,
		TextureFormatDepth24PlusStencil8, TextureFormatDepth32Float,
		TextureFormatDepth32FloatStencil8:
		return true
	default:
		return false
	}
}

// BytesPerTexel returns the size of one texel for uncompressed formats,
// or 0 for a format it does not list.
func (f TextureFormat) BytesPerTexel() uint32 {
	switch f {
	case TextureFormatR8Unorm, TextureFormatR8Uint, TextureFormatStencil8:
		return 1
	case TextureFormatR16Float, TextureFormatRG8Unorm, TextureFormatDepth16Unorm:
		return 2
	case TextureFormatR32Uint, TextureFormatR32Float, TextureFormatRG16Float,
		TextureFormatRGBA8Unorm, TextureFormatRGBA8UnormSrgb,
		TextureFormatBGRA8Unorm, TextureFormatBGRA8UnormSrgb,
		TextureFormatDepth24PlusStencil8, TextureFormatDepth32Float:
		return 4
	case TextureFormatRG32Float, TextureFormatRGBA16Float, TextureFormatDepth32FloatStencil8:
		return 8
	case TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

// TextureDimension describes texture dimensions.
type TextureDimension uint8

const (
	TextureDimension1D TextureDimension = iota
	TextureDimension2D
	TextureDimension3D
)

// TextureViewDimension describes a texture view dimension.
type TextureViewDimension uint8

const (
	TextureViewDimensionUndefined TextureViewDimension = iota
	TextureViewDimension2D
	TextureViewDimension2DArray
	TextureViewDimension3D
)

// TextureAspect describes which aspects of a texture to access.
type TextureAspect uint8

const (
	TextureAspectColor TextureAspect = iota
	TextureAspectDepth
	TextureAspectStencil
	TextureAspectDepthStencil
)

// TextureUsage describes how a texture can be used.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageTextureBinding
	TextureUsageStorageBinding
	TextureUsageColorAttachment
	TextureUsageDepthStencilAttachment
)

// TextureDescriptor describes a texture to allocate (4.E).
type TextureDescriptor struct {
	Label         string
	Size          Extent3D
	MipLevelCount uint32
	LayerCount    uint32
	Format        TextureFormat
	Usage         TextureUsage
	Aspect        TextureAspect

	// SharingMode and QueueFamilyMask (a bitmask of hal.QueueFamily
	// values) record which queues this texture must be usable from
	// without an ownership transfer (4.E).
	SharingMode     SharingMode
	QueueFamilyMask uint32

	// InitialData carries bytes for mip 0, layer 0. No code in this
	// module reads it: the noop backend ignores it, and
	// resource.AllocateTexture stages uploads from
	// TextureRequest.InitialData without setting this field.
	InitialData          []byte
	InitialDataAlignment uint64
}

// TextureViewDescriptor describes a texture view.
type TextureViewDescriptor struct {
	Label           string
	Format          TextureFormat
	Dimension       TextureViewDimension
	Aspect          TextureAspect
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}

// Extent3D describes a 3D size.
type Extent3D struct {
	Width              uint32
	Height             uint32
	DepthOrArrayLayers uint32
}

// Origin3D describes a 3D origin.
type Origin3D struct {
	X, Y, Z uint32
}
