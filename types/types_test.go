package types

import "testing"

func TestTextureFormatIsDepthOrStencil(t *testing.T) {
	cases := map[TextureFormat]bool{
		TextureFormatRGBA8Unorm:   false,
		TextureFormatDepth32Float: true,
		TextureFormatStencil8:     true,
	}
	for format, want := range cases {
		if got := format.IsDepthOrStencil(); got != want {
			t.Errorf("%v.IsDepthOrStencil() = %v, want %v", format, got, want)
		}
	}
}

func TestTextureFormatBytesPerTexel(t *testing.T) {
	if got := TextureFormatRGBA8Unorm.BytesPerTexel(); got != 4 {
		t.Errorf("RGBA8Unorm.BytesPerTexel() = %d, want 4", got)
	}
	if got := TextureFormatRGBA32Float.BytesPerTexel(); got != 16 {
		t.Errorf("RGBA32Float.BytesPerTexel() = %d, want 16", got)
	}
	if got := TextureFormatUndefined.BytesPerTexel(); got != 0 {
		t.Errorf("Undefined.BytesPerTexel() = %d, want 0", got)
	}
}

func TestFeaturesContains(t *testing.T) {
	var f Features
	if f.Contains(FeatureTimestampQuery) {
		t.Fatal("zero-value Features should contain nothing")
	}
	f.Insert(FeatureTimestampQuery)
	if !f.Contains(FeatureTimestampQuery) {
		t.Fatal("Insert did not set the feature bit")
	}
	if f.Contains(FeaturePushConstants) {
		t.Fatal("unrelated feature bit should not be set")
	}
}

func TestMemoryTypeFlagsContains(t *testing.T) {
	flags := MemoryFlagDeviceLocal | MemoryFlagHostVisible
	if !flags.Contains(MemoryFlagHostVisible) {
		t.Fatal("expected HostVisible bit to be set")
	}
	if flags.Contains(MemoryFlagHostCached) {
		t.Fatal("did not expect HostCached bit to be set")
	}
	if !flags.Contains(MemoryFlagDeviceLocal | MemoryFlagHostVisible) {
		t.Fatal("Contains should accept a combined mask")
	}
}
