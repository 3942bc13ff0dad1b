// Package types defines the backend-agnostic value types shared by the
// allocator, resource, surface and render graph packages: texture and
// buffer formats/usages, adapter and feature descriptions, and the
// small value types (Extent3D, Origin3D, Color) used throughout
// descriptor records.
//
// These types carry no behavior of their own; they exist so that
// hal, alloc/gpumem, resource and rendergraph can agree on a single
// vocabulary without importing each other.
package types
