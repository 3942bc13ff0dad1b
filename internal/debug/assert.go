// Package debug provides a build-tag-gated assertion helper for the
// programming-error category of spec.md section 7: invariant violations
// (double-free of a TLSF block, a zero-size or non-power-of-two-aligned
// TLSF request, other TLSF free-list invariants,
// render-graph profiling scopes closed out of order) that panic in debug
// builds and are left as undefined behavior in release builds. An
// allocation larger than the TLSF root, crossing the transient-staging
// command-buffer cap and specifying both acquire/release stage forms are
// not asserted; they are returned as errors (tlsf.ErrOutOfSpace,
// staging.ErrOverflow, resource.ErrBothStageForms).
//
// Build with -tags graphcore_debug to enable; Assert is a zero-cost no-op
// otherwise, matching spec.md's "assert in debug builds, undefined in
// release" wording.
package debug
