// Package field defines the descriptor protocol at the heart of the
// fabrication engine. A blueprint field carries one Descriptor, which tells
// the engine how the field's value is produced: supplied by the caller
// (Required), excluded from output (Ignored), taken verbatim (Literal),
// computed from a stored callable (Computed), computed after the rest of the
// record is known (Deferred), or delegated to another registered builder
// (Delegated).
//
// Descriptors are inert data until resolved. Resolution never caches: every
// call re-invokes the underlying callable or builder, so values are fresh on
// each build. Errors from callables and builders pass through unwrapped, and
// the first failing field aborts the record being built.
package field
