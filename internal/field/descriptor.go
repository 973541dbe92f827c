package field

import "context"

// Descriptor marks a value-production strategy for one blueprint field. The
// set of implementations is closed; the engine dispatches on the concrete
// type.
type Descriptor interface {
	isDescriptor()
}

// Required marks a field whose value must be supplied by the caller at build
// time. Building a record without an override for a required field fails
// with a *ParameterError.
type Required struct{}

func (Required) isDescriptor() {}

// Ignored marks a field that is always excluded from built records, even
// when the caller supplies an override for it.
type Ignored struct{}

func (Ignored) isDescriptor() {}

// Literal carries a fixed value that is copied into every built record.
type Literal struct {
	Value any
}

func (Literal) isDescriptor() {}

// Computed stores a callable and a fixed argument list. The engine resolves
// it during the first pass, before any Deferred field of the same record.
type Computed struct {
	fn   any
	args []any
}

// NewComputed returns a Computed descriptor for fn with the given arguments.
// The callable is not invoked and its signature is not checked here; both
// happen on Resolve.
func NewComputed(fn any, args ...any) Computed {
	return Computed{fn: fn, args: args}
}

func (Computed) isDescriptor() {}

// Resolve invokes the stored callable with the stored arguments and returns
// its value. Nothing is memoized: calling Resolve twice invokes the callable
// twice. An error returned by the callable comes back unwrapped.
func (c Computed) Resolve() (any, error) {
	return call(c.fn, c.args)
}

// Deferred stores a callable that runs during the second pass, once every
// non-deferred field of the record has a value.
type Deferred struct {
	fn   any
	args []any
}

// NewDeferred returns a Deferred descriptor for fn. On Resolve the callable
// receives the field's name, the record's already-resolved values, and then
// any extra arguments given here.
func NewDeferred(fn any, args ...any) Deferred {
	return Deferred{fn: fn, args: args}
}

func (Deferred) isDescriptor() {}

// Resolve invokes the stored callable as fn(name, resolved, args...). The
// caller must not invoke it before the record's first pass has completed;
// resolved holds every value produced so far, including earlier deferred
// fields. The callable may read resolved but must not mutate it.
func (d Deferred) Resolve(name string, resolved map[string]any) (any, error) {
	callArgs := make([]any, 0, len(d.args)+2)
	callArgs = append(callArgs, name, resolved)
	callArgs = append(callArgs, d.args...)
	return call(d.fn, callArgs)
}

// Builder constructs records. The engine's per-blueprint builders implement
// it, and Delegated descriptors consume it through a Lookup.
type Builder interface {
	// Build fabricates a single record, applying the given overrides.
	Build(ctx context.Context, overrides map[string]any) (map[string]any, error)
	// Batch fabricates size independent records, applying the same
	// overrides to each.
	Batch(ctx context.Context, size int, overrides map[string]any) ([]map[string]any, error)
}

// Lookup resolves builder identities to Builder instances. Lookups happen at
// resolve time, so a builder registered after the descriptor was constructed
// is still found.
type Lookup interface {
	Builder(name string) (Builder, bool)
}

// Delegated stores the identity of another builder plus the build parameters
// to pass along. It holds a name rather than a Builder so the target can be
// registered later, and so blueprints stay serializable.
type Delegated struct {
	builder   string
	size      int
	overrides map[string]any
}

// NewDelegated returns a Delegated descriptor targeting the named builder.
// A size greater than zero requests a batch of that many records; zero
// requests a single record. The overrides map is handed to the target
// builder as-is and may be nil.
func NewDelegated(builder string, size int, overrides map[string]any) Delegated {
	return Delegated{builder: builder, size: size, overrides: overrides}
}

func (Delegated) isDescriptor() {}

// Builder returns the identity of the target builder.
func (d Delegated) Builder() string { return d.builder }

// Resolve looks the target builder up and triggers construction: Batch when
// a positive size was configured, Build otherwise. An unregistered target is
// a *ParameterError. Builder errors come back unwrapped, and nothing is
// cached between calls.
func (d Delegated) Resolve(ctx context.Context, builders Lookup) (any, error) {
	b, ok := builders.Builder(d.builder)
	if !ok {
		return nil, NewParameterError("builder %q is not registered; delegated fields require the target builder to be registered before resolution", d.builder)
	}
	if d.size > 0 {
		return b.Batch(ctx, d.size, d.overrides)
	}
	return b.Build(ctx, d.overrides)
}
