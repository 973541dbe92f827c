package registry

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/vk/seedforge/internal/field"
)

// RegisteredGenerator holds the compiled Go callable behind a named
// generator. Blueprints reference generators by name for computed fields.
type RegisteredGenerator struct {
	Fn any
}

// RegisterGenerator registers a Go callable as a named generator.
func (r *Registry) RegisterGenerator(name string, gen *RegisteredGenerator) {
	if _, exists := r.GeneratorRegistry[name]; exists {
		panic(fmt.Sprintf("generator with name '%s' already registered", name))
	}
	slog.Debug("Registering generator.", "name", name)
	r.GeneratorRegistry[name] = gen
}

// RegisteredSink holds the compiled Go parts of a sink's delivery function.
type RegisteredSink struct {
	NewInput func() any
	NewDeps  func() any
	Fn       any
}

// RegisterSink registers a Go function for a sink's delivery event.
func (r *Registry) RegisterSink(name string, handler *RegisteredSink) {
	if _, exists := r.SinkHandlerRegistry[name]; exists {
		panic(fmt.Sprintf("sink handler with name '%s' already registered", name))
	}
	slog.Debug("Registering sink handler.", "name", name)
	r.SinkHandlerRegistry[name] = handler
}

// RegisteredAsset holds Go functions for an asset's lifecycle.
type RegisteredAsset struct {
	NewInput  func() any
	CreateFn  any
	DestroyFn any
}

// RegisterAssetHandler registers Go functions for an asset's lifecycle events.
func (r *Registry) RegisterAssetHandler(name string, handler *RegisteredAsset) {
	if _, exists := r.AssetHandlerRegistry[name]; exists {
		panic(fmt.Sprintf("asset handler with name '%s' already registered", name))
	}
	slog.Debug("Registering asset handler.", "name", name)
	r.AssetHandlerRegistry[name] = handler
}

// RegisterAssetInterface registers the Go interface contract for an asset type.
func (r *Registry) RegisterAssetInterface(assetType string, iface reflect.Type) {
	if _, exists := r.AssetInterfaceRegistry[assetType]; exists {
		panic(fmt.Sprintf("interface for asset type '%s' already registered", assetType))
	}
	slog.Debug("Registering asset interface.", "assetType", assetType, "interface", iface.String())
	r.AssetInterfaceRegistry[assetType] = iface
}

// RegisterBuilder registers a record builder under its identity. The engine
// registers one per compiled blueprint; Go modules may register their own.
func (r *Registry) RegisterBuilder(name string, b field.Builder) {
	r.buildersMu.Lock()
	defer r.buildersMu.Unlock()
	if _, exists := r.builders[name]; exists {
		panic(fmt.Sprintf("builder with name '%s' already registered", name))
	}
	slog.Debug("Registering builder.", "name", name)
	r.builders[name] = b
}

// Builder looks up a registered builder by identity. It implements
// field.Lookup; a miss is reported to the caller, who surfaces it as a
// *field.ParameterError at resolve time.
func (r *Registry) Builder(name string) (field.Builder, bool) {
	r.buildersMu.RLock()
	defer r.buildersMu.RUnlock()
	b, ok := r.builders[name]
	return b, ok
}
