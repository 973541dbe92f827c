package testutil

import "github.com/vk/seedforge/internal/registry"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single generator, sink or asset handler.
type SimpleModule struct {
	GeneratorName string
	Generator     *registry.RegisteredGenerator

	SinkName string
	Sink     *registry.RegisteredSink

	AssetName string
	Asset     *registry.RegisteredAsset
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.GeneratorName != "" && m.Generator != nil {
		r.RegisterGenerator(m.GeneratorName, m.Generator)
	}
	if m.SinkName != "" && m.Sink != nil {
		r.RegisterSink(m.SinkName, m.Sink)
	}
	if m.AssetName != "" && m.Asset != nil {
		r.RegisterAssetHandler(m.AssetName, m.Asset)
	}
}
