package registry

import (
	"reflect"
	"sync"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/field"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered handlers, definitions, interfaces and
// builders for a single application instance.
type Registry struct {
	GeneratorRegistry       map[string]*RegisteredGenerator
	SinkHandlerRegistry     map[string]*RegisteredSink
	AssetHandlerRegistry    map[string]*RegisteredAsset
	SinkDefinitionRegistry  map[string]*config.SinkDefinition
	AssetDefinitionRegistry map[string]*config.AssetDefinition
	AssetInterfaceRegistry  map[string]reflect.Type

	buildersMu sync.RWMutex
	builders   map[string]field.Builder
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		GeneratorRegistry:       make(map[string]*RegisteredGenerator),
		SinkHandlerRegistry:     make(map[string]*RegisteredSink),
		AssetHandlerRegistry:    make(map[string]*RegisteredAsset),
		SinkDefinitionRegistry:  make(map[string]*config.SinkDefinition),
		AssetDefinitionRegistry: make(map[string]*config.AssetDefinition),
		AssetInterfaceRegistry:  make(map[string]reflect.Type),
		builders:                make(map[string]field.Builder),
	}
}

// PopulateDefinitionsFromModel copies the loaded module definitions from the
// config model into the registry for easy access during execution.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model) {
	for key, val := range model.Sinks {
		r.SinkDefinitionRegistry[key] = val
	}
	for key, val := range model.Assets {
		r.AssetDefinitionRegistry[key] = val
	}
}
