package app

import (
	"github.com/vk/seedforge/internal/registry"
	"github.com/vk/seedforge/modules/chrono"
	"github.com/vk/seedforge/modules/envsrc"
	"github.com/vk/seedforge/modules/fileout"
	"github.com/vk/seedforge/modules/httpseed"
	"github.com/vk/seedforge/modules/identifier"
	"github.com/vk/seedforge/modules/sampler"
	"github.com/vk/seedforge/modules/sequence"
	"github.com/vk/seedforge/modules/socketio"
	"github.com/vk/seedforge/modules/sqliteseed"
)

// CoreModules returns the list of all built-in modules. The seed parameter
// feeds the sampler's random source; zero selects a time-derived seed.
func CoreModules(seed int64) []registry.Module {
	return []registry.Module{
		&identifier.Module{},
		&sequence.Module{},
		&chrono.Module{},
		&sampler.Module{Seed: seed},
		&envsrc.Module{},
		&fileout.Module{},
		&sqliteseed.Module{},
		&httpseed.Module{},
		&socketio.Module{},
	}
}
