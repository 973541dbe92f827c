package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/engine"
	"github.com/vk/seedforge/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	cfg       *Config
	registry  *registry.Registry
	model     *config.Model
	converter config.Converter
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Startup failures are fatal and panic; entrypoints recover and report.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Merge all configuration paths into a single collection for the loader.
	var configPaths []string
	if cfg.ScenarioPath != "" {
		configPaths = append(configPaths, cfg.ScenarioPath)
	}
	if cfg.ModulesPath != "" {
		configPaths = append(configPaths, cfg.ModulesPath)
	}

	// Load all configuration into the format-agnostic model first.
	model, converter, err := loader.Load(ctx, configPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	// Create and populate the registry with Go handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = CoreModules(cfg.Seed)
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	// Populate the registry's definitions from the loaded config model.
	reg.PopulateDefinitionsFromModel(model)
	logger.Debug("Registry definitions populated from config model.")

	// Validate the integrity of the registry before compiling anything
	// against it.
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	// Compile every blueprint into a registered builder.
	if err := engine.CompileModel(ctx, model, reg, converter); err != nil {
		panic(fmt.Errorf("failed to compile blueprints: %w", err))
	}
	logger.Debug("Blueprints compiled.", "count", len(model.Blueprints))

	return &App{
		outW:      outW,
		logger:    logger,
		cfg:       cfg,
		registry:  reg,
		model:     model,
		converter: converter,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded configuration model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
