package hclconf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/fsutil"
	"github.com/vk/seedforge/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. Blueprints, manifests and scenario blocks may be mixed freely.
type fileRoot struct {
	Blueprints []*schema.Blueprint       `hcl:"blueprint,block"`
	Sinks      []*schema.SinkDefinition  `hcl:"sink,block"`
	Assets     []*schema.AssetDefinition `hcl:"asset,block"`
	Datasets   []*schema.Dataset         `hcl:"dataset,block"`
	Outputs    []*schema.Output          `hcl:"output,block"`
	Resources  []*schema.Resource        `hcl:"resource,block"`
	Remain     hcl.Body                  `hcl:",remain"`
}

// Load orchestrates the entire HCL configuration loading process. It is
// agnostic to the origin of the paths and parses any valid block from any
// file.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{
		Blueprints: make(map[string]*config.BlueprintDefinition),
		Sinks:      make(map[string]*config.SinkDefinition),
		Assets:     make(map[string]*config.AssetDefinition),
		Scenario:   &config.Scenario{},
	}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		// Translate and merge all discovered blocks into the model.
		for _, bp := range root.Blueprints {
			def, err := l.translateBlueprint(ctx, bp)
			if err != nil {
				return nil, nil, err
			}
			model.Blueprints[def.Name] = def
		}
		for _, sink := range root.Sinks {
			def, err := l.translateSinkDefinition(ctx, sink)
			if err != nil {
				return nil, nil, err
			}
			model.Sinks[def.Type] = def
		}
		for _, asset := range root.Assets {
			def, err := l.translateAssetDefinition(ctx, asset)
			if err != nil {
				return nil, nil, err
			}
			model.Assets[def.Type] = def
		}
		for _, ds := range root.Datasets {
			model.Scenario.Datasets = append(model.Scenario.Datasets, l.translateDataset(ds))
		}
		for _, out := range root.Outputs {
			model.Scenario.Outputs = append(model.Scenario.Outputs, l.translateOutput(out))
		}
		for _, res := range root.Resources {
			model.Scenario.Resources = append(model.Scenario.Resources, l.translateResource(res))
		}
	}

	logger.Debug("HCL loading complete.",
		"blueprints", len(model.Blueprints),
		"sinks", len(model.Sinks),
		"assets", len(model.Assets),
		"datasets", len(model.Scenario.Datasets),
		"outputs", len(model.Scenario.Outputs),
		"resources", len(model.Scenario.Resources),
	)
	return model, NewConverter(), nil
}

// findAllHCLFiles walks all given paths and returns a flat, deduplicated
// list of .hcl files. A missing path is skipped, not an error; scenario and
// modules directories are both optional.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("error scanning directory %s: %w", path, err)
			}
			for _, f := range files {
				add(f)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
