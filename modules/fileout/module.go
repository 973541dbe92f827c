package fileout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the file sink.
type Input struct {
	Records any    `seed:"records"`
	Path    string `seed:"path"`
	Format  string `seed:"format"`
}

// Deps is an empty struct because this sink does not use any resources.
type Deps struct{}

// DeliverFile is the handler for the 'file' sink's deliver event. It encodes
// the records in the requested format and writes them to the target path.
func DeliverFile(ctx context.Context, deps *Deps, input *Input) error {
	logger := ctxlog.FromContext(ctx).With("sink", "file", "path", input.Path, "format", input.Format)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	data, err := encode(input.Records, input.Format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(input.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(input.Path, data, 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	logger.Info("💾 Records written.", "bytes", len(data))
	return nil
}

// encode serializes records into the requested format.
func encode(records any, format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(records, "", "  ")

	case "yaml":
		return yaml.Marshal(records)

	case "ndjson":
		var buf bytes.Buffer
		for _, row := range asRows(records) {
			line, err := json.Marshal(row)
			if err != nil {
				return nil, err
			}
			buf.Write(line)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported format '%s': must be 'json', 'yaml' or 'ndjson'", format)
	}
}

// asRows normalizes the records value to a slice. A dataset without a count
// produces a single record, which becomes a one-row slice.
func asRows(records any) []any {
	switch v := records.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

// Register registers the sink handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSink("DeliverFile", &registry.RegisteredSink{
		NewInput: func() any { return new(Input) },
		NewDeps:  func() any { return new(Deps) },
		Fn:       DeliverFile,
	})
}
