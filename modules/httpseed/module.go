package httpseed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the http_post sink.
type Input struct {
	Records any               `seed:"records"`
	URL     string            `seed:"url"`
	Batch   bool              `seed:"batch"`
	Headers map[string]string `seed:"headers"`
}

// Deps declares the resources injected into the sink handler.
type Deps struct {
	Client *http.Client `seed:"client"`
}

// DeliverHttpPost is the handler for the 'http_post' sink's deliver event.
// It posts records as JSON: one request per record, or a single request with
// the full batch when batch mode is on.
func DeliverHttpPost(ctx context.Context, deps *Deps, input *Input) error {
	logger := ctxlog.FromContext(ctx).With("sink", "http_post", "url", input.URL)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	rows := asRows(input.Records)
	if len(rows) == 0 {
		logger.Warn("No records to post.")
		return nil
	}

	if input.Batch {
		if err := post(ctx, deps.Client, input, rows); err != nil {
			return fmt.Errorf("posting batch: %w", err)
		}
		logger.Info("📤 Batch posted.", "records", len(rows))
		return nil
	}

	for i, row := range rows {
		if err := post(ctx, deps.Client, input, row); err != nil {
			return fmt.Errorf("posting record %d: %w", i, err)
		}
	}
	logger.Info("📤 Records posted.", "requests", len(rows))
	return nil
}

func post(ctx context.Context, client *http.Client, input *Input, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, input.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range input.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, input.URL)
	}
	return nil
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

// Register registers the asset handlers, asset interface and sink handler
// with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAssetHandler("CreateHttpClient", &registry.RegisteredAsset{
		NewInput: func() any { return new(AssetInput) },
		CreateFn: CreateHttpClient,
	})
	r.RegisterAssetHandler("DestroyHttpClient", &registry.RegisteredAsset{
		DestroyFn: DestroyHttpClient,
	})
	r.RegisterAssetInterface("http_client", reflect.TypeOf((*http.Client)(nil)))

	r.RegisterSink("DeliverHttpPost", &registry.RegisteredSink{
		NewInput: func() any { return new(Input) },
		NewDeps:  func() any { return new(Deps) },
		Fn:       DeliverHttpPost,
	})
}
