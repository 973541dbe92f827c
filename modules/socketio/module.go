package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the socketio_emit sink.
type Input struct {
	Records            any    `seed:"records"`
	URL                string `seed:"url"`
	EmitEvent          string `seed:"emit_event"`
	Namespace          string `seed:"namespace"`
	AckEvent           string `seed:"ack_event"`
	Timeout            string `seed:"timeout"`
	InsecureSkipVerify bool   `seed:"insecure_skip_verify"`
}

// Deps is an empty struct because this sink does not use any resources.
type Deps struct{}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	err error
}

// DeliverSocketIO is the handler for the 'socketio_emit' sink's deliver
// event. It connects, emits one event per record, optionally waits for an
// acknowledgement event from the server, and disconnects.
func DeliverSocketIO(ctx context.Context, deps *Deps, input *Input) error {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio_emit", "url", input.URL, "emitEvent", input.EmitEvent)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	rows := asRows(input.Records)
	if len(rows) == 0 {
		logger.Warn("No records to emit.")
		return nil
	}

	var isConnected atomic.Bool

	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		logger.Warn("Failed to parse timeout, using default 10s", "inputTimeout", input.Timeout, "error", err)
		timeout = 10 * time.Second
	}

	done := make(chan opResult, 1)
	finish := func(err error) {
		// First result wins; the socket library may fire callbacks after
		// the handler has already returned.
		select {
		case done <- opResult{err: err}:
		default:
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)

	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(input.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	// --- Event Listeners ---
	if input.AckEvent != "" {
		io.On(types.EventName(input.AckEvent), func(...any) {
			finish(nil)
		})
	}

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", input.Namespace, "sid", io.Id())
		for _, row := range rows {
			io.Emit(input.EmitEvent, row)
		}
		logger.Info("📨 Records emitted.", "count", len(rows))
		if input.AckEvent == "" {
			finish(nil)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				finish(err)
				return
			}
		}
		finish(fmt.Errorf("connection failed"))
	})

	// --- Execution Block ---
	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return fmt.Errorf("timed out after connecting while waiting for event '%s'", input.AckEvent)
		}
		return fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.err
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
	r.RegisterSink("DeliverSocketIO", &registry.RegisteredSink{
		NewInput: func() any { return new(Input) },
		NewDeps:  func() any { return new(Deps) },
		Fn:       DeliverSocketIO,
	})
}
