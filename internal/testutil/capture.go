package testutil

import (
	"context"
	"sync"

	"github.com/vk/seedforge/internal/registry"
)

// CaptureManifest declares the "capture" sink. Tests install it under
// modules/ alongside a scenario that wants to inspect fabricated records.
const CaptureManifest = `
sink "capture" {
  lifecycle {
    deliver = "DeliverCapture"
  }

  input "records" {
    type = any
  }

  input "label" {
    type    = string
    default = ""
  }
}
`

// CapturedDelivery is one delivery received by the capture sink.
type CapturedDelivery struct {
	Label   string
	Records any
}

// CaptureModule is a mock sink module that records every delivery it
// receives, so tests can assert on fabricated records without touching real
// outputs.
type CaptureModule struct {
	mu         sync.Mutex
	deliveries []CapturedDelivery
}

type captureInput struct {
	Records any    `seed:"records"`
	Label   string `seed:"label"`
}

// Register registers the "capture" sink's Go handler.
func (m *CaptureModule) Register(r *registry.Registry) {
	r.RegisterSink("DeliverCapture", &registry.RegisteredSink{
		NewInput: func() any { return new(captureInput) },
		NewDeps:  func() any { return new(struct{}) },
		Fn: func(_ context.Context, _ any, inputRaw any) error {
			input := inputRaw.(*captureInput)
			m.mu.Lock()
			defer m.mu.Unlock()
			m.deliveries = append(m.deliveries, CapturedDelivery{
				Label:   input.Label,
				Records: input.Records,
			})
			return nil
		},
	})
}

// Deliveries returns a copy of everything captured so far.
func (m *CaptureModule) Deliveries() []CapturedDelivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CapturedDelivery, len(m.deliveries))
	copy(out, m.deliveries)
	return out
}

// RecordsFor returns the records of the first delivery with the given label.
func (m *CaptureModule) RecordsFor(label string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.deliveries {
		if d.Label == label {
			return d.Records, true
		}
	}
	return nil, false
}
