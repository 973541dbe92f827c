package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/seedforge/internal/registry"
)

// SleeperManifest declares the "sleeper" sink used by concurrency tests.
const SleeperManifest = `
sink "sleeper" {
  lifecycle {
    deliver = "DeliverSleeper"
  }

  input "id" {
    type = string
  }
}
`

// MockSleeperModule is a shared, self-contained module for concurrency
// tests. It records the execution window of every output that uses it.
type MockSleeperModule struct {
	ExecutionTimes map[string]*ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
	completionChan chan<- string
}

// NewMockSleeperModule creates a new sleeper module for testing.
func NewMockSleeperModule(completionChan chan<- string, sleep time.Duration) *MockSleeperModule {
	return &MockSleeperModule{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
		completionChan: completionChan,
	}
}

// Register registers the "sleeper" sink's Go handler.
func (m *MockSleeperModule) Register(r *registry.Registry) {
	type sleeperInput struct {
		ID string `seed:"id"`
	}

	r.RegisterSink("DeliverSleeper", &registry.RegisteredSink{
		NewInput: func() any { return new(sleeperInput) },
		NewDeps:  func() any { return new(struct{}) },
		Fn: func(_ context.Context, _ any, inputRaw any) error {
			input := inputRaw.(*sleeperInput)

			startTime := time.Now()
			time.Sleep(m.sleepDuration)
			endTime := time.Now()

			m.mu.Lock()
			m.ExecutionTimes[input.ID] = &ExecutionRecord{Start: startTime, End: endTime}
			m.mu.Unlock()

			if m.completionChan != nil {
				m.completionChan <- input.ID
			}
			return nil
		},
	})
}
