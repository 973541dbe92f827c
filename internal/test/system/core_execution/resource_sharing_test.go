package system

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/seedforge/internal/registry"
	"github.com/vk/seedforge/internal/testutil"
)

// mockSharedResourceModule is a self-contained module for the resource
// sharing test. It counts asset lifecycle calls and records the instance
// each output received.
type mockSharedResourceModule struct {
	createCount  atomic.Int64
	destroyCount atomic.Int64
	mu           sync.Mutex
	seen         map[string]any
}

// Register registers the "spy_resource" asset and the "reporter" sink.
func (m *mockSharedResourceModule) Register(r *registry.Registry) {
	r.RegisterAssetHandler("CreateSpyResource", &registry.RegisteredAsset{
		NewInput: func() any { return new(struct{}) },
		CreateFn: func(context.Context, any) (any, error) {
			m.createCount.Add(1)
			return "spy_instance", nil
		},
	})
	r.RegisterAssetHandler("DestroySpyResource", &registry.RegisteredAsset{
		DestroyFn: func(any) error {
			m.destroyCount.Add(1)
			return nil
		},
	})

	type reporterDeps struct {
		R any `seed:"r"`
	}
	type reporterInput struct {
		Name string `seed:"name"`
	}
	r.RegisterSink("DeliverReporter", &registry.RegisteredSink{
		NewInput: func() any { return new(reporterInput) },
		NewDeps:  func() any { return new(reporterDeps) },
		Fn: func(_ context.Context, depsRaw any, inputRaw any) error {
			deps := depsRaw.(*reporterDeps)
			input := inputRaw.(*reporterInput)
			m.mu.Lock()
			m.seen[input.Name] = deps.R
			m.mu.Unlock()
			return nil
		},
	})
}

// Test for: a resource is created once, injected into every output that
// uses it, and destroyed exactly once after its last consumer finishes.
func TestCoreExecution_ResourceInstanceSharing(t *testing.T) {
	// --- Arrange ---
	assetManifest := `
		asset "spy_resource" {
			lifecycle {
				create  = "CreateSpyResource"
				destroy = "DestroySpyResource"
			}
		}
	`
	sinkManifest := `
		sink "reporter" {
			lifecycle {
				deliver = "DeliverReporter"
			}
			input "name" {
				type = string
			}
			uses "r" {
				asset_type = "spy_resource"
			}
		}
	`
	scenarioHCL := `
		resource "spy_resource" "shared" {}

		output "reporter" "first" {
			arguments {
				name = "first"
			}
			uses {
				r = resource.spy_resource.shared
			}
		}

		output "reporter" "second" {
			arguments {
				name = "second"
			}
			uses {
				r = resource.spy_resource.shared
			}
		}
	`
	files := map[string]string{
		"scenario/main.hcl":                 scenarioHCL,
		"modules/spy_resource/manifest.hcl": assetManifest,
		"modules/reporter/manifest.hcl":     sinkManifest,
	}
	mockModule := &mockSharedResourceModule{seen: make(map[string]any)}

	// --- Act ---
	result := testutil.RunScenarioTest(t, files, mockModule)
	require.NoError(t, result.Err, "test run failed unexpectedly")

	// --- Assert ---
	require.Equal(t, int64(1), mockModule.createCount.Load(), "resource should be created exactly once")
	require.Equal(t, int64(1), mockModule.destroyCount.Load(), "resource should be destroyed exactly once")

	require.Equal(t, "spy_instance", mockModule.seen["first"], "first output did not receive the shared instance")
	require.Equal(t, "spy_instance", mockModule.seen["second"], "second output did not receive the shared instance")

	testutil.AssertNodeRan(t, result, "resource.spy_resource.shared")
	testutil.AssertNodeRan(t, result, "output.reporter.first")
	testutil.AssertNodeRan(t, result, "output.reporter.second")
}
