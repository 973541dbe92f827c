package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/seedforge/internal/registry"
	"github.com/vk/seedforge/internal/testutil"
)

// Test for: an error returned by a generator propagates unwrapped through
// the build, fails the run, and skips every dependent node.
func TestErrorHandling_GeneratorFailure_TriggersFailFast(t *testing.T) {
	// --- Arrange ---
	expectedErr := errors.New("generator failed as expected")

	scenarioHCL := `
		blueprint "flaky" {
			field "value" {
				generator = "explode"
			}
		}

		dataset "flaky" "a" {}

		output "capture" "result" {
			arguments {
				records = dataset.flaky.a
			}
		}
	`
	files := map[string]string{
		"scenario/main.hcl":            scenarioHCL,
		"modules/capture/manifest.hcl": testutil.CaptureManifest,
	}

	failingGenerator := &testutil.SimpleModule{
		GeneratorName: "explode",
		Generator: &registry.RegisteredGenerator{
			Fn: func() (string, error) { return "", expectedErr },
		},
	}
	captureModule := &testutil.CaptureModule{}

	// --- Act ---
	result := testutil.RunScenarioTest(t, files, failingGenerator, captureModule)

	// --- Assert ---
	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, expectedErr, "the generator's error should come back unwrapped in the chain")

	require.Empty(t, captureModule.Deliveries(), "fail-fast did not work: a dependent output still delivered")
	testutil.AssertNodeSkipped(t, result, "output.capture.result")
}
