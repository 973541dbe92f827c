package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/seedforge/internal/field"
	"github.com/vk/seedforge/internal/testutil"
)

// Test for: building a dataset that omits a required field fails the run
// with a parameter error and skips every dependent output.
func TestErrorHandling_RequiredFieldMissing_FailsBuild(t *testing.T) {
	// --- Arrange ---
	scenarioHCL := `
		blueprint "account" {
			field "owner" {
				required = true
			}
		}

		dataset "account" "acme" {}

		output "capture" "result" {
			arguments {
				records = dataset.account.acme
			}
		}
	`
	files := map[string]string{
		"scenario/main.hcl":            scenarioHCL,
		"modules/capture/manifest.hcl": testutil.CaptureManifest,
	}
	captureModule := &testutil.CaptureModule{}

	// --- Act ---
	result := testutil.RunScenarioTest(t, files, captureModule)

	// --- Assert ---
	require.Error(t, result.Err, "a missing required field should fail the run")
	require.ErrorContains(t, result.Err, "requires field 'owner'")

	var paramErr *field.ParameterError
	require.ErrorAs(t, result.Err, &paramErr, "the failure should surface as a parameter error")

	require.Empty(t, captureModule.Deliveries(), "no records should reach the sink after a build failure")
	testutil.AssertNodeSkipped(t, result, "output.capture.result")
}
