package system

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/seedforge/internal/testutil"
)

// Test for: `with` overrides win over declared fields, satisfy required
// fields, merge undeclared keys, and never resurrect ignored fields.
func TestCoreExecution_OverridePrecedence(t *testing.T) {
	// --- Arrange ---
	scenarioHCL := `
		blueprint "account" {
			field "plan" {
				value = "free"
			}
			field "owner" {
				required = true
			}
			field "internal_notes" {
				ignored = true
			}
		}

		dataset "account" "acme" {
			with {
				plan           = "enterprise"
				owner          = "acme-corp"
				internal_notes = "should never appear"
				region         = "eu-west-1"
			}
		}

		output "capture" "result" {
			arguments {
				records = dataset.account.acme
				label   = "acme"
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
	require.NoError(t, result.Err, "test run failed unexpectedly")

	// --- Assert ---
	records, ok := captureModule.RecordsFor("acme")
	require.True(t, ok, "capture sink never received the dataset")

	expected := map[string]any{
		"plan":   "enterprise",
		"owner":  "acme-corp",
		"region": "eu-west-1",
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}
