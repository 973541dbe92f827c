package system

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/seedforge/internal/testutil"
)

// Test for: expression fields resolve in a second pass against `self`,
// in declaration order, after every plain field already has its value.
func TestCoreExecution_TwoPassExpressionResolution(t *testing.T) {
	// --- Arrange ---
	// The `display` expression reads `self.email`, which is itself an
	// expression field declared earlier. Declaration order decides who
	// resolves first.
	scenarioHCL := `
		blueprint "person" {
			field "first_name" {
				value = "Ada"
			}
			field "last_name" {
				value = "Lovelace"
			}
			field "email" {
				expression = "${lower(self.first_name)}.${lower(self.last_name)}@example.com"
			}
			field "display" {
				expression = "${self.first_name} ${self.last_name} <${self.email}>"
			}
		}

		dataset "person" "ada" {}

		output "capture" "result" {
			arguments {
				records = dataset.person.ada
				label   = "result"
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
	records, ok := captureModule.RecordsFor("result")
	require.True(t, ok, "capture sink never received the dataset")

	// A dataset without count builds a single record, not a list of one.
	expected := map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada.lovelace@example.com",
		"display":    "Ada Lovelace <ada.lovelace@example.com>",
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Errorf("fabricated record mismatch (-want +got):\n%s", diff)
	}
}
