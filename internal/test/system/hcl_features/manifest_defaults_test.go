package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/seedforge/internal/testutil"
)

// Test for: a manifest input default is applied when the output omits the
// argument, and an explicit argument still wins.
func TestHclFeatures_ManifestDefaultApplied(t *testing.T) {
	// --- Arrange ---
	defaultedManifest := `
		sink "capture" {
			lifecycle {
				deliver = "DeliverCapture"
			}
			input "records" {
				type = any
			}
			input "label" {
				type    = string
				default = "unlabeled"
			}
		}
	`
	scenarioHCL := `
		blueprint "thing" {
			field "kind" {
				value = "widget"
			}
		}

		dataset "thing" "a" {}

		output "capture" "defaulted" {
			arguments {
				records = dataset.thing.a
			}
		}

		output "capture" "explicit" {
			arguments {
				records = dataset.thing.a
				label   = "named"
			}
		}
	`
	files := map[string]string{
		"scenario/main.hcl":            scenarioHCL,
		"modules/capture/manifest.hcl": defaultedManifest,
	}
	captureModule := &testutil.CaptureModule{}

	// --- Act ---
	result := testutil.RunScenarioTest(t, files, captureModule)
	require.NoError(t, result.Err, "test run failed unexpectedly")

	// --- Assert ---
	deliveries := captureModule.Deliveries()
	require.Len(t, deliveries, 2)

	_, ok := captureModule.RecordsFor("unlabeled")
	require.True(t, ok, "the manifest default was not applied to the omitted argument")

	_, ok = captureModule.RecordsFor("named")
	require.True(t, ok, "an explicit argument should override the manifest default")
}
