package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/seedforge/internal/testutil"
)

// runSleeperScenario executes a scenario built from sleeper outputs and
// returns the module holding the recorded execution windows. The run blocks
// until every node has finished, so the map is safe to read afterwards.
func runSleeperScenario(t *testing.T, scenarioHCL string, outputs int) *testutil.MockSleeperModule {
	t.Helper()

	files := map[string]string{
		"scenario/main.hcl":            scenarioHCL,
		"modules/sleeper/manifest.hcl": testutil.SleeperManifest,
	}
	sleeperModule := testutil.NewMockSleeperModule(nil, 100*time.Millisecond)

	result := testutil.RunScenarioTest(t, files, sleeperModule)
	require.NoError(t, result.Err, "test run failed unexpectedly")
	require.Len(t, sleeperModule.ExecutionTimes, outputs, "not every sleeper output ran")

	return sleeperModule
}
