package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// logLineMatches reports whether any single log line contains all of the
// given substrings. Matching within one line keeps assertions honest when
// several nodes log interleaved messages.
func logLineMatches(output string, substrings ...string) bool {
	for _, line := range strings.Split(output, "\n") {
		matched := true
		for _, s := range substrings {
			if !strings.Contains(line, s) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// AssertNodeRan checks the log output within a HarnessResult to confirm that
// a node completed successfully. It abstracts the worker log format, making
// tests more resilient to internal refactoring.
func AssertNodeRan(t *testing.T, result *HarnessResult, nodeID string) {
	t.Helper()
	require.True(t,
		logLineMatches(result.LogOutput, `msg="Node execution succeeded."`, "nodeID="+nodeID),
		"expected node '%s' to complete successfully, but no success log was found", nodeID,
	)
}

// AssertNodeSkipped confirms that a node was skipped because one of its
// dependencies failed.
func AssertNodeSkipped(t *testing.T, result *HarnessResult, nodeID string) {
	t.Helper()
	require.True(t,
		logLineMatches(result.LogOutput, `msg="Skipping dependent node due to upstream failure."`, "nodeID="+nodeID),
		"expected node '%s' to be skipped after an upstream failure, but no skip log was found", nodeID,
	)
}
