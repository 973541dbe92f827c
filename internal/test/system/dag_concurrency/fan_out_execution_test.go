package system

import "testing"

// Test for: fan-out runs independent dependents of one node in parallel.
func TestDagConcurrency_FanOutExecution(t *testing.T) {
	// --- Arrange / Act ---
	scenarioHCL := `
		output "sleeper" "A" {
			arguments { id = "A" }
		}
		output "sleeper" "B" {
			arguments { id = "B" }
			depends_on = ["sleeper.A"]
		}
		output "sleeper" "C" {
			arguments { id = "C" }
			depends_on = ["sleeper.A"]
		}
		output "sleeper" "D" {
			arguments { id = "D" }
			depends_on = ["sleeper.A"]
		}
	`
	sleeperModule := runSleeperScenario(t, scenarioHCL, 4)

	// --- Assert ---
	records := sleeperModule.ExecutionTimes
	recordB := records["B"]
	recordC := records["C"]
	recordD := records["D"]

	if recordB.Start.After(recordC.End) || recordC.Start.After(recordB.End) {
		t.Errorf("outputs B and C did not run in parallel")
	}
	if recordC.Start.After(recordD.End) || recordD.Start.After(recordC.End) {
		t.Errorf("outputs C and D did not run in parallel")
	}

	if recordB.Start.Before(records["A"].End) {
		t.Errorf("output B started before its dependency A finished")
	}
}
