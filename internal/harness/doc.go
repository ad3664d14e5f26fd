// Package harness provides conformance testing for command pipelines.
//
// The harness executes YAML-defined scenarios against a command
// registry and validates the resulting step trace, final data, and
// trust metadata.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	run_id: fixed-run-1
//	input: { userId: 123 }
//	setup:
//	  - command: seed.user
//	    input: { id: 123 }
//	steps:
//	  - command: user.get
//	    as: user
//	    input: { id: "$input.userId" }
//	  - command: score.compute
//	    input: { user: "$prev.id" }
//	assertions:
//	  - type: step_status
//	    step: 0
//	    status: success
//	  - type: final_data
//	    expect: { score: 7 }
//	  - type: min_confidence
//	    value: 0.7
//	  - type: completed_steps
//	    count: 2
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - step_status: Verifies the status of a step by index
//   - step_data: Verifies a step's data (subset match)
//   - final_data: Verifies the pipeline's final data (subset match)
//   - min_confidence: Verifies aggregated confidence meets a floor
//   - completed_steps: Verifies the number of successful steps
//
// # Deterministic Testing
//
// All scenarios execute with a deterministic step clock and a fixed
// run ID, so identical scenarios produce identical traces across runs.
// That makes results stable enough for golden snapshot comparison:
// canonical JSON (RFC 8785) serialization guarantees byte-identical
// output for identical traces.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/enrich.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result := harness.Run(scenario, reg)
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
