// Package harness runs end-to-end verification cases for the C-minus
// compiler.
//
// A case names a source program under the test-data root, an optional
// stdin file, and the exact bytes the program must print. Running a case
// walks a fixed sequence of stages:
//
//	PENDING → COMPILED → SIMULATED → NORMALIZED → ASSERTED
//
// The compiler turns the source into an artifact, the simulator executes
// the artifact, the first line of the simulator output (an
// environment-specific "Loaded: ..." banner) is stripped exactly once, and
// the remainder is compared byte for byte with the expected output.
//
// # Suite Format
//
// Suites are YAML files:
//
//	name: basic
//	description: "Sample programs from the course materials"
//	cases:
//	  - name: factorial
//	    source: factorial.c
//	    expect: "120"
//	  - name: io
//	    source: io.c
//	    input: auto        # resolves to io.c.in
//	    expect: "5"
//	  - name: fib
//	    source: fib.c
//	    golden: true       # expected bytes live in <root>/golden/fib.golden
//
// or CUE files with the same fields under a top-level "suite" value.
//
// # Failures
//
// A failing case is reported as data, never as a panic: the CaseResult
// carries the stage that failed and one of three kinds. tool_error means
// an external tool could not be run at all, compile_failed means the
// compiler exited non-zero under strict compile mode, and output_mismatch
// means the program ran but printed something else. Cases are independent:
// a failure in one never stops or alters the next.
//
// # Usage
//
//	suite, err := harness.LoadSuiteFile("suites/basic.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h := harness.New(toolchain.DefaultConfig())
//	result := h.RunSuite(ctx, suite)
//	for _, c := range result.Cases {
//	    if !c.Pass {
//	        log.Println(c.Failure)
//	    }
//	}
//
// Go tests can drive cases directly with RequireCase, which reports a
// mismatch through testing.T with both values and a diff.
package harness
