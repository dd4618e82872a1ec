// Grounded on spec.md §8's end-to-end scenario table. Scenarios expected to
// be accepted run in-process through compiler.Compile. Scenarios expected to
// be rejected cannot: diagnostics.Sink.Error/SecurityError call os.Exit(1)
// directly, which would tear down the whole test binary. Those instead use
// the standard "crasher" subprocess pattern documented by package os/exec —
// re-exec this same test binary with an env var selecting a helper test,
// and assert on the child process's exit code.
package compiler_test

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/palisade-lang/palisade/internal/compiler"
	"github.com/palisade-lang/palisade/internal/config"
	"github.com/palisade-lang/palisade/internal/diagnostics"
)

func compileAccepted(t *testing.T, src string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	sink := diagnostics.New(&buf)
	compiler.Compile(src, "test.pls", config.Default(), sink)
	if sink.HadError() {
		t.Fatalf("expected source to be accepted, got diagnostics:\n%s", buf.String())
	}
	return &buf
}

func TestScenario1LowThroughLowAccepted(t *testing.T) {
	compileAccepted(t, `
in { low x: int; }
out { low y: int; }
y = x + 1;
`)
}

func TestScenario4WhileWithLowGuardAccepted(t *testing.T) {
	compileAccepted(t, `
in { low s: int; }
while (s > 0) {
    s = s - 1;
}
`)
}

func TestScenario5DeclassifiedExpressionAccepted(t *testing.T) {
	compileAccepted(t, `
in { high s: int; low x: int; }
out { low y: int; }
y = declassify(s + x);
`)
}

func TestScenario6LiteralIndexWriteWithoutTaintedIndexAccepted(t *testing.T) {
	compileAccepted(t, `
in { low a: int[3]; }
out { low b: int; }
a[0] = 42;
b = a[0];
`)
}

// PALISADE_REJECT_HELPER gates the body of this test so it only runs the
// compile when re-exec'd as a subprocess; otherwise it is a no-op under a
// normal `go test` invocation.
func TestRejectHelperProcess(t *testing.T) {
	if os.Getenv("PALISADE_REJECT_HELPER") != "1" {
		return
	}
	var buf bytes.Buffer
	sink := diagnostics.New(&buf)
	compiler.Compile(os.Getenv("PALISADE_REJECT_SOURCE"), "reject.pls", config.Default(), sink)
	os.Exit(0)
}

func expectRejected(t *testing.T, src string) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=TestRejectHelperProcess")
	cmd.Env = append(os.Environ(),
		"PALISADE_REJECT_HELPER=1",
		"PALISADE_REJECT_SOURCE="+src,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected the source to be rejected with a non-zero exit, got err=%v stderr=%s", err, stderr.String())
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("expected exit code 1 from a fatal diagnostic, got %d; stderr=%s", exitErr.ExitCode(), stderr.String())
	}
}

func TestScenario2ExplicitHighIntoLowRejected(t *testing.T) {
	expectRejected(t, `
in { high s: int; low x: int; }
out { low y: int; }
y = s;
`)
}

func TestScenario3ImplicitFlowViaBranchRejected(t *testing.T) {
	expectRejected(t, `
in { high s: int; }
out { low y: int; }
if (s > 0) {
    y = 1;
} else {
    y = 0;
}
`)
}

func TestScenario4WhileWithHighGuardRejected(t *testing.T) {
	expectRejected(t, `
in { high s: int; }
while (s > 0) {
    s = s - 1;
}
`)
}

func TestScenario6ArrayTaintedIndexRejected(t *testing.T) {
	expectRejected(t, `
in { high s: int; low a: int[3]; }
out { low b: int; }
i := 0;
if (s > 0) {
    i = 1;
} else {
    i = 0;
}
a[i] = 42;
b = a[0];
`)
}

func TestUndefinedVariableRejected(t *testing.T) {
	expectRejected(t, `x := y;`)
}
