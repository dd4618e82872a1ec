package analyzer_test

import "testing"

func TestExplicitFlowAcceptsLowIntoLow(t *testing.T) {
	explicitFlowChecked(t, `
in { low s: int; }
out { low y: int; }
y = s;
`)
}

func TestExplicitFlowAcceptsHighIntoHigh(t *testing.T) {
	explicitFlowChecked(t, `
in { high s: int; }
out { high y: int; }
y = s;
`)
}

func TestExplicitFlowAcceptsDeclassifiedHighIntoLow(t *testing.T) {
	// The labeller already forces declassify(...) to Low, so this is a
	// Low-into-Low flow by the time the explicit-flow checker runs.
	explicitFlowChecked(t, `
in { high s: int; }
out { low y: int; }
y = declassify(s);
`)
}

func TestExplicitFlowAcceptsReturnMatchingDeclaredLabel(t *testing.T) {
	explicitFlowChecked(t, `
fn f(high a: int) high int {
    return a;
}
`)
}
