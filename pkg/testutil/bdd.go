package testutil

import "testing"

// Scenario steps. Each opens a subtest whose name reads as a sentence in
// `go test -v` output, e.g. "Given_a_mutual_pair/Then_both_directions_are_linked".
const (
	given = "Given "
	when  = "When "
	then  = "Then "
	and   = "And "
)

func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run(keyword+desc, fn)
}

// Given sets up the state a scenario starts from.
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, given, desc, fn)
}

// When performs the action under test.
func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, when, desc, fn)
}

// Then asserts an outcome.
func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, then, desc, fn)
}

// And chains a further outcome onto the previous step.
func And(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, and, desc, fn)
}
