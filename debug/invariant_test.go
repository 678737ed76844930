package debug

import (
	"errors"
	"fmt"
	"testing"
)

func TestInvariant(t *testing.T) {
	errBad := errors.New("bad")
	err := fmt.Errorf("commit: %w", Invariant("display list failure", errBad))

	if !errors.Is(err, errBad) {
		t.Error("doesn't unwrap")
	}
	if !IsInvariant(err) {
		t.Error("not an invariant error")
	}
	if IsInvariant(errBad) {
		t.Error("plain error is invariant")
	}
	if got := err.Error(); got != "commit: display list failure: bad" {
		t.Error(got)
	}
}

func TestHalt(t *testing.T) {
	Halt(nil)

	defer func() {
		if r := recover(); r != "invariant violated: x: bad" {
			t.Fatal("unexpected panic:", r)
		}
	}()
	Halt(Invariant("x", errors.New("bad")))
}
