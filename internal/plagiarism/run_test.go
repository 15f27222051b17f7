package plagiarism

import (
	"errors"
	"testing"
)

func TestRunFullPath(t *testing.T) {
	var observed []Phase
	run := NewRun("check-1", func(p Phase) { observed = append(observed, p) })
	if run.Phase() != PhaseIdle {
		t.Fatalf("new run in %s, want idle", run.Phase())
	}

	path := []Phase{PhaseFetch, PhaseLoadTarget, PhaseLoadReference, PhaseFit, PhaseScore, PhaseReport, PhaseDone}
	for _, p := range path {
		if err := run.Advance(p); err != nil {
			t.Fatalf("Advance(%s): %v", p, err)
		}
	}
	if len(observed) != len(path) {
		t.Fatalf("observer saw %v", observed)
	}
	if !run.Phase().Terminal() {
		t.Fatal("completed run should be terminal")
	}
}

func TestRunWithoutFetch(t *testing.T) {
	run := NewRun("check-2", nil)
	if err := run.Advance(PhaseLoadTarget); err != nil {
		t.Fatalf("idle -> loading_target: %v", err)
	}
}

func TestRunRejectsSkippedPhase(t *testing.T) {
	run := NewRun("check-3", nil)
	if err := run.Advance(PhaseScore); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if run.Phase() != PhaseIdle {
		t.Fatalf("rejected transition changed phase to %s", run.Phase())
	}
	if err := run.Advance(PhaseFailed); !errors.Is(err, ErrInvalidState) {
		t.Fatal("failing must go through Fail")
	}
}

func TestRunFail(t *testing.T) {
	cause := errors.New("boom")
	for _, start := range []Phase{PhaseIdle, PhaseLoadTarget, PhaseLoadReference, PhaseFit, PhaseScore} {
		run := NewRun("check-4", nil)
		run.phase = start
		run.Fail(cause)
		if run.Phase() != PhaseFailed {
			t.Fatalf("Fail from %s left phase %s", start, run.Phase())
		}
		if !errors.Is(run.Err(), cause) {
			t.Fatalf("Err() = %v", run.Err())
		}
	}
}

func TestRunFailAfterDoneIsNoop(t *testing.T) {
	run := NewRun("check-5", nil)
	run.phase = PhaseDone
	run.Fail(errors.New("late"))
	if run.Phase() != PhaseDone || run.Err() != nil {
		t.Fatalf("terminal run changed: %s %v", run.Phase(), run.Err())
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(ErrNoTargetData) || !IsFatal(ErrNoReferenceData) || !IsFatal(ErrInvalidState) {
		t.Fatal("analysis errors should be fatal")
	}
	if IsFatal(errors.New("network down")) || IsFatal(nil) {
		t.Fatal("unrelated errors are not fatal")
	}
}
