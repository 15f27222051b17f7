package plagiarism

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Phase is a step of an originality run.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseFetch         Phase = "fetching"
	PhaseLoadTarget    Phase = "loading_target"
	PhaseLoadReference Phase = "loading_reference"
	PhaseFit           Phase = "fitting"
	PhaseScore         Phase = "scoring"
	PhaseReport        Phase = "reporting"
	PhaseDone          Phase = "completed"
	PhaseFailed        Phase = "failed"
)

// allowed successor phases; PhaseFailed is reachable from any non-terminal phase
var transitions = map[Phase][]Phase{
	PhaseIdle:          {PhaseFetch, PhaseLoadTarget},
	PhaseFetch:         {PhaseLoadTarget},
	PhaseLoadTarget:    {PhaseLoadReference},
	PhaseLoadReference: {PhaseFit},
	PhaseFit:           {PhaseScore},
	PhaseScore:         {PhaseReport},
	PhaseReport:        {PhaseDone},
}

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// Run is the explicit context of one originality check: its identity, start
// time and current phase. Transitions are reported to the observer.
type Run struct {
	ID        string
	StartedAt time.Time

	mu       sync.Mutex
	phase    Phase
	err      error
	observer func(Phase)
}

// NewRun creates a run in PhaseIdle. observer may be nil.
func NewRun(id string, observer func(Phase)) *Run {
	return &Run{
		ID:        id,
		StartedAt: time.Now(),
		phase:     PhaseIdle,
		observer:  observer,
	}
}

func (r *Run) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Err returns the error recorded by Fail.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Advance moves the run to next if next directly follows the current phase.
func (r *Run) Advance(next Phase) error {
	r.mu.Lock()
	current := r.phase
	if !canTransition(current, next) {
		r.mu.Unlock()
		return fmt.Errorf("%w: cannot move run %s from %s to %s", ErrInvalidState, r.ID, current, next)
	}
	r.phase = next
	r.mu.Unlock()

	log.Debug().
		Str("checkId", r.ID).
		Str("from", string(current)).
		Str("to", string(next)).
		Msg("Run phase changed")

	if r.observer != nil {
		r.observer(next)
	}
	return nil
}

// Fail moves the run to PhaseFailed and records err. Failing a terminal run is a no-op.
func (r *Run) Fail(err error) {
	r.mu.Lock()
	if r.phase.Terminal() {
		r.mu.Unlock()
		return
	}
	r.phase = PhaseFailed
	r.err = err
	r.mu.Unlock()

	if r.observer != nil {
		r.observer(PhaseFailed)
	}
}

// Elapsed is the wall-clock time since the run started.
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.StartedAt)
}

func canTransition(from, to Phase) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
