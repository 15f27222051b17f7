package plagiarism

import "errors"

var (
	// ErrInvalidState is returned when an operation is called out of order,
	// e.g. Transform before Fit or a phase transition that skips a step.
	ErrInvalidState = errors.New("invalid state")

	// ErrNoTargetData is returned when the target set is empty after filtering.
	ErrNoTargetData = errors.New("no target data")

	// ErrNoReferenceData is returned when the reference corpus is empty after filtering.
	ErrNoReferenceData = errors.New("no reference data")
)

// IsFatal reports whether err is an analysis condition that retrying cannot fix.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrNoTargetData) ||
		errors.Is(err, ErrNoReferenceData)
}
