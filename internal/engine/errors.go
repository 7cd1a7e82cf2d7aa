package engine

import (
	"errors"

	"github.com/sidemark/sidemark/internal/host"
	"github.com/sidemark/sidemark/internal/storage"
)

// Failure taxonomy for engine operations.
//
// The pure functions (Reconcile, Recount, Retag) are total over their
// inputs and never return errors for data shape issues; they apply
// defaulting policies instead. Only I/O-adjacent operations surface these
// typed failures, checked with errors.Is():
//
//	if errors.Is(err, engine.ErrValidation) {
//	    // reject at the boundary, nothing was written
//	}
var (
	// ErrValidation is returned when a user-supplied record is rejected
	// before reaching the engine (e.g. malformed URL on a manual edit).
	ErrValidation = errors.New("validation failed")

	// ErrClassification is returned when the AI capability failed or
	// produced unusable data for an explicitly requested analysis.
	// Background enrichment never surfaces it.
	ErrClassification = errors.New("classification failed")

	// ErrNotFound is returned when an operation names a record that does
	// not exist in the store.
	ErrNotFound = errors.New("record not found")

	// ErrBuiltinCategory is returned when an operation tries to rename,
	// reparent, or delete one of the fixed virtual categories.
	ErrBuiltinCategory = errors.New("builtin category is immutable")
)

// IsFatal returns true if the error means the operation could not touch
// the store at all: the host baseline was unreadable or persistence
// failed. Prior data is retained unchanged in both cases.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, host.ErrHostUnavailable) || errors.Is(err, storage.ErrPersistence)
}

// IsRecoverable returns true if the error was absorbed locally and the
// triggering operation still completed (best-effort enrichment and host
// passthroughs).
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrClassification) || errors.Is(err, host.ErrPassthroughUnsupported)
}
