// Package simerr defines the error taxonomy shared across the simulation
// pipeline so callers can distinguish fatal, run-aborting conditions from
// recoverable, stage-local ones via errors.Is.
package simerr

import "errors"

// Sentinel categories. Wrap with fmt.Errorf("...: %w", simerr.ErrX) at the
// call site so context survives while the category stays inspectable.
var (
	// ErrInputSchema marks malformed or incomplete scenario/config input.
	ErrInputSchema = errors.New("input schema error")

	// ErrDataUnavailable marks a historical dataset gap (missing weather
	// year, missing BDEW row) that cannot be synthesised.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrAlignment marks a quarter-hour missing from an aligned series.
	ErrAlignment = errors.New("alignment error")

	// ErrNumerical marks a degenerate computation (zero normalisation sum).
	ErrNumerical = errors.New("numerical error")

	// ErrDispatchInvariant marks a dispatch state machine leaving its
	// bounds after clamping — a logic bug, never a data problem.
	ErrDispatchInvariant = errors.New("dispatch invariant violated")

	// ErrFatal groups all of the above for a single errors.Is check at
	// the run-scenario boundary: any error wrapping ErrFatal aborts the
	// year, any other stage-local error is logged and the zero-filled
	// column is kept.
	ErrFatal = errors.New("fatal simulation error")
)

// Fatal reports whether err should abort the year's run rather than be
// absorbed as a stage-local, zero-fill-and-continue condition.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range []error{ErrInputSchema, ErrDataUnavailable, ErrAlignment, ErrNumerical, ErrDispatchInvariant, ErrFatal} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
