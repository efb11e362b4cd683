// Package errdefs defines the error kinds shared by the template synthesis
// components. Callers match them with errors.Is after any number of
// fmt.Errorf wrappings.
package errdefs

import "errors"

var (
	// ErrNotFound indicates that a referenced file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConfig indicates a malformed directive, an unset required
	// environment variable, an unresolved network reference or an
	// include cycle.
	ErrConfig = errors.New("invalid config")

	// ErrValidation indicates that a requested hardware layout cannot be
	// satisfied, e.g. CPUs or memory not evenly divisible across NUMA
	// cells.
	ErrValidation = errors.New("validation failed")
)
