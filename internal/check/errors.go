package check

import "errors"

// Check-related errors.
var (
	// ErrInvalidProbeCount indicates probe count is out of valid range
	ErrInvalidProbeCount = errors.New("probe count must be between 1 and 255")

	// ErrTargetResolution indicates the target could not be resolved to an IPv4 address
	ErrTargetResolution = errors.New("could not resolve target to an IPv4 address")

	// ErrEmptyTarget indicates an empty hostname
	ErrEmptyTarget = errors.New("empty target")
)
