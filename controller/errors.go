package controller

import "errors"

// Expected failure kinds. Callers distinguish them with errors.Is; the
// message wrapped around them carries the human-readable reason. Neither is
// fatal to the controller.
var (
	// ErrNotFound reports an operation referencing an unknown node, link or
	// flow id. The operation aborts with no state change.
	ErrNotFound = errors.New("not found")

	// ErrNoPath reports that no route exists between the requested endpoints
	// in the active topology.
	ErrNoPath = errors.New("no path available")
)
