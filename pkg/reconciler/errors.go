package reconciler

import "errors"

var (
	// ErrUnknownInstance is returned for IDs that do not refer to a mounted node.
	ErrUnknownInstance = errors.New("reconciler: unknown instance")

	// ErrInvalidNode is returned when a node cannot be applied where it was
	// asked to go.
	ErrInvalidNode = errors.New("reconciler: invalid node")

	// ErrClosed is returned by operations on a reconciler whose Run loop has
	// exited.
	ErrClosed = errors.New("reconciler: closed")

	// ErrQueueFull is returned by Dispatch when the dispatch queue is full.
	ErrQueueFull = errors.New("reconciler: dispatch queue full")
)
