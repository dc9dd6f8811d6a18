package app

import "errors"

// Domain errors for controller operations.
var (
	// ErrInvalidInput indicates a sort was requested with nothing to sort, or a bad parameter.
	ErrInvalidInput = errors.New("app: invalid input")

	// ErrEmptyResult indicates the step service answered with no steps.
	ErrEmptyResult = errors.New("app: no steps received")

	// ErrBusy indicates the operation is not allowed while a sort is running.
	ErrBusy = errors.New("app: sort in progress")

	// ErrUnknownAlgorithm indicates an algorithm outside the supported set.
	ErrUnknownAlgorithm = errors.New("app: unknown algorithm")

	// ErrStaleResult indicates a step result arrived for a request that was superseded.
	ErrStaleResult = errors.New("app: stale step result")
)
