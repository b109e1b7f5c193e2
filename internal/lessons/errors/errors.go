package errors

import "errors"

var (
	ErrNotFound = errors.New("lesson not found")

	ErrInvalidID = errors.New("invalid lesson ID format")

	// ErrInsufficientCapacity is returned when a conditional decrement finds
	// fewer spaces than requested. Nothing was changed.
	ErrInsufficientCapacity = errors.New("insufficient lesson capacity")
)
