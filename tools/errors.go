package tools

import "errors"

var (
	// ErrEmptyName is returned when a tool is registered without a name.
	ErrEmptyName = errors.New("tool name is empty")

	// ErrAlreadyExists is returned when registering a duplicate tool name.
	ErrAlreadyExists = errors.New("tool already registered")

	// ErrNotFound is returned when a tool name is not in the registry.
	ErrNotFound = errors.New("tool not found")
)
