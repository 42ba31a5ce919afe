package server

import "errors"

// Sentinel errors for API operations.
var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrEmptyProjectName = errors.New("project name must not be empty")
)
