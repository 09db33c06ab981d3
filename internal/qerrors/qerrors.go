package qerrors

import "errors"

var (
	// Course errors
	CourseNotFoundError = errors.New("course not found")

	// Editing errors
	NoSelectionError       = errors.New("no course has been selected")
	SelectionMismatchError = errors.New("the selected course does not match the requested course")

	// Upstream errors
	UpstreamStatusError = errors.New("upstream returned a non-success status")

	// Store errors
	InvalidStoreBackendError = errors.New("unknown store backend")
)
