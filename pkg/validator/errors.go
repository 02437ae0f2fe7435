package validator

import "errors"

// Errors returned by rule dependencies. They never surface from Validate: the
// unique rule logs them and passes.
var (
	ErrNoResolver       = errors.New("validator: no dependency resolver configured")
	ErrNotUniqueChecker = errors.New("validator: dependency does not implement IsUnique")
)
