package validator

import (
	"maps"
	"slices"
)

// Result maps a field to its single error message. An empty Result means the
// input is valid.
type Result map[string]string

// Valid reports whether no field failed.
func (r Result) Valid() bool { return len(r) == 0 }

// Has reports whether the field failed.
func (r Result) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Get returns the error message of the field, or "".
func (r Result) Get(field string) string { return r[field] }

// Fields returns the failed field names in sorted order.
func (r Result) Fields() []string {
	return slices.Sorted(maps.Keys(r))
}

// Add records a message for the field, replacing any previous one.
func (r Result) Add(field, message string) {
	r[field] = message
}
