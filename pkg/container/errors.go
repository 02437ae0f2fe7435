package container

import (
	"errors"
	"fmt"
)

// Sentinel errors for the container package.
var (
	// ErrUnresolvedDependency is returned when a key is absent from every category.
	ErrUnresolvedDependency = errors.New("container: unresolved dependency")

	// ErrFactory wraps an error returned by a dependency factory.
	ErrFactory = errors.New("container: factory failed")

	// ErrTypeMismatch is returned by Resolve when the instance has an unexpected type.
	ErrTypeMismatch = errors.New("container: type mismatch")

	// ErrDuplicateKey is returned when a registry declares a key twice.
	ErrDuplicateKey = errors.New("container: duplicate key")
)

// UnresolvedDependencyError reports the key that could not be resolved.
type UnresolvedDependencyError struct {
	Key string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("container: dependency %q not found", e.Key)
}

// Is reports whether target is ErrUnresolvedDependency.
func (e *UnresolvedDependencyError) Is(target error) bool {
	return target == ErrUnresolvedDependency
}
