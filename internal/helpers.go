package internal

import (
	"fmt"
	"strconv"
)

type scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the request context value stored under key, or the
// zero value when it is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param converts a bound path segment. A segment that does not parse answers
// with a 404, since no such resource can exist.
//
//	id, err := maxitsa.Param[int64](c, "id")
//	if err != nil {
//	    return err
//	}
func Param[T scalar](c Context, name string) (T, error) {
	raw := c.Param(name)
	v, ok := convert[T](raw)
	if !ok {
		return v, ErrNotFound("resource not found", WithError(fmt.Errorf("path parameter %q: cannot parse %q", name, raw)))
	}
	return v, nil
}

// Query returns a typed query parameter, or def when it is empty or does not parse.
func Query[T scalar](c Context, name string, def T) T {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, ok := convert[T](raw)
	if !ok {
		return def
	}
	return v
}

func convert[T scalar](raw string) (T, bool) {
	var zero T
	var (
		v   any
		err error
	)
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		v, err = strconv.Atoi(raw)
	case int64:
		v, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		v, err = strconv.ParseFloat(raw, 64)
	case bool:
		v, err = strconv.ParseBool(raw)
	default:
		return zero, false
	}
	if err != nil {
		return zero, false
	}
	return v.(T), true
}
