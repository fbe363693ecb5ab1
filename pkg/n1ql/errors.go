package n1ql

import (
	"errors"
)

// Render failures. The messages are part of the public contract.
var (
	ErrRawSelectCount = errors.New("Can only use 'SELECT RAW' when exactly one property is selected.")
	ErrMissingSource  = errors.New("Can't build query because of missing source clause.")
)

// QueryBuildError is returned when accumulated clause state cannot be rendered
// into a statement. It is only ever produced by Query.Build.
type QueryBuildError struct {
	Err error
}

func (e *QueryBuildError) Error() string {
	return e.Err.Error()
}

func (e *QueryBuildError) Unwrap() error {
	return e.Err
}

// IsQueryBuildError reports whether err is, or wraps, a QueryBuildError.
func IsQueryBuildError(err error) bool {
	var buildErr *QueryBuildError
	return errors.As(err, &buildErr)
}
