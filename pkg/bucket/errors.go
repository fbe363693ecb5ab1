package bucket

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrConnectionFailed = errors.New("cluster connection failed")
	ErrTimeout          = errors.New("operation timeout")
	ErrCanceled         = errors.New("operation canceled")
)

// Error provides detailed error information
type Error struct {
	Op        string // Operation that failed
	Bucket    string // Bucket involved
	Key       string // Document key (if applicable)
	Statement string // N1QL statement (if applicable)
	Err       error  // Underlying error
	Retryable bool   // Whether the operation can be retried
}

func (e *Error) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("bucket: %s", e.Op))

	if e.Bucket != "" {
		parts = append(parts, fmt.Sprintf("bucket=%s", e.Bucket))
	}

	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key=%s", e.Key))
	}

	if e.Statement != "" {
		parts = append(parts, fmt.Sprintf("statement=%s", e.Statement))
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for Error type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return errors.Is(e.Err, target)
	}

	if t.Op != "" && e.Op == t.Op {
		return true
	}

	return errors.Is(e.Err, t.Err)
}

// classify wraps err in an Error, mapping context and connection failures to
// the common errors.
func classify(err error, op, bucket, key string) error {
	if err == nil {
		return nil
	}

	var bucketErr *Error
	if errors.As(err, &bucketErr) {
		return err
	}

	e := &Error{Op: op, Bucket: bucket, Key: key, Err: err}

	switch {
	case errors.Is(err, ErrDocumentNotFound):
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		e.Err = fmt.Errorf("%w: %v", ErrTimeout, err)
		e.Retryable = true
	case errors.Is(err, context.Canceled), errors.Is(err, ErrCanceled):
		e.Err = fmt.Errorf("%w: %v", ErrCanceled, err)
	case errors.Is(err, ErrConnectionFailed), isConnectionFailure(err):
		if !errors.Is(err, ErrConnectionFailed) {
			e.Err = fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
		e.Retryable = true
	}

	return e
}

func isConnectionFailure(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe")
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var bucketErr *Error
	if errors.As(err, &bucketErr) {
		return bucketErr.Retryable
	}
	return false
}

// IsNotFound reports whether err means the document does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}
