package bucket

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	baseErr := errors.New("base error")

	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "operation only",
			err:      &Error{Op: "get", Err: baseErr},
			expected: "bucket: get: base error",
		},
		{
			name:     "with key",
			err:      &Error{Op: "get", Bucket: "default", Key: "user::1", Err: baseErr},
			expected: "bucket: get: bucket=default: key=user::1: base error",
		},
		{
			name:     "with statement",
			err:      &Error{Op: "query", Bucket: "default", Statement: "SELECT * FROM `default`", Err: baseErr},
			expected: "bucket: query: bucket=default: statement=SELECT * FROM `default`: base error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.Equal(t, baseErr, errors.Unwrap(tt.err))
			assert.True(t, errors.Is(tt.err, baseErr))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil, "get", "default", "k"))

	notFound := classify(ErrDocumentNotFound, "get", "default", "k")
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsRetryable(notFound))

	timeout := classify(context.DeadlineExceeded, "get", "default", "k")
	assert.True(t, errors.Is(timeout, ErrTimeout))
	assert.True(t, IsRetryable(timeout))

	refused := classify(errors.New("dial tcp: connection refused"), "query", "default", "")
	assert.True(t, errors.Is(refused, ErrConnectionFailed))
	assert.True(t, IsRetryable(refused))

	wrapped := &Error{Op: "get", Err: errors.New("already classified")}
	assert.Same(t, wrapped, classify(wrapped, "query", "other", ""))
}

