package bucket

import (
	"context"
	"time"

	"github.com/eleven-am/couchstorm/internal/logger"
)

// OperationType represents the repository operation being executed
type OperationType string

const (
	OpGet    OperationType = "get"
	OpUpsert OperationType = "upsert"
	OpRemove OperationType = "remove"
	OpQuery  OperationType = "query"
)

// MiddlewareContext contains information passed to middleware. Middleware may
// rewrite Key, Value, Statement or Parameters before calling next; Error and
// Duration are populated once next returns.
type MiddlewareContext struct {
	Operation  OperationType
	Bucket     string
	Key        string
	Value      interface{}
	Statement  string
	Parameters map[string]interface{}
	Error      error
	StartTime  time.Time
	Duration   time.Duration
	Context    context.Context
	Metadata   map[string]interface{}
}

// OperationFunc executes an operation described by a MiddlewareContext
type OperationFunc func(ctx *MiddlewareContext) error

// Middleware wraps repository operations
type Middleware func(next OperationFunc) OperationFunc

// middlewareManager manages repository middleware
type middlewareManager struct {
	middleware []Middleware
}

func newMiddlewareManager() *middlewareManager {
	return &middlewareManager{
		middleware: make([]Middleware, 0),
	}
}

func (mm *middlewareManager) add(middleware Middleware) {
	mm.middleware = append(mm.middleware, middleware)
}

func (mm *middlewareManager) execute(ctx *MiddlewareContext, finalFunc OperationFunc) error {
	handler := func(mc *MiddlewareContext) error {
		err := finalFunc(mc)
		mc.Error = err
		mc.Duration = time.Since(mc.StartTime)
		return err
	}

	for i := len(mm.middleware) - 1; i >= 0; i-- {
		handler = mm.middleware[i](handler)
	}

	return handler(ctx)
}

// LoggingMiddleware logs every operation at debug level and failures at
// error level. Missing documents are not failures.
func LoggingMiddleware(l logger.Logger) Middleware {
	return func(next OperationFunc) OperationFunc {
		return func(ctx *MiddlewareContext) error {
			err := next(ctx)

			fields := map[string]interface{}{
				"operation": string(ctx.Operation),
				"bucket":    ctx.Bucket,
				"duration":  ctx.Duration.String(),
			}
			if ctx.Key != "" {
				fields["key"] = ctx.Key
			}
			if ctx.Statement != "" {
				fields["statement"] = ctx.Statement
			}

			entry := l.WithFields(fields)
			if err != nil && !IsNotFound(err) {
				entry.Error("%s failed: %v", ctx.Operation, err)
			} else {
				entry.Debug("%s completed", ctx.Operation)
			}
			return err
		}
	}
}
