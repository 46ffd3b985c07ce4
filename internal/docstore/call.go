package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/fastygo/storefront/domain"
)

type callResult[T any] struct {
	val T
	err error
}

// call runs fn with a deadline. The caller is released when the deadline
// passes even if the provider ignores its context.
func call[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan callResult[T], 1)
	go func() {
		val, err := fn(ctx)
		done <- callResult[T]{val: val, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return zero, classify(op, res.err)
		}
		return res.val, nil
	case <-ctx.Done():
		return zero, classify(op, ctx.Err())
	}
}

func classify(op string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.WrapError(domain.ErrCodeTimeout, op+": snapshot provider timed out", err)
	case errors.Is(err, context.Canceled):
		return domain.WrapError(domain.ErrCodeUnavailable, op+": cancelled", err)
	default:
		return domain.WrapError(domain.ErrCodeUnavailable, op, err)
	}
}
