package obs

import (
	"context"
	"fmt"
	"sync"
	"time"

	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

// Call is a request on its way to the server. Build one with Build, attach
// callbacks, then dispatch it with Queue, QueueAfter, Submit or Complete.
// Every dispatch sends a new request with a new id.
type Call[T obsapi.RequestSchema] struct {
	c         *Controller
	request   T
	onSuccess func(ctx context.Context, resp T)
	onFailure func(ctx context.Context, err *FailedRequestError)

	mu     sync.Mutex
	future *Future[T]
}

// Build never fails. Whether the controller is connected is checked when
// the call is dispatched.
func Build[T obsapi.RequestSchema](c *Controller, request T) *Call[T] {
	return &Call[T]{c: c, request: request}
}

// Request is the schema value this call sends and fills.
func (b *Call[T]) Request() T {
	return b.request
}

// OnSuccess sets the callback run with the parsed request. The callback runs
// on the read loop and must not block on other requests.
func (b *Call[T]) OnSuccess(fn func(ctx context.Context, resp T)) *Call[T] {
	b.onSuccess = fn
	return b
}

// OnFailure sets the callback for failed responses. With a failure callback
// set, the future settles with the zero value and a nil error instead.
func (b *Call[T]) OnFailure(fn func(ctx context.Context, err *FailedRequestError)) *Call[T] {
	b.onFailure = fn
	return b
}

// Queue dispatches the call without waiting for the response.
func (b *Call[T]) Queue() error {
	_, err := b.Submit()
	return err
}

// QueueAfter dispatches the call once delay has passed. A dispatch failure
// at that point is logged and reported. Stop the timer to cancel.
func (b *Call[T]) QueueAfter(delay time.Duration) *time.Timer {
	return time.AfterFunc(delay, func() {
		if err := b.Queue(); err != nil {
			b.c.log.Error().Err(err).
				Str("requestType", b.request.RequestType()).
				Dur("delay", delay).
				Msg("delayed request not sent")
			b.c.report(err)
		}
	})
}

// Submit dispatches the call and returns its future.
func (b *Call[T]) Submit() (*Future[T], error) {
	f, err := dispatch(b.c, b.request, b.onSuccess, b.onFailure)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.future = f
	b.mu.Unlock()
	return f, nil
}

// Complete dispatches the call unless it was already submitted, then blocks
// for the response up to the request timeout. Calling it with a context a
// callback received returns ErrCallbackContext.
func (b *Call[T]) Complete(ctx context.Context) (T, error) {
	var zero T
	if InCallback(ctx) {
		return zero, ErrCallbackContext
	}

	b.mu.Lock()
	f := b.future
	b.mu.Unlock()
	if f == nil {
		var err error
		if f, err = b.Submit(); err != nil {
			return zero, err
		}
	}

	timeout := b.c.requestTimeout
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.Done():
		return f.Result()
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-timer.C:
		b.c.log.Error().
			Str("requestType", b.request.RequestType()).
			Dur("timeout", timeout).
			Msg("request timed out")
		return zero, fmt.Errorf("%w after %s: %s", ErrRequestTimeout, timeout, b.request.RequestType())
	}
}
