package obs

import (
	"context"
	"fmt"
)

type callbackKey struct{}

// InCallback reports whether ctx was handed to a success, failure, event or
// disconnect callback by the Controller. Complete refuses to block on such a
// context because the goroutine running the callback is the one that would
// deliver the response.
func InCallback(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	marked, _ := ctx.Value(callbackKey{}).(bool)
	return marked
}

func callbackContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, callbackKey{}, true)
}

// invokeCallback runs fn with a marked context. A panic in fn is logged and
// reported and never reaches the read loop.
func (c *Controller) invokeCallback(ctx context.Context, kind string, fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %s: %v", ErrCallbackPanic, kind, r)
			c.log.Warn().Err(err).Str("callback", kind).Msg("callback failed")
			c.report(err)
		}
	}()
	fn(callbackContext(ctx))
}

// report hands err to the configured error handler. The handler itself may
// not take the read loop down either.
func (c *Controller) report(err error) {
	if c.errorHandler == nil || err == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn().Interface("panic", r).Msg("error handler panicked")
		}
	}()
	c.errorHandler(err)
}
