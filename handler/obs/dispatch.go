package obs

import (
	"context"
	"fmt"

	"github.com/xdimtech/go-obsws/pkg/document"
	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

// dispatch registers the call under a new id and queues its frame. The
// call is in the table before the frame can reach the server.
func dispatch[T obsapi.RequestSchema](
	c *Controller,
	request T,
	onSuccess func(ctx context.Context, resp T),
	onFailure func(ctx context.Context, err *FailedRequestError),
) (*Future[T], error) {
	sess, err := c.readySession()
	if err != nil {
		return nil, err
	}

	data := document.New()
	request.FillRequestData(data)

	p := &pending[T]{
		c:         c,
		request:   request,
		onSuccess: onSuccess,
		onFailure: onFailure,
		future:    newFuture[T](),
	}
	id := c.pending.register(p)

	msg := &obsapi.Request{
		RequestType: request.RequestType(),
		RequestID:   id,
		RequestData: data,
	}
	if err := sess.send(msg); err != nil {
		c.pending.remove(id)
		return nil, fmt.Errorf("obs: send %s: %w", msg.RequestType, err)
	}

	c.log.Debug().
		Str("requestType", msg.RequestType).
		Str("requestId", id).
		Msg("request queued")
	return p.future, nil
}
