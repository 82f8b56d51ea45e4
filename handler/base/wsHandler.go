package base

import "context"

// WsHandler receives what a ConnWrapper reads. All methods are called from
// the single read loop goroutine, one at a time.
type WsHandler interface {
	HandleText(ctx context.Context, msg []byte)
	// HandleClose is called once when the read loop ends, with the peer's
	// close code or websocket.CloseAbnormalClosure when the link dropped.
	HandleClose(ctx context.Context, code int, reason string)
	HandleError(ctx context.Context, err error)
}
