package base

import "context"

type WsConnWrapper interface {
	Ping(data string) error
	Pong(data string) error
	// Send queues a text frame for the write loop without blocking.
	Send(msg []byte) error
	Close() error
	CloseWithCode(code int, reason string) error
	WriteLoop(ctx context.Context) error
	ReadLoop(ctx context.Context) error
	Done() <-chan struct{}
}
