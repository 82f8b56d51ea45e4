package base

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/xdimtech/go-obsws/pkg/utils"
)

const (
	WriteQueueSize = 1024
	writeWait      = 5 * time.Second
)

var (
	ErrConnClosed      = errors.New("websocket connection closed")
	ErrWriteQueueFull  = errors.New("websocket write queue full")
	ErrHandlerRequired = errors.New("websocket handler is nil")
)

// ConnWrapper owns one websocket connection. The write loop is the only
// goroutine that writes data frames; control frames go through WriteControl,
// which gorilla allows concurrently.
type ConnWrapper struct {
	conn         *websocket.Conn
	handler      WsHandler
	writeQueue   chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	pingInterval time.Duration
	log          zerolog.Logger
}

var _ WsConnWrapper = (*ConnWrapper)(nil)

type WsConnOption func(*ConnWrapper)

// WithPingInterval makes the write loop send keepalive pings.
func WithPingInterval(interval time.Duration) WsConnOption {
	return func(w *ConnWrapper) {
		w.pingInterval = interval
	}
}

func WithLogger(l zerolog.Logger) WsConnOption {
	return func(w *ConnWrapper) {
		w.log = l
	}
}

func NewConnWrapper(conn *websocket.Conn, handler WsHandler, ops ...WsConnOption) (*ConnWrapper, error) {
	if handler == nil {
		return nil, ErrHandlerRequired
	}
	wsConn := &ConnWrapper{
		conn:       conn,
		handler:    handler,
		writeQueue: make(chan []byte, WriteQueueSize),
		done:       make(chan struct{}),
		log:        zerolog.Nop(),
	}
	for _, op := range ops {
		op(wsConn)
	}

	conn.SetPingHandler(wsConn.Pong)
	return wsConn, nil
}

func (w *ConnWrapper) Ping(data string) error {
	return w.conn.WriteControl(websocket.PingMessage, []byte(data), time.Now().Add(time.Second))
}

func (w *ConnWrapper) Pong(data string) error {
	err := w.conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}
	return err
}

func (w *ConnWrapper) Send(msg []byte) error {
	select {
	case <-w.done:
		return ErrConnClosed
	default:
	}
	select {
	case w.writeQueue <- msg:
		return nil
	case <-w.done:
		return ErrConnClosed
	default:
		return ErrWriteQueueFull
	}
}

func (w *ConnWrapper) Done() <-chan struct{} {
	return w.done
}

func (w *ConnWrapper) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.conn.Close()
	})
	return err
}

// CloseWithCode sends a close frame before dropping the connection.
func (w *ConnWrapper) CloseWithCode(code int, reason string) error {
	select {
	case <-w.done:
		return nil
	default:
	}
	msg := websocket.FormatCloseMessage(code, reason)
	if err := w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil &&
		!errors.Is(err, websocket.ErrCloseSent) {
		w.log.Debug().Err(err).Int("code", code).Msg("write close frame")
	}
	return w.Close()
}

func (w *ConnWrapper) WriteLoop(ctx context.Context) error {
	var ping <-chan time.Time
	if w.pingInterval > 0 {
		ticker := time.NewTicker(w.pingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case msg := <-w.writeQueue:
			w.log.Trace().Str("frame", utils.Bytes2Str(msg)).Msg("websocket write")
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				w.handler.HandleError(ctx, err)
			}
		case <-ping:
			if err := w.Ping(""); err != nil {
				w.log.Debug().Err(err).Msg("websocket ping")
			}
		case <-w.done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// ReadLoop delivers frames to the handler until the connection ends, then
// reports the close exactly once and releases the connection.
func (w *ConnWrapper) ReadLoop(ctx context.Context) error {
	defer func() {
		_ = w.Close()
	}()

	for {
		msgType, msg, err := w.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				w.handler.HandleClose(ctx, closeErr.Code, closeErr.Text)
				return nil
			}
			w.handler.HandleError(ctx, err)
			w.handler.HandleClose(ctx, websocket.CloseAbnormalClosure, err.Error())
			return nil
		}

		switch msgType {
		case websocket.TextMessage:
			w.handler.HandleText(ctx, msg)
		default:
			w.log.Debug().Int("type", msgType).Int("size", len(msg)).Msg("ignoring non-text frame")
		}
	}
}
