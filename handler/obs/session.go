package obs

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/xdimtech/go-obsws/handler/base"
	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

// session is one websocket connection from dial to close. A reconnect gets
// a new session, so frames from an old connection can be told apart.
type session struct {
	c        *Controller
	ctx      context.Context
	cancel   context.CancelFunc
	conn     *base.ConnWrapper
	group    *errgroup.Group
	address  string
	password string

	hello     *obsapi.Hello
	handshake chan error
	once      sync.Once
}

var _ base.WsHandler = (*session)(nil)

func newSession(c *Controller, address, password string) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		c:         c,
		ctx:       ctx,
		cancel:    cancel,
		address:   address,
		password:  password,
		handshake: make(chan error, 1),
	}
}

func (s *session) start(conn *websocket.Conn) error {
	wrapper, err := base.NewConnWrapper(conn, s,
		base.WithLogger(s.c.log),
		base.WithPingInterval(s.c.pingInterval))
	if err != nil {
		return err
	}
	s.conn = wrapper

	g, ctx := errgroup.WithContext(s.ctx)
	g.Go(func() error { return wrapper.ReadLoop(ctx) })
	g.Go(func() error { return wrapper.WriteLoop(ctx) })
	s.group = g
	return nil
}

// resolve ends the handshake with err. apply runs before the result is
// published so Connect never returns ahead of the state change. Only the
// first call has any effect.
func (s *session) resolve(err error, apply func()) bool {
	won := false
	s.once.Do(func() {
		if apply != nil {
			apply()
		}
		s.handshake <- err
		won = true
	})
	return won
}

func (s *session) send(msg obsapi.Message) error {
	raw, err := obsapi.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.Send(raw)
}

func (s *session) close(code int) {
	if s.conn != nil {
		_ = s.conn.CloseWithCode(code, "")
	}
	s.cancel()
}

func (s *session) HandleText(ctx context.Context, msg []byte) {
	s.c.handleText(ctx, s, msg)
}

func (s *session) HandleClose(ctx context.Context, code int, reason string) {
	s.c.handleClose(ctx, s, code, reason)
}

func (s *session) HandleError(ctx context.Context, err error) {
	s.c.handleTransportError(ctx, s, err)
}
