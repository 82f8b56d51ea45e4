package obs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
	"github.com/xdimtech/go-obsws/pkg/protocol/obs/requests"
)

// Controller is a client session with an obs-websocket 5.x server. It runs
// the hello/identify handshake, correlates requests with responses and
// dispatches events. All inbound frames are handled on one read loop
// goroutine; callbacks run there too.
type Controller struct {
	log                zerolog.Logger
	errorHandler       func(error)
	dialer             *websocket.Dialer
	connectTimeout     time.Duration
	requestTimeout     time.Duration
	rpcVersion         int
	eventSubscriptions *uint32
	pingInterval       time.Duration

	mu            sync.RWMutex
	state         State
	sess          *session
	negotiatedRPC int

	pending *PendingTable

	subsMu        sync.RWMutex
	subscriptions map[string]subscription
	onDisconnect  func(ctx context.Context, reason string)
}

func NewController(ops ...Option) *Controller {
	c := &Controller{
		log:            zerolog.Nop(),
		dialer:         websocket.DefaultDialer,
		connectTimeout: DefaultConnectTimeout,
		requestTimeout: DefaultRequestTimeout,
		rpcVersion:     obsapi.DefaultRPCVersion,
		pending:        NewPendingTable(),
		subscriptions:  make(map[string]subscription),
	}
	for _, op := range ops {
		op(c)
	}
	c.onDisconnect = func(_ context.Context, reason string) {
		c.log.Error().Str("reason", reason).Msg("disconnected from obs")
	}
	return c
}

// RegisterDisconnectHandler replaces the handler run when the server or the
// network ends a ready session. Disconnect does not run it.
func (c *Controller) RegisterDisconnectHandler(fn func(ctx context.Context, reason string)) *Controller {
	c.subsMu.Lock()
	c.onDisconnect = fn
	c.subsMu.Unlock()
	return c
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// NegotiatedRPCVersion is the rpc version from Identified, 0 before that.
func (c *Controller) NegotiatedRPCVersion() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.negotiatedRPC
}

// Pending lists the ids of requests still waiting for a response.
func (c *Controller) Pending() []string {
	return c.pending.IDs()
}

// setStateFor changes state only while sess is still the current session.
func (c *Controller) setStateFor(sess *session, s State) {
	c.mu.Lock()
	if c.sess == sess {
		c.state = s
	}
	c.mu.Unlock()
}

// transition moves sess from one state to another and reports whether it did.
func (c *Controller) transition(sess *session, from, to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != sess || c.state != from {
		return false
	}
	c.state = to
	return true
}

func (c *Controller) current(sess *session) (State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.sess == sess
}

// Connect dials address and blocks until the session is ready, the
// handshake fails or the connect timeout passes. A password is only used
// when the server asks for authentication.
func (c *Controller) Connect(ctx context.Context, address, password string) error {
	c.mu.Lock()
	if !c.state.canConnect() {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	sess := newSession(c, address, password)
	c.sess = sess
	c.state = StateConnecting
	c.negotiatedRPC = 0
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	c.log.Info().Str("address", address).Msg("connecting to obs")
	conn, resp, err := c.dialer.DialContext(ctx, address, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		c.setStateFor(sess, StateFailed)
		sess.cancel()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = ErrConnectTimeout
		}
		c.log.Error().Err(err).Str("address", address).Msg("connect failed")
		return &ConnectionError{Address: address, Cause: innermost(err)}
	}

	if err := sess.start(conn); err != nil {
		_ = conn.Close()
		c.setStateFor(sess, StateFailed)
		sess.cancel()
		return &ConnectionError{Address: address, Cause: err}
	}

	select {
	case err = <-sess.handshake:
	case <-ctx.Done():
		cause := ctx.Err()
		if errors.Is(cause, context.DeadlineExceeded) {
			cause = ErrConnectTimeout
		}
		sess.resolve(cause, func() { c.setStateFor(sess, StateFailed) })
		err = <-sess.handshake
	}

	if err != nil {
		sess.close(websocket.CloseNormalClosure)
		_ = sess.group.Wait()
		c.log.Error().Err(err).Str("address", address).Msg("connect failed")
		return &ConnectionError{Address: address, Cause: err}
	}

	c.log.Info().
		Str("address", address).
		Int("rpcVersion", c.NegotiatedRPCVersion()).
		Msg("connected to obs")
	return nil
}

// Disconnect closes the session. Requests still pending never settle.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	sess := c.sess
	if sess == nil || c.state == StateIdle || c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	c.mu.Unlock()

	sess.resolve(ErrConnectionClosed, nil)
	sess.close(websocket.CloseNormalClosure)
	c.log.Info().Str("address", sess.address).Msg("disconnected")
}

// readySession returns the current session if the handshake completed.
func (c *Controller) readySession() (*session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateReady || c.sess == nil {
		return nil, fmt.Errorf("%w (state %s)", ErrNotConnected, c.state)
	}
	return c.sess, nil
}

func (c *Controller) StartRecord() *Call[*requests.EmptyRequest] {
	return Build(c, requests.Empty("StartRecord"))
}

func (c *Controller) StopRecord() *Call[*requests.EmptyRequest] {
	return Build(c, requests.Empty("StopRecord"))
}

func (c *Controller) StartStream() *Call[*requests.EmptyRequest] {
	return Build(c, requests.Empty("StartStream"))
}

func (c *Controller) StopStream() *Call[*requests.EmptyRequest] {
	return Build(c, requests.Empty("StopStream"))
}
