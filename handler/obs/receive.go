package obs

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
	"github.com/xdimtech/go-obsws/pkg/utils"
)

func (c *Controller) handleText(ctx context.Context, sess *session, raw []byte) {
	if _, ok := c.current(sess); !ok {
		return
	}
	c.log.Trace().Str("frame", utils.Bytes2Str(raw)).Msg("received")

	msg, env, err := obsapi.Unmarshal(raw)
	if err != nil {
		if errors.Is(err, obsapi.ErrUnknownOpCode) {
			c.log.Debug().Int("op", int(env.Op)).Msg("ignoring unhandled opcode")
			return
		}
		// A handshake frame that cannot be read ends the connect attempt.
		if state, _ := c.current(sess); state.handshaking() {
			err = fmt.Errorf("handshake: %w", err)
			sess.resolve(err, func() { c.setStateFor(sess, StateFailed) })
			return
		}
		c.log.Error().Err(err).Msg("dropping undecodable frame")
		c.report(err)
		return
	}

	switch m := msg.(type) {
	case *obsapi.Hello:
		c.handleHello(sess, m)
	case *obsapi.Identified:
		c.handleIdentified(sess, m)
	case *obsapi.Event:
		c.handleEvent(ctx, m)
	case *obsapi.RequestResponse:
		c.handleResponse(ctx, m)
	default:
		c.log.Debug().Str("op", msg.OpCode().String()).Msg("ignoring unhandled opcode")
	}
}

func (c *Controller) handleHello(sess *session, hello *obsapi.Hello) {
	state, ok := c.current(sess)
	if !ok || state != StateConnecting {
		c.log.Debug().Str("state", state.String()).Msg("ignoring hello")
		return
	}
	sess.hello = hello
	c.log.Debug().
		Str("obsWebSocketVersion", hello.ObsWebSocketVersion).
		Int("rpcVersion", hello.RPCVersion).
		Bool("authRequired", hello.Authentication != nil).
		Msg("hello received")

	if hello.Authentication != nil && sess.password == "" {
		sess.resolve(ErrPasswordRequired, func() { c.setStateFor(sess, StateFailed) })
		return
	}

	identify := obsapi.NewIdentify(hello, c.rpcVersion, sess.password, c.eventSubscriptions)
	if !c.transition(sess, StateConnecting, StateAwaitingIdentify) {
		return
	}
	if err := sess.send(identify); err != nil {
		sess.resolve(fmt.Errorf("send identify: %w", err), func() { c.setStateFor(sess, StateFailed) })
		return
	}
	c.log.Debug().Int("rpcVersion", identify.RPCVersion).Msg("identify sent")
}

func (c *Controller) handleIdentified(sess *session, m *obsapi.Identified) {
	c.mu.Lock()
	if c.sess != sess {
		c.mu.Unlock()
		return
	}
	state := c.state
	c.mu.Unlock()

	if state != StateAwaitingIdentify {
		c.log.Debug().Str("state", state.String()).Msg("ignoring identified")
		return
	}
	sess.resolve(nil, func() {
		c.mu.Lock()
		if c.sess == sess && c.state == StateAwaitingIdentify {
			c.state = StateReady
			c.negotiatedRPC = m.NegotiatedRPCVersion
		}
		c.mu.Unlock()
	})
}

func (c *Controller) handleEvent(ctx context.Context, m *obsapi.Event) {
	sub, ok := c.lookupEvent(m.EventType)
	if !ok {
		c.log.Debug().Str("eventType", m.EventType).Msg("ignoring unsubscribed event")
		return
	}
	if err := sub.event.ParseEventData(m.EventData); err != nil {
		err = fmt.Errorf("obs: parse %s eventData: %w", m.EventType, err)
		c.log.Error().Err(err).Str("eventType", m.EventType).Msg("dropping event")
		c.report(err)
		return
	}
	c.invokeCallback(ctx, "event "+m.EventType, sub.consume)
}

func (c *Controller) handleResponse(ctx context.Context, m *obsapi.RequestResponse) {
	call, ok := c.pending.remove(m.RequestID)
	if !ok {
		err := fmt.Errorf("%w: %q (%s)", ErrUnknownRequestID, m.RequestID, m.RequestType)
		c.log.Error().Err(err).Str("requestId", m.RequestID).Msg("no pending request for response")
		c.report(err)
		return
	}

	status := m.RequestStatus
	if !status.Result {
		call.fail(ctx, &FailedRequestError{
			RequestType: call.requestType(),
			Code:        status.Code,
			Comment:     lo.FromPtr(status.Comment),
			RawResponse: m.Raw,
		})
		return
	}
	call.succeed(ctx, m)
}

func (c *Controller) handleClose(ctx context.Context, sess *session, code int, reason string) {
	c.mu.Lock()
	if c.sess != sess {
		c.mu.Unlock()
		return
	}
	state := c.state

	switch {
	case state.handshaking():
		c.mu.Unlock()
		var err error
		if code == int(obsapi.CloseAuthenticationFailed) {
			err = fmt.Errorf("%w: password incorrect, check the websocket server settings (%d - %s)",
				ErrAuthenticationFailed, code, reason)
		} else {
			err = fmt.Errorf("%w before identified: %s (%d - %s)",
				ErrConnectionClosed, obsapi.CloseCode(code), code, reason)
		}
		sess.resolve(err, func() { c.setStateFor(sess, StateFailed) })

	case state == StateReady:
		c.state = StateDisconnected
		c.mu.Unlock()

		msg := fmt.Sprintf("disconnected from obs: %s (%d - %s)", obsapi.CloseCode(code), code, reason)
		c.log.Info().Int("code", code).Str("reason", reason).Msg("connection closed by server")
		// The handler may reconnect, so it gets a context that outlives this session.
		if fn := c.disconnectHandler(); fn != nil {
			c.invokeCallback(context.WithoutCancel(ctx), "disconnect", func(ctx context.Context) { fn(ctx, msg) })
		}
		sess.cancel()

	default:
		c.mu.Unlock()
		c.log.Debug().Int("code", code).Str("state", state.String()).Msg("connection closed")
	}
}

func (c *Controller) handleTransportError(_ context.Context, sess *session, err error) {
	state, ok := c.current(sess)
	if !ok {
		return
	}
	switch {
	case state.handshaking():
		sess.resolve(err, func() { c.setStateFor(sess, StateFailed) })
	case state == StateReady:
		c.log.Error().Err(err).Msg("websocket error")
		c.report(err)
	default:
		c.log.Debug().Err(err).Str("state", state.String()).Msg("websocket error")
	}
}
