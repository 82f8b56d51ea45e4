package obs

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultRequestTimeout = 5 * time.Second
)

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithErrorHandler receives every fault nobody else is told about: failed
// requests without a failure callback, unknown request ids, callback panics,
// undecodable frames and transport errors after the handshake.
func WithErrorHandler(fn func(err error)) Option {
	return func(c *Controller) {
		c.errorHandler = fn
	}
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Controller) {
		if d != nil {
			c.dialer = d
		}
	}
}

func WithConnectTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

func WithRPCVersion(v int) Option {
	return func(c *Controller) {
		if v > 0 {
			c.rpcVersion = v
		}
	}
}

// WithEventSubscriptions sets the Identify eventSubscriptions bitmask.
// Without it the server default applies.
func WithEventSubscriptions(subs obsapi.EventSubscription) Option {
	return func(c *Controller) {
		c.eventSubscriptions = lo.ToPtr(uint32(subs))
	}
}

// WithPingInterval enables websocket keepalive pings.
func WithPingInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.pingInterval = d
	}
}
