package obs

import (
	"context"

	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

type subscription struct {
	event   obsapi.EventSchema
	consume func(ctx context.Context)
}

// RegisterEvent routes events of event's type to consumer. The same event
// value is filled from every eventData before consumer runs. Registering a
// type again replaces the earlier consumer.
func (c *Controller) RegisterEvent(event obsapi.EventSchema, consumer func(ctx context.Context, event obsapi.EventSchema)) *Controller {
	return OnEvent(c, event, consumer)
}

// OnEvent is RegisterEvent with a consumer typed to the event schema.
func OnEvent[E obsapi.EventSchema](c *Controller, event E, consumer func(ctx context.Context, event E)) *Controller {
	c.subsMu.Lock()
	c.subscriptions[event.EventType()] = subscription{
		event:   event,
		consume: func(ctx context.Context) { consumer(ctx, event) },
	}
	c.subsMu.Unlock()
	return c
}

func (c *Controller) lookupEvent(eventType string) (subscription, bool) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	sub, ok := c.subscriptions[eventType]
	return sub, ok
}

func (c *Controller) disconnectHandler() func(ctx context.Context, reason string) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	return c.onDisconnect
}
