package obs

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/xdimtech/go-obsws/pkg/document"
	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
	"github.com/xdimtech/go-obsws/pkg/utils"
)

// pendingCall is one request awaiting its RequestResponse. Exactly one of
// succeed and fail is called, by the read loop, after the call has been
// removed from the table.
type pendingCall interface {
	requestType() string
	succeed(ctx context.Context, resp *obsapi.RequestResponse)
	fail(ctx context.Context, err *FailedRequestError)
}

// PendingTable stores outstanding calls by requestId.
type PendingTable struct {
	mu    sync.Mutex
	items map[string]pendingCall
	newID func() string
}

func NewPendingTable() *PendingTable {
	return &PendingTable{
		items: make(map[string]pendingCall),
		newID: utils.RandomID,
	}
}

// register stores call under a fresh id that no outstanding call uses.
func (t *PendingTable) register(call pendingCall) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		id := t.newID()
		if _, taken := t.items[id]; taken {
			continue
		}
		t.items[id] = call
		return id
	}
}

func (t *PendingTable) remove(id string) (pendingCall, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	call, ok := t.items[id]
	if ok {
		delete(t.items, id)
	}
	return call, ok
}

// IDs lists the outstanding request ids in sorted order.
func (t *PendingTable) IDs() []string {
	t.mu.Lock()
	ids := lo.Keys(t.items)
	t.mu.Unlock()
	sort.Strings(ids)
	return ids
}

func (t *PendingTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// pending binds a request schema to its callbacks and future.
type pending[T obsapi.RequestSchema] struct {
	c         *Controller
	request   T
	onSuccess func(ctx context.Context, resp T)
	onFailure func(ctx context.Context, err *FailedRequestError)
	future    *Future[T]
}

func (p *pending[T]) requestType() string {
	return p.request.RequestType()
}

func (p *pending[T]) succeed(ctx context.Context, resp *obsapi.RequestResponse) {
	data := resp.ResponseData
	if data == nil {
		data = document.New()
	}
	if err := p.request.ParseResponseData(data); err != nil {
		p.fail(ctx, &FailedRequestError{
			RequestType: p.requestType(),
			Code:        resp.RequestStatus.Code,
			Comment:     "parse responseData: " + err.Error(),
			RawResponse: resp.Raw,
		})
		return
	}

	p.future.settle(p.request, nil, resp.RequestStatus.Code)
	if p.onSuccess != nil {
		p.c.invokeCallback(ctx, "success", func(ctx context.Context) {
			p.onSuccess(ctx, p.request)
		})
	}
}

func (p *pending[T]) fail(ctx context.Context, err *FailedRequestError) {
	var zero T
	if p.onFailure != nil {
		p.c.log.Debug().Err(err).Str("requestType", err.RequestType).Msg("request failed")
		p.future.settle(zero, nil, err.Code)
		p.c.invokeCallback(ctx, "failure", func(ctx context.Context) {
			p.onFailure(ctx, err)
		})
		return
	}

	p.c.log.Error().Err(err).
		Str("requestType", err.RequestType).
		Int("code", err.Code).
		Msg("request failed with no failure callback")
	p.c.report(err)
	p.future.settle(zero, err, err.Code)
}
