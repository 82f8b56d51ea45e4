package handler

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/xdimtech/go-obsws/handler/base"
	"github.com/xdimtech/go-obsws/pkg/document"
	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
	"github.com/xdimtech/go-obsws/pkg/utils"
)

const (
	MockOBSVersion          = "30.2.0"
	MockOBSWebSocketVersion = "5.5.0"
)

// RequestHandlerFunc answers one request. The returned document becomes
// responseData; nil omits it.
type RequestHandlerFunc func(req *obsapi.Request) (obsapi.RequestStatus, document.Document)

func Success() obsapi.RequestStatus {
	return obsapi.RequestStatus{Result: true, Code: obsapi.StatusSuccess}
}

func Failure(code int, comment string) obsapi.RequestStatus {
	status := obsapi.RequestStatus{Code: code}
	if comment != "" {
		status.Comment = lo.ToPtr(comment)
	}
	return status
}

// MockServer speaks the server side of obs-websocket 5.x: hello with an
// optional auth challenge, identify checking, request handlers and event
// broadcast. It serves websocket upgrades on any path.
type MockServer struct {
	password string
	log      zerolog.Logger
	manual   bool
	upgrader websocket.Upgrader

	handlersMu sync.RWMutex
	handlers   map[string]RequestHandlerFunc

	connsMu sync.Mutex
	conns   map[*mockConn]struct{}

	requests   chan *MockRequest
	identifies atomic.Int64
}

type MockOption func(*MockServer)

// WithPassword makes the server send an auth challenge in hello.
func WithPassword(password string) MockOption {
	return func(s *MockServer) {
		s.password = password
	}
}

func WithLogger(l zerolog.Logger) MockOption {
	return func(s *MockServer) {
		s.log = l
	}
}

// WithManualResponses stops the server from answering requests. Each one is
// delivered on Requests and answered with MockRequest.Respond.
func WithManualResponses() MockOption {
	return func(s *MockServer) {
		s.manual = true
	}
}

func NewMockServer(ops ...MockOption) *MockServer {
	s := &MockServer{
		log:      zerolog.Nop(),
		handlers: make(map[string]RequestHandlerFunc),
		conns:    make(map[*mockConn]struct{}),
		requests: make(chan *MockRequest, base.WriteQueueSize),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, op := range ops {
		op(s)
	}
	return s
}

// Start serves the mock on addr until the listener fails.
func (s *MockServer) Start(addr string) error {
	s.log.Info().Str("addr", addr).Bool("auth", s.password != "").Msg("mock obs-websocket listening")
	if ip, err := utils.GetLocalIP(); err == nil {
		s.log.Info().Str("url", "ws://"+ip+addr).Msg("reachable at")
	}
	return http.ListenAndServe(addr, s)
}

// Handle sets the handler for requestType. Types without a handler are
// answered with StatusUnknownRequestType.
func (s *MockServer) Handle(requestType string, fn RequestHandlerFunc) *MockServer {
	s.handlersMu.Lock()
	s.handlers[requestType] = fn
	s.handlersMu.Unlock()
	return s
}

func (s *MockServer) handler(requestType string) (RequestHandlerFunc, bool) {
	s.handlersMu.RLock()
	defer s.handlersMu.RUnlock()
	fn, ok := s.handlers[requestType]
	return fn, ok
}

// Requests delivers requests in manual response mode.
func (s *MockServer) Requests() <-chan *MockRequest {
	return s.requests
}

// Identifies counts Identify messages received over all connections.
func (s *MockServer) Identifies() int {
	return int(s.identifies.Load())
}

// Connections counts open client connections.
func (s *MockServer) Connections() int {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	return len(s.conns)
}

func (s *MockServer) snapshot() []*mockConn {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	return lo.Keys(s.conns)
}

// Broadcast sends an event to every identified client.
func (s *MockServer) Broadcast(eventType string, data document.Document) {
	ev := &obsapi.Event{EventType: eventType, EventData: data}
	for _, conn := range s.snapshot() {
		if conn.identified.Load() {
			conn.send(ev)
		}
	}
}

// SendRaw writes {"op": op, "d": d} to every client as is.
func (s *MockServer) SendRaw(op obsapi.OpCode, d any) error {
	raw, err := utils.Marshal(map[string]any{"op": int(op), "d": d})
	if err != nil {
		return err
	}
	for _, conn := range s.snapshot() {
		if err := conn.conn.Send(raw); err != nil {
			return err
		}
	}
	return nil
}

// CloseAll ends every client connection with a close frame.
func (s *MockServer) CloseAll(code int, reason string) {
	for _, conn := range s.snapshot() {
		_ = conn.conn.CloseWithCode(code, reason)
	}
}

func (s *MockServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		utils.WriteRespWithHttpStatus(w, http.StatusUpgradeRequired)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	mc := &mockConn{server: s}
	wrapper, err := base.NewConnWrapper(conn, mc, base.WithLogger(s.log))
	if err != nil {
		s.log.Error().Err(err).Msg("wrap websocket")
		return
	}
	mc.conn = wrapper

	s.connsMu.Lock()
	s.conns[mc] = struct{}{}
	s.connsMu.Unlock()
	defer func() {
		s.connsMu.Lock()
		delete(s.conns, mc)
		s.connsMu.Unlock()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return wrapper.WriteLoop(ctx) })

	mc.sendHello()
	_ = wrapper.ReadLoop(ctx)
	_ = g.Wait()
}
