package handler

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/xdimtech/go-obsws/handler/base"
	"github.com/xdimtech/go-obsws/pkg/document"
	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
	"github.com/xdimtech/go-obsws/pkg/utils"
)

// mockConn is the server side of one client connection.
type mockConn struct {
	server     *MockServer
	conn       *base.ConnWrapper
	hello      *obsapi.Hello
	identified atomic.Bool
}

var _ base.WsHandler = (*mockConn)(nil)

// MockRequest is a request held for a manual response.
type MockRequest struct {
	*obsapi.Request
	conn *mockConn
}

// Respond answers the request on the connection it came from.
func (r *MockRequest) Respond(status obsapi.RequestStatus, data document.Document) error {
	return r.conn.respond(r.Request, status, data)
}

func (c *mockConn) sendHello() {
	c.hello = &obsapi.Hello{
		ObsWebSocketVersion: MockOBSWebSocketVersion,
		RPCVersion:          obsapi.DefaultRPCVersion,
	}
	if c.server.password != "" {
		c.hello.Authentication = &obsapi.Authentication{
			Challenge: utils.UniqueID(),
			Salt:      utils.UniqueID(),
		}
	}
	c.send(c.hello)
}

func (c *mockConn) send(msg obsapi.Message) {
	raw, err := obsapi.Marshal(msg)
	if err != nil {
		c.server.log.Error().Err(err).Msg("mock marshal")
		return
	}
	if err := c.conn.Send(raw); err != nil {
		c.server.log.Debug().Err(err).Msg("mock send")
	}
}

func (c *mockConn) HandleText(_ context.Context, msg []byte) {
	m, _, err := obsapi.Unmarshal(msg)
	if err != nil {
		code := obsapi.CloseMessageDecodeError
		if errors.Is(err, obsapi.ErrUnknownOpCode) {
			code = obsapi.CloseUnknownOpCode
		}
		_ = c.conn.CloseWithCode(int(code), err.Error())
		return
	}

	switch m := m.(type) {
	case *obsapi.Identify:
		c.handleIdentify(m)
	case *obsapi.Request:
		c.handleRequest(m)
	default:
		_ = c.conn.CloseWithCode(int(obsapi.CloseUnknownOpCode), "unexpected opcode "+m.OpCode().String())
	}
}

func (c *mockConn) handleIdentify(m *obsapi.Identify) {
	c.server.identifies.Add(1)
	if c.identified.Load() {
		_ = c.conn.CloseWithCode(int(obsapi.CloseAlreadyIdentified), "Already identified.")
		return
	}
	if m.RPCVersion != obsapi.DefaultRPCVersion {
		_ = c.conn.CloseWithCode(int(obsapi.CloseUnsupportedRPCVersion), "Requested an unsupported RPC version.")
		return
	}
	if auth := c.hello.Authentication; auth != nil {
		want := obsapi.AuthResponse(c.server.password, auth.Salt, auth.Challenge)
		if lo.FromPtr(m.Authentication) != want {
			_ = c.conn.CloseWithCode(int(obsapi.CloseAuthenticationFailed), "Authentication failed.")
			return
		}
	}
	c.identified.Store(true)
	c.send(&obsapi.Identified{NegotiatedRPCVersion: m.RPCVersion})
}

func (c *mockConn) handleRequest(m *obsapi.Request) {
	if !c.identified.Load() {
		_ = c.conn.CloseWithCode(int(obsapi.CloseNotIdentified), "Not identified.")
		return
	}
	if c.server.manual {
		c.server.requests <- &MockRequest{Request: m, conn: c}
		return
	}

	fn, ok := c.server.handler(m.RequestType)
	if !ok {
		_ = c.respond(m, Failure(obsapi.StatusUnknownRequestType, "Your request type is not valid."), nil)
		return
	}
	data := m.RequestData
	if data == nil {
		data = document.New()
	}
	status, resp := fn(&obsapi.Request{RequestType: m.RequestType, RequestID: m.RequestID, RequestData: data})
	_ = c.respond(m, status, resp)
}

func (c *mockConn) respond(req *obsapi.Request, status obsapi.RequestStatus, data document.Document) error {
	raw, err := obsapi.Marshal(&obsapi.RequestResponse{
		RequestType:   req.RequestType,
		RequestID:     req.RequestID,
		RequestStatus: status,
		ResponseData:  data,
	})
	if err != nil {
		return err
	}
	return c.conn.Send(raw)
}

func (c *mockConn) HandleClose(_ context.Context, code int, reason string) {
	c.server.log.Debug().Int("code", code).Str("reason", reason).Msg("mock client gone")
}

func (c *mockConn) HandleError(_ context.Context, err error) {
	c.server.log.Debug().Err(err).Msg("mock connection error")
}
