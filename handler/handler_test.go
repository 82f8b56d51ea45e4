package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdimtech/go-obsws/pkg/document"
	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

func dialMock(t *testing.T, s *MockServer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) obsapi.Message {
	t.Helper()
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, _, err := obsapi.Unmarshal(raw)
	require.NoError(t, err)
	return msg
}

func write(t *testing.T, conn *websocket.Conn, msg obsapi.Message) {
	t.Helper()
	raw, err := obsapi.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func closeCode(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		var ce *websocket.CloseError
		require.True(t, errors.As(err, &ce), "want close error, got %v", err)
		return ce.Code
	}
}

func identify(t *testing.T, conn *websocket.Conn, password string) {
	t.Helper()
	hello, ok := read(t, conn).(*obsapi.Hello)
	require.True(t, ok)
	write(t, conn, obsapi.NewIdentify(hello, obsapi.DefaultRPCVersion, password, nil))
	_, ok = read(t, conn).(*obsapi.Identified)
	require.True(t, ok)
}

func TestMockHandshakeWithAuth(t *testing.T) {
	s := NewMockServer(WithPassword("pw"))
	conn := dialMock(t, s)

	hello, ok := read(t, conn).(*obsapi.Hello)
	require.True(t, ok)
	require.NotNil(t, hello.Authentication)
	assert.NotEmpty(t, hello.Authentication.Challenge)
	assert.NotEqual(t, hello.Authentication.Challenge, hello.Authentication.Salt)

	write(t, conn, obsapi.NewIdentify(hello, 1, "pw", nil))
	identified, ok := read(t, conn).(*obsapi.Identified)
	require.True(t, ok)
	assert.Equal(t, 1, identified.NegotiatedRPCVersion)
	assert.Equal(t, 1, s.Identifies())
}

func TestMockRejectsBadAuth(t *testing.T) {
	conn := dialMock(t, NewMockServer(WithPassword("pw")))
	hello := read(t, conn).(*obsapi.Hello)
	write(t, conn, obsapi.NewIdentify(hello, 1, "wrong", nil))
	assert.Equal(t, int(obsapi.CloseAuthenticationFailed), closeCode(t, conn))
}

func TestMockRequiresIdentify(t *testing.T) {
	conn := dialMock(t, NewMockServer())
	read(t, conn)
	write(t, conn, &obsapi.Request{RequestType: "GetVersion", RequestID: "1"})
	assert.Equal(t, int(obsapi.CloseNotIdentified), closeCode(t, conn))
}

func TestMockHandlers(t *testing.T) {
	s := NewMockServer()
	s.Handle("Echo", func(req *obsapi.Request) (obsapi.RequestStatus, document.Document) {
		return Success(), req.RequestData
	})
	conn := dialMock(t, s)
	identify(t, conn, "")

	write(t, conn, &obsapi.Request{
		RequestType: "Echo",
		RequestID:   "r1",
		RequestData: document.New().Set("x", "y"),
	})
	resp := read(t, conn).(*obsapi.RequestResponse)
	assert.Equal(t, "r1", resp.RequestID)
	assert.True(t, resp.RequestStatus.Result)
	assert.Equal(t, "y", resp.ResponseData.String("x"))

	write(t, conn, &obsapi.Request{RequestType: "Nope", RequestID: "r2"})
	resp = read(t, conn).(*obsapi.RequestResponse)
	assert.False(t, resp.RequestStatus.Result)
	assert.Equal(t, obsapi.StatusUnknownRequestType, resp.RequestStatus.Code)
	assert.NotEmpty(t, lo.FromPtr(resp.RequestStatus.Comment))
}

func TestStudioScenes(t *testing.T) {
	s := NewStudio("A", "B").Install(NewMockServer())
	conn := dialMock(t, s)
	identify(t, conn, "")

	write(t, conn, &obsapi.Request{
		RequestType: "SetCurrentProgramScene",
		RequestID:   "1",
		RequestData: document.New().Set("sceneName", "B"),
	})
	ev, ok := read(t, conn).(*obsapi.Event)
	require.True(t, ok)
	assert.Equal(t, "CurrentProgramSceneChanged", ev.EventType)
	assert.Equal(t, "B", ev.EventData.String("sceneName"))
	resp := read(t, conn).(*obsapi.RequestResponse)
	assert.True(t, resp.RequestStatus.Result)

	write(t, conn, &obsapi.Request{RequestType: "GetSceneList", RequestID: "2"})
	resp = read(t, conn).(*obsapi.RequestResponse)
	assert.Equal(t, "B", resp.ResponseData.String("currentProgramSceneName"))
	assert.Len(t, resp.ResponseData.Objects("scenes"), 2)

	write(t, conn, &obsapi.Request{
		RequestType: "SetCurrentProgramScene",
		RequestID:   "3",
		RequestData: document.New().Set("sceneName", "Z"),
	})
	resp = read(t, conn).(*obsapi.RequestResponse)
	assert.False(t, resp.RequestStatus.Result)
	assert.Equal(t, obsapi.StatusResourceNotFound, resp.RequestStatus.Code)
}

func TestMockPlainHTTP(t *testing.T) {
	srv := httptest.NewServer(NewMockServer())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
