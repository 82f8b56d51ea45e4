package base

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeInfo struct {
	code   int
	reason string
}

type recorder struct {
	texts  chan string
	closes chan closeInfo
	errs   chan error
}

func newRecorder() *recorder {
	return &recorder{
		texts:  make(chan string, 16),
		closes: make(chan closeInfo, 1),
		errs:   make(chan error, 16),
	}
}

func (r *recorder) HandleText(_ context.Context, msg []byte) { r.texts <- string(msg) }

func (r *recorder) HandleClose(_ context.Context, code int, reason string) {
	r.closes <- closeInfo{code, reason}
}

func (r *recorder) HandleError(_ context.Context, err error) { r.errs <- err }

// pair returns a client wrapper with running loops and the server side conn.
func pair(t *testing.T, rec *recorder) (*ConnWrapper, *websocket.Conn) {
	t.Helper()
	serverConn := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConn <- conn
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	w, err := NewConnWrapper(conn, rec)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = w.ReadLoop(ctx) }()
	go func() { _ = w.WriteLoop(ctx) }()

	server := <-serverConn
	t.Cleanup(func() { _ = server.Close() })
	return w, server
}

func TestConnWrapperRoundTrip(t *testing.T) {
	rec := newRecorder()
	w, server := pair(t, rec)

	require.NoError(t, w.Send([]byte(`{"op":1}`)))
	_, msg, err := server.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"op":1}`, string(msg))

	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte(`{"op":0}`)))
	assert.Equal(t, `{"op":0}`, <-rec.texts)
}

func TestConnWrapperPeerClose(t *testing.T) {
	rec := newRecorder()
	w, server := pair(t, rec)

	msg := websocket.FormatCloseMessage(4009, "Authentication failed.")
	require.NoError(t, server.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)))

	select {
	case info := <-rec.closes:
		assert.Equal(t, 4009, info.code)
		assert.Equal(t, "Authentication failed.", info.reason)
	case <-time.After(5 * time.Second):
		t.Fatal("close not reported")
	}

	<-w.Done()
	assert.ErrorIs(t, w.Send([]byte("late")), ErrConnClosed)
}

func TestConnWrapperDroppedLink(t *testing.T) {
	rec := newRecorder()
	_, server := pair(t, rec)

	require.NoError(t, server.Close())

	select {
	case info := <-rec.closes:
		assert.Equal(t, websocket.CloseAbnormalClosure, info.code)
	case <-time.After(5 * time.Second):
		t.Fatal("close not reported")
	}
}

func TestNewConnWrapperNeedsHandler(t *testing.T) {
	_, err := NewConnWrapper(nil, nil)
	assert.ErrorIs(t, err, ErrHandlerRequired)
}
