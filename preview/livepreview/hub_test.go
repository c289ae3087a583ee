package livepreview

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npillmayer/keyframer"
	"github.com/npillmayer/keyframer/preview"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	cmds []keyframer.Command
}

func (r *recorder) Apply(cmd keyframer.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	if cmd.Op == "explode" {
		return keyframer.ErrUnknownCommand
	}
	return nil
}

func (r *recorder) commands() []keyframer.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]keyframer.Command(nil), r.cmds...)
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubBroadcastsFrames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.live")
	defer teardown()
	//
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()
	assert.False(t, hub.Mounted())
	conn := dial(t, server)
	defer conn.Close()
	assert.Eventually(t, hub.Mounted, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Render(preview.Frame{DocumentID: "d1", HTML: "<html></html>", Percent: 25}))
	msg := read(t, conn)
	assert.Equal(t, MsgFrame, msg.Type)
	require.NotNil(t, msg.Frame)
	assert.Equal(t, "d1", msg.Frame.DocumentID)
	assert.Equal(t, 25.0, msg.Frame.Percent)

	hub.SetCursor(500, 50)
	msg = read(t, conn)
	assert.Equal(t, MsgCursor, msg.Type)
	assert.Equal(t, &Cursor{Ms: 500, Percent: 50}, msg.Cursor)

	late := dial(t, server)
	defer late.Close()
	msg = read(t, late)
	assert.Equal(t, MsgFrame, msg.Type, "late client receives the last frame")
	assert.Equal(t, "d1", msg.Frame.DocumentID)
}

func TestHubCallsOnAttach(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.live")
	defer teardown()
	//
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close() // waits for the handlers before teardown
	attached := make(chan bool, 2)
	hub.OnAttach(func() {
		attached <- hub.Mounted()
		hub.Render(preview.Frame{DocumentID: "fresh"})
	})
	conn := dial(t, server)
	defer conn.Close()
	msg := read(t, conn)
	assert.Equal(t, MsgFrame, msg.Type, "first client receives a frame rendered on attach")
	assert.Equal(t, "fresh", msg.Frame.DocumentID)
	assert.True(t, <-attached, "hub is mounted when the callback runs")
}

func TestHubForwardsCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.live")
	defer teardown()
	//
	rec := &recorder{}
	hub := NewHub(rec)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()
	conn := dial(t, server)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"op":"add-keyframe","element":"box","time":1200}`)))
	assert.Eventually(t, func() bool { return len(rec.commands()) == 1 }, time.Second, 5*time.Millisecond)
	cmd := rec.commands()[0]
	assert.Equal(t, keyframer.OpAddKeyframe, cmd.Op)
	assert.Equal(t, "box", cmd.Element)
	assert.Equal(t, 1200.0, cmd.Time)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"op":`)))
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "malformed")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"op":"explode"}`)))
	msg = read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "unknown command")
}

func TestReadOnlyHubRejectsCommands(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()
	conn := dial(t, server)
	defer conn.Close()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"op":"play"}`)))
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "read-only")
}

func TestClosedHub(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	conn := dial(t, server)
	defer conn.Close()
	assert.Eventually(t, hub.Mounted, time.Second, 5*time.Millisecond)
	hub.Close()
	assert.False(t, hub.Mounted())
	assert.ErrorIs(t, hub.Render(preview.Frame{}), ErrClosed)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "clients are disconnected")
}
