/*
Package livepreview serves preview frames to browsers over websockets.

A Hub is a preview surface. It is mounted as long as at least one browser
is connected. Frames and cursor updates are broadcast to all clients as
JSON messages:

    {"type":"frame","frame":{...}}
    {"type":"cursor","cursor":{"ms":1200,"percent":60}}
    {"type":"error","error":"..."}

Clients send commands as JSON (see keyframer.Command), which the hub hands
to an Applier. A client connecting later receives the most recent frame
right away; an attach callback (see OnAttach) lets the editor send a fresh
frame when the last one is missing or outdated.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package livepreview

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npillmayer/keyframer"
	"github.com/npillmayer/keyframer/preview"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframer.live'.
func tracer() tracing.Trace {
	return tracing.Select("keyframer.live")
}

// ErrClosed is returned when rendering to a closed hub.
var ErrClosed = errors.New("livepreview: hub closed")

// Applier executes commands received from clients.
type Applier interface {
	Apply(keyframer.Command) error
}

// ApplierFunc adapts a function to interface Applier.
type ApplierFunc func(keyframer.Command) error

// Apply calls f(cmd).
func (f ApplierFunc) Apply(cmd keyframer.Command) error {
	return f(cmd)
}

// MessageType is the type of a message sent to clients.
type MessageType string

const (
	MsgFrame  MessageType = "frame"
	MsgCursor MessageType = "cursor"
	MsgError  MessageType = "error"
)

// Message is sent to clients.
type Message struct {
	Type   MessageType    `json:"type"`
	Frame  *preview.Frame `json:"frame,omitempty"`
	Cursor *Cursor        `json:"cursor,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Cursor is a playback cursor position.
type Cursor struct {
	Ms      float64 `json:"ms"`
	Percent float64 `json:"percent"`
}

const (
	sendBuffer   = 16
	writeTimeout = 5 * time.Second
)

// Hub is a preview.CursorSurface for websocket clients.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]bool
	last     []byte // encoded message of the most recent frame
	applier  Applier
	onAttach func()
	upgrader websocket.Upgrader
	serving  sync.WaitGroup // handlers of attached clients
	closed   bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub creates a hub. applier may be nil, in which case client commands
// are rejected.
func NewHub(applier Applier) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		applier: applier,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// OnAttach sets a function called whenever a client has attached, after it
// has been sent the most recent frame. The hub is mounted when f is called.
func (h *Hub) OnAttach(f func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAttach = f
}

// Mounted is part of interface preview.Surface.
func (h *Hub) Mounted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Render is part of interface preview.Surface.
func (h *Hub) Render(frame preview.Frame) error {
	data, err := json.Marshal(Message{Type: MsgFrame, Frame: &frame})
	if err != nil {
		return fmt.Errorf("livepreview: cannot encode frame: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.last = data
	h.broadcastLocked(data)
	return nil
}

// SetCursor is part of interface preview.CursorSurface.
func (h *Hub) SetCursor(ms, percent float64) {
	data, err := json.Marshal(Message{Type: MsgCursor, Cursor: &Cursor{Ms: ms, Percent: percent}})
	if err != nil {
		tracer().Errorf("livepreview: cannot encode cursor: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(data)
}

var _ preview.CursorSurface = &Hub{}

// broadcastLocked hands data to every client. Clients which are too slow to
// keep up lose the message.
func (h *Hub) broadcastLocked(data []byte) {
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			tracer().Infof("livepreview: client too slow, dropping message")
		}
	}
}

// ServeHTTP upgrades a request to a websocket connection and serves the
// client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		tracer().Errorf("livepreview: upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	onAttach, ok := h.attach(c)
	if !ok {
		conn.Close()
		return
	}
	defer h.serving.Done()
	tracer().Infof("livepreview: client %s connected", r.RemoteAddr)
	written := make(chan struct{})
	go func() {
		defer close(written)
		h.writeLoop(c)
	}()
	if onAttach != nil {
		onAttach()
	}
	h.readLoop(c)
	h.detach(c)
	<-written
	tracer().Infof("livepreview: client %s disconnected", r.RemoteAddr)
}

func (h *Hub) attach(c *client) (func(), bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	h.serving.Add(1)
	h.clients[c] = true
	if h.last != nil {
		c.send <- h.last
	}
	return h.onAttach, true
}

func (h *Hub) detach(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			tracer().Errorf("livepreview: write failed: %v", err)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}

func (h *Hub) readLoop(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				tracer().Errorf("livepreview: read failed: %v", err)
			}
			return
		}
		if err := h.handle(data); err != nil {
			h.reply(c, err)
		}
	}
}

func (h *Hub) handle(data []byte) error {
	var cmd keyframer.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("livepreview: malformed command: %w", err)
	}
	if h.applier == nil {
		return fmt.Errorf("livepreview: read-only preview, command %q rejected", cmd.Op)
	}
	return h.applier.Apply(cmd)
}

func (h *Hub) reply(c *client, err error) {
	data, _ := json.Marshal(Message{Type: MsgError, Error: err.Error()})
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Close disconnects all clients and waits for their handlers to return.
// Rendering to a closed hub fails. Close must not be called from an Applier or an
// attach callback.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = make(map[*client]bool)
	h.mu.Unlock()
	for c := range clients {
		c.close()
	}
	h.serving.Wait()
}
