package server

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/render"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	// clientQueue is the number of frames a client may lag behind before
	// newer frames are dropped for it.
	clientQueue = 2
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// encodedFrame is one encoded frame shared by every client it was queued
// to. The buffer goes back to the pool when the last holder releases it.
type encodedFrame struct {
	buf  *[]byte
	refs atomic.Int32
}

func (e *encodedFrame) retain() { e.refs.Add(1) }

func (e *encodedFrame) release() {
	if e.refs.Add(-1) == 0 {
		render.PutBuffer(e.buf)
	}
}

type fieldClient struct {
	conn    *websocket.Conn
	send    chan *encodedFrame
	dropped atomic.Uint64
}

// FieldHandler streams encoded particle frames to renderer clients over
// WebSocket. Clients that cannot keep up skip frames.
type FieldHandler struct {
	clients map[*fieldClient]struct{}
	mu      sync.RWMutex
	sent    atomic.Uint64
}

// NewFieldHandler creates a FieldHandler with no clients.
func NewFieldHandler() *FieldHandler {
	return &FieldHandler{clients: make(map[*fieldClient]struct{})}
}

// Clients returns the number of connected clients.
func (h *FieldHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Sent returns the number of frames queued to clients so far.
func (h *FieldHandler) Sent() uint64 {
	return h.sent.Load()
}

// Publish encodes f once and queues it to every client. It never blocks on
// a client and does not retain f.
func (h *FieldHandler) Publish(f *render.Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	ef := &encodedFrame{buf: render.GetBuffer()}
	*ef.buf = render.Encode(*ef.buf, f)
	ef.refs.Store(1)

	for c := range h.clients {
		ef.retain()
		select {
		case c.send <- ef:
			h.sent.Add(1)
		default:
			ef.release()
			if n := c.dropped.Add(1); n%300 == 1 {
				log.Debug("field client lagging, dropping frames", "remote", c.conn.RemoteAddr(), "dropped", n)
			}
		}
	}
	ef.release()
}

// ServeHTTP upgrades the request and streams frames until the client goes
// away.
func (h *FieldHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade error", "err", err)
		return
	}

	c := &fieldClient{conn: conn, send: make(chan *encodedFrame, clientQueue)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Info("field client connected", "remote", conn.RemoteAddr())

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump()
	}()

	// Reads only serve to notice the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
	<-done
	log.Info("field client disconnected", "remote", conn.RemoteAddr(), "dropped", c.dropped.Load())
}

// Close disconnects every client.
func (h *FieldHandler) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.conn.Close()
	}
}

func (c *fieldClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		for ef := range c.send {
			ef.release()
		}
	}()

	for {
		select {
		case ef, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			err := c.conn.WriteMessage(websocket.BinaryMessage, *ef.buf)
			ef.release()
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
