// Package wsbridge adapts a controller.Controller to gorilla/websocket,
// the way the teacher's api/websocket.go adapts its debugger.Debugger:
// a client connection gets a send channel and a pair of read/write
// pump goroutines, and every Step() broadcasts one JSON-encoded
// vm.ExecutionStep to all connected clients. This is the
// "browser-binding layer" spec §1 places out of scope for core design —
// a thin wrapper, not a new execution model.
package wsbridge

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lookbusy1344/sixbit-toolchain/controller"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Bridge owns one controller and the set of clients subscribed to its
// ExecutionStep broadcasts.
type Bridge struct {
	ctl *controller.Controller

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New returns a Bridge broadcasting steps taken on ctl.
func New(ctl *controller.Controller) *Bridge {
	return &Bridge{ctl: ctl, clients: make(map[*client]struct{})}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// ServeHTTP upgrades the connection to a WebSocket and registers a
// client to receive ExecutionStep broadcasts.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("wsbridge: upgrade error: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()

	go b.writePump(c)
	go b.readPump(c)
}

// Step executes one instruction on the underlying controller and
// broadcasts the resulting ExecutionStep to every connected client.
func (b *Bridge) Step() error {
	step, err := b.ctl.Step()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(step)
	if err != nil {
		return err
	}
	b.broadcast(payload)
	return nil
}

func (b *Bridge) broadcast(payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- payload:
		default:
			// client too slow, drop this event rather than block the broadcaster
		}
	}
}

func (b *Bridge) readPump(c *client) {
	defer func() {
		b.remove(c)
		if err := c.conn.Close(); err != nil {
			log.Printf("wsbridge: close error: %v", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("wsbridge: read error: %v", err)
			}
			return
		}
	}
}

func (b *Bridge) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			log.Printf("wsbridge: close error: %v", err)
		}
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (b *Bridge) remove(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, c)
	close(c.send)
}
