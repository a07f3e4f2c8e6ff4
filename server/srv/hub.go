// server/srv/hub.go
package srv

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/michaelpaglia/fun-sunday-work/server/leaderboard"
	"github.com/michaelpaglia/fun-sunday-work/server/metrics"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	enc  protocol.Encoding
	name string
}

// Hub fans leaderboard snapshots out to websocket subscribers.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}

	store   leaderboard.Store // nil when scores are not persisted
	updates chan struct{}
}

func NewHub(store leaderboard.Store) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		store:   store,
		updates: make(chan struct{}, 1),
	}
}

// Run rebuilds and broadcasts the board after every Notify until ctx ends.
// Bursts of submissions collapse into one broadcast.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case <-h.updates:
			lb, err := h.Board(ctx)
			if err != nil {
				log.Printf("hub: build leaderboard: %v", err)
				continue
			}
			h.broadcast(protocol.MsgLeaderboard, lb)
		}
	}
}

// Notify marks the board dirty. It never blocks.
func (h *Hub) Notify() {
	select {
	case h.updates <- struct{}{}:
	default:
	}
}

// Board builds the current top entries.
func (h *Hub) Board(ctx context.Context) (protocol.Leaderboard, error) {
	lb := protocol.Leaderboard{Items: []protocol.LeaderboardEntry{}, GeneratedAt: time.Now().UnixMilli()}
	if h.store == nil {
		return lb, nil
	}
	items, err := h.store.Top(ctx, protocol.LeaderboardLimit)
	if err != nil {
		return lb, err
	}
	if items != nil {
		lb.Items = items
	}
	return lb, nil
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleWS serves one upgraded connection until it closes. The current board
// is sent straight away.
func (h *Hub) HandleWS(conn *websocket.Conn, enc protocol.Encoding, name string) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), done: make(chan struct{}), enc: enc, name: name}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	metrics.LiveClients.Add(1)
	log.Printf("WS join name=%s enc=%s", name, enc)

	go c.writer()
	h.sendBoard(c)
	c.reader(h)
}

func (h *Hub) sendBoard(c *client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	lb, err := h.Board(ctx)
	if err != nil {
		sendEnvelope(c, protocol.MsgError, protocol.ErrorMsg{Message: "leaderboard unavailable"})
		return
	}
	sendEnvelope(c, protocol.MsgLeaderboard, lb)
}

func (h *Hub) broadcast(typ string, v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		sendEnvelope(c, typ, v)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.done)
		metrics.LiveClients.Add(-1)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.done)
		metrics.LiveClients.Add(-1)
	}
	h.mu.Unlock()
}

func (c *client) reader(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		log.Printf("WS leave name=%s", c.name)
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WS read name=%s: %v", c.name, err)
			}
			return
		}
		env, err := protocol.Decode(c.enc, data)
		if err != nil {
			sendEnvelope(c, protocol.MsgError, protocol.ErrorMsg{Message: "bad message"})
			continue
		}
		switch env.Type {
		case protocol.MsgGetLeaderboard:
			h.sendBoard(c)
		default:
			sendEnvelope(c, protocol.MsgError, protocol.ErrorMsg{Message: "Unknown message type: " + env.Type})
		}
	}
}

func (c *client) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	kind := websocket.TextMessage
	if c.enc == protocol.EncodingMsgpack {
		kind = websocket.BinaryMessage
	}
	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(kind, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendEnvelope queues a frame, dropping it if the client is not keeping up.
func sendEnvelope(c *client, typ string, v any) {
	out, err := protocol.Encode(c.enc, typ, v)
	if err != nil {
		log.Printf("encode %s: %v", typ, err)
		return
	}
	select {
	case c.send <- out:
	default:
	}
}
