package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	neturl "net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

// Live is a websocket subscription to leaderboard updates.
type Live struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	enc    protocol.Encoding
	boards chan protocol.Leaderboard
	closed bool
}

// Dial connects to wsURL. The token, when set, is sent both as a header and
// as a query parameter.
func Dial(wsURL, token string, enc protocol.Encoding) (*Live, error) {
	hdr := http.Header{}
	u, err := neturl.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if enc == protocol.EncodingMsgpack {
		q.Set("enc", string(enc))
	}
	if token != "" {
		hdr.Set("Authorization", "Bearer "+token)
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
	}
	c, resp, err := dialer.Dial(u.String(), hdr)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			log.Printf("WS dial failed: %s\n%s", resp.Status, string(body))
		} else {
			log.Printf("WS dial failed: %v", err)
		}
		return nil, err
	}

	l := &Live{conn: c, enc: enc, boards: make(chan protocol.Leaderboard, 8)}
	go l.reader()
	return l, nil
}

// Boards delivers every leaderboard the server pushes. It is closed when the
// connection ends.
func (l *Live) Boards() <-chan protocol.Leaderboard { return l.boards }

func (l *Live) reader() {
	defer close(l.boards)
	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			if !l.IsClosed() {
				log.Println("ws read:", err)
			}
			l.mu.Lock()
			l.closed = true
			l.mu.Unlock()
			return
		}
		env, err := protocol.Decode(l.enc, data)
		if err != nil {
			continue
		}
		switch env.Type {
		case protocol.MsgLeaderboard:
			lb, err := protocol.DecodeData[protocol.Leaderboard](l.enc, env)
			if err != nil {
				log.Println("ws leaderboard:", err)
				continue
			}
			select {
			case l.boards <- lb:
			default:
				// drop the oldest; only the newest board matters
				select {
				case <-l.boards:
				default:
				}
				l.boards <- lb
			}
		case protocol.MsgError:
			if m, err := protocol.DecodeData[protocol.ErrorMsg](l.enc, env); err == nil {
				log.Println("ws server error:", m.Message)
			}
		}
	}
}

// Refresh asks the server to resend the current board.
func (l *Live) Refresh() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.New("live: write on closed")
	}
	b, err := protocol.Encode(l.enc, protocol.MsgGetLeaderboard, protocol.GetLeaderboard{})
	if err != nil {
		return err
	}
	kind := websocket.TextMessage
	if l.enc == protocol.EncodingMsgpack {
		kind = websocket.BinaryMessage
	}
	return l.conn.WriteMessage(kind, b)
}

// IsClosed reports whether Close() was called or the connection was torn down.
func (l *Live) IsClosed() bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Live) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()
	return l.conn.Close()
}
