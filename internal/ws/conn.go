package ws

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	// ErrBackpressure means a frame was dropped because the client is not
	// draining its send queue fast enough.
	ErrBackpressure = errors.New("send queue full")
	// ErrConnClosed means the connection is already closed.
	ErrConnClosed = errors.New("connection closed")
)

const (
	sendQueueSize = 256
	writeWait     = 5 * time.Second
)

// Conn wraps a websocket connection with a buffered outbound queue and a
// single write pump, so broadcasts from other players' goroutines never
// block on a slow client. Reads stay on the owning handler goroutine.
type Conn struct {
	id     uuid.UUID
	socket *websocket.Conn
	logger *slog.Logger

	send chan []byte
	done chan struct{}
	once sync.Once
}

func newConn(socket *websocket.Conn, logger *slog.Logger) *Conn {
	id := uuid.New()
	return &Conn{
		id:     id,
		socket: socket,
		logger: logger.With(slog.String("conn_id", id.String())),
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// Send enqueues a frame without blocking.
func (c *Conn) Send(frame []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrBackpressure
	}
}

// Kick closes the connection with a policy-violation close frame. The read
// loop then observes the closure and runs the normal leave sequence.
func (c *Conn) Kick(reason string) {
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	if err := c.socket.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		c.logger.Debug("close frame not delivered", slog.String("error", err.Error()))
	}
	c.close()
}

// close shuts the connection down once. Pending frames in the send queue are
// dropped.
func (c *Conn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.socket.Close()
	})
}

// writePump delivers enqueued frames to the network until the connection
// closes. It is the only goroutine writing data frames.
func (c *Conn) writePump() {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.close()
				return
			}
		}
	}
}
