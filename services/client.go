package services

import (
	"sync"

	"github.com/ten-ki/proto-games/utils/logger"

	"github.com/gorilla/websocket"
)

// Client is one websocket session. The id doubles as the player id
// inside whatever room the client joins.
type Client struct {
	id        string
	name      string
	accountID string
	room      string // guarded by hub.mu

	conn *websocket.Conn
	hub  *Hub
	send chan []byte
	once sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// enqueue drops the message when the client's buffer is full rather than
// blocking a room.
func (c *Client) enqueue(b []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warnf("[Client %s] send on closed channel recovered", c.id)
		}
	}()
	select {
	case c.send <- b:
	default:
		logger.Warnf("[Client %s] dropping message, buffer full", c.id)
	}
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer c.hub.removeClient(c)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Infof("[Client %s] disconnected normally", c.id)
			} else {
				logger.Warnf("[Client %s] read error: %v", c.id, err)
			}
			return
		}
		c.hub.handleMessage(c, message)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Warnf("[Client %s] write error: %v", c.id, err)
			return
		}
	}
}
