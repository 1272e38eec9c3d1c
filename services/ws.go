package services

import (
	"net/http"

	"github.com/ten-ki/proto-games/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection and hands it to the hub. The
// session joins a room later via the join action; an optional account id
// query parameter binds the session to an external identity.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}

	client := &Client{
		id:        uuid.NewString(),
		accountID: c.Query("account_id"),
		conn:      conn,
		hub:       h,
		send:      make(chan []byte, 32),
	}
	h.addClient(client)
}
