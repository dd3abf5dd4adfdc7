package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the feed is public and read-only
	},
}

var welcome = []byte(`{"type":"welcome","transport":"websocket"}`)

func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		// before Add, so it cannot race a broadcast write
		if err := ws.WriteMessage(websocket.TextMessage, welcome); err != nil {
			_ = ws.Close()
			return
		}

		hub.Add(ws)
		hub.logger.Info("feed client connected", "remote", ws.RemoteAddr().String())

		// incoming frames are ignored; a read error means the client left
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Remove(ws)
		hub.logger.Info("feed client disconnected", "remote", ws.RemoteAddr().String())
	}
}
