package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"wagerwinz/internal/events"
)

// WSHandler streams challenge lifecycle events to websocket clients, the
// replacement for the contract event subscriptions the original UI used.
type WSHandler struct {
	Hub    *events.Hub
	Logger *zap.Logger
}

func (h *WSHandler) Register(r *gin.Engine) {
	r.GET("/ws/events", h.stream)
}

func (h *WSHandler) stream(c *gin.Context) {
	if h.Hub == nil {
		Error(c, http.StatusInternalServerError, "hub unavailable", nil)
		return
	}
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origin checks are the proxy's job here
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	sub, cancel := h.Hub.Subscribe()
	defer cancel()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "client gone")
			return
		case evt, ok := <-sub:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "hub closed")
				return
			}
			if err := wsjson.Write(ctx, conn, evt); err != nil {
				if h.Logger != nil {
					h.Logger.Debug("websocket write failed", zap.Error(err))
				}
				return
			}
		}
	}
}
