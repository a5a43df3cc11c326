package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/abarman/water-health-watch/internal/alerting"
)

// Feed streams newly created alerts to websocket clients subscribed to the
// broadcaster.
type Feed struct {
	broadcaster *alerting.Broadcaster
	upgrader    websocket.Upgrader
}

func NewFeed(b *alerting.Broadcaster) *Feed {
	return &Feed{
		broadcaster: b,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (f *Feed) Handle(c *gin.Context) {
	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	id, ch := f.broadcaster.Subscribe()
	defer f.broadcaster.Unsubscribe(id)
	defer conn.Close()

	// Reader exists only to observe the peer closing; closing conn on our
	// side unblocks it.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case alert, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(alert); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
