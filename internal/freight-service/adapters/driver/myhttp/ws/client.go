package ws

import (
	"context"
	"encoding/json"

	"freight-bid/internal/freight-service/core/domain/eventdto"

	"github.com/gorilla/websocket"
)

type Client struct {
	ctx           context.Context
	conn          *websocket.Conn
	dis           *Dispatcher
	egress        chan eventdto.Notification
	transporterID string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, transporterID string) *Client {
	return &Client{
		ctx:           ctx,
		conn:          conn,
		dis:           dis,
		egress:        make(chan eventdto.Notification, 16),
		transporterID: transporterID,
	}
}

// ReadMessage drains the connection so pings and close frames are handled.
// Transporters never send business payloads over this socket.
func (c *Client) ReadMessage() {
	defer func() {
		c.dis.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) WriteMessage() {
	for {
		select {
		case <-c.ctx.Done():
			c.conn.Close()
			return
		case n, ok := <-c.egress:
			if !ok {
				return
			}

			payload, err := json.Marshal(n)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
