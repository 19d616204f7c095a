package ws

import (
	"context"
	"net/http"
	"sync"

	"freight-bid/internal/freight-service/core/domain/eventdto"
	"freight-bid/internal/mylogger"

	"github.com/gorilla/websocket"
)

// websocketUpgrader turns incoming HTTP requests into persistent websocket
// connections for transporter notifications.
var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Dispatcher tracks connected transporters and fans notifications out to
// every open connection a transporter holds. It implements
// ports.INotifyTransporter.
type Dispatcher struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool
	log     mylogger.Logger
}

func NewDispatcher(log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		clients: make(map[string]map[*Client]bool),
		log:     log,
	}
}

func (d *Dispatcher) WsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("wsHandler")
		transporterID := r.PathValue("transporter_id")

		if transporterID == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		// The request context dies when this handler returns; the connection
		// outlives it, so the client must not be keyed to it.
		ctx := context.Background()
		client := NewClient(ctx, conn, d, transporterID)
		d.addClient(client)
		go client.ReadMessage()
		go client.WriteMessage()

		log.Info("transporter connected", "transporter_id", transporterID)
	}
}

// NotifyTransporter pushes n to every live connection of transporterID.
// Unconnected transporters are simply skipped.
func (d *Dispatcher) NotifyTransporter(transporterID string, n eventdto.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for client := range d.clients[transporterID] {
		select {
		case client.egress <- n:
		default:
			// Slow consumer, drop rather than block a booking.
		}
	}
}

func (d *Dispatcher) addClient(client *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.clients[client.transporterID] == nil {
		d.clients[client.transporterID] = make(map[*Client]bool)
	}
	d.clients[client.transporterID][client] = true
}

func (d *Dispatcher) removeClient(client *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if conns, ok := d.clients[client.transporterID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(d.clients, client.transporterID)
		}
	}
}
