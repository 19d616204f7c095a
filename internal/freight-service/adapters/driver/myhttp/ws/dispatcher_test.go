package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-bid/internal/freight-service/core/domain/eventdto"
	"freight-bid/internal/mylogger"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)
	return NewDispatcher(log)
}

func dialTransporter(t *testing.T, srv *httptest.Server, transporterID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/transporters/" + transporterID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestNotifyDeliveredAfterHandlerReturns(t *testing.T) {
	d := newTestDispatcher(t)

	mux := http.NewServeMux()
	mux.Handle("/ws/transporters/{transporter_id}", d.WsHandler())
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialTransporter(t, srv, "t1")
	defer conn.Close()

	// The upgrade handler returned as soon as the dial completed; the
	// connection must survive it. Give the pumps a moment to start.
	time.Sleep(50 * time.Millisecond)

	d.NotifyTransporter("t1", eventdto.Notification{
		Type:    "bid_accepted",
		LoadID:  "load-1",
		BidID:   "bid-1",
		Message: "bid accepted, 2 trucks booked",
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var n eventdto.Notification
	require.NoError(t, conn.ReadJSON(&n))
	assert.Equal(t, "bid_accepted", n.Type)
	assert.Equal(t, "load-1", n.LoadID)
	assert.Equal(t, "bid-1", n.BidID)
}

func TestNotifySkipsOtherTransporters(t *testing.T) {
	d := newTestDispatcher(t)

	mux := http.NewServeMux()
	mux.Handle("/ws/transporters/{transporter_id}", d.WsHandler())
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialTransporter(t, srv, "t1")
	defer conn.Close()
	time.Sleep(50 * time.Millisecond)

	// Nobody is connected as t2; the notification is simply dropped.
	d.NotifyTransporter("t2", eventdto.Notification{Type: "bid_rejected", LoadID: "load-1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var n eventdto.Notification
	err := conn.ReadJSON(&n)
	assert.Error(t, err, "t1 must not receive t2's notification")
}
