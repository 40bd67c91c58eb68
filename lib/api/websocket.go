package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	sendQueue    = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

// @Summary	Open websocket for realtime status information
// @Description	Sends the stats every 2 seconds and a build event whenever a program is rebuilt.
// @Router		/api/ws [get]
// @Param		Upgrade	header	string	true	"websocket"
// @Tags		base
// @Success	101
func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already replied
		return
	}
	c := newWsClient(ws)
	defer a.dropClient(c)

	a.wsMu.Lock()
	a.wsClients[c] = struct{}{}
	a.Stats.SetWsClients(len(a.wsClients))
	a.wsMu.Unlock()

	go a.websocketWriter(c)

	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}
}

// wsClient is one websocket connection. Only its writer goroutine writes to
// conn; everything else hands packets over through send.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newWsClient(ws *websocket.Conn) *wsClient {
	return &wsClient{
		conn: ws,
		send: make(chan []byte, sendQueue),
		done: make(chan struct{}),
	}
}

func (c *wsClient) stop() {
	c.once.Do(func() { close(c.done) })
}

func (a *Api) dropClient(c *wsClient) {
	a.wsMu.Lock()
	delete(a.wsClients, c)
	a.Stats.SetWsClients(len(a.wsClients))
	a.wsMu.Unlock()

	c.stop()
	err := c.conn.Close()
	if err != nil {
		slog.Debug(fmt.Sprintf("could not close websocket: %s", err), slog.String("module", "api"))
	}
}

// broadcast queues packet for every client without waiting on any of them.
// A client whose queue is full misses the packet.
func (a *Api) broadcast(packet []byte) {
	a.wsMu.Lock()
	defer a.wsMu.Unlock()

	for c := range a.wsClients {
		select {
		case c.send <- packet:
		default:
			slog.Debug("websocket client is too slow, dropping packet", slog.String("module", "api"))
		}
	}
}

func (c *wsClient) write(packet []byte) error {
	err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, packet)
}

func (a *Api) websocketWriter(c *wsClient) {
	pingTicker := time.NewTicker(2 * time.Second)
	defer pingTicker.Stop()

	for {
		var packet []byte
		select {
		case <-c.done:
			return
		case packet = <-c.send:
		case <-pingTicker.C:
			var err error
			packet, err = json.Marshal(a.Stats)
			if err != nil {
				return
			}
		}
		if err := c.write(packet); err != nil {
			slog.Debug(fmt.Sprintf("could not write to websocket: %s", err), slog.String("module", "api"))
			// ends the read loop, which drops the client
			_ = c.conn.Close()
			return
		}
	}
}

// ClientCount returns the number of connected websocket clients.
func (a *Api) ClientCount() int {
	a.wsMu.Lock()
	defer a.wsMu.Unlock()
	return len(a.wsClients)
}
