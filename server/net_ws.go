package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	maxMsgSize = 1 << 20 // 1MB
)

// ClientConn wraps the websocket with a buffered send queue so the
// tick loop never blocks on a slow client.
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue queues a frame for delivery. When the queue is full the
// frame is dropped and false returned; freshness beats completeness
// for state broadcasts.
func (c *ClientConn) Enqueue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close shuts the send queue (ending the write pump) and the socket.
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

// writePump drains the send queue onto the socket.
func (c *ClientConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump parses inbound envelopes and dispatches them to the game.
// When the read loop ends, for any reason, the player is disconnected.
func (c *ClientConn) readPump(g *Game, playerID PlayerID) {
	defer func() {
		g.Disconnect(playerID)
		c.Close()
	}()
	c.ws.SetReadLimit(maxMsgSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			continue
		}
		dispatch(g, playerID, env)
	}
}

// dispatch routes one inbound event. Malformed payloads are dropped;
// nothing a client sends can fault the server.
func dispatch(g *Game, id PlayerID, env Envelope) {
	switch env.Type {
	case EvtJoinGame:
		var p joinPayload
		if json.Unmarshal(env.Data, &p) == nil {
			g.Join(id, p.GameID, p.Name)
		}
	case EvtLeaveGame:
		var p leavePayload
		if json.Unmarshal(env.Data, &p) == nil {
			g.Leave(id, p.GameID)
		}
	case EvtMove:
		var dir string
		if json.Unmarshal(env.Data, &dir) == nil {
			g.Move(id, ParseDirection(dir))
		}
	case EvtStop:
		var dir string
		if json.Unmarshal(env.Data, &dir) == nil {
			g.Stop(id, ParseDirection(dir))
		}
	case EvtMouseDown:
		var p pointPayload
		if json.Unmarshal(env.Data, &p) == nil {
			g.PointerDown(id, p.X, p.Y)
		}
	case EvtMouseMove:
		var p pointPayload
		if json.Unmarshal(env.Data, &p) == nil {
			g.PointerMove(id, p.X, p.Y)
		}
	case EvtMouseUp:
		g.PointerUp(id)
	case EvtCollect:
		var p collectPayload
		if json.Unmarshal(env.Data, &p) == nil {
			g.Collect(id, p.CoinID)
		}
	case EvtResetGame:
		g.Reset(id)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The game client is served from anywhere during development.
		return true
	},
}

// HandleWS upgrades the connection, registers a player, and starts the
// read/write pumps.
func (g *Game) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(ws)
	p := g.Connect(client)

	go client.writePump()
	go client.readPump(g, p.ID)
}
