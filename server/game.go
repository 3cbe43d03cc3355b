package server

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Game is the authoritative world: the player registry, the room
// directory and the global coin set, all behind one lock. Connection
// goroutines and the tick loop both mutate state only through its
// methods.
type Game struct {
	mu      sync.Mutex
	cfg     Config
	players map[PlayerID]*Player
	rooms   map[string]*Room
	coins   coinSet
	metrics *Metrics

	tickerStarted bool
	quit          chan struct{}
}

func NewGame(cfg Config) *Game {
	g := &Game{
		cfg:     cfg,
		players: make(map[PlayerID]*Player),
		rooms:   make(map[string]*Room),
		coins:   make(coinSet),
		metrics: &Metrics{},
		quit:    make(chan struct{}),
	}
	g.coins.respawnAll(&g.cfg, g.cfg.InitialCoinCount)
	return g
}

// Connect registers a fresh player for a new connection: random spawn
// position, zero score, no room, placeholder display name until join.
func (g *Game) Connect(conn Conn) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := PlayerID(uuid.NewString())
	x, y := randomPos(&g.cfg)
	p := &Player{
		ID:   id,
		Name: "Player-" + string(id)[:4],
		X:    x,
		Y:    y,
		Conn: conn,
	}
	g.players[id] = p
	Log.Infof("connected: player=%s", id)
	return p
}

// Disconnect removes the player from the registry entirely. If they
// were in a room the remaining members get the shrunk roster. The next
// tick observes the absence; nothing else needs to be cancelled.
func (g *Game) Disconnect(id PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return
	}
	delete(g.players, id)
	if p.GameID != "" {
		if r, ok := g.rooms[p.GameID]; ok {
			r.remove(id)
			g.dropRoomIfEmptyLocked(r)
			g.broadcastRoomLocked(r, EvtPlayersUpdate, g.rosterLocked(r), "")
		}
	}
	Log.Infof("disconnected: player=%s", id)
}

// Join puts the player in a room, enforcing capacity. A missing name
// or room id is a silent no-op; a full room answers join-error and
// changes nothing. On success the caller gets joined{gameId,players},
// the rest of the room gets players-update, and everyone gets the
// current coin set.
func (g *Game) Join(id PlayerID, gameID, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok || gameID == "" || name == "" {
		return
	}

	r := g.rooms[gameID]
	if r != nil && !r.contains(id) && r.size() >= g.cfg.MaxPlayersPerRoom {
		g.metrics.IncJoinRejected()
		g.sendToLocked(id, EvtJoinError, joinErrorPayload{
			Message: fmt.Sprintf("Room full (max %d players)", g.cfg.MaxPlayersPerRoom),
		})
		return
	}

	// Switching rooms leaves the old one first.
	if p.GameID != "" && p.GameID != gameID {
		if old, ok := g.rooms[p.GameID]; ok {
			old.remove(id)
			g.dropRoomIfEmptyLocked(old)
			g.broadcastRoomLocked(old, EvtPlayersUpdate, g.rosterLocked(old), "")
		}
	}

	if r == nil {
		r = newRoom(gameID)
		g.rooms[gameID] = r
	}
	r.add(id)
	p.Name = name
	p.GameID = gameID

	roster := g.rosterLocked(r)
	g.sendToLocked(id, EvtJoined, joinedPayload{GameID: gameID, Players: roster})
	g.broadcastRoomLocked(r, EvtPlayersUpdate, roster, id)
	g.broadcastAllLocked(EvtCoinsUpdate, g.coins.list())
	Log.Infof("joined: player=%s name=%q room=%s size=%d", id, name, gameID, r.size())
}

// Leave clears room membership and held input but keeps the registry
// entry, so the player can rejoin. Score is untouched.
func (g *Game) Leave(id PlayerID, gameID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok || gameID == "" {
		return
	}
	if r, ok := g.rooms[gameID]; ok && r.contains(id) {
		r.remove(id)
		g.dropRoomIfEmptyLocked(r)
		g.broadcastRoomLocked(r, EvtPlayersUpdate, g.rosterLocked(r), "")
	}
	if p.GameID == gameID {
		p.GameID = ""
	}
	p.Held.Clear()
	p.Dragging = false
	p.HasTarget = false
	g.sendToLocked(id, EvtLeft, nil)
	Log.Infof("left: player=%s room=%s", id, gameID)
}

// Move and Stop maintain the held-direction set. Both are idempotent.
func (g *Game) Move(id PlayerID, d Direction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok && d != DirNone {
		p.Held.Add(d)
		g.metrics.IncInput()
	}
}

func (g *Game) Stop(id PlayerID, d Direction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok && d != DirNone {
		p.Held.Remove(d)
		g.metrics.IncInput()
	}
}

// PointerDown begins a drag toward the given point. No bounds check
// here; the tick engine clamps the resulting position.
func (g *Game) PointerDown(id PlayerID, x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok {
		p.Dragging = true
		p.HasTarget = true
		p.TargetX, p.TargetY = x, y
		g.metrics.IncInput()
	}
}

// PointerMove retargets the drag, but only while dragging.
func (g *Game) PointerMove(id PlayerID, x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok && p.Dragging {
		p.HasTarget = true
		p.TargetX, p.TargetY = x, y
		g.metrics.IncInput()
	}
}

// PointerUp ends the drag and forgets the target.
func (g *Game) PointerUp(id PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok {
		p.Dragging = false
		p.HasTarget = false
		g.metrics.IncInput()
	}
}

// Collect attempts to claim a coin for the player. The check-and-remove
// runs atomically under the lock, so two racing collectors resolve to
// exactly one success. Reaching the winning score triggers the
// game-over broadcast and the full reset sequence.
func (g *Game) Collect(id PlayerID, coinID CoinID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return
	}
	if g.cfg.VerifyCollect {
		if c, ok := g.coins[coinID]; ok {
			if dist(p.X, p.Y, c.X, c.Y) > 2*g.cfg.PlayerRadius {
				g.metrics.IncStaleCollect()
				return
			}
		}
	}
	if _, ok := g.coins.take(coinID); !ok {
		// Already collected by someone else, or never existed.
		g.metrics.IncStaleCollect()
		return
	}
	p.Score++
	g.metrics.IncCoinCollected()

	if p.GameID != "" && p.Score >= g.cfg.WinningScore {
		if r, ok := g.rooms[p.GameID]; ok {
			Log.Infof("game over: room=%s winner=%s score=%d", r.ID, p.ID, p.Score)
			g.broadcastRoomLocked(r, EvtGameOver, gameOverPayload{
				Winner:   p.Name,
				WinnerID: string(p.ID),
			}, "")
			g.resetRoomLocked(r)
			return
		}
	}

	if r, ok := g.rooms[p.GameID]; ok {
		g.broadcastRoomLocked(r, EvtPlayersUpdate, g.rosterLocked(r), "")
	}
	g.coins.spawn(&g.cfg)
	g.broadcastAllLocked(EvtCoinsUpdate, g.coins.list())
}

// Reset performs the reset sequence for the caller's room. Any member
// may trigger it; players outside a room are ignored.
func (g *Game) Reset(id PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok || p.GameID == "" {
		return
	}
	r, ok := g.rooms[p.GameID]
	if !ok {
		return
	}
	Log.Infof("reset requested: room=%s by=%s", r.ID, id)
	g.resetRoomLocked(r)
}

// resetRoomLocked is the shared win/reset sequence: zero every
// member's score, scatter them to fresh positions, regenerate the full
// coin set, then announce roster, coins and the reset itself.
func (g *Game) resetRoomLocked(r *Room) {
	for _, id := range r.members {
		p, ok := g.players[id]
		if !ok {
			continue
		}
		p.Score = 0
		p.X, p.Y = randomPos(&g.cfg)
	}
	g.coins.respawnAll(&g.cfg, g.cfg.InitialCoinCount)
	g.metrics.IncReset()

	g.broadcastRoomLocked(r, EvtPlayersUpdate, g.rosterLocked(r), "")
	g.broadcastAllLocked(EvtCoinsUpdate, g.coins.list())
	g.broadcastRoomLocked(r, EvtGameReset, nil, "")
}

func (g *Game) dropRoomIfEmptyLocked(r *Room) {
	if r.size() == 0 {
		delete(g.rooms, r.ID)
	}
}

// Roster returns the public projection of a room, or nil if the room
// does not exist.
func (g *Game) Roster(gameID string) []PlayerState {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[gameID]
	if !ok {
		return nil
	}
	return g.rosterLocked(r)
}

// Coins returns a snapshot of the global coin set.
func (g *Game) Coins() []Coin {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.coins.list()
}

// Stats reports coarse counts for the metrics endpoint.
func (g *Game) Stats() (players, rooms, coins int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players), len(g.rooms), len(g.coins)
}

// ConfigSnapshot returns a copy of the live configuration.
func (g *Game) ConfigSnapshot() Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg
}

// Metrics exposes the runtime counters.
func (g *Game) Metrics() *Metrics {
	return g.metrics
}
