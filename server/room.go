package server

// Conn is the send side of one client connection. Enqueue must never
// block; it reports false when the message was dropped.
type Conn interface {
	Enqueue(b []byte) bool
	Close()
}

// Room is a first-class aggregate: the set of member ids in join
// order. Membership and the players' GameID fields mutate under the
// same Game lock, so the two views cannot diverge.
type Room struct {
	ID      string
	members []PlayerID
}

func newRoom(id string) *Room {
	return &Room{ID: id}
}

func (r *Room) size() int { return len(r.members) }

func (r *Room) contains(id PlayerID) bool {
	for _, m := range r.members {
		if m == id {
			return true
		}
	}
	return false
}

func (r *Room) add(id PlayerID) {
	if !r.contains(id) {
		r.members = append(r.members, id)
	}
}

func (r *Room) remove(id PlayerID) {
	for i, m := range r.members {
		if m == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}

// rosterLocked builds the public projection of a room in join order.
// A member momentarily missing from the registry (disconnect race) is
// reported as a placeholder instead of being omitted, so the roster
// size never flickers.
func (g *Game) rosterLocked(r *Room) []PlayerState {
	out := make([]PlayerState, 0, len(r.members))
	for _, id := range r.members {
		p, ok := g.players[id]
		if !ok {
			out = append(out, PlayerState{ID: string(id), Name: "Unknown"})
			continue
		}
		out = append(out, PlayerState{
			ID:    string(p.ID),
			Name:  p.Name,
			X:     p.X,
			Y:     p.Y,
			Score: p.Score,
		})
	}
	return out
}

// broadcastRoomLocked sends an event to every member of a room,
// optionally skipping one id (the caller already got a direct reply).
// Fire-and-forget: a full send queue drops the frame.
func (g *Game) broadcastRoomLocked(r *Room, typ string, payload any, skip PlayerID) {
	b, err := encodeEvent(typ, payload)
	if err != nil {
		Log.Errorf("encode %s: %v", typ, err)
		return
	}
	for _, id := range r.members {
		if id == skip {
			continue
		}
		if p, ok := g.players[id]; ok && p.Conn != nil {
			if !p.Conn.Enqueue(b) {
				g.metrics.IncBroadcastDropped()
			}
		}
	}
}

// broadcastAllLocked sends an event to every connected client. Used
// for the global coin set.
func (g *Game) broadcastAllLocked(typ string, payload any) {
	b, err := encodeEvent(typ, payload)
	if err != nil {
		Log.Errorf("encode %s: %v", typ, err)
		return
	}
	for _, p := range g.players {
		if p.Conn != nil {
			if !p.Conn.Enqueue(b) {
				g.metrics.IncBroadcastDropped()
			}
		}
	}
}

// sendToLocked sends an event to a single player.
func (g *Game) sendToLocked(id PlayerID, typ string, payload any) {
	p, ok := g.players[id]
	if !ok || p.Conn == nil {
		return
	}
	b, err := encodeEvent(typ, payload)
	if err != nil {
		Log.Errorf("encode %s: %v", typ, err)
		return
	}
	if !p.Conn.Enqueue(b) {
		g.metrics.IncBroadcastDropped()
	}
}
