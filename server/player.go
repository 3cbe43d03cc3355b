package server

// PlayerID is the opaque per-connection identity, stable for the
// connection's lifetime.
type PlayerID string

// Player is the authoritative server-side entity for one connection.
// It is owned by the Game; everything here mutates under the Game lock.
type Player struct {
	ID     PlayerID
	Name   string
	X, Y   float64
	GameID string // room identifier; empty means not in any room
	Score  int

	Held DirectionSet // movement keys currently held

	// Pointer-drag steering state. Target is only meaningful while
	// HasTarget is set; it is cleared on arrival or mouse-up.
	Dragging         bool
	HasTarget        bool
	TargetX, TargetY float64

	Conn Conn // send side of the connection; nil in some tests
}

// PlayerState is the public roster projection broadcast to clients.
type PlayerState struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score int     `json:"score"`
}
