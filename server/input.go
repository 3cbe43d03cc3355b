package server

// Direction is one movement key. Values are bit flags so a player's
// held keys pack into a DirectionSet.
type Direction uint8

const (
	DirNone  Direction = 0
	DirUp    Direction = 1 << 0
	DirDown  Direction = 1 << 1
	DirLeft  Direction = 1 << 2
	DirRight Direction = 1 << 3
)

// ParseDirection maps the wire strings ("up", "down", "left", "right")
// to a Direction. Anything else is DirNone.
func ParseDirection(s string) Direction {
	switch s {
	case "up":
		return DirUp
	case "down":
		return DirDown
	case "left":
		return DirLeft
	case "right":
		return DirRight
	default:
		return DirNone
	}
}

// DirectionSet is the set of currently held movement keys.
// Add/Remove are idempotent: re-adding a held key or removing an
// absent one is a no-op.
type DirectionSet uint8

func (s *DirectionSet) Add(d Direction)    { *s |= DirectionSet(d) }
func (s *DirectionSet) Remove(d Direction) { *s &^= DirectionSet(d) }
func (s DirectionSet) Has(d Direction) bool {
	return d != DirNone && s&DirectionSet(d) != 0
}
func (s *DirectionSet) Clear() { *s = 0 }

// Inbound event payloads.
type joinPayload struct {
	GameID string `json:"gameId"`
	Name   string `json:"name"`
}

type leavePayload struct {
	GameID string `json:"gameId"`
}

type pointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type collectPayload struct {
	CoinID CoinID `json:"coinId"`
}
