package server

import "github.com/google/uuid"

// CoinID is a generated, globally unique coin identity.
type CoinID string

// Coin is a collectible placed at a random in-bounds point. Coins are
// global, not per-room: every connected client sees the same set.
type Coin struct {
	ID CoinID  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// coinSet holds the live coins. It has no lock of its own: all access
// is serialized under the Game lock.
type coinSet map[CoinID]*Coin

// spawn creates one coin at a random position and returns it.
func (cs coinSet) spawn(cfg *Config) *Coin {
	x, y := randomPos(cfg)
	c := &Coin{ID: CoinID("coin-" + uuid.NewString()[:8]), X: x, Y: y}
	cs[c.ID] = c
	return c
}

// take removes the coin if it still exists. Exactly one of two racing
// collectors sees true; the loser gets an idempotent false.
func (cs coinSet) take(id CoinID) (*Coin, bool) {
	c, ok := cs[id]
	if !ok {
		return nil, false
	}
	delete(cs, id)
	return c, true
}

// respawnAll discards every coin and creates count fresh ones.
func (cs coinSet) respawnAll(cfg *Config, count int) {
	for id := range cs {
		delete(cs, id)
	}
	for i := 0; i < count; i++ {
		cs.spawn(cfg)
	}
}

// list returns the coins as a slice for broadcasting.
func (cs coinSet) list() []Coin {
	out := make([]Coin, 0, len(cs))
	for _, c := range cs {
		out = append(out, *c)
	}
	return out
}
