package server

import (
	"math"
	"time"
)

// StartTicker launches the single global simulation loop. One ticker
// serves every connected player; a tick that starts late just runs
// once, there is no catch-up.
func (g *Game) StartTicker() {
	g.mu.Lock()
	if g.tickerStarted {
		g.mu.Unlock()
		return
	}
	g.tickerStarted = true
	interval := g.cfg.TickInterval
	g.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-g.quit:
				return
			case <-ticker.C:
				start := time.Now()
				g.step()
				g.metrics.AddTick(time.Since(start).Nanoseconds())
			}
		}
	}()
}

// StopTicker halts the simulation loop.
func (g *Game) StopTicker() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tickerStarted {
		close(g.quit)
		g.tickerStarted = false
	}
}

// step advances the world by one tick: integrate every in-room
// player's position from their aggregated intent, clamp to the map,
// then publish each active room's roster. Broadcasts never block.
func (g *Game) step() {
	g.mu.Lock()
	defer g.mu.Unlock()

	active := make(map[string]*Room)
	for _, p := range g.players {
		if p.GameID == "" {
			continue
		}
		g.integrateLocked(p)
		if r, ok := g.rooms[p.GameID]; ok {
			active[r.ID] = r
		}
	}
	for _, r := range active {
		g.broadcastRoomLocked(r, EvtPlayersUpdate, g.rosterLocked(r), "")
	}
}

// integrateLocked applies one tick of movement to a player.
//
// Pointer steering moves up to Speed units toward the drag target,
// snapping onto it (and clearing it) on arrival. Keyboard movement
// adds ±Speed per held axis, normalized so a diagonal has the same
// magnitude as a single axis. The two sources are additive within a
// tick, which the stock client relies on.
func (g *Game) integrateLocked(p *Player) {
	speed := g.cfg.Speed

	if p.Dragging && p.HasTarget {
		diffX := p.TargetX - p.X
		diffY := p.TargetY - p.Y
		d := math.Hypot(diffX, diffY)
		if d > 0 {
			if d <= speed {
				p.X += diffX
				p.Y += diffY
				p.HasTarget = false // arrived
			} else {
				p.X += diffX / d * speed
				p.Y += diffY / d * speed
			}
		}
	}

	var dx, dy float64
	if p.Held.Has(DirUp) {
		dy -= speed
	}
	if p.Held.Has(DirDown) {
		dy += speed
	}
	if p.Held.Has(DirLeft) {
		dx -= speed
	}
	if p.Held.Has(DirRight) {
		dx += speed
	}
	if dx != 0 && dy != 0 {
		dx /= math.Sqrt2
		dy /= math.Sqrt2
	}

	p.X, p.Y = clampToMap(&g.cfg, p.X+dx, p.Y+dy)
}
