package server

import (
	"encoding/json"
	"net/http"
)

// configPatch is the hot-updatable subset of Config. Pointer fields:
// absent keys leave the current value alone. The tick interval and map
// geometry are deliberately not here; changing them under live
// connections would need a restart anyway.
type configPatch struct {
	Speed             *float64 `json:"speed,omitempty"`
	MaxPlayersPerRoom *int     `json:"maxPlayersPerRoom,omitempty"`
	WinningScore      *int     `json:"winningScore,omitempty"`
	InitialCoinCount  *int     `json:"initialCoinCount,omitempty"`
	VerifyCollect     *bool    `json:"verifyCollect,omitempty"`
}

// HandleAdminConfig reads or hot-updates the game rules.
// GET  /admin/config         returns the live values
// POST /admin/config         applies a partial JSON patch
func (g *Game) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg := g.ConfigSnapshot()
		cur := configPatch{
			Speed:             &cfg.Speed,
			MaxPlayersPerRoom: &cfg.MaxPlayersPerRoom,
			WinningScore:      &cfg.WinningScore,
			InitialCoinCount:  &cfg.InitialCoinCount,
			VerifyCollect:     &cfg.VerifyCollect,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cur)
	case http.MethodPost:
		var patch configPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		g.applyConfigPatch(patch)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		cfg := g.ConfigSnapshot()
		Log.Infof("config updated: speed=%.1f cap=%d win=%d coins=%d verify=%v",
			cfg.Speed, cfg.MaxPlayersPerRoom, cfg.WinningScore, cfg.InitialCoinCount, cfg.VerifyCollect)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (g *Game) applyConfigPatch(patch configPatch) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if patch.Speed != nil && *patch.Speed > 0 {
		g.cfg.Speed = *patch.Speed
	}
	if patch.MaxPlayersPerRoom != nil && *patch.MaxPlayersPerRoom > 0 {
		g.cfg.MaxPlayersPerRoom = *patch.MaxPlayersPerRoom
	}
	if patch.WinningScore != nil && *patch.WinningScore > 0 {
		g.cfg.WinningScore = *patch.WinningScore
	}
	if patch.InitialCoinCount != nil && *patch.InitialCoinCount > 0 {
		// Takes effect at the next respawn cycle.
		g.cfg.InitialCoinCount = *patch.InitialCoinCount
	}
	if patch.VerifyCollect != nil {
		g.cfg.VerifyCollect = *patch.VerifyCollect
	}
}

// HandleMetrics reports runtime counters and world counts.
// GET /metrics
func (g *Game) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	players, rooms, coins := g.Stats()
	payload := map[string]any{
		"players": players,
		"rooms":   rooms,
		"coins":   coins,
		"metrics": g.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
