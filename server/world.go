package server

import (
	"math"
	"math/rand"
)

// randomPos picks a uniform in-bounds point, keeping the full entity
// radius inside the map on both axes.
func randomPos(cfg *Config) (float64, float64) {
	x := cfg.PlayerRadius + rand.Float64()*(cfg.MapWidth-2*cfg.PlayerRadius)
	y := cfg.PlayerRadius + rand.Float64()*(cfg.MapHeight-2*cfg.PlayerRadius)
	return x, y
}

// clampToMap pins a point to [radius, dim-radius] on both axes.
func clampToMap(cfg *Config, x, y float64) (float64, float64) {
	x = clamp(x, cfg.PlayerRadius, cfg.MapWidth-cfg.PlayerRadius)
	y = clamp(y, cfg.PlayerRadius, cfg.MapHeight-cfg.PlayerRadius)
	return x, y
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
