package server

import "testing"

func TestRandomPosStaysInBounds(t *testing.T) {
	cfg := DefaultConfig()
	for i := 0; i < 1000; i++ {
		x, y := randomPos(&cfg)
		if x < cfg.PlayerRadius || x > cfg.MapWidth-cfg.PlayerRadius {
			t.Fatalf("x = %v outside [%v, %v]", x, cfg.PlayerRadius, cfg.MapWidth-cfg.PlayerRadius)
		}
		if y < cfg.PlayerRadius || y > cfg.MapHeight-cfg.PlayerRadius {
			t.Fatalf("y = %v outside [%v, %v]", y, cfg.PlayerRadius, cfg.MapHeight-cfg.PlayerRadius)
		}
	}
}

func TestClampToMap(t *testing.T) {
	cfg := DefaultConfig()

	x, y := clampToMap(&cfg, -50, -50)
	if x != cfg.PlayerRadius || y != cfg.PlayerRadius {
		t.Fatalf("low clamp = (%v,%v)", x, y)
	}

	x, y = clampToMap(&cfg, cfg.MapWidth+50, cfg.MapHeight+50)
	if x != cfg.MapWidth-cfg.PlayerRadius || y != cfg.MapHeight-cfg.PlayerRadius {
		t.Fatalf("high clamp = (%v,%v)", x, y)
	}

	x, y = clampToMap(&cfg, 100, 100)
	if x != 100 || y != 100 {
		t.Fatalf("in-bounds point moved: (%v,%v)", x, y)
	}
}
