package server

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every gameplay constant. Defaults match the original
// tuning; each value can be overridden through the environment
// (optionally via a .env file) before the server starts, and a subset
// can be hot-updated at runtime through /admin/config.
type Config struct {
	MapWidth     float64 // world width in units
	MapHeight    float64 // world height in units
	PlayerRadius float64 // half of the sprite size; positions are clamped to [radius, dim-radius]
	Speed        float64 // movement per tick, both for held keys and pointer steering

	MaxPlayersPerRoom int // joins beyond this are rejected with join-error
	WinningScore      int // score that triggers the game-over + reset sequence
	InitialCoinCount  int // coins present after any (re)spawn cycle

	TickInterval time.Duration // simulation period; 50ms = 20 TPS

	// VerifyCollect makes the server recompute the player-to-coin
	// distance before honoring a collect event. Off by default: the
	// stock client asserts proximity itself.
	VerifyCollect bool
}

func DefaultConfig() Config {
	return Config{
		MapWidth:          760,
		MapHeight:         512,
		PlayerRadius:      12,
		Speed:             20,
		MaxPlayersPerRoom: 4,
		WinningScore:      50,
		InitialCoinCount:  5,
		TickInterval:      50 * time.Millisecond,
		VerifyCollect:     false,
	}
}

// LoadConfig reads overrides from the environment. A missing .env file
// is not an error.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	envFloat("COINDASH_MAP_WIDTH", &cfg.MapWidth)
	envFloat("COINDASH_MAP_HEIGHT", &cfg.MapHeight)
	envFloat("COINDASH_PLAYER_RADIUS", &cfg.PlayerRadius)
	envFloat("COINDASH_SPEED", &cfg.Speed)
	envInt("COINDASH_MAX_PLAYERS", &cfg.MaxPlayersPerRoom)
	envInt("COINDASH_WINNING_SCORE", &cfg.WinningScore)
	envInt("COINDASH_COIN_COUNT", &cfg.InitialCoinCount)
	envDuration("COINDASH_TICK_INTERVAL", &cfg.TickInterval)
	envBool("COINDASH_VERIFY_COLLECT", &cfg.VerifyCollect)
	return cfg
}

func envFloat(key string, dst *float64) {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*dst = v
		}
	}
}

func envInt(key string, dst *int) {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			*dst = v
		}
	}
}

func envBool(key string, dst *bool) {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			*dst = v
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if s := os.Getenv(key); s != "" {
		if v, err := time.ParseDuration(s); err == nil && v > 0 {
			*dst = v
		}
	}
}
