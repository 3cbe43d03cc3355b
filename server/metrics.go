package server

import "sync/atomic"

// Metrics holds runtime counters for monitoring and debugging. All
// fields are updated atomically so readers never take the Game lock.
type Metrics struct {
	TickCount         int64 // simulation ticks run
	TotalTickNs       int64 // cumulative tick duration in nanoseconds
	InputsHandled     int64 // movement/pointer events applied
	CoinsCollected    int64 // successful collects
	StaleCollects     int64 // collects for missing or out-of-range coins
	JoinsRejected     int64 // joins refused on a full room
	Resets            int64 // win or explicit reset sequences run
	BroadcastsDropped int64 // frames dropped on a full client queue
}

func (m *Metrics) IncInput()            { atomic.AddInt64(&m.InputsHandled, 1) }
func (m *Metrics) IncCoinCollected()    { atomic.AddInt64(&m.CoinsCollected, 1) }
func (m *Metrics) IncStaleCollect()     { atomic.AddInt64(&m.StaleCollects, 1) }
func (m *Metrics) IncJoinRejected()     { atomic.AddInt64(&m.JoinsRejected, 1) }
func (m *Metrics) IncReset()            { atomic.AddInt64(&m.Resets, 1) }
func (m *Metrics) IncBroadcastDropped() { atomic.AddInt64(&m.BroadcastsDropped, 1) }

func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot returns a read-only copy for the HTTP endpoint.
func (m *Metrics) Snapshot() map[string]any {
	ticks := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return map[string]any{
		"tick_count":         ticks,
		"avg_tick_ms":        avgMs,
		"inputs_handled":     atomic.LoadInt64(&m.InputsHandled),
		"coins_collected":    atomic.LoadInt64(&m.CoinsCollected),
		"stale_collects":     atomic.LoadInt64(&m.StaleCollects),
		"joins_rejected":     atomic.LoadInt64(&m.JoinsRejected),
		"resets":             atomic.LoadInt64(&m.Resets),
		"broadcasts_dropped": atomic.LoadInt64(&m.BroadcastsDropped),
	}
}
