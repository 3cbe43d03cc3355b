package server

import (
	"encoding/json"
	"os"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	Log = zap.NewNop().Sugar()
	os.Exit(m.Run())
}

// fakeConn records everything enqueued so tests can inspect the
// outbound event stream.
type fakeConn struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (f *fakeConn) Enqueue(b []byte) bool {
	cp := make([]byte, len(b))
	copy(cp, b)
	f.mu.Lock()
	f.msgs = append(f.msgs, cp)
	f.mu.Unlock()
	return true
}

func (f *fakeConn) Close() {}

func (f *fakeConn) events(t *testing.T) []Envelope {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Envelope, 0, len(f.msgs))
	for _, b := range f.msgs {
		var env Envelope
		if err := json.Unmarshal(b, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		out = append(out, env)
	}
	return out
}

func (f *fakeConn) count(t *testing.T, typ string) int {
	t.Helper()
	n := 0
	for _, env := range f.events(t) {
		if env.Type == typ {
			n++
		}
	}
	return n
}

func newTestGame() *Game {
	return NewGame(DefaultConfig())
}

func connectAndJoin(t *testing.T, g *Game, room, name string) (*Player, *fakeConn) {
	t.Helper()
	fc := &fakeConn{}
	p := g.Connect(fc)
	g.Join(p.ID, room, name)
	return p, fc
}

func score(t *testing.T, g *Game, room string, id PlayerID) int {
	t.Helper()
	for _, ps := range g.Roster(room) {
		if ps.ID == string(id) {
			return ps.Score
		}
	}
	t.Fatalf("player %s not in roster of %s", id, room)
	return 0
}

func TestJoinBuildsRosterInJoinOrder(t *testing.T) {
	g := newTestGame()

	a, fcA := connectAndJoin(t, g, "r1", "Alice")
	roster := g.Roster("r1")
	if len(roster) != 1 || roster[0].ID != string(a.ID) || roster[0].Name != "Alice" {
		t.Fatalf("roster after first join = %+v", roster)
	}

	b, _ := connectAndJoin(t, g, "r1", "Bob")
	roster = g.Roster("r1")
	if len(roster) != 2 {
		t.Fatalf("roster size after second join = %d, want 2", len(roster))
	}
	if roster[0].ID != string(a.ID) || roster[1].ID != string(b.ID) {
		t.Fatalf("roster not in join order: %+v", roster)
	}

	// A was already in the room, so B's join reaches A as players-update.
	if fcA.count(t, EvtPlayersUpdate) == 0 {
		t.Fatalf("expected players-update on first player's connection")
	}
}

func TestJoinWithMissingFieldsIsNoOp(t *testing.T) {
	g := newTestGame()
	fc := &fakeConn{}
	p := g.Connect(fc)

	g.Join(p.ID, "", "Alice")
	g.Join(p.ID, "r1", "")

	if got := g.Roster("r1"); got != nil {
		t.Fatalf("expected no room, got roster %+v", got)
	}
	if n := len(fc.events(t)); n != 0 {
		t.Fatalf("expected silence, got %d events", n)
	}
}

func TestJoinFullRoomRejected(t *testing.T) {
	g := newTestGame()
	for i := 0; i < g.cfg.MaxPlayersPerRoom; i++ {
		connectAndJoin(t, g, "r1", "P")
	}

	late, fc := connectAndJoin(t, g, "r1", "Late")
	if n := fc.count(t, EvtJoinError); n != 1 {
		t.Fatalf("join-error count = %d, want 1", n)
	}
	if fc.count(t, EvtJoined) != 0 {
		t.Fatalf("rejected player must not receive joined")
	}
	roster := g.Roster("r1")
	if len(roster) != g.cfg.MaxPlayersPerRoom {
		t.Fatalf("roster size = %d, want %d", len(roster), g.cfg.MaxPlayersPerRoom)
	}
	for _, ps := range roster {
		if ps.ID == string(late.ID) {
			t.Fatalf("rejected player made it into the roster")
		}
	}
}

func TestCollectIncrementsScoreAndReplacesCoin(t *testing.T) {
	g := newTestGame()
	a, _ := connectAndJoin(t, g, "r1", "Alice")

	coins := g.Coins()
	if len(coins) != g.cfg.InitialCoinCount {
		t.Fatalf("initial coins = %d, want %d", len(coins), g.cfg.InitialCoinCount)
	}
	taken := coins[0].ID

	g.Collect(a.ID, taken)

	if got := score(t, g, "r1", a.ID); got != 1 {
		t.Fatalf("score after collect = %d, want 1", got)
	}
	after := g.Coins()
	if len(after) != g.cfg.InitialCoinCount {
		t.Fatalf("coins after collect = %d, want %d", len(after), g.cfg.InitialCoinCount)
	}
	for _, c := range after {
		if c.ID == taken {
			t.Fatalf("collected coin %s still present", taken)
		}
	}

	// Second claim on the same id is an idempotent no-op.
	g.Collect(a.ID, taken)
	if got := score(t, g, "r1", a.ID); got != 1 {
		t.Fatalf("score after duplicate collect = %d, want 1", got)
	}
}

func TestConcurrentCollectExactlyOneWinner(t *testing.T) {
	g := newTestGame()
	a, _ := connectAndJoin(t, g, "r1", "Alice")
	b, _ := connectAndJoin(t, g, "r1", "Bob")

	target := g.Coins()[0].ID

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); g.Collect(a.ID, target) }()
	go func() { defer wg.Done(); g.Collect(b.ID, target) }()
	wg.Wait()

	total := score(t, g, "r1", a.ID) + score(t, g, "r1", b.ID)
	if total != 1 {
		t.Fatalf("combined score = %d, want exactly 1", total)
	}
	if len(g.Coins()) != g.cfg.InitialCoinCount {
		t.Fatalf("coin count = %d, want %d", len(g.Coins()), g.cfg.InitialCoinCount)
	}
}

func TestWinSequence(t *testing.T) {
	g := newTestGame()
	a, fcA := connectAndJoin(t, g, "r1", "Alice")
	_, fcB := connectAndJoin(t, g, "r1", "Bob")

	for i := 0; i < g.cfg.WinningScore; i++ {
		g.Collect(a.ID, g.Coins()[0].ID)
	}

	for _, fc := range []*fakeConn{fcA, fcB} {
		if n := fc.count(t, EvtGameOver); n != 1 {
			t.Fatalf("game-over count = %d, want 1", n)
		}
		if n := fc.count(t, EvtGameReset); n != 1 {
			t.Fatalf("game-reset count = %d, want 1", n)
		}
	}

	var over gameOverPayload
	for _, env := range fcB.events(t) {
		if env.Type == EvtGameOver {
			if err := json.Unmarshal(env.Data, &over); err != nil {
				t.Fatalf("decode game-over: %v", err)
			}
		}
	}
	if over.Winner != "Alice" || over.WinnerID != string(a.ID) {
		t.Fatalf("game-over payload = %+v", over)
	}

	cfg := g.ConfigSnapshot()
	for _, ps := range g.Roster("r1") {
		if ps.Score != 0 {
			t.Fatalf("score after win = %d for %s, want 0", ps.Score, ps.Name)
		}
		if ps.X < cfg.PlayerRadius || ps.X > cfg.MapWidth-cfg.PlayerRadius ||
			ps.Y < cfg.PlayerRadius || ps.Y > cfg.MapHeight-cfg.PlayerRadius {
			t.Fatalf("position after win out of bounds: %+v", ps)
		}
	}
	if len(g.Coins()) != cfg.InitialCoinCount {
		t.Fatalf("coins after win = %d, want %d", len(g.Coins()), cfg.InitialCoinCount)
	}
}

func TestExplicitResetByAnyMember(t *testing.T) {
	g := newTestGame()
	a, _ := connectAndJoin(t, g, "r1", "Alice")
	b, fcB := connectAndJoin(t, g, "r1", "Bob")

	for i := 0; i < 3; i++ {
		g.Collect(a.ID, g.Coins()[0].ID)
	}
	if got := score(t, g, "r1", a.ID); got != 3 {
		t.Fatalf("setup score = %d, want 3", got)
	}

	g.Reset(b.ID)

	if got := score(t, g, "r1", a.ID); got != 0 {
		t.Fatalf("score after reset = %d, want 0", got)
	}
	if fcB.count(t, EvtGameOver) != 0 {
		t.Fatalf("explicit reset must not broadcast game-over")
	}
	if fcB.count(t, EvtGameReset) != 1 {
		t.Fatalf("expected one game-reset")
	}
	if len(g.Coins()) != g.cfg.InitialCoinCount {
		t.Fatalf("coins after reset = %d, want %d", len(g.Coins()), g.cfg.InitialCoinCount)
	}
}

func TestLeaveKeepsRegistryEntry(t *testing.T) {
	g := newTestGame()
	a, fcA := connectAndJoin(t, g, "r1", "Alice")
	g.Collect(a.ID, g.Coins()[0].ID)
	connectAndJoin(t, g, "r1", "Bob")

	g.Leave(a.ID, "r1")

	roster := g.Roster("r1")
	if len(roster) != 1 || roster[0].Name != "Bob" {
		t.Fatalf("roster after leave = %+v", roster)
	}
	if fcA.count(t, EvtLeft) != 1 {
		t.Fatalf("leaver did not receive left")
	}

	// Leaving keeps the registry entry and the score; rejoin works.
	g.Join(a.ID, "r1", "Alice")
	if got := score(t, g, "r1", a.ID); got != 1 {
		t.Fatalf("score after rejoin = %d, want 1", got)
	}
}

func TestDisconnectRemovesRegistryEntry(t *testing.T) {
	g := newTestGame()
	a, _ := connectAndJoin(t, g, "r1", "Alice")
	_, fcB := connectAndJoin(t, g, "r1", "Bob")

	g.Disconnect(a.ID)

	roster := g.Roster("r1")
	if len(roster) != 1 {
		t.Fatalf("roster after disconnect = %+v", roster)
	}
	if fcB.count(t, EvtPlayersUpdate) == 0 {
		t.Fatalf("remaining member did not receive roster update")
	}

	// Gone from the registry: a rejoin attempt is a no-op.
	g.Join(a.ID, "r1", "Alice")
	if len(g.Roster("r1")) != 1 {
		t.Fatalf("disconnected player must not rejoin")
	}
}

func TestVerifyCollectRejectsOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VerifyCollect = true
	g := NewGame(cfg)
	a, _ := connectAndJoin(t, g, "r1", "Alice")

	target := g.Coins()[0]
	setPos(g, a.ID, target.X, target.Y)
	g.Collect(a.ID, target.ID)
	if got := score(t, g, "r1", a.ID); got != 1 {
		t.Fatalf("in-range collect rejected, score = %d", got)
	}

	far := g.Coins()[0]
	fx, fy := far.X+200, far.Y
	if fx > cfg.MapWidth-cfg.PlayerRadius {
		fx = far.X - 200
	}
	setPos(g, a.ID, fx, fy)
	g.Collect(a.ID, far.ID)
	if got := score(t, g, "r1", a.ID); got != 1 {
		t.Fatalf("out-of-range collect honored, score = %d", got)
	}
}
