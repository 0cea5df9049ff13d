package sim

import (
	"testing"

	"github.com/veldtgame/veldt/internal/game"
	"github.com/veldtgame/veldt/internal/intent"
)

func testScenario() *Scenario {
	return &Scenario{
		Name:       "test",
		SpawnTicks: 5,
		MyPlayer:   "me",
		Players: []ScenarioPlayer{
			{ClientID: "me", Name: "Me"},
			{ClientID: "foe", Name: "Foe"},
			{ClientID: "bot", Name: "Bot", Type: "bot"},
		},
	}
}

func newTestGame(t *testing.T, sc *Scenario, bus *intent.Bus) *Game {
	t.Helper()
	g, err := New(sc, DefaultOptions(), bus, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func advanceTo(g *Game, tick int64) {
	for g.Tick() < tick {
		g.Advance()
	}
}

func TestGame_SpawnPhaseAndPlayers(t *testing.T) {
	g := newTestGame(t, testScenario(), nil)

	if !g.InSpawnPhase() {
		t.Error("should start in spawn phase")
	}
	advanceTo(g, 5)
	if g.InSpawnPhase() {
		t.Error("spawn phase should end at tick 5")
	}

	if got := g.MyPlayer().Name; got != "Me" {
		t.Errorf("MyPlayer().Name = %q", got)
	}
	if len(g.Players()) != 3 {
		t.Errorf("Players() = %d, want 3", len(g.Players()))
	}
	p, ok := g.PlayerByClientID("bot")
	if !ok || !p.IsBot() {
		t.Errorf("bot lookup: ok=%v player=%+v", ok, p)
	}
	if _, ok := g.Player(game.NoPlayer); ok {
		t.Error("NoPlayer must not resolve to a player")
	}
}

func TestGame_ScriptEmitsBatchAtExactTick(t *testing.T) {
	sc := testScenario()
	sc.Script = []ScriptEntry{
		{Tick: 3, Action: "alliance_request", From: "foe", To: "me"},
	}
	g := newTestGame(t, sc, nil)

	advanceTo(g, 2)
	if len(g.Updates()) != 0 {
		t.Fatalf("batch at tick 2 = %v, want empty", g.Updates())
	}

	g.Advance()
	reqs := g.Updates()[game.KindAllianceRequest]
	if len(reqs) != 1 {
		t.Fatalf("requests at tick 3 = %d, want 1", len(reqs))
	}
	req := reqs[0].(game.AllianceRequestUpdate)
	foe, _ := g.PlayerByClientID("foe")
	if req.RequestorID != foe.SmallID {
		t.Errorf("RequestorID = %d, want %d", req.RequestorID, foe.SmallID)
	}

	// The batch is fresh each tick.
	g.Advance()
	if len(g.Updates()) != 0 {
		t.Errorf("batch at tick 4 = %v, want empty", g.Updates())
	}
}

func TestGame_AllianceReplyFormsAlliance(t *testing.T) {
	bus := intent.NewBus()
	g := newTestGame(t, testScenario(), bus)
	g.Advance()

	me := g.MyPlayer()
	foe, _ := g.PlayerByClientID("foe")

	bus.Publish(intent.AllianceReply{
		RequestorID: foe.SmallID,
		RecipientID: me.SmallID,
		Accepted:    true,
	})
	bus.Drain()

	if !me.AlliedWith(foe.SmallID) || !foe.AlliedWith(me.SmallID) {
		t.Fatal("accept should ally both players")
	}

	// The reply update surfaces on the next tick, not the current one.
	if len(g.Updates()[game.KindAllianceRequestReply]) != 0 {
		t.Error("reply update leaked into the current tick")
	}
	g.Advance()
	replies := g.Updates()[game.KindAllianceRequestReply]
	if len(replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(replies))
	}
	reply := replies[0].(game.AllianceRequestReplyUpdate)
	if !reply.Accepted || reply.Request.RequestorID != foe.SmallID {
		t.Errorf("reply = %+v", reply)
	}
}

func TestGame_AllianceReplyReject(t *testing.T) {
	bus := intent.NewBus()
	g := newTestGame(t, testScenario(), bus)
	g.Advance()

	me := g.MyPlayer()
	foe, _ := g.PlayerByClientID("foe")

	bus.Publish(intent.AllianceReply{
		RequestorID: foe.SmallID,
		RecipientID: me.SmallID,
		Accepted:    false,
	})
	bus.Drain()

	if me.AlliedWith(foe.SmallID) {
		t.Error("reject must not form an alliance")
	}
	g.Advance()
	replies := g.Updates()[game.KindAllianceRequestReply]
	if len(replies) != 1 || replies[0].(game.AllianceRequestReplyUpdate).Accepted {
		t.Errorf("replies = %+v", replies)
	}
}

func TestGame_AllianceExpiry(t *testing.T) {
	bus := intent.NewBus()
	sc := testScenario()
	g, err := New(sc, Options{AllianceLifeTicks: 10}, bus, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Advance() // tick 1

	me := g.MyPlayer()
	foe, _ := g.PlayerByClientID("foe")
	bus.Publish(intent.AllianceReply{RequestorID: foe.SmallID, RecipientID: me.SmallID, Accepted: true})
	bus.Drain()

	advanceTo(g, 10)
	if !me.AlliedWith(foe.SmallID) {
		t.Fatal("alliance expired early")
	}

	g.Advance() // tick 11, lifetime 10 reached
	if me.AlliedWith(foe.SmallID) {
		t.Error("alliance should have expired")
	}
	expired := g.Updates()[game.KindAllianceExpired]
	if len(expired) != 1 {
		t.Fatalf("expired updates = %d, want 1", len(expired))
	}
	e := expired[0].(game.AllianceExpiredUpdate)
	if e.Player1ID != foe.SmallID || e.Player2ID != me.SmallID {
		t.Errorf("expired = %+v", e)
	}
}

func TestGame_BreakAlliance(t *testing.T) {
	bus := intent.NewBus()
	sc := testScenario()
	sc.Script = []ScriptEntry{
		{Tick: 5, Action: "break_alliance", From: "foe", To: "me"},
	}
	g := newTestGame(t, sc, bus)
	g.Advance()

	me := g.MyPlayer()
	foe, _ := g.PlayerByClientID("foe")
	bus.Publish(intent.AllianceReply{RequestorID: foe.SmallID, RecipientID: me.SmallID, Accepted: true})
	bus.Drain()

	advanceTo(g, 5)
	broke := g.Updates()[game.KindBrokeAlliance]
	if len(broke) != 1 {
		t.Fatalf("broke updates = %d, want 1", len(broke))
	}
	b := broke[0].(game.BrokeAllianceUpdate)
	if b.TraitorID != foe.SmallID || b.BetrayedID != me.SmallID {
		t.Errorf("broke = %+v", b)
	}
	if me.AlliedWith(foe.SmallID) {
		t.Error("break should dissolve the alliance")
	}

	// The traitor flag lands one tick after the break update.
	if foe.Traitor {
		t.Error("traitor flag set in the same tick as the break")
	}
	g.Advance()
	if !foe.Traitor {
		t.Error("traitor flag missing on the next tick")
	}
}

func TestGame_BreakAllianceWithoutAllianceIsIgnored(t *testing.T) {
	sc := testScenario()
	sc.Script = []ScriptEntry{
		{Tick: 2, Action: "break_alliance", From: "foe", To: "me"},
	}
	g := newTestGame(t, sc, nil)
	advanceTo(g, 2)
	if len(g.Updates()[game.KindBrokeAlliance]) != 0 {
		t.Error("breaking a nonexistent alliance should emit nothing")
	}
}

func TestGame_AttacksAndIntents(t *testing.T) {
	bus := intent.NewBus()
	sc := testScenario()
	sc.Script = []ScriptEntry{
		{Tick: 1, Action: "attack", From: "foe", To: "me", Troops: 100},
		{Tick: 1, Action: "attack", From: "me", To: "foe", Troops: 80},
		{Tick: 1, Action: "attack", From: "me", Troops: 40}, // unclaimed
	}
	g := newTestGame(t, sc, bus)
	g.Advance()

	me := g.MyPlayer()
	if got := len(g.IncomingAttacks(me.SmallID)); got != 1 {
		t.Errorf("incoming = %d, want 1", got)
	}
	out := g.OutgoingAttacks(me.SmallID)
	if len(out) != 2 {
		t.Fatalf("outgoing = %d, want 2", len(out))
	}
	if out[1].TargetID != game.NoPlayer {
		t.Errorf("unclaimed attack target = %d, want NoPlayer", out[1].TargetID)
	}

	bus.Publish(intent.CancelAttack{PlayerID: me.SmallID, AttackID: out[0].ID})
	bus.Drain()
	if got := len(g.OutgoingAttacks(me.SmallID)); got != 1 {
		t.Errorf("outgoing after cancel = %d, want 1", got)
	}
}

func TestGame_RetreatRemovesAttack(t *testing.T) {
	sc := testScenario()
	sc.Script = []ScriptEntry{
		{Tick: 1, Action: "attack", From: "me", To: "foe", Troops: 80},
		{Tick: 4, Action: "retreat", From: "me", To: "foe"},
	}
	g := newTestGame(t, sc, nil)
	g.Advance()
	me := g.MyPlayer()
	if len(g.OutgoingAttacks(me.SmallID)) != 1 {
		t.Fatal("attack not launched")
	}
	advanceTo(g, 4)
	if len(g.OutgoingAttacks(me.SmallID)) != 0 {
		t.Error("retreat should remove the attack")
	}
}

func TestGame_BoatsAndKill(t *testing.T) {
	sc := testScenario()
	sc.Script = []ScriptEntry{
		{Tick: 1, Action: "boat", From: "me", Troops: 60},
		{Tick: 2, Action: "kill", From: "foe"},
	}
	g := newTestGame(t, sc, nil)
	advanceTo(g, 2)

	me := g.MyPlayer()
	boats := g.Units(me.SmallID, game.UnitTransportShip)
	if len(boats) != 1 || boats[0].Troops != 60 {
		t.Errorf("boats = %+v", boats)
	}
	if len(g.Units(me.SmallID, game.UnitWarship)) != 0 {
		t.Error("kind filter leaked other units")
	}

	foe, _ := g.PlayerByClientID("foe")
	if foe.Alive {
		t.Error("kill should mark the player dead")
	}
}

func TestGame_GoToSetsFocus(t *testing.T) {
	bus := intent.NewBus()
	g := newTestGame(t, testScenario(), bus)

	foe, _ := g.PlayerByClientID("foe")
	bus.Publish(intent.GoToPlayer{Player: foe})
	bus.Drain()
	if g.Focus() != "Foe" {
		t.Errorf("focus = %q, want %q", g.Focus(), "Foe")
	}

	bus.Publish(intent.GoToUnit{Unit: game.Unit{ID: 9, Kind: game.UnitTransportShip}})
	bus.Drain()
	if g.Focus() != "transport #9" {
		t.Errorf("focus = %q", g.Focus())
	}
}
