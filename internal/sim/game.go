package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/veldtgame/veldt/internal/game"
	"github.com/veldtgame/veldt/internal/intent"
)

// Options tunes the simulation.
type Options struct {
	// AllianceLifeTicks is how long a formed alliance lasts before it
	// expires on its own.
	AllianceLifeTicks int64
}

func DefaultOptions() Options {
	return Options{AllianceLifeTicks: 300}
}

type alliance struct {
	a, b     game.PlayerID
	formedAt int64
}

// Game is the scripted simulation. It implements game.View. All methods
// run on the UI loop; nothing here is safe for concurrent use.
type Game struct {
	log  *zap.Logger
	opts Options

	tick       int64
	spawnTicks int64

	myID     game.PlayerID
	players  map[game.PlayerID]*game.Player
	byClient map[game.ClientID]*game.Player
	order    []game.PlayerID

	batch   game.Batch // the current tick's batch
	pending game.Batch // built while applying intents, promoted next tick

	attacks   []game.Attack
	units     []game.Unit
	alliances []alliance

	// Traitor flags are applied one tick after the break so the overlay
	// sees the pre-break flag alongside the break update.
	pendingTraitors []game.PlayerID

	script map[int64][]ScriptEntry

	nextAttackID game.AttackID
	nextUnitID   game.UnitID

	focus string // last go-to target, shown in the header
}

// New builds a simulation from a scenario and subscribes it to the intent
// bus.
func New(sc *Scenario, opts Options, bus *intent.Bus, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		log:          log,
		opts:         opts,
		spawnTicks:   sc.SpawnTicks,
		players:      make(map[game.PlayerID]*game.Player),
		byClient:     make(map[game.ClientID]*game.Player),
		script:       make(map[int64][]ScriptEntry),
		nextAttackID: 1,
		nextUnitID:   1,
	}

	for i, sp := range sc.Players {
		id := game.PlayerID(i + 1) // NoPlayer stays reserved
		ptype := game.PlayerType(sp.Type)
		if sp.Type == "" {
			ptype = game.PlayerTypeHuman
		}
		p := &game.Player{
			SmallID:  id,
			ClientID: game.ClientID(sp.ClientID),
			Name:     sp.Name,
			Type:     ptype,
			Alive:    true,
			Allies:   make(map[game.PlayerID]bool),
		}
		g.players[id] = p
		g.byClient[p.ClientID] = p
		g.order = append(g.order, id)
	}

	me, ok := g.byClient[game.ClientID(sc.MyPlayer)]
	if !ok {
		return nil, fmt.Errorf("local player %q not found", sc.MyPlayer)
	}
	g.myID = me.SmallID

	for _, e := range sc.Script {
		g.script[e.Tick] = append(g.script[e.Tick], e)
	}

	if bus != nil {
		bus.Subscribe(intent.KindAllianceReply, g.onAllianceReply)
		bus.Subscribe(intent.KindCancelAttack, g.onCancelAttack)
		bus.Subscribe(intent.KindGoToPlayer, g.onGoToPlayer)
		bus.Subscribe(intent.KindGoToUnit, g.onGoToUnit)
	}

	return g, nil
}

// Advance moves the simulation one tick and produces the update batch the
// overlays will read for that tick.
func (g *Game) Advance() {
	g.tick++

	for _, id := range g.pendingTraitors {
		if p, ok := g.players[id]; ok {
			p.Traitor = true
		}
	}
	g.pendingTraitors = nil

	// Intents applied since the last tick surface in this tick's batch.
	g.batch = g.pending
	g.pending = nil

	for _, e := range g.script[g.tick] {
		g.applyScript(e)
	}
	g.expireAlliances()
}

func (g *Game) applyScript(e ScriptEntry) {
	from := g.byClient[game.ClientID(e.From)]
	to := g.byClient[game.ClientID(e.To)]

	if e.Action != "message" && from == nil {
		g.log.Warn("script entry without actor", zap.String("action", e.Action), zap.Int64("tick", e.Tick))
		return
	}

	switch e.Action {
	case "alliance_request", "break_alliance", "target_player":
		if to == nil {
			g.log.Warn("script entry without target", zap.String("action", e.Action), zap.Int64("tick", e.Tick))
			return
		}
	}

	switch e.Action {
	case "alliance_request":
		g.emit(game.AllianceRequestUpdate{
			RequestorID: from.SmallID,
			RecipientID: to.SmallID,
		})

	case "break_alliance":
		if !from.AlliedWith(to.SmallID) {
			return
		}
		g.dropAlliance(from.SmallID, to.SmallID)
		g.emit(game.BrokeAllianceUpdate{TraitorID: from.SmallID, BetrayedID: to.SmallID})
		g.pendingTraitors = append(g.pendingTraitors, from.SmallID)
		g.log.Info("alliance broken",
			zap.String("traitor", string(from.ClientID)),
			zap.String("betrayed", string(to.ClientID)))

	case "target_player":
		g.emit(game.TargetPlayerUpdate{PlayerID: from.SmallID, TargetID: to.SmallID})

	case "message":
		target := game.NoPlayer
		if to != nil {
			target = to.SmallID
		}
		g.emit(game.DisplayMessageUpdate{
			Message:  e.Message,
			Category: game.MessageCategory(e.Category),
			PlayerID: target,
		})

	case "emoji":
		recipient := game.NoPlayer
		if to != nil {
			recipient = to.SmallID
		}
		g.emit(game.EmojiUpdate{
			SenderID:    from.SmallID,
			RecipientID: recipient,
			Message:     e.Message,
		})

	case "attack":
		target := game.NoPlayer
		if to != nil {
			target = to.SmallID
		}
		g.attacks = append(g.attacks, game.Attack{
			ID:         g.nextAttackID,
			AttackerID: from.SmallID,
			TargetID:   target,
			Troops:     e.Troops,
		})
		g.nextAttackID++

	case "retreat":
		target := game.NoPlayer
		if to != nil {
			target = to.SmallID
		}
		kept := g.attacks[:0]
		for _, a := range g.attacks {
			if a.AttackerID == from.SmallID && a.TargetID == target {
				continue
			}
			kept = append(kept, a)
		}
		g.attacks = kept

	case "boat":
		g.units = append(g.units, game.Unit{
			ID:      g.nextUnitID,
			OwnerID: from.SmallID,
			Kind:    game.UnitTransportShip,
			Troops:  e.Troops,
		})
		g.nextUnitID++

	case "kill":
		from.Alive = false
	}
}

// onAllianceReply forms or declines an alliance and queues the reply
// update for the next tick.
func (g *Game) onAllianceReply(i intent.Intent) {
	reply := i.(intent.AllianceReply)
	requestor, ok := g.players[reply.RequestorID]
	if !ok {
		return
	}
	recipient, ok := g.players[reply.RecipientID]
	if !ok {
		return
	}

	if reply.Accepted {
		requestor.Allies[recipient.SmallID] = true
		recipient.Allies[requestor.SmallID] = true
		g.alliances = append(g.alliances, alliance{
			a:        requestor.SmallID,
			b:        recipient.SmallID,
			formedAt: g.tick,
		})
		g.log.Info("alliance formed",
			zap.String("requestor", string(requestor.ClientID)),
			zap.String("recipient", string(recipient.ClientID)))
	}

	g.queue(game.AllianceRequestReplyUpdate{
		Request: game.AllianceRequestUpdate{
			RequestorID: reply.RequestorID,
			RecipientID: reply.RecipientID,
		},
		Accepted: reply.Accepted,
	})
}

func (g *Game) onCancelAttack(i intent.Intent) {
	cancel := i.(intent.CancelAttack)
	kept := g.attacks[:0]
	for _, a := range g.attacks {
		if a.ID == cancel.AttackID && a.AttackerID == cancel.PlayerID {
			continue
		}
		kept = append(kept, a)
	}
	g.attacks = kept
}

func (g *Game) onGoToPlayer(i intent.Intent) {
	p := i.(intent.GoToPlayer).Player
	if p != nil {
		g.focus = p.Name
	}
}

func (g *Game) onGoToUnit(i intent.Intent) {
	u := i.(intent.GoToUnit).Unit
	g.focus = fmt.Sprintf("%s #%d", u.Kind, u.ID)
}

// expireAlliances drops alliances past their lifetime and emits the
// expiry update for the current tick.
func (g *Game) expireAlliances() {
	kept := g.alliances[:0]
	for _, al := range g.alliances {
		if g.tick-al.formedAt >= g.opts.AllianceLifeTicks {
			g.unally(al.a, al.b)
			g.emit(game.AllianceExpiredUpdate{Player1ID: al.a, Player2ID: al.b})
			continue
		}
		kept = append(kept, al)
	}
	g.alliances = kept
}

func (g *Game) dropAlliance(a, b game.PlayerID) {
	g.unally(a, b)
	kept := g.alliances[:0]
	for _, al := range g.alliances {
		if (al.a == a && al.b == b) || (al.a == b && al.b == a) {
			continue
		}
		kept = append(kept, al)
	}
	g.alliances = kept
}

func (g *Game) unally(a, b game.PlayerID) {
	if p, ok := g.players[a]; ok {
		delete(p.Allies, b)
	}
	if p, ok := g.players[b]; ok {
		delete(p.Allies, a)
	}
}

// emit adds an update to the current tick's batch.
func (g *Game) emit(u game.Update) {
	if g.batch == nil {
		g.batch = make(game.Batch)
	}
	g.batch[u.Kind()] = append(g.batch[u.Kind()], u)
}

// queue adds an update to the next tick's batch. Used by intent handlers,
// which run after the overlays have already read the current batch.
func (g *Game) queue(u game.Update) {
	if g.pending == nil {
		g.pending = make(game.Batch)
	}
	g.pending[u.Kind()] = append(g.pending[u.Kind()], u)
}

// Focus returns the last go-to target, for the header line.
func (g *Game) Focus() string { return g.focus }

// game.View implementation.

func (g *Game) Tick() int64        { return g.tick }
func (g *Game) InSpawnPhase() bool { return g.tick < g.spawnTicks }

func (g *Game) MyPlayer() *game.Player { return g.players[g.myID] }

func (g *Game) Player(id game.PlayerID) (*game.Player, bool) {
	p, ok := g.players[id]
	return p, ok
}

func (g *Game) PlayerByClientID(id game.ClientID) (*game.Player, bool) {
	p, ok := g.byClient[id]
	return p, ok
}

func (g *Game) Players() []*game.Player {
	out := make([]*game.Player, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.players[id])
	}
	return out
}

func (g *Game) Updates() game.Batch { return g.batch }

func (g *Game) IncomingAttacks(id game.PlayerID) []game.Attack {
	var out []game.Attack
	for _, a := range g.attacks {
		if a.TargetID == id {
			out = append(out, a)
		}
	}
	return out
}

func (g *Game) OutgoingAttacks(id game.PlayerID) []game.Attack {
	var out []game.Attack
	for _, a := range g.attacks {
		if a.AttackerID == id {
			out = append(out, a)
		}
	}
	return out
}

func (g *Game) Units(id game.PlayerID, kind game.UnitKind) []game.Unit {
	var out []game.Unit
	for _, u := range g.units {
		if u.OwnerID == id && u.Kind == kind {
			out = append(out, u)
		}
	}
	return out
}
