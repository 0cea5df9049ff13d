package overlay

import "github.com/veldtgame/veldt/internal/game"

// fakeView is a hand-rolled game.View for overlay tests. Tests mutate its
// fields directly between ticks.
type fakeView struct {
	tick       int64
	spawnPhase bool
	myID       game.PlayerID
	players    map[game.PlayerID]*game.Player
	batch      game.Batch
	incoming   []game.Attack
	outgoing   []game.Attack
	units      []game.Unit
}

func newFakeView(myID game.PlayerID, players ...*game.Player) *fakeView {
	v := &fakeView{
		myID:    myID,
		players: make(map[game.PlayerID]*game.Player),
	}
	for _, p := range players {
		v.players[p.SmallID] = p
	}
	return v
}

func (v *fakeView) Tick() int64        { return v.tick }
func (v *fakeView) InSpawnPhase() bool { return v.spawnPhase }

func (v *fakeView) MyPlayer() *game.Player {
	return v.players[v.myID]
}

func (v *fakeView) Player(id game.PlayerID) (*game.Player, bool) {
	p, ok := v.players[id]
	return p, ok
}

func (v *fakeView) PlayerByClientID(id game.ClientID) (*game.Player, bool) {
	for _, p := range v.players {
		if p.ClientID == id {
			return p, true
		}
	}
	return nil, false
}

func (v *fakeView) Players() []*game.Player {
	// Deterministic order: ascending small ID.
	var out []*game.Player
	for id := game.PlayerID(0); id < 64; id++ {
		if p, ok := v.players[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (v *fakeView) Updates() game.Batch { return v.batch }

func (v *fakeView) IncomingAttacks(id game.PlayerID) []game.Attack {
	if id != v.myID {
		return nil
	}
	return v.incoming
}

func (v *fakeView) OutgoingAttacks(id game.PlayerID) []game.Attack {
	if id != v.myID {
		return nil
	}
	return v.outgoing
}

func (v *fakeView) Units(id game.PlayerID, kind game.UnitKind) []game.Unit {
	var out []game.Unit
	for _, u := range v.units {
		if u.OwnerID == id && u.Kind == kind {
			out = append(out, u)
		}
	}
	return out
}

// push queues updates for the next dispatch.
func (v *fakeView) push(updates ...game.Update) {
	if v.batch == nil {
		v.batch = make(game.Batch)
	}
	for _, u := range updates {
		v.batch[u.Kind()] = append(v.batch[u.Kind()], u)
	}
}

// advance moves to the given tick with an empty batch.
func (v *fakeView) advance(tick int64) {
	v.tick = tick
	v.batch = nil
}

func testPlayer(id game.PlayerID, name string) *game.Player {
	return &game.Player{
		SmallID:  id,
		ClientID: game.ClientID(name),
		Name:     name,
		Type:     game.PlayerTypeHuman,
		Alive:    true,
		Allies:   make(map[game.PlayerID]bool),
	}
}

func ally(a, b *game.Player) {
	a.Allies[b.SmallID] = true
	b.Allies[a.SmallID] = true
}
