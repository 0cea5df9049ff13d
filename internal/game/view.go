package game

// View is the overlays' window onto the simulation. Implementations must
// keep all methods consistent within a tick; the overlays never see a
// half-applied tick. None of the methods block.
type View interface {
	// Tick returns the current simulation tick, monotonic from 0.
	Tick() int64

	// InSpawnPhase reports whether the game is still in its initial
	// spawn phase.
	InSpawnPhase() bool

	// MyPlayer returns the local player, or nil before spawn.
	MyPlayer() *Player

	// Player looks up a player by small ID.
	Player(id PlayerID) (*Player, bool)

	// PlayerByClientID looks up a player by stable client ID.
	PlayerByClientID(id ClientID) (*Player, bool)

	// Players returns all players in the game, dead ones included.
	Players() []*Player

	// Updates returns the batch of state changes generated since the
	// previous tick. The batch is stable until the next tick.
	Updates() Batch

	// IncomingAttacks returns attacks currently targeting the player.
	IncomingAttacks(id PlayerID) []Attack

	// OutgoingAttacks returns attacks the player currently has in flight.
	OutgoingAttacks(id PlayerID) []Attack

	// Units returns the player's units of the given kind.
	Units(id PlayerID, kind UnitKind) []Unit
}
