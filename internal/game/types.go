// Package game defines the client-side view of the Veldt simulation:
// player, unit, and attack snapshots plus the per-tick update batches the
// overlays consume. The package holds no simulation logic of its own; the
// authoritative state lives behind the View interface.
package game

// PlayerID is the compact per-game identifier for a player, distinct from
// the stable ClientID. The zero value doubles as the "no player" sentinel:
// an attack with TargetID == NoPlayer has no target, and an emoji with
// RecipientID == NoPlayer is a broadcast.
type PlayerID uint16

const NoPlayer PlayerID = 0

// ClientID is the stable external identifier a player keeps across games.
type ClientID string

type PlayerType string

const (
	PlayerTypeHuman     PlayerType = "human"
	PlayerTypeBot       PlayerType = "bot"
	PlayerTypeFakeHuman PlayerType = "fakehuman"
)

// Player is a snapshot of a player as seen by the client. Fields are
// maintained by the simulation; overlays treat them as read-only.
type Player struct {
	SmallID  PlayerID
	ClientID ClientID
	Name     string
	Type     PlayerType
	Alive    bool
	Traitor  bool

	Allies map[PlayerID]bool
}

// AlliedWith reports whether the player currently has an alliance with other.
func (p *Player) AlliedWith(other PlayerID) bool {
	if p == nil || p.Allies == nil {
		return false
	}
	return p.Allies[other]
}

func (p *Player) IsBot() bool {
	return p != nil && p.Type == PlayerTypeBot
}

type AttackID uint32

// Attack is a read-only projection of an in-flight attack. TargetID may be
// NoPlayer for attacks into unclaimed territory.
type Attack struct {
	ID         AttackID
	AttackerID PlayerID
	TargetID   PlayerID
	Troops     int
}

type UnitID uint32

type UnitKind string

const (
	UnitTransportShip UnitKind = "transport"
	UnitWarship       UnitKind = "warship"
	UnitCity          UnitKind = "city"
)

// Unit is a read-only projection of a unit owned by a player.
type Unit struct {
	ID      UnitID
	OwnerID PlayerID
	Kind    UnitKind
	Troops  int
}

// MessageCategory tags a display message for styling.
type MessageCategory string

const (
	CategoryInfo      MessageCategory = "info"
	CategorySuccess   MessageCategory = "success"
	CategoryWarn      MessageCategory = "warn"
	CategoryError     MessageCategory = "error"
	CategoryChat      MessageCategory = "chat"
	CategoryDiplomacy MessageCategory = "diplomacy"
	CategoryAttack    MessageCategory = "attack"
)
