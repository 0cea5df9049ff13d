// Package intent carries outbound user-intent events from the overlays to
// whatever drives the simulation. Intents are queued on publish and
// delivered in order when the driver drains the bus, once per tick.
package intent

import "github.com/veldtgame/veldt/internal/game"

type Kind int

const (
	KindAllianceReply Kind = iota
	KindCancelAttack
	KindGoToPlayer
	KindGoToUnit
)

// Intent is a single user-intent event.
type Intent interface {
	Kind() Kind
}

// AllianceReply answers an alliance request. Published on accept, reject,
// and on auto-expiry of an unanswered request (implicit rejection).
type AllianceReply struct {
	RequestorID game.PlayerID
	RecipientID game.PlayerID
	Accepted    bool
}

func (AllianceReply) Kind() Kind { return KindAllianceReply }

// CancelAttack retracts one of the player's outgoing attacks.
type CancelAttack struct {
	PlayerID game.PlayerID
	AttackID game.AttackID
}

func (CancelAttack) Kind() Kind { return KindCancelAttack }

// GoToPlayer recenters the view on a player.
type GoToPlayer struct {
	Player *game.Player
}

func (GoToPlayer) Kind() Kind { return KindGoToPlayer }

// GoToUnit recenters the view on a unit.
type GoToUnit struct {
	Unit game.Unit
}

func (GoToUnit) Kind() Kind { return KindGoToUnit }
