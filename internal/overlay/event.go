// Package overlay implements the client's two reactive overlays: the
// alliance overlay (pending requests, diplomatic notices, ally roster) and
// the generic events overlay (capped notification list plus live attack
// and transport projections). Both consume the per-tick update batch from
// the game view and publish user intents on the intent bus.
package overlay

import "github.com/veldtgame/veldt/internal/game"

// DisplayEvent is one transient notification. Duration is normalized at
// creation, so CreatedAt+Duration is always the exact expiry tick.
type DisplayEvent struct {
	Description string
	Rich        bool // content is pre-sanitized rich text
	Buttons     []Button
	Category    game.MessageCategory
	CreatedAt   int64
	Duration    int64
	Priority    int
	FocusID     game.PlayerID
	OnExpire    func() // invoked on tick-based expiry, never on dismissal
}

// Button is an action attached to a DisplayEvent. When CloseOnClick is set,
// pressing the button also removes the event (without running OnExpire).
type Button struct {
	Label        string
	CloseOnClick bool
	Action       func()
}

// AllianceRequest is a pending inbound alliance request with its three
// explicit actions. Unanswered requests auto-expire as an implicit
// rejection.
type AllianceRequest struct {
	RequestorID game.PlayerID
	RecipientID game.PlayerID
	Requestor   *game.Player
	CreatedAt   int64

	OnFocus  func()
	OnAccept func()
	OnReject func()
}

// AllyEntry is one row of the ally roster. The roster is rebuilt wholesale
// on a cadence, never mutated in place.
type AllyEntry struct {
	Name   string
	Player *game.Player
}
