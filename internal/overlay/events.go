package overlay

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/veldtgame/veldt/internal/game"
	"github.com/veldtgame/veldt/internal/intent"
)

// EventsOptions tunes the generic events overlay.
type EventsOptions struct {
	DefaultTicks int64 // default notification lifetime
	MaxEvents    int   // hard cap on the notification list
}

func DefaultEventsOptions() EventsOptions {
	return EventsOptions{
		DefaultTicks: 600,
		MaxEvents:    30,
	}
}

// AttackEntry is one row of the live attack projections. Cancel is set
// only on outgoing attacks.
type AttackEntry struct {
	Attack game.Attack
	Name   string // the other party's name
	Cancel func()
}

// BoatEntry is one row of the transport-boat projection.
type BoatEntry struct {
	Unit  game.Unit
	Focus func()
}

// EventsOverlay keeps a single flat, capped, time-expiring notification
// list plus three projections recomputed from the live view every tick.
// The projections are display-only and carry no expiry.
type EventsOverlay struct {
	view game.View
	bus  *intent.Bus
	opts EventsOptions
	log  *zap.Logger

	dispatcher *Dispatcher
	events     []*DisplayEvent

	incoming []AttackEntry
	outgoing []AttackEntry
	boats    []BoatEntry
}

func NewEventsOverlay(view game.View, bus *intent.Bus, opts EventsOptions, log *zap.Logger) *EventsOverlay {
	if log == nil {
		log = zap.NewNop()
	}
	o := &EventsOverlay{
		view:       view,
		bus:        bus,
		opts:       opts,
		log:        log,
		dispatcher: NewDispatcher(),
	}
	o.dispatcher.Register(game.KindDisplayMessage, o.onDisplayMessage)
	o.dispatcher.Register(game.KindEmoji, o.onEmoji)
	return o
}

// Tick dispatches the current update batch, expires and caps the
// notification list, and recomputes the live projections.
func (o *EventsOverlay) Tick() {
	o.dispatcher.Dispatch(o.view.Updates())
	o.sweep(o.view.Tick())
	o.refreshProjections()
}

// Sorted returns the notifications ordered by descending priority, ties
// broken by ascending creation tick. The sort is stable and the returned
// slice is a copy.
func (o *EventsOverlay) Sorted() []*DisplayEvent {
	sorted := make([]*DisplayEvent, len(o.events))
	copy(sorted, o.events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].CreatedAt < sorted[j].CreatedAt
	})
	return sorted
}

// Len returns the number of active notifications.
func (o *EventsOverlay) Len() int { return len(o.events) }

// Incoming returns the current incoming-attack projection.
func (o *EventsOverlay) Incoming() []AttackEntry { return o.incoming }

// Outgoing returns the current outgoing-attack projection.
func (o *EventsOverlay) Outgoing() []AttackEntry { return o.outgoing }

// Boats returns the current transport-boat projection.
func (o *EventsOverlay) Boats() []BoatEntry { return o.boats }

// Dismiss removes exactly one notification immediately. Dismissal is
// distinct from expiry: OnExpire is not invoked.
func (o *EventsOverlay) Dismiss(e *DisplayEvent) {
	for i, cur := range o.events {
		if cur == e {
			o.events = append(o.events[:i], o.events[i+1:]...)
			return
		}
	}
}

// ClickButton runs the event's button action and dismisses the event when
// the button carries close-on-click semantics.
func (o *EventsOverlay) ClickButton(e *DisplayEvent, idx int) {
	if idx < 0 || idx >= len(e.Buttons) {
		return
	}
	b := e.Buttons[idx]
	if b.Action != nil {
		b.Action()
	}
	if b.CloseOnClick {
		o.Dismiss(e)
	}
}

func (o *EventsOverlay) onDisplayMessage(u game.Update) {
	msg := u.(game.DisplayMessageUpdate)
	if msg.PlayerID != game.NoPlayer {
		me := o.view.MyPlayer()
		if me == nil || msg.PlayerID != me.SmallID {
			return
		}
	}

	category := msg.Category
	if category == "" {
		category = game.CategoryInfo
	}
	o.add(&DisplayEvent{
		Description: msg.Message,
		Rich:        true,
		Category:    category,
		Priority:    priorityFor(category),
	})
}

func (o *EventsOverlay) onEmoji(u game.Update) {
	emoji := u.(game.EmojiUpdate)
	me := o.view.MyPlayer()
	if me == nil {
		return
	}

	switch {
	case emoji.RecipientID == me.SmallID:
		sender, ok := o.view.Player(emoji.SenderID)
		if !ok {
			return
		}
		o.add(&DisplayEvent{
			Description: fmt.Sprintf("%s: %s", sender.Name, emoji.Message),
			Category:    game.CategoryChat,
			FocusID:     sender.SmallID,
		})

	case emoji.SenderID == me.SmallID && emoji.RecipientID != game.NoPlayer:
		recipient, ok := o.view.Player(emoji.RecipientID)
		if !ok {
			return
		}
		o.add(&DisplayEvent{
			Description: fmt.Sprintf("Sent to %s: %s", recipient.Name, emoji.Message),
			Category:    game.CategoryChat,
			FocusID:     recipient.SmallID,
		})
	}
	// Broadcast sent by the local player produces nothing.
}

// add stamps the creation tick and normalizes a zero duration to the
// overlay default before appending.
func (o *EventsOverlay) add(e *DisplayEvent) {
	e.CreatedAt = o.view.Tick()
	if e.Duration == 0 {
		e.Duration = o.opts.DefaultTicks
	}
	o.events = append(o.events, e)
}

// sweep evicts expired notifications, invoking OnExpire as each goes, and
// truncates the list to the most recent MaxEvents entries.
func (o *EventsOverlay) sweep(tick int64) {
	kept := o.events[:0]
	for _, e := range o.events {
		if tick-e.CreatedAt >= e.Duration {
			if e.OnExpire != nil {
				e.OnExpire()
			}
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > o.opts.MaxEvents {
		kept = kept[len(kept)-o.opts.MaxEvents:]
	}
	o.events = kept
}

// refreshProjections recomputes the attack and boat lists straight from
// the authoritative view. Nothing here is accumulated across ticks.
func (o *EventsOverlay) refreshProjections() {
	me := o.view.MyPlayer()
	if me == nil {
		o.incoming = nil
		o.outgoing = nil
		o.boats = nil
		return
	}
	myID := me.SmallID

	var incoming []AttackEntry
	for _, a := range o.view.IncomingAttacks(myID) {
		attacker, ok := o.view.Player(a.AttackerID)
		if !ok || attacker.IsBot() {
			continue
		}
		incoming = append(incoming, AttackEntry{Attack: a, Name: attacker.Name})
	}
	o.incoming = incoming

	var outgoing []AttackEntry
	for _, a := range o.view.OutgoingAttacks(myID) {
		if a.TargetID == game.NoPlayer {
			continue
		}
		target, ok := o.view.Player(a.TargetID)
		if !ok {
			continue
		}
		attack := a
		outgoing = append(outgoing, AttackEntry{
			Attack: attack,
			Name:   target.Name,
			Cancel: func() {
				o.bus.Publish(intent.CancelAttack{PlayerID: myID, AttackID: attack.ID})
			},
		})
	}
	o.outgoing = outgoing

	var boats []BoatEntry
	for _, u := range o.view.Units(myID, game.UnitTransportShip) {
		unit := u
		boats = append(boats, BoatEntry{
			Unit: unit,
			Focus: func() {
				o.bus.Publish(intent.GoToUnit{Unit: unit})
			},
		})
	}
	o.boats = boats
}

// priorityFor maps a category to a sort priority. Unmapped categories get
// the default (lowest) priority.
func priorityFor(c game.MessageCategory) int {
	switch c {
	case game.CategoryError:
		return 2
	case game.CategoryWarn, game.CategoryAttack:
		return 1
	default:
		return 0
	}
}
