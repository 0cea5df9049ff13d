package overlay

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/veldtgame/veldt/internal/game"
	"github.com/veldtgame/veldt/internal/intent"
)

// AllianceOptions tunes the alliance overlay's durations and cadences, all
// in ticks.
type AllianceOptions struct {
	RequestTicks int64 // lifetime of an unanswered request
	AcceptTicks  int64 // display time of an "accepted" notice
	RejectTicks  int64 // display time of a "rejected" notice
	TargetTicks  int64 // display time of an attack-request notice
	NoticeTicks  int64 // default display time for everything else
	RosterEvery  int64 // ally roster rebuild cadence
	SweepEvery   int64 // notice expiry sweep cadence
}

func DefaultAllianceOptions() AllianceOptions {
	return AllianceOptions{
		RequestTicks: 150,
		AcceptTicks:  50,
		RejectTicks:  150,
		TargetTicks:  300,
		NoticeTicks:  150,
		RosterEvery:  10,
		SweepEvery:   30,
	}
}

// AllianceOverlay tracks pending alliance requests, dismissable diplomatic
// notices, and the ally roster. It stays hidden until the game leaves its
// spawn phase, then reveals itself exactly once.
type AllianceOverlay struct {
	view game.View
	bus  *intent.Bus
	opts AllianceOptions
	log  *zap.Logger

	dispatcher *Dispatcher
	requests   []*AllianceRequest
	notices    []*DisplayEvent
	allies     []AllyEntry
	visible    bool
}

func NewAllianceOverlay(view game.View, bus *intent.Bus, opts AllianceOptions, log *zap.Logger) *AllianceOverlay {
	if log == nil {
		log = zap.NewNop()
	}
	o := &AllianceOverlay{
		view:       view,
		bus:        bus,
		opts:       opts,
		log:        log,
		dispatcher: NewDispatcher(),
	}
	o.dispatcher.Register(game.KindAllianceRequest, o.onAllianceRequest)
	o.dispatcher.Register(game.KindAllianceRequestReply, o.onAllianceReply)
	o.dispatcher.Register(game.KindBrokeAlliance, o.onBrokeAlliance)
	o.dispatcher.Register(game.KindAllianceExpired, o.onAllianceExpired)
	o.dispatcher.Register(game.KindTargetPlayer, o.onTargetPlayer)
	return o
}

// Tick runs one simulation tick's worth of overlay bookkeeping: reveal
// check, update dispatch, request auto-expiry, roster rebuild and notice
// sweep on their cadences.
func (o *AllianceOverlay) Tick() {
	tick := o.view.Tick()

	if !o.visible && !o.view.InSpawnPhase() {
		o.visible = true
		o.rebuildRoster()
		o.log.Debug("alliance overlay revealed", zap.Int64("tick", tick))
	}

	o.dispatcher.Dispatch(o.view.Updates())

	o.expireRequests(tick)

	if tick%o.opts.RosterEvery == 0 {
		o.rebuildRoster()
	}
	if tick%o.opts.SweepEvery == 0 {
		o.sweepNotices(tick)
	}
}

// Visible reports whether the overlay has been revealed yet.
func (o *AllianceOverlay) Visible() bool { return o.visible }

// Requests returns the pending alliance requests in arrival order.
func (o *AllianceOverlay) Requests() []*AllianceRequest { return o.requests }

// Notices returns the transient diplomatic notices in arrival order.
func (o *AllianceOverlay) Notices() []*DisplayEvent { return o.notices }

// Allies returns the current ally roster.
func (o *AllianceOverlay) Allies() []AllyEntry { return o.allies }

// Dismiss removes one notice immediately without running its OnExpire.
func (o *AllianceOverlay) Dismiss(e *DisplayEvent) {
	for i, n := range o.notices {
		if n == e {
			o.notices = append(o.notices[:i], o.notices[i+1:]...)
			return
		}
	}
}

func (o *AllianceOverlay) onAllianceRequest(u game.Update) {
	req := u.(game.AllianceRequestUpdate)
	me := o.view.MyPlayer()
	if me == nil || req.RecipientID != me.SmallID {
		return
	}
	requestor, ok := o.view.Player(req.RequestorID)
	if !ok {
		return
	}

	r := &AllianceRequest{
		RequestorID: req.RequestorID,
		RecipientID: req.RecipientID,
		Requestor:   requestor,
		CreatedAt:   o.view.Tick(),
	}
	r.OnFocus = func() {
		o.bus.Publish(intent.GoToPlayer{Player: requestor})
	}
	r.OnAccept = func() {
		o.bus.Publish(intent.AllianceReply{
			RequestorID: req.RequestorID,
			RecipientID: req.RecipientID,
			Accepted:    true,
		})
		o.removeRequest(r)
	}
	r.OnReject = func() {
		o.bus.Publish(intent.AllianceReply{
			RequestorID: req.RequestorID,
			RecipientID: req.RecipientID,
			Accepted:    false,
		})
		o.removeRequest(r)
	}

	o.requests = append(o.requests, r)
	o.log.Debug("alliance request received",
		zap.Uint16("requestor", uint16(req.RequestorID)),
		zap.Int64("tick", r.CreatedAt))
}

func (o *AllianceOverlay) onAllianceReply(u game.Update) {
	reply := u.(game.AllianceRequestReplyUpdate)
	me := o.view.MyPlayer()
	if me == nil || reply.Request.RequestorID != me.SmallID {
		return
	}
	recipient, ok := o.view.Player(reply.Request.RecipientID)
	if !ok {
		return
	}

	if reply.Accepted {
		o.addNotice(&DisplayEvent{
			Description: fmt.Sprintf("%s accepted your alliance request", recipient.Name),
			Category:    game.CategorySuccess,
			Duration:    o.opts.AcceptTicks,
			FocusID:     recipient.SmallID,
		})
	} else {
		o.addNotice(&DisplayEvent{
			Description: fmt.Sprintf("%s rejected your alliance request", recipient.Name),
			Category:    game.CategoryError,
			Duration:    o.opts.RejectTicks,
			FocusID:     recipient.SmallID,
		})
	}
}

func (o *AllianceOverlay) onBrokeAlliance(u game.Update) {
	broke := u.(game.BrokeAllianceUpdate)
	me := o.view.MyPlayer()
	if me == nil {
		return
	}

	switch {
	case broke.TraitorID == me.SmallID:
		// Repeat offenders already carry the mark; no need to tell
		// them again.
		if me.Traitor {
			return
		}
		betrayed, ok := o.view.Player(broke.BetrayedID)
		if !ok {
			return
		}
		o.addNotice(&DisplayEvent{
			Description: fmt.Sprintf("You broke your alliance with %s. You are now a traitor", betrayed.Name),
			Category:    game.CategoryWarn,
		})

	case broke.BetrayedID == me.SmallID:
		traitor, ok := o.view.Player(broke.TraitorID)
		if !ok {
			return
		}
		o.addNotice(&DisplayEvent{
			Description: fmt.Sprintf("%s broke your alliance. You have been betrayed", traitor.Name),
			Category:    game.CategoryError,
			FocusID:     traitor.SmallID,
		})
	}
}

func (o *AllianceOverlay) onAllianceExpired(u game.Update) {
	exp := u.(game.AllianceExpiredUpdate)
	me := o.view.MyPlayer()
	if me == nil {
		return
	}

	var otherID game.PlayerID
	switch me.SmallID {
	case exp.Player1ID:
		otherID = exp.Player2ID
	case exp.Player2ID:
		otherID = exp.Player1ID
	default:
		return
	}

	other, ok := o.view.Player(otherID)
	if !ok {
		return
	}
	if !me.Alive || !other.Alive {
		return
	}

	o.addNotice(&DisplayEvent{
		Description: fmt.Sprintf("Your alliance with %s has expired", other.Name),
		Category:    game.CategoryWarn,
		FocusID:     other.SmallID,
	})
}

func (o *AllianceOverlay) onTargetPlayer(u game.Update) {
	tp := u.(game.TargetPlayerUpdate)
	me := o.view.MyPlayer()
	if me == nil || !me.AlliedWith(tp.PlayerID) {
		return
	}
	requester, ok := o.view.Player(tp.PlayerID)
	if !ok {
		return
	}
	target, ok := o.view.Player(tp.TargetID)
	if !ok {
		return
	}

	o.addNotice(&DisplayEvent{
		Description: fmt.Sprintf("%s requests an attack on %s", requester.Name, target.Name),
		Category:    game.CategoryDiplomacy,
		Duration:    o.opts.TargetTicks,
		FocusID:     target.SmallID,
		Buttons: []Button{{
			Label: "Go to",
			Action: func() {
				o.bus.Publish(intent.GoToPlayer{Player: target})
			},
		}},
	})
}

// addNotice stamps the creation tick and normalizes a zero duration to the
// overlay default before appending.
func (o *AllianceOverlay) addNotice(e *DisplayEvent) {
	e.CreatedAt = o.view.Tick()
	if e.Duration == 0 {
		e.Duration = o.opts.NoticeTicks
	}
	o.notices = append(o.notices, e)
}

// expireRequests drops requests past their lifetime. Expiry without manual
// action is an implicit rejection, so the reject intent is published too.
func (o *AllianceOverlay) expireRequests(tick int64) {
	kept := o.requests[:0]
	for _, r := range o.requests {
		if tick-r.CreatedAt >= o.opts.RequestTicks {
			o.bus.Publish(intent.AllianceReply{
				RequestorID: r.RequestorID,
				RecipientID: r.RecipientID,
				Accepted:    false,
			})
			o.log.Debug("alliance request expired unanswered",
				zap.Uint16("requestor", uint16(r.RequestorID)),
				zap.Int64("tick", tick))
			continue
		}
		kept = append(kept, r)
	}
	o.requests = kept
}

func (o *AllianceOverlay) sweepNotices(tick int64) {
	kept := o.notices[:0]
	for _, e := range o.notices {
		if tick-e.CreatedAt >= e.Duration {
			continue
		}
		kept = append(kept, e)
	}
	o.notices = kept
}

// rebuildRoster replaces the ally roster with a fresh membership snapshot.
func (o *AllianceOverlay) rebuildRoster() {
	me := o.view.MyPlayer()
	if me == nil {
		o.allies = nil
		return
	}
	allies := make([]AllyEntry, 0, len(o.allies))
	for _, p := range o.view.Players() {
		if p.SmallID == me.SmallID {
			continue
		}
		if me.AlliedWith(p.SmallID) {
			allies = append(allies, AllyEntry{Name: p.Name, Player: p})
		}
	}
	o.allies = allies
}

func (o *AllianceOverlay) removeRequest(r *AllianceRequest) {
	for i, cur := range o.requests {
		if cur == r {
			o.requests = append(o.requests[:i], o.requests[i+1:]...)
			return
		}
	}
}
