package intent

import (
	"testing"

	"github.com/veldtgame/veldt/internal/game"
)

func TestBus_DeliversInPublishOrder(t *testing.T) {
	bus := NewBus()

	var got []game.PlayerID
	bus.Subscribe(KindAllianceReply, func(i Intent) {
		got = append(got, i.(AllianceReply).RequestorID)
	})

	bus.Publish(AllianceReply{RequestorID: 5, RecipientID: 1, Accepted: true})
	bus.Publish(AllianceReply{RequestorID: 7, RecipientID: 1, Accepted: false})
	bus.Publish(AllianceReply{RequestorID: 2, RecipientID: 1, Accepted: true})

	if bus.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", bus.Pending())
	}

	bus.Drain()

	want := []game.PlayerID{5, 7, 2}
	if len(got) != len(want) {
		t.Fatalf("delivered %d intents, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got requestor %d, want %d", i, got[i], want[i])
		}
	}
	if bus.Pending() != 0 {
		t.Errorf("Pending() after drain = %d, want 0", bus.Pending())
	}
}

func TestBus_UnsubscribedKindIsDropped(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe(KindCancelAttack, func(Intent) { called = true })

	bus.Publish(GoToPlayer{Player: &game.Player{SmallID: 3}})
	bus.Drain()

	if called {
		t.Error("CancelAttack handler fired for GoToPlayer intent")
	}
}

func TestBus_PublishDuringDrain(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(KindAllianceReply, func(i Intent) {
		r := i.(AllianceReply)
		order = append(order, "reply")
		if r.Accepted {
			// A handler may publish follow-up intents; they are
			// delivered in the same drain pass.
			bus.Publish(CancelAttack{PlayerID: r.RecipientID, AttackID: 9})
		}
	})
	bus.Subscribe(KindCancelAttack, func(Intent) {
		order = append(order, "cancel")
	})

	bus.Publish(AllianceReply{RequestorID: 5, RecipientID: 1, Accepted: true})
	bus.Drain()

	if len(order) != 2 || order[0] != "reply" || order[1] != "cancel" {
		t.Errorf("delivery order = %v, want [reply cancel]", order)
	}
}

func TestBus_MultipleHandlers(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.Subscribe(KindGoToUnit, func(Intent) { count++ })
	bus.Subscribe(KindGoToUnit, func(Intent) { count++ })

	bus.Publish(GoToUnit{Unit: game.Unit{ID: 1, Kind: game.UnitTransportShip}})
	bus.Drain()

	if count != 2 {
		t.Errorf("handler invocations = %d, want 2", count)
	}
}
