package overlay

import "github.com/veldtgame/veldt/internal/game"

// Handler processes one update instance of a registered kind.
type Handler func(game.Update)

// Dispatcher routes a tick's update batch to per-kind handlers. Kinds with
// no registered handler are ignored; per-kind arrival order is preserved;
// cross-kind order is unspecified.
type Dispatcher struct {
	handlers map[game.UpdateKind]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[game.UpdateKind]Handler)}
}

// Register installs the handler for a kind, replacing any previous one.
func (d *Dispatcher) Register(k game.UpdateKind, h Handler) {
	d.handlers[k] = h
}

// Dispatch invokes the registered handler once per update instance in the
// batch. A nil or empty batch is a no-op.
func (d *Dispatcher) Dispatch(b game.Batch) {
	for kind, updates := range b {
		h, ok := d.handlers[kind]
		if !ok {
			continue
		}
		for _, u := range updates {
			h(u)
		}
	}
}
