package intent

// Handler receives a published intent.
type Handler func(Intent)

// Bus is a queued publish/subscribe channel for intents. Publish only
// appends; delivery happens when the tick driver calls Drain, so button
// callbacks never re-enter the simulation mid-render. The bus is
// single-threaded by contract: Publish, Subscribe and Drain all run on the
// UI loop.
type Bus struct {
	handlers map[Kind][]Handler
	queue    []Intent
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers a handler for one intent kind.
func (b *Bus) Subscribe(k Kind, h Handler) {
	b.handlers[k] = append(b.handlers[k], h)
}

// Publish queues an intent for the next Drain.
func (b *Bus) Publish(i Intent) {
	b.queue = append(b.queue, i)
}

// Drain delivers all queued intents in publish order and clears the queue.
// Intents published while draining are delivered in the same pass.
func (b *Bus) Drain() {
	for len(b.queue) > 0 {
		pending := b.queue
		b.queue = nil
		for _, i := range pending {
			for _, h := range b.handlers[i.Kind()] {
				h(i)
			}
		}
	}
}

// Pending returns the number of queued intents.
func (b *Bus) Pending() int {
	return len(b.queue)
}
