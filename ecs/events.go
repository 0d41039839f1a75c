package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const EventCollision = "collision"

// CollisionEventKind identifies what a knight touched.
type CollisionEventKind string

const (
	CollisionEventGoal CollisionEventKind = "goal"
	CollisionEventCoin CollisionEventKind = "coin"
)

// CollisionEvent is emitted by the physics step when a knight overlaps a
// trigger volume.
type CollisionEvent struct {
	Entity Entity
	Other  Entity
	Kind   CollisionEventKind
}

// EventQueue is a simple FIFO queue that lives for one step.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Of returns the queued events of one type without consuming them.
func (q *EventQueue) Of(typ string) []Event {
	if q == nil {
		return nil
	}
	var out []Event
	for _, evt := range q.items {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

// Collisions returns the queued collision events of one kind.
func (q *EventQueue) Collisions(kind CollisionEventKind) []CollisionEvent {
	var out []CollisionEvent
	for _, evt := range q.Of(EventCollision) {
		if ce, ok := evt.Data.(CollisionEvent); ok && ce.Kind == kind {
			out = append(out, ce)
		}
	}
	return out
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
