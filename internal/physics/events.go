package physics

// EventType identifies what an Event reports.
type EventType uint8

const (
	EventCollide EventType = iota + 1
	EventOverlap
	EventWorldBounds
	EventWorldStep
	EventPause
	EventResume
)

func (t EventType) String() string {
	switch t {
	case EventCollide:
		return "collide"
	case EventOverlap:
		return "overlap"
	case EventWorldBounds:
		return "worldbounds"
	case EventWorldStep:
		return "worldstep"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	}
	return "unknown"
}

// Event is queued by the world while stepping and handed to the host on drain.
//
//   - collide, overlap: Body1 and Body2 are the separated or overlapping pair.
//   - worldbounds: Body1 hit the bounds; Blocked holds the edges it hit.
//   - worldstep: Delta is the step length in seconds.
type Event struct {
	Type    EventType
	Body1   Object
	Body2   Object
	Blocked Directions
	Delta   float64
}

// eventQueue is a FIFO ring buffer. When full, the oldest event is overwritten.
type eventQueue struct {
	buf     []Event
	head    int
	size    int
	dropped uint64
}

func newEventQueue(limit int) eventQueue {
	return eventQueue{buf: make([]Event, limit)}
}

func (q *eventQueue) push(e Event) {
	n := len(q.buf)
	if q.size == n {
		q.buf[q.head] = e
		q.head = (q.head + 1) % n
		q.dropped++
		return
	}
	q.buf[(q.head+q.size)%n] = e
	q.size++
}

// pop removes the oldest event.
func (q *eventQueue) pop() (Event, bool) {
	if q.size == 0 {
		return Event{}, false
	}
	e := q.buf[q.head]
	q.buf[q.head] = Event{}
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return e, true
}

// EventFunc receives drained events.
type EventFunc func(Event)

// OnEvent registers fn to receive every event at drain time. Listeners run in
// registration order, before the callback passed to DrainEvents.
func (w *World) OnEvent(fn EventFunc) {
	if fn != nil {
		w.listeners = append(w.listeners, fn)
	}
}

// DrainEvents hands every queued event to the listeners and then to fn (which
// may be nil), oldest first, and empties the queue. Events emitted by fn
// itself are delivered in the same drain.
func (w *World) DrainEvents(fn EventFunc) {
	for {
		e, ok := w.events.pop()
		if !ok {
			return
		}
		for _, l := range w.listeners {
			l(e)
		}
		if fn != nil {
			fn(e)
		}
	}
}

// Events returns the queued events, oldest first, and empties the queue.
func (w *World) Events() []Event {
	out := make([]Event, 0, w.events.size)
	w.DrainEvents(func(e Event) { out = append(out, e) })
	return out
}

// PendingEvents returns the number of queued events.
func (w *World) PendingEvents() int {
	return w.events.size
}

// DroppedEvents returns how many events were overwritten because the queue was full.
func (w *World) DroppedEvents() uint64 {
	return w.events.dropped
}

func (w *World) emit(e Event) {
	w.events.push(e)
}
