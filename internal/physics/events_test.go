package physics

import (
	"slices"
	"testing"
)

func TestEvents_StepOrderAndDrain(t *testing.T) {
	w := newWorld(t, 0, 0)
	b := w.Factory().Body(0, 0, 20, 20)
	b.SetVelocity(-600, 0).SetCollideWorldBounds(true, nil, true)
	b.Position = Vec(5, 0)

	var seen []EventType
	w.OnEvent(func(e Event) { seen = append(seen, e.Type) })
	frame(w, 0)

	var drained []EventType
	w.DrainEvents(func(e Event) { drained = append(drained, e.Type) })

	want := []EventType{EventWorldBounds, EventWorldStep}
	if !slices.Equal(seen, want) || !slices.Equal(drained, want) {
		t.Errorf("listener saw %v, drain saw %v, want %v", seen, drained, want)
	}
	if w.PendingEvents() != 0 {
		t.Errorf("%d events left after drain", w.PendingEvents())
	}
}

func TestEvents_WorldBoundsCarriesEdges(t *testing.T) {
	w := newWorld(t, 0, 0)
	b := w.Factory().Body(5, 0, 20, 20)
	b.SetVelocity(-600, 0).SetCollideWorldBounds(true, nil, true)
	frame(w, 0)

	for _, e := range w.Events() {
		if e.Type != EventWorldBounds {
			continue
		}
		if e.Body1 != b || !e.Blocked.Left {
			t.Errorf("worldbounds event = %+v", e)
		}
		return
	}
	t.Error("no worldbounds event")
}

func TestEvents_QueueDropsOldest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EventLimit = 3
	w, err := NewWorld(cfg)
	if err != nil {
		t.Fatal(err)
	}
	w.Factory().DefaultBody(100, 100)
	for tick := range 5 {
		frame(w, tick)
	}

	if got := w.PendingEvents(); got != 3 {
		t.Errorf("pending = %d, want 3", got)
	}
	if got := w.DroppedEvents(); got != 2 {
		t.Errorf("dropped = %d, want 2", got)
	}
	events := w.Events()
	if len(events) != 3 || events[0].Type != EventWorldStep {
		t.Errorf("events = %v", events)
	}
}

func TestEvents_PauseAndResume(t *testing.T) {
	w := newWorld(t, 0, 0)
	w.Pause()
	w.Pause()
	w.Resume()

	var types []EventType
	for _, e := range w.Events() {
		types = append(types, e.Type)
	}
	if want := []EventType{EventPause, EventResume}; !slices.Equal(types, want) {
		t.Errorf("events = %v, want %v", types, want)
	}
}

func TestEventType_String(t *testing.T) {
	if EventCollide.String() != "collide" || EventType(0).String() != "unknown" {
		t.Error("EventType names")
	}
}
