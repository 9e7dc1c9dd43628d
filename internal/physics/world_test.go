package physics

import (
	"errors"
	"math"
	"testing"
)

func TestNewWorld_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"nan gravity", func(c *Config) { c.Gravity = Vec(math.NaN(), 0) }, ErrInvalidGravity},
		{"infinite gravity", func(c *Config) { c.Gravity = Vec(0, math.Inf(1)) }, ErrInvalidGravity},
		{"zero width", func(c *Config) { c.Width = 0 }, ErrInvalidBounds},
		{"negative height", func(c *Config) { c.Height = -10 }, ErrInvalidBounds},
		{"zero fps", func(c *Config) { c.FPS = 0 }, ErrInvalidFPS},
		{"zero time scale", func(c *Config) { c.TimeScale = 0 }, ErrInvalidTimeScale},
		{"negative bias", func(c *Config) { c.OverlapBias = -1 }, ErrInvalidBias},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			w, err := NewWorld(cfg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if w != nil {
				t.Error("world returned with an error")
			}
		})
	}
}

func TestNewWorld_Defaults(t *testing.T) {
	w := newWorld(t, 0, 200)
	if w.Bounds() != (Rect{Width: 800, Height: 600}) {
		t.Errorf("bounds = %+v", w.Bounds())
	}
	if w.OverlapBias() != DefaultOverlapBias || w.FPS() != DefaultFPS || !w.UseTree() {
		t.Errorf("bias %v fps %v tree %v", w.OverlapBias(), w.FPS(), w.UseTree())
	}
	if w.Gravity() != Vec(0, 200) {
		t.Errorf("gravity = %v", w.Gravity())
	}
}

func TestWorld_FixedStepAccumulator(t *testing.T) {
	w := newWorld(t, 0, 0)
	b := w.Factory().DefaultBody(0, 0)
	b.SetVelocity(60, 0)

	w.Update(0, frameMS/2)
	if w.StepsLastFrame() != 0 || b.X() != 0 {
		t.Fatalf("half frame stepped: steps %d x %v", w.StepsLastFrame(), b.X())
	}
	w.Update(0, frameMS/2)
	if w.StepsLastFrame() != 1 {
		t.Fatalf("steps = %d, want 1", w.StepsLastFrame())
	}
	w.PostUpdate()

	w.Update(0, 3*frameMS+1)
	w.PostUpdate()
	if w.StepsLastFrame() != 3 {
		t.Fatalf("steps = %d, want 3", w.StepsLastFrame())
	}
	if !approx(b.X(), 4, 1e-9) {
		t.Errorf("x = %v, want 4 after four steps", b.X())
	}
	if !approx(b.DeltaX(), 1, 1e-9) {
		t.Errorf("step delta = %v, want 1", b.DeltaX())
	}
	if !approx(b.DeltaXFinal(), 3, 1e-9) {
		t.Errorf("frame delta = %v, want 3 over three steps", b.DeltaXFinal())
	}
}

func TestWorld_TimeScale(t *testing.T) {
	w := newWorld(t, 0, 0)
	w.SetTimeScale(2)
	b := w.Factory().DefaultBody(0, 0)
	b.SetVelocity(60, 0)

	frame(w, 0)
	if w.StepsLastFrame() != 0 {
		t.Fatalf("stepped on the first frame at half speed")
	}
	frame(w, 1)
	if w.StepsLastFrame() != 1 || !approx(b.X(), 1, 1e-9) {
		t.Errorf("steps %d x %v, want one step of 1px", w.StepsLastFrame(), b.X())
	}
}

func TestWorld_VariableStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FixedStep = false
	w, err := NewWorld(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b := w.Factory().DefaultBody(0, 0)
	b.SetVelocity(100, 0)

	w.Update(0, 250)
	w.PostUpdate()
	if w.StepsLastFrame() != 1 || !approx(b.X(), 25, 1e-9) {
		t.Errorf("steps %d x %v, want one step of 25px", w.StepsLastFrame(), b.X())
	}
}

func TestWorld_PauseResume(t *testing.T) {
	w := newWorld(t, 0, 200)
	b := w.Factory().DefaultBody(0, 0)

	w.Pause()
	w.Pause()
	for tick := range 5 {
		frame(w, tick)
	}
	if b.Y() != 0 {
		t.Errorf("paused world moved body to y %v", b.Y())
	}
	w.Resume()
	frame(w, 5)
	if b.Y() <= 0 {
		t.Error("resumed world did not step")
	}

	var types []EventType
	for _, e := range w.Events() {
		types = append(types, e.Type)
	}
	want := []EventType{EventPause, EventResume, EventWorldStep}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestWorld_RemoveIsDeferred(t *testing.T) {
	w := newWorld(t, 0, 0)
	a := w.Factory().Body(0, 0, 10, 10)
	b := w.Factory().Body(5, 0, 10, 10)
	c := w.Factory().Body(8, 0, 10, 10)
	a.SetVelocity(10, 0)

	calls := 0
	w.AddOverlap(a, NewGroup(b, c), func(_, other Object) {
		calls++
		w.Remove(c)
		if len(w.Bodies()) != 3 {
			t.Errorf("registry changed during the collider pass")
		}
	}, nil)

	frame(w, 0)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 since c was disabled by the first callback", calls)
	}
	if len(w.Bodies()) != 2 {
		t.Errorf("bodies = %d after PostUpdate, want 2", len(w.Bodies()))
	}
	if _, ok := w.Lookup(c.ID()); ok {
		t.Error("removed body still registered")
	}

	w.Add(c)
	if !c.Enable || len(w.Bodies()) != 3 {
		t.Error("removed body could not be added back")
	}
}

func TestWorld_AddDuringStepIsDeferred(t *testing.T) {
	w := newWorld(t, 0, 0)
	a := w.Factory().Body(0, 0, 10, 10)
	b := w.Factory().Body(5, 0, 10, 10)
	a.SetVelocity(10, 0)

	var spawned *Body
	w.AddOverlap(a, b, func(_, _ Object) {
		if spawned != nil {
			return
		}
		spawned = NewBody(w, 200, 200, 10, 10)
		w.Add(spawned)
		if _, ok := w.Lookup(spawned.ID()); ok {
			t.Error("body registered in the middle of a step")
		}
	}, nil)

	frame(w, 0)
	if spawned == nil {
		t.Fatal("overlap callback not called")
	}
	if _, ok := w.Lookup(spawned.ID()); !ok {
		t.Error("body added during the step missing after it")
	}
}

func TestWorld_Determinism(t *testing.T) {
	run := func() []Vector {
		w := newWorld(t, 0, 300)
		f := w.Factory()
		var bodies []*Body
		for i := range 8 {
			b := f.Body(float64(50+i*80), float64(40+i*30), 30, 30)
			b.SetVelocity(float64(i*17-60), float64(i*9)).SetBounce(0.6, 0.6)
			b.SetCollideWorldBounds(true, nil, false)
			if i%3 == 0 {
				b.SetCircle(15)
			}
			bodies = append(bodies, b)
		}
		g := NewGroup()
		for _, b := range bodies {
			g.Add(b)
		}
		floor := f.StaticBody(0, 500, 800, 20)
		w.AddCollider(g, g, nil, nil)
		w.AddCollider(g, floor, nil, nil)
		for tick := range 240 {
			frame(w, tick)
		}
		var out []Vector
		for _, b := range bodies {
			out = append(out, b.Position, b.Velocity)
		}
		return out
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("value %d differs between runs: %v != %v", i, first[i], second[i])
		}
	}
}

func TestWorld_Wrap(t *testing.T) {
	w := newWorld(t, 0, 0)
	b := w.Factory().Body(810, -20, 10, 10)
	s := w.Factory().StaticBody(-5, 100, 10, 10)

	w.Wrap(NewGroup(b, s), 0)

	if !approx(b.X(), 10, 1e-9) || !approx(b.Y(), 580, 1e-9) {
		t.Errorf("body wrapped to %v", b.Position)
	}
	if !approx(s.X(), 795, 1e-9) {
		t.Errorf("static wrapped to %v", s.Position())
	}
	if box, _ := w.staticTree.Box(s.ID()); box.X != s.X() {
		t.Error("static index not updated by wrap")
	}
}

func TestWorld_SetBoundsCollision(t *testing.T) {
	w := newWorld(t, 0, 0)
	w.SetBounds(0, 0, 100, 100, true, false, true, true)
	b := w.Factory().Body(85, 10, 10, 10)
	b.SetVelocity(600, 0)
	b.SetCollideWorldBounds(true, nil, false)

	frame(w, 0)
	if b.Right() <= 100 {
		t.Errorf("right edge unchecked but body held at %v", b.Right())
	}

	custom := Rect{X: 0, Y: 0, Width: 50, Height: 50}
	c := w.Factory().Body(45, 10, 10, 10)
	c.SetVelocity(60, 0)
	c.SetCollideWorldBounds(true, nil, false)
	c.SetBoundsRectangle(&custom)
	w.SetBoundsCollision(true, true, true, true)
	frame(w, 1)
	if c.Right() != 50 {
		t.Errorf("custom bounds right = %v, want 50", c.Right())
	}
}
