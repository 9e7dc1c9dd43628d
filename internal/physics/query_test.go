package physics

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

func overlapWorld(t *testing.T) *World {
	t.Helper()
	w := newWorld(t, 0, 200)
	f := w.Factory()
	f.DefaultBody(100, 100)
	f.DefaultBody(200, 200).SetCircle(50)
	f.DefaultStaticBody(100, 100)
	f.DefaultStaticBody(200, 200).SetCircle(50)
	return w
}

func TestQuery_OverlapCounts(t *testing.T) {
	w := overlapWorld(t)
	tests := []struct {
		name   string
		query  func() []Object
		expect int
	}{
		{"rect dynamic", func() []Object { return w.OverlapRect(50, 50, 200, 200, true, false) }, 2},
		{"rect dynamic and static", func() []Object { return w.OverlapRect(50, 50, 200, 200, true, true) }, 4},
		{"rect static", func() []Object { return w.OverlapRect(50, 50, 200, 200, false, true) }, 2},
		{"circle dynamic", func() []Object { return w.OverlapCirc(100, 100, 10, true, false) }, 1},
		{"circle dynamic and static", func() []Object { return w.OverlapCirc(100, 100, 10, true, true) }, 2},
		{"nothing requested", func() []Object { return w.OverlapRect(0, 0, 800, 600, false, false) }, 0},
		{"negative radius", func() []Object { return w.OverlapCirc(100, 100, -1, true, true) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.query()); got != tt.expect {
				t.Errorf("got %d bodies, want %d", got, tt.expect)
			}
		})
	}
}

func TestQuery_StaticsComeFirst(t *testing.T) {
	w := overlapWorld(t)
	got := w.OverlapRect(0, 0, 800, 600, true, true)
	if len(got) != 4 {
		t.Fatalf("got %d bodies, want 4", len(got))
	}
	for i, want := range []PhysicsType{TypeStatic, TypeStatic, TypeDynamic, TypeDynamic} {
		if got[i].Type() != want {
			t.Errorf("result %d is %v, want %v", i, got[i].Type(), want)
		}
	}
	if got[0].ID() > got[1].ID() || got[2].ID() > got[3].ID() {
		t.Error("results not in ID order")
	}
}

func TestQuery_DisabledBodiesAreSkipped(t *testing.T) {
	w := overlapWorld(t)
	for _, b := range w.Bodies() {
		b.SetEnable(false)
	}
	if got := w.OverlapRect(0, 0, 800, 600, true, false); len(got) != 0 {
		t.Errorf("got %d disabled bodies", len(got))
	}
}

// randomWorld fills a world with a reproducible mix of boxes and circles.
func randomWorld(t *testing.T, useTree bool, seed uint64) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.UseTree = useTree
	w, err := NewWorld(cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	r := rand.New(rand.NewPCG(seed, 7))
	f := w.Factory()
	for range 60 {
		x, y := r.Float64()*760, r.Float64()*560
		if r.IntN(4) == 0 {
			f.Circle(x, y, 4+r.Float64()*20).SetVelocity(r.Float64()*200-100, r.Float64()*200-100)
		} else {
			f.Body(x, y, 4+r.Float64()*40, 4+r.Float64()*40).SetVelocity(r.Float64()*200-100, r.Float64()*200-100)
		}
	}
	for range 20 {
		x, y := r.Float64()*760, r.Float64()*560
		if r.IntN(4) == 0 {
			f.StaticCircle(x, y, 4+r.Float64()*20)
		} else {
			f.StaticBody(x, y, 4+r.Float64()*40, 4+r.Float64()*40)
		}
	}
	return w
}

func bruteForce(w *World, dynamic, static bool, match func(*Body) bool) []ID {
	var ids []ID
	if static {
		for _, s := range w.StaticBodies() {
			if match(s.core()) {
				ids = append(ids, s.ID())
			}
		}
	}
	if dynamic {
		for _, b := range w.Bodies() {
			if match(b) {
				ids = append(ids, b.ID())
			}
		}
	}
	return ids
}

func objectIDs(objs []Object) []ID {
	ids := make([]ID, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.ID())
	}
	return ids
}

func TestQuery_MatchesBruteForce(t *testing.T) {
	for _, useTree := range []bool{true, false} {
		w := randomWorld(t, useTree, 42)
		for tick := range 10 {
			frame(w, tick)
		}
		r := rand.New(rand.NewPCG(3, 9))
		for i := range 200 {
			x, y := r.Float64()*800, r.Float64()*600
			width, height := r.Float64()*150, r.Float64()*150
			radius := r.Float64() * 80
			dynamic, static := r.IntN(2) == 0, r.IntN(2) == 0

			rect := Rect{X: x, Y: y, Width: width, Height: height}
			want := bruteForce(w, dynamic, static, func(b *Body) bool { return intersectsRect(b, rect) })
			if got := objectIDs(w.OverlapRect(x, y, width, height, dynamic, static)); !slices.Equal(got, want) {
				t.Fatalf("tree=%v query %d: OverlapRect = %v, want %v", useTree, i, got, want)
			}

			want = bruteForce(w, dynamic, static, func(b *Body) bool { return circleOverlaps(b, x, y, radius) })
			if got := objectIDs(w.OverlapCirc(x, y, radius, dynamic, static)); !slices.Equal(got, want) {
				t.Fatalf("tree=%v query %d: OverlapCirc = %v, want %v", useTree, i, got, want)
			}
		}
	}
}

func TestQuery_FindsBodiesAddedSinceLastStep(t *testing.T) {
	w := newWorld(t, 0, 0)
	w.Factory().DefaultBody(0, 0)
	frame(w, 0)
	late := w.Factory().DefaultBody(300, 300)

	got := w.OverlapRect(290, 290, 20, 20, true, false)
	if len(got) != 1 || got[0] != late {
		t.Errorf("got %v, want the body added after the step", objectIDs(got))
	}
}

func TestQuery_FindsBodiesMovedByHand(t *testing.T) {
	w := newWorld(t, 0, 0)
	b := w.Factory().Body(100, 100, 10, 10)
	frame(w, 0)
	b.Position = Vec(500, 500)

	if got := w.OverlapRect(495, 495, 20, 20, true, false); len(got) != 1 || got[0] != b {
		t.Errorf("at the new position got %v, want the moved body", objectIDs(got))
	}
	if got := w.OverlapRect(95, 95, 20, 20, true, false); len(got) != 0 {
		t.Errorf("at the old position got %v, want nothing", objectIDs(got))
	}
	if got := w.OverlapCirc(505, 505, 2, true, false); len(got) != 1 {
		t.Errorf("circle at the new position got %v", objectIDs(got))
	}
}

func closestWorld(t *testing.T) *World {
	t.Helper()
	w := newWorld(t, 0, 200)
	for _, p := range [][4]float64{
		{100, 150, -50, 100},
		{500, 200, -100, -100},
		{300, 400, 60, 100},
		{600, 300, -30, -50},
	} {
		b := w.Factory().DefaultBody(p[0], p[1])
		b.SetBounce(1, 1).SetCollideWorldBounds(true, nil, false)
		b.SetVelocity(p[2], p[3])
	}
	w.Step(0)
	return w
}

func roundedXY(obj Object) [2]float64 {
	b := obj.core()
	return [2]float64{math.Round(b.X()), math.Round(b.Y())}
}

func TestQuery_ClosestAndFurthest(t *testing.T) {
	w := closestWorld(t)
	pointer := Vec(445, 312)

	if got := roundedXY(w.Closest(pointer)); got != [2]float64{500, 200} {
		t.Errorf("closest = %v, want (500, 200)", got)
	}
	if got := roundedXY(w.Furthest(pointer)); got != [2]float64{100, 150} {
		t.Errorf("furthest = %v, want (100, 150)", got)
	}

	w.Update(1000, frameMS)

	if got := roundedXY(w.Closest(pointer)); got != [2]float64{498, 198} {
		t.Errorf("closest after update = %v, want (498, 198)", got)
	}
	if got := roundedXY(w.Furthest(pointer)); got != [2]float64{99, 152} {
		t.Errorf("furthest after update = %v, want (99, 152)", got)
	}
}

func TestQuery_ClosestAmongTargets(t *testing.T) {
	w := closestWorld(t)
	bodies := w.Bodies()
	got := w.Closest(Vec(445, 312), bodies[0], bodies[2])
	if got != bodies[2] {
		t.Errorf("closest target = %v, want %v", got.ID(), bodies[2].ID())
	}

	a := w.Factory().DefaultBody(0, 0)
	b := w.Factory().DefaultBody(64, 0)
	if got := w.Closest(Vec(64, 32), b, a); got != a {
		t.Errorf("tie went to %v, want the lower ID %v", got.ID(), a.ID())
	}
}

func TestQuery_ClosestOfEmptyWorld(t *testing.T) {
	w := newWorld(t, 0, 0)
	if got := w.Closest(Vec(0, 0)); got != nil {
		t.Errorf("closest in an empty world = %v", got)
	}
	if got := w.Furthest(Vec(0, 0)); got != nil {
		t.Errorf("furthest in an empty world = %v", got)
	}
}

func TestQuery_ClosestBeforeFirstStep(t *testing.T) {
	w := newWorld(t, 0, 0)
	near := w.Factory().Body(100, 100, 10, 10)
	if got := w.Closest(Vec(0, 0)); got != near {
		t.Fatalf("closest = %v, want the unstepped body", got)
	}

	frame(w, 0)
	far := w.Factory().Body(400, 400, 10, 10)
	if got := w.Furthest(Vec(0, 0)); got != far {
		t.Errorf("furthest = %v, want the body added after the step", got)
	}
}

func TestMotion_MoveTo(t *testing.T) {
	w := newWorld(t, 0, 0)
	rect := w.Factory().DefaultBody(100, 100)

	angle := w.MoveTo(rect, 200, 200, 0, 1000)
	if !approx(angle, math.Pi/4, 1e-12) {
		t.Errorf("angle = %v, want pi/4", angle)
	}
	for tick := 1; tick <= 60; tick++ {
		frame(w, tick)
	}

	if got := roundedXY(rect); got != [2]float64{200, 200} {
		t.Errorf("position = %v, want (200, 200)", got)
	}
}

func TestMotion_MoveToFixedSpeed(t *testing.T) {
	w := newWorld(t, 0, 0)
	b := w.Factory().DefaultBody(0, 0)
	w.MoveTo(b, 300, 400, 50, 0)
	if !approx(b.Velocity[0], 30, 1e-9) || !approx(b.Velocity[1], 40, 1e-9) {
		t.Errorf("velocity = %v, want (30, 40)", b.Velocity)
	}
}

func TestMotion_AccelerateTo(t *testing.T) {
	w := newWorld(t, 0, 0)
	b := w.Factory().DefaultBody(0, 0)
	angle := w.AccelerateTo(b, 0, 100, 60, 500, 500)
	if !approx(angle, math.Pi/2, 1e-12) {
		t.Errorf("angle = %v, want pi/2", angle)
	}
	if !approx(b.Acceleration[0], 0, 1e-9) || !approx(b.Acceleration[1], 60, 1e-9) {
		t.Errorf("acceleration = %v, want (0, 60)", b.Acceleration)
	}
	if b.MaxVelocity != Vec(500, 500) {
		t.Errorf("max velocity = %v", b.MaxVelocity)
	}
}

func TestMotion_VelocityFromAngle(t *testing.T) {
	v := VelocityFromAngle(90, 10)
	if !approx(v[0], 0, 1e-9) || !approx(v[1], 10, 1e-9) {
		t.Errorf("VelocityFromAngle(90, 10) = %v", v)
	}
	v = VelocityFromRotation(math.Pi, 2)
	if !approx(v[0], -2, 1e-9) || !approx(v[1], 0, 1e-9) {
		t.Errorf("VelocityFromRotation(pi, 2) = %v", v)
	}
}
