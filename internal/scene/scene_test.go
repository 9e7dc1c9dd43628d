package scene

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/tomz197/arcade/internal/physics"
)

const simpleScene = `
name: simple
world:
  gravity: {x: 0, y: 200}
  width: 400
  height: 300
player: hero
bodies:
  - name: hero
    group: actors
    x: 20
    y: 20
    width: 4
    height: 8
    velocity: {x: 5, y: 0}
  - group: actors
    x: 100
    y: 20
    radius: 10
    pushable: false
statics:
  - name: floor
    x: 20
    y: 40
    width: 10
    height: 10
colliders:
  - name: land
    a: actors
    b: floor
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(simpleScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "simple" || len(s.Bodies) != 2 || len(s.Statics) != 1 || len(s.Colliders) != 1 {
		t.Fatalf("unexpected scene %+v", s)
	}
	if s.World.Gravity != (XY{0, 200}) || s.Bodies[0].Velocity != (XY{5, 0}) {
		t.Errorf("vectors decoded as %+v, %+v", s.World.Gravity, s.Bodies[0].Velocity)
	}
	if p := s.Bodies[1].Pushable; p == nil || *p {
		t.Errorf("pushable = %v, want explicit false", p)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"no shape", "bodies:\n  - name: a\n    x: 1\n", ErrInvalidShape},
		{"static no shape", "statics:\n  - width: 10\n", ErrInvalidShape},
		{"duplicate", "bodies:\n  - {name: a, radius: 1}\nstatics:\n  - {name: a, radius: 1}\n", ErrDuplicateName},
		{"unknown collider side", "bodies:\n  - {name: a, radius: 1}\ncolliders:\n  - {a: a, b: nowhere}\n", ErrUnknownTarget},
		{"unknown player", "player: ghost\n", ErrUnknownTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Parse([]byte("bodies: [")); err == nil {
		t.Error("malformed yaml parsed")
	}
}

func TestBuild(t *testing.T) {
	s, err := Parse([]byte(simpleScene))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	w := b.World
	if w.Bounds() != (physics.Rect{Width: 400, Height: 300}) {
		t.Errorf("bounds = %+v", w.Bounds())
	}
	if len(w.Bodies()) != 2 || len(w.StaticBodies()) != 1 || len(w.Colliders()) != 1 {
		t.Fatalf("world has %d bodies, %d statics, %d colliders", len(w.Bodies()), len(w.StaticBodies()), len(w.Colliders()))
	}
	if b.Player == nil || b.Name(b.Player.ID()) != "hero" {
		t.Fatalf("player = %v", b.Player)
	}
	if g, ok := b.Group("actors"); !ok || g.Len() != 2 {
		t.Errorf("actors group = %v", g)
	}
	if circle := w.Bodies()[1]; !circle.IsCircle() || circle.Radius() != 10 || circle.Pushable {
		t.Errorf("circle body = %+v", circle.Shape())
	}
	if w.Colliders()[0].Name != "land" {
		t.Errorf("collider name = %q", w.Colliders()[0].Name)
	}

	for tick := range 25 {
		w.Update(float64(tick)*1000, 1000.0/60)
		w.PostUpdate()
	}
	if y := b.Player.Y(); y < 31.99 || y > 32.01 {
		t.Errorf("hero y = %v, want resting on the floor at 32", y)
	}
}

func TestBuildRejectsStaticPlayer(t *testing.T) {
	s, err := Parse([]byte("player: rock\nstatics:\n  - {name: rock, radius: 4}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Build(nil); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("err = %v, want %v", err, ErrUnknownTarget)
	}
}

func TestConfigKeepsDefaultsForUnsetValues(t *testing.T) {
	s, err := Parse([]byte("world:\n  fps: 30\n  width: -5\n"))
	if err != nil {
		t.Fatal(err)
	}
	cfg := s.Config(nil)
	def := physics.DefaultConfig()
	if cfg.Width != def.Width || cfg.Height != def.Height || cfg.OverlapBias != def.OverlapBias {
		t.Errorf("config = %+v, want defaults for unset values", cfg)
	}
	if cfg.FPS != 30 || !cfg.UseTree {
		t.Errorf("fps = %v, useTree = %v", cfg.FPS, cfg.UseTree)
	}
}

func TestBuiltinScenes(t *testing.T) {
	names := Names()
	if !slices.Equal(names, []string{"billiards", "platformer", "sandbox"}) {
		t.Fatalf("Names = %v", names)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := Builtin(name)
			if err != nil {
				t.Fatalf("Builtin: %v", err)
			}
			b, err := s.Build(nil)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if b.Player == nil {
				t.Error("builtin scene without player")
			}
			for tick := range 120 {
				b.World.Update(float64(tick)*1000, 1000.0/60)
				b.World.PostUpdate()
				b.World.DrainEvents(nil)
			}
		})
	}

	if _, err := Builtin("nope"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("err = %v, want %v", err, ErrUnknownScene)
	}
}

func TestLoadAndOpen(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(p, []byte("bodies:\n  - {radius: 3}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "custom" {
		t.Errorf("name = %q, want the file name", s.Name)
	}
	if s, err := Open("sandbox"); err != nil || s.Name != "sandbox" {
		t.Errorf("Open builtin = %v, %v", s, err)
	}
	if s, err := Open(p); err != nil || s.Name != "custom" {
		t.Errorf("Open path = %v, %v", s, err)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestSpawn(t *testing.T) {
	s, err := Builtin("sandbox")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	balls, _ := b.Group("balls")
	before := balls.Len()

	ball := b.Spawn(100, 100, 8, 50, 0)
	if !ball.IsCircle() || ball.Radius() != 8 || ball.Velocity[0] != 50 {
		t.Errorf("spawned ball = %+v", ball.Shape())
	}
	if balls.Len() != before+1 || !balls.Contains(ball) {
		t.Error("spawned ball did not join the spawn group")
	}
	if _, ok := b.World.Lookup(ball.ID()); !ok {
		t.Error("spawned ball not registered")
	}
}
