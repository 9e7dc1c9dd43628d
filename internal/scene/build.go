package scene

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tomz197/arcade/internal/physics"
)

// Built is a world populated from a scene, with its groups and named bodies.
type Built struct {
	Scene  *Scene
	World  *physics.World
	Player *physics.Body // nil unless the scene names a dynamic player body

	groups map[string]*physics.Group
	named  map[string]physics.Object
	names  map[physics.ID]string
}

// Config returns the world configuration the scene asks for.
func (s *Scene) Config(logger *log.Logger) physics.Config {
	cfg := physics.DefaultConfig()
	cfg.Gravity = physics.Vec(s.World.Gravity.X, s.World.Gravity.Y)
	if s.World.Width > 0 {
		cfg.Width = s.World.Width
	}
	if s.World.Height > 0 {
		cfg.Height = s.World.Height
	}
	if s.World.OverlapBias > 0 {
		cfg.OverlapBias = s.World.OverlapBias
	}
	if s.World.FPS > 0 {
		cfg.FPS = s.World.FPS
	}
	if s.World.UseTree != nil {
		cfg.UseTree = *s.World.UseTree
	}
	cfg.ForceX = s.World.ForceX
	cfg.Logger = logger
	return cfg
}

// Build creates a world holding every body of the scene and registers its
// colliders in file order. A nil logger discards the world's logs.
func (s *Scene) Build(logger *log.Logger) (*Built, error) {
	w, err := physics.NewWorld(s.Config(logger))
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	b := &Built{
		Scene:  s,
		World:  w,
		groups: make(map[string]*physics.Group),
		named:  make(map[string]physics.Object),
		names:  make(map[physics.ID]string),
	}
	f := w.Factory()

	for _, def := range s.Bodies {
		var body *physics.Body
		if def.Radius > 0 {
			body = f.Circle(def.X, def.Y, def.Radius)
		} else {
			body = f.Body(def.X, def.Y, def.Width, def.Height)
		}
		applyBody(body, def)
		b.add(body, def.Name, def.Group)
	}
	for _, def := range s.Statics {
		var st *physics.StaticBody
		if def.Radius > 0 {
			st = f.StaticCircle(def.X, def.Y, def.Radius)
		} else {
			st = f.StaticBody(def.X, def.Y, def.Width, def.Height)
		}
		if def.OneWay {
			st.SetCheckCollision(physics.Directions{Up: true})
		}
		b.add(st, def.Name, def.Group)
	}
	if s.Spawn.Group != "" {
		b.group(s.Spawn.Group)
	}

	for i, c := range s.Colliders {
		ta, okA := b.Target(c.A)
		tb, okB := b.Target(c.B)
		if !okA || !okB {
			return nil, fmt.Errorf("scene %q collider %d: %w", s.Name, i, ErrUnknownTarget)
		}
		var col *physics.Collider
		if c.Overlap {
			col = w.AddOverlap(ta, tb, nil, nil)
		} else {
			col = w.AddCollider(ta, tb, nil, nil)
		}
		col.SetName(c.Name)
	}

	if s.Player != "" {
		player, ok := b.named[s.Player].(*physics.Body)
		if !ok {
			return nil, fmt.Errorf("scene %q player %q is not a dynamic body: %w", s.Name, s.Player, ErrUnknownTarget)
		}
		b.Player = player
	}
	return b, nil
}

func applyBody(body *physics.Body, def Body) {
	body.SetVelocity(def.Velocity.X, def.Velocity.Y)
	body.SetBounce(def.Bounce.X, def.Bounce.Y)
	body.SetDrag(def.Drag.X, def.Drag.Y)
	body.SetDamping(def.Damping)
	if def.Mass > 0 {
		body.SetMass(def.Mass)
	}
	if def.MaxSpeed > 0 {
		body.SetMaxSpeed(def.MaxSpeed)
	}
	body.SetImmovable(def.Immovable)
	if def.Pushable != nil {
		body.SetPushable(*def.Pushable)
	}
	if def.AllowGravity != nil {
		body.SetAllowGravity(*def.AllowGravity)
	}
	body.SetCollideWorldBounds(def.CollideWorldBounds, nil, def.CollideWorldBounds)
	body.OnCollide = true
}

func (b *Built) add(obj physics.Object, name, group string) {
	if name != "" {
		b.named[name] = obj
		b.names[obj.ID()] = name
	}
	if group != "" {
		b.group(group).Add(obj)
	}
}

func (b *Built) group(name string) *physics.Group {
	g, ok := b.groups[name]
	if !ok {
		g = physics.NewGroup()
		b.groups[name] = g
	}
	return g
}

// Target resolves a collider reference: a group name first, then a body name.
func (b *Built) Target(ref string) (physics.Target, bool) {
	if g, ok := b.groups[ref]; ok {
		return g, true
	}
	obj, ok := b.named[ref]
	return obj, ok
}

// Group returns the named group.
func (b *Built) Group(name string) (*physics.Group, bool) {
	g, ok := b.groups[name]
	return g, ok
}

// Object returns the body with the given scene name.
func (b *Built) Object(name string) (physics.Object, bool) {
	obj, ok := b.named[name]
	return obj, ok
}

// Name returns the scene name of the body with the given ID, if it has one.
func (b *Built) Name(id physics.ID) string {
	return b.names[id]
}

// Spawn adds a ball of radius r whose bounding box starts at (x, y). The ball
// joins the scene's spawn group and bounces off the world bounds.
func (b *Built) Spawn(x, y, r, vx, vy float64) *physics.Body {
	ball := b.World.Factory().Circle(x, y, r)
	bounce := b.Scene.Spawn.Bounce
	ball.SetVelocity(vx, vy).SetBounce(bounce, bounce)
	ball.SetCollideWorldBounds(true, nil, true)
	ball.OnCollide = true
	if g := b.Scene.Spawn.Group; g != "" {
		b.group(g).Add(ball)
	}
	return ball
}
