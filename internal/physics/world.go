package physics

import (
	"slices"

	"github.com/charmbracelet/log"
)

// World owns the bodies, colliders and spatial indexes of one simulation and
// advances them when the host calls Update and PostUpdate. A World is not
// safe for concurrent use.
type World struct {
	log *log.Logger

	gravity        Vector
	bounds         Rect
	checkCollision Directions
	overlapBias    float64
	forceX         bool
	useTree        bool
	fixedStep      bool

	fps         float64
	frameTime   float64 // seconds per step
	frameTimeMS float64
	timeScale   float64
	elapsed     float64 // accumulated milliseconds not yet stepped
	steps       int
	paused      bool
	stepping    bool

	lastID     ID
	registered map[ID]Object
	bodies     []*Body
	statics    []*StaticBody
	tree       *SpatialIndex
	staticTree *SpatialIndex
	entries    []IndexEntry

	colliders        []*Collider
	pendingColliders []*Collider
	pendingAdd       []Object
	pendingDestroy   []Object

	events    eventQueue
	listeners []EventFunc
	factory   *Factory
}

// NewWorld validates cfg and creates an empty world.
func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.logger()
	if cfg.EventLimit <= 0 {
		logger.Warn("event limit not set, using default", "limit", DefaultEventLimit)
		cfg.EventLimit = DefaultEventLimit
	}

	w := &World{
		log:            logger,
		gravity:        cfg.Gravity,
		bounds:         Rect{X: cfg.X, Y: cfg.Y, Width: cfg.Width, Height: cfg.Height},
		checkCollision: cfg.CheckCollision,
		overlapBias:    cfg.OverlapBias,
		forceX:         cfg.ForceX,
		useTree:        cfg.UseTree,
		fixedStep:      cfg.FixedStep,
		timeScale:      cfg.TimeScale,
		registered:     make(map[ID]Object),
		tree:           NewSpatialIndex(),
		staticTree:     NewSpatialIndex(),
		events:         newEventQueue(cfg.EventLimit),
	}
	w.setFPS(cfg.FPS)
	w.factory = &Factory{world: w}

	logger.Debug("world created", "bounds", w.bounds, "gravity", w.gravity, "fps", w.fps, "fixedStep", w.fixedStep)
	return w, nil
}

// Factory returns the convenience constructors bound to this world.
func (w *World) Factory() *Factory { return w.factory }

// Logger returns the world's logger.
func (w *World) Logger() *log.Logger { return w.log }

// Gravity returns the world gravity in px/s².
func (w *World) Gravity() Vector { return w.gravity }

// SetGravity sets the world gravity in px/s².
func (w *World) SetGravity(x, y float64) {
	w.gravity = Vec(x, y)
}

// Bounds returns the world bounds rectangle.
func (w *World) Bounds() Rect { return w.bounds }

// CheckCollision returns which bounds edges contain bodies.
func (w *World) CheckCollision() Directions { return w.checkCollision }

// SetBounds replaces the bounds rectangle and the edges that contain bodies.
func (w *World) SetBounds(x, y, width, height float64, left, right, up, down bool) {
	w.bounds = Rect{X: x, Y: y, Width: width, Height: height}
	w.SetBoundsCollision(left, right, up, down)
}

// SetBoundsCollision selects the bounds edges that contain bodies.
func (w *World) SetBoundsCollision(left, right, up, down bool) {
	w.checkCollision = Directions{Left: left, Right: right, Up: up, Down: down}
}

// OverlapBias returns the extra overlap tolerated before bodies pass through each other.
func (w *World) OverlapBias() float64 { return w.overlapBias }

// SetOverlapBias sets the overlap bias. Negative values are ignored.
func (w *World) SetOverlapBias(v float64) {
	if v >= 0 {
		w.overlapBias = v
	}
}

// FPS returns the fixed step rate.
func (w *World) FPS() float64 { return w.fps }

// SetFPS changes the fixed step rate. Non-positive rates are ignored.
func (w *World) SetFPS(fps float64) {
	if fps <= 0 {
		w.log.Debug("ignoring non-positive fps", "fps", fps)
		return
	}
	w.setFPS(fps)
}

func (w *World) setFPS(fps float64) {
	w.fps = fps
	w.frameTime = 1 / fps
	w.frameTimeMS = 1000 * w.frameTime
}

// TimeScale returns the fixed step stretch factor.
func (w *World) TimeScale() float64 { return w.timeScale }

// SetTimeScale stretches the fixed step: 2 runs the simulation at half speed.
func (w *World) SetTimeScale(s float64) {
	if s > 0 {
		w.timeScale = s
	}
}

// UseTree reports whether the dynamic spatial index is maintained.
func (w *World) UseTree() bool { return w.useTree }

// StepsLastFrame returns how many steps the last Update ran.
func (w *World) StepsLastFrame() int { return w.steps }

// Paused reports whether Update is suspended.
func (w *World) Paused() bool { return w.paused }

// Pause suspends Update and emits a pause event.
func (w *World) Pause() {
	if w.paused {
		return
	}
	w.paused = true
	w.emit(Event{Type: EventPause})
}

// Resume restarts Update and emits a resume event.
func (w *World) Resume() {
	if !w.paused {
		return
	}
	w.paused = false
	w.emit(Event{Type: EventResume})
}

// Bodies returns the dynamic bodies in registration order.
func (w *World) Bodies() []*Body { return slices.Clone(w.bodies) }

// StaticBodies returns the static bodies in registration order.
func (w *World) StaticBodies() []*StaticBody { return slices.Clone(w.statics) }

// Lookup returns the registered object with the given ID.
func (w *World) Lookup(id ID) (Object, bool) {
	o, ok := w.registered[id]
	return o, ok
}

// Len returns the number of registered bodies, dynamic and static.
func (w *World) Len() int { return len(w.registered) }

// Add registers obj and enables it. Objects added during a step join the
// world when the step ends.
func (w *World) Add(obj Object) {
	b := obj.core()
	switch {
	case b.world != w:
		w.log.Warn("body belongs to another world", "id", b.id)
		return
	case b.destroyed:
		w.log.Debug("ignoring add of destroyed body", "id", b.id)
		return
	}

	// Adding back an object whose removal is still pending cancels the removal.
	if i := slices.Index(w.pendingDestroy, obj); i >= 0 {
		w.pendingDestroy = slices.Delete(w.pendingDestroy, i, i+1)
		b.Enable = true
		return
	}
	if _, ok := w.registered[b.id]; ok || slices.Contains(w.pendingAdd, obj) {
		return
	}
	if w.stepping {
		w.pendingAdd = append(w.pendingAdd, obj)
		return
	}
	w.register(obj)
}

func (w *World) register(obj Object) {
	b := obj.core()
	b.Enable = true
	w.registered[b.id] = obj
	switch o := obj.(type) {
	case *Body:
		w.bodies = append(w.bodies, o)
	case *StaticBody:
		w.statics = append(w.statics, o)
		o.slot = indexSlot{index: w.staticTree}
		w.staticTree.Insert(b.id, b.Bounds())
	}
}

// Remove disables obj at once and unregisters it at the next safe point,
// so it is never dropped in the middle of a collider pass. A removed body
// can be added again.
func (w *World) Remove(obj Object) {
	w.queueRemoval(obj, false)
}

func (w *World) queueRemoval(obj Object, destroy bool) {
	b := obj.core()
	if b.destroyed {
		w.log.Debug("body already destroyed", "id", b.id)
		return
	}
	b.destroyed = destroy
	b.Enable = false
	if i := slices.Index(w.pendingAdd, obj); i >= 0 {
		w.pendingAdd = slices.Delete(w.pendingAdd, i, i+1)
		return
	}
	if _, ok := w.registered[b.id]; !ok {
		w.log.Debug("removing unregistered body", "id", b.id)
		return
	}
	if !slices.Contains(w.pendingDestroy, obj) {
		w.pendingDestroy = append(w.pendingDestroy, obj)
	}
}

// destroy removes obj for good.
func (w *World) destroy(obj Object) {
	w.queueRemoval(obj, true)
}

// flushPending applies the registry changes queued during the last step.
func (w *World) flushPending() {
	if len(w.pendingDestroy) > 0 {
		gone := make(map[ID]struct{}, len(w.pendingDestroy))
		for _, obj := range w.pendingDestroy {
			id := obj.ID()
			if _, ok := w.registered[id]; !ok {
				continue
			}
			gone[id] = struct{}{}
			delete(w.registered, id)
			switch o := obj.(type) {
			case *Body:
				w.tree.Remove(id)
			case *StaticBody:
				w.staticTree.Remove(id)
				o.slot = indexSlot{}
			}
		}
		w.bodies = slices.DeleteFunc(w.bodies, func(b *Body) bool { _, ok := gone[b.id]; return ok })
		w.statics = slices.DeleteFunc(w.statics, func(s *StaticBody) bool { _, ok := gone[s.body.id]; return ok })
		w.pendingDestroy = w.pendingDestroy[:0]
	}

	if len(w.pendingAdd) > 0 {
		for _, obj := range w.pendingAdd {
			w.register(obj)
		}
		w.pendingAdd = w.pendingAdd[:0]
	}

	w.flushColliders()
	w.pruneColliders()
}

// Update advances the world by one host frame. time is the host clock in
// milliseconds and delta the frame length in milliseconds. With a fixed step
// the frame runs as many whole steps as the accumulated time allows (possibly
// none); otherwise it runs exactly one step of delta.
func (w *World) Update(time, delta float64) {
	if w.paused {
		return
	}
	w.flushPending()
	if len(w.bodies) == 0 && len(w.colliders) == 0 {
		w.steps = 0
		return
	}

	w.stepping = true
	msPerFrame := w.frameTimeMS * w.timeScale
	stepDelta := w.frameTime

	w.elapsed += delta
	willStep := w.elapsed >= msPerFrame
	if !w.fixedStep {
		stepDelta = delta * 0.001
		willStep = true
		w.elapsed = 0
	}

	if willStep {
		for _, s := range w.statics {
			s.body.resetFlags(false)
		}
	}
	for _, b := range w.bodies {
		if b.Enable {
			b.preUpdate(willStep, stepDelta)
		}
	}

	steps := 0
	if willStep {
		w.elapsed -= msPerFrame
		steps = 1
		w.collisionPass(stepDelta)
	}
	for w.elapsed >= msPerFrame {
		w.elapsed -= msPerFrame
		w.Step(stepDelta)
		steps++
	}
	w.steps = steps
	w.stepping = false
	w.flushPending()
}

// Step runs one step of delta seconds: integration, index rebuild and the
// collider pass. Update calls it for every step after the first in a frame;
// hosts driving the world manually may call it directly, with PostUpdate
// after the last step of each frame.
func (w *World) Step(delta float64) {
	nested := w.stepping
	if !nested {
		w.flushPending()
		w.stepping = true
	}
	for _, b := range w.bodies {
		if b.Enable {
			b.update(delta)
		}
	}
	w.collisionPass(delta)
	if !nested {
		w.stepping = false
		w.flushPending()
	}
}

func (w *World) collisionPass(delta float64) {
	if w.useTree {
		w.rebuildTree()
	}
	w.flushColliders()
	for _, c := range w.colliders {
		if c.Active {
			c.update()
		}
	}
	w.emit(Event{Type: EventWorldStep, Delta: delta})
}

// PostUpdate ends the frame: it computes the per-frame deltas of every body
// and unregisters removed bodies.
func (w *World) PostUpdate() {
	for _, b := range w.bodies {
		if b.Enable {
			b.postUpdate()
		}
	}
	w.flushPending()
}

// rebuildTree reloads the dynamic index from the enabled bodies.
func (w *World) rebuildTree() {
	w.entries = w.entries[:0]
	for _, b := range w.bodies {
		if b.Enable {
			w.entries = append(w.entries, IndexEntry{ID: b.id, Box: b.Bounds()})
		}
	}
	w.tree.Load(w.entries)
}

// refresh moves a dynamic body's index entry to its current bounds.
func (w *World) refresh(b *Body) {
	if b.kind == TypeDynamic && w.useTree {
		w.tree.Update(b.id, b.Bounds())
	}
}

// Wrap moves every member of t that left the bounds (grown by padding) back
// in from the opposite edge.
func (w *World) Wrap(t Target, padding float64) {
	left, right := w.bounds.X-padding, w.bounds.Right()+padding
	top, bottom := w.bounds.Y-padding, w.bounds.Bottom()+padding
	for _, obj := range t.members(nil) {
		b := obj.core()
		x := Wrap(b.Position[0], left, right)
		y := Wrap(b.Position[1], top, bottom)
		switch o := obj.(type) {
		case *StaticBody:
			o.SetPosition(x, y)
		case *Body:
			o.Position = Vec(x, y)
			w.refresh(o)
		}
	}
}
