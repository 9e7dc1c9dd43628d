package server

import (
	"context"
	"io"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/physics"
	"github.com/tomz197/arcade/internal/scene"
)

// Source is the interface clients use to talk to a simulation.
// Decouples the terminal and web clients from the concrete Server.
type Source interface {
	Snapshot() *Snapshot
	Send(cmd Command) bool
	Connect()
	Disconnect()
}

// Compile-time check that Server implements Source.
var _ Source = (*Server)(nil)

// CommandType identifies a client request.
type CommandType int

const (
	CommandTogglePause CommandType = iota
	CommandReset
	CommandSpawnBall
	CommandNudge // X and Y give the direction, each -1, 0 or 1
)

// Command is a request queued for the simulation goroutine.
type Command struct {
	Type CommandType
	X, Y float64
}

// Server owns one physics world and advances it at a fixed tick rate.
// Only the goroutine running Run (or Tick) touches the world; everybody
// else reads the published snapshots.
type Server struct {
	log      *log.Logger
	scene    *scene.Scene
	built    *scene.Built
	snapshot atomic.Pointer[Snapshot]
	commands chan Command
	rng      *rand.Rand

	clients      atomic.Int32
	shuttingDown atomic.Bool

	tick       uint64
	clock      float64 // ms
	spawned    int
	collisions int
	boundsHits int
}

// Options configures a Server.
type Options struct {
	Logger *log.Logger
	Seed   uint64 // Seeds spawn positions; zero picks a random seed
}

// NewServer builds the scene's world and publishes the initial snapshot.
func NewServer(sc *scene.Scene, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Server{
		log:      logger,
		scene:    sc,
		commands: make(chan Command, config.CommandBuffer),
		rng:      rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
	if err := s.reset(); err != nil {
		return nil, err
	}
	s.publish(0)
	return s, nil
}

// reset rebuilds the world from the scene.
func (s *Server) reset() error {
	built, err := s.scene.Build(s.log.WithPrefix("physics"))
	if err != nil {
		return err
	}
	built.World.OnEvent(s.countEvent)
	s.built = built
	s.spawned = 0
	s.log.Info("scene loaded", "scene", s.scene.Name,
		"bodies", len(built.World.Bodies()), "statics", len(built.World.StaticBodies()),
		"colliders", len(built.World.Colliders()))
	return nil
}

func (s *Server) countEvent(e physics.Event) {
	switch e.Type {
	case physics.EventCollide:
		s.collisions++
	case physics.EventWorldBounds:
		s.boundsHits++
	}
}

// Run advances the world until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		s.Tick(frameStart.Sub(lastTime))
		lastTime = frameStart

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// Tick applies pending commands, advances the world by delta and publishes
// a new snapshot.
func (s *Server) Tick(delta time.Duration) {
	s.applyCommands()

	delta = min(delta, config.MaxTickDelta)
	ms := float64(delta) / float64(time.Millisecond)
	s.clock += ms
	s.tick++

	w := s.built.World
	s.collisions, s.boundsHits = 0, 0
	w.Update(s.clock, ms)
	w.PostUpdate()
	w.DrainEvents(nil)
	steps := w.StepsLastFrame()
	if w.Paused() {
		steps = 0
	}
	s.publish(steps)
}

// applyCommands drains the command channel without blocking.
func (s *Server) applyCommands() {
	for {
		select {
		case cmd := <-s.commands:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *Server) apply(cmd Command) {
	w := s.built.World
	switch cmd.Type {
	case CommandTogglePause:
		if w.Paused() {
			w.Resume()
		} else {
			w.Pause()
		}
	case CommandReset:
		if err := s.reset(); err != nil {
			s.log.Error("reset failed", "err", err)
		}
	case CommandSpawnBall:
		if s.spawned >= config.MaxSpawnedBalls {
			s.log.Debug("spawn limit reached", "limit", config.MaxSpawnedBalls)
			return
		}
		bounds := w.Bounds()
		r := config.SpawnRadiusMin + s.rng.Float64()*(config.SpawnRadiusMax-config.SpawnRadiusMin)
		x := bounds.X + s.rng.Float64()*(bounds.Width-2*r)
		y := bounds.Y + s.rng.Float64()*(bounds.Height/3)
		vx := (s.rng.Float64()*2 - 1) * config.SpawnSpeed
		vy := (s.rng.Float64()*2 - 1) * config.SpawnSpeed
		s.built.Spawn(x, y, r, vx, vy)
		s.spawned++
	case CommandNudge:
		if p := s.built.Player; p != nil {
			p.SetVelocity(p.Velocity[0]+cmd.X*config.NudgeSpeed, p.Velocity[1]+cmd.Y*config.NudgeSpeed)
		}
	}
}

// Send queues a command for the next tick. It reports false when the queue
// is full and the command was dropped.
func (s *Server) Send(cmd Command) bool {
	select {
	case s.commands <- cmd:
		return true
	default:
		return false
	}
}

// Snapshot returns the latest published snapshot.
func (s *Server) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Connect records a new client.
func (s *Server) Connect() {
	n := s.clients.Add(1)
	s.log.Debug("client connected", "clients", n)
}

// Disconnect records a client leaving.
func (s *Server) Disconnect() {
	n := s.clients.Add(-1)
	s.log.Debug("client disconnected", "clients", n)
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	return int(s.clients.Load())
}

// Shutdown flags the snapshots as shutting down so clients can say goodbye,
// then waits for every client to disconnect, up to the given timeout.
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.shuttingDown.Store(true)

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.log.Warn("clients still connected at shutdown", "clients", s.Clients())
			return
		case <-ticker.C:
			if s.Clients() == 0 {
				return
			}
		}
	}
}
