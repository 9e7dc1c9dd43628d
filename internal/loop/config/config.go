// Package config centralizes the tunable host parameters.
package config

import "time"

// Scenes
const (
	DefaultScene = "sandbox" // Builtin scene loaded when SCENE is unset
)

// Controls
const (
	NudgeSpeed      = 120.0 // Velocity added per nudge key press, px/s
	SpawnRadiusMin  = 6.0
	SpawnRadiusMax  = 16.0
	SpawnSpeed      = 250.0 // Max initial speed of spawned balls, px/s
	MaxSpawnedBalls = 200   // Spawn commands beyond this are ignored
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownWait           = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 200 // Columns beyond this are left blank
	MaxTermHeight         = 60  // Rows beyond this are left blank
	StatusRows            = 1   // Rows reserved below the canvas
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
	CommandBuffer  = 256                    // Pending commands before sends are dropped
	MaxTickDelta   = 250 * time.Millisecond // Longer stalls are not caught up
)

// Web streaming
const (
	WebBroadcastRate = 30
	WebBroadcastTime = time.Second / WebBroadcastRate
)
