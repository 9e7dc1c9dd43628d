package client

import (
	"time"

	"github.com/tomz197/arcade/internal/input"
)

// Mode is the client's display phase.
type Mode int

const (
	ModeWatching Mode = iota // Rendering the world
	ModeShutdown             // Server is shutting down
)

// ClientState holds per-connection state. Each client has its own instance,
// managed by the Client.
type ClientState struct {
	Input         input.Input
	Mode          Mode
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time (client-side)
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	prevMode      Mode
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Mode:    ModeWatching,
		Running: true,
	}
}
