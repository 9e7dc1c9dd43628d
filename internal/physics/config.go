package physics

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
)

var (
	ErrInvalidGravity   = errors.New("physics: gravity must be finite")
	ErrInvalidBounds    = errors.New("physics: bounds must be finite with positive size")
	ErrInvalidFPS       = errors.New("physics: fps must be positive")
	ErrInvalidTimeScale = errors.New("physics: time scale must be positive")
	ErrInvalidBias      = errors.New("physics: overlap bias must be finite and non-negative")
)

// Default world settings.
const (
	DefaultFPS         = 60
	DefaultOverlapBias = 4
	DefaultBodySize    = 64
	DefaultEventLimit  = 4096
)

// Config is consumed once by NewWorld. Start from DefaultConfig and override
// the fields you need.
type Config struct {
	// Gravity is the world-wide acceleration in pixels per second squared.
	Gravity Vector

	// X, Y, Width and Height describe the world bounds rectangle.
	X, Y          float64
	Width, Height float64

	// CheckCollision selects which bounds edges contain bodies.
	CheckCollision Directions

	// OverlapBias is added to the maximum overlap separated in one step.
	OverlapBias float64

	// FPS is the fixed step rate. FixedStep false integrates with the raw frame delta instead.
	FPS       float64
	FixedStep bool
	TimeScale float64

	// UseTree enables the dynamic spatial index. When false, queries scan every body.
	UseTree bool

	// ForceX makes separation always resolve the X axis first.
	ForceX bool

	// EventLimit caps the number of queued undrained events. Older events are dropped.
	EventLimit int

	// Logger receives configuration and misuse diagnostics. Nil discards them.
	Logger *log.Logger
}

// DefaultConfig returns an 800x600 world without gravity stepping at 60 fps.
func DefaultConfig() Config {
	return Config{
		Width:          800,
		Height:         600,
		CheckCollision: AllDirections,
		OverlapBias:    DefaultOverlapBias,
		FPS:            DefaultFPS,
		FixedStep:      true,
		TimeScale:      1,
		UseTree:        true,
		EventLimit:     DefaultEventLimit,
	}
}

// Validate reports the first configuration error.
func (c Config) Validate() error {
	if !finite(c.Gravity[0]) || !finite(c.Gravity[1]) {
		return fmt.Errorf("gravity (%g, %g): %w", c.Gravity[0], c.Gravity[1], ErrInvalidGravity)
	}
	if !finite(c.X) || !finite(c.Y) || !finite(c.Width) || !finite(c.Height) || c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("bounds (%g, %g, %g, %g): %w", c.X, c.Y, c.Width, c.Height, ErrInvalidBounds)
	}
	if !finite(c.FPS) || c.FPS <= 0 {
		return fmt.Errorf("fps %g: %w", c.FPS, ErrInvalidFPS)
	}
	if !finite(c.TimeScale) || c.TimeScale <= 0 {
		return fmt.Errorf("time scale %g: %w", c.TimeScale, ErrInvalidTimeScale)
	}
	if !finite(c.OverlapBias) || c.OverlapBias < 0 {
		return fmt.Errorf("overlap bias %g: %w", c.OverlapBias, ErrInvalidBias)
	}
	return nil
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
