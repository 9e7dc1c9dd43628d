package client

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/arcade/internal/draw"
	"github.com/tomz197/arcade/internal/input"
	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/loop/server"
)

// Client handles rendering and input for a single terminal connection.
type Client struct {
	source       server.Source
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates the frame for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
}

// NewClient creates a new client watching the given source.
func NewClient(src server.Source, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, canvasRows(renderHeight), 1, 1)
	canvas.SetOffset(offsetCol, offsetRow)

	src.Connect()
	return &Client{
		source:       src,
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
	}
}

// Run starts the client loop. Blocks until the client quits, goes idle or
// the server shuts down.
func (c *Client) Run() error {
	defer c.source.Disconnect()

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()
	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.updateScreen()

		snapshot := c.source.Snapshot()
		c.update(snapshot)

		if err := c.drawFrame(snapshot); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input, tracks inactivity and forwards commands.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	if c.inputStream.Closed() {
		c.state.Running = false
	}

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	c.handleInput(c.state.Input)
}

// handleInput turns one frame of input into server commands.
func (c *Client) handleInput(in input.Input) {
	if in.Quit {
		c.state.Running = false
		return
	}
	if c.state.Mode != ModeWatching {
		return
	}

	for range in.Pause {
		c.source.Send(server.Command{Type: server.CommandTogglePause})
	}
	for range in.Reset {
		c.source.Send(server.Command{Type: server.CommandReset})
	}
	for range in.Spawn {
		c.source.Send(server.Command{Type: server.CommandSpawnBall})
	}
	if x, y := in.Direction(); x != 0 || y != 0 {
		c.source.Send(server.Command{Type: server.CommandNudge, X: x, Y: y})
	}
}

// update advances the client's mode from the latest snapshot.
func (c *Client) update(snapshot *server.Snapshot) {
	switch c.state.Mode {
	case ModeWatching:
		if snapshot != nil && snapshot.ShuttingDown {
			c.state.Mode = ModeShutdown
			c.state.shutdownTimer = config.ShutdownDisplaySeconds
		}
	case ModeShutdown:
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	rows := canvasRows(renderHeight)

	if renderWidth != c.canvas.TerminalWidth() || rows != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, rows)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 1), config.MaxTermWidth)
	renderHeight = min(max(termHeight, 1), config.MaxTermHeight)
	offsetCol = max(termWidth-renderWidth, 0) / 2
	offsetRow = max(termHeight-renderHeight, 0) / 2
	return
}

// canvasRows is the number of rows left for the world after the status line.
func canvasRows(renderHeight int) int {
	return max(renderHeight-config.StatusRows, 1)
}
