package client

import (
	"fmt"
	"time"

	"github.com/tomz197/arcade/internal/draw"
	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/loop/server"
)

const helpText = "space pause  r reset  b ball  arrows nudge  q quit"

// drawFrame draws the current frame.
func (c *Client) drawFrame(snapshot *server.Snapshot) error {
	// On mode or inactivity transitions, do a full terminal clear
	// so overlays from the previous state don't persist on screen.
	if c.state.Mode != c.state.prevMode || c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevMode = c.state.Mode
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if snapshot != nil {
		c.canvas.SetLogicalSize(snapshot.Width, snapshot.Height)
		for _, b := range snapshot.Bodies {
			c.drawBody(b)
		}
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// bodyColor picks the color of a body: the player stands out, touching
// bodies are highlighted.
func bodyColor(b server.BodyState) draw.Color {
	switch {
	case b.Player:
		return draw.ColorCyan
	case b.Touching:
		return draw.ColorYellow
	case b.Static:
		return draw.ColorGray
	}
	return draw.ColorWhite
}

// drawBody draws statics filled and dynamic bodies as outlines.
func (c *Client) drawBody(b server.BodyState) {
	color := bodyColor(b)
	if b.Circle {
		r := b.W / 2
		c.canvas.DrawCircle(b.X+r, b.Y+r, r, b.Static, color)
		return
	}
	c.canvas.DrawRect(b.X, b.Y, b.W, b.H, b.Static, color)
}

// drawUI draws the status line and any centred overlay.
func (c *Client) drawUI(snapshot *server.Snapshot) {
	width := c.canvas.TerminalWidth()
	centerX := width / 2
	centerY := c.canvas.TerminalHeight() / 2

	c.drawStatusLine(width, snapshot)

	switch {
	case c.state.Mode == ModeShutdown:
		c.drawShutdownScreen(centerX, centerY)
	case c.state.isInactive:
		c.drawInactivityScreen(centerX, centerY)
	case snapshot != nil && snapshot.Paused:
		c.writeCentered(centerX, 2, "PAUSED")
	}
}

// drawStatusLine fills the row below the canvas. Fields are fixed width so
// shrinking values leave nothing behind.
func (c *Client) drawStatusLine(width int, snapshot *server.Snapshot) {
	row := c.canvas.TerminalHeight() + 1
	status := "waiting for the simulation..."
	if snapshot != nil {
		status = fmt.Sprintf("%-12s tick %-8d bodies %-4d hits %-3d bounds %-3d clients %-3d",
			snapshot.Scene, snapshot.Tick, len(snapshot.Bodies),
			snapshot.Collisions, snapshot.BoundsHits, snapshot.Clients)
	}
	if len(status)+2+len(helpText) <= width {
		status += fmt.Sprintf("%*s", width-len(status), helpText)
	}
	c.chunkWriter.WriteAt(1, row, fmt.Sprintf("%-*.*s", width, width, status))
}

// writeCentered writes text centred on column centerX and marks the cells
// dirty so the canvas repaints them once the text goes away.
func (c *Client) writeCentered(centerX, row int, text string) {
	col := max(centerX-len(text)/2, 1)
	c.chunkWriter.WriteAt(col, row, text)
	c.canvas.MarkTextDirty(col, row, len(text))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")
	c.writeCentered(centerX, centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	))
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The simulation is stopping.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")
	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
