package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// cell is one rendered terminal character.
type cell struct {
	ch    rune
	color Color
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels. Render only
// writes the cells that changed since the previous Render.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	prev           []cell  // Cells as last rendered; a zero rune forces a rewrite

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets (columns/rows to skip) for centering.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewCanvas creates a canvas for the given terminal dimensions with a 1:1 mapping.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 0), max(termHeight, 0)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.prev = make([]cell, termHeight*termWidth)
	}
	c.rescale()
}

// SetLogicalSize changes the logical coordinate space.
func (c *Canvas) SetLogicalSize(width, height float64) {
	if width == c.logicalWidth && height == c.logicalHeight {
		return
	}
	c.logicalWidth = width
	c.logicalHeight = height
	c.rescale()
	c.ForceRedraw()
}

func (c *Canvas) rescale() {
	c.scaleX, c.scaleY = 0, 0
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render rewrite every cell.
func (c *Canvas) ForceRedraw() {
	clear(c.prev)
}

// MarkTextDirty marks width cells starting at the 1-based canvas position
// (col, row) as overwritten by text, so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	row--
	if row < 0 || row >= c.termHeight {
		return
	}
	start := max(col-1, 0)
	end := min(col-1+width, c.termWidth)
	for x := start; x < end; x++ {
		c.prev[row*c.termWidth+x] = cell{}
	}
}

func (c *Canvas) setPixel(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = color
	}
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

// Set sets the pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, color Color) {
	px, py := c.toPixel(x, y)
	c.setPixel(px, py, color)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, color Color) {
	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, color)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawRect draws the axis-aligned rectangle with top-left (x, y) in logical space.
// A rectangle always covers at least one pixel.
func (c *Canvas) DrawRect(x, y, width, height float64, filled bool, color Color) {
	x0, y0 := c.toPixel(x, y)
	x1, y1 := c.toPixel(x+width, y+height)
	x1, y1 = max(x1-1, x0), max(y1-1, y0)

	for py := y0; py <= y1; py++ {
		if filled || py == y0 || py == y1 {
			for px := x0; px <= x1; px++ {
				c.setPixel(px, py, color)
			}
			continue
		}
		c.setPixel(x0, py, color)
		c.setPixel(x1, py, color)
	}
}

// DrawCircle draws a circle of radius r centred on (cx, cy) in logical space.
// Uneven scaling turns it into an ellipse in pixel space.
func (c *Canvas) DrawCircle(cx, cy, r float64, filled bool, color Color) {
	pcx, pcy := cx*c.scaleX, cy*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY
	if rx < 0.5 || ry < 0.5 {
		c.Set(cx, cy, color)
		return
	}

	inside := func(px, py int) bool {
		dx := (float64(px) + 0.5 - pcx) / rx
		dy := (float64(py) + 0.5 - pcy) / ry
		return dx*dx+dy*dy <= 1
	}

	drawn := false
	for py := int(math.Floor(pcy - ry)); py <= int(math.Ceil(pcy+ry)); py++ {
		for px := int(math.Floor(pcx - rx)); px <= int(math.Ceil(pcx+rx)); px++ {
			if !inside(px, py) {
				continue
			}
			drawn = true
			if filled || !inside(px-1, py) || !inside(px+1, py) || !inside(px, py-1) || !inside(px, py+1) {
				c.setPixel(px, py, color)
			}
		}
	}
	if !drawn {
		c.Set(cx, cy, color)
	}
}

// Cell returns the character and color the 0-based terminal cell (col, row)
// currently renders as.
func (c *Canvas) Cell(col, row int) (rune, Color) {
	if col < 0 || col >= c.termWidth || row < 0 || row >= c.termHeight {
		return BlockEmpty, ColorNone
	}
	cl := c.cellAt(col, row)
	return cl.ch, cl.color
}

func (c *Canvas) cellAt(col, row int) cell {
	top := c.pixels[row*2*c.termWidth+col]
	bottom := c.pixels[(row*2+1)*c.termWidth+col]
	switch {
	case top != ColorNone && bottom != ColorNone:
		return cell{BlockFull, top}
	case top != ColorNone:
		return cell{BlockUpperHalf, top}
	case bottom != ColorNone:
		return cell{BlockLowerHalf, bottom}
	}
	return cell{BlockEmpty, ColorNone}
}

// Render writes the cells that changed since the last Render.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	color := ColorNone
	lastRow, lastCol := -1, -1
	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			i := row*c.termWidth + col
			cur := c.cellAt(col, row)
			if c.prev[i] == cur {
				continue
			}
			c.prev[i] = cur

			if row != lastRow || col != lastCol+1 {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if cur.ch != BlockEmpty && cur.color != color {
				c.renderBuf.WriteString(cur.color.ANSI())
				color = cur.color
			}
			c.renderBuf.WriteRune(cur.ch)
			lastRow, lastCol = row, col
		}
	}
	if color != ColorNone {
		c.renderBuf.WriteString(ColorReset)
	}

	io.WriteString(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left) + "H┌" + line + "┐")
			buf.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left) + "H└" + line + "┘")
		} else {
			buf.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left+1) + "H" + line)
			buf.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left+1) + "H" + line)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			r := strconv.Itoa(row)
			buf.WriteString("\033[" + r + ";" + strconv.Itoa(left) + "H│\033[" + r + ";" + strconv.Itoa(right) + "H│")
		}
	}
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// LogicalToTerminal converts logical coordinates to a 1-based canvas position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
