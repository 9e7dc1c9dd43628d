package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is the color of a canvas pixel. The zero value is an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorCyan
	ColorYellow
	ColorRed
	ColorGreen
)

// ANSI foreground sequences.
const (
	ColorReset      = "\033[0m"
	ColorBrightCyan = "\033[96m"
)

var colorCodes = [...]string{
	ColorNone:   ColorReset,
	ColorWhite:  "\033[97m",
	ColorGray:   "\033[90m",
	ColorCyan:   ColorBrightCyan,
	ColorYellow: "\033[93m",
	ColorRed:    "\033[91m",
	ColorGreen:  "\033[92m",
}

// ANSI returns the escape sequence selecting c as the foreground color.
func (c Color) ANSI() string {
	if int(c) < len(colorCodes) {
		return colorCodes[c]
	}
	return ColorReset
}
