package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a direction key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input is the current frame's input state. Directions stay set while the key
// repeats; actions count the presses seen this frame.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Pause   int // Space or p
	Reset   int // r
	Spawn   int // b or Enter
	Pressed []byte
}

// Direction returns the held direction as -1, 0 or 1 on each axis, y pointing down.
func (in Input) Direction() (x, y float64) {
	if in.Left {
		x--
	}
	if in.Right {
		x++
	}
	if in.Up {
		y--
	}
	if in.Down {
		y++
	}
	return x, y
}

// keyState tracks the last time each direction key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				s.ch = nil
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	return parse(&s.state, buf, time.Now())
}

// Reset forgets held keys, e.g. after the scene restarts.
func (s *Stream) Reset() {
	s.state = keyState{}
}

// parse applies buf to the key state and builds the frame's input.
func parse(state *keyState, buf []byte, now time.Time) Input {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				state.up = now
			case 'B':
				state.down = now
			case 'C':
				state.right = now
			case 'D':
				state.left = now
			}
			i += 2
			continue
		}

		switch b {
		case 'q', 'Q', '\x03':
			in.Quit = true
		case 'a', 'A', 'h', 'H':
			state.left = now
		case 'd', 'D', 'l', 'L':
			state.right = now
		case 'w', 'W', 'k', 'K':
			state.up = now
		case 's', 'S', 'j', 'J':
			state.down = now
		case ' ', 'p', 'P':
			in.Pause++
		case 'r', 'R':
			in.Reset++
		case 'b', 'B', '\r', '\n':
			in.Spawn++
		}
	}

	in.Left = now.Sub(state.left) < keyHoldDuration
	in.Right = now.Sub(state.right) < keyHoldDuration
	in.Up = now.Sub(state.up) < keyHoldDuration
	in.Down = now.Sub(state.down) < keyHoldDuration
	return in
}
