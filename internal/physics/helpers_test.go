package physics

import (
	"math"
	"strconv"
	"testing"
)

const frameMS = 1000.0 / 60

func newWorld(t *testing.T, gx, gy float64) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Gravity = Vec(gx, gy)
	w, err := NewWorld(cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

// frame runs one host frame the way a 60 fps game loop would.
func frame(w *World, tick int) {
	w.Update(float64(tick)*1000, frameMS)
	w.PostUpdate()
}

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
