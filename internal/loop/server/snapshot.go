package server

import (
	"encoding/json"

	"github.com/tomz197/arcade/internal/physics"
	"github.com/vmihailenco/msgpack/v5"
)

// BodyState is the published view of one body.
type BodyState struct {
	ID       uint64  `json:"id" msgpack:"id"`
	Name     string  `json:"name,omitempty" msgpack:"name,omitempty"`
	Static   bool    `json:"static,omitempty" msgpack:"static,omitempty"`
	Circle   bool    `json:"circle,omitempty" msgpack:"circle,omitempty"`
	Player   bool    `json:"player,omitempty" msgpack:"player,omitempty"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	W        float64 `json:"w" msgpack:"w"`
	H        float64 `json:"h" msgpack:"h"`
	VX       float64 `json:"vx" msgpack:"vx"`
	VY       float64 `json:"vy" msgpack:"vy"`
	Touching bool    `json:"touching,omitempty" msgpack:"touching,omitempty"`
}

// Snapshot is an immutable view of the world after a tick.
type Snapshot struct {
	Tick         uint64      `json:"tick" msgpack:"tick"`
	Time         float64     `json:"time" msgpack:"time"` // ms of simulated host time
	Scene        string      `json:"scene" msgpack:"scene"`
	Width        float64     `json:"width" msgpack:"width"`
	Height       float64     `json:"height" msgpack:"height"`
	Paused       bool        `json:"paused" msgpack:"paused"`
	Steps        int         `json:"steps" msgpack:"steps"`
	Collisions   int         `json:"collisions" msgpack:"collisions"`
	BoundsHits   int         `json:"boundsHits" msgpack:"boundsHits"`
	Clients      int         `json:"clients" msgpack:"clients"`
	ShuttingDown bool        `json:"shuttingDown,omitempty" msgpack:"shuttingDown,omitempty"`
	Bodies       []BodyState `json:"bodies" msgpack:"bodies"`
}

// EncodeJSON encodes the snapshot as JSON.
func (s *Snapshot) EncodeJSON() ([]byte, error) {
	return json.Marshal(s)
}

// EncodeMsgpack encodes the snapshot as msgpack.
func (s *Snapshot) EncodeMsgpack() ([]byte, error) {
	return msgpack.Marshal(s)
}

// DecodeMsgpack decodes a snapshot produced by EncodeMsgpack.
func DecodeMsgpack(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// publish stores a fresh snapshot of the world: static bodies first, then
// dynamic ones, each in registration order.
func (s *Server) publish(steps int) {
	w := s.built.World
	statics := w.StaticBodies()
	bodies := w.Bodies()

	snap := &Snapshot{
		Tick:         s.tick,
		Time:         s.clock,
		Scene:        s.scene.Name,
		Width:        w.Bounds().Width,
		Height:       w.Bounds().Height,
		Paused:       w.Paused(),
		Steps:        steps,
		Collisions:   s.collisions,
		BoundsHits:   s.boundsHits,
		Clients:      s.Clients(),
		ShuttingDown: s.shuttingDown.Load(),
		Bodies:       make([]BodyState, 0, len(statics)+len(bodies)),
	}
	for _, st := range statics {
		if !st.Enabled() {
			continue
		}
		snap.Bodies = append(snap.Bodies, BodyState{
			ID:       uint64(st.ID()),
			Name:     s.built.Name(st.ID()),
			Static:   true,
			Circle:   st.IsCircle(),
			X:        st.X(),
			Y:        st.Y(),
			W:        st.Width(),
			H:        st.Height(),
			Touching: !st.Touching().None,
		})
	}
	for _, b := range bodies {
		if !b.Enable {
			continue
		}
		snap.Bodies = append(snap.Bodies, bodyState(b, s.built.Name(b.ID()), b == s.built.Player))
	}
	s.snapshot.Store(snap)
}

func bodyState(b *physics.Body, name string, player bool) BodyState {
	return BodyState{
		ID:       uint64(b.ID()),
		Name:     name,
		Circle:   b.IsCircle(),
		Player:   player,
		X:        b.X(),
		Y:        b.Y(),
		W:        b.Width(),
		H:        b.Height(),
		VX:       b.Velocity[0],
		VY:       b.Velocity[1],
		Touching: !b.Touching.None,
	}
}
