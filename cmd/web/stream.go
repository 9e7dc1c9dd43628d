package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/arcade/internal/loop/server"
)

const writeWait = 2 * time.Second

// clientMessage is a command sent by the browser.
type clientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

var commandTypes = map[string]server.CommandType{
	"pause": server.CommandTogglePause,
	"reset": server.CommandReset,
	"spawn": server.CommandSpawnBall,
	"nudge": server.CommandNudge,
}

// streamer pushes snapshots to websocket clients: JSON text frames by
// default, msgpack binary frames with ?format=msgpack.
type streamer struct {
	source   server.Source
	log      *log.Logger
	interval time.Duration
	upgrader websocket.Upgrader
}

func newStreamer(src server.Source, logger *log.Logger, interval time.Duration) *streamer {
	return &streamer{
		source:   src,
		log:      logger,
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *streamer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	binary := r.URL.Query().Get("format") == "msgpack"

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	s.source.Connect()
	defer s.source.Disconnect()
	s.log.Info("stream opened", "remote", r.RemoteAddr, "msgpack", binary)
	defer s.log.Info("stream closed", "remote", r.RemoteAddr)

	done := make(chan struct{})
	go s.readCommands(conn, done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var lastTick uint64
	sent := false
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		snap := s.source.Snapshot()
		if snap == nil || (sent && snap.Tick == lastTick) {
			continue
		}
		if err := s.write(conn, snap, binary); err != nil {
			s.log.Debug("write failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		lastTick, sent = snap.Tick, true

		if snap.ShuttingDown {
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

func (s *streamer) write(conn *websocket.Conn, snap *server.Snapshot, binary bool) error {
	msgType := websocket.TextMessage
	encode := snap.EncodeJSON
	if binary {
		msgType = websocket.BinaryMessage
		encode = snap.EncodeMsgpack
	}
	data, err := encode()
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(msgType, data)
}

// readCommands forwards browser commands until the connection fails, then
// closes done.
func (s *streamer) readCommands(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug("malformed command", "err", err)
			continue
		}
		cmdType, ok := commandTypes[msg.Type]
		if !ok {
			s.log.Debug("unknown command", "type", msg.Type)
			continue
		}
		s.source.Send(server.Command{
			Type: cmdType,
			X:    min(max(msg.X, -1), 1),
			Y:    min(max(msg.Y, -1), 1),
		})
	}
}
