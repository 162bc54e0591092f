// Package ws streams bot decisions over a websocket.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/usecase"
)

const DefaultPingInterval = 30 * time.Second

// maxFrameSize bounds incoming frames; a board request is a few hundred bytes.
const maxFrameSize = 4 << 10

type Handler struct {
	UC           *usecase.Service
	PingInterval time.Duration
	Logger       *slog.Logger
}

func New(uc *usecase.Service, ping time.Duration, logger *slog.Logger) *Handler {
	if ping <= 0 {
		ping = DefaultPingInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{UC: uc, PingInterval: ping, Logger: logger}
}

type request struct {
	ID         string  `json:"id"`
	Own        [][]int `json:"own"`
	Opponent   [][]int `json:"opponent"`
	Die        int     `json:"die"`
	Difficulty string  `json:"difficulty,omitempty"`
}

type message struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Column *int   `json:"column,omitempty"`
	Nodes  int    `json:"nodes,omitempty"`
	Error  string `json:"error,omitempty"`
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Debug("ws upgrade failed", "err", err)
		return
	}
	conn.SetReadLimit(maxFrameSize)
	send := make(chan []byte, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer conn.Close()
		if err := h.writeWithHeartbeat(conn, send); err != nil {
			h.Logger.Debug("ws write failed", "err", err)
		}
	}()

	defer func() {
		close(send)
		<-done
	}()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case send <- mustMarshal(h.decide(r, raw)):
		case <-done:
			return
		}
	}
}

func (h *Handler) decide(r *http.Request, raw []byte) message {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return message{Type: "error", Error: "invalid JSON: " + err.Error()}
	}
	fail := func(err error) message {
		return message{Type: "error", ID: req.ID, Error: err.Error()}
	}
	own, err := domain.BoardFromSlices(req.Own)
	if err != nil {
		return fail(err)
	}
	opp, err := domain.BoardFromSlices(req.Opponent)
	if err != nil {
		return fail(err)
	}
	col, st, err := h.UC.Choose(r.Context(), own, opp, req.Die, domain.ParseDifficulty(req.Difficulty))
	if err != nil {
		return fail(err)
	}
	return message{Type: "decision", ID: req.ID, Column: &col, Nodes: st.Nodes}
}

// writeWithHeartbeat drains send onto conn and writes a ping frame whenever
// the connection has been idle for a full interval.
func (h *Handler) writeWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(h.PingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping := mustMarshal(message{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < h.PingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
