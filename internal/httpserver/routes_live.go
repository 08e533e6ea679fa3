// internal/httpserver/routes_live.go
//
// Live play over a WebSocket (GET /round/ws). The server owns the frame
// clock: a loop.Runner ticks the round and pushes every frame.
//
// Client → server:
//   {"type":"start","category":"…","subcategory":"…","mode":"letter"}
//   {"type":"move","dir":"left","step":"fine"}
//   {"type":"stop"}
// Server → client:
//   {"type":"frame","frame":{…}}
//   {"type":"finished","result":{…},"highscore":N}
//   {"type":"unplayable","reason":"no_items"}
//   {"type":"error","error":"…"}

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/catch/internal/catch"
	"github.com/robalobadob/catch/internal/loop"
	"github.com/robalobadob/catch/internal/scores"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 4096
)

// newUpgrader accepts same-host clients (no Origin) and the configured
// client origin.
func newUpgrader(origin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == origin
		},
	}
}

type liveCmd struct {
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Dir         string `json:"dir,omitempty"`
	Step        string `json:"step,omitempty"`
}

type liveMsg struct {
	Type      string        `json:"type"`
	Frame     *loop.Frame   `json:"frame,omitempty"`
	Result    *catch.Result `json:"result,omitempty"`
	Highscore *int          `json:"highscore,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// liveConn serializes writes from the loop goroutine and the reader. The
// first failed write calls onDead; later sends fail fast.
type liveConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	dead   bool
	onDead func()
}

func (c *liveConn) send(m liveMsg) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dead {
		return errConnDead
	}
	err := c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err == nil {
		err = c.conn.WriteJSON(m)
	}
	if err != nil {
		c.dead = true
		if c.onDead != nil {
			c.onDead()
		}
	}
	return err
}

var errConnDead = errors.New("live: connection closed")

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	// Identity must be settled before the upgrade writes headers.
	owner := s.playerID(w, r)
	me := userFrom(r)

	// Upgrade writes its own response; carry over a freshly issued guest cookie.
	var hdr http.Header
	if c := w.Header().Values("Set-Cookie"); len(c) > 0 {
		hdr = http.Header{"Set-Cookie": c}
	}
	conn, err := s.upgrader.Upgrade(w, r, hdr)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// A dead peer stops the runner and unblocks the read loop.
	out := &liveConn{conn: conn, onDead: func() {
		cancel()
		_ = conn.Close()
	}}

	runner := loop.New(catch.NewRound(s.opt.Params, s.opt.NewRand()), loop.Options{
		FrameRate: s.opt.FrameRate,
		OnFrame: func(f loop.Frame) {
			_ = out.send(liveMsg{Type: "frame", Frame: &f})
		},
		OnFinish: func(res catch.Result, tag any) {
			k, _ := tag.(scores.Key)
			best := s.recordResult(ctx, owner, me, k, res)
			_ = out.send(liveMsg{Type: "finished", Result: &res, Highscore: &best})
		},
	})
	go func() { _ = runner.Run(ctx) }()

	log.Debug().Str("owner", owner).Msg("live session opened")
	if snap, err := runner.Snapshot(); err == nil {
		if err := out.send(liveMsg{Type: "frame", Frame: &loop.Frame{Snapshot: snap}}); err != nil {
			return
		}
	}
	for {
		var cmd liveCmd
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("owner", owner).Msg("live session closed")
			}
			return
		}

		switch cmd.Type {
		case "start":
			mode := s.opt.Catalog.ResolveMode(cmd.Category, cmd.Subcategory, requestedMode(cmd.Mode))
			key := scores.Key{Category: cmd.Category, Subcategory: cmd.Subcategory, Mode: string(mode)}
			err := runner.Start(s.opt.Catalog.Items(cmd.Category, cmd.Subcategory), mode, key)
			if reason, ok := unplayable(err); ok {
				_ = out.send(liveMsg{Type: "unplayable", Reason: reason})
			} else if err != nil {
				_ = out.send(liveMsg{Type: "error", Error: err.Error()})
			}
		case "move":
			dir, step, err := parseMove(cmd.Dir, cmd.Step)
			if err != nil {
				_ = out.send(liveMsg{Type: "error", Error: err.Error()})
				continue
			}
			_ = runner.Move(dir, step)
		case "stop":
			_ = runner.Stop()
		default:
			_ = out.send(liveMsg{Type: "error", Error: "unknown_type"})
		}
	}
}
