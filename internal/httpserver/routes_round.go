// internal/httpserver/routes_round.go
//
// REST-driven rounds: the client owns the frame clock and posts one
// request per animation frame.
//   - POST /round/new   → start a round for a selection (or report it unplayable)
//   - POST /round/tick  → step one frame; records the result when the round finishes
//   - POST /round/move  → left/right, fine (keyboard) or coarse (tap)
//   - POST /round/stop  → abandon the round
//   - GET  /round/{id}  → current snapshot
//
// Sessions are held in memory and only visible to the player who started them.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/catch/internal/catch"
	"github.com/robalobadob/catch/internal/scores"
	"github.com/robalobadob/catch/internal/store"
)

func (s *Server) mountRounds(r chi.Router) {
	r.Post("/round/new", s.handleNewRound)
	r.Post("/round/tick", s.handleTick)
	r.Post("/round/move", s.handleMove)
	r.Post("/round/stop", s.handleStop)
	r.Get("/round/{id}", s.handleGetRound)
}

// -----------------------------------------------------------------------------
// /round/new

type newRoundReq struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Mode        string  `json:"mode"`
	Ts          float64 `json:"ts"` // client frame clock, ms
}

type frameRes struct {
	Snapshot catch.Snapshot `json:"snapshot"`
	Events   []catch.Event  `json:"events"`
}

type newRoundRes struct {
	RoundID  string     `json:"roundId,omitempty"`
	Playable bool       `json:"playable"`
	Reason   string     `json:"reason,omitempty"`
	Mode     catch.Mode `json:"mode"`
	Frame    *frameRes  `json:"frame,omitempty"`
}

// handleNewRound resolves the selection and starts a round. An empty or
// malformed selection is not an error: the response says playable=false.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	owner := s.playerID(w, r)
	mode := s.opt.Catalog.ResolveMode(req.Category, req.Subcategory, requestedMode(req.Mode))

	round := catch.NewRound(s.opt.Params, s.opt.NewRand())
	events, err := round.Start(s.opt.Catalog.Items(req.Category, req.Subcategory), mode, req.Ts)
	if err != nil {
		if reason, ok := unplayable(err); ok {
			_ = json.NewEncoder(w).Encode(newRoundRes{Playable: false, Reason: reason, Mode: mode})
			return
		}
		log.Error().Err(err).Msg("start round")
		writeError(w, http.StatusInternalServerError, "start_failed")
		return
	}

	sess := &store.Session{
		ID:    uuid.NewString(),
		Owner: owner,
		Key:   scores.Key{Category: req.Category, Subcategory: req.Subcategory, Mode: string(mode)},
		Round: round,
	}
	round.ID = sess.ID
	if err := s.opt.Rounds.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("roundId", sess.ID).Str("key", sess.Key.ResultKey()).Msg("round started")

	_ = json.NewEncoder(w).Encode(newRoundRes{
		RoundID:  sess.ID,
		Playable: true,
		Mode:     mode,
		Frame:    &frameRes{Snapshot: round.Snapshot(), Events: events},
	})
}

// -----------------------------------------------------------------------------
// /round/tick

type tickReq struct {
	RoundID string  `json:"roundId"`
	Ts      float64 `json:"ts"`
}

type tickRes struct {
	frameRes
	Result    *catch.Result `json:"result,omitempty"`
	Highscore *int          `json:"highscore,omitempty"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req tickReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.ownSession(w, r, req.RoundID)
	if !ok {
		return
	}

	sess.Lock()
	events := sess.Round.Tick(req.Ts)
	res := tickRes{frameRes: frameRes{Snapshot: sess.Round.Snapshot(), Events: events}}
	var finished *catch.Result
	if !sess.Recorded {
		if out, err := sess.Round.Result(); err == nil {
			sess.Recorded = true
			finished = &out
		}
	}
	sess.Unlock()

	if finished != nil {
		best := s.recordResult(r.Context(), sess.Owner, userFrom(r), sess.Key, *finished)
		res.Result, res.Highscore = finished, &best
	}
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /round/move

type moveReq struct {
	RoundID string `json:"roundId"`
	Dir     string `json:"dir"`  // left | right
	Step    string `json:"step"` // fine | coarse
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	dir, step, err := parseMove(req.Dir, req.Step)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, ok := s.ownSession(w, r, req.RoundID)
	if !ok {
		return
	}
	sess.Lock()
	sess.Round.Move(dir, step)
	player := sess.Round.Player()
	sess.Unlock()
	_ = json.NewEncoder(w).Encode(map[string]any{"player": player})
}

// -----------------------------------------------------------------------------
// /round/stop, /round/{id}

type roundIDReq struct {
	RoundID string `json:"roundId"`
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	var req roundIDReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.ownSession(w, r, req.RoundID)
	if !ok {
		return
	}
	sess.Lock()
	sess.Round.Stop()
	sess.Unlock()
	_ = s.opt.Rounds.Delete(r.Context(), sess.ID)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownSession(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sess.Lock()
	snap := sess.Round.Snapshot()
	sess.Unlock()
	_ = json.NewEncoder(w).Encode(snap)
}

// -----------------------------------------------------------------------------
// helpers

// ownSession loads a session owned by the caller, writing 404 otherwise.
func (s *Server) ownSession(w http.ResponseWriter, r *http.Request, id string) (*store.Session, bool) {
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_round_id")
		return nil, false
	}
	sess, err := s.opt.Rounds.Get(r.Context(), id)
	if err != nil || sess.Owner != s.playerID(w, r) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

// recordResult persists a finished round (best effort) and returns the
// owner's highscore for the selection.
func (s *Server) recordResult(ctx context.Context, owner string, me *authUser, k scores.Key, res catch.Result) int {
	best, err := s.opt.Scores.Record(ctx, owner, k, res)
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Str("key", k.HighscoreKey()).Msg("record result")
		best = res.Score
	}
	if me != nil && s.db != nil {
		if err := s.bumpStats(ctx, me.ID, res.Score); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
	log.Info().Str("owner", owner).Str("key", k.ResultKey()).
		Int("score", res.Score).Int("right", res.Right).Int64("ms", res.Ms).
		Msg("round finished")
	return best
}

// requestedMode defaults to letter, like the selection UI.
func requestedMode(s string) catch.Mode {
	if s == "" {
		return catch.ModeLetter
	}
	return catch.ParseMode(s)
}

// unplayable maps selection errors to a reason for the client.
func unplayable(err error) (string, bool) {
	switch {
	case errors.Is(err, catch.ErrNoItems):
		return "no_items", true
	case errors.Is(err, catch.ErrEmptySequence):
		return "empty_item", true
	}
	return "", false
}

func parseMove(dir, step string) (catch.Direction, catch.Step, error) {
	var d catch.Direction
	switch dir {
	case "left":
		d = catch.Left
	case "right":
		d = catch.Right
	default:
		return 0, 0, errors.New("bad_dir")
	}
	switch step {
	case "", "fine":
		return d, catch.StepFine, nil
	case "coarse":
		return d, catch.StepCoarse, nil
	}
	return 0, 0, errors.New("bad_step")
}
