// internal/httpserver/routes_catalog.go
//
// Selection and score lookups:
//   - GET /catalog                         → categories with their subcategories
//   - GET /catalog/{cat}/{sub}?mode=       → modes on offer, resolved mode, highscore
//   - GET /catalog/{cat}/{sub}/preview?mode= → numbered target sequences
//   - GET /scores/{cat}/{sub}/{mode}       → highscore, last result, leaderboard

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/catch/internal/catalog"
	"github.com/robalobadob/catch/internal/catch"
	"github.com/robalobadob/catch/internal/scores"
)

func (s *Server) mountCatalog(r chi.Router) {
	r.Get("/catalog", s.handleCatalog)
	r.Get("/catalog/{cat}/{sub}", s.handleSelection)
	r.Get("/catalog/{cat}/{sub}/preview", s.handlePreview)
}

func (s *Server) mountScores(r chi.Router) {
	r.Get("/scores/{cat}/{sub}/{mode}", s.handleScores)
}

type categoryRes struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	out := []categoryRes{}
	for _, c := range s.opt.Catalog.Categories() {
		out = append(out, categoryRes{Name: c, Subcategories: s.opt.Catalog.Subcategories(c)})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"categories": out})
}

type selectionRes struct {
	Modes     []catch.Mode `json:"modes"`
	Mode      catch.Mode   `json:"mode"`
	Items     int          `json:"items"`
	Highscore int          `json:"highscore"`
}

// handleSelection answers a selection change: which modes exist, which one
// to switch to, and the player's highscore for it.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	cat, sub := pathParam(r, "cat"), pathParam(r, "sub")
	mode := s.opt.Catalog.ResolveMode(cat, sub, requestedMode(r.URL.Query().Get("mode")))
	key := scores.Key{Category: cat, Subcategory: sub, Mode: string(mode)}

	best, err := s.opt.Scores.Highscore(r.Context(), s.playerID(w, r), key)
	if err != nil {
		log.Warn().Err(err).Str("key", key.HighscoreKey()).Msg("load highscore")
	}
	_ = json.NewEncoder(w).Encode(selectionRes{
		Modes:     s.opt.Catalog.Modes(cat, sub),
		Mode:      mode,
		Items:     len(s.opt.Catalog.Specs(cat, sub)),
		Highscore: best,
	})
}

type previewRes struct {
	Title   string                `json:"title"`
	Lines   []catalog.PreviewLine `json:"lines"`
	Message string                `json:"message,omitempty"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	cat, sub := pathParam(r, "cat"), pathParam(r, "sub")
	mode := requestedMode(r.URL.Query().Get("mode"))
	res := previewRes{Title: "Catch Preview — " + cat + " / " + sub + " (" + string(mode) + ")", Lines: []catalog.PreviewLine{}}

	lines, err := s.opt.Catalog.Preview(cat, sub, mode)
	switch {
	case errors.Is(err, catch.ErrNoItems):
		res.Title, res.Message = "Catch Preview", "No items."
	case errors.Is(err, catalog.ErrNoMatchingItems):
		res.Message = "No matching items."
	default:
		res.Lines = lines
	}
	_ = json.NewEncoder(w).Encode(res)
}

type scoresRes struct {
	HighscoreKey string        `json:"highscoreKey"`
	Highscore    int           `json:"highscore"`
	ResultKey    string        `json:"resultKey"`
	Last         *catch.Result `json:"last"`
	Leaderboard  []scores.Row  `json:"leaderboard"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	key := scores.Key{Category: pathParam(r, "cat"), Subcategory: pathParam(r, "sub"), Mode: pathParam(r, "mode")}
	owner := s.playerID(w, r)

	best, err := s.opt.Scores.Highscore(r.Context(), owner, key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	res := scoresRes{HighscoreKey: key.HighscoreKey(), Highscore: best, ResultKey: key.ResultKey()}
	if last, ok, err := s.opt.Scores.LastResult(r.Context(), owner, key); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	} else if ok {
		res.Last = &last
	}
	rows, err := s.opt.Scores.Leaderboard(r.Context(), key, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	res.Leaderboard = rows
	_ = json.NewEncoder(w).Encode(res)
}

// pathParam returns an unescaped chi URL parameter.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
