// Package server is the HTTP orchestration layer: JSON endpoints over the
// game service and the engine, plus a websocket evaluation feed. All wire
// formats live here; the engine and game packages know nothing about HTTP.
package server

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/robvecchiola/chess/engine"
	"github.com/robvecchiola/chess/game"
	"github.com/robvecchiola/chess/rules"
)

// Server wires the game manager, the engine and the eval hub behind a chi
// router.
type Server struct {
	cfg     Config
	log     zerolog.Logger
	manager *game.Manager
	hub     *EvalHub

	// One search at a time: the shared rng is not safe for concurrent use,
	// and concurrent searches would only fight over the same cores anyway.
	aiMu sync.Mutex
	rng  *rand.Rand

	colorMu  sync.Mutex
	aiColors map[string]chess.Color
}

// New builds a server from the loaded config.
func New(cfg Config, log zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		log:      log,
		manager:  game.NewManager(),
		hub:      NewEvalHub(log),
		aiColors: make(map[string]chess.Color),
	}
	if cfg.AISeed != 0 {
		s.rng = rand.New(rand.NewSource(cfg.AISeed))
	}
	return s
}

// Hub exposes the evaluation hub so the caller can run its broadcast loop.
func (s *Server) Hub() *EvalHub {
	return s.hub
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/game", s.handleCreateGame)
	r.Get("/api/state", s.handleState)
	r.Post("/api/move", s.handleMove)
	r.Post("/api/ai-move", s.handleAIMove)
	r.Post("/api/reset", s.handleReset)
	r.Post("/api/resign", s.handleResign)
	r.Get("/api/eval", s.handleEval)
	r.Get("/api/stats", s.handleStats)
	r.Get("/ws/eval", s.hub.ServeWS)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FEN string `json:"fen"`
	}
	// An empty body means the standard starting position.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	var g *game.Game
	var err error
	if payload.FEN != "" {
		g, err = s.manager.CreateFromFEN(payload.FEN)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		g = s.manager.Create()
	}
	s.log.Info().Str("game_id", g.ID()).Msg("game created")
	writeJSON(w, http.StatusCreated, g.FullState())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r.URL.Query().Get("game_id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.FullState())
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GameID    string `json:"game_id"`
		From      string `json:"from"`
		To        string `json:"to"`
		Promotion string `json:"promotion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	g, ok := s.lookup(w, payload.GameID)
	if !ok {
		return
	}

	uci := strings.ToLower(payload.From + payload.To + payload.Promotion)
	san, err := g.ExecuteMove(uci, false)
	if err != nil {
		if errors.Is(err, game.ErrGameOver) {
			writeError(w, http.StatusConflict, "the game is over")
			return
		}
		// Illegal moves are a normal user mistake, never a server error.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Info().Str("game_id", g.ID()).Str("move", uci).Str("san", san).Msg("move played")
	s.afterMove(g)
	writeJSON(w, http.StatusOK, g.FullState())
}

func (s *Server) handleAIMove(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GameID string `json:"game_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	g, ok := s.lookup(w, payload.GameID)
	if !ok {
		return
	}
	if g.Over() {
		writeJSON(w, http.StatusOK, g.FullState())
		return
	}

	aiColor := g.Turn()
	s.rememberAIColor(g.ID(), aiColor)

	pos := g.Position()
	cfg := engine.Config{
		Depth:           s.cfg.AIDepth,
		TopN:            s.cfg.AITopN,
		QuiescenceDepth: s.cfg.AIQuiescenceDepth,
		TimeBudget:      s.cfg.AITimeBudget,
	}

	s.aiMu.Lock()
	cfg.Rand = s.rng
	start := time.Now()
	move, err := engine.ChooseMove(pos, cfg)
	elapsed := time.Since(start)
	s.aiMu.Unlock()

	if err != nil {
		if errors.Is(err, engine.ErrNoLegalMoves) {
			writeJSON(w, http.StatusOK, g.FullState())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	uci := pos.UCI(move)
	san, err := g.ExecuteMove(uci, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info().
		Str("game_id", g.ID()).
		Str("move", uci).
		Str("san", san).
		Dur("search", elapsed).
		Int("depth", cfg.Depth).
		Msg("engine move")
	s.afterMove(g)
	writeJSON(w, http.StatusOK, g.FullState())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GameID string `json:"game_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	g, err := s.manager.Reset(payload.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	s.forgetAIColor(g.ID())
	s.log.Info().Str("game_id", g.ID()).Msg("game reset")
	writeJSON(w, http.StatusOK, g.FullState())
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GameID string `json:"game_id"`
		Color  string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	g, ok := s.lookup(w, payload.GameID)
	if !ok {
		return
	}

	var color chess.Color
	switch strings.ToLower(payload.Color) {
	case "white":
		color = chess.White
	case "black":
		color = chess.Black
	default:
		writeError(w, http.StatusBadRequest, "color must be white or black")
		return
	}
	if err := g.Resign(color); err != nil {
		writeError(w, http.StatusConflict, "the game is over")
		return
	}
	s.recordIfOver(g)
	s.log.Info().Str("game_id", g.ID()).Str("color", payload.Color).Msg("resignation")
	writeJSON(w, http.StatusOK, g.FullState())
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	fen := r.URL.Query().Get("fen")
	if fen == "" {
		writeError(w, http.StatusBadRequest, "fen query parameter required")
		return
	}
	pos, err := rules.FromFEN(fen)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fen":        pos.FEN(),
		"turn":       colorName(pos.Turn()),
		"check":      pos.InCheck(),
		"material":   engine.MaterialScore(pos),
		"evaluation": engine.Evaluate(pos),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.AIRecord())
}

// afterMove publishes the new evaluation and books the result if the move
// ended the game.
func (s *Server) afterMove(g *game.Game) {
	state := g.FullState()
	s.hub.Publish(EvalUpdate{
		GameID:     state.GameID,
		FEN:        state.FEN,
		Turn:       state.Turn,
		Material:   state.Material,
		Evaluation: state.Evaluation,
	})
	s.recordIfOver(g)
}

func (s *Server) recordIfOver(g *game.Game) {
	result, reason := g.Result()
	if result == "" {
		return
	}
	s.colorMu.Lock()
	aiColor, engaged := s.aiColors[g.ID()]
	delete(s.aiColors, g.ID())
	s.colorMu.Unlock()
	if engaged {
		s.manager.RecordResult(result, aiColor)
	}
	s.log.Info().Str("game_id", g.ID()).Str("result", result).Str("reason", reason).Msg("game over")
}

func (s *Server) rememberAIColor(id string, color chess.Color) {
	s.colorMu.Lock()
	if _, ok := s.aiColors[id]; !ok {
		s.aiColors[id] = color
	}
	s.colorMu.Unlock()
}

func (s *Server) forgetAIColor(id string) {
	s.colorMu.Lock()
	delete(s.aiColors, id)
	s.colorMu.Unlock()
}

func (s *Server) lookup(w http.ResponseWriter, id string) (*game.Game, bool) {
	if id == "" {
		writeError(w, http.StatusBadRequest, "game_id required")
		return nil, false
	}
	g, err := s.manager.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	return g, true
}

func colorName(c chess.Color) string {
	if c == chess.White {
		return "white"
	}
	return "black"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
