package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yamato-research/kessan-cli/internal/locator"
	"github.com/yamato-research/kessan-cli/internal/model"
	"github.com/yamato-research/kessan-cli/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticker string `json:"ticker"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.Ticker)
	if err != nil {
		var nf *locator.NotFoundError
		if errors.As(err, &nf) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		zap.L().Error("analyze request failed", zap.String("ticker", req.Ticker), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	candles, err := s.yahoo.History(r.Context(), ticker, s.years)
	if err != nil {
		zap.L().Error("price request failed", zap.String("ticker", ticker), zap.Error(err))
		writeError(w, http.StatusBadGateway, "price lookup failed")
		return
	}
	if len(candles) == 0 {
		writeError(w, http.StatusNotFound, "no price history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ticker":  ticker,
		"close":   candles[len(candles)-1].Close,
		"date":    candles[len(candles)-1].Date.Format("2006-01-02"),
		"candles": len(candles),
	})
}

func (s *Server) handleRunsList(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "run store not configured")
		return
	}

	filter := store.RunFilter{
		Status: model.RunStatus(r.URL.Query().Get("status")),
		Ticker: r.URL.Query().Get("ticker"),
	}
	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("runs list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunsShow(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "run store not configured")
		return
	}

	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
