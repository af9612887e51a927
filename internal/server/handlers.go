package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dyike/CoinPulse/internal/dataflows"
	"github.com/dyike/CoinPulse/internal/logger"
	"github.com/dyike/CoinPulse/internal/market"
)

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Input string `json:"input"`
}

// AnalyzeResponse reports one analysis. Report is the rendered markdown.
type AnalyzeResponse struct {
	Input     string `json:"input"`
	Kind      string `json:"kind"`
	Result    string `json:"result"`
	Symbol    string `json:"symbol,omitempty"`
	Articles  int    `json:"articles"`
	RequestID string `json:"request_id"`
}

// NewsResponse lists the articles found for a query.
type NewsResponse struct {
	Symbol     string              `json:"symbol"`
	SearchName string              `json:"search_name"`
	Count      int                 `json:"count"`
	Articles   []dataflows.Article `json:"articles"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	LLM    string `json:"llm"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "BTC", welcomeMessage)
}

func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	raw := r.PostForm.Get("coin")

	res := s.analyze(r.Context(), raw)
	s.renderPage(w, raw, res.String())
}

func (s *Server) handleAnalyzeJSON(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := s.analyze(r.Context(), req.Input)
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Input:     req.Input,
		Kind:      string(res.Kind),
		Result:    res.String(),
		Symbol:    res.Query.Symbol,
		Articles:  res.Articles,
		RequestID: res.RequestID,
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if s.deps.News == nil {
		writeError(w, http.StatusServiceUnavailable, "news listing is not configured")
		return
	}
	raw := r.URL.Query().Get("q")
	if strings.TrimSpace(raw) == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	q := s.deps.Table.Normalize(raw)
	articles, err := s.deps.News.FetchFullArticles(r.Context(), q.SearchName)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if articles == nil {
		articles = []dataflows.Article{}
	}

	writeJSON(w, http.StatusOK, NewsResponse{
		Symbol:     q.Symbol,
		SearchName: q.SearchName,
		Count:      len(articles),
		Articles:   articles,
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if s.deps.Quotes == nil {
		writeError(w, http.StatusServiceUnavailable, "quotes are not configured")
		return
	}
	symbol := s.deps.Table.Normalize(chi.URLParam(r, "symbol")).Symbol
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	quote, err := s.deps.Quotes.Quote(ctx, symbol)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*market.Quote
		Summary string `json:"summary"`
	}{quote, quote.Summary()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Model: s.deps.Model, LLM: "unchecked"}
	status := http.StatusOK

	if s.deps.Pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.deps.Pinger.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.LLM = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.LLM = "ok"
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Get().Warnw("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
