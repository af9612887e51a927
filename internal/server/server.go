// Package server serves the analyzer web page and its JSON API.
package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/sync/errgroup"

	"github.com/dyike/CoinPulse/internal/analyzer"
	"github.com/dyike/CoinPulse/internal/coins"
	"github.com/dyike/CoinPulse/internal/dataflows"
	"github.com/dyike/CoinPulse/internal/logger"
	"github.com/dyike/CoinPulse/internal/market"
)

//go:embed templates
var templateFiles embed.FS

const welcomeMessage = "Enter a cryptocurrency and click 'Analyze News' to get started!"

// Analyzer runs one analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, raw string) analyzer.Result
}

// NewsLister returns full article records for a search term.
type NewsLister interface {
	FetchFullArticles(ctx context.Context, searchName string) ([]dataflows.Article, error)
}

// Quoter returns spot prices.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (*market.Quote, error)
}

// Pinger checks the model runtime.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators behind the HTTP handlers. News, Quotes and
// Pinger are optional; their endpoints answer 503 when nil.
type Deps struct {
	Analyzer Analyzer
	Table    *coins.Table
	News     NewsLister
	Quotes   Quoter
	Pinger   Pinger
	Model    string
}

// Server is the web UI and JSON API.
type Server struct {
	addr   string
	deps   Deps
	router chi.Router
	page   *template.Template
	md     goldmark.Markdown

	// analyzeMu runs analyses one at a time; later requests wait their turn.
	analyzeMu sync.Mutex
}

// New builds the router and parses the page template. Nothing listens until
// Run is called.
func New(addr string, deps Deps) *Server {
	if deps.Table == nil {
		deps.Table = coins.DefaultTable()
	}

	s := &Server{
		addr: addr,
		deps: deps,
		page: template.Must(template.ParseFS(templateFiles, "templates/index.html")),
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		),
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Get().Infow("web UI listening", "addr", s.addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Get().Infow("shutting down web UI")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/analyze", s.handleAnalyzeForm)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))

		r.Post("/analyze", s.handleAnalyzeJSON)
		r.Get("/news", s.handleNews)
		r.Get("/quote/{symbol}", s.handleQuote)
	})

	return r
}

// analyze serializes calls into the analyzer.
func (s *Server) analyze(ctx context.Context, raw string) analyzer.Result {
	s.analyzeMu.Lock()
	defer s.analyzeMu.Unlock()
	return s.deps.Analyzer.Analyze(ctx, raw)
}

type pageData struct {
	Input    string
	Output   template.HTML
	Examples []string
	Coins    []coins.Entry
}

func (s *Server) renderPage(w http.ResponseWriter, input, markdown string) {
	data := pageData{
		Input:    input,
		Output:   s.renderMarkdown(markdown),
		Examples: coins.Examples(),
		Coins:    s.deps.Table.Entries(),
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		logger.Get().Errorw("render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// renderMarkdown converts a report to HTML. Raw HTML in the report is not
// passed through.
func (s *Server) renderMarkdown(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(markdown) + "</pre>")
	}
	return template.HTML(buf.String())
}
