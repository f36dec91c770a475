package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docuforge/docchat/ai"
	"github.com/docuforge/docchat/ingestion"
	"github.com/docuforge/docchat/intent"
	"github.com/docuforge/docchat/retrieval"
	"github.com/docuforge/docchat/stock"
	"github.com/docuforge/docchat/vectorstore"
)

// Config holds the HTTP listener settings.
type Config struct {
	Host string
	Port int
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Deps are the collaborators the server drives. Retriever, Provider,
// Processor, Index and Loader are required; Classifier defaults to the
// keyword heuristic and Stocks to a demo-key client.
type Deps struct {
	Retriever  *retrieval.Retriever
	Provider   ai.Provider
	Processor  *ingestion.Processor
	Index      *vectorstore.Index
	Loader     *ingestion.Loader
	Classifier intent.Classifier
	Stocks     *stock.Client
	AIConfig   ai.Config
}

// Server is the HTTP API over the retrieval pipeline.
type Server struct {
	retriever  *retrieval.Retriever
	provider   ai.Provider
	processor  *ingestion.Processor
	index      *vectorstore.Index
	loader     *ingestion.Loader
	classifier intent.Classifier
	stocks     *stock.Client
	aiConfig   ai.Config

	config    Config
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates the HTTP server with the given dependencies.
func NewServer(config Config, deps Deps, opts ...Option) (*Server, error) {
	switch {
	case deps.Retriever == nil:
		return nil, ErrRetrieverRequired
	case deps.Provider == nil:
		return nil, ErrProviderRequired
	case deps.Processor == nil:
		return nil, ErrProcessorRequired
	case deps.Index == nil:
		return nil, ErrIndexRequired
	case deps.Loader == nil:
		return nil, ErrLoaderRequired
	}

	if deps.Classifier == nil {
		deps.Classifier = intent.NewHeuristic()
	}
	if deps.Stocks == nil {
		deps.Stocks = stock.NewClient("")
	}

	s := &Server{
		retriever:  deps.Retriever,
		provider:   deps.Provider,
		processor:  deps.Processor,
		index:      deps.Index,
		loader:     deps.Loader,
		classifier: deps.Classifier,
		stocks:     deps.Stocks,
		aiConfig:   deps.AIConfig,
		config:     config,
		logger:     slog.Default().With("component", "server"),
		startedAt:  time.Now(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// routes builds the router. Split out so handler tests can exercise the
// full middleware stack without a listener.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/status", s.handleStatus)
		r.Get("/documents", s.handleDocuments)
		r.Route("/stock", func(r chi.Router) {
			r.Get("/quote/{symbol}", s.handleStockQuote)
			r.Get("/intraday/{symbol}", s.handleStockIntraday)
			r.Get("/overview/{symbol}", s.handleStockOverview)
		})
	})

	return r
}

// Start runs startup ingestion, then serves HTTP until the listener stops.
// Ingestion failure is logged but not fatal: the loader retries on the
// first request, matching its lifecycle contract.
func (s *Server) Start(ctx context.Context) error {
	if err := s.loader.Ensure(ctx); err != nil {
		s.logger.Error("startup ingestion failed, will retry on first request", "err", err)
	} else {
		s.logger.Info("document index ready", "chunks", s.index.Count())
	}

	if s.provider.CheckHealth(ctx) {
		s.logger.Info("model host reachable", "models", s.provider.ListModels(ctx))
	} else {
		s.logger.Warn("model host unreachable, chat will run in demo mode", "host", s.aiConfig.Host)
	}

	s.server = &http.Server{
		Addr:    s.config.Addr(),
		Handler: s.routes(),
	}
	s.logger.Info("starting server", "addr", s.config.Addr())

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
