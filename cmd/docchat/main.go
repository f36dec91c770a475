// Copyright 2025 Docuforge
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/docuforge/docchat/ai"
	"github.com/docuforge/docchat/ai/ollama"
	"github.com/docuforge/docchat/browsing"
	"github.com/docuforge/docchat/core"
	"github.com/docuforge/docchat/data"
	"github.com/docuforge/docchat/ingestion"
	"github.com/docuforge/docchat/retrieval"
	"github.com/docuforge/docchat/routing"
	"github.com/docuforge/docchat/server"
	"github.com/docuforge/docchat/stock"
	"github.com/docuforge/docchat/vectorstore"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "docchat",
		Usage: "Document-grounded chatbot with relevance-routed retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the chat API server",
				Action: serveCommand,
				Flags: append(pipelineFlags(),
					&cli.StringFlag{
						Name:  "host",
						Usage: "HTTP listen host",
						Value: "0.0.0.0",
					},
					&cli.IntFlag{
						Name:    "port",
						Usage:   "HTTP listen port",
						Value:   3001,
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "alpha-vantage-key",
						Usage:   "Alpha Vantage API key for stock data",
						EnvVars: []string{"ALPHA_VANTAGE_API_KEY"},
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a single question against the built-in document",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags:     pipelineFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ollama-host",
			Usage:   "Ollama server URL",
			Value:   "http://localhost:11434",
			EnvVars: []string{"OLLAMA_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "nomic-embed-text",
			EnvVars: []string{"OLLAMA_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "completion-model",
			Usage:   "Completion model name",
			Value:   "llama3",
			EnvVars: []string{"OLLAMA_MODEL"},
		},
		&cli.StringFlag{
			Name:    "serpapi-key",
			Usage:   "SerpAPI key enabling web augmentation for marginal queries",
			EnvVars: []string{"SERPAPI_API_KEY"},
		},
		&cli.Float64Flag{
			Name:  "low-threshold",
			Usage: "Similarity below which queries are refused as out of scope",
			Value: routing.DefaultLowThreshold,
		},
		&cli.Float64Flag{
			Name:  "high-threshold",
			Usage: "Similarity at which document context alone is trusted",
			Value: routing.DefaultHighThreshold,
		},
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Number of chunks retrieved per query",
			Value: retrieval.DefaultTopK,
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "Chunk target size in characters",
			Value: ingestion.DefaultTargetSize,
		},
		&cli.IntFlag{
			Name:  "chunk-overlap",
			Usage: "Overlap between consecutive chunks in characters",
			Value: ingestion.DefaultOverlap,
		},
	}
}

// pipeline bundles everything both commands need.
type pipeline struct {
	config    *ai.Config
	provider  ai.Provider
	processor *ingestion.Processor
	index     *vectorstore.Index
	loader    *ingestion.Loader
	retriever *retrieval.Retriever
	agent     *browsing.Agent
}

func (p *pipeline) close() {
	if p.agent != nil {
		p.agent.Release()
	}
	if p.processor != nil {
		p.processor.Release()
	}
	if p.provider != nil {
		p.provider.Close()
	}
}

func buildPipeline(c *cli.Context) (*pipeline, error) {
	cfg := ai.NewConfig(
		ai.WithHost(c.String("ollama-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCompletionModel(c.String("completion-model")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := ollama.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai provider: %w", err)
	}

	p := &pipeline{config: cfg, provider: provider}

	p.processor, err = ingestion.NewProcessor(provider.Embedder(),
		ingestion.WithChunkSize(c.Int("chunk-size"), c.Int("chunk-overlap")))
	if err != nil {
		p.close()
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}

	p.index = vectorstore.NewIndex()
	p.loader = ingestion.NewLoader(func(ctx context.Context) error {
		content, info := data.SampleDocument()
		chunks := p.processor.ProcessText(content, data.SampleSourceLabel, &info)
		p.index.AddChunks(p.processor.GenerateEmbeddings(ctx, chunks))
		return nil
	})

	routerOpts := []routing.RouterOption{
		routing.WithThresholds(c.Float64("low-threshold"), c.Float64("high-threshold")),
	}
	if key := c.String("serpapi-key"); key != "" {
		p.agent, err = browsing.NewAgent(key)
		if err != nil {
			p.close()
			return nil, fmt.Errorf("failed to create web search agent: %w", err)
		}
		routerOpts = append(routerOpts, routing.WithSearcher(p.agent))
	} else {
		slog.Info("no SerpAPI key configured, web augmentation disabled")
	}

	router, err := routing.NewRouter(routerOpts...)
	if err != nil {
		p.close()
		return nil, err
	}

	p.retriever, err = retrieval.NewRetriever(provider.Embedder(), p.index, router, p.processor,
		retrieval.WithTopK(c.Int("top-k")))
	if err != nil {
		p.close()
		return nil, err
	}

	return p, nil
}

func serveCommand(c *cli.Context) error {
	p, err := buildPipeline(c)
	if err != nil {
		return err
	}
	defer p.close()

	srv, err := server.NewServer(
		server.Config{Host: c.String("host"), Port: c.Int("port")},
		server.Deps{
			Retriever: p.retriever,
			Provider:  p.provider,
			Processor: p.processor,
			Index:     p.index,
			Loader:    p.loader,
			Stocks:    stock.NewClient(c.String("alpha-vantage-key")),
			AIConfig:  *p.config,
		},
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: docchat ask <question>")
	}

	p, err := buildPipeline(c)
	if err != nil {
		return err
	}
	defer p.close()

	ctx := c.Context
	if err := p.loader.Ensure(ctx); err != nil {
		return fmt.Errorf("document ingestion failed: %w", err)
	}

	decision, err := p.retriever.Retrieve(ctx, question)
	if err != nil {
		return err
	}

	answer := decision.ContextText
	if decision.Tier != core.TierOutOfScope {
		answer, err = p.provider.Completer().Complete(ctx, question, decision.ContextText, nil,
			p.processor.OutOfScopeResponse())
		if err != nil {
			return err
		}
	}

	fmt.Println(answer)
	if len(decision.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range decision.Sources {
			fmt.Printf("  - [%s] %s\n", src.Kind, src.Title)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
