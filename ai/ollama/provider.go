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


package ollama

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/docuforge/docchat/ai"
)

// Provider implements ai.Provider against an Ollama server.
// It manages embedder and completer instances sharing one configuration.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	completer *Completer
	http      *http.Client
	logger    *slog.Logger
}

// NewProvider creates a new AI provider backed by an Ollama server.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction and
// prevent coupling to Ollama-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	completer, err := newCompleter(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		completer: completer,
		http:      &http.Client{Timeout: 5 * time.Second},
		logger:    slog.Default().With("component", "ollama-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the answer generation service.
func (p *Provider) Completer() ai.Completer {
	return p.completer
}

// CheckHealth probes the Ollama tags endpoint. langchaingo exposes no
// liveness call, so this goes to the API directly.
func (p *Provider) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.Host+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// tagsResponse mirrors the Ollama /api/tags payload.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the models available on the server. Best-effort: any
// failure yields an empty slice, never an error.
func (p *Provider) ListModels(ctx context.Context) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.Host+"/api/tags", nil)
	if err != nil {
		return nil
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		p.logger.Debug("malformed tags response", "err", err)
		return nil
	}

	names := make([]string, 0, len(tags.Models))
	for _, model := range tags.Models {
		names = append(names, model.Name)
	}
	return names
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing Ollama provider")
	return nil
}
