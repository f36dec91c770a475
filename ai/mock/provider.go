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


package mock

import (
	"context"

	"github.com/docuforge/docchat/ai"
)

// MockProvider is a test double for ai.Provider.
// It aggregates mock embedder and completer instances.
type MockProvider struct {
	embedder  *MockEmbedder
	completer *MockCompleter

	// Healthy controls CheckHealth. Defaults to true.
	Healthy bool
	// Models is returned by ListModels.
	Models []string
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockCompleter() to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		completer: NewMockCompleter(),
		Healthy:   true,
		Models:    []string{"mock-model"},
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, completer *MockCompleter) ai.Provider {
	return &MockProvider{
		embedder:  embedder,
		completer: completer,
		Healthy:   true,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the mock completer.
func (p *MockProvider) Completer() ai.Completer {
	return p.completer
}

// CheckHealth reports the configured health state.
func (p *MockProvider) CheckHealth(ctx context.Context) bool {
	return p.Healthy
}

// ListModels returns the configured model list.
func (p *MockProvider) ListModels(ctx context.Context) []string {
	return p.Models
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockCompleter returns the underlying mock completer for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockCompleter() *MockCompleter {
	return p.completer
}
