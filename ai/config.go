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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Host is the base URL for the model runtime.
	// Example: "http://localhost:11434" for a local Ollama server.
	Host string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "nomic-embed-text", "embeddinggemma"
	EmbeddingModel string

	// CompletionModel is the model identifier to use for answer generation.
	// Example: "llama3", "deepseek-r1:14b"
	CompletionModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the model runtime host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CompletionModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for a local Ollama server.
func DefaultConfig() *Config {
	return &Config{
		Host:            "http://localhost:11434",
		EmbeddingModel:  "nomic-embed-text",
		CompletionModel: "llama3",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),
//	    ai.WithCompletionModel("deepseek-r1:14b"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. The Ollama
// native API takes the bare host, so trailing slashes and an accidental
// OpenAI-compatibility /v1 suffix are stripped.
func (c *Config) Normalize() {
	c.Host = strings.TrimSuffix(c.Host, "/")
	c.Host = strings.TrimSuffix(c.Host, "/v1")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.CompletionModel == "" {
		return errors.New("ai config: CompletionModel is required")
	}
	return nil
}
