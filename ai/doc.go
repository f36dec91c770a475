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


// Package ai provides abstractions for the AI capabilities DocChat consumes.
//
// This package defines the narrow contracts the retrieval core depends on:
//
//   - Embedder: embed(text) -> vector
//   - Completer: complete(query, context, history, refusal) -> text
//   - Provider: aggregates both plus health/diagnostic probes
//
// The core never depends on a specific model's transport; implementations
// live in sub-packages:
//
//   - ai/ollama: production implementation against an Ollama server
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors (ollama.NewProvider) return interface types to
// enforce abstraction. Mock constructors return concrete types so tests can
// inject behavior and assert call counts.
package ai
