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


// Package core defines the domain model shared across DocChat.
//
// The central types are Chunk (a bounded, independently retrievable span of
// document text), IndexedChunk (a chunk paired with its embedding vector),
// ScoredMatch (a similarity-search hit) and RoutingDecision (the outcome of
// relevance routing for one query).
//
// Entity IDs are content-derived BLAKE2b hashes, so re-ingesting identical
// text yields identical IDs without any coordination.
package core
