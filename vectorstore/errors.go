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


package vectorstore

import "errors"

var (
	// ErrDimensionMismatch is returned when vectors of differing length
	// are compared. It signals an embedding-model mismatch between
	// ingestion and query time and should not be caught and retried.
	ErrDimensionMismatch = errors.New("vectors must have the same length")
)
