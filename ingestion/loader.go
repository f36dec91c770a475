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


package ingestion

import (
	"context"
	"log/slog"
	"sync"
)

// State is the lifecycle state of one-time document ingestion.
type State int

const (
	// StateUninitialized means ingestion has not been attempted.
	StateUninitialized State = iota
	// StateInitializing means an ingestion attempt is in flight.
	StateInitializing
	// StateReady means ingestion completed and queries may proceed.
	StateReady
	// StateFailed means the last ingestion attempt failed; the next
	// Ensure call retries.
	StateFailed
)

// String returns the state name used in logs and status reports.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader guards one-time ingestion behind an explicit lifecycle state
// machine. Concurrent callers during an in-flight initialization share that
// attempt rather than starting their own; a failed attempt is retried by
// the next caller.
type Loader struct {
	mu     sync.Mutex
	state  State
	err    error
	done   chan struct{} // closed when the in-flight attempt finishes
	run    func(context.Context) error
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets a custom logger.
// Default is slog.Default().
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
	}
}

// NewLoader creates a loader around the given ingestion function. The
// function runs at most once per attempt; it typically chunks, embeds and
// indexes the startup document set.
func NewLoader(run func(context.Context) error, opts ...LoaderOption) *Loader {
	l := &Loader{
		run:    run,
		logger: slog.Default().With("component", "loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Ensure makes sure ingestion has completed, running it if necessary.
// Exactly one initialization runs at a time; concurrent callers block until
// the shared attempt finishes and observe its outcome. Returns nil once the
// loader is Ready.
func (l *Loader) Ensure(ctx context.Context) error {
	l.mu.Lock()

	switch l.state {
	case StateReady:
		l.mu.Unlock()
		return nil

	case StateInitializing:
		// Coalesce: wait for the in-flight attempt.
		done := l.done
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.state == StateReady {
			return nil
		}
		return l.err

	default: // StateUninitialized or StateFailed: this caller leads.
		if l.state == StateFailed {
			l.logger.Info("retrying failed initialization")
		}
		l.state = StateInitializing
		l.done = make(chan struct{})
		done := l.done
		l.mu.Unlock()

		err := l.run(ctx)

		l.mu.Lock()
		if err != nil {
			l.state = StateFailed
			l.err = err
			l.logger.Error("initialization failed", "err", err)
		} else {
			l.state = StateReady
			l.err = nil
			l.logger.Info("initialization complete")
		}
		close(done)
		l.mu.Unlock()
		return err
	}
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error from the last failed attempt, or nil.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
