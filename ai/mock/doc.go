// Package mock provides test double implementations of the AI capability
// interfaces.
//
// The mocks allow tests to run without external model services and enable
// controlled, deterministic behavior:
//
//   - MockEmbedder: returns deterministic FNV-seeded vectors, so embedding
//     the same text twice yields similarity 1.0
//   - MockCompleter: echoes a canned grounded answer, or the refusal text
//     when no context is supplied
//   - MockProvider: aggregates both with configurable health and model list
//
// Behavior can be injected through the exported Func fields, and call
// counts asserted through CallCount().
package mock
