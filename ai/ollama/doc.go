// Package ollama implements the ai capability interfaces against an Ollama
// server, using langchaingo for embeddings and chat completion and the
// native tags endpoint for health and model diagnostics.
package ollama
