// Package server exposes the chat pipeline over HTTP: a conversational
// /api/chat endpoint with stock short-circuiting and a demo-mode fallback,
// plus status, document enumeration, and market data endpoints.
package server
