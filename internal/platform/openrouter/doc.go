// Package openrouter implements the chat-completion client for the
// OpenRouter API: request construction with optional system message and
// structured-output schema, a local sliding-window rate limiter, a
// per-attempt 30-second deadline, typed error classification, and retry
// with exponential backoff. The Generator type adapts the client to the
// generation.Generator boundary.
package openrouter
