// Package aifallback implements the AI stage of the classification cascade.
//
// LLMAdapter sends unresolved packs to an OpenAI-compatible chat completion
// endpoint through a circuit breaker, then validates each answer against the
// taxonomy before handing it back. Static serves canned answers for tests and
// offline runs.
package aifallback
