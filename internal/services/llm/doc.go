// Package llm provides an OpenRouter-compatible chat client used as the
// transport behind the AI fallback classifier.
//
// The client sends a system prompt and a user prompt to the configured model,
// requests a JSON object response and returns the raw payload. Callers decode
// it with DecodeLLMJSON, which tolerates code fences and surrounding prose.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.CompleteJSON: send system/user prompts, receive the JSON payload.
// Client.CompleteInto: CompleteJSON followed by DecodeLLMJSON.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// Requests are retried on HTTP 408/429/5xx, empty completions and network
// timeouts with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default). Retry-After headers are honoured up to the max delay. Context
// cancellation aborts retries immediately.
package llm
