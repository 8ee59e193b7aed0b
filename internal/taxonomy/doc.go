// Package taxonomy holds the closed genre vocabulary packs are classified
// into: families, their styles, weighted keywords and exclusion terms.
//
// An Index is built once with New and never mutated afterwards, so it can be
// shared freely across goroutines. Default returns a small built-in taxonomy;
// Load parses a YAML or JSON document and LoadOrDefault falls back to the
// built-in taxonomy on any error.
package taxonomy
