// Package config loads, normalizes, and validates samplesort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SAMPLESORT_AI_API_KEY and OPENROUTER_API_KEY. The Config type centralizes
// every threshold the classification cascade, clustering engine, fusion
// builder and proposal generator need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
