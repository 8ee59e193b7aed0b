// Package services defines shared utilities consumed by the workflow step
// handlers and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and pack identifiers
//     for logging.
//   - Structured error markers plus the Wrap helper that let the workflow
//     decide whether a failed step is recoverable or aborts the run.
//
// Use these helpers when wiring new step logic so operational behaviour (error
// handling, observability, retries) stays uniform across the pipeline.
package services
