// Package main hosts the samplesort CLI entrypoint and command graph.
//
// Pipeline commands (run, classify, cluster, propose) read a JSON array of
// pack records, execute the matching workflow steps and render the result as
// tables or, with --json, as machine-readable output. Review commands inspect
// quarantined packs and manage manual overrides. The remaining commands show
// the active taxonomy, scaffold configuration and probe the AI endpoint.
//
// Keep this package thin: behavior lives in internal/workflow and the packages
// it composes.
package main
