// Package workflow runs the classification and fusion pipeline over a batch
// of packs.
//
// A Manager owns the configured collaborators (taxonomy index, cascade,
// clustering engine, fusion builder, optional review store) and executes a
// fixed sequence of steps:
//
//	bundles → classify → review → matrix → clustering → fusion → proposals
//
// Each step logs "stage started"/"stage completed" with the run ID and stage
// name attached. Steps that fail with a validation or not-found marker are
// recorded on the Run and the remaining steps continue; any other failure
// aborts the run. Callers can execute a subset of steps; prerequisites are
// pulled in automatically.
//
// AcquireLock guards the review database against two runs writing it at the
// same time.
package workflow
