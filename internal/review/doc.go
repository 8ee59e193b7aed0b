// Package review persists what the cascade could not decide on its own.
//
// The store is a small SQLite database with two tables: the latest quarantine
// entry per pack (reason, best candidate, run id) and operator overrides. The
// override table feeds the manual stage of the classification cascade through
// Store.Override, so a pack reviewed once is classified the same way on every
// later run.
//
// The schema is embedded and versioned. A database written by a different
// schema version is rejected with ErrSchemaMismatch; clear or delete it.
package review
