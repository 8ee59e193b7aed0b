// Package proposal turns a pack matrix into ranked folder-structure
// proposals.
//
// Each candidate orders the matrix axes (family, type, style) into folder
// levels, previews the resulting tree, and is scored on balance,
// compatibility with the collection and simplicity. The highest scoring
// proposal is marked recommended.
package proposal
