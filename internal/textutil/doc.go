// Package textutil provides text processing utilities shared by the
// classification and clustering code.
//
// The primary use cases are:
//   - Normalizing free text (pack names, tags) into a searchable form
//   - Splitting folder names into comparable tokens (camelCase, separators,
//     diacritics, plurals and common sample-library abbreviations)
//   - Token fingerprints with cosine similarity, token-set Jaccard and
//     edit-distance ratios
//   - Sanitizing filenames and path segments for safe filesystem use
//
// Diacritic folding uses golang.org/x/text so "Café Vox" and "cafe vox"
// compare equal.
package textutil
