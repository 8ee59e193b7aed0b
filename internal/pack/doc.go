// Package pack defines the records exchanged between the discovery layer and
// the classification core.
//
// A Pack carries facts that were already extracted upstream (name, tags, file
// counts, tempo, internal folder layout, bundle membership). The core never
// mutates packs; classification results travel alongside them as
// Classification values so callers decide how to attach them.
//
// FolderPath is the clustering unit derived from a pack's internal structure.
package pack
