// Package fusion promotes folder clusters into merge plans.
//
// A cluster becomes a fusion group when it collects folders from enough
// distinct packs, or when it is a tight multi-member cluster. Each group
// carries a sanitized target path under the library root, its source
// folders, a merge strategy, a conflict policy and the file count the merge
// is expected to produce.
package fusion
