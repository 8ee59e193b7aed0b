// Package matrix summarizes classified packs into a family × type × style
// matrix.
//
// Each classified pack lands in exactly one entry. The content type comes
// from the pack's structural type buckets when present, otherwise from name
// patterns, otherwise from its loop/one-shot/preset flags. Entries also
// collect weighted naming signals (function, variant and context words)
// found in pack names, tags and folder names.
package matrix
